package mazeprotocol

import "fmt"

// Grid is anything that can report cell values by column and row. Both a
// live *Client and a pre-fetched *Snapshot are Grids.
type Grid interface {
	ValueAt(x, y int) (int, error)
}

// Snapshot is an immutable copy of every cell value, fetched with a single
// MAZE command. It never talks to the server after it is built and is not
// updated when the game state changes.
type Snapshot struct {
	width  int
	height int
	cells  [][]int // cells[row][col]
}

// NewSnapshot builds a snapshot from width*height values in row-major
// order: row 0 first, each row from column 0 to the right.
func NewSnapshot(width, height int, values []int) (*Snapshot, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: negative size %dx%d", ErrInvalidArgument, width, height)
	}
	if err := checkSize(width, height); err != nil {
		return nil, err
	}
	if len(values) != width*height {
		return nil, newCellCountError(width, height, len(values))
	}

	cells := make([][]int, height)
	for row := range cells {
		cells[row] = make([]int, width)
		copy(cells[row], values[row*width:(row+1)*width])
	}
	return &Snapshot{width: width, height: height, cells: cells}, nil
}

// checkSize refuses mazes with more than MaxCells cells, in either
// dimension alone or as a product, before anything is allocated.
func checkSize(width, height int) error {
	if width > MaxCells || height > MaxCells || (width > 0 && height > MaxCells/width) {
		return newMazeTooLargeError(width, height)
	}
	return nil
}

// Width returns the number of columns.
func (s *Snapshot) Width() int { return s.width }

// Height returns the number of rows.
func (s *Snapshot) Height() int { return s.height }

// Contains reports whether column x, row y lies inside the grid.
func (s *Snapshot) Contains(x, y int) bool {
	return x >= 0 && x < s.width && y >= 0 && y < s.height
}

// ValueAt returns the value at column x, row y. Coordinates outside the
// grid return an error wrapping ErrOutOfRange.
func (s *Snapshot) ValueAt(x, y int) (int, error) {
	if !s.Contains(x, y) {
		return 0, fmt.Errorf("%w: (%d, %d) in %dx%d maze", ErrOutOfRange, x, y, s.width, s.height)
	}
	return s.cells[y][x], nil
}

// Rows returns a copy of the grid indexed [row][col].
func (s *Snapshot) Rows() [][]int {
	rows := make([][]int, s.height)
	for i, row := range s.cells {
		rows[i] = append([]int(nil), row...)
	}
	return rows
}

// Snapshot fetches every cell value at once. It resolves (and remembers)
// the geometry first, then sends MAZE and expects exactly width*height
// integers. Prefer it over many ValueAt calls when most of the maze is
// needed.
func (c *Client) Snapshot() (*Snapshot, error) {
	width, err := c.Width()
	if err != nil {
		return nil, err
	}
	height, err := c.Height()
	if err != nil {
		return nil, err
	}
	if width < 0 || height < 0 {
		return nil, c.fail(newMalformedDataError(fmt.Sprintf("size %dx%d", width, height)))
	}
	if err := checkSize(width, height); err != nil {
		return nil, c.fail(err)
	}

	resp, err := c.Send(NewMazeCommand())
	if err != nil {
		return nil, err
	}
	values, err := resp.Ints()
	if err != nil {
		return nil, c.fail(err)
	}

	snap, err := NewSnapshot(width, height, values)
	if err != nil {
		return nil, c.fail(err)
	}
	return snap, nil
}
