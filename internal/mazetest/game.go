package mazetest

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Cell values used by Game.
const (
	Floor = 0
	Wall  = 1
	Goal  = 2
)

// Default texts sent by Game.
const (
	DefaultLevel     = "level1"
	WinReport        = "finished"
	WallReason       = "wall"
	OutOfRangeReason = "out of range"
)

// Game simulates one level of the maze server. Build it with NewGame.
type Game struct {
	mu sync.Mutex

	cells [][]int
	x, y  int

	// Level is the only level code accepted by LEVL.
	Level string
	// MaxMoves ends the game with OVER after that many accepted moves.
	// Zero means unlimited.
	MaxMoves int

	stage int
	moves int
}

// NewGame parses a level drawn as text rows: '#' is a wall, '.' floor,
// 'G' the goal and 'S' the start position (on floor). Digits are stored
// as their value.
func NewGame(rows ...string) *Game {
	g := &Game{Level: DefaultLevel}
	for y, row := range rows {
		cells := make([]int, len(row))
		for x, ch := range row {
			switch {
			case ch == '#':
				cells[x] = Wall
			case ch == 'G':
				cells[x] = Goal
			case ch == 'S':
				cells[x] = Floor
				g.x, g.y = x, y
			case ch >= '0' && ch <= '9':
				cells[x] = int(ch - '0')
			default:
				cells[x] = Floor
			}
		}
		g.cells = append(g.cells, cells)
	}
	return g
}

// Width returns the number of columns.
func (g *Game) Width() int {
	if len(g.cells) == 0 {
		return 0
	}
	return len(g.cells[0])
}

// Height returns the number of rows.
func (g *Game) Height() int {
	return len(g.cells)
}

// Position returns the current column and row.
func (g *Game) Position() (int, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.x, g.y
}

// Moves returns the number of accepted moves.
func (g *Game) Moves() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.moves
}

// Handle implements Handler.
func (g *Game) Handle(line string) (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	cmd, arg, _ := strings.Cut(line, " ")

	switch g.stage {
	case 0:
		if cmd != "USER" || arg == "" {
			return over("communication must start with USER")
		}
		g.stage++
		return "DONE", false
	case 1:
		if cmd != "LEVL" {
			return over("second command must be LEVL")
		}
		if arg != g.Level {
			return over("level " + arg + " does not exist")
		}
		g.stage++
		return "DONE", false
	}

	switch cmd {
	case "GETW":
		return data(g.Width()), false
	case "GETH":
		return data(g.Height()), false
	case "GETX":
		return data(g.x), false
	case "GETY":
		return data(g.y), false
	case "WAIT":
		return "DONE", false
	case "WHAT":
		x, y, ok := parsePair(arg)
		if !ok {
			return over("WHAT expects two numbers")
		}
		if !g.inside(x, y) {
			return "NOPE " + OutOfRangeReason, false
		}
		return data(g.cells[y][x]), false
	case "MAZE":
		var values []int
		for _, row := range g.cells {
			values = append(values, row...)
		}
		return data(values...), false
	case "MOVE":
		return g.move(arg)
	}
	return over("unknown command " + cmd)
}

func (g *Game) move(arg string) (string, bool) {
	var dx, dy int
	switch arg {
	case "W":
		dy = -1
	case "S":
		dy = 1
	case "A":
		dx = -1
	case "D":
		dx = 1
	default:
		return over("MOVE expects one of W, A, S, D")
	}

	nx, ny := g.x+dx, g.y+dy
	if !g.inside(nx, ny) || g.cells[ny][nx] == Wall {
		return "NOPE " + WallReason, false
	}

	g.x, g.y = nx, ny
	g.moves++
	if g.cells[ny][nx] == Goal {
		return over(WinReport)
	}
	if g.MaxMoves > 0 && g.moves >= g.MaxMoves {
		return over("out of moves")
	}
	return "DONE", false
}

func (g *Game) inside(x, y int) bool {
	return y >= 0 && y < len(g.cells) && x >= 0 && x < len(g.cells[y])
}

func over(report string) (string, bool) {
	return "OVER " + report, true
}

func data(values ...int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return "DATA " + strings.Join(parts, " ")
}

func parsePair(arg string) (int, int, bool) {
	var x, y int
	if _, err := fmt.Sscanf(arg, "%d %d", &x, &y); err != nil {
		return 0, 0, false
	}
	return x, y, true
}
