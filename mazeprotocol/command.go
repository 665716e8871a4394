package mazeprotocol

import (
	"strconv"
	"strings"
)

// Shape describes which response lines a command accepts. OVER is accepted
// by every shape.
type Shape int

const (
	// ShapeVoid accepts DONE.
	ShapeVoid Shape = iota
	// ShapeInt accepts DATA with exactly one integer.
	ShapeInt
	// ShapeInts accepts DATA with any number of integers.
	ShapeInts
	// ShapeMove accepts DONE or NOPE.
	ShapeMove
	// ShapeAny accepts every well-formed response. Used for raw commands.
	ShapeAny
)

// String returns the expected response pattern for error messages.
func (s Shape) String() string {
	switch s {
	case ShapeVoid:
		return "DONE"
	case ShapeInt:
		return "DATA <int>"
	case ShapeInts:
		return "DATA <int>..."
	case ShapeMove:
		return "DONE|NOPE <reason>"
	default:
		return "any"
	}
}

// Accepts reports whether a response of the given kind fits the shape.
// Integer payloads are validated separately.
func (s Shape) Accepts(kind ResponseKind) bool {
	if kind == ResponseOver {
		return true
	}
	switch s {
	case ShapeVoid:
		return kind == ResponseDone
	case ShapeInt, ShapeInts:
		return kind == ResponseData
	case ShapeMove:
		return kind == ResponseDone || kind == ResponseNope
	default:
		return true
	}
}

// Command is a single request line. Use the constructor functions
// (NewUserCommand, NewWhatCommand, etc.) to create commands with the
// correct response shape.
type Command struct {
	Name  string
	Args  []string
	Shape Shape
}

// NewUserCommand registers the player. It must be the first command.
func NewUserCommand(name string) Command {
	return Command{Name: CmdUser, Args: []string{name}, Shape: ShapeVoid}
}

// NewLevelCommand selects the level. It must be the second command.
func NewLevelCommand(code string) Command {
	return Command{Name: CmdLevel, Args: []string{code}, Shape: ShapeVoid}
}

// NewWidthCommand asks for the maze width.
func NewWidthCommand() Command {
	return Command{Name: CmdWidth, Shape: ShapeInt}
}

// NewHeightCommand asks for the maze height.
func NewHeightCommand() Command {
	return Command{Name: CmdHeight, Shape: ShapeInt}
}

// NewXCommand asks for the current column.
func NewXCommand() Command {
	return Command{Name: CmdX, Shape: ShapeInt}
}

// NewYCommand asks for the current row.
func NewYCommand() Command {
	return Command{Name: CmdY, Shape: ShapeInt}
}

// NewWhatCommand asks for the value of the cell at column x, row y.
func NewWhatCommand(x, y int) Command {
	return Command{
		Name:  CmdWhat,
		Args:  []string{strconv.Itoa(x), strconv.Itoa(y)},
		Shape: ShapeInt,
	}
}

// NewMazeCommand asks for every cell value in row-major order.
func NewMazeCommand() Command {
	return Command{Name: CmdMaze, Shape: ShapeInts}
}

// NewWaitCommand blocks until the game is started.
func NewWaitCommand() Command {
	return Command{Name: CmdWait, Shape: ShapeVoid}
}

// NewMoveCommand moves one cell in the given direction.
func NewMoveCommand(d Direction) Command {
	return Command{Name: CmdMove, Args: []string{d.Code()}, Shape: ShapeMove}
}

// Format returns the command as sent, without the line terminator.
func (c Command) Format() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// FormatLine returns the command with the trailing newline.
func (c Command) FormatLine() string {
	return c.Format() + "\n"
}

// commandShapes maps each known command word to its response shape.
var commandShapes = map[string]Shape{
	CmdUser:   ShapeVoid,
	CmdLevel:  ShapeVoid,
	CmdWidth:  ShapeInt,
	CmdHeight: ShapeInt,
	CmdX:      ShapeInt,
	CmdY:      ShapeInt,
	CmdWhat:   ShapeInt,
	CmdMaze:   ShapeInts,
	CmdWait:   ShapeVoid,
	CmdMove:   ShapeMove,
}

// ParseCommand parses a command line typed by a user or built from a
// template. The command word is upper-cased; unknown command words are
// accepted with ShapeAny so the server can judge them.
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, newInvalidCommandError("")
	}
	if strings.ContainsAny(line, "\r\n") {
		return Command{}, newInvalidCommandError(line)
	}

	name := strings.ToUpper(fields[0])
	shape, known := commandShapes[name]
	if !known {
		shape = ShapeAny
	}

	var args []string
	if len(fields) > 1 {
		args = fields[1:]
	}
	if name == CmdMove && len(args) == 1 {
		args[0] = strings.ToUpper(args[0])
	}
	return Command{Name: name, Args: args, Shape: shape}, nil
}
