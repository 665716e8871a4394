package mazeprotocol

import (
	"fmt"
	"strings"
)

// Direction is one of the four movement codes understood by MOVE.
type Direction byte

const (
	Up    Direction = 'W'
	Down  Direction = 'S'
	Left  Direction = 'A'
	Right Direction = 'D'
)

// Directions lists every valid direction in clockwise order starting at Up.
var Directions = [4]Direction{Up, Right, Down, Left}

// Valid reports whether d is one of the four movement codes.
func (d Direction) Valid() bool {
	switch d {
	case Up, Down, Left, Right:
		return true
	}
	return false
}

// String returns the lower-case name of the direction.
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("Direction(%q)", byte(d))
	}
}

// Code returns the single-character wire code of the direction.
func (d Direction) Code() string {
	return string(rune(d))
}

// Delta returns the change in column and row caused by moving in d.
// Row 0 is the top of the maze, so Up decreases y.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	}
	return 0, 0
}

// TurnRight returns the direction 90 degrees clockwise from d.
func (d Direction) TurnRight() Direction {
	return d.rotate(1)
}

// TurnLeft returns the direction 90 degrees counter-clockwise from d.
func (d Direction) TurnLeft() Direction {
	return d.rotate(3)
}

// Opposite returns the reverse of d.
func (d Direction) Opposite() Direction {
	return d.rotate(2)
}

func (d Direction) rotate(quarters int) Direction {
	for i, dir := range Directions {
		if dir == d {
			return Directions[(i+quarters)%len(Directions)]
		}
	}
	return d
}

// ParseDirection parses a direction code (W, A, S, D in either case) or a
// direction name (up, down, left, right).
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "w", "up":
		return Up, nil
	case "s", "down":
		return Down, nil
	case "a", "left":
		return Left, nil
	case "d", "right":
		return Right, nil
	}
	return 0, fmt.Errorf("%w: unknown direction %q", ErrInvalidArgument, s)
}
