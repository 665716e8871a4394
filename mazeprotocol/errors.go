package mazeprotocol

import (
	"errors"
	"fmt"
)

// Sentinel errors for the maze protocol.
var (
	// ErrClosed indicates the session was closed by the caller.
	ErrClosed = errors.New("session closed")

	// ErrTimeout indicates the server did not answer in time.
	ErrTimeout = errors.New("timed out waiting for response")

	// ErrLineTooLong indicates a received line exceeded MaxLineLength.
	ErrLineTooLong = errors.New("line too long")

	// ErrInvalidArgument indicates a command could not be built from the
	// given arguments. It is detected locally and does not end the session.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrOutOfRange indicates a snapshot lookup outside the grid.
	ErrOutOfRange = errors.New("coordinates out of range")
)

// ProtocolErrorKind categorizes protocol violations.
type ProtocolErrorKind int

const (
	// ErrKindUnknownResponse indicates a line with no known response marker.
	ErrKindUnknownResponse ProtocolErrorKind = iota
	// ErrKindUnexpectedShape indicates a well-formed response that the
	// issuing command does not accept.
	ErrKindUnexpectedShape
	// ErrKindMalformedData indicates a DATA payload that is not integers.
	ErrKindMalformedData
	// ErrKindCellCount indicates a MAZE payload of the wrong length.
	ErrKindCellCount
)

// ProtocolError reports that client and server disagree about the
// conversation. It is fatal: the session cannot be trusted afterwards.
type ProtocolError struct {
	Kind     ProtocolErrorKind
	Command  string // command word that was issued, if known
	Expected string // accepted response pattern, if relevant
	Line     string // offending line
	Message  string // additional context
}

// Error implements the error interface.
func (e *ProtocolError) Error() string {
	switch e.Kind {
	case ErrKindUnknownResponse:
		return fmt.Sprintf("protocol error: unknown response %q", e.Line)
	case ErrKindUnexpectedShape:
		return fmt.Sprintf("protocol error: %s expects %s, got %q", e.Command, e.Expected, e.Line)
	case ErrKindMalformedData:
		return fmt.Sprintf("protocol error: malformed data %q", e.Line)
	case ErrKindCellCount:
		return fmt.Sprintf("protocol error: %s", e.Message)
	default:
		return fmt.Sprintf("protocol error: %s", e.Line)
	}
}

func newUnknownResponseError(line string) error {
	return &ProtocolError{Kind: ErrKindUnknownResponse, Line: line}
}

func newUnexpectedShapeError(cmd Command, resp Response) error {
	return &ProtocolError{
		Kind:     ErrKindUnexpectedShape,
		Command:  cmd.Name,
		Expected: cmd.Shape.String(),
		Line:     resp.Format(),
	}
}

func newMalformedDataError(line string) error {
	return &ProtocolError{Kind: ErrKindMalformedData, Line: line}
}

func newCellCountError(width, height, got int) error {
	return &ProtocolError{
		Kind:    ErrKindCellCount,
		Command: CmdMaze,
		Message: fmt.Sprintf("expected %dx%d=%d cells, got %d", width, height, width*height, got),
	}
}

func newMazeTooLargeError(width, height int) error {
	return &ProtocolError{
		Kind:    ErrKindCellCount,
		Command: CmdMaze,
		Message: fmt.Sprintf("maze of %dx%d exceeds %d cells", width, height, MaxCells),
	}
}

func newInvalidCommandError(line string) error {
	return fmt.Errorf("%w: invalid command %q", ErrInvalidArgument, line)
}

// ConnectionError represents a transport failure: the connection could not
// be established, broke, was closed by the peer or timed out.
type ConnectionError struct {
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("connection failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("connection failed: %s", e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// NewConnectionError creates a new connection error.
func NewConnectionError(message string, cause error) error {
	return &ConnectionError{Message: message, Cause: cause}
}

// GameOverError reports that the server ended the session. Report is the
// human-readable outcome sent with OVER.
type GameOverError struct {
	Report string
}

// Error implements the error interface.
func (e *GameOverError) Error() string {
	return "game over: " + e.Report
}

// MoveRejectedError reports that the server refused a move.
type MoveRejectedError struct {
	Direction Direction
	Reason    string
}

// Error implements the error interface.
func (e *MoveRejectedError) Error() string {
	return fmt.Sprintf("move %s rejected: %s", e.Direction, e.Reason)
}

// IsFatal reports whether err is a connection or protocol failure after
// which the session is unusable.
func IsFatal(err error) bool {
	var connErr *ConnectionError
	var protoErr *ProtocolError
	return errors.As(err, &connErr) || errors.As(err, &protoErr)
}

// IsGameOver reports whether err means the server ended the session.
func IsGameOver(err error) bool {
	var over *GameOverError
	return errors.As(err, &over)
}

// IsMoveRejected reports whether err is a refused move.
func IsMoveRejected(err error) bool {
	var rejected *MoveRejectedError
	return errors.As(err, &rejected)
}
