package mazeprotocol

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync/atomic"
	"time"
)

// LineTransport carries newline-terminated text lines over a persistent
// connection.
type LineTransport interface {
	// SendLine writes text followed by a newline and flushes it.
	SendLine(text string) error

	// ReceiveLine blocks until one full line has arrived and returns it
	// without the terminator.
	ReceiveLine() (string, error)

	// Close releases the connection. Closing twice is not an error.
	Close() error
}

// ConnTransport is a LineTransport over a net.Conn.
//
// Writes go straight to the connection, so every line is flushed as soon
// as SendLine returns.
type ConnTransport struct {
	conn   net.Conn
	reader *bufio.Reader

	readTimeout time.Duration
	interrupted atomic.Bool
	closed      bool
}

// NewConnTransport wraps an established connection.
func NewConnTransport(conn net.Conn) *ConnTransport {
	return &ConnTransport{
		conn:   conn,
		reader: bufio.NewReader(conn),
	}
}

// SetReadTimeout bounds the next ReceiveLine calls. Zero disables the limit.
func (t *ConnTransport) SetReadTimeout(d time.Duration) {
	t.readTimeout = d
}

// Interrupt makes a blocked ReceiveLine return a timeout error at once,
// and every later send or receive fail the same way. It may be called from
// another goroutine.
func (t *ConnTransport) Interrupt() {
	t.interrupted.Store(true)
	t.conn.SetDeadline(time.Now())
}

// deadline returns the absolute deadline for the next I/O call.
func (t *ConnTransport) deadline() time.Time {
	if t.interrupted.Load() {
		return time.Now()
	}
	if t.readTimeout > 0 {
		return time.Now().Add(t.readTimeout)
	}
	return time.Time{}
}

// armDeadline applies the deadline for the next I/O call through set. An
// Interrupt that lands between computing the deadline and setting it would
// be overwritten, so the flag is checked again afterwards.
func (t *ConnTransport) armDeadline(set func(time.Time) error) {
	set(t.deadline())
	if t.interrupted.Load() {
		set(time.Now())
	}
}

// RemoteAddr returns the address of the server.
func (t *ConnTransport) RemoteAddr() string {
	if addr := t.conn.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return ""
}

// SendLine writes text and a newline. Text containing a line break is
// refused because it would split into two commands.
func (t *ConnTransport) SendLine(text string) error {
	if t.closed {
		return NewConnectionError("failed to send command", ErrClosed)
	}
	if strings.ContainsAny(text, "\r\n") {
		return fmt.Errorf("%w: line break inside command %q", ErrInvalidArgument, text)
	}

	t.armDeadline(t.conn.SetWriteDeadline)

	if _, err := io.WriteString(t.conn, text+"\n"); err != nil {
		return NewConnectionError("failed to send command", classifyNetError(err))
	}
	return nil
}

// ReceiveLine reads one line. A peer that closes the stream before
// finishing a line is a connection failure, never an empty response.
func (t *ConnTransport) ReceiveLine() (string, error) {
	if t.closed {
		return "", NewConnectionError("failed to receive response", ErrClosed)
	}

	t.armDeadline(t.conn.SetReadDeadline)

	var line []byte
	for {
		chunk, err := t.reader.ReadSlice('\n')
		if len(line)+len(chunk) > MaxLineLength+2 {
			return "", NewConnectionError("failed to receive response", ErrLineTooLong)
		}
		line = append(line, chunk...)

		if err == nil {
			break
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if errors.Is(err, io.EOF) {
			if len(line) == 0 {
				return "", NewConnectionError("server closed the connection", io.EOF)
			}
			return "", NewConnectionError("server closed the connection mid-line", io.ErrUnexpectedEOF)
		}
		return "", NewConnectionError("failed to receive response", classifyNetError(err))
	}

	text := strings.TrimSuffix(string(line), "\n")
	text = strings.TrimSuffix(text, "\r")
	if len(text) > MaxLineLength {
		return "", NewConnectionError("failed to receive response", ErrLineTooLong)
	}
	return text, nil
}

// Close closes the connection. Only the first call touches the socket.
func (t *ConnTransport) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	if err := t.conn.Close(); err != nil {
		return NewConnectionError("failed to close connection", err)
	}
	return nil
}

// classifyNetError maps deadline expiry to ErrTimeout.
func classifyNetError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return err
}
