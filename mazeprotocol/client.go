package mazeprotocol

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client is one game session with the maze server.
//
// It owns its transport exclusively. Every method blocks until the
// server's single-line answer arrives. A Client must not be used from
// several goroutines at once.
type Client struct {
	transport LineTransport
	parser    *ResponseParser
	opts      options
	logger    *slog.Logger
	sessionID string

	// Geometry never changes during a session, so it is fetched once.
	width  *int
	height *int

	lastMoveError string

	// fault is the first fatal error; over is set once OVER was received.
	// Either one makes every later command fail without touching the
	// network.
	fault  error
	over   *GameOverError
	closed bool
}

// Dial connects to the server at addr over TCP and performs the handshake
// (USER, then LEVL). If the server ends the session during the handshake,
// for example because the level code is unknown, the error is a
// *GameOverError carrying the server's report.
func Dial(ctx context.Context, addr, user, level string, opts ...Option) (*Client, error) {
	o := buildOptions(opts)

	dialCtx := ctx
	if o.dialTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, o.dialTimeout)
		defer cancel()
	}

	var d net.Dialer
	conn, err := d.DialContext(dialCtx, "tcp", addr)
	if err != nil {
		return nil, NewConnectionError("failed to connect to "+addr, err)
	}

	return NewClient(NewConnTransport(conn), user, level, opts...)
}

// NewClient performs the handshake over an established transport. On
// failure the transport is closed.
func NewClient(transport LineTransport, user, level string, opts ...Option) (*Client, error) {
	o := buildOptions(opts)
	c := &Client{
		transport: transport,
		parser:    NewResponseParser(),
		opts:      o,
		sessionID: uuid.NewString()[:12],
	}

	c.logger = o.logger.With("session", c.sessionID)
	if remote, ok := transport.(interface{ RemoteAddr() string }); ok {
		c.logger = c.logger.With("server", remote.RemoteAddr())
	}

	c.logger.Info("connected, sending username", "user", user)
	if err := c.voidCommand(NewUserCommand(user)); err != nil {
		c.abandon(err)
		return nil, err
	}

	c.logger.Info("logged in, sending level code", "level", level)
	if err := c.voidCommand(NewLevelCommand(level)); err != nil {
		c.abandon(err)
		return nil, err
	}

	c.logger.Info("level started", "level", level)
	return c, nil
}

// abandon closes the transport after a failed handshake.
func (c *Client) abandon(err error) {
	c.logger.Warn("handshake failed", "error", err)
	c.Close()
}

// SessionID returns the random identifier attached to this session's logs.
func (c *Client) SessionID() string {
	return c.sessionID
}

// Close releases the connection. It is safe to call more than once; only
// a failure of the underlying release is reported.
func (c *Client) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	switch {
	case c.over != nil:
		c.opts.metrics.observeSessionEnd(OutcomeOver)
	case c.fault != nil:
		c.opts.metrics.observeSessionEnd(OutcomeFault)
	default:
		c.opts.metrics.observeSessionEnd("closed")
	}

	c.logger.Debug("closing session")
	return c.transport.Close()
}

// Err returns the error that ended the session: the first fatal error, or
// the *GameOverError once the server sent OVER. It is nil while the session
// is usable.
func (c *Client) Err() error {
	if c.fault != nil {
		return c.fault
	}
	if c.over != nil {
		return c.over
	}
	return nil
}

// Execute formats a command line from template and args, sends it and
// returns the classified response. OVER is returned as a response of kind
// ResponseOver together with a *GameOverError. The response shape is not
// checked beyond what the command word implies.
func (c *Client) Execute(template string, args ...any) (Response, error) {
	cmd, err := ParseCommand(fmt.Sprintf(template, args...))
	if err != nil {
		return Response{}, err
	}
	return c.Send(cmd)
}

// Send runs one command and checks the response against the command's
// shape. A mismatch is a fatal *ProtocolError.
func (c *Client) Send(cmd Command) (Response, error) {
	resp, err := c.exchange(cmd)
	if err != nil {
		return resp, err
	}
	if !cmd.Shape.Accepts(resp.Kind) {
		return resp, c.fail(newUnexpectedShapeError(cmd, resp))
	}
	if resp.Kind == ResponseOver {
		return resp, c.over
	}
	return resp, nil
}

// exchange sends one line and reads one line back.
func (c *Client) exchange(cmd Command) (Response, error) {
	if c.closed {
		return Response{}, NewConnectionError("cannot send "+cmd.Name, ErrClosed)
	}
	if c.fault != nil {
		return Response{}, c.fault
	}
	if c.over != nil {
		return Response{}, c.over
	}

	line := cmd.Format()
	if strings.ContainsAny(line, "\r\n") {
		return Response{}, fmt.Errorf("%w: line break inside %s command", ErrInvalidArgument, cmd.Name)
	}

	c.applyTimeout(cmd)

	start := time.Now()
	c.logger.Debug("sending command", "command", line)

	if err := c.transport.SendLine(line); err != nil {
		if errors.Is(err, ErrInvalidArgument) {
			return Response{}, err
		}
		c.opts.metrics.observeCommand(cmd.Name, OutcomeFault, time.Since(start))
		return Response{}, c.fail(err)
	}

	text, err := c.transport.ReceiveLine()
	if err != nil {
		c.opts.metrics.observeCommand(cmd.Name, OutcomeFault, time.Since(start))
		return Response{}, c.fail(err)
	}
	c.logger.Debug("received response", "command", cmd.Name, "response", text)

	resp, err := c.parser.Parse(text)
	if err != nil {
		c.opts.metrics.observeCommand(cmd.Name, OutcomeFault, time.Since(start))
		return Response{}, c.fail(err)
	}
	c.opts.metrics.observeCommand(cmd.Name, outcomeOf(resp.Kind), time.Since(start))

	if resp.Kind == ResponseOver {
		c.over = &GameOverError{Report: resp.Data}
		c.logger.Info("game over", "command", cmd.Name, "report", resp.Data)
	}
	return resp, nil
}

// applyTimeout sets the transport deadline for the command about to run.
func (c *Client) applyTimeout(cmd Command) {
	t, ok := c.transport.(interface{ SetReadTimeout(time.Duration) })
	if !ok {
		return
	}
	if cmd.Name == CmdWait {
		t.SetReadTimeout(c.opts.waitTimeout)
		return
	}
	t.SetReadTimeout(c.opts.commandTimeout)
}

// fail records a fatal error. The session is unusable afterwards.
func (c *Client) fail(err error) error {
	if c.fault == nil {
		c.fault = err
		c.logger.Error("session failed", "error", err)
	}
	return err
}

// interrupt aborts a blocked command from another goroutine, if the
// transport supports it.
func (c *Client) interrupt() {
	if t, ok := c.transport.(interface{ Interrupt() }); ok {
		t.Interrupt()
	}
}

// voidCommand runs a command that must answer DONE.
func (c *Client) voidCommand(cmd Command) error {
	_, err := c.Send(cmd)
	return err
}

// intCommand runs a command that must answer DATA with one integer.
func (c *Client) intCommand(cmd Command) (int, error) {
	resp, err := c.Send(cmd)
	if err != nil {
		return 0, err
	}
	n, err := resp.Int()
	if err != nil {
		return 0, c.fail(err)
	}
	return n, nil
}

// Width returns the maze width in cells. The first call asks the server;
// later calls return the remembered value.
func (c *Client) Width() (int, error) {
	if c.width == nil {
		w, err := c.intCommand(NewWidthCommand())
		if err != nil {
			return 0, err
		}
		c.width = &w
	}
	return *c.width, nil
}

// Height returns the maze height in cells, asking the server only once.
func (c *Client) Height() (int, error) {
	if c.height == nil {
		h, err := c.intCommand(NewHeightCommand())
		if err != nil {
			return 0, err
		}
		c.height = &h
	}
	return *c.height, nil
}

// X returns the current column. It always asks the server.
func (c *Client) X() (int, error) {
	return c.intCommand(NewXCommand())
}

// Y returns the current row. It always asks the server.
func (c *Client) Y() (int, error) {
	return c.intCommand(NewYCommand())
}

// Position returns the current column and row.
func (c *Client) Position() (x, y int, err error) {
	if x, err = c.X(); err != nil {
		return 0, 0, err
	}
	if y, err = c.Y(); err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

// ValueAt asks the server for the value of the cell at column x, row y.
// The coordinates are not checked locally; the server decides whether
// they are valid.
func (c *Client) ValueAt(x, y int) (int, error) {
	return c.intCommand(NewWhatCommand(x, y))
}

// Wait blocks until the game is started on the server.
func (c *Client) Wait() error {
	c.logger.Info("waiting for the game to start")
	return c.voidCommand(NewWaitCommand())
}

// LastMoveError returns the reason the most recent rejected move was
// refused. It is not cleared by successful moves.
func (c *Client) LastMoveError() string {
	return c.lastMoveError
}

// TryMove attempts to move one cell. A refused move returns false and a nil
// error; the reason is available from LastMoveError.
func (c *Client) TryMove(d Direction) (bool, error) {
	if !d.Valid() {
		return false, fmt.Errorf("%w: direction %q", ErrInvalidArgument, byte(d))
	}

	resp, err := c.Send(NewMoveCommand(d))
	if err != nil {
		if IsGameOver(err) {
			c.opts.metrics.observeMove(d, OutcomeOver)
		}
		return false, err
	}

	if resp.Kind == ResponseNope {
		c.lastMoveError = resp.Data
		c.opts.metrics.observeMove(d, "rejected")
		c.logger.Debug("move rejected", "direction", d.String(), "reason", resp.Data)
		return false, nil
	}

	c.opts.metrics.observeMove(d, "moved")
	return true, nil
}

// Move moves one cell. A refused move returns a *MoveRejectedError
// carrying the server's reason.
func (c *Client) Move(d Direction) error {
	moved, err := c.TryMove(d)
	if err != nil {
		return err
	}
	if !moved {
		return &MoveRejectedError{Direction: d, Reason: c.lastMoveError}
	}
	return nil
}
