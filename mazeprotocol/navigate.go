package mazeprotocol

import (
	"context"
	"errors"
)

// DecideFunc chooses the next move. It may call any query method of the
// client (position, geometry, cell values, snapshots) to decide.
type DecideFunc func() Direction

// MoveResult describes the previous move for a FeedbackFunc. The zero
// value (Attempted == false) is passed before the first move.
type MoveResult struct {
	Attempted bool
	Direction Direction
	Moved     bool
	Reason    string // rejection reason when Moved is false
}

// FeedbackFunc chooses the next move knowing how the previous one went.
type FeedbackFunc func(last MoveResult) Direction

// FinishWith plays the level to the end. It sends WAIT (unless the client
// was created WithoutWait) and then repeatedly moves in the direction
// returned by decide.
//
// The loop ends when the server sends OVER or a move is rejected; in both
// cases the carried message is returned with a nil error. Any other error
// is a failure.
func (c *Client) FinishWith(decide DecideFunc) (string, error) {
	return c.FinishWithContext(context.Background(), decide)
}

// FinishWithContext is FinishWith with cancellation. Cancelling ctx
// aborts a blocked command, which leaves the session unusable.
func (c *Client) FinishWithContext(ctx context.Context, decide DecideFunc) (string, error) {
	stop := context.AfterFunc(ctx, c.interrupt)
	defer stop()

	if err := c.start(); err != nil {
		return finalReport(ctx, err)
	}

	for {
		if err := c.pace(ctx); err != nil {
			return "", err
		}
		if err := c.Move(decide()); err != nil {
			return finalReport(ctx, err)
		}
	}
}

// RunWithFeedback plays the level like FinishWith but keeps going after a
// rejected move: the rejection is handed to next, which picks another
// direction. Only OVER (returned as the report) or a failure ends it.
func (c *Client) RunWithFeedback(ctx context.Context, next FeedbackFunc) (string, error) {
	stop := context.AfterFunc(ctx, c.interrupt)
	defer stop()

	if err := c.start(); err != nil {
		return finalReport(ctx, err)
	}

	var last MoveResult
	for {
		if err := c.pace(ctx); err != nil {
			return "", err
		}

		d := next(last)
		moved, err := c.TryMove(d)
		if err != nil {
			return finalReport(ctx, err)
		}

		last = MoveResult{Attempted: true, Direction: d, Moved: moved}
		if !moved {
			last.Reason = c.lastMoveError
		}
	}
}

// start sends WAIT when the client is configured to.
func (c *Client) start() error {
	if !c.opts.useWait {
		return nil
	}
	return c.Wait()
}

// pace blocks until the next move is allowed.
func (c *Client) pace(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.opts.limiter == nil {
		return nil
	}
	return c.opts.limiter.Wait(ctx)
}

// finalReport turns a loop-ending error into the loop's result.
func finalReport(ctx context.Context, err error) (string, error) {
	var over *GameOverError
	if errors.As(err, &over) {
		return over.Report, nil
	}
	var rejected *MoveRejectedError
	if errors.As(err, &rejected) {
		return rejected.Reason, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", errors.Join(ctxErr, err)
	}
	return "", err
}
