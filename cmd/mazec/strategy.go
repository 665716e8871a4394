package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/protab/mazec/mazeprotocol"
)

// GO CONCEPT: Function Types
// --------------------------
// A strategy is just a function type. Each constructor below returns a
// closure that captures its own state (a heading, a random source), which
// replaces what other languages would model as a class hierarchy.

// strategy plays a level to the end and returns the server's final report.
type strategy func(ctx context.Context, c *mazeprotocol.Client) (string, error)

// strategyNames lists the accepted --strategy values for help texts.
const strategyNames = "fixed:<up|down|left|right>, wall-follower, random"

// parseStrategy resolves a --strategy value. seed makes random runs
// repeatable.
func parseStrategy(name string, seed uint64) (strategy, error) {
	switch {
	case strings.HasPrefix(name, "fixed:"):
		d, err := mazeprotocol.ParseDirection(strings.TrimPrefix(name, "fixed:"))
		if err != nil {
			return nil, err
		}
		return fixedStrategy(d), nil
	case name == "wall-follower":
		return wallFollowerStrategy(mazeprotocol.Right), nil
	case name == "random":
		return randomStrategy(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))), nil
	}
	return nil, fmt.Errorf("unknown strategy %q (%s)", name, strategyNames)
}

// fixedStrategy moves in one direction until the game ends or a move is
// refused.
func fixedStrategy(d mazeprotocol.Direction) strategy {
	return func(ctx context.Context, c *mazeprotocol.Client) (string, error) {
		return c.FinishWithContext(ctx, func() mazeprotocol.Direction { return d })
	}
}

// wallFollower keeps its right hand on the wall. It only knows whether the
// previous move succeeded: after a step it turns right to look for an
// opening, after a bump it turns left.
type wallFollower struct {
	heading mazeprotocol.Direction
}

func (w *wallFollower) next(last mazeprotocol.MoveResult) mazeprotocol.Direction {
	switch {
	case !last.Attempted:
	case last.Moved:
		w.heading = last.Direction.TurnRight()
	default:
		w.heading = last.Direction.TurnLeft()
	}
	return w.heading
}

func wallFollowerStrategy(start mazeprotocol.Direction) strategy {
	return func(ctx context.Context, c *mazeprotocol.Client) (string, error) {
		w := &wallFollower{heading: start}
		return c.RunWithFeedback(ctx, w.next)
	}
}

// randomStrategy picks a random direction each step, never retrying the
// direction that was just refused.
func randomStrategy(rng *rand.Rand) strategy {
	return func(ctx context.Context, c *mazeprotocol.Client) (string, error) {
		return c.RunWithFeedback(ctx, func(last mazeprotocol.MoveResult) mazeprotocol.Direction {
			for {
				d := mazeprotocol.Directions[rng.IntN(len(mazeprotocol.Directions))]
				if last.Moved || !last.Attempted || d != last.Direction {
					return d
				}
			}
		})
	}
}
