// =============================================================================
// play.go - Keyboard Walk
// =============================================================================
//
// The play console moves the player from the keyboard. Each line holds one
// or more moves, either as W/A/S/D letters ("wwd") or as words ("up left").
// A refused move prints the server's reason and drops the rest of the line.
// Dot-commands query the game without moving.
//
// =============================================================================

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/protab/mazec/mazeprotocol"
)

const playPrompt = "[play] > "

func newPlayCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Walk the maze from the keyboard",
		Long: `Logs in and reads moves from the keyboard: W/A/S/D letters or the words
up, down, left, right. Type .help in the console for dot-commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			client, err := a.openSession(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer client.Close()

			editor := NewLineEditor(a.stdin, out)
			defer editor.Close()

			return a.withMetrics(cmd.Context(), func(_ context.Context) error {
				return runPlay(client, editor, out, a.cfg.UseWait)
			})
		},
	}

	cmd.Flags().Bool("no-wait", false, "start without sending WAIT")
	return cmd
}

// GO CONCEPT: Small Interfaces at the Point of Use
// ------------------------------------------------
// The consoles need one method of LineEditor, so they declare a
// one-method interface here rather than depending on the concrete type.
// LineEditor satisfies it implicitly; so would any test double.

// lineReader is the part of LineEditor the consoles need.
type lineReader interface {
	GetLine(prompt string) (string, error)
}

// playHelp lists the play console commands.
const playHelp = `Moves:
  w a s d        one move per letter, e.g. "wwd"
  up down left right
Dot-commands:
  .pos           show the current position
  .map           print the maze
  .last          show why the last refused move was refused
  .help          show this help
  .quit          leave the game
`

// GO CONCEPT: Labelled Outcomes Instead of Exceptions
// ---------------------------------------------------
// TryMove returns (false, nil) for a refused move and an error only when
// the session itself is over. The loop below keeps going on the first and
// stops on the second, so a wall never needs special error handling.

// runPlay runs the play console until the game ends or input runs out.
func runPlay(c *mazeprotocol.Client, in lineReader, out io.Writer, wait bool) error {
	if wait {
		fmt.Fprintln(out, "Waiting for the game to start...")
		if err := c.Wait(); err != nil {
			return endOfGame(out, err)
		}
	}
	fmt.Fprintln(out, "Type '.help' for available commands.")

	for {
		line, err := in.GetLine(playPrompt)
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out)
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var cmdErr error
		switch line {
		case ".quit":
			return nil
		case ".help":
			fmt.Fprint(out, playHelp)
			continue
		case ".last":
			fmt.Fprintf(out, "Last refusal: %q\n", c.LastMoveError())
			continue
		case ".pos":
			var x, y int
			if x, y, cmdErr = c.Position(); cmdErr == nil {
				fmt.Fprintf(out, "You are at (%d, %d)\n", x, y)
			}
		case ".map":
			cmdErr = printMap(out, c, false)
		default:
			moves, err := parseMoves(line)
			if err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
				continue
			}
			cmdErr = walk(c, moves, out)
		}

		if cmdErr != nil {
			return endOfGame(out, cmdErr)
		}
	}
}

// walk makes the moves in order and stops at the first refusal.
func walk(c *mazeprotocol.Client, moves []mazeprotocol.Direction, out io.Writer) error {
	for _, d := range moves {
		moved, err := c.TryMove(d)
		if err != nil {
			return err
		}
		if !moved {
			fmt.Fprintf(out, "Cannot move %s: %s\n", d, c.LastMoveError())
			return nil
		}
	}
	return nil
}

// endOfGame prints the report when the server ended the game and returns
// nil; any other error is returned unchanged.
func endOfGame(out io.Writer, err error) error {
	var over *mazeprotocol.GameOverError
	if errors.As(err, &over) {
		fmt.Fprintf(out, "Game over: %s\n", over.Report)
		return nil
	}
	return err
}

// parseMoves reads a line of moves: direction words, or runs of W/A/S/D
// letters.
func parseMoves(line string) ([]mazeprotocol.Direction, error) {
	var moves []mazeprotocol.Direction
	for _, field := range strings.Fields(line) {
		if d, err := mazeprotocol.ParseDirection(field); err == nil {
			moves = append(moves, d)
			continue
		}
		for _, ch := range field {
			d, err := mazeprotocol.ParseDirection(string(ch))
			if err != nil {
				return nil, fmt.Errorf("%q is not a move (try .help)", field)
			}
			moves = append(moves, d)
		}
	}
	return moves, nil
}
