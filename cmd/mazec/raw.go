// =============================================================================
// raw.go - Raw Protocol Console
// =============================================================================
//
// The raw console sends each typed line to the server as a command and
// prints the classified response. It is meant for exploring a level by
// hand: "GETW", "WHAT 3 4", "MOVE D". Command words may be typed in lower
// case. Known commands still have their responses checked, so a server
// answering out of turn ends the session like it would for a program.
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

const rawPrompt = "[raw] > "

func newRawCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "raw",
		Short: "Type protocol commands by hand",
		Long: `Logs in and opens a console that sends each line as a protocol command,
printing the server's response. Type .help in the console for details.`,
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
				return runRaw(client, editor, out)
			})
		},
	}
}

const rawHelp = `Commands (sent as typed):
  GETW / GETH       maze width / height
  GETX / GETY       current column / row
  WHAT <x> <y>      value of a cell
  MAZE              every cell, row by row
  WAIT              block until the game starts
  MOVE <W|A|S|D>    move up, left, down or right
Dot-commands:
  .help             show this help
  .quit             leave the console
`

// GO CONCEPT: Variadic Functions
// ------------------------------
// Client.Execute(template string, args ...any) accepts any number of
// trailing arguments. Passing "%s" and the typed line sends it verbatim,
// without the line itself being treated as a format string.

// runRaw runs the raw console until the game ends or input runs out.
func runRaw(c *mazeprotocol.Client, in lineReader, out io.Writer) error {
	fmt.Fprintln(out, "Type '.help' for available commands.")

	for {
		line, err := in.GetLine(rawPrompt)
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out)
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case ".quit":
			return nil
		case ".help":
			fmt.Fprint(out, rawHelp)
			continue
		}

		resp, err := c.Execute("%s", line)
		switch {
		case errors.Is(err, mazeprotocol.ErrInvalidArgument):
			fmt.Fprintf(out, "Error: %v\n", err)
		case err != nil:
			return endOfGame(out, err)
		default:
			fmt.Fprintln(out, resp.Format())
		}
	}
}
