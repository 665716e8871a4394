package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/protab/mazec/mazeprotocol"
)

func newMapCmd(a *app) *cobra.Command {
	var colourMode string

	cmd := &cobra.Command{
		Use:   "map",
		Short: "Print the maze",
		Long: `Logs in, fetches every cell value with one MAZE command and prints the
grid with the current position marked as @. No move is made.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			colour, err := useColour(colourMode, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			client, err := a.openSession(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer client.Close()

			return printMap(cmd.OutOrStdout(), client, colour)
		},
	}

	cmd.Flags().StringVar(&colourMode, "color", "auto", "highlight the position: auto, always or never")
	return cmd
}

// useColour resolves a --color value for out.
func useColour(mode string, out io.Writer) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto":
		f, ok := out.(*os.File)
		return ok && term.IsTerminal(int(f.Fd())), nil
	}
	return false, fmt.Errorf("invalid --color %q (auto, always, never)", mode)
}

// printMap fetches a snapshot and the position and prints both.
func printMap(out io.Writer, c *mazeprotocol.Client, colour bool) error {
	snap, err := c.Snapshot()
	if err != nil {
		return err
	}
	x, y, err := c.Position()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%dx%d, you are at (%d, %d)\n", snap.Width(), snap.Height(), x, y)
	fmt.Fprint(out, renderSnapshot(snap, x, y, colour))
	return nil
}
