package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/protab/mazec/mazeprotocol"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		strategyName string
		seed         uint64
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Play the level with a built-in strategy",
		Long: `Logs in, waits until the game is started on the server (unless --no-wait),
then moves until the server ends the game. The final report is printed.

Strategies: ` + strategyNames + `.
fixed stops at the first refused move; the others keep going.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			play, err := parseStrategy(strategyName, seed)
			if err != nil {
				return err
			}
			return a.runStrategy(cmd, play)
		},
	}

	cmd.Flags().StringVarP(&strategyName, "strategy", "s", "wall-follower", "how to choose moves: "+strategyNames)
	cmd.Flags().Uint64Var(&seed, "seed", uint64(time.Now().UnixNano()), "seed for the random strategy")
	cmd.Flags().Float64("moves-per-second", 0, "limit the move rate (0 for no limit)")
	cmd.Flags().Bool("no-wait", false, "start moving without sending WAIT")
	return cmd
}

// GO CONCEPT: signal.NotifyContext
// --------------------------------
// NotifyContext returns a context that is cancelled when the process gets
// one of the listed signals. Ctrl-C then flows through the same ctx.Done()
// path as a deadline, and the navigation loop interrupts the blocked read.
// The returned stop function restores default signal handling.

// runStrategy plays one session with play and prints its report. Ctrl-C
// aborts the game and closes the connection.
func (a *app) runStrategy(cmd *cobra.Command, play strategy) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	client, err := a.openSession(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer client.Close()

	var report string
	err = a.withMetrics(ctx, func(ctx context.Context) error {
		var playErr error
		report, playErr = play(ctx, client)
		return playErr
	})
	if err != nil {
		return fmt.Errorf("game aborted: %w", err)
	}

	if mazeprotocol.IsGameOver(client.Err()) {
		fmt.Fprintf(out, "Game over: %s\n", report)
		return nil
	}
	fmt.Fprintf(out, "Stopped: move refused: %s\n", report)
	return nil
}
