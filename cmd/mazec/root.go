// =============================================================================
// root.go - Command Tree and Shared Setup
// =============================================================================
//
// The root command owns the flags every subcommand shares: where the server
// is, who is playing, which level, timeouts and logging. Its
// PersistentPreRunE loads the config file, applies flag overrides and builds
// the logger before any subcommand runs.
//
// =============================================================================

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/protab/mazec/mazeprotocol"
)

// app carries the state shared by all subcommands of one invocation.
type app struct {
	stdin io.Reader

	configPath string
	cfg        Config
	logger     *slog.Logger

	// registry and metrics are set only when a metrics address is
	// configured.
	registry *prometheus.Registry
	metrics  *mazeprotocol.Metrics
}

// GO CONCEPT: Closures over Shared State
// --------------------------------------
// Cobra calls RunE and PersistentPreRunE as plain functions. Method values
// like a.setup carry their receiver with them, so every subcommand sees
// the same *app that setup filled in, without package-level variables.

// newRootCmd builds the full command tree. stdin feeds the interactive
// subcommands.
func newRootCmd(stdin io.Reader) *cobra.Command {
	a := &app{stdin: stdin}

	root := &cobra.Command{
		Use:   appName,
		Short: "Client for the maze game server",
		Long: `mazec connects to a maze game server, logs in with a user name and a
level code, and plays the level: with a built-in strategy (run), from the
keyboard (play) or by typing protocol commands (raw). map prints the maze.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.Version = version
	root.SetVersionTemplate(fullTitle() + "\n")

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default $HOME/"+configFileName+")")
	flags.String("server", mazeprotocol.DefaultAddress, "server address (host:port)")
	flags.StringP("user", "u", "", "user name sent with USER")
	flags.StringP("level", "l", "", "level code sent with LEVL")
	flags.Duration("command-timeout", mazeprotocol.DefaultCommandTimeout, "time limit for each response (0 waits forever)")
	flags.Duration("wait-timeout", mazeprotocol.DefaultWaitTimeout, "time limit for WAIT (0 waits forever)")
	flags.String("log-level", DefaultLogLevel, "log level: debug, info, warn, error")
	flags.String("log-format", DefaultLogFormat, "log format: text or json")
	flags.String("metrics-addr", "", "serve Prometheus metrics on this address while playing")

	root.AddCommand(
		newRunCmd(a),
		newPlayCmd(a),
		newMapCmd(a),
		newRawCmd(a),
	)
	return root
}

// setup loads the configuration and prepares logging and metrics.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	path, mustExist := a.configPath, true
	if path == "" {
		path, mustExist = defaultConfigPath(), false
	}

	cfg, err := LoadConfig(path, mustExist)
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return err
	}
	if err := ValidateConfig(cfg); err != nil {
		return err
	}
	a.cfg = *cfg

	a.logger, err = newLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	if cfg.MetricsAddr != "" {
		a.registry = prometheus.NewRegistry()
		a.metrics = mazeprotocol.NewMetrics(a.registry)
	}

	a.logger.Debug("configuration loaded", "config", path, "server", cfg.Server)
	return nil
}

// GO CONCEPT: Maps of Pointers
// ----------------------------
// stringFlags maps a flag name to the address of the Config field it
// overrides. One loop then handles every string flag, and flags.Changed
// makes sure an unset flag never hides a value from the config file.

// applyFlags copies every flag the user set explicitly over cfg.
func applyFlags(cmd *cobra.Command, cfg *Config) error {
	flags := cmd.Flags()

	stringFlags := map[string]*string{
		"server":       &cfg.Server,
		"user":         &cfg.User,
		"level":        &cfg.Level,
		"log-level":    &cfg.LogLevel,
		"log-format":   &cfg.LogFormat,
		"metrics-addr": &cfg.MetricsAddr,
	}
	for name, dst := range stringFlags {
		if !flags.Changed(name) {
			continue
		}
		v, err := flags.GetString(name)
		if err != nil {
			return err
		}
		*dst = v
	}

	durationFlags := map[string]*time.Duration{
		"command-timeout": &cfg.CommandTimeout,
		"wait-timeout":    &cfg.WaitTimeout,
	}
	for name, dst := range durationFlags {
		if !flags.Changed(name) {
			continue
		}
		v, err := flags.GetDuration(name)
		if err != nil {
			return err
		}
		*dst = v
	}

	// Flags that only some subcommands define.
	if flags.Lookup("no-wait") != nil && flags.Changed("no-wait") {
		noWait, err := flags.GetBool("no-wait")
		if err != nil {
			return err
		}
		cfg.UseWait = !noWait
	}
	if flags.Lookup("moves-per-second") != nil && flags.Changed("moves-per-second") {
		mps, err := flags.GetFloat64("moves-per-second")
		if err != nil {
			return err
		}
		cfg.MovesPerSecond = mps
	}
	return nil
}

// sessionOptions translates the configuration into client options.
func (a *app) sessionOptions() []mazeprotocol.Option {
	opts := []mazeprotocol.Option{
		mazeprotocol.WithLogger(a.logger),
		mazeprotocol.WithCommandTimeout(a.cfg.CommandTimeout),
		mazeprotocol.WithWaitTimeout(a.cfg.WaitTimeout),
		mazeprotocol.WithMovePacing(a.cfg.MovesPerSecond),
	}
	if !a.cfg.UseWait {
		opts = append(opts, mazeprotocol.WithoutWait())
	}
	if a.metrics != nil {
		opts = append(opts, mazeprotocol.WithMetrics(a.metrics))
	}
	return opts
}

// openSession connects and logs in with the configured user and level.
func (a *app) openSession(ctx context.Context, status io.Writer) (*mazeprotocol.Client, error) {
	if err := ValidateLogin(&a.cfg); err != nil {
		return nil, err
	}

	fmt.Fprintf(status, "Connecting to %s...\n", a.cfg.Server)
	client, err := mazeprotocol.Dial(ctx, a.cfg.Server, a.cfg.User, a.cfg.Level, a.sessionOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to start level %s: %w", a.cfg.Level, err)
	}
	fmt.Fprintf(status, "Playing level %s as %s\n", a.cfg.Level, a.cfg.User)
	return client, nil
}
