package mazeprotocol

import (
	"io"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// Option configures a Client.
type Option func(*options)

type options struct {
	logger         *slog.Logger
	metrics        *Metrics
	commandTimeout time.Duration
	waitTimeout    time.Duration
	dialTimeout    time.Duration
	useWait        bool
	limiter        *rate.Limiter
}

func defaultOptions() options {
	return options{
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		commandTimeout: DefaultCommandTimeout,
		waitTimeout:    DefaultWaitTimeout,
		dialTimeout:    DefaultDialTimeout,
		useWait:        true,
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger for protocol traffic. The default discards
// everything.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics records command and move statistics into m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithCommandTimeout bounds the wait for each response except WAIT. Zero
// waits forever. Expiry is a fatal connection error wrapping ErrTimeout.
func WithCommandTimeout(d time.Duration) Option {
	return func(o *options) {
		o.commandTimeout = d
	}
}

// WithWaitTimeout bounds the WAIT command that blocks until the game
// starts. Zero waits forever.
func WithWaitTimeout(d time.Duration) Option {
	return func(o *options) {
		o.waitTimeout = d
	}
}

// WithDialTimeout bounds establishing the TCP connection in Dial.
func WithDialTimeout(d time.Duration) Option {
	return func(o *options) {
		o.dialTimeout = d
	}
}

// WithoutWait makes the navigation loops start moving immediately instead
// of sending WAIT first.
func WithoutWait() Option {
	return func(o *options) {
		o.useWait = false
	}
}

// WithMovePacing limits the navigation loops to movesPerSecond moves.
// Values <= 0 disable pacing.
func WithMovePacing(movesPerSecond float64) Option {
	return func(o *options) {
		if movesPerSecond <= 0 {
			o.limiter = nil
			return
		}
		o.limiter = rate.NewLimiter(rate.Limit(movesPerSecond), 1)
	}
}
