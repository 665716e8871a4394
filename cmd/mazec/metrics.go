package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

const metricsShutdownTimeout = 2 * time.Second

// newMetricsHandler exposes reg in the Prometheus text format.
func newMetricsHandler(reg *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	return mux
}

// serveMetrics serves the metrics endpoint on listener until ctx is done.
func serveMetrics(ctx context.Context, listener net.Listener, reg *prometheus.Registry) error {
	srv := &http.Server{
		Handler:           newMetricsHandler(reg),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// GO CONCEPT: errgroup
// --------------------
// errgroup.Group runs goroutines and returns the first error any of them
// produced. WithContext also cancels the shared context on that first
// error, so a dead metrics listener stops the game and a finished game
// stops the listener.

// withMetrics runs play while the metrics endpoint is up, if one is
// configured. The endpoint stops when play returns; a failing endpoint
// cancels play.
func (a *app) withMetrics(ctx context.Context, play func(ctx context.Context) error) error {
	if a.registry == nil {
		return play(ctx)
	}

	listener, err := net.Listen("tcp", a.cfg.MetricsAddr)
	if err != nil {
		return err
	}
	a.logger.Info("serving metrics", "addr", listener.Addr().String())

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		defer cancel()
		return play(gctx)
	})
	g.Go(func() error {
		return serveMetrics(gctx, listener, a.registry)
	})
	return g.Wait()
}
