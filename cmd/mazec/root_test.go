package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protab/mazec/internal/mazetest"
	"github.com/protab/mazec/mazeprotocol"
)

// execute runs the command tree with args and returns what it printed.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	root := newRootCmd(strings.NewReader(stdin))
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

// loginArgs points the command at srv with an empty config file.
func loginArgs(t *testing.T, srv *mazetest.Server, args ...string) []string {
	t.Helper()
	return append(args,
		"--config", writeConfig(t, ""),
		"--server", srv.Addr(),
		"--user", "alice",
		"--level", mazetest.DefaultLevel,
	)
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "", "--version")
	require.NoError(t, err)
	assert.Equal(t, "mazec v"+version+"\n", stdout)
}

func TestRunCommand(t *testing.T) {
	srv := mazetest.Start(t, mazetest.NewGame("S..G"))

	stdout, stderr, err := execute(t, "", loginArgs(t, srv, "run", "--strategy", "fixed:right")...)
	require.NoError(t, err)

	assert.Equal(t, "Game over: finished\n", stdout)
	assert.Contains(t, stderr, "Connecting to "+srv.Addr())
	assert.Equal(t, 1, srv.Count(mazeprotocol.CmdWait))
	assert.Equal(t, 3, srv.Count(mazeprotocol.CmdMove))
}

func TestRunCommandRefusedMove(t *testing.T) {
	srv := mazetest.Start(t, mazetest.NewGame("S..G"))

	stdout, _, err := execute(t, "", loginArgs(t, srv, "run", "-s", "fixed:up", "--no-wait")...)
	require.NoError(t, err)

	assert.Equal(t, "Stopped: move refused: wall\n", stdout)
	assert.Equal(t, 0, srv.Count(mazeprotocol.CmdWait))
}

func TestRunCommandWithMetrics(t *testing.T) {
	srv := mazetest.Start(t, mazetest.NewGame(
		"S.#",
		"#.#",
		"#.G",
	))

	stdout, _, err := execute(t, "", loginArgs(t, srv, "run", "--metrics-addr", "127.0.0.1:0")...)
	require.NoError(t, err)
	assert.Equal(t, "Game over: finished\n", stdout)
}

func TestRunCommandFromConfigFile(t *testing.T) {
	srv := mazetest.Start(t, mazetest.NewGame("SG"))

	path := writeConfig(t, "server: "+srv.Addr()+"\nuser: bob\nlevel: level1\nuse_wait: false\nlog_level: debug\n")

	stdout, stderr, err := execute(t, "", "run", "--config", path, "--user", "alice", "-s", "fixed:d")
	require.NoError(t, err)

	assert.Equal(t, "Game over: finished\n", stdout)
	assert.Equal(t, []string{"USER alice", "LEVL level1", "MOVE D"}, srv.Received())
	assert.Contains(t, stderr, "configuration loaded")
}

func TestRunCommandErrors(t *testing.T) {
	srv := mazetest.Start(t, mazetest.NewGame("S.G"))

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	closedAddr := listener.Addr().String()
	listener.Close()

	tests := []struct {
		name string
		args []string
		code int
	}{
		{
			name: "Missing user",
			args: []string{"run", "--config", writeConfig(t, ""), "--server", srv.Addr(), "--level", "level1"},
			code: exitConfig,
		},
		{
			name: "Bad log level",
			args: append(loginArgs(t, srv, "run"), "--log-level", "loud"),
			code: exitConfig,
		},
		{
			name: "Unknown strategy",
			args: loginArgs(t, srv, "run", "--strategy", "spiral"),
			code: exitFailure,
		},
		{
			name: "Unknown level",
			args: append(loginArgs(t, srv, "run"), "--level", "nope"),
			code: exitFailure,
		},
		{
			name: "Server not running",
			args: []string{"run", "--config", writeConfig(t, ""), "--server", closedAddr, "-u", "alice", "-l", "level1"},
			code: exitTransport,
		},
		{
			name: "Missing config file",
			args: []string{"run", "--config", "/nonexistent/mazec.yaml"},
			code: exitFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, "", tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.code, exitCode(err), err.Error())
		})
	}
}

func TestMapCommand(t *testing.T) {
	srv := mazetest.Start(t, mazetest.NewGame("S..G"))

	stdout, _, err := execute(t, "", loginArgs(t, srv, "map", "--color", "never")...)
	require.NoError(t, err)

	assert.Equal(t, "4x1, you are at (0, 0)\n@ 0 0 2\n", stdout)
	assert.Equal(t, 0, srv.Count(mazeprotocol.CmdMove))
}

func TestPlayCommand(t *testing.T) {
	srv := mazetest.Start(t, mazetest.NewGame("S..G"))

	stdout, _, err := execute(t, "dd\n.pos\nd\n", loginArgs(t, srv, "play", "--no-wait")...)
	require.NoError(t, err)

	assert.Contains(t, stdout, "You are at (2, 0)")
	assert.Contains(t, stdout, "Game over: finished")
}

func TestRawCommand(t *testing.T) {
	srv := mazetest.Start(t, mazetest.NewGame("S..G"))

	stdout, _, err := execute(t, "GETW\nGETH\n", loginArgs(t, srv, "raw")...)
	require.NoError(t, err)

	assert.Contains(t, stdout, "DATA 4\n")
	assert.Contains(t, stdout, "DATA 1\n")
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"Nil", nil, exitOK},
		{"Validation", ValidationError{Field: "user", Message: "is required"}, exitConfig},
		{"Connection", mazeprotocol.NewConnectionError("broken", io.EOF), exitTransport},
		{"Protocol", &mazeprotocol.ProtocolError{Kind: mazeprotocol.ErrKindUnknownResponse}, exitTransport},
		{"Game over", &mazeprotocol.GameOverError{Report: "bye"}, exitFailure},
		{"Other", errors.New("boom"), exitFailure},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, exitCode(tt.err), tt.name)
	}
}

func TestServeMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	srv := mazetest.Start(t, mazetest.NewGame("S.G"))

	c, err := mazeprotocol.Dial(context.Background(), srv.Addr(), "alice", mazetest.DefaultLevel,
		mazeprotocol.WithMetrics(mazeprotocol.NewMetrics(reg)))
	require.NoError(t, err)
	defer c.Close()
	_, err = c.Width()
	require.NoError(t, err)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serveMetrics(ctx, listener, reg) }()

	resp, err := http.Get("http://" + listener.Addr().String() + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `mazec_commands_total{command="GETW",outcome="data"} 1`)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("metrics server did not stop")
	}
}

func TestWithMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	a := &app{
		cfg:      Config{MetricsAddr: "127.0.0.1:0"},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		registry: reg,
		metrics:  mazeprotocol.NewMetrics(reg),
	}

	ran := false
	require.NoError(t, a.withMetrics(context.Background(), func(context.Context) error {
		ran = true
		return nil
	}))
	assert.True(t, ran)

	boom := errors.New("boom")
	err := a.withMetrics(context.Background(), func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)

	a.registry = nil
	assert.NoError(t, a.withMetrics(context.Background(), func(context.Context) error { return nil }))
}
