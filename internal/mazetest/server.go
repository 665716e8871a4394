// Package mazetest provides an in-process maze server for tests.
//
// The server listens on a loopback TCP port and answers each received
// command line through a Handler. Game implements Handler with a small but
// complete simulation of a level; HandlerFunc adapts a plain function for
// scripted conversations.
package mazetest

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"sync"
	"testing"
)

// Handler answers one command line. It returns the response line without
// the terminator. When closeAfter is true the server closes the connection
// after sending the response, as the real server does after OVER.
type Handler interface {
	Handle(cmd string) (response string, closeAfter bool)
}

// Hangup, returned as a response, makes the server close the connection
// without answering.
const Hangup = "\x00hangup"

// HandlerFunc adapts a function to Handler. The connection is closed after
// any response starting with "OVER".
type HandlerFunc func(cmd string) string

// Handle implements Handler.
func (f HandlerFunc) Handle(cmd string) (string, bool) {
	resp := f(cmd)
	return resp, strings.HasPrefix(resp, "OVER")
}

// Server is a loopback TCP maze server.
type Server struct {
	listener net.Listener
	handler  Handler

	mu          sync.Mutex
	connections []net.Conn
	received    []string
	stopped     bool

	wg sync.WaitGroup
}

// Start creates and starts a server on 127.0.0.1 with a random port. It is
// stopped automatically when the test finishes.
func Start(tb testing.TB, handler Handler) *Server {
	tb.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		tb.Fatalf("failed to listen: %v", err)
	}

	s := &Server{listener: listener, handler: handler}

	s.wg.Add(1)
	go s.acceptLoop()

	tb.Cleanup(s.Stop)
	return s
}

// Addr returns the host:port the server listens on.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Received returns a copy of every command line received so far.
func (s *Server) Received() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.received...)
}

// Count returns how many times a command word was received.
func (s *Server) Count(command string) int {
	n := 0
	for _, line := range s.Received() {
		if line == command || strings.HasPrefix(line, command+" ") {
			n++
		}
	}
	return n
}

// Stop closes the listener and all connections and waits for the
// connection goroutines to exit.
func (s *Server) Stop() {
	s.listener.Close()

	s.mu.Lock()
	s.stopped = true
	for _, conn := range s.connections {
		conn.Close()
	}
	s.connections = nil
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}

		if !s.track(conn) {
			continue
		}
		go s.handleConnection(conn)
	}
}

// track registers conn for Stop and its goroutine with the wait group. A
// connection accepted after Stop is closed at once and reported as false.
func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		conn.Close()
		return false
	}
	s.connections = append(s.connections, conn)
	s.wg.Add(1)
	return true
}

func (s *Server) handleConnection(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 4096), 1<<20)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")

		s.mu.Lock()
		s.received = append(s.received, line)
		s.mu.Unlock()

		resp, closeAfter := s.handler.Handle(line)
		if resp == Hangup {
			return
		}
		if _, err := fmt.Fprint(conn, resp+"\n"); err != nil {
			return
		}
		if closeAfter {
			return
		}
	}
}
