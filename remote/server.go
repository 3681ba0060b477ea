// Package remote implements the TCP front end to a REPL session: a
// server that accepts line-oriented connections and drives one
// repl.REPL per connection, and a client that pipes stdin/stdout
// through a connection to a running server. Grounded on the original
// Rust `remote::server`/`remote::client` pair.
package remote

import (
	"fmt"
	"net"

	"github.com/irvm/iridium/scheduler"
)

// Server accepts TCP connections and drives one REPL per connection.
type Server struct {
	Host string
	Port int

	// Scheduler, when set, is shared across every accepted connection
	// so the CLI's -threads override bounds how many of their
	// `.program` runs execute concurrently.
	Scheduler *scheduler.Scheduler
}

// NewServer creates a Server bound to host:port. sched may be nil, in
// which case each connection's programs run directly on that
// connection's goroutine, with no cap across connections.
func NewServer(host string, port int, sched *scheduler.Scheduler) *Server {
	return &Server{Host: host, Port: port, Scheduler: sched}
}

// Listen blocks, accepting connections until the listener errors or
// is closed.
func (s *Server) Listen() error {
	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("remote: failed to bind %s: %w", addr, err)
	}
	defer listener.Close()

	fmt.Printf("Initializing TCP server on %s...\n", addr)
	for {
		conn, err := listener.Accept()
		if err != nil {
			return fmt.Errorf("remote: accept failed: %w", err)
		}
		go serveConn(conn, s.Scheduler)
	}
}

func serveConn(conn net.Conn, sched *scheduler.Scheduler) {
	defer conn.Close()
	session := NewSession(conn, sched)
	session.Run()
}
