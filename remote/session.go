package remote

import (
	"net"

	"github.com/irvm/iridium/repl"
	"github.com/irvm/iridium/scheduler"
)

// Session wraps one accepted connection and drives a repl.REPL
// against it, the Go analogue of the original Rust Client that reads
// and writes over a cloned TcpStream.
type Session struct {
	conn net.Conn
	repl *repl.REPL
}

// NewSession creates a Session bound to an accepted connection. sched
// may be nil, in which case the session's programs run unbounded.
func NewSession(conn net.Conn, sched *scheduler.Scheduler) *Session {
	r := repl.New(conn, conn)
	if sched != nil {
		r.SetScheduler(sched)
	}
	return &Session{
		conn: conn,
		repl: r,
	}
}

// Run drives the session's REPL until the connection closes or the
// client sends `.quit`.
func (s *Session) Run() {
	s.repl.Run()
}
