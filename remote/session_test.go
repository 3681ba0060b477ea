package remote

import (
	"bufio"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/irvm/iridium/scheduler"
)

// TestSessionRunsProgramThroughScheduler wires a Session to a shared
// scheduler (as serveConn does for every accepted connection) and
// checks a `.program` run still completes and reports its result over
// the connection.
func TestSessionRunsProgramThroughScheduler(t *testing.T) {
	serverConn, clientConn := net.Pipe()
	defer clientConn.Close()

	sched := scheduler.New(1)
	session := NewSession(serverConn, sched)

	done := make(chan struct{})
	go func() {
		session.Run()
		close(done)
	}()

	input := strings.Join([]string{
		".program",
		".data",
		".code",
		"load $0 #1",
		"hlt",
		".",
		".quit",
		"",
	}, "\n")

	go func() {
		_, _ = clientConn.Write([]byte(input))
	}()

	reader := bufio.NewReader(clientConn)
	var output strings.Builder
	_ = clientConn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		line, err := reader.ReadString('\n')
		output.WriteString(line)
		if err != nil {
			break
		}
		if strings.Contains(output.String(), "Farewell!") {
			break
		}
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("session.Run did not return")
	}

	if !strings.Contains(output.String(), "GracefulStop{0}") {
		t.Errorf("output = %q, want it to contain GracefulStop{0}", output.String())
	}
}

// TestNewServerNilSchedulerIsUnbounded checks that a Server built
// without a scheduler keeps a nil Scheduler, which serveConn hands to
// each connection's session, leaving its runs without a concurrency
// cap.
func TestNewServerNilSchedulerIsUnbounded(t *testing.T) {
	s := NewServer("127.0.0.1", 0, nil)
	if s.Scheduler != nil {
		t.Errorf("Scheduler = %v, want nil", s.Scheduler)
	}
}
