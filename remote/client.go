package remote

import (
	"fmt"
	"io"
	"net"
)

// Client connects to a running Server and pipes stdin/stdout through
// the connection, the Go analogue of the original Rust remote client.
type Client struct {
	Host string
	Port int
}

// NewClient creates a Client targeting host:port.
func NewClient(host string, port int) *Client {
	return &Client{Host: host, Port: port}
}

// Run connects to the server and copies bytes between in/out and the
// connection until either side closes it.
func (c *Client) Run(in io.Reader, out io.Writer) error {
	addr := fmt.Sprintf("%s:%d", c.Host, c.Port)
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("remote: failed to connect to %s: %w", addr, err)
	}
	defer conn.Close()

	errCh := make(chan error, 2)
	go func() {
		_, err := io.Copy(conn, in)
		errCh <- err
	}()
	go func() {
		_, err := io.Copy(out, conn)
		errCh <- err
	}()

	return <-errCh
}
