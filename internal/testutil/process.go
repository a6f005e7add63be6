package testutil

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// BuildBinary compiles the watch-remote binary into a temporary directory.
func BuildBinary(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("skipping: go toolchain not available")
	}
	tdir := t.TempDir()
	bin := filepath.Join(tdir, "watch-remote")
	cmd := exec.Command("go", "build", "-o", bin, "./")
	cmd.Dir = RepoRoot(t)
	cmd.Env = append(os.Environ(), "GOCACHE="+filepath.Join(tdir, ".gocache"))
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "build binary:\n%s", out)
	return bin
}

// FreePort returns a loopback TCP port that was free a moment ago.
func FreePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err, "reserve port")
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

// StartHeadless runs bin without a terminal, listening on a free loopback
// port, and returns the address clients should dial. The process is
// interrupted when the test ends.
func StartHeadless(t *testing.T, bin string, extra ...string) string {
	t.Helper()
	port := FreePort(t)
	logFile := filepath.Join(t.TempDir(), "watch-remote.log")
	args := append([]string{
		"-headless",
		"-addr", "127.0.0.1",
		"-port", strconv.Itoa(port),
		"-log-file", logFile,
	}, extra...)
	cmd := exec.Command(bin, args...)
	require.NoError(t, cmd.Start(), "start %s", bin)
	exited := make(chan error, 1)
	go func() { exited <- cmd.Wait() }()
	t.Cleanup(func() {
		_ = cmd.Process.Signal(os.Interrupt)
		select {
		case err := <-exited:
			if err != nil {
				t.Logf("watch-remote exited: %v", err)
			}
		case <-time.After(3 * time.Second):
			_ = cmd.Process.Kill()
			t.Logf("watch-remote did not exit after interrupt; killed")
		}
	})
	return net.JoinHostPort("127.0.0.1", strconv.Itoa(port))
}

// DialRetry connects to addr, retrying until ctx expires.
func DialRetry(ctx context.Context, addr string) (net.Conn, error) {
	var d net.Dialer
	for {
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err == nil {
			return conn, nil
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("dial %s: %w", addr, err)
		case <-time.After(50 * time.Millisecond):
		}
	}
}

// Client is a line-oriented protocol client for tests.
type Client struct {
	conn   net.Conn
	reader *bufio.Reader
}

// NewClient wraps conn.
func NewClient(conn net.Conn) *Client {
	return &Client{conn: conn, reader: bufio.NewReader(conn)}
}

// Request sends one line and returns the response line without its newline.
func (c *Client) Request(t *testing.T, line string) string {
	t.Helper()
	require.NoError(t, c.conn.SetDeadline(time.Now().Add(5*time.Second)), "set deadline")
	_, err := c.conn.Write([]byte(line + "\n"))
	require.NoError(t, err, "write request %q", line)
	resp, err := c.reader.ReadString('\n')
	require.NoError(t, err, "read response to %q", line)
	return strings.TrimSuffix(resp, "\n")
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
