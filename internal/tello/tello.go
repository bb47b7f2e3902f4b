// Package tello implements a minimal client for the DJI Tello SDK command
// channel. The drone listens on UDP 8889 and answers each text command with
// a single text reply sent back to the source port.
package tello

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultIP is the drone's address on its own WiFi network.
	DefaultIP   = "192.168.10.1"
	DefaultPort = 8889

	defaultCommandTimeout = 15 * time.Second
	flightCommandTimeout  = 20 * time.Second

	sendAttempts   = 3
	sendRetryDelay = 500 * time.Millisecond
)

// Client talks to a single Tello over its UDP command channel. Commands are
// serialized: the SDK pairs at most one outstanding command with one reply.
type Client struct {
	addr    *net.UDPAddr
	conn    *net.UDPConn
	replies chan string
	timeout time.Duration

	mu        sync.Mutex
	connected bool

	closeOnce sync.Once
	closeErr  error
}

// Dial binds an ephemeral local UDP port and starts the reply reader. It
// does not contact the drone; use Connect for that.
func Dial(ip string, port int) (*Client, error) {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return nil, fmt.Errorf("invalid tello address %q", ip)
	}

	conn, err := net.ListenUDP("udp4", nil)
	if err != nil {
		return nil, fmt.Errorf("bind command socket: %w", err)
	}

	c := &Client{
		addr:    &net.UDPAddr{IP: parsed, Port: port},
		conn:    conn,
		replies: make(chan string, 4),
		timeout: defaultCommandTimeout,
	}
	go c.readLoop()
	return c, nil
}

// SetCommandTimeout overrides the default per-command reply timeout.
func (c *Client) SetCommandTimeout(d time.Duration) {
	if d > 0 {
		c.timeout = d
	}
}

// Send transmits one command and waits for one reply. The write is retried
// up to three times; the reply wait is bounded by timeout. Replies from
// earlier, already timed-out commands are discarded first.
func (c *Client) Send(cmd string, timeout time.Duration) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sendLocked(cmd, timeout)
}

func (c *Client) sendLocked(cmd string, timeout time.Duration) (string, error) {
	// Drop stale replies so the next receive pairs with this command.
	for {
		select {
		case _, open := <-c.replies:
			if !open {
				return "", fmt.Errorf("command socket closed before %q", cmd)
			}
			continue
		default:
		}
		break
	}

	var writeErr error
	for attempt := 0; attempt < sendAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(sendRetryDelay)
		}
		if _, writeErr = c.conn.WriteToUDP([]byte(cmd), c.addr); writeErr == nil {
			break
		}
	}
	if writeErr != nil {
		return "", fmt.Errorf("send %q: %w", cmd, writeErr)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case reply, open := <-c.replies:
		if !open {
			return "", fmt.Errorf("command socket closed while waiting for %q", cmd)
		}
		return reply, nil
	case <-timer.C:
		return "", fmt.Errorf("command %q timed out after %s", cmd, timeout)
	}
}

// Connect switches the drone into SDK mode by sending "command".
func (c *Client) Connect() error {
	reply, err := c.Send("command", c.timeout)
	if err != nil {
		return err
	}
	if !isOK(reply) {
		return fmt.Errorf("unexpected reply to command: %q", reply)
	}
	c.mu.Lock()
	c.connected = true
	c.mu.Unlock()
	return nil
}

// Battery queries the battery charge percentage.
func (c *Client) Battery() (int, error) {
	reply, err := c.Send("battery?", c.timeout)
	if err != nil {
		return 0, err
	}
	level, err := strconv.Atoi(strings.TrimSpace(reply))
	if err != nil {
		return 0, fmt.Errorf("parse battery reply %q: %w", reply, err)
	}
	return level, nil
}

// StreamOn starts the video stream on UDP 11111.
func (c *Client) StreamOn() error {
	return c.expectOK("streamon", c.timeout)
}

// StreamOff stops the video stream.
func (c *Client) StreamOff() error {
	return c.expectOK("streamoff", c.timeout)
}

// Takeoff commands an auto takeoff. The drone may take considerably longer
// to acknowledge than regular commands.
func (c *Client) Takeoff() error {
	return c.expectOK("takeoff", flightCommandTimeout)
}

// Land commands an auto landing.
func (c *Client) Land() error {
	return c.expectOK("land", flightCommandTimeout)
}

// Close stops the video stream if the client ever connected, then closes
// the command socket and stops the reader.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		if c.connected {
			c.connected = false
			_, _ = c.sendLocked("streamoff", c.timeout)
		}
		c.mu.Unlock()
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}

func (c *Client) expectOK(cmd string, timeout time.Duration) error {
	reply, err := c.Send(cmd, timeout)
	if err != nil {
		return err
	}
	if !isOK(reply) {
		return fmt.Errorf("%s rejected: %q", cmd, reply)
	}
	return nil
}

func (c *Client) readLoop() {
	defer close(c.replies)

	buf := make([]byte, 1024)
	for {
		n, _, err := c.conn.ReadFromUDP(buf)
		if err != nil {
			return
		}
		msg := strings.TrimSpace(string(buf[:n]))
		select {
		case c.replies <- msg:
		default:
			// Reader never blocks; an unconsumed reply is stale anyway.
		}
	}
}

func isOK(reply string) bool {
	return strings.Contains(strings.ToLower(reply), "ok")
}
