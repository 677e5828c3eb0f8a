package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/example/class-scheduler/internal/protocol"
	"github.com/example/class-scheduler/internal/scheduler"
)

const (
	// DefaultTimeout bounds a single exchange when the context has no deadline.
	DefaultTimeout = 10 * time.Second
	// maxResponseBytes caps a response line. Large schedules render long
	// DISPLAY lines, so the cap is generous.
	maxResponseBytes = 16 << 20

	entrySeparator = ", "
)

// Client performs one-line exchanges with a scheduling server.
type Client struct {
	addr    string
	dialer  net.Dialer
	timeout time.Duration
}

// New returns a client for the server at addr.
func New(addr string) *Client {
	return &Client{addr: addr, timeout: DefaultTimeout}
}

// Send writes request as one line and returns the parsed response line.
// Every call uses a fresh connection.
func (c *Client) Send(ctx context.Context, request string) (protocol.Response, error) {
	if strings.ContainsAny(request, "\r\n") {
		return protocol.Response{}, errors.New("client: request must be a single line")
	}
	if _, ok := ctx.Deadline(); !ok && c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	conn, err := c.dialer.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return protocol.Response{}, fmt.Errorf("client: dial %s: %w", c.addr, err)
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	if _, err := io.WriteString(conn, request+"\n"); err != nil {
		return protocol.Response{}, fmt.Errorf("client: send request: %w", err)
	}
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 4096), maxResponseBytes)
	if !scanner.Scan() {
		err := scanner.Err()
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		return protocol.Response{}, fmt.Errorf("client: read response: %w", err)
	}
	return protocol.ParseResponse(scanner.Text())
}

// IsTerminate reports whether resp tells the client the server is shutting down.
func IsTerminate(resp protocol.Response) bool {
	return resp.Terminates()
}

// Listing is a decoded DISPLAY response.
type Listing struct {
	Scope    string
	Sessions []scheduler.Session
}

// ParseDisplay decodes a DISPLAY response. Entries are separated by a comma
// and a space, so a bare comma inside a room or class name is kept. Entries
// that do not parse are skipped and reported together in the returned error
// alongside the entries that did.
func ParseDisplay(resp protocol.Response) (Listing, error) {
	if resp.Status != protocol.StatusDisplay {
		return Listing{}, fmt.Errorf("client: expected DISPLAY response, got %s", resp.Status)
	}
	scope, body, ok := strings.Cut(resp.Message, protocol.DisplaySeparator)
	if !ok {
		return Listing{}, fmt.Errorf("client: DISPLAY response without %q separator", protocol.DisplaySeparator)
	}

	listing := Listing{Scope: scope}
	var errs []error
	for _, entry := range strings.Split(body, entrySeparator) {
		entry = strings.TrimSuffix(strings.TrimSpace(entry), ",")
		if entry == "" {
			continue
		}
		session, err := scheduler.Parse(entry)
		if err != nil {
			errs = append(errs, fmt.Errorf("entry %q: %w", entry, err))
			continue
		}
		listing.Sessions = append(listing.Sessions, session)
	}
	return listing, errors.Join(errs...)
}
