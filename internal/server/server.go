package server

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/class-scheduler/internal/logging"
	"github.com/example/class-scheduler/internal/protocol"
)

// Handler answers one request line.
type Handler interface {
	Handle(ctx context.Context, line string) protocol.Response
}

// Option customises a Server.
type Option func(*Server)

// WithLogger sets the base logger for connection logs.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithOnStop registers a callback run after a TERMINATE response is written.
func WithOnStop(fn func()) Option {
	return func(s *Server) {
		s.onStop = fn
	}
}

// WithMaxRequestBytes overrides the request line cap.
func WithMaxRequestBytes(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxRequestBytes = n
		}
	}
}

// WithConnIDGenerator overrides the connection identifier source.
func WithConnIDGenerator(fn func() string) Option {
	return func(s *Server) {
		if fn != nil {
			s.newConnID = fn
		}
	}
}

// DefaultMaxRequestBytes caps a request line. A line that does not fit is
// dropped and the connection closed without a response.
const DefaultMaxRequestBytes = 64 << 10

// Server runs one request/response exchange per accepted connection, each on
// its own goroutine. Connections are not bounded and carry no deadlines, so a
// silent client holds its goroutine until it disconnects.
type Server struct {
	handler         Handler
	logger          *slog.Logger
	onStop          func()
	newConnID       func() string
	maxRequestBytes int

	wg sync.WaitGroup
}

// New constructs a Server dispatching to handler.
func New(handler Handler, opts ...Option) *Server {
	s := &Server{
		handler:         handler,
		logger:          slog.Default(),
		newConnID:       uuid.NewString,
		maxRequestBytes: DefaultMaxRequestBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListenAndServe listens on addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then closes ln and
// waits for in-flight exchanges to finish. It returns nil on cancellation.
// Accept failures such as running out of file descriptors are logged and
// retried with backoff; only a listener closed by someone else ends Serve
// with an error.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	stop := context.AfterFunc(ctx, func() {
		_ = ln.Close()
	})
	defer stop()
	defer s.wg.Wait()

	s.logger.InfoContext(ctx, "protocol listener started", "addr", ln.Addr().String())

	var backoff time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				s.logger.InfoContext(ctx, "protocol listener stopped", "addr", ln.Addr().String())
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			backoff = nextBackoff(backoff)
			s.logger.ErrorContext(ctx, "accept failed, retrying", "error", err, "retry_in", backoff)
			select {
			case <-ctx.Done():
			case <-time.After(backoff):
			}
			continue
		}
		backoff = 0

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.serveConn(context.WithoutCancel(ctx), conn)
		}()
	}
}

func nextBackoff(current time.Duration) time.Duration {
	if current == 0 {
		return 5 * time.Millisecond
	}
	if current *= 2; current > time.Second {
		return time.Second
	}
	return current
}

func (s *Server) serveConn(ctx context.Context, conn net.Conn) {
	logger := s.logger.With("conn_id", s.newConnID(), "remote", conn.RemoteAddr().String())
	ctx = logging.ContextWithLogger(ctx, logger)
	defer func() {
		if err := conn.Close(); err != nil {
			logger.DebugContext(ctx, "failed to close connection", "error", err)
		}
	}()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, min(4096, s.maxRequestBytes)), s.maxRequestBytes)
	if !scanner.Scan() {
		switch err := scanner.Err(); {
		case errors.Is(err, bufio.ErrTooLong):
			logger.WarnContext(ctx, "request line too long", "limit", s.maxRequestBytes)
		case err != nil:
			logger.ErrorContext(ctx, "failed to read request", "error", err)
		default:
			logger.DebugContext(ctx, "connection closed before request")
		}
		return
	}
	line := scanner.Text()

	resp := s.handler.Handle(ctx, line)
	if _, err := io.WriteString(conn, resp.String()+"\n"); err != nil {
		logger.ErrorContext(ctx, "failed to write response", "error", err)
		return
	}
	logger.DebugContext(ctx, "exchange completed", "status", string(resp.Status))

	if resp.Terminates() && s.onStop != nil {
		s.onStop()
	}
}
