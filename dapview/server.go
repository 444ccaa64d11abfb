// Copyright © 2024 The ELPS authors

// Package dapview serves a console session over the Debug Adapter
// Protocol.  Each log item reaches the client as an output event.  Items
// holding expandable values carry a variables reference, and variables
// requests expand those values lazily through the session's tree nodes.
// Evaluate requests parse a Gleam literal and log it to the session.
//
// The server supports two transport modes:
//   - TCP: the server listens on a TCP port and accepts a single client
//     connection.
//   - Stdio: the server reads from stdin and writes to stdout, as expected
//     by editors launching a debug adapter as a child process.
package dapview

import (
	"bufio"
	"io"
	"net"
	"sync"

	"github.com/google/go-dap"
	"github.com/hashicorp/go-hclog"
	"github.com/luthersystems/gleamconsole/console"
	"github.com/luthersystems/gleamconsole/term"
	"github.com/pkg/errors"
)

// Server is a DAP protocol server presenting a console session.
type Server struct {
	session *console.Logger
	text    *term.Renderer
	log     hclog.Logger

	mu     sync.Mutex
	seq    int
	writer io.Writer
	reader *bufio.Reader

	// done is closed when the server should stop processing messages.
	done chan struct{}
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for protocol diagnostics.
func WithLogger(log hclog.Logger) Option {
	return func(s *Server) {
		s.log = log
	}
}

// New creates a DAP server presenting session.  The session should not
// forward to a console writing to the DAP transport.
func New(session *console.Logger, opts ...Option) *Server {
	s := &Server{
		session: session,
		text:    term.New(term.WithArrows(false)),
		log:     hclog.NewNullLogger(),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ServeConn serves DAP messages on a single connection.  It blocks until
// the connection is closed or a disconnect request is received.
func (s *Server) ServeConn(conn io.ReadWriteCloser) error {
	defer conn.Close() //nolint:errcheck // best-effort cleanup
	return s.serve(conn, conn)
}

// ServeTCP listens on the given address and serves a single DAP client.
// It blocks until the client disconnects.
func (s *Server) ServeTCP(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrap(err, "dap listen")
	}
	defer ln.Close() //nolint:errcheck // best-effort cleanup
	return s.ServeListener(ln)
}

// ServeListener accepts a single connection from the listener and serves
// DAP messages on it.
func (s *Server) ServeListener(ln net.Listener) error {
	s.log.Info("waiting for client", "addr", ln.Addr().String())
	conn, err := ln.Accept()
	if err != nil {
		return errors.Wrap(err, "dap accept")
	}
	return s.ServeConn(conn)
}

// ServeStdio serves DAP messages on the given reader and writer,
// typically os.Stdin and os.Stdout.
func (s *Server) ServeStdio(r io.Reader, w io.Writer) error {
	return s.serve(r, w)
}

func (s *Server) serve(r io.Reader, w io.Writer) error {
	s.mu.Lock()
	s.writer = w
	s.reader = bufio.NewReader(r)
	s.mu.Unlock()

	h := newHandler(s)
	for {
		select {
		case <-s.done:
			return nil
		default:
		}

		msg, err := dap.ReadProtocolMessage(s.reader)
		if err != nil {
			select {
			case <-s.done:
				return nil
			default:
				if err == io.EOF {
					return nil
				}
				return errors.Wrap(err, "dap read")
			}
		}

		h.handle(msg)
	}
}

// send writes a DAP protocol message to the client.
func (s *Server) send(msg dap.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return dap.WriteProtocolMessage(s.writer, msg)
}

// nextSeq returns the next sequence number for outgoing messages.
func (s *Server) nextSeq() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

// close signals the server to stop processing messages.
func (s *Server) close() {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
}
