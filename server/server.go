// Package server implements the TCP dispatcher of spec §4.6: an accept
// loop handing each connection a streaming RESP2 parse/execute/reply cycle
// over an internal/store.Engine.
package server

import (
	"errors"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/hybridkv/hybridkv/internal/resp"
	"github.com/hybridkv/hybridkv/internal/store"
	"github.com/hybridkv/hybridkv/metrics"
)

const tcpKeepAlivePeriod = 30 * time.Second

// Server binds a listener and services connections concurrently against a
// shared engine.
type Server struct {
	engine *store.Engine
	cfg    config

	startedAt time.Time

	mu       sync.Mutex
	listener net.Listener
	wg       sync.WaitGroup
}

// New constructs a Server over engine. It does not bind a listener until
// Serve is called.
func New(engine *store.Engine, opts ...Option) *Server {
	cfg := config{
		log:            zap.NewNop(),
		metrics:        metrics.New(nil),
		maxConnections: defaultMaxConnections,
		readBufferSize: defaultReadBufferSize,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Server{engine: engine, cfg: cfg}
}

// Metrics returns the Server's metrics registry, for wiring into an
// external exporter (e.g. metrics/promexport).
func (s *Server) Metrics() *metrics.Registry { return s.cfg.metrics }

// Serve binds addr and accepts connections until the listener is closed via
// Close. It blocks; run it in its own goroutine.
func (s *Server) Serve(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.listener = ln
	s.startedAt = time.Now()
	s.mu.Unlock()

	return s.serveOn(ln)
}

// serveOn runs the accept loop on an already-bound listener, letting tests
// bind the listener themselves to avoid races on the ephemeral port.
func (s *Server) serveOn(ln net.Listener) error {
	s.cfg.log.Info("listening", zap.String("addr", ln.Addr().String()))

	sem := semaphore.NewWeighted(s.cfg.maxConnections)

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}

		if !sem.TryAcquire(1) {
			_ = conn.Close()
			continue
		}

		if tcpConn, ok := conn.(*net.TCPConn); ok {
			_ = tcpConn.SetNoDelay(true)
			_ = tcpConn.SetKeepAlive(true)
			_ = tcpConn.SetKeepAlivePeriod(tcpKeepAlivePeriod)
		}

		s.wg.Add(1)
		go func(c net.Conn) {
			defer s.wg.Done()
			defer sem.Release(1)
			s.handleConnection(c)
		}(conn)
	}
}

// Close stops accepting new connections and waits for every connection
// handler to return. It does not close open connections: a handler returns
// only when its peer disconnects or a read or write fails, so Close blocks
// until that has happened for every connection.
func (s *Server) Close() error {
	s.mu.Lock()
	ln := s.listener
	s.mu.Unlock()
	if ln == nil {
		return nil
	}
	err := ln.Close()
	s.wg.Wait()
	return err
}

// handleConnection runs the read/parse/dispatch/write loop of spec §4.6 for
// one connection until it errors or the peer closes.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	recvBuf := make([]byte, 0, s.cfg.readBufferSize)
	replyBuf := make([]byte, 0, s.cfg.readBufferSize)
	readChunk := make([]byte, s.cfg.readBufferSize)

	for {
		n, err := conn.Read(readChunk)
		if n > 0 {
			recvBuf = append(recvBuf, readChunk[:n]...)
		}
		if err != nil {
			return
		}
		if n == 0 {
			return
		}

		for {
			args, consumed, perr := resp.ParseCommand(recvBuf)
			if perr != nil {
				replyBuf = resp.AppendError(replyBuf[:0], "ERR protocol error")
				_, _ = conn.Write(replyBuf)
				return
			}
			if consumed == 0 {
				break
			}
			recvBuf = recvBuf[consumed:]

			s.cfg.metrics.IncInflight()
			s.cfg.metrics.IncRequests()
			start := time.Now()
			replyBuf = s.dispatch(replyBuf[:0], args)
			s.cfg.metrics.Record(time.Since(start))
			s.cfg.metrics.DecInflight()
			if len(replyBuf) > 0 && replyBuf[0] == '-' {
				s.cfg.metrics.IncErrors()
			}

			if _, err := conn.Write(replyBuf); err != nil {
				s.cfg.log.Warn("write failed", zap.Error(err))
				return
			}
		}
	}
}
