package ingest

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"fgplot/utils"
)

// Handler runs one session over conn. The connection is closed for it
// when the handler returns or ctx is cancelled.
type Handler func(ctx context.Context, conn net.Conn)

// Listener accepts simulator connections and serves them one at a time.
// A connection that arrives while a session is live is closed straight
// away; after the session ends the next connection gets a fresh one.
type Listener struct {
	ln       net.Listener
	busy     atomic.Bool
	rejected atomic.Uint64
	wg       sync.WaitGroup
}

// Listen binds addr (host:port, or :port).
func Listen(addr string) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	return &Listener{ln: ln}, nil
}

// Addr is the bound address.
func (l *Listener) Addr() net.Addr {
	return l.ln.Addr()
}

// Serve accepts until ctx is cancelled, then waits for the live session
// to finish before returning.
func (l *Listener) Serve(ctx context.Context, handle Handler) error {
	stop := context.AfterFunc(ctx, func() { l.ln.Close() })
	defer stop()

	utils.L().Info("Ready for connections on %s", l.ln.Addr())
	for {
		conn, err := l.ln.Accept()
		if err != nil {
			l.wg.Wait()
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}

		if !l.busy.CompareAndSwap(false, true) {
			l.rejected.Add(1)
			utils.L().Warn("rejecting connection from %s: a session is already running", conn.RemoteAddr())
			conn.Close()
			continue
		}

		l.wg.Add(1)
		go func() {
			defer l.wg.Done()
			defer l.busy.Store(false)
			defer conn.Close()

			closeOnCancel := context.AfterFunc(ctx, func() { conn.Close() })
			defer closeOnCancel()

			utils.L().Info("Connection from client %s", conn.RemoteAddr())
			handle(ctx, conn)
		}()
	}
}

// Close stops accepting connections.
func (l *Listener) Close() error {
	return l.ln.Close()
}

// Rejected counts connections turned away while busy.
func (l *Listener) Rejected() uint64 {
	return l.rejected.Load()
}
