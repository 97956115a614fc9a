package ingest

import (
	"context"
	"io"
	"net"
	"testing"
	"time"
)

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestListenerServesOneSessionAtATime(t *testing.T) {
	l, err := Listen("127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	started := make(chan net.Conn, 4)
	release := make(chan struct{})
	handler := func(ctx context.Context, conn net.Conn) {
		started <- conn
		select {
		case <-release:
		case <-ctx.Done():
		}
	}

	served := make(chan error, 1)
	go func() { served <- l.Serve(ctx, handler) }()

	addr := l.Addr().String()
	first, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatal(err)
	}
	defer first.Close()

	select {
	case <-started:
	case <-time.After(3 * time.Second):
		t.Fatal("first connection never reached the handler")
	}

	second, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatal(err)
	}
	defer second.Close()

	second.SetReadDeadline(time.Now().Add(3 * time.Second))
	if _, err := second.Read(make([]byte, 1)); err == nil {
		t.Fatal("second connection was not closed")
	} else if ne, ok := err.(net.Error); ok && ne.Timeout() {
		t.Fatal("second connection left open while a session is live")
	}
	waitFor(t, "rejection count", func() bool { return l.Rejected() == 1 })

	close(release)
	first.SetReadDeadline(time.Now().Add(3 * time.Second))
	if _, err := io.ReadAll(first); err != nil {
		t.Fatalf("first connection not closed cleanly after handler returned: %v", err)
	}
	waitFor(t, "listener to become idle", func() bool { return !l.busy.Load() })

	third, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatal(err)
	}
	defer third.Close()
	select {
	case <-started:
	case <-time.After(3 * time.Second):
		t.Fatal("a new connection after the session ended was not served")
	}

	cancel()
	select {
	case err := <-served:
		if err != nil {
			t.Errorf("Serve returned %v after cancel", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestListenBadAddress(t *testing.T) {
	if _, err := Listen("256.0.0.1:bogus"); err == nil {
		t.Error("bad address accepted")
	}
}
