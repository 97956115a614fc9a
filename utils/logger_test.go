package utils

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WARN, &buf)

	l.Debug("debug %d", 1)
	l.Info("info %d", 2)
	l.Warn("warn %d", 3)
	l.Error("error %d", 4)

	out := buf.String()
	if strings.Contains(out, "debug 1") || strings.Contains(out, "info 2") {
		t.Errorf("messages below WARN printed:\n%s", out)
	}
	if !strings.Contains(out, "[WARN]") || !strings.Contains(out, "warn 3") {
		t.Errorf("warn missing:\n%s", out)
	}
	if !strings.Contains(out, "[ERROR]") || !strings.Contains(out, "error 4") {
		t.Errorf("error missing:\n%s", out)
	}

	buf.Reset()
	l.SetLevel(DEBUG)
	l.Debug("now visible")
	if !strings.Contains(buf.String(), "[DEBUG]") {
		t.Errorf("debug not printed after SetLevel: %q", buf.String())
	}
}

func TestLoggerFatalExits(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(INFO, &buf)
	code := -1
	l.exit = func(c int) { code = c }

	l.Fatal("boom")
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(buf.String(), "[FATAL]") {
		t.Errorf("fatal not logged: %q", buf.String())
	}
}

func TestParseLogLevel(t *testing.T) {
	for in, want := range map[string]LogLevel{"debug": DEBUG, "INFO": INFO, "Warn": WARN, "error": ERROR} {
		got, err := ParseLogLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLogLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLogLevel("verbose"); err == nil {
		t.Error("unknown level accepted")
	}
	if LogLevel(42).String() != "UNKNOWN" {
		t.Error("out of range level has a name")
	}
}

func TestLConcurrentFirstUse(t *testing.T) {
	got := make([]*Logger, 8)
	var wg sync.WaitGroup
	for i := range got {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i] = L()
		}()
	}
	wg.Wait()

	for i, l := range got {
		if l == nil || l != got[0] {
			t.Fatalf("goroutine %d got logger %p, want %p", i, l, got[0])
		}
	}
}
