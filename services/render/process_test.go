package render

import (
	"bytes"
	"errors"
	"os/exec"
	"testing"
	"time"
)

func need(t *testing.T, bin string) {
	t.Helper()
	if _, err := exec.LookPath(bin); err != nil {
		t.Skipf("%s not available", bin)
	}
}

func TestProcessSendReachesStdin(t *testing.T) {
	need(t, "sh")
	var out bytes.Buffer
	p, err := Start(Options{Command: "sh", Args: []string{"-c", `read line; echo "got $line"`}, Stdout: &out})
	if err != nil {
		t.Fatal(err)
	}
	if !p.Running() {
		t.Fatal("not running after Start")
	}
	if err := p.Send("replot"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for p.Running() {
		if time.Now().After(deadline) {
			t.Fatal("process did not exit after reading its line")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if err := p.Terminate(); err != nil {
		t.Fatalf("Terminate: %v", err)
	}
	if out.String() != "got replot\n" {
		t.Errorf("stdout = %q", out.String())
	}
	if p.ExitErr() != nil {
		t.Errorf("ExitErr = %v", p.ExitErr())
	}
	if err := p.Send("quit"); !errors.Is(err, ErrExited) {
		t.Errorf("Send after exit = %v, want ErrExited", err)
	}
}

func TestProcessTerminateKills(t *testing.T) {
	need(t, "sleep")
	p, err := Start(Options{Command: "sleep", Args: []string{"30"}})
	if err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 1)
	go func() { done <- p.Terminate() }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Terminate: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Terminate hung")
	}
	if p.Running() {
		t.Error("still running after Terminate")
	}
	if err := p.Terminate(); err != nil {
		t.Errorf("second Terminate: %v", err)
	}
}

func TestStartMissingBinary(t *testing.T) {
	if _, err := Start(Options{Command: "fgplot-no-such-renderer"}); err == nil {
		t.Error("missing binary started")
	}
}
