// Package render runs the external plotting program (gnuplot) that the
// renderer controller talks to over its standard input.
package render

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"fgplot/utils"
)

// ErrExited is returned by Send once the process has gone away.
var ErrExited = errors.New("renderer process exited")

// Options describes how to launch the renderer. Nil Stdout/Stderr discard
// the program's output.
type Options struct {
	Command string
	Args    []string
	Stdout  io.Writer
	Stderr  io.Writer
}

// Process is a started renderer with its stdin attached. It runs in its
// own process group so that Terminate also takes down helpers it spawns
// (gnuplot's x11 driver, for one).
type Process struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser

	mu      sync.Mutex
	exited  chan struct{}
	waitErr error
	killed  bool
}

// Start launches opts.Command.
func Start(opts Options) (*Process, error) {
	cmd := exec.Command(opts.Command, opts.Args...)
	cmd.Stdout = opts.Stdout
	cmd.Stderr = opts.Stderr
	setProcessGroup(cmd)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe for %s: %w", opts.Command, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", opts.Command, err)
	}

	p := &Process{
		cmd:    cmd,
		stdin:  stdin,
		exited: make(chan struct{}),
	}
	go func() {
		err := cmd.Wait()
		p.mu.Lock()
		p.waitErr = err
		p.mu.Unlock()
		close(p.exited)
	}()

	utils.L().Info("renderer process started  cmd=%s  pid=%d", opts.Command, cmd.Process.Pid)
	return p, nil
}

// Send writes cmd and a newline to the renderer's stdin. Every command is
// its own write, so nothing sits in a buffer between commands.
func (p *Process) Send(cmd string) error {
	if !p.Running() {
		return ErrExited
	}
	if _, err := io.WriteString(p.stdin, cmd+"\n"); err != nil {
		return err
	}
	return nil
}

// Running reports whether the process has not yet exited.
func (p *Process) Running() bool {
	select {
	case <-p.exited:
		return false
	default:
		return true
	}
}

// Terminate kills the process group and waits for the process to be
// reaped. Calling it again is a no-op.
func (p *Process) Terminate() error {
	p.mu.Lock()
	if p.killed {
		p.mu.Unlock()
		return nil
	}
	p.killed = true
	p.mu.Unlock()

	_ = p.stdin.Close()
	if p.Running() {
		if err := killProcessGroup(p.cmd); err != nil {
			return fmt.Errorf("kill renderer pid %d: %w", p.cmd.Process.Pid, err)
		}
	}
	<-p.exited
	return nil
}

// ExitErr returns the error from waiting on the process once it exited.
func (p *Process) ExitErr() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.waitErr
}
