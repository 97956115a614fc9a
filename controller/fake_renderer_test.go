package controller

import (
	"errors"
	"strings"
)

// fakeRenderer records every command instead of talking to gnuplot.
type fakeRenderer struct {
	cmds       []string
	running    bool
	terminated int
	failOn     string // commands with this prefix fail
}

func (f *fakeRenderer) Send(cmd string) error {
	if f.failOn != "" && strings.HasPrefix(cmd, f.failOn) {
		return errors.New("broken pipe")
	}
	f.cmds = append(f.cmds, cmd)
	return nil
}

func (f *fakeRenderer) Running() bool { return f.running }

func (f *fakeRenderer) Terminate() error {
	f.terminated++
	f.running = false
	return nil
}

// fakeFactory hands out one fakeRenderer per start.
type fakeFactory struct {
	proc   *fakeRenderer
	starts int
	err    error
	failOn string
}

func (ff *fakeFactory) start() (Renderer, error) {
	ff.starts++
	if ff.err != nil {
		return nil, ff.err
	}
	ff.proc = &fakeRenderer{running: true, failOn: ff.failOn}
	return ff.proc, nil
}

func (ff *fakeFactory) cmds() []string {
	if ff.proc == nil {
		return nil
	}
	return ff.proc.cmds
}

func countPrefix(cmds []string, prefix string) int {
	n := 0
	for _, c := range cmds {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}
