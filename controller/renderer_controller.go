package controller

import (
	"fmt"
	"time"

	"fgplot/models"
	"fgplot/utils"
	"fgplot/views"
)

// Renderer is a running external plotting process that takes one command
// per line on its input.
type Renderer interface {
	Send(cmd string) error
	Running() bool
	Terminate() error
}

// RendererFactory starts a renderer process.
type RendererFactory func() (Renderer, error)

type rendererState int

const (
	rendererUninitialized rendererState = iota
	rendererRunning
	rendererTerminated
)

func (s rendererState) String() string {
	switch s {
	case rendererUninitialized:
		return "uninitialized"
	case rendererRunning:
		return "running"
	case rendererTerminated:
		return "terminated"
	}
	return "unknown"
}

// RendererOptions fixes what the renderer reads and where it saves.
type RendererOptions struct {
	PlotVerb   string
	Terminal   string
	DataFile   string
	OutputFile string
	Settle     time.Duration
}

// RendererController drives the renderer through its one-way lifecycle:
// uninitialized until the first point is recorded, running until teardown,
// then terminated. Commands go out one per line in a fixed order; after
// the first failed write nothing else is sent.
type RendererController struct {
	opts  RendererOptions
	start RendererFactory
	sleep func(time.Duration)

	state  rendererState
	proc   Renderer
	plot   models.PlotSpec
	pinned bool
	warned bool
	failed error
}

// NewRendererController returns an uninitialized controller; start is
// called on the first replot.
func NewRendererController(opts RendererOptions, start RendererFactory) *RendererController {
	return &RendererController{
		opts:  opts,
		start: start,
		sleep: time.Sleep,
	}
}

// Pin fixes the plot for the rest of the session. Only the first call
// takes effect; a later, different plot is ignored with a warning. It
// reports whether plot is the one in force.
func (rc *RendererController) Pin(plot models.PlotSpec) bool {
	if !rc.pinned {
		rc.plot = append(models.PlotSpec(nil), plot...)
		rc.pinned = true
		return true
	}
	if plot != nil && !plot.Equal(rc.plot) {
		if !rc.warned {
			utils.L().Warn("renderer: plot already pinned to %d series, ignoring a different one", len(rc.plot))
			rc.warned = true
		}
		return false
	}
	return true
}

// Plot returns the pinned plot, or nil.
func (rc *RendererController) Plot() models.PlotSpec {
	return rc.plot
}

// Replot tells the renderer a new point is in the data file, starting the
// renderer first if needed.
func (rc *RendererController) Replot(plot models.PlotSpec) error {
	if rc.failed != nil {
		return rc.failed
	}
	switch rc.state {
	case rendererTerminated:
		return ErrTerminated
	case rendererUninitialized:
		rc.Pin(plot)
		if err := rc.launch(); err != nil {
			return err
		}
	default:
		rc.Pin(plot)
	}
	return rc.send(views.CmdReplot)
}

func (rc *RendererController) launch() error {
	proc, err := rc.start()
	if err != nil {
		rc.failed = fmt.Errorf("%w: %v", ErrSpawn, err)
		return rc.failed
	}
	rc.proc = proc
	rc.state = rendererRunning
	if err := rc.send(views.PlotCommand(rc.opts.PlotVerb, rc.opts.DataFile, rc.plot)); err != nil {
		return err
	}
	utils.L().Info("renderer started (%d series from %s)", len(rc.plot), rc.opts.DataFile)
	return nil
}

// Save renders the current plot to the output file and waits for the
// settle interval so the renderer can finish writing it. The wait blocks
// the caller. If the renderer never started there is nothing to save.
func (rc *RendererController) Save() error {
	switch {
	case rc.failed != nil:
		return rc.failed
	case rc.state == rendererUninitialized:
		utils.L().Info("renderer: nothing plotted, skipping save")
		return nil
	case rc.state == rendererTerminated:
		return ErrTerminated
	}

	for _, cmd := range []string{
		views.TerminalCommand(rc.opts.Terminal),
		views.OutputCommand(rc.opts.OutputFile),
		views.CmdReplot,
	} {
		if err := rc.send(cmd); err != nil {
			return err
		}
	}
	rc.sleep(rc.opts.Settle)
	utils.L().Info("Saved graph to %s", rc.opts.OutputFile)
	return nil
}

// Teardown asks the renderer to quit and then kills it whether or not it
// listened. Safe to call more than once; only the first call acts.
func (rc *RendererController) Teardown() error {
	if rc.state == rendererTerminated {
		return nil
	}
	prev := rc.state
	rc.state = rendererTerminated
	if prev == rendererUninitialized || rc.proc == nil {
		return nil
	}

	if rc.failed == nil && rc.proc.Running() {
		if err := rc.send(views.CmdQuit); err != nil {
			utils.L().Debug("renderer: quit not delivered: %v", err)
		}
	}
	if err := rc.proc.Terminate(); err != nil {
		return fmt.Errorf("terminate renderer: %w", err)
	}
	utils.L().Info("Killed renderer")
	return nil
}

// Running reports whether the renderer has been started and not torn down.
func (rc *RendererController) Running() bool {
	return rc.state == rendererRunning
}

// Err returns the error that stopped the renderer, if any.
func (rc *RendererController) Err() error {
	return rc.failed
}

func (rc *RendererController) send(cmd string) error {
	if rc.failed != nil {
		return rc.failed
	}
	if err := rc.proc.Send(cmd); err != nil {
		rc.failed = fmt.Errorf("%w: %q: %v", ErrPipeWrite, cmd, err)
		return rc.failed
	}
	utils.L().Debug("renderer <- %s", cmd)
	return nil
}
