package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"fgplot/models"
	"fgplot/services/ingest"
	"fgplot/utils"
	"fgplot/views"
)

// SessionOptions is everything one session needs, resolved from config.
type SessionOptions struct {
	Fields          models.FieldSpec
	Transforms      map[string]models.Transform
	Plot            models.PlotSpec
	PointsPerSecond int
	WarmupSeconds   int
	Renderer        RendererOptions
}

// SessionOptionsFromConfig resolves plot columns into selectors and builds
// the field transforms. With storage.per_session set, the data and output
// paths get a tag derived from now so consecutive sessions do not collide.
func SessionOptionsFromConfig(cfg *utils.Config, now time.Time) (SessionOptions, error) {
	fields := cfg.FieldSpec()

	transforms, err := cfg.Transforms()
	if err != nil {
		return SessionOptions{}, err
	}

	plot := make(models.PlotSpec, 0, len(cfg.Plot.Series))
	for i, s := range cfg.Plot.Series {
		using := s.Using
		if using == "" {
			if using, err = views.Selector(fields, s.Columns); err != nil {
				return SessionOptions{}, fmt.Errorf("plot series %d: %w", i, err)
			}
		}
		plot = append(plot, models.Series{Title: s.Title, Using: using})
	}

	dataFile, outputFile := cfg.Storage.DataFile, cfg.Storage.OutputFile
	if cfg.Storage.PerSession {
		tag := utils.SessionName(cfg.Storage.SessionPrefix, now)
		dataFile = utils.NamespacedPath(dataFile, tag)
		outputFile = utils.NamespacedPath(outputFile, tag)
	}

	return SessionOptions{
		Fields:          fields,
		Transforms:      transforms,
		Plot:            plot,
		PointsPerSecond: cfg.Stream.PointsPerSecond,
		WarmupSeconds:   cfg.Stream.WarmupSeconds,
		Renderer: RendererOptions{
			PlotVerb:   cfg.Renderer.PlotVerb,
			Terminal:   cfg.Renderer.Terminal,
			DataFile:   dataFile,
			OutputFile: outputFile,
			Settle:     cfg.Settle(),
		},
	}, nil
}

// Session is the per-connection pipeline:
//
//	raw line ─► Parser ─► Stabilizer ─► RecordingController ─► RendererController
//
// Lines are handled one at a time on the caller's goroutine. Close runs
// the save and teardown sequence exactly once.
type Session struct {
	ID string

	opts     SessionOptions
	parser   *Parser
	filter   *Stabilizer
	recorder *RecordingController
	renderer *RendererController

	lines    atomic.Uint64
	rejected atomic.Uint64
	fatal    error

	closeOnce sync.Once
	closeErr  error
}

// NewSession truncates the data file and wires up a fresh pipeline. The
// renderer is not started until the first point is recorded.
func NewSession(opts SessionOptions, start RendererFactory) (*Session, error) {
	if opts.PointsPerSecond <= 0 || opts.WarmupSeconds <= 0 {
		return nil, fmt.Errorf("session: points per second and warm-up must be positive")
	}
	recorder, err := NewRecordingController(opts.Renderer.DataFile)
	if err != nil {
		return nil, err
	}
	s := &Session{
		ID:       uuid.NewString(),
		opts:     opts,
		parser:   NewParser(opts.Fields, opts.Transforms),
		filter:   NewStabilizer(opts.Fields, opts.PointsPerSecond, opts.WarmupSeconds),
		recorder: recorder,
		renderer: NewRendererController(opts.Renderer, start),
	}
	utils.L().Info("session %s started  fields=%v  pps=%d", s.ID, opts.Fields, opts.PointsPerSecond)
	return s, nil
}

// HandleLine runs one raw line through the pipeline. Malformed lines are
// logged and dropped; any other error is fatal for the session and is
// returned again on every later call.
func (s *Session) HandleLine(raw string) error {
	if s.fatal != nil {
		return s.fatal
	}
	s.lines.Add(1)

	rec, err := s.parser.Parse(raw)
	if err != nil {
		s.rejected.Add(1)
		utils.L().Warn("session %s: discarding %q: %v", s.ID, raw, err)
		return nil
	}

	line, ok := s.filter.Offer(rec)
	if !ok {
		return nil
	}
	if err := s.recorder.Record(line); err != nil {
		s.fatal = err
		return err
	}
	s.filter.MarkRecorded(line)

	if err := s.renderer.Replot(s.opts.Plot); err != nil {
		s.fatal = err
		return err
	}
	return nil
}

// Close saves the plot and tears the renderer down. Later calls return the
// first call's result without doing anything.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		var saveErr error
		if s.renderer.Err() == nil {
			saveErr = s.renderer.Save()
		}
		tearErr := s.renderer.Teardown()

		utils.L().Info("Recorded %d points in %d seconds",
			s.filter.RecordedCount(), int64(s.filter.Elapsed()/time.Second))
		utils.L().Info("session %s closed  (lines=%d, rejected=%d, data=%s)",
			s.ID, s.lines.Load(), s.rejected.Load(), s.recorder.DataFile())

		s.closeErr = errors.Join(saveErr, tearErr)
	})
	return s.closeErr
}

// Run feeds the lines read from src through the session until src ends,
// ctx is cancelled or a line fails fatally, then closes the session. With
// statsInterval > 0 the counters are logged on that period. It returns the
// fatal error, or else the error from closing.
func (s *Session) Run(ctx context.Context, src io.Reader, name string, statsInterval time.Duration) error {
	defer s.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	reader := ingest.NewLineReader(name, src, 256)
	reader.Start(ctx)

	var tick <-chan time.Time
	if statsInterval > 0 {
		ticker := time.NewTicker(statsInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	var fatal error
loop:
	for {
		select {
		case line, ok := <-reader.Out:
			if !ok {
				break loop
			}
			if err := s.HandleLine(line); err != nil {
				fatal = err
				break loop
			}
		case <-tick:
			s.LogStats()
		case <-ctx.Done():
			break loop
		}
	}

	switch {
	case fatal != nil:
		utils.L().Error("ending session %s: %v", s.ID, fatal)
	case ctx.Err() != nil:
		utils.L().Info("Lost connection with client: shutting down")
	case reader.Err() != nil:
		utils.L().Info("Lost connection with client: %v", reader.Err())
	default:
		utils.L().Info("Lost connection with client: connection closed cleanly")
	}

	cancel()
	if err := s.Close(); err != nil && fatal == nil {
		return err
	}
	return fatal
}

// LogStats prints the running counters. Safe to call from another
// goroutine while lines are being handled.
func (s *Session) LogStats() {
	utils.L().Info("  session %s  lines=%d  rejected=%d  recorded=%d",
		s.ID, s.lines.Load(), s.rejected.Load(), s.recorder.RowsWritten())
}

// Filter exposes the session's stabilization filter.
func (s *Session) Filter() *Stabilizer {
	return s.filter
}

// DataFile returns where this session records points.
func (s *Session) DataFile() string {
	return s.recorder.DataFile()
}
