package ingest

import (
	"bufio"
	"context"
	"errors"
	"io"
	"sync/atomic"

	"fgplot/utils"
)

// MaxLineBytes caps one telemetry line. FlightGear lines are well under
// 200 bytes.
const MaxLineBytes = 4096

// LineReader splits a telemetry stream into raw lines. Each line is sent
// on Out with its terminator still attached so the parser can check the
// framing; a trailing fragment without one is sent as-is. A line longer
// than MaxLineBytes is cut: its first MaxLineBytes are sent without a
// terminator (so the parser rejects them) and the rest is dropped. Out is
// closed when the stream ends or ctx is cancelled.
type LineReader struct {
	name     string
	src      io.Reader
	maxLine  int
	Out      chan string
	produced atomic.Uint64
	oversize atomic.Uint64
	err      error
}

// NewLineReader wraps src. buffer is the capacity of Out.
func NewLineReader(name string, src io.Reader, buffer int) *LineReader {
	if buffer <= 0 {
		buffer = 64
	}
	return &LineReader{
		name:    name,
		src:     src,
		maxLine: MaxLineBytes,
		Out:     make(chan string, buffer),
	}
}

// Start launches the reading goroutine.
func (r *LineReader) Start(ctx context.Context) {
	utils.L().Debug("line reader started  (src=%s, buffer=%d)", r.name, cap(r.Out))
	go r.run(ctx)
}

func (r *LineReader) run(ctx context.Context) {
	defer close(r.Out)

	br := bufio.NewReaderSize(r.src, r.maxLine)
	skipping := false
	for {
		chunk, err := br.ReadSlice('\n')
		full := errors.Is(err, bufio.ErrBufferFull)

		switch {
		case skipping:
			// Tail of an oversized line.
			if !full {
				skipping = false
			}
		case len(chunk) > 0:
			if full {
				r.oversize.Add(1)
				utils.L().Warn("line reader: %s sent a line over %d bytes, truncating", r.name, r.maxLine)
				skipping = true
			}
			select {
			case r.Out <- string(chunk):
				r.produced.Add(1)
			case <-ctx.Done():
				return
			}
		}

		if err != nil && !full {
			if !errors.Is(err, io.EOF) && ctx.Err() == nil {
				r.err = err
			}
			utils.L().Debug("line reader stopped  (src=%s, lines=%d, err=%v)", r.name, r.produced.Load(), err)
			return
		}
	}
}

// Err returns the read error that ended the stream, or nil for a clean
// EOF or cancellation. Only meaningful after Out has been closed.
func (r *LineReader) Err() error {
	return r.err
}

// Produced returns the number of lines sent on Out.
func (r *LineReader) Produced() uint64 {
	return r.produced.Load()
}

// Oversize returns the number of lines cut at MaxLineBytes.
func (r *LineReader) Oversize() uint64 {
	return r.oversize.Load()
}
