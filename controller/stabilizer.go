package controller

import (
	"time"

	"fgplot/models"
	"fgplot/utils"
)

// Stabilizer decides which accepted records are worth writing. Records are
// suppressed until warmupSeconds worth of points (at the configured rate)
// have been seen, and after that whenever their row would repeat the last
// one written.
//
// The warm-up is counted in points, not wall time: it is only as accurate
// as the simulator's output rate.
type Stabilizer struct {
	fields          models.FieldSpec
	pointsPerSecond uint64
	warmupSeconds   uint64

	current     models.Record
	previous    models.Record
	lastWritten string
	pointsSeen  uint64
	recorded    uint64
	stable      bool
}

// NewStabilizer returns a filter in the warm-up state. pointsPerSecond and
// warmupSeconds must be positive.
func NewStabilizer(fields models.FieldSpec, pointsPerSecond, warmupSeconds int) *Stabilizer {
	return &Stabilizer{
		fields:          fields,
		pointsPerSecond: uint64(pointsPerSecond),
		warmupSeconds:   uint64(warmupSeconds),
	}
}

// Offer feeds one accepted record through the filter. It returns the data
// file row and true when the row should be recorded.
func (s *Stabilizer) Offer(rec models.Record) (string, bool) {
	s.pointsSeen++

	if !s.stable && s.pointsSeen/s.pointsPerSecond >= s.warmupSeconds {
		s.stable = true
		utils.L().Info("%d seconds elapsed, assuming inputs are stable", s.warmupSeconds)
	}

	if !rec.Equal(s.current) {
		s.previous = s.current
		s.current = rec.Clone()
	}

	if !s.stable {
		return "", false
	}
	line := s.current.Line(s.fields)
	if line == s.lastWritten {
		return "", false
	}
	return line, true
}

// MarkRecorded notes that line made it into the data file.
func (s *Stabilizer) MarkRecorded(line string) {
	s.lastWritten = line
	s.recorded++
}

func (s *Stabilizer) Stable() bool            { return s.stable }
func (s *Stabilizer) PointsSeen() uint64      { return s.pointsSeen }
func (s *Stabilizer) RecordedCount() uint64   { return s.recorded }
func (s *Stabilizer) Current() models.Record  { return s.current }
func (s *Stabilizer) Previous() models.Record { return s.previous }
func (s *Stabilizer) LastWritten() string     { return s.lastWritten }

// Elapsed converts the points seen into stream time at the nominal rate.
func (s *Stabilizer) Elapsed() time.Duration {
	return time.Duration(s.pointsSeen) * time.Second / time.Duration(s.pointsPerSecond)
}
