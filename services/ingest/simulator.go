package ingest

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"
	"time"

	"fgplot/models"
	"fgplot/utils"
)

// Simulator stands in for FlightGear's generic socket output. It sits
// still on the runway for HoldPoints lines (repeating the same values, as
// the real sim does while it settles) and then climbs out on a straight
// track with a little jitter.
type Simulator struct {
	Fields          models.FieldSpec
	PointsPerSecond int
	HoldPoints      int

	rng *rand.Rand
	lat float64
	lon float64
	alt float64
	gnd float64
	n   int
}

// NewSimulator starts at the threshold of KSFO runway 28R. seed makes the
// jitter reproducible.
func NewSimulator(fields models.FieldSpec, pointsPerSecond int, seed uint64) *Simulator {
	if pointsPerSecond <= 0 {
		pointsPerSecond = 20
	}
	return &Simulator{
		Fields:          fields,
		PointsPerSecond: pointsPerSecond,
		HoldPoints:      3 * pointsPerSecond,
		rng:             rand.New(rand.NewPCG(seed, seed^0x5eed)),
		lat:             37.6134,
		lon:             -122.3574,
		alt:             13.0,
		gnd:             13.0,
	}
}

// Next returns the next telemetry line, newline included.
func (s *Simulator) Next() string {
	if s.n >= s.HoldPoints {
		s.lat += 0.00002 + s.rng.Float64()*0.000005
		s.lon -= 0.00008 + s.rng.Float64()*0.00001
		s.alt += 4.0 + s.rng.Float64()*2.0
		s.gnd = 13.0 + s.rng.Float64()*0.5
	}
	s.n++

	vals := make([]byte, 0, 64)
	for i, f := range s.Fields {
		if i > 0 {
			vals = append(vals, ',')
		}
		vals = append(vals, s.value(f)...)
	}
	return string(vals) + "\n"
}

func (s *Simulator) value(field string) string {
	switch field {
	case "latitude-deg":
		return strconv.FormatFloat(s.lat, 'f', 6, 64)
	case "longitude-deg":
		return strconv.FormatFloat(s.lon, 'f', 6, 64)
	case "altitude-ft":
		return strconv.FormatFloat(s.alt, 'f', 3, 64)
	case "ground-elev-ft":
		return strconv.FormatFloat(s.gnd, 'f', 2, 64)
	}
	return "0"
}

// Run writes lines to w at PointsPerSecond until ctx is done, count lines
// have been sent (count <= 0 means no limit) or a write fails.
func (s *Simulator) Run(ctx context.Context, w io.Writer, count int) error {
	ticker := time.NewTicker(time.Second / time.Duration(s.PointsPerSecond))
	defer ticker.Stop()

	for sent := 0; count <= 0 || sent < count; sent++ {
		select {
		case <-ctx.Done():
			utils.L().Info("simulator stopped  (sent=%d)", sent)
			return nil
		case <-ticker.C:
		}
		if _, err := io.WriteString(w, s.Next()); err != nil {
			return fmt.Errorf("simulator write: %w", err)
		}
	}
	utils.L().Info("simulator finished  (sent=%d)", count)
	return nil
}
