package utils

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"fgplot/models"
)

// ─── Section configs ────────────────────────────────────────────────────

type ServerConfig struct {
	Listen               string `yaml:"listen"`
	StatsIntervalSeconds int    `yaml:"stats_interval_seconds"` // 0 disables the stats ticker
}

// StreamConfig describes the telemetry lines FlightGear sends. Fields must
// match the order in the generic protocol XML on the simulator side.
type StreamConfig struct {
	Fields          []string          `yaml:"fields"`
	PointsPerSecond int               `yaml:"points_per_second"`
	WarmupSeconds   int               `yaml:"warmup_seconds"`
	Transforms      map[string]string `yaml:"transforms"` // field -> "round:1", "trim"
}

// SeriesConfig is one plotted series. Exactly one of Using (a raw gnuplot
// selector such as "1:2:3") or Columns (field names) must be set.
type SeriesConfig struct {
	Title   string   `yaml:"title"`
	Using   string   `yaml:"using"`
	Columns []string `yaml:"columns"`
}

type PlotConfig struct {
	Series []SeriesConfig `yaml:"series"`
}

type StorageConfig struct {
	DataFile      string `yaml:"data_file"`
	OutputFile    string `yaml:"output_file"`
	PerSession    bool   `yaml:"per_session"`
	SessionPrefix string `yaml:"session_prefix"`
}

type RendererConfig struct {
	Command  string   `yaml:"command"`
	Args     []string `yaml:"args"`
	PlotVerb string   `yaml:"plot_verb"` // "splot" for 3D paths, "plot" for 2D
	Terminal string   `yaml:"terminal"`  // passed to "set term" on save
	SettleMs int      `yaml:"settle_ms"`
}

// Config is the top-level structure for fgplot.yaml.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Stream   StreamConfig   `yaml:"stream"`
	Plot     PlotConfig     `yaml:"plot"`
	Storage  StorageConfig  `yaml:"storage"`
	Renderer RendererConfig `yaml:"renderer"`
}

// DefaultConfig reproduces the stock setup: FlightGear position plus
// ground elevation on port 5555, a 3D flight path and ground trace, written
// to pos.txt and saved to out.eps.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Listen:               ":5555",
			StatsIntervalSeconds: 0,
		},
		Stream: StreamConfig{
			Fields:          []string{"latitude-deg", "longitude-deg", "altitude-ft", "ground-elev-ft"},
			PointsPerSecond: 20,
			WarmupSeconds:   3,
		},
		Plot: PlotConfig{
			Series: []SeriesConfig{
				{Title: "Flight path", Using: "1:2:3"},
				{Title: "Ground elevation", Using: "1:2:4"},
			},
		},
		Storage: StorageConfig{
			DataFile:      "pos.txt",
			OutputFile:    "out.eps",
			SessionPrefix: "flight",
		},
		Renderer: RendererConfig{
			Command:  "gnuplot",
			PlotVerb: "splot",
			Terminal: "postscript eps enhanced",
			SettleMs: 1000,
		},
	}
}

// ─── Loaders ────────────────────────────────────────────────────────────

// LoadConfig reads fgplot.yaml on top of DefaultConfig, so a file only
// needs the keys it changes. An empty path yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", displayPath(path), err)
	}
	return cfg, nil
}

func displayPath(path string) string {
	if path == "" {
		return "(defaults)"
	}
	return path
}

// Validate checks the settings the session pipeline relies on.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Listen == "" {
		errs = append(errs, errors.New("server.listen is empty"))
	}
	if c.Server.StatsIntervalSeconds < 0 {
		errs = append(errs, errors.New("server.stats_interval_seconds must not be negative"))
	}

	if len(c.Stream.Fields) == 0 {
		errs = append(errs, errors.New("stream.fields is empty"))
	}
	seen := map[string]bool{}
	for _, f := range c.Stream.Fields {
		switch {
		case f == "":
			errs = append(errs, errors.New("stream.fields contains an empty name"))
		case seen[f]:
			errs = append(errs, fmt.Errorf("stream.fields lists %q twice", f))
		}
		seen[f] = true
	}
	if c.Stream.PointsPerSecond <= 0 {
		errs = append(errs, errors.New("stream.points_per_second must be positive"))
	}
	if c.Stream.WarmupSeconds <= 0 {
		errs = append(errs, errors.New("stream.warmup_seconds must be positive"))
	}
	for field, spec := range c.Stream.Transforms {
		if !seen[field] {
			errs = append(errs, fmt.Errorf("stream.transforms names unknown field %q", field))
		}
		if _, err := models.ParseTransform(spec); err != nil {
			errs = append(errs, fmt.Errorf("stream.transforms[%s]: %w", field, err))
		}
	}

	if len(c.Plot.Series) == 0 {
		errs = append(errs, errors.New("plot.series is empty"))
	}
	for i, s := range c.Plot.Series {
		if (s.Using == "") == (len(s.Columns) == 0) {
			errs = append(errs, fmt.Errorf("plot.series[%d]: set exactly one of using or columns", i))
		}
		for _, col := range s.Columns {
			if !seen[col] {
				errs = append(errs, fmt.Errorf("plot.series[%d]: unknown column %q", i, col))
			}
		}
	}

	if c.Storage.DataFile == "" {
		errs = append(errs, errors.New("storage.data_file is empty"))
	}
	if c.Storage.OutputFile == "" {
		errs = append(errs, errors.New("storage.output_file is empty"))
	}
	if c.Storage.DataFile != "" && c.Storage.DataFile == c.Storage.OutputFile {
		errs = append(errs, errors.New("storage.data_file and storage.output_file are the same file"))
	}

	if c.Renderer.Command == "" {
		errs = append(errs, errors.New("renderer.command is empty"))
	}
	if c.Renderer.PlotVerb == "" {
		errs = append(errs, errors.New("renderer.plot_verb is empty"))
	}
	if c.Renderer.Terminal == "" {
		errs = append(errs, errors.New("renderer.terminal is empty"))
	}
	if c.Renderer.SettleMs < 0 {
		errs = append(errs, errors.New("renderer.settle_ms must not be negative"))
	}

	return errors.Join(errs...)
}

// FieldSpec returns the configured wire/column order.
func (c *Config) FieldSpec() models.FieldSpec {
	return models.FieldSpec(append([]string(nil), c.Stream.Fields...))
}

// Transforms builds the per-field hooks named in stream.transforms.
func (c *Config) Transforms() (map[string]models.Transform, error) {
	out := make(map[string]models.Transform, len(c.Stream.Transforms))
	for field, spec := range c.Stream.Transforms {
		t, err := models.ParseTransform(spec)
		if err != nil {
			return nil, fmt.Errorf("transform for %s: %w", field, err)
		}
		out[field] = t
	}
	return out, nil
}

// Settle is how long the save sequence waits for the renderer to flush.
func (c *Config) Settle() time.Duration {
	return time.Duration(c.Renderer.SettleMs) * time.Millisecond
}

// StatsInterval is zero when periodic stats are disabled.
func (c *Config) StatsInterval() time.Duration {
	return time.Duration(c.Server.StatsIntervalSeconds) * time.Second
}
