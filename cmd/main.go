package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"

	"fgplot/controller"
	"fgplot/services/ingest"
	"fgplot/services/render"
	"fgplot/utils"
)

func main() {
	// ── CLI flags ────────────────────────────────────────────────────
	configPath := flag.StringP("config", "c", "", "path to fgplot.yaml (built-in defaults when empty)")
	listen := flag.StringP("listen", "l", "", "address to accept the simulator on, e.g. :5555")
	dataFile := flag.String("data", "", "data file the points are written to")
	outputFile := flag.String("output", "", "image file saved when the stream ends")
	pps := flag.Int("pps", 0, "points per second the simulator sends")
	gnuplot := flag.String("gnuplot", "", "renderer binary")
	replay := flag.StringP("replay", "f", "", "replay a recorded telemetry file instead of listening")
	stats := flag.Int("stats", -1, "seconds between stats lines (0 disables)")
	logFile := flag.String("log", "", "optional log file path (stdout is always included)")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	flag.Parse()

	// ── Logger ───────────────────────────────────────────────────────
	lvl, err := utils.ParseLogLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
	logger := utils.InitLogger(lvl, *logFile)
	defer logger.Close()

	// ── Config ───────────────────────────────────────────────────────
	cfg, err := utils.LoadConfig(*configPath)
	if err != nil {
		utils.L().Fatal("load config: %v", err)
	}
	if *listen != "" {
		cfg.Server.Listen = *listen
	}
	if *dataFile != "" {
		cfg.Storage.DataFile = *dataFile
	}
	if *outputFile != "" {
		cfg.Storage.OutputFile = *outputFile
	}
	if *pps > 0 {
		cfg.Stream.PointsPerSecond = *pps
	}
	if *gnuplot != "" {
		cfg.Renderer.Command = *gnuplot
	}
	if *stats >= 0 {
		cfg.Server.StatsIntervalSeconds = *stats
	}
	if err := cfg.Validate(); err != nil {
		utils.L().Fatal("config: %v", err)
	}
	// Fail on bad plot columns or transforms before anyone connects.
	if _, err := controller.SessionOptionsFromConfig(cfg, time.Now()); err != nil {
		utils.L().Fatal("config: %v", err)
	}

	// ── Context with OS signal cancellation ──────────────────────────
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *replay != "" {
		f, err := os.Open(*replay)
		if err != nil {
			utils.L().Fatal("open replay file: %v", err)
		}
		defer f.Close()
		utils.L().Info("replaying %s", *replay)
		if err := runSession(ctx, cfg, f, *replay); err != nil {
			utils.L().Error("session: %v", err)
			os.Exit(1)
		}
		return
	}

	ln, err := ingest.Listen(cfg.Server.Listen)
	if err != nil {
		utils.L().Fatal("%v", err)
	}
	err = ln.Serve(ctx, func(ctx context.Context, conn net.Conn) {
		if err := runSession(ctx, cfg, conn, conn.RemoteAddr().String()); err != nil {
			utils.L().Error("session with %s: %v", conn.RemoteAddr(), err)
		}
	})
	if err != nil {
		utils.L().Fatal("%v", err)
	}
	utils.L().Info("Final clean shutdown (rejected %d concurrent connections)", ln.Rejected())
}

// runSession builds a fresh pipeline for one telemetry stream and runs it
// to the end.
func runSession(ctx context.Context, cfg *utils.Config, src io.Reader, name string) error {
	opts, err := controller.SessionOptionsFromConfig(cfg, time.Now())
	if err != nil {
		return err
	}
	sess, err := controller.NewSession(opts, gnuplotFactory(cfg))
	if err != nil {
		return err
	}
	return sess.Run(ctx, src, name, cfg.StatsInterval())
}

func gnuplotFactory(cfg *utils.Config) controller.RendererFactory {
	opts := render.Options{
		Command: cfg.Renderer.Command,
		Args:    cfg.Renderer.Args,
	}
	return func() (controller.Renderer, error) {
		p, err := render.Start(opts)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
}
