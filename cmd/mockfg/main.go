// mockfg pretends to be FlightGear sending generic-protocol telemetry.
//
//	go run ./cmd -pps=20               (listens on :5555)
//	go run ./cmd/mockfg -duration=30s  (dials localhost:5555)
package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"

	"fgplot/services/ingest"
	"fgplot/utils"
)

func main() {
	host := flag.String("host", "localhost:5555", "host:port fgplot is listening on")
	configPath := flag.StringP("config", "c", "", "fgplot.yaml to take fields and rate from")
	duration := flag.Duration("duration", 30*time.Second, "how long to fly before disconnecting")
	seed := flag.Uint64("seed", 1, "seed for the trajectory jitter")
	flag.Parse()

	utils.InitLogger(utils.INFO, "")

	cfg, err := utils.LoadConfig(*configPath)
	if err != nil {
		utils.L().Fatal("load config: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	conn, err := net.Dial("tcp", *host)
	if err != nil {
		utils.L().Fatal("dial %s: %v", *host, err)
	}
	defer conn.Close()
	utils.L().Info("connected to %s, sending %d points/s for %s", *host, cfg.Stream.PointsPerSecond, *duration)

	sim := ingest.NewSimulator(cfg.FieldSpec(), cfg.Stream.PointsPerSecond, *seed)
	count := int(duration.Seconds() * float64(cfg.Stream.PointsPerSecond))
	if err := sim.Run(ctx, conn, count); err != nil {
		utils.L().Error("%v", err)
		os.Exit(1)
	}
}
