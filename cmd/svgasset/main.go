package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"svgasset/internal/engine"
	"svgasset/internal/logging"
)

func main() {
	var cfg engine.Config
	flag.StringVar(&cfg.PipelineYml, "pipeline", "pipeline.yml", "pipeline file")
	flag.IntVar(&cfg.MetricsPort, "metrics-addr", 0, "port for /metrics (0 disables)")
	flag.StringVar(&cfg.PushGateway, "push-gateway", "", "prometheus push gateway URL")
	flag.StringVar(&cfg.Job, "job", engine.DefaultJob, "push gateway job name")
	flag.Parse()

	// .env is optional; real env vars win.
	_ = godotenv.Load()
	logging.InitFromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	e, err := engine.Bootstrap(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}

	if err := e.Run(ctx); err != nil {
		log.Fatalf("engine: %v", err)
	}
}
