package engine

import (
	"context"
	"fmt"

	"svgasset/internal/pipeline"
	"svgasset/internal/telemetry"
)

func Bootstrap(ctx context.Context, cfg Config) (*Engine, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 1. pipeline runner
	runner, err := pipeline.Compile(cfg.PipelineYml)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	// 2. metrics
	metrics := telemetry.NewMetrics()
	runner.SetMetrics(metrics)
	if cfg.MetricsPort > 0 {
		telemetry.Expose(cfg.MetricsPort, metrics.Registry)
	}

	job := cfg.Job
	if job == "" {
		job = DefaultJob
	}
	return &Engine{
		runner:      runner,
		metrics:     metrics,
		pushGateway: cfg.PushGateway,
		job:         job,
	}, nil
}
