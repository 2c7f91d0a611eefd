package engine

import (
	"context"
	"errors"
	"fmt"

	"svgasset/internal/logging"
	"svgasset/internal/pipeline"
	"svgasset/internal/telemetry"
	"svgasset/source/fs"
)

const DefaultJob = "svgasset"

type Config struct {
	PipelineYml string
	MetricsPort int    // 0 disables the /metrics listener
	PushGateway string // optional push gateway URL
	Job         string
}

type Engine struct {
	runner      *pipeline.Runner
	metrics     *telemetry.Metrics
	pushGateway string
	job         string
}

// Run builds every tracked file under the pipeline's base directory once,
// pushes the run's metrics when a gateway is configured and releases the
// runner's resources.
func (e *Engine) Run(ctx context.Context) (err error) {
	defer func() {
		err = errors.Join(err, e.runner.Close())
	}()

	base := e.runner.Params().BaseDir
	files, err := fs.Walk(base, e.runner.Processor().Extensions())
	if err != nil {
		return err
	}
	logging.For("engine").Info("build starting", "basedir", base, "files", len(files))

	runErr := e.runner.Run(ctx, files)

	if e.pushGateway != "" {
		if perr := telemetry.Push(context.WithoutCancel(ctx), e.pushGateway, e.job, e.metrics.Registry); perr != nil {
			logging.For("engine").Warn("metrics push failed", "url", e.pushGateway, "err", perr)
		}
	}
	if runErr != nil {
		return fmt.Errorf("build: %w", runErr)
	}
	return nil
}
