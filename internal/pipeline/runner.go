package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"svgasset/internal/logging"
	"svgasset/internal/telemetry"
	"svgasset/processor"
)

const DefaultConcurrency = 4

// Runner drives one processor over a batch of file events and finalizes it
// once every file has been handled.
type Runner struct {
	proc        processor.Processor
	params      processor.Params
	concurrency int
	metrics     *telemetry.Metrics

	closers []io.Closer
}

func NewRunner(p processor.Processor, params processor.Params) *Runner {
	return &Runner{proc: p, params: params, concurrency: DefaultConcurrency}
}

func (r *Runner) SetConcurrency(n int) {
	if n > 0 {
		r.concurrency = n
	}
}

func (r *Runner) SetMetrics(m *telemetry.Metrics) { r.metrics = m }

// AddCloser registers a resource released by Close (sinks, notifiers).
func (r *Runner) AddCloser(c io.Closer) { r.closers = append(r.closers, c) }

func (r *Runner) Processor() processor.Processor { return r.proc }
func (r *Runner) Params() processor.Params       { return r.params }

// Run dispatches every file the processor handles, at most concurrency at a
// time. The first failure cancels the remaining files and is returned;
// Finalize only runs when all files succeeded.
func (r *Runner) Run(ctx context.Context, files []processor.File) error {
	if r.proc == nil {
		return errors.New("runner: no processor configured")
	}
	exts := r.proc.Extensions()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	dispatched := 0
	for _, f := range files {
		if !processor.Handles(exts, f.Path) {
			continue
		}
		if gctx.Err() != nil {
			break
		}
		dispatched++
		g.Go(func() error { return r.handle(gctx, f) })
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	err := r.proc.Finalize(ctx)
	r.metrics.ObserveFinalize(r.proc.Name(), err)
	if err != nil {
		return fmt.Errorf("%s: finalize: %w", r.proc.Name(), err)
	}
	logging.L().Info("pipeline run complete", "processor", r.proc.Name(), "files", dispatched)
	return nil
}

func (r *Runner) handle(ctx context.Context, f processor.File) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	err := processor.Dispatch(ctx, r.proc, f, r.params)
	r.metrics.ObserveFile(r.proc.Name(), err, time.Since(start))
	if err != nil {
		logging.L().Error("file failed", "processor", r.proc.Name(), "path", f.Path, "err", err)
	}
	return err
}

func (r *Runner) Close() error {
	var errs []error
	for _, c := range r.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
