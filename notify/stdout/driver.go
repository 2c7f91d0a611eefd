package stdout

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"svgasset/notify"
)

/* ────────── public YAML config ────────── */
type Config struct {
	PrintCounter bool `yaml:"print_counter"` // prepend seq#
}

/* ────────── driver ────────── */
type driver struct {
	cfg Config
	out io.Writer

	mu  sync.Mutex // serializes writes to out
	seq uint64
}

func (d *driver) Configure(raw any) error {
	c, ok := raw.(Config)
	if !ok {
		return fmt.Errorf("stdout-notify: expected Config, got %T", raw)
	}
	d.cfg = c
	return nil
}

func (d *driver) Publish(_ context.Context, ev notify.AssetEvent) error {
	w := d.out
	if w == nil {
		w = os.Stdout
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cfg.PrintCounter {
		_, err := fmt.Fprintf(w, "[asset %06d] %s -> %s (%d bytes)\n", atomic.AddUint64(&d.seq, 1), ev.Source, ev.Asset, ev.Size)
		return err
	}
	_, err := fmt.Fprintf(w, "[asset] %s -> %s (%d bytes)\n", ev.Source, ev.Asset, ev.Size)
	return err
}

func (d *driver) Close() error { return nil }

/* ────────── auto-register ────────── */
func init() {
	notify.Register("stdout", func() notify.Publisher { return &driver{} })
}
