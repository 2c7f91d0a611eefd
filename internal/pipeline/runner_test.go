package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"svgasset/internal/telemetry"
	"svgasset/processor"
)

type fakeProcessor struct {
	mu        sync.Mutex
	seen      []processor.File
	finalized bool
	failOn    string

	inFlight, maxInFlight int32
	finalizedBeforeAll    bool
}

func (f *fakeProcessor) Name() string         { return "fake" }
func (f *fakeProcessor) Extensions() []string { return []string{".svg"} }

func (f *fakeProcessor) track(file processor.File) error {
	n := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)
	for {
		m := atomic.LoadInt32(&f.maxInFlight)
		if n <= m || atomic.CompareAndSwapInt32(&f.maxInFlight, m, n) {
			break
		}
	}
	time.Sleep(2 * time.Millisecond)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.finalized {
		f.finalizedBeforeAll = true
	}
	if file.Path == f.failOn {
		return errors.New("boom")
	}
	f.seen = append(f.seen, file)
	return nil
}

func (f *fakeProcessor) OnInit(_ context.Context, file processor.File, _ processor.Params) error {
	return f.track(file)
}
func (f *fakeProcessor) OnAdd(_ context.Context, file processor.File, _ processor.Params) error {
	return f.track(file)
}
func (f *fakeProcessor) OnChange(_ context.Context, file processor.File, _ processor.Params) error {
	return f.track(file)
}
func (f *fakeProcessor) Finalize(context.Context) error {
	f.mu.Lock()
	f.finalized = true
	f.mu.Unlock()
	return nil
}

type closeCounter struct{ n int }

func (c *closeCounter) Close() error { c.n++; return nil }

func files(paths ...string) []processor.File {
	out := make([]processor.File, 0, len(paths))
	for _, p := range paths {
		out = append(out, processor.File{Path: p, Event: processor.EventInit})
	}
	return out
}

func TestRunner_DispatchesHandledFilesThenFinalizes(t *testing.T) {
	fake := &fakeProcessor{}
	r := NewRunner(fake, processor.Params{})
	m := telemetry.NewMetrics()
	r.SetMetrics(m)

	if err := r.Run(context.Background(), files("a.svg", "b.png", "c/d.svg")); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(fake.seen) != 2 {
		t.Fatalf("expected 2 dispatched files, got %d", len(fake.seen))
	}
	if !fake.finalized || fake.finalizedBeforeAll {
		t.Fatalf("finalize ordering broken: finalized=%v early=%v", fake.finalized, fake.finalizedBeforeAll)
	}
	n, err := testutil.GatherAndCount(m.Registry, "svgasset_finalize_total")
	if err != nil || n != 1 {
		t.Fatalf("finalize metric: n=%d err=%v", n, err)
	}
}

func TestRunner_FailureSkipsFinalize(t *testing.T) {
	fake := &fakeProcessor{failOn: "bad.svg"}
	r := NewRunner(fake, processor.Params{})

	err := r.Run(context.Background(), files("a.svg", "bad.svg", "c.svg"))
	if err == nil {
		t.Fatal("expected error from failing file")
	}
	if fake.finalized {
		t.Fatal("finalize must not run after a failed file")
	}
}

func TestRunner_RespectsConcurrency(t *testing.T) {
	fake := &fakeProcessor{}
	r := NewRunner(fake, processor.Params{})
	r.SetConcurrency(2)

	var batch []string
	for i := 0; i < 12; i++ {
		batch = append(batch, filepath.Join("icons", string(rune('a'+i))+".svg"))
	}
	if err := r.Run(context.Background(), files(batch...)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if m := atomic.LoadInt32(&fake.maxInFlight); m > 2 {
		t.Fatalf("expected at most 2 files in flight, saw %d", m)
	}
}

func TestRunner_CancelledContext(t *testing.T) {
	fake := &fakeProcessor{}
	r := NewRunner(fake, processor.Params{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := r.Run(ctx, files("a.svg")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if fake.finalized {
		t.Fatal("finalize must not run after cancellation")
	}
}

func TestRunner_CloseReleasesResources(t *testing.T) {
	r := NewRunner(&fakeProcessor{}, processor.Params{})
	a, b := &closeCounter{}, &closeCounter{}
	r.AddCloser(a)
	r.AddCloser(b)
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if a.n != 1 || b.n != 1 {
		t.Fatalf("closers not called: %d %d", a.n, b.n)
	}
}

func TestCompile_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(os.MkdirAll(filepath.Join(dir, "src", "icons"), 0o755))
	must(os.WriteFile(filepath.Join(dir, "src", "icons", "star.svg"), []byte(`<svg viewBox="0 0 10 10"><path d="M0 0"/></svg>`), 0o644))
	must(os.WriteFile(filepath.Join(dir, "svg.yml"), []byte(`wrap_in_symbol: true
map_paths:
  resources_to_assets_json: dist/resources.json
  hashed_assets_json: dist/hashed.json
`), 0o644))
	must(os.WriteFile(filepath.Join(dir, "pipeline.yml"), []byte(`schema_version: v1
basedir: src
dest_dir: dist/svg
concurrency: 2
processor:
  kind: svg
  config: svg.yml
`), 0o644))

	r, err := Compile(filepath.Join(dir, "pipeline.yml"))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	defer r.Close()

	if err := r.Run(context.Background(), files("icons/star.svg")); err != nil {
		t.Fatalf("Run: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "dist", "resources.json"))
	if err != nil {
		t.Fatalf("read resources map: %v", err)
	}
	var mapping map[string]string
	if err := json.Unmarshal(raw, &mapping); err != nil {
		t.Fatalf("decode resources map: %v", err)
	}
	asset, ok := mapping["icons/star.svg"]
	if !ok {
		t.Fatalf("missing mapping entry: %v", mapping)
	}
	body, err := os.ReadFile(filepath.Join(dir, "dist", "svg", filepath.FromSlash(asset)))
	if err != nil {
		t.Fatalf("read asset: %v", err)
	}
	if string(body) != `<symbol><svg viewBox="0 0 10 10"><path d="M0 0"/></svg></symbol>` {
		t.Fatalf("unexpected asset body %q", body)
	}
	if _, err := os.Stat(filepath.Join(dir, "dist", "hashed.json")); err != nil {
		t.Fatalf("hashed map missing: %v", err)
	}
}

func TestCompile_UnsupportedProcessor(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "pipeline.yml"), []byte("basedir: src\ndest_dir: dist\nprocessor: {kind: png}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Compile(filepath.Join(dir, "pipeline.yml")); err == nil {
		t.Fatal("expected error for unsupported processor")
	}
}
