// Package svg implements the SVG asset processor: it reads tracked SVG files,
// optionally minifies them, turns them into <symbol> fragments, writes them
// under content-hashed names and records where each source ended up.
package svg

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"svgasset/internal/filename"
	"svgasset/internal/logging"
	"svgasset/internal/optimize"
	"svgasset/notify"
	"svgasset/processor"
	"svgasset/sink"
	"svgasset/sink/local"
)

const Name = "svg"

type Processor struct {
	destDir string
	opts    Options

	sink      sink.Adapter
	notifier  notify.Publisher
	optimizer *optimize.Optimizer
	cache     *lru.Cache[string, []byte]
	callbacks []SymbolCallback

	manifest *Manifest
}

var _ processor.Processor = (*Processor)(nil)

type Option func(*Processor)

// WithSink replaces the default local filesystem sink rooted at destDir.
func WithSink(s sink.Adapter) Option { return func(p *Processor) { p.sink = s } }

func WithNotifier(n notify.Publisher) Option { return func(p *Processor) { p.notifier = n } }

// New builds a processor writing below destDir.
func New(destDir string, opts Options, extra ...Option) (*Processor, error) {
	opts.ApplyDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	p := &Processor{
		destDir:   destDir,
		opts:      opts,
		notifier:  notify.Nop{},
		optimizer: optimize.New(opts.Precision),
		manifest:  NewManifest(),
	}
	for _, o := range extra {
		o(p)
	}
	if p.sink == nil {
		if strings.TrimSpace(destDir) == "" {
			return nil, fmt.Errorf("%w: destination directory is required", ErrInvalidOptions)
		}
		p.sink = local.New(destDir)
	}
	if opts.CacheSize > 0 {
		c, err := lru.New[string, []byte](opts.CacheSize)
		if err != nil {
			return nil, err
		}
		p.cache = c
	}
	if opts.SymbolIDPattern != "" {
		p.callbacks = append(p.callbacks, WithID(opts.SymbolIDPattern))
	}
	if opts.ConvertToSymbolCallback != nil {
		p.callbacks = append(p.callbacks, opts.ConvertToSymbolCallback)
	}
	return p, nil
}

func (p *Processor) Name() string         { return Name }
func (p *Processor) Extensions() []string { return append([]string(nil), p.opts.Extensions...) }
func (p *Processor) Manifest() *Manifest  { return p.manifest }

func (p *Processor) OnInit(ctx context.Context, f processor.File, params processor.Params) error {
	return p.track(ctx, f, params, processor.EventInit)
}

func (p *Processor) OnAdd(ctx context.Context, f processor.File, params processor.Params) error {
	return p.track(ctx, f, params, processor.EventAdd)
}

func (p *Processor) OnChange(ctx context.Context, f processor.File, params processor.Params) error {
	return p.track(ctx, f, params, processor.EventChange)
}

// Result describes one written asset.
type Result struct {
	Source string
	Asset  string // relative to the destination directory, slash separated
	Size   int
}

// Process runs the transform for one file and records where it was written.
// Nothing is recorded when an error is returned.
func (p *Processor) Process(ctx context.Context, f processor.File, params processor.Params) (Result, error) {
	srcPath, err := params.Resolve(f)
	if err != nil {
		return Result{}, fmt.Errorf("svg %s: resolve: %w", f.Path, err)
	}

	content, err := os.ReadFile(srcPath)
	if err != nil {
		return Result{}, fmt.Errorf("svg %s: read: %w", f.Path, err)
	}

	if p.opts.Optimize {
		if content, err = p.optimize(content); err != nil {
			return Result{}, fmt.Errorf("svg %s: %w", f.Path, err)
		}
	}

	switch {
	case p.opts.Variant == VariantWrap && p.opts.WrapInSymbol:
		content = wrapInSymbol(content)
	case p.opts.Variant == VariantSymbol && p.opts.ConvertToSymbol:
		if content, err = convertToSymbol(content, srcPath, p.callbacks...); err != nil {
			return Result{}, fmt.Errorf("svg %s: convert to symbol: %w", f.Path, err)
		}
	}

	name, err := filename.Interpolate(p.opts.FilenamePattern, filename.Input{
		Content: content,
		SrcFile: srcPath,
		RelPath: f.Path,
	}, p.opts.HashAlgorithm)
	if err != nil {
		return Result{}, fmt.Errorf("svg %s: filename: %w", f.Path, err)
	}
	asset := path.Clean(name)
	if asset == ".." || strings.HasPrefix(asset, "../") {
		return Result{}, fmt.Errorf("svg %s: filename %q escapes the destination directory", f.Path, name)
	}

	if err := p.sink.Put(ctx, asset, content); err != nil {
		return Result{}, fmt.Errorf("svg %s: write %s: %w", f.Path, asset, err)
	}
	p.manifest.Set(f.Path, asset)
	return Result{Source: f.Path, Asset: asset, Size: len(content)}, nil
}

func (p *Processor) track(ctx context.Context, f processor.File, params processor.Params, ev processor.Event) error {
	if !processor.Handles(p.opts.Extensions, f.Path) {
		return nil
	}
	res, err := p.Process(ctx, f, params)
	if err != nil {
		return err
	}
	logging.For(Name).Debug("svg asset written", "source", res.Source, "asset", res.Asset, "event", ev)

	if err := p.notifier.Publish(ctx, notify.AssetEvent{
		Processor: Name,
		Event:     string(ev),
		Source:    res.Source,
		Asset:     res.Asset,
		Size:      res.Size,
	}); err != nil {
		return fmt.Errorf("svg %s: notify: %w", f.Path, err)
	}
	return nil
}

func (p *Processor) optimize(content []byte) ([]byte, error) {
	if p.cache == nil {
		return p.optimizer.Optimize(content)
	}
	sum := sha256.Sum256(content)
	key := hex.EncodeToString(sum[:])
	if out, ok := p.cache.Get(key); ok {
		return out, nil
	}
	out, err := p.optimizer.Optimize(content)
	if err != nil {
		return nil, err
	}
	p.cache.Add(key, out)
	return out, nil
}

// Finalize writes the source → asset mapping and, for VariantWrap, the
// hashed-name lookup set.
func (p *Processor) Finalize(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	paths := p.opts.MapPaths
	if paths.ResourcesToAssetsJSON == "" {
		return fmt.Errorf("%w: resources_to_assets_json", ErrMissingMapPath)
	}
	hashed := p.opts.Variant == VariantWrap
	if hashed && paths.HashedAssetsJSON == "" {
		return fmt.Errorf("%w: hashed_assets_json", ErrMissingMapPath)
	}
	if err := writeJSON(paths.ResourcesToAssetsJSON, p.manifest.Assets()); err != nil {
		return err
	}
	if hashed {
		if err := writeJSON(paths.HashedAssetsJSON, p.manifest.Hashed()); err != nil {
			return err
		}
	}
	logging.For(Name).Info("svg manifest written", "assets", p.manifest.Len(), "path", paths.ResourcesToAssetsJSON)
	return nil
}
