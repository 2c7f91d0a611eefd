// Package processor defines the lifecycle contract between a host asset
// pipeline and the processors it drives. The host calls one of the file hooks
// for every tracked file event and Finalize once all of them have returned.
package processor

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

type Event string

const (
	EventInit   Event = "init"
	EventAdd    Event = "add"
	EventChange Event = "change"
)

// File is a tracked source file. Path is relative to Params.BaseDir.
type File struct {
	Path  string
	Event Event
}

// Params carries the host's per-run settings.
type Params struct {
	BaseDir string
	Cwd     string
}

// Dir returns BaseDir, falling back to Cwd and then the process directory.
func (p Params) Dir() (string, error) {
	switch {
	case p.BaseDir != "":
		return p.BaseDir, nil
	case p.Cwd != "":
		return p.Cwd, nil
	default:
		return os.Getwd()
	}
}

// Resolve returns the absolute source path of f.
func (p Params) Resolve(f File) (string, error) {
	native := filepath.FromSlash(f.Path)
	if filepath.IsAbs(native) {
		return filepath.Clean(native), nil
	}
	dir, err := p.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Abs(filepath.Join(dir, native))
}

type Processor interface {
	Name() string
	Extensions() []string

	OnInit(ctx context.Context, f File, p Params) error
	OnAdd(ctx context.Context, f File, p Params) error
	OnChange(ctx context.Context, f File, p Params) error

	// Finalize must only be called after every file hook has returned.
	Finalize(ctx context.Context) error
}

// Dispatch calls the hook matching f.Event. An empty event is treated as init.
func Dispatch(ctx context.Context, proc Processor, f File, p Params) error {
	switch f.Event {
	case EventAdd:
		return proc.OnAdd(ctx, f, p)
	case EventChange:
		return proc.OnChange(ctx, f, p)
	default:
		return proc.OnInit(ctx, f, p)
	}
}

// Handles reports whether name ends with one of exts (case-insensitive).
func Handles(exts []string, name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}
