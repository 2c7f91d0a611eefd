// Package sink defines where processed assets are stored. Drivers register
// themselves by name from init(): "local" writes below a directory, "s3"
// uploads to an S3-compatible bucket.
package sink

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Adapter stores assets under slash-separated names relative to its root.
type Adapter interface {
	Configure(any) error                                        // driver-specific config struct
	Put(ctx context.Context, name string, content []byte) error // replaces an existing asset
	Close() error                                               // idempotent
}

type Factory func() Adapter

var (
	mu  sync.RWMutex
	reg = map[string]Factory{}
)

func Register(name string, f Factory) {
	mu.Lock()
	reg[name] = f
	mu.Unlock()
}

// Drivers lists the registered driver names, sorted.
func Drivers() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(reg))
	for n := range reg {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func NewAdapter(name string) (Adapter, error) {
	mu.RLock()
	f, ok := reg[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown sink %q (registered: %s)", name, strings.Join(Drivers(), ", "))
	}
	return f(), nil
}
