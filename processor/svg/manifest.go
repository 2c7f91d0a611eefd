package svg

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Manifest maps source paths to the asset paths they were written to.
type Manifest struct {
	mu     sync.RWMutex
	assets map[string]string
}

func NewManifest() *Manifest {
	return &Manifest{assets: make(map[string]string)}
}

func (m *Manifest) Set(source, asset string) {
	m.mu.Lock()
	m.assets[source] = asset
	m.mu.Unlock()
}

func (m *Manifest) Get(source string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.assets[source]
	return a, ok
}

func (m *Manifest) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.assets)
}

// Assets returns a copy of the source → asset mapping.
func (m *Manifest) Assets() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.assets))
	for k, v := range m.assets {
		out[k] = v
	}
	return out
}

// Hashed returns the set of asset names, each mapped to itself.
func (m *Manifest) Hashed() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.assets))
	for _, v := range m.assets {
		out[v] = v
	}
	return out
}

func writeJSON(path string, v map[string]string) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
