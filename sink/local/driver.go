package local

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"svgasset/sink"
)

const workInProgressSuffix = ".wip"

type Config struct {
	Root string `yaml:"root"`
}

// Driver writes assets below Root on the local filesystem.
type Driver struct {
	root string
}

func New(root string) *Driver { return &Driver{root: root} }

func (d *Driver) Configure(raw any) error {
	c, ok := raw.(Config)
	if !ok {
		return fmt.Errorf("local-sink: expected Config, got %T", raw)
	}
	if strings.TrimSpace(c.Root) == "" {
		return errors.New("local-sink: root is required")
	}
	d.root = c.Root
	return nil
}

// Put writes content to a temporary file next to the destination and renames
// it into place, so readers never observe a partial asset.
func (d *Driver) Put(ctx context.Context, name string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dest, err := d.resolve(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	// identical sources hash to the same name, so temp names must be unique
	f, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".*"+workInProgressSuffix)
	if err != nil {
		return err
	}
	tmp := f.Name()
	_, err = f.Write(content)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(tmp, 0o644)
	}
	if err == nil {
		err = os.Rename(tmp, dest)
	}
	if err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

func (d *Driver) Close() error { return nil }

func (d *Driver) resolve(name string) (string, error) {
	if d.root == "" {
		return "", errors.New("local-sink: not configured")
	}
	clean := filepath.Clean(filepath.FromSlash(name))
	if clean == "." || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("local-sink: name %q escapes root", name)
	}
	return filepath.Join(d.root, clean), nil
}

func init() { sink.Register("local", func() sink.Adapter { return &Driver{} }) }
