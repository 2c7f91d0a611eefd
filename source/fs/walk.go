// Package fs lists the tracked files under a base directory for one-shot
// builds. It does not watch for changes.
package fs

import (
	"fmt"
	iofs "io/fs"
	"path/filepath"
	"sort"
	"strings"

	"svgasset/processor"
)

// Walk returns every file under root whose extension is in exts, as
// slash-separated paths relative to root, sorted, with EventInit. Hidden
// directories (".git", ".cache") are skipped.
func Walk(root string, exts []string) ([]processor.File, error) {
	var out []processor.File
	err := filepath.WalkDir(root, func(p string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !processor.Handles(exts, d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		out = append(out, processor.File{Path: filepath.ToSlash(rel), Event: processor.EventInit})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}
