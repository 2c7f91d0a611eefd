package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"svgasset/processor/svg"
)

const svgEnvPrefix = "SVGASSET_SVG__"

// LoadSVGOptions merges YAML (if present) with env-vars
// (prefix `SVGASSET_SVG__`, delimiter `__`). Relative map paths resolve
// against the options file's directory.
func LoadSVGOptions(path string) (svg.Options, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil &&
			!errors.Is(err, fs.ErrNotExist) {
			return svg.Options{}, err
		}
	}
	sv := k.String("schema_version")
	if sv != "" && sv != SupportedSchema {
		return svg.Options{}, fmt.Errorf("svg schema_version %q not supported (want %s)", sv, SupportedSchema)
	}

	if err := k.Load(env.Provider(svgEnvPrefix, "__", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, svgEnvPrefix))
	}), nil); err != nil {
		return svg.Options{}, err
	}

	var opts svg.Options
	if err := k.Unmarshal("", &opts); err != nil {
		return opts, err
	}
	opts.ApplyDefaults()

	if path != "" {
		dir := filepath.Dir(path)
		if p := opts.MapPaths.ResourcesToAssetsJSON; p != "" {
			opts.MapPaths.ResourcesToAssetsJSON = resolve(dir, p)
		}
		if p := opts.MapPaths.HashedAssetsJSON; p != "" {
			opts.MapPaths.HashedAssetsJSON = resolve(dir, p)
		}
	}
	return opts, opts.Validate()
}
