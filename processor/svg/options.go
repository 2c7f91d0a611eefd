package svg

import (
	"errors"
	"fmt"

	"svgasset/internal/filename"
)

// Variant selects how content is turned into a symbol. The two variants are
// alternatives per deployment and never run together.
type Variant string

const (
	// VariantWrap wraps the document text in <symbol>...</symbol>.
	VariantWrap Variant = "wrap"
	// VariantSymbol rebuilds the parsed tree with a <symbol> root.
	VariantSymbol Variant = "symbol"
)

const DefaultCacheSize = 256

var (
	ErrMissingMapPath = errors.New("svg: missing map path")
	ErrInvalidOptions = errors.New("svg: invalid options")
)

type MapPaths struct {
	ResourcesToAssetsJSON string `koanf:"resources_to_assets_json"`
	HashedAssetsJSON      string `koanf:"hashed_assets_json"`
}

type Options struct {
	Extensions      []string           `koanf:"extensions"`
	FilenamePattern string             `koanf:"filename_pattern"`
	HashAlgorithm   filename.Algorithm `koanf:"hash_algorithm"`
	Optimize        bool               `koanf:"optimize"`
	Precision       int                `koanf:"precision"`

	Variant         Variant `koanf:"variant"`
	WrapInSymbol    bool    `koanf:"wrap_in_symbol"`
	ConvertToSymbol bool    `koanf:"convert_to_symbol"`
	SymbolIDPattern string  `koanf:"symbol_id_pattern"`

	// CacheSize bounds the optimizer memo; 0 means DefaultCacheSize and a
	// negative value disables it.
	CacheSize int `koanf:"cache_size"`

	MapPaths MapPaths `koanf:"map_paths"`

	// ConvertToSymbolCallback runs after symbol conversion (VariantSymbol only).
	ConvertToSymbolCallback SymbolCallback `koanf:"-"`
}

// DefaultOptions mirrors what an empty options file produces.
func DefaultOptions() Options {
	var o Options
	o.ApplyDefaults()
	return o
}

func (o *Options) ApplyDefaults() {
	if len(o.Extensions) == 0 {
		o.Extensions = []string{".svg"}
	}
	if o.FilenamePattern == "" {
		o.FilenamePattern = filename.DefaultPattern
	}
	if o.HashAlgorithm == "" {
		o.HashAlgorithm = filename.MD5
	}
	if o.Variant == "" {
		o.Variant = VariantWrap
	}
	if o.CacheSize == 0 {
		o.CacheSize = DefaultCacheSize
	}
}

func (o Options) Validate() error {
	switch o.Variant {
	case VariantWrap:
		if o.ConvertToSymbol {
			return fmt.Errorf("%w: convert_to_symbol requires variant %q", ErrInvalidOptions, VariantSymbol)
		}
		if o.ConvertToSymbolCallback != nil || o.SymbolIDPattern != "" {
			return fmt.Errorf("%w: symbol callbacks require variant %q", ErrInvalidOptions, VariantSymbol)
		}
	case VariantSymbol:
		if o.WrapInSymbol {
			return fmt.Errorf("%w: wrap_in_symbol requires variant %q", ErrInvalidOptions, VariantWrap)
		}
	default:
		return fmt.Errorf("%w: unknown variant %q", ErrInvalidOptions, o.Variant)
	}
	if !o.HashAlgorithm.Valid() {
		return fmt.Errorf("%w: %w %q", ErrInvalidOptions, filename.ErrUnknownAlgorithm, o.HashAlgorithm)
	}
	if o.Precision < 0 {
		return fmt.Errorf("%w: precision must not be negative", ErrInvalidOptions)
	}
	return nil
}
