package filename

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

const DefaultPattern = "[contentHash:12].[ext]"

type Algorithm string

const (
	MD5    Algorithm = "md5"
	SHA1   Algorithm = "sha1"
	SHA256 Algorithm = "sha256"
	XXHash Algorithm = "xxhash"
)

var (
	ErrUnknownPlaceholder = errors.New("filename: unknown placeholder")
	ErrUnknownAlgorithm   = errors.New("filename: unknown hash algorithm")
	ErrEmptyResult        = errors.New("filename: pattern produced an empty name")
)

var placeholderRe = regexp.MustCompile(`\[([A-Za-z]+)(?::(\d+))?\]`)

// Input is what a pattern is evaluated against.
type Input struct {
	Content []byte
	SrcFile string // absolute source path
	RelPath string // source path relative to the base directory, slash separated
}

// Valid reports whether a is a supported digest.
func (a Algorithm) Valid() bool {
	switch a {
	case MD5, SHA1, SHA256, XXHash:
		return true
	}
	return false
}

// Digest returns the lower-case hex digest of b.
func Digest(a Algorithm, b []byte) (string, error) {
	switch a {
	case "", MD5:
		sum := md5.Sum(b)
		return hex.EncodeToString(sum[:]), nil
	case SHA1:
		sum := sha1.Sum(b)
		return hex.EncodeToString(sum[:]), nil
	case SHA256:
		sum := sha256.Sum256(b)
		return hex.EncodeToString(sum[:]), nil
	case XXHash:
		return fmt.Sprintf("%016x", xxhash.Sum64(b)), nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownAlgorithm, a)
	}
}

// Interpolate expands pattern. Supported placeholders:
//
//	[name]            source file name without extension
//	[ext]             source extension without the dot
//	[path]            directory of RelPath ("" at the root)
//	[contentHash]     hex digest of Content, [contentHash:N] keeps N chars
//	[hash]            alias of contentHash
//
// The result is a cleaned, slash separated relative name.
func Interpolate(pattern string, in Input, algo Algorithm) (string, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	src := in.SrcFile
	if src == "" {
		src = filepath.FromSlash(in.RelPath)
	}
	base := filepath.Base(src)
	ext := filepath.Ext(base)

	var (
		digest  string
		outErr  error
		dirPart = path.Dir(filepath.ToSlash(in.RelPath))
	)
	if dirPart == "." || dirPart == "/" {
		dirPart = ""
	}

	out := placeholderRe.ReplaceAllStringFunc(pattern, func(m string) string {
		if outErr != nil {
			return ""
		}
		sub := placeholderRe.FindStringSubmatch(m)
		name, length := sub[1], sub[2]
		switch name {
		case "name":
			return strings.TrimSuffix(base, ext)
		case "ext":
			return strings.TrimPrefix(ext, ".")
		case "path":
			return dirPart
		case "contentHash", "hash":
			if digest == "" {
				d, err := Digest(algo, in.Content)
				if err != nil {
					outErr = err
					return ""
				}
				digest = d
			}
			if length == "" {
				return digest
			}
			n, _ := strconv.Atoi(length)
			if n > 0 && n < len(digest) {
				return digest[:n]
			}
			return digest
		default:
			outErr = fmt.Errorf("%w %q in %q", ErrUnknownPlaceholder, m, pattern)
			return ""
		}
	})
	if outErr != nil {
		return "", outErr
	}

	out = strings.TrimLeft(path.Clean(strings.ReplaceAll(out, "\\", "/")), "/")
	if out == "" || out == "." {
		return "", ErrEmptyResult
	}
	return out, nil
}
