package filename

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const iconSVG = `<svg viewBox="0 0 10 10"><path d="M0 0"/></svg>`

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

func TestInterpolate_DefaultPattern(t *testing.T) {
	got, err := Interpolate("", Input{Content: []byte(iconSVG), SrcFile: "/src/icon.svg", RelPath: "icon.svg"}, MD5)
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{12}\.svg$`), got)
	assert.Equal(t, md5Hex(iconSVG)[:12]+".svg", got)
}

func TestInterpolate_Placeholders(t *testing.T) {
	in := Input{Content: []byte(iconSVG), SrcFile: "/src/icons/arrow.left.svg", RelPath: "icons/arrow.left.svg"}
	full := md5Hex(iconSVG)

	tests := []struct {
		pattern string
		want    string
	}{
		{"[name].[ext]", "arrow.left.svg"},
		{"[path]/[name]-[hash:8].[ext]", "icons/arrow.left-" + full[:8] + ".svg"},
		{"[contentHash]", full},
		{"[contentHash:64]", full},
		{"static/[contentHash:4].[ext]", "static/" + full[:4] + ".svg"},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got, err := Interpolate(tt.pattern, in, MD5)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInterpolate_PathAtRootIsDropped(t *testing.T) {
	got, err := Interpolate("[path]/[name].[ext]", Input{RelPath: "icon.svg"}, MD5)
	require.NoError(t, err)
	assert.Equal(t, "icon.svg", got)
}

func TestInterpolate_UnknownPlaceholder(t *testing.T) {
	_, err := Interpolate("[chunk].[ext]", Input{RelPath: "icon.svg"}, MD5)
	assert.True(t, errors.Is(err, ErrUnknownPlaceholder), "got %v", err)
}

func TestInterpolate_Deterministic(t *testing.T) {
	in := Input{Content: []byte(iconSVG), RelPath: "icon.svg"}
	a, err := Interpolate(DefaultPattern, in, SHA256)
	require.NoError(t, err)
	b, err := Interpolate(DefaultPattern, in, SHA256)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	sum := sha256.Sum256([]byte(iconSVG))
	assert.Equal(t, hex.EncodeToString(sum[:])[:12]+".svg", a)
}

func TestDigest(t *testing.T) {
	for _, a := range []Algorithm{MD5, SHA1, SHA256, XXHash} {
		d, err := Digest(a, []byte("x"))
		require.NoError(t, err, a)
		assert.Regexp(t, `^[0-9a-f]+$`, d)
		assert.True(t, a.Valid())
	}
	x, err := Digest(XXHash, []byte("x"))
	require.NoError(t, err)
	assert.Len(t, x, 16)

	_, err = Digest("crc32", nil)
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)
}
