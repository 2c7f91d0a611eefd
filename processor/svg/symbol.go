package svg

import (
	"errors"
	"fmt"

	"github.com/beevik/etree"

	"svgasset/internal/filename"
	"svgasset/internal/svgxml"
)

var ErrNotSVG = errors.New("svg: root element is not <svg>")

// SymbolCallback receives the converted <symbol> element and the absolute
// source path. It may edit the element in place and return nil, or return a
// replacement element. An error aborts processing of that file.
type SymbolCallback func(symbol *etree.Element, srcPath string) (*etree.Element, error)

// root attributes that stay meaningful on a <symbol>.
var symbolAttrs = []string{"viewBox", "preserveAspectRatio", "id", "class"}

// WithID returns a callback that sets the symbol id to the expansion of
// pattern, e.g. "icon-[name]".
func WithID(pattern string) SymbolCallback {
	return func(sym *etree.Element, srcPath string) (*etree.Element, error) {
		id, err := filename.Interpolate(pattern, filename.Input{SrcFile: srcPath}, filename.MD5)
		if err != nil {
			return nil, err
		}
		sym.CreateAttr("id", id)
		return nil, nil
	}
}

func wrapInSymbol(content []byte) []byte {
	out := make([]byte, 0, len(content)+len("<symbol></symbol>"))
	out = append(out, "<symbol>"...)
	out = append(out, content...)
	return append(out, "</symbol>"...)
}

// convertToSymbol reparents the children of the <svg> root under a new
// <symbol> element and serializes it without declaration or indentation.
func convertToSymbol(content []byte, srcPath string, callbacks ...SymbolCallback) ([]byte, error) {
	doc, err := svgxml.Read(content)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	root := doc.Root()
	if root == nil || root.Tag != "svg" {
		return nil, ErrNotSVG
	}

	sym := etree.NewElement("symbol")
	// namespace declarations move along so prefixed children (xlink:href)
	// stay bound
	for _, a := range root.Attr {
		if a.Space == "xmlns" || (a.Space == "" && a.Key == "xmlns") {
			sym.CreateAttr(a.FullKey(), a.Value)
		}
	}
	for _, key := range symbolAttrs {
		if a := root.SelectAttr(key); a != nil {
			sym.CreateAttr(key, a.Value)
		}
	}
	for _, c := range append([]etree.Token(nil), root.Child...) {
		sym.AddChild(c)
	}

	for _, cb := range callbacks {
		if cb == nil {
			continue
		}
		repl, err := cb(sym, srcPath)
		if err != nil {
			return nil, fmt.Errorf("symbol callback: %w", err)
		}
		if repl != nil {
			sym = repl
		}
	}

	out := etree.NewDocument()
	out.SetRoot(sym)
	b, err := out.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("serialize: %w", err)
	}
	return b, nil
}
