// Package optimize minifies SVG documents for inline use: a structural cleanup
// pass over the parsed tree followed by the tdewolff SVG minifier.
package optimize

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/svg"

	"svgasset/internal/svgxml"
)

const mimeSVG = "image/svg+xml"

var ErrEmptyDocument = errors.New("optimize: document has no root element")

// editor namespaces written by Inkscape, Sketch and Illustrator.
var editorPrefixes = map[string]bool{
	"sodipodi": true,
	"inkscape": true,
	"sketch":   true,
	"i":        true,
	"x":        true,
	"graph":    true,
}

var droppedElements = map[string]bool{
	"metadata": true,
	"title":    true,
	"desc":     true,
}

// dimension attributes removed from the root; viewBox carries the geometry.
var rootDimensions = map[string]bool{
	"width":  true,
	"height": true,
}

type Optimizer struct {
	m *minify.M
}

// New returns an Optimizer. precision is the number of significant digits
// kept in numbers (0 keeps them all).
func New(precision int) *Optimizer {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.Add(mimeSVG, &svg.Minifier{Precision: precision})
	return &Optimizer{m: m}
}

// Optimize returns the minified form of src. viewBox and raster <image>
// references are left intact.
func (o *Optimizer) Optimize(src []byte) ([]byte, error) {
	doc, err := svgxml.Read(src)
	if err != nil {
		return nil, fmt.Errorf("optimize: parse: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, ErrEmptyDocument
	}

	stripAttrs(root, true)
	cleanChildren(root)
	mergePaths(root)

	out := etree.NewDocument()
	out.SetRoot(root)
	raw, err := out.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("optimize: serialize: %w", err)
	}

	minified, err := o.m.Bytes(mimeSVG, raw)
	if err != nil {
		return nil, fmt.Errorf("optimize: minify: %w", err)
	}
	return minified, nil
}

func stripAttrs(e *etree.Element, isRoot bool) {
	kept := e.Attr[:0]
	for _, a := range e.Attr {
		switch {
		case editorPrefixes[a.Space]:
		case a.Space == "xmlns" && editorPrefixes[a.Key]:
		case a.Space == "" && isPaintAttr(a.Key):
		case isRoot && a.Space == "" && rootDimensions[a.Key]:
		default:
			kept = append(kept, a)
		}
	}
	e.Attr = kept
	e.SortAttrs()
}

// isPaintAttr matches paint attributes only. fill-rule and clip-rule decide
// which regions are inside a shape and are kept.
func isPaintAttr(key string) bool {
	return key == "fill" || key == "fill-opacity" || key == "stroke" || strings.HasPrefix(key, "stroke-")
}

func cleanChildren(e *etree.Element) {
	for i := 0; i < len(e.Child); {
		switch t := e.Child[i].(type) {
		case *etree.Comment, *etree.ProcInst, *etree.Directive:
			e.RemoveChildAt(i)
			continue
		case *etree.Element:
			if droppedElements[t.Tag] || editorPrefixes[t.Space] {
				e.RemoveChildAt(i)
				continue
			}
			stripAttrs(t, false)
			cleanChildren(t)
			mergePaths(t)
			if collapsible(t) {
				kids := append([]etree.Token(nil), t.Child...)
				e.RemoveChildAt(i)
				for j, k := range kids {
					e.InsertChildAt(i+j, k)
				}
				i += len(kids)
				continue
			}
		}
		i++
	}
}

// collapsible reports a <g> that carries nothing but its children.
func collapsible(e *etree.Element) bool {
	return e.Space == "" && e.Tag == "g" && len(e.Attr) == 0
}

// mergePaths folds runs of sibling <path> elements with identical attributes
// into a single path. A path is only appended when its data starts with an
// absolute moveto, so the geometry does not shift, and when its bounds are
// disjoint from the run so far, so winding cannot open holes in overlaps.
func mergePaths(e *etree.Element) {
	var prev *etree.Element
	var prevBox box
	for i := 0; i < len(e.Child); {
		switch t := e.Child[i].(type) {
		case *etree.CharData:
			if !t.IsWhitespace() {
				prev = nil
			}
		case *etree.Element:
			b, ok := pathCandidate(t)
			if ok && prev != nil && mergeable(prev, t) && !prevBox.overlaps(b) {
				d := prev.SelectAttr("d")
				d.Value = strings.TrimSpace(d.Value) + " " + strings.TrimSpace(t.SelectAttrValue("d", ""))
				prevBox = prevBox.union(b)
				e.RemoveChildAt(i)
				continue
			}
			prev, prevBox = nil, box{}
			if ok {
				prev, prevBox = t, b
			}
		default:
			prev = nil
		}
		i++
	}
}

// pathCandidate reports a childless <path> with measurable data.
func pathCandidate(e *etree.Element) (box, bool) {
	if e.Space != "" || e.Tag != "path" || len(e.Child) != 0 {
		return box{}, false
	}
	return pathBounds(e.SelectAttrValue("d", ""))
}

func mergeable(a, b *etree.Element) bool {
	if !strings.HasPrefix(strings.TrimSpace(b.SelectAttrValue("d", "")), "M") {
		return false
	}
	if len(a.Attr) != len(b.Attr) {
		return false
	}
	for _, attr := range a.Attr {
		if strings.HasPrefix(attr.Key, "marker") || attr.Key == "id" {
			return false
		}
		if attr.Space == "" && attr.Key == "d" {
			continue
		}
		other := b.SelectAttr(attr.FullKey())
		if other == nil || other.Value != attr.Value {
			return false
		}
	}
	return true
}
