// Package svgxml parses SVG documents the way editors export them.
package svgxml

import (
	"regexp"

	"github.com/beevik/etree"
)

// Illustrator references these from attribute values and declares them in
// the internal DTD subset, which encoding/xml does not read.
var illustratorEntities = map[string]string{
	"ns_extend":      "http://ns.adobe.com/Extensibility/1.0/",
	"ns_ai":          "http://ns.adobe.com/AdobeIllustrator/10.0/",
	"ns_graphs":      "http://ns.adobe.com/Graphs/1.0/",
	"ns_vars":        "http://ns.adobe.com/Variables/1.0/",
	"ns_imrep":       "http://ns.adobe.com/ImageReplacement/1.0/",
	"ns_sfw":         "http://ns.adobe.com/SaveForWeb/1.0/",
	"ns_custom":      "http://ns.adobe.com/GenericCustomNamespace/1.0/",
	"ns_adobe_xpath": "http://ns.adobe.com/XPath/1.0/",
}

var entityDecl = regexp.MustCompile(`<!ENTITY\s+([A-Za-z_][\w.-]*)\s+(?:"([^"]*)"|'([^']*)')\s*>`)

// Read parses b, resolving internal general entities declared in its DOCTYPE
// plus the Illustrator namespace entities.
func Read(b []byte) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.Entity = Entities(b)
	if err := doc.ReadFromBytes(b); err != nil {
		return nil, err
	}
	return doc, nil
}

// Entities returns the entity map used by Read. Declarations in b override
// the built-in Illustrator names.
func Entities(b []byte) map[string]string {
	out := make(map[string]string, len(illustratorEntities))
	for k, v := range illustratorEntities {
		out[k] = v
	}
	for _, m := range entityDecl.FindAllSubmatch(b, -1) {
		v := m[2]
		if v == nil {
			v = m[3]
		}
		out[string(m[1])] = string(v)
	}
	return out
}
