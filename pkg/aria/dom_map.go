package aria

import "sync"

// DOMDefinition records whether ARIA may be applied to an HTML element.
// Reserved elements (script, meta, ...) must not carry roles or ARIA
// attributes.
type DOMDefinition struct {
	Name     string `yaml:"name" json:"name"`
	Reserved bool   `yaml:"reserved" json:"reserved"`
}

var domElements = sync.OnceValue(func() map[string]DOMDefinition {
	list := decodeTable[[]DOMDefinition]("dom.yaml")
	out := make(map[string]DOMDefinition, len(list))
	for _, d := range list {
		out[d.Name] = d
	}
	return out
})

// LookupElement returns the DOM definition for an HTML tag name.
func LookupElement(tag string) (DOMDefinition, bool) {
	d, ok := domElements()[tag]
	return d, ok
}
