// Package dom adapts golang.org/x/net/html trees to the DOM capabilities the
// accessible name computation needs: typed nodes, attribute identity,
// id-reference resolution scoped to a document or shadow root, slot
// distribution, label association and form control values.
//
// Declarative shadow DOM is supported: an element whose first
// <template shadowrootmode="..."> child is found becomes a shadow host, and
// the template's content forms a separate tree with its own id scope.
//
// A Document wraps every parsed node exactly once, so *Node pointer equality
// is node identity. Documents are read-only after construction and safe for
// concurrent use.
package dom
