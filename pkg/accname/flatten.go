package accname

import (
	"strings"

	"github.com/conneroisu/accname/pkg/dom"
)

// flatten computes a name from content: the ::before content, every child
// contribution in order, then the ::after content. Children that are not
// displayed inline are surrounded by spaces. Children whose own flatten is
// in progress contribute nothing.
func (w *walker) flatten(n *dom.Node, ctx computeContext) string {
	w.flattening[n]++
	defer func() { w.flattening[n]-- }()

	var b strings.Builder
	if n.IsElement() {
		b.WriteString(w.style(n, "::before").Content)
		b.WriteString(" ")
	}

	for _, child := range contentChildren(n) {
		if w.flattening[child] > 0 {
			continue
		}
		text := w.compute(child, computeContext{
			isEmbeddedInLabel: ctx.isEmbeddedInLabel,
			recursion:         true,
		})
		separator := ""
		if child.IsElement() && w.style(child, "").Display != "inline" {
			separator = " "
		}
		b.WriteString(separator)
		b.WriteString(text)
		b.WriteString(separator)
	}

	if n.IsElement() {
		b.WriteString(" ")
		b.WriteString(w.style(n, "::after").Content)
	}
	return strings.TrimSpace(b.String())
}

// contentChildren returns the nodes whose text makes up n's content in the
// flat tree: assigned nodes of a slot (its own children when nothing is
// assigned), the shadow tree of a host, and elements owned through
// aria-owns.
func contentChildren(n *dom.Node) []*dom.Node {
	if n.IsSlot() {
		if assigned := n.AssignedNodes(); len(assigned) > 0 {
			return assigned
		}
		return n.ChildNodes()
	}
	children := n.ChildNodes()
	if shadow := n.ShadowRoot(); shadow != nil {
		children = shadow.ChildNodes()
	}
	return append(children, n.IDRefs("aria-owns")...)
}
