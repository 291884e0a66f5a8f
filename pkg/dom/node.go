package dom

import (
	"slices"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// NodeType classifies a Node.
type NodeType int

const (
	ElementNode NodeType = iota + 1
	TextNode
	DocumentNode
	ShadowRootNode
	OtherNode
)

// String returns the string representation of the node type
func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	case DocumentNode:
		return "document"
	case ShadowRootNode:
		return "shadow-root"
	case OtherNode:
		return "other"
	default:
		return "unknown"
	}
}

// Namespaces reported by Node.Namespace.
const (
	NamespaceHTML   = ""
	NamespaceSVG    = "svg"
	NamespaceMathML = "math"
)

// Node is one node of a Document. Shadow roots have no raw html.Node.
type Node struct {
	typ      NodeType
	raw      *html.Node
	doc      *Document
	parent   *Node
	children []*Node

	// tree is the root of the tree this node belongs to: the document node
	// or a shadow root.
	tree *Node
	ids  map[string]*Node

	shadowRoot   *Node
	host         *Node
	assigned     []*Node
	assignedSlot *Node
}

// AttrRef identifies one attribute of one element.
type AttrRef struct {
	Owner *Node
	Name  string
}

// Type returns the node type.
func (n *Node) Type() NodeType { return n.typ }

// IsElement reports whether n is an element.
func (n *Node) IsElement() bool { return n != nil && n.typ == ElementNode }

// IsText reports whether n is a text node.
func (n *Node) IsText() bool { return n != nil && n.typ == TextNode }

// IsDocument reports whether n is the document node.
func (n *Node) IsDocument() bool { return n != nil && n.typ == DocumentNode }

// IsShadowRoot reports whether n is a shadow root.
func (n *Node) IsShadowRoot() bool { return n != nil && n.typ == ShadowRootNode }

// Raw returns the underlying parsed node, or nil for shadow roots.
func (n *Node) Raw() *html.Node { return n.raw }

// Document returns the owning document.
func (n *Node) Document() *Document { return n.doc }

// LocalName returns the element's tag name, or "" for other node types.
func (n *Node) LocalName() string {
	if !n.IsElement() {
		return ""
	}
	return n.raw.Data
}

// Namespace returns the element namespace: "" for HTML, "svg" or "math".
func (n *Node) Namespace() string {
	if !n.IsElement() {
		return ""
	}
	return n.raw.Namespace
}

// IsHTML reports whether n is an element in the HTML namespace.
func (n *Node) IsHTML() bool { return n.IsElement() && n.raw.Namespace == NamespaceHTML }

// IsSVG reports whether n is an element in the SVG namespace.
func (n *Node) IsSVG() bool { return n.IsElement() && n.raw.Namespace == NamespaceSVG }

// Is reports whether n is an HTML element with the given tag name.
func (n *Node) Is(tag string) bool { return n.IsHTML() && n.raw.Data == tag }

// Attr returns the value of an attribute and whether it is present.
func (n *Node) Attr(name string) (string, bool) {
	if !n.IsElement() {
		return "", false
	}
	for _, a := range n.raw.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, name) {
			return a.Val, true
		}
	}
	return "", false
}

// AttrValue returns the attribute value or "" when absent.
func (n *Node) AttrValue(name string) string {
	v, _ := n.Attr(name)
	return v
}

// HasAttr reports whether the attribute is present.
func (n *Node) HasAttr(name string) bool {
	_, ok := n.Attr(name)
	return ok
}

// AttrRef returns an identity for the attribute when present.
func (n *Node) AttrRef(name string) (AttrRef, bool) {
	if !n.HasAttr(name) {
		return AttrRef{}, false
	}
	return AttrRef{Owner: n, Name: strings.ToLower(name)}, true
}

// Attrs returns a copy of the element's attributes.
func (n *Node) Attrs() []html.Attribute {
	if !n.IsElement() {
		return nil
	}
	return slices.Clone(n.raw.Attr)
}

// Parent returns the parent node. Children of a shadow root have the shadow
// root as parent; a shadow root itself has none (see Host).
func (n *Node) Parent() *Node { return n.parent }

// ChildNodes returns the node's children. A shadow host's declarative
// template is not among them.
func (n *Node) ChildNodes() []*Node { return slices.Clone(n.children) }

// Children returns the element children.
func (n *Node) Children() []*Node {
	var out []*Node
	for _, c := range n.children {
		if c.IsElement() {
			out = append(out, c)
		}
	}
	return out
}

// ShadowRoot returns the attached shadow root, if any.
func (n *Node) ShadowRoot() *Node { return n.shadowRoot }

// Host returns the host element of a shadow root.
func (n *Node) Host() *Node { return n.host }

// RootNode returns the root of n's tree: the document or a shadow root.
func (n *Node) RootNode() *Node { return n.tree }

// GetElementByID looks an id up in n's tree.
func (n *Node) GetElementByID(id string) *Node {
	if id == "" || n.tree == nil {
		return nil
	}
	return n.tree.ids[id]
}

// IDRefs resolves the whitespace separated id list in attr against n's root
// container. Ids that resolve to nothing are skipped.
func (n *Node) IDRefs(attr string) []*Node {
	value, ok := n.Attr(attr)
	if !ok {
		return nil
	}
	var out []*Node
	for _, id := range strings.Fields(value) {
		if el := n.GetElementByID(id); el != nil {
			out = append(out, el)
		}
	}
	return out
}

// IsSlot reports whether n is an HTML <slot>.
func (n *Node) IsSlot() bool { return n.Is("slot") }

// AssignedNodes returns the light DOM nodes distributed to a slot.
func (n *Node) AssignedNodes() []*Node { return slices.Clone(n.assigned) }

// AssignedSlot returns the slot n is distributed to, if any.
func (n *Node) AssignedSlot() *Node { return n.assignedSlot }

// Data returns the text of a text node.
func (n *Node) Data() string {
	if n.typ != TextNode {
		return ""
	}
	return n.raw.Data
}

// TextContent concatenates the text of all descendant text nodes in the
// node's own tree.
func (n *Node) TextContent() string {
	if n.typ == TextNode {
		return n.raw.Data
	}
	var b strings.Builder
	n.Walk(func(d *Node) bool {
		if d.typ == TextNode {
			b.WriteString(d.raw.Data)
		}
		return true
	})
	return b.String()
}

// Walk visits the descendants of n in tree order, not crossing into shadow
// trees. Returning false from fn skips that node's descendants.
func (n *Node) Walk(fn func(*Node) bool) {
	for _, c := range n.children {
		if fn(c) {
			c.Walk(fn)
		}
	}
}

// Contains reports whether other is n or one of its descendants.
func (n *Node) Contains(other *Node) bool {
	for p := other; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// Labels returns the <label> elements associated with a labelable element.
func (n *Node) Labels() []*Node {
	if !n.IsLabelable() {
		return nil
	}
	return slices.Clone(n.doc.labels[n])
}

// IsLabelable reports whether n can be associated with a <label>.
func (n *Node) IsLabelable() bool {
	if !n.IsHTML() {
		return false
	}
	switch n.raw.Data {
	case "button", "meter", "output", "progress", "select", "textarea":
		return true
	case "input":
		return n.InputType() != "hidden"
	}
	return false
}

var inputTypes = map[string]bool{
	"button": true, "checkbox": true, "color": true, "date": true, "datetime-local": true,
	"email": true, "file": true, "hidden": true, "image": true, "month": true, "number": true,
	"password": true, "radio": true, "range": true, "reset": true, "search": true,
	"submit": true, "tel": true, "text": true, "time": true, "url": true, "week": true,
}

// InputType returns the normalized type of an <input>: lower case, "text"
// when missing or unknown. It returns "" for other elements.
func (n *Node) InputType() string {
	if !n.Is("input") {
		return ""
	}
	t := strings.ToLower(strings.TrimSpace(n.AttrValue("type")))
	if !inputTypes[t] {
		return "text"
	}
	return t
}

// Value returns the current value of a form control as parsed from markup.
func (n *Node) Value() string {
	switch {
	case n.Is("input"):
		v, ok := n.Attr("value")
		if !ok {
			if t := n.InputType(); t == "checkbox" || t == "radio" {
				return "on"
			}
		}
		return v
	case n.Is("textarea"), n.Is("output"):
		return n.TextContent()
	case n.Is("option"):
		if v, ok := n.Attr("value"); ok {
			return v
		}
		return strings.Join(strings.Fields(n.TextContent()), " ")
	case n.Is("select"):
		if opts := n.SelectedOptions(); len(opts) > 0 {
			return opts[0].Value()
		}
	}
	return ""
}

// SelectSize returns the parsed size attribute of a <select>, 0 when absent
// or invalid.
func (n *Node) SelectSize() int {
	size, err := strconv.Atoi(strings.TrimSpace(n.AttrValue("size")))
	if err != nil || size < 0 {
		return 0
	}
	return size
}

// Options returns the <option> elements of a <select> or <datalist>.
func (n *Node) Options() []*Node {
	var out []*Node
	n.Walk(func(d *Node) bool {
		if d.Is("option") {
			out = append(out, d)
			return false
		}
		return true
	})
	return out
}

// SelectedOptions returns the selected options of a <select>. A single
// select shown as a drop-down selects its first enabled option when none is
// marked selected.
func (n *Node) SelectedOptions() []*Node {
	if !n.Is("select") {
		return nil
	}
	options := n.Options()
	var out []*Node
	for _, o := range options {
		if o.HasAttr("selected") {
			out = append(out, o)
		}
	}
	if len(out) > 0 || n.HasAttr("multiple") || n.SelectSize() > 1 {
		return out
	}
	for _, o := range options {
		if !o.HasAttr("disabled") {
			return []*Node{o}
		}
	}
	return nil
}

// String describes the node for logs and test failures.
func (n *Node) String() string {
	switch n.typ {
	case ElementNode:
		var b strings.Builder
		b.WriteString("<" + n.raw.Data)
		if id, ok := n.Attr("id"); ok {
			b.WriteString(" id=" + strconv.Quote(id))
		}
		b.WriteString(">")
		return b.String()
	case TextNode:
		return "#text " + strconv.Quote(n.raw.Data)
	default:
		return "#" + n.typ.String()
	}
}
