package dom

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Document is a wrapped html tree.
type Document struct {
	root   *Node
	nodes  map[*html.Node]*Node
	labels map[*Node][]*Node
	hosts  []*Node
}

// Parse parses an HTML document and wraps it.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return NewDocument(root), nil
}

// ParseString parses an HTML string and wraps it.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// MustParseString is like ParseString but panics on error.
func MustParseString(s string) *Document {
	doc, err := ParseString(s)
	if err != nil {
		panic(err)
	}
	return doc
}

// NewDocument wraps an already parsed tree. The tree must not be mutated
// afterwards.
func NewDocument(root *html.Node) *Document {
	d := &Document{
		nodes:  make(map[*html.Node]*Node),
		labels: make(map[*Node][]*Node),
	}
	d.root = d.build(root, nil, nil)
	for _, host := range d.hosts {
		assignSlots(host)
	}
	d.Walk(func(n *Node) bool {
		if n.Is("label") {
			if control := labeledControl(n); control != nil {
				d.labels[control] = append(d.labels[control], n)
			}
		}
		return true
	})
	return d
}

// Root returns the document node (or the wrapped root for fragments).
func (d *Document) Root() *Node { return d.root }

// Lookup returns the wrapper of a parsed node, or nil when the node is not
// part of this document.
func (d *Document) Lookup(raw *html.Node) *Node { return d.nodes[raw] }

// GetElementByID looks an id up in the document tree.
func (d *Document) GetElementByID(id string) *Node { return d.root.GetElementByID(id) }

// Body returns the <body> element, if any.
func (d *Document) Body() *Node {
	var body *Node
	d.root.Walk(func(n *Node) bool {
		if body != nil {
			return false
		}
		if n.Is("body") {
			body = n
			return false
		}
		return true
	})
	return body
}

// DocumentElement returns the <html> element, if any.
func (d *Document) DocumentElement() *Node {
	for _, c := range d.root.children {
		if c.IsElement() {
			return c
		}
	}
	return nil
}

// Walk visits every node of the document in tree order, descending into
// shadow trees before a host's light children.
func (d *Document) Walk(fn func(*Node) bool) {
	var visit func(n *Node)
	visit = func(n *Node) {
		if n.shadowRoot != nil && fn(n.shadowRoot) {
			for _, c := range n.shadowRoot.children {
				if fn(c) {
					visit(c)
				}
			}
		}
		for _, c := range n.children {
			if fn(c) {
				visit(c)
			}
		}
	}
	visit(d.root)
}

// Elements returns every element of the document including shadow content.
func (d *Document) Elements() []*Node {
	var out []*Node
	d.Walk(func(n *Node) bool {
		if n.IsElement() {
			out = append(out, n)
		}
		return true
	})
	return out
}

func (d *Document) wrap(raw *html.Node, parent, tree *Node) *Node {
	n := &Node{raw: raw, doc: d, parent: parent, tree: tree}
	switch raw.Type {
	case html.ElementNode:
		n.typ = ElementNode
	case html.TextNode:
		n.typ = TextNode
	case html.DocumentNode:
		n.typ = DocumentNode
	default:
		n.typ = OtherNode
	}
	d.nodes[raw] = n
	return n
}

func (d *Document) build(raw *html.Node, parent, tree *Node) *Node {
	n := d.wrap(raw, parent, tree)
	if tree == nil {
		n.tree = n
		n.ids = make(map[string]*Node)
		tree = n
	}
	if n.IsElement() {
		if id, ok := n.Attr("id"); ok && id != "" {
			if _, dup := tree.ids[id]; !dup {
				tree.ids[id] = n
			}
		}
	}
	for c := raw.FirstChild; c != nil; c = c.NextSibling {
		if n.IsElement() && n.shadowRoot == nil && isShadowTemplate(c) {
			d.attachShadow(n, c)
			continue
		}
		n.children = append(n.children, d.build(c, n, tree))
	}
	return n
}

func (d *Document) attachShadow(host *Node, template *html.Node) {
	shadow := &Node{typ: ShadowRootNode, doc: d, host: host, ids: make(map[string]*Node)}
	shadow.tree = shadow
	host.shadowRoot = shadow
	d.hosts = append(d.hosts, host)

	content := template.FirstChild
	// Some producers put template content under a document fragment node.
	if content != nil && content.Type == html.DocumentNode && content.NextSibling == nil {
		content = content.FirstChild
	}
	for c := content; c != nil; c = c.NextSibling {
		shadow.children = append(shadow.children, d.build(c, shadow, shadow))
	}
}

func isShadowTemplate(raw *html.Node) bool {
	if raw.Type != html.ElementNode || raw.Namespace != "" || raw.Data != "template" {
		return false
	}
	for _, a := range raw.Attr {
		if a.Namespace != "" {
			continue
		}
		if a.Key == "shadowrootmode" || a.Key == "shadowroot" {
			mode := strings.ToLower(a.Val)
			return mode == "open" || mode == "closed"
		}
	}
	return false
}

// assignSlots distributes a host's light children to the slots of its
// shadow tree by name. The first slot with a given name wins.
func assignSlots(host *Node) {
	byName := make(map[string][]*Node)
	for _, c := range host.children {
		switch {
		case c.IsElement():
			name := c.AttrValue("slot")
			byName[name] = append(byName[name], c)
		case c.IsText():
			byName[""] = append(byName[""], c)
		}
	}
	seen := make(map[string]bool)
	host.shadowRoot.Walk(func(n *Node) bool {
		if !n.IsSlot() {
			return true
		}
		name := n.AttrValue("name")
		if seen[name] {
			return true
		}
		seen[name] = true
		n.assigned = byName[name]
		for _, a := range n.assigned {
			a.assignedSlot = n
		}
		return true
	})
}

func labeledControl(label *Node) *Node {
	if id, ok := label.Attr("for"); ok {
		if target := label.GetElementByID(id); target != nil && target.IsLabelable() {
			return target
		}
		return nil
	}
	var control *Node
	label.Walk(func(n *Node) bool {
		if control != nil {
			return false
		}
		if n.IsLabelable() {
			control = n
			return false
		}
		return true
	})
	return control
}
