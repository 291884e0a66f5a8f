package accessibility

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/conneroisu/accname/internal/validation"
	"github.com/conneroisu/accname/pkg/accname"
	"github.com/conneroisu/accname/pkg/dom"
)

const maxHTMLContext = 200

// DOMElement implements HTMLElement over a parsed dom.Node. Role, name and
// description are computed on first use.
type DOMElement struct {
	node *dom.Node
	opts accname.Options

	role, name, description *string
}

// NewDOMElement wraps an element. opts configures name and description
// computation; sharing one GetComputedStyle across the elements of a
// document avoids re-reading its style sheets.
func NewDOMElement(node *dom.Node, opts accname.Options) *DOMElement {
	return &DOMElement{node: node, opts: opts}
}

func (e *DOMElement) Node() *dom.Node { return e.node }

func (e *DOMElement) TagName() string { return e.node.LocalName() }

func (e *DOMElement) GetAttribute(name string) (string, bool) {
	return e.node.Attr(name)
}

func (e *DOMElement) GetTextContent() string { return e.node.TextContent() }

// GetOuterHTML renders the element, truncated for use in reports.
func (e *DOMElement) GetOuterHTML() string {
	var b strings.Builder
	if err := html.Render(&b, e.node.Raw()); err != nil {
		return e.node.String()
	}
	return truncate(validation.SanitizeInput(b.String()), maxHTMLContext)
}

// GetParent returns the flat-tree parent element, or nil at the top.
func (e *DOMElement) GetParent() HTMLElement {
	for p := e.node.Parent(); p != nil; p = p.Parent() {
		if p.IsShadowRoot() {
			p = p.Host()
		}
		if p.IsElement() {
			return NewDOMElement(p, e.opts)
		}
	}
	return nil
}

func (e *DOMElement) IsVisible() bool {
	return e.opts.Hidden || !accname.IsInaccessible(e.node, e.opts.GetComputedStyle)
}

func (e *DOMElement) GetAriaRole() string {
	if e.role == nil {
		r := accname.GetRole(e.node)
		e.role = &r
	}
	return *e.role
}

func (e *DOMElement) GetAriaLabel() string {
	if e.name == nil {
		n := accname.ComputeAccessibleName(e.node, e.opts)
		e.name = &n
	}
	return *e.name
}

func (e *DOMElement) GetAriaDescription() string {
	if e.description == nil {
		d := accname.ComputeAccessibleDescription(e.node, e.opts)
		e.description = &d
	}
	return *e.description
}

// Selector returns a CSS selector for the element: its id when it has one,
// otherwise its tag and classes, with :nth-of-type when siblings share
// the tag.
func (e *DOMElement) Selector() string {
	return generateSelector(e.node)
}

func generateSelector(n *dom.Node) string {
	tag := n.LocalName()
	if id := strings.TrimSpace(n.AttrValue("id")); id != "" && !strings.ContainsAny(id, " \t\n") {
		return fmt.Sprintf("%s#%s", tag, id)
	}

	sel := tag
	if classes := strings.Fields(n.AttrValue("class")); len(classes) > 0 {
		sel += "." + strings.Join(classes, ".")
	}

	if parent := n.Parent(); parent != nil {
		index, count := 0, 0
		for _, sib := range parent.Children() {
			if sib.LocalName() != tag {
				continue
			}
			count++
			if sib == n {
				index = count
			}
		}
		if count > 1 {
			sel += fmt.Sprintf(":nth-of-type(%d)", index)
		}
	}
	return sel
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "…"
}
