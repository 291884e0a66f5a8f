package accname

import (
	"strings"

	"github.com/conneroisu/accname/pkg/dom"
	"github.com/conneroisu/accname/pkg/l10n"
)

// elementTextAlternative implements step 2D: names defined by the host
// language. It reports false when no rule applies.
func (w *walker) elementTextAlternative(n *dom.Node) (string, bool) {
	if !n.IsElement() {
		return "", false
	}

	switch {
	case n.Is("fieldset"):
		// https://w3c.github.io/html-aam/#fieldset-and-legend-elements
		w.consult(n)
		if legend := firstChild(n, func(c *dom.Node) bool { return c.Is("legend") }); legend != nil {
			return w.compute(legend, computeContext{}), true
		}
	case n.Is("table"):
		// https://w3c.github.io/html-aam/#table-element
		w.consult(n)
		if caption := firstChild(n, func(c *dom.Node) bool { return c.Is("caption") }); caption != nil {
			return w.compute(caption, computeContext{}), true
		}
	case n.IsSVG():
		// https://www.w3.org/TR/svg-aam-1.0/
		w.consult(n)
		isTitle := func(c *dom.Node) bool { return c.IsSVG() && c.LocalName() == "title" }
		if title := firstChild(n, isTitle); title != nil {
			return title.TextContent(), true
		}
		return "", false
	case n.Is("img"), n.Is("area"):
		// An explicit empty alt is a deliberate "no name".
		if ref, ok := n.AttrRef("alt"); ok && !w.isAttrConsulted(ref) {
			w.consultAttr(ref)
			return n.AttrValue("alt"), true
		}
	case n.Is("optgroup"):
		if label, ok := w.useAttribute(n, "label"); ok {
			return label, true
		}
	}

	inputType := n.InputType()
	switch inputType {
	case "button", "submit", "reset":
		if value, ok := w.useAttribute(n, "value"); ok {
			return value, true
		}
		switch inputType {
		case "submit":
			return w.strings.Text(l10n.Submit), true
		case "reset":
			return w.strings.Text(l10n.Reset), true
		}
	}

	if labels := n.Labels(); len(labels) > 0 {
		w.consult(n)
		var parts []string
		for _, label := range labels {
			text := w.compute(label, computeContext{
				isEmbeddedInLabel: true,
				recursion:         true,
			})
			if text != "" {
				parts = append(parts, text)
			}
		}
		return strings.Join(parts, " "), true
	}

	if inputType == "image" {
		if alt, ok := w.useAttribute(n, "alt"); ok {
			return alt, true
		}
		if title, ok := w.useAttribute(n, "title"); ok {
			return title, true
		}
		return w.strings.Text(l10n.SubmitQuery), true
	}

	if hasAnyRole(n, "button") {
		if text := w.flatten(n, computeContext{}); text != "" {
			return text, true
		}
	}
	return "", false
}

func firstChild(n *dom.Node, match func(*dom.Node) bool) *dom.Node {
	for _, c := range n.ChildNodes() {
		if match(c) {
			return c
		}
	}
	return nil
}
