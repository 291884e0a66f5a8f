package accname

import (
	"regexp"
	"strings"

	"github.com/conneroisu/accname/pkg/dom"
	"github.com/conneroisu/accname/pkg/l10n"
	"github.com/conneroisu/accname/pkg/style"
)

var whitespaceRun = regexp.MustCompile(`\s\s+`)

func asFlatString(s string) string {
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(s), " ")
}

// ComputeTextAlternative runs the text alternative computation on root and
// returns the flattened result. Unlike ComputeAccessibleName it does not
// consult the naming prohibitions of root's role.
func ComputeTextAlternative(root *dom.Node, opts Options) string {
	if root == nil {
		return ""
	}
	w := newWalker(opts.withDefaults(root))
	return asFlatString(w.compute(root, computeContext{
		// Descriptions start at referenced elements.
		isReferenced: w.mode == Description,
	}))
}

type computeContext struct {
	isEmbeddedInLabel bool
	isReferenced      bool
	recursion         bool
}

// consultKey identifies a node, or one attribute of a node when attr is set.
type consultKey struct {
	node *dom.Node
	attr string
}

// walker holds the state of one top-level computation.
type walker struct {
	mode      Compute
	hidden    bool
	style     style.Func
	strings   l10n.Strings
	consulted map[consultKey]struct{}

	// flattening counts the flatten frames of each node. A node is not
	// flattened into its own content, which ends aria-owns cycles.
	flattening map[*dom.Node]int

	// visit is set by tests to observe every node the computation starts on.
	visit func(*dom.Node)
}

func newWalker(opts Options) *walker {
	return &walker{
		mode:       opts.Compute,
		hidden:     opts.Hidden,
		style:      opts.GetComputedStyle,
		strings:    opts.Strings,
		consulted:  make(map[consultKey]struct{}),
		flattening: make(map[*dom.Node]int),
	}
}

func (w *walker) isConsulted(n *dom.Node) bool {
	_, ok := w.consulted[consultKey{node: n}]
	return ok
}

func (w *walker) consult(n *dom.Node) {
	w.consulted[consultKey{node: n}] = struct{}{}
}

func (w *walker) isAttrConsulted(ref dom.AttrRef) bool {
	_, ok := w.consulted[consultKey{node: ref.Owner, attr: ref.Name}]
	return ok
}

func (w *walker) consultAttr(ref dom.AttrRef) {
	w.consulted[consultKey{node: ref.Owner, attr: ref.Name}] = struct{}{}
}

// useAttribute returns a non-blank attribute value that has not contributed
// yet, and marks it consulted.
func (w *walker) useAttribute(el *dom.Node, name string) (string, bool) {
	ref, ok := el.AttrRef(name)
	if !ok || w.isAttrConsulted(ref) {
		return "", false
	}
	value := el.AttrValue(name)
	if strings.TrimSpace(value) == "" {
		return "", false
	}
	w.consultAttr(ref)
	return value, true
}

func (w *walker) isHidden(n *dom.Node) bool {
	return hiddenElement(n, w.style)
}

func (w *walker) compute(current *dom.Node, ctx computeContext) string {
	if w.isConsulted(current) {
		return ""
	}
	if w.visit != nil {
		w.visit(current)
	}

	// 2A
	if !w.hidden && !ctx.isReferenced && w.isHidden(current) {
		w.consult(current)
		return ""
	}

	// 2B
	if ref, ok := current.AttrRef("aria-labelledby"); ok && w.mode == Name && !ctx.isReferenced && !w.isAttrConsulted(ref) {
		if labels := current.IDRefs("aria-labelledby"); len(labels) > 0 {
			w.consultAttr(ref)
			parts := make([]string, 0, len(labels))
			for _, label := range labels {
				parts = append(parts, w.compute(label, computeContext{
					isEmbeddedInLabel: ctx.isEmbeddedInLabel,
					isReferenced:      true,
					// Not recursion: <input id="x" aria-label="foo"
					// aria-labelledby="x"> must still reach aria-label.
					recursion: false,
				}))
			}
			return strings.Join(parts, " ")
		}
	}

	// 2C: controls embedded in content contribute their value, not a label.
	skipToValue := ctx.recursion && w.mode == Name && isControl(current)
	if !skipToValue {
		if label := strings.TrimSpace(current.AttrValue("aria-label")); label != "" && w.mode == Name {
			w.consult(current)
			return label
		}

		// 2D
		if !isPresentational(current) {
			if alt, ok := w.elementTextAlternative(current); ok {
				w.consult(current)
				return alt
			}
		}
	}

	// Menus never take their name from content.
	// See https://github.com/w3c/accname/issues/67.
	if hasAnyRole(current, "menu") {
		w.consult(current)
		return ""
	}

	// 2E
	if skipToValue || ctx.isEmbeddedInLabel || ctx.isReferenced {
		if value, ok := w.controlValue(current, ctx); ok {
			return value
		}
	}

	// 2F
	if allowsNameFromContent(current) || (current.IsElement() && ctx.isReferenced) || current.Is("caption") {
		text := w.flatten(current, computeContext{isEmbeddedInLabel: ctx.isEmbeddedInLabel})
		if text != "" {
			w.consult(current)
			return text
		}
	}

	if current.IsText() {
		w.consult(current)
		return current.Data()
	}

	if ctx.recursion {
		w.consult(current)
		return w.flatten(current, computeContext{isEmbeddedInLabel: ctx.isEmbeddedInLabel})
	}

	// 2I: tooltip attribute
	if current.IsElement() {
		if title, ok := w.useAttribute(current, "title"); ok {
			w.consult(current)
			return title
		}
	}

	w.consult(current)
	return ""
}

// controlValue implements step 2E for value-bearing widgets.
func (w *walker) controlValue(current *dom.Node, ctx computeContext) (string, bool) {
	switch {
	case hasAnyRole(current, "combobox", "listbox"):
		w.consult(current)
		selected := selectedOptions(current)
		if len(selected) == 0 {
			if current.Is("input") {
				return current.Value(), true
			}
			return "", true
		}
		parts := make([]string, 0, len(selected))
		for _, option := range selected {
			parts = append(parts, w.compute(option, computeContext{
				isEmbeddedInLabel: ctx.isEmbeddedInLabel,
				recursion:         true,
			}))
		}
		return strings.Join(parts, " "), true

	case isRange(current):
		w.consult(current)
		if v, ok := current.Attr("aria-valuetext"); ok {
			return v, true
		}
		if v, ok := current.Attr("aria-valuenow"); ok {
			return v, true
		}
		return current.AttrValue("value"), true

	case hasAnyRole(current, "textbox"):
		w.consult(current)
		if current.Is("input") || current.Is("textarea") {
			return current.Value(), true
		}
		return current.TextContent(), true
	}
	return "", false
}

// selectedOptions returns the selected options of a native <select>, or the
// descendants of a custom widget (and of the elements it owns) marked
// aria-selected="true".
func selectedOptions(widget *dom.Node) []*dom.Node {
	if widget.Is("select") {
		return widget.SelectedOptions()
	}
	var out []*dom.Node
	collect := func(root *dom.Node) {
		root.Walk(func(n *dom.Node) bool {
			if n.IsElement() && n.AttrValue("aria-selected") == "true" {
				out = append(out, n)
			}
			return true
		})
	}
	collect(widget)
	for _, owned := range widget.IDRefs("aria-owns") {
		collect(owned)
	}
	return out
}
