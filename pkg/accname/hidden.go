package accname

import (
	"github.com/conneroisu/accname/pkg/dom"
	"github.com/conneroisu/accname/pkg/style"
)

func hiddenElement(n *dom.Node, computed style.Func) bool {
	if !n.IsElement() {
		return false
	}
	if n.HasAttr("hidden") || n.AttrValue("aria-hidden") == "true" {
		return true
	}
	s := computed(n, "")
	return s.Display == "none" || s.Visibility == "hidden"
}

// IsInaccessible reports whether el or one of its flat-tree ancestors is
// hidden from assistive technology. A nil style function uses a resolver
// over el's document.
func IsInaccessible(el *dom.Node, computed style.Func) bool {
	if computed == nil {
		computed = Options{}.withDefaults(el).GetComputedStyle
	}
	for n := el; n != nil; n = flatParent(n) {
		if hiddenElement(n, computed) {
			return true
		}
	}
	return false
}

// flatParent steps from a node to its parent in the flat tree: slotted
// nodes go to their slot and shadow roots to their host.
func flatParent(n *dom.Node) *dom.Node {
	if slot := n.AssignedSlot(); slot != nil {
		return slot
	}
	if n.IsShadowRoot() {
		return n.Host()
	}
	return n.Parent()
}
