package accname

import "github.com/conneroisu/accname/pkg/dom"

// nameProhibitedRoles cannot be named.
// https://w3c.github.io/aria/#namefromprohibited
var nameProhibitedRoles = []string{
	"caption",
	"code",
	"deletion",
	"emphasis",
	"generic",
	"insertion",
	"none",
	"paragraph",
	"presentation",
	"strong",
	"subscript",
	"superscript",
}

// ProhibitsNaming reports whether el's role forbids an accessible name.
func ProhibitsNaming(el *dom.Node) bool {
	return hasAnyRole(el, nameProhibitedRoles...)
}

// ComputeAccessibleName returns the accessible name of root. Roles that
// prohibit naming always yield "". opts.Compute is ignored.
func ComputeAccessibleName(root *dom.Node, opts Options) string {
	if root == nil || ProhibitsNaming(root) {
		return ""
	}
	opts.Compute = Name
	return ComputeTextAlternative(root, opts)
}
