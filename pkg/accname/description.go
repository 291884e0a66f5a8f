package accname

import (
	"strings"

	"github.com/conneroisu/accname/pkg/dom"
)

// ComputeAccessibleDescription returns the accessible description of root:
// the text of the elements referenced by aria-describedby, else the
// aria-description attribute, else the title attribute. opts.Compute is
// ignored.
func ComputeAccessibleDescription(root *dom.Node, opts Options) string {
	if root == nil {
		return ""
	}
	opts = opts.withDefaults(root)
	opts.Compute = Description

	refs := root.IDRefs("aria-describedby")
	parts := make([]string, 0, len(refs))
	for _, el := range refs {
		parts = append(parts, ComputeTextAlternative(el, opts))
	}
	description := strings.Join(parts, " ")

	// https://w3c.github.io/aria/#aria-description
	if description == "" {
		description = root.AttrValue("aria-description")
	}
	// https://www.w3.org/TR/html-aam-1.0/#accessible-name-and-description-computation
	if description == "" {
		description = root.AttrValue("title")
	}
	return description
}
