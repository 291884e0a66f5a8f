package accname

import (
	"github.com/conneroisu/accname/pkg/dom"
	"github.com/conneroisu/accname/pkg/l10n"
	"github.com/conneroisu/accname/pkg/style"
)

// Compute selects what ComputeTextAlternative produces.
type Compute int

const (
	// Name computes the accessible name.
	Name Compute = iota
	// Description computes the accessible description.
	Description
)

// String returns the string representation of the computation
func (c Compute) String() string {
	switch c {
	case Name:
		return "name"
	case Description:
		return "description"
	default:
		return "unknown"
	}
}

// Options configures one computation. The zero value computes a name with a
// style.Resolver over the root's document and English fallback strings.
type Options struct {
	Compute Compute

	// Hidden includes hidden elements in the computation, skipping step 2A.
	Hidden bool

	// GetComputedStyle returns the computed style of an element or one of its
	// ::before / ::after pseudo-elements.
	GetComputedStyle style.Func

	// Strings provides the fallback labels of unlabeled buttons.
	Strings l10n.Strings
}

func (o Options) withDefaults(root *dom.Node) Options {
	if o.GetComputedStyle == nil {
		if doc := root.Document(); doc != nil {
			o.GetComputedStyle = style.NewResolver(doc).Func()
		} else {
			o.GetComputedStyle = style.Inline
		}
	}
	if o.Strings == nil {
		o.Strings = l10n.English
	}
	return o
}
