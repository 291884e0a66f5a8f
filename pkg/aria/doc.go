// Package aria is a read-only knowledge base of WAI-ARIA roles, states and
// properties.
//
// The tables are embedded YAML documents decoded once on first use. Role
// definitions are published with the properties they inherit from every role
// in their superclass chains already merged in, so callers never have to walk
// the hierarchy themselves:
//
//	def, ok := aria.LookupRole("checkbox")
//	if ok && def.SupportsProp("aria-disabled") {
//		// inherited from the abstract "input" role
//	}
//
// Two derived indices relate roles to the HTML elements that imply them:
// ElementRoles maps an element concept (tag plus qualifying attributes) to the
// roles it can take, and RoleElements maps the other way. Only concepts from
// the "HTML" module take part in either index.
//
// Everything returned from this package is a copy; the underlying tables are
// never mutated after initialization and are safe for concurrent reads.
package aria
