package aria

import (
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/conneroisu/accname/pkg/dom"
)

const htmlModule = "HTML"

// ElementRole associates one HTML element concept with the roles it implies.
type ElementRole struct {
	Concept RelationConcept
	Roles   []string
}

type elementIndex struct {
	order []string
	byKey map[string]*ElementRole
}

var elementRoles = sync.OnceValue(func() *elementIndex {
	idx := &elementIndex{byKey: make(map[string]*ElementRole)}
	roles().Range(func(name string, def RoleDefinition) bool {
		for _, rel := range def.concepts() {
			if rel.Module != htmlModule || rel.Concept == nil {
				continue
			}
			key := rel.Concept.Key()
			entry, ok := idx.byKey[key]
			if !ok {
				entry = &ElementRole{Concept: rel.Concept.clone()}
				idx.byKey[key] = entry
				idx.order = append(idx.order, key)
			}
			if !slices.Contains(entry.Roles, name) {
				entry.Roles = append(entry.Roles, name)
			}
		}
		return true
	})
	return idx
})

var roleElements = sync.OnceValue(func() map[string][]RelationConcept {
	out := make(map[string][]RelationConcept)
	roles().Range(func(name string, def RoleDefinition) bool {
		var concepts []RelationConcept
		for _, rel := range def.concepts() {
			if rel.Module == htmlModule && rel.Concept != nil {
				concepts = append(concepts, rel.Concept.clone())
			}
		}
		if len(concepts) > 0 {
			out[name] = concepts
		}
		return true
	})
	return out
})

// ElementRoles returns every HTML element concept with the roles it can
// imply, in the order concepts first appear in the role tables.
func ElementRoles() []ElementRole {
	idx := elementRoles()
	out := make([]ElementRole, 0, len(idx.order))
	for _, key := range idx.order {
		entry := idx.byKey[key]
		out = append(out, ElementRole{Concept: entry.Concept.clone(), Roles: slices.Clone(entry.Roles)})
	}
	return out
}

// RoleElements returns the HTML element concepts related to a role.
func RoleElements(role string) []RelationConcept {
	concepts := roleElements()[role]
	out := make([]RelationConcept, len(concepts))
	for i, c := range concepts {
		out[i] = c.clone()
	}
	return out
}

// RolesForElement returns the roles of every HTML concept the element
// matches, without duplicates.
func RolesForElement(el *dom.Node) []string {
	var out []string
	idx := elementRoles()
	for _, key := range idx.order {
		entry := idx.byKey[key]
		if !entry.Concept.Matches(el) {
			continue
		}
		for _, role := range entry.Roles {
			if !slices.Contains(out, role) {
				out = append(out, role)
			}
		}
	}
	return out
}

// Key renders the concept in a selector-like form, e.g.
// `input[type="checkbox"]` or `select[size>1][multiple]`.
// Concept-level constraints are appended in parentheses.
func (c RelationConcept) Key() string {
	var b strings.Builder
	b.WriteString(c.Name)
	for _, attr := range c.Attributes {
		switch {
		case attr.Value != nil:
			b.WriteString("[" + attr.Name + "=" + strconv.Quote(*attr.Value) + "]")
		case slices.Contains(attr.Constraints, ConstraintUndefined):
			b.WriteString(":not([" + attr.Name + "])")
		case slices.Contains(attr.Constraints, ConstraintGreaterThan1):
			b.WriteString("[" + attr.Name + ">1]")
		default:
			b.WriteString("[" + attr.Name + "]")
		}
	}
	if len(c.Constraints) > 0 {
		b.WriteString(" (" + strings.Join(c.Constraints, ", ") + ")")
	}
	return b.String()
}

// Matches reports whether el is an instance of the concept: same local name
// and every qualifying attribute satisfied. Concept-level constraints that
// depend on document context (scoping, ancestors) are not evaluated.
func (c RelationConcept) Matches(el *dom.Node) bool {
	if el == nil || !el.IsElement() || el.LocalName() != c.Name {
		return false
	}
	for _, attr := range c.Attributes {
		value, present := el.Attr(attr.Name)
		switch {
		case slices.Contains(attr.Constraints, ConstraintUndefined):
			if present {
				return false
			}
		case slices.Contains(attr.Constraints, ConstraintGreaterThan1):
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if !present || err != nil || n <= 1 {
				return false
			}
		case attr.Value != nil:
			if !present || !strings.EqualFold(strings.TrimSpace(value), *attr.Value) {
				return false
			}
		default:
			if !present {
				return false
			}
		}
	}
	return true
}
