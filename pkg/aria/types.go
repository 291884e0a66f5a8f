package aria

import (
	"maps"
	"slices"
)

// NameFromSource describes where a role may take its accessible name from.
type NameFromSource string

const (
	NameFromAuthor     NameFromSource = "author"
	NameFromContents   NameFromSource = "contents"
	NameFromProhibited NameFromSource = "prohibited"
)

// Constraint values used by relation concepts and their attributes.
const (
	ConstraintSet          = "set"
	ConstraintUndefined    = "undefined"
	ConstraintGreaterThan1 = ">1"
)

// RelationConceptAttribute qualifies a concept by one attribute, either by an
// exact value or by a constraint such as "set" or "undefined".
type RelationConceptAttribute struct {
	Name        string   `yaml:"name" json:"name"`
	Value       *string  `yaml:"value,omitempty" json:"value,omitempty"`
	Constraints []string `yaml:"constraints,omitempty" json:"constraints,omitempty"`
}

// RelationConcept names a concept from another vocabulary (an HTML element,
// an XForms control, ...) that a role is based on or related to.
type RelationConcept struct {
	Name        string                     `yaml:"name" json:"name"`
	Attributes  []RelationConceptAttribute `yaml:"attributes,omitempty" json:"attributes,omitempty"`
	Constraints []string                   `yaml:"constraints,omitempty" json:"constraints,omitempty"`
}

// Relation ties a concept to the module (vocabulary) it comes from.
type Relation struct {
	Module  string           `yaml:"module,omitempty" json:"module,omitempty"`
	Concept *RelationConcept `yaml:"concept,omitempty" json:"concept,omitempty"`
}

// RoleDefinition describes one concrete or abstract ARIA role.
//
// Props maps every supported property to its default value (nil when the
// property has no default). For published definitions it already includes the
// properties inherited from the superclass chains.
type RoleDefinition struct {
	Name                   string             `yaml:"name" json:"name"`
	Abstract               bool               `yaml:"abstract" json:"abstract"`
	AccessibleNameRequired bool               `yaml:"accessibleNameRequired" json:"accessible_name_required"`
	ChildrenPresentational bool               `yaml:"childrenPresentational" json:"children_presentational"`
	NameFrom               []NameFromSource   `yaml:"nameFrom" json:"name_from"`
	Props                  map[string]*string `yaml:"props" json:"props"`
	RequiredProps          map[string]*string `yaml:"requiredProps" json:"required_props"`
	ProhibitedProps        []string           `yaml:"prohibitedProps" json:"prohibited_props"`
	RequiredContextRoles   []string           `yaml:"requiredContextRoles" json:"required_context_roles"`
	RequiredOwnedElements  [][]string         `yaml:"requiredOwnedElements" json:"required_owned_elements"`
	BaseConcepts           []Relation         `yaml:"baseConcepts" json:"base_concepts"`
	RelatedConcepts        []Relation         `yaml:"relatedConcepts" json:"related_concepts"`
	SuperClass             [][]string         `yaml:"superClass" json:"super_class"`
}

// SupportsProp reports whether the role supports the given state or property.
func (d RoleDefinition) SupportsProp(prop string) bool {
	_, ok := d.Props[prop]
	return ok
}

// PropNames returns the names of all supported properties, sorted.
func (d RoleDefinition) PropNames() []string {
	return slices.Sorted(maps.Keys(d.Props))
}

// RequiresProp reports whether the property is required for the role.
func (d RoleDefinition) RequiresProp(prop string) bool {
	_, ok := d.RequiredProps[prop]
	return ok
}

// ProhibitsProp reports whether the property must not be used with the role.
func (d RoleDefinition) ProhibitsProp(prop string) bool {
	return slices.Contains(d.ProhibitedProps, prop)
}

// AllowsNameFrom reports whether the role may be named from the given source.
func (d RoleDefinition) AllowsNameFrom(source NameFromSource) bool {
	return slices.Contains(d.NameFrom, source)
}

// Ancestors returns every role named in the superclass chains, nearest
// chains first, without duplicates.
func (d RoleDefinition) Ancestors() []string {
	var out []string
	for _, chain := range d.SuperClass {
		for _, role := range chain {
			if !slices.Contains(out, role) {
				out = append(out, role)
			}
		}
	}
	return out
}

// concepts returns base and related concepts in declaration order.
func (d RoleDefinition) concepts() []Relation {
	return append(slices.Clone(d.BaseConcepts), d.RelatedConcepts...)
}

func (d RoleDefinition) clone() RoleDefinition {
	c := d
	c.NameFrom = slices.Clone(d.NameFrom)
	c.Props = cloneProps(d.Props)
	c.RequiredProps = cloneProps(d.RequiredProps)
	c.ProhibitedProps = slices.Clone(d.ProhibitedProps)
	c.RequiredContextRoles = slices.Clone(d.RequiredContextRoles)
	c.RequiredOwnedElements = cloneChains(d.RequiredOwnedElements)
	c.BaseConcepts = cloneRelations(d.BaseConcepts)
	c.RelatedConcepts = cloneRelations(d.RelatedConcepts)
	c.SuperClass = cloneChains(d.SuperClass)
	return c
}

func cloneProps(m map[string]*string) map[string]*string {
	out := make(map[string]*string, len(m))
	for k, v := range m {
		if v != nil {
			s := *v
			v = &s
		}
		out[k] = v
	}
	return out
}

func cloneChains(chains [][]string) [][]string {
	if chains == nil {
		return nil
	}
	out := make([][]string, len(chains))
	for i, chain := range chains {
		out[i] = slices.Clone(chain)
	}
	return out
}

func cloneRelations(rels []Relation) []Relation {
	if rels == nil {
		return nil
	}
	out := make([]Relation, len(rels))
	for i, rel := range rels {
		out[i] = rel
		if rel.Concept != nil {
			c := rel.Concept.clone()
			out[i].Concept = &c
		}
	}
	return out
}

func (c RelationConcept) clone() RelationConcept {
	out := c
	out.Constraints = slices.Clone(c.Constraints)
	if c.Attributes != nil {
		out.Attributes = make([]RelationConceptAttribute, len(c.Attributes))
		for i, attr := range c.Attributes {
			out.Attributes[i] = attr
			out.Attributes[i].Constraints = slices.Clone(attr.Constraints)
			if attr.Value != nil {
				v := *attr.Value
				out.Attributes[i].Value = &v
			}
		}
	}
	return out
}

// RoleMap is an insertion-ordered, read-only collection of role definitions.
type RoleMap struct {
	keys []string
	defs map[string]RoleDefinition
}

func newRoleMap() *RoleMap {
	return &RoleMap{defs: make(map[string]RoleDefinition)}
}

// set inserts or replaces a definition; a replaced key keeps its position.
func (m *RoleMap) set(def RoleDefinition) {
	if _, exists := m.defs[def.Name]; !exists {
		m.keys = append(m.keys, def.Name)
	}
	m.defs[def.Name] = def
}

func (m *RoleMap) clone() *RoleMap {
	out := &RoleMap{
		keys: slices.Clone(m.keys),
		defs: make(map[string]RoleDefinition, len(m.defs)),
	}
	for k, v := range m.defs {
		out.defs[k] = v.clone()
	}
	return out
}

// Get returns a copy of the definition for name.
func (m *RoleMap) Get(name string) (RoleDefinition, bool) {
	def, ok := m.defs[name]
	if !ok {
		return RoleDefinition{}, false
	}
	return def.clone(), true
}

// Has reports whether the map holds a definition for name.
func (m *RoleMap) Has(name string) bool {
	_, ok := m.defs[name]
	return ok
}

// Keys returns the role names in insertion order.
func (m *RoleMap) Keys() []string {
	return slices.Clone(m.keys)
}

// Len returns the number of roles.
func (m *RoleMap) Len() int {
	return len(m.keys)
}

// Range calls fn for every role in insertion order until fn returns false.
func (m *RoleMap) Range(fn func(name string, def RoleDefinition) bool) {
	for _, k := range m.keys {
		if !fn(k, m.defs[k].clone()) {
			return
		}
	}
}

