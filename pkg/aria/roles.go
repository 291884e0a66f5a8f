package aria

import (
	"embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

// Role tables in the order they are concatenated. Later tables win when a
// role id appears twice.
var roleTables = []string{
	"abstract_roles.yaml",
	"literal_roles.yaml",
	"graphics_roles.yaml",
}

func decodeTable[T any](name string) T {
	raw, err := dataFS.ReadFile("data/" + name)
	if err != nil {
		panic(fmt.Sprintf("aria: read %s: %v", name, err))
	}

	var out T
	if err := yaml.Unmarshal(raw, &out); err != nil {
		panic(fmt.Sprintf("aria: decode %s: %v", name, err))
	}
	return out
}

var roles = sync.OnceValue(func() *RoleMap {
	tables := make([][]RoleDefinition, 0, len(roleTables))
	for _, name := range roleTables {
		tables = append(tables, decodeTable[[]RoleDefinition](name))
	}
	return buildRoleMap(tables...)
})

// Roles returns the published role knowledge base.
func Roles() *RoleMap {
	return roles()
}

// LookupRole returns the definition of a role. Unknown roles report false;
// callers should treat them as carrying no constraints.
func LookupRole(name string) (RoleDefinition, bool) {
	return roles().Get(name)
}

// IsAbstract reports whether name is a known abstract role.
func IsAbstract(name string) bool {
	def, ok := roles().defs[name]
	return ok && def.Abstract
}

// buildRoleMap concatenates the tables and merges inherited properties.
func buildRoleMap(tables ...[]RoleDefinition) *RoleMap {
	base := newRoleMap()
	for _, table := range tables {
		for _, def := range table {
			base.set(normalize(def))
		}
	}
	return inherit(base)
}

func normalize(def RoleDefinition) RoleDefinition {
	if def.Props == nil {
		def.Props = make(map[string]*string)
	}
	if def.RequiredProps == nil {
		def.RequiredProps = make(map[string]*string)
	}
	return def
}

// inherit returns a copy of base in which every role also supports the
// properties of each role in its superclass chains. Ancestors are read from
// the unmerged base, and a property the role already declares is never
// overwritten.
func inherit(base *RoleMap) *RoleMap {
	merged := base.clone()
	for _, name := range merged.keys {
		def := merged.defs[name]
		for _, chain := range def.SuperClass {
			for _, ancestor := range chain {
				super, ok := base.defs[ancestor]
				if !ok {
					continue
				}
				for prop, value := range super.Props {
					if _, declared := def.Props[prop]; !declared {
						def.Props[prop] = value
					}
				}
			}
		}
		merged.defs[name] = def
	}
	return merged
}
