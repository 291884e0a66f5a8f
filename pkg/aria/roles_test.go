package aria

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupRole(t *testing.T) {
	button, ok := LookupRole("button")
	require.True(t, ok)
	assert.Equal(t, "button", button.Name)
	assert.False(t, button.Abstract)
	assert.True(t, button.AllowsNameFrom(NameFromContents))
	assert.True(t, button.AllowsNameFrom(NameFromAuthor))
	assert.True(t, button.ChildrenPresentational)

	_, ok = LookupRole("not-a-role")
	assert.False(t, ok)
}

func TestRoleInheritance(t *testing.T) {
	checkbox, ok := LookupRole("checkbox")
	require.True(t, ok)
	assert.True(t, checkbox.SupportsProp("aria-checked"))
	// Declared by the abstract input role, not by checkbox.
	assert.True(t, checkbox.SupportsProp("aria-disabled"))
	// Global properties come from roletype.
	assert.True(t, checkbox.SupportsProp("aria-label"))
	assert.Contains(t, checkbox.Ancestors(), "input")
	assert.Contains(t, checkbox.Ancestors(), "roletype")
}

func TestRoleWithoutSuperclassInheritsNothing(t *testing.T) {
	none, ok := LookupRole("none")
	require.True(t, ok)
	assert.Empty(t, none.SuperClass)
	assert.Empty(t, none.Props)
	assert.False(t, none.SupportsProp("aria-label"))
}

func TestInheritDoesNotOverrideDeclaredValues(t *testing.T) {
	own := "own"
	inherited := "inherited"
	base := []RoleDefinition{
		{Name: "parent", Abstract: true, Props: map[string]*string{"aria-x": &inherited, "aria-y": nil}},
		{Name: "child", Props: map[string]*string{"aria-x": &own}, SuperClass: [][]string{{"parent"}}},
	}
	m := buildRoleMap(base)

	child, ok := m.Get("child")
	require.True(t, ok)
	require.NotNil(t, child.Props["aria-x"])
	assert.Equal(t, "own", *child.Props["aria-x"])
	assert.True(t, child.SupportsProp("aria-y"))

	parent, _ := m.Get("parent")
	assert.Len(t, parent.Props, 2)
}

func TestDuplicateRolesKeepFirstPosition(t *testing.T) {
	m := buildRoleMap(
		[]RoleDefinition{{Name: "a"}, {Name: "b", AccessibleNameRequired: false}},
		[]RoleDefinition{{Name: "c"}, {Name: "b", AccessibleNameRequired: true}},
	)
	assert.Equal(t, []string{"a", "b", "c"}, m.Keys())
	b, _ := m.Get("b")
	assert.True(t, b.AccessibleNameRequired)
}

func TestGraphicsTableWins(t *testing.T) {
	def, ok := LookupRole("graphics-document")
	require.True(t, ok)
	// Only the graphics table carries related concepts for these roles.
	assert.NotEmpty(t, def.RelatedConcepts)
	assert.Equal(t, 98, Roles().Len())
}

func TestRolesAreImmutable(t *testing.T) {
	def, ok := LookupRole("button")
	require.True(t, ok)
	def.Props["aria-bogus"] = nil
	def.NameFrom = nil

	again, _ := LookupRole("button")
	assert.False(t, again.SupportsProp("aria-bogus"))
	assert.NotEmpty(t, again.NameFrom)
}

func TestIsAbstract(t *testing.T) {
	assert.True(t, IsAbstract("widget"))
	assert.True(t, IsAbstract("range"))
	assert.False(t, IsAbstract("button"))
	assert.False(t, IsAbstract("unknown"))
}

func TestEveryChainEndsAtRoletype(t *testing.T) {
	Roles().Range(func(name string, def RoleDefinition) bool {
		for _, chain := range def.SuperClass {
			require.NotEmpty(t, chain, name)
			assert.Equal(t, "roletype", chain[0], name)
			for _, ancestor := range chain {
				assert.True(t, Roles().Has(ancestor), "%s: unknown ancestor %s", name, ancestor)
			}
		}
		return true
	})
}
