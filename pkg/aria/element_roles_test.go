package aria

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/accname/pkg/dom"
)

func TestElementRoles(t *testing.T) {
	byKey := make(map[string][]string)
	for _, er := range ElementRoles() {
		_, dup := byKey[er.Concept.Key()]
		assert.False(t, dup, "duplicate concept %s", er.Concept.Key())
		byKey[er.Concept.Key()] = er.Roles
	}

	assert.Equal(t, []string{"checkbox"}, byKey[`input[type="checkbox"]`])
	assert.Contains(t, byKey["button"], "button")
	assert.Contains(t, byKey["h1"], "heading")
}

func TestRoleElements(t *testing.T) {
	var keys []string
	for _, c := range RoleElements("heading") {
		keys = append(keys, c.Key())
	}
	assert.Equal(t, []string{"h1", "h2", "h3", "h4", "h5", "h6"}, keys)
	assert.Empty(t, RoleElements("roletype"))
}

func TestRelationConceptMatches(t *testing.T) {
	doc, err := dom.ParseString(`
		<input id="checkbox" type="checkbox">
		<input id="plain">
		<input id="listed" list="l">
		<img id="alt" alt="">
		<select id="multi" multiple size="4"></select>
		<select id="single"></select>`)
	require.NoError(t, err)

	roles := func(id string) []string {
		el := doc.GetElementByID(id)
		require.NotNil(t, el)
		return RolesForElement(el)
	}

	assert.Contains(t, roles("checkbox"), "checkbox")
	assert.Contains(t, roles("plain"), "textbox")
	assert.NotContains(t, roles("listed"), "textbox")
	assert.Contains(t, roles("alt"), "img")
	assert.Contains(t, roles("multi"), "listbox")
	assert.NotContains(t, roles("single"), "listbox")
}

func TestConceptKey(t *testing.T) {
	v := "checkbox"
	c := RelationConcept{
		Name: "input",
		Attributes: []RelationConceptAttribute{
			{Name: "type", Value: &v},
			{Name: "list", Constraints: []string{ConstraintUndefined}},
			{Name: "size", Constraints: []string{ConstraintGreaterThan1}},
			{Name: "multiple", Constraints: []string{ConstraintSet}},
		},
		Constraints: []string{"scoped to the body element"},
	}
	assert.Equal(t, `input[type="checkbox"]:not([list])[size>1][multiple] (scoped to the body element)`, c.Key())
}
