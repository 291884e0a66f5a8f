package accname

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/conneroisu/accname/pkg/aria"
	"github.com/conneroisu/accname/pkg/dom"
)

func TestGetRole(t *testing.T) {
	tests := []struct {
		markup string
		want   string
	}{
		{markup: `<button id="x"></button>`, want: "button"},
		{markup: `<a id="x" href="/"></a>`, want: "link"},
		{markup: `<a id="x"></a>`, want: ""},
		{markup: `<area id="x" href="/">`, want: "link"},
		{markup: `<img id="x" alt="">`, want: "presentation"},
		{markup: `<img id="x" alt="" aria-label="x">`, want: "img"},
		{markup: `<img id="x" alt="cat">`, want: "img"},
		{markup: `<img id="x">`, want: "img"},
		{markup: `<input id="x">`, want: "textbox"},
		{markup: `<input id="x" type="EMAIL">`, want: "textbox"},
		{markup: `<input id="x" list="l">`, want: "combobox"},
		{markup: `<input id="x" type="search">`, want: "searchbox"},
		{markup: `<input id="x" type="search" list="l">`, want: "combobox"},
		{markup: `<input id="x" type="number">`, want: "spinbutton"},
		{markup: `<input id="x" type="range">`, want: "slider"},
		{markup: `<input id="x" type="checkbox">`, want: "checkbox"},
		{markup: `<input id="x" type="radio">`, want: "radio"},
		{markup: `<input id="x" type="image">`, want: "button"},
		{markup: `<input id="x" type="hidden">`, want: ""},
		{markup: `<input id="x" type="date">`, want: ""},
		{markup: `<select id="x"></select>`, want: "combobox"},
		{markup: `<select id="x" multiple></select>`, want: "combobox"},
		{markup: `<select id="x" multiple size="3"></select>`, want: "listbox"},
		{markup: `<h3 id="x"></h3>`, want: "heading"},
		{markup: `<div id="x"></div>`, want: "generic"},
		{markup: `<p id="x"></p>`, want: "paragraph"},
		{markup: `<section id="x"></section>`, want: "region"},
		{markup: `<div id="x" role="button link"></div>`, want: "button"},
		{markup: `<div id="x" role="   "></div>`, want: "generic"},
		{markup: `<div id="x" role="nonsense"></div>`, want: "nonsense"},
		{markup: `<h1 id="x" role="presentation"></h1>`, want: "presentation"},
		{markup: `<h1 id="x" role="none" aria-describedby="z"></h1>`, want: "heading"},
		{markup: `<div id="x" role="none" aria-label="x"></div>`, want: "none"},
		{markup: `<div id="x" role="none" aria-busy="true"></div>`, want: "generic"},
		{markup: `<svg id="x"></svg>`, want: ""},
		{markup: `<custom-element id="x"></custom-element>`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.markup, func(t *testing.T) {
			assert.Equal(t, tt.want, GetRole(element(t, tt.markup, "x")))
		})
	}
}

func TestGetRoleOfNonElements(t *testing.T) {
	doc := dom.MustParseString(`<p id="x">text</p>`)
	assert.Empty(t, GetRole(doc.Root()))
	assert.Empty(t, GetRole(doc.GetElementByID("x").ChildNodes()[0]))
	assert.Empty(t, GetRole(nil))
}

func TestRangeRolesComeFromKnowledgeBase(t *testing.T) {
	got := rangeRoles()
	assert.Equal(t, map[string]bool{
		"meter":       true,
		"progressbar": true,
		"scrollbar":   true,
		"slider":      true,
		"spinbutton":  true,
	}, got)
}

func TestNameFromContentRolesAreKnown(t *testing.T) {
	for _, role := range nameFromContentRoles {
		def, ok := aria.LookupRole(role)
		if !ok {
			// label and legend are not ARIA 1.2 roles.
			continue
		}
		assert.True(t, def.AllowsNameFrom(aria.NameFromContents), role)
	}
}

func TestProhibitsNaming(t *testing.T) {
	doc := dom.MustParseString(`<strong id="s"></strong><button id="b"></button>`)
	assert.True(t, ProhibitsNaming(doc.GetElementByID("s")))
	assert.False(t, ProhibitsNaming(doc.GetElementByID("b")))
}
