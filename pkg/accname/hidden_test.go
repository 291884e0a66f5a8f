package accname

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/accname/pkg/dom"
)

func TestImplicitRole(t *testing.T) {
	doc := dom.MustParseString(`<button id="b" role="tab">x</button><span id="s" role="none"></span>`)

	assert.Equal(t, "button", ImplicitRole(doc.GetElementByID("b")))
	assert.Equal(t, "tab", GetRole(doc.GetElementByID("b")))
	assert.Equal(t, "generic", ImplicitRole(doc.GetElementByID("s")))
	assert.Equal(t, "", ImplicitRole(doc.Root()))
}

func TestIsInaccessible(t *testing.T) {
	doc := dom.MustParseString(`
		<style>.gone { display: none }</style>
		<div id="visible"><span id="leaf">a</span></div>
		<div hidden><span id="in-hidden">b</span></div>
		<div aria-hidden="true"><span id="in-aria-hidden">c</span></div>
		<div class="gone"><span id="in-display-none">d</span></div>
		<div style="visibility: hidden"><span id="in-invisible">e</span></div>
		<div id="host" hidden>
			<template shadowrootmode="open"><span id="shadow-leaf">f</span></template>
		</div>`)

	tests := []struct {
		id   string
		want bool
	}{
		{id: "visible"},
		{id: "leaf"},
		{id: "in-hidden", want: true},
		{id: "in-aria-hidden", want: true},
		{id: "in-display-none", want: true},
		{id: "in-invisible", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			el := doc.GetElementByID(tt.id)
			require.NotNil(t, el)
			assert.Equal(t, tt.want, IsInaccessible(el, nil))
		})
	}

	t.Run("shadow content of a hidden host", func(t *testing.T) {
		host := doc.GetElementByID("host")
		require.NotNil(t, host.ShadowRoot())
		leaf := host.ShadowRoot().GetElementByID("shadow-leaf")
		require.NotNil(t, leaf)
		assert.True(t, IsInaccessible(leaf, nil))
	})
}
