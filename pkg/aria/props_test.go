package aria

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupProp(t *testing.T) {
	p, ok := LookupProp("aria-checked")
	require.True(t, ok)
	assert.Equal(t, TypeTristate, p.Type)

	_, ok = LookupProp("aria-nope")
	assert.False(t, ok)

	names := PropNames()
	assert.Contains(t, names, "aria-label")
	assert.IsNonDecreasing(t, names)
}

func TestPropertyValidate(t *testing.T) {
	tests := []struct {
		prop  string
		value string
		valid bool
	}{
		{prop: "aria-hidden", value: "true", valid: true},
		{prop: "aria-hidden", value: "yes", valid: false},
		{prop: "aria-expanded", value: "undefined", valid: true},
		{prop: "aria-checked", value: "mixed", valid: true},
		{prop: "aria-checked", value: "maybe", valid: false},
		{prop: "aria-level", value: "2", valid: true},
		{prop: "aria-level", value: "two", valid: false},
		{prop: "aria-valuenow", value: "2.5", valid: true},
		{prop: "aria-autocomplete", value: "list", valid: true},
		{prop: "aria-autocomplete", value: "sometimes", valid: false},
		{prop: "aria-relevant", value: "additions text", valid: true},
		{prop: "aria-relevant", value: "additions bogus", valid: false},
		{prop: "aria-activedescendant", value: "item-1", valid: true},
		{prop: "aria-activedescendant", value: "a b", valid: false},
		{prop: "aria-labelledby", value: "a b", valid: true},
		{prop: "aria-labelledby", value: " ", valid: false},
		{prop: "aria-label", value: "anything", valid: true},
	}

	for _, tt := range tests {
		t.Run(tt.prop+"="+tt.value, func(t *testing.T) {
			p, ok := LookupProp(tt.prop)
			require.True(t, ok)
			err := p.Validate(tt.value)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidValue)
			}
		})
	}
}

func TestLookupElement(t *testing.T) {
	script, ok := LookupElement("script")
	require.True(t, ok)
	assert.True(t, script.Reserved)

	div, ok := LookupElement("div")
	require.True(t, ok)
	assert.False(t, div.Reserved)

	_, ok = LookupElement("blink-tag")
	assert.False(t, ok)
}
