package l10n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestEnglish(t *testing.T) {
	assert.Equal(t, "Submit", English.Text(Submit))
	assert.Equal(t, "Reset", English.Text(Reset))
	assert.Equal(t, "Submit Query", English.Text(SubmitQuery))
	assert.Equal(t, language.English, English.Language())
}

func TestParse(t *testing.T) {
	tests := []struct {
		lang   string
		submit string
	}{
		{lang: "de", submit: "Senden"},
		{lang: "de-AT", submit: "Senden"},
		{lang: "fr", submit: "Envoyer"},
		{lang: "es-MX", submit: "Enviar"},
		{lang: "ja", submit: "Submit"},
	}

	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			c, err := Parse(tt.lang)
			require.NoError(t, err)
			assert.Equal(t, tt.submit, c.Text(Submit))
		})
	}
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse("not a tag!")
	assert.Error(t, err)
}

func TestSupported(t *testing.T) {
	assert.Len(t, Supported(), len(translations))
}
