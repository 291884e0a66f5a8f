// Package l10n provides the fallback strings the accessible name computation
// produces for unlabeled submit, reset and image buttons.
package l10n

import (
	"fmt"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Key identifies a localized string.
type Key string

const (
	Submit      Key = "Submit"
	Reset       Key = "Reset"
	SubmitQuery Key = "Submit Query"
)

// Strings resolves localized strings.
type Strings interface {
	Text(key Key) string
}

var translations = map[language.Tag]map[Key]string{
	language.English: {
		Submit:      "Submit",
		Reset:       "Reset",
		SubmitQuery: "Submit Query",
	},
	language.German: {
		Submit:      "Senden",
		Reset:       "Zurücksetzen",
		SubmitQuery: "Anfrage senden",
	},
	language.French: {
		Submit:      "Envoyer",
		Reset:       "Réinitialiser",
		SubmitQuery: "Envoyer la requête",
	},
	language.Spanish: {
		Submit:      "Enviar",
		Reset:       "Restablecer",
		SubmitQuery: "Enviar consulta",
	},
}

var builder = sync.OnceValue(func() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range translations {
		for key, msg := range msgs {
			if err := b.SetString(tag, string(key), msg); err != nil {
				panic(fmt.Sprintf("l10n: %s %q: %v", tag, key, err))
			}
		}
	}
	return b
})

// Catalog is a Strings backed by an x/text message catalog.
type Catalog struct {
	tag     language.Tag
	printer *message.Printer
}

// English is the default catalog.
var English = New(language.English)

// New returns the catalog best matching tag, falling back to English.
func New(tag language.Tag) *Catalog {
	b := builder()
	supported := b.Languages()
	_, idx, conf := language.NewMatcher(supported).Match(tag)
	matched := language.English
	if conf != language.No {
		matched = supported[idx]
	}
	return &Catalog{
		tag:     matched,
		printer: message.NewPrinter(matched, message.Catalog(b)),
	}
}

// Parse returns the catalog for a BCP 47 language tag.
func Parse(lang string) (*Catalog, error) {
	tag, err := language.Parse(lang)
	if err != nil {
		return nil, fmt.Errorf("invalid language %q: %w", lang, err)
	}
	return New(tag), nil
}

// Language returns the matched language.
func (c *Catalog) Language() language.Tag { return c.tag }

// Text returns the localized string for key.
func (c *Catalog) Text(key Key) string { return c.printer.Sprintf(string(key)) }

// Supported lists the languages with translations.
func Supported() []language.Tag { return builder().Languages() }
