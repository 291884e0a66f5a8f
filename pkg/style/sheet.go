package style

import (
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

type declaration struct {
	property  string
	value     string
	important bool
}

type ruleBlock struct {
	selector string
	decls    []declaration
}

// parseSheet splits a style sheet into rule blocks. At-rules are skipped
// together with any block they carry.
func parseSheet(sheet string) []ruleBlock {
	p := css.NewParser(parse.NewInputString(sheet), false)

	var (
		blocks    []ruleBlock
		selectors []string
		current   *ruleBlock
		atDepth   int
	)
	for {
		gt, tt, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			if tt == css.ErrorToken {
				return blocks
			}
		case css.BeginAtRuleGrammar:
			atDepth++
		case css.EndAtRuleGrammar:
			atDepth--
		case css.QualifiedRuleGrammar:
			if atDepth == 0 {
				selectors = append(selectors, selectorText(data, p.Values()))
			}
		case css.BeginRulesetGrammar:
			if atDepth > 0 {
				selectors = nil
				continue
			}
			selectors = append(selectors, selectorText(data, p.Values()))
			current = &ruleBlock{selector: strings.Join(selectors, ", ")}
			selectors = nil
		case css.DeclarationGrammar:
			if current != nil {
				if d, ok := newDeclaration(data, p.Values()); ok {
					current.decls = append(current.decls, d)
				}
			}
		case css.EndRulesetGrammar:
			if current != nil && current.selector != "" {
				blocks = append(blocks, *current)
			}
			current = nil
		}
	}
}

// parseDeclarations parses a declaration list such as a style attribute.
func parseDeclarations(list string) []declaration {
	p := css.NewParser(parse.NewInputString(list), true)

	var out []declaration
	for {
		gt, tt, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			if tt == css.ErrorToken {
				return out
			}
		case css.DeclarationGrammar:
			if d, ok := newDeclaration(data, p.Values()); ok {
				out = append(out, d)
			}
		}
	}
}

func selectorText(data []byte, values []css.Token) string {
	var b strings.Builder
	b.Write(data)
	for _, v := range values {
		b.Write(v.Data)
	}
	return strings.Trim(b.String(), ", \t\r\n\f")
}

func newDeclaration(property []byte, values []css.Token) (declaration, bool) {
	var b strings.Builder
	for _, v := range values {
		b.Write(v.Data)
	}
	prop := strings.ToLower(strings.TrimSpace(string(property)))
	value := strings.TrimSpace(b.String())
	if prop == "" || value == "" {
		return declaration{}, false
	}

	d := declaration{property: prop}
	if bang := strings.LastIndexByte(value, '!'); bang >= 0 &&
		strings.EqualFold(strings.TrimSpace(value[bang+1:]), "important") {
		d.important = true
		value = strings.TrimSpace(value[:bang])
	}
	if prop != "content" {
		value = strings.ToLower(value)
	}
	d.value = value
	return d, true
}

// generatedContent extracts the text of a content value. Only a single
// quoted string generates text.
func generatedContent(value string) string {
	value = strings.TrimSpace(value)
	if len(value) < 2 {
		return ""
	}
	q := value[0]
	if (q != '"' && q != '\'') || value[len(value)-1] != q {
		return ""
	}
	return value[1 : len(value)-1]
}
