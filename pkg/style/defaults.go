package style

import "github.com/conneroisu/accname/pkg/dom"

var displayNone = map[string]bool{
	"base": true, "basefont": true, "datalist": true, "head": true, "link": true,
	"meta": true, "noembed": true, "noframes": true, "param": true, "rp": true,
	"script": true, "style": true, "template": true, "title": true,
}

var displayBlock = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true, "body": true,
	"center": true, "details": true, "dialog": true, "dd": true, "dir": true, "div": true,
	"dl": true, "dt": true, "fieldset": true, "figcaption": true, "figure": true,
	"footer": true, "form": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"h5": true, "h6": true, "header": true, "hgroup": true, "hr": true, "html": true,
	"legend": true, "main": true, "menu": true, "nav": true, "ol": true, "optgroup": true,
	"option": true, "p": true, "pre": true, "search": true, "section": true,
	"summary": true, "ul": true,
}

var displayOther = map[string]string{
	"li":       "list-item",
	"table":    "table",
	"caption":  "table-caption",
	"colgroup": "table-column-group",
	"col":      "table-column",
	"thead":    "table-header-group",
	"tbody":    "table-row-group",
	"tfoot":    "table-footer-group",
	"tr":       "table-row",
	"td":       "table-cell",
	"th":       "table-cell",
	"input":    "inline-block",
	"button":   "inline-block",
	"select":   "inline-block",
	"textarea": "inline-block",
	"meter":    "inline-block",
	"progress": "inline-block",
	"ruby":     "ruby",
	"rt":       "ruby-text",
	"slot":     "contents",
}

// defaultDisplay is the user agent display of an element.
func defaultDisplay(el *dom.Node) string {
	if !el.IsHTML() {
		if el.IsSVG() && el.LocalName() == "title" {
			return "none"
		}
		return "inline"
	}
	name := el.LocalName()
	switch {
	case displayNone[name], name == "input" && el.InputType() == "hidden":
		return "none"
	case displayBlock[name]:
		return "block"
	}
	if d, ok := displayOther[name]; ok {
		return d
	}
	return "inline"
}
