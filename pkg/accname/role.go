package accname

import (
	"slices"
	"strings"
	"sync"

	"github.com/conneroisu/accname/pkg/aria"
	"github.com/conneroisu/accname/pkg/dom"
)

var presentationRoles = []string{"presentation", "none"}

var tagRoles = map[string]string{
	"article":  "article",
	"aside":    "complementary",
	"button":   "button",
	"datalist": "listbox",
	"dd":       "definition",
	"details":  "group",
	"dialog":   "dialog",
	"dt":       "term",
	"fieldset": "group",
	"figure":   "figure",
	"footer":   "contentinfo",
	// form and section only map to landmarks when named.
	"form":     "form",
	"h1":       "heading",
	"h2":       "heading",
	"h3":       "heading",
	"h4":       "heading",
	"h5":       "heading",
	"h6":       "heading",
	"header":   "banner",
	"hr":       "separator",
	"html":     "document",
	"legend":   "legend",
	"li":       "listitem",
	"math":     "math",
	"main":     "main",
	"menu":     "list",
	"meter":    "meter",
	"nav":      "navigation",
	"ol":       "list",
	"optgroup": "group",
	"option":   "option",
	"output":   "status",
	"progress": "progressbar",
	"section":  "region",
	"summary":  "button",
	"table":    "table",
	"tbody":    "rowgroup",
	"textarea": "textbox",
	"tfoot":    "rowgroup",
	"td":       "cell",
	"th":       "columnheader",
	"thead":    "rowgroup",
	"tr":       "row",
	"ul":       "list",

	// Elements whose implicit role forbids naming.
	"b":       "generic",
	"bdi":     "generic",
	"bdo":     "generic",
	"caption": "caption",
	"code":    "code",
	"data":    "generic",
	"del":     "deletion",
	"div":     "generic",
	"em":      "emphasis",
	"i":       "generic",
	"ins":     "insertion",
	"p":       "paragraph",
	"q":       "generic",
	"samp":    "generic",
	"small":   "generic",
	"span":    "generic",
	"strong":  "strong",
	"sub":     "subscript",
	"sup":     "superscript",
	"u":       "generic",
}

var globalARIAAttributes = []string{
	"aria-atomic",
	"aria-busy",
	"aria-controls",
	"aria-current",
	"aria-description",
	"aria-describedby",
	"aria-details",
	"aria-dropeffect",
	"aria-flowto",
	"aria-grabbed",
	"aria-hidden",
	"aria-keyshortcuts",
	"aria-label",
	"aria-labelledby",
	"aria-live",
	"aria-owns",
	"aria-relevant",
	"aria-roledescription",
}

var labelAttributes = []string{"aria-label", "aria-labelledby"}

var prohibitedAttributes = map[string][]string{
	"caption":      labelAttributes,
	"code":         labelAttributes,
	"deletion":     labelAttributes,
	"emphasis":     labelAttributes,
	"generic":      {"aria-label", "aria-labelledby", "aria-roledescription"},
	"insertion":    labelAttributes,
	"none":         labelAttributes,
	"paragraph":    labelAttributes,
	"presentation": labelAttributes,
	"strong":       labelAttributes,
	"subscript":    labelAttributes,
	"superscript":  labelAttributes,
}

// GetRole returns the effective ARIA role of el, or "" when it has none.
// An explicit presentational role is ignored when the element also carries
// global ARIA attributes that its implicit role permits.
func GetRole(el *dom.Node) string {
	if !el.IsElement() {
		return ""
	}
	explicit := explicitRole(el)
	if explicit == "" {
		return implicitRole(el)
	}
	if slices.Contains(presentationRoles, explicit) {
		implicit := implicitRole(el)
		if hasGlobalARIAAttributes(el, implicit) {
			return implicit
		}
	}
	return explicit
}

// ImplicitRole returns the role el has from its markup alone, ignoring any
// role attribute.
func ImplicitRole(el *dom.Node) string {
	if !el.IsElement() {
		return ""
	}
	return implicitRole(el)
}

func explicitRole(el *dom.Node) string {
	roles := strings.Fields(el.AttrValue("role"))
	if len(roles) == 0 {
		return ""
	}
	return roles[0]
}

func implicitRole(el *dom.Node) string {
	if !el.IsHTML() {
		if el.Namespace() == dom.NamespaceMathML && el.LocalName() == "math" {
			return "math"
		}
		return ""
	}
	name := el.LocalName()
	if role, ok := tagRoles[name]; ok {
		return role
	}

	switch name {
	case "a", "area", "link":
		if el.HasAttr("href") {
			return "link"
		}
	case "img":
		if alt, ok := el.Attr("alt"); ok && alt == "" && !hasGlobalARIAAttributes(el, "img") {
			return "presentation"
		}
		return "img"
	case "input":
		return inputRole(el)
	case "select":
		if el.HasAttr("multiple") && el.SelectSize() > 1 {
			return "listbox"
		}
		return "combobox"
	}
	return ""
}

func inputRole(el *dom.Node) string {
	switch t := el.InputType(); t {
	case "button", "image", "reset", "submit":
		return "button"
	case "checkbox", "radio":
		return t
	case "range":
		return "slider"
	case "email", "tel", "text", "url":
		if el.HasAttr("list") {
			return "combobox"
		}
		return "textbox"
	case "search":
		if el.HasAttr("list") {
			return "combobox"
		}
		return "searchbox"
	case "number":
		return "spinbutton"
	}
	return ""
}

func hasGlobalARIAAttributes(el *dom.Node, role string) bool {
	prohibited := prohibitedAttributes[role]
	for _, attr := range globalARIAAttributes {
		if el.HasAttr(attr) && !slices.Contains(prohibited, attr) {
			return true
		}
	}
	return false
}

func hasAnyRole(n *dom.Node, roles ...string) bool {
	if !n.IsElement() {
		return false
	}
	return slices.Contains(roles, GetRole(n))
}

// rangeRoles are the concrete roles descending from the abstract range role.
var rangeRoles = sync.OnceValue(func() map[string]bool {
	out := make(map[string]bool)
	aria.Roles().Range(func(name string, def aria.RoleDefinition) bool {
		if !def.Abstract && slices.Contains(def.Ancestors(), "range") {
			out[name] = true
		}
		return true
	})
	return out
})

func isRange(n *dom.Node) bool {
	return n.IsElement() && rangeRoles()[GetRole(n)]
}

func isPresentational(n *dom.Node) bool {
	return hasAnyRole(n, presentationRoles...)
}

func isControl(n *dom.Node) bool {
	return hasAnyRole(n, "button", "combobox", "listbox", "textbox") || isRange(n)
}

var nameFromContentRoles = []string{
	"button", "cell", "checkbox", "columnheader", "gridcell", "heading", "label",
	"legend", "link", "menuitem", "menuitemcheckbox", "menuitemradio", "option",
	"radio", "row", "rowheader", "switch", "tab", "tooltip", "treeitem",
}

func allowsNameFromContent(n *dom.Node) bool {
	return hasAnyRole(n, nameFromContentRoles...)
}
