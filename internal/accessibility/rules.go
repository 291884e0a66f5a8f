package accessibility

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/conneroisu/accname/pkg/accname"
	"github.com/conneroisu/accname/pkg/aria"
	"github.com/conneroisu/accname/pkg/dom"
)

// Rule ids.
const (
	RuleMissingAccessibleName   = "missing-accessible-name"
	RuleMissingAltText          = "missing-alt-text"
	RuleInvalidRole             = "invalid-role"
	RuleAbstractRole            = "abstract-role"
	RuleInvalidARIAAttribute    = "invalid-aria-attribute"
	RuleInvalidARIAValue        = "invalid-aria-value"
	RuleUnsupportedARIAAttr     = "unsupported-aria-attribute"
	RuleProhibitedARIAAttr      = "prohibited-aria-attribute"
	RuleMissingRequiredARIAProp = "missing-required-aria-property"
	RuleARIAOnReservedElement   = "aria-on-reserved-element"
	RuleRedundantRole           = "redundant-role"
	RuleBrokenIDRef             = "broken-idref"
	RuleDuplicateID             = "duplicate-id"
	RuleMissingLangAttribute    = "missing-lang-attribute"
)

const tagBestPractice = "best-practice"

// finding is one problem reported by a rule.
type finding struct {
	el       *DOMElement
	message  string
	metadata map[string]string
}

// audit is the state shared by the rules of one analysis.
type audit struct {
	ctx      context.Context
	doc      *dom.Document
	elements []*DOMElement
	config   AuditConfiguration
}

// each runs check on every element, keeping one finding per message.
func (a *audit) each(check func(el *DOMElement) []string) []finding {
	var out []finding
	for _, el := range a.elements {
		for _, msg := range check(el) {
			out = append(out, finding{el: el, message: msg})
		}
	}
	return out
}

// eachVisible is each restricted to elements exposed to assistive technology.
func (a *audit) eachVisible(check func(el *DOMElement) []string) []finding {
	return a.each(func(el *DOMElement) []string {
		if !el.IsVisible() {
			return nil
		}
		return check(el)
	})
}

type ruleCheck func(a *audit) []finding

type ruleDefinition struct {
	AccessibilityRule
	check ruleCheck
}

func wcag(level WCAGLevel, criteria WCAGCriteria) WCAG {
	return WCAG{Level: level, Criteria: criteria}
}

func defaultRules() []ruleDefinition {
	return []ruleDefinition{
		{
			AccessibilityRule: AccessibilityRule{
				ID:          RuleMissingAccessibleName,
				Description: "Elements whose role requires an accessible name must have one",
				Impact:      ImpactCritical,
				WCAG:        wcag(WCAGLevelA, Criteria4_1_2),
				Tags:        []string{"wcag2a", "names"},
				HelpURL:     "https://www.w3.org/TR/accname-1.2/",
			},
			check: checkMissingAccessibleName,
		},
		{
			AccessibilityRule: AccessibilityRule{
				ID:          RuleMissingAltText,
				Description: "Images must have alternative text",
				Impact:      ImpactCritical,
				WCAG:        wcag(WCAGLevelA, Criteria1_1_1),
				Tags:        []string{"wcag2a", "images"},
				HelpURL:     "https://dequeuniversity.com/rules/axe/4.10/image-alt",
			},
			check: checkMissingAltText,
		},
		{
			AccessibilityRule: AccessibilityRule{
				ID:          RuleInvalidRole,
				Description: "Role attributes must name defined ARIA roles",
				Impact:      ImpactCritical,
				WCAG:        wcag(WCAGLevelA, Criteria4_1_2),
				Tags:        []string{"wcag2a", "aria"},
				HelpURL:     "https://dequeuniversity.com/rules/axe/4.10/aria-roles",
			},
			check: checkInvalidRole,
		},
		{
			AccessibilityRule: AccessibilityRule{
				ID:          RuleAbstractRole,
				Description: "Abstract ARIA roles must not be used in content",
				Impact:      ImpactSerious,
				WCAG:        wcag(WCAGLevelA, Criteria4_1_2),
				Tags:        []string{"wcag2a", "aria"},
				HelpURL:     "https://www.w3.org/TR/wai-aria-1.2/#abstract_roles",
			},
			check: checkAbstractRole,
		},
		{
			AccessibilityRule: AccessibilityRule{
				ID:          RuleInvalidARIAAttribute,
				Description: "ARIA attributes must be defined states or properties",
				Impact:      ImpactCritical,
				WCAG:        wcag(WCAGLevelA, Criteria4_1_2),
				Tags:        []string{"wcag2a", "aria"},
				HelpURL:     "https://dequeuniversity.com/rules/axe/4.10/aria-valid-attr",
			},
			check: checkInvalidARIAAttribute,
		},
		{
			AccessibilityRule: AccessibilityRule{
				ID:          RuleInvalidARIAValue,
				Description: "ARIA attributes must have valid values",
				Impact:      ImpactCritical,
				WCAG:        wcag(WCAGLevelA, Criteria4_1_2),
				Tags:        []string{"wcag2a", "aria"},
				HelpURL:     "https://dequeuniversity.com/rules/axe/4.10/aria-valid-attr-value",
			},
			check: checkInvalidARIAValue,
		},
		{
			AccessibilityRule: AccessibilityRule{
				ID:          RuleUnsupportedARIAAttr,
				Description: "ARIA attributes must be supported by the element's role",
				Impact:      ImpactModerate,
				WCAG:        wcag(WCAGLevelA, Criteria4_1_2),
				Tags:        []string{"wcag2a", "aria"},
				HelpURL:     "https://dequeuniversity.com/rules/axe/4.10/aria-allowed-attr",
			},
			check: checkUnsupportedARIAAttribute,
		},
		{
			AccessibilityRule: AccessibilityRule{
				ID:          RuleProhibitedARIAAttr,
				Description: "ARIA attributes prohibited for the element's role must not be used",
				Impact:      ImpactSerious,
				WCAG:        wcag(WCAGLevelA, Criteria4_1_2),
				Tags:        []string{"wcag2a", "aria"},
				HelpURL:     "https://dequeuniversity.com/rules/axe/4.10/aria-prohibited-attr",
			},
			check: checkProhibitedARIAAttribute,
		},
		{
			AccessibilityRule: AccessibilityRule{
				ID:          RuleMissingRequiredARIAProp,
				Description: "Elements with an ARIA role must have the role's required states and properties",
				Impact:      ImpactCritical,
				WCAG:        wcag(WCAGLevelA, Criteria4_1_2),
				Tags:        []string{"wcag2a", "aria"},
				HelpURL:     "https://dequeuniversity.com/rules/axe/4.10/aria-required-attr",
			},
			check: checkMissingRequiredProps,
		},
		{
			AccessibilityRule: AccessibilityRule{
				ID:          RuleARIAOnReservedElement,
				Description: "Reserved HTML elements must not carry roles or ARIA attributes",
				Impact:      ImpactMinor,
				WCAG:        wcag(WCAGLevelA, Criteria4_1_2),
				Tags:        []string{tagBestPractice, "aria"},
				HelpURL:     "https://www.w3.org/TR/html-aria/#docconformance",
			},
			check: checkARIAOnReservedElement,
		},
		{
			AccessibilityRule: AccessibilityRule{
				ID:          RuleRedundantRole,
				Description: "Explicit roles should not repeat the element's implicit role",
				Impact:      ImpactMinor,
				WCAG:        wcag(WCAGLevelA, Criteria4_1_2),
				Tags:        []string{tagBestPractice, "aria"},
				HelpURL:     "https://www.w3.org/TR/html-aria/#docconformance",
			},
			check: checkRedundantRole,
		},
		{
			AccessibilityRule: AccessibilityRule{
				ID:          RuleBrokenIDRef,
				Description: "ID references must point to elements in the same tree",
				Impact:      ImpactSerious,
				WCAG:        wcag(WCAGLevelA, Criteria1_3_1),
				Tags:        []string{"wcag2a", "aria", "relationships"},
				HelpURL:     "https://www.w3.org/TR/wai-aria-1.2/#valuetype_idref",
			},
			check: checkBrokenIDRef,
		},
		{
			AccessibilityRule: AccessibilityRule{
				ID:          RuleDuplicateID,
				Description: "ID attribute values must be unique within a tree",
				Impact:      ImpactMinor,
				WCAG:        wcag(WCAGLevelA, Criteria4_1_1),
				Tags:        []string{"wcag2a", "parsing"},
				HelpURL:     "https://dequeuniversity.com/rules/axe/4.10/duplicate-id",
			},
			check: checkDuplicateID,
		},
		{
			AccessibilityRule: AccessibilityRule{
				ID:          RuleMissingLangAttribute,
				Description: "HTML element must have a lang attribute",
				Impact:      ImpactSerious,
				WCAG:        wcag(WCAGLevelA, Criteria3_1_1),
				Tags:        []string{"wcag2a", "language"},
				HelpURL:     "https://dequeuniversity.com/rules/axe/4.10/html-has-lang",
			},
			check: checkMissingLang,
		},
	}
}

// alternativeTextElements are named by the missing-alt-text rule instead
// of missing-accessible-name.
func isAltTextElement(n *dom.Node) bool {
	return n.Is("img") || n.Is("area") || (n.Is("input") && n.InputType() == "image")
}

func checkMissingAccessibleName(a *audit) []finding {
	return a.eachVisible(func(el *DOMElement) []string {
		if isAltTextElement(el.Node()) {
			return nil
		}
		role := el.GetAriaRole()
		def, ok := aria.LookupRole(role)
		if !ok || !def.AccessibleNameRequired || accname.ProhibitsNaming(el.Node()) {
			return nil
		}
		// Native containers such as section and table may stay unnamed.
		if explicitRole(el.Node()) != role && !slices.Contains(def.Ancestors(), "widget") {
			return nil
		}
		if el.GetAriaLabel() != "" {
			return nil
		}
		return []string{fmt.Sprintf("Element with role %q has no accessible name", role)}
	})
}

func checkMissingAltText(a *audit) []finding {
	return a.eachVisible(func(el *DOMElement) []string {
		n := el.Node()
		if !isAltTextElement(n) || n.HasAttr("alt") {
			return nil
		}
		if n.Is("area") && !n.HasAttr("href") {
			return nil
		}
		if role := el.GetAriaRole(); role == "presentation" || role == "none" {
			return nil
		}
		if el.GetAriaLabel() != "" {
			return nil
		}
		return []string{fmt.Sprintf("<%s> has no alt attribute and no accessible name", el.TagName())}
	})
}

func roleTokens(n *dom.Node) []string {
	return strings.Fields(strings.ToLower(n.AttrValue("role")))
}

func checkInvalidRole(a *audit) []finding {
	return a.each(func(el *DOMElement) []string {
		var msgs []string
		for _, token := range roleTokens(el.Node()) {
			if !aria.Roles().Has(token) {
				msgs = append(msgs, fmt.Sprintf("Role %q is not a defined ARIA role", token))
			}
		}
		return msgs
	})
}

func checkAbstractRole(a *audit) []finding {
	return a.each(func(el *DOMElement) []string {
		var msgs []string
		for _, token := range roleTokens(el.Node()) {
			if aria.IsAbstract(token) {
				msgs = append(msgs, fmt.Sprintf("Role %q is abstract", token))
			}
		}
		return msgs
	})
}

// ariaAttributes returns the aria-* attribute names of n in source order.
func ariaAttributes(n *dom.Node) []string {
	var out []string
	for _, attr := range n.Attrs() {
		name := strings.ToLower(attr.Key)
		if strings.HasPrefix(name, "aria-") && !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	return out
}

func checkInvalidARIAAttribute(a *audit) []finding {
	return a.each(func(el *DOMElement) []string {
		var msgs []string
		for _, name := range ariaAttributes(el.Node()) {
			if _, ok := aria.LookupProp(name); !ok {
				msgs = append(msgs, fmt.Sprintf("%s is not a defined ARIA attribute", name))
			}
		}
		return msgs
	})
}

func checkInvalidARIAValue(a *audit) []finding {
	return a.each(func(el *DOMElement) []string {
		var msgs []string
		for _, name := range ariaAttributes(el.Node()) {
			prop, ok := aria.LookupProp(name)
			if !ok {
				continue
			}
			if err := prop.Validate(el.Node().AttrValue(name)); err != nil {
				msgs = append(msgs, err.Error())
			}
		}
		return msgs
	})
}

// roleDefinition returns the definition constraining el's attributes.
// Elements without a role are held to the global attributes of roletype.
func roleDefinition(el *DOMElement) (aria.RoleDefinition, string, bool) {
	role := el.GetAriaRole()
	if role == "" {
		def, ok := aria.LookupRole("roletype")
		return def, "", ok
	}
	def, ok := aria.LookupRole(role)
	return def, role, ok
}

func checkUnsupportedARIAAttribute(a *audit) []finding {
	return a.each(func(el *DOMElement) []string {
		def, role, ok := roleDefinition(el)
		if !ok {
			return nil
		}
		var msgs []string
		for _, name := range ariaAttributes(el.Node()) {
			if _, known := aria.LookupProp(name); !known {
				continue
			}
			if def.SupportsProp(name) || def.ProhibitsProp(name) {
				continue
			}
			if role == "" {
				msgs = append(msgs, fmt.Sprintf("%s is not allowed on <%s> without a role", name, el.TagName()))
			} else {
				msgs = append(msgs, fmt.Sprintf("%s is not supported by role %q", name, role))
			}
		}
		return msgs
	})
}

func checkProhibitedARIAAttribute(a *audit) []finding {
	return a.each(func(el *DOMElement) []string {
		def, role, ok := roleDefinition(el)
		if !ok || role == "" {
			return nil
		}
		var msgs []string
		for _, name := range ariaAttributes(el.Node()) {
			if def.ProhibitsProp(name) {
				msgs = append(msgs, fmt.Sprintf("%s is prohibited on role %q", name, role))
			}
		}
		return msgs
	})
}

// explicitRole returns the first role token the knowledge base defines.
func explicitRole(n *dom.Node) string {
	for _, token := range roleTokens(n) {
		if aria.Roles().Has(token) {
			return token
		}
	}
	return ""
}

func checkMissingRequiredProps(a *audit) []finding {
	return a.each(func(el *DOMElement) []string {
		n := el.Node()
		role := explicitRole(n)
		if role == "" || role != el.GetAriaRole() {
			return nil
		}
		// Native elements of the role expose its states themselves.
		if slices.Contains(aria.RolesForElement(n), role) || accname.ImplicitRole(n) == role {
			return nil
		}
		def, ok := aria.LookupRole(role)
		if !ok {
			return nil
		}
		var missing []string
		for prop := range def.RequiredProps {
			if !n.HasAttr(prop) {
				missing = append(missing, prop)
			}
		}
		if len(missing) == 0 {
			return nil
		}
		slices.Sort(missing)
		return []string{fmt.Sprintf("Role %q requires %s", role, strings.Join(missing, ", "))}
	})
}

func checkARIAOnReservedElement(a *audit) []finding {
	return a.each(func(el *DOMElement) []string {
		n := el.Node()
		if !n.IsHTML() {
			return nil
		}
		def, ok := aria.LookupElement(n.LocalName())
		if !ok || !def.Reserved {
			return nil
		}
		var msgs []string
		if n.HasAttr("role") {
			msgs = append(msgs, fmt.Sprintf("<%s> must not have a role attribute", el.TagName()))
		}
		if attrs := ariaAttributes(n); len(attrs) > 0 {
			msgs = append(msgs, fmt.Sprintf("<%s> must not have ARIA attributes (%s)", el.TagName(), strings.Join(attrs, ", ")))
		}
		return msgs
	})
}

func checkRedundantRole(a *audit) []finding {
	return a.each(func(el *DOMElement) []string {
		n := el.Node()
		role := explicitRole(n)
		if role == "" || role != accname.ImplicitRole(n) {
			return nil
		}
		return []string{fmt.Sprintf("Role %q is already implied by <%s>", role, el.TagName())}
	})
}

// idrefAttributes are the attributes holding id references: every ARIA
// property typed id or idlist, plus for= on label and output.
var idrefAttributes = sync.OnceValue(func() []string {
	var out []string
	for _, name := range aria.PropNames() {
		prop, _ := aria.LookupProp(name)
		if prop.Type == aria.TypeID || prop.Type == aria.TypeIDList {
			out = append(out, name)
		}
	}
	return out
})

func checkBrokenIDRef(a *audit) []finding {
	attrs := idrefAttributes()
	return a.each(func(el *DOMElement) []string {
		n := el.Node()
		names := attrs
		if n.Is("label") || n.Is("output") {
			names = append(slices.Clone(attrs), "for")
		}
		var msgs []string
		for _, name := range names {
			value, ok := n.Attr(name)
			if !ok {
				continue
			}
			for _, id := range strings.Fields(value) {
				if n.GetElementByID(id) == nil {
					msgs = append(msgs, fmt.Sprintf("%s references missing id %q", name, id))
				}
			}
		}
		return msgs
	})
}

func checkDuplicateID(a *audit) []finding {
	type scopedID struct {
		tree *dom.Node
		id   string
	}
	first := make(map[scopedID]*DOMElement)

	var out []finding
	for _, el := range a.elements {
		id, ok := el.GetAttribute("id")
		if !ok || id == "" {
			continue
		}
		key := scopedID{tree: el.Node().RootNode(), id: id}
		if prev, seen := first[key]; seen {
			out = append(out, finding{
				el:       el,
				message:  fmt.Sprintf("Duplicate id %q, first used on %s", id, prev.Selector()),
				metadata: map[string]string{"id": id},
			})
			continue
		}
		first[key] = el
	}
	return out
}

func checkMissingLang(a *audit) []finding {
	root := a.doc.DocumentElement()
	if root == nil || !root.Is("html") {
		return nil
	}
	if strings.TrimSpace(root.AttrValue("lang")) != "" || strings.TrimSpace(root.AttrValue("xml:lang")) != "" {
		return nil
	}
	for _, el := range a.elements {
		if el.Node() == root {
			return []finding{{el: el, message: "<html> element has no lang attribute"}}
		}
	}
	return nil
}
