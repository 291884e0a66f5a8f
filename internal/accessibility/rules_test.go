package accessibility

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/accname/internal/logging"
)

func analyze(t *testing.T, markup string, rules ...string) *AccessibilityReport {
	t.Helper()
	engine := NewDefaultAccessibilityEngine(logging.NewTestLogger())
	report, err := engine.Analyze(context.Background(), markup, AuditConfiguration{
		WCAGLevel: WCAGLevelAA,
		Rules:     rules,
	})
	require.NoError(t, err)
	return report
}

func messages(report *AccessibilityReport) []string {
	out := []string{}
	for _, v := range report.Violations {
		out = append(out, v.Message)
	}
	return out
}

func TestRules(t *testing.T) {
	tests := []struct {
		name   string
		rule   string
		markup string
		want   []string
	}{
		{
			name:   "custom button without name",
			rule:   RuleMissingAccessibleName,
			markup: `<div role="button"></div>`,
			want:   []string{`Element with role "button" has no accessible name`},
		},
		{
			name:   "custom button named by content",
			rule:   RuleMissingAccessibleName,
			markup: `<div role="button">Save</div>`,
		},
		{
			name:   "empty native button",
			rule:   RuleMissingAccessibleName,
			markup: `<button></button>`,
			want:   []string{`Element with role "button" has no accessible name`},
		},
		{
			name:   "unlabeled text input",
			rule:   RuleMissingAccessibleName,
			markup: `<input type="text">`,
			want:   []string{`Element with role "textbox" has no accessible name`},
		},
		{
			name:   "submit input uses the fallback label",
			rule:   RuleMissingAccessibleName,
			markup: `<input type="submit">`,
		},
		{
			name:   "hidden elements are skipped",
			rule:   RuleMissingAccessibleName,
			markup: `<div role="button" hidden></div>`,
		},
		{
			name:   "native containers may stay unnamed",
			rule:   RuleMissingAccessibleName,
			markup: `<section><p>text</p></section><table><tr><td>1</td></tr></table>`,
		},
		{
			name:   "image without alt",
			rule:   RuleMissingAltText,
			markup: `<img src="a.png">`,
			want:   []string{"<img> has no alt attribute and no accessible name"},
		},
		{
			name:   "decorative image",
			rule:   RuleMissingAltText,
			markup: `<img src="a.png" alt="">`,
		},
		{
			name:   "image named by aria-label",
			rule:   RuleMissingAltText,
			markup: `<img src="a.png" aria-label="Logo">`,
		},
		{
			name:   "presentational image",
			rule:   RuleMissingAltText,
			markup: `<img src="a.png" role="presentation">`,
		},
		{
			name:   "hidden image",
			rule:   RuleMissingAltText,
			markup: `<img src="a.png" hidden>`,
		},
		{
			name:   "unknown role tokens",
			rule:   RuleInvalidRole,
			markup: `<div role="foo bar">x</div><div role="button baz">y</div>`,
			want: []string{
				`Role "foo" is not a defined ARIA role`,
				`Role "bar" is not a defined ARIA role`,
				`Role "baz" is not a defined ARIA role`,
			},
		},
		{
			name:   "abstract role",
			rule:   RuleAbstractRole,
			markup: `<div role="widget">x</div>`,
			want:   []string{`Role "widget" is abstract`},
		},
		{
			name:   "undefined aria attribute",
			rule:   RuleInvalidARIAAttribute,
			markup: `<div aria-foo="x" aria-live="polite">x</div>`,
			want:   []string{"aria-foo is not a defined ARIA attribute"},
		},
		{
			name:   "invalid tristate value",
			rule:   RuleInvalidARIAValue,
			markup: `<div role="checkbox" aria-checked="maybe">x</div><div role="checkbox" aria-checked="mixed">y</div>`,
			want: []string{
				`invalid ARIA property value: aria-checked="maybe" is not a valid tristate`,
			},
		},
		{
			name:   "attribute unsupported by role",
			rule:   RuleUnsupportedARIAAttr,
			markup: `<a href="/x" aria-checked="true">Home</a><a href="/y" aria-expanded="false">More</a>`,
			want:   []string{`aria-checked is not supported by role "link"`},
		},
		{
			name:   "name prohibited on generic",
			rule:   RuleProhibitedARIAAttr,
			markup: `<span aria-label="x">y</span>`,
			want:   []string{`aria-label is prohibited on role "generic"`},
		},
		{
			name:   "checkbox without state",
			rule:   RuleMissingRequiredARIAProp,
			markup: `<div role="checkbox">Agree</div><div role="checkbox" aria-checked="false">Subscribe</div>`,
			want:   []string{`Role "checkbox" requires aria-checked`},
		},
		{
			name:   "native checkbox exposes its own state",
			rule:   RuleMissingRequiredARIAProp,
			markup: `<input type="checkbox" role="checkbox">`,
		},
		{
			name:   "aria on reserved elements",
			rule:   RuleARIAOnReservedElement,
			markup: `<html lang="en"><head><meta charset="utf-8" aria-hidden="true"></head><body><script role="button"></script></body></html>`,
			want: []string{
				"<meta> must not have ARIA attributes (aria-hidden)",
				"<script> must not have a role attribute",
			},
		},
		{
			name:   "redundant role",
			rule:   RuleRedundantRole,
			markup: `<button role="button">Go</button><button role="tab">Tab</button>`,
			want:   []string{`Role "button" is already implied by <button>`},
		},
		{
			name:   "broken references",
			rule:   RuleBrokenIDRef,
			markup: `<div aria-labelledby="a nope">x</div><span id="a">A</span><label for="missing">Name</label>`,
			want: []string{
				`aria-labelledby references missing id "nope"`,
				`for references missing id "missing"`,
			},
		},
		{
			name:   "duplicate ids",
			rule:   RuleDuplicateID,
			markup: `<p id="a">1</p><p id="a">2</p><p id="a">3</p>`,
			want: []string{
				`Duplicate id "a", first used on p#a`,
				`Duplicate id "a", first used on p#a`,
			},
		},
		{
			name: "shadow trees scope ids",
			rule: RuleDuplicateID,
			markup: `<p id="a">1</p>
				<div><template shadowrootmode="open"><p id="a">2</p></template></div>`,
		},
		{
			name:   "missing lang",
			rule:   RuleMissingLangAttribute,
			markup: `<p>x</p>`,
			want:   []string{"<html> element has no lang attribute"},
		},
		{
			name:   "lang present",
			rule:   RuleMissingLangAttribute,
			markup: `<html lang="en"><body><p>x</p></body></html>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := analyze(t, tt.markup, tt.rule)
			want := tt.want
			if want == nil {
				want = []string{}
			}
			assert.Equal(t, want, messages(report))
			for _, v := range report.Violations {
				assert.Equal(t, tt.rule, v.Rule)
			}
		})
	}
}

func TestViolationDetails(t *testing.T) {
	report := analyze(t, `<html lang="en"><body><img class="hero wide" src="a.png"></body></html>`,
		RuleMissingAltText)
	require.Len(t, report.Violations, 1)

	v := report.Violations[0]
	assert.Equal(t, SeverityError, v.Severity)
	assert.Equal(t, ImpactCritical, v.Impact)
	assert.Equal(t, WCAG{Level: WCAGLevelA, Criteria: Criteria1_1_1}, v.WCAG)
	assert.Equal(t, "img", v.Element)
	assert.Equal(t, "img.hero.wide", v.Selector)
	assert.Equal(t, "img", v.Context.Role)
	assert.Contains(t, v.Context.HTMLContext, `src="a.png"`)
	assert.Contains(t, v.HelpURL, "image-alt")
	require.NotEmpty(t, v.Suggestions)
	assert.Equal(t, "Add alt attribute to image", v.Suggestions[0].Title)
}

func TestDuplicateIDMetadata(t *testing.T) {
	report := analyze(t, `<ul><li id="x">1</li><li id="x">2</li></ul>`, RuleDuplicateID)
	require.Len(t, report.Violations, 1)
	assert.Equal(t, map[string]string{"id": "x"}, report.Violations[0].Context.Metadata)
	assert.Equal(t, "li#x", report.Violations[0].Selector)
}

func TestGenerateSelector(t *testing.T) {
	report := analyze(t, `<ul><li>1</li><li role="foo">2</li></ul>`, RuleInvalidRole)
	require.Len(t, report.Violations, 1)
	assert.Equal(t, "li:nth-of-type(2)", report.Violations[0].Selector)
}
