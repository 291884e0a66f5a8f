// Package accessibility audits HTML documents for ARIA conformance. Rules
// are evaluated against the role knowledge base and the accessible names
// and descriptions computed by pkg/accname.
package accessibility

import (
	"context"
	"time"

	"github.com/conneroisu/accname/pkg/dom"
	"github.com/conneroisu/accname/pkg/l10n"
)

// WCAG represents Web Content Accessibility Guidelines levels and criteria.
type WCAG struct {
	Level    WCAGLevel    `json:"level" yaml:"level"`
	Criteria WCAGCriteria `json:"criteria" yaml:"criteria"`
}

// WCAGLevel represents different WCAG compliance levels.
type WCAGLevel string

const (
	WCAGLevelA   WCAGLevel = "A"
	WCAGLevelAA  WCAGLevel = "AA"
	WCAGLevelAAA WCAGLevel = "AAA"
)

// rank orders levels so that A < AA < AAA.
func (l WCAGLevel) rank() int {
	switch l {
	case WCAGLevelA:
		return 1
	case WCAGLevelAA:
		return 2
	case WCAGLevelAAA:
		return 3
	default:
		return 0
	}
}

// WCAGCriteria represents the specific WCAG success criteria.
type WCAGCriteria string

const (
	Criteria1_1_1 WCAGCriteria = "1.1.1" // Non-text Content
	Criteria1_3_1 WCAGCriteria = "1.3.1" // Info and Relationships
	Criteria3_1_1 WCAGCriteria = "3.1.1" // Language of Page
	Criteria4_1_1 WCAGCriteria = "4.1.1" // Parsing
	Criteria4_1_2 WCAGCriteria = "4.1.2" // Name, Role, Value
)

// AccessibilityViolation represents a single accessibility issue found during testing.
type AccessibilityViolation struct {
	Rule        string                    `json:"rule" yaml:"rule"`
	Severity    ViolationSeverity         `json:"severity" yaml:"severity"`
	WCAG        WCAG                      `json:"wcag" yaml:"wcag"`
	Element     string                    `json:"element" yaml:"element"`
	Selector    string                    `json:"selector" yaml:"selector"`
	Message     string                    `json:"message" yaml:"message"`
	Description string                    `json:"description" yaml:"description"`
	HelpURL     string                    `json:"help_url" yaml:"help_url"`
	Impact      ViolationImpact           `json:"impact" yaml:"impact"`
	Context     ViolationContext          `json:"context" yaml:"context"`
	Suggestions []AccessibilitySuggestion `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
}

// ViolationSeverity represents the severity level of an accessibility violation.
type ViolationSeverity string

const (
	SeverityError   ViolationSeverity = "error"
	SeverityWarning ViolationSeverity = "warning"
	SeverityInfo    ViolationSeverity = "info"
)

// AtLeast reports whether s is as severe as min. An unknown min, such as
// "none", is never reached.
func (s ViolationSeverity) AtLeast(min ViolationSeverity) bool {
	rank := map[ViolationSeverity]int{SeverityInfo: 1, SeverityWarning: 2, SeverityError: 3}
	return rank[min] > 0 && rank[s] >= rank[min]
}

// ViolationImpact represents the potential impact of an accessibility violation.
type ViolationImpact string

const (
	ImpactCritical ViolationImpact = "critical"
	ImpactSerious  ViolationImpact = "serious"
	ImpactModerate ViolationImpact = "moderate"
	ImpactMinor    ViolationImpact = "minor"
)

// ViolationContext provides contextual information about where the violation occurred.
type ViolationContext struct {
	File        string            `json:"file,omitempty" yaml:"file,omitempty"`
	Role        string            `json:"role,omitempty" yaml:"role,omitempty"`
	Name        string            `json:"name,omitempty" yaml:"name,omitempty"`
	HTMLContext string            `json:"html_context" yaml:"html_context"`
	Metadata    map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// AccessibilitySuggestion provides actionable suggestions for fixing accessibility issues.
type AccessibilitySuggestion struct {
	Type        SuggestionType `json:"type" yaml:"type"`
	Title       string         `json:"title" yaml:"title"`
	Description string         `json:"description" yaml:"description"`
	Code        string         `json:"code,omitempty" yaml:"code,omitempty"`
	Priority    int            `json:"priority" yaml:"priority"` // 1 = highest, 5 = lowest
}

// SuggestionType categorizes different types of accessibility suggestions.
type SuggestionType string

const (
	SuggestionCodeChange    SuggestionType = "code_change"
	SuggestionARIAAttribute SuggestionType = "aria_attribute"
	SuggestionSemantic      SuggestionType = "semantic"
	SuggestionContent       SuggestionType = "content"
)

// AccessibilityReport contains the complete results of an accessibility audit.
type AccessibilityReport struct {
	Timestamp     time.Time                `json:"timestamp" yaml:"timestamp"`
	Target        AccessibilityTarget      `json:"target" yaml:"target"`
	Configuration AuditConfiguration       `json:"configuration" yaml:"configuration"`
	Summary       AccessibilitySummary     `json:"summary" yaml:"summary"`
	Violations    []AccessibilityViolation `json:"violations" yaml:"violations"`
	Passed        []AccessibilityRule      `json:"passed" yaml:"passed"`
	Duration      time.Duration            `json:"duration" yaml:"duration"`
	HTMLSnapshot  string                   `json:"html_snapshot,omitempty" yaml:"html_snapshot,omitempty"`
}

// AccessibilityTarget describes what was tested.
type AccessibilityTarget struct {
	Type string `json:"type" yaml:"type"` // "file", "stdin", "html_snippet"
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// AuditConfiguration contains settings for the accessibility audit.
type AuditConfiguration struct {
	WCAGLevel     WCAGLevel `json:"wcag_level" yaml:"wcag_level"`
	Rules         []string  `json:"rules,omitempty" yaml:"rules,omitempty"`
	ExcludeRules  []string  `json:"exclude_rules,omitempty" yaml:"exclude_rules,omitempty"`
	IncludeHTML   bool      `json:"include_html" yaml:"include_html"`
	MaxViolations int       `json:"max_violations,omitempty" yaml:"max_violations,omitempty"`

	// Hidden audits hidden elements as if they were rendered.
	Hidden bool `json:"hidden,omitempty" yaml:"hidden,omitempty"`

	// Strings supplies the fallback button labels used while computing
	// names. Nil means English.
	Strings l10n.Strings `json:"-" yaml:"-"`
}

// AccessibilitySummary provides high-level statistics about the accessibility audit.
type AccessibilitySummary struct {
	TotalRules  int `json:"total_rules" yaml:"total_rules"`
	PassedRules int `json:"passed_rules" yaml:"passed_rules"`
	FailedRules int `json:"failed_rules" yaml:"failed_rules"`

	TotalViolations int `json:"total_violations" yaml:"total_violations"`
	ErrorViolations int `json:"error_violations" yaml:"error_violations"`
	WarnViolations  int `json:"warn_violations" yaml:"warn_violations"`
	InfoViolations  int `json:"info_violations" yaml:"info_violations"`

	CriticalImpact int `json:"critical_impact" yaml:"critical_impact"`
	SeriousImpact  int `json:"serious_impact" yaml:"serious_impact"`
	ModerateImpact int `json:"moderate_impact" yaml:"moderate_impact"`
	MinorImpact    int `json:"minor_impact" yaml:"minor_impact"`

	OverallScore float64 `json:"overall_score" yaml:"overall_score"` // 0-100
}

// AccessibilityRule represents a specific accessibility rule that was checked.
type AccessibilityRule struct {
	ID          string          `json:"id" yaml:"id"`
	Description string          `json:"description" yaml:"description"`
	Impact      ViolationImpact `json:"impact" yaml:"impact"`
	WCAG        WCAG            `json:"wcag" yaml:"wcag"`
	Tags        []string        `json:"tags" yaml:"tags"`
	HelpURL     string          `json:"help_url" yaml:"help_url"`
}

// AccessibilityEngine provides core accessibility testing functionality.
type AccessibilityEngine interface {
	// Initialize sets up the accessibility engine with configuration
	Initialize(ctx context.Context, config EngineConfig) error

	// Analyze parses and audits HTML content
	Analyze(
		ctx context.Context,
		html string,
		config AuditConfiguration,
	) (*AccessibilityReport, error)

	// AnalyzeDocument audits an already parsed document
	AnalyzeDocument(
		ctx context.Context,
		doc *dom.Document,
		config AuditConfiguration,
	) (*AccessibilityReport, error)

	// Inspect lists role, name and description of every element
	Inspect(doc *dom.Document, config AuditConfiguration) []ElementInfo

	// Rules returns the registered rules sorted by id
	Rules() []AccessibilityRule
}

// EngineConfig contains configuration for the accessibility engine.
type EngineConfig struct {
	CustomRules []CustomRule `json:"custom_rules,omitempty"`
}

// CustomRule allows defining custom accessibility rules.
type CustomRule struct {
	AccessibilityRule
	Check RuleCheckFunction `json:"-"`
}

// RuleCheckFunction reports the problems a rule finds on one element. It
// returns one message per problem.
type RuleCheckFunction func(ctx context.Context, element HTMLElement) []string

// HTMLElement represents an HTML element for accessibility testing.
type HTMLElement interface {
	// TagName returns the lower-case local name of the element
	TagName() string

	// GetAttribute returns the value of the specified attribute
	GetAttribute(name string) (string, bool)

	// GetTextContent returns the text content of the element
	GetTextContent() string

	// GetOuterHTML returns the outer HTML of the element
	GetOuterHTML() string

	// GetParent returns the parent element
	GetParent() HTMLElement

	// IsVisible reports whether the element is exposed to assistive technology
	IsVisible() bool

	// GetAriaRole returns the computed ARIA role
	GetAriaRole() string

	// GetAriaLabel returns the computed accessible name
	GetAriaLabel() string

	// GetAriaDescription returns the computed accessible description
	GetAriaDescription() string

	// Node returns the underlying DOM node
	Node() *dom.Node
}

// ElementInfo is the accessibility snapshot of one element.
type ElementInfo struct {
	Selector    string `json:"selector" yaml:"selector"`
	Tag         string `json:"tag" yaml:"tag"`
	Role        string `json:"role,omitempty" yaml:"role,omitempty"`
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Hidden      bool   `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	Depth       int    `json:"depth" yaml:"depth"`
}
