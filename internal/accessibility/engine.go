package accessibility

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	accerrors "github.com/conneroisu/accname/internal/errors"
	"github.com/conneroisu/accname/internal/logging"
	"github.com/conneroisu/accname/pkg/accname"
	"github.com/conneroisu/accname/pkg/dom"
	"github.com/conneroisu/accname/pkg/style"
)

// DefaultAccessibilityEngine implements the AccessibilityEngine interface
type DefaultAccessibilityEngine struct {
	config EngineConfig
	rules  map[string]ruleDefinition
	logger logging.Logger
}

// NewDefaultAccessibilityEngine creates a new accessibility engine with the
// built-in rules registered.
func NewDefaultAccessibilityEngine(logger logging.Logger) *DefaultAccessibilityEngine {
	if logger == nil {
		logger = logging.NewLogger(nil)
	}
	engine := &DefaultAccessibilityEngine{
		rules:  make(map[string]ruleDefinition),
		logger: logger.WithComponent("accessibility_engine"),
	}
	engine.loadDefaultRules()
	return engine
}

// Initialize registers custom rules. A custom rule replaces a built-in rule
// with the same id.
func (engine *DefaultAccessibilityEngine) Initialize(
	ctx context.Context,
	config EngineConfig,
) error {
	engine.config = config

	errs := &accerrors.ValidationErrorCollection{}
	for i, custom := range config.CustomRules {
		field := fmt.Sprintf("custom_rules[%d]", i)
		if strings.TrimSpace(custom.ID) == "" {
			errs.AddField(field, custom.ID, "rule id must not be empty")
			continue
		}
		if custom.Check == nil {
			errs.AddField(field, custom.ID, "rule has no check function")
			continue
		}
		rule := custom.AccessibilityRule
		if rule.Impact == "" {
			rule.Impact = ImpactModerate
		}
		check := custom.Check
		engine.rules[rule.ID] = ruleDefinition{
			AccessibilityRule: rule,
			check: func(a *audit) []finding {
				return a.each(func(el *DOMElement) []string {
					return check(a.ctx, el)
				})
			},
		}
	}
	if errs.HasErrors() {
		return errs.ToAccnameError()
	}

	engine.logger.Info(ctx, "Accessibility engine initialized",
		"total_rules", len(engine.rules),
		"custom_rules", len(config.CustomRules))

	return nil
}

// Analyze parses and audits HTML content
func (engine *DefaultAccessibilityEngine) Analyze(
	ctx context.Context,
	htmlContent string,
	config AuditConfiguration,
) (*AccessibilityReport, error) {
	doc, err := dom.ParseString(htmlContent)
	if err != nil {
		return nil, accerrors.NewParseError(accerrors.ErrCodeInvalidHTML, "failed to parse HTML", err)
	}

	report, err := engine.AnalyzeDocument(ctx, doc, config)
	if err != nil {
		return nil, err
	}
	if config.IncludeHTML {
		report.HTMLSnapshot = htmlContent
	}
	return report, nil
}

// AnalyzeDocument runs every applicable rule over doc, including the
// content of its shadow trees.
func (engine *DefaultAccessibilityEngine) AnalyzeDocument(
	ctx context.Context,
	doc *dom.Document,
	config AuditConfiguration,
) (*AccessibilityReport, error) {
	start := time.Now()
	perf := logging.StartOperation(engine.logger, "analyze")

	report := &AccessibilityReport{
		Timestamp:     start,
		Target:        AccessibilityTarget{Type: "html_snippet"},
		Configuration: config,
		Violations:    []AccessibilityViolation{},
		Passed:        []AccessibilityRule{},
	}

	opts := engine.options(doc, config)
	nodes := doc.Elements()
	a := &audit{
		ctx:      ctx,
		doc:      doc,
		config:   config,
		elements: make([]*DOMElement, 0, len(nodes)),
	}
	for _, n := range nodes {
		a.elements = append(a.elements, NewDOMElement(n, opts))
	}

	applicableRules := engine.getApplicableRules(
		config.WCAGLevel,
		config.Rules,
		config.ExcludeRules,
	)

	violations := []AccessibilityViolation{}
	passedRules := []AccessibilityRule{}
	totalRules := make([]AccessibilityRule, 0, len(applicableRules))

	for _, rule := range applicableRules {
		if err := ctx.Err(); err != nil {
			perf.EndWithError(ctx, err)
			return nil, err
		}
		totalRules = append(totalRules, rule.AccessibilityRule)

		findings := rule.check(a)
		if len(findings) == 0 {
			passedRules = append(passedRules, rule.AccessibilityRule)
			continue
		}
		for _, f := range findings {
			violations = append(violations, engine.createViolation(rule.AccessibilityRule, f))
		}
	}

	if config.MaxViolations > 0 && len(violations) > config.MaxViolations {
		engine.logger.Debug(ctx, "Truncating violations",
			"found", len(violations),
			"max", config.MaxViolations)
		violations = violations[:config.MaxViolations]
	}

	report.Violations = violations
	report.Passed = passedRules
	report.Duration = time.Since(start)
	report.Summary = engine.generateSummary(violations, passedRules, totalRules)

	perf.End(ctx, "rules", len(totalRules))
	engine.logger.Info(ctx, "Accessibility analysis completed",
		"elements", len(a.elements),
		"violations", len(violations),
		"passed_rules", len(passedRules),
		"duration", report.Duration)

	return report, nil
}

// Inspect returns the role, name and description of every element of doc
// in flat-tree order.
func (engine *DefaultAccessibilityEngine) Inspect(
	doc *dom.Document,
	config AuditConfiguration,
) []ElementInfo {
	opts := engine.options(doc, config)

	infos := []ElementInfo{}
	for _, n := range doc.Elements() {
		el := NewDOMElement(n, opts)
		hidden := accname.IsInaccessible(n, opts.GetComputedStyle)
		info := ElementInfo{
			Selector: el.Selector(),
			Tag:      el.TagName(),
			Role:     el.GetAriaRole(),
			Hidden:   hidden,
			Depth:    depth(n),
		}
		if !hidden || config.Hidden {
			info.Name = el.GetAriaLabel()
			info.Description = el.GetAriaDescription()
		}
		infos = append(infos, info)
	}
	return infos
}

// Rules returns the registered rules sorted by id.
func (engine *DefaultAccessibilityEngine) Rules() []AccessibilityRule {
	out := make([]AccessibilityRule, 0, len(engine.rules))
	for _, id := range engine.ruleIDs() {
		out = append(out, engine.rules[id].AccessibilityRule)
	}
	return out
}

// GetSuggestions generates actionable suggestions for violations
func (engine *DefaultAccessibilityEngine) GetSuggestions(
	violation AccessibilityViolation,
) []AccessibilitySuggestion {
	suggestions := []AccessibilitySuggestion{}

	switch violation.Rule {
	case RuleMissingAccessibleName:
		suggestions = append(suggestions, AccessibilitySuggestion{
			Type:        SuggestionARIAAttribute,
			Title:       "Give the element an accessible name",
			Description: "Name the element with visible text content, aria-labelledby or aria-label",
			Code:        `<div role="button" aria-label="Close dialog">×</div>`,
			Priority:    1,
		})

	case RuleMissingAltText:
		suggestions = append(suggestions, AccessibilitySuggestion{
			Type:        SuggestionCodeChange,
			Title:       "Add alt attribute to image",
			Description: "Describe the image content, or use alt=\"\" when the image is decorative",
			Code:        `<img src="..." alt="Description of the image content" />`,
			Priority:    1,
		})

	case RuleInvalidRole, RuleAbstractRole:
		suggestions = append(suggestions, AccessibilitySuggestion{
			Type:        SuggestionSemantic,
			Title:       "Use a concrete ARIA role",
			Description: "Replace the role with a defined, non-abstract role, or prefer a native element",
			Priority:    1,
		})

	case RuleInvalidARIAAttribute, RuleInvalidARIAValue:
		suggestions = append(suggestions, AccessibilitySuggestion{
			Type:        SuggestionARIAAttribute,
			Title:       "Correct the ARIA attribute",
			Description: "Check the attribute name and value against the WAI-ARIA states and properties",
			Priority:    1,
		})

	case RuleUnsupportedARIAAttr, RuleProhibitedARIAAttr:
		suggestions = append(suggestions, AccessibilitySuggestion{
			Type:        SuggestionARIAAttribute,
			Title:       "Remove the attribute or change the role",
			Description: "Use only the states and properties the element's role supports",
			Priority:    2,
		})

	case RuleMissingRequiredARIAProp:
		suggestions = append(suggestions, AccessibilitySuggestion{
			Type:        SuggestionARIAAttribute,
			Title:       "Add the required states",
			Description: "Custom widgets must expose every state their role requires",
			Code:        `<div role="checkbox" aria-checked="false" tabindex="0">Subscribe</div>`,
			Priority:    1,
		})

	case RuleARIAOnReservedElement, RuleRedundantRole:
		suggestions = append(suggestions, AccessibilitySuggestion{
			Type:        SuggestionCodeChange,
			Title:       "Remove the role attribute",
			Description: "Native HTML semantics already apply to this element",
			Priority:    3,
		})

	case RuleBrokenIDRef:
		suggestions = append(suggestions, AccessibilitySuggestion{
			Type:        SuggestionCodeChange,
			Title:       "Point the reference at an existing element",
			Description: "Referenced ids must exist in the same document or shadow tree",
			Priority:    2,
		})

	case RuleDuplicateID:
		suggestions = append(suggestions, AccessibilitySuggestion{
			Type:        SuggestionCodeChange,
			Title:       "Make the id unique",
			Description: "Only the first element with an id can be referenced by aria-labelledby and similar attributes",
			Priority:    2,
		})

	case RuleMissingLangAttribute:
		suggestions = append(suggestions, AccessibilitySuggestion{
			Type:        SuggestionCodeChange,
			Title:       "Add lang attribute to html element",
			Description: "Specify the primary language of the page",
			Code:        `<html lang="en">`,
			Priority:    2,
		})
	}

	// Add generic suggestions if no specific ones were found
	if len(suggestions) == 0 {
		suggestions = append(suggestions, AccessibilitySuggestion{
			Type:  SuggestionContent,
			Title: "Review accessibility guidelines",
			Description: fmt.Sprintf(
				"Review WCAG %s guidelines for rule: %s",
				violation.WCAG.Level,
				violation.Rule,
			),
			Priority: 3,
		})
	}

	return suggestions
}

// options builds the computation options shared by every element of doc.
func (engine *DefaultAccessibilityEngine) options(
	doc *dom.Document,
	config AuditConfiguration,
) accname.Options {
	return accname.Options{
		Hidden:           config.Hidden,
		GetComputedStyle: style.NewResolver(doc).Func(),
		Strings:          config.Strings,
	}
}

// loadDefaultRules registers the built-in rule set.
func (engine *DefaultAccessibilityEngine) loadDefaultRules() {
	for _, rule := range defaultRules() {
		engine.rules[rule.ID] = rule
	}
}

func (engine *DefaultAccessibilityEngine) ruleIDs() []string {
	ids := make([]string, 0, len(engine.rules))
	for id := range engine.rules {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// getApplicableRules returns rules applicable for the given configuration,
// sorted by id.
func (engine *DefaultAccessibilityEngine) getApplicableRules(
	level WCAGLevel,
	includeRules, excludeRules []string,
) []ruleDefinition {
	applicable := []ruleDefinition{}

	for _, id := range engine.ruleIDs() {
		rule := engine.rules[id]

		if slices.Contains(excludeRules, rule.ID) {
			continue
		}

		// If specific rules are requested, only include those
		if len(includeRules) > 0 && !slices.Contains(includeRules, rule.ID) {
			continue
		}

		if engine.isRuleApplicableForLevel(rule.AccessibilityRule, level) {
			applicable = append(applicable, rule)
		}
	}

	return applicable
}

// isRuleApplicableForLevel checks if a rule applies to the given WCAG level.
// Best-practice rules apply at every level.
func (engine *DefaultAccessibilityEngine) isRuleApplicableForLevel(
	rule AccessibilityRule,
	level WCAGLevel,
) bool {
	if level.rank() == 0 || slices.Contains(rule.Tags, tagBestPractice) {
		return true
	}
	return rule.WCAG.Level.rank() <= level.rank()
}

// createViolation creates a new accessibility violation
func (engine *DefaultAccessibilityEngine) createViolation(
	rule AccessibilityRule,
	f finding,
) AccessibilityViolation {
	violation := AccessibilityViolation{
		Rule:        rule.ID,
		Severity:    getSeverityFromImpact(rule.Impact),
		WCAG:        rule.WCAG,
		Element:     f.el.TagName(),
		Selector:    f.el.Selector(),
		Message:     f.message,
		Description: rule.Description,
		HelpURL:     rule.HelpURL,
		Impact:      rule.Impact,
		Context: ViolationContext{
			Role:        f.el.GetAriaRole(),
			HTMLContext: f.el.GetOuterHTML(),
			Metadata:    f.metadata,
		},
	}
	if f.el.IsVisible() {
		violation.Context.Name = f.el.GetAriaLabel()
	}

	violation.Suggestions = engine.GetSuggestions(violation)

	return violation
}

func getSeverityFromImpact(impact ViolationImpact) ViolationSeverity {
	switch impact {
	case ImpactCritical, ImpactSerious:
		return SeverityError
	case ImpactModerate:
		return SeverityWarning
	case ImpactMinor:
		return SeverityInfo
	default:
		return SeverityWarning
	}
}

func (engine *DefaultAccessibilityEngine) generateSummary(
	violations []AccessibilityViolation,
	passedRules []AccessibilityRule,
	totalRules []AccessibilityRule,
) AccessibilitySummary {
	summary := AccessibilitySummary{
		TotalRules:      len(totalRules),
		PassedRules:     len(passedRules),
		FailedRules:     len(totalRules) - len(passedRules),
		TotalViolations: len(violations),
	}

	// Count violations by severity and impact
	for _, violation := range violations {
		switch violation.Severity {
		case SeverityError:
			summary.ErrorViolations++
		case SeverityWarning:
			summary.WarnViolations++
		case SeverityInfo:
			summary.InfoViolations++
		}

		switch violation.Impact {
		case ImpactCritical:
			summary.CriticalImpact++
		case ImpactSerious:
			summary.SeriousImpact++
		case ImpactModerate:
			summary.ModerateImpact++
		case ImpactMinor:
			summary.MinorImpact++
		}
	}

	// Share of applicable rules that passed
	if len(totalRules) > 0 {
		summary.OverallScore = float64(len(passedRules)) / float64(len(totalRules)) * 100
	} else {
		summary.OverallScore = 100
	}

	return summary
}

// depth counts the element ancestors of n in the flat tree.
func depth(n *dom.Node) int {
	d := 0
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.IsShadowRoot() {
			p = p.Host()
		}
		if p.IsElement() {
			d++
		}
	}
	return d
}
