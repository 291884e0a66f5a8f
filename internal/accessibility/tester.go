package accessibility

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"

	accerrors "github.com/conneroisu/accname/internal/errors"
	"github.com/conneroisu/accname/internal/logging"
	"github.com/conneroisu/accname/internal/validation"
	"github.com/conneroisu/accname/pkg/dom"
)

// FileTester audits HTML files and streams with a shared engine.
type FileTester struct {
	engine AccessibilityEngine
	logger logging.Logger
	config AuditConfiguration
}

// NewFileTester creates a tester that audits with config.
func NewFileTester(
	engine AccessibilityEngine,
	logger logging.Logger,
	config AuditConfiguration,
) *FileTester {
	if logger == nil {
		logger = logging.NewLogger(nil)
	}
	return &FileTester{
		engine: engine,
		logger: logger.WithComponent("accessibility_tester"),
		config: config,
	}
}

// Config returns the audit configuration used for every test.
func (tester *FileTester) Config() AuditConfiguration { return tester.config }

// TestFile reads and audits one HTML file.
func (tester *FileTester) TestFile(ctx context.Context, path string) (*AccessibilityReport, error) {
	if err := validation.ValidatePath(path); err != nil {
		return nil, accerrors.NewValidationError(accerrors.ErrCodeValidationFailed, err.Error()).
			WithLocation(path, 0)
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, accerrors.ErrFileNotFound(path, err)
	}
	if err != nil {
		return nil, accerrors.WrapIO(err, accerrors.ErrCodeReadFailed, "failed to open file").
			WithLocation(path, 0)
	}
	defer f.Close()

	return tester.TestReader(ctx, f, AccessibilityTarget{Type: "file", Name: path})
}

// TestReader audits the HTML read from r and labels the report with target.
func (tester *FileTester) TestReader(
	ctx context.Context,
	r io.Reader,
	target AccessibilityTarget,
) (*AccessibilityReport, error) {
	tester.logger.Debug(ctx, "Starting accessibility test",
		"target", target.Name,
		"type", target.Type)

	source, err := io.ReadAll(r)
	if err != nil {
		return nil, accerrors.WrapIO(err, accerrors.ErrCodeReadFailed, "failed to read HTML").
			WithLocation(target.Name, 0)
	}

	doc, err := dom.ParseString(string(source))
	if err != nil {
		return nil, accerrors.NewParseError(accerrors.ErrCodeInvalidHTML, "failed to parse HTML", err).
			WithLocation(target.Name, 0)
	}

	report, err := tester.engine.AnalyzeDocument(ctx, doc, tester.config)
	if err != nil {
		return nil, fmt.Errorf("accessibility analysis failed: %w", err)
	}

	report.Target = target
	if tester.config.IncludeHTML {
		report.HTMLSnapshot = string(source)
	}
	if target.Type == "file" {
		for i := range report.Violations {
			report.Violations[i].Context.File = target.Name
		}
	}

	tester.logger.Info(ctx, "Accessibility test completed",
		"target", target.Name,
		"violations", len(report.Violations),
		"score", report.Summary.OverallScore)

	return report, nil
}

// TestFiles audits every path, in order. Files that fail to load are
// logged and skipped; the first such error is returned alongside the
// reports that succeeded.
func (tester *FileTester) TestFiles(
	ctx context.Context,
	paths []string,
) ([]*AccessibilityReport, error) {
	reports := make([]*AccessibilityReport, 0, len(paths))
	var firstErr error

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		report, err := tester.TestFile(ctx, path)
		if err != nil {
			tester.logger.Warn(ctx, err, "Failed to test file", "file", path)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		reports = append(reports, report)
	}

	return reports, firstErr
}

// GetInsights summarizes a report into prioritized issues and next steps.
func (tester *FileTester) GetInsights(report *AccessibilityReport) *AccessibilityInsights {
	return &AccessibilityInsights{
		Target:          report.Target.Name,
		OverallScore:    report.Summary.OverallScore,
		CriticalIssues:  tester.getCriticalIssues(report.Violations),
		QuickWins:       tester.getQuickWins(report.Violations),
		Recommendations: tester.getRecommendations(report),
		NextSteps:       tester.getNextSteps(report),
	}
}

func (tester *FileTester) getCriticalIssues(
	violations []AccessibilityViolation,
) []AccessibilityIssue {
	issues := []AccessibilityIssue{}
	for _, violation := range violations {
		if violation.Impact == ImpactCritical || violation.Severity == SeverityError {
			issues = append(issues, AccessibilityIssue{
				Rule:        violation.Rule,
				Selector:    violation.Selector,
				Description: violation.Message,
				Impact:      violation.Impact,
				FixEffort:   estimateFixEffort(violation),
			})
		}
	}
	return issues
}

func (tester *FileTester) getQuickWins(
	violations []AccessibilityViolation,
) []AccessibilityIssue {
	issues := []AccessibilityIssue{}
	for _, violation := range violations {
		if isQuickFix(violation) {
			issues = append(issues, AccessibilityIssue{
				Rule:        violation.Rule,
				Selector:    violation.Selector,
				Description: violation.Message,
				Impact:      violation.Impact,
				FixEffort:   FixEffortLow,
			})
		}
	}
	return issues
}

func (tester *FileTester) getRecommendations(report *AccessibilityReport) []string {
	recommendations := []string{}

	if report.Summary.CriticalImpact > 0 {
		recommendations = append(recommendations, "Address critical accessibility issues first")
	}

	if report.Summary.OverallScore < 80 {
		recommendations = append(recommendations, "Focus on improving overall accessibility score")
	}

	ruleFrequency := make(map[string]int)
	for _, violation := range report.Violations {
		ruleFrequency[violation.Rule]++
	}

	rules := make([]string, 0, len(ruleFrequency))
	for rule := range ruleFrequency {
		rules = append(rules, rule)
	}
	slices.Sort(rules)

	for _, rule := range rules {
		if count := ruleFrequency[rule]; count > 1 {
			recommendations = append(
				recommendations,
				fmt.Sprintf("%d instances of %s found, consider a shared fix", count, rule),
			)
		}
	}

	return recommendations
}

func (tester *FileTester) getNextSteps(report *AccessibilityReport) []string {
	if len(report.Violations) == 0 {
		return []string{"No accessibility violations found. Consider testing with a screen reader."}
	}

	steps := []string{}
	if report.Summary.CriticalImpact > 0 {
		steps = append(steps, "Fix critical accessibility issues immediately")
	}
	if report.Summary.ErrorViolations > 0 {
		steps = append(steps, "Address all error-level violations")
	}
	if report.Summary.WarnViolations+report.Summary.InfoViolations > 0 {
		steps = append(steps, "Review warnings and best-practice findings")
	}
	steps = append(steps, "Re-run the audit to confirm the fixes")

	return steps
}

func estimateFixEffort(violation AccessibilityViolation) FixEffort {
	switch violation.Rule {
	case RuleMissingAltText, RuleMissingLangAttribute, RuleRedundantRole, RuleARIAOnReservedElement:
		return FixEffortLow
	case RuleMissingAccessibleName, RuleInvalidARIAValue, RuleInvalidARIAAttribute,
		RuleDuplicateID, RuleBrokenIDRef:
		return FixEffortMedium
	default:
		return FixEffortHigh
	}
}

func isQuickFix(violation AccessibilityViolation) bool {
	return estimateFixEffort(violation) == FixEffortLow
}

// AccessibilityInsights provides high-level insights about one audited target
type AccessibilityInsights struct {
	Target          string               `json:"target" yaml:"target"`
	OverallScore    float64              `json:"overall_score" yaml:"overall_score"`
	CriticalIssues  []AccessibilityIssue `json:"critical_issues" yaml:"critical_issues"`
	QuickWins       []AccessibilityIssue `json:"quick_wins" yaml:"quick_wins"`
	Recommendations []string             `json:"recommendations" yaml:"recommendations"`
	NextSteps       []string             `json:"next_steps" yaml:"next_steps"`
}

// AccessibilityIssue represents a specific issue with fix effort estimation
type AccessibilityIssue struct {
	Rule        string          `json:"rule" yaml:"rule"`
	Selector    string          `json:"selector" yaml:"selector"`
	Description string          `json:"description" yaml:"description"`
	Impact      ViolationImpact `json:"impact" yaml:"impact"`
	FixEffort   FixEffort       `json:"fix_effort" yaml:"fix_effort"`
}

// FixEffort represents the estimated effort to fix an accessibility issue
type FixEffort string

const (
	FixEffortLow    FixEffort = "low"    // Minutes
	FixEffortMedium FixEffort = "medium" // Hours
	FixEffortHigh   FixEffort = "high"   // Days
)
