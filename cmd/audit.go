package cmd

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/conneroisu/accname/internal/accessibility"
	accerrors "github.com/conneroisu/accname/internal/errors"
)

var (
	auditMaxViolations   int
	auditIncludeHTML     bool
	auditInsights        bool
	auditVerbose         bool
	auditShowSuggestions bool
	auditListRules       bool
)

// auditCmd represents the audit command.
var auditCmd = &cobra.Command{
	Use:   "audit [file...]",
	Short: "Audit HTML documents for ARIA conformance",
	Long: `Audit HTML documents for ARIA conformance: unnamed widgets, invalid or
abstract roles, unknown or invalid ARIA attributes, missing required
properties, broken id references and duplicate ids.

Each violation is mapped to a WCAG success criterion and carries a
suggestion for fixing it. The command fails when a violation at or above
--fail-on is found.

Examples:
  # Audit a file
  accname audit page.html

  # Audit standard input against level A only
  cat page.html | accname audit --wcag-level A

  # Run two rules and report as JSON
  accname audit *.html --rule missing-accessible-name,broken-idref -o json

  # Never fail, show every finding
  accname audit page.html --fail-on none -v`,
	RunE: runAuditCommand,
}

func init() {
	rootCmd.AddCommand(auditCmd)

	addAuditFlags(auditCmd)
	auditCmd.Flags().IntVar(&auditMaxViolations, "max-violations", 0, "maximum violations per document (0 = unlimited)")
	auditCmd.Flags().BoolVar(&auditIncludeHTML, "include-html", false, "include the audited HTML in JSON and YAML reports")
	auditCmd.Flags().BoolVar(&auditInsights, "insights", false, "add prioritized issues and next steps")
	auditCmd.Flags().BoolVarP(&auditVerbose, "verbose", "v", false, "show info level findings and suggestion code")
	auditCmd.Flags().BoolVar(&auditShowSuggestions, "suggestions", true, "show fix suggestions")
	auditCmd.Flags().BoolVar(&auditListRules, "list-rules", false, "list the available rules and exit")
}

// AuditResult is the structured output of the audit command.
type AuditResult struct {
	Reports  []*accessibility.AccessibilityReport  `json:"reports" yaml:"reports"`
	Insights []*accessibility.AccessibilityInsights `json:"insights,omitempty" yaml:"insights,omitempty"`
}

func runAuditCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	engine := accessibility.NewDefaultAccessibilityEngine(logger)
	if auditListRules {
		return listRules(cmd, engine.Rules())
	}
	if err := validateRuleIDs(engine.Rules(), cfg.Audit.Rules, cfg.Audit.ExcludeRules); err != nil {
		return err
	}
	if auditMaxViolations < 0 {
		return accerrors.NewValidationError(accerrors.ErrCodeValidationFailed, "--max-violations must not be negative")
	}

	config, err := auditConfiguration()
	if err != nil {
		return err
	}
	tester := accessibility.NewFileTester(engine, logger, config)

	var (
		reports []*accessibility.AccessibilityReport
		testErr error
	)
	if len(args) == 0 || slices.Equal(args, []string{stdinName}) {
		report, err := tester.TestReader(ctx, cmd.InOrStdin(), accessibility.AccessibilityTarget{
			Type: "stdin",
			Name: "<stdin>",
		})
		if err != nil {
			return err
		}
		reports = append(reports, report)
	} else {
		reports, testErr = tester.TestFiles(ctx, args)
		if len(reports) == 0 && testErr != nil {
			return testErr
		}
	}

	result := AuditResult{Reports: reports}
	if auditInsights {
		for _, report := range reports {
			result.Insights = append(result.Insights, tester.GetInsights(report))
		}
	}

	if err := render(cmd, result, func(w io.Writer) error {
		outputConsole(w, result)
		return nil
	}); err != nil {
		return err
	}

	if failing := countFailing(reports, accessibility.ViolationSeverity(cfg.Audit.FailOn)); failing > 0 {
		return accerrors.ErrAuditFailed(failing, cfg.Audit.FailOn)
	}
	return testErr
}

// auditConfiguration builds the audit configuration from the loaded config
// and the command flags.
func auditConfiguration() (accessibility.AuditConfiguration, error) {
	fallback, err := fallbackStrings()
	if err != nil {
		return accessibility.AuditConfiguration{}, err
	}
	return accessibility.AuditConfiguration{
		WCAGLevel:     parseWCAGLevel(cfg.Audit.WCAGLevel),
		Rules:         cfg.Audit.Rules,
		ExcludeRules:  cfg.Audit.ExcludeRules,
		IncludeHTML:   auditIncludeHTML,
		MaxViolations: auditMaxViolations,
		Hidden:        cfg.Compute.Hidden,
		Strings:       fallback,
	}, nil
}

// validateRuleIDs rejects rule ids that no registered rule has.
func validateRuleIDs(rules []accessibility.AccessibilityRule, lists ...[]string) error {
	known := make(map[string]bool, len(rules))
	for _, rule := range rules {
		known[rule.ID] = true
	}

	var errs accerrors.ValidationErrorCollection
	for _, list := range lists {
		for _, id := range list {
			if !known[id] {
				errs.AddField("rule", id, "unknown rule", "run 'accname audit --list-rules' for the available rules")
			}
		}
	}
	if errs.HasErrors() {
		return errs.ToAccnameError()
	}
	return nil
}

func listRules(cmd *cobra.Command, rules []accessibility.AccessibilityRule) error {
	return render(cmd, rules, func(w io.Writer) error {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "RULE\tIMPACT\tWCAG\tDESCRIPTION")
		for _, rule := range rules {
			fmt.Fprintf(tw, "%s\t%s\t%s %s\t%s\n",
				rule.ID, rule.Impact, rule.WCAG.Level, rule.WCAG.Criteria, rule.Description)
		}
		return tw.Flush()
	})
}

// countFailing counts the violations at or above failOn.
func countFailing(reports []*accessibility.AccessibilityReport, failOn accessibility.ViolationSeverity) int {
	n := 0
	for _, report := range reports {
		for _, violation := range report.Violations {
			if violation.Severity.AtLeast(failOn) {
				n++
			}
		}
	}
	return n
}

func outputConsole(w io.Writer, result AuditResult) {
	reports := result.Reports
	if len(reports) == 0 {
		fmt.Fprintln(w, "No documents audited.")
		return
	}

	totalViolations := 0
	criticalViolations := 0
	documentsWithIssues := 0
	overallScoreSum := 0.0

	for _, report := range reports {
		totalViolations += len(report.Violations)
		overallScoreSum += report.Summary.OverallScore

		if len(report.Violations) > 0 {
			documentsWithIssues++
		}
		criticalViolations += report.Summary.CriticalImpact
	}

	averageScore := overallScoreSum / float64(len(reports))

	fmt.Fprintf(w, "\n🔍 Accessibility Audit Summary\n")
	fmt.Fprintf(w, "═══════════════════════════════\n\n")
	fmt.Fprintf(w, "Documents audited:      %d\n", len(reports))
	fmt.Fprintf(w, "Documents with issues:  %d\n", documentsWithIssues)
	fmt.Fprintf(w, "Total violations:       %d\n", totalViolations)
	fmt.Fprintf(w, "Critical violations:    %d\n", criticalViolations)
	fmt.Fprintf(w, "Average score:          %.1f/100\n", averageScore)

	var status, statusIcon string
	switch {
	case criticalViolations > 0:
		status, statusIcon = "CRITICAL ISSUES FOUND", "🚨"
	case totalViolations > 0:
		status, statusIcon = "ISSUES FOUND", "⚠️"
	default:
		status, statusIcon = "ALL CHECKS PASSED", "✅"
	}
	fmt.Fprintf(w, "Status:                 %s %s\n\n", statusIcon, status)

	for _, report := range reports {
		outputDocumentDetails(w, report)
	}

	for _, insights := range result.Insights {
		outputInsights(w, insights)
	}
}

func outputDocumentDetails(w io.Writer, report *accessibility.AccessibilityReport) {
	fmt.Fprintf(w, "📄 %s (Score: %s%.1f/100%s)\n",
		report.Target.Name, getScoreColor(report.Summary.OverallScore), report.Summary.OverallScore, "\033[0m")

	if len(report.Violations) == 0 {
		fmt.Fprintf(w, "   ✅ No accessibility issues found\n\n")
		return
	}

	groups := map[accessibility.ViolationSeverity][]accessibility.AccessibilityViolation{}
	for _, violation := range report.Violations {
		groups[violation.Severity] = append(groups[violation.Severity], violation)
	}

	if errs := groups[accessibility.SeverityError]; len(errs) > 0 {
		fmt.Fprintf(w, "   🚨 Errors (%d):\n", len(errs))
		for _, violation := range errs {
			outputViolation(w, violation, "     ")
		}
	}

	if warnings := groups[accessibility.SeverityWarning]; len(warnings) > 0 {
		fmt.Fprintf(w, "   ⚠️  Warnings (%d):\n", len(warnings))
		for _, violation := range warnings {
			outputViolation(w, violation, "     ")
		}
	}

	if infos := groups[accessibility.SeverityInfo]; len(infos) > 0 {
		if auditVerbose {
			fmt.Fprintf(w, "   ℹ️  Info (%d):\n", len(infos))
			for _, violation := range infos {
				outputViolation(w, violation, "     ")
			}
		} else {
			fmt.Fprintf(w, "   ℹ️  %d info finding(s), use -v to show\n", len(infos))
		}
	}

	fmt.Fprintln(w)
}

func outputViolation(w io.Writer, violation accessibility.AccessibilityViolation, indent string) {
	fmt.Fprintf(w, "%s• %s\n", indent, violation.Message)
	fmt.Fprintf(w, "%s  Rule: %s | WCAG: %s %s\n",
		indent, violation.Rule, violation.WCAG.Level, violation.WCAG.Criteria)

	if violation.Selector != "" {
		fmt.Fprintf(w, "%s  Element: %s\n", indent, violation.Selector)
	}
	if violation.Context.File != "" && auditVerbose {
		fmt.Fprintf(w, "%s  File: %s\n", indent, violation.Context.File)
	}

	if auditShowSuggestions && len(violation.Suggestions) > 0 {
		fmt.Fprintf(w, "%s  💡 %s\n", indent, violation.Suggestions[0].Title)
		if violation.Suggestions[0].Code != "" && auditVerbose {
			fmt.Fprintf(w, "%s     Code: %s\n", indent, violation.Suggestions[0].Code)
		}
	}
}

func outputInsights(w io.Writer, insights *accessibility.AccessibilityInsights) {
	fmt.Fprintf(w, "📊 Insights for %s\n", insights.Target)
	fmt.Fprintf(w, "─────────────────────────\n")

	if len(insights.QuickWins) > 0 {
		fmt.Fprintf(w, "Quick wins (%d):\n", len(insights.QuickWins))
		for _, issue := range insights.QuickWins {
			fmt.Fprintf(w, "  • %s: %s\n", issue.Selector, issue.Description)
		}
	}
	for _, recommendation := range insights.Recommendations {
		fmt.Fprintf(w, "💡 %s\n", recommendation)
	}
	fmt.Fprintf(w, "Next steps:\n")
	for i, step := range insights.NextSteps {
		fmt.Fprintf(w, "  %d. %s\n", i+1, step)
	}
	fmt.Fprintln(w)
}

func parseWCAGLevel(level string) accessibility.WCAGLevel {
	switch strings.ToUpper(level) {
	case "A":
		return accessibility.WCAGLevelA
	case "AAA":
		return accessibility.WCAGLevelAAA
	default:
		return accessibility.WCAGLevelAA
	}
}

func getScoreColor(score float64) string {
	if score >= 90 {
		return "\033[32m" // Green
	} else if score >= 70 {
		return "\033[33m" // Yellow
	}
	return "\033[31m" // Red
}
