package accessibility

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/conneroisu/accname/internal/logging"
	"github.com/conneroisu/accname/internal/watcher"
)

// RealtimeMonitor re-audits files as they change and publishes the results
// to subscribers.
type RealtimeMonitor struct {
	tester        *FileTester
	logger        logging.Logger
	subscribers   map[string]chan AccessibilityUpdate
	subscribersMu sync.RWMutex
	config        RealtimeConfig

	statuses   map[string]FileAccessibilityStatus
	statusesMu sync.RWMutex
}

// RealtimeConfig configures real-time accessibility monitoring.
type RealtimeConfig struct {
	WarningSeverityLevel ViolationSeverity `json:"warning_severity_level" yaml:"warning_severity_level"`
	MaxWarningsPerFile   int               `json:"max_warnings_per_file" yaml:"max_warnings_per_file"`
	ShowSuccessMessages  bool              `json:"show_success_messages" yaml:"show_success_messages"`
	BufferSize           int               `json:"buffer_size" yaml:"buffer_size"`
}

// DefaultRealtimeConfig reports every severity, including successes.
func DefaultRealtimeConfig() RealtimeConfig {
	return RealtimeConfig{
		WarningSeverityLevel: SeverityInfo,
		ShowSuccessMessages:  true,
		BufferSize:           100,
	}
}

// AccessibilityUpdate represents a real-time accessibility update.
type AccessibilityUpdate struct {
	Type         UpdateType                `json:"type" yaml:"type"`
	File         string                    `json:"file" yaml:"file"`
	Timestamp    time.Time                 `json:"timestamp" yaml:"timestamp"`
	Violations   []AccessibilityViolation  `json:"violations,omitempty" yaml:"violations,omitempty"`
	FixedIssues  []string                  `json:"fixed_issues,omitempty" yaml:"fixed_issues,omitempty"`
	OverallScore float64                   `json:"overall_score" yaml:"overall_score"`
	Message      string                    `json:"message" yaml:"message"`
	Suggestions  []AccessibilitySuggestion `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
}

// UpdateType represents different types of accessibility updates.
type UpdateType string

const (
	UpdateTypeWarning UpdateType = "warning"
	UpdateTypeError   UpdateType = "error"
	UpdateTypeSuccess UpdateType = "success"
	UpdateTypeRemoved UpdateType = "removed"
	UpdateTypeInfo    UpdateType = "info"
)

// NewRealtimeMonitor creates a monitor that audits with tester.
func NewRealtimeMonitor(
	tester *FileTester,
	logger logging.Logger,
	config RealtimeConfig,
) *RealtimeMonitor {
	if logger == nil {
		logger = logging.NewLogger(nil)
	}
	if config.BufferSize <= 0 {
		config.BufferSize = 100
	}
	return &RealtimeMonitor{
		tester:      tester,
		logger:      logger.WithComponent("realtime_accessibility"),
		subscribers: make(map[string]chan AccessibilityUpdate),
		config:      config,
		statuses:    make(map[string]FileAccessibilityStatus),
	}
}

// Subscribe subscribes to real-time accessibility updates. Subscribing
// again with the same id replaces the previous channel.
func (monitor *RealtimeMonitor) Subscribe(subscriberID string) <-chan AccessibilityUpdate {
	monitor.subscribersMu.Lock()
	defer monitor.subscribersMu.Unlock()

	if old, exists := monitor.subscribers[subscriberID]; exists {
		close(old)
	}
	ch := make(chan AccessibilityUpdate, monitor.config.BufferSize)
	monitor.subscribers[subscriberID] = ch

	monitor.logger.Debug(context.Background(), "New accessibility monitor subscriber",
		"subscriber_id", subscriberID)

	return ch
}

// Unsubscribe removes a subscriber from real-time updates.
func (monitor *RealtimeMonitor) Unsubscribe(subscriberID string) {
	monitor.subscribersMu.Lock()
	defer monitor.subscribersMu.Unlock()

	if ch, exists := monitor.subscribers[subscriberID]; exists {
		close(ch)
		delete(monitor.subscribers, subscriberID)
		monitor.logger.Debug(context.Background(), "Accessibility monitor subscriber removed",
			"subscriber_id", subscriberID)
	}
}

// HandleChanges re-audits the files of one debounced batch. Its signature
// matches watcher.ChangeHandler.
func (monitor *RealtimeMonitor) HandleChanges(ctx context.Context, events []watcher.ChangeEvent) error {
	for _, event := range events {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch event.Type {
		case watcher.EventTypeDeleted, watcher.EventTypeRenamed:
			monitor.forget(event.Path)
		default:
			if _, err := monitor.CheckFile(ctx, event.Path); err != nil {
				monitor.logger.Warn(ctx, err, "Failed to run real-time accessibility check",
					"file", event.Path)
			}
		}
	}
	return nil
}

// CheckFile audits path and broadcasts the resulting update. It returns
// the full report, before severity filtering.
func (monitor *RealtimeMonitor) CheckFile(ctx context.Context, path string) (*AccessibilityReport, error) {
	start := time.Now()

	report, err := monitor.tester.TestFile(ctx, path)
	if err != nil {
		return nil, err
	}

	relevantViolations := monitor.filterViolationsBySeverity(report.Violations)
	if max := monitor.config.MaxWarningsPerFile; max > 0 && len(relevantViolations) > max {
		relevantViolations = relevantViolations[:max]
	}

	fixed := monitor.record(path, report)

	var update AccessibilityUpdate
	if len(relevantViolations) == 0 {
		if !monitor.config.ShowSuccessMessages {
			return report, nil
		}
		update = AccessibilityUpdate{
			Type:         UpdateTypeSuccess,
			File:         path,
			Timestamp:    time.Now(),
			FixedIssues:  fixed,
			OverallScore: report.Summary.OverallScore,
			Message:      monitor.generateUpdateMessage(path, nil),
		}
	} else {
		update = AccessibilityUpdate{
			Type:         monitor.getUpdateTypeFromViolations(relevantViolations),
			File:         path,
			Timestamp:    time.Now(),
			Violations:   relevantViolations,
			FixedIssues:  fixed,
			OverallScore: report.Summary.OverallScore,
			Message:      monitor.generateUpdateMessage(path, relevantViolations),
			Suggestions:  monitor.generateCombinedSuggestions(relevantViolations),
		}
	}
	if len(fixed) > 0 {
		update.Message += fmt.Sprintf(" (%d rule(s) fixed)", len(fixed))
	}

	monitor.broadcastUpdate(update)

	monitor.logger.Debug(ctx, "Real-time accessibility check completed",
		"file", path,
		"violations", len(relevantViolations),
		"score", report.Summary.OverallScore,
		"duration", time.Since(start))

	return report, nil
}

// record stores the status of path and returns the rules that failed on
// the previous check and pass now.
func (monitor *RealtimeMonitor) record(path string, report *AccessibilityReport) []string {
	failing := failingRules(report.Violations)

	monitor.statusesMu.Lock()
	previous, seen := monitor.statuses[path]
	monitor.statuses[path] = FileAccessibilityStatus{
		File:               path,
		LastChecked:        time.Now(),
		OverallScore:       report.Summary.OverallScore,
		ViolationCount:     len(report.Violations),
		CriticalViolations: report.Summary.CriticalImpact,
		FailingRules:       failing,
		Status:             statusFromSummary(report.Summary),
	}
	monitor.statusesMu.Unlock()

	if !seen {
		return nil
	}
	var fixed []string
	for _, rule := range previous.FailingRules {
		if !slices.Contains(failing, rule) {
			fixed = append(fixed, rule)
		}
	}
	return fixed
}

func (monitor *RealtimeMonitor) forget(path string) {
	monitor.statusesMu.Lock()
	_, seen := monitor.statuses[path]
	delete(monitor.statuses, path)
	monitor.statusesMu.Unlock()

	if !seen {
		return
	}
	monitor.broadcastUpdate(AccessibilityUpdate{
		Type:      UpdateTypeRemoved,
		File:      path,
		Timestamp: time.Now(),
		Message:   fmt.Sprintf("%s is no longer monitored", path),
	})
}

func failingRules(violations []AccessibilityViolation) []string {
	var rules []string
	for _, violation := range violations {
		if !slices.Contains(rules, violation.Rule) {
			rules = append(rules, violation.Rule)
		}
	}
	slices.Sort(rules)
	return rules
}

func statusFromSummary(summary AccessibilitySummary) string {
	switch {
	case summary.ErrorViolations > 0:
		return "error"
	case summary.TotalViolations > 0:
		return "warning"
	default:
		return "healthy"
	}
}

// filterViolationsBySeverity filters violations based on configured severity level.
func (monitor *RealtimeMonitor) filterViolationsBySeverity(
	violations []AccessibilityViolation,
) []AccessibilityViolation {
	if monitor.config.WarningSeverityLevel == SeverityInfo || monitor.config.WarningSeverityLevel == "" {
		return violations
	}

	filtered := []AccessibilityViolation{}
	for _, violation := range violations {
		if violation.Severity.AtLeast(monitor.config.WarningSeverityLevel) {
			filtered = append(filtered, violation)
		}
	}

	return filtered
}

// getUpdateTypeFromViolations determines the update type based on violation severity.
func (monitor *RealtimeMonitor) getUpdateTypeFromViolations(
	violations []AccessibilityViolation,
) UpdateType {
	hasError := false
	hasWarning := false

	for _, violation := range violations {
		switch violation.Severity {
		case SeverityError:
			hasError = true
		case SeverityWarning:
			hasWarning = true
		}
	}

	if hasError {
		return UpdateTypeError
	}
	if hasWarning {
		return UpdateTypeWarning
	}

	return UpdateTypeInfo
}

// generateUpdateMessage creates a user-friendly message for the update.
func (monitor *RealtimeMonitor) generateUpdateMessage(
	file string,
	violations []AccessibilityViolation,
) string {
	if len(violations) == 0 {
		return fmt.Sprintf("✅ %s passes accessibility checks", file)
	}

	criticalCount := 0
	seriousCount := 0

	for _, violation := range violations {
		switch violation.Impact {
		case ImpactCritical:
			criticalCount++
		case ImpactSerious:
			seriousCount++
		}
	}

	if criticalCount > 0 {
		return fmt.Sprintf("🚨 %s has %d critical accessibility issue(s)", file, criticalCount)
	}

	if seriousCount > 0 {
		return fmt.Sprintf("⚠️ %s has %d serious accessibility issue(s)", file, seriousCount)
	}

	return fmt.Sprintf("ℹ️ %s has %d accessibility issue(s)", file, len(violations))
}

// generateCombinedSuggestions merges the suggestions of several violations,
// keeping the top five by priority.
func (monitor *RealtimeMonitor) generateCombinedSuggestions(
	violations []AccessibilityViolation,
) []AccessibilitySuggestion {
	suggestionMap := make(map[string]*AccessibilitySuggestion)
	var order []string

	for _, violation := range violations {
		for _, suggestion := range violation.Suggestions {
			key := fmt.Sprintf("%s_%s", suggestion.Type, suggestion.Title)

			if existing, exists := suggestionMap[key]; exists {
				// Lower number is more important
				if suggestion.Priority < existing.Priority {
					existing.Priority = suggestion.Priority
				}
				continue
			}
			suggestionCopy := suggestion
			suggestionMap[key] = &suggestionCopy
			order = append(order, key)
		}
	}

	suggestions := make([]AccessibilitySuggestion, 0, len(order))
	for _, key := range order {
		suggestions = append(suggestions, *suggestionMap[key])
	}

	slices.SortStableFunc(suggestions, func(a, b AccessibilitySuggestion) int {
		return a.Priority - b.Priority
	})

	const maxSuggestions = 5
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}

	return suggestions
}

// broadcastUpdate sends an update to all subscribers without blocking.
func (monitor *RealtimeMonitor) broadcastUpdate(update AccessibilityUpdate) {
	monitor.subscribersMu.RLock()
	defer monitor.subscribersMu.RUnlock()

	if len(monitor.subscribers) == 0 {
		return
	}

	monitor.logger.Debug(context.Background(), "Broadcasting accessibility update",
		"subscribers", len(monitor.subscribers),
		"update_type", string(update.Type),
		"file", update.File)

	for subscriberID, ch := range monitor.subscribers {
		select {
		case ch <- update:
		default:
			monitor.logger.Warn(context.Background(), nil,
				"Accessibility update channel full, skipping subscriber",
				"subscriber_id", subscriberID)
		}
	}
}

// Status returns the latest result of every monitored file.
func (monitor *RealtimeMonitor) Status() *AccessibilityStatus {
	monitor.subscribersMu.RLock()
	subscribers := len(monitor.subscribers)
	monitor.subscribersMu.RUnlock()

	monitor.statusesMu.RLock()
	defer monitor.statusesMu.RUnlock()

	status := &AccessibilityStatus{
		ActiveSubscribers: subscribers,
		FileStatuses:      make(map[string]FileAccessibilityStatus, len(monitor.statuses)),
	}
	for path, s := range monitor.statuses {
		status.FileStatuses[path] = s
		if s.LastChecked.After(status.LastCheckTime) {
			status.LastCheckTime = s.LastChecked
		}
	}

	return status
}

// AccessibilityStatus represents the overall accessibility monitoring status.
type AccessibilityStatus struct {
	ActiveSubscribers int                                `json:"active_subscribers" yaml:"active_subscribers"`
	LastCheckTime     time.Time                          `json:"last_check_time" yaml:"last_check_time"`
	FileStatuses      map[string]FileAccessibilityStatus `json:"file_statuses" yaml:"file_statuses"`
}

// FileAccessibilityStatus represents the accessibility status of a single file.
type FileAccessibilityStatus struct {
	File               string    `json:"file" yaml:"file"`
	LastChecked        time.Time `json:"last_checked" yaml:"last_checked"`
	OverallScore       float64   `json:"overall_score" yaml:"overall_score"`
	ViolationCount     int       `json:"violation_count" yaml:"violation_count"`
	CriticalViolations int       `json:"critical_violations" yaml:"critical_violations"`
	FailingRules       []string  `json:"failing_rules,omitempty" yaml:"failing_rules,omitempty"`
	Status             string    `json:"status" yaml:"status"` // "healthy", "warning", "error"
}

// Shutdown closes every subscriber channel.
func (monitor *RealtimeMonitor) Shutdown() {
	monitor.subscribersMu.Lock()
	defer monitor.subscribersMu.Unlock()

	for subscriberID, ch := range monitor.subscribers {
		close(ch)
		monitor.logger.Debug(context.Background(), "Closed accessibility monitor subscriber channel",
			"subscriber_id", subscriberID)
	}

	monitor.subscribers = make(map[string]chan AccessibilityUpdate)
	monitor.logger.Info(context.Background(), "Real-time accessibility monitor shutdown complete")
}
