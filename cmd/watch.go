package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/conneroisu/accname/internal/accessibility"
	accerrors "github.com/conneroisu/accname/internal/errors"
	"github.com/conneroisu/accname/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch [path...]",
	Short: "Re-audit HTML files when they change",
	Long: `Watch directories or files and re-audit every changed HTML document.
Each check prints the violations found and the rules fixed since the
previous check of the same file.

Directories are watched recursively; directories matching an ignore
pattern are skipped. Every matching file is audited once at startup.

Examples:
  accname watch                        # Watch the current directory
  accname watch site --pattern '*.html'
  accname watch site -v --min-severity warning`,
	RunE: runWatch,
}

var (
	watchVerbose     bool
	watchMaxWarnings int
	watchSeverity    = newEnumValue("info", "info", "warning", "error")
)

func init() {
	rootCmd.AddCommand(watchCmd)

	addAuditFlags(watchCmd)
	watchCmd.Flags().Duration("debounce", 300*time.Millisecond, "delay before a batch of changes is audited")
	watchCmd.Flags().StringSlice("pattern", []string{"*.html", "*.htm"}, "file name globs to audit")
	watchCmd.Flags().StringSlice("ignore", []string{"node_modules", ".git"}, "directory name globs to skip")
	watchCmd.Flags().BoolVarP(&watchVerbose, "verbose", "v", false, "print every file change")
	watchCmd.Flags().IntVar(&watchMaxWarnings, "max-warnings", 0, "maximum violations printed per file (0 = unlimited)")
	watchCmd.Flags().Var(watchSeverity, "min-severity", "lowest severity printed (info, warning, error)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		args = []string{"."}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := accessibility.NewDefaultAccessibilityEngine(logger)
	if err := validateRuleIDs(engine.Rules(), cfg.Audit.Rules, cfg.Audit.ExcludeRules); err != nil {
		return err
	}
	config, err := auditConfiguration()
	if err != nil {
		return err
	}

	tester := accessibility.NewFileTester(engine, logger, config)
	monitor := accessibility.NewRealtimeMonitor(tester, logger, accessibility.RealtimeConfig{
		WarningSeverityLevel: accessibility.ViolationSeverity(watchSeverity.String()),
		MaxWarningsPerFile:   watchMaxWarnings,
		ShowSuccessMessages:  true,
		BufferSize:           100,
	})
	updates := monitor.Subscribe("cli")

	fileWatcher, err := watcher.NewFileWatcher(cfg.Watch.Debounce, logger)
	if err != nil {
		return accerrors.NewInternalError(accerrors.ErrCodeInternalError, "failed to create file watcher", err)
	}
	defer fileWatcher.Stop()

	fileWatcher.AddFilter(watcher.PatternFilter(cfg.Watch.Patterns))
	fileWatcher.SetIgnore(cfg.Watch.Ignore)

	out := cmd.OutOrStdout()
	fileWatcher.AddHandler(func(ctx context.Context, events []watcher.ChangeEvent) error {
		if watchVerbose {
			for _, event := range events {
				logger.Info(ctx, "File changed", "type", event.Type.String(), "path", event.Path)
			}
		}
		return monitor.HandleChanges(ctx, events)
	})

	var files []string
	for _, path := range args {
		info, err := os.Stat(path)
		if err != nil {
			return accerrors.ErrFileNotFound(path, err)
		}
		if info.IsDir() {
			err = fileWatcher.AddRecursive(path)
		} else {
			err = fileWatcher.AddPath(path)
		}
		if err != nil {
			return accerrors.WrapIO(err, accerrors.ErrCodeReadFailed, "failed to watch path").WithLocation(path, 0)
		}

		found, err := fileWatcher.Files(path)
		if err != nil {
			return accerrors.WrapIO(err, accerrors.ErrCodeReadFailed, "failed to list files").WithLocation(path, 0)
		}
		files = append(files, found...)
	}

	fmt.Fprintf(out, "👀 Watching %d path(s), %d file(s). Press Ctrl+C to stop.\n", len(args), len(files))

	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range updates {
			printUpdate(out, update)
		}
	}()

	for _, file := range files {
		if _, err := monitor.CheckFile(ctx, file); err != nil {
			logger.Warn(ctx, err, "Initial accessibility check failed", "file", file)
		}
	}

	if err := fileWatcher.Start(ctx); err != nil {
		monitor.Shutdown()
		<-done
		return accerrors.NewInternalError(accerrors.ErrCodeInternalError, "failed to start file watcher", err)
	}

	<-ctx.Done()
	monitor.Shutdown()
	<-done

	status := monitor.Status()
	healthy := 0
	for _, s := range status.FileStatuses {
		if s.Status == "healthy" {
			healthy++
		}
	}
	fmt.Fprintf(out, "\n🛑 Stopped. %d of %d file(s) healthy.\n", healthy, len(status.FileStatuses))

	return nil
}

// printUpdate writes one monitor update.
func printUpdate(w io.Writer, update accessibility.AccessibilityUpdate) {
	fmt.Fprintf(w, "[%s] %s\n", update.Timestamp.Format("15:04:05"), update.Message)
	for _, violation := range update.Violations {
		fmt.Fprintf(w, "   • %s: %s (%s)\n", violation.Rule, violation.Message, violation.Selector)
	}
	for _, rule := range update.FixedIssues {
		fmt.Fprintf(w, "   ✔ fixed %s\n", rule)
	}
	if len(update.Suggestions) > 0 {
		fmt.Fprintf(w, "   💡 %s\n", update.Suggestions[0].Title)
	}
}
