package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conneroisu/accname/internal/accessibility"
)

var treeAll bool

var treeCmd = &cobra.Command{
	Use:   "tree [file]",
	Short: "Print the accessibility tree of a document",
	Long: `Print the role, accessible name and description of every element of a
document, indented by depth in the flat tree. Shadow trees appear under
their host.

Hidden elements are omitted unless --all is given. Their names are only
computed with --hidden.

Examples:
  accname tree page.html
  accname tree page.html --all -o json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTree,
}

func init() {
	rootCmd.AddCommand(treeCmd)

	treeCmd.Flags().BoolVarP(&treeAll, "all", "a", false, "include hidden elements")
}

func runTree(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument(cmd, inputArg(args))
	if err != nil {
		return err
	}
	fallback, err := fallbackStrings()
	if err != nil {
		return err
	}

	engine := accessibility.NewDefaultAccessibilityEngine(logger)
	infos := engine.Inspect(doc, accessibility.AuditConfiguration{
		Hidden:  cfg.Compute.Hidden,
		Strings: fallback,
	})

	shown := make([]accessibility.ElementInfo, 0, len(infos))
	for _, info := range infos {
		if info.Hidden && !treeAll && !cfg.Compute.Hidden {
			continue
		}
		shown = append(shown, info)
	}

	return render(cmd, shown, func(w io.Writer) error { return writeTree(w, shown) })
}

func writeTree(w io.Writer, infos []accessibility.ElementInfo) error {
	for _, info := range infos {
		var b strings.Builder
		b.WriteString(strings.Repeat("  ", info.Depth))
		if info.Role != "" {
			b.WriteString(info.Role)
		} else {
			b.WriteString("<" + info.Tag + ">")
		}
		if info.Name != "" {
			fmt.Fprintf(&b, " %q", info.Name)
		}
		if info.Description != "" {
			fmt.Fprintf(&b, " (%s)", info.Description)
		}
		if info.Hidden {
			b.WriteString(" [hidden]")
		}
		if _, err := fmt.Fprintln(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}
