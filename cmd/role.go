package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	accerrors "github.com/conneroisu/accname/internal/errors"
	"github.com/conneroisu/accname/pkg/accname"
	"github.com/conneroisu/accname/pkg/aria"
)

var (
	roleSelector  string
	rolesAbstract bool
)

var roleCmd = &cobra.Command{
	Use:   "role [file]",
	Short: "Resolve the ARIA role of elements",
	Long: `Resolve the role of every element matching a CSS selector. The first
valid token of the role attribute wins; otherwise the implicit role of the
element applies.

Examples:
  accname role page.html -s 'main *'
  accname role page.html -s input -o json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRole,
}

var rolesCmd = &cobra.Command{
	Use:   "roles [role...]",
	Short: "Query the ARIA role knowledge base",
	Long: `List the ARIA roles, or show the definition of the named roles:
superclasses, supported, required and prohibited properties, and whether
the role may be named from content.

Examples:
  accname roles
  accname roles --abstract
  accname roles button checkbox -o yaml`,
	RunE: runRoles,
}

func init() {
	rootCmd.AddCommand(roleCmd)
	rootCmd.AddCommand(rolesCmd)

	addSelectorFlag(roleCmd, &roleSelector)
	rolesCmd.Flags().BoolVar(&rolesAbstract, "abstract", false, "include abstract roles in the list")
}

// RoleResult is the resolved role of one element.
type RoleResult struct {
	Selector     string `json:"selector" yaml:"selector"`
	Role         string `json:"role" yaml:"role"`
	ImplicitRole string `json:"implicit_role,omitempty" yaml:"implicit_role,omitempty"`
}

func runRole(cmd *cobra.Command, args []string) error {
	nodes, opts, err := selectForCompute(cmd, inputArg(args), roleSelector)
	if err != nil {
		return err
	}

	results := make([]RoleResult, 0, len(nodes))
	roles := make([]string, 0, len(nodes))
	for _, n := range nodes {
		role := accname.GetRole(n)
		results = append(results, RoleResult{
			Selector:     selectorOf(n, opts),
			Role:         role,
			ImplicitRole: accname.ImplicitRole(n),
		})
		roles = append(roles, role)
	}

	return render(cmd, results, lines(roles))
}

// RoleSummary is one row of the role listing.
type RoleSummary struct {
	Name         string   `json:"name" yaml:"name"`
	Abstract     bool     `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	SuperClass   []string `json:"super_class,omitempty" yaml:"super_class,omitempty"`
	NameFrom     []string `json:"name_from,omitempty" yaml:"name_from,omitempty"`
	NameRequired bool     `json:"accessible_name_required,omitempty" yaml:"accessible_name_required,omitempty"`
}

func runRoles(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		defs := make([]aria.RoleDefinition, 0, len(args))
		for _, name := range args {
			def, ok := aria.LookupRole(strings.ToLower(name))
			if !ok {
				return accerrors.ErrUnknownRole(name)
			}
			defs = append(defs, def)
		}
		return render(cmd, defs, func(w io.Writer) error { return writeRoleDetails(w, defs) })
	}

	var summaries []RoleSummary
	aria.Roles().Range(func(name string, def aria.RoleDefinition) bool {
		if def.Abstract && !rolesAbstract {
			return true
		}
		summaries = append(summaries, summarizeRole(def))
		return true
	})

	return render(cmd, summaries, func(w io.Writer) error {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ROLE\tSUPERCLASS\tNAME FROM")
		for _, s := range summaries {
			name := s.Name
			if s.Abstract {
				name += " (abstract)"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", name, strings.Join(s.SuperClass, ", "), strings.Join(s.NameFrom, ", "))
		}
		return tw.Flush()
	})
}

func summarizeRole(def aria.RoleDefinition) RoleSummary {
	s := RoleSummary{
		Name:         def.Name,
		Abstract:     def.Abstract,
		NameRequired: def.AccessibleNameRequired,
	}
	for _, chain := range def.SuperClass {
		if len(chain) > 0 {
			s.SuperClass = append(s.SuperClass, chain[len(chain)-1])
		}
	}
	for _, source := range def.NameFrom {
		s.NameFrom = append(s.NameFrom, string(source))
	}
	return s
}

func writeRoleDetails(w io.Writer, defs []aria.RoleDefinition) error {
	for i, def := range defs {
		if i > 0 {
			fmt.Fprintln(w)
		}
		s := summarizeRole(def)

		fmt.Fprintf(w, "🔖 %s\n", def.Name)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "  Abstract:\t%t\n", def.Abstract)
		fmt.Fprintf(tw, "  Superclass:\t%s\n", orNone(s.SuperClass))
		fmt.Fprintf(tw, "  Ancestors:\t%s\n", orNone(def.Ancestors()))
		fmt.Fprintf(tw, "  Name from:\t%s\n", orNone(s.NameFrom))
		fmt.Fprintf(tw, "  Name required:\t%t\n", def.AccessibleNameRequired)
		fmt.Fprintf(tw, "  Required props:\t%s\n", orNone(propList(def.RequiredProps)))
		fmt.Fprintf(tw, "  Supported props:\t%s\n", orNone(def.PropNames()))
		fmt.Fprintf(tw, "  Prohibited props:\t%s\n", orNone(def.ProhibitedProps))
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

// propList renders a property map as name or name=default entries.
func propList(props map[string]*string) []string {
	out := make([]string, 0, len(props))
	for _, name := range (aria.RoleDefinition{Props: props}).PropNames() {
		if def := props[name]; def != nil {
			out = append(out, name+"="+*def)
			continue
		}
		out = append(out, name)
	}
	return out
}

func orNone(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, ", ")
}
