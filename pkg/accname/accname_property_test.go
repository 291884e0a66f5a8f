//go:build property
// +build property

package accname

import (
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/conneroisu/accname/pkg/dom"
)

var fragments = []string{
	"text",
	"  spaced \n\t out  ",
	"<b>bold</b>",
	"<div>block</div>",
	`<span aria-hidden="true">hidden</span>`,
	`<span hidden>gone</span>`,
	`<img alt="picture">`,
	`<img alt="">`,
	`<input value="typed">`,
	`<select><option selected>picked</option></select>`,
	`<span role="slider" aria-valuenow="3"></span>`,
	`<span aria-label="labelled">x</span>`,
	`<a href="/">link</a>`,
	"\n",
}

var doubleSpace = regexp.MustCompile(`\s\s`)

// TestTextAlternativeProperties tests name computation over generated content
func TestTextAlternativeProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	fragment := gen.IntRange(0, len(fragments)-1).Map(func(i int) string { return fragments[i] })

	// Property: names never contain runs of whitespace
	properties.Property("whitespace is collapsed", prop.ForAll(
		func(parts []string) bool {
			doc := dom.MustParseString(`<button id="x">` + strings.Join(parts, "") + `</button>`)
			name := ComputeAccessibleName(doc.GetElementByID("x"), Options{})
			return !doubleSpace.MatchString(name) && name == strings.TrimSpace(name)
		},
		gen.SliceOfN(6, fragment),
	))

	// Property: computing twice on the same tree gives the same result
	properties.Property("idempotent", prop.ForAll(
		func(parts []string) bool {
			doc := dom.MustParseString(`<label for="x">` + strings.Join(parts, "") + `</label><input id="x">`)
			x := doc.GetElementByID("x")
			return ComputeAccessibleName(x, Options{}) == ComputeAccessibleName(x, Options{})
		},
		gen.SliceOfN(6, fragment),
	))

	properties.TestingRun(t)
}

// TestReferenceGraphProperties tests termination on arbitrary id reference graphs
func TestReferenceGraphProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Property: the walk ends, whatever the references. A node is entered
	// again only while an aria-labelledby attribute is still unconsulted.
	properties.Property("cycles terminate", prop.ForAll(
		func(targets []int, owns []int) bool {
			var b strings.Builder
			for i := range targets {
				fmt.Fprintf(&b, `<div id="n%d" role="button" aria-labelledby="n%d" aria-owns="n%d">%d</div>`,
					i, targets[i], owns[i], i)
			}
			doc := dom.MustParseString(b.String())

			for i := range targets {
				root := doc.GetElementByID(fmt.Sprintf("n%d", i))
				w := newWalker(Options{}.withDefaults(root))
				visits := make(map[*dom.Node]int)
				w.visit = func(n *dom.Node) { visits[n]++ }
				w.compute(root, computeContext{})
				for _, count := range visits {
					if count > len(targets)+2 {
						return false
					}
				}
			}
			return true
		},
		gen.SliceOfN(8, gen.IntRange(0, 7)),
		gen.SliceOfN(8, gen.IntRange(0, 7)),
	))

	properties.TestingRun(t)
}
