// Package style computes the handful of CSS properties the accessible name
// computation depends on: display, visibility and the content of the
// ::before and ::after pseudo-elements.
//
// Resolver applies a user agent default table, author <style> sheets scoped
// to their tree (document or shadow root) and inline style attributes.
// Selectors are matched with cascadia. Layout, media queries and the rest of
// CSS are not modelled.
package style

import (
	"sync"

	"github.com/andybalholm/cascadia"

	"github.com/conneroisu/accname/pkg/dom"
)

// Computed is the subset of computed style used for name computation.
type Computed struct {
	Display    string
	Visibility string
	// Content is the generated text of a pseudo-element, already unquoted,
	// or "" when the pseudo-element generates nothing.
	Content string
}

// Hidden reports whether the style removes the element from rendering.
func (c Computed) Hidden() bool {
	return c.Display == "none" || c.Visibility == "hidden" || c.Visibility == "collapse"
}

// Func returns the computed style of an element or, when pseudoElement is
// "::before" or "::after", of that pseudo-element.
type Func func(el *dom.Node, pseudoElement string) Computed

// Inline is a Func that only knows that everything is displayed inline.
func Inline(*dom.Node, string) Computed {
	return Computed{Display: "inline", Visibility: "visible"}
}

// Resolver computes styles for one document. It is safe for concurrent use.
type Resolver struct {
	sheets map[*dom.Node][]rule

	mu    sync.Mutex
	cache map[cacheKey]Computed
}

type cacheKey struct {
	node   *dom.Node
	pseudo string
}

type rule struct {
	sel         cascadia.Sel
	specificity cascadia.Specificity
	order       int
	decls       []declaration
}

// NewResolver collects the style sheets of doc.
func NewResolver(doc *dom.Document) *Resolver {
	r := &Resolver{
		sheets: make(map[*dom.Node][]rule),
		cache:  make(map[cacheKey]Computed),
	}
	order := 0
	doc.Walk(func(n *dom.Node) bool {
		if !n.Is("style") {
			return true
		}
		tree := n.RootNode()
		for _, block := range parseSheet(n.TextContent()) {
			group, err := cascadia.ParseGroupWithPseudoElements(block.selector)
			if err != nil {
				continue
			}
			for _, sel := range group {
				r.sheets[tree] = append(r.sheets[tree], rule{
					sel:         sel,
					specificity: sel.Specificity(),
					order:       order,
					decls:       block.decls,
				})
				order++
			}
		}
		return false
	})
	return r
}

// Func returns the resolver as a Func.
func (r *Resolver) Func() Func { return r.Compute }

// Compute returns the computed style of el or one of its pseudo-elements.
func (r *Resolver) Compute(el *dom.Node, pseudoElement string) Computed {
	if !el.IsElement() {
		return Computed{Display: "inline", Visibility: "visible"}
	}
	pseudo := normalizePseudo(pseudoElement)
	key := cacheKey{node: el, pseudo: pseudo}

	r.mu.Lock()
	c, ok := r.cache[key]
	r.mu.Unlock()
	if ok {
		return c
	}

	c = r.compute(el, pseudo)

	r.mu.Lock()
	r.cache[key] = c
	r.mu.Unlock()
	return c
}

func (r *Resolver) compute(el *dom.Node, pseudo string) Computed {
	decls := r.cascade(el, pseudo)

	var parentVisibility string
	if pseudo != "" {
		parentVisibility = r.Compute(el, "").Visibility
	} else {
		parentVisibility = "visible"
		if p := styleParent(el); p != nil {
			parentVisibility = r.Compute(p, "").Visibility
		}
	}

	c := Computed{Visibility: parentVisibility}
	if v, ok := decls["visibility"]; ok && v != "inherit" {
		c.Visibility = v
	}

	switch {
	case pseudo != "":
		c.Display = "inline"
	case el.HasAttr("hidden"):
		c.Display = "none"
	default:
		c.Display = defaultDisplay(el)
	}
	if v, ok := decls["display"]; ok {
		switch v {
		case "inherit":
			if p := styleParent(el); p != nil && pseudo == "" {
				c.Display = r.Compute(p, "").Display
			}
		case "initial", "unset", "revert":
			c.Display = "inline"
		default:
			c.Display = v
		}
	}

	if pseudo != "" {
		c.Content = generatedContent(decls["content"])
	}
	return c
}

// cascade returns the winning declared value per property.
func (r *Resolver) cascade(el *dom.Node, pseudo string) map[string]string {
	type winner struct {
		value string
		w     weight
	}
	won := make(map[string]winner)
	apply := func(decls []declaration, w weight) {
		for _, d := range decls {
			w.important = d.important
			if cur, ok := won[d.property]; ok && w.less(cur.w) {
				continue
			}
			won[d.property] = winner{value: d.value, w: w}
		}
	}

	raw := el.Raw()
	for _, ru := range r.sheets[el.RootNode()] {
		if ru.sel.PseudoElement() != pseudo || !ru.sel.Match(raw) {
			continue
		}
		apply(ru.decls, weight{specificity: ru.specificity, order: ru.order})
	}
	if pseudo == "" {
		if inline, ok := el.Attr("style"); ok {
			apply(parseDeclarations(inline), weight{inline: true})
		}
	}

	out := make(map[string]string, len(won))
	for prop, w := range won {
		out[prop] = w.value
	}
	return out
}

type weight struct {
	important   bool
	inline      bool
	specificity cascadia.Specificity
	order       int
}

func (w weight) less(o weight) bool {
	if w.important != o.important {
		return o.important
	}
	if w.inline != o.inline {
		return o.inline
	}
	if w.specificity != o.specificity {
		return w.specificity.Less(o.specificity)
	}
	return w.order < o.order
}

func styleParent(el *dom.Node) *dom.Node {
	p := el.Parent()
	if p.IsShadowRoot() {
		return p.Host()
	}
	if p.IsElement() {
		return p
	}
	return nil
}

func normalizePseudo(p string) string {
	switch p {
	case "::before", ":before", "before":
		return "before"
	case "::after", ":after", "after":
		return "after"
	}
	return ""
}
