// Package accname computes accessible names and descriptions of DOM nodes
// following the W3C "Accessible Name and Description Computation" algorithm,
// and resolves the ARIA role of elements.
//
// Example:
//
//	doc, _ := dom.ParseString(`<button aria-label="Close">×</button>`)
//	btn := doc.Body().Children()[0]
//	name := accname.ComputeAccessibleName(btn, accname.Options{})
//	// name == "Close"
//
// Computations are pure functions of the tree; a Document may be queried
// from several goroutines at once.
package accname
