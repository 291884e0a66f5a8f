// Package docs is the overview of the accname module.
//
// accname computes the accessible name and description of HTML elements as
// assistive technology would, following the W3C Accessible Name and
// Description Computation 1.2, and resolves their ARIA roles from the WAI-ARIA
// 1.2 role model.
//
// # Key Features
//
//   - Name and description computation over parsed HTML, with shadow trees,
//     slots, aria-owns and CSS generated content
//   - Explicit and implicit role resolution, including the presentational
//     role conflict rules
//   - A role knowledge base: superclasses, supported, required and prohibited
//     properties, name-from sources and HTML element associations
//   - Localized fallback labels for unlabelled submit, reset and image buttons
//   - An ARIA conformance audit with WCAG mapping, and a file watcher that
//     re-audits on change
//
// # Quick Start
//
//	doc := dom.MustParseString(`<label for="q">Search</label><input id="q">`)
//	input := doc.GetElementByID("q")
//
//	accname.ComputeAccessibleName(input, accname.Options{})        // "Search"
//	accname.ComputeAccessibleDescription(input, accname.Options{}) // ""
//	accname.GetRole(input)                                         // "textbox"
//
// From the command line:
//
//	accname name page.html -s '#q'
//	accname audit page.html
//
// # Architecture
//
// The module is organized into the following packages:
//
//   - Tree adapter (pkg/dom/): parsed documents, shadow roots, slots, id references
//   - Computed style (pkg/style/): display, visibility and ::before / ::after content
//   - Role knowledge base (pkg/aria/): role, property and element tables
//   - Computation (pkg/accname/): role resolver and text alternative engine
//   - Fallback strings (pkg/l10n/): x/text message catalogs
//   - Conformance audit (internal/accessibility/): rules, reports and monitoring
//   - File watcher (internal/watcher/): debounced fsnotify events
//   - Configuration (internal/config/): Viper-based configuration management
//   - CLI commands (cmd/): Cobra-based command interface
//
// # Configuration
//
// The CLI reads configuration from multiple sources:
//
//   - Configuration file (.accname.yml)
//   - Environment variables (ACCNAME_*)
//   - Command-line flags
//
// Example configuration:
//
//	compute:
//	  hidden: false
//	  language: en
//
//	audit:
//	  wcag_level: AA
//	  exclude_rules:
//	    - redundant-role
//	  fail_on: warning
//
//	output:
//	  format: json
//
//	watch:
//	  debounce: 300ms
//	  patterns:
//	    - "*.html"
//	  ignore:
//	    - node_modules
//
// # Testing
//
// Tests use testify. Property tests for whitespace normalization, idempotence
// and termination on cyclic references run with the property build tag:
//
//	go test -tags property ./...
//
// For more information, see the individual package documentation.
package docs
