// Package cmd provides the command-line interface for accname.
//
// This package implements all CLI commands using the Cobra framework on top
// of the accessible name computation in pkg/accname and the ARIA knowledge
// base in pkg/aria.
//
// # Available Commands
//
//   - name: accessible name of the elements matching a selector
//   - describe: accessible description of the elements matching a selector
//   - role: explicit or implicit ARIA role of matching elements
//   - roles: query the ARIA role knowledge base
//   - tree: role, name and description of every element
//   - audit: ARIA conformance audit mapped to WCAG criteria
//   - watch: re-audit HTML files when they change
//   - config: write, validate and show the configuration
//   - version: build information
//
// # Command Examples
//
//	// Name of the submit button
//	accname name page.html -s 'button[type=submit]'
//
//	// Names of every link in the navigation, as JSON
//	accname name page.html -s 'nav a' -o json
//
//	// Compute from standard input, including hidden content
//	cat page.html | accname describe -s input --hidden
//
//	// Audit and fail on warnings
//	accname audit site/*.html --fail-on warning
//
//	// German fallback labels for unlabelled buttons
//	accname name form.html -s 'input[type=reset]' --lang de
//
// # Configuration Integration
//
// Commands respect configuration from multiple sources in order of precedence:
//
//  1. Command-line flags (highest priority)
//  2. Environment variables (ACCNAME_*)
//  3. Configuration file (.accname.yml)
//  4. Default values (lowest priority)
//
// # Error Handling
//
// Errors are reported on stderr with suggestions where available. The exit
// status is 0 on success, 1 when an audit finds violations at or above
// --fail-on or an I/O error occurs, and 2 for invalid input, selectors or
// configuration.
package cmd
