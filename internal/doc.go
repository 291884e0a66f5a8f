// Package internal contains the implementation packages of the accname CLI.
//
// This package follows Go's internal package convention, making these
// packages unavailable for import by external modules. The computation
// itself lives in pkg/ and is importable; everything here serves the CLI.
//
// # Package Organization
//
// The internal packages are organized by functional domain:
//
//   - accessibility: ARIA conformance rules, reports, insights and the realtime monitor
//   - config: Configuration management with validation
//   - errors: Typed errors, validation collections and exit codes
//   - logging: Structured logging over log/slog
//   - testutils: Fixtures shared by the package tests
//   - validation: Path, glob and input sanitization helpers
//   - version: Build information from ldflags and the module stamp
//   - watcher: File system monitoring with debouncing
//
// # Inter-Package Communication
//
//   - The watcher delivers debounced change batches to the realtime monitor
//   - The realtime monitor audits through a file tester and broadcasts updates
//   - The audit engine reads roles and names from pkg/accname and pkg/aria
//   - The CLI builds every component from the loaded configuration
//
// # Testing Strategy
//
// Each package has table-driven testify tests next to its code. Tests
// that touch the file system build their input with testutils.
package internal
