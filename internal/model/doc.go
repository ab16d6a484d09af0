// Package model defines the domain types and value objects for the
// convoy configuration compiler.
//
// This package contains pure data structures with no external dependencies
// beyond the image-reference type. All entities (Application, Node,
// Deployment, etc.) are immutable value objects: they are constructed once
// per validation pass and never mutated afterwards. Collections carry set
// semantics — normalization helpers sort and deduplicate by value so that
// two structurally equal models compare equal regardless of input order.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
