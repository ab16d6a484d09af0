// errors.go defines the structured configuration error used throughout
// the package.
//
// Field-level validators build a ConfigError with the kind, field, and
// offending value but without an owner; every call site that validates on
// behalf of an application re-wraps the error with the owning application's
// name before letting it escape. The public boundary therefore only ever
// surfaces one error type, and the human-readable message is assembled
// from the structured fields in Error(), not scattered through the
// validators as pre-baked strings.
package config

import (
	"fmt"
	"sort"
	"strings"
)

// ErrorKind classifies what went wrong with a configuration field.
// The kind is machine-checkable; the rendered message is meant to be
// shown verbatim to the human author of the configuration.
type ErrorKind string

const (
	// KindMissingKey reports a required key that is absent.
	KindMissingKey ErrorKind = "missing-key"

	// KindWrongType reports a value of the wrong type.
	KindWrongType ErrorKind = "wrong-type"

	// KindBadValue reports a value of the right type that fails
	// semantic validation (unparseable port string, bad image name,
	// relative mountpoint, ...).
	KindBadValue ErrorKind = "bad-value"

	// KindAmbiguousKey reports a fig application that declares both of
	// the mutually exclusive identifying keys.
	KindAmbiguousKey ErrorKind = "ambiguous-key"

	// KindUnsupportedKey reports a recognized fig key that convoy does
	// not support.
	KindUnsupportedKey ErrorKind = "unsupported-key"

	// KindUnrecognisedKey reports a key outside the dialect's grammar.
	KindUnrecognisedKey ErrorKind = "unrecognised-key"

	// KindUnresolvedReference reports a symbolic name (link target or
	// node application) that does not resolve to any application.
	KindUnresolvedReference ErrorKind = "unresolved-reference"

	// KindBadVersion reports a missing or unsupported schema version.
	KindBadVersion ErrorKind = "bad-version"
)

// ConfigError describes a single configuration validation failure.
// Exactly one failure is ever reported per pass — validation aborts on
// the first error encountered.
type ConfigError struct {
	// Kind classifies the failure.
	Kind ErrorKind

	// Application names the owning application, when the failure is
	// scoped to one. Filled in by the front end that owns the loop, not
	// by the field validator that detected the problem.
	Application string

	// Hostname names the owning node for node-level failures.
	Hostname string

	// Section names the configuration document for top-level failures
	// that belong to no application or node: "Application" or
	// "Deployment".
	Section string

	// Field is the configuration key the failure concerns, when there
	// is one.
	Field string

	// Value is the offending value, when one exists.
	Value interface{}

	// Detail is the kind-specific description, without owner context.
	Detail string
}

// Error assembles the human-readable message from the structured fields.
// The owner prefix (node, application, or document section) is attached
// here, at the boundary, so validators never format owner context
// themselves.
func (e *ConfigError) Error() string {
	switch {
	case e.Hostname != "":
		return fmt.Sprintf("Node '%s' has a config error. %s", e.Hostname, e.Detail)
	case e.Application != "":
		return fmt.Sprintf("Application '%s' has a config error. %s", e.Application, e.Detail)
	case e.Section != "":
		return fmt.Sprintf("%s configuration has an error. %s", e.Section, e.Detail)
	default:
		return e.Detail
	}
}

// forApplication returns a copy of the error owned by the named
// application. An already-owned error is returned unchanged, so wrapping
// at an outer loop never clobbers more specific context.
func (e *ConfigError) forApplication(name string) *ConfigError {
	if e.Application != "" || e.Hostname != "" || e.Section != "" {
		return e
	}
	owned := *e
	owned.Application = name
	return &owned
}

// forNode returns a copy of the error owned by the named node.
func (e *ConfigError) forNode(hostname string) *ConfigError {
	if e.Application != "" || e.Hostname != "" || e.Section != "" {
		return e
	}
	owned := *e
	owned.Hostname = hostname
	return &owned
}

// errMissingKey reports a required key that is absent.
func errMissingKey(field string) *ConfigError {
	return &ConfigError{
		Kind:   KindMissingKey,
		Field:  field,
		Detail: fmt.Sprintf("Missing '%s' key.", field),
	}
}

// errMissingValue reports a required per-application value that is
// absent. Per-application messages use "value for" phrasing, document
// envelopes use the "key" phrasing of errMissingKey.
func errMissingValue(field string) *ConfigError {
	return &ConfigError{
		Kind:   KindMissingKey,
		Field:  field,
		Detail: fmt.Sprintf("Missing value for '%s'.", field),
	}
}

// errWrongType reports a value whose type does not match the grammar.
// description names the expectation, e.g. "'ports' must be a list".
func errWrongType(field, description string, value interface{}) *ConfigError {
	return &ConfigError{
		Kind:   KindWrongType,
		Field:  field,
		Value:  value,
		Detail: fmt.Sprintf("%s; got type '%s'.", description, typeName(value)),
	}
}

// errBadValue reports a semantically invalid value.
func errBadValue(field, detail string, value interface{}) *ConfigError {
	return &ConfigError{
		Kind:   KindBadValue,
		Field:  field,
		Value:  value,
		Detail: detail,
	}
}

// errUnrecognisedKeys reports leftover keys outside the allowed set.
// Keys are sorted so the message is deterministic.
func errUnrecognisedKeys(keys []string) *ConfigError {
	return &ConfigError{
		Kind:   KindUnrecognisedKey,
		Detail: fmt.Sprintf("Unrecognised keys: %s.", joinSorted(keys)),
	}
}

// joinSorted renders a key list as a sorted, comma-separated string for
// deterministic error messages.
func joinSorted(keys []string) string {
	sorted := make([]string, len(keys))
	copy(sorted, keys)
	sort.Strings(sorted)
	return strings.Join(sorted, ", ")
}
