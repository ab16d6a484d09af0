// Package config validates and compiles deployment configuration into the
// canonical model defined in internal/model.
//
// Two incompatible surface dialects are accepted:
//
//   - fig: a compose-style mapping of application name → definition, with
//     "image"/"build" as mutually exclusive identifying keys
//   - native: an explicit {"version": 1, "applications": {...}} document
//
// The pipeline is: dialect detection (detect.go) → front end (fig.go or
// native.go) → link resolution (fig only, second pass inside fig.go) →
// model assembly against the deployment-intent mapping (deployment.go).
// Each step is a pure function over already-decoded generic mappings;
// no state is shared between invocations and no I/O is performed here —
// decoding raw text into mappings belongs to internal/configfile.
//
// The reverse direction, projecting an application set back into the
// native textual dialect, lives in project.go. It is intentionally lossy:
// image identity and volume mountpoints cannot be recovered from observed
// cluster state.
//
// Every validation failure is reported as a *ConfigError carrying a
// structured kind plus the owning application or node; the first failure
// aborts the whole pass and no partial model is ever returned.
package config
