// Package inspect reconstructs a node's observed application set from the
// local Docker daemon.
//
// convoy never executes or schedules anything; this package only reads.
// The snapshot it produces feeds the reverse projector
// (config.ConfigurationToYAML), which is how a node reports its current
// state for comparison against declared configuration. The projection is
// lossy by design, so the snapshot does not try to recover information
// (such as the original image reference behind an untagged container)
// that the projector would discard anyway.
package inspect
