// Package control
// Author: momentics <momentics@gmail.com>
//
// Engine configuration, runtime metrics, and debug introspection layer.
//
// Provides:
//   - Config, an immutable snapshot of engine tunables
//   - MetricsRegistry, a telemetry counter store
//   - DebugProbes, named state-dump hooks
//
// This package is cross-platform and build-tag-partitioned as needed.
package control
