// Package ir provides the declarative representation of class hierarchies
// and dispatch traces.
//
// This package contains type definitions and serialization only. The
// compiler produces ClassSpecs from CUE; the engine materializes them into
// live classes and records TraceEvents. ir imports nothing internal.
//
// Key design constraints:
//   - Data values are strings, int64, bool, nil, []any and map[string]any
//   - No floats in data values; integral floats are narrowed to int64
//   - MarshalCanonical is the only serialization used for golden traces
//   - Logical clocks (seq) only, never wall-clock timestamps
package ir
