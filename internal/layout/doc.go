// Package layout implements the deterministic spatial-packing engine.
//
// The engine maps (region, score, counters) to card positions. It is
// pure: no I/O, no clock, no randomness - identical inputs always
// produce identical positions. Overflow handling, bounds clamping and
// over-length content splitting all live here; the placement service
// in internal/core/services owns the side effects.
//
// This is a fast placement heuristic for human-readable collaborative
// boards, not a bin-packing optimiser.
package layout
