// Package domain defines the core business entities for codesignbot.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - ContentChunk: One capture window of audio or typed text
//   - DesignPoint: A coherent statement extracted from a chunk
//   - Score / ScoreScale: Relevance classification of a point
//   - Region / Card / Link: The canvas object model
//   - Session: Per-run placement counters, dedup state and cancellation
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
