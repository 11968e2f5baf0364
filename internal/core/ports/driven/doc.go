// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - BoardClient: The canvas platform (regions, cards, connectors)
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Completion calls for segmentation and classification.
//     Without it, classification fails open to maximum relevance and
//     segmentation uses the local sentence splitter.
//   - Transcriber: Audio-to-text. Without it, only typed-text capture
//     sources work.
//   - CaptureSource: The input device/stream. Supplied per session.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
