package driven

import "context"

// LLMService provides language model completions for segmentation and
// relevance classification. This is an optional service - when nil,
// classification fails open and segmentation falls back to the local
// sentence splitter.
type LLMService interface {
	// Complete produces a completion for a system prompt plus user
	// prompt pair.
	Complete(ctx context.Context, systemPrompt, userPrompt string, opts CompleteOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}

// CompleteOptions configures a completion call.
type CompleteOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64
}

// Transcriber converts one encoded audio chunk to text.
type Transcriber interface {
	// Transcribe returns the text for an encoded audio window.
	// Hints carry vocabulary the recogniser should prefer.
	Transcribe(ctx context.Context, data []byte, mimeType string, hints []string) (string, error)

	// Close releases resources.
	Close() error
}
