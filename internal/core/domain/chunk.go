package domain

import "time"

// ContentChunk is one capture window of the input stream.
// It is created by the capture pipeline, consumed exactly once by
// transcription/segmentation, and never mutated afterwards.
type ContentChunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// Data holds the raw encoded bytes for audio windows.
	// Empty for typed-text input.
	Data []byte

	// Text holds already-textual input (typed text streams).
	// Empty for audio windows until transcription fills it in
	// downstream as a separate value.
	Text string

	// MIMEType describes the encoding of Data (e.g. "audio/webm").
	MIMEType string

	// Sequence is the capture order, starting at 0.
	// Chunks are processed strictly in sequence order.
	Sequence int

	// CapturedAt is when the window closed.
	CapturedAt time.Time
}

// IsAudio reports whether the chunk carries encoded audio rather
// than typed text.
func (c ContentChunk) IsAudio() bool {
	return len(c.Data) > 0
}

// DesignPoint is one coherent statement extracted from a chunk.
// Points below the minimum word count are discarded during
// segmentation and never reach classification.
type DesignPoint struct {
	// ID is the unique identifier for the point.
	ID string

	// Text is the statement itself. It may exceed the per-card
	// character ceiling, in which case placement splits it into a
	// chained run of cards.
	Text string

	// Category is an optional label assigned by segmentation.
	Category string
}

// WordCount returns the number of whitespace-separated words in the
// point text.
func (p DesignPoint) WordCount() int {
	n := 0
	inWord := false
	for _, r := range p.Text {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			inWord = false
			continue
		}
		if !inWord {
			n++
			inWord = true
		}
	}
	return n
}
