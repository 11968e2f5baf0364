package driven

import (
	"context"

	"github.com/HowardHan99/codesignbot-sub001/internal/core/domain"
)

// CaptureSource is an open input stream delivering fixed-size capture
// windows. Implementations include encoded audio readers and
// fsnotify-backed typed-text tails.
type CaptureSource interface {
	// NextWindow blocks until the next capture window closes and
	// returns its chunk. Returns io.EOF when the stream is exhausted.
	// The returned chunk's Sequence is assigned by the caller.
	NextWindow(ctx context.Context) (domain.ContentChunk, error)

	// Flush returns whatever partial window is buffered. Called once
	// at stop time; an empty chunk means nothing was buffered.
	Flush() (domain.ContentChunk, bool)

	// Close releases the underlying device or watcher.
	Close() error
}

// CaptureOpener opens a capture source. Opening is separated from
// reading so device failures surface as explicit errors before a
// session transitions to Recording.
type CaptureOpener interface {
	// Open acquires the device/stream described by the settings.
	Open(ctx context.Context, cfg domain.CaptureSettings) (CaptureSource, error)
}
