package driving

import (
	"context"

	"github.com/HowardHan99/codesignbot-sub001/internal/core/domain"
)

// CaptureSession drives one capture-and-transcribe pass.
// Sessions move Idle -> Recording -> Stopping -> Idle; Start and Stop
// are not safe to call concurrently with themselves.
type CaptureSession interface {
	// Start transitions Idle -> Recording and begins emitting capture
	// windows. Returns domain.ErrSessionActive if already recording
	// and domain.ErrCaptureDevice if the source cannot be opened.
	Start(ctx context.Context) error

	// Stop flushes the partial window, awaits its transcription and
	// returns the full ordered transcript. Returns
	// domain.ErrNoContentCaptured when nothing usable was recorded.
	Stop(ctx context.Context) (string, error)

	// Cancel requests cooperative cancellation. In-flight calls
	// finish; their results are discarded.
	Cancel()

	// Progress reports completedChunks / totalChunks in [0, 1].
	// Monotonically non-decreasing within a session.
	Progress() float64
}

// Classifier scores points against the reference corpus.
type Classifier interface {
	// Evaluate returns the relevance evaluation for a point.
	// Classification is advisory: failures degrade to maximum
	// relevance rather than returning an error.
	Evaluate(ctx context.Context, point domain.DesignPoint, corpus domain.ReferenceCorpus) domain.Evaluation
}

// Segmenter splits transcribed text into design points.
type Segmenter interface {
	// Segment splits text at sentence/paragraph boundaries into
	// points within the configured length band, discarding
	// degenerate fragments.
	Segment(ctx context.Context, text string) ([]domain.DesignPoint, error)
}

// PlacementReport aggregates the outcome of one placement batch.
// Batches never fail atomically; one item's failure does not block
// the rest.
type PlacementReport struct {
	// Attempted is the number of points handed to the placer.
	Attempted int

	// Placed is the number of points that produced at least one card.
	Placed int

	// Deduplicated is the number of points skipped as exact
	// duplicates of existing region content.
	Deduplicated int

	// Failed is the number of points skipped due to validation or
	// exhausted-retry failures.
	Failed int
}

// Placer converts classified points into cards on the board.
type Placer interface {
	// PlacePoints classifies and places a batch of points into the
	// named region, advancing the session's counters. Points are
	// processed strictly in order.
	PlacePoints(ctx context.Context, session *domain.Session, regionTitle string, points []domain.DesignPoint) (PlacementReport, error)
}

// RegionManager finds or creates regions and queries their contents.
type RegionManager interface {
	// EnsureRegion returns the region with the given title, creating
	// it with default geometry when absent.
	EnsureRegion(ctx context.Context, title string, strategy domain.LayoutStrategy) (*domain.Region, error)

	// Contents returns the card texts currently inside the region.
	Contents(ctx context.Context, region *domain.Region) ([]string, error)
}
