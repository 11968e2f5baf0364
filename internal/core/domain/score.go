package domain

import "time"

// RelevanceCategory is the two-valued classification derived from a
// score by comparing it against the scale threshold.
type RelevanceCategory string

// Available relevance categories.
const (
	// CategoryRelevant marks points at or above the threshold.
	CategoryRelevant RelevanceCategory = "relevant"

	// CategoryNotRelevant marks points below the threshold.
	CategoryNotRelevant RelevanceCategory = "not-relevant"
)

// String returns the string representation.
func (c RelevanceCategory) String() string {
	return string(c)
}

// ScoreScale defines the closed integer range scores live in and the
// threshold that separates relevant from not-relevant.
type ScoreScale struct {
	// Min is the lowest score (least relevant).
	Min int

	// Max is the highest score (most relevant).
	Max int

	// Threshold is the lowest score still considered relevant.
	Threshold int
}

// DefaultScoreScale is the 1..3 scale with threshold 2 used when no
// scale is configured.
var DefaultScoreScale = ScoreScale{Min: 1, Max: 3, Threshold: 2}

// Clamp forces s into [Min, Max]. Scores are always clamped before use.
func (sc ScoreScale) Clamp(s int) int {
	if s < sc.Min {
		return sc.Min
	}
	if s > sc.Max {
		return sc.Max
	}
	return s
}

// Category derives the relevance category for a score. Membership is a
// pure function of the (clamped) score.
func (sc ScoreScale) Category(s int) RelevanceCategory {
	if sc.Clamp(s) >= sc.Threshold {
		return CategoryRelevant
	}
	return CategoryNotRelevant
}

// Buckets returns the number of distinct score values in the scale.
func (sc ScoreScale) Buckets() int {
	return sc.Max - sc.Min + 1
}

// Valid reports whether the scale is well-formed.
func (sc ScoreScale) Valid() bool {
	return sc.Min <= sc.Max && sc.Threshold >= sc.Min && sc.Threshold <= sc.Max
}

// Evaluation is the result of classifying one point against the
// reference corpus.
type Evaluation struct {
	// Score is the clamped relevance score.
	Score int

	// Category is derived from Score via the scale threshold.
	Category RelevanceCategory
}

// ReferenceCorpus is the ordered list of accepted points a new point's
// relevance is measured against. It is read-mostly context, refreshed
// on a TTL to bound call volume; staleness within the TTL is accepted.
type ReferenceCorpus struct {
	// Entries are the corpus texts in board order.
	Entries []string

	// FetchedAt is when the entries were last retrieved.
	FetchedAt time.Time
}

// Empty reports whether the corpus has no entries. An empty corpus
// short-circuits classification to maximum relevance.
func (rc ReferenceCorpus) Empty() bool {
	return len(rc.Entries) == 0
}
