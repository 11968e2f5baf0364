package domain

import "sync/atomic"

// PlacementCounters tracks how many layout row slots have been
// consumed per score bucket within one region. Counters are
// monotonically non-decreasing for the lifetime of a session and are
// never shared across regions or sessions.
type PlacementCounters struct {
	min   int
	slots []int
}

// NewPlacementCounters creates zeroed counters for the given scale.
func NewPlacementCounters(scale ScoreScale) *PlacementCounters {
	return &PlacementCounters{
		min:   scale.Min,
		slots: make([]int, scale.Buckets()),
	}
}

// Get returns the consumed row-slot count for a score. Scores outside
// the scale read as the nearest bucket.
func (c *PlacementCounters) Get(score int) int {
	return c.slots[c.index(score)]
}

// Advance adds rows to the score's counter. Negative rows are ignored;
// counters never decrease.
func (c *PlacementCounters) Advance(score, rows int) {
	if rows <= 0 {
		return
	}
	c.slots[c.index(score)] += rows
}

// Total returns the sum across all score buckets, used by the general
// grid layout which ignores score sections.
func (c *PlacementCounters) Total() int {
	total := 0
	for _, n := range c.slots {
		total += n
	}
	return total
}

func (c *PlacementCounters) index(score int) int {
	i := score - c.min
	if i < 0 {
		return 0
	}
	if i >= len(c.slots) {
		return len(c.slots) - 1
	}
	return i
}

// Session holds all mutable state for one end-to-end
// capture/classify/place pass: placement counters per region, the
// dedup set, and the cooperative cancellation flag. It replaces the
// process-wide singletons of earlier revisions so two regions can be
// processed concurrently, each with its own Session.
//
// A Session is owned by a single processing loop. Counters and the
// dedup set are not safe for concurrent mutation; the cancellation
// flag is, so a UI goroutine may cancel a running session.
type Session struct {
	// ID identifies the session in logs.
	ID string

	// Scale is the score scale the session classifies against.
	Scale ScoreScale

	counters  map[string]*PlacementCounters
	seen      map[string]struct{}
	cancelled atomic.Bool
}

// NewSession creates a session for the given scale.
func NewSession(id string, scale ScoreScale) *Session {
	return &Session{
		ID:       id,
		Scale:    scale,
		counters: make(map[string]*PlacementCounters),
		seen:     make(map[string]struct{}),
	}
}

// Counters returns the placement counters for a region, creating
// zeroed counters on first use.
func (s *Session) Counters(regionID string) *PlacementCounters {
	c, ok := s.counters[regionID]
	if !ok {
		c = NewPlacementCounters(s.Scale)
		s.counters[regionID] = c
	}
	return c
}

// Cancel requests cooperative cancellation. In-flight calls finish;
// no new work is scheduled once the flag is observed.
func (s *Session) Cancel() {
	s.cancelled.Store(true)
}

// Cancelled reports whether cancellation was requested.
func (s *Session) Cancelled() bool {
	return s.cancelled.Load()
}

// Seen reports whether normalized text was already placed or preloaded
// this session.
func (s *Session) Seen(text string) bool {
	_, ok := s.seen[NormalizeText(text)]
	return ok
}

// MarkSeen records normalized text in the dedup set. It returns false
// if the text was already present.
func (s *Session) MarkSeen(text string) bool {
	key := NormalizeText(text)
	if _, ok := s.seen[key]; ok {
		return false
	}
	s.seen[key] = struct{}{}
	return true
}
