package layout

import (
	"strings"
	"unicode/utf8"
)

// ContinuationMarker prefixes every card after the first in a chained
// run so readers can follow the run order.
const ContinuationMarker = "… "

// SplitContent splits text into card-sized chunks, each at most the
// engine's per-card character limit including the continuation marker.
// Breaks happen at the nearest preceding whitespace inside the limit;
// when no whitespace appears in the second half of the window, the
// chunk is force-broken at the limit. Joining the chunks with the
// markers stripped reconstructs the original words in order.
func (e *Engine) SplitContent(text string) []string {
	return SplitContent(text, e.cfg.CardCharLimit)
}

// SplitContent is the engine-independent splitter, exported for tests
// and for callers that only need the text transformation.
func SplitContent(text string, limit int) []string {
	text = strings.TrimSpace(text)
	if limit <= 0 || len(text) <= limit {
		if text == "" {
			return nil
		}
		return []string{text}
	}

	var chunks []string
	rest := text
	for len(rest) > 0 {
		budget := limit
		if len(chunks) > 0 {
			budget -= len(ContinuationMarker)
		}
		if len(rest) <= budget {
			chunks = append(chunks, decorate(rest, len(chunks)))
			break
		}

		cut := lastBreak(rest, budget)
		chunk := strings.TrimSpace(rest[:cut])
		rest = strings.TrimSpace(rest[cut:])
		chunks = append(chunks, decorate(chunk, len(chunks)))
	}
	return chunks
}

// lastBreak finds the split offset: the last whitespace within budget,
// or the budget itself when the only whitespace sits in the first half
// of the window (a force-break beats a near-empty chunk). A force-break
// backs up to a rune boundary so a multi-byte character is never
// sliced.
func lastBreak(s string, budget int) int {
	window := s[:budget]
	i := strings.LastIndexAny(window, " \t\n")
	if i >= budget/2 {
		return i
	}
	cut := budget
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	if cut == 0 {
		// A single rune wider than the budget; slicing is unavoidable.
		return budget
	}
	return cut
}

func decorate(chunk string, index int) string {
	if index == 0 {
		return chunk
	}
	return ContinuationMarker + chunk
}

// JoinChunks reverses SplitContent for verification and display:
// markers stripped, chunks joined with single spaces.
func JoinChunks(chunks []string) string {
	parts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		parts = append(parts, strings.TrimPrefix(c, ContinuationMarker))
	}
	return strings.Join(parts, " ")
}
