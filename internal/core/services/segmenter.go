package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/HowardHan99/codesignbot-sub001/internal/core/domain"
	"github.com/HowardHan99/codesignbot-sub001/internal/core/ports/driven"
	"github.com/HowardHan99/codesignbot-sub001/internal/core/ports/driving"
	"github.com/HowardHan99/codesignbot-sub001/internal/logger"
	"github.com/HowardHan99/codesignbot-sub001/internal/resilience"
)

// Ensure SegmentService implements the interface.
var _ driving.Segmenter = (*SegmentService)(nil)

// segmentSystemPrompt asks the model for one point per line within the
// target length band.
const segmentSystemPrompt = `You split a spoken design transcript into separate coherent points.
Each point is one self-contained statement of roughly %d-%d characters.
Output one point per line, nothing else. Do not number the lines.`

// SegmentService splits transcribed text into design points. The LLM
// does the semantic split; a local sentence splitter backs it up when
// the LLM is unavailable, fails, or visibly under-segments.
type SegmentService struct {
	llm    driven.LLMService
	client *resilience.Client
	cfg    domain.SegmentationSettings
}

// NewSegmentService creates a segmenter. llm may be nil; segmentation
// then always uses the local splitter.
func NewSegmentService(llm driven.LLMService, client *resilience.Client, cfg domain.SegmentationSettings) *SegmentService {
	return &SegmentService{llm: llm, client: client, cfg: cfg}
}

// Segment splits text into points, discarding fragments below the
// minimum word count.
func (s *SegmentService) Segment(ctx context.Context, text string) ([]domain.DesignPoint, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	lines := s.llmSegment(ctx, text)

	// The safety net: an LLM pass that returns a single point for
	// input clearly long enough to hold several is re-split locally.
	if len(lines) <= 1 && len(text) > 2*s.cfg.TargetMaxChars {
		logger.Debug("segment: LLM under-segmented %d chars, using local splitter", len(text))
		lines = s.localSegment(text)
	}
	if len(lines) == 0 {
		lines = s.localSegment(text)
	}

	points := make([]domain.DesignPoint, 0, len(lines))
	for _, line := range lines {
		p := domain.DesignPoint{ID: uuid.New().String(), Text: strings.TrimSpace(line)}
		if p.Text == "" || p.WordCount() < s.cfg.MinWords {
			continue
		}
		points = append(points, p)
	}
	return points, nil
}

// llmSegment asks the model for the split. Failures return nil so the
// local splitter takes over.
func (s *SegmentService) llmSegment(ctx context.Context, text string) []string {
	if s.llm == nil {
		return nil
	}

	system := fmt.Sprintf(segmentSystemPrompt, s.cfg.TargetMinChars, s.cfg.TargetMaxChars)
	reply, err := resilience.CallStrict(ctx, s.client, "segment transcript", func(ctx context.Context) (string, error) {
		return s.llm.Complete(ctx, system, text, driven.CompleteOptions{Temperature: 0.2})
	})
	if err != nil {
		logger.Warn("segment: LLM call failed, using local splitter: %v", err)
		return nil
	}

	var lines []string
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "-*0123456789. "))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// localSegment splits at sentence boundaries and greedily packs
// sentences into the target length band.
func (s *SegmentService) localSegment(text string) []string {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var points []string
	var current strings.Builder
	for _, sentence := range sentences {
		if current.Len() > 0 && current.Len()+1+len(sentence) > s.cfg.TargetMaxChars {
			points = append(points, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(sentence)

		if current.Len() >= s.cfg.TargetMinChars {
			points = append(points, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		points = append(points, current.String())
	}
	return points
}

// splitSentences cuts text at sentence-ending punctuation and
// paragraph breaks.
func splitSentences(text string) []string {
	var out []string
	var b strings.Builder
	flush := func() {
		s := strings.TrimSpace(b.String())
		if s != "" {
			out = append(out, s)
		}
		b.Reset()
	}

	for _, r := range text {
		if r == '\n' {
			flush()
			continue
		}
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			flush()
		}
	}
	flush()
	return out
}

