package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HowardHan99/codesignbot-sub001/internal/core/domain"
)

func segmenterSettings() domain.SegmentationSettings {
	return domain.SegmentationSettings{
		TargetMinChars: 150,
		TargetMaxChars: 250,
		MinWords:       4,
	}
}

func TestSegmentUsesLLMLines(t *testing.T) {
	llm := &mockLLM{replies: []string{
		"The onboarding flow should lead with a worked example.\nUsers want the sketch canvas to remember their last zoom level.",
	}}
	svc := NewSegmentService(llm, testClient(3), segmenterSettings())

	points, err := svc.Segment(context.Background(), "some transcript text")
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, "The onboarding flow should lead with a worked example.", points[0].Text)
	assert.Equal(t, "Users want the sketch canvas to remember their last zoom level.", points[1].Text)
	for _, p := range points {
		assert.NotEmpty(t, p.ID)
	}
}

func TestSegmentStripsListMarkers(t *testing.T) {
	llm := &mockLLM{replies: []string{
		"1. First point about the layout being too dense overall.\n- Second point about keyboard shortcuts missing from the toolbar.",
	}}
	svc := NewSegmentService(llm, testClient(3), segmenterSettings())

	points, err := svc.Segment(context.Background(), "transcript")
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, "First point about the layout being too dense overall.", points[0].Text)
	assert.Equal(t, "Second point about keyboard shortcuts missing from the toolbar.", points[1].Text)
}

func TestSegmentDropsShortFragments(t *testing.T) {
	llm := &mockLLM{replies: []string{
		"This first point clearly has enough words to survive.\nToo short.\nAnother point that also carries enough words to keep.",
	}}
	svc := NewSegmentService(llm, testClient(3), segmenterSettings())

	points, err := svc.Segment(context.Background(), "transcript")
	require.NoError(t, err)
	require.Len(t, points, 2)
	for _, p := range points {
		assert.GreaterOrEqual(t, p.WordCount(), 4)
	}
}

func TestSegmentFallsBackLocallyOnLLMFailure(t *testing.T) {
	boom := errors.New("model down")
	llm := &mockLLM{errs: []error{boom, boom, boom, boom}}
	svc := NewSegmentService(llm, testClient(3), segmenterSettings())

	text := "The export dialog hides the format options behind a submenu and nobody finds them. " +
		"Moving the format picker onto the first screen would remove a whole step from the flow. " +
		"The keyboard shortcut list also needs to show up during onboarding rather than afterwards."
	points, err := svc.Segment(context.Background(), text)
	require.NoError(t, err)
	require.NotEmpty(t, points)
	for _, p := range points {
		assert.LessOrEqual(t, len(p.Text), 250+100, "greedy packing stays near the band")
	}
}

func TestSegmentLocalOnlyWithoutLLM(t *testing.T) {
	svc := NewSegmentService(nil, testClient(3), segmenterSettings())

	text := "The toolbar feels crowded on small screens and should collapse. " +
		"A floating palette would keep the drawing area clear while sketching."
	points, err := svc.Segment(context.Background(), text)
	require.NoError(t, err)
	require.NotEmpty(t, points)
}

func TestSegmentResplitsUnderSegmentedReply(t *testing.T) {
	// One line back for a transcript far beyond twice the band maximum
	// means the model collapsed everything; the local splitter redoes it.
	long := strings.Repeat("Each sentence here makes its own separate point about the design. ", 12)
	llm := &mockLLM{replies: []string{strings.TrimSpace(long)}}
	svc := NewSegmentService(llm, testClient(3), segmenterSettings())

	points, err := svc.Segment(context.Background(), long)
	require.NoError(t, err)
	assert.Greater(t, len(points), 1, "a %d char transcript must yield several points", len(long))
}

func TestSegmentEmptyInput(t *testing.T) {
	svc := NewSegmentService(nil, testClient(3), segmenterSettings())

	points, err := svc.Segment(context.Background(), "   \n  ")
	require.NoError(t, err)
	assert.Empty(t, points)
}
