package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HowardHan99/codesignbot-sub001/internal/adapters/driven/board/memory"
	"github.com/HowardHan99/codesignbot-sub001/internal/core/domain"
	"github.com/HowardHan99/codesignbot-sub001/internal/layout"
)

// placementFixture wires a placement service over an in-memory board.
// The LLM reply fixes every score, keeping placements predictable.
func placementFixture(t *testing.T, reply string) (*PlacementService, *memory.Board) {
	t.Helper()
	board := memory.New()
	client := testClient(1)
	cfg := layoutSettings()
	classCfg := classifierSettings()
	classCfg.CorpusRegion = "Design-Proposal"
	classCfg.CorpusTTL = time.Minute

	regions := NewRegionService(board, client, cfg)
	classifier := NewClassificationService(&mockLLM{replies: []string{reply}}, client, classCfg)
	corpus := NewCorpusProvider(regions, classCfg)
	engine := layout.New(cfg, classCfg.Scale)

	// Seed the proposal region so classification consults the model
	// rather than short-circuiting on an empty corpus.
	ctx := context.Background()
	proposal, err := regions.EnsureRegion(ctx, classCfg.CorpusRegion, domain.LayoutGeneralGrid)
	require.NoError(t, err)
	card, err := board.CreateCard(ctx, domain.Card{Content: "a sketching app for tablets", RegionID: proposal.ID})
	require.NoError(t, err)
	require.NoError(t, board.AddToRegion(ctx, proposal.ID, card.ID))

	svc := NewPlacementService(board, client, regions, classifier, corpus, engine, domain.LayoutScoreSectioned)
	return svc, board
}

func testSession() *domain.Session {
	return domain.NewSession("test-session", domain.ScoreScale{Min: 1, Max: 3, Threshold: 2})
}

// regionCards returns the cards parented to the named region, keeping
// assertions blind to the proposal seed the fixture places elsewhere.
func regionCards(t *testing.T, board *memory.Board, title string) []domain.Card {
	t.Helper()
	region, err := board.FindRegionByTitle(context.Background(), title)
	require.NoError(t, err)
	cards, err := board.GetCards(context.Background(), region.ID)
	require.NoError(t, err)
	return cards
}

func points(texts ...string) []domain.DesignPoint {
	out := make([]domain.DesignPoint, len(texts))
	for i, text := range texts {
		out[i] = domain.DesignPoint{ID: text, Text: text}
	}
	return out
}

func TestPlacePointsCreatesOneCardPerPoint(t *testing.T) {
	svc, board := placementFixture(t, "2")
	session := testSession()

	report, err := svc.PlacePoints(context.Background(), session, "Sketch-Notes", points(
		"The toolbar should collapse on small screens to free canvas space.",
		"Export defaults ought to remember the last chosen format per project.",
	))
	require.NoError(t, err)

	assert.Equal(t, 2, report.Attempted)
	assert.Equal(t, 2, report.Placed)
	assert.Equal(t, 0, report.Deduplicated)
	assert.Equal(t, 0, report.Failed)
	assert.Len(t, regionCards(t, board, "Sketch-Notes"), 2)
	assert.Empty(t, board.Links(), "single-card points are not linked")
}

func TestPlacePointsIsIdempotent(t *testing.T) {
	svc, board := placementFixture(t, "2")

	batch := points(
		"The toolbar should collapse on small screens to free canvas space.",
		"Export defaults ought to remember the last chosen format per project.",
	)

	first, err := svc.PlacePoints(context.Background(), testSession(), "Sketch-Notes", batch)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Placed)

	// A fresh session over the same material places nothing: existing
	// region content preloads the dedup set.
	second, err := svc.PlacePoints(context.Background(), testSession(), "Sketch-Notes", batch)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Attempted)
	assert.Equal(t, 0, second.Placed)
	assert.Equal(t, 2, second.Deduplicated)
	assert.Len(t, regionCards(t, board, "Sketch-Notes"), 2)
}

func TestPlacePointsPacksAfterExistingCards(t *testing.T) {
	svc, board := placementFixture(t, "2")

	_, err := svc.PlacePoints(context.Background(), testSession(), "Sketch-Notes", points(
		"The toolbar should collapse on small screens to free canvas space.",
	))
	require.NoError(t, err)

	// A fresh session over new material continues below the cards an
	// earlier run placed instead of reusing their coordinates.
	_, err = svc.PlacePoints(context.Background(), testSession(), "Sketch-Notes", points(
		"Export defaults ought to remember the last chosen format per project.",
	))
	require.NoError(t, err)

	cards := regionCards(t, board, "Sketch-Notes")
	require.Len(t, cards, 2)
	assert.False(t, cards[0].X == cards[1].X && cards[0].Y == cards[1].Y,
		"cards from separate sessions must not overlap")
}

func TestPlacePointsDeduplicatesWithinBatch(t *testing.T) {
	svc, board := placementFixture(t, "2")

	report, err := svc.PlacePoints(context.Background(), testSession(), "Sketch-Notes", points(
		"Undo history should survive closing and reopening a project.",
		"Undo  History should survive closing and reopening a project.",
	))
	require.NoError(t, err)

	assert.Equal(t, 1, report.Placed)
	assert.Equal(t, 1, report.Deduplicated, "whitespace and case variants are the same point")
	assert.Len(t, regionCards(t, board, "Sketch-Notes"), 1)
}

func TestPlacePointsChainsOverlongPoint(t *testing.T) {
	svc, board := placementFixture(t, "3")

	long := strings.TrimSpace(strings.Repeat("every card has a hard character ceiling and this point blows past it ", 12))
	report, err := svc.PlacePoints(context.Background(), testSession(), "Sketch-Notes", points(long))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Placed)

	cards := regionCards(t, board, "Sketch-Notes")
	require.Greater(t, len(cards), 1, "overlong point must split into a chained run")
	assert.Len(t, board.Links(), len(cards)-1, "each chained card links to its predecessor")

	marked := 0
	for _, c := range cards {
		assert.LessOrEqual(t, len(c.Content), 350)
		if strings.HasPrefix(c.Content, layout.ContinuationMarker) {
			marked++
		}
	}
	assert.Equal(t, len(cards)-1, marked, "every chunk after the first carries the continuation marker")
}

func TestPlacePointsAdvancesCounters(t *testing.T) {
	svc, board := placementFixture(t, "2")
	session := testSession()

	_, err := svc.PlacePoints(context.Background(), session, "Sketch-Notes", points(
		"The toolbar should collapse on small screens to free canvas space.",
		"Export defaults ought to remember the last chosen format per project.",
	))
	require.NoError(t, err)

	region, err := board.FindRegionByTitle(context.Background(), "Sketch-Notes")
	require.NoError(t, err)

	counters := session.Counters(region.ID)
	assert.Equal(t, 2, counters.Get(2), "two single-row placements in the score-2 bucket")
	assert.Equal(t, 0, counters.Get(1))
	assert.Equal(t, 0, counters.Get(3))
	assert.Equal(t, 2, counters.Total())
}

func TestPlacePointsCancellationStopsBatch(t *testing.T) {
	svc, board := placementFixture(t, "2")
	session := testSession()
	session.Cancel()

	report, err := svc.PlacePoints(context.Background(), session, "Sketch-Notes", points(
		"The toolbar should collapse on small screens to free canvas space.",
	))
	require.NoError(t, err)
	assert.Equal(t, 0, report.Attempted)
	assert.Empty(t, regionCards(t, board, "Sketch-Notes"))
}

// flakyBoard fails the first n card creations, then behaves normally.
type flakyBoard struct {
	*memory.Board
	failCards int
}

func (b *flakyBoard) CreateCard(ctx context.Context, card domain.Card) (*domain.Card, error) {
	if b.failCards > 0 {
		b.failCards--
		return nil, errors.New("card service unavailable")
	}
	return b.Board.CreateCard(ctx, card)
}

func TestPlacePointsFailedItemStaysEligible(t *testing.T) {
	board := &flakyBoard{Board: memory.New(), failCards: 1}
	client := testClient(0)
	cfg := layoutSettings()
	classCfg := classifierSettings()

	regions := NewRegionService(board, client, cfg)
	classifier := NewClassificationService(nil, client, classCfg)
	engine := layout.New(cfg, classCfg.Scale)
	svc := NewPlacementService(board, client, regions, classifier, nil, engine, domain.LayoutScoreSectioned)

	text := "The toolbar should collapse on small screens to free canvas space."
	report, err := svc.PlacePoints(context.Background(), testSession(), "Sketch-Notes", points(text, text))
	require.NoError(t, err)

	assert.Equal(t, 1, report.Failed, "first occurrence fails card creation")
	assert.Equal(t, 0, report.Deduplicated, "a failed point must not poison the dedup set")
	assert.Equal(t, 1, report.Placed)
}

func TestPlacePointsMembershipIsExplicit(t *testing.T) {
	svc, board := placementFixture(t, "2")

	_, err := svc.PlacePoints(context.Background(), testSession(), "Sketch-Notes", points(
		"The toolbar should collapse on small screens to free canvas space.",
	))
	require.NoError(t, err)

	region, err := board.FindRegionByTitle(context.Background(), "Sketch-Notes")
	require.NoError(t, err)
	cards, err := board.GetCards(context.Background(), region.ID)
	require.NoError(t, err)
	assert.Len(t, cards, 1, "card membership is recorded, not inferred from coordinates")
}

func TestPlacePointsWithoutBoard(t *testing.T) {
	svc := NewPlacementService(nil, testClient(1), nil, nil, nil, nil, domain.LayoutScoreSectioned)

	_, err := svc.PlacePoints(context.Background(), testSession(), "Sketch-Notes", points("anything at all goes here"))
	assert.ErrorIs(t, err, domain.ErrBoardUnavailable)
}
