package services

import (
	"context"

	"github.com/HowardHan99/codesignbot-sub001/internal/core/domain"
	"github.com/HowardHan99/codesignbot-sub001/internal/core/ports/driven"
	"github.com/HowardHan99/codesignbot-sub001/internal/core/ports/driving"
	"github.com/HowardHan99/codesignbot-sub001/internal/layout"
	"github.com/HowardHan99/codesignbot-sub001/internal/logger"
	"github.com/HowardHan99/codesignbot-sub001/internal/resilience"
)

// Ensure PlacementService implements the interface.
var _ driving.Placer = (*PlacementService)(nil)

// PlacementService is the sequential placement loop: dedupe, classify,
// pack, create. Card creation and counter updates interleave step by
// step - never in parallel - so counters stay consistent without
// locks. One item's failure never aborts the batch.
type PlacementService struct {
	board      driven.BoardClient
	client     *resilience.Client
	regions    driving.RegionManager
	classifier driving.Classifier
	corpus     *CorpusProvider
	engine     *layout.Engine
	strategy   domain.LayoutStrategy
}

// NewPlacementService creates the placement orchestrator.
func NewPlacementService(
	board driven.BoardClient,
	client *resilience.Client,
	regions driving.RegionManager,
	classifier driving.Classifier,
	corpus *CorpusProvider,
	engine *layout.Engine,
	strategy domain.LayoutStrategy,
) *PlacementService {
	if !strategy.IsValid() {
		strategy = domain.LayoutScoreSectioned
	}
	return &PlacementService{
		board:      board,
		client:     client,
		regions:    regions,
		classifier: classifier,
		corpus:     corpus,
		engine:     engine,
		strategy:   strategy,
	}
}

// PlacePoints classifies and places a batch of points into the named
// region in order, advancing the session's counters as a side effect
// of each successful placement.
func (s *PlacementService) PlacePoints(ctx context.Context, session *domain.Session, regionTitle string, points []domain.DesignPoint) (driving.PlacementReport, error) {
	var report driving.PlacementReport

	if s.board == nil {
		return report, domain.ErrBoardUnavailable
	}

	region, err := s.regions.EnsureRegion(ctx, regionTitle, s.strategy)
	if err != nil {
		return report, err
	}

	// Preload the region's existing cards: their texts feed the
	// session's dedup set and their positions seed the packing
	// counters, so repeated runs neither duplicate earlier cards nor
	// place on top of them.
	existing, err := resilience.Call(ctx, s.client, "get region contents", func(ctx context.Context) ([]domain.Card, error) {
		return s.board.GetCards(ctx, region.ID)
	}, nil)
	if err != nil {
		logger.Warn("placement: could not preload %q: %v", regionTitle, err)
	}
	for _, card := range existing {
		session.MarkSeen(card.Content)
	}

	counters := session.Counters(region.ID)
	if counters.Total() == 0 {
		s.engine.SeedCounters(*region, existing, counters)
	}

	corpus := domain.ReferenceCorpus{}
	if s.corpus != nil {
		corpus = s.corpus.Corpus(ctx)
	}

	for _, point := range points {
		if session.Cancelled() || ctx.Err() != nil {
			logger.Info("placement cancelled after %d of %d points", report.Attempted, len(points))
			break
		}
		report.Attempted++

		if session.Seen(point.Text) {
			logger.Debug("placement: duplicate point skipped: %.40q", point.Text)
			report.Deduplicated++
			continue
		}

		eval := s.classifier.Evaluate(ctx, point, corpus)

		chunks := s.engine.SplitContent(point.Text)
		if len(chunks) == 0 {
			report.Failed++
			continue
		}

		placement, err := s.engine.Place(*region, eval.Score, counters, len(chunks))
		if err != nil {
			// Position validation failure is fatal for the item, not
			// for the batch.
			logger.Warn("placement: %v", err)
			report.Failed++
			continue
		}

		if s.placeRun(ctx, region, eval, placement, chunks) {
			// Only a placed point enters the dedup set; a failed one
			// stays eligible for a later batch.
			session.MarkSeen(point.Text)
			counters.Advance(eval.Score, placement.RowsConsumed)
			report.Placed++
		} else {
			report.Failed++
		}
	}

	logger.Info("placement report for %q: attempted=%d placed=%d deduplicated=%d failed=%d",
		regionTitle, report.Attempted, report.Placed, report.Deduplicated, report.Failed)
	return report, nil
}

// placeRun creates the card(s) for one point. Cards after the first
// sit at a fixed offset below the previous one and link back to it.
// Returns true when at least the first card was created.
func (s *PlacementService) placeRun(ctx context.Context, region *domain.Region, eval domain.Evaluation, placement domain.Placement, chunks []string) bool {
	baseColor := layout.CategoryColor(eval.Category)
	var prev *domain.Card

	for i, chunk := range chunks {
		x, y := s.engine.ChainPosition(placement.X, placement.Y, i)
		card := domain.Card{
			Content:  chunk,
			X:        x,
			Y:        y,
			Color:    layout.ChainColor(baseColor, i),
			RegionID: region.ID,
		}

		created, err := resilience.CallStrict(ctx, s.client, "create card", func(ctx context.Context) (*domain.Card, error) {
			return s.board.CreateCard(ctx, card)
		})
		if err != nil {
			if i == 0 {
				logger.Warn("placement: card creation failed: %v", err)
				return false
			}
			// A truncated chain keeps what was already placed.
			logger.Warn("placement: chain truncated at card %d: %v", i, err)
			return true
		}

		// Membership is an explicit relation recorded at creation,
		// not inferred from coordinates.
		_, _ = resilience.Call(ctx, s.client, "add to region", func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.board.AddToRegion(ctx, region.ID, created.ID)
		}, struct{}{})

		if prev != nil {
			_, _ = resilience.Call(ctx, s.client, "link chained cards", func(ctx context.Context) (*domain.Link, error) {
				return s.board.CreateLink(ctx, prev.ID, created.ID)
			}, nil)
		}
		prev = created
	}
	return true
}
