package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/HowardHan99/codesignbot-sub001/internal/core/domain"
	"github.com/HowardHan99/codesignbot-sub001/internal/core/ports/driven"
	"github.com/HowardHan99/codesignbot-sub001/internal/core/ports/driving"
	"github.com/HowardHan99/codesignbot-sub001/internal/logger"
	"github.com/HowardHan99/codesignbot-sub001/internal/resilience"
)

// Ensure RegionService implements the interface.
var _ driving.RegionManager = (*RegionService)(nil)

// RegionService finds-or-creates named regions and queries their
// contents. Regions are identified by title and created lazily with
// the configured default geometry; the service never deletes them.
type RegionService struct {
	board  driven.BoardClient
	client *resilience.Client
	cfg    domain.LayoutSettings
}

// NewRegionService creates a region manager.
func NewRegionService(board driven.BoardClient, client *resilience.Client, cfg domain.LayoutSettings) *RegionService {
	return &RegionService{board: board, client: client, cfg: cfg}
}

// EnsureRegion returns the region with the given title, creating it
// with default geometry when absent. The layout strategy is attached
// at creation time and re-applied on lookup so placement never infers
// it from the title.
func (s *RegionService) EnsureRegion(ctx context.Context, title string, strategy domain.LayoutStrategy) (*domain.Region, error) {
	if s.board == nil {
		return nil, domain.ErrBoardUnavailable
	}
	if !strategy.IsValid() {
		strategy = domain.LayoutScoreSectioned
	}

	region, err := resilience.CallStrict(ctx, s.client, "find region", func(ctx context.Context) (*domain.Region, error) {
		r, err := s.board.FindRegionByTitle(ctx, title)
		if errors.Is(err, domain.ErrNotFound) {
			// Not-found is a deterministic answer, not a transient
			// fault; retrying only delays the create path.
			return nil, resilience.Permanent(err)
		}
		return r, err
	})
	if err == nil {
		region.Strategy = strategy
		return region, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("find region %q: %w", title, err)
	}

	logger.Info("region %q not found, creating with default geometry", title)
	region, err = resilience.CallStrict(ctx, s.client, "create region", func(ctx context.Context) (*domain.Region, error) {
		return s.board.CreateRegion(ctx, title, 0, 0, s.cfg.RegionWidth, s.cfg.RegionHeight)
	})
	if err != nil {
		return nil, fmt.Errorf("create region %q: %w", title, err)
	}
	region.Strategy = strategy
	return region, nil
}

// Contents returns the card texts currently inside the region, used
// for deduplication and corpus retrieval.
func (s *RegionService) Contents(ctx context.Context, region *domain.Region) ([]string, error) {
	if s.board == nil {
		return nil, domain.ErrBoardUnavailable
	}

	cards, err := resilience.Call(ctx, s.client, "get region contents", func(ctx context.Context) ([]domain.Card, error) {
		return s.board.GetCards(ctx, region.ID)
	}, nil)
	if err != nil {
		return nil, err
	}

	texts := make([]string, 0, len(cards))
	for _, c := range cards {
		if c.Content != "" {
			texts = append(texts, c.Content)
		}
	}
	return texts, nil
}

// CorpusProvider serves the reference corpus from a named region,
// refreshed on a TTL so repeated classifications in one session do not
// hammer the board. Staleness inside the TTL window is accepted.
type CorpusProvider struct {
	regions driving.RegionManager
	cfg     domain.ClassificationSettings

	mu     sync.Mutex
	cached domain.ReferenceCorpus
	valid  bool
	now    func() time.Time
}

// NewCorpusProvider creates a corpus provider over the region manager.
func NewCorpusProvider(regions driving.RegionManager, cfg domain.ClassificationSettings) *CorpusProvider {
	return &CorpusProvider{regions: regions, cfg: cfg, now: time.Now}
}

// Corpus returns the current reference corpus. Retrieval failures
// degrade to an empty corpus, which classification treats as
// everything-relevant. Safe for concurrent use; callers arriving
// during a refresh wait for it rather than racing their own.
func (p *CorpusProvider) Corpus(ctx context.Context) domain.ReferenceCorpus {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.valid && p.now().Sub(p.cached.FetchedAt) < p.cfg.CorpusTTL {
		return p.cached
	}

	region, err := p.regions.EnsureRegion(ctx, p.cfg.CorpusRegion, domain.LayoutGeneralGrid)
	if err != nil {
		logger.Warn("corpus: region %q unavailable: %v", p.cfg.CorpusRegion, err)
		return domain.ReferenceCorpus{}
	}

	entries, err := p.regions.Contents(ctx, region)
	if err != nil {
		logger.Warn("corpus: contents of %q unavailable: %v", p.cfg.CorpusRegion, err)
		return domain.ReferenceCorpus{}
	}

	p.cached = domain.ReferenceCorpus{Entries: entries, FetchedAt: p.now()}
	p.valid = true
	return p.cached
}
