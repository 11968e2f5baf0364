package mcp

import (
	"context"

	"github.com/HowardHan99/codesignbot-sub001/internal/core/domain"
	"github.com/HowardHan99/codesignbot-sub001/internal/core/ports/driving"
)

// mockClassifier implements driving.Classifier for testing.
type mockClassifier struct {
	eval domain.Evaluation
}

func (m *mockClassifier) Evaluate(_ context.Context, _ domain.DesignPoint, _ domain.ReferenceCorpus) domain.Evaluation {
	return m.eval
}

// mockPlacer implements driving.Placer for testing.
type mockPlacer struct {
	report driving.PlacementReport
	err    error

	lastRegion string
	lastPoints []domain.DesignPoint
}

func (m *mockPlacer) PlacePoints(_ context.Context, _ *domain.Session, regionTitle string, points []domain.DesignPoint) (driving.PlacementReport, error) {
	m.lastRegion = regionTitle
	m.lastPoints = points
	return m.report, m.err
}

// mockRegions implements driving.RegionManager for testing.
type mockRegions struct {
	region   *domain.Region
	contents []string
	err      error
}

func (m *mockRegions) EnsureRegion(_ context.Context, title string, strategy domain.LayoutStrategy) (*domain.Region, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.region != nil {
		return m.region, nil
	}
	return &domain.Region{ID: "r1", Title: title, Strategy: strategy}, nil
}

func (m *mockRegions) Contents(_ context.Context, _ *domain.Region) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.contents, nil
}

// mockCorpus implements CorpusSource for testing.
type mockCorpus struct {
	corpus domain.ReferenceCorpus
}

func (m *mockCorpus) Corpus(_ context.Context) domain.ReferenceCorpus {
	return m.corpus
}
