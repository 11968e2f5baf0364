package mcp

import (
	"context"

	"github.com/HowardHan99/codesignbot-sub001/internal/core/domain"
	"github.com/HowardHan99/codesignbot-sub001/internal/core/ports/driving"
)

// CorpusSource supplies the reference corpus for ad-hoc evaluations.
type CorpusSource interface {
	Corpus(ctx context.Context) domain.ReferenceCorpus
}

// Ports aggregates all driving port interfaces required by the MCP
// server. This provides a single injection point for dependency
// injection.
type Ports struct {
	// Classifier scores points against the reference corpus.
	Classifier driving.Classifier

	// Placer places batches of points into regions.
	Placer driving.Placer

	// Regions finds or creates regions and lists their contents.
	Regions driving.RegionManager

	// Corpus supplies the reference corpus for evaluate_point.
	Corpus CorpusSource

	// Scale is the score scale sessions are created with.
	Scale domain.ScoreScale
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Classifier == nil {
		return ErrMissingClassifier
	}
	if p.Placer == nil {
		return ErrMissingPlacer
	}
	if p.Regions == nil {
		return ErrMissingRegions
	}
	return nil
}
