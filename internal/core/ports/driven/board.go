package driven

import (
	"context"

	"github.com/HowardHan99/codesignbot-sub001/internal/core/domain"
)

// BoardClient is the canvas platform boundary. The pipeline only ever
// creates and queries; it never deletes board objects.
type BoardClient interface {
	// FindRegionByTitle looks a region up by its title.
	// Returns domain.ErrNotFound if no region carries the title.
	FindRegionByTitle(ctx context.Context, title string) (*domain.Region, error)

	// CreateRegion creates a region with the given geometry.
	CreateRegion(ctx context.Context, title string, x, y, w, h float64) (*domain.Region, error)

	// GetCards returns the cards whose explicit parent is the region.
	GetCards(ctx context.Context, regionID string) ([]domain.Card, error)

	// CreateCard creates a card at the given position. The returned
	// card carries the platform-assigned ID.
	CreateCard(ctx context.Context, card domain.Card) (*domain.Card, error)

	// CreateLink creates a directional connector between two cards.
	CreateLink(ctx context.Context, fromID, toID string) (*domain.Link, error)

	// AddToRegion records explicit parent/child membership. Membership
	// is a relation established at creation time, never inferred from
	// coordinates.
	AddToRegion(ctx context.Context, regionID, itemID string) error
}
