// Package memory provides an in-memory implementation of the board
// client, used by tests and by dry-run placement.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/HowardHan99/codesignbot-sub001/internal/core/domain"
	"github.com/HowardHan99/codesignbot-sub001/internal/core/ports/driven"
)

// Ensure Board implements the interface.
var _ driven.BoardClient = (*Board)(nil)

// Board is an in-memory board. All objects live in process memory and
// are discarded with the Board.
type Board struct {
	mu        sync.RWMutex
	regions   map[string]domain.Region // by ID
	cards     map[string]domain.Card   // by ID
	links     []domain.Link
	children  map[string][]string // region ID -> item IDs
	callCount map[string]int
}

// New creates an empty in-memory board.
func New() *Board {
	return &Board{
		regions:   make(map[string]domain.Region),
		cards:     make(map[string]domain.Card),
		children:  make(map[string][]string),
		callCount: make(map[string]int),
	}
}

// FindRegionByTitle looks a region up by its title.
func (b *Board) FindRegionByTitle(_ context.Context, title string) (*domain.Region, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.callCount["find_region"]++
	for _, r := range b.regions {
		if r.Title == title {
			found := r
			return &found, nil
		}
	}
	return nil, fmt.Errorf("region %q: %w", title, domain.ErrNotFound)
}

// CreateRegion creates a region with the given geometry.
func (b *Board) CreateRegion(_ context.Context, title string, x, y, w, h float64) (*domain.Region, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.callCount["create_region"]++
	r := domain.Region{
		ID:     uuid.New().String(),
		Title:  title,
		X:      x,
		Y:      y,
		Width:  w,
		Height: h,
	}
	b.regions[r.ID] = r
	return &r, nil
}

// GetCards returns the cards whose explicit parent is the region.
func (b *Board) GetCards(_ context.Context, regionID string) ([]domain.Card, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []domain.Card
	for _, id := range b.children[regionID] {
		if c, ok := b.cards[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// CreateCard creates a card and returns it with an assigned ID.
func (b *Board) CreateCard(_ context.Context, card domain.Card) (*domain.Card, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.callCount["create_card"]++
	card.ID = uuid.New().String()
	b.cards[card.ID] = card
	return &card, nil
}

// CreateLink records a directional connector between two cards.
func (b *Board) CreateLink(_ context.Context, fromID, toID string) (*domain.Link, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.callCount["create_link"]++
	l := domain.Link{ID: uuid.New().String(), FromID: fromID, ToID: toID}
	b.links = append(b.links, l)
	return &l, nil
}

// AddToRegion records explicit parent/child membership.
func (b *Board) AddToRegion(_ context.Context, regionID, itemID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.children[regionID] = append(b.children[regionID], itemID)
	return nil
}

// Cards returns a snapshot of every card on the board, for assertions.
func (b *Board) Cards() []domain.Card {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]domain.Card, 0, len(b.cards))
	for _, c := range b.cards {
		out = append(out, c)
	}
	return out
}

// Links returns a snapshot of every link on the board.
func (b *Board) Links() []domain.Link {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]domain.Link(nil), b.links...)
}

// Calls returns how often the named operation ran.
func (b *Board) Calls(op string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.callCount[op]
}
