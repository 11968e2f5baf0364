// Package miro provides a board client adapter for the Miro REST API.
package miro

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/HowardHan99/codesignbot-sub001/internal/core/domain"
	"github.com/HowardHan99/codesignbot-sub001/internal/core/ports/driven"
)

// Ensure Board implements the interface.
var _ driven.BoardClient = (*Board)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.miro.com/v2"
	DefaultTimeout = 30 * time.Second
)

// Config holds configuration for the Miro board client.
type Config struct {
	// AccessToken is the platform OAuth bearer token (required).
	AccessToken string

	// BoardID is the target board (required).
	BoardID string

	// BaseURL is the API base URL (default: https://api.miro.com/v2).
	BaseURL string

	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration
}

// Board talks to one Miro board over REST.
type Board struct {
	client  *http.Client
	baseURL string
	token   string
	boardID string
}

// New creates a Miro board client.
func New(cfg Config) (*Board, error) {
	if cfg.AccessToken == "" {
		return nil, fmt.Errorf("miro: access token is required")
	}
	if cfg.BoardID == "" {
		return nil, fmt.Errorf("miro: board ID is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Board{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		token:   cfg.AccessToken,
		boardID: cfg.BoardID,
	}, nil
}

// item is the wire shape shared by frames and sticky notes.
type item struct {
	ID   string `json:"id"`
	Data struct {
		Title   string `json:"title,omitempty"`
		Content string `json:"content,omitempty"`
	} `json:"data"`
	Position struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	} `json:"position"`
	Geometry struct {
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	} `json:"geometry"`
}

// itemList is the paged list response.
type itemList struct {
	Data   []item `json:"data"`
	Cursor string `json:"cursor,omitempty"`
}

// apiError is the platform error envelope.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// FindRegionByTitle pages through the board's frames looking for an
// exact title match.
func (b *Board) FindRegionByTitle(ctx context.Context, title string) (*domain.Region, error) {
	cursor := ""
	for {
		q := url.Values{"type": {"frame"}, "limit": {"50"}}
		if cursor != "" {
			q.Set("cursor", cursor)
		}

		var list itemList
		if err := b.do(ctx, http.MethodGet, "/boards/"+url.PathEscape(b.boardID)+"/items?"+q.Encode(), nil, &list); err != nil {
			return nil, fmt.Errorf("list frames: %w", err)
		}

		for _, it := range list.Data {
			if it.Data.Title == title {
				return frameToRegion(it), nil
			}
		}

		if list.Cursor == "" {
			return nil, fmt.Errorf("frame %q: %w", title, domain.ErrNotFound)
		}
		cursor = list.Cursor
	}
}

// createFrameRequest is the frame creation body.
type createFrameRequest struct {
	Data struct {
		Title string `json:"title"`
	} `json:"data"`
	Position struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	} `json:"position"`
	Geometry struct {
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	} `json:"geometry"`
}

// CreateRegion creates a frame with the given geometry.
func (b *Board) CreateRegion(ctx context.Context, title string, x, y, w, h float64) (*domain.Region, error) {
	var req createFrameRequest
	req.Data.Title = title
	req.Position.X = x
	req.Position.Y = y
	req.Geometry.Width = w
	req.Geometry.Height = h

	var created item
	if err := b.do(ctx, http.MethodPost, "/boards/"+url.PathEscape(b.boardID)+"/frames", req, &created); err != nil {
		return nil, fmt.Errorf("create frame %q: %w", title, err)
	}
	return frameToRegion(created), nil
}

// GetCards returns the sticky notes whose parent is the given frame.
func (b *Board) GetCards(ctx context.Context, regionID string) ([]domain.Card, error) {
	var cards []domain.Card
	cursor := ""
	for {
		q := url.Values{"type": {"sticky_note"}, "parent_item_id": {regionID}, "limit": {"50"}}
		if cursor != "" {
			q.Set("cursor", cursor)
		}

		var list itemList
		if err := b.do(ctx, http.MethodGet, "/boards/"+url.PathEscape(b.boardID)+"/items?"+q.Encode(), nil, &list); err != nil {
			return nil, fmt.Errorf("list cards: %w", err)
		}

		for _, it := range list.Data {
			cards = append(cards, domain.Card{
				ID:       it.ID,
				Content:  it.Data.Content,
				X:        it.Position.X,
				Y:        it.Position.Y,
				Width:    it.Geometry.Width,
				RegionID: regionID,
			})
		}

		if list.Cursor == "" {
			return cards, nil
		}
		cursor = list.Cursor
	}
}

// createStickyRequest is the sticky note creation body.
type createStickyRequest struct {
	Data struct {
		Content string `json:"content"`
	} `json:"data"`
	Style struct {
		FillColor string `json:"fillColor,omitempty"`
	} `json:"style"`
	Position struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	} `json:"position"`
	Geometry struct {
		Width float64 `json:"width,omitempty"`
	} `json:"geometry"`
}

// CreateCard creates a sticky note at the given position.
func (b *Board) CreateCard(ctx context.Context, card domain.Card) (*domain.Card, error) {
	var req createStickyRequest
	req.Data.Content = card.Content
	req.Style.FillColor = card.Color
	req.Position.X = card.X
	req.Position.Y = card.Y
	req.Geometry.Width = card.Width

	var created item
	if err := b.do(ctx, http.MethodPost, "/boards/"+url.PathEscape(b.boardID)+"/sticky_notes", req, &created); err != nil {
		return nil, fmt.Errorf("create card: %w", err)
	}

	out := card
	out.ID = created.ID
	return &out, nil
}

// createConnectorRequest is the connector creation body.
type createConnectorRequest struct {
	StartItem struct {
		ID string `json:"id"`
	} `json:"startItem"`
	EndItem struct {
		ID string `json:"id"`
	} `json:"endItem"`
	Style struct {
		EndStrokeCap string `json:"endStrokeCap"`
	} `json:"style"`
}

// CreateLink creates a directional connector between two items.
func (b *Board) CreateLink(ctx context.Context, fromID, toID string) (*domain.Link, error) {
	var req createConnectorRequest
	req.StartItem.ID = fromID
	req.EndItem.ID = toID
	req.Style.EndStrokeCap = "arrow"

	var created struct {
		ID string `json:"id"`
	}
	if err := b.do(ctx, http.MethodPost, "/boards/"+url.PathEscape(b.boardID)+"/connectors", req, &created); err != nil {
		return nil, fmt.Errorf("create connector: %w", err)
	}
	return &domain.Link{ID: created.ID, FromID: fromID, ToID: toID}, nil
}

// AddToRegion re-parents an item under a frame, making membership an
// explicit relation rather than a coordinate coincidence.
func (b *Board) AddToRegion(ctx context.Context, regionID, itemID string) error {
	body := map[string]any{
		"parent": map[string]string{"id": regionID},
	}
	path := "/boards/" + url.PathEscape(b.boardID) + "/items/" + url.PathEscape(itemID)
	if err := b.do(ctx, http.MethodPatch, path, body, nil); err != nil {
		return fmt.Errorf("add to frame: %w", err)
	}
	return nil
}

// do runs one API request, decoding into out when non-nil.
func (b *Board) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+b.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, string(raw))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("miro error (status %d): %s", resp.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("miro error (status %d): %s", resp.StatusCode, string(raw))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func frameToRegion(it item) *domain.Region {
	return &domain.Region{
		ID:     it.ID,
		Title:  it.Data.Title,
		X:      it.Position.X,
		Y:      it.Position.Y,
		Width:  it.Geometry.Width,
		Height: it.Geometry.Height,
	}
}
