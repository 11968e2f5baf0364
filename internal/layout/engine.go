package layout

import (
	"fmt"

	"github.com/HowardHan99/codesignbot-sub001/internal/core/domain"
)

// Engine computes card positions inside bounded regions.
type Engine struct {
	cfg   domain.LayoutSettings
	scale domain.ScoreScale
}

// New creates an engine for the given layout settings and score scale.
func New(cfg domain.LayoutSettings, scale domain.ScoreScale) *Engine {
	return &Engine{cfg: cfg, scale: scale}
}

// Place computes the anchor position for one point's card run and the
// number of row slots the run consumes. chunks is the split card
// content count (>= 1). Returns domain.ErrOutOfBounds when the
// position cannot be kept inside the region even after clamping.
func (e *Engine) Place(region domain.Region, score int, counters *domain.PlacementCounters, chunks int) (domain.Placement, error) {
	if chunks < 1 {
		chunks = 1
	}

	var x, y float64
	switch region.Strategy {
	case domain.LayoutGeneralGrid:
		x, y = e.gridPosition(region, counters.Total())
	default:
		x, y = e.sectionedPosition(region, score, counters)
	}

	x, y = e.clampIntoRegion(region, x, y)

	// Grid layers deliberately stack below the region, so the bottom
	// bound extends by the layer height; everything else must stay
	// inside the region proper.
	if !e.withinBounds(region, x, y) {
		return domain.Placement{}, fmt.Errorf("%w: (%.0f, %.0f) in %q", domain.ErrOutOfBounds, x, y, region.Title)
	}

	return domain.Placement{X: x, Y: y, RowsConsumed: chunks}, nil
}

// topStart is the y centre of the first row, below the reserved
// header band.
func (e *Engine) topStart(region domain.Region) float64 {
	return region.Top() + e.cfg.TopMargin + e.cfg.RowHeight/2
}

// itemsPerColumn is how many rows fit between the header band and the
// bottom margin.
func (e *Engine) itemsPerColumn(region domain.Region) int {
	usable := region.Height - e.cfg.TopMargin - e.cfg.Margin
	n := int(usable / e.cfg.RowHeight)
	if n < 1 {
		return 1
	}
	return n
}

// sectionColumns is how many card columns fit inside one score section.
func (e *Engine) sectionColumns(sectionWidth float64) int {
	usable := sectionWidth - 2*e.cfg.Margin + e.cfg.CardSpacing
	n := int(usable / (e.cfg.CardWidth + e.cfg.CardSpacing))
	if n < 1 {
		return 1
	}
	return n
}

// sectionedPosition implements the score-sectioned layout: the region
// is divided into one equal-width vertical section per score value,
// highest score leftmost, filled column-major within a section.
func (e *Engine) sectionedPosition(region domain.Region, score int, counters *domain.PlacementCounters) (float64, float64) {
	score = e.scale.Clamp(score)
	sectionWidth := region.Width / float64(e.scale.Buckets())
	sectionIdx := e.scale.Max - score
	sectionLeft := region.Left() + float64(sectionIdx)*sectionWidth

	counter := counters.Get(score)
	perColumn := e.itemsPerColumn(region)
	column := counter / perColumn
	row := counter % perColumn

	maxCols := e.sectionColumns(sectionWidth)
	if column >= maxCols {
		// The section is full across its width. Borrow a column from
		// the adjacent score's section when it still has room,
		// filling from that section's far edge so borrowed cards
		// cannot collide with the neighbour's own columns.
		over := column - maxCols
		if nb, ok := e.adjacentScore(score); ok {
			nbUsed := ceilDiv(counters.Get(nb), perColumn)
			if nbUsed+over < maxCols {
				nbIdx := e.scale.Max - nb
				nbLeft := region.Left() + float64(nbIdx)*sectionWidth
				x := nbLeft + sectionWidth - e.cfg.Margin - e.cfg.CardWidth/2 -
					float64(over)*(e.cfg.CardWidth+e.cfg.CardSpacing)
				return x, e.topStart(region) + float64(row)*e.cfg.RowHeight
			}
		}
		// No room next door: start a new row band in this section.
		band := column / maxCols
		column = column % maxCols
		row += band * perColumn
	}

	x := sectionLeft + e.cfg.Margin + e.cfg.CardWidth/2 +
		float64(column)*(e.cfg.CardWidth+e.cfg.CardSpacing)
	y := e.topStart(region) + float64(row)*e.cfg.RowHeight

	if y+e.cfg.RowHeight/2 > region.Bottom()-e.cfg.Margin {
		// Row would overflow the bottom edge: shift to the next
		// column instead.
		shifted := x + e.cfg.CardWidth + e.cfg.CardSpacing
		if shifted+e.cfg.CardWidth/2+e.cfg.Margin <= sectionLeft+sectionWidth {
			return shifted, e.topStart(region)
		}
		// That would leave the section too: anchor at the bottom to
		// keep content inside bounds.
		y = region.Bottom() - e.cfg.Margin - e.cfg.RowHeight/2
	}

	return x, y
}

// adjacentScore picks the neighbouring score bucket whose section sits
// next to the given score's section: the next lower score (to the
// right) normally, the next higher for the lowest score.
func (e *Engine) adjacentScore(score int) (int, bool) {
	if e.scale.Buckets() < 2 {
		return 0, false
	}
	if score > e.scale.Min {
		return score - 1, true
	}
	return score + 1, true
}

// gridPosition implements the general multi-column layout. Once a full
// grid of maxColumns x itemsPerColumn is filled, placement continues
// in a vertically stacked layer below the previous one.
func (e *Engine) gridPosition(region domain.Region, total int) (float64, float64) {
	perColumn := e.gridItemsPerColumn(region)
	maxCols := e.gridColumns(region)

	perLayer := perColumn * maxCols
	layer := total / perLayer
	idx := total % perLayer
	column := idx / perColumn
	row := idx % perColumn

	x := region.Left() + e.cfg.Margin + e.cfg.CardWidth/2 +
		float64(column)*(e.cfg.CardWidth+e.cfg.CardSpacing)
	y := e.topStart(region) + float64(row)*e.cfg.RowHeight +
		float64(layer)*e.layerHeight(region)
	return x, y
}

// gridColumns is at least 2 regardless of region width.
func (e *Engine) gridColumns(region domain.Region) int {
	effective := region.Width - 2*e.cfg.Margin
	n := int(effective / (e.cfg.CardWidth + e.cfg.CardSpacing))
	if n < 2 {
		return 2
	}
	return n
}

// gridItemsPerColumn is at least 6 regardless of region height.
func (e *Engine) gridItemsPerColumn(region domain.Region) int {
	effective := region.Height - e.cfg.TopMargin - e.cfg.Margin
	n := int(effective / e.cfg.RowHeight)
	if n < 6 {
		return 6
	}
	return n
}

// layerHeight is the vertical pitch between stacked overflow layers.
func (e *Engine) layerHeight(region domain.Region) float64 {
	return float64(e.gridItemsPerColumn(region))*e.cfg.RowHeight + e.cfg.RowHeight
}

// clampIntoRegion forces a position into the region interior, half a
// card plus margin off every edge. Grid overflow layers clamp x only:
// their depth is validated, not clamped, so a run past the layer cap
// is rejected instead of piling onto the deepest layer.
func (e *Engine) clampIntoRegion(region domain.Region, x, y float64) (float64, float64) {
	minX := region.Left() + e.cfg.CardWidth/2 + e.cfg.Margin
	maxX := region.Right() - e.cfg.CardWidth/2 - e.cfg.Margin
	x = clamp(x, minX, maxX)

	minY := region.Top() + e.cfg.RowHeight/2 + e.cfg.Margin
	if region.Strategy == domain.LayoutGeneralGrid {
		if y < minY {
			y = minY
		}
		return x, y
	}
	maxY := e.bottomBound(region) - e.cfg.RowHeight/2
	y = clamp(y, minY, maxY)
	return x, y
}

// withinBounds re-checks a position after clamping. Sectioned
// positions only fail when a region narrower than one card plus
// margins makes the clamp window degenerate; grid positions fail when
// the overflow layer cap is exceeded.
func (e *Engine) withinBounds(region domain.Region, x, y float64) bool {
	if x < region.Left() || x > region.Right() {
		return false
	}
	return y >= region.Top() && y <= e.bottomBound(region)
}

// bottomBound is the region bottom minus margin, extended for grid
// regions so stacked overflow layers validate up to the layer cap.
func (e *Engine) bottomBound(region domain.Region) float64 {
	bottom := region.Bottom() - e.cfg.Margin
	if region.Strategy == domain.LayoutGeneralGrid {
		bottom += maxOverflowLayers * e.layerHeight(region)
	}
	return bottom
}

// maxOverflowLayers bounds how far below a grid region stacked layers
// may extend before placement is rejected.
const maxOverflowLayers = 8

// SeedCounters replays existing region cards into zeroed counters so
// a new session packs after them instead of over them. Each card
// consumes one row slot in the score bucket its x position falls in;
// grid regions only consult the total.
func (e *Engine) SeedCounters(region domain.Region, cards []domain.Card, counters *domain.PlacementCounters) {
	for _, card := range cards {
		counters.Advance(e.scoreAt(region, card.X), 1)
	}
}

// scoreAt inverts the sectioned x mapping: the score whose section
// contains x. Positions outside the region clamp to the edge buckets.
func (e *Engine) scoreAt(region domain.Region, x float64) int {
	sectionWidth := region.Width / float64(e.scale.Buckets())
	if sectionWidth <= 0 {
		return e.scale.Max
	}
	idx := int((x - region.Left()) / sectionWidth)
	return e.scale.Clamp(e.scale.Max - idx)
}

// ChainPosition returns the centre of the i-th card (0-based) in a
// chained run anchored at (x, y). Cards after the first sit at a fixed
// vertical offset below the previous one, outside the normal packing
// formula.
func (e *Engine) ChainPosition(x, y float64, i int) (float64, float64) {
	return x, y + float64(i)*e.cfg.ChainOffset
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		// Degenerate window: collapse to its midpoint so the caller's
		// bounds re-check decides.
		return (lo + hi) / 2
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
