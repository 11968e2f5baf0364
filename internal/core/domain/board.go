package domain

// LayoutStrategy selects how the packing engine arranges cards inside
// a region. It is attached to region configuration at creation time,
// never inferred from the region title at placement time.
type LayoutStrategy string

// Available layout strategies.
const (
	// LayoutScoreSectioned divides the region into equal-width
	// vertical sections, one per score value, highest score leftmost.
	LayoutScoreSectioned LayoutStrategy = "score_sectioned"

	// LayoutGeneralGrid fills the region column-major without regard
	// to score, overflowing into stacked layers below the region.
	LayoutGeneralGrid LayoutStrategy = "general_grid"
)

// IsValid returns true if the layout strategy is recognised.
func (s LayoutStrategy) IsValid() bool {
	switch s {
	case LayoutScoreSectioned, LayoutGeneralGrid:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s LayoutStrategy) String() string {
	return string(s)
}

// Region is a named rectangular area on the canvas. Identity is the
// title, unique per board. Regions are created lazily on first use and
// never deleted by the pipeline.
type Region struct {
	// ID is the platform identifier.
	ID string

	// Title is the region name and its identity on the board.
	Title string

	// X, Y are the centre coordinates.
	X float64
	Y float64

	// Width and Height are the region dimensions.
	Width  float64
	Height float64

	// Strategy selects the packing algorithm for this region.
	Strategy LayoutStrategy
}

// Left returns the x coordinate of the region's left edge.
func (r Region) Left() float64 { return r.X - r.Width/2 }

// Right returns the x coordinate of the region's right edge.
func (r Region) Right() float64 { return r.X + r.Width/2 }

// Top returns the y coordinate of the region's top edge.
func (r Region) Top() float64 { return r.Y - r.Height/2 }

// Bottom returns the y coordinate of the region's bottom edge.
func (r Region) Bottom() float64 { return r.Y + r.Height/2 }

// Contains reports whether the point (x, y) lies inside the region,
// shrunk by margin on every side. Used purely as a placement-validity
// check, never as the mechanism of region membership.
func (r Region) Contains(x, y, margin float64) bool {
	return x >= r.Left()+margin && x <= r.Right()-margin &&
		y >= r.Top()+margin && y <= r.Bottom()-margin
}

// Card is one visual artifact placed at a coordinate. A DesignPoint
// whose text exceeds the per-card ceiling produces a chained run of
// cards connected by directional links.
type Card struct {
	// ID is the platform identifier.
	ID string

	// Content is the card text, at most the per-card character limit.
	Content string

	// X, Y are the centre coordinates.
	X float64
	Y float64

	// Width is the card width; height follows from platform defaults.
	Width float64

	// Color is the fill color. Cards in a chained run share a family,
	// each subsequent card a deterministically darkened shade.
	Color string

	// RegionID is the explicit parent region, recorded at creation.
	RegionID string
}

// Link is a directional connector between two cards in a chained run.
type Link struct {
	// ID is the platform identifier.
	ID string

	// FromID and ToID are the connected card IDs, in reading order.
	FromID string
	ToID   string
}

// Placement is the packing engine's output for one point: the anchor
// position for the first card and the number of layout row slots the
// whole run consumed.
type Placement struct {
	// X, Y are the centre coordinates of the first card.
	X float64
	Y float64

	// RowsConsumed is added to the score's counter so subsequent
	// placements do not overlap the run.
	RowsConsumed int
}
