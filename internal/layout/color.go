package layout

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/HowardHan99/codesignbot-sub001/internal/core/domain"
)

// Card fill colors per relevance category.
const (
	colorRelevant    = "#FFF9B1" // light yellow
	colorNotRelevant = "#D5F692" // light green
)

// darkenFactor is applied once per chain position, so the n-th card in
// a run is the base color scaled by darkenFactor^n.
const darkenFactor = 0.85

// CategoryColor returns the base fill color for a relevance category.
func CategoryColor(cat domain.RelevanceCategory) string {
	if cat == domain.CategoryNotRelevant {
		return colorNotRelevant
	}
	return colorRelevant
}

// ChainColor returns the fill color for the i-th card (0-based) in a
// chained run: the base color darkened deterministically per step so
// the run reads as one family.
func ChainColor(base string, i int) string {
	for ; i > 0; i-- {
		base = darken(base)
	}
	return base
}

// darken scales each RGB channel of a #RRGGBB color by darkenFactor.
// Unparseable colors are returned unchanged.
func darken(hex string) string {
	s := strings.TrimPrefix(hex, "#")
	if len(s) != 6 {
		return hex
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return hex
	}
	r := uint32(float64(v>>16&0xFF) * darkenFactor)
	g := uint32(float64(v>>8&0xFF) * darkenFactor)
	b := uint32(float64(v&0xFF) * darkenFactor)
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}
