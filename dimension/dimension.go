// Package dimension converts physical page geometry into pixel content areas.
//
// All functions are pure. Pixels are CSS pixels at a fixed density of
// 96 px per inch (96 px / 25.4 mm).
package dimension

import (
	"math"

	"github.com/srbhr/Resume-Matcher-sub001/types"
)

// PxPerMM is the fixed conversion ratio between millimeters and CSS pixels.
const PxPerMM = 96.0 / 25.4

// MMToPx converts millimeters to pixels.
func MMToPx(mm float64) float64 {
	return mm * PxPerMM
}

// PxToMM converts pixels to millimeters.
func PxToMM(px float64) float64 {
	return px / PxPerMM
}

// ContentArea returns the page area left after margins, in pixels.
//
// Margins are not validated here. Oversized margins yield a non-positive
// width or height rather than an error; the break calculator degrades such
// a page height to a single page.
//
// Example:
//
//	area := dimension.ContentArea(types.PageSizeA4, types.Margins{Top: 10, Bottom: 10, Left: 10, Right: 10})
//	// area.Height ≈ 1046.93 (277mm)
func ContentArea(size types.PageSize, margins types.Margins) types.ContentArea {
	return types.ContentArea{
		Width:  MMToPx(size.WidthMM - margins.Left - margins.Right),
		Height: MMToPx(size.HeightMM - margins.Top - margins.Bottom),
	}
}

// ClampMargins clamps every side to [types.MinMarginMM, types.MaxMarginMM].
//
// This is a helper for callers that accept free-form margin input; the
// controller itself expects already-clamped values. NaN sides become the
// minimum.
func ClampMargins(m types.Margins) types.Margins {
	return types.Margins{
		Top:    clamp(m.Top),
		Bottom: clamp(m.Bottom),
		Left:   clamp(m.Left),
		Right:  clamp(m.Right),
	}
}

func clamp(v float64) float64 {
	if math.IsNaN(v) {
		return types.MinMarginMM
	}

	return math.Min(math.Max(v, types.MinMarginMM), types.MaxMarginMM)
}
