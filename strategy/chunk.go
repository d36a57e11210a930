package strategy

import (
	"math"

	"github.com/srbhr/Resume-Matcher-sub001/types"
)

// adjustFunc may move a candidate break earlier. It returns the break to use.
type adjustFunc func(offset, candidate float64) float64

// chunk runs the single forward pass shared by all strategies.
//
// The returned pages always partition [0, contentHeight).
func chunk(contentHeight, pageHeight float64, adjust adjustFunc) []types.PageBreak {
	contentHeight = sanitizeHeight(contentHeight)

	// A NaN page height fails every comparison, so test for the positive case.
	if !(pageHeight > 0) || contentHeight <= pageHeight {
		return []types.PageBreak{{PageNumber: 1, ContentOffset: 0, ContentEnd: contentHeight}}
	}

	pages := make([]types.PageBreak, 0, int(contentHeight/pageHeight)+1)
	offset := 0.0
	for offset+pageHeight < contentHeight {
		candidate := offset + pageHeight
		if adjust != nil {
			candidate = adjust(offset, candidate)
		}
		// Float precision can swallow a tiny page height at large offsets.
		if candidate <= offset {
			break
		}

		pages = append(pages, types.PageBreak{
			PageNumber:    len(pages) + 1,
			ContentOffset: offset,
			ContentEnd:    candidate,
		})
		offset = candidate
	}

	return append(pages, types.PageBreak{
		PageNumber:    len(pages) + 1,
		ContentOffset: offset,
		ContentEnd:    contentHeight,
	})
}

// sanitizeHeight maps negative, NaN and infinite heights to 0.
func sanitizeHeight(h float64) float64 {
	if math.IsNaN(h) || math.IsInf(h, 0) || h < 0 {
		return 0
	}

	return h
}
