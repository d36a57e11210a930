package strategy

import (
	"fmt"
	"math"
	"strings"

	"github.com/srbhr/Resume-Matcher-sub001/types"
)

// Default tuning for AvoidSplit.
const (
	DefaultFillThreshold = 0.5
	DefaultMinProgressPx = 100.0
)

// TieBreak selects the block that moves a break when several atomic blocks
// straddle the same candidate offset.
type TieBreak int

const (
	// TieBreakFirst uses the first straddling block in document order.
	TieBreakFirst TieBreak = iota

	// TieBreakNearest uses the straddling block whose top is closest to the
	// candidate break, i.e. the innermost or latest-starting one.
	TieBreakNearest
)

// String returns the configuration name of the policy.
func (tb TieBreak) String() string {
	switch tb {
	case TieBreakFirst:
		return "first"
	case TieBreakNearest:
		return "nearest"
	default:
		return "unknown"
	}
}

// ParseTieBreak resolves a policy by configuration name. An empty name
// selects TieBreakFirst.
func ParseTieBreak(name string) (TieBreak, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "first":
		return TieBreakFirst, nil
	case "nearest":
		return TieBreakNearest, nil
	default:
		return TieBreakFirst, fmt.Errorf("%w: %q", ErrUnknownTieBreak, name)
	}
}

// AvoidSplit places page breaks so that atomic blocks stay whole when
// that does not waste too much of a page.
type AvoidSplit struct {
	fillThreshold float64
	minProgress   float64
	tieBreak      TieBreak
}

var _ types.BreakStrategy = (*AvoidSplit)(nil)

// AvoidSplitOption configures an AvoidSplit strategy.
type AvoidSplitOption func(*AvoidSplit)

// NewAvoidSplit creates a new split-avoiding break strategy.
//
// Parameters:
//   - opts: Optional configuration (WithFillThreshold, WithMinProgress, WithTieBreak)
//
// Returns:
//   - *AvoidSplit: Strategy with fill threshold 0.5, minimum progress 100px and
//     first-in-document-order tie-breaking unless overridden
//
// Example:
//
//	s := strategy.NewAvoidSplit(
//	    strategy.WithFillThreshold(0.2),
//	    strategy.WithTieBreak(strategy.TieBreakNearest),
//	)
//	pages := s.Paginate(contentHeight, area.Height, blocks)
func NewAvoidSplit(opts ...AvoidSplitOption) *AvoidSplit {
	s := &AvoidSplit{
		fillThreshold: DefaultFillThreshold,
		minProgress:   DefaultMinProgressPx,
		tieBreak:      TieBreakFirst,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithFillThreshold sets the minimum fraction of a page that must already be
// used before a break is pulled up to keep a block whole.
//
// Lower values keep more blocks whole at the cost of emptier pages.
// Expected range: (0, 1).
func WithFillThreshold(threshold float64) AvoidSplitOption {
	return func(s *AvoidSplit) {
		s.fillThreshold = threshold
	}
}

// WithMinProgress sets the minimum forward advance, in pixels, a moved break
// must make. A break that would advance less falls back to a full page.
func WithMinProgress(px float64) AvoidSplitOption {
	return func(s *AvoidSplit) {
		if math.IsNaN(px) {
			px = 0
		}
		s.minProgress = px
	}
}

// WithTieBreak sets the policy used when several blocks straddle one break.
func WithTieBreak(tb TieBreak) AvoidSplitOption {
	return func(s *AvoidSplit) {
		s.tieBreak = tb
	}
}

// FillThreshold returns the configured fill threshold.
func (s *AvoidSplit) FillThreshold() float64 { return s.fillThreshold }

// MinProgress returns the configured minimum progress in pixels.
func (s *AvoidSplit) MinProgress() float64 { return s.minProgress }

// TieBreak returns the configured tie-break policy.
func (s *AvoidSplit) TieBreak() TieBreak { return s.tieBreak }

// Paginate computes page breaks in a single forward pass.
//
// The algorithm:
//  1. If the content fits one page, return [0, contentHeight)
//  2. Otherwise propose a break one page height below the current offset
//  3. If an atomic block straddles the proposal and its top still leaves the
//     page more than FillThreshold full, move the break to the block's top
//  4. If the break would advance no more than MinProgress, use a full page instead
//  5. Repeat from the new offset; the remainder becomes the last page
//
// Parameters:
//   - contentHeight: Total content height in pixels (negative values count as 0)
//   - pageHeight: Content-area height in pixels (non-positive yields one page)
//   - blocks: Atomic blocks in document order
//
// Returns:
//   - []types.PageBreak: Pages partitioning [0, contentHeight), numbered from 1
func (s *AvoidSplit) Paginate(contentHeight, pageHeight float64, blocks []types.AtomicBlock) []types.PageBreak {
	return chunk(contentHeight, pageHeight, func(offset, candidate float64) float64 {
		if block, ok := s.straddler(blocks, candidate); ok {
			if block.Top > offset+pageHeight*s.fillThreshold {
				candidate = block.Top
			}
		}

		if candidate <= offset+s.minProgress {
			candidate = offset + pageHeight
		}

		return candidate
	})
}

// straddler returns the block that governs a break at candidate.
func (s *AvoidSplit) straddler(blocks []types.AtomicBlock, candidate float64) (types.AtomicBlock, bool) {
	var (
		found types.AtomicBlock
		ok    bool
	)

	for _, b := range blocks {
		if !b.Straddles(candidate) {
			continue
		}
		if s.tieBreak == TieBreakFirst {
			return b, true
		}
		if !ok || b.Top > found.Top {
			found, ok = b, true
		}
	}

	return found, ok
}
