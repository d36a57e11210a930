package types

import (
	"encoding/binary"
	"math"

	"github.com/zeebo/xxh3"
)

// AtomicBlock is a span of flowed content, in pixels, that should not be
// split across a page boundary when avoidable.
type AtomicBlock struct {
	Top    float64 `json:"top" yaml:"top"`
	Bottom float64 `json:"bottom" yaml:"bottom"`
}

// Straddles reports whether the block crosses the given break offset.
func (b AtomicBlock) Straddles(offset float64) bool {
	return b.Top < offset && b.Bottom > offset
}

// PageBreak is the half-open span [ContentOffset, ContentEnd) of flowed
// content assigned to one page. PageNumber is 1-based.
type PageBreak struct {
	PageNumber    int     `json:"pageNumber"`
	ContentOffset float64 `json:"contentOffset"`
	ContentEnd    float64 `json:"contentEnd"`
}

// Height returns the span length.
func (p PageBreak) Height() float64 {
	return p.ContentEnd - p.ContentOffset
}

// Layout is an immutable pagination snapshot.
//
// A Layout is produced fresh on every recomputation and replaced wholesale;
// it is never patched in place. Pages always partition
// [0, TotalContentHeight) with no gaps and no overlaps.
type Layout struct {
	Pages              []PageBreak `json:"pages"`
	TotalContentHeight float64     `json:"totalContentHeight"`
	IsCalculating      bool        `json:"isCalculating"`

	// ContentArea is the content area the pages were computed against.
	ContentArea ContentArea `json:"contentArea"`

	// Version increases by one with every published layout.
	Version int64 `json:"version"`

	// Reason names the trigger that produced this layout
	// ("initial", "content_changed", "settings_changed", "manual").
	Reason string `json:"reason,omitempty"`
}

// EmptyLayout returns the layout used when there is no measurable content:
// a single empty page.
func EmptyLayout() Layout {
	return Layout{
		Pages: []PageBreak{{PageNumber: 1, ContentOffset: 0, ContentEnd: 0}},
	}
}

// PageCount returns the number of pages.
func (l Layout) PageCount() int {
	return len(l.Pages)
}

// Clone returns a deep copy that shares no memory with l.
func (l Layout) Clone() Layout {
	out := l
	out.Pages = make([]PageBreak, len(l.Pages))
	copy(out.Pages, l.Pages)

	return out
}

// Fingerprint hashes the geometric content of the layout.
//
// Two layouts with the same page spans and total height share a fingerprint
// regardless of Version, Reason or IsCalculating.
func (l Layout) Fingerprint() uint64 {
	buf := make([]byte, 0, 8*(2+2*len(l.Pages)))
	buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(l.TotalContentHeight))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(l.Pages))) //nolint:gosec // G115: length is non-negative
	for _, p := range l.Pages {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(p.ContentOffset))
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(p.ContentEnd))
	}

	return xxh3.Hash(buf)
}
