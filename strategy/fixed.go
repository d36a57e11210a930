package strategy

import "github.com/srbhr/Resume-Matcher-sub001/types"

// Fixed implements plain page-height chunking.
type Fixed struct{}

var _ types.BreakStrategy = (*Fixed)(nil)

// NewFixed creates a strategy that cuts at every page height and ignores
// atomic blocks.
//
// Example:
//
//	pages := strategy.NewFixed().Paginate(2200, 1000, nil)
//	// [0,1000) [1000,2000) [2000,2200)
func NewFixed() *Fixed {
	return &Fixed{}
}

// Paginate splits content into page-height chunks. Blocks are ignored.
func (f *Fixed) Paginate(contentHeight, pageHeight float64, _ []types.AtomicBlock) []types.PageBreak {
	return chunk(contentHeight, pageHeight, nil)
}
