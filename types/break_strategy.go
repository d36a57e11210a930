package types

// BreakStrategy computes page breaks for a flowed content region.
//
// Strategies implement different break placement policies:
//   - AvoidSplit: Pulls breaks above straddling atomic blocks when the page stays full enough
//   - Fixed: Plain page-height chunking that ignores atomic blocks
//   - Custom: User-defined algorithms
//
// The controller calls Paginate on every recomputation, so strategy
// implementations should:
//   - Be deterministic (same input → same output)
//   - Be total: never panic, degrade on malformed input
//   - Be stateless (no side effects)
//   - Always return pages that partition [0, contentHeight)
type BreakStrategy interface {
	// Paginate splits [0, contentHeight) into page spans.
	//
	// Parameters:
	//   - contentHeight: Total measured content height in pixels
	//   - pageHeight: Content-area height of one page in pixels
	//   - blocks: Atomic blocks in document order
	//
	// Returns:
	//   - []PageBreak: At least one page, numbered from 1
	Paginate(contentHeight, pageHeight float64, blocks []AtomicBlock) []PageBreak
}
