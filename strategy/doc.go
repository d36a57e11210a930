// Package strategy provides built-in page break strategy implementations.
//
// Break strategies determine where a flowed content region is cut into pages.
// The package includes two built-in strategies:
//
//   - AvoidSplit: Moves a break up to the top of a straddling atomic block when the
//     page stays reasonably full (recommended for resumes and other sectioned documents)
//   - Fixed: Cuts at every page height regardless of content
//
// # Strategy Selection Guide
//
// AvoidSplit:
//   - Use when the content has units that read badly when split (entries, sections)
//   - FillThreshold controls how much of a page may be given up to keep a block whole
//   - MinProgress guarantees forward progress on degenerate blocks
//   - TieBreak selects which block wins when several straddle the same break
//
// Fixed:
//   - Use for content without atomic units
//   - Equivalent to AvoidSplit with no blocks
//
// Both strategies are total functions: any input, including negative heights
// or a non-positive page height, produces a valid partition of the content.
//
// Custom strategies can be implemented by satisfying the types.BreakStrategy interface.
package strategy
