package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/srbhr/Resume-Matcher-sub001/dimension"
	"github.com/srbhr/Resume-Matcher-sub001/types"
)

func printLayout(w io.Writer, layout types.Layout, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(layout)
	}

	fmt.Fprintf(w, "pages: %d  content: %.1fpx (%.1fmm)  page height: %.1fpx (%.1fmm)\n",
		layout.PageCount(),
		layout.TotalContentHeight, dimension.PxToMM(layout.TotalContentHeight),
		layout.ContentArea.Height, dimension.PxToMM(layout.ContentArea.Height),
	)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "page\tfrom px\tto px\theight px\tfill %\t")
	for _, p := range layout.Pages {
		fill := 0.0
		if layout.ContentArea.Height > 0 {
			fill = 100 * p.Height() / layout.ContentArea.Height
		}
		fmt.Fprintf(tw, "%d\t%.1f\t%.1f\t%.1f\t%.0f\t\n",
			p.PageNumber, p.ContentOffset, p.ContentEnd, p.Height(), fill)
	}

	return tw.Flush()
}
