// Command pagebreak computes print-accurate page breaks for resumes.
//
// Usage:
//
//	pagebreak compute --geometry resume.yaml
//	pagebreak measure --input resume.md --page-size letter
//	pagebreak watch --embedded-nats --subject resume.42.geometry --key resume-42
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "pagebreak:", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "pagebreak",
		Usage: "Paginate flowed resume content onto A4 or Letter pages",
		Flags: globalFlags(),
		Commands: []*cli.Command{
			computeCommand(),
			measureCommand(),
			watchCommand(),
		},
	}
}
