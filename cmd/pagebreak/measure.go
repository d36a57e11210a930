package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/srbhr/Resume-Matcher-sub001/dimension"
	"github.com/srbhr/Resume-Matcher-sub001/source/chrome"
)

func measureCommand() *cli.Command {
	return &cli.Command{
		Name:  "measure",
		Usage: "Render a markdown or HTML resume in headless Chrome and paginate it",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Usage:    "resume file (.md, .markdown, .html or .htm)",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "stylesheet",
				Usage: "CSS file applied to markdown and HTML fragments",
			},
			&cli.StringFlag{
				Name:  "atomic-selector",
				Value: chrome.DefaultAtomicSelector,
				Usage: "CSS selector of blocks kept whole, e.g. .resume-item for entry granularity",
			},
			&cli.StringFlag{
				Name:    "chrome",
				Usage:   "path to the Chrome or Chromium binary",
				Sources: cli.EnvVars("CHROME_PATH"),
			},
			&cli.DurationFlag{
				Name:  "startup-timeout",
				Value: 30 * time.Second,
				Usage: "how long to wait for Chrome to start",
			},
		},
		Action: runMeasure,
	}
}

func runMeasure(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}

	input := cmd.String("input")
	content, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	var stylesheet string
	if path := cmd.String("stylesheet"); path != "" {
		css, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read stylesheet: %w", err)
		}
		stylesheet = string(css)
	}

	settings, err := cfg.PageSettings()
	if err != nil {
		return err
	}
	area := dimension.ContentArea(settings.PageSize, settings.Margins)

	startCtx, cancel := context.WithTimeout(ctx, cmd.Duration("startup-timeout"))
	defer cancel()

	m, err := chrome.New(startCtx, chrome.Options{
		AtomicSelector: cmd.String("atomic-selector"),
		ContentWidthPx: area.Width,
		Stylesheet:     stylesheet,
		ExecPath:       cmd.String("chrome"),
		Logger:         logger,
	})
	if err != nil {
		return err
	}
	defer m.Close()

	switch strings.ToLower(filepath.Ext(input)) {
	case ".md", ".markdown":
		err = m.LoadMarkdown(startCtx, content)
	case ".html", ".htm":
		if strings.Contains(strings.ToLower(string(content)), "<html") {
			err = m.Load(startCtx, string(content))
		} else {
			err = m.LoadFragment(startCtx, string(content))
		}
	default:
		return fmt.Errorf("unsupported input type %q", filepath.Ext(input))
	}
	if err != nil {
		return err
	}

	layout, err := paginateOnce(ctx, cfg, m, logger)
	if err != nil {
		return err
	}

	return printLayout(cmd.Root().Writer, layout, cmd.Bool("json"))
}
