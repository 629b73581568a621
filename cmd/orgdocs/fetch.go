package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fwojciec/orgdocs"
	"github.com/fwojciec/orgdocs/extract"
	"github.com/fwojciec/orgdocs/fs"
	"github.com/fwojciec/orgdocs/github"
	orgslog "github.com/fwojciec/orgdocs/slog"
)

// Run executes the fetch command.
func (c *FetchCmd) Run(deps *Dependencies) error {
	opts := []github.Option{github.WithRequestsPerSecond(c.RequestsPerSec)}
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		opts = append(opts, github.WithToken(token))
	} else {
		fmt.Fprintln(deps.Stderr, "Warning: GITHUB_TOKEN not set, using unauthenticated API limits")
	}

	client := github.NewClient(opts...)

	var repos orgdocs.RepositoryLister = client
	var readmes orgdocs.ReadmeFetcher = client
	if c.Verbose {
		logger := slog.New(slog.NewTextHandler(deps.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		repos = orgslog.NewLoggingRepositoryLister(repos, logger)
		readmes = orgslog.NewLoggingReadmeFetcher(readmes, logger)
	}

	dir, err := fs.NextRunDir(c.Output)
	if err != nil {
		return fmt.Errorf("failed to allocate run directory: %w", err)
	}

	extractor := &extract.Extractor{
		Repos:           repos,
		Readmes:         readmes,
		Store:           fs.NewRunStore(".", dir),
		IncludeArchived: c.IncludeArchived,
		Concurrency:     c.Concurrency,
	}

	summary, err := extractor.Run(deps.Ctx, c.Org, func(event extract.ProgressEvent) {
		switch event.Type {
		case extract.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "Fetching READMEs for %d repositories in %s...\n", event.Total, c.Org)
		case extract.ProgressCompleted:
			fmt.Fprintf(deps.Stdout, "[%d/%d] %s\n", event.Completed, event.Total, event.Repo)
		case extract.ProgressFailed:
			fmt.Fprintf(deps.Stdout, "[%d/%d] %s: skipped (%s)\n",
				event.Completed, event.Total, event.Repo, orgdocs.ErrorMessage(event.Error))
		}
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", orgdocs.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "\nProcessed %d of %d repositories (%d skipped)\n",
		len(summary.Processed), summary.RepositoryCount, len(summary.Skipped))
	fmt.Fprintf(deps.Stdout, "Output written to %s\n", dir)

	return nil
}
