// Package slog provides logging decorators for the service
// interfaces, built on the standard library's structured logger.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/orgdocs"
)

// Ensure LoggingRepositoryLister implements orgdocs.RepositoryLister.
var _ orgdocs.RepositoryLister = (*LoggingRepositoryLister)(nil)

// LoggingRepositoryLister wraps a RepositoryLister with info logging.
type LoggingRepositoryLister struct {
	next   orgdocs.RepositoryLister
	logger *slog.Logger
}

// NewLoggingRepositoryLister creates a new LoggingRepositoryLister.
func NewLoggingRepositoryLister(next orgdocs.RepositoryLister, logger *slog.Logger) *LoggingRepositoryLister {
	return &LoggingRepositoryLister{next: next, logger: logger}
}

// ListRepositories delegates to the wrapped lister and logs the operation.
func (l *LoggingRepositoryLister) ListRepositories(ctx context.Context, org string) (repos []*orgdocs.Repository, err error) {
	defer func(begin time.Time) {
		l.logger.Info("list repositories",
			"org", org,
			"count", len(repos),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return l.next.ListRepositories(ctx, org)
}

// Ensure LoggingReadmeFetcher implements orgdocs.ReadmeFetcher.
var _ orgdocs.ReadmeFetcher = (*LoggingReadmeFetcher)(nil)

// LoggingReadmeFetcher wraps a ReadmeFetcher with debug logging.
type LoggingReadmeFetcher struct {
	next   orgdocs.ReadmeFetcher
	logger *slog.Logger
}

// NewLoggingReadmeFetcher creates a new LoggingReadmeFetcher.
func NewLoggingReadmeFetcher(next orgdocs.ReadmeFetcher, logger *slog.Logger) *LoggingReadmeFetcher {
	return &LoggingReadmeFetcher{next: next, logger: logger}
}

// FetchReadme delegates to the wrapped fetcher and logs the operation.
func (f *LoggingReadmeFetcher) FetchReadme(ctx context.Context, org, repo string) (readme *orgdocs.Readme, err error) {
	defer func(begin time.Time) {
		size := 0
		if readme != nil {
			size = len(readme.Content)
		}
		f.logger.Debug("fetch readme",
			"org", org,
			"repo", repo,
			"bytes", size,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.FetchReadme(ctx, org, repo)
}
