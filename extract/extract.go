// Package extract orchestrates README extraction for a GitHub
// organization. It coordinates repository listing, README fetching,
// cleaning, and storage of original/cleaned pairs plus a run summary.
package extract

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/orgdocs"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Extractor orchestrates the extraction of an organization's READMEs.
type Extractor struct {
	Repos   orgdocs.RepositoryLister
	Readmes orgdocs.ReadmeFetcher
	Store   orgdocs.ExtractStore

	// IncludeArchived also processes archived repositories, which are
	// otherwise recorded as skipped.
	IncludeArchived bool

	Concurrency int
	RetryDelays []time.Duration
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressEvent reports progress during an extraction run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	Repo      string
	Error     error
}

// ProgressFunc is a callback for reporting extraction progress.
type ProgressFunc func(event ProgressEvent)

// repoResult holds the outcome of processing a single repository.
type repoResult struct {
	position int
	repo     string
	extract  *orgdocs.Extract
	err      error
}

// Run extracts all READMEs for the organization and commits them to
// the store. Per-repository failures are recorded as skips in the
// summary; an unreachable API or a storage failure aborts the run and
// discards pending writes.
func (e *Extractor) Run(ctx context.Context, org string, progress ProgressFunc) (*orgdocs.Summary, error) {
	repos, err := e.Repos.ListRepositories(ctx, org)
	if err != nil {
		return nil, err
	}

	summary := &orgdocs.Summary{
		RunID:           uuid.New().String(),
		Organization:    org,
		Output:          e.Store.Dir(),
		RepositoryCount: len(repos),
		GeneratedAt:     time.Now().Unix(),
	}

	var work []*orgdocs.Repository
	for _, repo := range repos {
		if repo.Name == "" {
			continue
		}
		if repo.Archived && !e.IncludeArchived {
			summary.Skipped = append(summary.Skipped, orgdocs.SkippedRepo{Repo: repo.Name, Reason: "archived"})
			continue
		}
		work = append(work, repo)
	}

	total := len(work)
	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	concurrency := e.Concurrency
	if concurrency <= 0 {
		concurrency = 5
	}

	// Workers send results as they finish; collection restores
	// listing order via the position index.
	resultCh := make(chan repoResult, total)
	errCh := make(chan error, 1)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, repo := range work {
			g.Go(func() error {
				result := e.processRepo(gctx, org, repo.Name, i)
				resultCh <- result
				// Only an unreachable collaborator is fatal; other
				// failures become per-repository skips.
				if result.err != nil && orgdocs.ErrorCode(result.err) == orgdocs.EUNAVAILABLE {
					return result.err
				}
				return nil
			})
		}
		errCh <- g.Wait()
		close(resultCh)
	}()

	var completed atomic.Int64
	results := make([]repoResult, total)
	for result := range resultCh {
		completed.Add(1)
		results[result.position] = result

		if progress != nil {
			if result.err != nil {
				progress(ProgressEvent{
					Type:      ProgressFailed,
					Completed: int(completed.Load()),
					Total:     total,
					Repo:      result.repo,
					Error:     result.err,
				})
			} else {
				progress(ProgressEvent{
					Type:      ProgressCompleted,
					Completed: int(completed.Load()),
					Total:     total,
					Repo:      result.repo,
				})
			}
		}
	}

	if err := <-errCh; err != nil {
		_ = e.Store.Abort()
		return nil, err
	}

	// Persist extracts in listing order and aggregate the summary.
	for _, result := range results {
		if result.err != nil {
			summary.Skipped = append(summary.Skipped, orgdocs.SkippedRepo{
				Repo:   result.repo,
				Reason: orgdocs.ErrorMessage(result.err),
			})
			continue
		}

		originalFile, cleanedFile, err := e.Store.SaveExtract(ctx, result.extract)
		if err != nil {
			_ = e.Store.Abort()
			return nil, err
		}

		summary.Processed = append(summary.Processed, orgdocs.ProcessedRepo{
			Repo:         result.extract.Repo,
			ReadmePath:   result.extract.ReadmePath,
			OriginalFile: originalFile,
			CleanedFile:  cleanedFile,
			ContentHash:  result.extract.ContentHash,
			Sections:     result.extract.Sections,
		})
	}

	if err := e.Store.SaveSummary(ctx, summary); err != nil {
		_ = e.Store.Abort()
		return nil, err
	}
	if err := e.Store.Commit(); err != nil {
		return nil, err
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	}

	return summary, nil
}

// processRepo fetches and cleans the README of a single repository.
func (e *Extractor) processRepo(ctx context.Context, org, repo string, position int) repoResult {
	result := repoResult{position: position, repo: repo}

	delays := e.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}

	readme, err := FetchWithRetryDelays(ctx, func(ctx context.Context) (*orgdocs.Readme, error) {
		return e.Readmes.FetchReadme(ctx, org, repo)
	}, delays)
	if err != nil {
		result.err = err
		return result
	}

	cleaned := orgdocs.Clean(readme.Content)
	result.extract = &orgdocs.Extract{
		Repo:        repo,
		ReadmePath:  readme.Path,
		Original:    readme.Content,
		Cleaned:     cleaned,
		ContentHash: strconv.FormatUint(xxhash.Sum64String(cleaned), 16),
		Sections:    orgdocs.ExtractSections(cleaned),
	}
	return result
}
