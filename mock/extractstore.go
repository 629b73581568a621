package mock

import (
	"context"

	"github.com/fwojciec/orgdocs"
)

var _ orgdocs.ExtractStore = (*ExtractStore)(nil)

// ExtractStore is a mock implementation of orgdocs.ExtractStore.
type ExtractStore struct {
	SaveExtractFn func(ctx context.Context, extract *orgdocs.Extract) (string, string, error)
	SaveSummaryFn func(ctx context.Context, summary *orgdocs.Summary) error
	DirFn         func() string
	CommitFn      func() error
	AbortFn       func() error
}

func (s *ExtractStore) SaveExtract(ctx context.Context, extract *orgdocs.Extract) (string, string, error) {
	return s.SaveExtractFn(ctx, extract)
}

func (s *ExtractStore) SaveSummary(ctx context.Context, summary *orgdocs.Summary) error {
	return s.SaveSummaryFn(ctx, summary)
}

func (s *ExtractStore) Dir() string {
	return s.DirFn()
}

func (s *ExtractStore) Commit() error {
	return s.CommitFn()
}

func (s *ExtractStore) Abort() error {
	return s.AbortFn()
}
