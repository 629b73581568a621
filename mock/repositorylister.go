package mock

import (
	"context"

	"github.com/fwojciec/orgdocs"
)

var _ orgdocs.RepositoryLister = (*RepositoryLister)(nil)

// RepositoryLister is a mock implementation of orgdocs.RepositoryLister.
type RepositoryLister struct {
	ListRepositoriesFn func(ctx context.Context, org string) ([]*orgdocs.Repository, error)
}

func (l *RepositoryLister) ListRepositories(ctx context.Context, org string) ([]*orgdocs.Repository, error) {
	return l.ListRepositoriesFn(ctx, org)
}
