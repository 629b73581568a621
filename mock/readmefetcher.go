package mock

import (
	"context"

	"github.com/fwojciec/orgdocs"
)

var _ orgdocs.ReadmeFetcher = (*ReadmeFetcher)(nil)

// ReadmeFetcher is a mock implementation of orgdocs.ReadmeFetcher.
type ReadmeFetcher struct {
	FetchReadmeFn func(ctx context.Context, org, repo string) (*orgdocs.Readme, error)
}

func (f *ReadmeFetcher) FetchReadme(ctx context.Context, org, repo string) (*orgdocs.Readme, error) {
	return f.FetchReadmeFn(ctx, org, repo)
}
