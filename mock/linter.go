package mock

import (
	"context"

	"github.com/fwojciec/orgdocs"
)

var _ orgdocs.Linter = (*Linter)(nil)

// Linter is a mock implementation of orgdocs.Linter.
type Linter struct {
	ValidateFn    func(ctx context.Context, req orgdocs.LintRequest) (*orgdocs.LintResult, error)
	CheckSyntaxFn func(ctx context.Context, req orgdocs.LintRequest) (*orgdocs.FormatResult, error)
	StatusFn      func(ctx context.Context) (*orgdocs.ToolStatus, error)
}

func (l *Linter) Validate(ctx context.Context, req orgdocs.LintRequest) (*orgdocs.LintResult, error) {
	return l.ValidateFn(ctx, req)
}

func (l *Linter) CheckSyntax(ctx context.Context, req orgdocs.LintRequest) (*orgdocs.FormatResult, error) {
	return l.CheckSyntaxFn(ctx, req)
}

func (l *Linter) Status(ctx context.Context) (*orgdocs.ToolStatus, error) {
	return l.StatusFn(ctx)
}
