package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/orgdocs"
)

// Ensure LoggingPricingService implements orgdocs.PricingService.
var _ orgdocs.PricingService = (*LoggingPricingService)(nil)

// LoggingPricingService wraps a PricingService with info logging.
type LoggingPricingService struct {
	next   orgdocs.PricingService
	logger *slog.Logger
}

// NewLoggingPricingService creates a new LoggingPricingService.
func NewLoggingPricingService(next orgdocs.PricingService, logger *slog.Logger) *LoggingPricingService {
	return &LoggingPricingService{next: next, logger: logger}
}

// LookupPrices delegates to the wrapped service and logs the operation.
func (s *LoggingPricingService) LookupPrices(ctx context.Context, query orgdocs.PriceQuery) (result *orgdocs.PriceResult, err error) {
	defer func(begin time.Time) {
		count := 0
		if result != nil {
			count = result.Count
		}
		s.logger.Info("price lookup",
			"provider", query.Provider,
			"location", query.Location,
			"count", count,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.LookupPrices(ctx, query)
}

// Ensure LoggingLinter implements orgdocs.Linter.
var _ orgdocs.Linter = (*LoggingLinter)(nil)

// LoggingLinter wraps a Linter with info logging.
type LoggingLinter struct {
	next   orgdocs.Linter
	logger *slog.Logger
}

// NewLoggingLinter creates a new LoggingLinter.
func NewLoggingLinter(next orgdocs.Linter, logger *slog.Logger) *LoggingLinter {
	return &LoggingLinter{next: next, logger: logger}
}

// Validate delegates to the wrapped linter and logs the operation.
func (l *LoggingLinter) Validate(ctx context.Context, req orgdocs.LintRequest) (result *orgdocs.LintResult, err error) {
	defer func(begin time.Time) {
		valid := false
		if result != nil {
			valid = result.Valid
		}
		l.logger.Info("terraform validate",
			"filename", req.Filename,
			"valid", valid,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return l.next.Validate(ctx, req)
}

// CheckSyntax delegates to the wrapped linter and logs the operation.
func (l *LoggingLinter) CheckSyntax(ctx context.Context, req orgdocs.LintRequest) (result *orgdocs.FormatResult, err error) {
	defer func(begin time.Time) {
		formatted := false
		if result != nil {
			formatted = result.Formatted
		}
		l.logger.Info("terraform fmt check",
			"filename", req.Filename,
			"formatted", formatted,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return l.next.CheckSyntax(ctx, req)
}

// Status delegates to the wrapped linter and logs the operation.
func (l *LoggingLinter) Status(ctx context.Context) (status *orgdocs.ToolStatus, err error) {
	defer func(begin time.Time) {
		primary := ""
		if status != nil {
			primary = status.PrimaryTool
		}
		l.logger.Debug("toolchain status",
			"primary", primary,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return l.next.Status(ctx)
}
