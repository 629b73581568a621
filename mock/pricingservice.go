package mock

import (
	"context"

	"github.com/fwojciec/orgdocs"
)

var _ orgdocs.PricingService = (*PricingService)(nil)

// PricingService is a mock implementation of orgdocs.PricingService.
type PricingService struct {
	LookupPricesFn func(ctx context.Context, query orgdocs.PriceQuery) (*orgdocs.PriceResult, error)
}

func (s *PricingService) LookupPrices(ctx context.Context, query orgdocs.PriceQuery) (*orgdocs.PriceResult, error) {
	return s.LookupPricesFn(ctx, query)
}
