package orgdocs

import (
	"context"
	"encoding/json"
)

// PriceQuery selects cloud compute products to price.
type PriceQuery struct {
	// Provider is the cloud vendor: "aws", "gcp", or "azure".
	Provider string

	// Location is a friendly region alias ("france", "europe", "us")
	// or a literal provider region name.
	Location string

	// Cores is the requested vCPU / core count.
	Cores int

	// InstanceType overrides the provider's default machine type.
	InstanceType string

	// OS is the operating system, e.g. "Linux" or "Windows".
	OS string
}

// PriceResult carries pricing API products through to the caller.
// Products are passed through verbatim; their schema belongs to the
// pricing provider, not to this system.
type PriceResult struct {
	Provider string            `json:"provider"`
	Count    int               `json:"results_count"`
	Products []json.RawMessage `json:"results"`
}

// PricingService looks up on-demand compute prices.
type PricingService interface {
	// LookupPrices queries the pricing provider and returns at most a
	// small page of matching products. Returns EINVALID for unknown
	// providers.
	LookupPrices(ctx context.Context, query PriceQuery) (*PriceResult, error)
}
