// Package infracost implements pricing lookups against the Infracost
// GraphQL pricing API.
package infracost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/fwojciec/orgdocs"
)

// DefaultAPIURL is the public Infracost pricing endpoint.
const DefaultAPIURL = "https://pricing.api.infracost.io/graphql"

// DefaultTimeout is the default timeout for pricing API requests.
const DefaultTimeout = 30 * time.Second

// maxResults caps how many products a lookup passes through.
const maxResults = 5

// productsQuery selects on-demand products matching the vendor,
// service, region, and attribute filters. Products are returned with
// only the fields named here; everything else stays with the provider.
const productsQuery = `query($vendor: String!, $service: String!, $region: String!, $family: String, $attrFilters: [AttributeFilter]) {
  products(filter: { vendorName: $vendor, service: $service, region: $region, productFamily: $family, attributeFilters: $attrFilters }) {
    attributes { key value }
    prices(filter: { purchaseOption: "on_demand" }) { USD unit }
  }
}`

// providerConfig describes how to translate a price query into the
// pricing API's vocabulary for one cloud vendor.
type providerConfig struct {
	Vendor          string
	Service         string
	ProductFamily   string
	Regions         map[string]string
	InstanceAttr    string
	CPUAttr         string
	DefaultInstance string
}

var providers = map[string]providerConfig{
	"gcp": {
		Vendor:          "gcp",
		Service:         "Compute Engine",
		ProductFamily:   "Compute Instance",
		Regions:         map[string]string{"france": "europe-west9", "europe": "europe-west1", "us": "us-central1"},
		InstanceAttr:    "machineType",
		DefaultInstance: "n2-standard-2",
	},
	"aws": {
		Vendor:          "aws",
		Service:         "AmazonEC2",
		ProductFamily:   "Compute Instance",
		Regions:         map[string]string{"france": "eu-west-3", "europe": "eu-central-1", "us": "us-east-1"},
		InstanceAttr:    "instanceType",
		CPUAttr:         "vcpu",
		DefaultInstance: "m5.large",
	},
	"azure": {
		Vendor:          "azure",
		Service:         "Virtual Machines",
		ProductFamily:   "Compute",
		Regions:         map[string]string{"france": "francecentral", "europe": "westeurope", "us": "eastus"},
		InstanceAttr:    "armSkuName",
		CPUAttr:         "numberOfCores",
		DefaultInstance: "Standard_D2s_v5",
	},
}

// Ensure Service implements orgdocs.PricingService at compile time.
var _ orgdocs.PricingService = (*Service)(nil)

// Service looks up compute prices from the Infracost pricing API.
type Service struct {
	client  *http.Client
	apiURL  string
	apiKey  string
	timeout time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithAPIURL overrides the pricing endpoint. Used in tests.
func WithAPIURL(u string) Option {
	return func(s *Service) {
		s.apiURL = u
	}
}

// WithTimeout sets the timeout for pricing API requests.
// Defaults to DefaultTimeout (30s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.timeout = d
	}
}

// NewService creates a pricing service. The API key is required.
func NewService(apiKey string, opts ...Option) (*Service, error) {
	if apiKey == "" {
		return nil, orgdocs.Errorf(orgdocs.EINVALID, "INFRACOST_API_KEY is not set")
	}

	s := &Service{
		apiURL:  DefaultAPIURL,
		apiKey:  apiKey,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.client = &http.Client{Timeout: s.timeout}

	return s, nil
}

// Unconfigured returns a PricingService whose lookups fail with
// EINVALID until an API key is configured. It lets the server start
// and serve the lint routes when INFRACOST_API_KEY is absent.
func Unconfigured() orgdocs.PricingService {
	return unconfigured{}
}

type unconfigured struct{}

func (unconfigured) LookupPrices(context.Context, orgdocs.PriceQuery) (*orgdocs.PriceResult, error) {
	return nil, orgdocs.Errorf(orgdocs.EINVALID, "INFRACOST_API_KEY is not set")
}

// attributeFilter is one key/value constraint in the products query.
type attributeFilter struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// graphqlRequest is the wire shape of a pricing API request.
type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// graphqlResponse holds the products verbatim; their schema belongs to
// the pricing provider.
type graphqlResponse struct {
	Data struct {
		Products []json.RawMessage `json:"products"`
	} `json:"data"`
}

// LookupPrices translates the query into provider-specific attribute
// filters, posts it to the pricing API, and passes at most maxResults
// products through unchanged.
func (s *Service) LookupPrices(ctx context.Context, query orgdocs.PriceQuery) (*orgdocs.PriceResult, error) {
	conf, ok := providers[strings.ToLower(query.Provider)]
	if !ok {
		return nil, orgdocs.Errorf(orgdocs.EINVALID, "unsupported provider %q", query.Provider)
	}

	region := conf.Regions[strings.ToLower(query.Location)]
	if region == "" {
		region = query.Location
	}

	payload := graphqlRequest{
		Query: productsQuery,
		Variables: map[string]any{
			"vendor":      conf.Vendor,
			"service":     conf.Service,
			"region":      region,
			"family":      conf.ProductFamily,
			"attrFilters": buildFilters(conf, query),
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Api-Key", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, orgdocs.Errorf(orgdocs.EUNAVAILABLE, "pricing API unreachable: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, orgdocs.Errorf(orgdocs.EUNAVAILABLE, "reading pricing response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, orgdocs.Errorf(orgdocs.EINTERNAL, "pricing API HTTP %d: %s", resp.StatusCode, respBody)
	}

	var decoded graphqlResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return nil, orgdocs.Errorf(orgdocs.EINTERNAL, "decoding pricing response: %v", err)
	}

	products := decoded.Data.Products
	count := len(products)
	if count > maxResults {
		products = products[:maxResults]
	}

	return &orgdocs.PriceResult{
		Provider: query.Provider,
		Count:    count,
		Products: products,
	}, nil
}

// buildFilters translates a price query into the vendor's attribute
// filter vocabulary.
func buildFilters(conf providerConfig, query orgdocs.PriceQuery) []attributeFilter {
	instance := query.InstanceType
	if instance == "" {
		instance = conf.DefaultInstance
	}

	switch conf.Vendor {
	case "azure":
		filters := []attributeFilter{
			{Key: conf.CPUAttr, Value: strconv.Itoa(query.Cores)},
			{Key: "tier", Value: "Standard"},
			{Key: conf.InstanceAttr, Value: instance},
		}
		if name, ok := azureProductName(instance, query.OS); ok {
			filters = append(filters, attributeFilter{Key: "productName", Value: name})
		}
		return filters
	case "gcp":
		return []attributeFilter{
			{Key: conf.InstanceAttr, Value: instance},
		}
	default: // aws
		return []attributeFilter{
			{Key: "operatingSystem", Value: query.OS},
			{Key: conf.CPUAttr, Value: strconv.Itoa(query.Cores)},
			{Key: conf.InstanceAttr, Value: instance},
		}
	}
}

// azureProductName derives the productName filter from an ARM SKU:
// Standard_D2s_v5 becomes "Virtual Machines Dsv5 Series" (the series
// letters with digits removed, joined with the version suffix), with
// " Windows" appended for Windows lookups. SKUs without a version
// segment produce no productName filter.
func azureProductName(sku, operatingSystem string) (string, bool) {
	parts := strings.Split(sku, "_")
	if len(parts) < 3 {
		return "", false
	}

	series := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return -1
		}
		return r
	}, parts[1])

	name := fmt.Sprintf("Virtual Machines %s%s Series", series, parts[2])
	if strings.EqualFold(operatingSystem, "windows") {
		name += " Windows"
	}
	return name, true
}
