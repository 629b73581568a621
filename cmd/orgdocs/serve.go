package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/fwojciec/orgdocs"
	orgdocshttp "github.com/fwojciec/orgdocs/http"
	"github.com/fwojciec/orgdocs/infracost"
	"github.com/fwojciec/orgdocs/mcp"
	orgslog "github.com/fwojciec/orgdocs/slog"
	"github.com/fwojciec/orgdocs/tflint"
)

// Run executes the serve command.
func (c *ServeCmd) Run(deps *Dependencies) error {
	logger := slog.New(slog.NewTextHandler(deps.Stderr, nil))

	var pricingOpts []infracost.Option
	if apiURL := os.Getenv("INFRACOST_API_URL"); apiURL != "" {
		pricingOpts = append(pricingOpts, infracost.WithAPIURL(apiURL))
	}

	// A missing API key degrades price lookups to per-request errors;
	// the lint routes serve regardless.
	var pricing orgdocs.PricingService
	if svc, err := infracost.NewService(os.Getenv("INFRACOST_API_KEY"), pricingOpts...); err != nil {
		fmt.Fprintln(deps.Stderr, "Warning: INFRACOST_API_KEY not set, price lookups will fail until it is configured")
		pricing = infracost.Unconfigured()
	} else {
		pricing = svc
	}
	pricing = orgslog.NewLoggingPricingService(pricing, logger)

	var linter orgdocs.Linter = orgslog.NewLoggingLinter(tflint.NewLinter(), logger)

	server := orgdocshttp.NewServer(pricing, linter,
		orgdocshttp.WithToolHandler(mcp.NewServer(pricing, linter)))

	logger.Info("listening", "addr", c.Addr)
	if err := http.ListenAndServe(c.Addr, server); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}
