// Package mcp exposes the pricing and linting services as callable
// tools over the Model Context Protocol, mirroring the HTTP routes.
package mcp

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fwojciec/orgdocs"
	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Ensure Server can be mounted as a plain HTTP handler.
var _ http.Handler = (*Server)(nil)

// Server registers the service operations as MCP tools and serves the
// protocol over streamable HTTP.
type Server struct {
	inner   *server.MCPServer
	handler *server.StreamableHTTPServer
	pricing orgdocs.PricingService
	linter  orgdocs.Linter
}

// NewServer creates a Server with all tools registered.
func NewServer(pricing orgdocs.PricingService, linter orgdocs.Linter) *Server {
	s := &Server{
		inner:   server.NewMCPServer("orgdocs", "1.0.0", server.WithToolCapabilities(false)),
		pricing: pricing,
		linter:  linter,
	}
	s.registerTools()
	s.handler = server.NewStreamableHTTPServer(s.inner)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) registerTools() {
	s.inner.AddTool(mcpgo.NewTool("get_cloud_prices",
		mcpgo.WithDescription("Look up on-demand compute prices from the Infracost pricing API"),
		mcpgo.WithString("provider", mcpgo.Description("Cloud vendor: aws, gcp, or azure"), mcpgo.DefaultString("aws")),
		mcpgo.WithString("location", mcpgo.Description("Region alias (france, europe, us) or a literal provider region"), mcpgo.DefaultString("france")),
		mcpgo.WithNumber("cores", mcpgo.Description("Requested vCPU / core count"), mcpgo.DefaultNumber(2)),
		mcpgo.WithString("instance_type", mcpgo.Description("Override the provider's default machine type")),
		mcpgo.WithString("os", mcpgo.Description("Operating system"), mcpgo.DefaultString("Linux")),
	), s.handleGetPrices)

	s.inner.AddTool(mcpgo.NewTool("validate_terraform",
		mcpgo.WithDescription("Lint Terraform source with tflint, falling back to terraform validate"),
		mcpgo.WithString("content", mcpgo.Required(), mcpgo.Description("Terraform source to validate")),
		mcpgo.WithString("filename", mcpgo.Description("File name for the source, defaults to main.tf")),
	), s.handleValidate)

	s.inner.AddTool(mcpgo.NewTool("check_terraform_syntax",
		mcpgo.WithDescription("Check whether Terraform source is canonically formatted"),
		mcpgo.WithString("content", mcpgo.Required(), mcpgo.Description("Terraform source to check")),
		mcpgo.WithString("filename", mcpgo.Description("File name for the source, defaults to main.tf")),
	), s.handleCheckSyntax)

	s.inner.AddTool(mcpgo.NewTool("terraform_tool_status",
		mcpgo.WithDescription("Report which Terraform tools are installed and which one validation uses"),
	), s.handleStatus)
}

func (s *Server) handleGetPrices(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	query := orgdocs.PriceQuery{
		Provider:     req.GetString("provider", "aws"),
		Location:     req.GetString("location", "france"),
		Cores:        req.GetInt("cores", 2),
		InstanceType: req.GetString("instance_type", ""),
		OS:           req.GetString("os", "Linux"),
	}

	result, err := s.pricing.LookupPrices(ctx, query)
	if err != nil {
		return mcpgo.NewToolResultError(orgdocs.ErrorMessage(err)), nil
	}
	return jsonResult(result)
}

func (s *Server) handleValidate(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	result, err := s.linter.Validate(ctx, orgdocs.LintRequest{
		Content:  req.GetString("content", ""),
		Filename: req.GetString("filename", ""),
	})
	if err != nil {
		return mcpgo.NewToolResultError(orgdocs.ErrorMessage(err)), nil
	}
	return jsonResult(result)
}

func (s *Server) handleCheckSyntax(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	result, err := s.linter.CheckSyntax(ctx, orgdocs.LintRequest{
		Content:  req.GetString("content", ""),
		Filename: req.GetString("filename", ""),
	})
	if err != nil {
		return mcpgo.NewToolResultError(orgdocs.ErrorMessage(err)), nil
	}
	return jsonResult(result)
}

func (s *Server) handleStatus(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	status, err := s.linter.Status(ctx)
	if err != nil {
		return mcpgo.NewToolResultError(orgdocs.ErrorMessage(err)), nil
	}
	return jsonResult(status)
}

// jsonResult marshals a service result as a text tool result, keeping
// the wire shape identical to the HTTP responses.
func jsonResult(v any) (*mcpgo.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return mcpgo.NewToolResultText(string(data)), nil
}
