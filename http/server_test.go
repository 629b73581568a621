package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fwojciec/orgdocs"
	orgdocshttp "github.com/fwojciec/orgdocs/http"
	"github.com/fwojciec/orgdocs/infracost"
	"github.com/fwojciec/orgdocs/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(pricing *mock.PricingService, linter *mock.Linter) *orgdocshttp.Server {
	if pricing == nil {
		pricing = &mock.PricingService{}
	}
	if linter == nil {
		linter = &mock.Linter{}
	}
	return orgdocshttp.NewServer(pricing, linter)
}

func doJSON(t *testing.T, server http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	decoded := map[string]json.RawMessage{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func TestServer_Hello(t *testing.T) {
	t.Parallel()

	t.Run("greets the world by default", func(t *testing.T) {
		t.Parallel()

		rec, body := doJSON(t, newServer(nil, nil), http.MethodGet, "/hello", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `"Hello World!"`, string(body["message"]))
	})

	t.Run("greets by name", func(t *testing.T) {
		t.Parallel()

		rec, body := doJSON(t, newServer(nil, nil), http.MethodGet, "/hello?name=Ada", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `"Hello Ada!"`, string(body["message"]))
	})

	t.Run("serves the root path", func(t *testing.T) {
		t.Parallel()

		rec, _ := doJSON(t, newServer(nil, nil), http.MethodGet, "/", "")

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestServer_Health(t *testing.T) {
	t.Parallel()

	rec, body := doJSON(t, newServer(nil, nil), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `"OK"`, string(body["status"]))
}

func TestServer_Prices(t *testing.T) {
	t.Parallel()

	t.Run("applies query defaults", func(t *testing.T) {
		t.Parallel()

		var got orgdocs.PriceQuery
		pricing := &mock.PricingService{
			LookupPricesFn: func(_ context.Context, q orgdocs.PriceQuery) (*orgdocs.PriceResult, error) {
				got = q
				return &orgdocs.PriceResult{Provider: q.Provider, Count: 0, Products: []json.RawMessage{}}, nil
			},
		}

		rec, _ := doJSON(t, newServer(pricing, nil), http.MethodGet, "/infracost/prices", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "aws", got.Provider)
		assert.Equal(t, "france", got.Location)
		assert.Equal(t, 2, got.Cores)
		assert.Equal(t, "Linux", got.OS)
		assert.Empty(t, got.InstanceType)
	})

	t.Run("passes explicit query parameters", func(t *testing.T) {
		t.Parallel()

		var got orgdocs.PriceQuery
		pricing := &mock.PricingService{
			LookupPricesFn: func(_ context.Context, q orgdocs.PriceQuery) (*orgdocs.PriceResult, error) {
				got = q
				return &orgdocs.PriceResult{Provider: q.Provider, Products: []json.RawMessage{}}, nil
			},
		}

		target := "/infracost/prices?provider=azure&location=us&cores=8&instance_type=Standard_D8s_v5&os=Windows"
		rec, _ := doJSON(t, newServer(pricing, nil), http.MethodGet, target, "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "azure", got.Provider)
		assert.Equal(t, "us", got.Location)
		assert.Equal(t, 8, got.Cores)
		assert.Equal(t, "Standard_D8s_v5", got.InstanceType)
		assert.Equal(t, "Windows", got.OS)
	})

	t.Run("rejects non-integer cores", func(t *testing.T) {
		t.Parallel()

		rec, body := doJSON(t, newServer(nil, nil), http.MethodGet, "/infracost/prices?cores=two", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, string(body["error"]), "cores")
	})

	t.Run("maps service errors to status codes", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			code   string
			status int
		}{
			{orgdocs.EINVALID, http.StatusBadRequest},
			{orgdocs.ENOTFOUND, http.StatusNotFound},
			{orgdocs.EUNSUPPORTED, http.StatusUnprocessableEntity},
			{orgdocs.ERATELIMIT, http.StatusTooManyRequests},
			{orgdocs.ETIMEOUT, http.StatusGatewayTimeout},
			{orgdocs.EUNAVAILABLE, http.StatusBadGateway},
			{orgdocs.EINTERNAL, http.StatusInternalServerError},
		}

		for _, tt := range tests {
			t.Run(tt.code, func(t *testing.T) {
				t.Parallel()

				pricing := &mock.PricingService{
					LookupPricesFn: func(_ context.Context, _ orgdocs.PriceQuery) (*orgdocs.PriceResult, error) {
						return nil, orgdocs.Errorf(tt.code, "boom")
					},
				}

				rec, body := doJSON(t, newServer(pricing, nil), http.MethodGet, "/infracost/prices", "")

				assert.Equal(t, tt.status, rec.Code)
				assert.JSONEq(t, `"boom"`, string(body["error"]))
			})
		}
	})

	t.Run("passes provider products through", func(t *testing.T) {
		t.Parallel()

		pricing := &mock.PricingService{
			LookupPricesFn: func(_ context.Context, _ orgdocs.PriceQuery) (*orgdocs.PriceResult, error) {
				return &orgdocs.PriceResult{
					Provider: "aws",
					Count:    1,
					Products: []json.RawMessage{json.RawMessage(`{"prices":[{"USD":"0.096"}]}`)},
				}, nil
			},
		}

		rec, body := doJSON(t, newServer(pricing, nil), http.MethodGet, "/infracost/prices", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `1`, string(body["results_count"]))
		assert.JSONEq(t, `[{"prices":[{"USD":"0.096"}]}]`, string(body["results"]))
	})
}

func TestServer_Validate(t *testing.T) {
	t.Parallel()

	t.Run("returns the lint result", func(t *testing.T) {
		t.Parallel()

		linter := &mock.Linter{
			ValidateFn: func(_ context.Context, req orgdocs.LintRequest) (*orgdocs.LintResult, error) {
				assert.Equal(t, "locals {}", req.Content)
				return &orgdocs.LintResult{Valid: true, Message: "Terraform code is valid", Errors: []string{}}, nil
			},
		}

		rec, body := doJSON(t, newServer(nil, linter), http.MethodPost, "/tflint/validate", `{"content": "locals {}"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `true`, string(body["valid"]))
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		t.Parallel()

		rec, body := doJSON(t, newServer(nil, nil), http.MethodPost, "/tflint/validate", `{not json`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, string(body["error"]), "invalid request body")
	})

	t.Run("rejects empty content", func(t *testing.T) {
		t.Parallel()

		rec, _ := doJSON(t, newServer(nil, nil), http.MethodPost, "/tflint/validate", `{"content": ""}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("maps validation timeout to 504", func(t *testing.T) {
		t.Parallel()

		linter := &mock.Linter{
			ValidateFn: func(_ context.Context, _ orgdocs.LintRequest) (*orgdocs.LintResult, error) {
				return nil, orgdocs.Errorf(orgdocs.ETIMEOUT, "validation timeout")
			},
		}

		rec, body := doJSON(t, newServer(nil, linter), http.MethodPost, "/tflint/validate", `{"content": "locals {}"}`)

		assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
		assert.JSONEq(t, `"validation timeout"`, string(body["error"]))
	})
}

func TestServer_CheckSyntax(t *testing.T) {
	t.Parallel()

	linter := &mock.Linter{
		CheckSyntaxFn: func(_ context.Context, _ orgdocs.LintRequest) (*orgdocs.FormatResult, error) {
			return &orgdocs.FormatResult{Formatted: false, Message: "Code needs formatting", Output: "main.tf"}, nil
		},
	}

	rec, body := doJSON(t, newServer(nil, linter), http.MethodPost, "/tflint/check-syntax", `{"content": "locals{}"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `false`, string(body["formatted"]))
	assert.JSONEq(t, `"main.tf"`, string(body["output"]))
}

func TestServer_Status(t *testing.T) {
	t.Parallel()

	linter := &mock.Linter{
		StatusFn: func(_ context.Context) (*orgdocs.ToolStatus, error) {
			return &orgdocs.ToolStatus{
				AvailableTools: map[string]bool{"terraform": true, "tflint": false},
				PrimaryTool:    "terraform",
			}, nil
		},
	}

	rec, body := doJSON(t, newServer(nil, linter), http.MethodGet, "/tflint/status", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `"terraform"`, string(body["primary_tool"]))
	assert.JSONEq(t, `{"terraform": true, "tflint": false}`, string(body["available_tools"]))
}

func TestServer_ToolHandler(t *testing.T) {
	t.Parallel()

	t.Run("routes /mcp to the mounted handler", func(t *testing.T) {
		t.Parallel()

		var gotPath string
		tools := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			w.WriteHeader(http.StatusOK)
		})
		server := orgdocshttp.NewServer(&mock.PricingService{}, &mock.Linter{}, orgdocshttp.WithToolHandler(tools))

		req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader("{}"))
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "/mcp", gotPath)
	})

	t.Run("404 when no handler is mounted", func(t *testing.T) {
		t.Parallel()

		rec, _ := doJSON(t, newServer(nil, nil), http.MethodPost, "/mcp", "{}")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestServer_ServesLintWithoutPricingKey(t *testing.T) {
	t.Parallel()

	linter := &mock.Linter{
		StatusFn: func(_ context.Context) (*orgdocs.ToolStatus, error) {
			return &orgdocs.ToolStatus{AvailableTools: map[string]bool{"terraform": true}, PrimaryTool: "terraform"}, nil
		},
	}
	server := orgdocshttp.NewServer(infracost.Unconfigured(), linter)

	rec, _ := doJSON(t, server, http.MethodGet, "/tflint/status", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, body := doJSON(t, server, http.MethodGet, "/infracost/prices", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, string(body["error"]), "INFRACOST_API_KEY")
}

func TestServer_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	rec, _ := doJSON(t, newServer(nil, nil), http.MethodGet, "/tflint/validate", "")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
