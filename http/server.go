// Package http exposes the pricing and linting services over HTTP.
package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/fwojciec/orgdocs"
	"github.com/gorilla/mux"
)

// Default query values for price lookups.
const (
	DefaultProvider = "aws"
	DefaultLocation = "france"
	DefaultCores    = 2
	DefaultOS       = "Linux"
)

// Server routes HTTP requests to the pricing and linting services.
type Server struct {
	router  *mux.Router
	pricing orgdocs.PricingService
	linter  orgdocs.Linter
	tools   http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithToolHandler mounts a handler serving the tool-calling protocol
// under /mcp, exposing the same operations as the JSON routes.
func WithToolHandler(h http.Handler) Option {
	return func(s *Server) {
		s.tools = h
	}
}

// NewServer creates a Server with all routes registered.
func NewServer(pricing orgdocs.PricingService, linter orgdocs.Linter, opts ...Option) *Server {
	s := &Server{
		router:  mux.NewRouter(),
		pricing: pricing,
		linter:  linter,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	if s.tools != nil {
		s.router.PathPrefix("/mcp").Handler(s.tools)
	}
	s.router.HandleFunc("/", s.handleHello).Methods(http.MethodGet)
	s.router.HandleFunc("/hello", s.handleHello).Methods(http.MethodGet)
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/infracost/prices", s.handlePrices).Methods(http.MethodGet)
	s.router.HandleFunc("/tflint/validate", s.handleValidate).Methods(http.MethodPost)
	s.router.HandleFunc("/tflint/check-syntax", s.handleCheckSyntax).Methods(http.MethodPost)
	s.router.HandleFunc("/tflint/status", s.handleStatus).Methods(http.MethodGet)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHello(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "World"
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Hello " + name + "!"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := orgdocs.PriceQuery{
		Provider:     valueOr(q.Get("provider"), DefaultProvider),
		Location:     valueOr(q.Get("location"), DefaultLocation),
		Cores:        DefaultCores,
		InstanceType: q.Get("instance_type"),
		OS:           valueOr(q.Get("os"), DefaultOS),
	}

	if raw := q.Get("cores"); raw != "" {
		cores, err := strconv.Atoi(raw)
		if err != nil {
			Error(w, orgdocs.Errorf(orgdocs.EINVALID, "cores must be an integer, got %q", raw))
			return
		}
		query.Cores = cores
	}

	result, err := s.pricing.LookupPrices(r.Context(), query)
	if err != nil {
		Error(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeLintRequest(w, r)
	if !ok {
		return
	}

	result, err := s.linter.Validate(r.Context(), req)
	if err != nil {
		Error(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCheckSyntax(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeLintRequest(w, r)
	if !ok {
		return
	}

	result, err := s.linter.CheckSyntax(r.Context(), req)
	if err != nil {
		Error(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.linter.Status(r.Context())
	if err != nil {
		Error(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func decodeLintRequest(w http.ResponseWriter, r *http.Request) (orgdocs.LintRequest, bool) {
	var req orgdocs.LintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, orgdocs.Errorf(orgdocs.EINVALID, "invalid request body: %v", err))
		return req, false
	}
	if err := req.Validate(); err != nil {
		Error(w, err)
		return req, false
	}
	return req, true
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// Error writes an application error as a JSON response with the
// status implied by its error code.
func Error(w http.ResponseWriter, err error) {
	writeJSON(w, statusFromCode(orgdocs.ErrorCode(err)), map[string]string{
		"error": orgdocs.ErrorMessage(err),
	})
}

func statusFromCode(code string) int {
	switch code {
	case orgdocs.EINVALID:
		return http.StatusBadRequest
	case orgdocs.ENOTFOUND:
		return http.StatusNotFound
	case orgdocs.EUNSUPPORTED:
		return http.StatusUnprocessableEntity
	case orgdocs.ERATELIMIT:
		return http.StatusTooManyRequests
	case orgdocs.ETIMEOUT:
		return http.StatusGatewayTimeout
	case orgdocs.EUNAVAILABLE:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
