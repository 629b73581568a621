// Package github provides GitHub REST API implementations of the
// orgdocs repository listing and README fetching interfaces.
package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/orgdocs"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the GitHub REST API endpoint.
const DefaultBaseURL = "https://api.github.com"

// DefaultTimeout is the default timeout for API requests.
const DefaultTimeout = 30 * time.Second

// DefaultRequestsPerSecond is the default client-side rate limit.
// Unauthenticated GitHub API access is limited to 60 requests per hour;
// a token bucket keeps bursts polite either way.
const DefaultRequestsPerSecond = 5.0

const userAgent = "orgdocs/1.0"

// Ensure Client implements the domain interfaces at compile time.
var (
	_ orgdocs.RepositoryLister = (*Client)(nil)
	_ orgdocs.ReadmeFetcher    = (*Client)(nil)
)

// Client calls the GitHub REST API. The zero value is not usable;
// construct with NewClient.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	token      string
	timeout    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint. Used in tests and for
// GitHub Enterprise hosts.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(u, "/")
	}
}

// WithToken sets the bearer token for authenticated requests.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithTimeout sets the timeout for API requests.
// Defaults to DefaultTimeout (30s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithRequestsPerSecond sets the client-side rate limit.
func WithRequestsPerSecond(rps float64) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// NewClient creates a new GitHub API client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.limiter == nil {
		c.limiter = rate.NewLimiter(rate.Limit(DefaultRequestsPerSecond), 1)
	}
	c.httpClient = &http.Client{Timeout: c.timeout}

	return c
}

// ListRepositories returns all public repositories of the organization,
// following page-numbered pagination until an empty page is returned.
func (c *Client) ListRepositories(ctx context.Context, org string) ([]*orgdocs.Repository, error) {
	if org == "" {
		return nil, orgdocs.Errorf(orgdocs.EINVALID, "organization name required")
	}

	var repos []*orgdocs.Repository
	for page := 1; ; page++ {
		query := url.Values{}
		query.Set("per_page", "100")
		query.Set("page", strconv.Itoa(page))
		query.Set("type", "public")

		var batch []*orgdocs.Repository
		if err := c.get(ctx, fmt.Sprintf("%s/orgs/%s/repos?%s", c.baseURL, org, query.Encode()), &batch); err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			break
		}
		repos = append(repos, batch...)
	}

	return repos, nil
}

// readmePayload is the wire shape of the repository README endpoint.
type readmePayload struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
	Path     string `json:"path"`
}

// FetchReadme returns the repository's README decoded to text.
// The API returns the document base64-encoded with embedded newlines,
// which are stripped before decoding.
func (c *Client) FetchReadme(ctx context.Context, org, repo string) (*orgdocs.Readme, error) {
	var payload readmePayload
	err := c.get(ctx, fmt.Sprintf("%s/repos/%s/%s/readme", c.baseURL, org, repo), &payload)
	if err != nil {
		if orgdocs.ErrorCode(err) == orgdocs.ENOTFOUND {
			return nil, orgdocs.Errorf(orgdocs.ENOTFOUND, "no README found for %s/%s", org, repo)
		}
		return nil, err
	}

	if payload.Content == "" {
		return nil, orgdocs.Errorf(orgdocs.ENOTFOUND, "no README found for %s/%s", org, repo)
	}
	if payload.Encoding != "base64" {
		return nil, orgdocs.Errorf(orgdocs.EUNSUPPORTED, "unsupported README encoding for %s/%s: %s", org, repo, payload.Encoding)
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(payload.Content, "\n", ""))
	if err != nil {
		return nil, orgdocs.Errorf(orgdocs.EUNSUPPORTED, "invalid base64 README for %s/%s: %v", org, repo, err)
	}

	path := payload.Path
	if path == "" {
		path = "README.md"
	}

	return &orgdocs.Readme{
		Repo:    repo,
		Path:    path,
		Content: string(decoded),
	}, nil
}

// get performs a rate-limited GET request and decodes the JSON
// response into out. Failures are classified into domain error codes:
// exhausted API quota is ERATELIMIT, missing resources are ENOTFOUND,
// transport failures are EUNAVAILABLE.
func (c *Client) get(ctx context.Context, rawURL string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return orgdocs.Errorf(orgdocs.EUNAVAILABLE, "network error for %s: %v", rawURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return orgdocs.Errorf(orgdocs.EUNAVAILABLE, "reading response for %s: %v", rawURL, err)
	}

	if resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0" {
		return orgdocs.Errorf(orgdocs.ERATELIMIT, "%s", rateLimitMessage(resp.Header.Get("X-RateLimit-Reset")))
	}
	if resp.StatusCode == http.StatusNotFound {
		return orgdocs.Errorf(orgdocs.ENOTFOUND, "HTTP 404 for %s", rawURL)
	}
	if resp.StatusCode != http.StatusOK {
		return orgdocs.Errorf(orgdocs.EINTERNAL, "HTTP %d for %s: %s", resp.StatusCode, rawURL, body)
	}

	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return orgdocs.Errorf(orgdocs.EINTERNAL, "decoding response for %s: %v", rawURL, err)
	}
	return nil
}

// rateLimitMessage builds the quota-exhausted message, including the
// time until the quota resets when the reset header is parseable.
func rateLimitMessage(reset string) string {
	msg := "GitHub API rate limit reached. Set GITHUB_TOKEN for higher limits"
	if resetAt, err := strconv.ParseInt(reset, 10, 64); err == nil {
		if wait := resetAt - time.Now().Unix(); wait > 0 {
			msg += fmt.Sprintf(" (resets in ~%ds)", wait)
		}
	}
	return msg + "."
}
