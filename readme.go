package orgdocs

import "context"

// Repository describes a repository discovered in an organization
// listing.
type Repository struct {
	Name     string `json:"name"`
	Archived bool   `json:"archived"`
}

// Readme is a repository README decoded to text.
type Readme struct {
	// Repo is the repository the README belongs to.
	Repo string

	// Path is the README's path within the repository, e.g. "README.md".
	Path string

	// Content is the decoded document text.
	Content string
}

// Extract holds the original and cleaned README for one repository.
type Extract struct {
	Repo       string
	ReadmePath string
	Original   string
	Cleaned    string

	// ContentHash is a hash of the cleaned content, used to detect
	// unchanged extracts across runs.
	ContentHash string

	// Sections is the heading outline of the cleaned document.
	Sections []Section
}

// Validate returns an error if the extract contains invalid fields.
func (e *Extract) Validate() error {
	if e.Repo == "" {
		return Errorf(EINVALID, "extract repository name required")
	}
	if e.Original == "" {
		return Errorf(EINVALID, "extract original content required")
	}
	return nil
}

// ProcessedRepo records a successfully extracted repository in a run
// summary.
type ProcessedRepo struct {
	Repo         string    `json:"repo"`
	ReadmePath   string    `json:"readme_path"`
	OriginalFile string    `json:"original_file"`
	CleanedFile  string    `json:"cleaned_file"`
	ContentHash  string    `json:"content_hash"`
	Sections     []Section `json:"sections,omitempty"`
}

// SkippedRepo records a repository that was not extracted and why.
type SkippedRepo struct {
	Repo   string `json:"repo"`
	Reason string `json:"reason"`
}

// Summary aggregates the outcomes of one extraction run, keyed by
// repository name.
type Summary struct {
	RunID           string          `json:"run_id"`
	Organization    string          `json:"organization"`
	Output          string          `json:"output"`
	RepositoryCount int             `json:"repository_count"`
	Processed       []ProcessedRepo `json:"processed"`
	Skipped         []SkippedRepo   `json:"skipped"`
	GeneratedAt     int64           `json:"generated_at"`
}

// RepositoryLister lists the public repositories of an organization.
type RepositoryLister interface {
	// ListRepositories returns all repositories of the organization,
	// following pagination until exhausted.
	ListRepositories(ctx context.Context, org string) ([]*Repository, error)
}

// ReadmeFetcher retrieves and decodes a repository's README.
type ReadmeFetcher interface {
	// FetchReadme returns the repository's README decoded to text.
	// Returns ENOTFOUND if the repository has no README and
	// EUNSUPPORTED if the content encoding cannot be decoded.
	FetchReadme(ctx context.Context, org, repo string) (*Readme, error)
}

// ExtractStore persists extraction runs with atomic semantics.
// Extracts and the summary are written to a temporary location;
// Commit makes the run permanent; Abort discards pending writes.
type ExtractStore interface {
	// SaveExtract writes the original/cleaned pair for one repository
	// and returns the saved file paths relative to the workspace root.
	SaveExtract(ctx context.Context, extract *Extract) (originalFile, cleanedFile string, err error)

	// SaveSummary writes the run summary and index document.
	SaveSummary(ctx context.Context, summary *Summary) error

	// Dir returns the final run directory path.
	Dir() string

	Commit() error
	Abort() error
}
