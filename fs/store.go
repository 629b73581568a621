// Package fs provides file-based storage for extraction runs.
package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/fwojciec/orgdocs"
)

// File names within a run directory.
const (
	OriginalFileName = "README.original.md"
	CleanedFileName  = "README.cleaned.md"
	SummaryFileName  = "summary.json"
	IndexFileName    = "README.md"
)

var runDirRe = regexp.MustCompile(`^extract(\d+)$`)

// NextRunDir allocates the path of the next numbered run directory
// under downloadsDir: extract1, extract2, ... one past the highest
// existing number. The directory itself is not created; the returned
// path is handed to NewRunStore.
func NextRunDir(downloadsDir string) (string, error) {
	if err := os.MkdirAll(downloadsDir, 0755); err != nil {
		return "", err
	}

	entries, err := os.ReadDir(downloadsDir)
	if err != nil {
		return "", err
	}

	var highest int
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		m := runDirRe.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > highest {
			highest = n
		}
	}

	return filepath.Join(downloadsDir, fmt.Sprintf("extract%d", highest+1)), nil
}

// Ensure RunStore implements orgdocs.ExtractStore at compile time.
var _ orgdocs.ExtractStore = (*RunStore)(nil)

// RunStore persists one extraction run with atomic update semantics.
// Files are written to <dir>.tmp and moved to <dir> on Commit, so a
// failed run never leaves a partial run directory behind.
type RunStore struct {
	root string // workspace root; saved paths are reported relative to it
	dir  string // final run directory
}

// NewRunStore creates a RunStore writing the run at dir. Saved file
// paths are reported relative to root.
func NewRunStore(root, dir string) *RunStore {
	return &RunStore{root: root, dir: dir}
}

// Dir returns the final run directory path.
func (s *RunStore) Dir() string {
	return s.dir
}

func (s *RunStore) tempDir() string {
	return s.dir + ".tmp"
}

// SaveExtract writes the original/cleaned pair for one repository and
// returns the saved file paths relative to the workspace root.
func (s *RunStore) SaveExtract(ctx context.Context, extract *orgdocs.Extract) (string, string, error) {
	if err := extract.Validate(); err != nil {
		return "", "", err
	}

	repoDir := filepath.Join(s.tempDir(), extract.Repo)
	if err := os.MkdirAll(repoDir, 0755); err != nil {
		return "", "", err
	}

	if err := os.WriteFile(filepath.Join(repoDir, OriginalFileName), []byte(extract.Original), 0644); err != nil {
		return "", "", err
	}
	if err := os.WriteFile(filepath.Join(repoDir, CleanedFileName), []byte(extract.Cleaned), 0644); err != nil {
		return "", "", err
	}

	originalRel, err := filepath.Rel(s.root, filepath.Join(s.dir, extract.Repo, OriginalFileName))
	if err != nil {
		return "", "", err
	}
	cleanedRel, err := filepath.Rel(s.root, filepath.Join(s.dir, extract.Repo, CleanedFileName))
	if err != nil {
		return "", "", err
	}

	return originalRel, cleanedRel, nil
}

// SaveSummary writes the machine-readable summary and the index
// document for the run.
func (s *RunStore) SaveSummary(ctx context.Context, summary *orgdocs.Summary) error {
	if err := os.MkdirAll(s.tempDir(), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(s.tempDir(), SummaryFileName), data, 0644); err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(s.tempDir(), IndexFileName), []byte(FormatIndex(summary)), 0644)
}

// Commit atomically renames the temp directory to the final run
// directory, replacing any stale directory at that path.
func (s *RunStore) Commit() error {
	if err := os.RemoveAll(s.dir); err != nil {
		return err
	}
	return os.Rename(s.tempDir(), s.dir)
}

// Abort discards all pending writes.
func (s *RunStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}

// FormatIndex renders the human-readable index document for a run:
// counts, the processed repositories with links to their cleaned
// extracts, and the skipped repositories with reasons.
func FormatIndex(summary *orgdocs.Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# README extraction for `%s`\n\n", summary.Organization)
	fmt.Fprintf(&b, "- Total repos discovered: %d\n", summary.RepositoryCount)
	fmt.Fprintf(&b, "- Processed: %d\n", len(summary.Processed))
	fmt.Fprintf(&b, "- Skipped: %d\n", len(summary.Skipped))
	b.WriteString("\n## Processed repositories\n\n")

	for _, item := range summary.Processed {
		fmt.Fprintf(&b, "- `%s` → `%s`\n", item.Repo, item.CleanedFile)
	}

	if len(summary.Skipped) > 0 {
		b.WriteString("\n## Skipped repositories\n\n")
		for _, item := range summary.Skipped {
			fmt.Fprintf(&b, "- `%s`: %s\n", item.Repo, item.Reason)
		}
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}
