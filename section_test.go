package orgdocs_test

import (
	"testing"

	"github.com/fwojciec/orgdocs"
	"github.com/stretchr/testify/assert"
)

func TestExtractSections(t *testing.T) {
	t.Parallel()

	t.Run("extracts H1 heading", func(t *testing.T) {
		t.Parallel()

		markdown := "# Introduction\n\nSome content here."

		sections := orgdocs.ExtractSections(markdown)

		assert.Len(t, sections, 1)
		assert.Equal(t, 1, sections[0].Level)
		assert.Equal(t, "Introduction", sections[0].Title)
		assert.Equal(t, "introduction", sections[0].Anchor)
	})

	t.Run("extracts H2 through H6 headings", func(t *testing.T) {
		t.Parallel()

		markdown := `# H1 Title
## H2 Title
### H3 Title
#### H4 Title
##### H5 Title
###### H6 Title`

		sections := orgdocs.ExtractSections(markdown)

		assert.Len(t, sections, 6)
		for i, section := range sections {
			assert.Equal(t, i+1, section.Level)
		}
	})

	t.Run("generates URL-safe anchors", func(t *testing.T) {
		t.Parallel()

		markdown := "# Getting Started With Go"

		sections := orgdocs.ExtractSections(markdown)

		assert.Len(t, sections, 1)
		assert.Equal(t, "getting-started-with-go", sections[0].Anchor)
	})

	t.Run("handles duplicate headings with numeric suffixes", func(t *testing.T) {
		t.Parallel()

		markdown := `# Example
## Example
### Example`

		sections := orgdocs.ExtractSections(markdown)

		assert.Len(t, sections, 3)
		assert.Equal(t, "example", sections[0].Anchor)
		assert.Equal(t, "example-1", sections[1].Anchor)
		assert.Equal(t, "example-2", sections[2].Anchor)
	})

	t.Run("returns empty slice for empty markdown", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, orgdocs.ExtractSections(""))
	})

	t.Run("returns empty slice for markdown without headings", func(t *testing.T) {
		t.Parallel()

		markdown := "Just some text\n\nWith paragraphs."

		assert.Empty(t, orgdocs.ExtractSections(markdown))
	})

	t.Run("strips special characters from anchors", func(t *testing.T) {
		t.Parallel()

		markdown := "# API Reference (v2.0)"

		sections := orgdocs.ExtractSections(markdown)

		assert.Len(t, sections, 1)
		assert.Equal(t, "api-reference-v20", sections[0].Anchor)
	})

	t.Run("punctuation-only words leave no extra hyphens", func(t *testing.T) {
		t.Parallel()

		markdown := "# Usage && Examples"

		sections := orgdocs.ExtractSections(markdown)

		assert.Len(t, sections, 1)
		assert.Equal(t, "usage-examples", sections[0].Anchor)
	})

	t.Run("ignores hash without trailing space", func(t *testing.T) {
		t.Parallel()

		markdown := "#hashtag\n\n# Real Heading"

		sections := orgdocs.ExtractSections(markdown)

		assert.Len(t, sections, 1)
		assert.Equal(t, "Real Heading", sections[0].Title)
	})

	t.Run("ignores code blocks with hash symbols", func(t *testing.T) {
		t.Parallel()

		markdown := `# Real Heading

` + "```bash\n# This is a comment\necho hello\n```" + `

## Another Real Heading`

		sections := orgdocs.ExtractSections(markdown)

		assert.Len(t, sections, 2)
		assert.Equal(t, "Real Heading", sections[0].Title)
		assert.Equal(t, "Another Real Heading", sections[1].Title)
	})

	t.Run("works on cleaned extracts", func(t *testing.T) {
		t.Parallel()

		cleaned := orgdocs.Clean("# Title\n\nintro\n\n## Usage\n\n### Basic example\n\ncode\n")

		sections := orgdocs.ExtractSections(cleaned)

		assert.Len(t, sections, 2)
		assert.Equal(t, "Title", sections[0].Title)
		assert.Equal(t, "Basic example", sections[1].Title)
	})
}
