package orgdocs

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Section represents a heading in a markdown document.
type Section struct {
	Level  int    `json:"level"`
	Title  string `json:"title"`
	Anchor string `json:"anchor"`
}

// codeBlockRe matches fenced code blocks, which may contain lines that
// look like headings.
var codeBlockRe = regexp.MustCompile("(?s)```.*?```")

// ExtractSections parses markdown and returns its heading outline
// (H1-H6). It generates URL-safe anchors and disambiguates duplicate
// titles with numeric suffixes. Used to record a cleaned extract's
// structure in the run summary.
func ExtractSections(markdown string) []Section {
	if markdown == "" {
		return nil
	}

	var sections []Section
	anchorCounts := make(map[string]int)

	for _, line := range splitLines(codeBlockRe.ReplaceAllString(markdown, "")) {
		level, title, ok := parseHeading(line)
		if !ok {
			continue
		}

		anchor := generateAnchor(title)
		if count, exists := anchorCounts[anchor]; exists {
			anchorCounts[anchor] = count + 1
			anchor = anchor + "-" + strconv.Itoa(count)
		} else {
			anchorCounts[anchor] = 1
		}

		sections = append(sections, Section{
			Level:  level,
			Title:  title,
			Anchor: anchor,
		})
	}

	return sections
}

// parseHeading splits a markdown heading line into its level and title.
func parseHeading(line string) (level int, title string, ok bool) {
	for level < len(line) && level < 6 && line[level] == '#' {
		level++
	}
	if level == 0 || level >= len(line) || (line[level] != ' ' && line[level] != '\t') {
		return 0, "", false
	}
	title = strings.TrimSpace(line[level:])
	if title == "" {
		return 0, "", false
	}
	return level, title, true
}

// generateAnchor creates a URL-safe anchor from a title: lowercase,
// words joined by single hyphens, special characters removed. Words
// that are all punctuation vanish without leaving a hyphen behind.
func generateAnchor(title string) string {
	words := strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return unicode.IsSpace(r) || r == '-'
	})

	parts := words[:0]
	for _, word := range words {
		word = strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				return r
			}
			return -1
		}, word)
		if word != "" {
			parts = append(parts, word)
		}
	}

	return strings.Join(parts, "-")
}
