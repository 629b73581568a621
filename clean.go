package orgdocs

import (
	"regexp"
	"strings"
	"unicode"
)

// footerTitles holds normalized heading titles that mark the start of
// end-of-document boilerplate. Membership is exact after normalization;
// unlisted headings (e.g. "Installation") never truncate content.
var footerTitles = map[string]struct{}{
	"authors":                {},
	"author":                 {},
	"license":                {},
	"maintainers":            {},
	"maintainer":             {},
	"contributing":           {},
	"contribution":           {},
	"support":                {},
	"changelog":              {},
	"additional information": {},
	"security":               {},
}

// titleLookahead bounds how many lines below the title Clean searches
// for the short descriptive paragraph kept in the title block. Content
// further away is never pulled into the title block.
const titleLookahead = 11

// usageHeadingRe matches a level-2 "Usage" heading. The word must
// follow the heading marker as a whole-word prefix, so "## Usage notes"
// matches but "## Usages" does not.
var usageHeadingRe = regexp.MustCompile(`(?i)^##\s+usage\b`)

// Clean reduces a raw README document to an example-focused extract:
// the title and its first descriptive paragraph, followed by the
// substantive body with badges, "Usage" heading markers, and trailing
// footer sections (license, authors, etc.) removed.
//
// Clean is pure and total. Malformed or headingless input degrades to
// a normalized body with no title block; the worst case is an empty
// document normalized to a single trailing newline. The output always
// ends with exactly one line break, contains no runs of blank lines,
// and has no leading or trailing blank lines.
func Clean(text string) string {
	lines := splitLines(text)

	titleIndex := findTitle(lines)

	var titleBlock []string
	if titleIndex >= 0 {
		titleBlock = append(titleBlock, trimRightSpace(lines[titleIndex]))

		// Keep the first non-empty, non-heading, non-badge paragraph
		// line within the lookahead window under the title.
		limit := min(titleIndex+1+titleLookahead, len(lines))
		for i := titleIndex + 1; i < limit; i++ {
			stripped := strings.TrimSpace(lines[i])
			if stripped == "" {
				continue
			}
			if strings.HasPrefix(stripped, "#") || IsBadgeOrBannerLine(stripped) {
				continue
			}
			titleBlock = append(titleBlock, "", trimRightSpace(lines[i]))
			break
		}
	}

	start := findContentStart(lines, titleIndex)
	end := findContentEnd(lines, start)

	var body []string
	for _, line := range lines[start:end] {
		stripped := strings.TrimSpace(line)
		if IsBadgeOrBannerLine(stripped) {
			continue
		}
		// The usage heading only marks where content starts; the
		// heading text itself is redundant with the body that follows.
		if isUsageHeading(stripped) {
			continue
		}
		body = append(body, trimRightSpace(line))
	}

	var assembled []string
	if len(titleBlock) > 0 {
		assembled = append(assembled, titleBlock...)
		assembled = append(assembled, "")
	}
	assembled = append(assembled, body...)

	return strings.Join(compactBlankLines(assembled), "\n") + "\n"
}

// IsBadgeOrBannerLine reports whether a line renders a status badge or
// banner image rather than prose. A line qualifies if it opens with a
// Markdown image (or linked image), references shields.io, or mentions
// "badge" alongside a URL. The last rule is a known heuristic
// imprecision: prose that mentions a badge next to a link also matches.
func IsBadgeOrBannerLine(line string) bool {
	stripped := strings.TrimSpace(line)
	if stripped == "" {
		return false
	}
	if strings.HasPrefix(stripped, "[![") || strings.HasPrefix(stripped, "![") {
		return true
	}
	if strings.Contains(stripped, "shields.io") {
		return true
	}
	if strings.Contains(strings.ToLower(stripped), "badge") &&
		(strings.Contains(stripped, "http://") || strings.Contains(stripped, "https://")) {
		return true
	}
	return false
}

// NormalizeHeadingTitle strips the heading marker and lowercases the
// remaining title, collapsing internal whitespace runs to single
// spaces. "##  Additional   Information " becomes
// "additional information".
func NormalizeHeadingTitle(line string) string {
	title := strings.TrimSpace(line)
	n := 0
	for n < len(title) && n < 6 && title[n] == '#' {
		n++
	}
	title = strings.ToLower(strings.TrimSpace(title[n:]))
	return strings.Join(strings.Fields(title), " ")
}

// IsFooterHeading reports whether a line is a heading of level two or
// deeper whose normalized title is one of the known footer labels.
func IsFooterHeading(line string) bool {
	stripped := strings.TrimSpace(line)
	if !isSubheading(stripped) {
		return false
	}
	_, ok := footerTitles[NormalizeHeadingTitle(stripped)]
	return ok
}

// isSubheading matches headings of level two or deeper: two or more
// '#' characters followed by whitespace.
func isSubheading(stripped string) bool {
	n := 0
	for n < len(stripped) && stripped[n] == '#' {
		n++
	}
	if n < 2 || n >= len(stripped) {
		return false
	}
	return stripped[n] == ' ' || stripped[n] == '\t'
}

// isUsageHeading matches the level-2 usage heading that triggers
// content-start detection.
func isUsageHeading(stripped string) bool {
	return usageHeadingRe.MatchString(stripped)
}

// findTitle returns the index of the first level-1 heading line, or -1
// if the document has no title.
func findTitle(lines []string) int {
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "# ") {
			return i
		}
	}
	return -1
}

// contentStartRule locates a candidate content-start index. It returns
// ok=false when the rule does not apply to the document.
type contentStartRule func(lines []string, titleIndex int) (start int, ok bool)

// contentStartRules are evaluated in order and the first applicable
// rule wins. The priority order is part of the cleaning contract:
// a usage section beats the first sub-subsection, which beats the line
// after the title; a document matching none of these starts at index 0.
var contentStartRules = []contentStartRule{
	afterUsageHeading,
	atFirstSubSubheading,
	afterTitle,
}

func findContentStart(lines []string, titleIndex int) int {
	for _, rule := range contentStartRules {
		if start, ok := rule(lines, titleIndex); ok {
			return start
		}
	}
	return 0
}

// afterUsageHeading starts content on the line following the first
// level-2 usage heading.
func afterUsageHeading(lines []string, _ int) (int, bool) {
	for i, line := range lines {
		if isUsageHeading(strings.TrimSpace(line)) {
			return i + 1, true
		}
	}
	return 0, false
}

// atFirstSubSubheading starts content at the first level-3 heading.
func atFirstSubSubheading(lines []string, _ int) (int, bool) {
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "### ") {
			return i, true
		}
	}
	return 0, false
}

// afterTitle starts content on the line following the title, when a
// title exists.
func afterTitle(_ []string, titleIndex int) (int, bool) {
	if titleIndex < 0 {
		return 0, false
	}
	return titleIndex + 1, true
}

// findContentEnd scans forward from start and returns the index of the
// first footer heading, or the document length if none is found. The
// returned index is never smaller than start.
func findContentEnd(lines []string, start int) int {
	for i := start; i < len(lines); i++ {
		stripped := strings.TrimSpace(lines[i])
		if stripped == "" {
			continue
		}
		if IsFooterHeading(stripped) {
			return i
		}
	}
	return len(lines)
}

// compactBlankLines collapses runs of blank lines to a single blank
// line, right-trims every kept line, and strips leading and trailing
// blank lines.
func compactBlankLines(lines []string) []string {
	compacted := make([]string, 0, len(lines))
	blankRun := 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			blankRun++
			if blankRun <= 1 {
				compacted = append(compacted, "")
			}
			continue
		}
		blankRun = 0
		compacted = append(compacted, trimRightSpace(line))
	}

	for len(compacted) > 0 && compacted[0] == "" {
		compacted = compacted[1:]
	}
	for len(compacted) > 0 && compacted[len(compacted)-1] == "" {
		compacted = compacted[:len(compacted)-1]
	}

	return compacted
}

// splitLines normalizes CRLF and CR line endings to LF and splits the
// document into lines.
func splitLines(text string) []string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	return strings.Split(normalized, "\n")
}

func trimRightSpace(line string) string {
	return strings.TrimRightFunc(line, unicode.IsSpace)
}
