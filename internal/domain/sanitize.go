package domain

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// maxStripPasses bounds the markup-stripping loop. Each pass can only
// shorten the text, so real input settles in one or two passes.
const maxStripPasses = 8

var (
	smartQuoteReplacer = strings.NewReplacer(
		"“", `"`,
		"”", `"`,
		"‘", "'",
		"’", "'",
	)

	newlineReplacer = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

	// Paired delimiters are unwrapped longest first so that "__x__"
	// is not half-consumed by the single underscore rule.
	markdownPairs = []*regexp.Regexp{
		regexp.MustCompile(`\*\*(.+?)\*\*`),
		regexp.MustCompile(`\*(.+?)\*`),
		regexp.MustCompile(`__(.+?)__`),
		regexp.MustCompile(`_(.+?)_`),
		regexp.MustCompile("`(.+?)`"),
		regexp.MustCompile(`\[(.+?)\]\(.+?\)`),
	}

	markdownLinePrefixes = []*regexp.Regexp{
		regexp.MustCompile(`(?m)^#{1,6}\s+`),
		regexp.MustCompile(`(?m)^\s*[-*+]\s+`),
		regexp.MustCompile(`(?m)^\s*\d+\.\s+`),
	}

	hashtagSeparators = regexp.MustCompile(`[\s,#]+`)
)

// SanitizeText reduces free text to plain text: smart quotes become ASCII
// quotes, markup tags are removed, markdown emphasis, code, links, headings
// and list markers are unwrapped to their inner text, and the result is
// truncated to maxLength characters.
func SanitizeText(text string, maxLength int) string {
	s := strings.TrimSpace(smartQuoteReplacer.Replace(text))

	for range maxStripPasses {
		next := stripMarkdown(htmlTagPattern.ReplaceAllString(s, ""))
		if next == s {
			break
		}

		s = next
	}

	return strings.TrimSpace(truncate(s, maxLength))
}

// SanitizeTitle sanitizes a title and collapses it onto a single line.
func SanitizeTitle(s string) string {
	return sanitizeSingleLine(s, MaxTitleLength)
}

// SanitizeContent sanitizes quote content. Newlines are kept.
func SanitizeContent(s string) string {
	return SanitizeText(s, MaxContentLength)
}

// SanitizeAuthor sanitizes an author name and collapses it onto a single line.
func SanitizeAuthor(s string) string {
	return sanitizeSingleLine(s, MaxAuthorLength)
}

// sanitizeSingleLine strips heading and list markers while newlines still
// mark line starts, then collapses the lines and sanitizes once more so
// markup that spanned a line break is unwrapped as well.
func sanitizeSingleLine(s string, maxLength int) string {
	return SanitizeText(newlineReplacer.Replace(SanitizeText(s, maxLength)), maxLength)
}

// ParseHashtags splits each input on whitespace, commas and '#', lowercases
// the pieces and returns them without empties or repeats, in first-seen order.
func ParseHashtags(inputs ...string) []string {
	tags := make([]string, 0)
	seen := make(map[string]struct{})

	for _, in := range inputs {
		for _, piece := range hashtagSeparators.Split(in, -1) {
			name := NormalizeTagName(piece)
			if name == "" {
				continue
			}

			if _, dup := seen[name]; dup {
				continue
			}

			seen[name] = struct{}{}
			tags = append(tags, name)
		}
	}

	return tags
}

func stripMarkdown(s string) string {
	for _, re := range markdownPairs {
		s = re.ReplaceAllString(s, "${1}")
	}

	for _, re := range markdownLinePrefixes {
		s = re.ReplaceAllString(s, "")
	}

	return strings.TrimSpace(s)
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if n < 0 || utf8.RuneCountInString(s) <= n {
		return s
	}

	return string([]rune(s)[:n])
}
