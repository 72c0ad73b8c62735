package textfmt

import (
	"regexp"
	"strings"
)

// numberedLinePattern matches lines following the "<N>. <text>" convention.
var numberedLinePattern = regexp.MustCompile(`^\d+\.\s+`)

const defaultSummaryLength = 60

// IsNumberedList reports whether every non-blank line of text carries a
// "<N>. " prefix. A block with at least one non-matching line is plain prose.
func IsNumberedList(text string) bool {
	lines := nonBlankLines(text)
	if len(lines) == 0 {
		return false
	}
	for _, line := range lines {
		if !numberedLinePattern.MatchString(line) {
			return false
		}
	}
	return true
}

// ListItems returns the item bodies of a numbered-list block with their
// numbering prefixes stripped. Callers should check IsNumberedList first;
// non-matching lines are returned unchanged.
func ListItems(text string) []string {
	lines := nonBlankLines(text)
	items := make([]string, 0, len(lines))
	for _, line := range lines {
		items = append(items, numberedLinePattern.ReplaceAllString(line, ""))
	}
	return items
}

// Summarize reduces a text block to its first line, with any numbering
// prefix removed, truncated to maxLength runes with an ellipsis. A
// non-positive maxLength uses the default of 60.
func Summarize(text string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = defaultSummaryLength
	}
	lines := nonBlankLines(text)
	if len(lines) == 0 {
		return ""
	}
	first := numberedLinePattern.ReplaceAllString(lines[0], "")
	runes := []rune(first)
	if len(runes) > maxLength {
		return string(runes[:maxLength]) + "..."
	}
	return first
}

func nonBlankLines(text string) []string {
	if text == "" {
		return nil
	}
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		lines = append(lines, trimmed)
	}
	return lines
}
