package extract

import (
	"bytes"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	utf8BOM        = []byte{0xEF, 0xBB, 0xBF}
	horizontalRuns = regexp.MustCompile(`[ \t\f\v\x{00A0}]+`)
	blankLineRuns  = regexp.MustCompile(`\n\n\n+`)
)

// extractTXT decodes UTF-8, replacing invalid sequences instead of failing.
func extractTXT(data []byte) string {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data)
	}
	return strings.ToValidUTF8(string(data), string(utf8.RuneError))
}

// cleanText normalizes whitespace in text recovered from binary formats while
// keeping line structure: CRLF becomes LF, runs of spaces collapse, trailing
// spaces go, and at most one blank line separates blocks.
func cleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		line = horizontalRuns.ReplaceAllString(line, " ")
		lines[i] = strings.TrimSpace(line)
	}

	result := strings.Join(lines, "\n")
	result = blankLineRuns.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}
