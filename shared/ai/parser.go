package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// UnparseableError is raised when every extraction strategy failed. It
// carries a truncated preview of the raw text for diagnostics.
type UnparseableError struct {
	Preview string
}

func (e *UnparseableError) Error() string {
	return fmt.Sprintf("unparseable model response (preview: %q)", e.Preview)
}

const previewLength = 200

func newUnparseable(raw string) *UnparseableError {
	preview := strings.TrimSpace(raw)
	if len(preview) > previewLength {
		preview = preview[:previewLength] + "..."
	}
	return &UnparseableError{Preview: preview}
}

var (
	blockCommentRe = regexp.MustCompile(`(?s)/\*.*?\*/`)
	lineCommentRe  = regexp.MustCompile(`(?m)(^\s*//.*$|\s//\s.*$)`)
	trailingComma  = regexp.MustCompile(`,\s*([}\]])`)
	// Unquoted bracketed placeholders the model emits for slides it
	// could not fill, e.g. [no content]
	placeholderRe  = regexp.MustCompile(`([,\[]\s*)\[[^\[\]"]*\](\s*[,\]])`)
	numberedLineRe = regexp.MustCompile(`^\s*\d+[.)]\s+(.*)$`)
	headingLineRe  = regexp.MustCompile("^\\s*(#{1,6}\\s|```)")
	quotedRunRe    = regexp.MustCompile(`"([^"\n]{20,})"`)
	paragraphGapRe = regexp.MustCompile(`\n\s*\n`)
)

// ExtractObject parses a single JSON object out of free-form model
// output. It slices between the first '{' and the last '}' and, when
// strict parsing fails, sanitizes comments and trailing commas before
// retrying.
func ExtractObject(raw string, v any) error {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return newUnparseable(raw)
	}

	jsonStr := raw[start : end+1]
	if err := json.Unmarshal([]byte(jsonStr), v); err != nil {
		if err := json.Unmarshal([]byte(sanitizeJSON(jsonStr)), v); err != nil {
			return newUnparseable(raw)
		}
	}
	return nil
}

// ExtractSections recovers an ordered list of script sections from
// free-form model output. Strategies are tried in order until one
// yields content; total failure is an UnparseableError, never a silent
// empty result.
func ExtractSections(raw string) ([]string, error) {
	if sections, ok := parseStringArray(raw); ok {
		return sections, nil
	}
	if sections, ok := parseStringArray(sanitizeJSON(raw)); ok {
		return sections, nil
	}
	if sections := extractNumberedList(raw); len(sections) > 0 {
		return sections, nil
	}
	if sections := extractQuotedRuns(raw); len(sections) > 0 {
		return sections, nil
	}
	if sections := extractParagraphs(raw); len(sections) > 0 {
		return sections, nil
	}
	return nil, newUnparseable(raw)
}

func parseStringArray(raw string) ([]string, bool) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start == -1 || end == -1 || end < start {
		return nil, false
	}

	var sections []string
	if err := json.Unmarshal([]byte(raw[start:end+1]), &sections); err != nil {
		return nil, false
	}
	return sections, true
}

// sanitizeJSON strips the decorations models commonly add to "JSON"
// output: line and block comments, trailing commas, and unquoted
// bracketed placeholder tokens.
func sanitizeJSON(raw string) string {
	out := blockCommentRe.ReplaceAllString(raw, "")
	out = lineCommentRe.ReplaceAllString(out, "")
	out = placeholderRe.ReplaceAllString(out, `$1""$2`)
	out = trailingComma.ReplaceAllString(out, "$1")
	return out
}

// extractNumberedList treats lines like "1. text" or "2) text" as
// section starts and accumulates until a heading or markdown fence.
func extractNumberedList(raw string) []string {
	var sections []string
	var current []string

	flush := func() {
		if len(current) > 0 {
			if text := strings.TrimSpace(strings.Join(current, "\n")); text != "" {
				sections = append(sections, text)
			}
			current = nil
		}
	}

	for _, line := range strings.Split(raw, "\n") {
		if m := numberedLineRe.FindStringSubmatch(line); m != nil {
			flush()
			current = []string{strings.TrimSpace(m[1])}
			continue
		}
		if headingLineRe.MatchString(line) {
			flush()
			continue
		}
		if current != nil {
			current = append(current, strings.TrimSpace(line))
		}
	}
	flush()

	return sections
}

// extractQuotedRuns pulls quoted strings that look like real spoken
// sentences: at least 20 characters, sentence punctuation, 5+ words.
func extractQuotedRuns(raw string) []string {
	var sections []string
	for _, m := range quotedRunRe.FindAllStringSubmatch(raw, -1) {
		candidate := m[1]
		if !strings.ContainsAny(candidate, ".!?") {
			continue
		}
		if len(strings.Fields(candidate)) < 5 {
			continue
		}
		sections = append(sections, candidate)
	}
	return sections
}

func extractParagraphs(raw string) []string {
	var sections []string
	for _, p := range paragraphGapRe.Split(raw, -1) {
		if p = strings.TrimSpace(p); len(p) > 20 {
			sections = append(sections, p)
		}
	}
	return sections
}

// ValidateSections reports contract violations in a parsed section
// list. Violations are reported, never auto-corrected; the caller
// decides whether to proceed.
func ValidateSections(sections []string, expectedCount, minAvgChars int) []string {
	var issues []string

	if len(sections) == 0 {
		issues = append(issues, "no sections extracted")
		return issues
	}

	if expectedCount > 0 {
		diff := len(sections) - expectedCount
		if diff < -2 || diff > 2 {
			issues = append(issues, fmt.Sprintf("section count %d is outside ±2 of expected %d", len(sections), expectedCount))
		}
	}

	var total, nonEmpty int
	for _, s := range sections {
		if s = strings.TrimSpace(s); s != "" {
			total += len(s)
			nonEmpty++
		}
	}
	if nonEmpty > 0 && total/nonEmpty < minAvgChars {
		issues = append(issues, fmt.Sprintf("average section length %d chars is below minimum %d", total/nonEmpty, minAvgChars))
	}

	return issues
}
