package models

import "strings"

// ScriptSection is one ordered chunk of the speaking script. Index is
// 1-based. Text may be empty only as an explicit placeholder when no
// content could be assigned to a slide.
type ScriptSection struct {
	Index     int    `json:"index"`
	Text      string `json:"text"`
	WordCount int    `json:"word_count"`
}

// NewScriptSection builds a section with its word count filled in.
func NewScriptSection(index int, text string) ScriptSection {
	return ScriptSection{
		Index:     index,
		Text:      text,
		WordCount: len(strings.Fields(text)),
	}
}

// ScriptMatch maps one script segment onto one slide. Confidence is an
// integer in [0, 100]. NeedsReview is set when confidence falls at or
// below the configured review threshold.
type ScriptMatch struct {
	SlideNumber   int      `json:"slide_number"`
	ScriptSection string   `json:"script_section"`
	Confidence    int      `json:"confidence"`
	Reasoning     string   `json:"reasoning"`
	KeyAlignment  []string `json:"key_alignment"`
	NeedsReview   bool     `json:"needs_review,omitempty"`
}
