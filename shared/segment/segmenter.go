package segment

import (
	"regexp"
	"sort"
	"strings"

	"slide-coach/shared/config"
)

// Outcome tags how a segmentation was produced so callers branch
// explicitly instead of inspecting the section list.
type Outcome int

const (
	// Segmented means a primary strategy (markers, headers or
	// paragraph grouping) produced the sections.
	Segmented Outcome = iota
	// Fallback means the divider/paragraph last-resort strategy ran.
	Fallback
	// Failed means no strategy yielded any content. Callers must treat
	// this as "no script available", not as an error.
	Failed
)

// Strategy names the segmentation strategy that produced a result.
type Strategy string

const (
	StrategyMarkers    Strategy = "slide_markers"
	StrategyHeaders    Strategy = "section_headers"
	StrategyGrouping   Strategy = "paragraph_grouping"
	StrategyDividers   Strategy = "divider_lines"
	StrategyParagraphs Strategy = "paragraphs"
	StrategyNone       Strategy = "none"
)

// Result is the tagged output of a segmentation pass.
type Result struct {
	Outcome  Outcome
	Strategy Strategy
	Sections []string
}

var slideMarkerRe = regexp.MustCompile(`(?i)slide\s+\d+`)
var dividerRe = regexp.MustCompile(`(?m)^\s*---+\s*$`)
var paragraphRe = regexp.MustCompile(`\n\s*\n`)

// Segmenter splits a raw script into ordered per-slide sections without
// any model involvement. Strategy priority is fixed; first match wins.
type Segmenter struct {
	cfg *config.SegmenterConfig
}

func NewSegmenter(cfg *config.SegmenterConfig) *Segmenter {
	return &Segmenter{cfg: cfg}
}

// Segment splits script into ordered sections. slideCount may be 0 when
// the target deck size is unknown; it only enables paragraph grouping.
func (s *Segmenter) Segment(script string, slideCount int) Result {
	script = strings.TrimSpace(script)
	if script == "" {
		return Result{Outcome: Failed, Strategy: StrategyNone}
	}

	if sections := s.splitByMarkers(script); len(sections) > 0 {
		return Result{Outcome: Segmented, Strategy: StrategyMarkers, Sections: sections}
	}

	if sections := s.splitByHeaders(script); len(sections) > 0 {
		return Result{Outcome: Segmented, Strategy: StrategyHeaders, Sections: sections}
	}

	if slideCount > 0 {
		if sections := s.groupParagraphs(script, slideCount); len(sections) > 0 {
			return Result{Outcome: Segmented, Strategy: StrategyGrouping, Sections: sections}
		}
	}

	if sections := splitOnDividers(script); len(sections) > 1 {
		return Result{Outcome: Fallback, Strategy: StrategyDividers, Sections: sections}
	}

	if sections := s.filteredParagraphs(script); len(sections) > 0 {
		return Result{Outcome: Fallback, Strategy: StrategyParagraphs, Sections: sections}
	}

	return Result{Outcome: Failed, Strategy: StrategyNone}
}

// splitByMarkers splits at explicit "Slide N" markers. Content before
// the first marker is discarded.
func (s *Segmenter) splitByMarkers(script string) []string {
	locs := slideMarkerRe.FindAllStringIndex(script, -1)
	if len(locs) == 0 {
		return nil
	}

	var sections []string
	for i, loc := range locs {
		start := loc[1]
		end := len(script)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		text := strings.TrimSpace(script[start:end])
		if text != "" {
			sections = append(sections, text)
		}
	}
	return sections
}

// splitByHeaders locates configured header phrases by case-insensitive
// substring search and cuts the script between consecutive headers. A
// single header is not a useful segmentation, so two or more must hit.
func (s *Segmenter) splitByHeaders(script string) []string {
	lower := strings.ToLower(script)

	var positions []int
	for _, header := range s.cfg.SectionHeaders {
		if idx := strings.Index(lower, strings.ToLower(header)); idx >= 0 {
			positions = append(positions, idx)
		}
	}
	if len(positions) < 2 {
		return nil
	}
	sort.Ints(positions)

	var sections []string
	for i, pos := range positions {
		end := len(script)
		if i+1 < len(positions) {
			end = positions[i+1]
		}
		text := strings.TrimSpace(script[pos:end])
		if text != "" {
			sections = append(sections, text)
		}
	}
	return sections
}

// groupParagraphs buckets blank-line-delimited paragraphs into at most
// slideCount groups of ceil(paragraphs/slideCount) each.
func (s *Segmenter) groupParagraphs(script string, slideCount int) []string {
	paragraphs := splitParagraphs(script)
	if len(paragraphs) == 0 {
		return nil
	}

	perBucket := (len(paragraphs) + slideCount - 1) / slideCount
	var sections []string
	for start := 0; start < len(paragraphs); start += perBucket {
		end := start + perBucket
		if end > len(paragraphs) {
			end = len(paragraphs)
		}
		sections = append(sections, strings.Join(paragraphs[start:end], "\n\n"))
	}
	return sections
}

func splitOnDividers(script string) []string {
	var sections []string
	for _, part := range dividerRe.Split(script, -1) {
		if part = strings.TrimSpace(part); part != "" {
			sections = append(sections, part)
		}
	}
	return sections
}

// filteredParagraphs is the last resort: paragraphs above a minimum
// length so stray one-word lines do not become slides.
func (s *Segmenter) filteredParagraphs(script string) []string {
	var sections []string
	for _, p := range splitParagraphs(script) {
		if len(p) > s.cfg.MinSectionChars {
			sections = append(sections, p)
		}
	}
	return sections
}

func splitParagraphs(script string) []string {
	var paragraphs []string
	for _, p := range paragraphRe.Split(script, -1) {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}
