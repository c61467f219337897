package align

import (
	"context"
	"log"
	"strings"

	"slide-coach/internal/models"
	"slide-coach/shared/ai"
)

// AlignScript maps the script onto the slide set. One model call
// segments the script along topic boundaries and assigns each segment
// to a slide; on any failure the heuristic segmentation path takes
// over, so the caller always receives exactly one match per slide.
func (e *Engine) AlignScript(ctx context.Context, summaries []models.SlideSummary, script string) ([]models.ScriptMatch, models.MatchSource) {
	slideCount := len(summaries)

	if !e.aiEnabled() {
		return e.heuristicMatches(script, slideCount), models.SourceHeuristic
	}

	response, err := e.invoker.Invoke(ctx, ai.StageAlignment, ai.BuildAlignmentPrompt(summaries, script))
	if err != nil {
		log.Printf("Warning: alignment call failed, falling back to heuristic segmentation: %v", err)
		return e.heuristicMatches(script, slideCount), models.SourceHeuristic
	}

	matches, err := parseAlignment(response, slideCount)
	if err != nil {
		log.Printf("Warning: unusable alignment response, falling back to heuristic segmentation: %v", err)
		return e.heuristicMatches(script, slideCount), models.SourceHeuristic
	}

	if issues := ai.ValidateSections(sectionTexts(matches), slideCount, e.cfg.Segmenter.MinSectionChars); len(issues) > 0 {
		for _, issue := range issues {
			log.Printf("Alignment validation: %s", issue)
		}
	}

	return matches, models.SourceSemantic
}

// parseAlignment extracts the matches array and normalizes it to
// exactly one entry per slide, 1-based and contiguous. Confidence is
// clamped to [0, 100]. Slides the model skipped get an explicit empty
// placeholder rather than being dropped.
func parseAlignment(response string, slideCount int) ([]models.ScriptMatch, error) {
	var parsed struct {
		Matches []models.ScriptMatch `json:"matches"`
	}
	if err := ai.ExtractObject(response, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Matches) == 0 {
		return nil, &ai.UnparseableError{Preview: "alignment response contained no matches"}
	}

	matches := make([]models.ScriptMatch, slideCount)
	assigned := make([]bool, slideCount)

	for _, m := range parsed.Matches {
		if m.SlideNumber < 1 || m.SlideNumber > slideCount {
			log.Printf("Warning: dropping match for out-of-range slide %d", m.SlideNumber)
			continue
		}
		idx := m.SlideNumber - 1
		if assigned[idx] {
			// Model double-assigned a slide: keep the first, append
			// the extra text so no script content is lost.
			matches[idx].ScriptSection = strings.TrimSpace(matches[idx].ScriptSection + "\n\n" + m.ScriptSection)
			continue
		}
		m.Confidence = clampConfidence(m.Confidence)
		matches[idx] = m
		assigned[idx] = true
	}

	anyAssigned := false
	for i := range matches {
		if assigned[i] {
			anyAssigned = true
			continue
		}
		matches[i] = models.ScriptMatch{
			SlideNumber: i + 1,
			Confidence:  0,
			Reasoning:   "no script content assigned to this slide",
		}
	}
	if !anyAssigned {
		return nil, &ai.UnparseableError{Preview: "no match referenced a valid slide number"}
	}

	return matches, nil
}

func clampConfidence(c int) int {
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}

func sectionTexts(matches []models.ScriptMatch) []string {
	texts := make([]string, len(matches))
	for i, m := range matches {
		texts[i] = m.ScriptSection
	}
	return texts
}
