package align

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"slide-coach/internal/models"
	"slide-coach/shared/ai"
	"slide-coach/shared/config"
	"slide-coach/shared/segment"
)

// Input validation failures. These are the only errors Run propagates;
// everything past the input boundary degrades to a fallback path.
var (
	ErrEmptyScript = errors.New("script is empty")
	ErrNoSlides    = errors.New("no slides provided")
)

// Engine orchestrates the full script-to-slide alignment pipeline. With
// no invoker configured it still produces per-slide content through the
// heuristic segmentation path; AI is additive, never a dependency.
type Engine struct {
	cfg       *config.Config
	invoker   *ai.Invoker
	segmenter *segment.Segmenter
}

// NewEngine builds an engine. invoker may be nil, which disables every
// model-backed stage and routes all work through heuristics.
func NewEngine(cfg *config.Config, invoker *ai.Invoker) *Engine {
	return &Engine{
		cfg:       cfg,
		invoker:   invoker,
		segmenter: segment.NewSegmenter(&cfg.Segmenter),
	}
}

func (e *Engine) aiEnabled() bool {
	return e.invoker != nil
}

// Run executes the pipeline for one job and returns the report. Only
// input validation errors are returned; stage failures are absorbed
// into fallback output per stage.
func (e *Engine) Run(ctx context.Context, job *models.AlignmentJob) (*models.AlignmentReport, error) {
	if err := e.validateJob(job); err != nil {
		return nil, err
	}

	slideCount := len(job.Slides)
	log.Printf("Starting alignment job %s: %d slides, %d script chars (ai=%t)",
		job.ID, slideCount, len(job.Script), e.aiEnabled())

	analyses := e.collectAnalyses(ctx, job)

	report := &models.AlignmentReport{JobID: job.ID}

	if e.aiEnabled() {
		report.Summaries = e.SummarizeSlides(ctx, analyses)
		report.Matches, report.Source = e.AlignScript(ctx, report.Summaries, job.Script)
	} else {
		if hasAnalyses(analyses) {
			report.Summaries = e.SummarizeSlides(ctx, analyses)
		}
		report.Matches = e.heuristicMatches(job.Script, slideCount)
		report.Source = models.SourceHeuristic
	}

	e.flagForReview(report.Matches)
	report.Sections = sectionsOf(report.Matches)

	if hasAnalyses(analyses) {
		report.Guides = e.CoachSlides(ctx, analyses, report.Matches)
	}

	report.CompletedAt = time.Now()
	log.Printf("Alignment job %s complete: %d matches (source=%s), %d guides",
		job.ID, len(report.Matches), report.Source, len(report.Guides))

	return report, nil
}

// validateJob enforces the input contract before the pipeline is
// entered: non-empty script, at least one slide, well-formed slide
// images within the size cap.
func (e *Engine) validateJob(job *models.AlignmentJob) error {
	if job.Script == "" {
		return ErrEmptyScript
	}
	if len(job.Slides) == 0 {
		return ErrNoSlides
	}
	for i, slide := range job.Slides {
		if slide.Analysis != nil {
			continue
		}
		if _, _, err := DecodeImageDataURL(slide.DataURL, e.cfg.Pipeline.MaxImageBytes); err != nil {
			return fmt.Errorf("slide %d: %w", i+1, err)
		}
	}
	return nil
}

// collectAnalyses resolves a SlideAnalysis per slide, running vision
// analysis where none was supplied. A single slide's analysis failure
// is absorbed with a minimal placeholder so the rest of the deck still
// aligns.
func (e *Engine) collectAnalyses(ctx context.Context, job *models.AlignmentJob) []*models.SlideAnalysis {
	analyses := make([]*models.SlideAnalysis, len(job.Slides))
	for i, slide := range job.Slides {
		if slide.Analysis != nil {
			analyses[i] = slide.Analysis
			continue
		}
		if !e.aiEnabled() {
			continue
		}
		analysis, err := e.AnalyzeSlide(ctx, i+1, slide)
		if err != nil {
			log.Printf("Warning: vision analysis failed for slide %d: %v", i+1, err)
			analyses[i] = &models.SlideAnalysis{
				MainTopic:  fmt.Sprintf("Slide %d", i+1),
				Complexity: "medium",
			}
			continue
		}
		analyses[i] = analysis
	}
	return analyses
}

// heuristicMatches is the non-AI path: segment, rebalance toward the
// slide count and map sections 1:1 onto slide order. Slides beyond the
// section count get an explicit empty placeholder.
func (e *Engine) heuristicMatches(script string, slideCount int) []models.ScriptMatch {
	result := e.segmenter.Segment(script, slideCount)

	sections := result.Sections
	if result.Outcome != segment.Failed && len(sections) != slideCount {
		var reason segment.TerminationReason
		sections, reason = e.segmenter.Rebalance(sections, slideCount)
		if reason != segment.Converged {
			log.Printf("Rebalancing stopped early (%s): %d sections for %d slides", reason, len(sections), slideCount)
		}
	}

	matches := make([]models.ScriptMatch, slideCount)
	for i := range matches {
		text := ""
		if i < len(sections) {
			text = sections[i]
		}
		matches[i] = models.ScriptMatch{
			SlideNumber:   i + 1,
			ScriptSection: text,
			Confidence:    e.cfg.Pipeline.FallbackConfidence,
			Reasoning:     "semantic fallback",
		}
	}
	return matches
}

func (e *Engine) flagForReview(matches []models.ScriptMatch) {
	for i := range matches {
		if matches[i].Confidence <= e.cfg.Pipeline.ReviewConfidence {
			matches[i].NeedsReview = true
		}
	}
}

// sectionsOf derives the ordered section list, with word counts, from
// the final matches.
func sectionsOf(matches []models.ScriptMatch) []models.ScriptSection {
	sections := make([]models.ScriptSection, len(matches))
	for i, m := range matches {
		sections[i] = models.NewScriptSection(i+1, m.ScriptSection)
	}
	return sections
}

func hasAnalyses(analyses []*models.SlideAnalysis) bool {
	for _, a := range analyses {
		if a != nil {
			return true
		}
	}
	return false
}
