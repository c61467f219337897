package align

import (
	"context"
	"log"
	"regexp"
	"strings"
	"time"

	"slide-coach/internal/models"
	"slide-coach/shared/ai"

	"golang.org/x/sync/errgroup"
)

const maxTags = 5

var nonAlnumRe = regexp.MustCompile(`[^a-z0-9]+`)

// SummarizeSlides produces exactly one summary per analysis, numbered
// 1..len(analyses) in order. Model calls run in batches of the
// configured size with a fixed delay between batches to stay under
// upstream rate limits. A single slide's failure never aborts the
// batch; it gets a deterministic local summary instead.
func (e *Engine) SummarizeSlides(ctx context.Context, analyses []*models.SlideAnalysis) []models.SlideSummary {
	summaries := make([]models.SlideSummary, len(analyses))

	batchSize := e.cfg.Pipeline.BatchSize
	if batchSize < 1 {
		batchSize = 1
	}
	delay := time.Duration(e.cfg.Pipeline.BatchDelaySeconds) * time.Second

	for start := 0; start < len(analyses); start += batchSize {
		end := start + batchSize
		if end > len(analyses) {
			end = len(analyses)
		}

		var g errgroup.Group
		for i := start; i < end; i++ {
			i := i
			g.Go(func() error {
				summaries[i] = e.summarizeSlide(ctx, i+1, analyses[i])
				return nil
			})
		}
		// Workers never return errors; failures become fallback
		// summaries inside summarizeSlide.
		_ = g.Wait()

		if end < len(analyses) && delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
			}
		}
	}

	return summaries
}

func (e *Engine) summarizeSlide(ctx context.Context, slideNumber int, analysis *models.SlideAnalysis) models.SlideSummary {
	if analysis == nil {
		analysis = &models.SlideAnalysis{}
	}
	if !e.aiEnabled() {
		return fallbackSummary(slideNumber, analysis)
	}

	response, err := e.invoker.Invoke(ctx, ai.StageSummary, ai.BuildSummaryPrompt(slideNumber, analysis))
	if err != nil {
		log.Printf("Warning: summary call failed for slide %d, using local summary: %v", slideNumber, err)
		return fallbackSummary(slideNumber, analysis)
	}

	var summary models.SlideSummary
	if err := ai.ExtractObject(response, &summary); err != nil || summary.Summary == "" {
		log.Printf("Warning: unusable summary response for slide %d, using local summary", slideNumber)
		return fallbackSummary(slideNumber, analysis)
	}

	// The model's echoed slide number is never trusted; the position in
	// the deck is the join key.
	summary.SlideNumber = slideNumber
	if len(summary.Tags) > maxTags {
		summary.Tags = summary.Tags[:maxTags]
	}
	if len(summary.Tags) == 0 {
		summary.Tags = deriveTags(analysis)
	}
	return summary
}

// fallbackSummary builds a deterministic summary from the analysis's
// main topic and first few key points. No network involved.
func fallbackSummary(slideNumber int, analysis *models.SlideAnalysis) models.SlideSummary {
	parts := []string{}
	if analysis.MainTopic != "" {
		parts = append(parts, analysis.MainTopic)
	}
	for i, kp := range analysis.KeyPoints {
		if i == 3 {
			break
		}
		parts = append(parts, kp)
	}

	summary := strings.Join(parts, ". ")
	if summary == "" {
		summary = "No analysis available for this slide"
	}

	return models.SlideSummary{
		SlideNumber: slideNumber,
		Summary:     summary,
		Tags:        deriveTags(analysis),
	}
}

// deriveTags lower-cases the topic and key points, strips everything
// non-alphanumeric and keeps up to five distinct tags.
func deriveTags(analysis *models.SlideAnalysis) []string {
	seen := make(map[string]bool)
	var tags []string

	add := func(field string) {
		tag := strings.TrimSpace(nonAlnumRe.ReplaceAllString(strings.ToLower(field), " "))
		if tag == "" || seen[tag] {
			return
		}
		seen[tag] = true
		tags = append(tags, tag)
	}

	add(analysis.MainTopic)
	for _, kp := range analysis.KeyPoints {
		if len(tags) >= maxTags {
			break
		}
		add(kp)
	}

	if len(tags) == 0 {
		tags = []string{"general"}
	}
	if len(tags) > maxTags {
		tags = tags[:maxTags]
	}
	return tags
}
