package align

import (
	"context"
	"fmt"
	"log"

	"slide-coach/internal/models"
	"slide-coach/shared/ai"

	"golang.org/x/sync/errgroup"
)

// CoachSlides generates one coaching guide per slide from its analysis
// and matched script section. Calls run concurrently up to the batch
// cap; a failed call degrades to a deterministic generic guide so a
// guide is always available.
func (e *Engine) CoachSlides(ctx context.Context, analyses []*models.SlideAnalysis, matches []models.ScriptMatch) []models.CoachingGuide {
	guides := make([]models.CoachingGuide, len(analyses))

	var g errgroup.Group
	limit := e.cfg.Pipeline.BatchSize
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	for i := range analyses {
		i := i
		g.Go(func() error {
			analysis := analyses[i]
			if analysis == nil {
				analysis = &models.SlideAnalysis{MainTopic: fmt.Sprintf("Slide %d", i+1)}
			}
			section := ""
			if i < len(matches) {
				section = matches[i].ScriptSection
			}
			guides[i] = e.coachSlide(ctx, i+1, analysis, section)
			return nil
		})
	}
	_ = g.Wait()

	return guides
}

func (e *Engine) coachSlide(ctx context.Context, slideNumber int, analysis *models.SlideAnalysis, scriptSection string) models.CoachingGuide {
	if !e.aiEnabled() {
		return fallbackGuide(analysis.MainTopic)
	}

	response, err := e.invoker.Invoke(ctx, ai.StageCoaching, ai.BuildCoachingPrompt(analysis, scriptSection))
	if err != nil {
		log.Printf("Warning: coaching call failed for slide %d, using generic guide: %v", slideNumber, err)
		return fallbackGuide(analysis.MainTopic)
	}

	var guide models.CoachingGuide
	if err := ai.ExtractObject(response, &guide); err != nil || guide.OpeningStrategy == "" {
		log.Printf("Warning: unusable coaching response for slide %d, using generic guide", slideNumber)
		return fallbackGuide(analysis.MainTopic)
	}
	return guide
}

// fallbackGuide is the deterministic guide used when the model is
// unavailable. Generic but always actionable.
func fallbackGuide(topic string) models.CoachingGuide {
	if topic == "" {
		topic = "this slide"
	}
	return models.CoachingGuide{
		OpeningStrategy:      fmt.Sprintf("Introduce %s with a clear one-sentence statement of why it matters.", topic),
		KeyEmphasisPoints:    []string{fmt.Sprintf("The core message of %s", topic), "Any numbers or names shown on the slide"},
		BodyLanguageTips:     []string{"Face the audience, not the screen", "Use open hand gestures when introducing the topic"},
		VoiceModulation:      []string{"Slow down on the main point", "Pause briefly after key statements"},
		AudienceEngagement:   []string{"Make eye contact across the room", "Ask a short rhetorical question about the topic"},
		TransitionToNext:     "Summarize the takeaway in one sentence, then bridge to the next slide.",
		TimingRecommendation: "60-90 seconds",
		PotentialQuestions:   []string{fmt.Sprintf("Can you give an example of %s?", topic)},
		CommonMistakes:       []string{"Reading the slide text verbatim", "Rushing through without pausing"},
		EnergyLevel:          "medium",
	}
}
