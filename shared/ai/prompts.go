package ai

import (
	"fmt"
	"strings"

	"slide-coach/internal/models"
)

// Prompt builders for each pipeline stage. Every prompt pins down the
// exact JSON shape expected back so the parser has a fighting chance.

func BuildVisionPrompt() string {
	return `You are an AI assistant that analyzes presentation slide images for a speaker preparing a talk.

Examine the slide image and extract everything a presenter needs to know about it.

Please provide your analysis in the following JSON format:
{
  "all_text": "Every piece of text visible on the slide, in reading order",
  "main_topic": "The single main topic of this slide",
  "key_points": ["The distinct key points the slide makes"],
  "visual_elements": ["Charts, images, diagrams or other visuals present"],
  "suggested_talking_points": ["What the speaker should say about this slide"],
  "emotional_tone": "The tone the slide conveys (e.g. formal, energetic, somber)",
  "complexity": "low, medium or high",
  "recommended_duration": "Suggested speaking time, e.g. 90 seconds"
}`
}

func BuildSummaryPrompt(slideNumber int, analysis *models.SlideAnalysis) string {
	return fmt.Sprintf(`You are summarizing one slide of a presentation so a later step can match script text to it.

SLIDE %d ANALYSIS:
Main topic: %s
Key points:
- %s
Slide text: %s

INSTRUCTIONS:
1. Write a compact summary of about 80 tokens capturing what this slide is about
2. Pick 3 to 5 short lowercase tags that identify the slide's topics
3. Do not invent content that is not in the analysis

Please respond in the following JSON format:
{
  "slide_number": %d,
  "summary": "Compact summary of the slide",
  "tags": ["tag1", "tag2", "tag3"]
}`,
		slideNumber,
		analysis.MainTopic,
		strings.Join(analysis.KeyPoints, "\n- "),
		truncateString(analysis.AllText, 800),
		slideNumber,
	)
}

func BuildAlignmentPrompt(summaries []models.SlideSummary, script string) string {
	var sb strings.Builder
	for _, s := range summaries {
		fmt.Fprintf(&sb, "Slide %d: %s (tags: %s)\n", s.SlideNumber, s.Summary, strings.Join(s.Tags, ", "))
	}

	return fmt.Sprintf(`You are aligning a speaker's script to their presentation slides.

SLIDES:
%s
FULL SCRIPT:
%s

INSTRUCTIONS:
1. Segment the script along topic boundaries. Do NOT split by even word counts - a section ends where the speaker changes topic
2. Map each segment to exactly one slide_number by best semantic fit with the slide summaries above
3. Every slide must receive exactly one section, in slide order. Use an empty script_section only when truly no script content fits a slide
4. For each match report your confidence as an integer from 0 to 100 and a one-sentence reasoning
5. List the key phrases that align the section to the slide in key_alignment

Please respond in the following JSON format:
{
  "matches": [
    {
      "slide_number": 1,
      "script_section": "The exact script text for this slide",
      "confidence": 85,
      "reasoning": "Why this section belongs to this slide",
      "key_alignment": ["phrase one", "phrase two"]
    }
  ]
}`, sb.String(), script)
}

func BuildCoachingPrompt(analysis *models.SlideAnalysis, scriptSection string) string {
	return fmt.Sprintf(`You are a presentation coach preparing a speaker for one slide of their talk.

SLIDE:
Main topic: %s
Key points:
- %s
Tone: %s
Complexity: %s

WHAT THE SPEAKER WILL SAY:
%s

Give practical delivery coaching for this slide in the following JSON format:
{
  "opening_strategy": "How to open this slide",
  "key_emphasis_points": ["What to emphasize"],
  "body_language_tips": ["Body language suggestions"],
  "voice_modulation": ["Voice and pacing suggestions"],
  "audience_engagement": ["Ways to engage the audience here"],
  "transition_to_next": "How to transition to the next slide",
  "timing_recommendation": "How long to spend, e.g. 60-90 seconds",
  "potential_questions": ["Questions the audience may ask"],
  "common_mistakes": ["Mistakes speakers make on slides like this"],
  "energy_level": "low, medium or high"
}`,
		analysis.MainTopic,
		strings.Join(analysis.KeyPoints, "\n- "),
		analysis.EmotionalTone,
		analysis.Complexity,
		truncateString(scriptSection, 1500),
	)
}

func truncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength] + "..."
}
