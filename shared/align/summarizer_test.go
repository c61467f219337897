package align

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"slide-coach/internal/models"
)

func TestSummarizeSlidesNumbersAreContiguous(t *testing.T) {
	engine, _ := newTestEngine(t, func(prompt string) (string, error) {
		// Deliberately echo a bogus slide number
		return `{"slide_number": 42, "summary": "Some slide content.", "tags": ["alpha", "beta", "gamma"]}`, nil
	})

	analyses := make([]*models.SlideAnalysis, 7)
	for i := range analyses {
		analyses[i] = analysisFixture(fmt.Sprintf("Topic %d", i+1))
	}

	summaries := engine.SummarizeSlides(context.Background(), analyses)

	if len(summaries) != 7 {
		t.Fatalf("got %d summaries, want 7", len(summaries))
	}
	for i, s := range summaries {
		if s.SlideNumber != i+1 {
			t.Errorf("summary %d has slide number %d, want %d", i, s.SlideNumber, i+1)
		}
	}
}

func TestSummarizeSlidesAbsorbsSingleFailure(t *testing.T) {
	engine, _ := newTestEngine(t, func(prompt string) (string, error) {
		if strings.Contains(prompt, "Broken slide") {
			return "", errors.New("boom")
		}
		return `{"slide_number": 1, "summary": "Fine slide.", "tags": ["fine"]}`, nil
	})

	analyses := []*models.SlideAnalysis{
		analysisFixture("Good slide"),
		analysisFixture("Broken slide"),
		analysisFixture("Another good slide"),
	}

	summaries := engine.SummarizeSlides(context.Background(), analyses)

	if len(summaries) != 3 {
		t.Fatalf("got %d summaries, want 3", len(summaries))
	}
	if summaries[0].Summary != "Fine slide." {
		t.Errorf("summary 1 = %q", summaries[0].Summary)
	}
	// The failed slide gets a deterministic local summary
	if !strings.Contains(summaries[1].Summary, "Broken slide") {
		t.Errorf("fallback summary %q does not use the main topic", summaries[1].Summary)
	}
	if summaries[1].SlideNumber != 2 {
		t.Errorf("fallback summary slide number = %d, want 2", summaries[1].SlideNumber)
	}
}

func TestFallbackSummaryBuildsFromTopicAndKeyPoints(t *testing.T) {
	analysis := &models.SlideAnalysis{
		MainTopic: "Cloud Migration!",
		KeyPoints: []string{"Lift & shift first", "Optimize costs later", "Retire legacy", "A fourth point", "A fifth point"},
	}

	summary := fallbackSummary(4, analysis)

	if summary.SlideNumber != 4 {
		t.Errorf("SlideNumber = %d, want 4", summary.SlideNumber)
	}
	if !strings.HasPrefix(summary.Summary, "Cloud Migration!") {
		t.Errorf("Summary = %q, want it to start with the main topic", summary.Summary)
	}
	// Only the first three key points are used
	if strings.Contains(summary.Summary, "fourth point") {
		t.Errorf("Summary includes more than 3 key points: %q", summary.Summary)
	}
	if len(summary.Tags) == 0 || len(summary.Tags) > 5 {
		t.Fatalf("got %d tags, want 1..5: %v", len(summary.Tags), summary.Tags)
	}
	for _, tag := range summary.Tags {
		if tag != strings.ToLower(tag) {
			t.Errorf("tag %q is not lower-cased", tag)
		}
		if strings.ContainsAny(tag, "!&") {
			t.Errorf("tag %q keeps non-alphanumerics", tag)
		}
	}
}

func TestDeriveTagsCapsAtFive(t *testing.T) {
	analysis := &models.SlideAnalysis{
		MainTopic: "One",
		KeyPoints: []string{"Two", "Three", "Four", "Five", "Six", "Seven"},
	}

	tags := deriveTags(analysis)
	if len(tags) != 5 {
		t.Errorf("got %d tags, want 5: %v", len(tags), tags)
	}
}

func TestDeriveTagsEmptyAnalysis(t *testing.T) {
	tags := deriveTags(&models.SlideAnalysis{})
	if len(tags) != 1 || tags[0] != "general" {
		t.Errorf("tags = %v, want the general placeholder", tags)
	}
}
