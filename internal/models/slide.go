package models

// SlideAnalysis is the full vision-analysis result for a single slide.
// It is produced once per slide and consumed by the summarization and
// coaching stages.
type SlideAnalysis struct {
	AllText                string   `json:"all_text"`
	MainTopic              string   `json:"main_topic"`
	KeyPoints              []string `json:"key_points"`
	VisualElements         []string `json:"visual_elements"`
	SuggestedTalkingPoints []string `json:"suggested_talking_points"`
	EmotionalTone          string   `json:"emotional_tone"`
	Complexity             string   `json:"complexity"`
	RecommendedDuration    string   `json:"recommended_duration"`
}

// SlideSummary is the compact per-slide digest fed to the alignment stage.
// SlideNumber is 1-based and is the stable join key across the pipeline.
type SlideSummary struct {
	SlideNumber int      `json:"slide_number"`
	Summary     string   `json:"summary"`
	Tags        []string `json:"tags"`
}
