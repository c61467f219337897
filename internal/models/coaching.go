package models

// CoachingGuide is the per-slide delivery guidance produced after a
// slide has a matched script section.
type CoachingGuide struct {
	OpeningStrategy      string   `json:"opening_strategy"`
	KeyEmphasisPoints    []string `json:"key_emphasis_points"`
	BodyLanguageTips     []string `json:"body_language_tips"`
	VoiceModulation      []string `json:"voice_modulation"`
	AudienceEngagement   []string `json:"audience_engagement"`
	TransitionToNext     string   `json:"transition_to_next"`
	TimingRecommendation string   `json:"timing_recommendation"`
	PotentialQuestions   []string `json:"potential_questions"`
	CommonMistakes       []string `json:"common_mistakes"`
	EnergyLevel          string   `json:"energy_level"`
}
