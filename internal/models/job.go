package models

import "time"

// JobStatus tracks an alignment job through the worker.
type JobStatus string

const (
	JobPending JobStatus = "pending"
	JobDone    JobStatus = "done"
	JobFailed  JobStatus = "failed"
)

// SlideInput is one slide as submitted to the engine. Either DataURL is
// set (and the engine runs vision analysis) or Analysis was computed by
// an external collaborator and is passed through as-is.
type SlideInput struct {
	DataURL  string         `json:"data_url,omitempty"`
	Analysis *SlideAnalysis `json:"analysis,omitempty"`
}

// AlignmentJob is one queued request to align a script to a slide deck.
type AlignmentJob struct {
	ID        string       `json:"id"`
	CreatedAt time.Time    `json:"created_at"`
	Script    string       `json:"script"`
	Slides    []SlideInput `json:"slides"`
	Status    JobStatus    `json:"status"`
	Error     string       `json:"error,omitempty"`
}

// MatchSource records which path produced the matches for a run.
type MatchSource string

const (
	SourceSemantic  MatchSource = "semantic"
	SourceHeuristic MatchSource = "heuristic"
)

// AlignmentReport is the complete output of one pipeline run. Sections
// mirrors Matches in order and adds per-section word counts for timing.
type AlignmentReport struct {
	JobID       string          `json:"job_id"`
	Source      MatchSource     `json:"source"`
	Summaries   []SlideSummary  `json:"summaries,omitempty"`
	Sections    []ScriptSection `json:"sections"`
	Matches     []ScriptMatch   `json:"matches"`
	Guides      []CoachingGuide `json:"guides,omitempty"`
	CompletedAt time.Time       `json:"completed_at"`
}
