package slidecoach

import (
	"context"
	"fmt"
	"log"
	"time"

	"slide-coach/internal/models"
	"slide-coach/shared/ai"
	"slide-coach/shared/align"
	"slide-coach/shared/config"
	"slide-coach/shared/email"
	"slide-coach/shared/scheduler"
	"slide-coach/shared/storage"
)

// CoachMetrics represents the outcome of one worker run over the
// pending job queue.
type CoachMetrics struct {
	JobsFound int `json:"jobs_found"`
	Aligned   int `json:"aligned"`
	Semantic  int `json:"semantic"`
	Failed    int `json:"failed"`
}

// GetSummary implements the scheduler.Metrics interface
func (m CoachMetrics) GetSummary() string {
	return fmt.Sprintf("found %d pending jobs, aligned %d (%d semantic), %d failed",
		m.JobsFound, m.Aligned, m.Semantic, m.Failed)
}

// JobCounts implements the scheduler.JobCounter interface
func (m CoachMetrics) JobCounts() (int, int) {
	return m.Aligned, m.Failed
}

// SlideCoachAgent implements the scheduler.Agent interface. Each run it
// drains the pending alignment jobs, runs the engine per job, persists
// the reports and optionally emails them.
type SlideCoachAgent struct {
	config      *config.Config
	engine      *align.Engine
	store       *storage.JobStore
	emailSender *email.Sender
}

func NewSlideCoachAgent(cfg *config.Config) *SlideCoachAgent {
	return &SlideCoachAgent{
		config: cfg,
	}
}

func (a *SlideCoachAgent) Name() string {
	return "Slide Coach"
}

func (a *SlideCoachAgent) Initialize() error {
	log.Printf("Initializing %s...", a.Name())

	if a.store == nil {
		maxAge := time.Duration(a.config.Storage.JobMaxAgeDays) * 24 * time.Hour
		store, err := storage.NewJobStore(a.config.Storage.DataDir, maxAge)
		if err != nil {
			return fmt.Errorf("failed to create job store: %w", err)
		}
		a.store = store
		log.Printf("Job store initialized (%d jobs tracked)", store.Count())
	}

	if a.engine == nil {
		var invoker *ai.Invoker
		if a.config.AI.Enabled() {
			client, err := ai.NewGeminiClient(context.Background(), a.config.AI.GeminiAPIKey)
			if err != nil {
				return fmt.Errorf("failed to create Gemini client: %w", err)
			}
			invoker = ai.NewInvoker(client, &a.config.AI)
			log.Printf("Model invoker initialized (primary=%s fallback=%s)", a.config.AI.Model, a.config.AI.FallbackModel)
		} else {
			log.Println("No Gemini API key configured - running heuristic segmentation only")
		}
		a.engine = align.NewEngine(a.config, invoker)
	}

	if a.emailSender == nil && a.config.Email.Enabled() {
		a.emailSender = email.NewSender(&a.config.Email)
		log.Println("Email sender initialized")
	}

	return nil
}

func (a *SlideCoachAgent) RunOnce(ctx context.Context, events *scheduler.AgentEvents) error {
	startTime := time.Now()
	metrics := CoachMetrics{}

	pending := a.store.Pending()
	metrics.JobsFound = len(pending)

	if len(pending) == 0 {
		log.Println("No pending alignment jobs")
		if events != nil && events.OnSuccess != nil {
			events.OnSuccess(metrics, time.Since(startTime))
		}
		return nil
	}

	log.Printf("Processing %d pending alignment jobs", len(pending))

	for i, job := range pending {
		log.Printf("Aligning job %d/%d: %s", i+1, len(pending), job.ID)

		report, err := a.engine.Run(ctx, job)
		if err != nil {
			// Only input validation fails a job; the engine absorbs
			// everything else into fallback output.
			log.Printf("Warning: job %s rejected: %v", job.ID, err)
			if markErr := a.store.MarkFailed(job.ID, err.Error()); markErr != nil {
				log.Printf("Warning: failed to mark job %s failed: %v", job.ID, markErr)
			}
			metrics.Failed++
			if metrics.Failed > len(pending)/2 {
				err := fmt.Errorf("too many job failures (%d/%d), stopping", metrics.Failed, i+1)
				if events != nil && events.OnCriticalFailure != nil {
					events.OnCriticalFailure(err, time.Since(startTime))
				}
				return err
			}
			continue
		}

		if err := a.store.SaveReport(report); err != nil {
			if events != nil && events.OnPartialFailure != nil {
				events.OnPartialFailure(fmt.Errorf("failed to save report for job %s: %w", job.ID, err), time.Since(startTime))
			}
			log.Printf("Warning: failed to save report for job %s: %v", job.ID, err)
		}
		if err := a.store.MarkDone(job.ID); err != nil {
			log.Printf("Warning: failed to mark job %s done: %v", job.ID, err)
		}

		metrics.Aligned++
		if report.Source == models.SourceSemantic {
			metrics.Semantic++
		}

		if a.emailSender != nil {
			if err := a.emailSender.SendReport(report); err != nil {
				// Email is best effort; the report is already on disk
				if events != nil && events.OnPartialFailure != nil {
					events.OnPartialFailure(fmt.Errorf("failed to email report for job %s: %w", job.ID, err), time.Since(startTime))
				}
				log.Printf("Warning: failed to email report for job %s: %v", job.ID, err)
			}
		}
	}

	duration := time.Since(startTime)
	if events != nil && events.OnSuccess != nil {
		events.OnSuccess(metrics, duration)
	}

	log.Printf("Run complete: %s", metrics.GetSummary())

	return nil
}

// Store exposes the job store so callers (CLI, tests) can enqueue work.
func (a *SlideCoachAgent) Store() *storage.JobStore {
	return a.store
}
