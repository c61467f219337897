package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"slide-coach/shared/config"

	"google.golang.org/genai"
)

// Stage identifies which pipeline step a model call belongs to. It is
// carried through errors and logs so failures can be traced to a step.
type Stage string

const (
	StageVision    Stage = "vision_analysis"
	StageSummary   Stage = "slide_summary"
	StageAlignment Stage = "script_alignment"
	StageCoaching  Stage = "coaching"
)

// ModelClient is the transport used for a single model call. The
// production implementation is the Gemini SDK; tests substitute fakes.
type ModelClient interface {
	Generate(ctx context.Context, model string, parts []*genai.Part) (string, error)
}

// ErrEmptyResponse signals the model returned no usable text. This can
// indicate content filtering or an accessibility problem upstream.
var ErrEmptyResponse = errors.New("empty response from model")

// InvokeError is the caller-visible failure after both models and all
// retries are exhausted. Downstream stages branch on it to pick their
// deterministic fallback path.
type InvokeError struct {
	Stage Stage
	Model string
	Err   error
}

func (e *InvokeError) Error() string {
	return fmt.Sprintf("model invocation failed at stage %s (last model %s): %v", e.Stage, e.Model, e.Err)
}

func (e *InvokeError) Unwrap() error { return e.Err }

// RetryPolicy controls how transient failures are retried. Retryable is
// injectable so tests and alternative transports can reclassify errors.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Retryable   func(error) bool
}

// DefaultRetryable classifies transport-level failures as retryable and
// request/auth failures as fatal, based on the error text the SDK and
// net/http surface.
func DefaultRetryable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())

	// Fatal classes first: retrying a malformed or unauthorized
	// request only burns quota.
	for _, fatal := range []string{"invalid_argument", "api key", "unauthenticated", "permission", "401", "403"} {
		if strings.Contains(msg, fatal) {
			return false
		}
	}

	for _, transient := range []string{
		"429", "rate limit", "resource_exhausted", "quota",
		"timeout", "deadline exceeded", "connection", "network",
		"502", "503", "unavailable", "overloaded",
	} {
		if strings.Contains(msg, transient) {
			return true
		}
	}
	return false
}

// Invoker issues one logical model call per stage with primary/fallback
// model selection and retry-on-transient-error semantics.
type Invoker struct {
	client   ModelClient
	primary  string
	fallback string
	policy   RetryPolicy
	timeout  time.Duration
}

func NewInvoker(client ModelClient, cfg *config.AIConfig) *Invoker {
	return &Invoker{
		client:   client,
		primary:  cfg.Model,
		fallback: cfg.FallbackModel,
		policy: RetryPolicy{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   time.Second,
			Retryable:   DefaultRetryable,
		},
		timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
	}
}

// WithPolicy replaces the retry policy. Mostly used by tests to avoid
// real backoff delays.
func (inv *Invoker) WithPolicy(policy RetryPolicy) *Invoker {
	inv.policy = policy
	return inv
}

// Invoke runs prompt (plus any extra parts, e.g. an inline image)
// against the primary model, falling back to the secondary model after
// the primary is exhausted. Transient errors are retried with
// exponential backoff up to the policy's attempt ceiling; fatal errors
// move straight to the fallback model.
func (inv *Invoker) Invoke(ctx context.Context, stage Stage, prompt string, extra ...*genai.Part) (string, error) {
	parts := append([]*genai.Part{genai.NewPartFromText(prompt)}, extra...)

	var lastErr error
	lastModel := inv.primary

	for _, model := range inv.modelOrder() {
		lastModel = model
		text, err := inv.invokeModel(ctx, stage, model, parts)
		if err == nil {
			return text, nil
		}
		lastErr = err
		log.Printf("Stage %s failed on model %s: %v", stage, model, err)
	}

	return "", &InvokeError{Stage: stage, Model: lastModel, Err: lastErr}
}

func (inv *Invoker) modelOrder() []string {
	if inv.fallback == "" || inv.fallback == inv.primary {
		return []string{inv.primary}
	}
	return []string{inv.primary, inv.fallback}
}

func (inv *Invoker) invokeModel(ctx context.Context, stage Stage, model string, parts []*genai.Part) (string, error) {
	maxAttempts := inv.policy.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			delay := inv.policy.BaseDelay << (attempt - 1)
			log.Printf("Retrying stage %s on %s in %v (attempt %d/%d)", stage, model, delay, attempt+1, maxAttempts)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, inv.timeout)
		text, err := inv.client.Generate(callCtx, model, parts)
		cancel()
		if err == nil {
			return text, nil
		}
		lastErr = err

		if inv.policy.Retryable == nil || !inv.policy.Retryable(err) {
			break
		}
	}
	return "", lastErr
}

// GeminiClient is the production ModelClient backed by the Gemini SDK.
type GeminiClient struct {
	client *genai.Client
}

func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{client: client}, nil
}

func (g *GeminiClient) Generate(ctx context.Context, model string, parts []*genai.Part) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	cfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0.7),
		ResponseMIMEType: "application/json",
	}

	result, err := g.client.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return "", err
	}

	text := result.Text()
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
