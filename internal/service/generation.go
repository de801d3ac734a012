// internal/service/generation.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ielts-speaking/backend/internal/domain/speaking"
	"github.com/ielts-speaking/backend/internal/id"
	"github.com/ielts-speaking/backend/internal/llm"
	"github.com/ielts-speaking/backend/internal/prompt"
	"github.com/ielts-speaking/backend/internal/ratelimit"
	"github.com/ielts-speaking/backend/internal/telemetry"
	"github.com/ielts-speaking/backend/internal/worker"
)

// ErrUpstreamTimeout is returned when the provider did not answer within
// the configured timeout, queue wait included.
var ErrUpstreamTimeout = errors.New("upstream timed out")

// CallFailure wraps any non-timeout provider failure. The message is
// surfaced to the client as is.
type CallFailure struct {
	Err error
}

func (e *CallFailure) Error() string {
	return e.Err.Error()
}

func (e *CallFailure) Unwrap() error {
	return e.Err
}

// GenerateRequest holds the raw request fields as the client sent them.
type GenerateRequest struct {
	Part     string
	Question string
	Band     string
	Variant  string // optional; empty selects by band
}

// Result is the structured reply. Fields maps keys such as "band6" or
// "comment6" to the extracted text; missing sections are "".
type Result struct {
	Variant prompt.VariantID
	Fields  map[string]string
}

// Settings are the per-call parameters passed through to the provider.
type Settings struct {
	Timeout     time.Duration
	Model       string
	Temperature float32
	TopP        float32
	MaxTokens   int
}

// DefaultSettings mirrors the values the service has always used.
func DefaultSettings() Settings {
	return Settings{
		Timeout:     20 * time.Second,
		Temperature: 0.7,
		TopP:        0.9,
		MaxTokens:   1024,
	}
}

type callOutput struct {
	text   string
	vector []float32
	err    error
}

// GenerationService turns a practice question into sample answers.
// Provider calls run on a single worker, so at most one is in flight no
// matter how many requests are waiting.
type GenerationService struct {
	provider llm.Provider
	counter  *ratelimit.DailyCounter
	pool     *worker.Pool[callOutput]
	metrics  *telemetry.Metrics
	settings Settings
	logger   *slog.Logger
}

// NewGenerationService creates a GenerationService with its own
// single-worker pool holding up to queueSize waiting calls.
func NewGenerationService(p llm.Provider, counter *ratelimit.DailyCounter, metrics *telemetry.Metrics, settings Settings, queueSize int, logger *slog.Logger) *GenerationService {
	if settings.Timeout <= 0 {
		settings.Timeout = DefaultSettings().Timeout
	}
	return &GenerationService{
		provider: p,
		counter:  counter,
		pool:     worker.NewPool[callOutput](1, queueSize),
		metrics:  metrics,
		settings: settings,
		logger:   logger,
	}
}

// Close waits for queued provider calls to finish.
func (gs *GenerationService) Close() {
	gs.pool.Close()
}

// Usage reports today's request count.
func (gs *GenerationService) Usage() ratelimit.Usage {
	return gs.counter.Snapshot()
}

// Generate validates the request, charges it to the daily counter, calls
// the provider and extracts the labeled sections. Invalid requests are
// rejected before they are counted.
func (gs *GenerationService) Generate(ctx context.Context, in GenerateRequest) (*Result, error) {
	req, err := speaking.NewPromptRequest(in.Part, in.Question, in.Band)
	if err != nil {
		gs.metrics.RecordRequest(ctx, "", telemetry.OutcomeInvalid)
		return nil, err
	}

	variant, err := prompt.Choose(req, prompt.VariantID(strings.TrimSpace(in.Variant)))
	if err != nil {
		gs.metrics.RecordRequest(ctx, "", telemetry.OutcomeInvalid)
		return nil, err
	}
	variantName := string(variant.ID)

	if err := gs.counter.Allow(); err != nil {
		gs.logger.Warn("daily limit reached", "limit", gs.counter.Snapshot().Limit)
		gs.metrics.RecordRequest(ctx, variantName, telemetry.OutcomeRateLimited)
		return nil, err
	}

	text, err := variant.Render(req)
	if err != nil {
		gs.metrics.RecordRequest(ctx, variantName, telemetry.OutcomeUpstream)
		return nil, &CallFailure{Err: err}
	}

	gs.logger.Info("generation request",
		"part", req.Part.String(),
		"variant", variantName,
		"question", req.Question,
	)
	gs.logger.Debug("prompt rendered", "prompt", text)

	completion := &llm.Completion{
		System:      prompt.SystemMessage,
		Prompt:      text,
		Model:       gs.settings.Model,
		Temperature: gs.settings.Temperature,
		TopP:        gs.settings.TopP,
		MaxTokens:   gs.settings.MaxTokens,
	}

	out, err := gs.call(ctx, "complete", func(callCtx context.Context) callOutput {
		reply, err := gs.provider.Complete(callCtx, completion)
		return callOutput{text: reply, err: err}
	})
	if err != nil {
		gs.metrics.RecordRequest(ctx, variantName, outcomeFor(err))
		return nil, err
	}

	gs.logger.Debug("provider reply", "reply", out.text)

	fields := variant.Contract(req).Extract(out.text)
	for key, v := range fields {
		if v == "" {
			gs.logger.Warn("section missing from reply", "key", key, "variant", variantName)
		}
	}

	gs.metrics.RecordRequest(ctx, variantName, telemetry.OutcomeOK)
	return &Result{Variant: variant.ID, Fields: fields}, nil
}

// Embed returns an embedding for input through the same single worker.
// Embeddings are not charged to the daily counter.
func (gs *GenerationService) Embed(ctx context.Context, input string) ([]float32, error) {
	if strings.TrimSpace(input) == "" {
		return nil, &speaking.ValidationError{Field: "input", Reason: "is required"}
	}

	out, err := gs.call(ctx, "embed", func(callCtx context.Context) callOutput {
		vec, err := gs.provider.Embed(callCtx, input)
		return callOutput{vector: vec, err: err}
	})
	if err != nil {
		return nil, err
	}
	return out.vector, nil
}

// call queues fn on the worker and waits at most settings.Timeout from
// submission. On timeout the job is abandoned, not cancelled: it keeps
// running under its own deadline and its result is dropped.
func (gs *GenerationService) call(ctx context.Context, op string, fn func(context.Context) callOutput) (callOutput, error) {
	start := time.Now()
	jobID := id.WithPrefix("job")

	wait, cancel := context.WithTimeout(ctx, gs.settings.Timeout)
	defer cancel()

	results, err := gs.pool.Submit(wait, jobID, func() callOutput {
		callCtx, cancel := context.WithTimeout(context.Background(), gs.settings.Timeout)
		defer cancel()
		return fn(callCtx)
	})
	if err != nil {
		return callOutput{}, gs.waitError(ctx, op, jobID, start, err)
	}

	select {
	case res := <-results:
		gs.metrics.RecordCall(ctx, gs.provider.Name(), op, time.Since(start), res.Output.err)
		if res.Output.err != nil {
			gs.logger.Error("provider call failed",
				"job_id", jobID,
				"provider", gs.provider.Name(),
				"op", op,
				"error", res.Output.err,
			)
			return callOutput{}, &CallFailure{Err: res.Output.err}
		}
		return res.Output, nil
	case <-wait.Done():
		return callOutput{}, gs.waitError(ctx, op, jobID, start, wait.Err())
	}
}

func (gs *GenerationService) waitError(ctx context.Context, op, jobID string, start time.Time, err error) error {
	if ctx.Err() != nil {
		// caller went away; nothing to report upstream
		return ctx.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		gs.metrics.RecordCall(ctx, gs.provider.Name(), op, time.Since(start), ErrUpstreamTimeout)
		gs.logger.Warn("provider call abandoned after timeout",
			"job_id", jobID,
			"provider", gs.provider.Name(),
			"op", op,
			"timeout", gs.settings.Timeout,
			"queued", gs.pool.Pending(),
		)
		return ErrUpstreamTimeout
	}
	return &CallFailure{Err: fmt.Errorf("submit %s call: %w", op, err)}
}

func outcomeFor(err error) string {
	if errors.Is(err, ErrUpstreamTimeout) {
		return telemetry.OutcomeTimeout
	}
	return telemetry.OutcomeUpstream
}
