// Package engine implements the multi-stage relevance-scoring pipeline: it
// turns a parsed resume and a parsed job requirement record into a
// reproducible score, a tri-level verdict, a gap analysis and narrative
// feedback. The pipeline is a pure, synchronous computation; running many
// evaluations concurrently needs no synchronization beyond a
// concurrency-safe similarity backend.
package engine

import (
	"context"
	"time"

	"resumatch/internal/backend"
	"resumatch/internal/config"
	"resumatch/internal/errors"
	"resumatch/internal/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "resumatch/engine"

// Pipeline orchestrates the matchers, aggregation, gap analysis and
// feedback composition for one (resume, job) pair per Evaluate call. It is
// safe for concurrent use; all per-evaluation state is local.
type Pipeline struct {
	weights       config.WeightsConfig
	lexical       *LexicalMatcher
	similarity    *SimilarityAdapter
	compatibility *CompatibilityChecker
	gaps          *GapAnalyzer
	composer      *FeedbackComposer

	feedbackGen     backend.FeedbackGenerator // nil when not configured
	feedbackTimeout time.Duration

	logger *errors.Logger
	tracer trace.Tracer
}

// Option configures optional pipeline collaborators.
type Option func(*Pipeline)

// WithSimilarityBackend injects an external similarity backend as the first
// rung of the fallback ladder.
func WithSimilarityBackend(b backend.Similarity, timeout time.Duration) Option {
	return func(p *Pipeline) {
		p.similarity = NewSimilarityAdapter(b, timeout, p.logger)
	}
}

// WithFeedbackGenerator swaps in a narrative feedback generator. The
// deterministic composer remains the fallback on any generator error.
func WithFeedbackGenerator(g backend.FeedbackGenerator, timeout time.Duration) Option {
	return func(p *Pipeline) {
		p.feedbackGen = g
		if timeout > 0 {
			p.feedbackTimeout = timeout
		}
	}
}

// New creates a pipeline with the given engine configuration. Backends are
// resolved once here, at construction, not probed per call.
func New(cfg config.EngineConfig, logger *errors.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		weights:         cfg.Weights,
		lexical:         NewLexicalMatcher(cfg.Lexical),
		compatibility:   NewCompatibilityChecker(),
		gaps:            NewGapAnalyzer(),
		composer:        NewFeedbackComposer(),
		feedbackTimeout: 30 * time.Second,
		logger:          logger,
		tracer:          otel.Tracer(tracerName),
	}
	p.similarity = NewSimilarityAdapter(nil, 0, logger)

	for _, opt := range opts {
		opt(p)
	}
	return p
}

// HasSimilarityBackend reports whether an external similarity backend is
// configured. Exposed for health reporting.
func (p *Pipeline) HasSimilarityBackend() bool {
	return p.similarity != nil && p.similarity.backend != nil
}

// Evaluate runs the full pipeline for one pair and returns a complete
// EvaluationResult. Degraded inputs never abort the evaluation: the result
// carries the lowest-confidence scores and err surfaces the input problem
// so the caller can distinguish "no signal" from "bad request".
func (p *Pipeline) Evaluate(ctx context.Context, resume *types.ResumeRecord, job *types.JobRecord) (types.EvaluationResult, error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.evaluate")
	defer span.End()

	inputErr := validateRecords(resume, job)

	lexical := p.lexical.Score(resume, job)
	lexical.Value = clampScore(lexical.Name, lexical.Value, p.logger)

	similarity := p.similarity.Score(ctx, resume.FullText, job.Description)
	similarity.Value = clampScore(similarity.Name, similarity.Value, p.logger)

	compat := p.compatibility.Check(resume.FullText, resume)
	compat.SubScore.Value = clampScore(compat.SubScore.Name, compat.SubScore.Value, p.logger)

	finalScore, verdict := Aggregate(p.weights, lexical.Value, similarity.Value, compat.SubScore.Value)

	missingSkills, missingQualifications := p.gaps.Analyze(resume, job)
	strengths := Strengths(resume, job)

	feedback := p.generateFeedback(ctx, resume, job, finalScore, missingSkills, missingQualifications)

	span.SetAttributes(
		attribute.Float64("evaluation.final_score", finalScore),
		attribute.String("evaluation.verdict", string(verdict)),
		attribute.String("evaluation.similarity_method", similarity.Evidence.Method),
	)

	result := types.EvaluationResult{
		LexicalScore:          lexical.Value,
		SimilarityScore:       similarity.Value,
		CompatibilityScore:    compat.SubScore.Value,
		SimilarityMethod:      similarity.Evidence.Method,
		FinalScore:            finalScore,
		Verdict:               verdict,
		MissingSkills:         missingSkills,
		MissingQualifications: missingQualifications,
		Strengths:             strengths,
		Feedback:              feedback,
		CompatibilityNotes:    compatibilityNotes(compat),
	}

	if inputErr != nil {
		if p.logger != nil {
			p.logger.LogError(inputErr, "Evaluation completed with degraded input")
		}
		return result, inputErr
	}
	return result, nil
}

// generateFeedback prefers the configured generator and falls back to the
// deterministic composer on absence or error.
func (p *Pipeline) generateFeedback(ctx context.Context, resume *types.ResumeRecord, job *types.JobRecord, finalScore float64, missingSkills, missingQualifications []string) string {
	if p.feedbackGen != nil {
		genCtx, cancel := context.WithTimeout(ctx, p.feedbackTimeout)
		defer cancel()

		text, err := p.feedbackGen.Generate(genCtx,
			feedbackInput(resume, job, finalScore, missingSkills, missingQualifications))
		if err == nil && text != "" {
			return text
		}
		if err != nil && p.logger != nil {
			p.logger.Warn("Feedback generator failed, using deterministic composer",
				"error", err.Error())
		}
	}

	return p.composer.Compose(finalScore, missingSkills, missingQualifications)
}

// compatibilityNotes merges the surfaced issues and quick fixes into the
// result's ordered note list.
func compatibilityNotes(report CompatibilityReport) []string {
	notes := make([]string, 0, len(report.Issues)+len(report.QuickFixes))
	notes = append(notes, report.Issues...)
	notes = append(notes, report.QuickFixes...)
	return notes
}

// validateRecords flags inputs carrying no usable signal. Structural
// decoding problems are the caller's responsibility; here both records are
// well-shaped but may be empty.
func validateRecords(resume *types.ResumeRecord, job *types.JobRecord) error {
	if len(resume.Skills) == 0 && resume.FullText == "" {
		return errors.NewInputError(errors.ErrCodeEmptyRecord,
			"resume record carries no skills and no text", nil)
	}
	if len(job.MustHaveSkills) == 0 && len(job.GoodToHaveSkills) == 0 && job.Description == "" {
		return errors.NewInputError(errors.ErrCodeEmptyRecord,
			"job record carries no skill requirements and no description", nil)
	}
	return nil
}
