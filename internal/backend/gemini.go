package backend

import (
	"context"
	"crypto/rand"
	goerrors "errors"
	"fmt"
	"math"
	"math/big"
	"net"
	"net/http"
	"strings"
	"time"

	"resumatch/internal/config"
	"resumatch/internal/errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

const geminiTracerName = "resumatch/backend/gemini"

// Gemini implements both the Similarity and FeedbackGenerator capabilities
// on top of the Gemini API: similarity via embedding cosine, feedback via
// content generation. The client is created once and shared by all
// evaluations; it is safe for concurrent read-only queries.
type Gemini struct {
	client *genai.Client
	cfg    config.GeminiConfig

	embedBreaker    *Breaker[[]float32]
	feedbackBreaker *Breaker[string]

	logger *errors.Logger
}

var (
	_ Similarity        = (*Gemini)(nil)
	_ FeedbackGenerator = (*Gemini)(nil)
)

// NewGemini creates a Gemini backend.
func NewGemini(cfg config.GeminiConfig, logger *errors.Logger) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, errors.NewConfigError(errors.ErrCodeMissingAPIKey,
			"Gemini backend selected but no API key configured", nil)
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, errors.NewBackendError(errors.ErrCodeBackendUnavailable,
			"Failed to create Gemini client", err)
	}

	return &Gemini{
		client:          client,
		cfg:             cfg,
		embedBreaker:    NewBreaker[[]float32]("gemini-embed", cfg.CircuitBreaker, logger),
		feedbackBreaker: NewBreaker[string]("gemini-feedback", cfg.CircuitBreaker, logger),
		logger:          logger,
	}, nil
}

// maxEmbedChars truncates input so long documents stay within the
// embedding model's input window.
const maxEmbedChars = 40000

// Compare embeds both texts and returns their cosine similarity, clamped to
// [0,1].
func (g *Gemini) Compare(ctx context.Context, a, b string) (float64, error) {
	ctx, span := otel.Tracer(geminiTracerName).Start(ctx, "gemini.compare")
	defer span.End()
	span.SetAttributes(
		attribute.String("ai.model", g.cfg.EmbedModel),
		attribute.Int("input.a_length", len(a)),
		attribute.Int("input.b_length", len(b)),
	)

	vecA, err := g.embed(ctx, a)
	if err != nil {
		span.RecordError(err)
		return 0, err
	}
	vecB, err := g.embed(ctx, b)
	if err != nil {
		span.RecordError(err)
		return 0, err
	}

	sim, err := cosine(vecA, vecB)
	if err != nil {
		span.RecordError(err)
		return 0, err
	}

	// Cosine of embedding vectors lies in [-1,1]; the capability contract
	// requires [0,1].
	if sim < 0 {
		sim = 0
	}
	span.SetAttributes(attribute.Float64("similarity", sim))
	return sim, nil
}

func (g *Gemini) embed(ctx context.Context, text string) ([]float32, error) {
	if len(text) > maxEmbedChars {
		text = text[:maxEmbedChars]
	}

	return g.embedBreaker.Execute(func() ([]float32, error) {
		return retryBackendCall(ctx, g.logger, g.cfg.MaxRetries, "embed", func() ([]float32, error) {
			result, err := g.client.Models.EmbedContent(ctx, g.cfg.EmbedModel, genai.Text(text), nil)
			if err != nil {
				return nil, err
			}
			if result == nil || len(result.Embeddings) == 0 || len(result.Embeddings[0].Values) == 0 {
				return nil, fmt.Errorf("empty embedding result")
			}
			return result.Embeddings[0].Values, nil
		})
	})
}

// Generate produces narrative feedback for the evaluation via content
// generation.
func (g *Gemini) Generate(ctx context.Context, in FeedbackInput) (string, error) {
	ctx, span := otel.Tracer(geminiTracerName).Start(ctx, "gemini.generate_feedback")
	defer span.End()
	span.SetAttributes(
		attribute.String("ai.model", g.cfg.Model),
		attribute.Float64("evaluation.final_score", in.FinalScore),
	)

	prompt := buildFeedbackPrompt(in)
	temperature := g.cfg.Temperature
	genConfig := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 1024,
	}

	text, err := g.feedbackBreaker.Execute(func() (string, error) {
		return retryBackendCall(ctx, g.logger, g.cfg.MaxRetries, "generate_feedback", func() (string, error) {
			resp, err := g.client.Models.GenerateContent(ctx, g.cfg.Model, genai.Text(prompt), genConfig)
			if err != nil {
				return "", err
			}
			out := strings.TrimSpace(resp.Text())
			if out == "" {
				return "", fmt.Errorf("empty feedback response")
			}
			return out, nil
		})
	})
	if err != nil {
		span.RecordError(err)
		return "", errors.NewBackendError(errors.ErrCodeBackendUnavailable,
			"Feedback generation failed", err)
	}

	return text, nil
}

// Healthy reports whether both circuit breakers are closed.
func (g *Gemini) Healthy() bool {
	return g.embedBreaker.Healthy() && g.feedbackBreaker.Healthy()
}

// Stats returns breaker statistics for health reporting.
func (g *Gemini) Stats() map[string]any {
	return map[string]any{
		"embed":    g.embedBreaker.Stats(),
		"feedback": g.feedbackBreaker.Stats(),
	}
}

// cosine computes the cosine similarity of two equal-length vectors.
func cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("embedding dimension mismatch: %d vs %d", len(a), len(b))
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, fmt.Errorf("zero-magnitude embedding vector")
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

func buildFeedbackPrompt(in FeedbackInput) string {
	var sb strings.Builder
	sb.WriteString("You are a career counselor helping a candidate improve their resume for a specific position.\n\n")
	sb.WriteString("JOB:\n")
	sb.WriteString(in.JobSummary)
	sb.WriteString("\n\nRESUME:\n")
	sb.WriteString(in.ResumeSummary)
	fmt.Fprintf(&sb, "\n\nCurrent relevance score: %.1f/100\n", in.FinalScore)
	if len(in.MissingSkills) > 0 {
		sb.WriteString("Missing must-have skills: " + strings.Join(in.MissingSkills, ", ") + "\n")
	}
	if len(in.MissingQualifications) > 0 {
		sb.WriteString("Missing qualifications: " + strings.Join(in.MissingQualifications, ", ") + "\n")
	}
	sb.WriteString("\nProvide personalized, actionable feedback: specific skills to develop or highlight, ")
	sb.WriteString("how to better align with the requirements, and practical next steps. ")
	sb.WriteString("Keep it encouraging but honest. Limit to 3-4 key recommendations in plain prose.")
	return sb.String()
}

// retryBackendCall executes a backend call with exponential backoff and
// jitter, capped at 30 seconds per backoff.
func retryBackendCall[T any](ctx context.Context, logger *errors.Logger, maxRetries int, operation string, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			baseDelay := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
			jitterMax := big.NewInt(int64(float64(baseDelay) * 0.1))
			jitterBig, _ := rand.Int(rand.Reader, jitterMax)
			backoff := min(baseDelay+time.Duration(jitterBig.Int64()), 30*time.Second)

			if logger != nil {
				logger.Warn("Retrying backend operation",
					"operation", operation,
					"attempt", attempt,
					"max_retries", maxRetries,
					"error", lastErr.Error())
			}

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return zero, ctx.Err()
			}
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !isRetryableError(err) {
			break
		}
	}

	return zero, fmt.Errorf("operation %q failed after %d attempts: %w", operation, maxRetries+1, lastErr)
}

// isRetryableError determines if an error should trigger a retry
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if goerrors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var apiErr *googleapi.Error
	if goerrors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	return false
}
