package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	resumatchErrors "resumatch/internal/errors"

	"go.opentelemetry.io/otel/attribute"
)

// evaluateHandler scores one resume record against one job record.
func (s *Server) evaluateHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	tracer := s.Observability.Tracer("resumatch.api")
	ctx, span := tracer.Start(ctx, "api.evaluate")
	defer span.End()

	var req EvaluateRequest
	if err := parseJSONRequest(r, &req); err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String("error.type", "validation"))
		writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	span.SetAttributes(
		attribute.Int("request.resume_skills", len(req.Resume.Skills)),
		attribute.Int("request.resume_text_length", len(req.Resume.FullText)),
		attribute.Int("request.job_must_have", len(req.Job.MustHaveSkills)),
	)

	metrics := s.Observability.GetMetrics()
	start := time.Now()

	result, err := s.Pipeline().Evaluate(ctx, &req.Resume, &req.Job)
	if err != nil {
		// Input problems still yield a complete result; only malformed
		// shapes were rejected above at decode time.
		span.RecordError(err)
		if !resumatchErrors.IsType(err, resumatchErrors.ErrorTypeInput) {
			span.SetAttributes(attribute.String("error.type", "evaluation"))
			metrics.RecordEvaluation(ctx, time.Since(start), "", "", false)
			writeErrorResponse(w, "Evaluation failed", err.Error(), http.StatusInternalServerError)
			return
		}
		span.SetAttributes(attribute.String("error.type", "degraded_input"))
	}

	metrics.RecordEvaluation(ctx, time.Since(start),
		string(result.Verdict), result.SimilarityMethod, err == nil)

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Float64("evaluation.final_score", result.FinalScore),
		attribute.String("evaluation.verdict", string(result.Verdict)),
	)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		s.Logger.LogError(err, "Failed to encode evaluate response")
	}
}

// healthHandler reports service and backend health.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"status":  "healthy",
		"service": "resumatch",
		"version": s.Version,
	}

	response["similarity_backend"] = map[string]any{
		"configured": s.Pipeline().HasSimilarityBackend(),
	}

	if bh := s.getBackendHealth(); bh != nil {
		healthy := bh.Healthy()
		response["backend"] = map[string]any{
			"healthy": healthy,
			"stats":   bh.Stats(),
		}
		if !healthy {
			// Evaluations still succeed via the local fallback ladder.
			response["status"] = "degraded"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Failed to encode health response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// statsHandler provides server statistics including rate limiting info
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"service": "resumatch",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
		},
	}

	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{
			"enabled": false,
		}
	}

	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Failed to encode stats response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// parseJSONRequest parses JSON request body into the provided struct
func parseJSONRequest(r *http.Request, v any) error {
	if r.Header.Get("Content-Type") != "application/json" {
		return fmt.Errorf("content-type must be application/json")
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return fmt.Errorf("request body too large (limit is %d bytes)", maxBytesErr.Limit)
		}
		return fmt.Errorf("failed to read request body: %w", err)
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			log.Printf("Failed to close request body: %v", err)
		}
	}()

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	return nil
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, error, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error:   error,
		Message: message,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Failed to encode error response: %v", err)
		http.Error(w, "Failed to encode error response", http.StatusInternalServerError)
	}
}
