package cli

import (
	"fmt"

	"resumatch/internal/backend"
	"resumatch/internal/config"
	"resumatch/internal/engine"
	"resumatch/internal/errors"
)

// buildPipeline constructs the scoring pipeline with the backends the
// configuration selects. The returned Health is nil when no external
// backend is configured.
func buildPipeline(cfg *config.Config, logger *errors.Logger) (*engine.Pipeline, backend.Health, error) {
	var opts []engine.Option
	var health backend.Health

	needGemini := cfg.Backend.Similarity == config.SimilarityBackendGemini ||
		cfg.Backend.Feedback == config.FeedbackBackendGemini

	if needGemini {
		gemini, err := backend.NewGemini(cfg.Backend.Gemini, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create Gemini backend: %w", err)
		}
		health = gemini

		if cfg.Backend.Similarity == config.SimilarityBackendGemini {
			opts = append(opts, engine.WithSimilarityBackend(gemini, cfg.Backend.Gemini.Timeout))
		}
		if cfg.Backend.Feedback == config.FeedbackBackendGemini {
			opts = append(opts, engine.WithFeedbackGenerator(gemini, cfg.Backend.Gemini.Timeout))
		}
	}

	return engine.New(cfg.Engine, logger, opts...), health, nil
}
