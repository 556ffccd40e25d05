// Package backend holds the optional external capabilities consumed by the
// scoring pipeline. Both are capabilities, not requirements: the pipeline
// always has a local fallback when a backend is absent or failing.
package backend

import "context"

// Similarity compares two texts and returns a similarity in [0,1].
type Similarity interface {
	// Compare returns the semantic similarity between a and b. An error or
	// timeout causes the caller to degrade to its local fallback ladder,
	// never to fail the evaluation.
	Compare(ctx context.Context, a, b string) (float64, error)
}

// FeedbackInput is the contract input for a feedback generator.
type FeedbackInput struct {
	ResumeSummary         string
	JobSummary            string
	MissingSkills         []string
	MissingQualifications []string
	FinalScore            float64
}

// FeedbackGenerator produces narrative improvement feedback. The
// deterministic composer remains the required fallback when the generator
// is absent or errors.
type FeedbackGenerator interface {
	Generate(ctx context.Context, in FeedbackInput) (string, error)
}

// Health reports backend availability for health checks.
type Health interface {
	Healthy() bool
	Stats() map[string]any
}
