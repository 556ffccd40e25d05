package engine

import (
	"resumatch/internal/config"
	"resumatch/internal/errors"
	"resumatch/internal/types"
)

// Verdict thresholds. The bands partition [0,100] completely; each band is
// inclusive at its lower bound.
const (
	verdictHighThreshold   = 80.0
	verdictMediumThreshold = 60.0
)

// VerdictFor maps a final score to its verdict band.
func VerdictFor(score float64) types.Verdict {
	switch {
	case score >= verdictHighThreshold:
		return types.VerdictHigh
	case score >= verdictMediumThreshold:
		return types.VerdictMedium
	default:
		return types.VerdictLow
	}
}

// Aggregate combines the three sub-scores into the final score and verdict.
// A missing (negative) sub-score is substituted with 0 so an upstream
// failure biases the result toward Low instead of aborting the evaluation.
func Aggregate(w config.WeightsConfig, lexical, similarity, compatibility float64) (float64, types.Verdict) {
	final := w.Lexical*zeroIfMissing(lexical) +
		w.Similarity*zeroIfMissing(similarity) +
		w.Compatibility*zeroIfMissing(compatibility)
	return final, VerdictFor(final)
}

func zeroIfMissing(score float64) float64 {
	if score < 0 {
		return 0
	}
	return score
}

// clampScore clamps a computed sub-score into [0,100], logging the
// inconsistency as an internal error. Out-of-range values never propagate
// into the aggregate.
func clampScore(name string, value float64, logger *errors.Logger) float64 {
	if value >= 0 && value <= 100 {
		return value
	}

	clamped := value
	if clamped < 0 {
		clamped = 0
	} else if clamped > 100 {
		clamped = 100
	}

	if logger != nil {
		logger.LogError(
			errors.NewInternalError(errors.ErrCodeScoreOutOfRange,
				"sub-score outside [0,100], clamping", nil).
				WithContext("score_name", name).
				WithContext("value", value),
			"Clamped out-of-range sub-score")
	}
	return clamped
}
