package engine

import (
	"context"
	"math"
	"time"

	"resumatch/internal/backend"
	"resumatch/internal/errors"
	"resumatch/internal/textnorm"
	"resumatch/internal/types"
)

// Similarity method names recorded in sub-score evidence.
const (
	methodEmbedding = "embedding"
	methodTFIDF     = "tfidf"
	methodJaccard   = "jaccard"
	methodNone      = "none"
)

// SimilarityAdapter normalizes an external semantic-similarity signal with a
// deterministic lexical fallback ladder: configured backend, then local
// TF-IDF cosine over the two texts, then Jaccard word overlap. A failure at
// any rung falls through to the next rung rather than propagating.
type SimilarityAdapter struct {
	backend backend.Similarity // nil when no external backend is configured
	timeout time.Duration
	logger  *errors.Logger
}

// NewSimilarityAdapter creates an adapter. backend may be nil, in which case
// the ladder starts at the TF-IDF rung.
func NewSimilarityAdapter(b backend.Similarity, timeout time.Duration, logger *errors.Logger) *SimilarityAdapter {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SimilarityAdapter{backend: b, timeout: timeout, logger: logger}
}

// Score computes the similarity sub-score for the two texts. The result is
// always in [0,100]; if every rung degenerates (e.g. both texts empty) the
// score is 0.
func (a *SimilarityAdapter) Score(ctx context.Context, resumeText, jobText string) types.SubScore {
	sub := types.SubScore{Name: "similarity"}

	if a.backend != nil && resumeText != "" && jobText != "" {
		callCtx, cancel := context.WithTimeout(ctx, a.timeout)
		sim, err := a.backend.Compare(callCtx, resumeText, jobText)
		cancel()
		if err == nil && sim >= 0 && sim <= 1 {
			sub.Value = sim * 100
			sub.Evidence.Method = methodEmbedding
			return sub
		}
		if err != nil && a.logger != nil {
			a.logger.Warn("Similarity backend failed, falling back to lexical similarity",
				"error", err.Error())
		}
	}

	if sim, ok := tfidfCosine(resumeText, jobText); ok {
		sub.Value = sim * 100
		sub.Evidence.Method = methodTFIDF
		return sub
	}

	if sim, ok := jaccard(resumeText, jobText); ok {
		sub.Value = sim * 100
		sub.Evidence.Method = methodJaccard
		return sub
	}

	sub.Evidence.Method = methodNone
	return sub
}

// tfidfCosine computes cosine similarity between TF-IDF vectors built from
// the two texts treated as the entire corpus. Term frequency is the raw
// count; IDF is ln(2/(df+1)) so a two-document corpus never divides by
// zero. Returns ok=false when either text has no tokens or a vector has
// zero norm, so the caller can fall through.
func tfidfCosine(a, b string) (float64, bool) {
	tokensA := textnorm.Tokenize(a)
	tokensB := textnorm.Tokenize(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0, false
	}

	tfA := termCounts(tokensA)
	tfB := termCounts(tokensB)

	var dot, normA, normB float64
	for term, countA := range tfA {
		idf := idfFor(term, tfA, tfB)
		wA := float64(countA) * idf
		normA += wA * wA
		if countB, ok := tfB[term]; ok {
			dot += wA * float64(countB) * idf
		}
	}
	for term, countB := range tfB {
		idf := idfFor(term, tfA, tfB)
		wB := float64(countB) * idf
		normB += wB * wB
	}

	if normA == 0 || normB == 0 {
		return 0, false
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return clamp01(sim), true
}

func termCounts(tokens []string) map[string]int {
	counts := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		counts[tok]++
	}
	return counts
}

func idfFor(term string, tfA, tfB map[string]int) float64 {
	df := 0
	if _, ok := tfA[term]; ok {
		df++
	}
	if _, ok := tfB[term]; ok {
		df++
	}
	return math.Log(2.0 / float64(df+1))
}

// jaccard computes word-set overlap over the lowercase whitespace-tokenized
// texts. Returns ok=false when the union is empty.
func jaccard(a, b string) (float64, bool) {
	setA := textnorm.WordSet(a)
	setB := textnorm.WordSet(b)

	union := len(setB)
	intersection := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			intersection++
		} else {
			union++
		}
	}

	if union == 0 {
		return 0, false
	}
	return float64(intersection) / float64(union), true
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
