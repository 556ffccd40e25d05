package engine

import (
	"resumatch/internal/config"
	"resumatch/internal/textnorm"
	"resumatch/internal/types"
)

// LexicalMatcher scores must-have / good-to-have skill coverage. Matching is
// case-insensitive exact on normalized forms; no partial or fuzzy credit at
// this layer.
type LexicalMatcher struct {
	weights config.LexicalConfig
}

// NewLexicalMatcher creates a lexical matcher with the given coverage weights.
func NewLexicalMatcher(weights config.LexicalConfig) *LexicalMatcher {
	return &LexicalMatcher{weights: weights}
}

// Score computes the lexical sub-score for one resume/job pair holding the
// matched and missing must-have skills as evidence. An empty requirement set
// contributes 0 rather than inflating the score; with zero total
// requirements the score is 0.
func (m *LexicalMatcher) Score(resume *types.ResumeRecord, job *types.JobRecord) types.SubScore {
	resumeSkills := textnorm.NewSkillSet(resume.Skills)
	mustHave := textnorm.NewSkillSet(job.MustHaveSkills)
	goodToHave := textnorm.NewSkillSet(job.GoodToHaveSkills)

	sub := types.SubScore{Name: "lexical"}

	if mustHave.Len() == 0 && goodToHave.Len() == 0 {
		sub.Evidence.Notes = []string{"no skill requirements to match against"}
		return sub
	}

	mustCoverage, matched, missing := coverage(mustHave, resumeSkills)
	goodCoverage, goodMatched, _ := coverage(goodToHave, resumeSkills)

	sub.Value = 100 * (m.weights.MustHave*mustCoverage + m.weights.GoodToHave*goodCoverage)
	sub.Evidence.Matched = append(matched, goodMatched...)
	sub.Evidence.Missing = missing
	return sub
}

// coverage returns found/total for the requirement set, plus the matched and
// missing requirement strings in their original JobRecord casing. An empty
// set has coverage 0.
func coverage(required, candidate *textnorm.SkillSet) (float64, []string, []string) {
	if required.Len() == 0 {
		return 0, nil, nil
	}

	var matched, missing []string
	for _, skill := range required.Originals() {
		if candidate.Contains(skill) {
			matched = append(matched, skill)
		} else {
			missing = append(missing, skill)
		}
	}

	return float64(len(matched)) / float64(required.Len()), matched, missing
}
