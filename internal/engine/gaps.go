package engine

import (
	"strings"

	"resumatch/internal/textnorm"
	"resumatch/internal/types"
)

// GapAnalyzer reports the set-difference between job requirements and
// candidate attributes. Skill gaps use the same normalized exact comparison
// as the lexical matcher, so a skill counted as found for scoring never
// shows up as missing here. Qualification gaps use a deliberately stricter
// normalized-substring check against the education entries.
type GapAnalyzer struct{}

// NewGapAnalyzer creates a gap analyzer.
func NewGapAnalyzer() *GapAnalyzer {
	return &GapAnalyzer{}
}

// Analyze returns the missing must-have skills and missing qualifications,
// preserving the original casing from the JobRecord. Both slices are
// non-nil.
func (a *GapAnalyzer) Analyze(resume *types.ResumeRecord, job *types.JobRecord) (missingSkills, missingQualifications []string) {
	missingSkills = make([]string, 0)
	missingQualifications = make([]string, 0)

	resumeSkills := textnorm.NewSkillSet(resume.Skills)
	for _, skill := range textnorm.NewSkillSet(job.MustHaveSkills).Originals() {
		if !resumeSkills.Contains(skill) {
			missingSkills = append(missingSkills, skill)
		}
	}

	education := textnorm.Normalize(strings.Join(resume.Education, " "))
	for _, qual := range job.Qualifications {
		norm := textnorm.Normalize(qual)
		if norm == "" {
			continue
		}
		if !strings.Contains(education, norm) {
			missingQualifications = append(missingQualifications, qual)
		}
	}

	return missingSkills, missingQualifications
}
