package engine

import (
	"fmt"
	"strings"

	"resumatch/internal/backend"
	"resumatch/internal/textnorm"
	"resumatch/internal/types"
)

// FeedbackComposer assembles the deterministic feedback string the pipeline
// guarantees. An LLM-backed generator may replace it at runtime, but this
// composer remains the required fallback.
type FeedbackComposer struct{}

// NewFeedbackComposer creates a feedback composer.
func NewFeedbackComposer() *FeedbackComposer {
	return &FeedbackComposer{}
}

// Compose concatenates, in fixed order: the missing must-have skills, the
// missing qualifications, a generic improvement sentence for scores below
// the Medium band, and an affirming sentence when nothing else applied.
func (c *FeedbackComposer) Compose(finalScore float64, missingSkills, missingQualifications []string) string {
	var sentences []string

	if len(missingSkills) > 0 {
		sentences = append(sentences,
			fmt.Sprintf("Missing must-have skills: %s.", strings.Join(missingSkills, ", ")))
	}
	if len(missingQualifications) > 0 {
		sentences = append(sentences,
			fmt.Sprintf("Consider adding qualifications: %s.", strings.Join(missingQualifications, ", ")))
	}
	if finalScore < verdictMediumThreshold {
		sentences = append(sentences,
			"Consider gaining more relevant experience in the required technologies.")
	}
	if len(sentences) == 0 {
		sentences = append(sentences, "Your resume looks strong for this position!")
	}

	return strings.Join(sentences, " ")
}

// maxStrengths caps how many strengths are reported.
const maxStrengths = 4

// Strengths derives the candidate's strengths deterministically: matched
// must-have skills first, then the presence of education, experience and
// projects.
func Strengths(resume *types.ResumeRecord, job *types.JobRecord) []string {
	strengths := make([]string, 0, maxStrengths)

	resumeSkills := textnorm.NewSkillSet(resume.Skills)
	var matched []string
	for _, skill := range textnorm.NewSkillSet(job.MustHaveSkills).Originals() {
		if resumeSkills.Contains(skill) {
			matched = append(matched, skill)
		}
	}
	if len(matched) > 0 {
		strengths = append(strengths,
			fmt.Sprintf("Strong technical skills: %s", strings.Join(matched, ", ")))
	}

	if len(resume.Education) > 0 {
		strengths = append(strengths, "Relevant educational background")
	}
	if len(resume.Experience) > 0 {
		strengths = append(strengths, "Professional experience in the field")
	}
	if len(resume.Projects) > 0 {
		strengths = append(strengths, "Hands-on project experience")
	}

	if len(strengths) > maxStrengths {
		strengths = strengths[:maxStrengths]
	}
	return strengths
}

// summarizeResume builds the compact resume view handed to a feedback
// generator.
func summarizeResume(resume *types.ResumeRecord) string {
	var parts []string
	if len(resume.Skills) > 0 {
		parts = append(parts, "Skills: "+strings.Join(capList(resume.Skills, 10), ", "))
	}
	if len(resume.Experience) > 0 {
		parts = append(parts, fmt.Sprintf("Experience: %d positions", len(resume.Experience)))
		for _, exp := range capList(resume.Experience, 3) {
			parts = append(parts, "- "+exp)
		}
	}
	if len(resume.Education) > 0 {
		parts = append(parts, "Education: "+strings.Join(capList(resume.Education, 2), "; "))
	}
	if len(resume.Certifications) > 0 {
		parts = append(parts, "Certifications: "+strings.Join(capList(resume.Certifications, 5), ", "))
	}
	if len(resume.Projects) > 0 {
		parts = append(parts, fmt.Sprintf("Projects: %d listed", len(resume.Projects)))
	}
	return strings.Join(parts, "\n")
}

// summarizeJob builds the compact job view handed to a feedback generator.
func summarizeJob(job *types.JobRecord) string {
	var parts []string
	if job.Title != "" {
		parts = append(parts, "Position: "+job.Title)
	}
	if len(job.MustHaveSkills) > 0 {
		parts = append(parts, "Must-have skills: "+strings.Join(capList(job.MustHaveSkills, 10), ", "))
	}
	if len(job.GoodToHaveSkills) > 0 {
		parts = append(parts, "Good-to-have skills: "+strings.Join(capList(job.GoodToHaveSkills, 10), ", "))
	}
	if len(job.Qualifications) > 0 {
		parts = append(parts, "Qualifications: "+strings.Join(capList(job.Qualifications, 5), "; "))
	}
	return strings.Join(parts, "\n")
}

func capList(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

// feedbackInput assembles the generator contract input.
func feedbackInput(resume *types.ResumeRecord, job *types.JobRecord, finalScore float64, missingSkills, missingQualifications []string) backend.FeedbackInput {
	return backend.FeedbackInput{
		ResumeSummary:         summarizeResume(resume),
		JobSummary:            summarizeJob(job),
		MissingSkills:         missingSkills,
		MissingQualifications: missingQualifications,
		FinalScore:            finalScore,
	}
}
