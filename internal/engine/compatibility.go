package engine

import (
	"regexp"

	"resumatch/internal/types"
)

// CompatibilityReport is the compatibility checker's full output. Issues and
// QuickFixes are truncated to the first three in detection order, which
// keeps the report reproducible.
type CompatibilityReport struct {
	SubScore   types.SubScore
	Friendly   bool
	Issues     []string
	QuickFixes []string
}

// formatProblem is one structural anti-pattern with its fixed penalty.
type formatProblem struct {
	pattern  *regexp.Regexp
	penalty  float64
	issue    string
	quickFix string
	// minMatches flags the problem only when the pattern occurs more than
	// this many times (0 means any occurrence).
	minMatches int
}

// Patterns are checked independently in this order; penalties stack.
var formatProblems = []formatProblem{
	{
		pattern:  regexp.MustCompile(`(?i)<table[^>]*>`),
		penalty:  30,
		issue:    "Contains tables",
		quickFix: "Convert tables to plain text",
	},
	{
		pattern:  regexp.MustCompile(`(?i)<div[^>]*style[^>]*>|<span[^>]*style[^>]*>`),
		penalty:  20,
		issue:    "Complex formatting detected",
		quickFix: "Use simple formatting",
	},
	{
		pattern:  regexp.MustCompile(`(?i)<img[^>]*>`),
		penalty:  25,
		issue:    "Contains images",
		quickFix: "Remove images and graphics",
	},
	{
		pattern:  regexp.MustCompile(`(?i)column-count|column-width|column-gap`),
		penalty:  20,
		issue:    "Multi-column layout",
		quickFix: "Use a single-column layout",
	},
	{
		pattern:  regexp.MustCompile(`(?i)<header[^>]*>|<footer[^>]*>`),
		penalty:  15,
		issue:    "Headers/footers detected",
		quickFix: "Move header/footer content into the body",
	},
	{
		pattern:  regexp.MustCompile(`(?i)<input[^>]*>|<textarea[^>]*>`),
		penalty:  20,
		issue:    "Interactive elements",
		quickFix: "Remove interactive form elements",
	},
	{
		pattern:    regexp.MustCompile(`[^\w\s.,;:!?\-()\[\]{}"'/\\]`),
		penalty:    15,
		issue:      "Too many special characters",
		quickFix:   "Replace decorative characters with plain text",
		minMatches: 10,
	},
}

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePattern = regexp.MustCompile(`\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
)

// maxSurfacedIssues bounds how many issues and quick fixes are surfaced.
const maxSurfacedIssues = 3

// CompatibilityChecker scores structural/formatting compliance of the
// resume document: it starts from 100 and subtracts fixed penalties for
// detected anti-patterns and missing essentials, flooring at 0.
type CompatibilityChecker struct{}

// NewCompatibilityChecker creates a compatibility checker.
func NewCompatibilityChecker() *CompatibilityChecker {
	return &CompatibilityChecker{}
}

// Check scores the resume text and structured record.
func (c *CompatibilityChecker) Check(resumeText string, resume *types.ResumeRecord) CompatibilityReport {
	score := 100.0
	var issues, fixes []string

	flag := func(penalty float64, issue, fix string) {
		score -= penalty
		issues = append(issues, issue)
		fixes = append(fixes, fix)
	}

	for _, p := range formatProblems {
		matches := p.pattern.FindAllStringIndex(resumeText, -1)
		if len(matches) > p.minMatches {
			flag(p.penalty, p.issue, p.quickFix)
		}
	}

	if len(resume.Skills) == 0 {
		flag(20, "Missing skills section", "Add a skills section")
	}
	if len(resume.Experience) == 0 {
		flag(25, "Missing experience section", "Add work experience")
	}
	if len(resume.Education) == 0 {
		flag(15, "Missing education section", "Add education details")
	}

	contactFound := 0
	if emailPattern.MatchString(resumeText) {
		contactFound++
	}
	if phonePattern.MatchString(resumeText) {
		contactFound++
	}
	if contactFound < 2 {
		flag(10, "Incomplete contact information", "Add email and phone number")
	}

	if score < 0 {
		score = 0
	}

	report := CompatibilityReport{
		SubScore: types.SubScore{
			Name:  "compatibility",
			Value: score,
			Evidence: types.Evidence{
				Notes: issues,
			},
		},
		Friendly:   score >= 70,
		Issues:     truncate(issues, maxSurfacedIssues),
		QuickFixes: truncate(fixes, maxSurfacedIssues),
	}
	return report
}

func truncate(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
