package engine

import (
	"testing"

	"resumatch/internal/types"
)

func TestGapAnalyzerSkills(t *testing.T) {
	a := NewGapAnalyzer()

	tests := []struct {
		name        string
		resume      []string
		mustHave    []string
		wantMissing []string
	}{
		{
			"exact gap with original casing",
			[]string{"python", "sql"},
			[]string{"Python", "PyTorch"},
			[]string{"PyTorch"},
		},
		{
			"case and whitespace insensitive match",
			[]string{"  NODE.JS ", "go"},
			[]string{"Node.js", "Go"},
			[]string{},
		},
		{
			"substring is not a skill match",
			[]string{"Java"},
			[]string{"JavaScript"},
			[]string{"JavaScript"},
		},
		{
			"no requirements",
			[]string{"Python"},
			nil,
			[]string{},
		},
		{
			"empty resume misses everything",
			nil,
			[]string{"Python", "SQL"},
			[]string{"Python", "SQL"},
		},
		{
			"duplicate requirements reported once",
			nil,
			[]string{"Python", "python", " PYTHON "},
			[]string{"Python"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resume := &types.ResumeRecord{Skills: tt.resume}
			job := &types.JobRecord{MustHaveSkills: tt.mustHave}

			missing, _ := a.Analyze(resume, job)

			if missing == nil {
				t.Fatal("missing skills must be non-nil")
			}
			if len(missing) != len(tt.wantMissing) {
				t.Fatalf("missing = %v, want %v", missing, tt.wantMissing)
			}
			for i := range missing {
				if missing[i] != tt.wantMissing[i] {
					t.Errorf("missing[%d] = %q, want %q", i, missing[i], tt.wantMissing[i])
				}
			}
		})
	}
}

func TestGapAnalyzerQualifications(t *testing.T) {
	a := NewGapAnalyzer()

	tests := []struct {
		name        string
		education   []string
		quals       []string
		wantMissing []string
	}{
		{
			"qualification found as substring",
			[]string{"Bachelor of Science in Computer Science, MIT"},
			[]string{"Bachelor of Science"},
			[]string{},
		},
		{
			"abbreviation does not match the spelled-out degree",
			[]string{"Bachelor of Science in Computer Science"},
			[]string{"BSc"},
			[]string{"BSc"},
		},
		{
			"spelled-out degree does not match the abbreviation",
			[]string{"BSc Computer Science"},
			[]string{"Bachelor's degree in Computer Science"},
			[]string{"Bachelor's degree in Computer Science"},
		},
		{
			"case insensitive",
			[]string{"MASTER OF ENGINEERING"},
			[]string{"master of engineering"},
			[]string{},
		},
		{
			"found across joined entries",
			[]string{"BSc Computer Science", "PhD Physics"},
			[]string{"PhD"},
			[]string{},
		},
		{
			"missing qualification keeps original casing",
			[]string{"High school diploma"},
			[]string{"Master's Degree"},
			[]string{"Master's Degree"},
		},
		{
			"blank qualification ignored",
			nil,
			[]string{"   "},
			[]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resume := &types.ResumeRecord{Education: tt.education}
			job := &types.JobRecord{Qualifications: tt.quals}

			_, missing := a.Analyze(resume, job)

			if missing == nil {
				t.Fatal("missing qualifications must be non-nil")
			}
			if len(missing) != len(tt.wantMissing) {
				t.Fatalf("missing = %v, want %v", missing, tt.wantMissing)
			}
			for i := range missing {
				if missing[i] != tt.wantMissing[i] {
					t.Errorf("missing[%d] = %q, want %q", i, missing[i], tt.wantMissing[i])
				}
			}
		})
	}
}

// A skill counted as matched by the lexical matcher must never be reported
// missing, and vice versa.
func TestGapAnalyzerAgreesWithLexicalMatcher(t *testing.T) {
	resume := &types.ResumeRecord{Skills: []string{"Python", "sql", "Docker "}}
	job := &types.JobRecord{MustHaveSkills: []string{"python", "SQL", "Kubernetes", "Terraform"}}

	m := NewLexicalMatcher(testLexicalWeights)
	sub := m.Score(resume, job)

	a := NewGapAnalyzer()
	missing, _ := a.Analyze(resume, job)

	if len(sub.Evidence.Missing) != len(missing) {
		t.Fatalf("matcher missing %v, analyzer missing %v", sub.Evidence.Missing, missing)
	}
	for i := range missing {
		if sub.Evidence.Missing[i] != missing[i] {
			t.Errorf("missing[%d]: matcher %q, analyzer %q", i, sub.Evidence.Missing[i], missing[i])
		}
	}
}
