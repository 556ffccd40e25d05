package engine

import (
	"slices"
	"testing"

	"resumatch/internal/config"
	"resumatch/internal/types"
)

var testLexicalWeights = config.LexicalConfig{MustHave: 0.7, GoodToHave: 0.3}

func TestLexicalScore(t *testing.T) {
	tests := []struct {
		name        string
		resume      types.ResumeRecord
		job         types.JobRecord
		want        float64
		wantMissing []string
	}{
		{
			name:   "full must-have coverage",
			resume: types.ResumeRecord{Skills: []string{"python", "sql"}},
			job:    types.JobRecord{MustHaveSkills: []string{"Python", "SQL"}},
			want:   70.0,
		},
		{
			name:   "full coverage of both sets",
			resume: types.ResumeRecord{Skills: []string{"python", "sql", "airflow"}},
			job: types.JobRecord{
				MustHaveSkills:   []string{"Python", "SQL"},
				GoodToHaveSkills: []string{"Airflow"},
			},
			want: 100.0,
		},
		{
			name:        "half must-have coverage",
			resume:      types.ResumeRecord{Skills: []string{"python"}},
			job:         types.JobRecord{MustHaveSkills: []string{"Python", "Kubernetes"}},
			want:        35.0,
			wantMissing: []string{"Kubernetes"},
		},
		{
			name:   "good-to-have only",
			resume: types.ResumeRecord{Skills: []string{"docker"}},
			job:    types.JobRecord{GoodToHaveSkills: []string{"Docker"}},
			want:   30.0,
		},
		{
			name:   "no requirements",
			resume: types.ResumeRecord{Skills: []string{"python"}},
			job:    types.JobRecord{},
			want:   0.0,
		},
		{
			name:        "no overlap",
			resume:      types.ResumeRecord{Skills: []string{"java"}},
			job:         types.JobRecord{MustHaveSkills: []string{"Python"}},
			want:        0.0,
			wantMissing: []string{"Python"},
		},
		{
			name:   "case and whitespace insensitive",
			resume: types.ResumeRecord{Skills: []string{"  PYTHON  ", "Node.js"}},
			job:    types.JobRecord{MustHaveSkills: []string{"python", "node.js"}},
			want:   70.0,
		},
	}

	m := NewLexicalMatcher(testLexicalWeights)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := m.Score(&tt.resume, &tt.job)
			if !almostEqual(sub.Value, tt.want) {
				t.Errorf("Score() = %v, want %v", sub.Value, tt.want)
			}
			if tt.wantMissing != nil && !slices.Equal(sub.Evidence.Missing, tt.wantMissing) {
				t.Errorf("missing = %v, want %v", sub.Evidence.Missing, tt.wantMissing)
			}
		})
	}
}

func TestLexicalScorePreservesJobCasing(t *testing.T) {
	m := NewLexicalMatcher(testLexicalWeights)
	resume := types.ResumeRecord{Skills: []string{"python"}}
	job := types.JobRecord{MustHaveSkills: []string{"PyTorch", "Python"}}

	sub := m.Score(&resume, &job)
	if !slices.Equal(sub.Evidence.Missing, []string{"PyTorch"}) {
		t.Errorf("missing = %v, want original casing [PyTorch]", sub.Evidence.Missing)
	}
	if !slices.Equal(sub.Evidence.Matched, []string{"Python"}) {
		t.Errorf("matched = %v, want original casing [Python]", sub.Evidence.Matched)
	}
}

func TestLexicalScoreMonotonicity(t *testing.T) {
	m := NewLexicalMatcher(testLexicalWeights)
	job := types.JobRecord{
		MustHaveSkills:   []string{"Python", "SQL", "Spark"},
		GoodToHaveSkills: []string{"Airflow", "Docker"},
	}

	prev := -1.0
	skills := []string{"python", "sql", "spark", "airflow", "docker"}
	for i := range skills {
		resume := types.ResumeRecord{Skills: skills[:i+1]}
		got := m.Score(&resume, &job).Value
		if got < prev {
			t.Fatalf("adding skill %q decreased score: %v -> %v", skills[i], prev, got)
		}
		prev = got
	}
}

func almostEqual(a, b float64) bool {
	diff := a - b
	return diff < 1e-9 && diff > -1e-9
}
