package engine

import (
	"strings"
	"testing"

	"resumatch/internal/types"
)

func completeResume() *types.ResumeRecord {
	return &types.ResumeRecord{
		Skills:     []string{"Python", "SQL"},
		Education:  []string{"BSc Computer Science"},
		Experience: []string{"Data Engineer at Acme"},
	}
}

func TestCompatibilityCleanResume(t *testing.T) {
	c := NewCompatibilityChecker()
	text := "Jane Doe\njane.doe@example.com\n(555) 123-4567\nData Engineer with Python and SQL."

	report := c.Check(text, completeResume())

	if report.SubScore.Value != 100 {
		t.Errorf("score = %v, want 100", report.SubScore.Value)
	}
	if !report.Friendly {
		t.Error("expected clean resume to be flagged friendly")
	}
	if len(report.Issues) != 0 || len(report.QuickFixes) != 0 {
		t.Errorf("expected no issues, got %v / %v", report.Issues, report.QuickFixes)
	}
}

func TestCompatibilityPenaltiesStack(t *testing.T) {
	c := NewCompatibilityChecker()
	// Tables (30), images (25) and a multi-column layout (20) on top of a
	// resume with complete sections and contact info: 100-75 = 25.
	text := `<table></table>
<img src="photo.png">
column-count: 3
jane.doe@example.com (555) 123-4567`

	report := c.Check(text, completeResume())

	if report.SubScore.Value != 25 {
		t.Errorf("score = %v, want 25", report.SubScore.Value)
	}
	if report.Friendly {
		t.Error("heavily penalized resume should not be friendly")
	}
}

func TestCompatibilityScoreFloorsAtZero(t *testing.T) {
	c := NewCompatibilityChecker()
	text := `<table></table><img src="a"><header></header><footer></footer>
<input type="text"><div style="x">y</div>` + strings.Repeat("★", 20)

	report := c.Check(text, &types.ResumeRecord{})

	if report.SubScore.Value != 0 {
		t.Errorf("score = %v, want floor of 0", report.SubScore.Value)
	}
}

func TestCompatibilitySpecialCharThreshold(t *testing.T) {
	c := NewCompatibilityChecker()
	// The @ in the email address already counts as one special character.
	contact := " jane@example.com (555) 123-4567"

	t.Run("above threshold flagged", func(t *testing.T) {
		report := c.Check(strings.Repeat("★", 10)+contact, completeResume())
		if report.SubScore.Value != 85 {
			t.Errorf("score = %v, want 85", report.SubScore.Value)
		}
		if len(report.Issues) != 1 || report.Issues[0] != "Too many special characters" {
			t.Errorf("issues = %v", report.Issues)
		}
	})

	t.Run("at threshold not flagged", func(t *testing.T) {
		report := c.Check(strings.Repeat("★", 9)+contact, completeResume())
		if report.SubScore.Value != 100 {
			t.Errorf("score = %v, want 100", report.SubScore.Value)
		}
	})
}

func TestCompatibilityMissingSections(t *testing.T) {
	c := NewCompatibilityChecker()

	// Empty record with bland text: -20 skills, -25 experience,
	// -15 education, -10 contact = 30.
	report := c.Check("hello", &types.ResumeRecord{})

	if report.SubScore.Value != 30 {
		t.Errorf("score = %v, want 30", report.SubScore.Value)
	}
	if report.Friendly {
		t.Error("expected not friendly")
	}
	if len(report.Issues) != maxSurfacedIssues {
		t.Errorf("surfaced issues = %d, want truncation to %d", len(report.Issues), maxSurfacedIssues)
	}
	if len(report.SubScore.Evidence.Notes) != 4 {
		t.Errorf("evidence notes = %d, want complete list of 4", len(report.SubScore.Evidence.Notes))
	}
}

func TestCompatibilityTableWithAllSectionsMissing(t *testing.T) {
	c := NewCompatibilityChecker()

	// Table marker (30) plus missing skills (20), experience (25) and
	// education (15); contact info is present.
	report := c.Check("<table></table> jane@example.com (555) 123-4567", &types.ResumeRecord{})

	if report.SubScore.Value != 10 {
		t.Errorf("score = %v, want 10", report.SubScore.Value)
	}
	if report.Friendly {
		t.Error("expected not friendly")
	}
}

func TestCompatibilityPartialContact(t *testing.T) {
	c := NewCompatibilityChecker()

	report := c.Check("reach me at jane@example.com", completeResume())

	if report.SubScore.Value != 90 {
		t.Errorf("score = %v, want 90 with only one contact channel", report.SubScore.Value)
	}
	if len(report.Issues) != 1 || report.Issues[0] != "Incomplete contact information" {
		t.Errorf("issues = %v", report.Issues)
	}
}

func TestCompatibilityIssueOrderStable(t *testing.T) {
	c := NewCompatibilityChecker()
	text := `<img src="a"><table></table> jane@example.com (555) 123-4567`

	first := c.Check(text, completeResume())
	for range 3 {
		got := c.Check(text, completeResume())
		if len(got.Issues) != len(first.Issues) {
			t.Fatalf("issue count changed: %v vs %v", got.Issues, first.Issues)
		}
		for i := range got.Issues {
			if got.Issues[i] != first.Issues[i] {
				t.Fatalf("issue order changed: %v vs %v", got.Issues, first.Issues)
			}
		}
	}
	// Detection order follows the pattern table, not text position.
	if first.Issues[0] != "Contains tables" || first.Issues[1] != "Contains images" {
		t.Errorf("issues = %v, want table before image", first.Issues)
	}
}
