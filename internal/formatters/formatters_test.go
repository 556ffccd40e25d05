package formatters

import (
	"encoding/json"
	"slices"
	"strings"
	"testing"

	"resumatch/internal/types"
)

func sampleResult() types.EvaluationResult {
	return types.EvaluationResult{
		LexicalScore:          70.0,
		SimilarityScore:       55.5,
		CompatibilityScore:    80.0,
		FinalScore:            66.2,
		Verdict:               types.VerdictMedium,
		MissingSkills:         []string{"Kubernetes"},
		MissingQualifications: []string{"Master's degree in Computer Science"},
		Strengths:             []string{"Strong technical skills: Python, Go"},
		CompatibilityNotes:    []string{"Resume contains tables"},
		Feedback:              "Missing must-have skills: Kubernetes.",
	}
}

func TestJSONFormatter(t *testing.T) {
	registry := NewFormatterRegistry()

	out, err := registry.Format(sampleResult(), "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded types.EvaluationResult
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Verdict != types.VerdictMedium {
		t.Errorf("verdict = %q, want %q", decoded.Verdict, types.VerdictMedium)
	}
	if decoded.FinalScore != 66.2 {
		t.Errorf("finalScore = %v, want 66.2", decoded.FinalScore)
	}
}

func TestTextFormatter(t *testing.T) {
	registry := NewFormatterRegistry()

	out, err := registry.Format(sampleResult(), "text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"66.2/100",
		"Medium",
		"Kubernetes",
		"Master's degree in Computer Science",
		"Strong technical skills: Python, Go",
		"Resume contains tables",
		"Missing must-have skills: Kubernetes.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q", want)
		}
	}
}

func TestMarkdownFormatter(t *testing.T) {
	registry := NewFormatterRegistry()

	out, err := registry.Format(sampleResult(), "markdown")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(out, "# Resume Relevance Report") {
		t.Error("markdown output missing title")
	}
	if !strings.Contains(out, "**Verdict:** Medium") {
		t.Error("markdown output missing verdict")
	}
	if !strings.Contains(out, "| Lexical match | 70.0 |") {
		t.Error("markdown output missing component score table row")
	}
}

func TestFormatPointerResult(t *testing.T) {
	registry := NewFormatterRegistry()
	result := sampleResult()

	out, err := registry.Format(&result, "text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "66.2/100") {
		t.Error("pointer input should format like value input")
	}
}

func TestUnknownFormat(t *testing.T) {
	registry := NewFormatterRegistry()
	if _, err := registry.Format(sampleResult(), "yaml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestGenericFallback(t *testing.T) {
	registry := NewFormatterRegistry()

	// Arbitrary data has no text formatter, but json falls back to the
	// generic one.
	if _, err := registry.Format(map[string]int{"a": 1}, "json"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := registry.Format(map[string]int{"a": 1}, "text"); err == nil {
		t.Error("expected error for text format of arbitrary data")
	}
}

func TestGetSupportedFormats(t *testing.T) {
	formats := NewFormatterRegistry().GetSupportedFormats()
	slices.Sort(formats)
	want := []string{"json", "markdown", "text"}
	if !slices.Equal(formats, want) {
		t.Errorf("formats = %v, want %v", formats, want)
	}
}
