package backend

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"google.golang.org/api/googleapi"
)

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"plain error", errors.New("something failed"), false},
		{"network timeout", timeoutError{}, true},
		{"wrapped network timeout", fmt.Errorf("call failed: %w", timeoutError{}), true},
		{"rate limited", &googleapi.Error{Code: http.StatusTooManyRequests}, true},
		{"internal server error", &googleapi.Error{Code: http.StatusInternalServerError}, true},
		{"bad gateway", &googleapi.Error{Code: http.StatusBadGateway}, true},
		{"service unavailable", &googleapi.Error{Code: http.StatusServiceUnavailable}, true},
		{"gateway timeout", &googleapi.Error{Code: http.StatusGatewayTimeout}, true},
		{"bad request", &googleapi.Error{Code: http.StatusBadRequest}, false},
		{"unauthorized", &googleapi.Error{Code: http.StatusUnauthorized}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryableError(tt.err); got != tt.want {
				t.Errorf("isRetryableError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name    string
		a, b    []float32
		want    float64
		wantErr bool
	}{
		{"identical vectors", []float32{1, 2, 3}, []float32{1, 2, 3}, 1.0, false},
		{"orthogonal vectors", []float32{1, 0}, []float32{0, 1}, 0.0, false},
		{"opposite vectors", []float32{1, 0}, []float32{-1, 0}, -1.0, false},
		{"dimension mismatch", []float32{1, 2}, []float32{1, 2, 3}, 0, true},
		{"zero vector", []float32{0, 0}, []float32{1, 2}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cosine(tt.a, tt.b)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("cosine() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildFeedbackPrompt(t *testing.T) {
	in := FeedbackInput{
		ResumeSummary:         "Skills: Python, SQL",
		JobSummary:            "Data Engineer requiring Python, Spark",
		MissingSkills:         []string{"Spark"},
		MissingQualifications: []string{"Bachelor's in CS"},
		FinalScore:            62.5,
	}

	prompt := buildFeedbackPrompt(in)
	for _, want := range []string{
		"Skills: Python, SQL",
		"Data Engineer requiring Python, Spark",
		"62.5/100",
		"Missing must-have skills: Spark",
		"Missing qualifications: Bachelor's in CS",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	// Missing-item sections are omitted when there is nothing to report.
	clean := buildFeedbackPrompt(FeedbackInput{ResumeSummary: "r", JobSummary: "j", FinalScore: 90})
	if strings.Contains(clean, "Missing must-have skills") || strings.Contains(clean, "Missing qualifications") {
		t.Error("prompt should omit empty missing-item sections")
	}
}
