package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"resumatch/internal/config"
	"resumatch/internal/engine"
	"resumatch/internal/errors"
	"resumatch/internal/observability"
	"resumatch/internal/types"
)

func testServer(t *testing.T, cfg ServerConfig) *Server {
	t.Helper()

	logger, err := errors.New("error")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	om, err := observability.NewManager(config.ObservabilityConfig{}, "test")
	if err != nil {
		t.Fatalf("failed to create observability manager: %v", err)
	}

	engineCfg := config.EngineConfig{
		Weights: config.WeightsConfig{Lexical: 0.4, Similarity: 0.4, Compatibility: 0.2},
		Lexical: config.LexicalConfig{MustHave: 0.7, GoodToHave: 0.3},
	}
	pipeline := engine.New(engineCfg, logger)

	return NewServer(cfg, pipeline, om, logger)
}

func evaluateBody(t *testing.T) *bytes.Buffer {
	t.Helper()
	req := EvaluateRequest{
		Resume: types.ResumeRecord{
			Skills:   []string{"Python", "SQL"},
			FullText: "Data engineer with Python and SQL experience",
		},
		Job: types.JobRecord{
			Title:          "Data Engineer",
			Description:    "Python and SQL pipelines",
			MustHaveSkills: []string{"Python", "SQL"},
		},
	}
	body, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}
	return bytes.NewBuffer(body)
}

func TestEvaluateHandler(t *testing.T) {
	s := testServer(t, ServerConfig{Version: "test"})

	r := httptest.NewRequest(http.MethodPost, "/evaluate", evaluateBody(t))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	s.evaluateHandler(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var result types.EvaluationResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if result.FinalScore < 0 || result.FinalScore > 100 {
		t.Errorf("finalScore = %v, want value in [0,100]", result.FinalScore)
	}
	if result.Verdict == "" {
		t.Error("verdict should be populated")
	}
}

func TestEvaluateHandlerRejectsBadRequests(t *testing.T) {
	s := testServer(t, ServerConfig{Version: "test"})

	t.Run("wrong method", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/evaluate", nil)
		w := httptest.NewRecorder()
		s.evaluateHandler(w, r)
		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("status = %d, want %d", w.Code, http.StatusMethodNotAllowed)
		}
	})

	t.Run("missing content type", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/evaluate", evaluateBody(t))
		w := httptest.NewRecorder()
		s.evaluateHandler(w, r)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/evaluate", bytes.NewBufferString("{not json"))
		r.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		s.evaluateHandler(w, r)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})
}

func TestEvaluateHandlerEmptyRecords(t *testing.T) {
	s := testServer(t, ServerConfig{Version: "test"})

	body, _ := json.Marshal(EvaluateRequest{})
	r := httptest.NewRequest(http.MethodPost, "/evaluate", bytes.NewBuffer(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	s.evaluateHandler(w, r)

	// Empty but well-shaped records degrade: the evaluation completes with
	// the lowest-confidence scores instead of erroring out.
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var result types.EvaluationResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if result.Verdict != types.VerdictLow {
		t.Errorf("verdict = %q, want %q", result.Verdict, types.VerdictLow)
	}
}

func TestAuthMiddleware(t *testing.T) {
	s := testServer(t, ServerConfig{Version: "test", APIKeys: []string{"secret-key-12345"}})

	handler := s.authMiddleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		header     string
		value      string
		wantStatus int
	}{
		{"missing key", "", "", http.StatusUnauthorized},
		{"invalid key", "X-API-Key", "wrong", http.StatusUnauthorized},
		{"valid key", "X-API-Key", "secret-key-12345", http.StatusOK},
		{"valid bearer token", "Authorization", "Bearer secret-key-12345", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/evaluate", nil)
			if tt.header != "" {
				r.Header.Set(tt.header, tt.value)
			}
			w := httptest.NewRecorder()
			handler(w, r)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestHealthHandler(t *testing.T) {
	s := testServer(t, ServerConfig{Version: "1.2.3"})

	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.healthHandler(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var response map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if response["status"] != "healthy" {
		t.Errorf("status = %v, want healthy", response["status"])
	}
	if response["version"] != "1.2.3" {
		t.Errorf("version = %v, want 1.2.3", response["version"])
	}
}

func TestRateLimiter(t *testing.T) {
	m := NewRateLimiter(60, 2, nil)
	defer m.Close()

	// Burst capacity allows the first two requests; the third is rejected
	// because tokens refill at one per second.
	if !m.Allow("ip:10.0.0.1") {
		t.Error("first request should be allowed")
	}
	if !m.Allow("ip:10.0.0.1") {
		t.Error("second request should be allowed")
	}
	if m.Allow("ip:10.0.0.1") {
		t.Error("third request should be rejected")
	}

	// Independent keys get independent buckets.
	if !m.Allow("ip:10.0.0.2") {
		t.Error("different key should have its own bucket")
	}

	stats := m.GetStats()
	if stats["active_limiters"].(int) != 2 {
		t.Errorf("active_limiters = %v, want 2", stats["active_limiters"])
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "remote addr only",
			remoteAddr: "192.168.1.10:54321",
			want:       "192.168.1.10",
		},
		{
			name:       "x-forwarded-for",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"},
			want:       "203.0.113.7",
		},
		{
			name:       "x-real-ip",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Real-IP": "198.51.100.23"},
			want:       "198.51.100.23",
		},
		{
			name:       "invalid forwarded header falls back",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Forwarded-For": "not-an-ip"},
			want:       "10.0.0.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := getClientIP(r); got != tt.want {
				t.Errorf("getClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSwapPipeline(t *testing.T) {
	s := testServer(t, ServerConfig{Version: "test"})
	old := s.Pipeline()

	logger, err := errors.New("error")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	replacement := engine.New(config.EngineConfig{
		Weights: config.WeightsConfig{Lexical: 0.5, Similarity: 0.3, Compatibility: 0.2},
		Lexical: config.LexicalConfig{MustHave: 0.7, GoodToHave: 0.3},
	}, logger)

	s.SwapPipeline(replacement)
	if s.Pipeline() == old {
		t.Error("pipeline should have been replaced")
	}

	// A nil swap keeps the current pipeline.
	s.SwapPipeline(nil)
	if s.Pipeline() != replacement {
		t.Error("nil swap should keep the current pipeline")
	}
}
