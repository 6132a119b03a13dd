package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/sentistack/sentiment-engine/internal/classifier"
	"github.com/sentistack/sentiment-engine/internal/enhancer"
	"github.com/sentistack/sentiment-engine/internal/models"
	"github.com/sentistack/sentiment-engine/internal/services"
	"github.com/sentistack/sentiment-engine/internal/stats"
)

type fakeClassifier struct {
	loaded     bool
	sentiment  string
	confidence float64
}

func (f *fakeClassifier) Loaded() bool { return f.loaded }

func (f *fakeClassifier) Predict(_ context.Context, _ string, withProbabilities bool) (classifier.Prediction, error) {
	p := classifier.Prediction{Sentiment: f.sentiment, Confidence: f.confidence}
	if withProbabilities {
		p.Probabilities = map[string]float64{f.sentiment: f.confidence}
	}
	return p, nil
}

func (f *fakeClassifier) Info() map[string]string {
	return map[string]string{"model_name": "fake"}
}

func newTestRouter(cls services.Classifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := services.NewPredictionService(nil, nil, cls, enhancer.New(nil, nil, nil, enhancer.Options{}), stats.NewCollector())
	router := gin.New()
	router.Use(RequestID())
	NewHandler(svc, nil).Register(router)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRootEndpoint(t *testing.T) {
	router := newTestRouter(&fakeClassifier{loaded: true, sentiment: models.SentimentPositive})
	rec := doJSON(t, router, http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["service"] != "sentiment-engine" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(&fakeClassifier{loaded: true, sentiment: models.SentimentPositive})
	rec := doJSON(t, router, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var health models.HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if health.Status != "healthy" || !health.ModelLoaded {
		t.Fatalf("unexpected health: %+v", health)
	}
}

func TestHealthEndpointModelDown(t *testing.T) {
	router := newTestRouter(&fakeClassifier{loaded: false})
	rec := doJSON(t, router, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestPredictEndpoint(t *testing.T) {
	router := newTestRouter(&fakeClassifier{loaded: true, sentiment: models.SentimentPositive, confidence: 0.95})
	rec := doJSON(t, router, http.MethodPost, "/api/v1/predict", map[string]any{
		"text": "I love this product",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp models.PredictionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.Sentiment != models.SentimentPositive || resp.Confidence != 0.95 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.RequestID == "" {
		t.Fatalf("expected generated request id")
	}
}

func TestPredictEndpointValidation(t *testing.T) {
	router := newTestRouter(&fakeClassifier{loaded: true, sentiment: models.SentimentPositive})

	rec := doJSON(t, router, http.MethodPost, "/api/v1/predict", map[string]any{"text": "   "})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank text, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/predict", bytes.NewBufferString("{not json"))
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", rec2.Code)
	}
}

func TestPredictEndpointModelNotLoaded(t *testing.T) {
	router := newTestRouter(&fakeClassifier{loaded: false})
	rec := doJSON(t, router, http.MethodPost, "/api/v1/predict", map[string]any{"text": "hello"})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestPredictEndpointEnhancedFallback(t *testing.T) {
	// No LLM provider configured: the enhancement must still succeed
	// through the deterministic path.
	router := newTestRouter(&fakeClassifier{loaded: true, sentiment: models.SentimentNegative, confidence: 0.9})
	rec := doJSON(t, router, http.MethodPost, "/api/v1/predict", map[string]any{
		"text":     "This is terrible, the worst purchase ever",
		"enhanced": true,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp models.PredictionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.EnhancedAnalysis == nil || resp.EnhancedAnalysis.Explanation == "" {
		t.Fatalf("expected fallback explanation, got %+v", resp.EnhancedAnalysis)
	}
	if resp.LanguageInfo == nil || resp.LanguageInfo.Language != "en" {
		t.Fatalf("expected heuristic language info, got %+v", resp.LanguageInfo)
	}
}

func TestBatchPredictEndpoint(t *testing.T) {
	router := newTestRouter(&fakeClassifier{loaded: true, sentiment: models.SentimentPositive, confidence: 0.8})
	rec := doJSON(t, router, http.MethodPost, "/api/v1/predict/batch", map[string]any{
		"texts": []string{"good", "great"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp models.BatchPredictionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(resp.Predictions) != 2 {
		t.Fatalf("expected 2 predictions, got %d", len(resp.Predictions))
	}
}

func TestBatchPredictEndpointValidation(t *testing.T) {
	router := newTestRouter(&fakeClassifier{loaded: true, sentiment: models.SentimentPositive})
	rec := doJSON(t, router, http.MethodPost, "/api/v1/predict/batch", map[string]any{
		"texts": []string{},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestMetricsEndpointAndReset(t *testing.T) {
	router := newTestRouter(&fakeClassifier{loaded: true, sentiment: models.SentimentPositive, confidence: 0.9})

	if rec := doJSON(t, router, http.MethodPost, "/api/v1/predict", map[string]any{"text": "nice"}); rec.Code != http.StatusOK {
		t.Fatalf("seed predict failed: %d", rec.Code)
	}

	rec := doJSON(t, router, http.MethodGet, "/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var m models.MetricsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if m.TotalRequests != 1 || m.ModelInfo["model_name"] != "fake" {
		t.Fatalf("unexpected metrics: %+v", m)
	}

	if rec := doJSON(t, router, http.MethodPost, "/api/v1/metrics/reset", nil); rec.Code != http.StatusOK {
		t.Fatalf("reset failed: %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/metrics", nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if m.TotalRequests != 0 {
		t.Fatalf("expected counters reset, got %+v", m)
	}
}

func TestRequestIDHeaderEchoed(t *testing.T) {
	router := newTestRouter(&fakeClassifier{loaded: true, sentiment: models.SentimentPositive})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "client-supplied")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "client-supplied" {
		t.Fatalf("expected echoed request id, got %q", got)
	}
}
