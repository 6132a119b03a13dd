package models

// Sentiment labels produced by the classifier.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
)

// Input limits enforced before any processing happens.
const (
	MaxTextLength = 5000
	MaxBatchSize  = 100
)

// PredictRequest is the payload for single-text predictions.
type PredictRequest struct {
	Text                string `json:"text"`
	ReturnProbabilities bool   `json:"return_probabilities"`
	RequestID           string `json:"request_id,omitempty"`
	Enhanced            bool   `json:"enhanced"`
	LLMProvider         string `json:"llm_provider,omitempty"`
}

// BatchPredictRequest is the payload for batch predictions.
type BatchPredictRequest struct {
	Texts               []string `json:"texts"`
	ReturnProbabilities bool     `json:"return_probabilities"`
	RequestID           string   `json:"request_id,omitempty"`
	Enhanced            bool     `json:"enhanced"`
	LLMProvider         string   `json:"llm_provider,omitempty"`
}

// PredictionResponse carries one classification result.
type PredictionResponse struct {
	Sentiment        string             `json:"sentiment"`
	Confidence       float64            `json:"confidence"`
	Probabilities    map[string]float64 `json:"probabilities,omitempty"`
	LatencyMs        float64            `json:"latency_ms"`
	RequestID        string             `json:"request_id,omitempty"`
	Timestamp        string             `json:"timestamp"`
	EnhancedAnalysis *Explanation       `json:"enhanced_analysis,omitempty"`
	LanguageInfo     *LanguageInfo      `json:"language_info,omitempty"`
}

// BatchPredictionResponse carries per-item results plus optional insights.
type BatchPredictionResponse struct {
	Predictions    []PredictionResponse `json:"predictions"`
	TotalLatencyMs float64              `json:"total_latency_ms"`
	RequestID      string               `json:"request_id,omitempty"`
	BatchInsights  *InsightsReport      `json:"batch_insights,omitempty"`
}

// HealthResponse reports service and model availability.
type HealthResponse struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
	Version     string `json:"version"`
	Timestamp   string `json:"timestamp"`
}

// MetricsSnapshot is an immutable view of the request counters and
// latency statistics. Derived fields are computed at read time and
// never stored.
type MetricsSnapshot struct {
	TotalRequests      int64   `json:"total_requests"`
	SuccessfulRequests int64   `json:"successful_requests"`
	FailedRequests     int64   `json:"failed_requests"`
	SuccessRate        float64 `json:"success_rate"`
	AverageLatencyMs   float64 `json:"average_latency_ms"`
	MinLatencyMs       float64 `json:"min_latency_ms"`
	MaxLatencyMs       float64 `json:"max_latency_ms"`
	UptimeSeconds      float64 `json:"uptime_seconds"`
}

// MetricsResponse bundles the snapshot with model metadata.
type MetricsResponse struct {
	MetricsSnapshot
	ModelInfo map[string]string `json:"model_info"`
}
