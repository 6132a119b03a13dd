package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/sentistack/sentiment-engine/internal/classifier"
	"github.com/sentistack/sentiment-engine/internal/enhancer"
	"github.com/sentistack/sentiment-engine/internal/llm"
	"github.com/sentistack/sentiment-engine/internal/metrics"
	"github.com/sentistack/sentiment-engine/internal/models"
	"github.com/sentistack/sentiment-engine/internal/stats"
	"github.com/sentistack/sentiment-engine/internal/utils"
)

// Version reported by the health endpoint.
const Version = "1.0.0"

// ErrInvalidInput marks request validation failures, rejected before any
// processing and never recorded in the service counters.
var ErrInvalidInput = errors.New("invalid input")

const logTextLimit = 200

// Classifier is the inference collaborator behind the service.
type Classifier interface {
	Loaded() bool
	Predict(ctx context.Context, text string, withProbabilities bool) (classifier.Prediction, error)
	Info() map[string]string
}

// Enhancer is the optional LLM enrichment collaborator.
type Enhancer interface {
	Available(sel llm.Selection) bool
	ExplainSentiment(ctx context.Context, text, sentiment string, confidence float64, sel llm.Selection) models.Explanation
	BatchInsights(ctx context.Context, texts, sentiments []string, sel llm.Selection) models.InsightsReport
	DetectLanguage(ctx context.Context, text string, sel llm.Selection) models.LanguageInfo
}

// PredictionService composes the classifier, the enhancer and the
// request counters for the HTTP handlers.
type PredictionService struct {
	logger        *slog.Logger
	predictionLog *slog.Logger
	classifier    Classifier
	enhancer      Enhancer
	collector     *stats.Collector
}

// NewPredictionService constructs the service facade.
func NewPredictionService(logger, predictionLog *slog.Logger, cls Classifier, enh Enhancer, collector *stats.Collector) *PredictionService {
	if logger == nil {
		logger = slog.Default()
	}
	if predictionLog == nil {
		predictionLog = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if enh == nil {
		enh = enhancer.New(logger, nil, nil, enhancer.Options{})
	}
	if collector == nil {
		collector = stats.NewCollector()
	}
	return &PredictionService{
		logger:        logger,
		predictionLog: predictionLog,
		classifier:    cls,
		enhancer:      enh,
		collector:     collector,
	}
}

// Predict classifies a single text, optionally enriched with language
// detection and an LLM explanation.
func (s *PredictionService) Predict(ctx context.Context, req models.PredictRequest) (models.PredictionResponse, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return models.PredictionResponse{}, fmt.Errorf("%w: text cannot be empty or only whitespace", ErrInvalidInput)
	}
	if len(text) > models.MaxTextLength {
		return models.PredictionResponse{}, fmt.Errorf("%w: text exceeds %d characters", ErrInvalidInput, models.MaxTextLength)
	}
	sel, err := llm.ParseSelection(req.LLMProvider)
	if err != nil {
		return models.PredictionResponse{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if s.classifier == nil || !s.classifier.Loaded() {
		return models.PredictionResponse{}, classifier.ErrNotLoaded
	}

	s.logger.Debug("prediction request received",
		slog.String("request_id", orUnknown(req.RequestID)),
		slog.Bool("enhanced", req.Enhanced))

	start := time.Now()

	var languageInfo *models.LanguageInfo
	textToAnalyze := text
	if req.Enhanced {
		info := s.enhancer.DetectLanguage(ctx, text, sel)
		languageInfo = &info
		if info.TranslatedText != "" {
			textToAnalyze = info.TranslatedText
		}
	}

	prediction, err := s.classifier.Predict(ctx, textToAnalyze, req.ReturnProbabilities)
	if err != nil {
		latencyMs := utils.LatencyMs(time.Since(start))
		s.logPrediction(req.RequestID, text, "error", 0, latencyMs, false, err)
		s.collector.Record(latencyMs, false)
		metrics.ObservePrediction(time.Since(start), metrics.OutcomeError)
		s.logger.Error("prediction failed", slog.Any("error", err))
		return models.PredictionResponse{}, utils.NewAppError("predict", "inference failed", err)
	}

	// Latency reported to the client covers inference only; the
	// explanation call below is additive enrichment.
	latencyMs := utils.LatencyMs(time.Since(start))

	var enhanced *models.Explanation
	if req.Enhanced {
		explanation := s.enhancer.ExplainSentiment(ctx, text, prediction.Sentiment, prediction.Confidence, sel)
		enhanced = &explanation
	}

	s.logPrediction(req.RequestID, text, prediction.Sentiment, prediction.Confidence, latencyMs, true, nil)
	s.collector.Record(latencyMs, true)
	metrics.ObservePrediction(time.Since(start), metrics.OutcomeSuccess)
	s.maybeLogPercentile()

	return models.PredictionResponse{
		Sentiment:        prediction.Sentiment,
		Confidence:       prediction.Confidence,
		Probabilities:    prediction.Probabilities,
		LatencyMs:        latencyMs,
		RequestID:        req.RequestID,
		Timestamp:        utils.UTCTimestamp(),
		EnhancedAnalysis: enhanced,
		LanguageInfo:     languageInfo,
	}, nil
}

// PredictBatch classifies up to MaxBatchSize texts, optionally
// summarised with batch insights.
func (s *PredictionService) PredictBatch(ctx context.Context, req models.BatchPredictRequest) (models.BatchPredictionResponse, error) {
	if len(req.Texts) == 0 {
		return models.BatchPredictionResponse{}, fmt.Errorf("%w: at least one text is required", ErrInvalidInput)
	}
	if len(req.Texts) > models.MaxBatchSize {
		return models.BatchPredictionResponse{}, fmt.Errorf("%w: batch exceeds %d texts", ErrInvalidInput, models.MaxBatchSize)
	}

	texts := make([]string, 0, len(req.Texts))
	for _, text := range req.Texts {
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			if len(trimmed) > models.MaxTextLength {
				return models.BatchPredictionResponse{}, fmt.Errorf("%w: text exceeds %d characters", ErrInvalidInput, models.MaxTextLength)
			}
			texts = append(texts, trimmed)
		}
	}
	if len(texts) == 0 {
		return models.BatchPredictionResponse{}, fmt.Errorf("%w: at least one non-empty text is required", ErrInvalidInput)
	}
	sel, err := llm.ParseSelection(req.LLMProvider)
	if err != nil {
		return models.BatchPredictionResponse{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if s.classifier == nil || !s.classifier.Loaded() {
		return models.BatchPredictionResponse{}, classifier.ErrNotLoaded
	}

	s.logger.Debug("batch prediction request",
		slog.Int("texts", len(texts)), slog.Bool("enhanced", req.Enhanced))

	start := time.Now()
	idPrefix := req.RequestID
	if idPrefix == "" {
		idPrefix = "batch"
	}

	predictions := make([]models.PredictionResponse, 0, len(texts))
	sentiments := make([]string, 0, len(texts))
	for i, text := range texts {
		itemStart := time.Now()
		prediction, err := s.classifier.Predict(ctx, text, req.ReturnProbabilities)
		if err != nil {
			totalMs := utils.LatencyMs(time.Since(start))
			s.collector.Record(totalMs, false)
			metrics.ObservePrediction(time.Since(start), metrics.OutcomeError)
			s.logger.Error("batch prediction failed", slog.Int("index", i), slog.Any("error", err))
			return models.BatchPredictionResponse{}, utils.NewAppError("predict_batch", "inference failed", err)
		}

		predictions = append(predictions, models.PredictionResponse{
			Sentiment:     prediction.Sentiment,
			Confidence:    prediction.Confidence,
			Probabilities: prediction.Probabilities,
			LatencyMs:     utils.LatencyMs(time.Since(itemStart)),
			RequestID:     fmt.Sprintf("%s_%d", idPrefix, i),
			Timestamp:     utils.UTCTimestamp(),
		})
		sentiments = append(sentiments, prediction.Sentiment)
	}

	totalMs := utils.LatencyMs(time.Since(start))

	var insights *models.InsightsReport
	if req.Enhanced {
		report := s.enhancer.BatchInsights(ctx, texts, sentiments, sel)
		insights = &report
	}

	s.collector.Record(totalMs, true)
	metrics.ObservePrediction(time.Since(start), metrics.OutcomeSuccess)
	s.logger.Info("batch prediction completed",
		slog.Int("predictions", len(predictions)), slog.Float64("total_latency_ms", totalMs))

	return models.BatchPredictionResponse{
		Predictions:    predictions,
		TotalLatencyMs: totalMs,
		RequestID:      req.RequestID,
		BatchInsights:  insights,
	}, nil
}

// Health reports model availability.
func (s *PredictionService) Health() models.HealthResponse {
	loaded := s.classifier != nil && s.classifier.Loaded()
	status := "unhealthy"
	if loaded {
		status = "healthy"
	}
	return models.HealthResponse{
		Status:      status,
		ModelLoaded: loaded,
		Version:     Version,
		Timestamp:   utils.UTCTimestamp(),
	}
}

// Metrics returns the counters snapshot with model metadata. The model
// must be loaded, matching the service-unavailable contract of predict.
func (s *PredictionService) Metrics() (models.MetricsResponse, error) {
	if s.classifier == nil || !s.classifier.Loaded() {
		return models.MetricsResponse{}, classifier.ErrNotLoaded
	}
	return models.MetricsResponse{
		MetricsSnapshot: s.collector.Snapshot(),
		ModelInfo:       s.classifier.Info(),
	}, nil
}

// ResetMetrics zeroes the counters. Administrative use only.
func (s *PredictionService) ResetMetrics() {
	s.collector.Reset()
	s.logger.Info("service metrics reset")
}

func (s *PredictionService) logPrediction(requestID, text, prediction string, confidence, latencyMs float64, success bool, err error) {
	attrs := []any{
		slog.String("request_id", orUnknown(requestID)),
		slog.String("input_text", utils.TruncateForLog(text, logTextLimit)),
		slog.Int("input_length", len(text)),
		slog.String("prediction", prediction),
		slog.Float64("confidence", confidence),
		slog.Float64("latency_ms", latencyMs),
		slog.Bool("success", success),
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.predictionLog.Info("prediction", attrs...)
}

func (s *PredictionService) maybeLogPercentile() {
	if count := s.collector.SampleCount(); count >= 20 && count%20 == 0 {
		s.logger.Info("prediction latency",
			slog.Float64("p95_ms", s.collector.Percentile(95)),
			slog.Int("samples", count))
	}
}

func orUnknown(id string) string {
	if id == "" {
		return "unknown"
	}
	return id
}
