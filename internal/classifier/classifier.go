// Package classifier wraps the pretrained sentiment model behind a
// load/predict/unload lifecycle.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/sentistack/sentiment-engine/internal/models"
)

// ErrNotLoaded is returned when Predict is called before Load. This is
// fatal for the request and never retried internally.
var ErrNotLoaded = errors.New("model not loaded")

// Prediction is the classifier output mapped to the service vocabulary.
type Prediction struct {
	Sentiment     string
	Confidence    float64
	Probabilities map[string]float64
}

// Service manages the classifier backend lifecycle.
type Service struct {
	logger    *slog.Logger
	backend   Backend
	modelName string

	mu     sync.RWMutex
	loaded bool
}

// NewService wraps a backend. The model stays unusable until Load.
func NewService(logger *slog.Logger, backend Backend, modelName string) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if modelName == "" {
		modelName = "distilbert-base-uncased-finetuned-sst-2-english"
	}
	return &Service{
		logger:    logger,
		backend:   backend,
		modelName: modelName,
	}
}

// Load verifies the backend is reachable and marks the model usable.
func (s *Service) Load(ctx context.Context) error {
	if s.backend == nil {
		return errors.New("classifier backend not configured")
	}
	if !s.backend.Healthy(ctx) {
		return fmt.Errorf("model server health check failed for %s", s.modelName)
	}

	s.mu.Lock()
	s.loaded = true
	s.mu.Unlock()

	s.logger.Info("model loaded", slog.String("model", s.modelName))
	return nil
}

// Unload marks the model unusable again.
func (s *Service) Unload() {
	s.mu.Lock()
	s.loaded = false
	s.mu.Unlock()
}

// Loaded reports whether Predict may be called.
func (s *Service) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Predict scores a text. Confidence is rounded to 4 decimals; when
// withProbabilities is set the positive/negative class shares are
// derived from the backend score.
func (s *Service) Predict(ctx context.Context, text string, withProbabilities bool) (Prediction, error) {
	if !s.Loaded() {
		return Prediction{}, ErrNotLoaded
	}

	raw, err := s.backend.Predict(ctx, text)
	if err != nil {
		return Prediction{}, err
	}

	sentiment := models.SentimentNegative
	if raw.Label == "POSITIVE" {
		sentiment = models.SentimentPositive
	}

	prediction := Prediction{
		Sentiment:  sentiment,
		Confidence: round4(raw.Score),
	}
	if withProbabilities {
		positive := raw.Score
		if sentiment == models.SentimentNegative {
			positive = 1 - raw.Score
		}
		prediction.Probabilities = map[string]float64{
			models.SentimentPositive: round4(positive),
			models.SentimentNegative: round4(1 - positive),
		}
	}
	return prediction, nil
}

// Info describes the wrapped model for the metrics endpoint.
func (s *Service) Info() map[string]string {
	status := "not loaded"
	if s.Loaded() {
		status = "loaded"
	}
	return map[string]string{
		"model_name": s.modelName,
		"backend":    "model-server",
		"status":     status,
	}
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
