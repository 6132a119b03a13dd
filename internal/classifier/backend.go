package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

// RawPrediction is the classifier backend output: an uppercase label and
// a score in [0,1].
type RawPrediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Backend is the opaque pretrained classifier collaborator.
type Backend interface {
	// Predict scores a single text. Implementations may block on IO.
	Predict(ctx context.Context, text string) (RawPrediction, error)
	// Healthy reports whether the backend is reachable.
	Healthy(ctx context.Context) bool
}

// HTTPBackend talks to a model server exposing the prediction API.
type HTTPBackend struct {
	baseURL     string
	predictPath string
	healthPath  string
	httpClient  *http.Client
}

// NewHTTPBackend constructs a client targeting the configured model server.
func NewHTTPBackend(baseURL, predictPath, healthPath string, timeout time.Duration) *HTTPBackend {
	if predictPath == "" {
		predictPath = "/predict"
	}
	if healthPath == "" {
		healthPath = "/healthz"
	}
	return &HTTPBackend{
		baseURL:     strings.TrimRight(baseURL, "/"),
		predictPath: predictPath,
		healthPath:  healthPath,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Predict posts the text to the model server and decodes the scored label.
func (b *HTTPBackend) Predict(ctx context.Context, text string) (RawPrediction, error) {
	if b == nil || b.baseURL == "" {
		return RawPrediction{}, fmt.Errorf("model server base URL not configured")
	}

	var prediction RawPrediction
	payload := map[string]string{"text": text}
	if err := b.postJSON(ctx, b.resolvePath(b.predictPath), payload, &prediction); err != nil {
		return RawPrediction{}, fmt.Errorf("model server predict failed: %w", err)
	}
	if prediction.Label == "" {
		return RawPrediction{}, fmt.Errorf("model server returned no label")
	}
	return prediction, nil
}

// Healthy probes the model server health endpoint.
func (b *HTTPBackend) Healthy(ctx context.Context) bool {
	if b == nil || b.baseURL == "" {
		return false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.resolvePath(b.healthPath), nil)
	if err != nil {
		return false
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (b *HTTPBackend) resolvePath(p string) string {
	cleaned := "/" + strings.TrimLeft(p, "/")
	u, err := url.Parse(b.baseURL)
	if err != nil {
		return b.baseURL + cleaned
	}
	u.Path = path.Join(u.Path, cleaned)
	return u.String()
}

func (b *HTTPBackend) postJSON(ctx context.Context, endpoint string, payload any, out any) error {
	if endpoint == "" {
		return fmt.Errorf("empty endpoint")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("model server returned %s", resp.Status)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
