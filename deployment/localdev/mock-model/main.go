// Command mock-model is a stand-in model server for local development.
// It scores texts with a small word list so the engine can run without
// a real inference backend.
package main

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"
)

type predictRequest struct {
	Text string `json:"text"`
}

type predictResponse struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

var positiveWords = []string{"love", "great", "excellent", "amazing", "wonderful", "good", "fantastic", "happy"}
var negativeWords = []string{"terrible", "awful", "worst", "bad", "horrible", "disappointed", "poor", "hate"}

func score(text string) predictResponse {
	lowered := strings.ToLower(text)
	var pos, neg int
	for _, w := range positiveWords {
		if strings.Contains(lowered, w) {
			pos++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(lowered, w) {
			neg++
		}
	}

	label := "POSITIVE"
	hits := pos
	if neg > pos {
		label = "NEGATIVE"
		hits = neg
	}
	confidence := 0.55 + 0.1*float64(hits)
	if confidence > 0.99 {
		confidence = 0.99
	}
	return predictResponse{Label: label, Score: confidence}
}

func main() {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/predict", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var req predictRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		writeJSON(w, score(req.Text))
	})

	logger := log.New(log.Writer(), "mock-model ", log.LstdFlags|log.Lmicroseconds)
	srv := &http.Server{
		Addr:    ":9000",
		Handler: logRequests(logger, mux),
	}

	logger.Println("listening on :9000")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("server error: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("encode error: %v", err)
	}
}

func logRequests(logger *log.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		logger.Printf("%s %s %d %s", r.Method, r.URL.Path, rw.status, time.Since(start))
	})
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}
