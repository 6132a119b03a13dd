// Package enhancer enriches classifier output with natural-language
// analysis from a hosted LLM provider, degrading to a deterministic
// local path whenever no provider is usable.
package enhancer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/sentistack/sentiment-engine/internal/cache"
	"github.com/sentistack/sentiment-engine/internal/llm"
	"github.com/sentistack/sentiment-engine/internal/metrics"
	"github.com/sentistack/sentiment-engine/internal/models"
)

const defaultCallTimeout = 30 * time.Second

// Options tunes the enhancer beyond its provider wiring.
type Options struct {
	// CallTimeout bounds each provider invocation. Expiry degrades to
	// the local path like any other provider failure.
	CallTimeout time.Duration
	// Cache stores provider results keyed by call inputs. Nil disables
	// caching entirely.
	Cache    cache.Provider
	CacheTTL time.Duration
}

// Enhancer routes enhancement calls to the configured providers.
type Enhancer struct {
	logger      *slog.Logger
	groq        llm.Provider
	gemini      llm.Provider
	callTimeout time.Duration
	cache       cache.Provider
	cacheTTL    time.Duration
}

// New constructs an Enhancer. Either provider may be nil when its
// credentials were not configured at startup.
func New(logger *slog.Logger, groq, gemini llm.Provider, opts Options) *Enhancer {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := opts.CallTimeout
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}
	c := opts.Cache
	if c == nil {
		c = cache.NoopProvider{}
	}
	return &Enhancer{
		logger:      logger,
		groq:        groq,
		gemini:      gemini,
		callTimeout: timeout,
		cache:       c,
		cacheTTL:    opts.CacheTTL,
	}
}

// Available reports whether the requested provider selection can be
// served by a configured client.
func (e *Enhancer) Available(sel llm.Selection) bool {
	switch sel {
	case llm.SelectionGroq:
		return e.groq != nil
	case llm.SelectionGemini:
		return e.gemini != nil
	default:
		return e.groq != nil || e.gemini != nil
	}
}

// pick resolves the provider for a call. Automatic selection prefers
// Groq; a logical call never mixes providers.
func (e *Enhancer) pick(sel llm.Selection) (llm.Provider, string) {
	switch sel {
	case llm.SelectionGroq:
		return e.groq, "groq"
	case llm.SelectionGemini:
		return e.gemini, "gemini"
	default:
		if e.groq != nil {
			return e.groq, "groq"
		}
		if e.gemini != nil {
			return e.gemini, "gemini"
		}
		return nil, ""
	}
}

// ExplainSentiment generates a detailed explanation for a prediction.
// Provider failures never propagate: the call degrades exactly once to
// the deterministic local substitute.
func (e *Enhancer) ExplainSentiment(ctx context.Context, text, sentiment string, confidence float64, sel llm.Selection) models.Explanation {
	provider, name := e.pick(sel)
	if provider == nil {
		metrics.ObserveEnhancementFallback()
		return FallbackExplanation(text, sentiment, confidence)
	}

	key := cacheKey("explain", name, text, sentiment, strconv.FormatFloat(confidence, 'f', 4, 64))
	var cached models.Explanation
	if e.cacheGet(ctx, key, &cached) {
		return cached
	}

	raw, err := e.complete(ctx, provider, explanationPrompt(text, sentiment, confidence))
	if err != nil {
		e.logger.Warn("explanation provider failed, using local fallback",
			slog.String("provider", name), slog.Any("error", err))
		metrics.ObserveEnhancementFallback()
		return FallbackExplanation(text, sentiment, confidence)
	}

	result := ParseExplanation(raw)
	e.cacheSet(ctx, key, result)
	return result
}

// BatchInsights summarises sentiment trends across a batch of texts.
func (e *Enhancer) BatchInsights(ctx context.Context, texts, sentiments []string, sel llm.Selection) models.InsightsReport {
	provider, name := e.pick(sel)
	if provider == nil {
		metrics.ObserveEnhancementFallback()
		return FallbackInsights(texts, sentiments)
	}

	key := cacheKey("insights", name, strings.Join(texts, "\x1f"), strings.Join(sentiments, "\x1f"))
	var cached models.InsightsReport
	if e.cacheGet(ctx, key, &cached) {
		return cached
	}

	raw, err := e.complete(ctx, provider, insightsPrompt(texts, sentiments))
	if err != nil {
		e.logger.Warn("insights provider failed, using local fallback",
			slog.String("provider", name), slog.Any("error", err))
		metrics.ObserveEnhancementFallback()
		return FallbackInsights(texts, sentiments)
	}

	report := ParseInsights(raw)
	e.cacheSet(ctx, key, report)
	return report
}

// DetectLanguage identifies the input language and an English rendering.
// The provider payload is parsed strictly; malformed output is treated
// as a hard failure and the heuristic fallback answers instead.
func (e *Enhancer) DetectLanguage(ctx context.Context, text string, sel llm.Selection) models.LanguageInfo {
	provider, name := e.pick(sel)
	if provider == nil {
		metrics.ObserveEnhancementFallback()
		return FallbackLanguage(text)
	}

	key := cacheKey("language", name, text)
	var cached models.LanguageInfo
	if e.cacheGet(ctx, key, &cached) {
		return cached
	}

	raw, err := e.complete(ctx, provider, languagePrompt(text))
	if err == nil {
		info, parseErr := ParseLanguage(raw)
		if parseErr == nil {
			e.cacheSet(ctx, key, info)
			return info
		}
		err = parseErr
	}

	e.logger.Warn("language detection failed, using heuristic fallback",
		slog.String("provider", name), slog.Any("error", err))
	metrics.ObserveEnhancementFallback()
	return FallbackLanguage(text)
}

func (e *Enhancer) complete(ctx context.Context, provider llm.Provider, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
	defer cancel()
	return provider.Complete(callCtx, prompt)
}

func (e *Enhancer) cacheGet(ctx context.Context, key string, out any) bool {
	data, err := e.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			e.logger.Debug("enhancement cache read failed", slog.Any("error", err))
		}
		return false
	}
	if json.Unmarshal(data, out) != nil {
		// Drop the corrupt entry so the next call repopulates it.
		if err := e.cache.Del(ctx, key); err != nil {
			e.logger.Debug("enhancement cache delete failed", slog.Any("error", err))
		}
		return false
	}
	return true
}

func (e *Enhancer) cacheSet(ctx context.Context, key string, v any) {
	if e.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	// SetNX keeps the first result when concurrent calls race on one key.
	if _, err := e.cache.SetNX(ctx, key, data, e.cacheTTL); err != nil {
		e.logger.Debug("enhancement cache write failed", slog.Any("error", err))
	}
}

func cacheKey(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return "enhance:" + hex.EncodeToString(h.Sum(nil))
}
