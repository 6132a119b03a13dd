package enhancer

import (
	"encoding/json"
	"strings"

	"github.com/sentistack/sentiment-engine/internal/models"
)

// Defaults substituted for fields the provider omitted.
const (
	defaultExplanation    = "No explanation provided"
	defaultTone           = "neutral"
	defaultContext        = "general"
	defaultEvidence       = "No specific evidence provided"
	defaultDominantFactor = "Not specified"
	defaultReasoning      = "No detailed reasoning provided"
)

// Sentinels used when the provider payload could not be parsed at all.
const (
	fallbackEvidence       = "Raw response returned"
	fallbackDominantFactor = "Unable to parse"
	fallbackReasoning      = "Unable to parse structured response"
)

// extractJSONSpan returns the substring between the first '{' and the
// last '}' of raw. Leading and trailing prose around the JSON body is
// dropped; with no braces present the raw text is returned unchanged so
// the subsequent unmarshal fails and triggers the fallback record.
func extractJSONSpan(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}

// rawExplanation mirrors the provider JSON loosely. Pointer fields
// distinguish "absent" from "present but empty", and numeric fields are
// decoded as float64 because providers do not reliably emit integers.
type rawExplanation struct {
	Explanation *string `json:"explanation"`
	KeyPhrases  []struct {
		Phrase    string  `json:"phrase"`
		Sentiment string  `json:"sentiment"`
		Score     float64 `json:"score"`
	} `json:"key_phrases_detailed"`
	OverallScore   map[string]float64 `json:"overall_score"`
	Tone           *string            `json:"tone"`
	Context        *string            `json:"context"`
	Evidence       *string            `json:"evidence"`
	DominantFactor *string            `json:"dominant_factor"`
	Reasoning      *string            `json:"reasoning"`
	Suggestions    []string           `json:"suggestions"`
}

// ParseExplanation normalizes a free-form provider response into the
// fixed Explanation shape. Missing fields take documented defaults;
// a payload that cannot be parsed at all yields a fallback record
// carrying the untouched raw text.
func ParseExplanation(raw string) models.Explanation {
	var parsed rawExplanation
	if err := json.Unmarshal([]byte(extractJSONSpan(raw)), &parsed); err != nil {
		return models.Explanation{
			Explanation:    raw,
			KeyPhrases:     []models.KeyPhrase{},
			OverallScore:   models.SentimentBreakdown{},
			Tone:           defaultTone,
			Context:        defaultContext,
			Evidence:       fallbackEvidence,
			DominantFactor: fallbackDominantFactor,
			Reasoning:      fallbackReasoning,
			Suggestions:    []string{},
		}
	}

	result := models.Explanation{
		Explanation:    stringOr(parsed.Explanation, defaultExplanation),
		KeyPhrases:     []models.KeyPhrase{},
		Tone:           stringOr(parsed.Tone, defaultTone),
		Context:        stringOr(parsed.Context, defaultContext),
		Evidence:       stringOr(parsed.Evidence, defaultEvidence),
		DominantFactor: stringOr(parsed.DominantFactor, defaultDominantFactor),
		Reasoning:      stringOr(parsed.Reasoning, defaultReasoning),
		Suggestions:    []string{},
	}
	for _, kp := range parsed.KeyPhrases {
		result.KeyPhrases = append(result.KeyPhrases, models.KeyPhrase{
			Phrase:    kp.Phrase,
			Sentiment: kp.Sentiment,
			Score:     int(kp.Score),
		})
	}
	if parsed.OverallScore != nil {
		result.OverallScore = models.SentimentBreakdown{
			Positive: parsed.OverallScore["positive"],
			Negative: parsed.OverallScore["negative"],
			Neutral:  parsed.OverallScore["neutral"],
		}
	}
	if parsed.Suggestions != nil {
		result.Suggestions = parsed.Suggestions
	}
	return result
}

// ParseInsights applies the same span extraction to the simpler batch
// insights schema. A malformed payload degrades to a report carrying the
// raw text as its summary.
func ParseInsights(raw string) models.InsightsReport {
	var parsed struct {
		Summary        *string            `json:"summary"`
		Trends         map[string]float64 `json:"trends"`
		Patterns       []string           `json:"patterns"`
		Recommendation string             `json:"recommendation"`
	}
	if err := json.Unmarshal([]byte(extractJSONSpan(raw)), &parsed); err != nil {
		return models.InsightsReport{
			Summary:  raw,
			Trends:   map[string]float64{},
			Patterns: []string{},
		}
	}

	report := models.InsightsReport{
		Summary:        stringOr(parsed.Summary, ""),
		Trends:         map[string]float64{},
		Patterns:       []string{},
		Recommendation: parsed.Recommendation,
	}
	if parsed.Trends != nil {
		report.Trends = parsed.Trends
	}
	if parsed.Patterns != nil {
		report.Patterns = parsed.Patterns
	}
	return report
}

// ParseLanguage decodes a language detection payload. Unlike the other
// normalizers this is strict: the whole payload must be valid JSON, and
// any error is surfaced so the caller falls back to the heuristic path.
func ParseLanguage(raw string) (models.LanguageInfo, error) {
	var info models.LanguageInfo
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		return models.LanguageInfo{}, err
	}
	return info, nil
}

func stringOr(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}
