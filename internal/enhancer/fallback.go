package enhancer

import (
	"fmt"
	"math"
	"strings"

	"github.com/sentistack/sentiment-engine/internal/models"
)

// Fixed vocabularies for the local explanation path. Membership tests
// against the lowercased input keep the output deterministic.
var (
	positiveVocabulary = []string{"amazing", "love it", "excellent", "great", "wonderful", "fantastic"}
	negativeVocabulary = []string{"terrible", "worst", "awful", "disappointed", "waste", "horrible", "poor"}

	positiveFillers = []string{"positive language", "enthusiastic tone"}
	negativeFillers = []string{"negative language", "critical tone"}

	negativeSuggestions = []string{
		"Consider addressing the specific pain points mentioned",
		"Implement quality control measures to prevent similar issues",
		"Improve customer support response time",
		"Offer solutions or compensation for negative experiences",
	}
)

const (
	maxFallbackPhrases = 5
	matchedPhraseScore = 90
	fillerPhraseScore  = 60
)

// FallbackExplanation derives an explanation without any network call.
// Identical inputs always yield identical output.
func FallbackExplanation(text, sentiment string, confidence float64) models.Explanation {
	lower := strings.ToLower(text)

	vocabulary := negativeVocabulary
	fillers := negativeFillers
	if sentiment == models.SentimentPositive {
		vocabulary = positiveVocabulary
		fillers = positiveFillers
	}

	var matched []string
	for _, phrase := range vocabulary {
		if strings.Contains(lower, phrase) {
			matched = append(matched, phrase)
			if len(matched) == maxFallbackPhrases {
				break
			}
		}
	}

	phrases := make([]models.KeyPhrase, 0, maxFallbackPhrases)
	score := matchedPhraseScore
	source := matched
	if len(source) == 0 {
		source = fillers
		score = fillerPhraseScore
	}
	for _, phrase := range source {
		phrases = append(phrases, models.KeyPhrase{
			Phrase:    phrase,
			Sentiment: sentiment,
			Score:     score,
		})
	}

	pct := confidence * 100
	breakdown := models.SentimentBreakdown{Positive: round1(pct), Negative: round1(100 - pct)}
	if sentiment == models.SentimentNegative {
		breakdown = models.SentimentBreakdown{Positive: round1(100 - pct), Negative: round1(pct)}
	}

	dominant := defaultDominantFactor
	evidence := "No vocabulary matches; polarity taken from the model prediction"
	if len(matched) > 0 {
		dominant = matched[0]
		evidence = "Matched phrases: " + strings.Join(matched, ", ")
	}

	if sentiment == models.SentimentPositive {
		return models.Explanation{
			Explanation: fmt.Sprintf(
				"The text expresses strong positive sentiment with %.1f%% confidence. Words like 'amazing', 'love', 'great', and 'excellent' indicate enthusiasm and satisfaction.", pct),
			KeyPhrases:     phrases,
			OverallScore:   breakdown,
			Tone:           "enthusiastic and satisfied",
			Context:        defaultContext,
			Evidence:       evidence,
			DominantFactor: dominant,
			Reasoning:      "The text uses superlative language and emotional expressions that clearly indicate a positive experience.",
			Suggestions:    []string{},
		}
	}

	return models.Explanation{
		Explanation: fmt.Sprintf(
			"The text expresses strong negative sentiment with %.1f%% confidence. Words like 'terrible', 'worst', 'awful', and 'disappointed' indicate dissatisfaction and frustration.", pct),
		KeyPhrases:     phrases,
		OverallScore:   breakdown,
		Tone:           "frustrated and critical",
		Context:        defaultContext,
		Evidence:       evidence,
		DominantFactor: dominant,
		Reasoning:      "The text contains strong negative indicators and critical language suggesting a deeply negative experience.",
		Suggestions:    negativeSuggestions[:3],
	}
}

// FallbackInsights aggregates polarity percentages across the batch and
// frames the summary by fixed thresholds.
func FallbackInsights(texts, sentiments []string) models.InsightsReport {
	total := len(sentiments)
	positive := 0
	negative := 0
	for _, s := range sentiments {
		switch s {
		case models.SentimentPositive:
			positive++
		case models.SentimentNegative:
			negative++
		}
	}

	var positivePct, negativePct float64
	if total > 0 {
		positivePct = round1(float64(positive) / float64(total) * 100)
		negativePct = round1(float64(negative) / float64(total) * 100)
	}

	var summary string
	switch {
	case positivePct > 70:
		summary = fmt.Sprintf("Overwhelmingly positive sentiment detected across %d texts (%.1f%% positive). The majority of feedback indicates satisfaction.", total, positivePct)
	case negativePct > 70:
		summary = fmt.Sprintf("Predominantly negative sentiment detected across %d texts (%.1f%% negative). Critical feedback requires attention.", total, negativePct)
	case positivePct > negativePct:
		summary = fmt.Sprintf("Generally positive sentiment with mixed feedback across %d texts (%.1f%% positive, %.1f%% negative).", total, positivePct, negativePct)
	case negativePct > positivePct:
		summary = fmt.Sprintf("Leaning negative with mixed sentiment across %d texts (%.1f%% negative, %.1f%% positive).", total, negativePct, positivePct)
	default:
		summary = fmt.Sprintf("Evenly split sentiment across %d texts (%.1f%% positive, %.1f%% negative).", total, positivePct, negativePct)
	}

	patterns := []string{}
	if positive > 0 {
		patterns = append(patterns, fmt.Sprintf("Customer satisfaction themes in %d reviews", positive))
	}
	if negative > 0 {
		patterns = append(patterns, fmt.Sprintf("Service/product concerns in %d reviews", negative))
	}
	if total >= 5 {
		patterns = append(patterns, "Diverse feedback across multiple touchpoints")
	}

	recommendation := "Continue current practices to maintain positive sentiment"
	if negative > 0 {
		recommendation = "Focus on addressing negative feedback while maintaining positive experiences"
	}

	return models.InsightsReport{
		Summary:        summary,
		Trends:         map[string]float64{"positive": positivePct, "negative": negativePct},
		Patterns:       patterns,
		Recommendation: recommendation,
	}
}

// scriptRange bounds a contiguous Unicode block characteristic of a
// non-Latin script. Checks run in declaration order, first match wins.
type scriptRange struct {
	lo, hi   rune
	language string
}

var scriptRanges = []scriptRange{
	{0x4E00, 0x9FFF, "zh"},
	{0x0600, 0x06FF, "ar"},
	{0x0400, 0x04FF, "ru"},
}

// FallbackLanguage classifies by presence of non-Latin script ranges.
// Translation is not attempted locally, so the input passes through.
func FallbackLanguage(text string) models.LanguageInfo {
	for _, sr := range scriptRanges {
		for _, r := range text {
			if r >= sr.lo && r <= sr.hi {
				return models.LanguageInfo{
					Language:       sr.language,
					IsEnglish:      false,
					TranslatedText: text,
				}
			}
		}
	}
	return models.LanguageInfo{
		Language:       "en",
		IsEnglish:      true,
		TranslatedText: text,
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
