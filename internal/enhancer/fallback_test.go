package enhancer

import (
	"reflect"
	"strings"
	"testing"

	"github.com/sentistack/sentiment-engine/internal/models"
)

func TestFallbackExplanationDeterministic(t *testing.T) {
	a := FallbackExplanation("This is amazing, I love it!", models.SentimentPositive, 0.97)
	b := FallbackExplanation("This is amazing, I love it!", models.SentimentPositive, 0.97)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("identical inputs must yield identical output:\n%+v\n%+v", a, b)
	}
}

func TestFallbackExplanationPositiveMatches(t *testing.T) {
	result := FallbackExplanation("Amazing product, I love it. Excellent!", models.SentimentPositive, 0.95)

	if !strings.Contains(result.Explanation, "95.0% confidence") {
		t.Fatalf("expected confidence in explanation, got %q", result.Explanation)
	}
	if len(result.KeyPhrases) != 3 {
		t.Fatalf("expected 3 matched phrases, got %+v", result.KeyPhrases)
	}
	for _, kp := range result.KeyPhrases {
		if kp.Score != 90 || kp.Sentiment != models.SentimentPositive {
			t.Fatalf("matched phrases carry score 90, got %+v", kp)
		}
	}
	if result.DominantFactor != "amazing" {
		t.Fatalf("dominant factor must be the first match, got %q", result.DominantFactor)
	}
	if !strings.HasPrefix(result.Evidence, "Matched phrases: ") {
		t.Fatalf("unexpected evidence: %q", result.Evidence)
	}
	if result.OverallScore.Positive != 95 || result.OverallScore.Negative != 5 {
		t.Fatalf("unexpected breakdown: %+v", result.OverallScore)
	}
	if len(result.Suggestions) != 0 {
		t.Fatalf("positive fallback carries no suggestions, got %v", result.Suggestions)
	}
}

func TestFallbackExplanationNoMatchesUsesFillers(t *testing.T) {
	result := FallbackExplanation("meh, okay I guess", models.SentimentNegative, 0.6)

	if len(result.KeyPhrases) != len(negativeFillers) {
		t.Fatalf("expected filler phrases, got %+v", result.KeyPhrases)
	}
	for _, kp := range result.KeyPhrases {
		if kp.Score != 60 {
			t.Fatalf("filler phrases carry score 60, got %+v", kp)
		}
	}
	if result.DominantFactor != defaultDominantFactor {
		t.Fatalf("expected %q, got %q", defaultDominantFactor, result.DominantFactor)
	}
}

func TestFallbackExplanationNegativeSuggestions(t *testing.T) {
	result := FallbackExplanation("Terrible, the worst. Awful and disappointed.", models.SentimentNegative, 0.9)

	if len(result.Suggestions) != 3 {
		t.Fatalf("negative fallback carries 3 suggestions, got %v", result.Suggestions)
	}
	if result.Tone != "frustrated and critical" {
		t.Fatalf("unexpected tone: %q", result.Tone)
	}
	if result.OverallScore.Negative != 90 || result.OverallScore.Positive != 10 {
		t.Fatalf("unexpected breakdown: %+v", result.OverallScore)
	}
}

func TestFallbackExplanationCapsMatches(t *testing.T) {
	text := "terrible worst awful disappointed waste horrible poor"
	result := FallbackExplanation(text, models.SentimentNegative, 0.9)
	if len(result.KeyPhrases) != maxFallbackPhrases {
		t.Fatalf("matches must cap at %d, got %d", maxFallbackPhrases, len(result.KeyPhrases))
	}
}

func TestFallbackInsightsOverwhelminglyPositive(t *testing.T) {
	sentiments := []string{
		models.SentimentPositive, models.SentimentPositive, models.SentimentPositive,
		models.SentimentPositive, models.SentimentNegative,
	}
	texts := make([]string, len(sentiments))

	report := FallbackInsights(texts, sentiments)
	if !strings.HasPrefix(report.Summary, "Overwhelmingly positive") {
		t.Fatalf("80%% positive must use the overwhelming framing, got %q", report.Summary)
	}
	if report.Trends["positive"] != 80 || report.Trends["negative"] != 20 {
		t.Fatalf("unexpected trends: %v", report.Trends)
	}
	if len(report.Patterns) != 3 {
		t.Fatalf("expected satisfaction, concern and diversity patterns, got %v", report.Patterns)
	}
	if !strings.Contains(report.Recommendation, "negative feedback") {
		t.Fatalf("negatives present must steer the recommendation, got %q", report.Recommendation)
	}
}

func TestFallbackInsightsPredominantlyNegative(t *testing.T) {
	sentiments := []string{models.SentimentNegative, models.SentimentNegative, models.SentimentNegative, models.SentimentPositive}
	report := FallbackInsights(make([]string, len(sentiments)), sentiments)
	if !strings.HasPrefix(report.Summary, "Predominantly negative") {
		t.Fatalf("75%% negative must use the predominant framing, got %q", report.Summary)
	}
}

func TestFallbackInsightsEvenSplit(t *testing.T) {
	sentiments := []string{models.SentimentPositive, models.SentimentNegative}
	report := FallbackInsights(make([]string, len(sentiments)), sentiments)
	if !strings.HasPrefix(report.Summary, "Evenly split") {
		t.Fatalf("unexpected summary: %q", report.Summary)
	}
	if report.Recommendation == "" {
		t.Fatalf("expected a recommendation")
	}
}

func TestFallbackInsightsSeventyPercentBoundary(t *testing.T) {
	// Exactly 70% positive is not "overwhelming"; the threshold is strict.
	sentiments := []string{
		models.SentimentPositive, models.SentimentPositive, models.SentimentPositive,
		models.SentimentPositive, models.SentimentPositive, models.SentimentPositive,
		models.SentimentPositive, models.SentimentNegative, models.SentimentNegative,
		models.SentimentNegative,
	}
	report := FallbackInsights(make([]string, len(sentiments)), sentiments)
	if !strings.HasPrefix(report.Summary, "Generally positive") {
		t.Fatalf("70%% exactly must use the mixed framing, got %q", report.Summary)
	}
}

func TestFallbackLanguage(t *testing.T) {
	cases := []struct {
		text     string
		language string
		english  bool
	}{
		{"plain english text", "en", true},
		{"这个产品很好", "zh", false},
		{"هذا المنتج رائع", "ar", false},
		{"Этот продукт отличный", "ru", false},
		{"mixed with Русский text", "ru", false},
	}
	for _, tc := range cases {
		info := FallbackLanguage(tc.text)
		if info.Language != tc.language || info.IsEnglish != tc.english {
			t.Fatalf("%q: expected %s/%v, got %+v", tc.text, tc.language, tc.english, info)
		}
		if info.TranslatedText != tc.text {
			t.Fatalf("heuristic path must pass the text through, got %q", info.TranslatedText)
		}
	}
}
