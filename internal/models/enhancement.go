package models

// KeyPhrase scores a single phrase extracted from the analysed text.
type KeyPhrase struct {
	Phrase    string `json:"phrase"`
	Sentiment string `json:"sentiment"`
	Score     int    `json:"score"`
}

// SentimentBreakdown holds percentage shares per polarity.
type SentimentBreakdown struct {
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral,omitempty"`
}

// Explanation is the fixed-shape enhancement record. Every field has a
// defined default so the record is never partially populated.
type Explanation struct {
	Explanation    string             `json:"explanation"`
	KeyPhrases     []KeyPhrase        `json:"key_phrases_detailed"`
	OverallScore   SentimentBreakdown `json:"overall_score"`
	Tone           string             `json:"tone"`
	Context        string             `json:"context"`
	Evidence       string             `json:"evidence"`
	DominantFactor string             `json:"dominant_factor"`
	Reasoning      string             `json:"reasoning"`
	Suggestions    []string           `json:"suggestions"`
}

// InsightsReport summarises sentiment trends across a batch.
type InsightsReport struct {
	Summary        string             `json:"summary"`
	Trends         map[string]float64 `json:"trends"`
	Patterns       []string           `json:"patterns"`
	Recommendation string             `json:"recommendation,omitempty"`
}

// LanguageInfo reports detected language and an English rendering of the
// input when the source language is not English.
type LanguageInfo struct {
	Language       string `json:"language"`
	IsEnglish      bool   `json:"is_english"`
	TranslatedText string `json:"translated_text"`
}
