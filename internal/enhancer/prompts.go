package enhancer

import (
	"fmt"
	"strings"
)

func explanationPrompt(text, sentiment string, confidence float64) string {
	return fmt.Sprintf(`Analyze this sentiment prediction by examining ONLY the actual words present in the text:

Text: %q
Predicted Sentiment: %s
Confidence: %.2f%%

CRITICAL RULES:
1. Quote ONLY words that actually appear in the text - do not invent or assume content
2. For EACH key phrase, determine if it's positive or negative and estimate its sentiment weight (0-100%%)
3. Analyze the ACTUAL sentiment of the words, not just what the model predicted
4. Explain why certain phrases have the sentiment they do based on their actual meaning

Provide a JSON response with:
1. explanation: Detailed explanation of the ACTUAL sentiment in the text based on the words present
2. key_phrases_detailed: Array of objects with phrase, sentiment (positive/negative), and score (0-100)
3. overall_score: Overall sentiment breakdown {"positive": X, "negative": Y}
4. tone: Emotional intensity based on actual words used
5. context: What specific aspects are mentioned (quote actual topics from text)
6. evidence: Quote SPECIFIC words and explain their actual sentiment meaning
7. dominant_factor: Which phrase/word has the most sentiment weight and why
8. reasoning: Explain the actual sentiment composition of the text
9. suggestions: If negative sentiment detected, how to address the concerns mentioned

Format:
{
    "explanation": "Explanation of actual sentiment based on word meanings",
    "key_phrases_detailed": [
        {"phrase": "actual word/phrase", "sentiment": "positive|negative", "score": 0-100}
    ],
    "overall_score": {"positive": X, "negative": Y},
    "tone": "emotional description based on actual words",
    "context": "actual aspects mentioned in text",
    "evidence": "Quoted words with their actual sentiment meanings",
    "dominant_factor": "Which word/phrase carries most sentiment weight",
    "reasoning": "Explanation of actual sentiment composition",
    "suggestions": ["specific suggestion 1", "specific suggestion 2"]
}`, text, sentiment, confidence*100)
}

func insightsPrompt(texts, sentiments []string) string {
	var items strings.Builder
	for i, text := range texts {
		sentiment := ""
		if i < len(sentiments) {
			sentiment = sentiments[i]
		}
		fmt.Fprintf(&items, "%d. [%s] %s\n", i+1, sentiment, text)
	}

	return fmt.Sprintf(`Analyze these sentiment predictions and provide overall insights:

%s
Provide a JSON response with:
1. summary: Overall summary of the sentiment trends
2. trends: Percentage breakdown of positive/negative
3. patterns: List of common themes or patterns observed

Format:
{
    "summary": "Overall summary",
    "trends": {"positive": X, "negative": Y},
    "patterns": ["pattern1", "pattern2", ...]
}`, items.String())
}

func languagePrompt(text string) string {
	return fmt.Sprintf(`Analyze this text and provide:
1. Detected language (language code)
2. Whether it's English (true/false)
3. English translation if not English (or original text if English)

Text: %q

Respond in JSON format:
{
    "language": "language_code",
    "is_english": true/false,
    "translated_text": "translation or original"
}`, text)
}
