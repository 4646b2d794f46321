package insight

import "strings"

type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "Positive"
	SentimentNegative SentimentLabel = "Negative"
	SentimentNeutral  SentimentLabel = "Neutral"
)

type Sentiment struct {
	Score float64        `json:"score"`
	Label SentimentLabel `json:"label"`
}

var (
	positiveWords = []string{"good", "great", "happy", "love", "excellent", "amazing", "wonderful"}
	negativeWords = []string{"bad", "sad", "angry", "hate", "problem", "terrible", "awful"}
)

// AnalyzeSentiment labels text by substring match against two fixed keyword
// sets. A positive match wins over a negative one.
func AnalyzeSentiment(text string) Sentiment {
	lower := strings.ToLower(text)
	switch {
	case containsAny(lower, positiveWords):
		return Sentiment{Score: 0.82, Label: SentimentPositive}
	case containsAny(lower, negativeWords):
		return Sentiment{Score: 0.18, Label: SentimentNegative}
	default:
		return Sentiment{Score: 0.5, Label: SentimentNeutral}
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
