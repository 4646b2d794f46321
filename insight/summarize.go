package insight

const (
	maxSummarySentences = 3
	emptySummary        = "No text provided."
)

// Summarize returns the first three sentences of text in their original order,
// or a single placeholder line when text has no sentences.
func Summarize(text string) []string {
	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return []string{emptySummary}
	}
	if len(sentences) > maxSummarySentences {
		sentences = sentences[:maxSummarySentences]
	}
	return sentences
}
