package insight

import (
	"regexp"
	"strings"
)

// sentenceBoundary is one terminator followed by whitespace. Runs such as
// "?!" keep all but the last terminator on the preceding fragment, which
// SplitSentences then trims.
var sentenceBoundary = regexp.MustCompile(`[.?!]\s+`)

const sentenceTerminators = ".?!"

// SplitSentences breaks text into trimmed sentences without their trailing
// terminators. Newlines count as spaces; empty fragments are dropped.
func SplitSentences(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", " ")
	text = strings.ReplaceAll(text, "\n", " ")

	sentences := []string{}
	for _, fragment := range sentenceBoundary.Split(text, -1) {
		s := strings.TrimRight(strings.TrimSpace(fragment), sentenceTerminators)
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		sentences = append(sentences, s)
	}
	return sentences
}
