package insight

import "regexp"

const maxFallbackTasks = 4

var (
	// Prefix match without a word boundary: "Donate" starts with "do" and
	// qualifies. Kept for compatibility with existing dashboards.
	imperativeStart = regexp.MustCompile(`(?i)^(please|call|email|schedule|prepare|create|build|setup|do|make)`)
	taskMarker      = regexp.MustCompile(`(?i)(todo|task|action item)`)
)

// ExtractTasks returns the sentences of text that read like tasks: those that
// open with an imperative verb or mention a todo, task or action item. When
// none qualify it falls back to the first four sentences.
func ExtractTasks(text string) []string {
	sentences := SplitSentences(text)

	tasks := []string{}
	for _, s := range sentences {
		if IsTaskSentence(s) {
			tasks = append(tasks, s)
		}
	}
	if len(tasks) > 0 {
		return tasks
	}

	if len(sentences) > maxFallbackTasks {
		sentences = sentences[:maxFallbackTasks]
	}
	return sentences
}

func IsTaskSentence(sentence string) bool {
	return imperativeStart.MatchString(sentence) || taskMarker.MatchString(sentence)
}
