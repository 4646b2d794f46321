package models

// StatKind names a dashboard action that bumps one of the Stats counters.
type StatKind string

const (
	StatKindSummary   StatKind = "summary"
	StatKindTask      StatKind = "task"
	StatKindIdea      StatKind = "idea"
	StatKindSentiment StatKind = "sentiment"
	StatKindChat      StatKind = "chat"
)

type Stats struct {
	Summaries  int `json:"summaries"`
	Tasks      int `json:"tasks"`
	Ideas      int `json:"ideas"`
	Sentiments int `json:"sentiments"`
	Chats      int `json:"chats"`
}

// Increment bumps the counter matching kind and reports whether kind was recognized.
func (s *Stats) Increment(kind StatKind) bool {
	switch kind {
	case StatKindSummary:
		s.Summaries++
	case StatKindTask:
		s.Tasks++
	case StatKindIdea:
		s.Ideas++
	case StatKindSentiment:
		s.Sentiments++
	case StatKindChat:
		s.Chats++
	default:
		return false
	}
	return true
}
