package insight

import "fmt"

var ideaTemplates = [...]string{
	"Write a short newsletter about %s with 3 tips.",
	"Create a 60s video explaining %s key concepts.",
	`Draft a "beginner checklist" for %s.`,
	"Design an infographic about %s trends.",
}

// GenerateIdeas expands topic into four fixed content prompts.
func GenerateIdeas(topic string) []string {
	ideas := make([]string, 0, len(ideaTemplates))
	for _, tmpl := range ideaTemplates {
		ideas = append(ideas, fmt.Sprintf(tmpl, topic))
	}
	return ideas
}
