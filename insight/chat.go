package insight

import "fmt"

const chatEchoLimit = 100

// ChatReply echoes the first hundred characters of message back with a
// canned offer of help.
func ChatReply(message string) string {
	runes := []rune(message)
	if len(runes) > chatEchoLimit {
		runes = runes[:chatEchoLimit]
	}
	return fmt.Sprintf(`I received: "%s" - I can help you convert this into tasks or summaries!`, string(runes))
}
