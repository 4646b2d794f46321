package ingestion

import (
	"fmt"
	"strings"

	"github.com/jhillyerd/enmime"
)

// EmailContent is the part of an inbound message the heuristics care about.
type EmailContent struct {
	MessageID string
	Sender    string // Lower-cased address from Sender or From, empty if none parsed.
	Subject   string
	Text      string
}

// ParseEmail reads a raw MIME message and returns its sender and plain-text
// body. HTML-only messages are converted with the ContentProcessor.
func (cp *ContentProcessor) ParseEmail(rawMIME string) (*EmailContent, error) {
	env, err := enmime.ReadEnvelope(strings.NewReader(rawMIME))
	if err != nil {
		return nil, fmt.Errorf("enmime.ReadEnvelope failed: %w", err)
	}

	content := &EmailContent{
		MessageID: env.GetHeader("Message-ID"),
		Subject:   env.GetHeader("Subject"),
		Sender:    senderAddress(env),
	}

	text := env.Text
	if strings.TrimSpace(text) == "" && env.HTML != "" {
		processed, err := cp.Process(env.HTML)
		if err != nil {
			return nil, fmt.Errorf("failed to convert HTML body: %w", err)
		}
		text = processed.MainText
	}
	content.Text = strings.TrimSpace(text)

	for _, e := range env.Errors {
		cp.logger.Sugar().Debugw("MIME parse warning", "message_id", content.MessageID, "warning", e.Error())
	}
	return content, nil
}

func senderAddress(env *enmime.Envelope) string {
	for _, header := range []string{"Sender", "From"} {
		list, err := env.AddressList(header)
		if err == nil && len(list) > 0 && list[0].Address != "" {
			return strings.ToLower(list[0].Address)
		}
	}
	return ""
}
