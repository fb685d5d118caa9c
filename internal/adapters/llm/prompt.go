package llm

import (
	"strings"

	"github.com/PabloGalante/farum-chat/internal/domain"
)

// Message is one role/content pair of the provider wire contract.
type Message struct {
	Role    domain.Role
	Content string
}

// BuildMessages lays out a request the way every provider expects it:
// the system prompt first, then the prior turns, then the new prompt.
//
// Error turns stay in the transcript for the user to see but are never sent
// upstream, and neither are blank turns.
func BuildMessages(req domain.CompletionRequest) []Message {
	msgs := make([]Message, 0, len(req.History)+2)

	if sys := strings.TrimSpace(req.Options.SystemPrompt); sys != "" {
		msgs = append(msgs, Message{Role: domain.RoleSystem, Content: sys})
	}

	for _, t := range req.History {
		switch t.Role {
		case domain.RoleUser, domain.RoleAssistant, domain.RoleSystem:
		default:
			continue
		}
		if strings.TrimSpace(t.Content) == "" {
			continue
		}
		msgs = append(msgs, Message{Role: t.Role, Content: t.Content})
	}

	msgs = append(msgs, Message{Role: domain.RoleUser, Content: req.Prompt})
	return msgs
}
