package llm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/PabloGalante/farum-chat/internal/adapters/llm"
	"github.com/PabloGalante/farum-chat/internal/domain"
)

func TestBuildMessages(t *testing.T) {
	history := []domain.Turn{
		{Role: domain.RoleUser, Content: "first"},
		{Role: domain.RoleAssistant, Content: "reply"},
		{Role: domain.RoleUser, Content: "second"},
		{Role: domain.RoleError, Content: "could not reach the completion provider"},
		{Role: domain.RoleAssistant, Content: "   "},
	}

	tests := []struct {
		name string
		req  domain.CompletionRequest
		want []llm.Message
	}{
		{
			name: "single turn",
			req:  domain.CompletionRequest{Prompt: "Hello"},
			want: []llm.Message{{Role: domain.RoleUser, Content: "Hello"}},
		},
		{
			name: "system prompt first",
			req: domain.CompletionRequest{
				Prompt:  "Hello",
				Options: domain.CompletionOptions{SystemPrompt: " Be brief. "},
			},
			want: []llm.Message{
				{Role: domain.RoleSystem, Content: "Be brief."},
				{Role: domain.RoleUser, Content: "Hello"},
			},
		},
		{
			name: "history skips error and blank turns",
			req:  domain.CompletionRequest{Prompt: "third", History: history},
			want: []llm.Message{
				{Role: domain.RoleUser, Content: "first"},
				{Role: domain.RoleAssistant, Content: "reply"},
				{Role: domain.RoleUser, Content: "second"},
				{Role: domain.RoleUser, Content: "third"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, llm.BuildMessages(tt.req))
		})
	}
}
