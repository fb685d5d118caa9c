package llm

import (
	"context"
	"fmt"
	"sync"

	"github.com/PabloGalante/farum-chat/internal/domain"
)

// MockLLM answers without any network call. With a Reply func it returns
// whatever the func returns; otherwise it echoes the prompt.
type MockLLM struct {
	Reply func(req domain.CompletionRequest) (string, error)

	mu    sync.Mutex
	calls []domain.CompletionRequest
}

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

// NewFailingMockLLM returns a mock whose every call fails with err.
func NewFailingMockLLM(err error) *MockLLM {
	return &MockLLM{
		Reply: func(domain.CompletionRequest) (string, error) { return "", err },
	}
}

func (m *MockLLM) Complete(ctx context.Context, req domain.CompletionRequest) (domain.Completion, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return domain.Completion{}, classifyContextError("mock", err)
	}

	var (
		text string
		err  error
	)
	if m.Reply != nil {
		text, err = m.Reply(req)
	} else {
		text = fmt.Sprintf("You said %q.", req.Prompt)
	}
	if err != nil {
		return domain.Completion{}, domain.AsProviderError("mock", err)
	}

	return domain.Completion{Text: text, Model: req.Options.Model}, nil
}

// Calls returns the requests received so far.
func (m *MockLLM) Calls() []domain.CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.CompletionRequest, len(m.calls))
	copy(out, m.calls)
	return out
}
