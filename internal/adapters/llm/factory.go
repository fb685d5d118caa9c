package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/PabloGalante/farum-chat/internal/domain"
)

const (
	ProviderOpenAI = providerOpenAI
	ProviderGemini = providerGemini
	ProviderMock   = "mock"
)

// Settings selects and configures a provider client.
type Settings struct {
	Provider string
	APIKey   string
	BaseURL  string // empty means the provider's public endpoint
	Timeout  time.Duration
}

// NewClient returns the provider client for s wrapped in a Guard.
func NewClient(ctx context.Context, s Settings) (*Guard, error) {
	var (
		client domain.CompletionClient
		err    error
	)

	switch s.Provider {
	case ProviderOpenAI:
		client = NewOpenAIClient(s.APIKey, s.BaseURL)
	case ProviderGemini:
		client, err = NewGeminiClient(ctx, s.APIKey, s.BaseURL)
		if err != nil {
			return nil, err
		}
	case ProviderMock:
		client = NewMockLLM()
	default:
		return nil, fmt.Errorf("unknown provider %q", s.Provider)
	}

	return NewGuard(s.Provider, client, s.Timeout), nil
}
