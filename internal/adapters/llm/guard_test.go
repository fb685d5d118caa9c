package llm_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/farum-chat/internal/adapters/llm"
	"github.com/PabloGalante/farum-chat/internal/domain"
)

type clientFunc func(ctx context.Context, req domain.CompletionRequest) (domain.Completion, error)

func (f clientFunc) Complete(ctx context.Context, req domain.CompletionRequest) (domain.Completion, error) {
	return f(ctx, req)
}

func requireProviderError(t *testing.T, err error, kind domain.ProviderErrorKind) *domain.ProviderError {
	t.Helper()

	var pe *domain.ProviderError
	require.True(t, errors.As(err, &pe), "expected *ProviderError, got %T", err)
	assert.Equal(t, kind, pe.Kind)
	return pe
}

func TestGuardPassesSuccess(t *testing.T) {
	g := llm.NewGuard("mock", llm.NewMockLLM(), 0)

	out, err := g.Complete(context.Background(), domain.CompletionRequest{Prompt: "Hello"})
	require.NoError(t, err)
	assert.Equal(t, `You said "Hello".`, out.Text)
	assert.Equal(t, "mock", g.Provider())
}

func TestGuardRejectsEmptyPrompt(t *testing.T) {
	mock := llm.NewMockLLM()
	g := llm.NewGuard("mock", mock, 0)

	for _, p := range []string{"", "   ", "\n\t"} {
		_, err := g.Complete(context.Background(), domain.CompletionRequest{Prompt: p})
		requireProviderError(t, err, domain.ProviderErrBadRequest)
	}
	assert.Empty(t, mock.Calls(), "no outbound call for an empty prompt")
}

func TestGuardWrapsForeignErrors(t *testing.T) {
	g := llm.NewGuard("mock", clientFunc(func(context.Context, domain.CompletionRequest) (domain.Completion, error) {
		return domain.Completion{}, errors.New("socket closed")
	}), 0)

	_, err := g.Complete(context.Background(), domain.CompletionRequest{Prompt: "test"})
	pe := requireProviderError(t, err, domain.ProviderErrInternal)
	assert.Contains(t, pe.Description(), "socket closed")
}

func TestGuardRecoversPanics(t *testing.T) {
	g := llm.NewGuard("mock", clientFunc(func(context.Context, domain.CompletionRequest) (domain.Completion, error) {
		panic("nil map")
	}), 0)

	_, err := g.Complete(context.Background(), domain.CompletionRequest{Prompt: "test"})
	pe := requireProviderError(t, err, domain.ProviderErrInternal)
	assert.Contains(t, pe.Message, "nil map")
}

func TestGuardTimeout(t *testing.T) {
	g := llm.NewGuard("mock", clientFunc(func(ctx context.Context, _ domain.CompletionRequest) (domain.Completion, error) {
		<-ctx.Done()
		return domain.Completion{}, ctx.Err()
	}), 20*time.Millisecond)

	_, err := g.Complete(context.Background(), domain.CompletionRequest{Prompt: "test"})
	requireProviderError(t, err, domain.ProviderErrTimeout)
}

func TestGuardEmptyCompletion(t *testing.T) {
	mock := &llm.MockLLM{Reply: func(domain.CompletionRequest) (string, error) { return "  ", nil }}
	g := llm.NewGuard("mock", mock, 0)

	_, err := g.Complete(context.Background(), domain.CompletionRequest{Prompt: "test"})
	requireProviderError(t, err, domain.ProviderErrEmptyResponse)
}

func TestNewClientUnknownProvider(t *testing.T) {
	_, err := llm.NewClient(context.Background(), llm.Settings{Provider: "llama"})
	assert.Error(t, err)

	g, err := llm.NewClient(context.Background(), llm.Settings{Provider: llm.ProviderMock})
	require.NoError(t, err)
	assert.Equal(t, llm.ProviderMock, g.Provider())
}

func TestTokenCounter(t *testing.T) {
	c, err := llm.NewTokenCounter()
	require.NoError(t, err)

	assert.Equal(t, 0, c.Count(""))
	assert.Greater(t, c.Count("Hello, how are you today?"), 0)

	var nilCounter *llm.TokenCounter
	assert.Equal(t, 0, nilCounter.Count("Hello"))
}
