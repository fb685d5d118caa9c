package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PabloGalante/farum-chat/internal/domain"
)

// DefaultTimeout bounds a single completion call when no other timeout is set.
const DefaultTimeout = 60 * time.Second

// Guard is the boundary around a provider client. Whatever the wrapped client
// does (return a foreign error, hang, panic), Guard hands back either a
// Completion or a *domain.ProviderError.
type Guard struct {
	next     domain.CompletionClient
	provider string
	timeout  time.Duration
}

// NewGuard wraps next. A timeout <= 0 selects DefaultTimeout.
func NewGuard(provider string, next domain.CompletionClient, timeout time.Duration) *Guard {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Guard{next: next, provider: provider, timeout: timeout}
}

func (g *Guard) Provider() string { return g.provider }

func (g *Guard) Complete(ctx context.Context, req domain.CompletionRequest) (out domain.Completion, err error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return domain.Completion{}, &domain.ProviderError{
			Provider: g.provider,
			Kind:     domain.ProviderErrBadRequest,
			Message:  "prompt is empty",
			Err:      domain.ErrEmptyInput,
		}
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			out = domain.Completion{}
			err = &domain.ProviderError{
				Provider: g.provider,
				Kind:     domain.ProviderErrInternal,
				Message:  fmt.Sprintf("provider client panicked: %v", r),
			}
		}
	}()

	out, err = g.next.Complete(ctx, req)
	if err != nil {
		pe := domain.AsProviderError(g.provider, err)
		if pe.Kind == domain.ProviderErrInternal && ctx.Err() != nil {
			pe = classifyContextError(g.provider, ctx.Err())
		}
		return domain.Completion{}, pe
	}

	if strings.TrimSpace(out.Text) == "" {
		return domain.Completion{}, &domain.ProviderError{
			Provider: g.provider,
			Kind:     domain.ProviderErrEmptyResponse,
		}
	}

	return out, nil
}
