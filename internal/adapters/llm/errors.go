package llm

import (
	"context"
	"errors"
	"net/http"

	"github.com/PabloGalante/farum-chat/internal/domain"
)

// classifyStatus maps an HTTP status answered by a provider to an error kind.
func classifyStatus(provider string, status int, msg string, err error) *domain.ProviderError {
	kind := domain.ProviderErrInternal
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = domain.ProviderErrAuth
	case status == http.StatusTooManyRequests:
		kind = domain.ProviderErrRateLimit
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		kind = domain.ProviderErrTimeout
	case status >= 500:
		kind = domain.ProviderErrServer
	case status >= 400:
		kind = domain.ProviderErrBadRequest
	}

	return &domain.ProviderError{
		Provider:   provider,
		Kind:       kind,
		StatusCode: status,
		Message:    truncate(msg, 400),
		Err:        err,
	}
}

func classifyContextError(provider string, err error) *domain.ProviderError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &domain.ProviderError{Provider: provider, Kind: domain.ProviderErrTimeout, Err: err}
	}
	return &domain.ProviderError{Provider: provider, Kind: domain.ProviderErrTransport, Err: err}
}

func truncate(s string, maxChars int) string {
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars])
}
