package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/farum-chat/internal/domain"
)

func TestProviderErrorDescriptionNeverEmpty(t *testing.T) {
	kinds := []domain.ProviderErrorKind{
		domain.ProviderErrTransport,
		domain.ProviderErrTimeout,
		domain.ProviderErrAuth,
		domain.ProviderErrRateLimit,
		domain.ProviderErrBadRequest,
		domain.ProviderErrServer,
		domain.ProviderErrEmptyResponse,
		domain.ProviderErrInternal,
		"",
	}
	for _, k := range kinds {
		t.Run(string(k), func(t *testing.T) {
			pe := &domain.ProviderError{Provider: "openai", Kind: k}
			assert.NotEmpty(t, pe.Description())
			assert.NotEmpty(t, pe.Error())
		})
	}
}

func TestProviderErrorDescriptionIncludesDetail(t *testing.T) {
	pe := &domain.ProviderError{
		Provider: "openai",
		Kind:     domain.ProviderErrTransport,
		Err:      errors.New("dial tcp: connection refused"),
	}
	assert.Contains(t, pe.Description(), "connection refused")
	assert.Contains(t, pe.Error(), "openai: transport")
}

func TestAsProviderError(t *testing.T) {
	assert.Nil(t, domain.AsProviderError("mock", nil))

	orig := &domain.ProviderError{Provider: "openai", Kind: domain.ProviderErrAuth, StatusCode: 401}
	wrapped := fmt.Errorf("call: %w", orig)
	assert.Same(t, orig, domain.AsProviderError("mock", wrapped))

	plain := errors.New("boom")
	pe := domain.AsProviderError("mock", plain)
	require.NotNil(t, pe)
	assert.Equal(t, domain.ProviderErrInternal, pe.Kind)
	assert.ErrorIs(t, pe, plain)
}

func TestConfigurationErrorUnwrap(t *testing.T) {
	err := &domain.ConfigurationError{
		Field:  "OPENAI_API_KEY",
		Reason: "not set",
		Tried:  []string{"secrets-file", "env"},
	}
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Contains(t, err.Error(), "secrets-file, env")
}

func TestRoleValid(t *testing.T) {
	assert.True(t, domain.RoleUser.Valid())
	assert.True(t, domain.RoleError.Valid())
	assert.False(t, domain.Role("agent").Valid())
}
