package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrConfiguration      = errors.New("configuration error")
	ErrEmptyInput         = errors.New("input is empty")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSubmissionInFlight = errors.New("a submission is already in progress for this session")
)

// ConfigurationError is fatal: the process must stop before accepting input.
type ConfigurationError struct {
	Field  string
	Reason string
	Tried  []string // names of the sources that were consulted
}

func (e *ConfigurationError) Error() string {
	msg := fmt.Sprintf("configuration: %s: %s", e.Field, e.Reason)
	if len(e.Tried) > 0 {
		msg += " (tried: " + strings.Join(e.Tried, ", ") + ")"
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// ValidationError marks a submission that is dropped without touching the transcript.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "validation: " + e.Reason }

func (e *ValidationError) Unwrap() error { return ErrEmptyInput }

// ProviderErrorKind classifies a completion failure.
type ProviderErrorKind string

const (
	ProviderErrTransport     ProviderErrorKind = "transport"
	ProviderErrTimeout       ProviderErrorKind = "timeout"
	ProviderErrAuth          ProviderErrorKind = "auth"
	ProviderErrRateLimit     ProviderErrorKind = "rate_limit"
	ProviderErrBadRequest    ProviderErrorKind = "bad_request"
	ProviderErrServer        ProviderErrorKind = "server"
	ProviderErrEmptyResponse ProviderErrorKind = "empty_response"
	ProviderErrInternal      ProviderErrorKind = "internal"
)

// ProviderError is the single failure value a CompletionClient returns.
type ProviderError struct {
	Provider   string
	Kind       ProviderErrorKind
	StatusCode int // HTTP status when the provider answered, 0 otherwise
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	var b strings.Builder
	b.WriteString(e.Provider)
	b.WriteString(": ")
	b.WriteString(string(e.Kind))
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	} else if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Description is the text placed in the error turn. It is never empty.
func (e *ProviderError) Description() string {
	var reason string
	switch e.Kind {
	case ProviderErrTransport:
		reason = "could not reach the completion provider"
	case ProviderErrTimeout:
		reason = "the completion provider did not answer in time"
	case ProviderErrAuth:
		reason = "the completion provider rejected the credential"
	case ProviderErrRateLimit:
		reason = "the completion provider is rate limiting requests"
	case ProviderErrBadRequest:
		reason = "the completion provider rejected the request"
	case ProviderErrServer:
		reason = "the completion provider failed to answer"
	case ProviderErrEmptyResponse:
		reason = "the completion provider returned an empty response"
	default:
		reason = "the completion request failed"
	}
	detail := e.Message
	if detail == "" && e.Err != nil {
		detail = e.Err.Error()
	}
	if detail == "" {
		return reason
	}
	return reason + ": " + detail
}

// AsProviderError returns err as a *ProviderError, wrapping anything else
// as an internal failure of provider.
func AsProviderError(provider string, err error) *ProviderError {
	if err == nil {
		return nil
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe
	}
	return &ProviderError{Provider: provider, Kind: ProviderErrInternal, Err: err}
}
