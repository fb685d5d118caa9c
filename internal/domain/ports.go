package domain

import "context"

// CompletionClient defines how the core application talks to a completion
// provider. Implementations return either a Completion or a *ProviderError,
// never any other error.
type CompletionClient interface {
	Complete(ctx context.Context, req CompletionRequest) (Completion, error)
}

// CompletionOptions are the sampling knobs sent with every request.
type CompletionOptions struct {
	Model           string
	Temperature     float32
	MaxOutputTokens int
	SystemPrompt    string // prepended as a system-role message when non-empty
}

// CompletionRequest is one outbound call: the new prompt plus the turns that
// precede it (empty in single-turn mode).
type CompletionRequest struct {
	Prompt  string
	History []Turn
	Options CompletionOptions
}

// Completion is a successful provider response.
type Completion struct {
	Text         string
	Model        string
	InputTokens  int
	OutputTokens int
}

// TranscriptStore holds the ordered turns of one session.
type TranscriptStore interface {
	// Append adds turn to the end. It never fails.
	Append(turn Turn)
	// All returns a copy of every turn in insertion order.
	All() []Turn
	Len() int
}

// SessionStore keeps one Session per user context.
type SessionStore interface {
	Create(ctx context.Context) (*Session, error)
	Get(ctx context.Context, id SessionID) (*Session, error)
	// GetOrCreate returns the session with id, creating it on first use.
	GetOrCreate(ctx context.Context, id SessionID) (*Session, error)
}

// Display is the rendering side of a conversation. The core only exchanges
// strings and turns with it.
type Display interface {
	RawInput() string
	OnSubmit(callback func(text string))
	Render(turns []Turn)
	ShowPending(pending bool)
}
