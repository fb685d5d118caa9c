package conversation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/farum-chat/internal/domain"
	"github.com/PabloGalante/farum-chat/internal/observability"
)

// State is a step of the per-submission state machine.
type State string

const (
	StateIdle             State = "idle"
	StateValidating       State = "validating"
	StateSubmitting       State = "submitting"
	StateAwaitingResponse State = "awaiting_response"
	StateCompleted        State = "completed"
	StateFailed           State = "failed"
)

// Outcome is how a submission ended.
type Outcome string

const (
	OutcomeIgnored   Outcome = "ignored"
	OutcomeCompleted Outcome = "completed"
	OutcomeFailed    Outcome = "failed"
)

// HistoryMode decides which prior turns go to the provider.
type HistoryMode string

const (
	HistoryFull       HistoryMode = "full"
	HistorySingleTurn HistoryMode = "single"
)

// StateObserver is told about every state transition of a submission.
type StateObserver func(sessionID domain.SessionID, state State)

// TokenCounter estimates prompt size for logging.
type TokenCounter interface {
	Count(text string) int
}

// Options configures a Service.
type Options struct {
	Completion domain.CompletionOptions
	History    HistoryMode
	Provider   string // only used to label logs and metrics
	Tokens     TokenCounter
	Observer   StateObserver
}

// Service is the turn controller: the only path from a user submission to
// the transcript.
type Service struct {
	llm      domain.CompletionClient
	sessions domain.SessionStore
	opts     Options
	now      func() time.Time

	mu       sync.Mutex
	inFlight map[domain.SessionID]struct{}
}

func NewService(llm domain.CompletionClient, sessions domain.SessionStore, opts Options) *Service {
	if opts.History == "" {
		opts.History = HistoryFull
	}
	return &Service{
		llm:      llm,
		sessions: sessions,
		opts:     opts,
		now:      time.Now,
		inFlight: make(map[domain.SessionID]struct{}),
	}
}

type StartSessionOutput struct {
	Session *domain.Session
}

func (s *Service) StartSession(ctx context.Context) (*StartSessionOutput, error) {
	session, err := s.sessions.Create(ctx)
	if err != nil {
		observability.LoggerFromContext(ctx).Error("failed to create session", "error", err)
		return nil, err
	}

	observability.LoggerFromContext(ctx).Info("session started", "session_id", session.ID)
	return &StartSessionOutput{Session: session}, nil
}

type SubmitInput struct {
	SessionID domain.SessionID // empty starts a new session
	Text      string
}

type SubmitOutput struct {
	SessionID domain.SessionID
	Outcome   Outcome
	Appended  []domain.Turn // 0 when ignored, otherwise the user turn and its reply
	Err       *domain.ProviderError
}

// Reply returns the assistant or error turn, or nil when the input was ignored.
func (o *SubmitOutput) Reply() *domain.Turn {
	if len(o.Appended) < 2 {
		return nil
	}
	return &o.Appended[1]
}

// Submit runs one submission to completion. Provider failures are not
// returned as errors: they end up as an error turn and Outcome=failed.
// The returned error is only set when the session can't be resolved or
// another submission for it is still in flight.
//
// Input is validated before the session is resolved, so an ignored
// submission never creates a session.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*SubmitOutput, error) {
	prompt, verr := validate(in.Text)
	if verr != nil {
		s.transition(in.SessionID, StateValidating)
		s.transition(in.SessionID, StateIdle)
		observability.LoggerFromContext(ctx).Debug("submission ignored", "session_id", in.SessionID, "reason", verr.Reason)
		observability.CountSubmission(string(OutcomeIgnored))
		return &SubmitOutput{SessionID: in.SessionID, Outcome: OutcomeIgnored}, nil
	}

	session, err := s.sessions.GetOrCreate(ctx, in.SessionID)
	if err != nil {
		return nil, err
	}

	log := observability.LoggerFromContext(ctx).With("session_id", session.ID)

	if !s.acquire(session.ID) {
		log.Warn("submission rejected, another one is in flight")
		return nil, domain.ErrSubmissionInFlight
	}
	defer s.release(session.ID)
	defer s.transition(session.ID, StateIdle)

	s.transition(session.ID, StateValidating)
	s.transition(session.ID, StateSubmitting)
	prior := session.Transcript.All()
	userTurn := s.newTurn(domain.RoleUser, in.Text)
	session.Transcript.Append(userTurn)

	s.transition(session.ID, StateAwaitingResponse)
	req := domain.CompletionRequest{
		Prompt:  prompt,
		Options: s.opts.Completion,
	}
	if s.opts.History == HistoryFull {
		req.History = prior
	}

	start := s.now()
	completion, err := s.llm.Complete(ctx, req)
	latency := s.now().Sub(start)

	record := observability.RequestRecord{
		Timestamp:   start,
		SessionID:   string(session.ID),
		Provider:    s.opts.Provider,
		Model:       s.opts.Completion.Model,
		InputLength: len([]rune(prompt)),
		InputTokens: s.countTokens(prompt),
		Latency:     latency,
	}

	out := &SubmitOutput{SessionID: session.ID}
	if err != nil {
		pe := domain.AsProviderError(s.opts.Provider, err)
		errTurn := s.newTurn(domain.RoleError, pe.Description())
		session.Transcript.Append(errTurn)
		s.transition(session.ID, StateFailed)

		record.Outcome = string(OutcomeFailed)
		record.ErrorKind = string(pe.Kind)
		out.Outcome = OutcomeFailed
		out.Appended = []domain.Turn{userTurn, errTurn}
		out.Err = pe
	} else {
		assistantTurn := s.newTurn(domain.RoleAssistant, completion.Text)
		session.Transcript.Append(assistantTurn)
		s.transition(session.ID, StateCompleted)

		if completion.Model != "" {
			record.Model = completion.Model
		}
		if completion.InputTokens > 0 {
			record.InputTokens = completion.InputTokens
		}
		record.OutputTokens = completion.OutputTokens
		record.Outcome = string(OutcomeCompleted)
		out.Outcome = OutcomeCompleted
		out.Appended = []domain.Turn{userTurn, assistantTurn}
	}

	observability.LogRequest(ctx, record)
	observability.CountSubmission(string(out.Outcome))
	return out, nil
}

// Transcript returns the ordered turns of an existing session.
func (s *Service) Transcript(ctx context.Context, id domain.SessionID) (*domain.Session, []domain.Turn, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrSessionNotFound) {
			observability.LoggerFromContext(ctx).Error("failed to get session", "session_id", id, "error", err)
		}
		return nil, nil, err
	}
	return session, session.Transcript.All(), nil
}

// Busy reports whether a submission for id is in flight.
func (s *Service) Busy(id domain.SessionID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.inFlight[id]
	return ok
}

func validate(text string) (string, *domain.ValidationError) {
	prompt := strings.TrimSpace(text)
	if prompt == "" {
		return "", &domain.ValidationError{Reason: "empty or whitespace-only input"}
	}
	return prompt, nil
}

func (s *Service) acquire(id domain.SessionID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.inFlight[id]; busy {
		return false
	}
	s.inFlight[id] = struct{}{}
	return true
}

func (s *Service) release(id domain.SessionID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.inFlight, id)
}

func (s *Service) transition(id domain.SessionID, st State) {
	if s.opts.Observer != nil {
		s.opts.Observer(id, st)
	}
}

func (s *Service) countTokens(text string) int {
	if s.opts.Tokens == nil {
		return 0
	}
	return s.opts.Tokens.Count(text)
}

func (s *Service) newTurn(role domain.Role, content string) domain.Turn {
	return domain.Turn{
		ID:        domain.TurnID(uuid.NewString()),
		Role:      role,
		Content:   content,
		CreatedAt: s.now(),
	}
}
