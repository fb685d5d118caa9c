package observability

import (
	"context"
	"log/slog"
	"time"
)

// RequestRecord is what gets logged for one completion request. It carries
// sizes and timings only: no credential, no prompt or response text.
type RequestRecord struct {
	Timestamp    time.Time
	SessionID    string
	Provider     string
	Model        string
	InputLength  int // characters
	InputTokens  int
	OutputTokens int
	Outcome      string
	ErrorKind    string
	Latency      time.Duration
}

// LogRequest writes r at info level, or warn level when it failed.
func LogRequest(ctx context.Context, r RequestRecord) {
	attrs := []slog.Attr{
		slog.Time("timestamp", r.Timestamp),
		slog.String("session_id", r.SessionID),
		slog.String("provider", r.Provider),
		slog.String("model", r.Model),
		slog.Int("input_length", r.InputLength),
		slog.Int("input_tokens", r.InputTokens),
		slog.String("outcome", r.Outcome),
		slog.Int64("latency_ms", r.Latency.Milliseconds()),
	}
	lvl := slog.LevelInfo
	if r.ErrorKind != "" {
		attrs = append(attrs, slog.String("error_kind", r.ErrorKind))
		lvl = slog.LevelWarn
	} else {
		attrs = append(attrs, slog.Int("output_tokens", r.OutputTokens))
	}

	LoggerFromContext(ctx).LogAttrs(ctx, lvl, "completion request", attrs...)
	ObserveCompletion(r.Provider, r.Outcome, r.Latency)
}
