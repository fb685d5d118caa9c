package memory

import (
	"sync"

	"github.com/PabloGalante/farum-chat/internal/domain"
)

// Transcript is an append-only, in-memory domain.TranscriptStore.
// It has no size bound: a long conversation grows without limit.
type Transcript struct {
	mu    sync.RWMutex
	turns []domain.Turn
}

func NewTranscript() *Transcript {
	return &Transcript{}
}

func (t *Transcript) Append(turn domain.Turn) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.turns = append(t.turns, turn)
}

// All returns a copy so callers can't reorder or edit what was appended.
func (t *Transcript) All() []domain.Turn {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]domain.Turn, len(t.turns))
	copy(out, t.turns)
	return out
}

func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.turns)
}
