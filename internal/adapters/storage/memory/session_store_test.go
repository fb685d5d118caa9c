package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/farum-chat/internal/adapters/storage/memory"
	"github.com/PabloGalante/farum-chat/internal/domain"
)

func TestSessionStoreCreateAndGet(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSessionStore()

	sess, err := store.Create(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID)
	require.NotNil(t, sess.Transcript)

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Same(t, sess, got)
}

func TestSessionStoreGetMissing(t *testing.T) {
	store := memory.NewSessionStore()

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionStoreGetOrCreateIsLazy(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSessionStore()
	assert.Equal(t, 0, store.Len())

	a, err := store.GetOrCreate(ctx, "user-a")
	require.NoError(t, err)
	assert.Equal(t, domain.SessionID("user-a"), a.ID)

	again, err := store.GetOrCreate(ctx, "user-a")
	require.NoError(t, err)
	assert.Same(t, a, again)
	assert.Equal(t, 1, store.Len())

	anon, err := store.GetOrCreate(ctx, "")
	require.NoError(t, err)
	assert.NotEmpty(t, anon.ID)
	assert.Equal(t, 2, store.Len())
}

func TestSessionsHaveIsolatedTranscripts(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSessionStore()

	a, err := store.GetOrCreate(ctx, "a")
	require.NoError(t, err)
	b, err := store.GetOrCreate(ctx, "b")
	require.NoError(t, err)

	a.Transcript.Append(domain.Turn{Role: domain.RoleUser, Content: "only in a"})

	assert.Equal(t, 1, a.Transcript.Len())
	assert.Equal(t, 0, b.Transcript.Len())
}
