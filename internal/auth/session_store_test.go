package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixithub/complaint-service/internal/domain"
)

func TestMemorySessionStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore()

	session := domain.Session{ID: "s1", UserID: "u1", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, store.Save(ctx, session))

	userID, err := store.Lookup(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Lookup(ctx, "s1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemorySessionStore_ExpiredSessionIsGone(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore()
	require.NoError(t, store.Save(ctx, domain.Session{ID: "old", UserID: "u1", ExpiresAt: time.Now().Add(-time.Second)}))

	_, err := store.Lookup(ctx, "old")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemorySessionStore_SaveSweepsExpiredSessions(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	store := &memorySessionStore{sessions: make(map[string]domain.Session), now: func() time.Time { return now }}

	require.NoError(t, store.Save(ctx, domain.Session{ID: "short", UserID: "u1", ExpiresAt: now.Add(time.Minute)}))
	require.NoError(t, store.Save(ctx, domain.Session{ID: "long", UserID: "u2", ExpiresAt: now.Add(time.Hour)}))
	assert.Len(t, store.sessions, 2)

	now = now.Add(10 * time.Minute)
	require.NoError(t, store.Save(ctx, domain.Session{ID: "fresh", UserID: "u3", ExpiresAt: now.Add(time.Hour)}))

	assert.Len(t, store.sessions, 2)
	assert.NotContains(t, store.sessions, "short")
	assert.Contains(t, store.sessions, "long")
	assert.Contains(t, store.sessions, "fresh")
}
