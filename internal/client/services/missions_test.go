package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkazakov/treeboard/internal/client/models"
	"github.com/dkazakov/treeboard/internal/client/state"
)

func sentTo(recipients ...string) []models.Message {
	var out []models.Message
	for i, r := range recipients {
		out = append(out, models.Message{
			ID:          string(rune('a' + i)),
			RecipientID: r,
			SenderID:    "me",
			Content:     "hi",
		})
	}
	return out
}

func missionsFixture(t *testing.T, store *fakeStore, onUnlock func()) (MissionsService, *state.Store) {
	t.Helper()
	st := state.New()
	st.SetUser(&models.Profile{ID: "me", Email: "me@example.com"})
	return NewMissionsService(store, st, testLogger(), onUnlock), st
}

func TestRefresh_CountsDistinctRecipients(t *testing.T) {
	store := newFakeStore()
	store.messages = sentTo("u1", "u2", "u1")
	svc, st := missionsFixture(t, store, nil)

	count, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count, "two trees decorated, third message repeats a recipient")
	assert.Equal(t, 2, st.MissionsCompleted())
	assert.False(t, svc.Unlocked())
}

func TestRefresh_UnlocksOnceAtTarget(t *testing.T) {
	store := newFakeStore()
	store.messages = sentTo("u1", "u2", "u3")

	unlocks := 0
	svc, _ := missionsFixture(t, store, func() { unlocks++ })

	for i := 0; i < 3; i++ {
		_, err := svc.Refresh(context.Background())
		require.NoError(t, err)
	}

	assert.True(t, svc.Unlocked())
	assert.Equal(t, 1, unlocks, "the unlock callback fires exactly once")
}

func TestRefresh_StaleLowerCountDoesNotRegress(t *testing.T) {
	store := newFakeStore()
	store.messages = sentTo("u1", "u2", "u3")
	svc, st := missionsFixture(t, store, nil)

	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, st.MissionsCompleted())
	require.True(t, svc.Unlocked())

	// A stale replica answers with less history.
	store.mu.Lock()
	store.messages = sentTo("u1")
	store.mu.Unlock()

	count, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 3, st.MissionsCompleted(), "progress keeps the high-water mark")
	assert.True(t, svc.Unlocked(), "the unlock never reverts")
}

func TestRefresh_StoreError(t *testing.T) {
	store := newFakeStore()
	store.bySenderErr = assert.AnError
	svc, st := missionsFixture(t, store, nil)

	_, err := svc.Refresh(context.Background())
	assert.Error(t, err)
	assert.Zero(t, st.MissionsCompleted())
}

func TestRefresh_NoUser(t *testing.T) {
	svc := NewMissionsService(newFakeStore(), state.New(), testLogger(), nil)
	_, err := svc.Refresh(context.Background())
	assert.Error(t, err)
}
