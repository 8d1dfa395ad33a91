package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkazakov/treeboard/internal/client/models"
	"github.com/dkazakov/treeboard/internal/client/state"
	"github.com/dkazakov/treeboard/internal/common"
)

func syncFixtureProfiles() []*models.Profile {
	return []*models.Profile{
		{ID: "u1", Email: "alice@example.com", FullName: "Alice"},
		{ID: "u2", Email: "bob@example.com", FullName: "Bob"},
		{ID: "u3", Email: "carol@example.com", FullName: "Carol"},
	}
}

func TestOpenTree_FetchThenSubscribe(t *testing.T) {
	store := newFakeStore(syncFixtureProfiles()...)
	store.messages = []models.Message{
		{ID: "m1", RecipientID: "u1", SenderID: "u2", Content: "hi", Decoration: models.DecorationGift},
		{ID: "m2", RecipientID: "u2", SenderID: "u3", Content: "elsewhere", Decoration: models.DecorationCard},
	}

	st := state.New()
	svc := NewSyncService(store, st, testLogger())
	t.Cleanup(func() { _ = svc.Close() })

	owner, err := svc.OpenTree(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", owner.ID)

	assert.Equal(t, "u1", st.ViewOwnerID())
	msgs := st.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "m1", msgs[0].ID)

	require.NotNil(t, st.UserByID("u2"), "senders are resolved into the directory")
	assert.Len(t, store.openSubs(), 1)
}

func TestOpenTree_SwitchingOwnerClosesPreviousSubscription(t *testing.T) {
	store := newFakeStore(syncFixtureProfiles()...)
	st := state.New()
	svc := NewSyncService(store, st, testLogger())
	t.Cleanup(func() { _ = svc.Close() })

	_, err := svc.OpenTree(context.Background(), "u1")
	require.NoError(t, err)
	_, err = svc.OpenTree(context.Background(), "u2")
	require.NoError(t, err)

	open := store.openSubs()
	require.Len(t, open, 1)
	assert.Equal(t, "u2", open[0].recipientID)
	assert.Equal(t, "u2", st.ViewOwnerID())
}

func TestConsume_MergesPushedEventAndResolvesSender(t *testing.T) {
	store := newFakeStore(syncFixtureProfiles()...)
	st := state.New()
	svc := NewSyncService(store, st, testLogger())
	t.Cleanup(func() { _ = svc.Close() })

	_, err := svc.OpenTree(context.Background(), "u1")
	require.NoError(t, err)

	store.push(models.Message{ID: "m9", RecipientID: "u1", SenderID: "u3", Content: "surprise"})

	assert.Eventually(t, func() bool {
		return len(st.Messages()) == 1 && st.UserByID("u3") != nil
	}, time.Second, 10*time.Millisecond)
}

func TestConsume_PushedDuplicateIsIdempotent(t *testing.T) {
	store := newFakeStore(syncFixtureProfiles()...)
	store.messages = []models.Message{
		{ID: "m1", RecipientID: "u1", SenderID: "u2", Content: "hi"},
	}
	st := state.New()
	svc := NewSyncService(store, st, testLogger())
	t.Cleanup(func() { _ = svc.Close() })

	_, err := svc.OpenTree(context.Background(), "u1")
	require.NoError(t, err)

	// The same row arrives again over the push feed, as it does when an
	// event races the initial fetch.
	store.push(models.Message{ID: "m1", RecipientID: "u1", SenderID: "u2", Content: "hi"})
	store.push(models.Message{ID: "m2", RecipientID: "u1", SenderID: "u3", Content: "new"})

	assert.Eventually(t, func() bool { return len(st.Messages()) == 2 },
		time.Second, 10*time.Millisecond)
	assert.Len(t, st.Messages(), 2)
}

func TestConsume_StaleEventsDoNotReachNewTree(t *testing.T) {
	store := newFakeStore(syncFixtureProfiles()...)
	store.profileHoldID = "u3"
	store.profileHeld = make(chan struct{})
	store.profileRelease = make(chan struct{})

	st := state.New()
	svc := NewSyncService(store, st, testLogger())
	t.Cleanup(func() { _ = svc.Close() })

	_, err := svc.OpenTree(context.Background(), "u1")
	require.NoError(t, err)

	// Park the consumer inside the sender lookup for the first event and
	// leave a second one buffered behind it.
	store.push(models.Message{ID: "m1", RecipientID: "u1", SenderID: "u3", Content: "late"})
	<-store.profileHeld
	store.push(models.Message{ID: "m2", RecipientID: "u1", SenderID: "u2", Content: "later"})

	_, err = svc.OpenTree(context.Background(), "u2")
	require.NoError(t, err)
	close(store.profileRelease)

	assert.Never(t, func() bool {
		for _, m := range st.Messages() {
			if m.RecipientID == "u1" {
				return true
			}
		}
		return false
	}, 200*time.Millisecond, 10*time.Millisecond,
		"events for a previous tree must not land on the new board")
}

func TestOpenTree_ReplacesProvisionalEntries(t *testing.T) {
	store := newFakeStore(syncFixtureProfiles()...)
	store.messages = []models.Message{
		{ID: "srv-9", RecipientID: "u1", SenderID: "u2", Content: "hi"},
	}

	st := state.New()
	st.SetView("u1")
	// A provisional record from an unconfirmed submit of the same row.
	st.AddMessage(models.Message{ID: "prov-1", RecipientID: "u1", SenderID: "u2", Content: "hi"})

	svc := NewSyncService(store, st, testLogger())
	t.Cleanup(func() { _ = svc.Close() })

	_, err := svc.OpenTree(context.Background(), "u1")
	require.NoError(t, err)

	msgs := st.Messages()
	require.Len(t, msgs, 1, "the fetched list supersedes provisional entries")
	assert.Equal(t, "srv-9", msgs[0].ID)
}

func TestOpenTree_UnknownOwner(t *testing.T) {
	store := newFakeStore()
	svc := NewSyncService(store, state.New(), testLogger())

	_, err := svc.OpenTree(context.Background(), "ghost")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestClose_WithoutSubscriptionIsNoop(t *testing.T) {
	svc := NewSyncService(newFakeStore(), state.New(), testLogger())
	assert.NoError(t, svc.Close())
	assert.NoError(t, svc.Close())
}
