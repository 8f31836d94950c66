package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"school_service/internal/auth"
	"school_service/internal/models"
)

func TestCreateMessagesStampsDateAndTime(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.messages.now = func() time.Time { return time.Date(2024, 3, 5, 9, 7, 1, 0, time.UTC) }

	created, err := f.messages.Create(ctx, []models.NewMessage{
		{From: "admin", To: "alice", Subject: "hi", Body: "welcome"},
		{From: "admin", To: "bob", Subject: "hey", Body: "hello"},
	})
	require.NoError(t, err)
	require.Len(t, created, 2)

	for _, m := range created {
		assert.NotEmpty(t, m.ID)
		assert.Equal(t, "2024-03-05", m.Date)
		assert.Equal(t, "09:07:01", m.Time)
		assert.False(t, m.Read)
	}
	assert.NotEqual(t, created[0].ID, created[1].ID)

	all, err := f.messages.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCreateMessagesRejectsEmptyBatch(t *testing.T) {
	f := newFixture(t)

	_, err := f.messages.Create(context.Background(), nil)
	require.ErrorIs(t, err, ErrValidation)
}

func TestInboxFiltersByRecipient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.messages.Create(ctx, []models.NewMessage{
		{From: "admin", To: "alice", Subject: "1"},
		{From: "admin", To: "bob", Subject: "2"},
		{From: "bob", To: "alice", Subject: "3"},
	})
	require.NoError(t, err)

	inbox, err := f.messages.Inbox(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, inbox, 2)
	for _, m := range inbox {
		assert.Equal(t, "alice", m.To)
	}

	empty, err := f.messages.Inbox(ctx, "carol")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGetMessageAccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.messages.Create(ctx, []models.NewMessage{{From: "admin", To: "alice", Subject: "s"}})
	require.NoError(t, err)
	id := created[0].ID

	alice := auth.Identity{Username: "alice", Role: models.RoleStudent}
	bob := auth.Identity{Username: "bob", Role: models.RoleStudent}
	admin := auth.Identity{Username: "root", Role: models.RoleAdmin}

	got, err := f.messages.Get(ctx, alice, id)
	require.NoError(t, err)
	assert.Equal(t, created[0], got)

	_, err = f.messages.Get(ctx, admin, id)
	require.NoError(t, err)

	_, err = f.messages.Get(ctx, bob, id)
	require.ErrorIs(t, err, ErrForbidden)

	_, err = f.messages.Get(ctx, alice, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateAndDeleteMessage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.messages.Create(ctx, []models.NewMessage{{From: "admin", To: "alice", Subject: "old", Body: "b"}})
	require.NoError(t, err)
	id := created[0].ID

	read := true
	subject := "new"
	updated, err := f.messages.Update(ctx, id, models.MessageUpdate{Subject: &subject, Read: &read})
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Subject)
	assert.Equal(t, "b", updated.Body)
	assert.True(t, updated.Read)

	_, err = f.messages.Update(ctx, "missing", models.MessageUpdate{Read: &read})
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, f.messages.Delete(ctx, id))
	require.ErrorIs(t, f.messages.Delete(ctx, id), ErrNotFound)
}
