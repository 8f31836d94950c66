package storage

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"school_service/internal/models"
)

func TestUserStoreRoundTrip(t *testing.T) {
	kv, _ := newRedisTestStore(t)
	users := NewUserStore(kv)
	ctx := context.Background()

	user, err := models.NewUser(uuid.Must(uuid.NewV4()), "alice", "hash", models.RoleStudent,
		models.RoleAttributes{StudentID: "S1", Course: "CS", Year: 2, Group: "G1"}, time.Now())
	require.NoError(t, err)
	user.AddToken("t1")

	require.NoError(t, users.PutUser(ctx, user))

	got, err := users.GetUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, models.RoleStudent, got.Role)
	require.NotNil(t, got.Student)
	assert.Equal(t, 2, got.Student.Year)
	assert.Nil(t, got.Teacher)
	assert.Equal(t, []string{"t1"}, got.Tokens)

	list, err := users.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, users.DeleteUser(ctx, "alice"))
	_, err = users.GetUser(ctx, "alice")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestScheduleStoreListsByDay(t *testing.T) {
	kv, _ := newRedisTestStore(t)
	schedules := NewScheduleStore(kv)
	ctx := context.Background()

	require.NoError(t, schedules.PutSchedule(ctx, models.Schedule{ID: "1", Day: "Monday", Subject: "Math"}))
	require.NoError(t, schedules.PutSchedule(ctx, models.Schedule{ID: "2", Day: "Monday", Subject: "Physics"}))
	require.NoError(t, schedules.PutSchedule(ctx, models.Schedule{ID: "3", Day: "Friday", Subject: "Art"}))

	monday, err := schedules.ListSchedules(ctx, "Monday")
	require.NoError(t, err)
	assert.Len(t, monday, 2)

	all, err := schedules.ListSchedules(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	require.NoError(t, schedules.DeleteSchedule(ctx, "Monday", "1"))
	_, err = schedules.GetSchedule(ctx, "Monday", "1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMessageStoreRoundTrip(t *testing.T) {
	kv, _ := newRedisTestStore(t)
	messages := NewMessageStore(kv)
	ctx := context.Background()

	msg := models.Message{ID: "m1", From: "admin", To: "alice", Subject: "hi", Body: "hello"}
	require.NoError(t, messages.PutMessage(ctx, msg))

	got, err := messages.GetMessage(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, msg, got)

	list, err := messages.ListMessages(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, messages.DeleteMessage(ctx, "m1"))
	_, err = messages.GetMessage(ctx, "m1")
	require.ErrorIs(t, err, ErrNotFound)
}
