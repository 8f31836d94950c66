package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"school_service/internal/auth"
	"school_service/internal/models"
)

func seedSchedules(t *testing.T, f *fixture) []models.Schedule {
	t.Helper()

	created, err := f.schedules.Create(context.Background(), []models.NewSchedule{
		{Day: "monday", StartTime: "09:00", EndTime: "10:30", Subject: "Math", Teacher: "tom", Course: "CS", Year: "1", Group: "G1", Classroom: "101"},
		{Day: "monday", StartTime: "11:00", EndTime: "12:30", Subject: "Physics", Teacher: "tina", Course: "CS", Year: "1", Group: "G2", Classroom: "202"},
		{Day: "monday", StartTime: "13:00", EndTime: "14:00", Subject: "Assembly"},
		{Day: "tuesday", StartTime: "09:00", EndTime: "10:30", Subject: "History", Teacher: "tom", Course: "LAW", Year: "2"},
	})
	require.NoError(t, err)

	return created
}

func subjects(list []models.Schedule) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		out = append(out, s.Subject)
	}
	return out
}

func TestCreateSchedulesValidates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.schedules.Create(ctx, nil)
	require.ErrorIs(t, err, ErrValidation)

	_, err = f.schedules.Create(ctx, []models.NewSchedule{
		{Day: "monday", StartTime: "09:00", EndTime: "10:00", Subject: "Math"},
		{Day: "monday", StartTime: "09:00", Subject: "Art"},
	})
	require.ErrorIs(t, err, ErrValidation)

	all, err := f.schedules.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all, "an invalid batch stores nothing")
}

func TestListSchedules(t *testing.T) {
	f := newFixture(t)
	seedSchedules(t, f)

	all, err := f.schedules.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestListDayVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedSchedules(t, f)
	registerAlice(t, f)

	t.Run("admin sees the whole day", func(t *testing.T) {
		list, err := f.schedules.ListDay(ctx, auth.Identity{Username: "root", Role: models.RoleAdmin}, "monday", models.ScheduleFilter{})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Math", "Physics", "Assembly"}, subjects(list))
	})

	t.Run("teacher sees own classes", func(t *testing.T) {
		list, err := f.schedules.ListDay(ctx, auth.Identity{Username: "tom", Role: models.RoleTeacher}, "monday", models.ScheduleFilter{})
		require.NoError(t, err)
		assert.Equal(t, []string{"Math"}, subjects(list))
	})

	t.Run("student sees own group and shared entries", func(t *testing.T) {
		list, err := f.schedules.ListDay(ctx, auth.Identity{Username: "alice", Role: models.RoleStudent}, "monday", models.ScheduleFilter{})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Math", "Assembly"}, subjects(list))
	})

	t.Run("filters narrow the visible set", func(t *testing.T) {
		list, err := f.schedules.ListDay(ctx, auth.Identity{Username: "root", Role: models.RoleAdmin}, "monday", models.ScheduleFilter{Classroom: "202"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Physics"}, subjects(list))
	})

	t.Run("unknown student", func(t *testing.T) {
		_, err := f.schedules.ListDay(ctx, auth.Identity{Username: "ghost", Role: models.RoleStudent}, "monday", models.ScheduleFilter{})
		require.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("empty day", func(t *testing.T) {
		list, err := f.schedules.ListDay(ctx, auth.Identity{Username: "root", Role: models.RoleAdmin}, "sunday", models.ScheduleFilter{})
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

func TestUpdateAndDeleteSchedule(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created := seedSchedules(t, f)
	math := created[0]

	room := "303"
	updated, err := f.schedules.Update(ctx, math.Day, math.ID, models.ScheduleUpdate{Classroom: &room})
	require.NoError(t, err)
	assert.Equal(t, "303", updated.Classroom)
	assert.Equal(t, math.Subject, updated.Subject)

	got, err := f.schedules.Get(ctx, math.Day, math.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	_, err = f.schedules.Get(ctx, "tuesday", math.ID)
	require.ErrorIs(t, err, ErrNotFound, "entries are addressed by day and id")

	require.NoError(t, f.schedules.Delete(ctx, math.Day, math.ID))
	require.ErrorIs(t, f.schedules.Delete(ctx, math.Day, math.ID), ErrNotFound)

	_, err = f.schedules.Update(ctx, math.Day, math.ID, models.ScheduleUpdate{Classroom: &room})
	require.ErrorIs(t, err, ErrNotFound)
}
