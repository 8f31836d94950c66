package storage

import (
	"context"
	"fmt"

	"school_service/internal/models"
)

// ScheduleStore keeps schedule entries under ["schedule", day, id] so a
// day can be listed by prefix.
type ScheduleStore struct {
	kv Store
}

func NewScheduleStore(kv Store) *ScheduleStore {
	return &ScheduleStore{kv: kv}
}

func (s *ScheduleStore) GetSchedule(ctx context.Context, day, id string) (models.Schedule, error) {
	const op = "storage.GetSchedule"

	var sch models.Schedule
	if err := getJSON(ctx, s.kv, ScheduleKey(day, id), &sch); err != nil {
		return models.Schedule{}, fmt.Errorf("%s: %w", op, err)
	}

	return sch, nil
}

func (s *ScheduleStore) PutSchedule(ctx context.Context, sch models.Schedule) error {
	const op = "storage.PutSchedule"

	if err := setJSON(ctx, s.kv, ScheduleKey(sch.Day, sch.ID), sch); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *ScheduleStore) DeleteSchedule(ctx context.Context, day, id string) error {
	const op = "storage.DeleteSchedule"

	if err := s.kv.Delete(ctx, ScheduleKey(day, id)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ListSchedules lists every entry, or only those of day when day is set.
func (s *ScheduleStore) ListSchedules(ctx context.Context, day string) ([]models.Schedule, error) {
	const op = "storage.ListSchedules"

	prefix := Key{schedulesPrefix}
	if day != "" {
		prefix = append(prefix, day)
	}

	list, err := listJSON[models.Schedule](ctx, s.kv, prefix)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return list, nil
}
