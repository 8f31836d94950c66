package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"school_service/internal/auth"
	"school_service/internal/models"
	"school_service/internal/storage"
)

type ScheduleRepository interface {
	GetSchedule(ctx context.Context, day, id string) (models.Schedule, error)
	PutSchedule(ctx context.Context, sch models.Schedule) error
	DeleteSchedule(ctx context.Context, day, id string) error
	ListSchedules(ctx context.Context, day string) ([]models.Schedule, error)
}

type UserGetter interface {
	GetUser(ctx context.Context, username string) (models.User, error)
}

type ScheduleService struct {
	schedules ScheduleRepository
	users     UserGetter
}

func NewScheduleService(schedules ScheduleRepository, users UserGetter) *ScheduleService {
	return &ScheduleService{schedules: schedules, users: users}
}

func (s *ScheduleService) Create(ctx context.Context, batch []models.NewSchedule) ([]models.Schedule, error) {
	const op = "service.CreateSchedules"

	if len(batch) == 0 {
		return nil, validation(op, "empty schedule batch")
	}
	for i, in := range batch {
		if in.Day == "" || in.StartTime == "" || in.EndTime == "" || in.Subject == "" {
			return nil, validation(op, "entry %d: day, startTime, endTime and subject are required", i)
		}
	}

	created := make([]models.Schedule, 0, len(batch))
	for _, in := range batch {
		sch := models.Schedule{
			ID:        uuid.NewString(),
			Day:       in.Day,
			StartTime: in.StartTime,
			EndTime:   in.EndTime,
			Subject:   in.Subject,
			Year:      in.Year,
			Classroom: in.Classroom,
			Teacher:   in.Teacher,
			Course:    in.Course,
			Group:     in.Group,
		}

		if err := s.schedules.PutSchedule(ctx, sch); err != nil {
			return created, storeFailure(op, err)
		}
		created = append(created, sch)
	}

	return created, nil
}

func (s *ScheduleService) List(ctx context.Context) ([]models.Schedule, error) {
	const op = "service.ListSchedules"

	list, err := s.schedules.ListSchedules(ctx, "")
	if err != nil {
		return nil, storeFailure(op, err)
	}

	return list, nil
}

// ListDay returns the entries of day visible to caller that pass filter.
// Admins see everything, teachers their own classes, students the classes of
// their course, year and group.
func (s *ScheduleService) ListDay(ctx context.Context, caller auth.Identity, day string, filter models.ScheduleFilter) ([]models.Schedule, error) {
	const op = "service.ListDaySchedules"

	list, err := s.schedules.ListSchedules(ctx, day)
	if err != nil {
		return nil, storeFailure(op, err)
	}

	visible, err := s.visibility(ctx, caller)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]models.Schedule, 0, len(list))
	for _, sch := range list {
		if visible(sch) && filter.Matches(sch) {
			out = append(out, sch)
		}
	}

	return out, nil
}

func (s *ScheduleService) visibility(ctx context.Context, caller auth.Identity) (func(models.Schedule) bool, error) {
	switch caller.Role {
	case models.RoleAdmin:
		return func(models.Schedule) bool { return true }, nil
	case models.RoleTeacher:
		return func(sch models.Schedule) bool { return sch.Teacher == caller.Username }, nil
	case models.RoleStudent:
		user, err := s.users.GetUser(ctx, caller.Username)
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s", ErrUnauthorized, caller.Username)
		}
		if err != nil {
			return nil, storeFailure("service.visibility", err)
		}
		if user.Student == nil {
			return func(models.Schedule) bool { return false }, nil
		}
		p := *user.Student
		year := strconv.Itoa(p.Year)
		return func(sch models.Schedule) bool {
			return optEq(sch.Course, p.Course) && optEq(sch.Year, year) && optEq(sch.Group, p.Group)
		}, nil
	}

	return func(models.Schedule) bool { return false }, nil
}

// optEq treats an unset schedule attribute as applying to everyone.
func optEq(scheduleValue, own string) bool {
	return scheduleValue == "" || scheduleValue == own
}

func (s *ScheduleService) Get(ctx context.Context, day, id string) (models.Schedule, error) {
	return s.get(ctx, "service.GetSchedule", day, id)
}

func (s *ScheduleService) Update(ctx context.Context, day, id string, upd models.ScheduleUpdate) (models.Schedule, error) {
	const op = "service.UpdateSchedule"

	sch, err := s.get(ctx, op, day, id)
	if err != nil {
		return models.Schedule{}, err
	}

	sch = sch.Apply(upd)
	if err := s.schedules.PutSchedule(ctx, sch); err != nil {
		return models.Schedule{}, storeFailure(op, err)
	}

	return sch, nil
}

func (s *ScheduleService) Delete(ctx context.Context, day, id string) error {
	const op = "service.DeleteSchedule"

	if _, err := s.get(ctx, op, day, id); err != nil {
		return err
	}

	if err := s.schedules.DeleteSchedule(ctx, day, id); err != nil {
		return storeFailure(op, err)
	}

	return nil
}

func (s *ScheduleService) get(ctx context.Context, op, day, id string) (models.Schedule, error) {
	sch, err := s.schedules.GetSchedule(ctx, day, id)
	if errors.Is(err, storage.ErrNotFound) {
		return models.Schedule{}, fmt.Errorf("%s: %w: schedule %s/%s", op, ErrNotFound, day, id)
	}
	if err != nil {
		return models.Schedule{}, storeFailure(op, err)
	}

	return sch, nil
}
