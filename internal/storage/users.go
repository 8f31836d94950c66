package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"school_service/internal/models"
)

// UserStore keeps user records under ["users", username].
type UserStore struct {
	kv Store
}

func NewUserStore(kv Store) *UserStore {
	return &UserStore{kv: kv}
}

// GetUser returns ErrNotFound when no record exists for username.
func (s *UserStore) GetUser(ctx context.Context, username string) (models.User, error) {
	const op = "storage.GetUser"

	var user models.User
	if err := getJSON(ctx, s.kv, UserKey(username), &user); err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

func (s *UserStore) PutUser(ctx context.Context, user models.User) error {
	const op = "storage.PutUser"

	if err := setJSON(ctx, s.kv, UserKey(user.Username), user); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *UserStore) DeleteUser(ctx context.Context, username string) error {
	const op = "storage.DeleteUser"

	if err := s.kv.Delete(ctx, UserKey(username)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *UserStore) ListUsers(ctx context.Context) ([]models.User, error) {
	const op = "storage.ListUsers"

	users, err := listJSON[models.User](ctx, s.kv, Key{usersPrefix})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return users, nil
}

func getJSON(ctx context.Context, kv Store, key Key, dst any) error {
	raw, err := kv.Get(ctx, key)
	if err != nil {
		return err
	}

	return json.Unmarshal(raw, dst)
}

func setJSON(ctx context.Context, kv Store, key Key, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return kv.Set(ctx, key, raw)
}

func listJSON[T any](ctx context.Context, kv Store, prefix Key) ([]T, error) {
	entries, err := kv.List(ctx, prefix)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(entries))
	for _, e := range entries {
		var v T
		if err := json.Unmarshal(e.Value, &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", e.Key.Encode(), err)
		}
		out = append(out, v)
	}

	return out, nil
}
