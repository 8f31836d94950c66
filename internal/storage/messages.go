package storage

import (
	"context"
	"fmt"

	"school_service/internal/models"
)

type MessageStore struct {
	kv Store
}

func NewMessageStore(kv Store) *MessageStore {
	return &MessageStore{kv: kv}
}

func (s *MessageStore) GetMessage(ctx context.Context, id string) (models.Message, error) {
	const op = "storage.GetMessage"

	var msg models.Message
	if err := getJSON(ctx, s.kv, MessageKey(id), &msg); err != nil {
		return models.Message{}, fmt.Errorf("%s: %w", op, err)
	}

	return msg, nil
}

func (s *MessageStore) PutMessage(ctx context.Context, msg models.Message) error {
	const op = "storage.PutMessage"

	if err := setJSON(ctx, s.kv, MessageKey(msg.ID), msg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *MessageStore) DeleteMessage(ctx context.Context, id string) error {
	const op = "storage.DeleteMessage"

	if err := s.kv.Delete(ctx, MessageKey(id)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *MessageStore) ListMessages(ctx context.Context) ([]models.Message, error) {
	const op = "storage.ListMessages"

	msgs, err := listJSON[models.Message](ctx, s.kv, Key{messagesPrefix})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return msgs, nil
}
