package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"school_service/internal/auth"
	"school_service/internal/models"
	"school_service/internal/storage"
)

const (
	messageDateLayout = "2006-01-02"
	messageTimeLayout = "15:04:05"
)

type MessageRepository interface {
	GetMessage(ctx context.Context, id string) (models.Message, error)
	PutMessage(ctx context.Context, msg models.Message) error
	DeleteMessage(ctx context.Context, id string) error
	ListMessages(ctx context.Context) ([]models.Message, error)
}

type MessageService struct {
	messages MessageRepository
	now      func() time.Time
}

func NewMessageService(messages MessageRepository) *MessageService {
	return &MessageService{messages: messages, now: time.Now}
}

// Create stores a batch of new unread messages stamped with the current date and time.
func (s *MessageService) Create(ctx context.Context, batch []models.NewMessage) ([]models.Message, error) {
	const op = "service.CreateMessages"

	if len(batch) == 0 {
		return nil, validation(op, "empty message batch")
	}

	created := make([]models.Message, 0, len(batch))
	for _, in := range batch {
		now := s.now()
		msg := models.Message{
			ID:      uuid.NewString(),
			From:    in.From,
			To:      in.To,
			Subject: in.Subject,
			Body:    in.Body,
			Date:    now.Format(messageDateLayout),
			Time:    now.Format(messageTimeLayout),
			Read:    false,
		}

		if err := s.messages.PutMessage(ctx, msg); err != nil {
			return created, storeFailure(op, err)
		}
		created = append(created, msg)
	}

	return created, nil
}

func (s *MessageService) List(ctx context.Context) ([]models.Message, error) {
	const op = "service.ListMessages"

	msgs, err := s.messages.ListMessages(ctx)
	if err != nil {
		return nil, storeFailure(op, err)
	}

	return msgs, nil
}

// Inbox returns the messages addressed to username.
func (s *MessageService) Inbox(ctx context.Context, username string) ([]models.Message, error) {
	const op = "service.Inbox"

	msgs, err := s.messages.ListMessages(ctx)
	if err != nil {
		return nil, storeFailure(op, err)
	}

	inbox := make([]models.Message, 0, len(msgs))
	for _, m := range msgs {
		if m.To == username {
			inbox = append(inbox, m)
		}
	}

	return inbox, nil
}

// Get returns the message if the caller is its recipient or an admin.
func (s *MessageService) Get(ctx context.Context, caller auth.Identity, id string) (models.Message, error) {
	const op = "service.GetMessage"

	msg, err := s.get(ctx, op, id)
	if err != nil {
		return models.Message{}, err
	}

	if msg.To != caller.Username && !caller.IsAdmin() {
		return models.Message{}, fmt.Errorf("%s: %w", op, ErrForbidden)
	}

	return msg, nil
}

func (s *MessageService) Update(ctx context.Context, id string, upd models.MessageUpdate) (models.Message, error) {
	const op = "service.UpdateMessage"

	msg, err := s.get(ctx, op, id)
	if err != nil {
		return models.Message{}, err
	}

	msg = msg.Apply(upd)
	if err := s.messages.PutMessage(ctx, msg); err != nil {
		return models.Message{}, storeFailure(op, err)
	}

	return msg, nil
}

func (s *MessageService) Delete(ctx context.Context, id string) error {
	const op = "service.DeleteMessage"

	if _, err := s.get(ctx, op, id); err != nil {
		return err
	}

	if err := s.messages.DeleteMessage(ctx, id); err != nil {
		return storeFailure(op, err)
	}

	return nil
}

func (s *MessageService) get(ctx context.Context, op, id string) (models.Message, error) {
	msg, err := s.messages.GetMessage(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return models.Message{}, fmt.Errorf("%s: %w: message %s", op, ErrNotFound, id)
	}
	if err != nil {
		return models.Message{}, storeFailure(op, err)
	}

	return msg, nil
}
