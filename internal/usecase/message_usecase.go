package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/events"
	"go-jobboard-backend/pkg/security"
	"go-jobboard-backend/pkg/validation"
)

type messageUsecase struct {
	messages  domain.MessageRepository
	accounts  domain.AccountRepository
	publisher events.Publisher
	validate  *validator.Validate
}

func NewMessageUsecase(
	messages domain.MessageRepository,
	accounts domain.AccountRepository,
	publisher events.Publisher,
	validate *validator.Validate,
) domain.MessageUsecase {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &messageUsecase{messages: messages, accounts: accounts, publisher: publisher, validate: validate}
}

func (uc *messageUsecase) Send(ctx context.Context, p *domain.Principal, input domain.SendInput) (*domain.Message, error) {
	if err := Check(p, AnyAuthenticated()); err != nil {
		return nil, err
	}
	input.ReceiverID = strings.TrimSpace(input.ReceiverID)
	if strings.TrimSpace(input.Content) == "" {
		input.Content = ""
	}
	if err := uc.validate.Struct(input); err != nil {
		return nil, apperror.BadRequest(validation.Message(err))
	}
	if input.ReceiverID == p.ID {
		return nil, apperror.BadRequest("You cannot message yourself")
	}

	if _, err := uc.accounts.GetByID(ctx, input.ReceiverID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Receiver not found")
		}
		return nil, apperror.Store("account.get", security.HashValue(input.ReceiverID), err)
	}

	msg := &domain.Message{
		SenderID:    p.ID,
		ReceiverID:  input.ReceiverID,
		Content:     input.Content,
		MessageType: input.MessageType,
		FileURL:     input.FileURL,
	}
	if msg.MessageType == "" {
		msg.MessageType = domain.MessageTypeText
	}

	if err := uc.messages.Create(ctx, msg); err != nil {
		return nil, apperror.Store("message.create", security.HashValue(p.ID), err)
	}

	uc.publisher.Publish(ctx, events.New(events.MessageSent, map[string]any{
		"message_id":  msg.ID,
		"receiver_id": msg.ReceiverID,
	}))
	return msg, nil
}

// ListBetween returns the thread with counterpartID. Messages addressed to
// the caller come back marked read.
func (uc *messageUsecase) ListBetween(ctx context.Context, p *domain.Principal, counterpartID string) ([]domain.Message, error) {
	if err := Check(p, AnyAuthenticated()); err != nil {
		return nil, err
	}
	counterpartID = strings.TrimSpace(counterpartID)
	if counterpartID == "" {
		return nil, apperror.BadRequest("User id is required")
	}

	messages, err := uc.messages.ListBetween(ctx, p.ID, counterpartID)
	if err != nil {
		return nil, apperror.Store("message.list_between", security.HashValue(p.ID), err)
	}
	return messages, nil
}

func (uc *messageUsecase) ListConversations(ctx context.Context, p *domain.Principal) ([]domain.ConversationSummary, error) {
	if err := Check(p, AnyAuthenticated()); err != nil {
		return nil, err
	}
	summaries, err := uc.messages.ListConversations(ctx, p.ID)
	if err != nil {
		return nil, apperror.Store("message.list_conversations", security.HashValue(p.ID), err)
	}
	return summaries, nil
}
