package domain

import (
	"context"
	"time"
)

const MessageTypeText = "text"

type Message struct {
	ID          int64     `json:"id"`
	SenderID    string    `json:"sender_id"`
	ReceiverID  string    `json:"receiver_id"`
	Content     string    `json:"content"`
	MessageType string    `json:"message_type"`
	FileURL     *string   `json:"file_url,omitempty"`
	CreatedAt   time.Time `json:"timestamp"`
	Read        bool      `json:"read"`
}

type SendInput struct {
	ReceiverID  string  `json:"receiver_id" binding:"required" validate:"required,max=64"`
	Content     string  `json:"content" binding:"required" validate:"required,max=5000"`
	MessageType string  `json:"message_type" validate:"omitempty,max=32"`
	FileURL     *string `json:"file_url" validate:"omitempty,url,max=2048"`
}

// ConversationSummary is one entry per counterpart the caller has talked to.
type ConversationSummary struct {
	CounterpartID   string  `json:"user_id"`
	CounterpartName string  `json:"name"`
	LastMessage     Message `json:"last_message"`
	Unread          bool    `json:"unread"`
}

type MessageRepository interface {
	Create(ctx context.Context, msg *Message) error
	// ListBetween returns the thread between reader and counterpart in
	// chronological order and marks the returned messages addressed to
	// reader as read, in one transaction.
	ListBetween(ctx context.Context, reader, counterpart string) ([]Message, error)
	ListConversations(ctx context.Context, id string) ([]ConversationSummary, error)
}

type MessageUsecase interface {
	Send(ctx context.Context, p *Principal, input SendInput) (*Message, error)
	ListBetween(ctx context.Context, p *Principal, counterpartID string) ([]Message, error)
	ListConversations(ctx context.Context, p *Principal) ([]ConversationSummary, error)
}
