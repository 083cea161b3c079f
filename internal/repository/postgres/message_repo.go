package postgres

import (
	"context"
	"time"

	"go-jobboard-backend/internal/domain"
)

type messageRepo struct {
	base
}

func NewMessageRepository(db DB, timeout time.Duration) domain.MessageRepository {
	return &messageRepo{base: newBase(db, timeout)}
}

const messageColumns = `id, sender_id, receiver_id, content, message_type, file_url, created_at, read`

func scanMessage(row interface{ Scan(...any) error }, m *domain.Message) error {
	return row.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.MessageType, &m.FileURL, &m.CreatedAt, &m.Read)
}

func (r *messageRepo) Create(ctx context.Context, m *domain.Message) error {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	query := `
		INSERT INTO messages (sender_id, receiver_id, content, message_type, file_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, read`

	return r.db.QueryRow(ctx, query, m.SenderID, m.ReceiverID, m.Content, m.MessageType, m.FileURL).
		Scan(&m.ID, &m.CreatedAt, &m.Read)
}

// ListBetween reads the thread and marks exactly the returned unread messages
// addressed to reader. A message inserted after the select is left unread.
func (r *messageRepo) ListBetween(ctx context.Context, reader, counterpart string) ([]domain.Message, error) {
	ctx, cancel := r.detached(ctx)
	defer cancel()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		SELECT ` + messageColumns + `
		FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY created_at ASC, id ASC`

	rows, err := tx.Query(ctx, query, reader, counterpart)
	if err != nil {
		return nil, err
	}

	messages := []domain.Message{}
	var unread []int64
	for rows.Next() {
		var m domain.Message
		if err := scanMessage(rows, &m); err != nil {
			rows.Close()
			return nil, err
		}
		if m.ReceiverID == reader && !m.Read {
			unread = append(unread, m.ID)
		}
		messages = append(messages, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(unread) > 0 {
		if _, err := tx.Exec(ctx,
			`UPDATE messages SET read = true WHERE id = ANY($1::bigint[]) AND receiver_id = $2 AND NOT read`,
			unread, reader,
		); err != nil {
			return nil, err
		}
		for i := range messages {
			if messages[i].ReceiverID == reader {
				messages[i].Read = true
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *messageRepo) ListConversations(ctx context.Context, id string) ([]domain.ConversationSummary, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	query := `
		WITH mine AS (
			SELECT m.*, CASE WHEN m.sender_id = $1 THEN m.receiver_id ELSE m.sender_id END AS counterpart
			FROM messages m
			WHERE m.sender_id = $1 OR m.receiver_id = $1
		), latest AS (
			SELECT DISTINCT ON (counterpart) *
			FROM mine
			ORDER BY counterpart, created_at DESC, id DESC
		)
		SELECT l.counterpart,
			COALESCE(NULLIF(TRIM(a.first_name || ' ' || a.last_name), ''), a.email, ''),
			l.id, l.sender_id, l.receiver_id, l.content, l.message_type, l.file_url, l.created_at, l.read,
			EXISTS (
				SELECT 1 FROM messages u
				WHERE u.sender_id = l.counterpart AND u.receiver_id = $1 AND NOT u.read
			)
		FROM latest l
		LEFT JOIN accounts a ON a.id = l.counterpart
		ORDER BY l.created_at DESC, l.id DESC`

	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []domain.ConversationSummary{}
	for rows.Next() {
		var s domain.ConversationSummary
		m := &s.LastMessage
		if err := rows.Scan(
			&s.CounterpartID, &s.CounterpartName,
			&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.MessageType, &m.FileURL, &m.CreatedAt, &m.Read,
			&s.Unread,
		); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
