package repository

import (
	"context"
	"database/sql"

	"github.com/personachat/personachat-go/internal/model"
)

// ChatRepository handles conversation and message persistence.
type ChatRepository struct {
	db *sql.DB
}

// NewChatRepository creates a new ChatRepository.
func NewChatRepository(db *sql.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// SaveConversation inserts a conversation and its messages in a single
// transaction, so a half-written conversation never becomes visible.
func (r *ChatRepository) SaveConversation(ctx context.Context, conv *model.Conversation, messages []model.MessagePayload) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO conversations (title, user_email) VALUES (?, ?)`,
		conv.Title, conv.UserEmail,
	)
	if err != nil {
		return err
	}

	convID, err := result.LastInsertId()
	if err != nil {
		return err
	}
	conv.ID = convID

	for _, m := range messages {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO messages (conversation_id, role, content) VALUES (?, ?, ?)`,
			convID, m.Role, m.Content,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListByOwner retrieves all conversations belonging to the given principal,
// oldest first, with their messages attached.
func (r *ChatRepository) ListByOwner(ctx context.Context, userEmail string) ([]model.ConversationResponse, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, created_at FROM conversations WHERE user_email = ? ORDER BY id`,
		userEmail,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var convos []model.ConversationResponse
	for rows.Next() {
		var c model.ConversationResponse
		if err := rows.Scan(&c.ID, &c.Title, &c.CreatedAt); err != nil {
			return nil, err
		}
		convos = append(convos, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range convos {
		messages, err := r.listMessages(ctx, convos[i].ID)
		if err != nil {
			return nil, err
		}
		convos[i].Messages = messages
	}
	return convos, nil
}

func (r *ChatRepository) listMessages(ctx context.Context, conversationID int64) ([]model.MessagePayload, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT role, content FROM messages WHERE conversation_id = ? ORDER BY id`,
		conversationID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []model.MessagePayload
	for rows.Next() {
		var m model.MessagePayload
		if err := rows.Scan(&m.Role, &m.Content); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
