package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/gigzone/backend/internal/models"
	"github.com/gigzone/backend/internal/repository/common"
)

// Ошибки репозитория чатов.
var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrMessageNotFound      = errors.New("message not found")
)

// ConversationRepository отвечает за беседы и сообщения.
type ConversationRepository struct {
	db *sqlx.DB
}

// NewConversationRepository создаёт экземпляр репозитория.
func NewConversationRepository(db *sqlx.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// GetOrCreate возвращает беседу по гигу и паре участников, создавая её
// при первом обращении. Уникальный индекс (gig_id, poster_id, worker_id)
// гарантирует одну беседу на пару.
func (r *ConversationRepository) GetOrCreate(ctx context.Context, gigID, posterID, workerID uuid.UUID) (*models.Conversation, error) {
	var conv models.Conversation
	query := `
		INSERT INTO conversations (gig_id, poster_id, worker_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (gig_id, poster_id, worker_id) DO UPDATE SET gig_id = EXCLUDED.gig_id
		RETURNING *
	`

	if err := r.db.QueryRowxContext(ctx, query, gigID, posterID, workerID).StructScan(&conv); err != nil {
		return nil, fmt.Errorf("conversation repository: get or create %w", err)
	}

	return &conv, nil
}

// GetByID возвращает беседу по идентификатору.
func (r *ConversationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	return common.GetByID[models.Conversation](ctx, r.db, "conversations", id, ErrConversationNotFound)
}

// ListByUser возвращает беседы пользователя, свежие сверху.
func (r *ConversationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Conversation, error) {
	var convs []models.Conversation
	err := r.db.SelectContext(ctx, &convs, `
		SELECT * FROM conversations
		WHERE poster_id = $1 OR worker_id = $1
		ORDER BY COALESCE(last_message_at, created_at) DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("conversation repository: list by user %w", err)
	}
	return convs, nil
}

// CreateMessage сохраняет сообщение и сдвигает last_message_at беседы.
func (r *ConversationRepository) CreateMessage(ctx context.Context, msg *models.Message) error {
	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx, `
			INSERT INTO messages (conversation_id, sender_id, content, message_type)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at
		`, msg.ConversationID, msg.SenderID, msg.Content, msg.MessageType).
			Scan(&msg.ID, &msg.CreatedAt)
		if err != nil {
			return fmt.Errorf("conversation repository: insert message %w", err)
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE conversations SET last_message_at = $2 WHERE id = $1
		`, msg.ConversationID, msg.CreatedAt)
		if err != nil {
			return fmt.Errorf("conversation repository: touch conversation %w", err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("conversation repository: touch rows affected %w", err)
		}
		if affected == 0 {
			return ErrConversationNotFound
		}

		return nil
	})
}

// ListMessages возвращает сообщения беседы в порядке создания.
// Параметр before позволяет листать историю назад.
func (r *ConversationRepository) ListMessages(ctx context.Context, conversationID uuid.UUID, before *uuid.UUID, limit int) ([]models.Message, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	query := `
		SELECT * FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC, id ASC
		LIMIT $2
	`
	args := []interface{}{conversationID, limit}

	if before != nil {
		var anchor models.Message
		err := r.db.GetContext(ctx, &anchor, `SELECT * FROM messages WHERE id = $1 AND conversation_id = $2`, *before, conversationID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrMessageNotFound
			}
			return nil, fmt.Errorf("conversation repository: anchor message %w", err)
		}

		query = `
			SELECT * FROM (
				SELECT * FROM messages
				WHERE conversation_id = $1 AND (created_at, id) < ($2, $3)
				ORDER BY created_at DESC, id DESC
				LIMIT $4
			) page
			ORDER BY created_at ASC, id ASC
		`
		args = []interface{}{conversationID, anchor.CreatedAt, anchor.ID, limit}
	}

	var msgs []models.Message
	if err := r.db.SelectContext(ctx, &msgs, query, args...); err != nil {
		return nil, fmt.Errorf("conversation repository: list messages %w", err)
	}

	return msgs, nil
}
