package models

import (
	"time"

	"github.com/google/uuid"
)

// Conversation описывает чат между постером гига и исполнителем.
type Conversation struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	GigID         uuid.UUID  `db:"gig_id" json:"gig_id"`
	PosterID      uuid.UUID  `db:"poster_id" json:"poster_id"`
	WorkerID      uuid.UUID  `db:"worker_id" json:"worker_id"`
	LastMessageAt *time.Time `db:"last_message_at" json:"last_message_at,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}

// IsParticipant проверяет, состоит ли пользователь в беседе.
func (c *Conversation) IsParticipant(userID uuid.UUID) bool {
	return c.PosterID == userID || c.WorkerID == userID
}

// Message описывает сообщение в чате. Сообщения отдаются в порядке
// created_at, иных гарантий доставки нет.
type Message struct {
	ID             uuid.UUID `db:"id" json:"id"`
	ConversationID uuid.UUID `db:"conversation_id" json:"conversation_id"`
	SenderID       uuid.UUID `db:"sender_id" json:"sender_id"`
	Content        string    `db:"content" json:"content"`
	MessageType    string    `db:"message_type" json:"message_type"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
