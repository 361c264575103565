package models

import (
	"time"

	"github.com/google/uuid"
)

// Review описывает отзыв после завершённого гига.
type Review struct {
	ID         uuid.UUID `db:"id" json:"id"`
	GigID      uuid.UUID `db:"gig_id" json:"gig_id"`
	ReviewerID uuid.UUID `db:"reviewer_id" json:"reviewer_id"`
	RevieweeID uuid.UUID `db:"reviewee_id" json:"reviewee_id"`
	Rating     int       `db:"rating" json:"rating"`
	ReviewText *string   `db:"review_text" json:"review_text,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// UserReport — жалоба одного пользователя на другого.
type UserReport struct {
	ID             uuid.UUID `db:"id" json:"id"`
	ReporterID     uuid.UUID `db:"reporter_id" json:"reporter_id"`
	ReportedUserID uuid.UUID `db:"reported_user_id" json:"reported_user_id"`
	ReportType     string    `db:"report_type" json:"report_type"`
	Description    string    `db:"description" json:"description"`
	Status         string    `db:"status" json:"status"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
