package models

import (
	"time"

	"github.com/google/uuid"
)

// PhoneVerification хранит код подтверждения телефона.
type PhoneVerification struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Phone     string    `db:"phone" json:"phone"`
	Code      string    `db:"code" json:"-"`
	Attempts  int       `db:"attempts" json:"attempts"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	Used      bool      `db:"used" json:"used"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// SAIDVerification — заявка на проверку личности по номеру SA ID.
type SAIDVerification struct {
	ID                 uuid.UUID  `db:"id" json:"id"`
	UserID             uuid.UUID  `db:"user_id" json:"user_id"`
	IDNumber           string     `db:"id_number" json:"-"`
	DateOfBirth        time.Time  `db:"date_of_birth" json:"date_of_birth"`
	Gender             string     `db:"gender" json:"gender"`
	Citizenship        string     `db:"citizenship" json:"citizenship"`
	VerificationStatus string     `db:"verification_status" json:"verification_status"`
	VerificationScore  *int       `db:"verification_score" json:"verification_score,omitempty"`
	VerificationNotes  *string    `db:"verification_notes" json:"verification_notes,omitempty"`
	ReviewedAt         *time.Time `db:"reviewed_at" json:"reviewed_at,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}

// VerificationDocument — загруженный документ для проверки личности.
type VerificationDocument struct {
	ID           uuid.UUID `db:"id" json:"id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	DocumentType string    `db:"document_type" json:"document_type"`
	FilePath     string    `db:"file_path" json:"file_path"`
	FileSize     int64     `db:"file_size" json:"file_size"`
	MimeType     string    `db:"mime_type" json:"mime_type"`
	Status       string    `db:"status" json:"status"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
