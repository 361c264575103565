package models

import (
	"time"

	"github.com/google/uuid"
)

// User описывает учётную запись пользователя платформы.
type User struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	Email            string     `db:"email" json:"email"`
	Username         string     `db:"username" json:"username"`
	PasswordHash     string     `db:"password_hash" json:"-"`
	Role             string     `db:"role" json:"role"`
	IsActive         bool       `db:"is_active" json:"is_active"`
	EmailVerified    bool       `db:"email_verified" json:"email_verified"`
	PhoneVerified    bool       `db:"phone_verified" json:"phone_verified"`
	IdentityVerified bool       `db:"identity_verified" json:"identity_verified"`
	LastLoginAt      *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// Profile описывает публичный профиль пользователя.
type Profile struct {
	UserID             uuid.UUID `db:"user_id" json:"user_id"`
	FullName           string    `db:"full_name" json:"full_name"`
	Bio                *string   `db:"bio" json:"bio,omitempty"`
	Location           *string   `db:"location" json:"location,omitempty"`
	Phone              *string   `db:"phone" json:"phone,omitempty"`
	Rating             *float64  `db:"rating" json:"rating,omitempty"`
	TotalJobsCompleted int       `db:"total_jobs_completed" json:"total_jobs_completed"`
	VerificationLevel  int       `db:"verification_level" json:"verification_level"`
	AccountStatus      string    `db:"account_status" json:"account_status"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

// Session представляет сохранённую сессию пользователя.
type Session struct {
	ID           uuid.UUID `db:"id" json:"id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	RefreshToken string    `db:"refresh_token" json:"refresh_token"`
	UserAgent    *string   `db:"user_agent" json:"user_agent,omitempty"`
	IPAddress    *string   `db:"ip_address" json:"ip_address,omitempty"`
	ExpiresAt    time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
