package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/gigzone/backend/internal/money"
)

// Gig описывает размещённое задание.
type Gig struct {
	ID                 uuid.UUID      `db:"id" json:"id"`
	PosterID           uuid.UUID      `db:"poster_id" json:"poster_id"`
	Title              string         `db:"title" json:"title"`
	Description        string         `db:"description" json:"description"`
	Category           string         `db:"category" json:"category"`
	Location           string         `db:"location" json:"location"`
	BudgetMinCents     *money.Cents   `db:"budget_min_cents" json:"budget_min_cents,omitempty"`
	BudgetMaxCents     *money.Cents   `db:"budget_max_cents" json:"budget_max_cents,omitempty"`
	DurationHours      *int           `db:"duration_hours" json:"duration_hours,omitempty"`
	IsUrgent           bool           `db:"is_urgent" json:"is_urgent"`
	PreferredStartDate *time.Time     `db:"preferred_start_date" json:"preferred_start_date,omitempty"`
	RequiredSkills     pq.StringArray `db:"required_skills" json:"required_skills,omitempty"`
	ContactPhone       *string        `db:"contact_phone" json:"contact_phone,omitempty"`
	Status             string         `db:"status" json:"status"`
	CreatedAt          time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at" json:"updated_at"`
}

// Application описывает отклик исполнителя на гиг.
type Application struct {
	ID                uuid.UUID    `db:"id" json:"id"`
	GigID             uuid.UUID    `db:"gig_id" json:"gig_id"`
	WorkerID          uuid.UUID    `db:"worker_id" json:"worker_id"`
	Message           *string      `db:"message" json:"message,omitempty"`
	ProposedRateCents *money.Cents `db:"proposed_rate_cents" json:"proposed_rate_cents,omitempty"`
	Status            string       `db:"status" json:"status"`
	CreatedAt         time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time    `db:"updated_at" json:"updated_at"`
}

// ApplicationWithGig объединяет отклик с данными гига.
// Используется платёжным сервисом для проверки прав и статуса.
type ApplicationWithGig struct {
	Application
	GigPosterID uuid.UUID `db:"gig_poster_id" json:"gig_poster_id"`
	GigTitle    string    `db:"gig_title" json:"gig_title"`
	GigStatus   string    `db:"gig_status" json:"gig_status"`
}
