package dto

import (
	"time"
)

// Денежные суммы в API принимаются в рандах, внутри система работает
// в центах.

// RegisterRequest — тело запроса регистрации.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Username string `json:"username"`
	UserType string `json:"user_type"`
	FullName string `json:"full_name"`
}

// LoginRequest — тело запроса входа.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest — тело запроса обновления токенов.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// CreateGigRequest — тело запроса создания гига.
type CreateGigRequest struct {
	Title              string   `json:"title" binding:"required"`
	Description        string   `json:"description" binding:"required"`
	Category           string   `json:"category" binding:"required"`
	Location           string   `json:"location" binding:"required"`
	BudgetMin          *float64 `json:"budget_min"`
	BudgetMax          *float64 `json:"budget_max"`
	DurationHours      *int     `json:"duration_hours"`
	IsUrgent           bool     `json:"is_urgent"`
	PreferredStartDate *string  `json:"preferred_start_date"`
	RequiredSkills     []string `json:"required_skills"`
	ContactPhone       *string  `json:"contact_phone"`
}

// UpdateGigRequest — тело запроса редактирования гига.
type UpdateGigRequest struct {
	Title              string   `json:"title" binding:"required"`
	Description        string   `json:"description" binding:"required"`
	Category           string   `json:"category" binding:"required"`
	Location           string   `json:"location" binding:"required"`
	BudgetMin          *float64 `json:"budget_min"`
	BudgetMax          *float64 `json:"budget_max"`
	DurationHours      *int     `json:"duration_hours"`
	IsUrgent           bool     `json:"is_urgent"`
	PreferredStartDate *string  `json:"preferred_start_date"`
	RequiredSkills     []string `json:"required_skills"`
	ContactPhone       *string  `json:"contact_phone"`
}

// ApplyRequest — тело отклика на гиг.
type ApplyRequest struct {
	Message      *string  `json:"message"`
	ProposedRate *float64 `json:"proposed_rate"`
}

// PayGigRequest — тело запроса оплаты принятого отклика.
type PayGigRequest struct {
	ApplicationID string  `json:"application_id" binding:"required"`
	Amount        float64 `json:"amount" binding:"required"`
}

// PurchaseCreditsRequest — тело запроса пополнения кошелька.
type PurchaseCreditsRequest struct {
	Amount float64 `json:"amount" binding:"required"`
}

// WithdrawRequest — тело заявки на вывод средств.
type WithdrawRequest struct {
	Amount float64 `json:"amount" binding:"required"`
}

// ProcessWithdrawalRequest — тело решения по заявке на вывод.
type ProcessWithdrawalRequest struct {
	Status string  `json:"status" binding:"required"`
	Notes  *string `json:"notes"`
}

// SendMessageRequest — тело отправки сообщения в беседу.
type SendMessageRequest struct {
	Content     string `json:"content" binding:"required"`
	MessageType string `json:"message_type"`
}

// StartConversationRequest — тело открытия беседы по отклику.
type StartConversationRequest struct {
	ApplicationID string `json:"application_id" binding:"required"`
}

// CreateReviewRequest — тело создания отзыва.
type CreateReviewRequest struct {
	GigID      string  `json:"gig_id" binding:"required"`
	Rating     int     `json:"rating" binding:"required"`
	ReviewText *string `json:"review_text"`
}

// CreateReportRequest — тело жалобы на пользователя.
type CreateReportRequest struct {
	ReportedUserID string `json:"reported_user_id" binding:"required"`
	ReportType     string `json:"report_type" binding:"required"`
	Description    string `json:"description" binding:"required"`
}

// UpdateProfileRequest — тело обновления профиля.
type UpdateProfileRequest struct {
	FullName string  `json:"full_name" binding:"required"`
	Bio      *string `json:"bio"`
	Location *string `json:"location"`
}

// SendPhoneCodeRequest — тело запроса кода подтверждения телефона.
type SendPhoneCodeRequest struct {
	Phone string `json:"phone" binding:"required"`
}

// VerifyPhoneCodeRequest — тело проверки кода подтверждения.
type VerifyPhoneCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// SubmitSAIDRequest — тело подачи SA ID на проверку.
type SubmitSAIDRequest struct {
	IDNumber string `json:"id_number" binding:"required"`
}

// ReviewSAIDRequest — тело решения модератора по SA ID.
type ReviewSAIDRequest struct {
	Status string  `json:"status" binding:"required"`
	Score  *int    `json:"score"`
	Notes  *string `json:"notes"`
}

// ParsePreferredStartDate разбирает дату начала из RFC3339.
func (r *CreateGigRequest) ParsePreferredStartDate() (*time.Time, error) {
	return parseOptionalTime(r.PreferredStartDate)
}

// ParsePreferredStartDate разбирает дату начала из RFC3339.
func (r *UpdateGigRequest) ParsePreferredStartDate() (*time.Time, error) {
	return parseOptionalTime(r.PreferredStartDate)
}

func parseOptionalTime(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, *raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
