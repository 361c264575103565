package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/gigzone/backend/internal/money"
)

// Wallet представляет внутренний кошелёк пользователя.
// Баланс меняется только внутри транзакций репозитория вместе с записью
// в журнал, прямых записей из хэндлеров нет.
type Wallet struct {
	ID               uuid.UUID   `db:"id" json:"id"`
	UserID           uuid.UUID   `db:"user_id" json:"user_id"`
	BalanceCents     money.Cents `db:"balance_cents" json:"balance_cents"`
	TotalEarnedCents money.Cents `db:"total_earned_cents" json:"total_earned_cents"`
	TotalSpentCents  money.Cents `db:"total_spent_cents" json:"total_spent_cents"`
	CreatedAt        time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time   `db:"updated_at" json:"updated_at"`
}

// CreditTransaction — неизменяемая запись журнала кошелька.
// Создаётся ровно один раз, никогда не обновляется и не удаляется.
type CreditTransaction struct {
	ID                     uuid.UUID   `db:"id" json:"id"`
	UserID                 uuid.UUID   `db:"user_id" json:"user_id"`
	AmountCents            money.Cents `db:"amount_cents" json:"amount_cents"`
	BalanceAfterCents      money.Cents `db:"balance_after_cents" json:"balance_after_cents"`
	Type                   string      `db:"type" json:"type"`
	Status                 string      `db:"status" json:"status"`
	Description            string      `db:"description" json:"description"`
	GigID                  *uuid.UUID  `db:"gig_id" json:"gig_id,omitempty"`
	ApplicationID          *uuid.UUID  `db:"application_id" json:"application_id,omitempty"`
	ReferenceTransactionID *uuid.UUID  `db:"reference_transaction_id" json:"reference_transaction_id,omitempty"`
	CreatedAt              time.Time   `db:"created_at" json:"created_at"`
}

// GigPayment фиксирует оплату принятого отклика.
// Уникальность application_id на уровне БД гарантирует не более одной
// оплаты на отклик.
type GigPayment struct {
	ID               uuid.UUID   `db:"id" json:"id"`
	ApplicationID    uuid.UUID   `db:"application_id" json:"application_id"`
	GigID            uuid.UUID   `db:"gig_id" json:"gig_id"`
	PayerID          uuid.UUID   `db:"payer_id" json:"payer_id"`
	PayeeID          uuid.UUID   `db:"payee_id" json:"payee_id"`
	GrossAmountCents money.Cents `db:"gross_amount_cents" json:"gross_amount_cents"`
	ServiceFeeCents  money.Cents `db:"service_fee_cents" json:"service_fee_cents"`
	NetAmountCents   money.Cents `db:"net_amount_cents" json:"net_amount_cents"`
	PaymentStatus    string      `db:"payment_status" json:"payment_status"`
	CreatedAt        time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time   `db:"updated_at" json:"updated_at"`
}

// CreditPurchase фиксирует пополнение кошелька.
type CreditPurchase struct {
	ID           uuid.UUID   `db:"id" json:"id"`
	UserID       uuid.UUID   `db:"user_id" json:"user_id"`
	AmountCents  money.Cents `db:"amount_cents" json:"amount_cents"`
	BonusCents   money.Cents `db:"bonus_cents" json:"bonus_cents"`
	CreditsCents money.Cents `db:"credits_cents" json:"credits_cents"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
}

// WithdrawalRequest — заявка на вывод средств.
// Баланс списывается атомарно при создании заявки, при отклонении
// возвращается компенсирующей записью журнала.
type WithdrawalRequest struct {
	ID                 uuid.UUID   `db:"id" json:"id"`
	UserID             uuid.UUID   `db:"user_id" json:"user_id"`
	AmountCents        money.Cents `db:"amount_cents" json:"amount_cents"`
	WithdrawalFeeCents money.Cents `db:"withdrawal_fee_cents" json:"withdrawal_fee_cents"`
	NetAmountCents     money.Cents `db:"net_amount_cents" json:"net_amount_cents"`
	Status             string      `db:"status" json:"status"`
	ProcessingNotes    *string     `db:"processing_notes" json:"processing_notes,omitempty"`
	ProcessedAt        *time.Time  `db:"processed_at" json:"processed_at,omitempty"`
	CreatedAt          time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time   `db:"updated_at" json:"updated_at"`
}
