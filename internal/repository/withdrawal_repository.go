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

// Ошибки репозитория заявок на вывод.
var (
	ErrWithdrawalNotFound  = errors.New("withdrawal not found")
	ErrWithdrawalProcessed = errors.New("withdrawal already processed")
)

// WithdrawalRepository отвечает за заявки на вывод средств.
// Баланс списывается при создании заявки, отклонение возвращает средства
// компенсирующей записью журнала.
type WithdrawalRepository struct {
	db *sqlx.DB
}

// NewWithdrawalRepository создаёт экземпляр репозитория.
func NewWithdrawalRepository(db *sqlx.DB) *WithdrawalRepository {
	return &WithdrawalRepository{db: db}
}

// Create создаёт заявку на вывод и списывает сумму с кошелька в одной
// транзакции вместе с записью журнала.
func (r *WithdrawalRepository) Create(ctx context.Context, req *models.WithdrawalRequest) error {
	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		wallet, err := lockWallet(ctx, tx, req.UserID)
		if err != nil {
			return err
		}
		if wallet.BalanceCents < req.AmountCents {
			return ErrInsufficientFunds
		}

		newBalance := wallet.BalanceCents - req.AmountCents
		_, err = tx.ExecContext(ctx, `
			UPDATE wallets SET balance_cents = $2, updated_at = NOW() WHERE id = $1
		`, wallet.ID, newBalance)
		if err != nil {
			return fmt.Errorf("withdrawal repository: debit wallet %w", err)
		}

		err = tx.QueryRowxContext(ctx, `
			INSERT INTO withdrawal_requests (user_id, amount_cents, withdrawal_fee_cents, net_amount_cents, status)
			VALUES ($1, $2, $3, $4, 'pending')
			RETURNING id, status, created_at, updated_at
		`, req.UserID, req.AmountCents, req.WithdrawalFeeCents, req.NetAmountCents).
			Scan(&req.ID, &req.Status, &req.CreatedAt, &req.UpdatedAt)
		if err != nil {
			return fmt.Errorf("withdrawal repository: insert request %w", err)
		}

		_, err = insertLedgerEntry(ctx, tx, &models.CreditTransaction{
			UserID:            req.UserID,
			AmountCents:       -req.AmountCents,
			BalanceAfterCents: newBalance,
			Type:              models.TransactionTypeWithdrawal,
			Status:            "completed",
			Description:       fmt.Sprintf("Withdrawal request, payout %s after %s fee", req.NetAmountCents, req.WithdrawalFeeCents),
		})
		return err
	})
}

// GetByID возвращает заявку по идентификатору.
func (r *WithdrawalRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.WithdrawalRequest, error) {
	return common.GetByID[models.WithdrawalRequest](ctx, r.db, "withdrawal_requests", id, ErrWithdrawalNotFound)
}

// ListByUser возвращает заявки пользователя от новых к старым.
func (r *WithdrawalRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.WithdrawalRequest, error) {
	var requests []models.WithdrawalRequest
	err := r.db.SelectContext(ctx, &requests, `
		SELECT * FROM withdrawal_requests WHERE user_id = $1 ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("withdrawal repository: list by user %w", err)
	}
	return requests, nil
}

// UpdateStatus переводит заявку в новый статус. Переходы разрешены
// только из pending и processing.
func (r *WithdrawalRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, notes *string) (*models.WithdrawalRequest, error) {
	var req models.WithdrawalRequest

	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			UPDATE withdrawal_requests
			SET status = $2,
				processing_notes = COALESCE($3, processing_notes),
				processed_at = CASE WHEN $2 IN ('completed', 'rejected') THEN NOW() ELSE processed_at END,
				updated_at = NOW()
			WHERE id = $1 AND status IN ('pending', 'processing')
			RETURNING *
		`
		if err := tx.QueryRowxContext(ctx, query, id, status, notes).StructScan(&req); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				// Заявка либо не существует, либо уже в терминальном статусе.
				var exists bool
				if gerr := tx.GetContext(ctx, &exists, `
					SELECT EXISTS (SELECT 1 FROM withdrawal_requests WHERE id = $1)
				`, id); gerr != nil {
					return fmt.Errorf("withdrawal repository: check request %w", gerr)
				}
				if exists {
					return ErrWithdrawalProcessed
				}
				return ErrWithdrawalNotFound
			}
			return fmt.Errorf("withdrawal repository: update status %w", err)
		}

		if status != models.WithdrawalStatusRejected {
			return nil
		}

		// Возврат средств по отклонённой заявке.
		wallet, err := lockWallet(ctx, tx, req.UserID)
		if err != nil {
			return err
		}

		newBalance := wallet.BalanceCents + req.AmountCents
		_, err = tx.ExecContext(ctx, `
			UPDATE wallets SET balance_cents = $2, updated_at = NOW() WHERE id = $1
		`, wallet.ID, newBalance)
		if err != nil {
			return fmt.Errorf("withdrawal repository: refund wallet %w", err)
		}

		_, err = insertLedgerEntry(ctx, tx, &models.CreditTransaction{
			UserID:            req.UserID,
			AmountCents:       req.AmountCents,
			BalanceAfterCents: newBalance,
			Type:              models.TransactionTypeWithdrawal,
			Status:            "completed",
			Description:       "Withdrawal request rejected, funds returned",
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	return &req, nil
}
