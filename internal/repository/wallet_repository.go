package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/gigzone/backend/internal/models"
	"github.com/gigzone/backend/internal/repository/common"
)

// Ошибки репозитория кошельков.
var (
	ErrWalletNotFound    = errors.New("wallet not found")
	ErrPaymentNotFound   = errors.New("payment not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrPaymentExists     = errors.New("payment already exists")
)

// WalletRepository отвечает за кошельки, журнал операций и оплаты гигов.
// Все изменения баланса идут через транзакции этого репозитория и всегда
// сопровождаются записью в credit_transactions.
type WalletRepository struct {
	db *sqlx.DB
}

// NewWalletRepository создаёт экземпляр репозитория.
func NewWalletRepository(db *sqlx.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

// GetByUserID возвращает кошелёк пользователя.
func (r *WalletRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	return common.GetByField[models.Wallet](ctx, r.db, "wallets", "user_id", userID, ErrWalletNotFound)
}

// GetOrCreate возвращает кошелёк пользователя, создавая пустой при
// первом обращении.
func (r *WalletRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	var wallet models.Wallet
	query := `
		INSERT INTO wallets (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET updated_at = wallets.updated_at
		RETURNING *
	`

	if err := r.db.QueryRowxContext(ctx, query, userID).StructScan(&wallet); err != nil {
		return nil, fmt.Errorf("wallet repository: get or create %w", err)
	}

	return &wallet, nil
}

// Purchase пополняет кошелёк в одной транзакции: блокирует кошелёк,
// зачисляет сумму с бонусом, пишет запись покупки и запись журнала.
func (r *WalletRepository) Purchase(ctx context.Context, purchase *models.CreditPurchase) (*models.CreditTransaction, error) {
	var entry models.CreditTransaction

	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		wallet, err := lockWallet(ctx, tx, purchase.UserID)
		if err != nil {
			return err
		}

		newBalance := wallet.BalanceCents + purchase.CreditsCents
		_, err = tx.ExecContext(ctx, `
			UPDATE wallets SET balance_cents = $2, updated_at = NOW() WHERE id = $1
		`, wallet.ID, newBalance)
		if err != nil {
			return fmt.Errorf("wallet repository: purchase credit %w", err)
		}

		err = tx.QueryRowxContext(ctx, `
			INSERT INTO credit_purchases (user_id, amount_cents, bonus_cents, credits_cents)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at
		`, purchase.UserID, purchase.AmountCents, purchase.BonusCents, purchase.CreditsCents).
			Scan(&purchase.ID, &purchase.CreatedAt)
		if err != nil {
			return fmt.Errorf("wallet repository: insert purchase %w", err)
		}

		description := fmt.Sprintf("Credit purchase of %s", purchase.AmountCents)
		if purchase.BonusCents > 0 {
			description = fmt.Sprintf("Credit purchase of %s with %s bonus", purchase.AmountCents, purchase.BonusCents)
		}

		created, err := insertLedgerEntry(ctx, tx, &models.CreditTransaction{
			UserID:            purchase.UserID,
			AmountCents:       purchase.CreditsCents,
			BalanceAfterCents: newBalance,
			Type:              models.TransactionTypePurchase,
			Status:            "completed",
			Description:       description,
		})
		if err != nil {
			return err
		}

		entry = *created
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

// ProcessGigPayment проводит оплату принятого отклика одной транзакцией.
// Строка gig_payments вставляется первой: уникальность application_id
// даёт не более одной оплаты на отклик даже при конкурентных запросах.
func (r *WalletRepository) ProcessGigPayment(ctx context.Context, payment *models.GigPayment) error {
	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx, `
			INSERT INTO gig_payments (
				application_id, gig_id, payer_id, payee_id,
				gross_amount_cents, service_fee_cents, net_amount_cents, payment_status
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, 'pending')
			RETURNING id, created_at, updated_at
		`,
			payment.ApplicationID, payment.GigID, payment.PayerID, payment.PayeeID,
			payment.GrossAmountCents, payment.ServiceFeeCents, payment.NetAmountCents,
		).Scan(&payment.ID, &payment.CreatedAt, &payment.UpdatedAt)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == "23505" {
				return ErrPaymentExists
			}
			return fmt.Errorf("wallet repository: insert payment %w", err)
		}

		payerWallet, err := lockWallet(ctx, tx, payment.PayerID)
		if err != nil {
			return err
		}
		if payerWallet.BalanceCents < payment.GrossAmountCents {
			return ErrInsufficientFunds
		}

		payeeWallet, err := lockOrCreateWallet(ctx, tx, payment.PayeeID)
		if err != nil {
			return err
		}

		// Списание с плательщика.
		payerBalance := payerWallet.BalanceCents - payment.GrossAmountCents
		_, err = tx.ExecContext(ctx, `
			UPDATE wallets
			SET balance_cents = $2, total_spent_cents = total_spent_cents + $3, updated_at = NOW()
			WHERE id = $1
		`, payerWallet.ID, payerBalance, payment.GrossAmountCents)
		if err != nil {
			return fmt.Errorf("wallet repository: debit payer %w", err)
		}

		if _, err := insertLedgerEntry(ctx, tx, &models.CreditTransaction{
			UserID:            payment.PayerID,
			AmountCents:       -payment.GrossAmountCents,
			BalanceAfterCents: payerBalance,
			Type:              models.TransactionTypeGigPayment,
			Status:            "completed",
			Description:       "Payment for gig work",
			GigID:             &payment.GigID,
			ApplicationID:     &payment.ApplicationID,
		}); err != nil {
			return err
		}

		// Зачисление исполнителю: полная сумма, затем комиссия отдельной
		// записью со ссылкой на запись зачисления.
		payeeAfterGross := payeeWallet.BalanceCents + payment.GrossAmountCents
		payeeEntry, err := insertLedgerEntry(ctx, tx, &models.CreditTransaction{
			UserID:            payment.PayeeID,
			AmountCents:       payment.GrossAmountCents,
			BalanceAfterCents: payeeAfterGross,
			Type:              models.TransactionTypeGigPayment,
			Status:            "completed",
			Description:       "Earnings from gig work",
			GigID:             &payment.GigID,
			ApplicationID:     &payment.ApplicationID,
		})
		if err != nil {
			return err
		}

		payeeBalance := payeeAfterGross - payment.ServiceFeeCents
		if _, err := insertLedgerEntry(ctx, tx, &models.CreditTransaction{
			UserID:                 payment.PayeeID,
			AmountCents:            -payment.ServiceFeeCents,
			BalanceAfterCents:      payeeBalance,
			Type:                   models.TransactionTypeServiceFee,
			Status:                 "completed",
			Description:            "Platform service fee",
			GigID:                  &payment.GigID,
			ApplicationID:          &payment.ApplicationID,
			ReferenceTransactionID: &payeeEntry.ID,
		}); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE wallets
			SET balance_cents = $2, total_earned_cents = total_earned_cents + $3, updated_at = NOW()
			WHERE id = $1
		`, payeeWallet.ID, payeeBalance, payment.NetAmountCents)
		if err != nil {
			return fmt.Errorf("wallet repository: credit payee %w", err)
		}

		err = tx.QueryRowxContext(ctx, `
			UPDATE gig_payments SET payment_status = 'completed', updated_at = NOW() WHERE id = $1
			RETURNING updated_at
		`, payment.ID).Scan(&payment.UpdatedAt)
		if err != nil {
			return fmt.Errorf("wallet repository: complete payment %w", err)
		}

		payment.PaymentStatus = models.PaymentStatusCompleted
		return nil
	})
}

// GetPaymentByApplication возвращает оплату по идентификатору отклика.
func (r *WalletRepository) GetPaymentByApplication(ctx context.Context, applicationID uuid.UUID) (*models.GigPayment, error) {
	var payment models.GigPayment
	err := r.db.GetContext(ctx, &payment, `SELECT * FROM gig_payments WHERE application_id = $1`, applicationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("wallet repository: get payment by application %w", err)
	}
	return &payment, nil
}

// ListTransactions возвращает журнал пользователя от новых записей к старым.
func (r *WalletRepository) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.CreditTransaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var entries []models.CreditTransaction
	err := r.db.SelectContext(ctx, &entries, `
		SELECT * FROM credit_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("wallet repository: list transactions %w", err)
	}

	return entries, nil
}

// lockWallet читает кошелёк под FOR UPDATE.
func lockWallet(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID) (*models.Wallet, error) {
	var wallet models.Wallet
	err := tx.GetContext(ctx, &wallet, `SELECT * FROM wallets WHERE user_id = $1 FOR UPDATE`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("wallet repository: lock wallet %w", err)
	}
	return &wallet, nil
}

// lockOrCreateWallet читает кошелёк под FOR UPDATE, создавая его при
// отсутствии. Вставка с ON CONFLICT DO NOTHING, повторное чтение после
// неё уже видит строку.
func lockOrCreateWallet(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID) (*models.Wallet, error) {
	wallet, err := lockWallet(ctx, tx, userID)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, ErrWalletNotFound) {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO wallets (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, userID)
	if err != nil {
		return nil, fmt.Errorf("wallet repository: create wallet %w", err)
	}

	return lockWallet(ctx, tx, userID)
}

// insertLedgerEntry пишет запись журнала и возвращает её с присвоенным ID.
func insertLedgerEntry(ctx context.Context, tx *sqlx.Tx, entry *models.CreditTransaction) (*models.CreditTransaction, error) {
	err := tx.QueryRowxContext(ctx, `
		INSERT INTO credit_transactions (
			user_id, amount_cents, balance_after_cents, type, status,
			description, gig_id, application_id, reference_transaction_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`,
		entry.UserID, entry.AmountCents, entry.BalanceAfterCents, entry.Type, entry.Status,
		entry.Description, entry.GigID, entry.ApplicationID, entry.ReferenceTransactionID,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("wallet repository: insert ledger entry %w", err)
	}

	return entry, nil
}
