package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/gigzone/backend/internal/logger"
	"github.com/gigzone/backend/internal/models"
	"github.com/gigzone/backend/internal/money"
	"github.com/gigzone/backend/internal/pkg/apperror"
	"github.com/gigzone/backend/internal/repository"
)

// WalletRepository описывает зависимости платёжного сервиса от кошельков.
type WalletRepository interface {
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.Wallet, error)
	Purchase(ctx context.Context, purchase *models.CreditPurchase) (*models.CreditTransaction, error)
	ProcessGigPayment(ctx context.Context, payment *models.GigPayment) error
	GetPaymentByApplication(ctx context.Context, applicationID uuid.UUID) (*models.GigPayment, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.CreditTransaction, error)
}

// PaymentApplicationReader отдаёт отклик вместе с данными гига.
type PaymentApplicationReader interface {
	GetWithGig(ctx context.Context, id uuid.UUID) (*models.ApplicationWithGig, error)
}

// PaymentGigUpdater переводит гиг в завершённый статус после оплаты.
type PaymentGigUpdater interface {
	UpdateStatus(ctx context.Context, gigID uuid.UUID, status string) error
}

// PaymentProfileUpdater обновляет счётчик завершённых работ исполнителя.
type PaymentProfileUpdater interface {
	IncrementJobsCompleted(ctx context.Context, userID uuid.UUID) error
}

// PaymentService отвечает за кошелёк, пополнения и оплату гигов.
type PaymentService struct {
	wallets      WalletRepository
	applications PaymentApplicationReader
	gigs         PaymentGigUpdater
	profiles     PaymentProfileUpdater
}

// PaymentResult возвращает итог оплаты гига.
type PaymentResult struct {
	Payment     *models.GigPayment
	GrossAmount money.Cents
	ServiceFee  money.Cents
	NetAmount   money.Cents
}

// NewPaymentService создаёт платёжный сервис.
func NewPaymentService(
	wallets WalletRepository,
	applications PaymentApplicationReader,
	gigs PaymentGigUpdater,
	profiles PaymentProfileUpdater,
) *PaymentService {
	return &PaymentService{
		wallets:      wallets,
		applications: applications,
		gigs:         gigs,
		profiles:     profiles,
	}
}

// GetWallet возвращает кошелёк пользователя, создавая пустой при первом
// обращении.
func (s *PaymentService) GetWallet(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	return s.wallets.GetOrCreate(ctx, userID)
}

// PurchaseCredits пополняет кошелёк. Минимальная сумма R1, при покупке
// от R100 начисляется бонус 5% целыми рандами.
func (s *PaymentService) PurchaseCredits(ctx context.Context, userID uuid.UUID, amount money.Cents) (*models.CreditTransaction, error) {
	if amount < money.MinPurchase {
		return nil, apperror.New(apperror.ErrCodeValidation, "минимальная сумма пополнения R1.00")
	}

	bonus := money.PurchaseBonus(amount)
	purchase := &models.CreditPurchase{
		UserID:       userID,
		AmountCents:  amount,
		BonusCents:   bonus,
		CreditsCents: amount + bonus,
	}

	entry, err := s.wallets.Purchase(ctx, purchase)
	if err != nil {
		if errors.Is(err, repository.ErrWalletNotFound) {
			// Кошелёк ещё не создан, создаём и повторяем один раз.
			if _, cerr := s.wallets.GetOrCreate(ctx, userID); cerr != nil {
				return nil, cerr
			}
			return s.wallets.Purchase(ctx, purchase)
		}
		return nil, err
	}

	return entry, nil
}

// PayForApplication проводит оплату принятого отклика.
// Платит всегда автор гига, оплата возможна ровно один раз.
func (s *PaymentService) PayForApplication(ctx context.Context, payerID, applicationID uuid.UUID, gross money.Cents) (*PaymentResult, error) {
	if gross <= 0 {
		return nil, apperror.New(apperror.ErrCodeValidation, "сумма оплаты должна быть положительной")
	}

	app, err := s.applications.GetWithGig(ctx, applicationID)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return nil, apperror.ErrApplicationNotFound
		}
		return nil, err
	}

	if app.GigPosterID != payerID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "оплатить отклик может только автор гига")
	}

	if app.Status != models.ApplicationStatusAccepted {
		return nil, apperror.New(apperror.ErrCodeValidation, "оплатить можно только принятый отклик")
	}

	if app.WorkerID == payerID {
		return nil, apperror.New(apperror.ErrCodeValidation, "нельзя оплатить собственный отклик")
	}

	// Предварительная проверка повторной оплаты. От гонок защищает
	// уникальный индекс по application_id внутри транзакции.
	if _, err := s.wallets.GetPaymentByApplication(ctx, applicationID); err == nil {
		return nil, apperror.ErrPaymentExists
	} else if !errors.Is(err, repository.ErrPaymentNotFound) {
		return nil, err
	}

	fee, net := money.SplitGigPayment(gross)
	payment := &models.GigPayment{
		ApplicationID:    app.ID,
		GigID:            app.GigID,
		PayerID:          payerID,
		PayeeID:          app.WorkerID,
		GrossAmountCents: gross,
		ServiceFeeCents:  fee,
		NetAmountCents:   net,
	}

	if err := s.wallets.ProcessGigPayment(ctx, payment); err != nil {
		switch {
		case errors.Is(err, repository.ErrPaymentExists):
			return nil, apperror.ErrPaymentExists
		case errors.Is(err, repository.ErrInsufficientFunds):
			return nil, apperror.ErrInsufficientFunds
		case errors.Is(err, repository.ErrWalletNotFound):
			return nil, apperror.ErrWalletNotFound
		}
		return nil, err
	}

	// Оплата уже проведена, сопутствующие обновления не откатывают её.
	if err := s.gigs.UpdateStatus(ctx, app.GigID, models.GigStatusCompleted); err != nil {
		if logger.Log != nil {
			logger.Log.WithFields(map[string]interface{}{
				"gig_id": app.GigID,
				"error":  err.Error(),
			}).Warn("payment service: не удалось завершить гиг после оплаты")
		}
	}

	if err := s.profiles.IncrementJobsCompleted(ctx, app.WorkerID); err != nil {
		if logger.Log != nil {
			logger.Log.WithFields(map[string]interface{}{
				"worker_id": app.WorkerID,
				"error":     err.Error(),
			}).Warn("payment service: не удалось обновить счётчик работ")
		}
	}

	return &PaymentResult{
		Payment:     payment,
		GrossAmount: gross,
		ServiceFee:  fee,
		NetAmount:   net,
	}, nil
}

// GetPaymentByApplication возвращает оплату по отклику.
func (s *PaymentService) GetPaymentByApplication(ctx context.Context, applicationID uuid.UUID) (*models.GigPayment, error) {
	payment, err := s.wallets.GetPaymentByApplication(ctx, applicationID)
	if err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			return nil, apperror.New(apperror.ErrCodeNotFound, "оплата не найдена")
		}
		return nil, err
	}
	return payment, nil
}

// ListTransactions возвращает журнал операций пользователя.
func (s *PaymentService) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.CreditTransaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.wallets.ListTransactions(ctx, userID, limit, offset)
}
