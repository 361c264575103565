package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/gigzone/backend/internal/models"
	"github.com/gigzone/backend/internal/money"
	"github.com/gigzone/backend/internal/pkg/apperror"
	"github.com/gigzone/backend/internal/repository"
)

// WithdrawalStore описывает зависимости сервиса вывода средств.
type WithdrawalStore interface {
	Create(ctx context.Context, req *models.WithdrawalRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.WithdrawalRequest, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.WithdrawalRequest, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, notes *string) (*models.WithdrawalRequest, error)
}

// WithdrawalService отвечает за заявки на вывод средств.
type WithdrawalService struct {
	repo WithdrawalStore
}

// NewWithdrawalService создаёт сервис вывода средств.
func NewWithdrawalService(repo WithdrawalStore) *WithdrawalService {
	return &WithdrawalService{repo: repo}
}

// CreateWithdrawal создаёт заявку на вывод. Минимальная сумма R10,
// комиссия составляет максимум из R5 и 2% от суммы.
func (s *WithdrawalService) CreateWithdrawal(ctx context.Context, userID uuid.UUID, amount money.Cents) (*models.WithdrawalRequest, error) {
	if amount < money.MinWithdrawal {
		return nil, apperror.New(apperror.ErrCodeValidation, "минимальная сумма вывода R10.00")
	}

	fee := money.WithdrawalFee(amount)
	req := &models.WithdrawalRequest{
		UserID:             userID,
		AmountCents:        amount,
		WithdrawalFeeCents: fee,
		NetAmountCents:     amount - fee,
	}

	if err := s.repo.Create(ctx, req); err != nil {
		switch {
		case errors.Is(err, repository.ErrInsufficientFunds):
			return nil, apperror.ErrInsufficientFunds
		case errors.Is(err, repository.ErrWalletNotFound):
			return nil, apperror.ErrWalletNotFound
		}
		return nil, err
	}

	return req, nil
}

// GetWithdrawal возвращает заявку пользователя.
func (s *WithdrawalService) GetWithdrawal(ctx context.Context, id, userID uuid.UUID) (*models.WithdrawalRequest, error) {
	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrWithdrawalNotFound) {
			return nil, apperror.New(apperror.ErrCodeNotFound, "заявка на вывод не найдена")
		}
		return nil, err
	}

	if req.UserID != userID {
		return nil, apperror.ErrForbidden
	}

	return req, nil
}

// ListUserWithdrawals возвращает заявки пользователя.
func (s *WithdrawalService) ListUserWithdrawals(ctx context.Context, userID uuid.UUID) ([]models.WithdrawalRequest, error) {
	return s.repo.ListByUser(ctx, userID)
}

// ProcessWithdrawal переводит заявку в новый статус. Отклонение
// возвращает средства на кошелёк.
func (s *WithdrawalService) ProcessWithdrawal(ctx context.Context, id uuid.UUID, status string, notes *string) (*models.WithdrawalRequest, error) {
	switch status {
	case models.WithdrawalStatusProcessing, models.WithdrawalStatusCompleted, models.WithdrawalStatusRejected:
	default:
		return nil, apperror.New(apperror.ErrCodeValidation, "недопустимый статус заявки")
	}

	req, err := s.repo.UpdateStatus(ctx, id, status, notes)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrWithdrawalNotFound):
			return nil, apperror.New(apperror.ErrCodeNotFound, "заявка на вывод не найдена")
		case errors.Is(err, repository.ErrWithdrawalProcessed):
			return nil, apperror.New(apperror.ErrCodeConflict, "заявка уже обработана")
		}
		return nil, err
	}

	return req, nil
}
