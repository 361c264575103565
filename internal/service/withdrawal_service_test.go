package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/gigzone/backend/internal/models"
	"github.com/gigzone/backend/internal/money"
	"github.com/gigzone/backend/internal/pkg/apperror"
	"github.com/gigzone/backend/internal/repository"
)

type mockWithdrawalStore struct {
	mock.Mock
}

func (m *mockWithdrawalStore) Create(ctx context.Context, req *models.WithdrawalRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *mockWithdrawalStore) GetByID(ctx context.Context, id uuid.UUID) (*models.WithdrawalRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WithdrawalRequest), args.Error(1)
}

func (m *mockWithdrawalStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.WithdrawalRequest, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.WithdrawalRequest), args.Error(1)
}

func (m *mockWithdrawalStore) UpdateStatus(ctx context.Context, id uuid.UUID, status string, notes *string) (*models.WithdrawalRequest, error) {
	args := m.Called(ctx, id, status, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WithdrawalRequest), args.Error(1)
}

func TestWithdrawalService_Create_FlatFeeDominates(t *testing.T) {
	repo := new(mockWithdrawalStore)
	svc := NewWithdrawalService(repo)
	ctx := context.Background()
	userID := uuid.New()

	// Для R100 комиссия 2% (R2) меньше фиксированной R5, берём R5.
	repo.On("Create", ctx, mock.MatchedBy(func(r *models.WithdrawalRequest) bool {
		return r.AmountCents == 10000 &&
			r.WithdrawalFeeCents == 500 &&
			r.NetAmountCents == 9500
	})).Return(nil)

	req, err := svc.CreateWithdrawal(ctx, userID, 10000)
	assert.NoError(t, err)
	assert.Equal(t, money.Cents(500), req.WithdrawalFeeCents)
	repo.AssertExpectations(t)
}

func TestWithdrawalService_Create_PercentFeeDominates(t *testing.T) {
	repo := new(mockWithdrawalStore)
	svc := NewWithdrawalService(repo)
	ctx := context.Background()

	// Для R1000 комиссия 2% даёт R20, это больше фиксированной R5.
	repo.On("Create", ctx, mock.MatchedBy(func(r *models.WithdrawalRequest) bool {
		return r.WithdrawalFeeCents == 2000 && r.NetAmountCents == 98000
	})).Return(nil)

	_, err := svc.CreateWithdrawal(ctx, uuid.New(), 100000)
	assert.NoError(t, err)
}

func TestWithdrawalService_Create_BelowMinimum(t *testing.T) {
	repo := new(mockWithdrawalStore)
	svc := NewWithdrawalService(repo)
	ctx := context.Background()

	_, err := svc.CreateWithdrawal(ctx, uuid.New(), 999)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "минимальная сумма вывода")
}

func TestWithdrawalService_Create_InsufficientFunds(t *testing.T) {
	repo := new(mockWithdrawalStore)
	svc := NewWithdrawalService(repo)
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*models.WithdrawalRequest")).
		Return(repository.ErrInsufficientFunds)

	_, err := svc.CreateWithdrawal(ctx, uuid.New(), 10000)
	assert.ErrorIs(t, err, apperror.ErrInsufficientFunds)
}

func TestWithdrawalService_Get_ForeignWithdrawal(t *testing.T) {
	repo := new(mockWithdrawalStore)
	svc := NewWithdrawalService(repo)
	ctx := context.Background()

	req := &models.WithdrawalRequest{ID: uuid.New(), UserID: uuid.New()}
	repo.On("GetByID", ctx, req.ID).Return(req, nil)

	_, err := svc.GetWithdrawal(ctx, req.ID, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestWithdrawalService_Process_InvalidStatus(t *testing.T) {
	repo := new(mockWithdrawalStore)
	svc := NewWithdrawalService(repo)
	ctx := context.Background()

	_, err := svc.ProcessWithdrawal(ctx, uuid.New(), "cancelled", nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "недопустимый статус")
}

func TestWithdrawalService_Process_AlreadyProcessed(t *testing.T) {
	repo := new(mockWithdrawalStore)
	svc := NewWithdrawalService(repo)
	ctx := context.Background()
	id := uuid.New()

	repo.On("UpdateStatus", ctx, id, models.WithdrawalStatusCompleted, (*string)(nil)).
		Return(nil, repository.ErrWithdrawalProcessed)

	_, err := svc.ProcessWithdrawal(ctx, id, models.WithdrawalStatusCompleted, nil)
	assert.True(t, apperror.IsConflict(err))
	assert.Contains(t, err.Error(), "уже обработана")
}

func TestWithdrawalService_Process_NotFound(t *testing.T) {
	repo := new(mockWithdrawalStore)
	svc := NewWithdrawalService(repo)
	ctx := context.Background()
	id := uuid.New()

	repo.On("UpdateStatus", ctx, id, models.WithdrawalStatusProcessing, (*string)(nil)).
		Return(nil, repository.ErrWithdrawalNotFound)

	_, err := svc.ProcessWithdrawal(ctx, id, models.WithdrawalStatusProcessing, nil)
	assert.True(t, apperror.IsNotFound(err))
}

func TestWithdrawalService_Process_Rejected(t *testing.T) {
	repo := new(mockWithdrawalStore)
	svc := NewWithdrawalService(repo)
	ctx := context.Background()
	id := uuid.New()

	rejected := &models.WithdrawalRequest{ID: id, Status: models.WithdrawalStatusRejected}
	repo.On("UpdateStatus", ctx, id, models.WithdrawalStatusRejected, (*string)(nil)).
		Return(rejected, nil)

	req, err := svc.ProcessWithdrawal(ctx, id, models.WithdrawalStatusRejected, nil)
	assert.NoError(t, err)
	assert.Equal(t, models.WithdrawalStatusRejected, req.Status)
}
