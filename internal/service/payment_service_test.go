package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/gigzone/backend/internal/models"
	"github.com/gigzone/backend/internal/money"
	"github.com/gigzone/backend/internal/pkg/apperror"
	"github.com/gigzone/backend/internal/repository"
)

type mockWalletRepo struct {
	mock.Mock
}

func (m *mockWalletRepo) GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wallet), args.Error(1)
}

func (m *mockWalletRepo) Purchase(ctx context.Context, purchase *models.CreditPurchase) (*models.CreditTransaction, error) {
	args := m.Called(ctx, purchase)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CreditTransaction), args.Error(1)
}

func (m *mockWalletRepo) ProcessGigPayment(ctx context.Context, payment *models.GigPayment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *mockWalletRepo) GetPaymentByApplication(ctx context.Context, applicationID uuid.UUID) (*models.GigPayment, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GigPayment), args.Error(1)
}

func (m *mockWalletRepo) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.CreditTransaction, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]models.CreditTransaction), args.Error(1)
}

type mockApplicationReader struct {
	mock.Mock
}

func (m *mockApplicationReader) GetWithGig(ctx context.Context, id uuid.UUID) (*models.ApplicationWithGig, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ApplicationWithGig), args.Error(1)
}

type mockGigUpdater struct {
	mock.Mock
}

func (m *mockGigUpdater) UpdateStatus(ctx context.Context, gigID uuid.UUID, status string) error {
	args := m.Called(ctx, gigID, status)
	return args.Error(0)
}

type mockProfileUpdater struct {
	mock.Mock
}

func (m *mockProfileUpdater) IncrementJobsCompleted(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func newPaymentServiceForTest() (*PaymentService, *mockWalletRepo, *mockApplicationReader, *mockGigUpdater, *mockProfileUpdater) {
	wallets := new(mockWalletRepo)
	apps := new(mockApplicationReader)
	gigs := new(mockGigUpdater)
	profiles := new(mockProfileUpdater)
	return NewPaymentService(wallets, apps, gigs, profiles), wallets, apps, gigs, profiles
}

func acceptedApplication(payerID uuid.UUID) *models.ApplicationWithGig {
	return &models.ApplicationWithGig{
		Application: models.Application{
			ID:       uuid.New(),
			GigID:    uuid.New(),
			WorkerID: uuid.New(),
			Status:   models.ApplicationStatusAccepted,
		},
		GigPosterID: payerID,
		GigStatus:   models.GigStatusInProgress,
	}
}

func TestPaymentService_PayForApplication_Success(t *testing.T) {
	svc, wallets, apps, gigs, profiles := newPaymentServiceForTest()
	ctx := context.Background()
	payerID := uuid.New()
	app := acceptedApplication(payerID)
	gross := money.Cents(50000)

	apps.On("GetWithGig", ctx, app.ID).Return(app, nil)
	wallets.On("GetPaymentByApplication", ctx, app.ID).Return(nil, repository.ErrPaymentNotFound)
	wallets.On("ProcessGigPayment", ctx, mock.AnythingOfType("*models.GigPayment")).Return(nil)
	gigs.On("UpdateStatus", ctx, app.GigID, models.GigStatusCompleted).Return(nil)
	profiles.On("IncrementJobsCompleted", ctx, app.WorkerID).Return(nil)

	result, err := svc.PayForApplication(ctx, payerID, app.ID, gross)
	assert.NoError(t, err)
	assert.Equal(t, gross, result.GrossAmount)
	assert.Equal(t, gross, result.ServiceFee+result.NetAmount)
	assert.Equal(t, money.Cents(1500), result.ServiceFee)
	assert.Equal(t, payerID, result.Payment.PayerID)
	assert.Equal(t, app.WorkerID, result.Payment.PayeeID)

	wallets.AssertExpectations(t)
	gigs.AssertExpectations(t)
	profiles.AssertExpectations(t)
}

func TestPaymentService_PayForApplication_InvalidAmount(t *testing.T) {
	svc, _, _, _, _ := newPaymentServiceForTest()
	ctx := context.Background()

	_, err := svc.PayForApplication(ctx, uuid.New(), uuid.New(), 0)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "положительной")

	_, err = svc.PayForApplication(ctx, uuid.New(), uuid.New(), -100)
	assert.Error(t, err)
}

func TestPaymentService_PayForApplication_NotPoster(t *testing.T) {
	svc, _, apps, _, _ := newPaymentServiceForTest()
	ctx := context.Background()
	app := acceptedApplication(uuid.New())

	apps.On("GetWithGig", ctx, app.ID).Return(app, nil)

	_, err := svc.PayForApplication(ctx, uuid.New(), app.ID, 10000)
	assert.Error(t, err)

	var appErr *apperror.AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.ErrCodeForbidden, appErr.Code)
}

func TestPaymentService_PayForApplication_NotAccepted(t *testing.T) {
	svc, _, apps, _, _ := newPaymentServiceForTest()
	ctx := context.Background()
	payerID := uuid.New()
	app := acceptedApplication(payerID)
	app.Status = models.ApplicationStatusPending

	apps.On("GetWithGig", ctx, app.ID).Return(app, nil)

	_, err := svc.PayForApplication(ctx, payerID, app.ID, 10000)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "принятый отклик")
}

func TestPaymentService_PayForApplication_AlreadyPaid(t *testing.T) {
	svc, wallets, apps, _, _ := newPaymentServiceForTest()
	ctx := context.Background()
	payerID := uuid.New()
	app := acceptedApplication(payerID)

	apps.On("GetWithGig", ctx, app.ID).Return(app, nil)
	wallets.On("GetPaymentByApplication", ctx, app.ID).Return(nil, repository.ErrPaymentNotFound)
	wallets.On("ProcessGigPayment", ctx, mock.AnythingOfType("*models.GigPayment")).
		Return(repository.ErrPaymentExists)

	_, err := svc.PayForApplication(ctx, payerID, app.ID, 10000)
	assert.ErrorIs(t, err, apperror.ErrPaymentExists)
}

func TestPaymentService_PayForApplication_AlreadyPaidPrecheck(t *testing.T) {
	svc, wallets, apps, _, _ := newPaymentServiceForTest()
	ctx := context.Background()
	payerID := uuid.New()
	app := acceptedApplication(payerID)

	apps.On("GetWithGig", ctx, app.ID).Return(app, nil)
	wallets.On("GetPaymentByApplication", ctx, app.ID).
		Return(&models.GigPayment{ApplicationID: app.ID}, nil)

	_, err := svc.PayForApplication(ctx, payerID, app.ID, 10000)
	assert.ErrorIs(t, err, apperror.ErrPaymentExists)
	wallets.AssertNotCalled(t, "ProcessGigPayment", ctx, mock.Anything)
}

func TestPaymentService_PayForApplication_InsufficientFunds(t *testing.T) {
	svc, wallets, apps, _, _ := newPaymentServiceForTest()
	ctx := context.Background()
	payerID := uuid.New()
	app := acceptedApplication(payerID)

	apps.On("GetWithGig", ctx, app.ID).Return(app, nil)
	wallets.On("GetPaymentByApplication", ctx, app.ID).Return(nil, repository.ErrPaymentNotFound)
	wallets.On("ProcessGigPayment", ctx, mock.AnythingOfType("*models.GigPayment")).
		Return(repository.ErrInsufficientFunds)

	_, err := svc.PayForApplication(ctx, payerID, app.ID, 10000)
	assert.ErrorIs(t, err, apperror.ErrInsufficientFunds)
}

func TestPaymentService_PayForApplication_RetryAfterFailure(t *testing.T) {
	svc, wallets, apps, gigs, profiles := newPaymentServiceForTest()
	ctx := context.Background()
	payerID := uuid.New()
	app := acceptedApplication(payerID)

	apps.On("GetWithGig", ctx, app.ID).Return(app, nil)
	wallets.On("GetPaymentByApplication", ctx, app.ID).Return(nil, repository.ErrPaymentNotFound)
	wallets.On("ProcessGigPayment", ctx, mock.AnythingOfType("*models.GigPayment")).
		Return(errors.New("db connection lost")).Once()

	_, err := svc.PayForApplication(ctx, payerID, app.ID, 10000)
	assert.Error(t, err)

	// Откат транзакции оставил отклик неоплаченным, повтор проходит.
	wallets.On("ProcessGigPayment", ctx, mock.AnythingOfType("*models.GigPayment")).
		Return(nil).Once()
	gigs.On("UpdateStatus", ctx, app.GigID, models.GigStatusCompleted).Return(nil)
	profiles.On("IncrementJobsCompleted", ctx, app.WorkerID).Return(nil)

	result, err := svc.PayForApplication(ctx, payerID, app.ID, 10000)
	assert.NoError(t, err)
	assert.Equal(t, money.Cents(10000), result.GrossAmount)
	wallets.AssertExpectations(t)
}

func TestPaymentService_PayForApplication_ApplicationNotFound(t *testing.T) {
	svc, _, apps, _, _ := newPaymentServiceForTest()
	ctx := context.Background()
	applicationID := uuid.New()

	apps.On("GetWithGig", ctx, applicationID).Return(nil, repository.ErrApplicationNotFound)

	_, err := svc.PayForApplication(ctx, uuid.New(), applicationID, 10000)
	assert.ErrorIs(t, err, apperror.ErrApplicationNotFound)
}

func TestPaymentService_PurchaseCredits_BelowMinimum(t *testing.T) {
	svc, _, _, _, _ := newPaymentServiceForTest()
	ctx := context.Background()

	_, err := svc.PurchaseCredits(ctx, uuid.New(), 50)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "минимальная сумма")
}

func TestPaymentService_PurchaseCredits_WithBonus(t *testing.T) {
	svc, wallets, _, _, _ := newPaymentServiceForTest()
	ctx := context.Background()
	userID := uuid.New()

	// R200 даёт бонус 5% целыми рандами: R10.
	expected := &models.CreditTransaction{ID: uuid.New(), UserID: userID}
	wallets.On("Purchase", ctx, mock.MatchedBy(func(p *models.CreditPurchase) bool {
		return p.AmountCents == 20000 && p.BonusCents == 1000 && p.CreditsCents == 21000
	})).Return(expected, nil)

	entry, err := svc.PurchaseCredits(ctx, userID, 20000)
	assert.NoError(t, err)
	assert.Equal(t, expected, entry)
	wallets.AssertExpectations(t)
}

func TestPaymentService_PurchaseCredits_NoBonusBelowThreshold(t *testing.T) {
	svc, wallets, _, _, _ := newPaymentServiceForTest()
	ctx := context.Background()
	userID := uuid.New()

	expected := &models.CreditTransaction{ID: uuid.New(), UserID: userID}
	wallets.On("Purchase", ctx, mock.MatchedBy(func(p *models.CreditPurchase) bool {
		return p.AmountCents == 5000 && p.BonusCents == 0
	})).Return(expected, nil)

	_, err := svc.PurchaseCredits(ctx, userID, 5000)
	assert.NoError(t, err)
}

func TestPaymentService_ListTransactions_LimitNormalized(t *testing.T) {
	svc, wallets, _, _, _ := newPaymentServiceForTest()
	ctx := context.Background()
	userID := uuid.New()

	wallets.On("ListTransactions", ctx, userID, 50, 0).Return([]models.CreditTransaction{}, nil)

	_, err := svc.ListTransactions(ctx, userID, 0, 0)
	assert.NoError(t, err)
	wallets.AssertExpectations(t)
}
