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

type mockApplicationStore struct {
	mock.Mock
}

func (m *mockApplicationStore) Create(ctx context.Context, app *models.Application) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}

func (m *mockApplicationStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Application), args.Error(1)
}

func (m *mockApplicationStore) GetWithGig(ctx context.Context, id uuid.UUID) (*models.ApplicationWithGig, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ApplicationWithGig), args.Error(1)
}

func (m *mockApplicationStore) ListByGig(ctx context.Context, gigID uuid.UUID) ([]models.Application, error) {
	args := m.Called(ctx, gigID)
	return args.Get(0).([]models.Application), args.Error(1)
}

func (m *mockApplicationStore) ListByWorker(ctx context.Context, workerID uuid.UUID) ([]models.ApplicationWithGig, error) {
	args := m.Called(ctx, workerID)
	return args.Get(0).([]models.ApplicationWithGig), args.Error(1)
}

func (m *mockApplicationStore) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Application, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Application), args.Error(1)
}

func (m *mockApplicationStore) AcceptAndRejectOthers(ctx context.Context, app *models.Application) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}

type mockGigReader struct {
	mock.Mock
}

func (m *mockGigReader) GetByID(ctx context.Context, id uuid.UUID) (*models.Gig, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Gig), args.Error(1)
}

func openGig() *models.Gig {
	return &models.Gig{
		ID:       uuid.New(),
		PosterID: uuid.New(),
		Status:   models.GigStatusOpen,
	}
}

func TestApplicationService_Apply_Success(t *testing.T) {
	repo := new(mockApplicationStore)
	gigs := new(mockGigReader)
	svc := NewApplicationService(repo, gigs)
	ctx := context.Background()
	gig := openGig()
	workerID := uuid.New()
	rate := money.Cents(15000)

	gigs.On("GetByID", ctx, gig.ID).Return(gig, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*models.Application")).Return(nil)

	app, err := svc.Apply(ctx, workerID, ApplyInput{
		GigID:             gig.ID,
		ProposedRateCents: &rate,
	})
	assert.NoError(t, err)
	assert.Equal(t, workerID, app.WorkerID)
	assert.Equal(t, gig.ID, app.GigID)
	repo.AssertExpectations(t)
}

func TestApplicationService_Apply_OwnGig(t *testing.T) {
	repo := new(mockApplicationStore)
	gigs := new(mockGigReader)
	svc := NewApplicationService(repo, gigs)
	ctx := context.Background()
	gig := openGig()

	gigs.On("GetByID", ctx, gig.ID).Return(gig, nil)

	_, err := svc.Apply(ctx, gig.PosterID, ApplyInput{GigID: gig.ID})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "собственный гиг")
}

func TestApplicationService_Apply_GigNotOpen(t *testing.T) {
	repo := new(mockApplicationStore)
	gigs := new(mockGigReader)
	svc := NewApplicationService(repo, gigs)
	ctx := context.Background()
	gig := openGig()
	gig.Status = models.GigStatusInProgress

	gigs.On("GetByID", ctx, gig.ID).Return(gig, nil)

	_, err := svc.Apply(ctx, uuid.New(), ApplyInput{GigID: gig.ID})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "открытый гиг")
}

func TestApplicationService_Apply_Duplicate(t *testing.T) {
	repo := new(mockApplicationStore)
	gigs := new(mockGigReader)
	svc := NewApplicationService(repo, gigs)
	ctx := context.Background()
	gig := openGig()

	gigs.On("GetByID", ctx, gig.ID).Return(gig, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*models.Application")).
		Return(repository.ErrApplicationExists)

	_, err := svc.Apply(ctx, uuid.New(), ApplyInput{GigID: gig.ID})
	assert.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
	assert.Contains(t, err.Error(), "уже откликнулись")
}

func TestApplicationService_Accept_Success(t *testing.T) {
	repo := new(mockApplicationStore)
	gigs := new(mockGigReader)
	svc := NewApplicationService(repo, gigs)
	ctx := context.Background()
	posterID := uuid.New()

	app := &models.ApplicationWithGig{
		Application: models.Application{
			ID:       uuid.New(),
			GigID:    uuid.New(),
			WorkerID: uuid.New(),
			Status:   models.ApplicationStatusPending,
		},
		GigPosterID: posterID,
	}

	repo.On("GetWithGig", ctx, app.ID).Return(app, nil)
	repo.On("AcceptAndRejectOthers", ctx, mock.AnythingOfType("*models.Application")).Return(nil)

	accepted, err := svc.Accept(ctx, app.ID, posterID)
	assert.NoError(t, err)
	assert.Equal(t, app.ID, accepted.ID)
	repo.AssertExpectations(t)
}

func TestApplicationService_Accept_NotPoster(t *testing.T) {
	repo := new(mockApplicationStore)
	gigs := new(mockGigReader)
	svc := NewApplicationService(repo, gigs)
	ctx := context.Background()

	app := &models.ApplicationWithGig{
		Application: models.Application{
			ID:     uuid.New(),
			Status: models.ApplicationStatusPending,
		},
		GigPosterID: uuid.New(),
	}

	repo.On("GetWithGig", ctx, app.ID).Return(app, nil)

	_, err := svc.Accept(ctx, app.ID, uuid.New())
	assert.Error(t, err)

	var appErr *apperror.AppError
	if assert.ErrorAs(t, err, &appErr) {
		assert.Equal(t, apperror.ErrCodeForbidden, appErr.Code)
	}
}

func TestApplicationService_Accept_AlreadyProcessed(t *testing.T) {
	repo := new(mockApplicationStore)
	gigs := new(mockGigReader)
	svc := NewApplicationService(repo, gigs)
	ctx := context.Background()
	posterID := uuid.New()

	app := &models.ApplicationWithGig{
		Application: models.Application{
			ID:     uuid.New(),
			Status: models.ApplicationStatusAccepted,
		},
		GigPosterID: posterID,
	}

	repo.On("GetWithGig", ctx, app.ID).Return(app, nil)

	_, err := svc.Accept(ctx, app.ID, posterID)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "уже обработан")
}

func TestApplicationService_Withdraw_OnlyOwnPending(t *testing.T) {
	repo := new(mockApplicationStore)
	gigs := new(mockGigReader)
	svc := NewApplicationService(repo, gigs)
	ctx := context.Background()
	workerID := uuid.New()

	app := &models.Application{
		ID:       uuid.New(),
		WorkerID: workerID,
		Status:   models.ApplicationStatusPending,
	}

	repo.On("GetByID", ctx, app.ID).Return(app, nil)

	// Чужой отклик отзывать нельзя.
	_, err := svc.Withdraw(ctx, app.ID, uuid.New())
	assert.Error(t, err)

	withdrawn := &models.Application{ID: app.ID, Status: models.ApplicationStatusWithdrawn}
	repo.On("UpdateStatus", ctx, app.ID, models.ApplicationStatusWithdrawn).Return(withdrawn, nil)

	updated, err := svc.Withdraw(ctx, app.ID, workerID)
	assert.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusWithdrawn, updated.Status)
}
