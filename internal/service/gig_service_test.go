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

type mockGigStore struct {
	mock.Mock
}

func (m *mockGigStore) Create(ctx context.Context, gig *models.Gig) error {
	args := m.Called(ctx, gig)
	return args.Error(0)
}

func (m *mockGigStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Gig, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Gig), args.Error(1)
}

func (m *mockGigStore) List(ctx context.Context, filter repository.GigFilter) ([]models.Gig, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.Gig), args.Error(1)
}

func (m *mockGigStore) Update(ctx context.Context, gig *models.Gig) error {
	args := m.Called(ctx, gig)
	return args.Error(0)
}

func (m *mockGigStore) UpdateStatus(ctx context.Context, gigID uuid.UUID, status string) error {
	args := m.Called(ctx, gigID, status)
	return args.Error(0)
}

func validGigInput() GigInput {
	min := money.Cents(10000)
	max := money.Cents(50000)
	return GigInput{
		Title:          "Сборка кухонного гарнитура",
		Description:    "Нужно собрать кухню из плоских упаковок, инструмент есть на месте.",
		Category:       "handyman",
		Location:       "Cape Town",
		BudgetMinCents: &min,
		BudgetMaxCents: &max,
	}
}

func TestGigService_CreateGig_Success(t *testing.T) {
	repo := new(mockGigStore)
	svc := NewGigService(repo)
	ctx := context.Background()
	posterID := uuid.New()

	repo.On("Create", ctx, mock.AnythingOfType("*models.Gig")).Return(nil)

	gig, err := svc.CreateGig(ctx, posterID, validGigInput())
	assert.NoError(t, err)
	assert.Equal(t, models.GigStatusOpen, gig.Status)
	assert.Equal(t, posterID, gig.PosterID)
	repo.AssertExpectations(t)
}

func TestGigService_CreateGig_InvalidCategory(t *testing.T) {
	repo := new(mockGigStore)
	svc := NewGigService(repo)
	ctx := context.Background()

	in := validGigInput()
	in.Category = "rocket_science"

	_, err := svc.CreateGig(ctx, uuid.New(), in)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "категория")
}

func TestGigService_CreateGig_BudgetMinAboveMax(t *testing.T) {
	repo := new(mockGigStore)
	svc := NewGigService(repo)
	ctx := context.Background()

	in := validGigInput()
	min := money.Cents(60000)
	in.BudgetMinCents = &min

	_, err := svc.CreateGig(ctx, uuid.New(), in)
	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestGigService_UpdateGig_OnlyPoster(t *testing.T) {
	repo := new(mockGigStore)
	svc := NewGigService(repo)
	ctx := context.Background()

	gig := &models.Gig{ID: uuid.New(), PosterID: uuid.New(), Status: models.GigStatusOpen}
	repo.On("GetByID", ctx, gig.ID).Return(gig, nil)

	_, err := svc.UpdateGig(ctx, gig.ID, uuid.New(), validGigInput())
	assert.True(t, apperror.IsForbidden(err))
}

func TestGigService_UpdateGig_NotOpen(t *testing.T) {
	repo := new(mockGigStore)
	svc := NewGigService(repo)
	ctx := context.Background()
	posterID := uuid.New()

	gig := &models.Gig{ID: uuid.New(), PosterID: posterID, Status: models.GigStatusInProgress}
	repo.On("GetByID", ctx, gig.ID).Return(gig, nil)

	_, err := svc.UpdateGig(ctx, gig.ID, posterID, validGigInput())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "открытый гиг")
}

func TestGigService_CancelGig_TerminalStatus(t *testing.T) {
	repo := new(mockGigStore)
	svc := NewGigService(repo)
	ctx := context.Background()
	posterID := uuid.New()

	gig := &models.Gig{ID: uuid.New(), PosterID: posterID, Status: models.GigStatusCompleted}
	repo.On("GetByID", ctx, gig.ID).Return(gig, nil)

	err := svc.CancelGig(ctx, gig.ID, posterID)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "завершён или отменён")
}

func TestGigService_CancelGig_Success(t *testing.T) {
	repo := new(mockGigStore)
	svc := NewGigService(repo)
	ctx := context.Background()
	posterID := uuid.New()

	gig := &models.Gig{ID: uuid.New(), PosterID: posterID, Status: models.GigStatusInProgress}
	repo.On("GetByID", ctx, gig.ID).Return(gig, nil)
	repo.On("UpdateStatus", ctx, gig.ID, models.GigStatusCancelled).Return(nil)

	err := svc.CancelGig(ctx, gig.ID, posterID)
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestGigService_ListGigs_InvalidStatusFilter(t *testing.T) {
	repo := new(mockGigStore)
	svc := NewGigService(repo)
	ctx := context.Background()

	_, err := svc.ListGigs(ctx, repository.GigFilter{Status: "archived"})
	assert.Error(t, err)

	_, err = svc.ListGigs(ctx, repository.GigFilter{Category: "nonexistent"})
	assert.Error(t, err)
}

func TestGigService_GetGig_NotFound(t *testing.T) {
	repo := new(mockGigStore)
	svc := NewGigService(repo)
	ctx := context.Background()
	gigID := uuid.New()

	repo.On("GetByID", ctx, gigID).Return(nil, repository.ErrGigNotFound)

	_, err := svc.GetGig(ctx, gigID)
	assert.ErrorIs(t, err, apperror.ErrGigNotFound)
}
