package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gigzone/backend/internal/dto"
	"github.com/gigzone/backend/internal/http/handlers/common"
	"github.com/gigzone/backend/internal/money"
	"github.com/gigzone/backend/internal/repository"
	"github.com/gigzone/backend/internal/service"
)

// GigHandler отвечает за HTTP операции с гигами.
type GigHandler struct {
	gigs *service.GigService
}

// NewGigHandler создаёт хэндлер гигов.
func NewGigHandler(gigs *service.GigService) *GigHandler {
	return &GigHandler{gigs: gigs}
}

// Create POST /api/gigs
func (h *GigHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.CreateGigRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	budgetMin, err := optionalCents(req.BudgetMin)
	if err != nil {
		common.RespondBadRequest(c, "некорректный минимальный бюджет")
		return
	}
	budgetMax, err := optionalCents(req.BudgetMax)
	if err != nil {
		common.RespondBadRequest(c, "некорректный максимальный бюджет")
		return
	}

	startDate, err := req.ParsePreferredStartDate()
	if err != nil {
		common.RespondBadRequest(c, "некорректная дата начала")
		return
	}

	gig, err := h.gigs.CreateGig(c.Request.Context(), userID, service.GigInput{
		Title:              req.Title,
		Description:        req.Description,
		Category:           req.Category,
		Location:           req.Location,
		BudgetMinCents:     budgetMin,
		BudgetMaxCents:     budgetMax,
		DurationHours:      req.DurationHours,
		IsUrgent:           req.IsUrgent,
		PreferredStartDate: startDate,
		RequiredSkills:     req.RequiredSkills,
		ContactPhone:       req.ContactPhone,
	})
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gig)
}

// List GET /api/gigs
func (h *GigHandler) List(c *gin.Context) {
	limit, offset := common.GetPagination(c)

	filter := repository.GigFilter{
		Category: c.Query("category"),
		Location: c.Query("location"),
		Status:   c.Query("status"),
		Search:   c.Query("search"),
		Limit:    limit,
		Offset:   offset,
	}

	gigs, err := h.gigs.ListGigs(c.Request.Context(), filter)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"gigs": gigs})
}

// Get GET /api/gigs/:id
func (h *GigHandler) Get(c *gin.Context) {
	gigID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	gig, err := h.gigs.GetGig(c.Request.Context(), gigID)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gig)
}

// Update PUT /api/gigs/:id
func (h *GigHandler) Update(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	gigID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.UpdateGigRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	budgetMin, err := optionalCents(req.BudgetMin)
	if err != nil {
		common.RespondBadRequest(c, "некорректный минимальный бюджет")
		return
	}
	budgetMax, err := optionalCents(req.BudgetMax)
	if err != nil {
		common.RespondBadRequest(c, "некорректный максимальный бюджет")
		return
	}

	startDate, err := req.ParsePreferredStartDate()
	if err != nil {
		common.RespondBadRequest(c, "некорректная дата начала")
		return
	}

	gig, err := h.gigs.UpdateGig(c.Request.Context(), gigID, userID, service.GigInput{
		Title:              req.Title,
		Description:        req.Description,
		Category:           req.Category,
		Location:           req.Location,
		BudgetMinCents:     budgetMin,
		BudgetMaxCents:     budgetMax,
		DurationHours:      req.DurationHours,
		IsUrgent:           req.IsUrgent,
		PreferredStartDate: startDate,
		RequiredSkills:     req.RequiredSkills,
		ContactPhone:       req.ContactPhone,
	})
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gig)
}

// Cancel POST /api/gigs/:id/cancel
func (h *GigHandler) Cancel(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	gigID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.gigs.CancelGig(c.Request.Context(), gigID, userID); err != nil {
		common.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "гиг отменён"})
}

// optionalCents конвертирует сумму в рандах в центы.
func optionalCents(rands *float64) (*money.Cents, error) {
	if rands == nil {
		return nil, nil
	}
	cents, err := money.FromRands(*rands)
	if err != nil {
		return nil, err
	}
	return &cents, nil
}
