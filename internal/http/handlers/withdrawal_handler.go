package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gigzone/backend/internal/dto"
	"github.com/gigzone/backend/internal/http/handlers/common"
	"github.com/gigzone/backend/internal/money"
	"github.com/gigzone/backend/internal/service"
)

// WithdrawalHandler отвечает за заявки на вывод средств.
type WithdrawalHandler struct {
	withdrawals *service.WithdrawalService
}

// NewWithdrawalHandler создаёт хэндлер вывода средств.
func NewWithdrawalHandler(withdrawals *service.WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawals: withdrawals}
}

// Create POST /api/withdrawals
func (h *WithdrawalHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.WithdrawRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	amount, err := money.FromRands(req.Amount)
	if err != nil {
		common.RespondBadRequest(c, "некорректная сумма вывода")
		return
	}

	withdrawal, err := h.withdrawals.CreateWithdrawal(c.Request.Context(), userID, amount)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewWithdrawalResponse(withdrawal))
}

// Get GET /api/withdrawals/:id
func (h *WithdrawalHandler) Get(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	withdrawalID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	withdrawal, err := h.withdrawals.GetWithdrawal(c.Request.Context(), withdrawalID, userID)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewWithdrawalResponse(withdrawal))
}

// List GET /api/withdrawals
func (h *WithdrawalHandler) List(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	withdrawals, err := h.withdrawals.ListUserWithdrawals(c.Request.Context(), userID)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	responses := make([]*dto.WithdrawalResponse, 0, len(withdrawals))
	for i := range withdrawals {
		responses = append(responses, dto.NewWithdrawalResponse(&withdrawals[i]))
	}

	c.JSON(http.StatusOK, gin.H{"withdrawals": responses})
}

// Process PUT /api/admin/withdrawals/:id
func (h *WithdrawalHandler) Process(c *gin.Context) {
	role, err := common.CurrentUserRole(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}
	if role != "admin" {
		common.RespondForbidden(c, "обрабатывать заявки может только администратор")
		return
	}

	withdrawalID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.ProcessWithdrawalRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	withdrawal, err := h.withdrawals.ProcessWithdrawal(c.Request.Context(), withdrawalID, req.Status, req.Notes)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewWithdrawalResponse(withdrawal))
}
