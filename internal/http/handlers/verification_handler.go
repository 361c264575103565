package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gigzone/backend/internal/dto"
	"github.com/gigzone/backend/internal/http/handlers/common"
	"github.com/gigzone/backend/internal/service"
)

// VerificationHandler отвечает за подтверждение телефона, SA ID и
// документы.
type VerificationHandler struct {
	verification *service.VerificationService
}

// NewVerificationHandler создаёт хэндлер верификации.
func NewVerificationHandler(verification *service.VerificationService) *VerificationHandler {
	return &VerificationHandler{verification: verification}
}

// SendPhoneCode POST /api/verification/phone/send
func (h *VerificationHandler) SendPhoneCode(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.SendPhoneCodeRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	pv, err := h.verification.SendPhoneCode(c.Request.Context(), userID, req.Phone)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "код отправлен",
		"expires_at": pv.ExpiresAt,
	})
}

// VerifyPhoneCode POST /api/verification/phone/verify
func (h *VerificationHandler) VerifyPhoneCode(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.VerifyPhoneCodeRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.verification.VerifyPhoneCode(c.Request.Context(), userID, req.Code); err != nil {
		common.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "телефон подтверждён"})
}

// SubmitSAID POST /api/verification/said
func (h *VerificationHandler) SubmitSAID(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.SubmitSAIDRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	v, err := h.verification.SubmitSAID(c.Request.Context(), userID, req.IDNumber)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, v)
}

// ReviewSAID PUT /api/admin/verification/said/:id
// :id здесь — идентификатор пользователя, чья заявка рассматривается.
func (h *VerificationHandler) ReviewSAID(c *gin.Context) {
	role, err := common.CurrentUserRole(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}
	if role != "admin" {
		common.RespondForbidden(c, "проверять заявки может только администратор")
		return
	}

	userID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.ReviewSAIDRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	v, err := h.verification.ReviewSAID(c.Request.Context(), userID, req.Status, req.Score, req.Notes)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, v)
}

// UploadDocument POST /api/verification/documents
// Принимает multipart форму с полями document_type и file.
func (h *VerificationHandler) UploadDocument(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	documentType := c.PostForm("document_type")
	if documentType == "" {
		common.RespondBadRequest(c, "не указан тип документа")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		common.RespondBadRequest(c, "файл не передан")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		common.RespondBadRequest(c, "не удалось прочитать файл")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		common.RespondBadRequest(c, "не удалось прочитать файл")
		return
	}

	doc, err := h.verification.UploadDocument(c.Request.Context(), userID, documentType, fileHeader.Filename, data)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, doc)
}

// ListDocuments GET /api/verification/documents
func (h *VerificationHandler) ListDocuments(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	docs, err := h.verification.ListDocuments(c.Request.Context(), userID)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

// GetStatus GET /api/verification/status
func (h *VerificationHandler) GetStatus(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	status, err := h.verification.GetStatus(c.Request.Context(), userID)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}
