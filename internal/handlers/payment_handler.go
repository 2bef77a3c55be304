package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campus-suite/admissions-service/internal/models"
	"github.com/campus-suite/admissions-service/internal/repositories"
	"github.com/campus-suite/admissions-service/internal/services"
	"github.com/campus-suite/admissions-service/internal/utils"
)

type PaymentHandler struct {
	BaseHandler
	paymentService services.PaymentService
}

func NewPaymentHandler(paymentService services.PaymentService, logger utils.Logger) *PaymentHandler {
	return &PaymentHandler{
		BaseHandler:    NewBaseHandler(logger),
		paymentService: paymentService,
	}
}

// GetPayment retrieves a payment by ID
// @Summary Get payment
// @Tags payments
// @Produce json
// @Param id path uint true "Payment ID"
// @Success 200 {object} models.Payment
// @Failure 404 {object} ErrorResponse
// @Router /payments/{id} [get]
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	payment, err := h.paymentService.GetByID(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

// GetApplicationPayments lists the payments of one application
// @Summary List payments for an application
// @Tags payments
// @Produce json
// @Param application_id path uint true "Application ID"
// @Success 200 {array} models.Payment
// @Router /payments/application/{application_id} [get]
func (h *PaymentHandler) GetApplicationPayments(c *gin.Context) {
	applicationID := h.parseIDParam(c, "application_id")
	if applicationID == 0 {
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	payments, err := h.paymentService.GetByApplication(c.Request.Context(), applicationID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, payments)
}

// ListPayments lists payments with filters
// @Summary List payments
// @Description Lists payments with optional filtering. Applicants only see their own.
// @Tags payments
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Param status query string false "Payment status"
// @Param payment_type query string false "Payment type"
// @Success 200 {object} services.PaymentListResponse
// @Router /payments [get]
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	filters := h.parsePaymentFilters(c)
	payments, err := h.paymentService.List(c.Request.Context(), filters, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, payments)
}

// RecordManualPayment records an out-of-band payment
// @Summary Record manual payment
// @Tags payments
// @Accept json
// @Produce json
// @Param payment body services.ManualPaymentRequest true "Payment data"
// @Success 201 {object} models.Payment
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /payments [post]
func (h *PaymentHandler) RecordManualPayment(c *gin.Context) {
	var req services.ManualPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	payment, err := h.paymentService.RecordManualPayment(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, payment)
}

// VerifyPayment marks a pending payment as paid
// @Summary Verify payment
// @Tags payments
// @Accept json
// @Produce json
// @Param id path uint true "Payment ID"
// @Param verification body services.VerifyPaymentRequest true "Verification data"
// @Success 200 {object} models.Payment
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /payments/{id}/verify [post]
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Verifying payment", "payment_id", id)

	var req services.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	payment, err := h.paymentService.VerifyPayment(c.Request.Context(), id, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

// GetPaymentStats returns aggregate payment statistics
// @Summary Get payment statistics
// @Tags payments
// @Produce json
// @Success 200 {object} repositories.PaymentStats
// @Failure 403 {object} ErrorResponse
// @Router /payments/stats [get]
func (h *PaymentHandler) GetPaymentStats(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	stats, err := h.paymentService.GetStats(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ===== FEE STRUCTURES =====

// CreateFeeStructure defines the fees of a program offering
// @Summary Create fee structure
// @Tags fees
// @Accept json
// @Produce json
// @Param fee_structure body services.FeeStructureRequest true "Fee structure data"
// @Success 201 {object} models.FeeStructure
// @Failure 409 {object} ErrorResponse
// @Router /fee-structures [post]
func (h *PaymentHandler) CreateFeeStructure(c *gin.Context) {
	var req services.FeeStructureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	fee, err := h.paymentService.CreateFeeStructure(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, fee)
}

// GetFeeStructure resolves the fee structure of a program and session
// @Summary Get fee structure
// @Tags fees
// @Produce json
// @Param program_id query uint true "Program ID"
// @Param session_id query uint true "Session ID"
// @Success 200 {object} models.FeeStructure
// @Failure 404 {object} ErrorResponse
// @Router /fee-structures/lookup [get]
func (h *PaymentHandler) GetFeeStructure(c *gin.Context) {
	programID := h.parseUintQueryPtr(c, "program_id")
	sessionID := h.parseUintQueryPtr(c, "session_id")
	if programID == nil || sessionID == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "program_id and session_id are required",
		})
		return
	}

	fee, err := h.paymentService.GetFeeStructure(c.Request.Context(), *programID, *sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, fee)
}

// ListFeeStructures lists all fee structures
// @Summary List fee structures
// @Tags fees
// @Produce json
// @Success 200 {array} models.FeeStructure
// @Router /fee-structures [get]
func (h *PaymentHandler) ListFeeStructures(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	fees, err := h.paymentService.ListFeeStructures(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, fees)
}

// UpdateFeeStructure updates an existing fee structure
// @Summary Update fee structure
// @Tags fees
// @Accept json
// @Produce json
// @Param id path uint true "Fee structure ID"
// @Param fee_structure body services.FeeStructureUpdateRequest true "Fee structure update data"
// @Success 200 {object} models.FeeStructure
// @Failure 404 {object} ErrorResponse
// @Router /fee-structures/{id} [put]
func (h *PaymentHandler) UpdateFeeStructure(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.FeeStructureUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	fee, err := h.paymentService.UpdateFeeStructure(c.Request.Context(), id, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, fee)
}

// DeleteFeeStructure removes a fee structure
// @Summary Delete fee structure
// @Tags fees
// @Param id path uint true "Fee structure ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /fee-structures/{id} [delete]
func (h *PaymentHandler) DeleteFeeStructure(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	if err := h.paymentService.DeleteFeeStructure(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListPaymentMethods lists the configured payment methods
// @Summary List payment methods
// @Tags payments
// @Produce json
// @Success 200 {array} models.PaymentMethod
// @Router /payments/methods [get]
func (h *PaymentHandler) ListPaymentMethods(c *gin.Context) {
	methods, err := h.paymentService.ListPaymentMethods(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, methods)
}

func (h *PaymentHandler) parsePaymentFilters(c *gin.Context) repositories.PaymentFilters {
	page := h.parseIntQuery(c, "page", 1)
	size := h.parseIntQuery(c, "size", 10)

	filters := repositories.PaymentFilters{
		Limit:     size,
		Offset:    (page - 1) * size,
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	if status := c.Query("status"); status != "" {
		paymentStatus := models.PaymentStatus(status)
		filters.Status = &paymentStatus
	}
	if paymentType := c.Query("payment_type"); paymentType != "" {
		pt := models.PaymentType(paymentType)
		filters.Type = &pt
	}
	filters.ApplicationID = h.parseUintQueryPtr(c, "application_id")
	if from := c.Query("date_from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			filters.DateFrom = &t
		}
	}
	if to := c.Query("date_to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			filters.DateTo = &t
		}
	}

	return filters
}
