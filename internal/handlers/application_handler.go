package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campus-suite/admissions-service/internal/artifacts"
	"github.com/campus-suite/admissions-service/internal/repositories"
	"github.com/campus-suite/admissions-service/internal/services"
	"github.com/campus-suite/admissions-service/internal/utils"
)

type ApplicationHandler struct {
	BaseHandler
	applicationService services.ApplicationService
	artifacts          artifacts.Store
}

func NewApplicationHandler(applicationService services.ApplicationService, store artifacts.Store, logger utils.Logger) *ApplicationHandler {
	return &ApplicationHandler{
		BaseHandler:        NewBaseHandler(logger),
		applicationService: applicationService,
		artifacts:          store,
	}
}

// SubmitApplication submits a new admission application
// @Summary Submit application
// @Description Submits an admission application for a program offering
// @Tags applications
// @Accept json
// @Produce json
// @Param application body services.SubmitApplicationRequest true "Application data"
// @Success 201 {object} services.ApplicationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /applications [post]
func (h *ApplicationHandler) SubmitApplication(c *gin.Context) {
	var req services.SubmitApplicationRequest
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

	application, err := h.applicationService.Submit(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, application)
}

// UpdateApplicationStatus moves an application to a new status
// @Summary Update application status
// @Description Moves an application through its review lifecycle
// @Tags applications
// @Accept json
// @Produce json
// @Param id path uint true "Application ID"
// @Param status body services.UpdateApplicationStatusRequest true "New status"
// @Success 200 {object} services.ApplicationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /applications/{id}/status [put]
func (h *ApplicationHandler) UpdateApplicationStatus(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Updating application status", "application_id", id)

	var req services.UpdateApplicationStatusRequest
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

	application, err := h.applicationService.UpdateStatus(c.Request.Context(), id, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, application)
}

// GetApplication retrieves an application by ID
// @Summary Get application
// @Tags applications
// @Produce json
// @Param id path uint true "Application ID"
// @Success 200 {object} services.ApplicationResponse
// @Failure 404 {object} ErrorResponse
// @Router /applications/{id} [get]
func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	application, err := h.applicationService.GetByID(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, application)
}

// GetApplicationByTrackingID retrieves an application by its tracking ID
// @Summary Get application by tracking ID
// @Tags applications
// @Produce json
// @Param tracking_id path string true "Tracking ID"
// @Success 200 {object} services.ApplicationResponse
// @Failure 404 {object} ErrorResponse
// @Router /applications/tracking/{tracking_id} [get]
func (h *ApplicationHandler) GetApplicationByTrackingID(c *gin.Context) {
	trackingID := h.parseStringParam(c, "tracking_id")
	if trackingID == "" {
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	application, err := h.applicationService.GetByTrackingID(c.Request.Context(), trackingID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, application)
}

// ListApplications lists applications with filters
// @Summary List applications
// @Description Lists applications with optional filtering. Applicants only see their own.
// @Tags applications
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Param status query string false "Status code"
// @Param program_id query uint false "Program ID"
// @Param session_id query uint false "Session ID"
// @Param search query string false "Tracking ID, form no or applicant email"
// @Success 200 {object} services.ApplicationListResponse
// @Router /applications [get]
func (h *ApplicationHandler) ListApplications(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	filters := h.parseApplicationFilters(c)
	applications, err := h.applicationService.List(c.Request.Context(), filters, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, applications)
}

// GetMyApplications lists the authenticated applicant's applications
// @Summary List my applications
// @Tags applications
// @Produce json
// @Success 200 {array} services.ApplicationResponse
// @Router /applications/me [get]
func (h *ApplicationHandler) GetMyApplications(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	applications, err := h.applicationService.GetMyApplications(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, applications)
}

// GetApplicationTracking returns the audit trail of status changes
// @Summary Get application tracking history
// @Tags applications
// @Produce json
// @Param id path uint true "Application ID"
// @Success 200 {array} models.ApplicationTracking
// @Failure 404 {object} ErrorResponse
// @Router /applications/{id}/tracking [get]
func (h *ApplicationHandler) GetApplicationTracking(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	tracking, err := h.applicationService.GetTracking(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, tracking)
}

// GetApplicationQRCode serves the stored QR code image for an application
// @Summary Get application QR code
// @Tags applications
// @Produce png
// @Param id path uint true "Application ID"
// @Success 200 {file} png
// @Failure 404 {object} ErrorResponse
// @Router /applications/{id}/qrcode [get]
func (h *ApplicationHandler) GetApplicationQRCode(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	application, err := h.applicationService.GetByID(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	if application.QRCodePath == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "QR code not available for this application",
		})
		return
	}

	data, err := h.artifacts.Load(*application.QRCodePath)
	if err != nil {
		h.LogError(c, err, "Failed to load QR code artifact", "application_id", id)
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "QR code not available for this application",
		})
		return
	}

	c.Data(http.StatusOK, "image/png", data)
}

// DeleteApplication removes an application
// @Summary Delete application
// @Tags applications
// @Param id path uint true "Application ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /applications/{id} [delete]
func (h *ApplicationHandler) DeleteApplication(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Deleting application", "application_id", id)

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	if err := h.applicationService.Delete(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListApplicationStatuses lists the status catalog
// @Summary List application statuses
// @Tags applications
// @Produce json
// @Success 200 {array} models.ApplicationStatus
// @Router /applications/statuses [get]
func (h *ApplicationHandler) ListApplicationStatuses(c *gin.Context) {
	statuses, err := h.applicationService.ListStatuses(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, statuses)
}

// GetApplicationStats returns aggregate application statistics
// @Summary Get application statistics
// @Tags applications
// @Produce json
// @Success 200 {object} repositories.ApplicationStats
// @Failure 403 {object} ErrorResponse
// @Router /applications/stats [get]
func (h *ApplicationHandler) GetApplicationStats(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	stats, err := h.applicationService.GetStats(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// VerifyApplication is the public QR verification endpoint
// @Summary Verify application
// @Description Resolves a QR verification hash to the application's public summary. No authentication required.
// @Tags verification
// @Produce json
// @Param hash path string true "Verification hash"
// @Success 200 {object} models.VerificationResult
// @Router /verify/{hash} [get]
func (h *ApplicationHandler) VerifyApplication(c *gin.Context) {
	hash := h.parseStringParam(c, "hash")
	if hash == "" {
		return
	}

	result, err := h.applicationService.Verify(c.Request.Context(), hash)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ApplicationHandler) parseApplicationFilters(c *gin.Context) repositories.ApplicationFilters {
	page := h.parseIntQuery(c, "page", 1)
	size := h.parseIntQuery(c, "size", 10)

	filters := repositories.ApplicationFilters{
		Limit:     size,
		Offset:    (page - 1) * size,
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	if status := c.Query("status"); status != "" {
		filters.StatusCode = &status
	}
	filters.ProgramID = h.parseUintQueryPtr(c, "program_id")
	filters.SessionID = h.parseUintQueryPtr(c, "session_id")
	if search := c.Query("search"); search != "" {
		filters.Search = &search
	}
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
