package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-suite/admissions-service/internal/repositories"
	"github.com/campus-suite/admissions-service/internal/services"
	"github.com/campus-suite/admissions-service/internal/utils"
)

type DashboardHandler struct {
	BaseHandler
	dashboardService services.DashboardService
	exportService    services.ExportService
}

func NewDashboardHandler(dashboardService services.DashboardService, exportService services.ExportService, logger utils.Logger) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler:      NewBaseHandler(logger),
		dashboardService: dashboardService,
		exportService:    exportService,
	}
}

// GetDashboardStats returns the aggregated dashboard payload
// @Summary Get dashboard statistics
// @Tags dashboard
// @Produce json
// @Success 200 {object} services.DashboardStats
// @Failure 403 {object} ErrorResponse
// @Router /dashboard/stats [get]
func (h *DashboardHandler) GetDashboardStats(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	stats, err := h.dashboardService.GetDashboardStats(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetApplicationTrends returns time-bucketed application counts
// @Summary Get application trends
// @Tags dashboard
// @Produce json
// @Param period query string false "Trend period: week, month or year" default(week)
// @Success 200 {array} repositories.ApplicationTrendData
// @Failure 403 {object} ErrorResponse
// @Router /dashboard/application-trends [get]
func (h *DashboardHandler) GetApplicationTrends(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	period := c.DefaultQuery("period", "week")
	trends, err := h.dashboardService.GetApplicationTrends(c.Request.Context(), period, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, trends)
}

// ===== ANNOUNCEMENTS =====

// CreateAnnouncement publishes an announcement
// @Summary Create announcement
// @Tags announcements
// @Accept json
// @Produce json
// @Param announcement body services.AnnouncementCreateRequest true "Announcement data"
// @Success 201 {object} models.Announcement
// @Router /announcements [post]
func (h *DashboardHandler) CreateAnnouncement(c *gin.Context) {
	var req services.AnnouncementCreateRequest
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

	announcement, err := h.dashboardService.CreateAnnouncement(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, announcement)
}

// ListAnnouncements lists announcements visible to the caller
// @Summary List announcements
// @Tags announcements
// @Produce json
// @Success 200 {object} services.AnnouncementListResponse
// @Router /announcements [get]
func (h *DashboardHandler) ListAnnouncements(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	announcements, err := h.dashboardService.ListAnnouncements(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, announcements)
}

// UpdateAnnouncement updates an announcement
// @Summary Update announcement
// @Tags announcements
// @Accept json
// @Produce json
// @Param id path uint true "Announcement ID"
// @Param announcement body services.AnnouncementUpdateRequest true "Announcement update data"
// @Success 200 {object} models.Announcement
// @Failure 404 {object} ErrorResponse
// @Router /announcements/{id} [put]
func (h *DashboardHandler) UpdateAnnouncement(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.AnnouncementUpdateRequest
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

	announcement, err := h.dashboardService.UpdateAnnouncement(c.Request.Context(), id, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, announcement)
}

// DeleteAnnouncement removes an announcement
// @Summary Delete announcement
// @Tags announcements
// @Param id path uint true "Announcement ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /announcements/{id} [delete]
func (h *DashboardHandler) DeleteAnnouncement(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	if err := h.dashboardService.DeleteAnnouncement(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ===== EXPORTS =====

// ExportApplications downloads an Excel workbook of applications
// @Summary Export applications
// @Tags dashboard
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} xlsx
// @Failure 403 {object} ErrorResponse
// @Router /dashboard/export/applications [get]
func (h *DashboardHandler) ExportApplications(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	filters := repositories.ApplicationFilters{}
	if status := c.Query("status"); status != "" {
		filters.StatusCode = &status
	}
	filters.ProgramID = h.parseUintQueryPtr(c, "program_id")
	filters.SessionID = h.parseUintQueryPtr(c, "session_id")

	data, filename, err := h.exportService.ExportApplications(c.Request.Context(), filters, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.writeWorkbook(c, data, filename)
}

// ExportPayments downloads an Excel workbook of payments
// @Summary Export payments
// @Tags dashboard
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} xlsx
// @Failure 403 {object} ErrorResponse
// @Router /dashboard/export/payments [get]
func (h *DashboardHandler) ExportPayments(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	filters := repositories.PaymentFilters{}
	filters.ApplicationID = h.parseUintQueryPtr(c, "application_id")

	data, filename, err := h.exportService.ExportPayments(c.Request.Context(), filters, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.writeWorkbook(c, data, filename)
}

func (h *DashboardHandler) writeWorkbook(c *gin.Context, data []byte, filename string) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
