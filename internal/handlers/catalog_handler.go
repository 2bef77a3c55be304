package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-suite/admissions-service/internal/services"
	"github.com/campus-suite/admissions-service/internal/utils"
)

type CatalogHandler struct {
	BaseHandler
	catalogService services.CatalogService
}

func NewCatalogHandler(catalogService services.CatalogService, logger utils.Logger) *CatalogHandler {
	return &CatalogHandler{
		BaseHandler:    NewBaseHandler(logger),
		catalogService: catalogService,
	}
}

// ===== COURSES =====

// CreateCourse creates a new course
// @Summary Create course
// @Tags catalog
// @Accept json
// @Produce json
// @Param course body services.CourseCreateRequest true "Course data"
// @Success 201 {object} models.Course
// @Failure 409 {object} ErrorResponse
// @Router /courses [post]
func (h *CatalogHandler) CreateCourse(c *gin.Context) {
	var req services.CourseCreateRequest
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

	course, err := h.catalogService.CreateCourse(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, course)
}

func (h *CatalogHandler) GetCourse(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	course, err := h.catalogService.GetCourse(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

func (h *CatalogHandler) ListCourses(c *gin.Context) {
	courses, err := h.catalogService.ListCourses(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, courses)
}

func (h *CatalogHandler) UpdateCourse(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.CourseUpdateRequest
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

	course, err := h.catalogService.UpdateCourse(c.Request.Context(), id, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

func (h *CatalogHandler) DeleteCourse(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	if err := h.catalogService.DeleteCourse(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ===== PROGRAMS =====

// CreateProgram creates a new program
// @Summary Create program
// @Tags catalog
// @Accept json
// @Produce json
// @Param program body services.ProgramCreateRequest true "Program data"
// @Success 201 {object} models.Program
// @Failure 409 {object} ErrorResponse
// @Router /programs [post]
func (h *CatalogHandler) CreateProgram(c *gin.Context) {
	var req services.ProgramCreateRequest
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

	program, err := h.catalogService.CreateProgram(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, program)
}

func (h *CatalogHandler) GetProgram(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	program, err := h.catalogService.GetProgram(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, program)
}

func (h *CatalogHandler) ListPrograms(c *gin.Context) {
	activeOnly := c.Query("active") == "true"

	programs, err := h.catalogService.ListPrograms(c.Request.Context(), activeOnly)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, programs)
}

func (h *CatalogHandler) UpdateProgram(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.ProgramUpdateRequest
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

	program, err := h.catalogService.UpdateProgram(c.Request.Context(), id, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, program)
}

func (h *CatalogHandler) DeleteProgram(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	if err := h.catalogService.DeleteProgram(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ===== ACADEMIC SESSIONS =====

// CreateSession creates a new academic session
// @Summary Create academic session
// @Tags catalog
// @Accept json
// @Produce json
// @Param session body services.SessionCreateRequest true "Session data"
// @Success 201 {object} models.AcademicSession
// @Failure 409 {object} ErrorResponse
// @Router /sessions [post]
func (h *CatalogHandler) CreateSession(c *gin.Context) {
	var req services.SessionCreateRequest
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

	session, err := h.catalogService.CreateSession(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

func (h *CatalogHandler) GetSession(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	session, err := h.catalogService.GetSession(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

func (h *CatalogHandler) ListSessions(c *gin.Context) {
	sessions, err := h.catalogService.ListSessions(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// GetCurrentSession returns the session currently open for admission
func (h *CatalogHandler) GetCurrentSession(c *gin.Context) {
	session, err := h.catalogService.GetCurrentSession(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

func (h *CatalogHandler) UpdateSession(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.SessionUpdateRequest
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

	session, err := h.catalogService.UpdateSession(c.Request.Context(), id, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

func (h *CatalogHandler) DeleteSession(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	if err := h.catalogService.DeleteSession(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ===== PROGRAM OFFERINGS =====

// CreateOffering opens a program for admission in a session
// @Summary Create program offering
// @Tags catalog
// @Accept json
// @Produce json
// @Param offering body services.OfferingCreateRequest true "Offering data"
// @Success 201 {object} models.ProgramOffering
// @Failure 409 {object} ErrorResponse
// @Router /offerings [post]
func (h *CatalogHandler) CreateOffering(c *gin.Context) {
	var req services.OfferingCreateRequest
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

	offering, err := h.catalogService.CreateOffering(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, offering)
}

// ListOfferings lists program offerings
// @Summary List program offerings
// @Tags catalog
// @Produce json
// @Param session_id query uint false "Session ID"
// @Param open query bool false "Only offerings open for admission"
// @Success 200 {array} models.ProgramOffering
// @Router /offerings [get]
func (h *CatalogHandler) ListOfferings(c *gin.Context) {
	sessionID := h.parseUintQueryPtr(c, "session_id")
	openOnly := c.Query("open") == "true"

	offerings, err := h.catalogService.ListOfferings(c.Request.Context(), sessionID, openOnly)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, offerings)
}

func (h *CatalogHandler) UpdateOffering(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.OfferingUpdateRequest
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

	offering, err := h.catalogService.UpdateOffering(c.Request.Context(), id, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, offering)
}

func (h *CatalogHandler) DeleteOffering(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	if err := h.catalogService.DeleteOffering(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
