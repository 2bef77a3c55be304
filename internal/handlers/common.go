package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campus-suite/admissions-service/internal/models"
	"github.com/campus-suite/admissions-service/internal/services"
	"github.com/campus-suite/admissions-service/internal/utils"
)

type ErrorResponse = models.ErrorResponse
type SuccessResponse = models.SuccessResponse

// BaseHandler carries the pieces every handler needs
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs an incoming request with request-scoped fields
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.GetContextLogger(c, h.logger).Info(msg, args...)
}

// LogError logs a failure with request-scoped fields
func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	args = append(args, "error", err)
	utils.GetContextLogger(c, h.logger).Error(msg, args...)
}

// requireUserID extracts the authenticated user ID or writes a 401
func (h *BaseHandler) requireUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return "", false
	}
	id, ok := userID.(string)
	if !ok || id == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return "", false
	}
	return id, true
}

func (h *BaseHandler) parseIDParam(c *gin.Context, param string) uint {
	idStr := c.Param(param)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: err.Error(),
		})
		return 0
	}
	return uint(id)
}

func (h *BaseHandler) parseStringParam(c *gin.Context, param string) string {
	value := strings.TrimSpace(c.Param(param))
	if value == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "value cannot be empty",
		})
	}
	return value
}

func (h *BaseHandler) parseIntQuery(c *gin.Context, param string, defaultValue int) int {
	valueStr := c.Query(param)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func (h *BaseHandler) parseUintQueryPtr(c *gin.Context, param string) *uint {
	valueStr := c.Query(param)
	if valueStr == "" {
		return nil
	}
	value, err := strconv.ParseUint(valueStr, 10, 32)
	if err != nil {
		return nil
	}
	v := uint(value)
	return &v
}

func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	// Handle custom error types first
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
		})
		return
	}

	var businessRuleError *services.BusinessRuleError
	if errors.As(err, &businessRuleError) {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: businessRuleError.Message,
			Details: map[string]interface{}{
				"rule":    businessRuleError.Rule,
				"context": businessRuleError.Context,
			},
		})
		return
	}

	var permissionError *services.PermissionError
	if errors.As(err, &permissionError) {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Access denied",
			Details: map[string]interface{}{
				"resource": permissionError.Resource,
				"action":   permissionError.Action,
				"reason":   permissionError.Reason,
			},
		})
		return
	}

	switch {
	// Application lifecycle
	case errors.Is(err, services.ErrApplicationNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Application not found",
		})
	case errors.Is(err, services.ErrDuplicateApplication):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "An application for this program and session already exists",
		})
	case errors.Is(err, services.ErrProfileIncomplete):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: "Profile must be completed before applying",
		})
	case errors.Is(err, services.ErrOfferingNotAvailable):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Program is not open for admission in this session",
		})
	case errors.Is(err, services.ErrInvalidStatusTransition):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Invalid application status transition",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrUnknownApplicationStatus):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Unknown application status",
		})

	// Profiles
	case errors.Is(err, services.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Profile not found",
		})
	case errors.Is(err, services.ErrEducationNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Educational record not found",
		})
	case errors.Is(err, services.ErrRelativeNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Relative not found",
		})

	// Catalog
	case errors.Is(err, services.ErrCourseNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Course not found",
		})
	case errors.Is(err, services.ErrProgramNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Program not found",
		})
	case errors.Is(err, services.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Academic session not found",
		})
	case errors.Is(err, services.ErrOfferingNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Program offering not found",
		})
	case errors.Is(err, services.ErrDuplicateCatalog):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "A record with this name or code already exists",
		})
	case errors.Is(err, services.ErrDuplicateOffering):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "This program is already offered in this session",
		})

	// Payments
	case errors.Is(err, services.ErrPaymentNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Payment not found",
		})
	case errors.Is(err, services.ErrPaymentAlreadyVerified):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Payment is already verified",
		})
	case errors.Is(err, services.ErrDuplicatePayment):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "A payment of this type already exists for the application",
		})
	case errors.Is(err, services.ErrFeeStructureNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Fee structure not found",
		})
	case errors.Is(err, services.ErrDuplicateFeeStructure):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "A fee structure for this program and session already exists",
		})

	// Announcements and users
	case errors.Is(err, services.ErrAnnouncementNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Announcement not found",
		})
	case errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "User not found",
		})

	// Generic errors
	case errors.Is(err, services.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Unauthorized access",
		})
	case errors.Is(err, services.ErrForbidden), errors.Is(err, services.ErrInsufficientPermissions):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Forbidden - insufficient permissions",
		})
	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
			Details: err.Error(),
		})
	}
}
