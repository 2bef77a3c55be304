package services

import (
	"errors"
	"fmt"

	"github.com/campus-suite/admissions-service/internal/validator"
)

// ValidationErrors is re-exported so handlers can map it without
// importing the validator package directly.
type ValidationErrors = validator.ValidationErrors

// ===== SENTINEL ERRORS =====

var (
	// Generic
	ErrValidationFailed        = errors.New("validation failed")
	ErrUnauthorized            = errors.New("unauthorized")
	ErrForbidden               = errors.New("forbidden")
	ErrInsufficientPermissions = errors.New("insufficient permissions")

	// Applications
	ErrApplicationNotFound      = errors.New("application not found")
	ErrDuplicateApplication     = errors.New("application already exists for this program and session")
	ErrProfileIncomplete        = errors.New("student profile is incomplete")
	ErrOfferingNotAvailable     = errors.New("program is not open for admission in this session")
	ErrInvalidStatusTransition  = errors.New("invalid application status transition")
	ErrUnknownApplicationStatus = errors.New("unknown application status")

	// Profiles
	ErrProfileNotFound   = errors.New("student profile not found")
	ErrEducationNotFound = errors.New("educational record not found")
	ErrRelativeNotFound  = errors.New("relative not found")

	// Catalog
	ErrCourseNotFound    = errors.New("course not found")
	ErrProgramNotFound   = errors.New("program not found")
	ErrSessionNotFound   = errors.New("academic session not found")
	ErrOfferingNotFound  = errors.New("program offering not found")
	ErrDuplicateCatalog  = errors.New("catalog entry already exists")
	ErrDuplicateOffering = errors.New("program is already offered in this session")

	// Payments
	ErrPaymentNotFound        = errors.New("payment not found")
	ErrPaymentAlreadyVerified = errors.New("payment is already verified")
	ErrDuplicatePayment       = errors.New("payment already exists for this application and type")
	ErrFeeStructureNotFound   = errors.New("fee structure not found")
	ErrDuplicateFeeStructure  = errors.New("fee structure already exists for this program and session")

	// Announcements and users
	ErrAnnouncementNotFound = errors.New("announcement not found")
	ErrUserNotFound         = errors.New("user not found")
)

// ===== STRUCTURED ERRORS =====

// PermissionError carries the denied resource and action for the handler layer.
type PermissionError struct {
	UserID     string
	ResourceID uint
	Resource   string
	Action     string
	Reason     string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %s cannot %s %s: %s", e.UserID, e.Action, e.Resource, e.Reason)
}

func (e *PermissionError) Is(target error) bool {
	return target == ErrForbidden || target == ErrInsufficientPermissions
}

func NewPermissionError(userID string, resourceID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

// BusinessRuleError reports a domain rule violation distinct from field validation.
type BusinessRuleError struct {
	Rule    string
	Message string
	Context map[string]interface{}
}

func (e *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule %s violated: %s", e.Rule, e.Message)
}

func NewBusinessRuleError(rule, message string, context map[string]interface{}) *BusinessRuleError {
	return &BusinessRuleError{Rule: rule, Message: message, Context: context}
}
