package validator

import (
	"fmt"
	"regexp"
	"time"

	"github.com/campus-suite/admissions-service/internal/models"
	"github.com/go-playground/validator/v10"
)

var (
	cnicPattern  = regexp.MustCompile(`^\d{5}-\d{7}-\d$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9][0-9\- ]{6,18}[0-9]$`)
)

// allowedStatusTransitions defines the application lifecycle: approved
// and rejected are terminal, waitlisted applications can only be decided.
var allowedStatusTransitions = map[string][]string{
	models.StatusSubmitted:   {models.StatusUnderReview, models.StatusApproved, models.StatusRejected, models.StatusWaitlisted},
	models.StatusUnderReview: {models.StatusApproved, models.StatusRejected, models.StatusWaitlisted},
	models.StatusWaitlisted:  {models.StatusApproved, models.StatusRejected},
	models.StatusApproved:    {},
	models.StatusRejected:    {},
}

// AllowedTransitionsFrom returns the status codes an application in the
// given status may move to. Unknown codes return nil.
func AllowedTransitionsFrom(code string) []string {
	next, ok := allowedStatusTransitions[code]
	if !ok || len(next) == 0 {
		return nil
	}
	out := make([]string, len(next))
	copy(out, next)
	return out
}

// BusinessValidator handles business rule validation for the admission flow.
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a new business validator with custom rules.
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates business rules for any struct.
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	err := bv.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateEducation applies cross-field marks rules on top of tag validation.
func (bv *BusinessValidator) ValidateEducation(req *EducationRequest) ValidationErrors {
	errors := bv.Validate(req)

	if req.ObtainedMarks > req.TotalMarks {
		errors = append(errors, ValidationError{
			Field:   "obtained_marks",
			Message: "cannot exceed total marks",
			Value:   req.ObtainedMarks,
			Rule:    "business_logic",
		})
	}

	if req.PassingYear > time.Now().Year() {
		errors = append(errors, ValidationError{
			Field:   "passing_year",
			Message: "cannot be in the future",
			Value:   req.PassingYear,
			Rule:    "business_logic",
		})
	}

	return errors
}

// ValidateStatusTransition checks the application status state machine.
func (bv *BusinessValidator) ValidateStatusTransition(currentCode, newCode string) ValidationErrors {
	var errors ValidationErrors

	next, known := allowedStatusTransitions[currentCode]
	if !known {
		errors = append(errors, ValidationError{
			Field:   "status",
			Message: fmt.Sprintf("unknown current status %q", currentCode),
			Value:   currentCode,
			Rule:    "status_transition",
		})
		return errors
	}

	for _, allowed := range next {
		if newCode == allowed {
			return nil
		}
	}

	errors = append(errors, ValidationError{
		Field:   "status",
		Message: fmt.Sprintf("cannot transition from %s to %s", currentCode, newCode),
		Value:   newCode,
		Rule:    "status_transition",
	})
	return errors
}

// ValidateSessionRange checks that a session's date range is coherent.
func (bv *BusinessValidator) ValidateSessionRange(startDate, endDate time.Time) ValidationErrors {
	var errors ValidationErrors

	if !endDate.After(startDate) {
		errors = append(errors, ValidationError{
			Field:   "end_date",
			Message: "must be after start date",
			Value:   endDate,
			Rule:    "business_logic",
		})
	}

	return errors
}

// ValidateFeeStructure requires at least one non-zero fee component.
func (bv *BusinessValidator) ValidateFeeStructure(req *FeeStructureRequest) ValidationErrors {
	errors := bv.Validate(req)

	if req.ApplicationFee == 0 && req.AdmissionFee == 0 && req.SecurityFee == 0 {
		errors = append(errors, ValidationError{
			Field:   "application_fee",
			Message: "at least one fee component must be greater than zero",
			Value:   req.ApplicationFee,
			Rule:    "business_logic",
		})
	}

	return errors
}

func (bv *BusinessValidator) registerBusinessRules() {
	// National identity card format, #####-#######-#
	bv.validate.RegisterValidation("cnic", func(fl validator.FieldLevel) bool {
		return cnicPattern.MatchString(fl.Field().String())
	})

	bv.validate.RegisterValidation("phone_number", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})

	bv.validate.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		return models.UserRole(fl.Field().String()).Valid()
	})

	bv.validate.RegisterValidation("payment_type", func(fl validator.FieldLevel) bool {
		return models.PaymentType(fl.Field().String()).Valid()
	})

	bv.validate.RegisterValidation("application_status", func(fl validator.FieldLevel) bool {
		_, ok := allowedStatusTransitions[fl.Field().String()]
		return ok
	})

	bv.validate.RegisterValidation("passing_year", func(fl validator.FieldLevel) bool {
		year := fl.Field().Int()
		return year >= 1950 && year <= int64(time.Now().Year())
	})

	bv.validate.RegisterValidation("future_date", func(fl validator.FieldLevel) bool {
		if fl.Field().IsZero() {
			return true
		}
		if date, ok := fl.Field().Interface().(time.Time); ok {
			return date.After(time.Now())
		}
		return false
	})
}
