package validator

import (
	"testing"
	"time"

	"github.com/campus-suite/admissions-service/internal/models"
)

func TestValidateStatusTransition(t *testing.T) {
	bv := NewBusinessValidator()

	tests := []struct {
		name    string
		current string
		next    string
		allowed bool
	}{
		{"SubmittedToUnderReview", models.StatusSubmitted, models.StatusUnderReview, true},
		{"SubmittedToApproved", models.StatusSubmitted, models.StatusApproved, true},
		{"SubmittedToRejected", models.StatusSubmitted, models.StatusRejected, true},
		{"SubmittedToWaitlisted", models.StatusSubmitted, models.StatusWaitlisted, true},
		{"UnderReviewToApproved", models.StatusUnderReview, models.StatusApproved, true},
		{"UnderReviewToSubmitted", models.StatusUnderReview, models.StatusSubmitted, false},
		{"WaitlistedToApproved", models.StatusWaitlisted, models.StatusApproved, true},
		{"WaitlistedToRejected", models.StatusWaitlisted, models.StatusRejected, true},
		{"WaitlistedToUnderReview", models.StatusWaitlisted, models.StatusUnderReview, false},
		{"ApprovedIsTerminal", models.StatusApproved, models.StatusRejected, false},
		{"RejectedIsTerminal", models.StatusRejected, models.StatusApproved, false},
		{"SelfTransitionRejected", models.StatusSubmitted, models.StatusSubmitted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := bv.ValidateStatusTransition(tt.current, tt.next)
			if tt.allowed && len(errs) > 0 {
				t.Errorf("Expected %s -> %s to be allowed, got %v", tt.current, tt.next, errs)
			}
			if !tt.allowed && len(errs) == 0 {
				t.Errorf("Expected %s -> %s to be rejected", tt.current, tt.next)
			}
		})
	}

	t.Run("UnknownCurrentStatus", func(t *testing.T) {
		errs := bv.ValidateStatusTransition("draft", models.StatusApproved)
		if len(errs) == 0 {
			t.Fatal("Expected error for unknown current status")
		}
		if errs[0].Rule != "status_transition" {
			t.Errorf("Expected status_transition rule, got %q", errs[0].Rule)
		}
	})
}

func TestAllowedTransitionsFrom(t *testing.T) {
	if got := AllowedTransitionsFrom(models.StatusWaitlisted); len(got) != 2 {
		t.Errorf("Expected 2 transitions from waitlisted, got %v", got)
	}
	if got := AllowedTransitionsFrom(models.StatusApproved); got != nil {
		t.Errorf("Expected no transitions from approved, got %v", got)
	}
	if got := AllowedTransitionsFrom("draft"); got != nil {
		t.Errorf("Expected no transitions for unknown status, got %v", got)
	}
}

func TestValidateEducation(t *testing.T) {
	bv := NewBusinessValidator()

	t.Run("ValidRecord", func(t *testing.T) {
		req := &EducationRequest{
			DegreeID:      1,
			InstituteID:   2,
			PassingYear:   2024,
			TotalMarks:    1100,
			ObtainedMarks: 910,
		}
		if errs := bv.ValidateEducation(req); len(errs) > 0 {
			t.Errorf("Expected valid record, got %v", errs)
		}
	})

	t.Run("ObtainedExceedsTotal", func(t *testing.T) {
		req := &EducationRequest{
			DegreeID:      1,
			InstituteID:   2,
			PassingYear:   2024,
			TotalMarks:    1100,
			ObtainedMarks: 1200,
		}
		errs := bv.ValidateEducation(req)
		if len(errs) == 0 {
			t.Fatal("Expected error when obtained marks exceed total")
		}
		if errs[0].Field != "obtained_marks" {
			t.Errorf("Expected obtained_marks error, got %q", errs[0].Field)
		}
	})

	t.Run("FuturePassingYear", func(t *testing.T) {
		req := &EducationRequest{
			DegreeID:      1,
			InstituteID:   2,
			PassingYear:   time.Now().Year() + 1,
			TotalMarks:    1100,
			ObtainedMarks: 900,
		}
		if errs := bv.ValidateEducation(req); len(errs) == 0 {
			t.Error("Expected error for passing year in the future")
		}
	})
}

func TestValidateSessionRange(t *testing.T) {
	bv := NewBusinessValidator()

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	if errs := bv.ValidateSessionRange(start, start.AddDate(1, 0, 0)); len(errs) > 0 {
		t.Errorf("Expected valid range, got %v", errs)
	}
	if errs := bv.ValidateSessionRange(start, start); len(errs) == 0 {
		t.Error("Expected error for zero-length range")
	}
	if errs := bv.ValidateSessionRange(start, start.AddDate(0, 0, -1)); len(errs) == 0 {
		t.Error("Expected error for inverted range")
	}
}

func TestValidateFeeStructure(t *testing.T) {
	bv := NewBusinessValidator()

	t.Run("AllZeroFees", func(t *testing.T) {
		req := &FeeStructureRequest{ProgramID: 1, SessionID: 1}
		if errs := bv.ValidateFeeStructure(req); len(errs) == 0 {
			t.Error("Expected error when every fee component is zero")
		}
	})

	t.Run("OneNonZeroComponent", func(t *testing.T) {
		req := &FeeStructureRequest{ProgramID: 1, SessionID: 1, ApplicationFee: 500}
		if errs := bv.ValidateFeeStructure(req); len(errs) > 0 {
			t.Errorf("Expected valid fee structure, got %v", errs)
		}
	})
}

func TestCustomFieldRules(t *testing.T) {
	v := New()

	type cnicHolder struct {
		CNIC string `validate:"cnic"`
	}
	type phoneHolder struct {
		Phone string `validate:"phone_number"`
	}

	t.Run("CNIC", func(t *testing.T) {
		if err := v.ValidateStruct(&cnicHolder{CNIC: "35202-1234567-1"}); err != nil {
			t.Errorf("Expected valid CNIC, got %v", err)
		}
		for _, bad := range []string{"35202-1234567", "352021234567-1", "abcde-1234567-1"} {
			if err := v.ValidateStruct(&cnicHolder{CNIC: bad}); err == nil {
				t.Errorf("Expected CNIC %q to be rejected", bad)
			}
		}
	})

	t.Run("PhoneNumber", func(t *testing.T) {
		for _, good := range []string{"+92 300 1234567", "0300-1234567", "03001234567"} {
			if err := v.ValidateStruct(&phoneHolder{Phone: good}); err != nil {
				t.Errorf("Expected phone %q to be accepted, got %v", good, err)
			}
		}
		for _, bad := range []string{"12", "not-a-number"} {
			if err := v.ValidateStruct(&phoneHolder{Phone: bad}); err == nil {
				t.Errorf("Expected phone %q to be rejected", bad)
			}
		}
	})
}
