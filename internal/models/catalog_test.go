package models

import (
	"testing"
	"time"

	"gorm.io/datatypes"
)

func TestAcademicSession_DeriveLabel(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  string
	}{
		{
			name:  "TwoYearSession",
			start: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
			end:   time.Date(2027, 6, 30, 0, 0, 0, 0, time.UTC),
			want:  "2026-2027",
		},
		{
			name:  "SameYearSession",
			start: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
			end:   time.Date(2026, 12, 15, 0, 0, 0, 0, time.UTC),
			want:  "2026-2026",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &AcademicSession{
				StartDate: datatypes.Date(tt.start),
				EndDate:   datatypes.Date(tt.end),
			}
			s.DeriveLabel()
			if s.Session != tt.want {
				t.Errorf("Expected label %q, got %q", tt.want, s.Session)
			}
		})
	}
}

func TestUserRole_Valid(t *testing.T) {
	for _, role := range AllRoles {
		if !role.Valid() {
			t.Errorf("Role %q should be valid", role)
		}
	}

	for _, role := range []UserRole{"", "superuser", "Admin"} {
		if role.Valid() {
			t.Errorf("Role %q should not be valid", role)
		}
	}
}

func TestPaymentType_Valid(t *testing.T) {
	for _, pt := range []PaymentType{PaymentApplication, PaymentAdmission, PaymentSecurity} {
		if !pt.Valid() {
			t.Errorf("Payment type %q should be valid", pt)
		}
	}
	if PaymentType("tuition").Valid() {
		t.Error("Unknown payment type should not be valid")
	}
}
