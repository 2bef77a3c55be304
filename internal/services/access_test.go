package services

import (
	"testing"

	"github.com/campus-suite/admissions-service/internal/models"
)

func TestRolePredicates(t *testing.T) {
	tests := []struct {
		role               models.UserRole
		admin              bool
		officer            bool
		manageApplications bool
		accountant         bool
		dataEntry          bool
		viewReports        bool
		staff              bool
	}{
		{models.RoleAdmin, true, true, true, true, true, true, true},
		{models.RoleAdmissionOfficer, false, true, true, false, true, true, true},
		{models.RoleReviewer, false, false, true, false, false, false, true},
		{models.RoleAccountant, false, false, false, true, false, false, true},
		{models.RoleDataEntry, false, false, false, false, true, false, true},
		{models.RoleApplicant, false, false, false, false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			if got := IsAdminUser(tt.role); got != tt.admin {
				t.Errorf("IsAdminUser = %v, want %v", got, tt.admin)
			}
			if got := IsAdmissionOfficer(tt.role); got != tt.officer {
				t.Errorf("IsAdmissionOfficer = %v, want %v", got, tt.officer)
			}
			if got := CanManageApplications(tt.role); got != tt.manageApplications {
				t.Errorf("CanManageApplications = %v, want %v", got, tt.manageApplications)
			}
			if got := IsAccountant(tt.role); got != tt.accountant {
				t.Errorf("IsAccountant = %v, want %v", got, tt.accountant)
			}
			if got := IsDataEntry(tt.role); got != tt.dataEntry {
				t.Errorf("IsDataEntry = %v, want %v", got, tt.dataEntry)
			}
			if got := CanViewReports(tt.role); got != tt.viewReports {
				t.Errorf("CanViewReports = %v, want %v", got, tt.viewReports)
			}
			if got := IsStaff(tt.role); got != tt.staff {
				t.Errorf("IsStaff = %v, want %v", got, tt.staff)
			}
		})
	}

	t.Run("UnknownRole", func(t *testing.T) {
		if IsStaff(models.UserRole("superuser")) {
			t.Error("Unknown role should never count as staff")
		}
	})
}
