package services

import "github.com/campus-suite/admissions-service/internal/models"

// Role predicates. Roles are flat; admin is included wherever a staff
// role is accepted, but no other role implies another.

func IsAdminUser(role models.UserRole) bool {
	return role == models.RoleAdmin
}

func IsAdmissionOfficer(role models.UserRole) bool {
	return role == models.RoleAdmin || role == models.RoleAdmissionOfficer
}

// CanManageApplications covers the roles allowed to move applications
// through the review lifecycle.
func CanManageApplications(role models.UserRole) bool {
	switch role {
	case models.RoleAdmin, models.RoleAdmissionOfficer, models.RoleReviewer:
		return true
	}
	return false
}

func IsAccountant(role models.UserRole) bool {
	return role == models.RoleAdmin || role == models.RoleAccountant
}

// IsDataEntry covers roles allowed to edit applicant profiles on behalf
// of students.
func IsDataEntry(role models.UserRole) bool {
	switch role {
	case models.RoleAdmin, models.RoleAdmissionOfficer, models.RoleDataEntry:
		return true
	}
	return false
}

// CanViewReports covers dashboard and export access. Accountants are not
// included; payment statistics admit them through IsAccountant instead.
func CanViewReports(role models.UserRole) bool {
	switch role {
	case models.RoleAdmin, models.RoleAdmissionOfficer:
		return true
	}
	return false
}

func IsApplicant(role models.UserRole) bool {
	return role == models.RoleApplicant
}

// IsStaff is true for every role except applicant.
func IsStaff(role models.UserRole) bool {
	return role.Valid() && role != models.RoleApplicant
}
