package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleAdmin            UserRole = "admin"
	RoleAdmissionOfficer UserRole = "admission_officer"
	RoleDataEntry        UserRole = "data_entry"
	RoleAccountant       UserRole = "accountant"
	RoleReviewer         UserRole = "reviewer"
	RoleApplicant        UserRole = "applicant"
)

// AllRoles is the fixed role set; roles are flat, there is no hierarchy.
var AllRoles = []UserRole{
	RoleAdmin,
	RoleAdmissionOfficer,
	RoleDataEntry,
	RoleAccountant,
	RoleReviewer,
	RoleApplicant,
}

func (r UserRole) Valid() bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

// DisplayName returns the human-readable role name.
func (r UserRole) DisplayName() string {
	switch r {
	case RoleAdmin:
		return "Principal/Admin"
	case RoleAdmissionOfficer:
		return "Admission Officer"
	case RoleDataEntry:
		return "Data Entry Operator"
	case RoleAccountant:
		return "Accountant"
	case RoleReviewer:
		return "Application Reviewer"
	case RoleApplicant:
		return "Student/Applicant"
	default:
		return string(r)
	}
}

type User struct {
	ID        string   `json:"id" gorm:"primaryKey;size:255"`
	Email     string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	FirstName string   `json:"first_name" gorm:"size:100"`
	LastName  string   `json:"last_name" gorm:"size:100"`
	Phone     string   `json:"phone" gorm:"size:20"`
	CNIC      string   `json:"cnic" gorm:"size:15"`
	Role      UserRole `json:"role" gorm:"not null;size:20;index;default:applicant"`

	IsActive   bool `json:"is_active" gorm:"default:true"`
	IsVerified bool `json:"is_verified" gorm:"default:false"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
