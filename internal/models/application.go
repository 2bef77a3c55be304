package models

import (
	"time"
)

// Known application status codes. The rows themselves live in the
// application_statuses table and are seeded at startup.
const (
	StatusSubmitted   = "submitted"
	StatusUnderReview = "under_review"
	StatusApproved    = "approved"
	StatusRejected    = "rejected"
	StatusWaitlisted  = "waitlisted"
)

type ApplicationStatus struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Code        string `json:"code" gorm:"uniqueIndex;not null;size:30"`
	Name        string `json:"name" gorm:"not null;size:50"`
	Description string `json:"description" gorm:"type:text"`
}

func (ApplicationStatus) TableName() string {
	return "application_statuses"
}

// Application is the central lifecycle record. tracking_id, form_no and
// verification_hash are generated exactly once at creation and never
// regenerated; (student, program, session) is unique per applicant.
type Application struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	StudentID uint `json:"student_id" gorm:"not null;index:idx_application_triple,unique"`
	ProgramID uint `json:"program_id" gorm:"not null;index:idx_application_triple,unique"`
	SessionID uint `json:"session_id" gorm:"not null;index:idx_application_triple,unique"`
	StatusID  uint `json:"status_id" gorm:"not null;index"`

	TrackingID       string    `json:"tracking_id" gorm:"uniqueIndex;not null;size:50"`
	FormNo           string    `json:"form_no" gorm:"uniqueIndex;not null;size:50"`
	VerificationHash string    `json:"verification_hash" gorm:"uniqueIndex;not null;size:64"`
	AppliedAt        time.Time `json:"applied_at" gorm:"not null"`

	// Path of the stored QR code artifact encoding the verification URL.
	QRCodePath *string `json:"qrcode_path" gorm:"size:512"`

	UpdatedBy string    `json:"updated_by" gorm:"size:255"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Student      StudentProfile        `json:"student" gorm:"foreignKey:StudentID"`
	Program      Program               `json:"program" gorm:"foreignKey:ProgramID"`
	Session      AcademicSession       `json:"session" gorm:"foreignKey:SessionID"`
	Status       ApplicationStatus     `json:"status" gorm:"foreignKey:StatusID"`
	TrackingLogs []ApplicationTracking `json:"tracking_logs,omitempty" gorm:"foreignKey:ApplicationID"`
	Payments     []Payment             `json:"payments,omitempty" gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE"`
}

func (Application) TableName() string {
	return "applications"
}

// ApplicationTracking rows are append-only: one per creation and one per
// status change, never mutated or deleted.
type ApplicationTracking struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	ApplicationID uint      `json:"application_id" gorm:"not null;index"`
	StatusID      uint      `json:"status_id" gorm:"not null"`
	Remarks       string    `json:"remarks" gorm:"type:text"`
	ChangedBy     string    `json:"changed_by" gorm:"size:255"`
	Timestamp     time.Time `json:"timestamp" gorm:"not null;index"`

	Status ApplicationStatus `json:"status" gorm:"foreignKey:StatusID"`
}

func (ApplicationTracking) TableName() string {
	return "application_trackings"
}

type Announcement struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Title    string `json:"title" gorm:"not null;size:200" validate:"required,max=200"`
	Content  string `json:"content" gorm:"type:text" validate:"required"`
	IsActive bool   `json:"is_active" gorm:"default:true"`

	// Empty means visible to everyone.
	TargetRoles []AnnouncementRole `json:"target_roles" gorm:"foreignKey:AnnouncementID;constraint:OnDelete:CASCADE"`

	CreatedBy string    `json:"created_by" gorm:"not null;size:255"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Announcement) TableName() string {
	return "announcements"
}

type AnnouncementRole struct {
	ID             uint     `json:"id" gorm:"primaryKey"`
	AnnouncementID uint     `json:"announcement_id" gorm:"not null;index"`
	Role           UserRole `json:"role" gorm:"not null;size:20"`
}

func (AnnouncementRole) TableName() string {
	return "announcement_roles"
}
