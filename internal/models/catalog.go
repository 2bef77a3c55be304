package models

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Course struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null;size:255" validate:"required,max=255"`
	Code string `json:"code" gorm:"size:15" validate:"omitempty,max=15"`

	IsActive bool `json:"is_active" gorm:"default:true"`

	CreatedBy string         `json:"created_by" gorm:"size:255"`
	UpdatedBy string         `json:"updated_by" gorm:"size:255"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Course) TableName() string {
	return "courses"
}

type Program struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null;size:255" validate:"required,max=255"`
	Code string `json:"code" gorm:"size:15" validate:"omitempty,max=15"`

	IsActive bool `json:"is_active" gorm:"default:true"`

	CreatedBy string         `json:"created_by" gorm:"size:255"`
	UpdatedBy string         `json:"updated_by" gorm:"size:255"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Courses []Course `json:"courses" gorm:"many2many:program_courses"`
}

func (Program) TableName() string {
	return "programs"
}

type AcademicSession struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	StartDate datatypes.Date `json:"start_date" gorm:"not null"`
	EndDate   datatypes.Date `json:"end_date" gorm:"not null"`
	// Session label of the form "2025-2026", derived from the date range.
	Session   string `json:"session" gorm:"uniqueIndex;size:9"`
	IsCurrent bool   `json:"is_current" gorm:"default:false"`

	CreatedBy string    `json:"created_by" gorm:"size:255"`
	UpdatedBy string    `json:"updated_by" gorm:"size:255"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (AcademicSession) TableName() string {
	return "academic_sessions"
}

// DeriveLabel recomputes the session label from the date range.
func (s *AcademicSession) DeriveLabel() {
	s.Session = fmt.Sprintf("%d-%d", time.Time(s.StartDate).Year(), time.Time(s.EndDate).Year())
}

// BeforeSave keeps the label in sync with the dates.
func (s *AcademicSession) BeforeSave(tx *gorm.DB) error {
	s.DeriveLabel()
	return nil
}

// ProgramOffering advertises seats for a program in a session.
type ProgramOffering struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	ProgramID  uint `json:"program_id" gorm:"not null;index:idx_offering_program_session,unique"`
	SessionID  uint `json:"session_id" gorm:"not null;index:idx_offering_program_session,unique"`
	TotalSeats int  `json:"total_seats" gorm:"default:0" validate:"min=0"`
	IsActive   bool `json:"is_active" gorm:"default:true"`

	CreatedBy string    `json:"created_by" gorm:"size:255"`
	UpdatedBy string    `json:"updated_by" gorm:"size:255"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Program Program         `json:"program" gorm:"foreignKey:ProgramID"`
	Session AcademicSession `json:"session" gorm:"foreignKey:SessionID"`
}

func (ProgramOffering) TableName() string {
	return "program_offerings"
}
