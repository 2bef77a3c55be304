package models

import (
	"math"
	"time"

	"gorm.io/datatypes"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// StudentProfile is the applicant-owned record that gates eligibility to
// apply. A profile is complete once all four sections exist: personal,
// contact, at least one educational record, and medical.
type StudentProfile struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	UserID      string  `json:"user_id" gorm:"uniqueIndex;not null;size:255"`
	PicturePath *string `json:"picture_path" gorm:"size:512"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	User               User                    `json:"user" gorm:"foreignKey:UserID"`
	Personal           *PersonalInformation    `json:"personal_info" gorm:"foreignKey:StudentID"`
	Contact            *ContactInformation     `json:"contact_info" gorm:"foreignKey:StudentID"`
	Relatives          []StudentRelative       `json:"relatives" gorm:"foreignKey:StudentID"`
	EducationalRecords []EducationalBackground `json:"educational_records" gorm:"foreignKey:StudentID"`
	Medical            *MedicalInformation     `json:"medical_info" gorm:"foreignKey:StudentID"`
}

func (StudentProfile) TableName() string {
	return "student_profiles"
}

// ProfileSection names the pieces a complete profile requires.
type ProfileSection string

const (
	SectionPersonal  ProfileSection = "personal"
	SectionContact   ProfileSection = "contact"
	SectionEducation ProfileSection = "education"
	SectionMedical   ProfileSection = "medical"
)

// MissingSections returns the sections still required before the profile
// counts as complete. Relations must be preloaded by the caller.
func (p *StudentProfile) MissingSections() []ProfileSection {
	var missing []ProfileSection
	if p.Personal == nil {
		missing = append(missing, SectionPersonal)
	}
	if p.Contact == nil {
		missing = append(missing, SectionContact)
	}
	if len(p.EducationalRecords) == 0 {
		missing = append(missing, SectionEducation)
	}
	if p.Medical == nil {
		missing = append(missing, SectionMedical)
	}
	return missing
}

// CompletionPercent gives 25 points per completed section.
func (p *StudentProfile) CompletionPercent() int {
	return (4 - len(p.MissingSections())) * 25
}

type PersonalInformation struct {
	ID                uint           `json:"id" gorm:"primaryKey"`
	StudentID         uint           `json:"student_id" gorm:"uniqueIndex;not null"`
	FatherName        string         `json:"father_name" gorm:"not null;size:100"`
	CNIC              string         `json:"cnic" gorm:"not null;size:15"`
	RegisteredContact string         `json:"registered_contact" gorm:"size:20"`
	DateOfBirth       datatypes.Date `json:"date_of_birth" gorm:"not null"`
	Gender            Gender         `json:"gender" gorm:"not null;size:10"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PersonalInformation) TableName() string {
	return "personal_information"
}

type ContactInformation struct {
	ID               uint   `json:"id" gorm:"primaryKey"`
	StudentID        uint   `json:"student_id" gorm:"uniqueIndex;not null"`
	District         string `json:"district" gorm:"not null;size:100"`
	Tehsil           string `json:"tehsil" gorm:"size:100"`
	City             string `json:"city" gorm:"not null;size:100"`
	PermanentAddress string `json:"permanent_address" gorm:"type:text"`
	CurrentAddress   string `json:"current_address" gorm:"type:text"`
	PostalAddress    string `json:"postal_address" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ContactInformation) TableName() string {
	return "contact_information"
}

type StudentRelative struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	StudentID    uint   `json:"student_id" gorm:"not null;index"`
	Name         string `json:"name" gorm:"not null;size:100"`
	Relationship string `json:"relationship" gorm:"not null;size:50"`
	ContactOne   string `json:"contact_one" gorm:"size:20"`
	ContactTwo   string `json:"contact_two" gorm:"size:20"`
	Address      string `json:"address" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (StudentRelative) TableName() string {
	return "student_relatives"
}

type Degree struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null;size:80"`
}

func (Degree) TableName() string {
	return "degrees"
}

type Institute struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null;size:80"`
}

func (Institute) TableName() string {
	return "institutes"
}

type EducationalBackground struct {
	ID            uint    `json:"id" gorm:"primaryKey"`
	StudentID     uint    `json:"student_id" gorm:"not null;index"`
	InstituteID   uint    `json:"institute_id" gorm:"not null"`
	DegreeID      uint    `json:"degree_id" gorm:"not null"`
	PassingYear   int     `json:"passing_year"`
	TotalMarks    int     `json:"total_marks"`
	ObtainedMarks int     `json:"obtained_marks"`
	Percentage    float64 `json:"percentage"`
	Grade         string  `json:"grade" gorm:"size:10"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Institute Institute `json:"institute" gorm:"foreignKey:InstituteID"`
	Degree    Degree    `json:"degree" gorm:"foreignKey:DegreeID"`
}

func (EducationalBackground) TableName() string {
	return "educational_backgrounds"
}

// ComputePercentage derives the percentage from marks, rounded to two
// decimal places. Zero total leaves the percentage untouched.
func (e *EducationalBackground) ComputePercentage() {
	if e.TotalMarks > 0 {
		e.Percentage = math.Round(float64(e.ObtainedMarks)/float64(e.TotalMarks)*100*100) / 100
	}
}

type BloodGroup struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null;size:10"`
}

func (BloodGroup) TableName() string {
	return "blood_groups"
}

type Disease struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null;size:50"`
}

func (Disease) TableName() string {
	return "diseases"
}

type MedicalInformation struct {
	ID           uint  `json:"id" gorm:"primaryKey"`
	StudentID    uint  `json:"student_id" gorm:"uniqueIndex;not null"`
	BloodGroupID *uint `json:"blood_group_id"`
	IsDisabled   bool  `json:"is_disabled" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	BloodGroup *BloodGroup `json:"blood_group" gorm:"foreignKey:BloodGroupID"`
	Diseases   []Disease   `json:"diseases" gorm:"many2many:medical_information_diseases"`
}

func (MedicalInformation) TableName() string {
	return "medical_information"
}
