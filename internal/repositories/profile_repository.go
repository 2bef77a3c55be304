package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/campus-suite/admissions-service/internal/models"
)

// ProfileRepository handles student profiles and their sections
type ProfileRepository interface {
	// Profile root
	GetOrCreate(ctx context.Context, tx *gorm.DB, userID string) (*models.StudentProfile, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID string) (*models.StudentProfile, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.StudentProfile, error)
	UpdatePicture(ctx context.Context, tx *gorm.DB, profileID uint, path string) error

	// Section upserts (one row per profile)
	UpsertPersonalInfo(ctx context.Context, tx *gorm.DB, info *models.PersonalInformation) error
	UpsertContactInfo(ctx context.Context, tx *gorm.DB, info *models.ContactInformation) error
	UpsertMedicalInfo(ctx context.Context, tx *gorm.DB, info *models.MedicalInformation, diseaseIDs []uint) error

	// Relatives
	AddRelative(ctx context.Context, tx *gorm.DB, relative *models.StudentRelative) error
	ListRelatives(ctx context.Context, tx *gorm.DB, profileID uint) ([]*models.StudentRelative, error)
	DeleteRelative(ctx context.Context, tx *gorm.DB, profileID, relativeID uint) error

	// Educational background (repeating section)
	AddEducation(ctx context.Context, tx *gorm.DB, record *models.EducationalBackground) error
	UpdateEducation(ctx context.Context, tx *gorm.DB, record *models.EducationalBackground) error
	ListEducation(ctx context.Context, tx *gorm.DB, profileID uint) ([]*models.EducationalBackground, error)
	DeleteEducation(ctx context.Context, tx *gorm.DB, profileID, recordID uint) error

	// Lookup tables
	ListDegrees(ctx context.Context, tx *gorm.DB) ([]*models.Degree, error)
	CreateDegree(ctx context.Context, tx *gorm.DB, degree *models.Degree) error
	ListInstitutes(ctx context.Context, tx *gorm.DB) ([]*models.Institute, error)
	CreateInstitute(ctx context.Context, tx *gorm.DB, institute *models.Institute) error
	ListBloodGroups(ctx context.Context, tx *gorm.DB) ([]*models.BloodGroup, error)
	ListDiseases(ctx context.Context, tx *gorm.DB) ([]*models.Disease, error)
	CreateDisease(ctx context.Context, tx *gorm.DB, disease *models.Disease) error
}
