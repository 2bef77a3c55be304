package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/campus-suite/admissions-service/internal/models"
	"github.com/campus-suite/admissions-service/internal/repositories"
)

type profileRepository struct {
	db *gorm.DB
}

func NewProfilePostgreSQL(db *gorm.DB) repositories.ProfileRepository {
	return &profileRepository{db: db}
}

// ===== PROFILE ROOT =====

func (r *profileRepository) GetOrCreate(ctx context.Context, tx *gorm.DB, userID string) (*models.StudentProfile, error) {
	db := r.getDB(tx)
	var profile models.StudentProfile

	err := db.WithContext(ctx).
		Where(models.StudentProfile{UserID: userID}).
		FirstOrCreate(&profile).Error
	if err != nil {
		return nil, r.handleDBError(err, "get or create profile")
	}

	return r.GetByID(ctx, tx, profile.ID)
}

func (r *profileRepository) GetByUserID(ctx context.Context, tx *gorm.DB, userID string) (*models.StudentProfile, error) {
	db := r.getDB(tx)
	var profile models.StudentProfile

	if err := r.withSections(db.WithContext(ctx)).
		Where("user_id = ?", userID).
		First(&profile).Error; err != nil {
		return nil, r.handleDBError(err, "get profile by user id")
	}

	return &profile, nil
}

func (r *profileRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.StudentProfile, error) {
	db := r.getDB(tx)
	var profile models.StudentProfile

	if err := r.withSections(db.WithContext(ctx)).
		First(&profile, id).Error; err != nil {
		return nil, r.handleDBError(err, "get profile by id")
	}

	return &profile, nil
}

func (r *profileRepository) UpdatePicture(ctx context.Context, tx *gorm.DB, profileID uint, path string) error {
	db := r.getDB(tx)
	result := db.WithContext(ctx).
		Model(&models.StudentProfile{}).
		Where("id = ?", profileID).
		Update("picture_path", path)
	if result.Error != nil {
		return r.handleDBError(result.Error, "update profile picture")
	}
	if result.RowsAffected == 0 {
		return r.handleDBError(gorm.ErrRecordNotFound, "update profile picture")
	}
	return nil
}

// withSections preloads everything completion checks need
func (r *profileRepository) withSections(db *gorm.DB) *gorm.DB {
	return db.
		Preload("User").
		Preload("Personal").
		Preload("Contact").
		Preload("Relatives").
		Preload("EducationalRecords.Institute").
		Preload("EducationalRecords.Degree").
		Preload("Medical.BloodGroup").
		Preload("Medical.Diseases")
}

// ===== SECTION UPSERTS =====

func (r *profileRepository) UpsertPersonalInfo(ctx context.Context, tx *gorm.DB, info *models.PersonalInformation) error {
	db := r.getDB(tx)

	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "student_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"father_name", "cnic", "registered_contact", "date_of_birth", "gender", "updated_at",
		}),
	}).Create(info).Error
	if err != nil {
		return r.handleDBError(err, "upsert personal information")
	}
	return nil
}

func (r *profileRepository) UpsertContactInfo(ctx context.Context, tx *gorm.DB, info *models.ContactInformation) error {
	db := r.getDB(tx)

	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "student_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"district", "tehsil", "city", "permanent_address", "current_address", "postal_address", "updated_at",
		}),
	}).Create(info).Error
	if err != nil {
		return r.handleDBError(err, "upsert contact information")
	}
	return nil
}

func (r *profileRepository) UpsertMedicalInfo(ctx context.Context, tx *gorm.DB, info *models.MedicalInformation, diseaseIDs []uint) error {
	db := r.getDB(tx)

	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "student_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"blood_group_id", "is_disabled", "updated_at",
		}),
	}).Create(info).Error
	if err != nil {
		return r.handleDBError(err, "upsert medical information")
	}

	// Reload to get the row ID when the conflict path was taken
	var saved models.MedicalInformation
	if err := db.WithContext(ctx).
		Where("student_id = ?", info.StudentID).
		First(&saved).Error; err != nil {
		return r.handleDBError(err, "reload medical information")
	}

	diseases := make([]models.Disease, 0, len(diseaseIDs))
	if len(diseaseIDs) > 0 {
		if err := db.WithContext(ctx).Find(&diseases, diseaseIDs).Error; err != nil {
			return r.handleDBError(err, "load diseases for medical information")
		}
		if len(diseases) != len(diseaseIDs) {
			return r.handleDBError(gorm.ErrRecordNotFound, "load diseases for medical information")
		}
	}

	if err := db.WithContext(ctx).
		Model(&saved).
		Association("Diseases").
		Replace(diseases); err != nil {
		return r.handleDBError(err, "replace medical diseases")
	}

	info.ID = saved.ID
	return nil
}

// ===== RELATIVES =====

func (r *profileRepository) AddRelative(ctx context.Context, tx *gorm.DB, relative *models.StudentRelative) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(relative).Error; err != nil {
		return r.handleDBError(err, "add relative")
	}
	return nil
}

func (r *profileRepository) ListRelatives(ctx context.Context, tx *gorm.DB, profileID uint) ([]*models.StudentRelative, error) {
	db := r.getDB(tx)
	var relatives []*models.StudentRelative

	if err := db.WithContext(ctx).
		Where("student_id = ?", profileID).
		Order("id ASC").
		Find(&relatives).Error; err != nil {
		return nil, r.handleDBError(err, "list relatives")
	}

	return relatives, nil
}

func (r *profileRepository) DeleteRelative(ctx context.Context, tx *gorm.DB, profileID, relativeID uint) error {
	db := r.getDB(tx)
	result := db.WithContext(ctx).
		Where("id = ? AND student_id = ?", relativeID, profileID).
		Delete(&models.StudentRelative{})
	if result.Error != nil {
		return r.handleDBError(result.Error, "delete relative")
	}
	if result.RowsAffected == 0 {
		return r.handleDBError(gorm.ErrRecordNotFound, "delete relative")
	}
	return nil
}

// ===== EDUCATIONAL BACKGROUND =====

func (r *profileRepository) AddEducation(ctx context.Context, tx *gorm.DB, record *models.EducationalBackground) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(record).Error; err != nil {
		return r.handleDBError(err, "add educational record")
	}
	return nil
}

func (r *profileRepository) UpdateEducation(ctx context.Context, tx *gorm.DB, record *models.EducationalBackground) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Save(record).Error; err != nil {
		return r.handleDBError(err, "update educational record")
	}
	return nil
}

func (r *profileRepository) ListEducation(ctx context.Context, tx *gorm.DB, profileID uint) ([]*models.EducationalBackground, error) {
	db := r.getDB(tx)
	var records []*models.EducationalBackground

	if err := db.WithContext(ctx).
		Preload("Institute").
		Preload("Degree").
		Where("student_id = ?", profileID).
		Order("passing_year DESC, id ASC").
		Find(&records).Error; err != nil {
		return nil, r.handleDBError(err, "list educational records")
	}

	return records, nil
}

func (r *profileRepository) DeleteEducation(ctx context.Context, tx *gorm.DB, profileID, recordID uint) error {
	db := r.getDB(tx)
	result := db.WithContext(ctx).
		Where("id = ? AND student_id = ?", recordID, profileID).
		Delete(&models.EducationalBackground{})
	if result.Error != nil {
		return r.handleDBError(result.Error, "delete educational record")
	}
	if result.RowsAffected == 0 {
		return r.handleDBError(gorm.ErrRecordNotFound, "delete educational record")
	}
	return nil
}

// ===== LOOKUP TABLES =====

func (r *profileRepository) ListDegrees(ctx context.Context, tx *gorm.DB) ([]*models.Degree, error) {
	db := r.getDB(tx)
	var degrees []*models.Degree
	if err := db.WithContext(ctx).Order("name ASC").Find(&degrees).Error; err != nil {
		return nil, r.handleDBError(err, "list degrees")
	}
	return degrees, nil
}

func (r *profileRepository) CreateDegree(ctx context.Context, tx *gorm.DB, degree *models.Degree) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(degree).Error; err != nil {
		return r.handleDBError(err, "create degree")
	}
	return nil
}

func (r *profileRepository) ListInstitutes(ctx context.Context, tx *gorm.DB) ([]*models.Institute, error) {
	db := r.getDB(tx)
	var institutes []*models.Institute
	if err := db.WithContext(ctx).Order("name ASC").Find(&institutes).Error; err != nil {
		return nil, r.handleDBError(err, "list institutes")
	}
	return institutes, nil
}

func (r *profileRepository) CreateInstitute(ctx context.Context, tx *gorm.DB, institute *models.Institute) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(institute).Error; err != nil {
		return r.handleDBError(err, "create institute")
	}
	return nil
}

func (r *profileRepository) ListBloodGroups(ctx context.Context, tx *gorm.DB) ([]*models.BloodGroup, error) {
	db := r.getDB(tx)
	var groups []*models.BloodGroup
	if err := db.WithContext(ctx).Order("id ASC").Find(&groups).Error; err != nil {
		return nil, r.handleDBError(err, "list blood groups")
	}
	return groups, nil
}

func (r *profileRepository) ListDiseases(ctx context.Context, tx *gorm.DB) ([]*models.Disease, error) {
	db := r.getDB(tx)
	var diseases []*models.Disease
	if err := db.WithContext(ctx).Order("name ASC").Find(&diseases).Error; err != nil {
		return nil, r.handleDBError(err, "list diseases")
	}
	return diseases, nil
}

func (r *profileRepository) CreateDisease(ctx context.Context, tx *gorm.DB, disease *models.Disease) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(disease).Error; err != nil {
		return r.handleDBError(err, "create disease")
	}
	return nil
}

// ===== HELPERS =====

func (r *profileRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *profileRepository) handleDBError(err error, operation string) error {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return handleDBError(gorm.ErrRecordNotFound, operation)
	}
	return handleDBError(err, operation)
}
