package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/campus-suite/admissions-service/internal/models"
	"github.com/campus-suite/admissions-service/internal/repositories"
	"github.com/campus-suite/admissions-service/internal/validator"
)

type profileService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewProfileService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator) ProfileService {
	return &profileService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: v,
	}
}

// ===== PROFILE ROOT =====

func (s *profileService) GetMyProfile(ctx context.Context, userID string) (*ProfileResponse, error) {
	profile, err := s.repo.Profile().GetOrCreate(ctx, s.db, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return buildProfileResponse(profile), nil
}

func (s *profileService) GetProfile(ctx context.Context, targetUserID, requesterID string) (*ProfileResponse, error) {
	if err := s.authorizeProfileAccess(ctx, targetUserID, requesterID, "read"); err != nil {
		return nil, err
	}

	profile, err := s.repo.Profile().GetByUserID(ctx, s.db, targetUserID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return buildProfileResponse(profile), nil
}

func (s *profileService) SetPicture(ctx context.Context, targetUserID, requesterID, path string) error {
	if err := s.authorizeProfileAccess(ctx, targetUserID, requesterID, "update"); err != nil {
		return err
	}

	profile, err := s.repo.Profile().GetOrCreate(ctx, s.db, targetUserID)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	if err := s.repo.Profile().UpdatePicture(ctx, s.db, profile.ID, path); err != nil {
		return fmt.Errorf("failed to update picture: %w", err)
	}
	return nil
}

// ===== SECTIONS =====

func (s *profileService) UpdatePersonalInfo(ctx context.Context, targetUserID string, req *PersonalInfoRequest, requesterID string) (*ProfileResponse, error) {
	if errs := s.validator.GetBusinessValidator().Validate(req); len(errs) > 0 {
		return nil, errs
	}
	if err := s.authorizeProfileAccess(ctx, targetUserID, requesterID, "update"); err != nil {
		return nil, err
	}

	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date of birth", ErrValidationFailed)
	}
	if !dob.Before(time.Now()) {
		return nil, NewBusinessRuleError("dob_in_future", "date of birth must be in the past", map[string]interface{}{
			"date_of_birth": req.DateOfBirth,
		})
	}

	profile, err := s.repo.Profile().GetOrCreate(ctx, s.db, targetUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	info := &models.PersonalInformation{
		StudentID:         profile.ID,
		FatherName:        req.FatherName,
		CNIC:              req.CNIC,
		RegisteredContact: req.RegisteredContact,
		DateOfBirth:       datatypes.Date(dob),
		Gender:            models.Gender(req.Gender),
	}
	if err := s.repo.Profile().UpsertPersonalInfo(ctx, s.db, info); err != nil {
		return nil, fmt.Errorf("failed to save personal information: %w", err)
	}

	return s.reload(ctx, targetUserID)
}

func (s *profileService) UpdateContactInfo(ctx context.Context, targetUserID string, req *ContactInfoRequest, requesterID string) (*ProfileResponse, error) {
	if errs := s.validator.GetBusinessValidator().Validate(req); len(errs) > 0 {
		return nil, errs
	}
	if err := s.authorizeProfileAccess(ctx, targetUserID, requesterID, "update"); err != nil {
		return nil, err
	}

	profile, err := s.repo.Profile().GetOrCreate(ctx, s.db, targetUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	info := &models.ContactInformation{
		StudentID:        profile.ID,
		District:         req.District,
		Tehsil:           req.Tehsil,
		City:             req.City,
		PermanentAddress: req.PermanentAddress,
		CurrentAddress:   req.CurrentAddress,
		PostalAddress:    req.PostalAddress,
	}
	if err := s.repo.Profile().UpsertContactInfo(ctx, s.db, info); err != nil {
		return nil, fmt.Errorf("failed to save contact information: %w", err)
	}

	return s.reload(ctx, targetUserID)
}

func (s *profileService) UpdateMedicalInfo(ctx context.Context, targetUserID string, req *MedicalInfoRequest, requesterID string) (*ProfileResponse, error) {
	if errs := s.validator.GetBusinessValidator().Validate(req); len(errs) > 0 {
		return nil, errs
	}
	if err := s.authorizeProfileAccess(ctx, targetUserID, requesterID, "update"); err != nil {
		return nil, err
	}

	profile, err := s.repo.Profile().GetOrCreate(ctx, s.db, targetUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	info := &models.MedicalInformation{
		StudentID:    profile.ID,
		BloodGroupID: req.BloodGroupID,
		IsDisabled:   req.IsDisabled,
	}
	if err := s.repo.Profile().UpsertMedicalInfo(ctx, s.db, info, req.DiseaseIDs); err != nil {
		return nil, fmt.Errorf("failed to save medical information: %w", err)
	}

	return s.reload(ctx, targetUserID)
}

// ===== RELATIVES =====

func (s *profileService) AddRelative(ctx context.Context, targetUserID string, req *RelativeRequest, requesterID string) (*models.StudentRelative, error) {
	if errs := s.validator.GetBusinessValidator().Validate(req); len(errs) > 0 {
		return nil, errs
	}
	if err := s.authorizeProfileAccess(ctx, targetUserID, requesterID, "update"); err != nil {
		return nil, err
	}

	profile, err := s.repo.Profile().GetOrCreate(ctx, s.db, targetUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	relative := &models.StudentRelative{
		StudentID:    profile.ID,
		Name:         req.Name,
		Relationship: req.Relationship,
		ContactOne:   req.ContactOne,
		ContactTwo:   req.ContactTwo,
		Address:      req.Address,
	}
	if err := s.repo.Profile().AddRelative(ctx, s.db, relative); err != nil {
		return nil, fmt.Errorf("failed to add relative: %w", err)
	}
	return relative, nil
}

func (s *profileService) DeleteRelative(ctx context.Context, targetUserID string, relativeID uint, requesterID string) error {
	if err := s.authorizeProfileAccess(ctx, targetUserID, requesterID, "update"); err != nil {
		return err
	}

	profile, err := s.repo.Profile().GetByUserID(ctx, s.db, targetUserID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrProfileNotFound
		}
		return fmt.Errorf("failed to load profile: %w", err)
	}

	if err := s.repo.Profile().DeleteRelative(ctx, s.db, profile.ID, relativeID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrRelativeNotFound
		}
		return fmt.Errorf("failed to delete relative: %w", err)
	}
	return nil
}

// ===== EDUCATIONAL BACKGROUND =====

func (s *profileService) AddEducation(ctx context.Context, targetUserID string, req *EducationRequest, requesterID string) (*models.EducationalBackground, error) {
	if errs := s.validator.GetBusinessValidator().ValidateEducation(req); len(errs) > 0 {
		return nil, errs
	}
	if err := s.authorizeProfileAccess(ctx, targetUserID, requesterID, "update"); err != nil {
		return nil, err
	}

	profile, err := s.repo.Profile().GetOrCreate(ctx, s.db, targetUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	record := &models.EducationalBackground{
		StudentID:     profile.ID,
		DegreeID:      req.DegreeID,
		InstituteID:   req.InstituteID,
		PassingYear:   req.PassingYear,
		TotalMarks:    req.TotalMarks,
		ObtainedMarks: req.ObtainedMarks,
		Grade:         req.Grade,
	}
	record.ComputePercentage()

	if err := s.repo.Profile().AddEducation(ctx, s.db, record); err != nil {
		return nil, fmt.Errorf("failed to add educational record: %w", err)
	}
	return record, nil
}

func (s *profileService) UpdateEducation(ctx context.Context, targetUserID string, recordID uint, req *EducationRequest, requesterID string) (*models.EducationalBackground, error) {
	if errs := s.validator.GetBusinessValidator().ValidateEducation(req); len(errs) > 0 {
		return nil, errs
	}
	if err := s.authorizeProfileAccess(ctx, targetUserID, requesterID, "update"); err != nil {
		return nil, err
	}

	profile, err := s.repo.Profile().GetByUserID(ctx, s.db, targetUserID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	record := &models.EducationalBackground{
		ID:            recordID,
		StudentID:     profile.ID,
		DegreeID:      req.DegreeID,
		InstituteID:   req.InstituteID,
		PassingYear:   req.PassingYear,
		TotalMarks:    req.TotalMarks,
		ObtainedMarks: req.ObtainedMarks,
		Grade:         req.Grade,
	}
	record.ComputePercentage()

	if err := s.repo.Profile().UpdateEducation(ctx, s.db, record); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEducationNotFound
		}
		return nil, fmt.Errorf("failed to update educational record: %w", err)
	}
	return record, nil
}

func (s *profileService) DeleteEducation(ctx context.Context, targetUserID string, recordID uint, requesterID string) error {
	if err := s.authorizeProfileAccess(ctx, targetUserID, requesterID, "update"); err != nil {
		return err
	}

	profile, err := s.repo.Profile().GetByUserID(ctx, s.db, targetUserID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrProfileNotFound
		}
		return fmt.Errorf("failed to load profile: %w", err)
	}

	if err := s.repo.Profile().DeleteEducation(ctx, s.db, profile.ID, recordID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrEducationNotFound
		}
		return fmt.Errorf("failed to delete educational record: %w", err)
	}
	return nil
}

// ===== LOOKUP TABLES =====

func (s *profileService) ListDegrees(ctx context.Context) ([]*models.Degree, error) {
	return s.repo.Profile().ListDegrees(ctx, s.db)
}

func (s *profileService) CreateDegree(ctx context.Context, name, userID string) (*models.Degree, error) {
	if err := s.requireDataEntry(ctx, userID, "degree"); err != nil {
		return nil, err
	}
	degree := &models.Degree{Name: name}
	if err := s.repo.Profile().CreateDegree(ctx, s.db, degree); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrDuplicateCatalog
		}
		return nil, fmt.Errorf("failed to create degree: %w", err)
	}
	return degree, nil
}

func (s *profileService) ListInstitutes(ctx context.Context) ([]*models.Institute, error) {
	return s.repo.Profile().ListInstitutes(ctx, s.db)
}

func (s *profileService) CreateInstitute(ctx context.Context, name, userID string) (*models.Institute, error) {
	if err := s.requireDataEntry(ctx, userID, "institute"); err != nil {
		return nil, err
	}
	institute := &models.Institute{Name: name}
	if err := s.repo.Profile().CreateInstitute(ctx, s.db, institute); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrDuplicateCatalog
		}
		return nil, fmt.Errorf("failed to create institute: %w", err)
	}
	return institute, nil
}

func (s *profileService) ListBloodGroups(ctx context.Context) ([]*models.BloodGroup, error) {
	return s.repo.Profile().ListBloodGroups(ctx, s.db)
}

func (s *profileService) ListDiseases(ctx context.Context) ([]*models.Disease, error) {
	return s.repo.Profile().ListDiseases(ctx, s.db)
}

func (s *profileService) CreateDisease(ctx context.Context, name, userID string) (*models.Disease, error) {
	if err := s.requireDataEntry(ctx, userID, "disease"); err != nil {
		return nil, err
	}
	disease := &models.Disease{Name: name}
	if err := s.repo.Profile().CreateDisease(ctx, s.db, disease); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrDuplicateCatalog
		}
		return nil, fmt.Errorf("failed to create disease: %w", err)
	}
	return disease, nil
}

// ===== HELPERS =====

// authorizeProfileAccess allows the profile owner and data entry staff.
func (s *profileService) authorizeProfileAccess(ctx context.Context, targetUserID, requesterID, action string) error {
	if targetUserID == requesterID {
		return nil
	}

	requester, err := s.repo.User().GetByID(ctx, requesterID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}
	if !IsDataEntry(requester.Role) {
		return NewPermissionError(requesterID, 0, "profile", action, "not the owner and not data entry staff")
	}
	return nil
}

func (s *profileService) requireDataEntry(ctx context.Context, userID, resource string) error {
	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}
	if !IsDataEntry(user.Role) {
		return NewPermissionError(userID, 0, resource, "create", "data entry role required")
	}
	return nil
}

func (s *profileService) reload(ctx context.Context, userID string) (*ProfileResponse, error) {
	profile, err := s.repo.Profile().GetByUserID(ctx, s.db, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload profile: %w", err)
	}
	return buildProfileResponse(profile), nil
}

func buildProfileResponse(profile *models.StudentProfile) *ProfileResponse {
	return &ProfileResponse{
		StudentProfile:    profile,
		CompletionPercent: profile.CompletionPercent(),
		MissingSections:   profile.MissingSections(),
	}
}
