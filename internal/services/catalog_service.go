package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/campus-suite/admissions-service/internal/cache"
	"github.com/campus-suite/admissions-service/internal/models"
	"github.com/campus-suite/admissions-service/internal/repositories"
	"github.com/campus-suite/admissions-service/internal/validator"
)

type catalogService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	cache     *cache.CacheManager
}

func NewCatalogService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator, cacheManager *cache.CacheManager) CatalogService {
	return &catalogService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: v,
		cache:     cacheManager,
	}
}

// ===== COURSES =====

func (s *catalogService) CreateCourse(ctx context.Context, req *CourseCreateRequest, userID string) (*models.Course, error) {
	if errs := s.validator.GetBusinessValidator().Validate(req); len(errs) > 0 {
		return nil, errs
	}
	if err := s.requireOfficer(ctx, userID, "course", "create"); err != nil {
		return nil, err
	}

	course := &models.Course{
		Name:      req.Name,
		Code:      req.Code,
		IsActive:  true,
		CreatedBy: userID,
	}
	if err := s.repo.Catalog().CreateCourse(ctx, s.db, course); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrDuplicateCatalog
		}
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	s.invalidateCatalog(ctx)
	return course, nil
}

func (s *catalogService) GetCourse(ctx context.Context, id uint) (*models.Course, error) {
	course, err := s.repo.Catalog().GetCourseByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return course, nil
}

func (s *catalogService) ListCourses(ctx context.Context) ([]*models.Course, error) {
	var courses []*models.Course
	err := s.cache.Catalog.CacheOrExecute(ctx, "courses", &courses, cache.CatalogCacheConfig.TTL, func() (interface{}, error) {
		return s.repo.Catalog().ListCourses(ctx, s.db)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

func (s *catalogService) UpdateCourse(ctx context.Context, id uint, req *CourseUpdateRequest, userID string) (*models.Course, error) {
	if errs := s.validator.GetBusinessValidator().Validate(req); len(errs) > 0 {
		return nil, errs
	}
	if err := s.requireOfficer(ctx, userID, "course", "update"); err != nil {
		return nil, err
	}

	course, err := s.repo.Catalog().GetCourseByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	if req.Name != nil {
		course.Name = *req.Name
	}
	if req.Code != nil {
		course.Code = *req.Code
	}
	if req.IsActive != nil {
		course.IsActive = *req.IsActive
	}
	course.UpdatedBy = userID

	if err := s.repo.Catalog().UpdateCourse(ctx, s.db, course); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrDuplicateCatalog
		}
		return nil, fmt.Errorf("failed to update course: %w", err)
	}

	s.invalidateCatalog(ctx)
	return course, nil
}

func (s *catalogService) DeleteCourse(ctx context.Context, id uint, userID string) error {
	if err := s.requireAdmin(ctx, userID, "course", "delete"); err != nil {
		return err
	}
	if err := s.repo.Catalog().DeleteCourse(ctx, s.db, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrCourseNotFound
		}
		return fmt.Errorf("failed to delete course: %w", err)
	}
	s.invalidateCatalog(ctx)
	return nil
}

// ===== PROGRAMS =====

func (s *catalogService) CreateProgram(ctx context.Context, req *ProgramCreateRequest, userID string) (*models.Program, error) {
	if errs := s.validator.GetBusinessValidator().Validate(req); len(errs) > 0 {
		return nil, errs
	}
	if err := s.requireOfficer(ctx, userID, "program", "create"); err != nil {
		return nil, err
	}

	program := &models.Program{
		Name:      req.Name,
		Code:      req.Code,
		IsActive:  true,
		CreatedBy: userID,
	}
	if err := s.repo.Catalog().CreateProgram(ctx, s.db, program); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrDuplicateCatalog
		}
		return nil, fmt.Errorf("failed to create program: %w", err)
	}

	if len(req.CourseIDs) > 0 {
		if err := s.repo.Catalog().SetProgramCourses(ctx, s.db, program.ID, req.CourseIDs); err != nil {
			return nil, fmt.Errorf("failed to assign courses: %w", err)
		}
	}

	s.invalidateCatalog(ctx)
	return s.GetProgram(ctx, program.ID)
}

func (s *catalogService) GetProgram(ctx context.Context, id uint) (*models.Program, error) {
	program, err := s.repo.Catalog().GetProgramByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProgramNotFound
		}
		return nil, fmt.Errorf("failed to get program: %w", err)
	}
	return program, nil
}

func (s *catalogService) ListPrograms(ctx context.Context, activeOnly bool) ([]*models.Program, error) {
	var programs []*models.Program
	key := fmt.Sprintf("programs:active:%t", activeOnly)
	err := s.cache.Catalog.CacheOrExecute(ctx, key, &programs, cache.CatalogCacheConfig.TTL, func() (interface{}, error) {
		return s.repo.Catalog().ListPrograms(ctx, s.db, activeOnly)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list programs: %w", err)
	}
	return programs, nil
}

func (s *catalogService) UpdateProgram(ctx context.Context, id uint, req *ProgramUpdateRequest, userID string) (*models.Program, error) {
	if errs := s.validator.GetBusinessValidator().Validate(req); len(errs) > 0 {
		return nil, errs
	}
	if err := s.requireOfficer(ctx, userID, "program", "update"); err != nil {
		return nil, err
	}

	program, err := s.repo.Catalog().GetProgramByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProgramNotFound
		}
		return nil, fmt.Errorf("failed to get program: %w", err)
	}

	if req.Name != nil {
		program.Name = *req.Name
	}
	if req.Code != nil {
		program.Code = *req.Code
	}
	if req.IsActive != nil {
		program.IsActive = *req.IsActive
	}
	program.UpdatedBy = userID

	if err := s.repo.Catalog().UpdateProgram(ctx, s.db, program); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrDuplicateCatalog
		}
		return nil, fmt.Errorf("failed to update program: %w", err)
	}

	if req.CourseIDs != nil {
		if err := s.repo.Catalog().SetProgramCourses(ctx, s.db, program.ID, req.CourseIDs); err != nil {
			return nil, fmt.Errorf("failed to assign courses: %w", err)
		}
	}

	s.invalidateCatalog(ctx)
	return s.GetProgram(ctx, program.ID)
}

func (s *catalogService) DeleteProgram(ctx context.Context, id uint, userID string) error {
	if err := s.requireAdmin(ctx, userID, "program", "delete"); err != nil {
		return err
	}
	if err := s.repo.Catalog().DeleteProgram(ctx, s.db, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrProgramNotFound
		}
		return fmt.Errorf("failed to delete program: %w", err)
	}
	s.invalidateCatalog(ctx)
	return nil
}

// ===== ACADEMIC SESSIONS =====

func (s *catalogService) CreateSession(ctx context.Context, req *SessionCreateRequest, userID string) (*models.AcademicSession, error) {
	if errs := s.validator.GetBusinessValidator().Validate(req); len(errs) > 0 {
		return nil, errs
	}
	if err := s.requireOfficer(ctx, userID, "session", "create"); err != nil {
		return nil, err
	}

	start, end, err := parseSessionDates(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	if errs := s.validator.GetBusinessValidator().ValidateSessionRange(start, end); len(errs) > 0 {
		return nil, errs
	}

	session := &models.AcademicSession{
		StartDate: datatypes.Date(start),
		EndDate:   datatypes.Date(end),
		IsCurrent: req.IsCurrent,
		CreatedBy: userID,
	}
	if err := s.repo.Catalog().CreateSession(ctx, s.db, session); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrDuplicateCatalog
		}
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.invalidateCatalog(ctx)
	return session, nil
}

func (s *catalogService) GetSession(ctx context.Context, id uint) (*models.AcademicSession, error) {
	session, err := s.repo.Catalog().GetSessionByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

func (s *catalogService) ListSessions(ctx context.Context) ([]*models.AcademicSession, error) {
	var sessions []*models.AcademicSession
	err := s.cache.Catalog.CacheOrExecute(ctx, "sessions", &sessions, cache.CatalogCacheConfig.TTL, func() (interface{}, error) {
		return s.repo.Catalog().ListSessions(ctx, s.db)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

func (s *catalogService) GetCurrentSession(ctx context.Context) (*models.AcademicSession, error) {
	session, err := s.repo.Catalog().GetCurrentSession(ctx, s.db)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get current session: %w", err)
	}
	return session, nil
}

func (s *catalogService) UpdateSession(ctx context.Context, id uint, req *SessionUpdateRequest, userID string) (*models.AcademicSession, error) {
	if errs := s.validator.GetBusinessValidator().Validate(req); len(errs) > 0 {
		return nil, errs
	}
	if err := s.requireOfficer(ctx, userID, "session", "update"); err != nil {
		return nil, err
	}

	session, err := s.repo.Catalog().GetSessionByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if req.StartDate != nil {
		start, err := time.Parse("2006-01-02", *req.StartDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid start date", ErrValidationFailed)
		}
		session.StartDate = datatypes.Date(start)
	}
	if req.EndDate != nil {
		end, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid end date", ErrValidationFailed)
		}
		session.EndDate = datatypes.Date(end)
	}
	if errs := s.validator.GetBusinessValidator().ValidateSessionRange(time.Time(session.StartDate), time.Time(session.EndDate)); len(errs) > 0 {
		return nil, errs
	}
	if req.IsCurrent != nil {
		session.IsCurrent = *req.IsCurrent
	}
	session.UpdatedBy = userID

	if err := s.repo.Catalog().UpdateSession(ctx, s.db, session); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrDuplicateCatalog
		}
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	s.invalidateCatalog(ctx)
	return session, nil
}

func (s *catalogService) DeleteSession(ctx context.Context, id uint, userID string) error {
	if err := s.requireAdmin(ctx, userID, "session", "delete"); err != nil {
		return err
	}
	if err := s.repo.Catalog().DeleteSession(ctx, s.db, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}
	s.invalidateCatalog(ctx)
	return nil
}

// ===== PROGRAM OFFERINGS =====

func (s *catalogService) CreateOffering(ctx context.Context, req *OfferingCreateRequest, userID string) (*models.ProgramOffering, error) {
	if errs := s.validator.GetBusinessValidator().Validate(req); len(errs) > 0 {
		return nil, errs
	}
	if err := s.requireOfficer(ctx, userID, "offering", "create"); err != nil {
		return nil, err
	}

	if _, err := s.GetProgram(ctx, req.ProgramID); err != nil {
		return nil, err
	}
	if _, err := s.GetSession(ctx, req.SessionID); err != nil {
		return nil, err
	}

	offering := &models.ProgramOffering{
		ProgramID:  req.ProgramID,
		SessionID:  req.SessionID,
		TotalSeats: req.TotalSeats,
		IsActive:   req.IsActive,
		CreatedBy:  userID,
	}
	if err := s.repo.Catalog().CreateOffering(ctx, s.db, offering); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrDuplicateOffering
		}
		return nil, fmt.Errorf("failed to create offering: %w", err)
	}

	cache.InvalidateOfferingCache(ctx, s.cache, offering.ProgramID, offering.SessionID)
	s.invalidateCatalog(ctx)
	return offering, nil
}

func (s *catalogService) ListOfferings(ctx context.Context, sessionID *uint, openOnly bool) ([]*models.ProgramOffering, error) {
	offerings, err := s.repo.Catalog().ListOfferings(ctx, s.db, sessionID, openOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list offerings: %w", err)
	}
	return offerings, nil
}

func (s *catalogService) UpdateOffering(ctx context.Context, id uint, req *OfferingUpdateRequest, userID string) (*models.ProgramOffering, error) {
	if errs := s.validator.GetBusinessValidator().Validate(req); len(errs) > 0 {
		return nil, errs
	}
	if err := s.requireOfficer(ctx, userID, "offering", "update"); err != nil {
		return nil, err
	}

	offering, err := s.repo.Catalog().GetOfferingByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrOfferingNotFound
		}
		return nil, fmt.Errorf("failed to get offering: %w", err)
	}

	if req.TotalSeats != nil {
		offering.TotalSeats = *req.TotalSeats
	}
	if req.IsActive != nil {
		offering.IsActive = *req.IsActive
	}
	offering.UpdatedBy = userID

	if err := s.repo.Catalog().UpdateOffering(ctx, s.db, offering); err != nil {
		return nil, fmt.Errorf("failed to update offering: %w", err)
	}

	cache.InvalidateOfferingCache(ctx, s.cache, offering.ProgramID, offering.SessionID)
	s.invalidateCatalog(ctx)
	return offering, nil
}

func (s *catalogService) DeleteOffering(ctx context.Context, id uint, userID string) error {
	if err := s.requireAdmin(ctx, userID, "offering", "delete"); err != nil {
		return err
	}
	if err := s.repo.Catalog().DeleteOffering(ctx, s.db, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrOfferingNotFound
		}
		return fmt.Errorf("failed to delete offering: %w", err)
	}
	s.invalidateCatalog(ctx)
	return nil
}

// ===== HELPERS =====

func (s *catalogService) requireOfficer(ctx context.Context, userID, resource, action string) error {
	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}
	if !IsAdmissionOfficer(user.Role) {
		return NewPermissionError(userID, 0, resource, action, "admission officer role required")
	}
	return nil
}

func (s *catalogService) requireAdmin(ctx context.Context, userID, resource, action string) error {
	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}
	if !IsAdminUser(user.Role) {
		return NewPermissionError(userID, 0, resource, action, "admin role required")
	}
	return nil
}

func (s *catalogService) invalidateCatalog(ctx context.Context) {
	if err := s.cache.InvalidateCatalog(ctx); err != nil {
		s.logger.Warn("Failed to invalidate catalog cache", "error", err)
	}
}

func parseSessionDates(startDate, endDate string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid start date", ErrValidationFailed)
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid end date", ErrValidationFailed)
	}
	return start, end, nil
}
