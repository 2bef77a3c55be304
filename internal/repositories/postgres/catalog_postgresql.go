package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/campus-suite/admissions-service/internal/models"
	"github.com/campus-suite/admissions-service/internal/repositories"
)

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogPostgreSQL(db *gorm.DB) repositories.CatalogRepository {
	return &catalogRepository{db: db}
}

// ===== COURSES =====

func (r *catalogRepository) CreateCourse(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(course).Error; err != nil {
		return r.handleDBError(err, "create course")
	}
	return nil
}

func (r *catalogRepository) GetCourseByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error) {
	db := r.getDB(tx)
	var course models.Course
	if err := db.WithContext(ctx).First(&course, id).Error; err != nil {
		return nil, r.handleDBError(err, "get course by id")
	}
	return &course, nil
}

func (r *catalogRepository) ListCourses(ctx context.Context, tx *gorm.DB) ([]*models.Course, error) {
	db := r.getDB(tx)
	var courses []*models.Course
	if err := db.WithContext(ctx).Order("name ASC").Find(&courses).Error; err != nil {
		return nil, r.handleDBError(err, "list courses")
	}
	return courses, nil
}

func (r *catalogRepository) UpdateCourse(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Save(course).Error; err != nil {
		return r.handleDBError(err, "update course")
	}
	return nil
}

func (r *catalogRepository) DeleteCourse(ctx context.Context, tx *gorm.DB, id uint) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Delete(&models.Course{}, id).Error; err != nil {
		return r.handleDBError(err, "delete course")
	}
	return nil
}

// ===== PROGRAMS =====

func (r *catalogRepository) CreateProgram(ctx context.Context, tx *gorm.DB, program *models.Program) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(program).Error; err != nil {
		return r.handleDBError(err, "create program")
	}
	return nil
}

func (r *catalogRepository) GetProgramByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Program, error) {
	db := r.getDB(tx)
	var program models.Program
	if err := db.WithContext(ctx).
		Preload("Courses").
		First(&program, id).Error; err != nil {
		return nil, r.handleDBError(err, "get program by id")
	}
	return &program, nil
}

func (r *catalogRepository) ListPrograms(ctx context.Context, tx *gorm.DB, activeOnly bool) ([]*models.Program, error) {
	db := r.getDB(tx)
	var programs []*models.Program

	query := db.WithContext(ctx).Preload("Courses")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Order("name ASC").Find(&programs).Error; err != nil {
		return nil, r.handleDBError(err, "list programs")
	}
	return programs, nil
}

func (r *catalogRepository) UpdateProgram(ctx context.Context, tx *gorm.DB, program *models.Program) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Save(program).Error; err != nil {
		return r.handleDBError(err, "update program")
	}
	return nil
}

func (r *catalogRepository) DeleteProgram(ctx context.Context, tx *gorm.DB, id uint) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Delete(&models.Program{}, id).Error; err != nil {
		return r.handleDBError(err, "delete program")
	}
	return nil
}

func (r *catalogRepository) SetProgramCourses(ctx context.Context, tx *gorm.DB, programID uint, courseIDs []uint) error {
	db := r.getDB(tx)

	var program models.Program
	if err := db.WithContext(ctx).First(&program, programID).Error; err != nil {
		return r.handleDBError(err, "get program for course assignment")
	}

	courses := make([]models.Course, 0, len(courseIDs))
	if len(courseIDs) > 0 {
		if err := db.WithContext(ctx).Find(&courses, courseIDs).Error; err != nil {
			return r.handleDBError(err, "load courses for program")
		}
		if len(courses) != len(courseIDs) {
			return r.handleDBError(gorm.ErrRecordNotFound, "load courses for program")
		}
	}

	if err := db.WithContext(ctx).
		Model(&program).
		Association("Courses").
		Replace(courses); err != nil {
		return r.handleDBError(err, "set program courses")
	}
	return nil
}

// ===== ACADEMIC SESSIONS =====

func (r *catalogRepository) CreateSession(ctx context.Context, tx *gorm.DB, session *models.AcademicSession) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(session).Error; err != nil {
		return r.handleDBError(err, "create academic session")
	}
	return nil
}

func (r *catalogRepository) GetSessionByID(ctx context.Context, tx *gorm.DB, id uint) (*models.AcademicSession, error) {
	db := r.getDB(tx)
	var session models.AcademicSession
	if err := db.WithContext(ctx).First(&session, id).Error; err != nil {
		return nil, r.handleDBError(err, "get academic session by id")
	}
	return &session, nil
}

func (r *catalogRepository) ListSessions(ctx context.Context, tx *gorm.DB) ([]*models.AcademicSession, error) {
	db := r.getDB(tx)
	var sessions []*models.AcademicSession
	if err := db.WithContext(ctx).Order("start_date DESC").Find(&sessions).Error; err != nil {
		return nil, r.handleDBError(err, "list academic sessions")
	}
	return sessions, nil
}

func (r *catalogRepository) GetCurrentSession(ctx context.Context, tx *gorm.DB) (*models.AcademicSession, error) {
	db := r.getDB(tx)
	var session models.AcademicSession
	if err := db.WithContext(ctx).
		Where("is_current = ?", true).
		First(&session).Error; err != nil {
		return nil, r.handleDBError(err, "get current academic session")
	}
	return &session, nil
}

func (r *catalogRepository) UpdateSession(ctx context.Context, tx *gorm.DB, session *models.AcademicSession) error {
	db := r.getDB(tx)

	// Only one session may be current at a time
	if session.IsCurrent {
		if err := db.WithContext(ctx).
			Model(&models.AcademicSession{}).
			Where("id <> ?", session.ID).
			Update("is_current", false).Error; err != nil {
			return r.handleDBError(err, "clear current session flag")
		}
	}

	if err := db.WithContext(ctx).Save(session).Error; err != nil {
		return r.handleDBError(err, "update academic session")
	}
	return nil
}

func (r *catalogRepository) DeleteSession(ctx context.Context, tx *gorm.DB, id uint) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Delete(&models.AcademicSession{}, id).Error; err != nil {
		return r.handleDBError(err, "delete academic session")
	}
	return nil
}

// ===== PROGRAM OFFERINGS =====

func (r *catalogRepository) CreateOffering(ctx context.Context, tx *gorm.DB, offering *models.ProgramOffering) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(offering).Error; err != nil {
		return r.handleDBError(err, "create program offering")
	}
	return nil
}

func (r *catalogRepository) GetOffering(ctx context.Context, tx *gorm.DB, programID, sessionID uint) (*models.ProgramOffering, error) {
	db := r.getDB(tx)
	var offering models.ProgramOffering
	if err := db.WithContext(ctx).
		Preload("Program").
		Preload("Session").
		Where("program_id = ? AND session_id = ?", programID, sessionID).
		First(&offering).Error; err != nil {
		return nil, r.handleDBError(err, "get program offering")
	}
	return &offering, nil
}

func (r *catalogRepository) GetOfferingByID(ctx context.Context, tx *gorm.DB, id uint) (*models.ProgramOffering, error) {
	db := r.getDB(tx)
	var offering models.ProgramOffering
	if err := db.WithContext(ctx).
		Preload("Program").
		Preload("Session").
		First(&offering, id).Error; err != nil {
		return nil, r.handleDBError(err, "get program offering")
	}
	return &offering, nil
}

func (r *catalogRepository) ListOfferings(ctx context.Context, tx *gorm.DB, sessionID *uint, openOnly bool) ([]*models.ProgramOffering, error) {
	db := r.getDB(tx)
	var offerings []*models.ProgramOffering

	query := db.WithContext(ctx).
		Preload("Program").
		Preload("Session")
	if sessionID != nil {
		query = query.Where("session_id = ?", *sessionID)
	}
	if openOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Order("id ASC").Find(&offerings).Error; err != nil {
		return nil, r.handleDBError(err, "list program offerings")
	}
	return offerings, nil
}

func (r *catalogRepository) UpdateOffering(ctx context.Context, tx *gorm.DB, offering *models.ProgramOffering) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Save(offering).Error; err != nil {
		return r.handleDBError(err, "update program offering")
	}
	return nil
}

func (r *catalogRepository) DeleteOffering(ctx context.Context, tx *gorm.DB, id uint) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Delete(&models.ProgramOffering{}, id).Error; err != nil {
		return r.handleDBError(err, "delete program offering")
	}
	return nil
}

// ===== HELPERS =====

func (r *catalogRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *catalogRepository) handleDBError(err error, operation string) error {
	return handleDBError(err, operation)
}
