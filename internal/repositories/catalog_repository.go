package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/campus-suite/admissions-service/internal/models"
)

// CatalogRepository handles the academic catalog: courses, programs,
// sessions and program offerings
type CatalogRepository interface {
	// Courses
	CreateCourse(ctx context.Context, tx *gorm.DB, course *models.Course) error
	GetCourseByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error)
	ListCourses(ctx context.Context, tx *gorm.DB) ([]*models.Course, error)
	UpdateCourse(ctx context.Context, tx *gorm.DB, course *models.Course) error
	DeleteCourse(ctx context.Context, tx *gorm.DB, id uint) error

	// Programs
	CreateProgram(ctx context.Context, tx *gorm.DB, program *models.Program) error
	GetProgramByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Program, error)
	ListPrograms(ctx context.Context, tx *gorm.DB, activeOnly bool) ([]*models.Program, error)
	UpdateProgram(ctx context.Context, tx *gorm.DB, program *models.Program) error
	DeleteProgram(ctx context.Context, tx *gorm.DB, id uint) error
	SetProgramCourses(ctx context.Context, tx *gorm.DB, programID uint, courseIDs []uint) error

	// Academic sessions
	CreateSession(ctx context.Context, tx *gorm.DB, session *models.AcademicSession) error
	GetSessionByID(ctx context.Context, tx *gorm.DB, id uint) (*models.AcademicSession, error)
	ListSessions(ctx context.Context, tx *gorm.DB) ([]*models.AcademicSession, error)
	GetCurrentSession(ctx context.Context, tx *gorm.DB) (*models.AcademicSession, error)
	UpdateSession(ctx context.Context, tx *gorm.DB, session *models.AcademicSession) error
	DeleteSession(ctx context.Context, tx *gorm.DB, id uint) error

	// Program offerings (program open for admission in a session)
	CreateOffering(ctx context.Context, tx *gorm.DB, offering *models.ProgramOffering) error
	GetOffering(ctx context.Context, tx *gorm.DB, programID, sessionID uint) (*models.ProgramOffering, error)
	GetOfferingByID(ctx context.Context, tx *gorm.DB, id uint) (*models.ProgramOffering, error)
	ListOfferings(ctx context.Context, tx *gorm.DB, sessionID *uint, openOnly bool) ([]*models.ProgramOffering, error)
	UpdateOffering(ctx context.Context, tx *gorm.DB, offering *models.ProgramOffering) error
	DeleteOffering(ctx context.Context, tx *gorm.DB, id uint) error
}
