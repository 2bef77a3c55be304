package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/campus-suite/admissions-service/internal/models"
)

// ApplicationRepository handles admission applications, their status catalog
// and the append-only tracking history
type ApplicationRepository interface {
	// Basic CRUD
	Create(ctx context.Context, tx *gorm.DB, app *models.Application) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Application, error)
	GetByTrackingID(ctx context.Context, tx *gorm.DB, trackingID string) (*models.Application, error)
	GetByVerificationHash(ctx context.Context, tx *gorm.DB, hash string) (*models.Application, error)
	Update(ctx context.Context, tx *gorm.DB, app *models.Application) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	// Query operations
	List(ctx context.Context, tx *gorm.DB, filters ApplicationFilters) ([]*models.Application, int64, error)
	GetByStudent(ctx context.Context, tx *gorm.DB, studentID string) ([]*models.Application, error)
	ExistsForOffering(ctx context.Context, tx *gorm.DB, studentID string, programID, sessionID uint) (bool, error)

	// Status catalog
	GetStatusByCode(ctx context.Context, tx *gorm.DB, code string) (*models.ApplicationStatus, error)
	ListStatuses(ctx context.Context, tx *gorm.DB) ([]*models.ApplicationStatus, error)

	// Tracking history (append-only)
	AddTracking(ctx context.Context, tx *gorm.DB, entry *models.ApplicationTracking) error
	GetTracking(ctx context.Context, tx *gorm.DB, applicationID uint) ([]*models.ApplicationTracking, error)

	// Statistics
	GetStats(ctx context.Context, tx *gorm.DB) (*ApplicationStats, error)
	CountByStatus(ctx context.Context, tx *gorm.DB) (map[string]int64, error)
}
