package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/campus-suite/admissions-service/internal/models"
	"github.com/campus-suite/admissions-service/internal/repositories"
)

type applicationRepository struct {
	db *gorm.DB
}

func NewApplicationPostgreSQL(db *gorm.DB) repositories.ApplicationRepository {
	return &applicationRepository{db: db}
}

// ===== BASIC CRUD OPERATIONS =====

func (r *applicationRepository) Create(ctx context.Context, tx *gorm.DB, app *models.Application) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(app).Error; err != nil {
		return r.handleDBError(err, "create application")
	}
	return nil
}

func (r *applicationRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Application, error) {
	db := r.getDB(tx)
	var app models.Application

	if err := db.WithContext(ctx).
		Preload("Status").
		Preload("Program").
		Preload("Session").
		Preload("Student.User").
		First(&app, id).Error; err != nil {
		return nil, r.handleDBError(err, "get application by id")
	}

	return &app, nil
}

func (r *applicationRepository) GetByTrackingID(ctx context.Context, tx *gorm.DB, trackingID string) (*models.Application, error) {
	db := r.getDB(tx)
	var app models.Application

	if err := db.WithContext(ctx).
		Preload("Status").
		Preload("Program").
		Preload("Session").
		Preload("Student.User").
		Where("tracking_id = ?", trackingID).
		First(&app).Error; err != nil {
		return nil, r.handleDBError(err, "get application by tracking id")
	}

	return &app, nil
}

func (r *applicationRepository) GetByVerificationHash(ctx context.Context, tx *gorm.DB, hash string) (*models.Application, error) {
	db := r.getDB(tx)
	var app models.Application

	if err := db.WithContext(ctx).
		Preload("Student").
		Preload("Status").
		Preload("Program").
		Preload("Session").
		Where("verification_hash = ?", hash).
		First(&app).Error; err != nil {
		return nil, r.handleDBError(err, "get application by verification hash")
	}

	return &app, nil
}

func (r *applicationRepository) Update(ctx context.Context, tx *gorm.DB, app *models.Application) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Save(app).Error; err != nil {
		return r.handleDBError(err, "update application")
	}
	return nil
}

func (r *applicationRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Delete(&models.Application{}, id).Error; err != nil {
		return r.handleDBError(err, "delete application")
	}
	return nil
}

// ===== QUERY OPERATIONS =====

func (r *applicationRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.ApplicationFilters) ([]*models.Application, int64, error) {
	db := r.getDB(tx)
	var apps []*models.Application
	var total int64

	query := db.WithContext(ctx).
		Model(&models.Application{}).
		Preload("Status").
		Preload("Program").
		Preload("Session").
		Preload("Student.User")

	query = r.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, r.handleDBError(err, "count applications")
	}

	query = applyPaginationAndSorting(query, filters.Limit, filters.Offset, filters.SortBy, filters.SortOrder, map[string]string{
		"applied_at": "applications.applied_at",
		"created_at": "applications.created_at",
		"updated_at": "applications.updated_at",
		"id":         "applications.id",
	}, "applications.applied_at")

	if err := query.Find(&apps).Error; err != nil {
		return nil, 0, r.handleDBError(err, "list applications")
	}

	return apps, total, nil
}

func (r *applicationRepository) GetByStudent(ctx context.Context, tx *gorm.DB, studentID string) ([]*models.Application, error) {
	db := r.getDB(tx)
	var apps []*models.Application

	if err := db.WithContext(ctx).
		Preload("Status").
		Preload("Program").
		Preload("Session").
		Joins("INNER JOIN student_profiles sp ON sp.id = applications.student_id").
		Where("sp.user_id = ?", studentID).
		Order("applications.applied_at DESC").
		Find(&apps).Error; err != nil {
		return nil, r.handleDBError(err, "get applications by student")
	}

	return apps, nil
}

func (r *applicationRepository) ExistsForOffering(ctx context.Context, tx *gorm.DB, studentID string, programID, sessionID uint) (bool, error) {
	db := r.getDB(tx)
	var count int64

	err := db.WithContext(ctx).
		Model(&models.Application{}).
		Joins("INNER JOIN student_profiles sp ON sp.id = applications.student_id").
		Where("sp.user_id = ? AND applications.program_id = ? AND applications.session_id = ?",
			studentID, programID, sessionID).
		Count(&count).Error
	if err != nil {
		return false, r.handleDBError(err, "check application exists for offering")
	}

	return count > 0, nil
}

// ===== STATUS CATALOG =====

func (r *applicationRepository) GetStatusByCode(ctx context.Context, tx *gorm.DB, code string) (*models.ApplicationStatus, error) {
	db := r.getDB(tx)
	var status models.ApplicationStatus

	if err := db.WithContext(ctx).
		Where("code = ?", code).
		First(&status).Error; err != nil {
		return nil, r.handleDBError(err, "get application status by code")
	}

	return &status, nil
}

func (r *applicationRepository) ListStatuses(ctx context.Context, tx *gorm.DB) ([]*models.ApplicationStatus, error) {
	db := r.getDB(tx)
	var statuses []*models.ApplicationStatus

	if err := db.WithContext(ctx).
		Order("id ASC").
		Find(&statuses).Error; err != nil {
		return nil, r.handleDBError(err, "list application statuses")
	}

	return statuses, nil
}

// ===== TRACKING HISTORY =====

func (r *applicationRepository) AddTracking(ctx context.Context, tx *gorm.DB, entry *models.ApplicationTracking) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(entry).Error; err != nil {
		return r.handleDBError(err, "add tracking entry")
	}
	return nil
}

func (r *applicationRepository) GetTracking(ctx context.Context, tx *gorm.DB, applicationID uint) ([]*models.ApplicationTracking, error) {
	db := r.getDB(tx)
	var entries []*models.ApplicationTracking

	if err := db.WithContext(ctx).
		Preload("Status").
		Where("application_id = ?", applicationID).
		Order("timestamp DESC, id DESC").
		Find(&entries).Error; err != nil {
		return nil, r.handleDBError(err, "get tracking history")
	}

	return entries, nil
}

// ===== STATISTICS =====

func (r *applicationRepository) GetStats(ctx context.Context, tx *gorm.DB) (*repositories.ApplicationStats, error) {
	db := r.getDB(tx)
	stats := &repositories.ApplicationStats{}

	if err := db.WithContext(ctx).
		Model(&models.Application{}).
		Count(&stats.Total).Error; err != nil {
		return nil, r.handleDBError(err, "count total applications")
	}

	byStatus, err := r.CountByStatus(ctx, tx)
	if err != nil {
		return nil, err
	}
	stats.ByStatus = byStatus

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	windows := []struct {
		since time.Time
		dest  *int64
	}{
		{today, &stats.Today},
		{now.AddDate(0, 0, -7), &stats.ThisWeek},
		{now.AddDate(0, -1, 0), &stats.ThisMonth},
	}
	for _, w := range windows {
		if err := db.WithContext(ctx).
			Model(&models.Application{}).
			Where("applied_at >= ?", w.since).
			Count(w.dest).Error; err != nil {
			return nil, r.handleDBError(err, "count applications in window")
		}
	}

	return stats, nil
}

func (r *applicationRepository) CountByStatus(ctx context.Context, tx *gorm.DB) (map[string]int64, error) {
	db := r.getDB(tx)

	var rows []struct {
		Code  string
		Count int64
	}
	err := db.WithContext(ctx).
		Model(&models.Application{}).
		Select("application_statuses.code AS code, COUNT(applications.id) AS count").
		Joins("INNER JOIN application_statuses ON application_statuses.id = applications.status_id").
		Group("application_statuses.code").
		Scan(&rows).Error
	if err != nil {
		return nil, r.handleDBError(err, "count applications by status")
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Code] = row.Count
	}
	return counts, nil
}

// ===== HELPERS =====

func (r *applicationRepository) applyFilters(query *gorm.DB, filters repositories.ApplicationFilters) *gorm.DB {
	if filters.StatusCode != nil {
		query = query.
			Joins("INNER JOIN application_statuses st ON st.id = applications.status_id").
			Where("st.code = ?", *filters.StatusCode)
	}
	if filters.ProgramID != nil {
		query = query.Where("applications.program_id = ?", *filters.ProgramID)
	}
	if filters.SessionID != nil {
		query = query.Where("applications.session_id = ?", *filters.SessionID)
	}
	if filters.StudentID != nil {
		query = query.
			Joins("INNER JOIN student_profiles sp ON sp.id = applications.student_id").
			Where("sp.user_id = ?", *filters.StudentID)
	}
	if filters.Search != nil && *filters.Search != "" {
		search := "%" + *filters.Search + "%"
		query = query.
			Joins("INNER JOIN student_profiles sps ON sps.id = applications.student_id").
			Joins("INNER JOIN users u ON u.id = sps.user_id").
			Where("applications.tracking_id ILIKE ? OR applications.form_no ILIKE ? OR u.email ILIKE ?",
				search, search, search)
	}
	if filters.DateFrom != nil {
		query = query.Where("applications.applied_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("applications.applied_at <= ?", *filters.DateTo)
	}
	return query
}

func (r *applicationRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *applicationRepository) handleDBError(err error, operation string) error {
	return handleDBError(err, operation)
}
