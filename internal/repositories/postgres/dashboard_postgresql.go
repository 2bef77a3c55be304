package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/campus-suite/admissions-service/internal/models"
	"github.com/campus-suite/admissions-service/internal/repositories"
)

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) repositories.DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// ===== DASHBOARD STATS =====

func (r *dashboardRepository) GetTotalApplications(ctx context.Context, tx *gorm.DB) (int64, error) {
	db := r.getDB(tx)
	var count int64

	if err := db.WithContext(ctx).
		Model(&models.Application{}).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to get total applications: %w", err)
	}

	return count, nil
}

func (r *dashboardRepository) GetTotalPrograms(ctx context.Context, tx *gorm.DB) (int64, error) {
	db := r.getDB(tx)
	var count int64

	if err := db.WithContext(ctx).
		Model(&models.Program{}).
		Where("is_active = ?", true).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to get total programs: %w", err)
	}

	return count, nil
}

func (r *dashboardRepository) GetTotalProfiles(ctx context.Context, tx *gorm.DB) (int64, error) {
	db := r.getDB(tx)
	var count int64

	if err := db.WithContext(ctx).
		Model(&models.StudentProfile{}).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to get total profiles: %w", err)
	}

	return count, nil
}

func (r *dashboardRepository) GetApplicationsSince(ctx context.Context, tx *gorm.DB, since time.Time) (int64, error) {
	db := r.getDB(tx)
	var count int64

	if err := db.WithContext(ctx).
		Model(&models.Application{}).
		Where("applied_at >= ?", since).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to get applications since %s: %w", since.Format(time.DateOnly), err)
	}

	return count, nil
}

// ===== TRENDS =====

func (r *dashboardRepository) GetApplicationTrends(ctx context.Context, tx *gorm.DB, period string) ([]repositories.ApplicationTrendData, error) {
	db := r.getDB(tx)

	var results []repositories.ApplicationTrendData

	switch period {
	case "week":
		// Last 7 days
		for i := 6; i >= 0; i-- {
			date := time.Now().AddDate(0, 0, -i)
			startOfDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
			endOfDay := startOfDay.Add(24 * time.Hour)

			var count int64
			if err := db.WithContext(ctx).
				Model(&models.Application{}).
				Where("applied_at >= ? AND applied_at < ?", startOfDay, endOfDay).
				Count(&count).Error; err != nil {
				return nil, fmt.Errorf("failed to get weekly application trend: %w", err)
			}

			results = append(results, repositories.ApplicationTrendData{
				Period: date.Format("Mon"),
				Count:  count,
				Date:   startOfDay,
			})
		}

	case "month":
		// Last 30 days, grouped by week
		for i := 3; i >= 0; i-- {
			endDate := time.Now().AddDate(0, 0, -i*7)
			startDate := endDate.AddDate(0, 0, -7)

			var count int64
			if err := db.WithContext(ctx).
				Model(&models.Application{}).
				Where("applied_at >= ? AND applied_at < ?", startDate, endDate).
				Count(&count).Error; err != nil {
				return nil, fmt.Errorf("failed to get monthly application trend: %w", err)
			}

			results = append(results, repositories.ApplicationTrendData{
				Period: fmt.Sprintf("W%d", 4-i),
				Count:  count,
				Date:   startDate,
			})
		}

	case "year":
		// Last 12 months
		for i := 11; i >= 0; i-- {
			date := time.Now().AddDate(0, -i, 0)
			startOfMonth := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
			endOfMonth := startOfMonth.AddDate(0, 1, 0)

			var count int64
			if err := db.WithContext(ctx).
				Model(&models.Application{}).
				Where("applied_at >= ? AND applied_at < ?", startOfMonth, endOfMonth).
				Count(&count).Error; err != nil {
				return nil, fmt.Errorf("failed to get yearly application trend: %w", err)
			}

			results = append(results, repositories.ApplicationTrendData{
				Period: startOfMonth.Format("Jan"),
				Count:  count,
				Date:   startOfMonth,
			})
		}

	default:
		return nil, fmt.Errorf("unsupported trend period: %s", period)
	}

	return results, nil
}

// ===== RECENT APPLICATIONS =====

func (r *dashboardRepository) GetRecentApplications(ctx context.Context, tx *gorm.DB, limit int) ([]repositories.RecentApplicationData, error) {
	db := r.getDB(tx)

	var rows []struct {
		ID         uint
		TrackingID string
		FirstName  string
		LastName   string
		Email      string
		Program    string
		StatusCode string
		AppliedAt  time.Time
	}

	if err := db.WithContext(ctx).
		Table("applications").
		Select("applications.id, applications.tracking_id, applications.applied_at, "+
			"users.first_name, users.last_name, users.email, "+
			"programs.name as program, application_statuses.code as status_code").
		Joins("LEFT JOIN student_profiles ON applications.student_id = student_profiles.id").
		Joins("LEFT JOIN users ON student_profiles.user_id = users.id").
		Joins("LEFT JOIN programs ON applications.program_id = programs.id").
		Joins("LEFT JOIN application_statuses ON applications.status_id = application_statuses.id").
		Order("applications.applied_at DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get recent applications: %w", err)
	}

	recent := make([]repositories.RecentApplicationData, 0, len(rows))
	for _, row := range rows {
		name := row.FirstName
		if row.LastName != "" {
			if name != "" {
				name += " "
			}
			name += row.LastName
		}
		recent = append(recent, repositories.RecentApplicationData{
			ID:           row.ID,
			TrackingID:   row.TrackingID,
			StudentName:  name,
			StudentEmail: row.Email,
			ProgramName:  row.Program,
			StatusCode:   row.StatusCode,
			AppliedAt:    row.AppliedAt,
		})
	}

	return recent, nil
}

// ===== PROGRAM DISTRIBUTION =====

func (r *dashboardRepository) GetProgramDistribution(ctx context.Context, tx *gorm.DB) ([]repositories.ProgramDistributionData, error) {
	db := r.getDB(tx)

	var rows []struct {
		ProgramID   uint
		ProgramName string
		Count       int64
	}

	if err := db.WithContext(ctx).
		Model(&models.Application{}).
		Select("programs.id as program_id, programs.name as program_name, COUNT(applications.id) as count").
		Joins("INNER JOIN programs ON applications.program_id = programs.id").
		Group("programs.id, programs.name").
		Order("count DESC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get program distribution: %w", err)
	}

	var total int64
	for _, row := range rows {
		total += row.Count
	}

	var distribution []repositories.ProgramDistributionData
	for _, row := range rows {
		percentage := float64(0)
		if total > 0 {
			percentage = float64(row.Count) / float64(total) * 100
		}

		distribution = append(distribution, repositories.ProgramDistributionData{
			ProgramID:   row.ProgramID,
			ProgramName: row.ProgramName,
			Count:       row.Count,
			Percentage:  percentage,
		})
	}

	return distribution, nil
}

// ===== PAYMENT BREAKDOWN =====

func (r *dashboardRepository) GetPaymentBreakdown(ctx context.Context, tx *gorm.DB) ([]repositories.PaymentBreakdownData, error) {
	db := r.getDB(tx)

	var rows []struct {
		PaymentType models.PaymentType
		Collected   float64
		Pending     float64
		Count       int64
	}

	if err := db.WithContext(ctx).
		Model(&models.Payment{}).
		Select("payment_type, "+
			"COALESCE(SUM(amount) FILTER (WHERE status = ?), 0) as collected, "+
			"COALESCE(SUM(amount) FILTER (WHERE status = ?), 0) as pending, "+
			"COUNT(*) as count", models.PaymentPaid, models.PaymentPending).
		Group("payment_type").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get payment breakdown: %w", err)
	}

	breakdown := make([]repositories.PaymentBreakdownData, 0, len(rows))
	for _, row := range rows {
		breakdown = append(breakdown, repositories.PaymentBreakdownData{
			Type:      row.PaymentType,
			Collected: row.Collected,
			Pending:   row.Pending,
			Count:     row.Count,
		})
	}

	return breakdown, nil
}

// ===== ANNOUNCEMENTS =====

func (r *dashboardRepository) CreateAnnouncement(ctx context.Context, tx *gorm.DB, a *models.Announcement) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(a).Error; err != nil {
		return handleDBError(err, "create announcement")
	}
	return nil
}

func (r *dashboardRepository) GetAnnouncementByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Announcement, error) {
	db := r.getDB(tx)
	var announcement models.Announcement

	if err := db.WithContext(ctx).
		Preload("TargetRoles").
		First(&announcement, id).Error; err != nil {
		return nil, handleDBError(err, "get announcement by id")
	}

	return &announcement, nil
}

func (r *dashboardRepository) ListAnnouncements(ctx context.Context, tx *gorm.DB, filters repositories.AnnouncementFilters) ([]*models.Announcement, int64, error) {
	db := r.getDB(tx)
	var announcements []*models.Announcement
	var total int64

	query := db.WithContext(ctx).
		Model(&models.Announcement{}).
		Preload("TargetRoles")

	if filters.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filters.Role != nil {
		// Untargeted announcements are visible to every role
		query = query.Where(
			"NOT EXISTS (SELECT 1 FROM announcement_roles ar WHERE ar.announcement_id = announcements.id) "+
				"OR EXISTS (SELECT 1 FROM announcement_roles ar WHERE ar.announcement_id = announcements.id AND ar.role = ?)",
			*filters.Role)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count announcements")
	}

	query = applyPaginationAndSorting(query, filters.Limit, filters.Offset, "", "", map[string]string{}, "announcements.created_at")

	if err := query.Find(&announcements).Error; err != nil {
		return nil, 0, handleDBError(err, "list announcements")
	}

	return announcements, total, nil
}

func (r *dashboardRepository) UpdateAnnouncement(ctx context.Context, tx *gorm.DB, a *models.Announcement) error {
	db := r.getDB(tx)

	if err := db.WithContext(ctx).
		Where("announcement_id = ?", a.ID).
		Delete(&models.AnnouncementRole{}).Error; err != nil {
		return handleDBError(err, "replace announcement roles")
	}

	if err := db.WithContext(ctx).Save(a).Error; err != nil {
		return handleDBError(err, "update announcement")
	}
	return nil
}

func (r *dashboardRepository) DeleteAnnouncement(ctx context.Context, tx *gorm.DB, id uint) error {
	db := r.getDB(tx)
	result := db.WithContext(ctx).Delete(&models.Announcement{}, id)
	if result.Error != nil {
		return handleDBError(result.Error, "delete announcement")
	}
	if result.RowsAffected == 0 {
		return handleDBError(gorm.ErrRecordNotFound, "delete announcement")
	}
	return nil
}
