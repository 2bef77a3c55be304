package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/campus-suite/admissions-service/internal/models"
)

// DashboardRepository interface for dashboard analytics and announcements
type DashboardRepository interface {
	// Dashboard stats
	GetTotalApplications(ctx context.Context, tx *gorm.DB) (int64, error)
	GetTotalPrograms(ctx context.Context, tx *gorm.DB) (int64, error)
	GetTotalProfiles(ctx context.Context, tx *gorm.DB) (int64, error)
	GetApplicationsSince(ctx context.Context, tx *gorm.DB, since time.Time) (int64, error)

	// Trends
	GetApplicationTrends(ctx context.Context, tx *gorm.DB, period string) ([]ApplicationTrendData, error)

	// Recent applications
	GetRecentApplications(ctx context.Context, tx *gorm.DB, limit int) ([]RecentApplicationData, error)

	// Distribution of applications across programs
	GetProgramDistribution(ctx context.Context, tx *gorm.DB) ([]ProgramDistributionData, error)

	// Collected vs pending amounts per payment type
	GetPaymentBreakdown(ctx context.Context, tx *gorm.DB) ([]PaymentBreakdownData, error)

	// Announcements
	CreateAnnouncement(ctx context.Context, tx *gorm.DB, a *models.Announcement) error
	GetAnnouncementByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Announcement, error)
	ListAnnouncements(ctx context.Context, tx *gorm.DB, filters AnnouncementFilters) ([]*models.Announcement, int64, error)
	UpdateAnnouncement(ctx context.Context, tx *gorm.DB, a *models.Announcement) error
	DeleteAnnouncement(ctx context.Context, tx *gorm.DB, id uint) error
}

// Data structures for dashboard responses

type ApplicationTrendData struct {
	Period string    `json:"period"`
	Count  int64     `json:"count"`
	Date   time.Time `json:"-"`
}

type RecentApplicationData struct {
	ID           uint      `json:"id"`
	TrackingID   string    `json:"tracking_id"`
	StudentName  string    `json:"student_name"`
	StudentEmail string    `json:"student_email"`
	ProgramName  string    `json:"program_name"`
	StatusCode   string    `json:"status_code"`
	AppliedAt    time.Time `json:"applied_at"`
}

type ProgramDistributionData struct {
	ProgramID   uint    `json:"program_id"`
	ProgramName string  `json:"program_name"`
	Count       int64   `json:"count"`
	Percentage  float64 `json:"percentage"`
}

type PaymentBreakdownData struct {
	Type      models.PaymentType `json:"payment_type"`
	Collected float64            `json:"collected"`
	Pending   float64            `json:"pending"`
	Count     int64              `json:"count"`
}
