package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/campus-suite/admissions-service/internal/cache"
	"github.com/campus-suite/admissions-service/internal/models"
	"github.com/campus-suite/admissions-service/internal/repositories"
	"github.com/campus-suite/admissions-service/internal/validator"
)

const recentApplicationsLimit = 10

type dashboardService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	cache     *cache.CacheManager
}

func NewDashboardService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator, cacheManager *cache.CacheManager) DashboardService {
	return &dashboardService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: v,
		cache:     cacheManager,
	}
}

// ===== DASHBOARD =====

func (s *dashboardService) GetDashboardStats(ctx context.Context, userID string) (*DashboardStats, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !CanViewReports(user.Role) {
		return nil, NewPermissionError(userID, 0, "dashboard", "view", "reporting role required")
	}

	var stats DashboardStats
	err = s.cache.Stats.CacheOrExecute(ctx, "dashboard", &stats, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		return s.collectStats(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get dashboard stats: %w", err)
	}
	return &stats, nil
}

func (s *dashboardService) collectStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}

	var err error
	if stats.TotalApplications, err = s.repo.Dashboard().GetTotalApplications(ctx, s.db); err != nil {
		return nil, fmt.Errorf("failed to count applications: %w", err)
	}
	if stats.TotalPrograms, err = s.repo.Dashboard().GetTotalPrograms(ctx, s.db); err != nil {
		return nil, fmt.Errorf("failed to count programs: %w", err)
	}
	if stats.TotalProfiles, err = s.repo.Dashboard().GetTotalProfiles(ctx, s.db); err != nil {
		return nil, fmt.Errorf("failed to count profiles: %w", err)
	}

	if stats.Applications, err = s.repo.Application().GetStats(ctx, s.db); err != nil {
		return nil, fmt.Errorf("failed to get application stats: %w", err)
	}
	stats.ApplicationsToday = stats.Applications.Today

	if stats.Payments, err = s.repo.Payment().GetStats(ctx, s.db); err != nil {
		return nil, fmt.Errorf("failed to get payment stats: %w", err)
	}

	if stats.RecentApplications, err = s.repo.Dashboard().GetRecentApplications(ctx, s.db, recentApplicationsLimit); err != nil {
		return nil, fmt.Errorf("failed to get recent applications: %w", err)
	}
	if stats.ProgramDistribution, err = s.repo.Dashboard().GetProgramDistribution(ctx, s.db); err != nil {
		return nil, fmt.Errorf("failed to get program distribution: %w", err)
	}
	if stats.PaymentBreakdown, err = s.repo.Dashboard().GetPaymentBreakdown(ctx, s.db); err != nil {
		return nil, fmt.Errorf("failed to get payment breakdown: %w", err)
	}

	return stats, nil
}

func (s *dashboardService) GetApplicationTrends(ctx context.Context, period string, userID string) ([]repositories.ApplicationTrendData, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !CanViewReports(user.Role) {
		return nil, NewPermissionError(userID, 0, "dashboard", "view", "reporting role required")
	}

	switch period {
	case "week", "month", "year":
	default:
		return nil, fmt.Errorf("%w: period must be week, month or year", ErrValidationFailed)
	}

	trends, err := s.repo.Dashboard().GetApplicationTrends(ctx, s.db, period)
	if err != nil {
		return nil, fmt.Errorf("failed to get application trends: %w", err)
	}
	return trends, nil
}

// ===== ANNOUNCEMENTS =====

func (s *dashboardService) CreateAnnouncement(ctx context.Context, req *AnnouncementCreateRequest, userID string) (*models.Announcement, error) {
	if errs := s.validator.GetBusinessValidator().Validate(req); len(errs) > 0 {
		return nil, errs
	}
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !IsAdmissionOfficer(user.Role) {
		return nil, NewPermissionError(userID, 0, "announcement", "create", "admission officer role required")
	}

	announcement := &models.Announcement{
		Title:       req.Title,
		Content:     req.Content,
		TargetRoles: announcementRoles(req.TargetRoles),
		IsActive:    req.IsActive,
		CreatedBy:   userID,
	}
	if err := s.repo.Dashboard().CreateAnnouncement(ctx, s.db, announcement); err != nil {
		return nil, fmt.Errorf("failed to create announcement: %w", err)
	}

	s.logger.Info("Announcement created", "announcement_id", announcement.ID, "created_by", userID)
	return announcement, nil
}

func (s *dashboardService) ListAnnouncements(ctx context.Context, userID string) (*AnnouncementListResponse, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	filters := repositories.AnnouncementFilters{ActiveOnly: true}
	// Staff see every announcement; everyone else only what targets their role.
	if IsAdmissionOfficer(user.Role) {
		filters.ActiveOnly = false
	} else {
		role := user.Role
		filters.Role = &role
	}

	announcements, total, err := s.repo.Dashboard().ListAnnouncements(ctx, s.db, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list announcements: %w", err)
	}
	return &AnnouncementListResponse{Announcements: announcements, Total: total}, nil
}

func (s *dashboardService) UpdateAnnouncement(ctx context.Context, id uint, req *AnnouncementUpdateRequest, userID string) (*models.Announcement, error) {
	if errs := s.validator.GetBusinessValidator().Validate(req); len(errs) > 0 {
		return nil, errs
	}
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !IsAdmissionOfficer(user.Role) {
		return nil, NewPermissionError(userID, id, "announcement", "update", "admission officer role required")
	}

	announcement, err := s.repo.Dashboard().GetAnnouncementByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAnnouncementNotFound
		}
		return nil, fmt.Errorf("failed to get announcement: %w", err)
	}

	if req.Title != nil {
		announcement.Title = *req.Title
	}
	if req.Content != nil {
		announcement.Content = *req.Content
	}
	if req.TargetRoles != nil {
		announcement.TargetRoles = announcementRoles(req.TargetRoles)
	}
	if req.IsActive != nil {
		announcement.IsActive = *req.IsActive
	}

	if err := s.repo.Dashboard().UpdateAnnouncement(ctx, s.db, announcement); err != nil {
		return nil, fmt.Errorf("failed to update announcement: %w", err)
	}
	return announcement, nil
}

func (s *dashboardService) DeleteAnnouncement(ctx context.Context, id uint, userID string) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if !IsAdminUser(user.Role) {
		return NewPermissionError(userID, id, "announcement", "delete", "admin role required")
	}

	if err := s.repo.Dashboard().DeleteAnnouncement(ctx, s.db, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrAnnouncementNotFound
		}
		return fmt.Errorf("failed to delete announcement: %w", err)
	}
	s.logger.Info("Announcement deleted", "announcement_id", id, "deleted_by", userID)
	return nil
}

// ===== HELPERS =====

func announcementRoles(roles []string) []models.AnnouncementRole {
	out := make([]models.AnnouncementRole, 0, len(roles))
	for _, r := range roles {
		out = append(out, models.AnnouncementRole{Role: models.UserRole(r)})
	}
	return out
}

func (s *dashboardService) getUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}
