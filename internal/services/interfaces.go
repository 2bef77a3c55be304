package services

import (
	"context"

	"github.com/campus-suite/admissions-service/internal/models"
	"github.com/campus-suite/admissions-service/internal/repositories"
	"github.com/campus-suite/admissions-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type SubmitApplicationRequest = validator.SubmitApplicationRequest
type UpdateApplicationStatusRequest = validator.UpdateApplicationStatusRequest

type PersonalInfoRequest = validator.PersonalInfoRequest
type ContactInfoRequest = validator.ContactInfoRequest
type RelativeRequest = validator.RelativeRequest
type EducationRequest = validator.EducationRequest
type MedicalInfoRequest = validator.MedicalInfoRequest

type CourseCreateRequest = validator.CourseCreateRequest
type CourseUpdateRequest = validator.CourseUpdateRequest
type ProgramCreateRequest = validator.ProgramCreateRequest
type ProgramUpdateRequest = validator.ProgramUpdateRequest
type SessionCreateRequest = validator.SessionCreateRequest
type SessionUpdateRequest = validator.SessionUpdateRequest
type OfferingCreateRequest = validator.OfferingCreateRequest
type OfferingUpdateRequest = validator.OfferingUpdateRequest

type FeeStructureRequest = validator.FeeStructureRequest
type FeeStructureUpdateRequest = validator.FeeStructureUpdateRequest
type ManualPaymentRequest = validator.ManualPaymentRequest
type VerifyPaymentRequest = validator.VerifyPaymentRequest

type AnnouncementCreateRequest = validator.AnnouncementCreateRequest
type AnnouncementUpdateRequest = validator.AnnouncementUpdateRequest
type UpdateUserRoleRequest = validator.UpdateUserRoleRequest

type ApplicationResponse struct {
	*models.Application
	// Status codes the caller may move this application to.
	AllowedTransitions []string `json:"allowed_transitions"`
	// Human-readable result of a status transition, e.g.
	// "Status updated from submitted to approved".
	Message string `json:"message,omitempty"`
}

type ApplicationListResponse struct {
	Applications []*ApplicationResponse `json:"applications"`
	Total        int64                  `json:"total"`
	Page         int                    `json:"page"`
	Size         int                    `json:"size"`
}

type PaymentListResponse struct {
	Payments []*models.Payment `json:"payments"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	Size     int               `json:"size"`
}

type ProfileResponse struct {
	*models.StudentProfile
	CompletionPercent int                     `json:"completion_percent"`
	MissingSections   []models.ProfileSection `json:"missing_sections"`
}

type AnnouncementListResponse struct {
	Announcements []*models.Announcement `json:"announcements"`
	Total         int64                  `json:"total"`
}

type UserListResponse struct {
	Users []*models.User `json:"users"`
	Total int64          `json:"total"`
}

// DashboardStats aggregates the admin dashboard widgets in one payload.
type DashboardStats struct {
	TotalApplications   int64                                  `json:"total_applications"`
	TotalPrograms       int64                                  `json:"total_programs"`
	TotalProfiles       int64                                  `json:"total_profiles"`
	ApplicationsToday   int64                                  `json:"applications_today"`
	Applications        *repositories.ApplicationStats         `json:"applications"`
	Payments            *repositories.PaymentStats             `json:"payments"`
	RecentApplications  []repositories.RecentApplicationData   `json:"recent_applications"`
	ProgramDistribution []repositories.ProgramDistributionData `json:"program_distribution"`
	PaymentBreakdown    []repositories.PaymentBreakdownData    `json:"payment_breakdown"`
}

// ===== SERVICE INTERFACES =====

type ApplicationService interface {
	// Lifecycle
	Submit(ctx context.Context, req *SubmitApplicationRequest, userID string) (*ApplicationResponse, error)
	UpdateStatus(ctx context.Context, id uint, req *UpdateApplicationStatusRequest, userID string) (*ApplicationResponse, error)
	Delete(ctx context.Context, id uint, userID string) error

	// Reads
	GetByID(ctx context.Context, id uint, userID string) (*ApplicationResponse, error)
	GetByTrackingID(ctx context.Context, trackingID string, userID string) (*ApplicationResponse, error)
	List(ctx context.Context, filters repositories.ApplicationFilters, userID string) (*ApplicationListResponse, error)
	GetMyApplications(ctx context.Context, userID string) ([]*ApplicationResponse, error)
	GetTracking(ctx context.Context, id uint, userID string) ([]*models.ApplicationTracking, error)

	// Public verification by QR hash, no authentication
	Verify(ctx context.Context, hash string) (*models.VerificationResult, error)

	// Status catalog and statistics
	ListStatuses(ctx context.Context) ([]*models.ApplicationStatus, error)
	GetStats(ctx context.Context, userID string) (*repositories.ApplicationStats, error)
}

type PaymentService interface {
	// Ledger
	GetByID(ctx context.Context, id uint, userID string) (*models.Payment, error)
	GetByApplication(ctx context.Context, applicationID uint, userID string) ([]*models.Payment, error)
	List(ctx context.Context, filters repositories.PaymentFilters, userID string) (*PaymentListResponse, error)
	RecordManualPayment(ctx context.Context, req *ManualPaymentRequest, userID string) (*models.Payment, error)
	VerifyPayment(ctx context.Context, id uint, req *VerifyPaymentRequest, userID string) (*models.Payment, error)
	GetStats(ctx context.Context, userID string) (*repositories.PaymentStats, error)

	// Fee structures
	CreateFeeStructure(ctx context.Context, req *FeeStructureRequest, userID string) (*models.FeeStructure, error)
	GetFeeStructure(ctx context.Context, programID, sessionID uint) (*models.FeeStructure, error)
	ListFeeStructures(ctx context.Context, userID string) ([]*models.FeeStructure, error)
	UpdateFeeStructure(ctx context.Context, id uint, req *FeeStructureUpdateRequest, userID string) (*models.FeeStructure, error)
	DeleteFeeStructure(ctx context.Context, id uint, userID string) error

	// Payment methods
	ListPaymentMethods(ctx context.Context) ([]*models.PaymentMethod, error)
}

type ProfileService interface {
	// Profile root
	GetMyProfile(ctx context.Context, userID string) (*ProfileResponse, error)
	GetProfile(ctx context.Context, targetUserID, requesterID string) (*ProfileResponse, error)
	SetPicture(ctx context.Context, targetUserID, requesterID, path string) error

	// Sections
	UpdatePersonalInfo(ctx context.Context, targetUserID string, req *PersonalInfoRequest, requesterID string) (*ProfileResponse, error)
	UpdateContactInfo(ctx context.Context, targetUserID string, req *ContactInfoRequest, requesterID string) (*ProfileResponse, error)
	UpdateMedicalInfo(ctx context.Context, targetUserID string, req *MedicalInfoRequest, requesterID string) (*ProfileResponse, error)

	// Relatives
	AddRelative(ctx context.Context, targetUserID string, req *RelativeRequest, requesterID string) (*models.StudentRelative, error)
	DeleteRelative(ctx context.Context, targetUserID string, relativeID uint, requesterID string) error

	// Educational background
	AddEducation(ctx context.Context, targetUserID string, req *EducationRequest, requesterID string) (*models.EducationalBackground, error)
	UpdateEducation(ctx context.Context, targetUserID string, recordID uint, req *EducationRequest, requesterID string) (*models.EducationalBackground, error)
	DeleteEducation(ctx context.Context, targetUserID string, recordID uint, requesterID string) error

	// Lookup tables
	ListDegrees(ctx context.Context) ([]*models.Degree, error)
	CreateDegree(ctx context.Context, name, userID string) (*models.Degree, error)
	ListInstitutes(ctx context.Context) ([]*models.Institute, error)
	CreateInstitute(ctx context.Context, name, userID string) (*models.Institute, error)
	ListBloodGroups(ctx context.Context) ([]*models.BloodGroup, error)
	ListDiseases(ctx context.Context) ([]*models.Disease, error)
	CreateDisease(ctx context.Context, name, userID string) (*models.Disease, error)
}

type CatalogService interface {
	// Courses
	CreateCourse(ctx context.Context, req *CourseCreateRequest, userID string) (*models.Course, error)
	GetCourse(ctx context.Context, id uint) (*models.Course, error)
	ListCourses(ctx context.Context) ([]*models.Course, error)
	UpdateCourse(ctx context.Context, id uint, req *CourseUpdateRequest, userID string) (*models.Course, error)
	DeleteCourse(ctx context.Context, id uint, userID string) error

	// Programs
	CreateProgram(ctx context.Context, req *ProgramCreateRequest, userID string) (*models.Program, error)
	GetProgram(ctx context.Context, id uint) (*models.Program, error)
	ListPrograms(ctx context.Context, activeOnly bool) ([]*models.Program, error)
	UpdateProgram(ctx context.Context, id uint, req *ProgramUpdateRequest, userID string) (*models.Program, error)
	DeleteProgram(ctx context.Context, id uint, userID string) error

	// Academic sessions
	CreateSession(ctx context.Context, req *SessionCreateRequest, userID string) (*models.AcademicSession, error)
	GetSession(ctx context.Context, id uint) (*models.AcademicSession, error)
	ListSessions(ctx context.Context) ([]*models.AcademicSession, error)
	GetCurrentSession(ctx context.Context) (*models.AcademicSession, error)
	UpdateSession(ctx context.Context, id uint, req *SessionUpdateRequest, userID string) (*models.AcademicSession, error)
	DeleteSession(ctx context.Context, id uint, userID string) error

	// Program offerings
	CreateOffering(ctx context.Context, req *OfferingCreateRequest, userID string) (*models.ProgramOffering, error)
	ListOfferings(ctx context.Context, sessionID *uint, openOnly bool) ([]*models.ProgramOffering, error)
	UpdateOffering(ctx context.Context, id uint, req *OfferingUpdateRequest, userID string) (*models.ProgramOffering, error)
	DeleteOffering(ctx context.Context, id uint, userID string) error
}

type DashboardService interface {
	GetDashboardStats(ctx context.Context, userID string) (*DashboardStats, error)
	GetApplicationTrends(ctx context.Context, period string, userID string) ([]repositories.ApplicationTrendData, error)

	// Announcements
	CreateAnnouncement(ctx context.Context, req *AnnouncementCreateRequest, userID string) (*models.Announcement, error)
	ListAnnouncements(ctx context.Context, userID string) (*AnnouncementListResponse, error)
	UpdateAnnouncement(ctx context.Context, id uint, req *AnnouncementUpdateRequest, userID string) (*models.Announcement, error)
	DeleteAnnouncement(ctx context.Context, id uint, userID string) error
}

type ExportService interface {
	// Excel workbooks for offline reporting
	ExportApplications(ctx context.Context, filters repositories.ApplicationFilters, userID string) ([]byte, string, error)
	ExportPayments(ctx context.Context, filters repositories.PaymentFilters, userID string) ([]byte, string, error)
}

type UserService interface {
	GetMe(ctx context.Context, userID string) (*models.User, error)
	GetByID(ctx context.Context, id, requesterID string) (*models.User, error)
	List(ctx context.Context, filters repositories.UserFilters, requesterID string) (*UserListResponse, error)
	Search(ctx context.Context, query string, filters repositories.UserFilters, requesterID string) (*UserListResponse, error)
	UpdateRole(ctx context.Context, id string, req *UpdateUserRoleRequest, requesterID string) error
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	// Core service getters
	Application() ApplicationService
	Payment() PaymentService
	Profile() ProfileService
	Catalog() CatalogService
	Dashboard() DashboardService
	Export() ExportService
	User() UserService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
