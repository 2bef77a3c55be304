package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/campus-suite/admissions-service/internal/artifacts"
	"github.com/campus-suite/admissions-service/internal/cache"
	"github.com/campus-suite/admissions-service/internal/events"
	"github.com/campus-suite/admissions-service/internal/models"
	"github.com/campus-suite/admissions-service/internal/repositories"
	"github.com/campus-suite/admissions-service/internal/utils"
	"github.com/campus-suite/admissions-service/internal/validator"
)

type applicationService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
	artifacts artifacts.Store
	cache     *cache.CacheManager

	// Base URL embedded into generated QR codes, e.g. https://admissions.example.edu/verify
	verificationBaseURL string
}

func NewApplicationService(
	repo repositories.Repository,
	db *gorm.DB,
	logger *slog.Logger,
	v *validator.Validator,
	publisher events.EventPublisher,
	store artifacts.Store,
	cacheManager *cache.CacheManager,
	verificationBaseURL string,
) ApplicationService {
	return &applicationService{
		repo:                repo,
		db:                  db,
		logger:              logger,
		validator:           v,
		publisher:           publisher,
		artifacts:           store,
		cache:               cacheManager,
		verificationBaseURL: verificationBaseURL,
	}
}

// ===== LIFECYCLE =====

func (s *applicationService) Submit(ctx context.Context, req *SubmitApplicationRequest, userID string) (*ApplicationResponse, error) {
	s.logger.Info("Submitting application", "user_id", userID, "program_id", req.ProgramID, "session_id", req.SessionID)

	if errs := s.validator.GetBusinessValidator().Validate(req); len(errs) > 0 {
		return nil, errs
	}

	// Only applicants submit applications; staff roles manage them.
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !IsApplicant(user.Role) {
		return nil, NewPermissionError(userID, 0, "application", "submit", "applicant role required")
	}

	// Profile must exist and be complete before an application is accepted.
	profile, err := s.repo.Profile().GetByUserID(ctx, s.db, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileIncomplete
		}
		return nil, fmt.Errorf("failed to load student profile: %w", err)
	}
	if missing := profile.MissingSections(); len(missing) > 0 {
		return nil, NewBusinessRuleError("profile_incomplete", "student profile is incomplete", map[string]interface{}{
			"missing_sections":   missing,
			"completion_percent": profile.CompletionPercent(),
		})
	}

	// The program must be offered and open in the requested session.
	offering, err := s.repo.Catalog().GetOffering(ctx, s.db, req.ProgramID, req.SessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrOfferingNotAvailable
		}
		return nil, fmt.Errorf("failed to check program offering: %w", err)
	}
	if !offering.IsActive {
		return nil, ErrOfferingNotAvailable
	}

	// One application per student, program and session.
	exists, err := s.repo.Application().ExistsForOffering(ctx, s.db, userID, req.ProgramID, req.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to check for duplicate application: %w", err)
	}
	if exists {
		return nil, ErrDuplicateApplication
	}

	submitted, err := s.repo.Application().GetStatusByCode(ctx, s.db, models.StatusSubmitted)
	if err != nil {
		return nil, fmt.Errorf("failed to load submitted status: %w", err)
	}

	now := time.Now()
	trackingID := utils.NewTrackingID()

	application := &models.Application{
		StudentID:        profile.ID,
		ProgramID:        req.ProgramID,
		SessionID:        req.SessionID,
		StatusID:         submitted.ID,
		TrackingID:       trackingID,
		FormNo:           utils.NewFormNo(now),
		VerificationHash: utils.VerificationHash(trackingID, userID, req.ProgramID, now),
		AppliedAt:        now,
		UpdatedBy:        userID,
	}

	var feePayment *models.Payment
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Application().Create(ctx, nil, application); err != nil {
			if repositories.IsDuplicateError(err) {
				return ErrDuplicateApplication
			}
			return fmt.Errorf("failed to create application: %w", err)
		}

		entry := &models.ApplicationTracking{
			ApplicationID: application.ID,
			StatusID:      submitted.ID,
			Remarks:       "Application submitted",
			ChangedBy:     userID,
			Timestamp:     now,
		}
		if err := txRepo.Application().AddTracking(ctx, nil, entry); err != nil {
			return fmt.Errorf("failed to record tracking entry: %w", err)
		}

		payment, err := s.createFeePayment(ctx, txRepo, application, models.PaymentApplication)
		if err != nil {
			return err
		}
		feePayment = payment

		return nil
	})
	if err != nil {
		return nil, err
	}

	// QR generation is best effort: the application stands even when the
	// artifact cannot be written.
	s.attachQRCode(ctx, application)

	s.publishEvent(ctx, events.TopicApplicationSubmitted, map[string]interface{}{
		"application_id": application.ID,
		"tracking_id":    application.TrackingID,
		"user_id":        userID,
		"program_id":     req.ProgramID,
		"session_id":     req.SessionID,
	})
	if feePayment != nil {
		s.publishEvent(ctx, events.TopicPaymentCreated, map[string]interface{}{
			"payment_id":     feePayment.ID,
			"application_id": application.ID,
			"payment_type":   string(feePayment.Type),
			"amount":         feePayment.Amount,
		})
	}

	if err := s.cache.InvalidateStats(ctx); err != nil {
		s.logger.Warn("Failed to invalidate stats cache", "error", err)
	}

	s.logger.Info("Application submitted",
		"application_id", application.ID,
		"tracking_id", application.TrackingID,
		"form_no", application.FormNo)

	full, err := s.repo.Application().GetByID(ctx, s.db, application.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload application: %w", err)
	}
	return s.buildResponse(full, true), nil
}

func (s *applicationService) UpdateStatus(ctx context.Context, id uint, req *UpdateApplicationStatusRequest, userID string) (*ApplicationResponse, error) {
	s.logger.Info("Updating application status", "application_id", id, "user_id", userID, "new_status", req.Status)

	if errs := s.validator.GetBusinessValidator().Validate(req); len(errs) > 0 {
		return nil, errs
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !CanManageApplications(user.Role) {
		return nil, NewPermissionError(userID, id, "application", "update_status", "insufficient role permissions")
	}

	application, err := s.repo.Application().GetByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}

	if errs := s.validator.GetBusinessValidator().ValidateStatusTransition(application.Status.Code, req.Status); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatusTransition, errs.Error())
	}

	newStatus, err := s.repo.Application().GetStatusByCode(ctx, s.db, req.Status)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUnknownApplicationStatus
		}
		return nil, fmt.Errorf("failed to load status: %w", err)
	}

	previousCode := application.Status.Code
	now := time.Now()

	var admissionPayment *models.Payment
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		application.StatusID = newStatus.ID
		application.UpdatedBy = userID
		if err := txRepo.Application().Update(ctx, nil, application); err != nil {
			return fmt.Errorf("failed to update application: %w", err)
		}

		entry := &models.ApplicationTracking{
			ApplicationID: application.ID,
			StatusID:      newStatus.ID,
			Remarks:       req.Remarks,
			ChangedBy:     userID,
			Timestamp:     now,
		}
		if err := txRepo.Application().AddTracking(ctx, nil, entry); err != nil {
			return fmt.Errorf("failed to record tracking entry: %w", err)
		}

		// Approval raises the admission fee exactly once.
		if req.Status == models.StatusApproved {
			payment, err := s.createFeePayment(ctx, txRepo, application, models.PaymentAdmission)
			if err != nil {
				return err
			}
			admissionPayment = payment
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.TopicApplicationStatusChanged, map[string]interface{}{
		"application_id": application.ID,
		"tracking_id":    application.TrackingID,
		"from_status":    previousCode,
		"to_status":      req.Status,
		"changed_by":     userID,
	})
	if admissionPayment != nil {
		s.publishEvent(ctx, events.TopicPaymentCreated, map[string]interface{}{
			"payment_id":     admissionPayment.ID,
			"application_id": application.ID,
			"payment_type":   string(admissionPayment.Type),
			"amount":         admissionPayment.Amount,
		})
	}

	if err := s.cache.InvalidateStats(ctx); err != nil {
		s.logger.Warn("Failed to invalidate stats cache", "error", err)
	}

	full, err := s.repo.Application().GetByID(ctx, s.db, application.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload application: %w", err)
	}
	resp := s.buildResponse(full, true)
	resp.Message = fmt.Sprintf("Status updated from %s to %s", previousCode, req.Status)
	return resp, nil
}

func (s *applicationService) Delete(ctx context.Context, id uint, userID string) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if !IsAdminUser(user.Role) {
		return NewPermissionError(userID, id, "application", "delete", "admin role required")
	}

	if err := s.repo.Application().Delete(ctx, s.db, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrApplicationNotFound
		}
		return fmt.Errorf("failed to delete application: %w", err)
	}

	if err := s.cache.InvalidateStats(ctx); err != nil {
		s.logger.Warn("Failed to invalidate stats cache", "error", err)
	}

	s.logger.Info("Application deleted", "application_id", id, "deleted_by", userID)
	return nil
}

// ===== READS =====

func (s *applicationService) GetByID(ctx context.Context, id uint, userID string) (*ApplicationResponse, error) {
	application, err := s.repo.Application().GetByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}

	canManage, err := s.authorizeRead(ctx, application, userID, "read")
	if err != nil {
		return nil, err
	}
	return s.buildResponse(application, canManage), nil
}

func (s *applicationService) GetByTrackingID(ctx context.Context, trackingID string, userID string) (*ApplicationResponse, error) {
	application, err := s.repo.Application().GetByTrackingID(ctx, s.db, trackingID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}

	canManage, err := s.authorizeRead(ctx, application, userID, "read")
	if err != nil {
		return nil, err
	}
	return s.buildResponse(application, canManage), nil
}

func (s *applicationService) List(ctx context.Context, filters repositories.ApplicationFilters, userID string) (*ApplicationListResponse, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Applicants only ever see their own applications regardless of filters.
	canManage := CanManageApplications(user.Role) || IsAccountant(user.Role)
	if !canManage {
		filters.StudentID = &userID
	}

	applications, total, err := s.repo.Application().List(ctx, s.db, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}

	responses := make([]*ApplicationResponse, 0, len(applications))
	for _, app := range applications {
		responses = append(responses, s.buildResponse(app, canManage))
	}

	page := 1
	if filters.Limit > 0 {
		page = filters.Offset/filters.Limit + 1
	}

	return &ApplicationListResponse{
		Applications: responses,
		Total:        total,
		Page:         page,
		Size:         len(responses),
	}, nil
}

func (s *applicationService) GetMyApplications(ctx context.Context, userID string) ([]*ApplicationResponse, error) {
	applications, err := s.repo.Application().GetByStudent(ctx, s.db, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get applications: %w", err)
	}

	responses := make([]*ApplicationResponse, 0, len(applications))
	for _, app := range applications {
		responses = append(responses, s.buildResponse(app, false))
	}
	return responses, nil
}

func (s *applicationService) GetTracking(ctx context.Context, id uint, userID string) ([]*models.ApplicationTracking, error) {
	application, err := s.repo.Application().GetByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}

	if _, err := s.authorizeRead(ctx, application, userID, "read_tracking"); err != nil {
		return nil, err
	}

	entries, err := s.repo.Application().GetTracking(ctx, s.db, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get tracking history: %w", err)
	}
	return entries, nil
}

// Verify resolves a QR verification hash without authentication. An
// unknown hash yields an invalid result, not an error.
func (s *applicationService) Verify(ctx context.Context, hash string) (*models.VerificationResult, error) {
	application, err := s.repo.Application().GetByVerificationHash(ctx, s.db, hash)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return &models.VerificationResult{Valid: false}, nil
		}
		return nil, fmt.Errorf("failed to verify application: %w", err)
	}

	// Recompute the digest over the stored inputs so a tampered record
	// fails verification even when the hash column still matches.
	expected := utils.VerificationHash(application.TrackingID, application.Student.UserID, application.ProgramID, application.AppliedAt)
	if expected != hash {
		return &models.VerificationResult{Valid: false}, nil
	}

	return &models.VerificationResult{
		Valid:        true,
		TrackingID:   application.TrackingID,
		FormNo:       application.FormNo,
		ProgramName:  application.Program.Name,
		SessionLabel: application.Session.Session,
		StatusName:   application.Status.Name,
		AppliedAt:    application.AppliedAt,
	}, nil
}

func (s *applicationService) ListStatuses(ctx context.Context) ([]*models.ApplicationStatus, error) {
	statuses, err := s.repo.Application().ListStatuses(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to list statuses: %w", err)
	}
	return statuses, nil
}

func (s *applicationService) GetStats(ctx context.Context, userID string) (*repositories.ApplicationStats, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !CanViewReports(user.Role) && !CanManageApplications(user.Role) {
		return nil, NewPermissionError(userID, 0, "application", "view_stats", "insufficient role permissions")
	}

	var stats repositories.ApplicationStats
	err = s.cache.Stats.CacheOrExecute(ctx, "applications", &stats, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		return s.repo.Application().GetStats(ctx, s.db)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get application stats: %w", err)
	}
	return &stats, nil
}

// ===== HELPERS =====

func (s *applicationService) getUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

// authorizeRead allows staff, or the applicant who owns the record.
// It reports whether the caller holds a managing role.
func (s *applicationService) authorizeRead(ctx context.Context, application *models.Application, userID, action string) (bool, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return false, err
	}

	if IsStaff(user.Role) {
		return CanManageApplications(user.Role), nil
	}
	if application.Student.UserID == userID {
		return false, nil
	}
	return false, NewPermissionError(userID, application.ID, "application", action, "not the owner")
}

// createFeePayment raises the pending fee payment of the given type for an
// application, keyed on the fee structure of its program and session. A
// missing fee schedule is logged and skipped, never fatal.
func (s *applicationService) createFeePayment(ctx context.Context, txRepo repositories.Repository, application *models.Application, paymentType models.PaymentType) (*models.Payment, error) {
	fee, err := txRepo.Payment().GetFeeStructure(ctx, nil, application.ProgramID, application.SessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			s.logger.Warn("No fee structure for offering, skipping fee payment",
				"application_id", application.ID,
				"program_id", application.ProgramID,
				"session_id", application.SessionID,
				"payment_type", paymentType)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load fee structure: %w", err)
	}

	var amount float64
	var prefix string
	switch paymentType {
	case models.PaymentApplication:
		amount, prefix = fee.ApplicationFee, "APP"
	case models.PaymentAdmission:
		amount, prefix = fee.AdmissionFee, "ADM"
	case models.PaymentSecurity:
		amount, prefix = fee.SecurityFee, "PAY"
	}

	// A configured schedule always yields the row, even at amount zero,
	// so the ledger records that the fee was assessed.
	payment := &models.Payment{
		ApplicationID: application.ID,
		Type:          paymentType,
		Amount:        amount,
		Status:        models.PaymentPending,
		TransactionID: utils.NewTransactionID(prefix),
	}

	created, err := txRepo.Payment().CreateIfAbsent(ctx, nil, payment)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s fee payment: %w", paymentType, err)
	}
	if !created {
		// An earlier transition already raised this fee.
		return nil, nil
	}
	return payment, nil
}

func (s *applicationService) attachQRCode(ctx context.Context, application *models.Application) {
	url := fmt.Sprintf("%s/%s", s.verificationBaseURL, application.VerificationHash)
	path, err := artifacts.GenerateApplicationQR(s.artifacts, application.TrackingID, url)
	if err != nil {
		s.logger.Warn("Failed to generate QR code", "application_id", application.ID, "error", err)
		return
	}

	application.QRCodePath = &path
	if err := s.repo.Application().Update(ctx, s.db, application); err != nil {
		s.logger.Warn("Failed to store QR code path", "application_id", application.ID, "error", err)
	}
}

func (s *applicationService) publishEvent(ctx context.Context, topic string, data map[string]interface{}) {
	if err := s.publisher.Publish(ctx, topic, events.NewEvent(topic, data)); err != nil {
		s.logger.Warn("Failed to publish event", "topic", topic, "error", err)
	}
}

func (s *applicationService) buildResponse(application *models.Application, canManage bool) *ApplicationResponse {
	resp := &ApplicationResponse{Application: application}
	if canManage {
		resp.AllowedTransitions = validator.AllowedTransitionsFrom(application.Status.Code)
	}
	return resp
}
