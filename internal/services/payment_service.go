package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/campus-suite/admissions-service/internal/cache"
	"github.com/campus-suite/admissions-service/internal/events"
	"github.com/campus-suite/admissions-service/internal/models"
	"github.com/campus-suite/admissions-service/internal/repositories"
	"github.com/campus-suite/admissions-service/internal/utils"
	"github.com/campus-suite/admissions-service/internal/validator"
)

type paymentService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
	cache     *cache.CacheManager
}

func NewPaymentService(
	repo repositories.Repository,
	db *gorm.DB,
	logger *slog.Logger,
	v *validator.Validator,
	publisher events.EventPublisher,
	cacheManager *cache.CacheManager,
) PaymentService {
	return &paymentService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: v,
		publisher: publisher,
		cache:     cacheManager,
	}
}

// ===== LEDGER =====

func (s *paymentService) GetByID(ctx context.Context, id uint, userID string) (*models.Payment, error) {
	payment, err := s.repo.Payment().GetByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	if err := s.authorizePaymentRead(ctx, payment.ApplicationID, userID); err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *paymentService) GetByApplication(ctx context.Context, applicationID uint, userID string) ([]*models.Payment, error) {
	if err := s.authorizePaymentRead(ctx, applicationID, userID); err != nil {
		return nil, err
	}

	payments, err := s.repo.Payment().GetByApplication(ctx, s.db, applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payments: %w", err)
	}
	return payments, nil
}

func (s *paymentService) List(ctx context.Context, filters repositories.PaymentFilters, userID string) (*PaymentListResponse, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Applicants are always scoped to their own ledger.
	if !IsAccountant(user.Role) && !IsAdmissionOfficer(user.Role) {
		filters.StudentID = &userID
	}

	payments, total, err := s.repo.Payment().List(ctx, s.db, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	page := 1
	if filters.Limit > 0 {
		page = filters.Offset/filters.Limit + 1
	}

	return &PaymentListResponse{
		Payments: payments,
		Total:    total,
		Page:     page,
		Size:     len(payments),
	}, nil
}

func (s *paymentService) RecordManualPayment(ctx context.Context, req *ManualPaymentRequest, userID string) (*models.Payment, error) {
	s.logger.Info("Recording manual payment", "application_id", req.ApplicationID, "payment_type", req.Type, "user_id", userID)

	if errs := s.validator.GetBusinessValidator().Validate(req); len(errs) > 0 {
		return nil, errs
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !IsAccountant(user.Role) {
		return nil, NewPermissionError(userID, req.ApplicationID, "payment", "create", "accountant role required")
	}

	if _, err := s.repo.Application().GetByID(ctx, s.db, req.ApplicationID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to load application: %w", err)
	}

	if req.PaymentMethodID != nil {
		if _, err := s.repo.Payment().GetPaymentMethodByID(ctx, s.db, *req.PaymentMethodID); err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, NewBusinessRuleError("unknown_payment_method", "payment method does not exist", map[string]interface{}{
					"payment_method_id": *req.PaymentMethodID,
				})
			}
			return nil, fmt.Errorf("failed to load payment method: %w", err)
		}
	}

	payment := &models.Payment{
		ApplicationID:   req.ApplicationID,
		Type:            models.PaymentType(req.Type),
		Amount:          req.Amount,
		Status:          models.PaymentPending,
		TransactionID:   utils.NewTransactionID("PAY"),
		BankReference:   req.BankReference,
		PaymentMethodID: req.PaymentMethodID,
	}

	if err := s.repo.Payment().Create(ctx, s.db, payment); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrDuplicatePayment
		}
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	s.publishEvent(ctx, events.TopicPaymentCreated, map[string]interface{}{
		"payment_id":     payment.ID,
		"application_id": payment.ApplicationID,
		"payment_type":   string(payment.Type),
		"amount":         payment.Amount,
		"recorded_by":    userID,
	})

	if err := s.cache.InvalidateStats(ctx); err != nil {
		s.logger.Warn("Failed to invalidate stats cache", "error", err)
	}

	return payment, nil
}

func (s *paymentService) VerifyPayment(ctx context.Context, id uint, req *VerifyPaymentRequest, userID string) (*models.Payment, error) {
	s.logger.Info("Verifying payment", "payment_id", id, "user_id", userID)

	if errs := s.validator.GetBusinessValidator().Validate(req); len(errs) > 0 {
		return nil, errs
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !IsAccountant(user.Role) {
		return nil, NewPermissionError(userID, id, "payment", "verify", "accountant role required")
	}

	payment, err := s.repo.Payment().GetByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	if payment.Status == models.PaymentPaid {
		return nil, ErrPaymentAlreadyVerified
	}

	now := time.Now()
	payment.Status = models.PaymentPaid
	payment.PaidAt = &now
	payment.VerifiedBy = &userID
	if req.BankReference != "" {
		payment.BankReference = req.BankReference
	}
	if req.PaymentMethodID != nil {
		payment.PaymentMethodID = req.PaymentMethodID
	}

	if err := s.repo.Payment().Update(ctx, s.db, payment); err != nil {
		return nil, fmt.Errorf("failed to update payment: %w", err)
	}

	s.publishEvent(ctx, events.TopicPaymentVerified, map[string]interface{}{
		"payment_id":     payment.ID,
		"application_id": payment.ApplicationID,
		"payment_type":   string(payment.Type),
		"amount":         payment.Amount,
		"verified_by":    userID,
	})

	if err := s.cache.InvalidateStats(ctx); err != nil {
		s.logger.Warn("Failed to invalidate stats cache", "error", err)
	}

	s.logger.Info("Payment verified", "payment_id", payment.ID, "transaction_id", payment.TransactionID)
	return payment, nil
}

func (s *paymentService) GetStats(ctx context.Context, userID string) (*repositories.PaymentStats, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !IsAccountant(user.Role) && !CanViewReports(user.Role) {
		return nil, NewPermissionError(userID, 0, "payment", "view_stats", "insufficient role permissions")
	}

	var stats repositories.PaymentStats
	err = s.cache.Stats.CacheOrExecute(ctx, "payments", &stats, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		return s.repo.Payment().GetStats(ctx, s.db)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get payment stats: %w", err)
	}
	return &stats, nil
}

// ===== FEE STRUCTURES =====

func (s *paymentService) CreateFeeStructure(ctx context.Context, req *FeeStructureRequest, userID string) (*models.FeeStructure, error) {
	if errs := s.validator.GetBusinessValidator().ValidateFeeStructure(req); len(errs) > 0 {
		return nil, errs
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !IsAccountant(user.Role) {
		return nil, NewPermissionError(userID, 0, "fee_structure", "create", "accountant role required")
	}

	if _, err := s.repo.Catalog().GetOffering(ctx, s.db, req.ProgramID, req.SessionID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrOfferingNotFound
		}
		return nil, fmt.Errorf("failed to check offering: %w", err)
	}

	fee := &models.FeeStructure{
		ProgramID:      req.ProgramID,
		SessionID:      req.SessionID,
		ApplicationFee: req.ApplicationFee,
		AdmissionFee:   req.AdmissionFee,
		SecurityFee:    req.SecurityFee,
		IsActive:       req.IsActive,
	}

	if err := s.repo.Payment().CreateFeeStructure(ctx, s.db, fee); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrDuplicateFeeStructure
		}
		return nil, fmt.Errorf("failed to create fee structure: %w", err)
	}

	if err := s.cache.InvalidateFeeStructure(ctx, fee.ProgramID, fee.SessionID); err != nil {
		s.logger.Warn("Failed to invalidate fee cache", "error", err)
	}

	return fee, nil
}

func (s *paymentService) GetFeeStructure(ctx context.Context, programID, sessionID uint) (*models.FeeStructure, error) {
	var fee models.FeeStructure
	key := fmt.Sprintf("program:%d:session:%d", programID, sessionID)
	err := s.cache.Fees.CacheOrExecute(ctx, key, &fee, cache.FeeCacheConfig.TTL, func() (interface{}, error) {
		return s.repo.Payment().GetFeeStructure(ctx, s.db, programID, sessionID)
	})
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrFeeStructureNotFound
		}
		return nil, fmt.Errorf("failed to get fee structure: %w", err)
	}
	return &fee, nil
}

func (s *paymentService) ListFeeStructures(ctx context.Context, userID string) ([]*models.FeeStructure, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !IsStaff(user.Role) {
		return nil, NewPermissionError(userID, 0, "fee_structure", "list", "staff role required")
	}

	fees, err := s.repo.Payment().ListFeeStructures(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to list fee structures: %w", err)
	}
	return fees, nil
}

func (s *paymentService) UpdateFeeStructure(ctx context.Context, id uint, req *FeeStructureUpdateRequest, userID string) (*models.FeeStructure, error) {
	if errs := s.validator.GetBusinessValidator().Validate(req); len(errs) > 0 {
		return nil, errs
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !IsAccountant(user.Role) {
		return nil, NewPermissionError(userID, id, "fee_structure", "update", "accountant role required")
	}

	fee, err := s.repo.Payment().GetFeeStructureByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrFeeStructureNotFound
		}
		return nil, fmt.Errorf("failed to get fee structure: %w", err)
	}

	if req.ApplicationFee != nil {
		fee.ApplicationFee = *req.ApplicationFee
	}
	if req.AdmissionFee != nil {
		fee.AdmissionFee = *req.AdmissionFee
	}
	if req.SecurityFee != nil {
		fee.SecurityFee = *req.SecurityFee
	}
	if req.IsActive != nil {
		fee.IsActive = *req.IsActive
	}

	if err := s.repo.Payment().UpdateFeeStructure(ctx, s.db, fee); err != nil {
		return nil, fmt.Errorf("failed to update fee structure: %w", err)
	}

	if err := s.cache.InvalidateFeeStructure(ctx, fee.ProgramID, fee.SessionID); err != nil {
		s.logger.Warn("Failed to invalidate fee cache", "error", err)
	}

	return fee, nil
}

func (s *paymentService) DeleteFeeStructure(ctx context.Context, id uint, userID string) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if !IsAdminUser(user.Role) {
		return NewPermissionError(userID, id, "fee_structure", "delete", "admin role required")
	}

	fee, err := s.repo.Payment().GetFeeStructureByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrFeeStructureNotFound
		}
		return fmt.Errorf("failed to get fee structure: %w", err)
	}

	if err := s.repo.Payment().DeleteFeeStructure(ctx, s.db, id); err != nil {
		return fmt.Errorf("failed to delete fee structure: %w", err)
	}

	if err := s.cache.InvalidateFeeStructure(ctx, fee.ProgramID, fee.SessionID); err != nil {
		s.logger.Warn("Failed to invalidate fee cache", "error", err)
	}
	return nil
}

// ===== PAYMENT METHODS =====

func (s *paymentService) ListPaymentMethods(ctx context.Context) ([]*models.PaymentMethod, error) {
	methods, err := s.repo.Payment().ListPaymentMethods(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment methods: %w", err)
	}
	return methods, nil
}

// ===== HELPERS =====

func (s *paymentService) getUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

// authorizePaymentRead allows accountants and officers, or the applicant
// who owns the parent application.
func (s *paymentService) authorizePaymentRead(ctx context.Context, applicationID uint, userID string) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if IsAccountant(user.Role) || IsAdmissionOfficer(user.Role) {
		return nil
	}

	application, err := s.repo.Application().GetByID(ctx, s.db, applicationID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrApplicationNotFound
		}
		return fmt.Errorf("failed to load application: %w", err)
	}
	if application.Student.UserID != userID {
		return NewPermissionError(userID, applicationID, "payment", "read", "not the owner")
	}
	return nil
}

func (s *paymentService) publishEvent(ctx context.Context, topic string, data map[string]interface{}) {
	if err := s.publisher.Publish(ctx, topic, events.NewEvent(topic, data)); err != nil {
		s.logger.Warn("Failed to publish event", "topic", topic, "error", err)
	}
}
