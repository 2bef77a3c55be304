package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/campus-suite/admissions-service/internal/models"
	"github.com/campus-suite/admissions-service/internal/repositories"
)

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentPostgreSQL(db *gorm.DB) repositories.PaymentRepository {
	return &paymentRepository{db: db}
}

// ===== PAYMENTS =====

func (r *paymentRepository) Create(ctx context.Context, tx *gorm.DB, payment *models.Payment) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(payment).Error; err != nil {
		return r.handleDBError(err, "create payment")
	}
	return nil
}

func (r *paymentRepository) CreateIfAbsent(ctx context.Context, tx *gorm.DB, payment *models.Payment) (bool, error) {
	db := r.getDB(tx)

	// ON CONFLICT DO NOTHING on the (application_id, payment_type) unique
	// index. RowsAffected == 0 means the payment already existed, which is
	// not an error for automatic fee creation.
	result := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "application_id"}, {Name: "payment_type"}},
		DoNothing: true,
	}).Create(payment)
	if result.Error != nil {
		return false, r.handleDBError(result.Error, "create payment if absent")
	}

	return result.RowsAffected > 0, nil
}

func (r *paymentRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Payment, error) {
	db := r.getDB(tx)
	var payment models.Payment

	if err := db.WithContext(ctx).
		Preload("Method").
		First(&payment, id).Error; err != nil {
		return nil, r.handleDBError(err, "get payment by id")
	}

	return &payment, nil
}

func (r *paymentRepository) GetByTransactionID(ctx context.Context, tx *gorm.DB, transactionID string) (*models.Payment, error) {
	db := r.getDB(tx)
	var payment models.Payment

	if err := db.WithContext(ctx).
		Preload("Method").
		Where("transaction_id = ?", transactionID).
		First(&payment).Error; err != nil {
		return nil, r.handleDBError(err, "get payment by transaction id")
	}

	return &payment, nil
}

func (r *paymentRepository) GetByApplication(ctx context.Context, tx *gorm.DB, applicationID uint) ([]*models.Payment, error) {
	db := r.getDB(tx)
	var payments []*models.Payment

	if err := db.WithContext(ctx).
		Preload("Method").
		Where("application_id = ?", applicationID).
		Order("created_at ASC").
		Find(&payments).Error; err != nil {
		return nil, r.handleDBError(err, "get payments by application")
	}

	return payments, nil
}

func (r *paymentRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.PaymentFilters) ([]*models.Payment, int64, error) {
	db := r.getDB(tx)
	var payments []*models.Payment
	var total int64

	query := db.WithContext(ctx).
		Model(&models.Payment{}).
		Preload("Method")

	query = r.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, r.handleDBError(err, "count payments")
	}

	query = applyPaginationAndSorting(query, filters.Limit, filters.Offset, filters.SortBy, filters.SortOrder, map[string]string{
		"created_at": "payments.created_at",
		"updated_at": "payments.updated_at",
		"amount":     "payments.amount",
		"paid_at":    "payments.paid_at",
		"id":         "payments.id",
	}, "payments.created_at")

	if err := query.Find(&payments).Error; err != nil {
		return nil, 0, r.handleDBError(err, "list payments")
	}

	return payments, total, nil
}

func (r *paymentRepository) Update(ctx context.Context, tx *gorm.DB, payment *models.Payment) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Save(payment).Error; err != nil {
		return r.handleDBError(err, "update payment")
	}
	return nil
}

func (r *paymentRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Delete(&models.Payment{}, id).Error; err != nil {
		return r.handleDBError(err, "delete payment")
	}
	return nil
}

// ===== FEE STRUCTURES =====

func (r *paymentRepository) CreateFeeStructure(ctx context.Context, tx *gorm.DB, fee *models.FeeStructure) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(fee).Error; err != nil {
		return r.handleDBError(err, "create fee structure")
	}
	return nil
}

func (r *paymentRepository) GetFeeStructure(ctx context.Context, tx *gorm.DB, programID, sessionID uint) (*models.FeeStructure, error) {
	db := r.getDB(tx)
	var fee models.FeeStructure

	if err := db.WithContext(ctx).
		Where("program_id = ? AND session_id = ? AND is_active = ?", programID, sessionID, true).
		First(&fee).Error; err != nil {
		return nil, r.handleDBError(err, "get fee structure")
	}

	return &fee, nil
}

func (r *paymentRepository) GetFeeStructureByID(ctx context.Context, tx *gorm.DB, id uint) (*models.FeeStructure, error) {
	db := r.getDB(tx)
	var fee models.FeeStructure

	if err := db.WithContext(ctx).
		Preload("Program").
		Preload("Session").
		First(&fee, id).Error; err != nil {
		return nil, r.handleDBError(err, "get fee structure by id")
	}

	return &fee, nil
}

func (r *paymentRepository) ListFeeStructures(ctx context.Context, tx *gorm.DB) ([]*models.FeeStructure, error) {
	db := r.getDB(tx)
	var fees []*models.FeeStructure

	if err := db.WithContext(ctx).
		Preload("Program").
		Preload("Session").
		Order("id ASC").
		Find(&fees).Error; err != nil {
		return nil, r.handleDBError(err, "list fee structures")
	}

	return fees, nil
}

func (r *paymentRepository) UpdateFeeStructure(ctx context.Context, tx *gorm.DB, fee *models.FeeStructure) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Save(fee).Error; err != nil {
		return r.handleDBError(err, "update fee structure")
	}
	return nil
}

func (r *paymentRepository) DeleteFeeStructure(ctx context.Context, tx *gorm.DB, id uint) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Delete(&models.FeeStructure{}, id).Error; err != nil {
		return r.handleDBError(err, "delete fee structure")
	}
	return nil
}

// ===== PAYMENT METHODS =====

func (r *paymentRepository) ListPaymentMethods(ctx context.Context, tx *gorm.DB) ([]*models.PaymentMethod, error) {
	db := r.getDB(tx)
	var methods []*models.PaymentMethod

	if err := db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&methods).Error; err != nil {
		return nil, r.handleDBError(err, "list payment methods")
	}

	return methods, nil
}

func (r *paymentRepository) GetPaymentMethodByID(ctx context.Context, tx *gorm.DB, id uint) (*models.PaymentMethod, error) {
	db := r.getDB(tx)
	var method models.PaymentMethod

	if err := db.WithContext(ctx).First(&method, id).Error; err != nil {
		return nil, r.handleDBError(err, "get payment method by id")
	}

	return &method, nil
}

func (r *paymentRepository) CreatePaymentMethod(ctx context.Context, tx *gorm.DB, method *models.PaymentMethod) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(method).Error; err != nil {
		return r.handleDBError(err, "create payment method")
	}
	return nil
}

// ===== STATISTICS =====

func (r *paymentRepository) GetStats(ctx context.Context, tx *gorm.DB) (*repositories.PaymentStats, error) {
	db := r.getDB(tx)
	stats := &repositories.PaymentStats{
		ByType:   make(map[models.PaymentType]float64),
		ByStatus: make(map[models.PaymentStatus]int64),
		ByMethod: make(map[string]float64),
	}

	var statusRows []struct {
		Status models.PaymentStatus
		Count  int64
		Total  float64
	}
	err := db.WithContext(ctx).
		Model(&models.Payment{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total").
		Group("status").
		Scan(&statusRows).Error
	if err != nil {
		return nil, r.handleDBError(err, "aggregate payments by status")
	}
	for _, row := range statusRows {
		stats.ByStatus[row.Status] = row.Count
		stats.TotalCount += row.Count
		switch row.Status {
		case models.PaymentPaid:
			stats.TotalCollected += row.Total
			stats.PaidCount = row.Count
		case models.PaymentPending:
			stats.PendingAmount += row.Total
			stats.PendingCount = row.Count
		}
	}

	var typeRows []struct {
		Type  models.PaymentType `gorm:"column:payment_type"`
		Total float64
	}
	err = db.WithContext(ctx).
		Model(&models.Payment{}).
		Select("payment_type, COALESCE(SUM(amount), 0) AS total").
		Where("status = ?", models.PaymentPaid).
		Group("payment_type").
		Scan(&typeRows).Error
	if err != nil {
		return nil, r.handleDBError(err, "aggregate payments by type")
	}
	for _, row := range typeRows {
		stats.ByType[row.Type] = row.Total
	}

	var methodRows []struct {
		Name  string
		Total float64
	}
	err = db.WithContext(ctx).
		Model(&models.Payment{}).
		Select("payment_methods.name AS name, COALESCE(SUM(payments.amount), 0) AS total").
		Joins("INNER JOIN payment_methods ON payment_methods.id = payments.payment_method_id").
		Where("payments.status = ?", models.PaymentPaid).
		Group("payment_methods.name").
		Scan(&methodRows).Error
	if err != nil {
		return nil, r.handleDBError(err, "aggregate payments by method")
	}
	for _, row := range methodRows {
		stats.ByMethod[row.Name] = row.Total
	}

	return stats, nil
}

// ===== HELPERS =====

func (r *paymentRepository) applyFilters(query *gorm.DB, filters repositories.PaymentFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("payments.status = ?", *filters.Status)
	}
	if filters.Type != nil {
		query = query.Where("payments.payment_type = ?", *filters.Type)
	}
	if filters.ApplicationID != nil {
		query = query.Where("payments.application_id = ?", *filters.ApplicationID)
	}
	if filters.StudentID != nil {
		query = query.
			Joins("INNER JOIN applications a ON a.id = payments.application_id").
			Joins("INNER JOIN student_profiles sp ON sp.id = a.student_id").
			Where("sp.user_id = ?", *filters.StudentID)
	}
	if filters.DateFrom != nil {
		query = query.Where("payments.created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("payments.created_at <= ?", *filters.DateTo)
	}
	return query
}

func (r *paymentRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *paymentRepository) handleDBError(err error, operation string) error {
	return handleDBError(err, operation)
}
