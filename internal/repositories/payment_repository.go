package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/campus-suite/admissions-service/internal/models"
)

// PaymentRepository handles the payment ledger, fee structures and
// payment methods
type PaymentRepository interface {
	// Payments
	Create(ctx context.Context, tx *gorm.DB, payment *models.Payment) error
	// CreateIfAbsent inserts the payment unless one already exists for the
	// same application and payment type. Returns true when a row was
	// actually inserted.
	CreateIfAbsent(ctx context.Context, tx *gorm.DB, payment *models.Payment) (bool, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Payment, error)
	GetByTransactionID(ctx context.Context, tx *gorm.DB, transactionID string) (*models.Payment, error)
	GetByApplication(ctx context.Context, tx *gorm.DB, applicationID uint) ([]*models.Payment, error)
	List(ctx context.Context, tx *gorm.DB, filters PaymentFilters) ([]*models.Payment, int64, error)
	Update(ctx context.Context, tx *gorm.DB, payment *models.Payment) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	// Fee structures
	CreateFeeStructure(ctx context.Context, tx *gorm.DB, fee *models.FeeStructure) error
	GetFeeStructure(ctx context.Context, tx *gorm.DB, programID, sessionID uint) (*models.FeeStructure, error)
	GetFeeStructureByID(ctx context.Context, tx *gorm.DB, id uint) (*models.FeeStructure, error)
	ListFeeStructures(ctx context.Context, tx *gorm.DB) ([]*models.FeeStructure, error)
	UpdateFeeStructure(ctx context.Context, tx *gorm.DB, fee *models.FeeStructure) error
	DeleteFeeStructure(ctx context.Context, tx *gorm.DB, id uint) error

	// Payment methods
	ListPaymentMethods(ctx context.Context, tx *gorm.DB) ([]*models.PaymentMethod, error)
	GetPaymentMethodByID(ctx context.Context, tx *gorm.DB, id uint) (*models.PaymentMethod, error)
	CreatePaymentMethod(ctx context.Context, tx *gorm.DB, method *models.PaymentMethod) error

	// Statistics
	GetStats(ctx context.Context, tx *gorm.DB) (*PaymentStats, error)
}
