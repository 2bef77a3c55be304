package models

import (
	"time"
)

type PaymentType string

const (
	PaymentApplication PaymentType = "application"
	PaymentAdmission   PaymentType = "admission"
	PaymentSecurity    PaymentType = "security"
)

func (t PaymentType) Valid() bool {
	switch t {
	case PaymentApplication, PaymentAdmission, PaymentSecurity:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

// FeeStructure is the fee schedule for a (program, session) pairing,
// looked up read-only by the application lifecycle.
type FeeStructure struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	ProgramID uint `json:"program_id" gorm:"not null;index:idx_fee_program_session,unique"`
	SessionID uint `json:"session_id" gorm:"not null;index:idx_fee_program_session,unique"`

	ApplicationFee float64 `json:"application_fee" gorm:"not null;type:decimal(10,2)" validate:"min=0"`
	AdmissionFee   float64 `json:"admission_fee" gorm:"not null;type:decimal(10,2)" validate:"min=0"`
	SecurityFee    float64 `json:"security_fee" gorm:"type:decimal(10,2);default:0" validate:"min=0"`

	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Program Program         `json:"program" gorm:"foreignKey:ProgramID"`
	Session AcademicSession `json:"session" gorm:"foreignKey:SessionID"`
}

func (FeeStructure) TableName() string {
	return "fee_structures"
}

type PaymentMethod struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Name     string `json:"name" gorm:"uniqueIndex;not null;size:50"`
	IsActive bool   `json:"is_active" gorm:"default:true"`
}

func (PaymentMethod) TableName() string {
	return "payment_methods"
}

// Payment is a financial record tied to an application. The composite
// unique index on (application_id, payment_type) makes automatic fee
// creation idempotent at the storage layer: a concurrent duplicate insert
// conflicts instead of double-charging.
type Payment struct {
	ID            uint        `json:"id" gorm:"primaryKey"`
	ApplicationID uint        `json:"application_id" gorm:"not null;index:idx_payment_application_type,unique"`
	Type          PaymentType `json:"payment_type" gorm:"column:payment_type;not null;size:20;index:idx_payment_application_type,unique"`

	Amount        float64       `json:"amount" gorm:"not null;type:decimal(10,2)" validate:"min=0"`
	Status        PaymentStatus `json:"status" gorm:"not null;size:20;default:pending"`
	TransactionID string        `json:"transaction_id" gorm:"uniqueIndex;not null;size:100"`
	BankReference string        `json:"bank_reference" gorm:"size:100"`

	PaymentMethodID *uint      `json:"payment_method_id"`
	PaidAt          *time.Time `json:"paid_at"`
	VerifiedBy      *string    `json:"verified_by" gorm:"size:255"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Method *PaymentMethod `json:"payment_method,omitempty" gorm:"foreignKey:PaymentMethodID"`
}

func (Payment) TableName() string {
	return "payments"
}
