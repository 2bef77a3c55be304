package models

import "time"

// ===== ERROR RESPONSES =====

type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type SuccessResponse struct {
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// ===== SUMMARY DTOs =====

// ApplicationSummary is the flat listing shape used by dashboards and
// exports.
type ApplicationSummary struct {
	ID           uint      `json:"id"`
	TrackingID   string    `json:"tracking_id"`
	FormNo       string    `json:"form_no"`
	StudentEmail string    `json:"student_email"`
	StudentName  string    `json:"student_name"`
	ProgramName  string    `json:"program_name"`
	SessionLabel string    `json:"session_label"`
	StatusCode   string    `json:"status_code"`
	StatusName   string    `json:"status_name"`
	AppliedAt    time.Time `json:"applied_at"`
}

type PaymentSummary struct {
	ID            uint          `json:"id"`
	TrackingID    string        `json:"tracking_id"`
	Type          PaymentType   `json:"payment_type"`
	Amount        float64       `json:"amount"`
	Status        PaymentStatus `json:"status"`
	TransactionID string        `json:"transaction_id"`
	CreatedAt     time.Time     `json:"created_at"`
}

// VerificationResult is returned by the public verification endpoint.
type VerificationResult struct {
	Valid        bool      `json:"valid"`
	TrackingID   string    `json:"tracking_id,omitempty"`
	FormNo       string    `json:"form_no,omitempty"`
	ProgramName  string    `json:"program_name,omitempty"`
	SessionLabel string    `json:"session_label,omitempty"`
	StatusName   string    `json:"status_name,omitempty"`
	AppliedAt    time.Time `json:"applied_at,omitempty"`
}
