package repositories

import (
	"time"

	"github.com/campus-suite/admissions-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type ApplicationFilters struct {
	StatusCode *string    `json:"status"`
	ProgramID  *uint      `json:"program_id"`
	SessionID  *uint      `json:"session_id"`
	StudentID  *string    `json:"student_id"`
	Search     *string    `json:"search"` // tracking id, form no or applicant email
	DateFrom   *time.Time `json:"date_from"`
	DateTo     *time.Time `json:"date_to"`
	Limit      int        `json:"limit"`
	Offset     int        `json:"offset"`
	SortBy     string     `json:"sort_by"`    // "applied_at", "created_at", "id"
	SortOrder  string     `json:"sort_order"` // "asc", "desc"
}

type PaymentFilters struct {
	Status        *models.PaymentStatus `json:"status"`
	Type          *models.PaymentType   `json:"payment_type"`
	ApplicationID *uint                 `json:"application_id"`
	StudentID     *string               `json:"student_id"`
	DateFrom      *time.Time            `json:"date_from"`
	DateTo        *time.Time            `json:"date_to"`
	Limit         int                   `json:"limit"`
	Offset        int                   `json:"offset"`
	SortBy        string                `json:"sort_by"`
	SortOrder     string                `json:"sort_order"`
}

type AnnouncementFilters struct {
	Role       *models.UserRole `json:"role"`
	ActiveOnly bool             `json:"active_only"`
	Limit      int              `json:"limit"`
	Offset     int              `json:"offset"`
}

// ===== SHARED STATISTICS STRUCTS =====

type ApplicationStats struct {
	Total     int64            `json:"total"`
	ByStatus  map[string]int64 `json:"by_status"`
	Today     int64            `json:"today"`
	ThisWeek  int64            `json:"this_week"`
	ThisMonth int64            `json:"this_month"`
}

type PaymentStats struct {
	TotalCollected float64                        `json:"total_collected"`
	PendingAmount  float64                        `json:"pending_amount"`
	TotalCount     int64                          `json:"total_count"`
	PaidCount      int64                          `json:"paid_count"`
	PendingCount   int64                          `json:"pending_count"`
	ByType         map[models.PaymentType]float64 `json:"by_type"`
	ByStatus       map[models.PaymentStatus]int64 `json:"by_status"`
	ByMethod       map[string]float64             `json:"by_method"`
}
