package validator

// ===== PROFILE REQUESTS =====

// PersonalInfoRequest carries the personal information section of a profile.
// DateOfBirth uses the 2006-01-02 wire format.
type PersonalInfoRequest struct {
	FatherName        string `json:"father_name" validate:"required,max=100"`
	CNIC              string `json:"cnic" validate:"required,cnic"`
	RegisteredContact string `json:"registered_contact" validate:"omitempty,phone_number"`
	DateOfBirth       string `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	Gender            string `json:"gender" validate:"required,oneof=male female other"`
}

type ContactInfoRequest struct {
	District         string `json:"district" validate:"required,max=100"`
	Tehsil           string `json:"tehsil" validate:"omitempty,max=100"`
	City             string `json:"city" validate:"required,max=100"`
	PermanentAddress string `json:"permanent_address" validate:"required,max=500"`
	CurrentAddress   string `json:"current_address" validate:"omitempty,max=500"`
	PostalAddress    string `json:"postal_address" validate:"omitempty,max=500"`
}

type RelativeRequest struct {
	Name         string `json:"name" validate:"required,max=100"`
	Relationship string `json:"relationship" validate:"required,max=50"`
	ContactOne   string `json:"contact_one" validate:"omitempty,phone_number"`
	ContactTwo   string `json:"contact_two" validate:"omitempty,phone_number"`
	Address      string `json:"address" validate:"omitempty,max=500"`
}

type EducationRequest struct {
	DegreeID      uint   `json:"degree_id" validate:"required"`
	InstituteID   uint   `json:"institute_id" validate:"required"`
	PassingYear   int    `json:"passing_year" validate:"required,passing_year"`
	TotalMarks    int    `json:"total_marks" validate:"required,gt=0"`
	ObtainedMarks int    `json:"obtained_marks" validate:"gte=0"`
	Grade         string `json:"grade" validate:"omitempty,max=10"`
}

type MedicalInfoRequest struct {
	BloodGroupID *uint  `json:"blood_group_id"`
	IsDisabled   bool   `json:"is_disabled"`
	DiseaseIDs   []uint `json:"disease_ids" validate:"omitempty,max=20"`
}

// ===== APPLICATION REQUESTS =====

type SubmitApplicationRequest struct {
	ProgramID uint `json:"program_id" validate:"required"`
	SessionID uint `json:"session_id" validate:"required"`
}

type UpdateApplicationStatusRequest struct {
	Status  string `json:"status" validate:"required,application_status"`
	Remarks string `json:"remarks" validate:"omitempty,max=500"`
}

// ===== CATALOG REQUESTS =====

type CourseCreateRequest struct {
	Name string `json:"name" validate:"required,max=255"`
	Code string `json:"code" validate:"omitempty,max=15"`
}

type CourseUpdateRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=255"`
	Code     *string `json:"code" validate:"omitempty,max=15"`
	IsActive *bool   `json:"is_active"`
}

type ProgramCreateRequest struct {
	Name      string `json:"name" validate:"required,max=255"`
	Code      string `json:"code" validate:"omitempty,max=15"`
	CourseIDs []uint `json:"course_ids" validate:"omitempty,max=100"`
}

type ProgramUpdateRequest struct {
	Name      *string `json:"name" validate:"omitempty,max=255"`
	Code      *string `json:"code" validate:"omitempty,max=15"`
	IsActive  *bool   `json:"is_active"`
	CourseIDs []uint  `json:"course_ids" validate:"omitempty,max=100"`
}

// SessionCreateRequest dates use the 2006-01-02 wire format; the session
// label is derived from the year range, never supplied by the caller.
type SessionCreateRequest struct {
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
	IsCurrent bool   `json:"is_current"`
}

type SessionUpdateRequest struct {
	StartDate *string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   *string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	IsCurrent *bool   `json:"is_current"`
}

type OfferingCreateRequest struct {
	ProgramID  uint `json:"program_id" validate:"required"`
	SessionID  uint `json:"session_id" validate:"required"`
	TotalSeats int  `json:"total_seats" validate:"gte=0"`
	IsActive   bool `json:"is_active"`
}

type OfferingUpdateRequest struct {
	TotalSeats *int  `json:"total_seats" validate:"omitempty,gte=0"`
	IsActive   *bool `json:"is_active"`
}

// ===== PAYMENT REQUESTS =====

type FeeStructureRequest struct {
	ProgramID      uint    `json:"program_id" validate:"required"`
	SessionID      uint    `json:"session_id" validate:"required"`
	ApplicationFee float64 `json:"application_fee" validate:"gte=0"`
	AdmissionFee   float64 `json:"admission_fee" validate:"gte=0"`
	SecurityFee    float64 `json:"security_fee" validate:"gte=0"`
	IsActive       bool    `json:"is_active"`
}

type FeeStructureUpdateRequest struct {
	ApplicationFee *float64 `json:"application_fee" validate:"omitempty,gte=0"`
	AdmissionFee   *float64 `json:"admission_fee" validate:"omitempty,gte=0"`
	SecurityFee    *float64 `json:"security_fee" validate:"omitempty,gte=0"`
	IsActive       *bool    `json:"is_active"`
}

type ManualPaymentRequest struct {
	ApplicationID   uint    `json:"application_id" validate:"required"`
	Type            string  `json:"payment_type" validate:"required,payment_type"`
	Amount          float64 `json:"amount" validate:"required,gt=0"`
	PaymentMethodID *uint   `json:"payment_method_id"`
	BankReference   string  `json:"bank_reference" validate:"omitempty,max=100"`
}

type VerifyPaymentRequest struct {
	BankReference   string `json:"bank_reference" validate:"omitempty,max=100"`
	PaymentMethodID *uint  `json:"payment_method_id"`
}

// ===== ANNOUNCEMENT REQUESTS =====

type AnnouncementCreateRequest struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Content     string   `json:"content" validate:"required,max=5000"`
	TargetRoles []string `json:"target_roles" validate:"omitempty,max=6,dive,user_role"`
	IsActive    bool     `json:"is_active"`
}

type AnnouncementUpdateRequest struct {
	Title       *string  `json:"title" validate:"omitempty,max=200"`
	Content     *string  `json:"content" validate:"omitempty,max=5000"`
	TargetRoles []string `json:"target_roles" validate:"omitempty,max=6,dive,user_role"`
	IsActive    *bool    `json:"is_active"`
}

// ===== USER REQUESTS =====

type UpdateUserRoleRequest struct {
	Role string `json:"role" validate:"required,user_role"`
}
