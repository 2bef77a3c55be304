package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/campus-suite/admissions-service/internal/cache"
	"github.com/campus-suite/admissions-service/internal/events"
	"github.com/campus-suite/admissions-service/internal/models"
	"github.com/campus-suite/admissions-service/internal/repositories"
	"github.com/campus-suite/admissions-service/internal/utils"
	"github.com/campus-suite/admissions-service/internal/validator"
)

// ===== MOCKS =====

// memoryStore keeps artifacts in a map so QR generation runs for real
// without touching disk.
type memoryStore struct {
	files map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{files: make(map[string][]byte)}
}

func (s *memoryStore) Save(relPath string, data []byte) (string, error) {
	s.files[relPath] = data
	return relPath, nil
}

func (s *memoryStore) Load(relPath string) ([]byte, error) {
	data, ok := s.files[relPath]
	if !ok {
		return nil, errors.New("artifact not found")
	}
	return data, nil
}

func (s *memoryStore) Delete(relPath string) error {
	delete(s.files, relPath)
	return nil
}

type mockUserRepo struct {
	users map[string]*models.User
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return user, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, repositories.ErrNotFound
}

func (m *mockUserRepo) GetByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	return nil, nil
}

func (m *mockUserRepo) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	return nil, 0, nil
}

func (m *mockUserRepo) Search(ctx context.Context, query string, filters repositories.UserFilters) ([]*models.User, int64, error) {
	return nil, 0, nil
}

func (m *mockUserRepo) UpdateRole(ctx context.Context, id string, role models.UserRole) error {
	return nil
}

func (m *mockUserRepo) ExistsByID(ctx context.Context, id string) (bool, error) { return false, nil }
func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return false, nil
}
func (m *mockUserRepo) HasRole(ctx context.Context, id string, role models.UserRole) (bool, error) {
	return false, nil
}

type mockProfileRepo struct {
	profile *models.StudentProfile
}

func (m *mockProfileRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID string) (*models.StudentProfile, error) {
	if m.profile == nil || m.profile.UserID != userID {
		return nil, repositories.ErrNotFound
	}
	return m.profile, nil
}

func (m *mockProfileRepo) GetOrCreate(ctx context.Context, tx *gorm.DB, userID string) (*models.StudentProfile, error) {
	return m.GetByUserID(ctx, tx, userID)
}

func (m *mockProfileRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.StudentProfile, error) {
	return nil, repositories.ErrNotFound
}

func (m *mockProfileRepo) UpdatePicture(ctx context.Context, tx *gorm.DB, profileID uint, path string) error {
	return nil
}

func (m *mockProfileRepo) UpsertPersonalInfo(ctx context.Context, tx *gorm.DB, info *models.PersonalInformation) error {
	return nil
}

func (m *mockProfileRepo) UpsertContactInfo(ctx context.Context, tx *gorm.DB, info *models.ContactInformation) error {
	return nil
}

func (m *mockProfileRepo) UpsertMedicalInfo(ctx context.Context, tx *gorm.DB, info *models.MedicalInformation, diseaseIDs []uint) error {
	return nil
}

func (m *mockProfileRepo) AddRelative(ctx context.Context, tx *gorm.DB, relative *models.StudentRelative) error {
	return nil
}

func (m *mockProfileRepo) ListRelatives(ctx context.Context, tx *gorm.DB, profileID uint) ([]*models.StudentRelative, error) {
	return nil, nil
}

func (m *mockProfileRepo) DeleteRelative(ctx context.Context, tx *gorm.DB, profileID, relativeID uint) error {
	return nil
}

func (m *mockProfileRepo) AddEducation(ctx context.Context, tx *gorm.DB, record *models.EducationalBackground) error {
	return nil
}

func (m *mockProfileRepo) UpdateEducation(ctx context.Context, tx *gorm.DB, record *models.EducationalBackground) error {
	return nil
}

func (m *mockProfileRepo) ListEducation(ctx context.Context, tx *gorm.DB, profileID uint) ([]*models.EducationalBackground, error) {
	return nil, nil
}

func (m *mockProfileRepo) DeleteEducation(ctx context.Context, tx *gorm.DB, profileID, recordID uint) error {
	return nil
}

func (m *mockProfileRepo) ListDegrees(ctx context.Context, tx *gorm.DB) ([]*models.Degree, error) {
	return nil, nil
}

func (m *mockProfileRepo) CreateDegree(ctx context.Context, tx *gorm.DB, degree *models.Degree) error {
	return nil
}

func (m *mockProfileRepo) ListInstitutes(ctx context.Context, tx *gorm.DB) ([]*models.Institute, error) {
	return nil, nil
}

func (m *mockProfileRepo) CreateInstitute(ctx context.Context, tx *gorm.DB, institute *models.Institute) error {
	return nil
}

func (m *mockProfileRepo) ListBloodGroups(ctx context.Context, tx *gorm.DB) ([]*models.BloodGroup, error) {
	return nil, nil
}

func (m *mockProfileRepo) ListDiseases(ctx context.Context, tx *gorm.DB) ([]*models.Disease, error) {
	return nil, nil
}

func (m *mockProfileRepo) CreateDisease(ctx context.Context, tx *gorm.DB, disease *models.Disease) error {
	return nil
}

type mockCatalogRepo struct {
	offering *models.ProgramOffering
}

func (m *mockCatalogRepo) GetOffering(ctx context.Context, tx *gorm.DB, programID, sessionID uint) (*models.ProgramOffering, error) {
	if m.offering == nil || m.offering.ProgramID != programID || m.offering.SessionID != sessionID {
		return nil, repositories.ErrNotFound
	}
	return m.offering, nil
}

func (m *mockCatalogRepo) CreateCourse(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	return nil
}

func (m *mockCatalogRepo) GetCourseByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error) {
	return nil, repositories.ErrNotFound
}

func (m *mockCatalogRepo) ListCourses(ctx context.Context, tx *gorm.DB) ([]*models.Course, error) {
	return nil, nil
}

func (m *mockCatalogRepo) UpdateCourse(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	return nil
}

func (m *mockCatalogRepo) DeleteCourse(ctx context.Context, tx *gorm.DB, id uint) error { return nil }

func (m *mockCatalogRepo) CreateProgram(ctx context.Context, tx *gorm.DB, program *models.Program) error {
	return nil
}

func (m *mockCatalogRepo) GetProgramByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Program, error) {
	return nil, repositories.ErrNotFound
}

func (m *mockCatalogRepo) ListPrograms(ctx context.Context, tx *gorm.DB, activeOnly bool) ([]*models.Program, error) {
	return nil, nil
}

func (m *mockCatalogRepo) UpdateProgram(ctx context.Context, tx *gorm.DB, program *models.Program) error {
	return nil
}

func (m *mockCatalogRepo) DeleteProgram(ctx context.Context, tx *gorm.DB, id uint) error { return nil }

func (m *mockCatalogRepo) SetProgramCourses(ctx context.Context, tx *gorm.DB, programID uint, courseIDs []uint) error {
	return nil
}

func (m *mockCatalogRepo) CreateSession(ctx context.Context, tx *gorm.DB, session *models.AcademicSession) error {
	return nil
}

func (m *mockCatalogRepo) GetSessionByID(ctx context.Context, tx *gorm.DB, id uint) (*models.AcademicSession, error) {
	return nil, repositories.ErrNotFound
}

func (m *mockCatalogRepo) ListSessions(ctx context.Context, tx *gorm.DB) ([]*models.AcademicSession, error) {
	return nil, nil
}

func (m *mockCatalogRepo) GetCurrentSession(ctx context.Context, tx *gorm.DB) (*models.AcademicSession, error) {
	return nil, repositories.ErrNotFound
}

func (m *mockCatalogRepo) UpdateSession(ctx context.Context, tx *gorm.DB, session *models.AcademicSession) error {
	return nil
}

func (m *mockCatalogRepo) DeleteSession(ctx context.Context, tx *gorm.DB, id uint) error { return nil }

func (m *mockCatalogRepo) CreateOffering(ctx context.Context, tx *gorm.DB, offering *models.ProgramOffering) error {
	return nil
}

func (m *mockCatalogRepo) GetOfferingByID(ctx context.Context, tx *gorm.DB, id uint) (*models.ProgramOffering, error) {
	return nil, repositories.ErrNotFound
}

func (m *mockCatalogRepo) ListOfferings(ctx context.Context, tx *gorm.DB, sessionID *uint, openOnly bool) ([]*models.ProgramOffering, error) {
	return nil, nil
}

func (m *mockCatalogRepo) UpdateOffering(ctx context.Context, tx *gorm.DB, offering *models.ProgramOffering) error {
	return nil
}

func (m *mockCatalogRepo) DeleteOffering(ctx context.Context, tx *gorm.DB, id uint) error { return nil }

type mockApplicationRepo struct {
	apps     map[uint]*models.Application
	statuses map[string]*models.ApplicationStatus
	tracking []*models.ApplicationTracking
	exists   bool
	ownerID  string
	nextID   uint
}

func (m *mockApplicationRepo) Create(ctx context.Context, tx *gorm.DB, app *models.Application) error {
	m.nextID++
	app.ID = m.nextID
	m.apps[app.ID] = app
	return nil
}

func (m *mockApplicationRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Application, error) {
	app, ok := m.apps[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return m.withRelations(app), nil
}

func (m *mockApplicationRepo) GetByTrackingID(ctx context.Context, tx *gorm.DB, trackingID string) (*models.Application, error) {
	for _, app := range m.apps {
		if app.TrackingID == trackingID {
			return m.withRelations(app), nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *mockApplicationRepo) GetByVerificationHash(ctx context.Context, tx *gorm.DB, hash string) (*models.Application, error) {
	for _, app := range m.apps {
		if app.VerificationHash == hash {
			return m.withRelations(app), nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *mockApplicationRepo) Update(ctx context.Context, tx *gorm.DB, app *models.Application) error {
	m.apps[app.ID] = app
	return nil
}

func (m *mockApplicationRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	if _, ok := m.apps[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.apps, id)
	return nil
}

func (m *mockApplicationRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.ApplicationFilters) ([]*models.Application, int64, error) {
	return nil, 0, nil
}

func (m *mockApplicationRepo) GetByStudent(ctx context.Context, tx *gorm.DB, studentID string) ([]*models.Application, error) {
	return nil, nil
}

func (m *mockApplicationRepo) ExistsForOffering(ctx context.Context, tx *gorm.DB, studentID string, programID, sessionID uint) (bool, error) {
	return m.exists, nil
}

func (m *mockApplicationRepo) GetStatusByCode(ctx context.Context, tx *gorm.DB, code string) (*models.ApplicationStatus, error) {
	status, ok := m.statuses[code]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return status, nil
}

func (m *mockApplicationRepo) ListStatuses(ctx context.Context, tx *gorm.DB) ([]*models.ApplicationStatus, error) {
	return nil, nil
}

func (m *mockApplicationRepo) AddTracking(ctx context.Context, tx *gorm.DB, entry *models.ApplicationTracking) error {
	m.tracking = append(m.tracking, entry)
	return nil
}

func (m *mockApplicationRepo) GetTracking(ctx context.Context, tx *gorm.DB, applicationID uint) ([]*models.ApplicationTracking, error) {
	return m.tracking, nil
}

func (m *mockApplicationRepo) GetStats(ctx context.Context, tx *gorm.DB) (*repositories.ApplicationStats, error) {
	return &repositories.ApplicationStats{}, nil
}

func (m *mockApplicationRepo) CountByStatus(ctx context.Context, tx *gorm.DB) (map[string]int64, error) {
	return nil, nil
}

// withRelations fills the preloads the service relies on.
func (m *mockApplicationRepo) withRelations(app *models.Application) *models.Application {
	for _, status := range m.statuses {
		if status.ID == app.StatusID {
			app.Status = *status
			break
		}
	}
	app.Student.UserID = m.ownerID
	return app
}

type mockPaymentRepo struct {
	fee      *models.FeeStructure
	payments []*models.Payment
	nextID   uint
}

func (m *mockPaymentRepo) Create(ctx context.Context, tx *gorm.DB, payment *models.Payment) error {
	m.nextID++
	payment.ID = m.nextID
	m.payments = append(m.payments, payment)
	return nil
}

func (m *mockPaymentRepo) CreateIfAbsent(ctx context.Context, tx *gorm.DB, payment *models.Payment) (bool, error) {
	for _, existing := range m.payments {
		if existing.ApplicationID == payment.ApplicationID && existing.Type == payment.Type {
			return false, nil
		}
	}
	m.nextID++
	payment.ID = m.nextID
	m.payments = append(m.payments, payment)
	return true, nil
}

func (m *mockPaymentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Payment, error) {
	return nil, repositories.ErrNotFound
}

func (m *mockPaymentRepo) GetByTransactionID(ctx context.Context, tx *gorm.DB, transactionID string) (*models.Payment, error) {
	return nil, repositories.ErrNotFound
}

func (m *mockPaymentRepo) GetByApplication(ctx context.Context, tx *gorm.DB, applicationID uint) ([]*models.Payment, error) {
	return nil, nil
}

func (m *mockPaymentRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.PaymentFilters) ([]*models.Payment, int64, error) {
	return nil, 0, nil
}

func (m *mockPaymentRepo) Update(ctx context.Context, tx *gorm.DB, payment *models.Payment) error {
	return nil
}

func (m *mockPaymentRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error { return nil }

func (m *mockPaymentRepo) CreateFeeStructure(ctx context.Context, tx *gorm.DB, fee *models.FeeStructure) error {
	return nil
}

func (m *mockPaymentRepo) GetFeeStructure(ctx context.Context, tx *gorm.DB, programID, sessionID uint) (*models.FeeStructure, error) {
	if m.fee == nil || m.fee.ProgramID != programID || m.fee.SessionID != sessionID {
		return nil, repositories.ErrNotFound
	}
	return m.fee, nil
}

func (m *mockPaymentRepo) GetFeeStructureByID(ctx context.Context, tx *gorm.DB, id uint) (*models.FeeStructure, error) {
	return nil, repositories.ErrNotFound
}

func (m *mockPaymentRepo) ListFeeStructures(ctx context.Context, tx *gorm.DB) ([]*models.FeeStructure, error) {
	return nil, nil
}

func (m *mockPaymentRepo) UpdateFeeStructure(ctx context.Context, tx *gorm.DB, fee *models.FeeStructure) error {
	return nil
}

func (m *mockPaymentRepo) DeleteFeeStructure(ctx context.Context, tx *gorm.DB, id uint) error {
	return nil
}

func (m *mockPaymentRepo) ListPaymentMethods(ctx context.Context, tx *gorm.DB) ([]*models.PaymentMethod, error) {
	return nil, nil
}

func (m *mockPaymentRepo) GetPaymentMethodByID(ctx context.Context, tx *gorm.DB, id uint) (*models.PaymentMethod, error) {
	return nil, repositories.ErrNotFound
}

func (m *mockPaymentRepo) CreatePaymentMethod(ctx context.Context, tx *gorm.DB, method *models.PaymentMethod) error {
	return nil
}

func (m *mockPaymentRepo) GetStats(ctx context.Context, tx *gorm.DB) (*repositories.PaymentStats, error) {
	return &repositories.PaymentStats{}, nil
}

type mockRepository struct {
	application *mockApplicationRepo
	payment     *mockPaymentRepo
	profile     *mockProfileRepo
	catalog     *mockCatalogRepo
	user        *mockUserRepo
}

func (m *mockRepository) Application() repositories.ApplicationRepository { return m.application }
func (m *mockRepository) Payment() repositories.PaymentRepository         { return m.payment }
func (m *mockRepository) Profile() repositories.ProfileRepository         { return m.profile }
func (m *mockRepository) Catalog() repositories.CatalogRepository         { return m.catalog }
func (m *mockRepository) User() repositories.UserRepository               { return m.user }
func (m *mockRepository) Dashboard() repositories.DashboardRepository     { return nil }

func (m *mockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}

func (m *mockRepository) Ping(ctx context.Context) error { return nil }
func (m *mockRepository) Close() error                   { return nil }

// ===== FIXTURES =====

const (
	testApplicantID = "applicant-1"
	testOfficerID   = "officer-1"
)

func seedStatuses() map[string]*models.ApplicationStatus {
	return map[string]*models.ApplicationStatus{
		models.StatusSubmitted:   {ID: 1, Code: models.StatusSubmitted, Name: "Submitted"},
		models.StatusUnderReview: {ID: 2, Code: models.StatusUnderReview, Name: "Under Review"},
		models.StatusApproved:    {ID: 3, Code: models.StatusApproved, Name: "Approved"},
		models.StatusRejected:    {ID: 4, Code: models.StatusRejected, Name: "Rejected"},
		models.StatusWaitlisted:  {ID: 5, Code: models.StatusWaitlisted, Name: "Waitlisted"},
	}
}

func completeProfile() *models.StudentProfile {
	return &models.StudentProfile{
		ID:                 42,
		UserID:             testApplicantID,
		Personal:           &models.PersonalInformation{FatherName: "Test"},
		Contact:            &models.ContactInformation{City: "Lahore"},
		EducationalRecords: []models.EducationalBackground{{DegreeID: 1}},
		Medical:            &models.MedicalInformation{},
	}
}

func newApplicationTestService() (*applicationService, *mockRepository, *events.MockEventPublisher) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	publisher := events.NewMockEventPublisher(logger)

	repo := &mockRepository{
		application: &mockApplicationRepo{
			apps:     make(map[uint]*models.Application),
			statuses: seedStatuses(),
			ownerID:  testApplicantID,
		},
		payment: &mockPaymentRepo{
			fee: &models.FeeStructure{
				ID:             1,
				ProgramID:      7,
				SessionID:      3,
				ApplicationFee: 500,
				AdmissionFee:   2000,
				IsActive:       true,
			},
		},
		profile: &mockProfileRepo{profile: completeProfile()},
		catalog: &mockCatalogRepo{
			offering: &models.ProgramOffering{ID: 1, ProgramID: 7, SessionID: 3, IsActive: true},
		},
		user: &mockUserRepo{users: map[string]*models.User{
			testApplicantID: {ID: testApplicantID, Role: models.RoleApplicant},
			testOfficerID:   {ID: testOfficerID, Role: models.RoleAdmissionOfficer},
		}},
	}

	service := &applicationService{
		repo:                repo,
		logger:              logger,
		validator:           validator.New(),
		publisher:           publisher,
		artifacts:           newMemoryStore(),
		cache:               cache.NewCacheManager(nil),
		verificationBaseURL: "https://admissions.example.edu/verify",
	}
	return service, repo, publisher
}

// ===== TESTS =====

func TestApplicationService_Submit(t *testing.T) {
	ctx := context.Background()
	req := &SubmitApplicationRequest{ProgramID: 7, SessionID: 3}

	t.Run("HappyPath", func(t *testing.T) {
		service, repo, publisher := newApplicationTestService()

		resp, err := service.Submit(ctx, req, testApplicantID)
		if err != nil {
			t.Fatalf("Submit failed: %v", err)
		}

		app := resp.Application
		if !strings.HasPrefix(app.TrackingID, "APP-") {
			t.Errorf("Unexpected tracking ID %q", app.TrackingID)
		}
		if app.FormNo == "" || app.VerificationHash == "" {
			t.Error("Form number and verification hash must be generated at creation")
		}
		if len(resp.AllowedTransitions) == 0 {
			t.Error("Expected allowed transitions for the submitted status")
		}

		if len(repo.application.tracking) != 1 {
			t.Fatalf("Expected 1 tracking entry, got %d", len(repo.application.tracking))
		}
		if repo.application.tracking[0].ChangedBy != testApplicantID {
			t.Errorf("Tracking entry attributed to %q", repo.application.tracking[0].ChangedBy)
		}

		if len(repo.payment.payments) != 1 {
			t.Fatalf("Expected 1 fee payment, got %d", len(repo.payment.payments))
		}
		payment := repo.payment.payments[0]
		if payment.Type != models.PaymentApplication {
			t.Errorf("Expected application fee, got %q", payment.Type)
		}
		if payment.Amount != 500 {
			t.Errorf("Expected amount 500, got %.2f", payment.Amount)
		}
		if payment.Status != models.PaymentPending {
			t.Errorf("Expected pending payment, got %q", payment.Status)
		}
		if !strings.HasPrefix(payment.TransactionID, "APP-") {
			t.Errorf("Unexpected transaction ID %q", payment.TransactionID)
		}

		published := publisher.GetPublishedEvents()
		if len(published) != 2 {
			t.Fatalf("Expected 2 events, got %d", len(published))
		}
		if published[0].Topic != events.TopicApplicationSubmitted {
			t.Errorf("Expected %s first, got %s", events.TopicApplicationSubmitted, published[0].Topic)
		}
		if published[1].Topic != events.TopicPaymentCreated {
			t.Errorf("Expected %s second, got %s", events.TopicPaymentCreated, published[1].Topic)
		}
	})

	t.Run("StaffCannotSubmit", func(t *testing.T) {
		service, repo, publisher := newApplicationTestService()
		// Even a staff member with a complete profile of their own is
		// not allowed to apply.
		repo.profile.profile.UserID = testOfficerID

		_, err := service.Submit(ctx, req, testOfficerID)

		var permErr *PermissionError
		if !errors.As(err, &permErr) {
			t.Fatalf("Expected PermissionError, got %v", err)
		}
		if !errors.Is(err, ErrForbidden) {
			t.Error("PermissionError should match ErrForbidden")
		}
		if len(repo.application.apps) != 0 {
			t.Error("No application may be created for a staff caller")
		}
		if published := publisher.GetPublishedEvents(); len(published) != 0 {
			t.Errorf("Expected no events, got %d", len(published))
		}
	})

	t.Run("IncompleteProfile", func(t *testing.T) {
		service, repo, _ := newApplicationTestService()
		repo.profile.profile.Medical = nil

		_, err := service.Submit(ctx, req, testApplicantID)

		var ruleErr *BusinessRuleError
		if !errors.As(err, &ruleErr) {
			t.Fatalf("Expected BusinessRuleError, got %v", err)
		}
		if ruleErr.Rule != "profile_incomplete" {
			t.Errorf("Expected profile_incomplete rule, got %q", ruleErr.Rule)
		}
	})

	t.Run("NoProfile", func(t *testing.T) {
		service, repo, _ := newApplicationTestService()
		repo.profile.profile = nil

		if _, err := service.Submit(ctx, req, testApplicantID); !errors.Is(err, ErrProfileIncomplete) {
			t.Errorf("Expected ErrProfileIncomplete, got %v", err)
		}
	})

	t.Run("ClosedOffering", func(t *testing.T) {
		service, repo, _ := newApplicationTestService()
		repo.catalog.offering.IsActive = false

		if _, err := service.Submit(ctx, req, testApplicantID); !errors.Is(err, ErrOfferingNotAvailable) {
			t.Errorf("Expected ErrOfferingNotAvailable, got %v", err)
		}
	})

	t.Run("MissingOffering", func(t *testing.T) {
		service, _, _ := newApplicationTestService()

		other := &SubmitApplicationRequest{ProgramID: 99, SessionID: 3}
		if _, err := service.Submit(ctx, other, testApplicantID); !errors.Is(err, ErrOfferingNotAvailable) {
			t.Errorf("Expected ErrOfferingNotAvailable, got %v", err)
		}
	})

	t.Run("DuplicateApplication", func(t *testing.T) {
		service, repo, _ := newApplicationTestService()
		repo.application.exists = true

		if _, err := service.Submit(ctx, req, testApplicantID); !errors.Is(err, ErrDuplicateApplication) {
			t.Errorf("Expected ErrDuplicateApplication, got %v", err)
		}
	})

	t.Run("MissingFeeStructureIsNotFatal", func(t *testing.T) {
		service, repo, publisher := newApplicationTestService()
		repo.payment.fee = nil

		if _, err := service.Submit(ctx, req, testApplicantID); err != nil {
			t.Fatalf("Submit should succeed without a fee structure: %v", err)
		}
		if len(repo.payment.payments) != 0 {
			t.Errorf("Expected no payments, got %d", len(repo.payment.payments))
		}

		for _, event := range publisher.GetPublishedEvents() {
			if event.Topic == events.TopicPaymentCreated {
				t.Error("No payment event expected without a fee structure")
			}
		}
	})

	t.Run("ZeroApplicationFeeStillRecorded", func(t *testing.T) {
		service, repo, _ := newApplicationTestService()
		repo.payment.fee.ApplicationFee = 0

		if _, err := service.Submit(ctx, req, testApplicantID); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}

		if len(repo.payment.payments) != 1 {
			t.Fatalf("Expected a zero-amount fee row, got %d payments", len(repo.payment.payments))
		}
		payment := repo.payment.payments[0]
		if payment.Type != models.PaymentApplication || payment.Amount != 0 {
			t.Errorf("Unexpected fee row: type=%q amount=%.2f", payment.Type, payment.Amount)
		}
		if payment.Status != models.PaymentPending {
			t.Errorf("Expected pending payment, got %q", payment.Status)
		}
	})
}

func TestApplicationService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	seedApplication := func(repo *mockRepository, statusCode string) *models.Application {
		app := &models.Application{
			ID:               1,
			StudentID:        42,
			ProgramID:        7,
			SessionID:        3,
			StatusID:         repo.application.statuses[statusCode].ID,
			TrackingID:       "APP-SEEDED0001",
			FormNo:           "FORM-20260301093045-ABCDEF",
			VerificationHash: "seeded-hash",
			AppliedAt:        time.Now(),
		}
		repo.application.apps[app.ID] = app
		repo.application.nextID = 1
		return app
	}

	t.Run("ApprovalCreatesAdmissionFee", func(t *testing.T) {
		service, repo, publisher := newApplicationTestService()
		seedApplication(repo, models.StatusUnderReview)

		req := &UpdateApplicationStatusRequest{Status: models.StatusApproved, Remarks: "Merit list 1"}
		resp, err := service.UpdateStatus(ctx, 1, req, testOfficerID)
		if err != nil {
			t.Fatalf("UpdateStatus failed: %v", err)
		}
		if resp.Application.Status.Code != models.StatusApproved {
			t.Errorf("Expected approved, got %q", resp.Application.Status.Code)
		}
		if want := "Status updated from under_review to approved"; resp.Message != want {
			t.Errorf("Expected message %q, got %q", want, resp.Message)
		}

		if len(repo.application.tracking) != 1 {
			t.Fatalf("Expected 1 tracking entry for the transition, got %d", len(repo.application.tracking))
		}
		entry := repo.application.tracking[0]
		if entry.StatusID != repo.application.statuses[models.StatusApproved].ID {
			t.Errorf("Tracking entry points at status %d", entry.StatusID)
		}
		if entry.Remarks != "Merit list 1" || entry.ChangedBy != testOfficerID {
			t.Errorf("Unexpected tracking entry: remarks=%q changed_by=%q", entry.Remarks, entry.ChangedBy)
		}

		stored := repo.application.apps[1]
		if stored.TrackingID != "APP-SEEDED0001" || stored.FormNo != "FORM-20260301093045-ABCDEF" || stored.VerificationHash != "seeded-hash" {
			t.Errorf("Identifiers must survive status changes: tracking_id=%q form_no=%q hash=%q",
				stored.TrackingID, stored.FormNo, stored.VerificationHash)
		}

		if len(repo.payment.payments) != 1 {
			t.Fatalf("Expected 1 admission fee, got %d payments", len(repo.payment.payments))
		}
		payment := repo.payment.payments[0]
		if payment.Type != models.PaymentAdmission || payment.Amount != 2000 {
			t.Errorf("Unexpected admission fee: type=%q amount=%.2f", payment.Type, payment.Amount)
		}
		if !strings.HasPrefix(payment.TransactionID, "ADM-") {
			t.Errorf("Unexpected transaction ID %q", payment.TransactionID)
		}

		topics := make([]string, 0, 2)
		for _, event := range publisher.GetPublishedEvents() {
			topics = append(topics, event.Topic)
		}
		if len(topics) != 2 || topics[0] != events.TopicApplicationStatusChanged || topics[1] != events.TopicPaymentCreated {
			t.Errorf("Unexpected event sequence %v", topics)
		}
	})

	t.Run("ApprovalFeeIsRaisedOnce", func(t *testing.T) {
		service, repo, publisher := newApplicationTestService()
		seedApplication(repo, models.StatusUnderReview)
		repo.payment.payments = []*models.Payment{
			{ID: 9, ApplicationID: 1, Type: models.PaymentAdmission, Amount: 2000, Status: models.PaymentPending},
		}

		req := &UpdateApplicationStatusRequest{Status: models.StatusApproved}
		if _, err := service.UpdateStatus(ctx, 1, req, testOfficerID); err != nil {
			t.Fatalf("UpdateStatus failed: %v", err)
		}

		if len(repo.payment.payments) != 1 {
			t.Errorf("Expected admission fee to stay unique, got %d payments", len(repo.payment.payments))
		}
		for _, event := range publisher.GetPublishedEvents() {
			if event.Topic == events.TopicPaymentCreated {
				t.Error("No payment event expected when the fee already exists")
			}
		}
	})

	t.Run("NonApprovalCreatesNoFee", func(t *testing.T) {
		service, repo, _ := newApplicationTestService()
		seedApplication(repo, models.StatusSubmitted)

		req := &UpdateApplicationStatusRequest{Status: models.StatusUnderReview}
		if _, err := service.UpdateStatus(ctx, 1, req, testOfficerID); err != nil {
			t.Fatalf("UpdateStatus failed: %v", err)
		}
		if len(repo.payment.payments) != 0 {
			t.Errorf("Expected no payments, got %d", len(repo.payment.payments))
		}
	})

	t.Run("TerminalStatusRejectsTransition", func(t *testing.T) {
		service, repo, _ := newApplicationTestService()
		seedApplication(repo, models.StatusApproved)

		req := &UpdateApplicationStatusRequest{Status: models.StatusRejected}
		if _, err := service.UpdateStatus(ctx, 1, req, testOfficerID); !errors.Is(err, ErrInvalidStatusTransition) {
			t.Errorf("Expected ErrInvalidStatusTransition, got %v", err)
		}
	})

	t.Run("ApplicantCannotChangeStatus", func(t *testing.T) {
		service, repo, _ := newApplicationTestService()
		seedApplication(repo, models.StatusSubmitted)

		req := &UpdateApplicationStatusRequest{Status: models.StatusApproved}
		_, err := service.UpdateStatus(ctx, 1, req, testApplicantID)

		var permErr *PermissionError
		if !errors.As(err, &permErr) {
			t.Fatalf("Expected PermissionError, got %v", err)
		}
		if !errors.Is(err, ErrForbidden) {
			t.Error("PermissionError should match ErrForbidden")
		}
	})

	t.Run("UnknownApplication", func(t *testing.T) {
		service, _, _ := newApplicationTestService()

		req := &UpdateApplicationStatusRequest{Status: models.StatusApproved}
		if _, err := service.UpdateStatus(ctx, 99, req, testOfficerID); !errors.Is(err, ErrApplicationNotFound) {
			t.Errorf("Expected ErrApplicationNotFound, got %v", err)
		}
	})
}

func TestApplicationService_Verify(t *testing.T) {
	ctx := context.Background()

	t.Run("KnownHash", func(t *testing.T) {
		service, repo, _ := newApplicationTestService()
		appliedAt := time.Date(2026, 3, 1, 9, 30, 45, 0, time.UTC)
		hash := utils.VerificationHash("APP-SEEDED0001", testApplicantID, 7, appliedAt)
		repo.application.apps[1] = &models.Application{
			ID:               1,
			ProgramID:        7,
			StatusID:         1,
			TrackingID:       "APP-SEEDED0001",
			FormNo:           "FORM-20260301093045-ABCDEF",
			VerificationHash: hash,
			AppliedAt:        appliedAt,
		}

		result, err := service.Verify(ctx, hash)
		if err != nil {
			t.Fatalf("Verify failed: %v", err)
		}
		if !result.Valid {
			t.Error("Expected valid result for known hash")
		}
		if result.TrackingID != "APP-SEEDED0001" {
			t.Errorf("Unexpected tracking ID %q", result.TrackingID)
		}
	})

	t.Run("TamperedRecordFailsRecomputation", func(t *testing.T) {
		service, repo, _ := newApplicationTestService()
		repo.application.apps[1] = &models.Application{
			ID:               1,
			ProgramID:        7,
			StatusID:         1,
			TrackingID:       "APP-SEEDED0002",
			VerificationHash: "stale-hash",
			AppliedAt:        time.Now(),
		}

		result, err := service.Verify(ctx, "stale-hash")
		if err != nil {
			t.Fatalf("Verify failed: %v", err)
		}
		if result.Valid {
			t.Error("Expected invalid result when stored inputs no longer match the hash")
		}
	})

	t.Run("UnknownHashIsInvalidNotError", func(t *testing.T) {
		service, _, _ := newApplicationTestService()

		result, err := service.Verify(ctx, "no-such-hash")
		if err != nil {
			t.Fatalf("Verify failed: %v", err)
		}
		if result.Valid {
			t.Error("Expected invalid result for unknown hash")
		}
	})
}

func TestApplicationService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("AdminOnly", func(t *testing.T) {
		service, repo, _ := newApplicationTestService()
		repo.user.users["admin-1"] = &models.User{ID: "admin-1", Role: models.RoleAdmin}
		repo.application.apps[1] = &models.Application{ID: 1, StatusID: 1}

		if err := service.Delete(ctx, 1, testOfficerID); !errors.Is(err, ErrForbidden) {
			t.Errorf("Expected ErrForbidden for officer, got %v", err)
		}
		if err := service.Delete(ctx, 1, "admin-1"); err != nil {
			t.Errorf("Expected admin delete to succeed, got %v", err)
		}
		if len(repo.application.apps) != 0 {
			t.Error("Application should be gone after delete")
		}
	})
}
