package pkg

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/campus-suite/admissions-service/internal/config"
	"github.com/campus-suite/admissions-service/internal/models"
)

// InitDatabase opens the PostgreSQL connection, runs migrations and seeds
// reference data the application depends on.
func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if cfg.Environment == "development" {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := seedReferenceData(db); err != nil {
		return nil, fmt.Errorf("failed to seed reference data: %w", err)
	}

	return db, nil
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// Users and profiles
		&models.User{},
		&models.StudentProfile{},
		&models.PersonalInformation{},
		&models.ContactInformation{},
		&models.StudentRelative{},
		&models.Degree{},
		&models.Institute{},
		&models.EducationalBackground{},
		&models.BloodGroup{},
		&models.Disease{},
		&models.MedicalInformation{},

		// Academic catalog
		&models.Course{},
		&models.Program{},
		&models.AcademicSession{},
		&models.ProgramOffering{},

		// Applications
		&models.ApplicationStatus{},
		&models.Application{},
		&models.ApplicationTracking{},
		&models.Announcement{},
		&models.AnnouncementRole{},

		// Payments
		&models.FeeStructure{},
		&models.PaymentMethod{},
		&models.Payment{},
	)
}

// seedReferenceData inserts the rows the application logic depends on.
// Inserts are idempotent so startup is safe to repeat.
func seedReferenceData(db *gorm.DB) error {
	statuses := []models.ApplicationStatus{
		{Code: models.StatusSubmitted, Name: "Submitted", Description: "Application received and awaiting review"},
		{Code: models.StatusUnderReview, Name: "Under Review", Description: "Application is being evaluated"},
		{Code: models.StatusApproved, Name: "Approved", Description: "Applicant has been offered admission"},
		{Code: models.StatusRejected, Name: "Rejected", Description: "Application was not successful"},
		{Code: models.StatusWaitlisted, Name: "Waitlisted", Description: "Applicant is on the waiting list"},
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoNothing: true,
	}).Create(&statuses).Error; err != nil {
		return fmt.Errorf("failed to seed application statuses: %w", err)
	}

	methods := []models.PaymentMethod{
		{Name: "Bank Transfer", IsActive: true},
		{Name: "Cash", IsActive: true},
		{Name: "Online Payment", IsActive: true},
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&methods).Error; err != nil {
		return fmt.Errorf("failed to seed payment methods: %w", err)
	}

	bloodGroups := []models.BloodGroup{
		{Name: "A+"}, {Name: "A-"}, {Name: "B+"}, {Name: "B-"},
		{Name: "AB+"}, {Name: "AB-"}, {Name: "O+"}, {Name: "O-"},
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&bloodGroups).Error; err != nil {
		return fmt.Errorf("failed to seed blood groups: %w", err)
	}

	return nil
}
