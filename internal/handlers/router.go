package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/campus-suite/admissions-service/internal/artifacts"
	"github.com/campus-suite/admissions-service/internal/config"
	"github.com/campus-suite/admissions-service/internal/models"
	"github.com/campus-suite/admissions-service/internal/repositories"
	"github.com/campus-suite/admissions-service/internal/services"
	"github.com/campus-suite/admissions-service/internal/utils"
)

type HandlerManager struct {
	applicationHandler *ApplicationHandler
	paymentHandler     *PaymentHandler
	profileHandler     *ProfileHandler
	catalogHandler     *CatalogHandler
	dashboardHandler   *DashboardHandler
	userHandler        *UserHandler
	authMiddleware     *CasdoorAuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	store artifacts.Store,
	logger utils.Logger,
	casdoorConfig config.CasdoorConfig,
	userRepo repositories.UserRepository,
) *HandlerManager {
	authMiddleware := NewCasdoorAuthMiddleware(casdoorConfig, userRepo)

	return &HandlerManager{
		applicationHandler: NewApplicationHandler(serviceManager.Application(), store, logger),
		paymentHandler:     NewPaymentHandler(serviceManager.Payment(), logger),
		profileHandler:     NewProfileHandler(serviceManager.Profile(), logger),
		catalogHandler:     NewCatalogHandler(serviceManager.Catalog(), logger),
		dashboardHandler:   NewDashboardHandler(serviceManager.Dashboard(), serviceManager.Export(), logger),
		userHandler:        NewUserHandler(serviceManager.User(), logger),
		authMiddleware:     authMiddleware,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	officer := hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmissionOfficer)
	reviewer := hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmissionOfficer, models.RoleReviewer)
	accountant := hm.authMiddleware.RequireRoleMiddleware(models.RoleAccountant)
	dataEntry := hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmissionOfficer, models.RoleDataEntry)
	reporting := hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmissionOfficer)
	paymentReporting := hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmissionOfficer, models.RoleAccountant)
	admin := hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin)

	// Public QR verification, no authentication
	router.GET("/verify/:hash", hm.applicationHandler.VerifyApplication)

	// API v1 routes with authentication
	v1 := router.Group("/api/v1")
	v1.Use(hm.authMiddleware.AuthMiddleware())
	{
		// Application routes
		applications := v1.Group("/applications")
		{
			applications.POST("", hm.applicationHandler.SubmitApplication)
			applications.GET("", hm.applicationHandler.ListApplications)
			applications.GET("/me", hm.applicationHandler.GetMyApplications)
			applications.GET("/statuses", hm.applicationHandler.ListApplicationStatuses)
			applications.GET("/stats", reporting, hm.applicationHandler.GetApplicationStats)
			applications.GET("/tracking/:tracking_id", hm.applicationHandler.GetApplicationByTrackingID)
			applications.GET("/:id", hm.applicationHandler.GetApplication)
			applications.GET("/:id/tracking", hm.applicationHandler.GetApplicationTracking)
			applications.GET("/:id/qrcode", hm.applicationHandler.GetApplicationQRCode)

			// Review lifecycle - officers and reviewers
			applications.PUT("/:id/status", reviewer, hm.applicationHandler.UpdateApplicationStatus)
			applications.DELETE("/:id", admin, hm.applicationHandler.DeleteApplication)
		}

		// Payment routes
		payments := v1.Group("/payments")
		{
			payments.GET("", hm.paymentHandler.ListPayments)
			payments.GET("/stats", paymentReporting, hm.paymentHandler.GetPaymentStats)
			payments.GET("/methods", hm.paymentHandler.ListPaymentMethods)
			payments.GET("/application/:application_id", hm.paymentHandler.GetApplicationPayments)
			payments.GET("/:id", hm.paymentHandler.GetPayment)

			// Ledger mutations - accountants only
			payments.POST("", accountant, hm.paymentHandler.RecordManualPayment)
			payments.POST("/:id/verify", accountant, hm.paymentHandler.VerifyPayment)
		}

		// Fee structure routes
		fees := v1.Group("/fee-structures")
		{
			fees.GET("", hm.paymentHandler.ListFeeStructures)
			fees.GET("/lookup", hm.paymentHandler.GetFeeStructure)
			fees.POST("", accountant, hm.paymentHandler.CreateFeeStructure)
			fees.PUT("/:id", accountant, hm.paymentHandler.UpdateFeeStructure)
			fees.DELETE("/:id", admin, hm.paymentHandler.DeleteFeeStructure)
		}

		// Profile routes - applicants manage their own profile
		profiles := v1.Group("/profiles")
		{
			me := profiles.Group("/me")
			{
				me.GET("", hm.profileHandler.GetMyProfile)
				me.PUT("/personal", hm.profileHandler.UpdatePersonalInfo)
				me.PUT("/contact", hm.profileHandler.UpdateContactInfo)
				me.PUT("/medical", hm.profileHandler.UpdateMedicalInfo)
				me.PUT("/picture", hm.profileHandler.SetProfilePicture)
				me.POST("/relatives", hm.profileHandler.AddRelative)
				me.DELETE("/relatives/:id", hm.profileHandler.DeleteRelative)
				me.POST("/education", hm.profileHandler.AddEducation)
				me.PUT("/education/:id", hm.profileHandler.UpdateEducation)
				me.DELETE("/education/:id", hm.profileHandler.DeleteEducation)
			}

			// Staff access to applicant profiles - data entry operators
			byUser := profiles.Group("/:user_id", dataEntry)
			{
				byUser.GET("", hm.profileHandler.GetProfile)
				byUser.PUT("/personal", hm.profileHandler.UpdatePersonalInfo)
				byUser.PUT("/contact", hm.profileHandler.UpdateContactInfo)
				byUser.PUT("/medical", hm.profileHandler.UpdateMedicalInfo)
				byUser.POST("/relatives", hm.profileHandler.AddRelative)
				byUser.DELETE("/relatives/:id", hm.profileHandler.DeleteRelative)
				byUser.POST("/education", hm.profileHandler.AddEducation)
				byUser.PUT("/education/:id", hm.profileHandler.UpdateEducation)
				byUser.DELETE("/education/:id", hm.profileHandler.DeleteEducation)
			}
		}

		// Lookup tables
		lookups := v1.Group("/lookups")
		{
			lookups.GET("/degrees", hm.profileHandler.ListDegrees)
			lookups.POST("/degrees", dataEntry, hm.profileHandler.CreateDegree)
			lookups.GET("/institutes", hm.profileHandler.ListInstitutes)
			lookups.POST("/institutes", dataEntry, hm.profileHandler.CreateInstitute)
			lookups.GET("/blood-groups", hm.profileHandler.ListBloodGroups)
			lookups.GET("/diseases", hm.profileHandler.ListDiseases)
			lookups.POST("/diseases", dataEntry, hm.profileHandler.CreateDisease)
		}

		// Academic catalog - reads open to all authenticated users
		courses := v1.Group("/courses")
		{
			courses.GET("", hm.catalogHandler.ListCourses)
			courses.GET("/:id", hm.catalogHandler.GetCourse)
			courses.POST("", officer, hm.catalogHandler.CreateCourse)
			courses.PUT("/:id", officer, hm.catalogHandler.UpdateCourse)
			courses.DELETE("/:id", admin, hm.catalogHandler.DeleteCourse)
		}

		programs := v1.Group("/programs")
		{
			programs.GET("", hm.catalogHandler.ListPrograms)
			programs.GET("/:id", hm.catalogHandler.GetProgram)
			programs.POST("", officer, hm.catalogHandler.CreateProgram)
			programs.PUT("/:id", officer, hm.catalogHandler.UpdateProgram)
			programs.DELETE("/:id", admin, hm.catalogHandler.DeleteProgram)
		}

		sessions := v1.Group("/sessions")
		{
			sessions.GET("", hm.catalogHandler.ListSessions)
			sessions.GET("/current", hm.catalogHandler.GetCurrentSession)
			sessions.GET("/:id", hm.catalogHandler.GetSession)
			sessions.POST("", officer, hm.catalogHandler.CreateSession)
			sessions.PUT("/:id", officer, hm.catalogHandler.UpdateSession)
			sessions.DELETE("/:id", admin, hm.catalogHandler.DeleteSession)
		}

		offerings := v1.Group("/offerings")
		{
			offerings.GET("", hm.catalogHandler.ListOfferings)
			offerings.POST("", officer, hm.catalogHandler.CreateOffering)
			offerings.PUT("/:id", officer, hm.catalogHandler.UpdateOffering)
			offerings.DELETE("/:id", admin, hm.catalogHandler.DeleteOffering)
		}

		// Dashboard routes - reporting roles
		dashboard := v1.Group("/dashboard")
		dashboard.Use(reporting)
		{
			dashboard.GET("/stats", hm.dashboardHandler.GetDashboardStats)
			dashboard.GET("/application-trends", hm.dashboardHandler.GetApplicationTrends)
			dashboard.GET("/export/applications", hm.dashboardHandler.ExportApplications)
			dashboard.GET("/export/payments", hm.dashboardHandler.ExportPayments)
		}

		// Announcements - everyone reads what targets their role
		announcements := v1.Group("/announcements")
		{
			announcements.GET("", hm.dashboardHandler.ListAnnouncements)
			announcements.POST("", officer, hm.dashboardHandler.CreateAnnouncement)
			announcements.PUT("/:id", officer, hm.dashboardHandler.UpdateAnnouncement)
			announcements.DELETE("/:id", admin, hm.dashboardHandler.DeleteAnnouncement)
		}

		// User routes
		users := v1.Group("/users")
		{
			users.GET("/me", hm.userHandler.GetMe)
			users.GET("", officer, hm.userHandler.ListUsers)
			users.GET("/search", officer, hm.userHandler.SearchUsers)
			users.GET("/:id", officer, hm.userHandler.GetUser)
			users.PUT("/:id/role", admin, hm.userHandler.UpdateUserRole)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "admissions-service",
		})
	})
}
