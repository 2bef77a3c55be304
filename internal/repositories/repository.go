package repositories

import "context"

// Repository aggregates all domain repositories behind a single interface
type Repository interface {
	// Application domain
	Application() ApplicationRepository

	// Payment domain
	Payment() PaymentRepository

	// Student profile domain
	Profile() ProfileRepository

	// Academic catalog domain
	Catalog() CatalogRepository

	// User domain (identity lives in Casdoor, read-mostly here)
	User() UserRepository

	// Dashboard domain
	Dashboard() DashboardRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	// Initialize repositories with database connections
	Initialize() error

	// Get repository instance
	GetRepository() Repository

	// Health check for all repositories
	HealthCheck(ctx context.Context) error

	// Graceful shutdown
	Shutdown(ctx context.Context) error
}
