package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/civicworks/grievance-management/internal"
	"github.com/civicworks/grievance-management/internal/auth"
	authPostgres "github.com/civicworks/grievance-management/internal/auth/postgres"
	"github.com/civicworks/grievance-management/internal/category"
	categoryPostgres "github.com/civicworks/grievance-management/internal/category/postgres"
	"github.com/civicworks/grievance-management/internal/classifier"
	userDatamodel "github.com/civicworks/grievance-management/internal/core/datamodel/user"
	"github.com/civicworks/grievance-management/internal/core/events"
	"github.com/civicworks/grievance-management/internal/grievance"
	grievancePostgres "github.com/civicworks/grievance-management/internal/grievance/postgres"
	"github.com/civicworks/grievance-management/internal/notification"
	"github.com/civicworks/grievance-management/internal/transport"
	"github.com/civicworks/grievance-management/internal/transport/metrics"
	"github.com/civicworks/grievance-management/internal/transport/rest"
	"github.com/civicworks/grievance-management/internal/user"
	userPostgres "github.com/civicworks/grievance-management/internal/user/postgres"
	"github.com/civicworks/grievance-management/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	GormDB *gorm.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if err := setupRoutes(deps); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up routes: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func setupRoutes(deps *Dependencies) error {
	cfg := deps.Config
	lg := deps.Logger

	// auth
	authRepo := authPostgres.NewRepository(deps.GormDB)
	tokenGen := auth.NewJWTTokenGenerator(
		cfg.Security.AccessTokenSecret,
		cfg.Security.RefreshTokenSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authRepo, tokenGen, cfg.Security.BCryptCost)
	authHandler := auth.NewHandler(authService)

	// user
	userRepo := userPostgres.NewUserRepository(deps.GormDB)
	userService := user.NewService(userRepo)
	userHandler := user.NewHandler(userService)

	// categories
	categoryRepo := categoryPostgres.NewCategoryRepository(deps.GormDB)
	categoryService := category.NewService(categoryRepo, lg)
	categoryHandler := category.NewHandler(transport.NewBaseHandler(lg), categoryService)

	if err := categoryService.Seed(); err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}
	if err := ensureAdminAccount(deps.GormDB, cfg.Security, lg); err != nil {
		return fmt.Errorf("failed to ensure admin account: %w", err)
	}

	// event bus and notification fan-out
	eventBus := events.NewEventBus(lg)
	notificationHandler := notification.NewEventHandler(lg)
	notificationHandler.RegisterEventHandlers(eventBus)

	// classification client
	classifierClient := classifier.NewClient(classifier.Config{
		BaseURL: cfg.Classifier.BaseURL,
		APIKey:  cfg.Classifier.APIKey,
		Model:   cfg.Classifier.Model,
		Timeout: cfg.Classifier.Timeout,
	}, lg)

	// grievances
	grievanceRepo := grievancePostgres.NewGrievanceRepository(deps.GormDB)
	grievanceService := grievance.NewService(
		grievanceRepo,
		classifierClient,
		categoryService,
		eventBus,
		cfg.Classifier.MaxImageSize,
		lg,
	)
	grievanceHandler := grievance.NewHandler(grievanceService)

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, authHandler, userHandler, grievanceHandler, categoryHandler, lg)
	return nil
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"))
	metrics.Init()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	router := chi.NewRouter()

	return &Dependencies{
		Config: config,
		Logger: logger.L(),
		DB:     db,
		GormDB: gormDB,
		Router: router,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm wraps the existing pgx connection so both layers share one pool
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(gormPostgres.New(gormPostgres.Config{
		Conn: db.DB,
	}), &gorm.Config{})
}

// ensureAdminAccount bootstraps the administrator login on first start.
func ensureAdminAccount(db *gorm.DB, cfg internal.SecurityConfig, lg *slog.Logger) error {
	if cfg.AdminPassword == "" {
		lg.Warn("admin password not configured, skipping admin bootstrap", "admin_email", cfg.AdminEmail)
		return nil
	}

	var count int64
	if err := db.Model(&userDatamodel.User{}).Where("email = ?", cfg.AdminEmail).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(cfg.AdminPassword, cfg.BCryptCost)
	if err != nil {
		return err
	}

	admin := &userDatamodel.User{
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		Role:         auth.RoleAdmin,
		IsActive:     true,
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}

	lg.Info("admin account created", "admin_email", cfg.AdminEmail)
	return nil
}
