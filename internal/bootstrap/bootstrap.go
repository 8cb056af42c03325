package bootstrap

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/classtrack/classtrack/internal/app/controllers"
	appMigrations "github.com/classtrack/classtrack/internal/app/migrations"
	appRepos "github.com/classtrack/classtrack/internal/app/repositories"
	appRoutes "github.com/classtrack/classtrack/internal/app/routes"
	appServices "github.com/classtrack/classtrack/internal/app/services"
	"github.com/classtrack/classtrack/internal/config"
	"github.com/classtrack/classtrack/internal/db"
	appMiddleware "github.com/classtrack/classtrack/internal/middleware"
	pkgAuth "github.com/classtrack/classtrack/internal/pkg/auth"
	"github.com/classtrack/classtrack/internal/pkg/filestorage"
	"github.com/classtrack/classtrack/internal/pkg/helpers"
	"github.com/classtrack/classtrack/internal/pkg/logger"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService            appServices.AuthService
	ClassroomService       appServices.ClassroomService
	LeaveRequestService    appServices.LeaveRequestService
	ReportService          appServices.ReportService
	AuthController         *appControllers.AuthController
	ClassroomController    *appControllers.ClassroomController
	LeaveRequestController *appControllers.LeaveRequestController
	ReportController       *appControllers.ReportController
	AuthMiddleware         *appMiddleware.AuthMiddleware
	Repos                  *appRepos.Repositories
	JWTService             *pkgAuth.JWTService
	FileStorage            *filestorage.LocalStorage
	Logger                 zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logger.Configure(logger.Config{
		Level:  logger.LogLevel(strings.ToLower(cfg.Logging.Level)),
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool
	lgr.Info().Msg("Database connection established")

	migrator := appMigrations.NewMigrator(dbPool)
	if err := migrator.MigrateFromDirectory("migrations"); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations applied")

	return dbPool, nil
}

// BuildDependencies wires repositories, services, controllers and
// middleware together.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	repos := appRepos.NewRepositories(dbPool)

	jwtService := pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 0),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 0),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	storage, err := filestorage.NewLocalStorage(cfg.Server.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	authService := appServices.NewAuthService(repos.UserRepository, repos.TokenRepository, jwtService, lgr)
	classroomService := appServices.NewClassroomService(repos.ClassroomRepository, repos.LeaveRequestRepository, lgr)
	leaveRequestService := appServices.NewLeaveRequestService(repos.LeaveRequestRepository, repos.ClassroomRepository, storage, lgr)
	reportService := appServices.NewReportService(repos.LeaveRequestRepository, repos.ClassroomRepository, lgr)

	deps := &Dependencies{
		AuthService:            authService,
		ClassroomService:       classroomService,
		LeaveRequestService:    leaveRequestService,
		ReportService:          reportService,
		AuthController:         appControllers.NewAuthController(authService),
		ClassroomController:    appControllers.NewClassroomController(classroomService),
		LeaveRequestController: appControllers.NewLeaveRequestController(leaveRequestService),
		ReportController:       appControllers.NewReportController(reportService),
		AuthMiddleware:         appMiddleware.NewAuthMiddleware(jwtService),
		Repos:                  repos,
		JWTService:             jwtService,
		FileStorage:            storage,
		Logger:                 lgr,
	}

	return deps, nil
}

// SetupRouter builds the gin engine with middleware and routes
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger())

	appRoutes.SetupRouter(
		router,
		deps.AuthController,
		deps.ClassroomController,
		deps.LeaveRequestController,
		deps.ReportController,
		deps.AuthMiddleware,
	)

	lgr.Info().Msg("Router configured")
	return router
}
