package bootstrap

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	appControllers "github.com/agentcommand/tracker/internal/app/controllers"
	appMigrations "github.com/agentcommand/tracker/internal/app/migrations"
	appRepos "github.com/agentcommand/tracker/internal/app/repositories"
	appRoutes "github.com/agentcommand/tracker/internal/app/routes"
	appServices "github.com/agentcommand/tracker/internal/app/services"
	"github.com/agentcommand/tracker/internal/config"
	"github.com/agentcommand/tracker/internal/db"
	appMiddleware "github.com/agentcommand/tracker/internal/middleware"
	"github.com/agentcommand/tracker/internal/pkg/agent"
	pkgAuth "github.com/agentcommand/tracker/internal/pkg/auth"
	"github.com/agentcommand/tracker/internal/pkg/filestorage"
	"github.com/agentcommand/tracker/internal/pkg/logger"
	"github.com/agentcommand/tracker/internal/pkg/notify"
	"github.com/agentcommand/tracker/internal/seed"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos   *appRepos.Repositories
	Catalog *seed.Catalog

	StudentService      appServices.StudentService
	LifecycleService    appServices.LifecycleService
	DocumentService     appServices.DocumentService
	UniversityService   appServices.UniversityService
	NotificationService appServices.NotificationService
	StatsService        appServices.StatsService
	AdvisorService      appServices.AdvisorService

	Gateway     *agent.Gateway
	Dispatcher  *notify.Dispatcher
	FileStorage *filestorage.LocalStorage
	URLSigner   *filestorage.URLSigner

	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	AILimiter      *appMiddleware.RateLimiter
	Logger         zerolog.Logger
}

// ConfigPath is configs/config.yaml unless CONFIG_PATH is set
func ConfigPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return filepath.Join("configs", "config.yaml")
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(ConfigPath())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupStore opens the record store selected by storage.driver. For postgres
// it also applies the bundled migrations; the returned pool is nil otherwise.
func SetupStore(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (appRepos.RecordStore, *pgxpool.Pool, error) {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		lgr.Warn().Msg("Using in-memory record store; data is lost on restart")
		return appRepos.NewMemoryStore(), nil, nil
	}

	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(database.Pool, lgr).Apply(ctx); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return appRepos.NewPostgresStore(database.Pool), database.Pool, nil
}

// signingSecret returns the configured secret or a random per-process one.
// Links signed with a random secret stop working after a restart.
func signingSecret(cfg *config.Config, lgr zerolog.Logger) (string, error) {
	if cfg.Signing.Secret != "" {
		return cfg.Signing.Secret, nil
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate signing secret: %w", err)
	}
	lgr.Warn().Msg("signing.secret not set; using a random secret for this process")
	return hex.EncodeToString(buf), nil
}

// NotifyConfig maps the notifications section onto the dispatcher config
func NotifyConfig(cfg *config.Config) notify.Config {
	n := cfg.Notifications
	return notify.Config{
		EmailProvider: strings.ToLower(n.Email.Provider),
		Resend: notify.ResendConfig{
			APIKey:    n.Email.APIKey,
			FromEmail: n.Email.FromEmail,
			BaseURL:   n.Email.BaseURL,
		},
		SMTP: notify.SMTPConfig{
			Host:      n.Email.SMTPHost,
			Port:      n.Email.SMTPPort,
			Username:  n.Email.SMTPUsername,
			Password:  n.Email.SMTPPassword,
			FromEmail: n.Email.FromEmail,
		},
		Twilio: notify.TwilioConfig{
			AccountSID:  n.Twilio.AccountSID,
			AuthToken:   n.Twilio.AuthToken,
			PhoneNumber: n.Twilio.PhoneNumber,
			BaseURL:     n.Twilio.BaseURL,
		},
		Telegram: notify.TelegramConfig{
			BotToken: n.Telegram.BotToken,
			BaseURL:  n.Telegram.BaseURL,
		},
		Timeout: n.Timeout,
	}
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, store appRepos.RecordStore, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(store)

	catalog, err := seed.LoadCatalog()
	if err != nil {
		return nil, fmt.Errorf("failed to load university catalog: %w", err)
	}
	deps.Catalog = catalog
	lgr.Info().Int("universities", catalog.Len()).Msg("University catalog loaded")

	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}
	secret, err := signingSecret(cfg, lgr)
	if err != nil {
		return nil, err
	}
	deps.URLSigner = filestorage.NewURLSigner(secret, cfg.Signing.URLTTL, cfg.BaseURL())

	// AI gateway; a missing API key fails each request, not startup
	gemini := agent.NewGeminiClient(agent.GeminiConfig{
		APIKey:  cfg.AI.APIKey,
		Model:   cfg.AI.Model,
		BaseURL: cfg.AI.BaseURL,
		Timeout: cfg.AI.Timeout,
	})
	if err := gemini.Ready(); err != nil {
		lgr.Warn().Err(err).Msg("AI backend not configured; agent requests will fail")
	}
	deps.Gateway = agent.NewGateway(gemini, agent.NewHTTPPageFetcher(cfg.AI.Timeout), logger.Component("agent"))

	deps.Dispatcher = notify.NewDispatcher(NotifyConfig(cfg), logger.Component("notify"))

	// Services
	deps.StudentService = appServices.NewStudentService(deps.Repos.StudentRepository, lgr)
	deps.LifecycleService = appServices.NewLifecycleService(
		deps.Repos.ApplicationRepository,
		deps.Repos.StudentRepository,
		deps.Repos.UniversityRepository,
		catalog,
		logger.Component("lifecycle"),
	)
	deps.DocumentService = appServices.NewDocumentService(
		deps.Repos.DocumentRepository,
		deps.Repos.StudentRepository,
		deps.FileStorage,
		deps.URLSigner,
		appServices.DefaultMaxUploadBytes,
		lgr,
	)
	agentClient := agent.NewClient(deps.Gateway)
	deps.UniversityService = appServices.NewUniversityService(
		deps.Repos.UniversityRepository,
		catalog,
		agentClient,
		lgr,
	)
	deps.AdvisorService = appServices.NewAdvisorService(deps.Repos.StudentRepository, agentClient, lgr)
	deps.NotificationService = appServices.NewNotificationService(deps.Repos.StudentRepository, deps.Dispatcher, lgr)
	deps.StatsService = appServices.NewStatsService(deps.Repos.StudentRepository)

	// Middleware
	var verifier *pkgAuth.TokenVerifier
	if cfg.Auth.JWTSecret != "" {
		verifier = pkgAuth.NewTokenVerifier(pkgAuth.JWTConfig{
			SecretKey:   cfg.Auth.JWTSecret,
			TokenIssuer: cfg.Auth.Issuer,
		})
	} else {
		lgr.Warn().Msg("auth.jwt_secret not set; API requests are not authenticated")
	}
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(verifier)
	deps.AILimiter = appMiddleware.NewRateLimiter(cfg.AI.RateLimit, cfg.AI.Burst)

	// Controllers
	deps.Controllers = appRoutes.Controllers{
		Agent:        appControllers.NewAgentController(deps.Gateway),
		Notification: appControllers.NewNotificationController(deps.NotificationService),
		Student:      appControllers.NewStudentController(deps.StudentService),
		Application:  appControllers.NewApplicationController(deps.LifecycleService),
		Document:     appControllers.NewDocumentController(deps.DocumentService),
		University:   appControllers.NewUniversityController(deps.UniversityService),
		Stats:        appControllers.NewStatsController(deps.StatsService),
		Advisor:      appControllers.NewAdvisorController(deps.AdvisorService),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(lgr))
	router.MaxMultipartMemory = appServices.DefaultMaxUploadBytes

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware, deps.AILimiter)
	return router
}
