package main

import (
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yungbote/seoportal-backend/internal/db"
	"github.com/yungbote/seoportal-backend/internal/events"
	"github.com/yungbote/seoportal-backend/internal/handlers"
	"github.com/yungbote/seoportal-backend/internal/logger"
	"github.com/yungbote/seoportal-backend/internal/mail"
	"github.com/yungbote/seoportal-backend/internal/middleware"
	"github.com/yungbote/seoportal-backend/internal/notify"
	"github.com/yungbote/seoportal-backend/internal/pdf"
	"github.com/yungbote/seoportal-backend/internal/repos"
	"github.com/yungbote/seoportal-backend/internal/server"
	"github.com/yungbote/seoportal-backend/internal/services"
	"github.com/yungbote/seoportal-backend/internal/storage"
	"github.com/yungbote/seoportal-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	allowedOrigins := utils.GetEnv("CORS_ALLOWED_ORIGINS", "", log)
	logVisibility := services.ParseLogVisibility(utils.GetEnv("LOG_VISIBILITY_POLICY", "own", log))
	listenPort := utils.GetEnv("PORT", "8080", log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Redis (optional, dashboard cache)
	var cache *redis.Client
	if addr := utils.GetEnv("REDIS_ADDR", "", log); addr != "" {
		cache = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
	}

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	userSettingsRepo := repos.NewUserSettingsRepo(thePG, log)
	customerRepo := repos.NewCustomerRepo(thePG, log)
	projectRepo := repos.NewProjectRepo(thePG, log)
	seoLogRepo := repos.NewSEOLogRepo(thePG, log)
	storedFileRepo := repos.NewStoredFileRepo(thePG, log)
	attachmentAccessRepo := repos.NewAttachmentAccessRepo(thePG, log)
	sectionRepo := repos.NewSectionRepo(thePG, log)
	reportRepo := repos.NewReportRepo(thePG, log)
	sectionOrderRepo := repos.NewSectionOrderRepo(thePG, log)
	reportVersionRepo := repos.NewReportVersionRepo(thePG, log)

	// File storage
	log.Info("Setting up file storage from main...")
	store, err := storage.NewFromEnv(log)
	if err != nil {
		log.Fatal("File storage init failed", "error", err)
	}

	// PDF renderer
	renderer, err := pdf.NewFromEnv(log)
	if err != nil {
		log.Fatal("PDF renderer init failed", "error", err)
	}

	// Mail (optional; notifications degrade to log-only without it)
	mailClient, err := mail.NewFromEnv(log)
	if err != nil {
		log.Warn("Mail client disabled", "error", err)
		mailClient = nil
	}

	// Event bus + notification dispatch
	bus := events.NewBus(log)
	dispatcher := notify.NewDispatcher(log, userRepo, userSettingsRepo, mailClient)
	dispatcher.Register(bus)

	// Services
	log.Info("Setting up Services from main...")
	authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, userSettingsRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
	userService := services.NewUserService(thePG, log, userRepo)
	settingsService := services.NewSettingsService(thePG, log, userSettingsRepo)
	customerService := services.NewCustomerService(thePG, log, customerRepo, userRepo)
	projectService := services.NewProjectService(thePG, log, projectRepo, customerRepo, userRepo, bus)
	seoLogService := services.NewSEOLogService(thePG, log, seoLogRepo, projectRepo, customerRepo, userRepo, storedFileRepo, store, bus, logVisibility)
	fileService := services.NewFileService(thePG, log, storedFileRepo, attachmentAccessRepo, seoLogRepo, sectionRepo, projectRepo, customerRepo, store, bus)
	sectionService := services.NewSectionService(thePG, log, sectionRepo, projectRepo, customerRepo, seoLogRepo, storedFileRepo)
	reportService := services.NewReportService(thePG, log, reportRepo, sectionOrderRepo, reportVersionRepo, sectionRepo, projectRepo, customerRepo, bus)
	renderService := services.NewRenderService(thePG, log, reportRepo, sectionOrderRepo, reportVersionRepo, projectRepo, customerRepo, userRepo, userSettingsRepo, renderer, store)
	dashboardService := services.NewDashboardService(thePG, log, userRepo, customerRepo, projectRepo, seoLogRepo, reportRepo, storedFileRepo, cache, utils.HumanSize)

	// Handlers
	log.Info("Setting up Handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	customerHandler := handlers.NewCustomerHandler(customerService)
	projectHandler := handlers.NewProjectHandler(projectService)
	seoLogHandler := handlers.NewSEOLogHandler(seoLogService)
	sectionHandler := handlers.NewSectionHandler(sectionService)
	fileHandler := handlers.NewFileHandler(fileService)
	reportHandler := handlers.NewReportHandler(reportService, renderService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	router := server.NewRouter(server.RouterConfig{
		AllowedOrigins:   allowedOrigins,
		AuthMiddleware:   authMiddleware,
		AuthHandler:      authHandler,
		UserHandler:      userHandler,
		SettingsHandler:  settingsHandler,
		CustomerHandler:  customerHandler,
		ProjectHandler:   projectHandler,
		SEOLogHandler:    seoLogHandler,
		SectionHandler:   sectionHandler,
		FileHandler:      fileHandler,
		ReportHandler:    reportHandler,
		DashboardHandler: dashboardHandler,
	})

	log.Info("Starting server...", "port", listenPort)
	if err := router.Run(":" + listenPort); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}
