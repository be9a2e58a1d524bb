package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yungbote/seoportal-backend/internal/handlers"
	"github.com/yungbote/seoportal-backend/internal/middleware"
	"github.com/yungbote/seoportal-backend/internal/types"
)

type RouterConfig struct {
	AllowedOrigins string

	AuthMiddleware *middleware.AuthMiddleware

	AuthHandler      *handlers.AuthHandler
	UserHandler      *handlers.UserHandler
	SettingsHandler  *handlers.SettingsHandler
	CustomerHandler  *handlers.CustomerHandler
	ProjectHandler   *handlers.ProjectHandler
	SEOLogHandler    *handlers.SEOLogHandler
	SectionHandler   *handlers.SectionHandler
	FileHandler      *handlers.FileHandler
	ReportHandler    *handlers.ReportHandler
	DashboardHandler *handlers.DashboardHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := []string{"http://localhost:3000", "http://localhost:5173"}
	if cfg.AllowedOrigins != "" {
		origins = strings.Split(cfg.AllowedOrigins, ",")
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)
	router.POST("/refresh", cfg.AuthHandler.Refresh)

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/api")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	// Auth
	protected.POST("/logout", cfg.AuthHandler.Logout)

	// User
	protected.GET("/user", cfg.UserHandler.GetMe)
	protected.PUT("/user", cfg.UserHandler.UpdateProfile)
	protected.GET("/providers", cfg.UserHandler.ListProviders)
	// Admin accounts can only be created here; public /register caps the
	// role at provider or customer.
	protected.POST("/users", cfg.AuthMiddleware.RequireRoles(types.RoleAdmin), cfg.AuthHandler.Register)

	// Settings
	protected.GET("/settings", cfg.SettingsHandler.Get)
	protected.PUT("/settings/notifications", cfg.SettingsHandler.UpdateNotifications)
	protected.PUT("/settings/appearance", cfg.SettingsHandler.UpdateAppearance)
	protected.PUT("/settings/reports", cfg.SettingsHandler.UpdateReports)
	protected.PUT("/settings/system", cfg.SettingsHandler.UpdateSystem)

	// Dashboard
	protected.GET("/dashboard", cfg.DashboardHandler.Get)

	// Customers
	staff := cfg.AuthMiddleware.RequireRoles(types.RoleAdmin, types.RoleProvider)
	protected.GET("/customers", staff, cfg.CustomerHandler.List)
	protected.POST("/customers", staff, cfg.CustomerHandler.Create)
	protected.GET("/customers/:id", cfg.CustomerHandler.Get)
	protected.PUT("/customers/:id", staff, cfg.CustomerHandler.Update)

	// Projects
	adminOnly := cfg.AuthMiddleware.RequireRoles(types.RoleAdmin)
	protected.GET("/projects", cfg.ProjectHandler.List)
	protected.POST("/projects", adminOnly, cfg.ProjectHandler.Create)
	protected.GET("/projects/:id", cfg.ProjectHandler.Get)
	protected.PUT("/projects/:id", adminOnly, cfg.ProjectHandler.Update)
	protected.PUT("/projects/:id/providers", adminOnly, cfg.ProjectHandler.AssignProviders)
	protected.GET("/projects/:id/sections", cfg.SectionHandler.ListByProject)

	// Work logs
	protected.GET("/logs", cfg.SEOLogHandler.List)
	protected.POST("/logs", staff, cfg.SEOLogHandler.Create)
	protected.GET("/logs/:id", cfg.SEOLogHandler.Get)
	protected.PUT("/logs/:id", staff, cfg.SEOLogHandler.Update)
	protected.DELETE("/logs/:id", staff, cfg.SEOLogHandler.Delete)

	// Report sections
	protected.POST("/sections", staff, cfg.SectionHandler.Create)
	protected.GET("/sections/:id", cfg.SectionHandler.Get)
	protected.PUT("/sections/:id", staff, cfg.SectionHandler.Update)
	protected.PUT("/sections/:id/logs", staff, cfg.SectionHandler.AttachLogs)
	protected.PUT("/sections/:id/files", staff, cfg.SectionHandler.AttachFiles)

	// Files
	protected.POST("/files", cfg.FileHandler.Upload)
	protected.GET("/files/:id/download", cfg.FileHandler.Download)
	protected.GET("/files/:id/accesses", adminOnly, cfg.FileHandler.AccessLog)
	protected.DELETE("/files/:id", staff, cfg.FileHandler.Delete)

	// Reports
	protected.GET("/reports", cfg.ReportHandler.List)
	protected.POST("/reports", staff, cfg.ReportHandler.Create)
	protected.GET("/reports/:id", cfg.ReportHandler.Get)
	protected.PUT("/reports/:id", staff, cfg.ReportHandler.Edit)
	protected.POST("/reports/:id/submit", staff, cfg.ReportHandler.SubmitForReview)
	protected.POST("/reports/:id/review", adminOnly, cfg.ReportHandler.Review)
	protected.POST("/reports/:id/publish", adminOnly, cfg.ReportHandler.Publish)
	protected.POST("/reports/:id/archive", adminOnly, cfg.ReportHandler.Archive)
	protected.POST("/reports/:id/sections", staff, cfg.ReportHandler.AddSection)
	protected.PUT("/reports/:id/sections", staff, cfg.ReportHandler.ReorderSections)
	protected.GET("/reports/:id/versions", staff, cfg.ReportHandler.ListVersions)
	protected.GET("/reports/:id/pdf", cfg.ReportHandler.RenderPDF)
	protected.POST("/reports/:id/snapshot", staff, cfg.ReportHandler.Snapshot)

	return router
}
