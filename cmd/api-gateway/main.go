package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/internship-compliance-api/api/swagger"
	"github.com/noah-isme/internship-compliance-api/internal/handler"
	"github.com/noah-isme/internship-compliance-api/internal/middleware"
	"github.com/noah-isme/internship-compliance-api/internal/models"
	"github.com/noah-isme/internship-compliance-api/internal/repository"
	"github.com/noah-isme/internship-compliance-api/internal/service"
	"github.com/noah-isme/internship-compliance-api/pkg/cache"
	"github.com/noah-isme/internship-compliance-api/pkg/config"
	"github.com/noah-isme/internship-compliance-api/pkg/database"
	"github.com/noah-isme/internship-compliance-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/internship-compliance-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/internship-compliance-api/pkg/middleware/requestid"
	"github.com/noah-isme/internship-compliance-api/pkg/storage"
)

// @title Internship Compliance API
// @version 1.0.0
// @description Internship compliance tracking portal for polytechnic institutions
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	validate := validator.New()
	metricsService := service.NewMetricsService()

	var cacheService *service.CacheService
	if cfg.Dashboard.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		} else {
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			defer cacheRepo.Close() //nolint:errcheck
			cacheService = service.NewCacheService(cacheRepo, metricsService, cfg.Dashboard.CacheTTL, logr, true)
		}
	}

	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	institutionRepo := repository.NewInstitutionRepository(db)
	internshipRepo := repository.NewInternshipRepository(db)
	reportRepo := repository.NewReportRepository(db)
	visitRepo := repository.NewVisitRepository(db)
	complianceRepo := repository.NewComplianceRepository(db)
	configurationRepo := repository.NewConfigurationRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	settings := service.NewComplianceSettings(cfg.Compliance)

	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "internship-compliance-api",
	})
	userService := service.NewUserService(userRepo, validate, logr)
	studentService := service.NewStudentService(studentRepo, validate, logr)
	internshipService := service.NewInternshipService(service.InternshipServiceParams{
		Repo:      internshipRepo,
		Students:  studentRepo,
		Cache:     cacheService,
		Validator: validate,
		Logger:    logr,
		Settings:  settings,
	})
	reportService := service.NewReportService(service.ReportServiceParams{
		Repo:        reportRepo,
		Internships: internshipRepo,
		Validator:   validate,
		Logger:      logr,
		Settings:    settings,
	})
	visitService := service.NewVisitService(service.VisitServiceParams{
		Repo:        visitRepo,
		Internships: internshipRepo,
		Validator:   validate,
		Logger:      logr,
		Settings:    settings,
	})
	complianceService := service.NewComplianceService(complianceRepo, institutionRepo, logr, settings)
	dashboardService := service.NewDashboardService(service.DashboardServiceParams{
		Compliance:  complianceService,
		Internships: internshipRepo,
		Reports:     reportRepo,
		Visits:      visitRepo,
		Users:       userRepo,
		Cache:       cacheService,
		Logger:      logr,
		Settings:    settings,
		CacheTTL:    cfg.Dashboard.CacheTTL,
	})
	configurationService := service.NewConfigurationService(service.ConfigurationServiceParams{
		Repo:      configurationRepo,
		Audit:     auditRepo,
		Settings:  settings,
		Cache:     cacheService,
		Validator: validate,
		Logger:    logr,
	})
	if err := configurationService.LoadOverrides(ctx); err != nil {
		logr.Sugar().Fatalw("failed to load configuration overrides", "error", err)
	}

	letterStorage, err := storage.NewLocalStorage(cfg.Letters.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init letter storage", "error", err)
	}
	letterService := service.NewLetterService(service.LetterServiceParams{
		Internships:  internshipRepo,
		Audit:        auditRepo,
		Storage:      letterStorage,
		Signer:       storage.NewSignedURLSigner(cfg.Letters.SignedURLSecret, cfg.Letters.SignedURLTTL),
		Cache:        cacheService,
		Logger:       logr,
		MaxFileSize:  cfg.Letters.MaxFileSizeBytes,
		AllowedMIMEs: cfg.Letters.AllowedMIMEs,
	})

	var exportService *service.ExportService
	if cfg.Exports.Enabled {
		exportStorage, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init export storage", "error", err)
		}
		exportService = service.NewExportService(service.ExportServiceParams{
			Compliance: complianceService,
			Storage:    exportStorage,
			Signer:     storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL),
			Logger:     logr,
			Workers:    cfg.Exports.WorkerConcurrency,
			Retries:    cfg.Exports.WorkerRetries,
			FileTTL:    cfg.Exports.SignedURLTTL,
		})
		exportService.Start(ctx)
		defer exportService.Stop()
	}

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	studentHandler := handler.NewStudentHandler(studentService)
	internshipHandler := handler.NewInternshipHandler(internshipService)
	reportHandler := handler.NewReportHandler(reportService)
	visitHandler := handler.NewVisitHandler(visitService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	complianceHandler := handler.NewComplianceHandler(complianceService)
	configurationHandler := handler.NewConfigurationHandler(configurationService)
	letterHandler := handler.NewLetterHandler(letterService)
	metricsHandler := handler.NewMetricsHandler(metricsService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.GET("/letters/download", letterHandler.Download)

	authed := api.Group("")
	authed.Use(middleware.JWT(authService))

	authed.POST("/auth/logout", authHandler.Logout)
	authed.GET("/auth/me", authHandler.Me)

	users := authed.Group("/users")
	users.GET("", middleware.RequireRoles(models.RoleState), userHandler.List)
	users.POST("", middleware.RequireRoles(models.RoleState), userHandler.Create)
	users.GET("/:id", middleware.RBAC(string(models.RoleState), "SELF"), userHandler.Get)
	users.PUT("/:id", middleware.RequireRoles(models.RoleState), userHandler.Update)
	users.DELETE("/:id", middleware.RequireRoles(models.RoleState), userHandler.Delete)

	students := authed.Group("/students")
	students.GET("", middleware.RequireRoles(models.RoleState, models.RolePrincipal, models.RoleFaculty), studentHandler.List)
	students.GET("/:id", middleware.RequireRoles(models.RoleState, models.RolePrincipal, models.RoleFaculty), studentHandler.Get)
	students.POST("", middleware.RequireRoles(models.RoleState, models.RolePrincipal), studentHandler.Create)
	students.PUT("/:id", middleware.RequireRoles(models.RoleState, models.RolePrincipal), studentHandler.Update)
	students.DELETE("/:id", middleware.RequireRoles(models.RoleState, models.RolePrincipal), studentHandler.Deactivate)

	internships := authed.Group("/internships")
	internships.GET("", middleware.RequireRoles(models.RoleState, models.RolePrincipal, models.RoleFaculty), internshipHandler.List)
	internships.GET("/:id", internshipHandler.Get)
	internships.POST("", middleware.RequireRoles(models.RolePrincipal), internshipHandler.Create)
	internships.PUT("/:id/mentor", middleware.RequireRoles(models.RolePrincipal), internshipHandler.UpdateMentor)
	internships.POST("/:id/complete", middleware.RequireRoles(models.RolePrincipal), internshipHandler.Complete)

	internships.PUT("/:id/reports/draft", middleware.RequireRoles(models.RoleStudent), reportHandler.SaveDraft)
	internships.POST("/:id/reports/submit", middleware.RequireRoles(models.RoleStudent), reportHandler.Submit)
	internships.GET("/:id/reports/timeline", reportHandler.Timeline)

	internships.POST("/:id/visits", middleware.RequireRoles(models.RoleFaculty), visitHandler.Record)
	internships.GET("/:id/visits/timeline", visitHandler.Timeline)

	internships.POST("/:id/letter", middleware.RequireRoles(models.RoleStudent, models.RolePrincipal), letterHandler.Upload)
	internships.GET("/:id/letter/url", letterHandler.DownloadURL)

	dashboards := authed.Group("/dashboards")
	dashboards.GET("/state", middleware.RequireRoles(models.RoleState), dashboardHandler.State)
	dashboards.GET("/principal", middleware.RequireRoles(models.RoleState, models.RolePrincipal), dashboardHandler.Principal)
	dashboards.GET("/faculty", middleware.RequireRoles(models.RoleFaculty), dashboardHandler.Faculty)
	dashboards.GET("/student", dashboardHandler.Student)

	compliance := authed.Group("/compliance")
	compliance.GET("/overall", middleware.RequireRoles(models.RoleState), complianceHandler.Overall)
	compliance.GET("/ranking", middleware.RequireRoles(models.RoleState), complianceHandler.Ranking)
	compliance.GET("/institutions/:id", complianceHandler.ForInstitution)

	configurations := authed.Group("/configurations")
	configurations.Use(middleware.RequireRoles(models.RoleState))
	configurations.GET("", configurationHandler.List)
	configurations.PUT("", configurationHandler.Update)
	configurations.PUT("/bulk", configurationHandler.BulkUpdate)

	authed.GET("/metrics/system", middleware.RequireRoles(models.RoleState), metricsHandler.System)

	if exportService != nil {
		exportHandler := handler.NewExportHandler(exportService)
		api.GET("/exports/download", exportHandler.Download)
		exports := authed.Group("/exports")
		exports.Use(middleware.RequireRoles(models.RoleState))
		exports.POST("", exportHandler.Request)
		exports.GET("/:id", exportHandler.Status)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
