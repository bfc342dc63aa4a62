package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/campusvoice/feedback-api/api/swagger"
	"github.com/campusvoice/feedback-api/internal/handler"
	"github.com/campusvoice/feedback-api/internal/middleware"
	"github.com/campusvoice/feedback-api/internal/models"
	"github.com/campusvoice/feedback-api/internal/repository"
	"github.com/campusvoice/feedback-api/internal/service"
	"github.com/campusvoice/feedback-api/pkg/cache"
	"github.com/campusvoice/feedback-api/pkg/config"
	"github.com/campusvoice/feedback-api/pkg/database"
	"github.com/campusvoice/feedback-api/pkg/export"
	"github.com/campusvoice/feedback-api/pkg/genai"
	"github.com/campusvoice/feedback-api/pkg/logger"
	corsmiddleware "github.com/campusvoice/feedback-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campusvoice/feedback-api/pkg/middleware/requestid"
	"github.com/campusvoice/feedback-api/pkg/storage"
)

// @title Campus Voice Feedback API
// @version 1.0.0
// @description Department feedback portal with AI enrichment and coordinator analytics
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	var cacheRepo *repository.CacheRepository
	if cfg.Analytics.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, analytics cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close() //nolint:errcheck
			cacheRepo = repository.NewCacheRepository(redisClient)
		}
	}

	audioStore, err := storage.NewMediaStore(cfg.Media.AudioDir)
	if err != nil {
		logr.Fatal("failed to prepare audio storage", zap.Error(err))
	}
	photoStore, err := storage.NewMediaStore(cfg.Media.PhotoDir)
	if err != nil {
		logr.Fatal("failed to prepare photo storage", zap.Error(err))
	}

	gateway, err := genai.New(cfg.GenAI, logr)
	if err != nil {
		logr.Fatal("failed to configure genai gateway", zap.Error(err))
	}
	if !gateway.Configured() {
		logr.Warn("genai gateway not configured, enrichment and summaries disabled")
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(nil, false, cfg.Analytics.CacheTTL, logr)
	if cacheRepo != nil {
		cacheSvc = service.NewCacheService(cacheRepo, true, cfg.Analytics.CacheTTL, logr)
	}

	authSvc := service.NewAuthService(userRepo, profileRepo, departmentRepo, cfg.JWT, validate, logr)
	profileSvc := service.NewProfileService(profileRepo, departmentRepo, photoStore, validate, logr)
	feedbackSvc := service.NewFeedbackService(feedbackRepo, categoryRepo, gateway, audioStore, cacheSvc, metricsSvc, logr)
	summarySvc := service.NewSummaryService(feedbackRepo, gateway, metricsSvc, logr)
	analyticsSvc := service.NewAnalyticsService(analyticsRepo, cacheSvc, logr)
	registrationSvc := service.NewRegistrationService(userRepo, profileRepo, feedbackRepo, logr)
	exportSvc := service.NewExportService(feedbackRepo, export.NewCSVExporter(), export.NewPDFExporter(), logr)

	authHandler := handler.NewAuthHandler(authSvc)
	profileHandler := handler.NewProfileHandler(profileSvc, photoStore)
	feedbackHandler := handler.NewFeedbackHandler(feedbackSvc, profileSvc, audioStore)
	summaryHandler := handler.NewSummaryHandler(summarySvc, profileSvc)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsSvc, profileSvc)
	coordinatorHandler := handler.NewCoordinatorHandler(registrationSvc, profileSvc)
	exportHandler := handler.NewExportHandler(exportSvc, profileSvc)
	referenceHandler := handler.NewReferenceHandler(departmentRepo, categoryRepo)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)
		}

		api.GET("/departments", referenceHandler.Departments)
		api.GET("/categories", referenceHandler.Categories)

		authed := api.Group("", middleware.JWT(authSvc))
		{
			authed.GET("/profile", profileHandler.Get)
			authed.PUT("/profile", profileHandler.Update)

			student := authed.Group("/feedback", middleware.RequireRoles(models.RoleStudent))
			{
				student.POST("", feedbackHandler.Submit)
				student.GET("", feedbackHandler.ListMine)
				student.DELETE("/:id", feedbackHandler.Delete)
				student.POST("/:id/revoke-anonymity", feedbackHandler.RevokeAnonymity)
			}

			shared := authed.Group("/feedback", middleware.RequireRoles(models.RoleStudent, models.RoleCoordinator))
			{
				shared.GET("/:id", feedbackHandler.Get)
				shared.GET("/:id/audio", feedbackHandler.Audio)
			}

			coordinator := authed.Group("/coordinator", middleware.RequireRoles(models.RoleCoordinator))
			{
				coordinator.GET("/dashboard", coordinatorHandler.Dashboard)
				coordinator.GET("/registrations", coordinatorHandler.ListPending)
				coordinator.POST("/registrations/:id/approve", coordinatorHandler.Approve)
				coordinator.POST("/registrations/:id/reject", coordinatorHandler.Reject)
				coordinator.GET("/feedback", feedbackHandler.ListDepartment)
				coordinator.GET("/feedback/export", exportHandler.Export)
				coordinator.POST("/summaries", summaryHandler.Summarize)
				coordinator.GET("/analytics", analyticsHandler.Department)
			}
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
