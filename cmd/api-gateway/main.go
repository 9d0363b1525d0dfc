package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/planlabs/planner-api/api/swagger"
	"github.com/planlabs/planner-api/internal/handler"
	"github.com/planlabs/planner-api/internal/middleware"
	"github.com/planlabs/planner-api/internal/models"
	"github.com/planlabs/planner-api/internal/repository"
	"github.com/planlabs/planner-api/internal/service"
	"github.com/planlabs/planner-api/pkg/cache"
	"github.com/planlabs/planner-api/pkg/config"
	"github.com/planlabs/planner-api/pkg/database"
	"github.com/planlabs/planner-api/pkg/jobs"
	"github.com/planlabs/planner-api/pkg/logger"
	corsmiddleware "github.com/planlabs/planner-api/pkg/middleware/cors"
	reqidmiddleware "github.com/planlabs/planner-api/pkg/middleware/requestid"
)

// @title Planner API
// @version 0.1.0
// @description Schedule conflict engine for school timetables
// @BasePath /
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, analysis caching disabled", "error", err)
		redisClient = nil
	}

	plannerCfg, err := service.NewPlannerServiceConfig(cfg.Planner)
	if err != nil {
		logr.Sugar().Fatalw("invalid planner configuration", "error", err)
	}

	validate := validator.New()

	lessonRepo := repository.NewLessonRepository(db)
	recurringRepo := repository.NewRecurringLessonRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	vacationRepo := repository.NewVacationRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	tokenSvc := service.NewTokenService(cfg.JWT.Secret)
	plannerSvc := service.NewPlannerService(lessonRepo, cacheRepo, metricsSvc, validate, logr, plannerCfg)
	lessonSvc := service.NewLessonService(lessonRepo, plannerSvc, plannerCfg.Week, validate, logr)
	bookingSvc := service.NewBookingService(bookingRepo, validate, logr)

	notifyQueue := jobs.NewQueue("vacation-notify", func(ctx context.Context, job jobs.Job) error {
		logr.Sugar().Infow("vacation notification dispatched", "job_id", job.ID, "type", job.Type)
		return nil
	}, jobs.QueueConfig{
		Workers:    cfg.Vacation.NotifyWorkers,
		MaxRetries: cfg.Vacation.NotifyRetries,
		Logger:     logr,
	})
	notifyQueue.Start(context.Background())
	defer notifyQueue.Stop()

	vacationSvc := service.NewVacationService(vacationRepo, recurringRepo, notifyQueue, validate, logr)

	plannerHandler := handler.NewPlannerHandler(plannerSvc)
	lessonHandler := handler.NewLessonHandler(lessonSvc)
	bookingHandler := handler.NewBookingHandler(bookingSvc)
	vacationHandler := handler.NewVacationHandler(vacationSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(tokenSvc))

	planner := api.Group("/planner")
	{
		planner.POST("/validate-move", plannerHandler.ValidateMove)
		planner.POST("/alternatives", plannerHandler.Alternatives)
		planner.GET("/analysis", plannerHandler.Analysis)
		planner.POST("/expansion", plannerHandler.Expansion)
	}

	lessons := api.Group("/lessons")
	{
		lessons.GET("", lessonHandler.List)
		lessons.GET("/:id", lessonHandler.Get)
		lessons.POST("", middleware.RequireRoles(models.RoleAdmin, models.RoleStaff), lessonHandler.Create)
		lessons.PUT("/:id", middleware.RequireRoles(models.RoleAdmin, models.RoleStaff), lessonHandler.Update)
		lessons.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), lessonHandler.Delete)
	}

	bookings := api.Group("/bookings")
	{
		bookings.GET("", bookingHandler.List)
		bookings.POST("", bookingHandler.Create)
		bookings.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin, models.RoleStaff), bookingHandler.Delete)
	}

	vacations := api.Group("/vacations")
	{
		vacations.GET("", vacationHandler.List)
		vacations.POST("", vacationHandler.Create)
		vacations.GET("/:id/impact", vacationHandler.Impact)
		vacations.PATCH("/:id/status", middleware.RequireRoles(models.RoleAdmin), vacationHandler.Decide)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
