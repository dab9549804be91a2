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

	_ "github.com/kidfocus/kidfocus-api/api/swagger"
	"github.com/kidfocus/kidfocus-api/internal/handler"
	"github.com/kidfocus/kidfocus-api/internal/middleware"
	"github.com/kidfocus/kidfocus-api/internal/repository"
	"github.com/kidfocus/kidfocus-api/internal/service"
	"github.com/kidfocus/kidfocus-api/pkg/config"
	"github.com/kidfocus/kidfocus-api/pkg/export"
	"github.com/kidfocus/kidfocus-api/pkg/logger"
	corsmiddleware "github.com/kidfocus/kidfocus-api/pkg/middleware/cors"
	reqidmiddleware "github.com/kidfocus/kidfocus-api/pkg/middleware/requestid"
	"github.com/kidfocus/kidfocus-api/pkg/storage"

	"github.com/kidfocus/kidfocus-api/pkg/cache"
	"github.com/kidfocus/kidfocus-api/pkg/database"
)

// @title KidFocus API
// @version 1.0.0
// @description Learning session analytics for children
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close()

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("redis connection failed", "error", err)
		}
		defer redisClient.Close()
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.DashboardTTL, logr, true)
	}

	reportStorage, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("report storage init failed", "error", err)
	}

	userRepo := repository.NewUserRepository(db)
	childRepo := repository.NewChildRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	emotionRepo := repository.NewEmotionRepository(db)
	videoRepo := repository.NewVideoRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, cfg.JWT.Secret, cfg.JWT.Expiration, logr)
	childSvc := service.NewChildService(childRepo, reportStorage, cacheSvc, validate, logr)

	var completer service.TextCompleter
	hasCredential := cfg.AI.APIKey != ""
	if cfg.AI.Enabled && hasCredential {
		genai, err := service.NewGenaiCompleter(ctx, cfg.AI.APIKey, cfg.AI.Model, cfg.AI.MaxOutputTokens, cfg.AI.Temperature)
		if err != nil {
			logr.Sugar().Fatalw("ai client init failed", "error", err)
		}
		defer genai.Close()
		completer = genai
	}
	adviceSvc := service.NewAIAdviceService(completer, childRepo, cfg.AI.Enabled, hasCredential, cfg.AI.Timeout, logr)

	sessionSvc := service.NewSessionService(sessionRepo, emotionRepo, childSvc, childRepo, cacheSvc, export.NewCSVExporter(), cfg.Cache.SessionTTL, validate, logr)
	dashboardSvc := service.NewDashboardService(sessionRepo, childSvc, cacheSvc, cfg.Cache.DashboardTTL, logr)
	analysisSvc := service.NewAnalysisService(sessionRepo, childSvc, logr)
	calendarSvc := service.NewCalendarService(sessionRepo, childSvc, cacheSvc, cfg.Cache.CalendarTTL, logr)
	suggestionSvc := service.NewSuggestionService(sessionRepo, childSvc, childRepo, nil, adviceSvc, logr)
	reportSvc := service.NewReportService(sessionRepo, childSvc, childRepo, reportStorage, export.NewPDFReport(), nil, logr)
	videoSvc := service.NewVideoService(videoRepo, cfg.Videos.RootDir, validate, logr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	handlers := handler.Handlers{
		Auth:        handler.NewAuthHandler(authSvc),
		Children:    handler.NewChildHandler(childSvc),
		Sessions:    handler.NewSessionHandler(sessionSvc),
		Dashboard:   handler.NewDashboardHandler(dashboardSvc, analysisSvc, calendarSvc),
		Suggestions: handler.NewSuggestionHandler(suggestionSvc),
		Reports:     handler.NewReportHandler(reportSvc),
		Videos:      handler.NewVideoHandler(videoSvc),
		Metrics:     handler.NewMetricsHandler(metricsSvc),
	}
	handler.RegisterRoutes(r, cfg.APIPrefix, handlers, authSvc)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
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
		logr.Sugar().Errorw("shutdown incomplete", "error", err)
	}
}
