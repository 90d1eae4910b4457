package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"msme-credit-scoring-backend/internal/classifier"
	"msme-credit-scoring-backend/internal/config"
	handler "msme-credit-scoring-backend/internal/handlers"
	"msme-credit-scoring-backend/internal/logging"
	"msme-credit-scoring-backend/internal/metrics"
	"msme-credit-scoring-backend/internal/repository"
	"msme-credit-scoring-backend/internal/routes"
	"msme-credit-scoring-backend/internal/services/assessment"
	"msme-credit-scoring-backend/internal/services/explain"
	"msme-credit-scoring-backend/internal/services/features"
	"msme-credit-scoring-backend/internal/services/scoring"
)

func main() {
	// Load .env
	envErr := config.LoadEnv()

	cfg, err := config.Load(config.GetEnv("CONFIG_PATH", config.DefaultPath))
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		panic(err)
	}

	logger, err := logging.NewLogger(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	logging.SetGlobal(logger)

	if envErr != nil {
		logger.Info("no .env file found, relying on system env")
	}

	model, err := classifier.LoadFile(cfg.Model.Path)
	if err != nil {
		logger.Warn("classifier not loaded, fallback scoring will be used",
			zap.String("path", cfg.Model.Path), zap.Error(err))
	} else {
		logger.Info("classifier loaded",
			zap.String("path", cfg.Model.Path),
			zap.String("model_type", model.Name()),
			zap.Int("n_features", model.NumFeatures()))
	}

	collector, err := metrics.NewPrometheusCollector("credit")
	if err != nil {
		logger.Fatal("metrics", zap.Error(err))
	}

	opts := []assessment.Option{
		assessment.WithLogger(logger),
		assessment.WithMetrics(collector),
	}

	var history handler.HistoryStore
	if cfg.AuditEnabled() {
		db, err := config.InitDB(cfg.Database.URL)
		if err != nil {
			logger.Fatal("database", zap.Error(err))
		}
		repo := repository.NewAssessmentRepository(db)
		opts = append(opts, assessment.WithRecorder(repo))
		history = repo
		logger.Info("assessment audit trail enabled")
	}

	svc := assessment.NewService(
		scoring.NewAdapter(model, logger),
		features.NewExtractor(cfg.Scoring.RepaymentKeywords),
		explain.NewEngine(cfg.Scoring.Currency),
		opts...,
	)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), handler.RequestLogger(logger))
	// CORS config
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", handler.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", handler.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, handler.NewAssessmentHandler(svc, history, cfg.MaxUploadBytes(), logger), collector.Handler())

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}
