package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"psyscore/internal/config"
	"psyscore/internal/db"
	apihttp "psyscore/internal/http"
	"psyscore/internal/norms"
	"psyscore/internal/repository"
	"psyscore/internal/scoring"
	"psyscore/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	table := norms.Default()
	if cfg.NormsPath != "" {
		loaded, err := norms.Load(cfg.NormsPath)
		if err != nil {
			logger.Fatal("load norms", zap.String("path", cfg.NormsPath), zap.Error(err))
		}
		table = loaded
	}

	engineOpts := []scoring.Option{scoring.WithLogger(logger)}
	if cfg.VariabilityAmplitude > 0 {
		engineOpts = append(engineOpts, scoring.WithVariability(
			scoring.NewSeededVariability(uint64(cfg.VariabilitySeed), cfg.VariabilityAmplitude),
		))
	}
	engine := scoring.New(table, engineOpts...)

	var assessmentRepo repository.AssessmentRepository
	if cfg.PersistenceEnabled() {
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			logger.Fatal("db connect", zap.Error(err))
		}
		defer pool.Close()
		if err := db.Ping(ctx, pool); err != nil {
			logger.Fatal("db ping", zap.Error(err))
		}
		if err := db.EnsureSchema(ctx, pool); err != nil {
			logger.Fatal("db schema", zap.Error(err))
		}
		assessmentRepo = repository.NewPgAssessmentRepository(pool)
	} else {
		logger.Warn("DATABASE_URL not set, assessments will not be persisted")
	}

	var (
		cache   service.ResultCache
		limiter service.SubmissionLimiter
	)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			cache = service.NewRedisResultCache(redisClient)
			limiter = service.NewRedisSubmissionLimiter(redisClient, time.Hour, cfg.SubmissionLimitPerHour)
		}
		cancel()
	}
	if limiter == nil {
		limiter = service.NewMemorySubmissionLimiter(time.Hour, cfg.SubmissionLimitPerHour)
	}

	if cfg.PseudonymKey == "" {
		logger.Warn("pseudonym key not configured")
	}
	assessmentSvc := service.NewAssessmentService(logger, engine, assessmentRepo, cache, limiter,
		service.NewPseudonymizer(cfg.PseudonymKey),
		service.AssessmentOptions{
			CacheTTL:         cfg.ResultCacheTTL(),
			BatchConcurrency: cfg.BatchConcurrency,
			BatchMaxSize:     cfg.BatchMaxSize,
		},
	)

	jwtSvc := service.NewJWTService(cfg.JWTSecret, cfg.JWTAccessTTL())
	clients := service.NewClientAuthenticator(cfg.APIClientID, cfg.APIClientSecretHash)
	if !clients.Enabled() {
		logger.Warn("api client credentials not configured, /auth/token disabled")
	}

	assessmentHandler := apihttp.NewAssessmentHandler(logger, assessmentSvc, service.NewQuestionnaireService(), table)
	authHandler := apihttp.NewAuthHandler(logger, clients, jwtSvc)
	router := apihttp.NewRouter(logger, cfg.CORSOrigins, jwtSvc, assessmentHandler, authHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown", zap.Error(err))
		}
	}()

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
