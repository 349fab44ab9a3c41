package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"taskboard/internal/config"
	"taskboard/internal/database"
	"taskboard/internal/handlers"
	"taskboard/internal/middleware"
	"taskboard/internal/models"
	"taskboard/internal/monitoring"
	"taskboard/internal/seed"
	"taskboard/internal/services"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("server: %v", err)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logLevel := logger.Warn
	if !cfg.IsProduction() {
		logLevel = logger.Info
	}
	pool, err := database.NewDatabasePool(&database.PoolConfig{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.GetDatabaseDSN(),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		LogLevel:        logLevel,
	})
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.DB.AutoMigrate(&models.User{}, &models.Task{}); err != nil {
		return err
	}

	if cfg.Seed.DemoData {
		summary, err := seed.Load(pool.DB)
		if err != nil {
			return err
		}
		log.Printf("seeded demo data: %d users, %d tasks", summary.Users, summary.Tasks)
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		defer redisClient.Close()
	}

	var limiter middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		if redisClient != nil {
			limiter = middleware.NewRedisLimiter(redisClient, "taskboard:ratelimit", cfg.RateLimit.RequestsPerMin, time.Minute)
			log.Printf("rate limiting enabled (redis, %d req/min)", cfg.RateLimit.RequestsPerMin)
		} else {
			local := middleware.NewLocalLimiter(cfg.RateLimit.RequestsPerMin, cfg.RateLimit.BurstSize, cfg.RateLimit.CleanupInterval)
			defer local.Stop()
			limiter = local
			log.Printf("rate limiting enabled (in-process, %d req/min)", cfg.RateLimit.RequestsPerMin)
		}
	}

	metrics := monitoring.NewMetrics()
	health := monitoring.NewHealthChecker()
	health.Register("database", func(ctx context.Context) error {
		sqlDB, err := pool.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})
	if redisClient != nil {
		health.Register("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		Config:      cfg,
		DB:          pool.DB,
		TaskService: services.NewTaskService(),
		Metrics:     metrics,
		Health:      health,
		Limiter:     limiter,
	})

	server := &http.Server{
		Addr:         cfg.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s (env=%s, auth=%s, db=%s)",
			server.Addr, cfg.Server.Environment, cfg.Auth.Mode, cfg.Database.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Println("shutdown complete")
	return nil
}
