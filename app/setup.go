package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/sahilchouksey/thats-my-college/api"
	"github.com/sahilchouksey/thats-my-college/config"
	"github.com/sahilchouksey/thats-my-college/database"
	"github.com/sahilchouksey/thats-my-college/queue"
	"github.com/sahilchouksey/thats-my-college/repository"
	"github.com/sahilchouksey/thats-my-college/router"
	"github.com/sahilchouksey/thats-my-college/services"
	"github.com/sahilchouksey/thats-my-college/services/cron"
	"github.com/sahilchouksey/thats-my-college/utils/auth"
	"github.com/sahilchouksey/thats-my-college/utils/cache"
	"github.com/sahilchouksey/thats-my-college/utils/logger"
	"github.com/sahilchouksey/thats-my-college/utils/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Bootstrap loads configuration and builds the logger every entry point needs
func Bootstrap() (*config.Config, *zap.Logger, error) {
	// Load ENV
	if err := config.LoadENV(); err != nil {
		return nil, nil, err
	}

	cfg, err := config.Get()
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(cfg.GoEnv, cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}

	return cfg, log, nil
}

// OpenDatabase connects to Postgres and runs migrations
func OpenDatabase(cfg *config.Config, log *zap.Logger) (*database.GORMStore, error) {
	store, err := database.StartGORM(cfg, log)
	if err != nil {
		log.Error("check whether Postgres is running and DATABASE_URL or DB_* are set")
		return nil, err
	}

	if err := store.Init(); err != nil {
		store.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return store, nil
}

// Repositories builds the GORM repositories over db
func Repositories(db *gorm.DB, blacklist *auth.BlacklistService) services.Repositories {
	return services.Repositories{
		Users:      repository.NewUserRepository(db),
		Colleges:   repository.NewCollegeRepository(db),
		Courses:    repository.NewCourseRepository(db),
		Admissions: repository.NewAdmissionRepository(db),
		Callbacks:  repository.NewCallbackRepository(db),
		Blacklist:  blacklist,
	}
}

func SetupAndRunServer() error {
	cfg, log, err := Bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	store, err := OpenDatabase(cfg, log)
	if err != nil {
		return err
	}
	defer store.Close()

	db := store.GetDB()
	blacklist := auth.NewBlacklistService(db)
	repos := Repositories(db, blacklist)

	// Redis backs brute force protection; without it logins are not throttled
	var attempts middleware.AttemptStore
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			log.Warn("redis unavailable, brute force protection disabled", zap.Error(err))
		} else {
			defer redisCache.Close()
			attempts = redisCache
		}
	} else {
		log.Info("REDIS_URL not set, brute force protection disabled")
	}

	// Kafka domain events
	var publisher queue.Publisher
	if producer := queue.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic, log); producer != nil {
		defer producer.Close()
		publisher = producer
	}
	events := queue.NewEventBus(publisher, log)

	svc := services.NewSet(
		repos,
		auth.NewJWTManager(auth.JWTConfigFrom(cfg)),
		auth.NewHasher(auth.DefaultCost),
		events,
		services.Options{
			CallbackLimit: cfg.CallbackRequestLimit,
			CallbackTTL:   cfg.CallbackRequestTTL(),
		},
		log,
	)

	// Cron jobs
	if cfg.CronEnabled {
		cronManager := cron.NewCronManager(db, log, cron.DefaultJobs(svc.Callbacks, svc.Courses, blacklist)...)
		if err := cronManager.Start(); err != nil {
			// Don't fail the app, just log the warning
			log.Warn("failed to start cron jobs", zap.Error(err))
		} else {
			defer cronManager.Stop()
		}
	}

	// Init API
	server := api.NewAPIServer(fmt.Sprintf(":%d", cfg.Port), log)

	router.SetupRoutes(server.GetEngine(), router.Dependencies{
		Config:     cfg,
		Log:        log,
		DB:         store,
		BruteForce: middleware.NewBruteForceProtection(attempts, log),
		Services:   svc,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return server.Run(ctx)
}
