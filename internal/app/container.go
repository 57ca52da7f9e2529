package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"job-portal/internal/config"
	"job-portal/internal/database"
	"job-portal/internal/database/migration"
	dbpostgres "job-portal/internal/database/postgres"
	"job-portal/internal/infrastructure/cache"
	"job-portal/internal/infrastructure/mail"
	"job-portal/internal/infrastructure/storage"
	"job-portal/internal/pkg/jwt"
	"job-portal/internal/repository"
	"job-portal/internal/upload"
	appuc "job-portal/internal/usecase/application"
	authuc "job-portal/internal/usecase/auth"
	companyuc "job-portal/internal/usecase/company"
	jobuc "job-portal/internal/usecase/job"
	useruc "job-portal/internal/usecase/user"
	"job-portal/internal/ws"
)

// Container owns the long-lived dependencies and the use cases built on them.
type Container struct {
	Config config.Config
	Logger *log.Logger

	DB    database.DB
	Cache *cache.Redis
	Hub   *ws.Hub

	Auth         *authuc.Service
	Users        *useruc.Service
	Companies    *companyuc.Service
	Jobs         *jobuc.Service
	Applications *appuc.Service

	stopHub context.CancelFunc
}

func NewContainer(cfg config.Config, logger *log.Logger) (*Container, error) {
	if logger == nil {
		logger = log.Default()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if cfg.App.MigrationsAuto {
		runner := migration.Runner{FS: migration.Embedded(), Logger: logger}
		if err := runner.Run(ctx, db.SQLDB()); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	redis := cache.NewRedis(cfg.Redis, logger)

	var store upload.ObjectStore
	if s, err := storage.NewSupabaseStore(cfg.Storage); err != nil {
		logger.Printf("[Storage] %v, uploads disabled", err)
		store = storage.Disabled{}
	} else {
		store = s
	}
	pipeline := upload.NewPipeline(store, cfg.Upload, logger)
	mailer := mail.NewSMTPMailer(cfg.SMTP, logger)

	hubCtx, stopHub := context.WithCancel(context.Background())
	hub := ws.NewHub(logger)
	go hub.Run(hubCtx)

	userRepo := repository.NewPostgresUserRepository(db)
	companyRepo := repository.NewPostgresCompanyRepository(db)
	jobRepo := repository.NewPostgresJobRepository(db)
	applicationRepo := repository.NewPostgresApplicationRepository(db)

	tokens := jwt.NewHMACService(cfg.JWT.Secret, cfg.JWT.ExpiresIn)

	authOpts := authuc.Options{
		Uploads: pipeline,
		Mailer:  mailer,
		OTPTTL:  cfg.Auth.OTPTTL,
		Logger:  logger,
	}
	if redis.Available() {
		authOpts.Sessions = redis
	}

	var searchCache jobuc.SearchCache
	var searches jobuc.SearchInvalidator
	if redis.Available() {
		searchCache = redis
		searches = redis
	}

	return &Container{
		Config: cfg,
		Logger: logger,
		DB:     db,
		Cache:  redis,
		Hub:    hub,

		Auth:      authuc.NewService(userRepo, tokens, authOpts),
		Users:     useruc.NewService(userRepo, pipeline, logger),
		Companies: companyuc.NewService(companyRepo, pipeline, searches, logger),
		Jobs:      jobuc.NewService(jobRepo, companyRepo, userRepo, searchCache, cfg.Redis.TTL, logger),
		Applications: appuc.NewService(applicationRepo, jobRepo, appuc.Options{
			Notifier:   hub,
			Searches:   searches,
			OwnerCheck: cfg.Auth.ApplicationStatusOwnerCheck,
			Logger:     logger,
		}),

		stopHub: stopHub,
	}, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.stopHub != nil {
		c.stopHub()
	}
	if err := c.Cache.Close(); err != nil {
		c.Logger.Printf("[Cache] close error: %v", err)
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
