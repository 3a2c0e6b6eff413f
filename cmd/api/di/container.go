package di

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"library-management-service/cmd/api/infrastructure"
	"library-management-service/internal/adapter/cache"
	"library-management-service/internal/adapter/db/postgres"
	ginhandler "library-management-service/internal/adapter/gin/handler"
	"library-management-service/internal/adapter/gin/middleware"
	"library-management-service/internal/adapter/repository/cached"
	"library-management-service/internal/config"
	"library-management-service/internal/usecase/auth"
	"library-management-service/internal/usecase/book"
	redisclient "library-management-service/pkg/redis"
	"library-management-service/pkg/token"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	DB          *gorm.DB
	RedisClient *redisclient.Client
	AuthUC      *auth.Usecase
	BookUC      *book.Usecase
	AuthHandler *ginhandler.AuthHandler
	BookHandler *ginhandler.BookHandler
	RateLimit   middleware.RateLimiterConfig
}

// NewContainer creates and initializes all application dependencies
func NewContainer(cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Initialize database
	db, err := infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize Redis client
	rdb, err := infrastructure.NewRedisClient(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}

	// Initialize cache layer
	bookCache := cache.NewRedisBookCache(
		rdb.Client,
		time.Duration(cfg.Redis.CacheTTL)*time.Second,
		l,
	)

	// Initialize repositories
	userRepo := postgres.NewUserRepoPG(db, l)
	bookRepo := cached.NewCachedBookRepository(postgres.NewBookRepoPG(db, l), bookCache, l)

	// Initialize token maker
	tokenMaker := token.NewMaker(
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.TokenTTLHours)*time.Hour,
		cfg.Auth.TokenIssuer,
	)

	// Initialize use cases
	authUC := auth.New(userRepo, tokenMaker, l)
	bookUC := book.New(bookRepo, l)

	// Initialize Gin handlers
	authHandler := ginhandler.NewAuthHandler(authUC, l)
	bookHandler := ginhandler.NewBookHandler(bookUC, l)

	return &Container{
		Config:      cfg,
		Logger:      l,
		DB:          db,
		RedisClient: rdb,
		AuthUC:      authUC,
		BookUC:      bookUC,
		AuthHandler: authHandler,
		BookHandler: bookHandler,
		RateLimit: middleware.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstCapacity:     cfg.RateLimit.BurstCapacity,
			Enabled:           cfg.RateLimit.Enabled,
		},
	}, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	// Close Redis connection
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	// Close database connection
	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("container close errors: %v", errs)
	}

	return nil
}
