package container

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"bloglist-backend/internal/config"
	infraCache "bloglist-backend/internal/infrastructure/cache"
	"bloglist-backend/internal/infrastructure/database"
	"bloglist-backend/internal/infrastructure/sqlstore"
	"bloglist-backend/internal/shared/auth"
	"bloglist-backend/pkg/cache"
	"bloglist-backend/pkg/jwt"

	"bloglist-backend/internal/domains/user"
	userHandler "bloglist-backend/internal/domains/user/handler"
	userRepo "bloglist-backend/internal/domains/user/repository"
	userService "bloglist-backend/internal/domains/user/service"

	"bloglist-backend/internal/domains/blog"
	blogHandler "bloglist-backend/internal/domains/blog/handler"
	blogRepo "bloglist-backend/internal/domains/blog/repository"
	blogService "bloglist-backend/internal/domains/blog/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container is the root of the dependency graph. Every field is built once
// at startup and shared by all requests.
type Container struct {
	// Infrastructure
	Config     *config.Config
	DB         *database.PostgresDB // nil when STORE_DRIVER=sqlite
	SQLite     *sql.DB              // nil when STORE_DRIVER=postgres
	Redis      *infraCache.RedisClient
	Cache      cache.Cache
	JWTManager *jwt.Manager
	Guard      *auth.Guard

	// Repositories
	UserRepo user.Repository
	BlogRepo blog.Repository

	// Services
	UserService user.Service
	BlogService blog.Service

	// Handlers
	UserHandler *userHandler.UserHandler
	BlogHandler *blogHandler.BlogHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer builds the graph in dependency order:
// store -> cache -> token manager -> repositories -> services -> handlers.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	if err := c.initStore(ctx); err != nil {
		c.Cleanup()
		return nil, err
	}

	c.initCache(ctx)

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTTL)

	c.initRepositories()
	c.initServices()
	c.initHandlers()

	log.Info().
		Str("env", cfg.App.Environment).
		Str("store", cfg.Store.Driver).
		Msg("DI container initialized")

	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initStore(ctx context.Context) error {
	cfg := c.Config

	if cfg.Store.Driver == config.DriverSQLite {
		db, err := sqlstore.Open(cfg.Store.SQLitePath)
		if err != nil {
			return fmt.Errorf("failed to open sqlite store: %w", err)
		}
		c.SQLite = db
		log.Info().Str("path", cfg.Store.SQLitePath).Msg("SQLite store opened")
		return nil
	}

	db := database.NewPostgresDB(cfg.DBConfig())

	connectCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	if err := db.Connect(connectCtx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		log.Info().Msg("Database migrations applied")
	}

	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}

// initCache connects Redis when enabled. Redis is not critical: on failure
// the app runs without a shared cache.
func (c *Container) initCache(ctx context.Context) {
	cfg := c.Config

	if !cfg.Redis.Enabled {
		c.Cache = cache.NewMemory()
		log.Info().Msg("Redis disabled, using in-process cache")
		return
	}

	rc := infraCache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := rc.Connect(ctx); err != nil {
		log.Warn().Err(err).Msg("Redis connection failed (non-critical), caching disabled")
		_ = rc.Close()
		c.Cache = cache.NewNoop()
		return
	}

	c.Redis = rc
	c.Cache = infraCache.NewRedisCache(rc, "bloglist:")
}

func (c *Container) initRepositories() {
	if c.SQLite != nil {
		c.UserRepo = userRepo.NewSQLiteRepository(c.SQLite)
		c.BlogRepo = blogRepo.NewSQLiteRepository(c.SQLite)
		return
	}

	c.UserRepo = userRepo.NewPostgresRepository(c.DB.Pool)
	c.BlogRepo = blogRepo.NewPostgresRepository(c.DB.Pool)
}

func (c *Container) initServices() {
	sec := c.Config.Security

	c.Guard = auth.NewGuard(c.JWTManager, c.UserRepo, c.Cache, sec.IdentityCacheTTL)

	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager, c.Cache, userService.Options{
		BcryptCost:       sec.BcryptCost,
		MaxLoginAttempts: sec.LoginMaxAttempts,
		LockoutWindow:    sec.LoginLockoutWindow,
		ListTTL:          sec.ListCacheTTL,
	})

	c.BlogService = blogService.NewBlogService(c.BlogRepo, c.Guard, c.Cache, sec.ListCacheTTL)
}

func (c *Container) initHandlers() {
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.BlogHandler = blogHandler.NewBlogHandler(c.BlogService)
}

// ========================================
// HELPER METHODS
// ========================================

// PingStore checks whichever store is configured.
func (c *Container) PingStore(ctx context.Context) error {
	if c.SQLite != nil {
		return c.SQLite.PingContext(ctx)
	}
	if c.DB != nil {
		return c.DB.Ping(ctx)
	}
	return fmt.Errorf("no store configured")
}

// Cleanup releases every resource. Safe on a partially built container.
func (c *Container) Cleanup() {
	if c.DB != nil {
		_ = c.DB.Close()
	}
	if c.SQLite != nil {
		if err := c.SQLite.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close SQLite store")
		}
		c.SQLite = nil
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis")
		}
		c.Redis = nil
	}
	log.Info().Msg("Container cleanup completed")
}
