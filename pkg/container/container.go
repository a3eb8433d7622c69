package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"library-api/internal/config"
	"library-api/internal/domains/author"
	authorHandler "library-api/internal/domains/author/handler"
	authorRepo "library-api/internal/domains/author/repository"
	authorService "library-api/internal/domains/author/service"
	"library-api/internal/domains/book"
	bookHandler "library-api/internal/domains/book/handler"
	bookRepo "library-api/internal/domains/book/repository"
	bookService "library-api/internal/domains/book/service"
	infraCache "library-api/internal/infrastructure/cache"
	"library-api/internal/infrastructure/database"
	"library-api/internal/infrastructure/memstore"
	"library-api/internal/shared/permission"
	"library-api/pkg/cache"
	"library-api/pkg/jwt"
)

// Container holds every dependency of the application and is the root of
// the dependency graph. Initialization order matters: config, then
// infrastructure, then repositories, services, handlers.
type Container struct {
	// Infrastructure - singletons shared across domains.
	Config     *config.Config
	DB         *database.PostgresDB // nil when running on the in-memory store
	Cache      cache.Cache          // nil when Redis is disabled
	JWTManager *jwt.Manager
	Gate       permission.Gate

	// Repositories
	AuthorRepo author.Repository
	BookRepo   book.Repository

	// Services
	AuthorService author.Service
	BookService   book.Service

	// Handlers
	AuthorHandler *authorHandler.AuthorHandler
	BookHandler   *bookHandler.BookHandler
}

// NewContainer builds and initializes the whole dependency graph.
func NewContainer() (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("config loaded (environment: %s, store: %s)", cfg.App.Environment, cfg.App.StoreDriver)

	if cfg.App.StoreDriver == config.StoreDriverPostgres {
		if err := c.initPostgres(); err != nil {
			return nil, err
		}
		c.initRedis()
	}

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret)

	// The gate is built once and passed into route setup; every route names
	// the capability it requires explicitly.
	if cfg.App.RoleOverlay {
		c.Gate = permission.NewGateWithRoles()
	} else {
		c.Gate = permission.NewGate()
	}

	c.initRepositories()
	c.initServices()
	c.initHandlers()

	log.Println("container initialized")
	return c, nil
}

func (c *Container) initPostgres() error {
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(context.Background()); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	c.DB = db
	log.Println("database connected")
	return nil
}

func (c *Container) initRedis() {
	if !c.Config.Redis.Enabled {
		return
	}

	client := infraCache.NewRedisClient(
		c.Config.Redis.Host,
		c.Config.Redis.Password,
		c.Config.Redis.DB,
	)

	// Redis failure is non-critical: repositories fall back to the database.
	if err := client.Connect(context.Background()); err != nil {
		log.Printf("redis connection failed (non-critical): %v", err)
		return
	}

	c.Cache = client
	log.Println("redis connected")
}

func (c *Container) initRepositories() {
	if c.Config.App.StoreDriver == config.StoreDriverMemory {
		store := memstore.New()
		c.AuthorRepo = store.Authors()
		c.BookRepo = store.Books()
		return
	}

	c.AuthorRepo = authorRepo.NewPostgresRepository(c.DB.Pool, c.Cache)
	c.BookRepo = bookRepo.NewPostgresRepository(c.DB.Pool)
}

func (c *Container) initServices() {
	c.AuthorService = authorService.NewAuthorService(c.AuthorRepo, c.BookRepo)
	c.BookService = bookService.NewBookService(c.BookRepo, c.AuthorRepo)
}

func (c *Container) initHandlers() {
	c.AuthorHandler = authorHandler.NewAuthorHandler(c.AuthorService)
	c.BookHandler = bookHandler.NewBookHandler(c.BookService)
}

// Cleanup releases infrastructure resources on shutdown.
func (c *Container) Cleanup() {
	if c.DB != nil {
		c.DB.Close()
	}
	if closer, ok := c.Cache.(*infraCache.RedisClient); ok && closer != nil {
		_ = closer.Close()
	}
}
