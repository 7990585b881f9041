// Package server contains the HTTP layer: route wiring and handlers.
package server

import (
	"context"
	"fmt"
	"time"

	"bonds/internal/auth"
	"bonds/internal/cache"
	"bonds/internal/config"
	"bonds/internal/database"
	"bonds/internal/middleware"
	"bonds/internal/notifications"
	"bonds/internal/repository"
	"bonds/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	tokens         *auth.TokenIssuer
	promMiddleware *fiberprometheus.FiberPrometheus

	userRepo repository.UserRepository
	postRepo repository.PostRepository
	likeRepo repository.LikeRepository

	queue       *notifications.Queue
	userService *service.UserService
	postService *service.PostService
	likeService *service.LikeService
}

// NewServer creates a new server instance with all dependencies.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	tokens, err := auth.NewTokenIssuerFromFiles(
		cfg.JWTPrivateKeyPath,
		cfg.JWTPublicKeyPath,
		time.Duration(cfg.TokenTTLMinutes)*time.Minute,
	)
	if err != nil {
		return nil, fmt.Errorf("token issuer setup failed: %w", err)
	}

	return NewServerWithDeps(cfg, db, redisClient, tokens), nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis itself.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, tokens *auth.TokenIssuer) *Server {
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	likeRepo := repository.NewLikeRepository(db)

	queue := notifications.NewQueue(redisClient)

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		tokens:         tokens,
		promMiddleware: nil,
		userRepo:       userRepo,
		postRepo:       postRepo,
		likeRepo:       likeRepo,
		queue:          queue,
	}
	s.userService = service.NewUserService(userRepo)
	s.postService = service.NewPostService(postRepo)
	s.likeService = service.NewLikeService(likeRepo, postRepo, userRepo, queue, middleware.Logger)

	return s
}

// SetupMiddleware configures middleware for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:8000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Set-Cookie",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetMetrics attaches the Prometheus HTTP middleware. Call before
// SetupMiddleware.
func (s *Server) SetMetrics(prom *fiberprometheus.FiberPrometheus) {
	s.promMiddleware = prom
}

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	users := app.Group("/users")
	users.Post("/regdata", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "regdata"), s.Register)
	users.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	users.Get("/logout", s.Logout)
	users.Get("/protected-route", s.AuthRequired(), s.ProtectedRoute)

	posts := app.Group("/posts")
	posts.Get("/", s.GetPosts)
	posts.Get("/:id", s.GetPost)
	posts.Post("/", s.AuthRequired(), s.CreatePost)
	posts.Delete("/:id", s.AuthRequired(), s.DeletePost)
	posts.Get("/:id/likes", s.GetLikeCount)
	posts.Post("/:id/likes", s.AuthRequired(), s.AddLike)
	posts.Delete("/:id/likes", s.AuthRequired(), s.RemoveLike)
}

// Shutdown releases server-held resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			return err
		}
	}
	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err == nil {
			return sqlDB.Close()
		}
	}
	return nil
}
