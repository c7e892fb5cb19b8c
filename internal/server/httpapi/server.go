// Package httpapi exposes the account and post services as a JSON API over
// fiber. It owns routing, bearer authentication, CORS, rate limiting of the
// auth endpoint and the mapping of service errors onto HTTP statuses.
package httpapi

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/dmitrijs2005/flatcms/internal/logging"
	"github.com/dmitrijs2005/flatcms/internal/server/posts"
	"github.com/dmitrijs2005/flatcms/internal/server/records"
	"github.com/dmitrijs2005/flatcms/internal/server/users"
)

const shutdownTimeout = 5 * time.Second

type UserService interface {
	Signup(ctx context.Context, email, password string) (*users.Session, error)
	Login(ctx context.Context, email, password string) (*users.Session, error)
}

type PostService interface {
	List(ctx context.Context, page, limit int) (records.Page[posts.Post], error)
	Stats(ctx context.Context) (posts.Stats, error)
	Get(ctx context.Context, slug string) (posts.Post, error)
	Save(ctx context.Context, slug string, in posts.Input, actor string) (string, error)
	Delete(ctx context.Context, slug, actor string) error
	RenderHTML(p posts.Post) (string, error)
}

type Options struct {
	Address    string
	SecretKey  string
	CORSOrigin string
	// AuthRateLimit caps requests per minute per client IP on /auth; zero
	// disables the limiter.
	AuthRateLimit int
}

type Server struct {
	address   string
	app       *fiber.App
	users     UserService
	posts     PostService
	logger    logging.Logger
	jwtSecret []byte
}

func NewServer(opts Options, l logging.Logger, us UserService, ps PostService) *Server {
	s := &Server{
		address:   opts.Address,
		users:     us,
		posts:     ps,
		logger:    l.With("module", "http_server"),
		jwtSecret: []byte(opts.SecretKey),
	}

	s.app = fiber.New(fiber.Config{
		ErrorHandler:          s.errorHandler,
		DisableStartupMessage: true,
	})

	origin := opts.CORSOrigin
	if origin == "" {
		origin = "*"
	}
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: origin,
		AllowHeaders: "Content-Type, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))
	s.app.Use(s.accessLog)
	s.app.Use(recover.New())

	s.routes(opts.AuthRateLimit)
	return s
}

func (s *Server) routes(authRateLimit int) {
	authHandlers := []fiber.Handler{}
	if authRateLimit > 0 {
		authHandlers = append(authHandlers, rateLimit(authRateLimit))
	}
	s.app.Post("/auth", append(authHandlers, s.handleAuth)...)

	s.app.Get("/blogs", s.handleListBlogs)
	s.app.Get("/blogs/:slug", s.handleGetBlog)
	s.app.Post("/blogs", s.requireAuth, s.handleCreateBlog)
	s.app.Put("/blogs/:slug", s.requireAuth, s.handleUpdateBlog)
	s.app.Delete("/blogs/:slug", s.requireAuth, s.handleDeleteBlog)
}

func rateLimit(perMinute int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        perMinute,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many requests"})
		},
	})
}

// Handler returns the fiber app, mainly for in-process testing.
func (s *Server) Handler() *fiber.App {
	return s.app
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		if err := s.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := s.app.Listen(s.address); err != nil {
		return err
	}
	return nil
}
