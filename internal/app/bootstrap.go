package app

import (
	"fmt"
	"log"
	"strings"

	"job-portal/internal/config"
	"job-portal/internal/delivery/http/handler"
	"job-portal/internal/delivery/http/middleware"
	"job-portal/internal/delivery/http/routes"
	v1 "job-portal/internal/delivery/http/routes/v1"
	"job-portal/internal/pkg/validate"
	"job-portal/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
)

type App struct {
	Fiber *fiber.App
}

func New(cfg config.Config, c *Container) *App {
	bodyLimit := 4 << 20
	if cfg.Upload.MaxBytes > 0 {
		bodyLimit = int(cfg.Upload.MaxBytes) + 1<<20
	}

	f := fiber.New(fiber.Config{
		AppName:         cfg.App.AppName,
		BodyLimit:       bodyLimit,
		StructValidator: validate.New(),
	})

	registerGlobalMiddleware(f, cfg, c.Logger)
	registerRoutes(f, cfg, c)

	return &App{Fiber: f}
}

func Bootstrap(cfg config.Config) (*App, func() error, error) {
	logger := log.New(log.Writer(), "", log.LstdFlags|log.Lmicroseconds)

	c, err := NewContainer(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	app := New(cfg, c)
	return app, c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, cfg config.Config, logger *log.Logger) {
	if app == nil {
		return
	}

	app.Use(corsMiddleware(cfg.CORS))

	accessMw := middleware.NewAccessLogMiddleware(logger, "/health")
	app.Use(accessMw.Middleware())

	errMw := middleware.NewErrorMiddleware(logger)
	app.Use(errMw.Middleware())
}

func corsMiddleware(cfg config.CORSConfig) fiber.Handler {
	if len(cfg.AllowedOrigins) == 0 {
		return cors.New()
	}
	return cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: true,
	})
}

func registerRoutes(app *fiber.App, cfg config.Config, c *Container) {
	if app == nil || c == nil {
		return
	}

	authMw := middleware.NewAuthMiddleware(c.Auth)

	var cachePinger handler.Pinger
	if c.Cache.Available() {
		cachePinger = c.Cache
	}

	registry := routes.NewRegistry(
		handler.NewHealthHandler(c.DB, cachePinger),
		v1.Handlers{
			Auth:      authMw.Middleware(),
			UserIDKey: middleware.CtxUserIDKey,
			Users: handler.NewAuthHandler(c.Auth, handler.CookieOptions{
				Secure: cfg.Cookie.Secure,
				MaxAge: cfg.JWT.ExpiresIn,
			}),
			Profile:      handler.NewUserHandler(c.Users),
			Companies:    handler.NewCompanyHandler(c.Companies),
			Jobs:         handler.NewJobHandler(c.Jobs),
			Applications: handler.NewApplicationHandler(c.Applications),
			WS:           ws.NewHandler(c.Hub, cfg.CORS.AllowedOrigins, c.Logger),
		},
	)
	registry.Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
