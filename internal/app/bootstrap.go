package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"jobboard/internal/config"
	"jobboard/internal/delivery/http/handler"
	"jobboard/internal/delivery/http/middleware"
	"jobboard/internal/delivery/http/routes"
	v1 "jobboard/internal/delivery/http/routes/v1"
	"jobboard/internal/domain/user"
	"jobboard/internal/pkg/jwt"
	"jobboard/internal/usecase"
	"jobboard/internal/ws"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

type App struct {
	Fiber *fiber.App
}

// Deps is what the HTTP layer needs. Tests fill it with in-memory fakes.
type Deps struct {
	Jobs         usecase.JobUsecase
	Applications usecase.ApplicationUsecase
	Users        user.Repository
	Tokens       jwt.Service
	Hub          *ws.Hub
	DB           handler.Pinger
	Cache        handler.Pinger
	Logger       *zap.Logger
}

func New(cfg config.Config, d Deps) *App {
	f := fiber.New(fiber.Config{
		AppName:      cfg.App.AppName,
		BodyLimit:    cfg.App.RequestBodyLimit,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	})

	registerGlobalMiddleware(f, d.Logger)
	registerRoutes(f, d)

	return &App{Fiber: f}
}

// Bootstrap builds the container and the HTTP app on top of it.
func Bootstrap(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, *Container, error) {
	c, err := NewContainer(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}

	a := New(cfg, Deps{
		Jobs:         c.Jobs,
		Applications: c.Applications,
		Users:        c.UserRepo,
		Tokens:       c.Tokens,
		Hub:          c.Hub,
		DB:           c.DB,
		Cache:        c.Cache,
		Logger:       log,
	})
	return a, c, nil
}

func registerGlobalMiddleware(app *fiber.App, log *zap.Logger) {
	accessMw := middleware.NewAccessLogMiddleware(log)
	errMw := middleware.NewErrorMiddleware(log)

	app.Use(accessMw.Middleware())
	app.Use(errMw.Middleware())
}

func registerRoutes(app *fiber.App, d Deps) {
	auth := middleware.NewAuthMiddleware(d.Tokens, d.Users).Middleware()

	var wsHandler *ws.Handler
	if d.Hub != nil {
		wsHandler = ws.NewHandler(d.Hub, d.Logger)
	}

	routes.NewRegistry(
		handler.NewHealthHandler(d.DB, d.Cache),
		wsHandler,
		v1.Handlers{
			Jobs:         handler.NewJobsHandler(d.Jobs),
			Applications: handler.NewApplicationsHandler(d.Applications),
			Admin:        handler.NewAdminHandler(d.Jobs),
		},
		auth,
	).Register(app)
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
