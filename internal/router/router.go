package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/peerjury/peerjury-go-api/internal/config"
	"github.com/peerjury/peerjury-go-api/internal/handler"
	"github.com/peerjury/peerjury-go-api/internal/middleware"
	"github.com/peerjury/peerjury-go-api/internal/models"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler        *handler.AuthHandler
	ProjectHandler     *handler.ProjectHandler
	DeliverableHandler *handler.DeliverableHandler
	JuryHandler        *handler.JuryHandler
	EvaluationHandler  *handler.EvaluationHandler
	ProfessorHandler   *handler.ProfessorHandler
	JWTMiddleware      fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		auth := api.Group("/auth")
		deps.AuthHandler.Register(auth)
		deps.AuthHandler.RegisterProtected(auth.Group("", jwtMiddleware))
	}

	if deps.ProjectHandler != nil {
		projects := api.Group("/projects", jwtMiddleware)
		deps.ProjectHandler.Register(projects)
	}

	if deps.DeliverableHandler != nil {
		deliverables := api.Group("/deliverables", jwtMiddleware)
		deps.DeliverableHandler.Register(deliverables)
	}

	if deps.JuryHandler != nil {
		jury := api.Group("/jury", jwtMiddleware)
		deps.JuryHandler.Register(jury)
	}

	if deps.EvaluationHandler != nil {
		evaluations := api.Group("/evaluations", jwtMiddleware)
		deps.EvaluationHandler.Register(evaluations)
	}

	if deps.ProfessorHandler != nil {
		professor := api.Group("/professor", jwtMiddleware, middleware.RequireRole(models.RoleProfessor))
		deps.ProfessorHandler.Register(professor)
	}
}
