package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/peerjury/peerjury-go-api/internal/config"
	"github.com/peerjury/peerjury-go-api/internal/database"
	"github.com/peerjury/peerjury-go-api/internal/handler"
	"github.com/peerjury/peerjury-go-api/internal/middleware"
	"github.com/peerjury/peerjury-go-api/internal/models"
	"github.com/peerjury/peerjury-go-api/internal/policy"
	"github.com/peerjury/peerjury-go-api/internal/repository"
	"github.com/peerjury/peerjury-go-api/internal/router"
	"github.com/peerjury/peerjury-go-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Deliverable{},
		&models.JuryAssignment{},
		&models.Evaluation{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	var events service.EventPublisher
	if cfg.NATSURL != "" {
		conn, err := nats.Connect(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer conn.Close()
		events = service.NewNATSEventPublisher(conn, "", logger)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	access := policy.New()

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	deliverableRepo := repository.NewDeliverableRepository(db)
	assignmentRepo := repository.NewJuryAssignmentRepository(db)
	evaluationRepo := repository.NewEvaluationRepository(db)

	authService := service.NewAuthService(userRepo, validate, cfg.JWTSecret, cfg.JWTTokenTTL, logger)
	projectService := service.NewProjectService(projectRepo, access, validate, logger)
	deliverableService := service.NewDeliverableService(deliverableRepo, projectRepo, access, events, validate, logger)
	juryService := service.NewJuryService(deliverableRepo, assignmentRepo, userRepo, access, events, service.JuryConfig{
		DefaultSize:       cfg.DefaultJurySize,
		PreventDuplicates: cfg.PreventDuplicateAssignment,
		RestrictSelection: cfg.RestrictSelectionToPendingOrOpen,
	}, logger, nil)
	evaluationService := service.NewEvaluationService(evaluationRepo, assignmentRepo, access, events, redisClient, validate, cfg.EditWindow, logger)
	gradingService := service.NewGradingService(deliverableRepo, projectRepo, assignmentRepo, evaluationRepo, access, redisClient, cfg.StatsCacheTTL, logger)

	authHandler := handler.NewAuthHandler(authService, logger)
	projectHandler := handler.NewProjectHandler(projectService, deliverableService, logger)
	deliverableHandler := handler.NewDeliverableHandler(deliverableService, juryService, gradingService, logger)
	juryHandler := handler.NewJuryHandler(juryService, logger)
	evaluationHandler := handler.NewEvaluationHandler(evaluationService, logger)
	professorHandler := handler.NewProfessorHandler(projectService, gradingService, access, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:        authHandler,
		ProjectHandler:     projectHandler,
		DeliverableHandler: deliverableHandler,
		JuryHandler:        juryHandler,
		EvaluationHandler:  evaluationHandler,
		ProfessorHandler:   professorHandler,
		JWTMiddleware:      middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
