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
	"github.com/rs/zerolog"

	"github.com/csta-edu/enrollment-api/internal/config"
	"github.com/csta-edu/enrollment-api/internal/database"
	"github.com/csta-edu/enrollment-api/internal/handler"
	"github.com/csta-edu/enrollment-api/internal/middleware"
	"github.com/csta-edu/enrollment-api/internal/models"
	"github.com/csta-edu/enrollment-api/internal/repository"
	"github.com/csta-edu/enrollment-api/internal/router"
	"github.com/csta-edu/enrollment-api/internal/security"
	"github.com/csta-edu/enrollment-api/internal/service"
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

	if err := db.AutoMigrate(&models.User{}, &models.Student{}, &models.EnrollRequest{}, &models.AuditLog{}, &models.Program{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	validate := validator.New(validator.WithRequiredStructEnabled())
	hasher := security.NewBcryptHasher(cfg.BcryptCost)
	tokens := security.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)

	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	requestRepo := repository.NewEnrollRequestRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	requestService := service.NewRequestService(requestRepo, validate, redisClient, cfg.PendingCacheTTL, logger)
	enrollmentService := service.NewEnrollmentService(db, requestRepo, userRepo, studentRepo, auditRepo, hasher, redisClient, logger)
	authService := service.NewAuthService(userRepo, hasher, tokens, validate, logger)
	studentService := service.NewStudentService(userRepo, studentRepo, logger)
	auditService := service.NewAuditService(auditRepo, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		EnrollHandler:      handler.NewEnrollHandler(requestService, logger),
		AdminEnrollHandler: handler.NewAdminEnrollHandler(requestService, enrollmentService, logger),
		AdminAuditHandler:  handler.NewAdminAuditHandler(auditService, logger),
		AuthHandler:        handler.NewAuthHandler(authService, logger),
		StudentHandler:     handler.NewStudentHandler(studentService, logger),
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
