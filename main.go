package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"photoshare/internal/cache"
	"photoshare/internal/config"
	"photoshare/internal/handlers"
	"photoshare/internal/middleware"
	"photoshare/internal/models"
	"photoshare/internal/repositories"
	"photoshare/internal/services"
	"photoshare/internal/storage"
	"photoshare/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()
	logger := zapLogger.Sugar()

	// --- Database ---
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		logger.Fatalw("failed to connect to database", "error", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Image{}, &models.Tag{}, &models.Comment{}); err != nil {
		logger.Fatalw("failed to run migrations", "error", err)
	}

	// --- Session cache ---
	// The cache is optional: when redis is unreachable the API still works,
	// every identity resolution just hits the database.
	var userCache *cache.UserCache
	redisClient, err := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Warnw("redis unavailable, running without session cache", "error", err)
	} else {
		userCache = cache.NewUserCache(redisClient, cfg.CacheTTL, logger)
	}

	// --- Media store ---
	store, err := storage.NewMinIOMediaStore(cfg)
	if err != nil {
		logger.Fatalw("failed to initialize media store", "error", err)
	}

	// --- Message queue ---
	// Also optional: without it, confirmation mails are skipped with a log
	// line instead of failing signups.
	var mqClient *rabbitmq.Client
	mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
	if err != nil {
		logger.Warnw("RabbitMQ unavailable, confirmation mails disabled", "error", err)
		mqClient = nil
	} else {
		defer mqClient.Close()
	}

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db, logger)
	imageRepo := repositories.NewGORMImageRepository(db)
	tagRepo := repositories.NewGORMTagRepository(db)
	commentRepo := repositories.NewGORMCommentRepository(db)

	// --- Services ---
	authService := services.NewAuthService(userRepo, userCache, cfg.JWTSecret,
		cfg.AccessTTL, cfg.RefreshTTL, cfg.EmailTTL, logger)
	emailService := services.NewEmailService(mqClient, authService, cfg, logger)
	userService := services.NewUserService(userRepo, store, authService, logger)
	imageService := services.NewImageService(imageRepo, tagRepo, store, logger)
	tagService := services.NewTagService(tagRepo)
	commentService := services.NewCommentService(commentRepo, imageRepo)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService, emailService, logger)
	userHandler := handlers.NewUserHandler(userService, logger)
	imageHandler := handlers.NewImageHandler(imageService, logger)
	tagHandler := handlers.NewTagHandler(tagService, logger)
	commentHandler := handlers.NewCommentHandler(commentService, logger)

	// --- Fiber app ---
	app := fiber.New()
	app.Use(fiberlogger.New())

	api := app.Group("/api")
	authRequired := middleware.AuthRequired(authService)

	authHandler.RegisterRoutes(api)
	userHandler.RegisterRoutes(api, authRequired)
	imageHandler.RegisterRoutes(api, authRequired)
	tagHandler.RegisterRoutes(api, authRequired)
	commentHandler.RegisterRoutes(api, authRequired)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	// --- Email consumer ---
	if mqClient != nil {
		if err := mqClient.ConsumeEmailEvents(emailService.HandleEmailJob); err != nil {
			logger.Errorw("failed to start email consumer", "error", err)
		}
	}

	// --- Start HTTP server ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Infow("starting server", "port", cfg.AppPort)
		if err := app.Listen(cfg.AppPort); err != nil {
			logger.Fatalw("server failed to start", "error", err)
		}
	}()

	<-quit
	logger.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		logger.Errorw("error during shutdown", "error", err)
	}
	logger.Info("server stopped")
}
