// @title StudyHall API
// @version 1.0
// @description Quiz scoring and mastery tracking API for the StudyHall platform.
// @host localhost:8090
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"studyhall/internal/adapter"
	"studyhall/internal/cache"
	"studyhall/internal/config"
	"studyhall/internal/database"
	"studyhall/internal/domain"
	"studyhall/internal/handler"
	"studyhall/internal/logger"
	"studyhall/internal/middleware"
	"studyhall/internal/repository"
	"studyhall/internal/service"

	_ "studyhall/cmd/api/docs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)

		return err
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Connect to database
	db, err := database.NewSQLXOracleDB(cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Redis is optional; without it the analysis service reads straight
	// from the repositories.
	var cacheAdapter domain.Cache
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		cacheAdapter = adapter.NewRedisCacheAdapter(redisClient)
		appLogger.Info("Successfully connected to Redis")
	} else {
		appLogger.Warn("Redis is not configured. Running without cache.")
	}

	// Initialize repositories
	clock := domain.SystemClock{}
	quizRepo := repository.NewSQLXQuizRepository(db, clock)
	resultRepo := repository.NewSQLXQuizResultRepository(db, clock)
	targetRepo := repository.NewSQLXLearningTargetRepository(db, clock)
	courseRepo := repository.NewSQLXCourseRepository(db, clock)
	userRepo := repository.NewSQLXUserRepository(db, clock)
	txManager := repository.NewTransactionManagerAdapter(db)

	// Initialize services
	targetUpdater := service.NewTargetUpdater(targetRepo, cfg.Targets.MaxRetries, cfg.Targets.RetryBaseDelay, appLogger)
	quizService := service.NewQuizService(quizRepo, resultRepo, targetUpdater, clock, appLogger)
	analysisService := service.NewAnalysisService(targetRepo, resultRepo, cacheAdapter, cfg.Analysis.CacheTTL, cfg.Analysis.RecentQuizzes, appLogger)
	courseService := service.NewCourseService(courseRepo, quizRepo, resultRepo, targetRepo, txManager, clock, appLogger)

	authService, err := service.NewAuthService(userRepo, cfg, clock, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}
	appLogger.Info("AuthService initialized")

	// Initialize handlers
	quizHandler := handler.NewQuizHandler(quizService)
	analysisHandler := handler.NewAnalysisHandler(analysisService)
	courseHandler := handler.NewCourseHandler(courseService)
	authHandler := handler.NewAuthHandler(authService, cfg)
	validationMw := middleware.NewValidationMiddleware()

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,PUT,DELETE,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept,Authorization", MaxAge: 300}))
	app.Use(recover.New())

	app.Get("/swagger/*", swagger.HandlerDefault)

	// API group
	apiGroup := app.Group("/api")

	// Auth routes
	authGroup := apiGroup.Group("/auth")
	authGroup.Get("/google/login", authHandler.GoogleLogin)
	authGroup.Get("/google/callback", authHandler.GoogleCallback)
	authGroup.Post("/refresh", authHandler.RefreshToken)
	authGroup.Post("/logout", middleware.Protected(authService), authHandler.Logout)

	// User routes
	apiGroup.Get("/users/me", middleware.Protected(authService), authHandler.GetProfile)

	// Quiz routes
	apiGroup.Get("/quizzes/:id", middleware.OptionalAuth(authService), validationMw.ValidateIDParam("id"), quizHandler.GetQuiz)
	apiGroup.Post("/quizzes/:id/submit", middleware.Protected(authService), validationMw.ValidateIDParam("id"), quizHandler.SubmitQuiz)

	// Course routes
	apiGroup.Get("/courses", courseHandler.ListCourses)
	apiGroup.Post("/courses", middleware.Protected(authService), courseHandler.CreateCourse)
	apiGroup.Get("/courses/:id", validationMw.ValidateIDParam("id"), courseHandler.GetCourse)
	apiGroup.Delete("/courses/:id", middleware.Protected(authService), validationMw.ValidateIDParam("id"), courseHandler.DeleteCourse)
	apiGroup.Get("/courses/:id/quizzes", validationMw.ValidateIDParam("id"), quizHandler.GetQuizzesByCourse)

	// Dashboard routes (all protected)
	dashboardGroup := apiGroup.Group("/dashboard", middleware.Protected(authService))
	dashboardGroup.Get("/", analysisHandler.GetDashboard)
	dashboardGroup.Get("/distribution", analysisHandler.GetStatusDistribution)

	// Start server
	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", os.Getenv("ENV")))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
