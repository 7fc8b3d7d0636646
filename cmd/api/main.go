package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/dayplan/todo-service/internal/api/http"
	"github.com/dayplan/todo-service/internal/api/http/handlers"
	"github.com/dayplan/todo-service/internal/auth"
	"github.com/dayplan/todo-service/internal/config"
	"github.com/dayplan/todo-service/internal/domain"
	"github.com/dayplan/todo-service/internal/events"
	"github.com/dayplan/todo-service/internal/observability"
	"github.com/dayplan/todo-service/internal/persistence"
	"github.com/dayplan/todo-service/internal/repository"
	"github.com/dayplan/todo-service/internal/service"
	"github.com/dayplan/todo-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	roleRepo := repository.NewRoleRepository(pool)
	if err := roleRepo.Ensure(ctx, domain.RoleUser); err != nil {
		logger.Fatal("failed to ensure default role", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(pool)
	todoRepo := repository.NewTodoRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	guard := auth.NewOwnershipGuard()
	limiter := auth.NewLoginLimiter(redis.Client, logger, cfg.Auth.LoginAttemptLimit, cfg.Auth.LoginAttemptWindow())

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:   userRepo,
		Limiter:    limiter,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	accountService := service.NewAccountService(*cfg, userRepo, dispatcher, logger)
	todoService := service.NewTodoService(service.TodoDependencies{
		TodoRepo:     todoRepo,
		CategoryRepo: categoryRepo,
		Guard:        guard,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	categoryService := service.NewCategoryService(categoryRepo, guard)

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewMiddleware(authService.TokenManager(), userRepo)
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Account:        handlers.NewAccountHandler(accountService),
		Todos:          handlers.NewTodosHandler(todoService),
		Categories:     handlers.NewCategoriesHandler(categoryService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
