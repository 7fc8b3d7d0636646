package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dayplan/todo-service/internal/api/http/handlers"
	"github.com/dayplan/todo-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Account        *handlers.AccountHandler
	Todos          *handlers.TodosHandler
	Categories     *handlers.CategoriesHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/refresh", cfg.Auth.Refresh)

	account := app.Group("/account")
	account.Post("/reactivate", cfg.Account.Reactivate)

	accountProtected := account.Group("", cfg.AuthMiddleware.Handle)
	accountProtected.Get("/profile", cfg.Account.GetProfile)
	accountProtected.Put("/profile", cfg.Account.UpdateProfile)
	accountProtected.Post("/password/change", cfg.Account.ChangePassword)
	accountProtected.Post("/deactivate", cfg.Account.Deactivate)
	accountProtected.Delete("/", cfg.Account.Delete)

	todos := app.Group("/todos", cfg.AuthMiddleware.Handle)
	todos.Post("/", cfg.Todos.CreateTodo)
	todos.Get("/today", cfg.Todos.ListToday)
	todos.Get("/due", cfg.Todos.ListDue)
	todos.Get("/category/:id", cfg.Todos.ListByCategory)
	todos.Get("/:id", cfg.Todos.GetTodo)
	todos.Put("/:id", cfg.Todos.UpdateTodo)
	todos.Delete("/:id", cfg.Todos.DeleteTodo)

	categories := app.Group("/categories", cfg.AuthMiddleware.Handle)
	categories.Post("/", cfg.Categories.CreateCategory)
	categories.Get("/", cfg.Categories.ListCategories)
	categories.Get("/:id", cfg.Categories.GetCategory)
	categories.Put("/:id", cfg.Categories.UpdateCategory)
	categories.Delete("/:id", cfg.Categories.DeleteCategory)
}
