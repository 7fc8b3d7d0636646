package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dayplan/todo-service/internal/api/dto"
	"github.com/dayplan/todo-service/internal/auth"
	"github.com/dayplan/todo-service/internal/domain"
	"github.com/dayplan/todo-service/internal/service"
	apperrors "github.com/dayplan/todo-service/pkg/util"
)

// TodosHandler manages todo endpoints.
type TodosHandler struct {
	service *service.TodoService
}

// NewTodosHandler constructs handler.
func NewTodosHandler(todoService *service.TodoService) *TodosHandler {
	return &TodosHandler{service: todoService}
}

// CreateTodo handles POST /todos.
func (h *TodosHandler) CreateTodo(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	req, input, err := parseTodoRequest(c)
	if err != nil {
		return err
	}
	if req.CategoryID == "" {
		return apperrors.NewValidationError("category_id required", nil)
	}

	todo, err := h.service.Create(c.Context(), principal.User.ID, service.TodoCreateInput{
		CategoryID:  req.CategoryID,
		Title:       input.Title,
		Description: input.Description,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": todoResponse(todo)})
}

// UpdateTodo handles PUT /todos/:id.
func (h *TodosHandler) UpdateTodo(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	req, input, err := parseTodoRequest(c)
	if err != nil {
		return err
	}
	input.CategoryID = req.CategoryID
	input.Done = req.Done

	todo, err := h.service.Update(c.Context(), principal.User.ID, c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": todoResponse(todo)})
}

// GetTodo handles GET /todos/:id.
func (h *TodosHandler) GetTodo(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	todo, err := h.service.Get(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": todoResponse(todo)})
}

// DeleteTodo handles DELETE /todos/:id.
func (h *TodosHandler) DeleteTodo(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.service.Delete(c.Context(), principal.User.ID, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "deleted"}})
}

// ListToday handles GET /todos/today.
func (h *TodosHandler) ListToday(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	todos, err := h.service.ListForToday(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": todoResponses(todos)})
}

// ListByCategory handles GET /todos/category/:id.
func (h *TodosHandler) ListByCategory(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	todos, err := h.service.ListByCategory(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": todoResponses(todos)})
}

// ListDue handles GET /todos/due.
func (h *TodosHandler) ListDue(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	todos, err := h.service.ListDue(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": todoResponses(todos)})
}

func parseTodoRequest(c *fiber.Ctx) (dto.TodoRequest, service.TodoUpdateInput, error) {
	var req dto.TodoRequest
	if err := c.BodyParser(&req); err != nil {
		return req, service.TodoUpdateInput{}, apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Title == "" || req.StartDate == "" || req.EndDate == "" {
		return req, service.TodoUpdateInput{}, apperrors.NewValidationError("title, start_date, end_date required", nil)
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return req, service.TodoUpdateInput{}, apperrors.NewValidationError("start_date must be YYYY-MM-DD", nil)
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return req, service.TodoUpdateInput{}, apperrors.NewValidationError("end_date must be YYYY-MM-DD", nil)
	}
	if endDate.Before(startDate) {
		return req, service.TodoUpdateInput{}, apperrors.NewValidationError("end_date must not precede start_date", nil)
	}

	startTime, err := parseOptionalTime(req.StartTime)
	if err != nil {
		return req, service.TodoUpdateInput{}, apperrors.NewValidationError("start_time must be RFC 3339", nil)
	}
	endTime, err := parseOptionalTime(req.EndTime)
	if err != nil {
		return req, service.TodoUpdateInput{}, apperrors.NewValidationError("end_time must be RFC 3339", nil)
	}

	return req, service.TodoUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   startDate,
		EndDate:     endDate,
		StartTime:   startTime,
		EndTime:     endTime,
	}, nil
}

func parseOptionalTime(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func todoResponse(todo *domain.Todo) dto.TodoResponse {
	resp := dto.TodoResponse{
		ID:          todo.ID,
		CategoryID:  todo.CategoryID,
		Title:       todo.Title,
		Description: todo.Description,
		StartDate:   todo.StartDate.Format(dateLayout),
		EndDate:     todo.EndDate.Format(dateLayout),
		Done:        todo.Done,
	}
	if todo.StartTime != nil {
		resp.StartTime = todo.StartTime.Format(time.RFC3339)
	}
	if todo.EndTime != nil {
		resp.EndTime = todo.EndTime.Format(time.RFC3339)
	}
	return resp
}

func todoResponses(todos []domain.Todo) []dto.TodoResponse {
	items := make([]dto.TodoResponse, 0, len(todos))
	for i := range todos {
		items = append(items, todoResponse(&todos[i]))
	}
	return items
}
