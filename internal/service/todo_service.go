package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dayplan/todo-service/internal/auth"
	"github.com/dayplan/todo-service/internal/domain"
	"github.com/dayplan/todo-service/internal/events"
	"github.com/dayplan/todo-service/internal/repository"
	apperrors "github.com/dayplan/todo-service/pkg/util"
)

// TodoService coordinates todo workflows. Every mutating or single-record
// operation runs the ownership guard before touching the resource; list
// operations are scoped to the owner by the repository query itself.
type TodoService struct {
	todos      repository.TodoRepository
	categories repository.CategoryRepository
	guard      *auth.OwnershipGuard
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TodoDependencies bundles collaborators for todo service.
type TodoDependencies struct {
	TodoRepo     repository.TodoRepository
	CategoryRepo repository.CategoryRepository
	Guard        *auth.OwnershipGuard
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// TodoCreateInput describes todo creation payload.
type TodoCreateInput struct {
	CategoryID  string
	Title       string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	StartTime   *time.Time
	EndTime     *time.Time
}

// TodoUpdateInput describes todo update payload.
type TodoUpdateInput struct {
	CategoryID  string
	Title       string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	StartTime   *time.Time
	EndTime     *time.Time
	Done        bool
}

// NewTodoService constructs the service.
func NewTodoService(deps TodoDependencies) *TodoService {
	return &TodoService{
		todos:      deps.TodoRepo,
		categories: deps.CategoryRepo,
		guard:      deps.Guard,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// Create creates a todo for the subject inside one of their categories.
// The category ownership check runs first: placing a todo into someone
// else's category is a denial, not a validation error.
func (s *TodoService) Create(ctx context.Context, subjectID string, input TodoCreateInput) (*domain.Todo, error) {
	if err := s.guard.Require(ctx, input.CategoryID, subjectID, s.categories.GetOwnerID); err != nil {
		return nil, err
	}

	todo := &domain.Todo{
		OwnerID:     subjectID,
		CategoryID:  input.CategoryID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
	}
	if err := s.todos.Create(ctx, todo); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventTodoCreated,
		SubjectID: subjectID,
		Payload: events.TodoCreatedPayload{
			TodoID:     todo.ID,
			CategoryID: todo.CategoryID,
			Title:      todo.Title,
		},
	})
	return todo, nil
}

// Update rewrites a todo the subject owns. Moving the todo into another
// category re-checks ownership of the target category.
func (s *TodoService) Update(ctx context.Context, subjectID, todoID string, input TodoUpdateInput) (*domain.Todo, error) {
	if err := s.guard.Require(ctx, todoID, subjectID, s.todos.GetOwnerID); err != nil {
		return nil, err
	}

	todo, err := s.todos.GetByID(ctx, todoID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	if input.CategoryID != "" && input.CategoryID != todo.CategoryID {
		if err := s.guard.Require(ctx, input.CategoryID, subjectID, s.categories.GetOwnerID); err != nil {
			return nil, err
		}
		todo.CategoryID = input.CategoryID
	}

	wasDone := todo.Done
	todo.Title = strings.TrimSpace(input.Title)
	todo.Description = strings.TrimSpace(input.Description)
	todo.StartDate = input.StartDate
	todo.EndDate = input.EndDate
	todo.StartTime = input.StartTime
	todo.EndTime = input.EndTime
	todo.Done = input.Done

	if err := s.todos.Update(ctx, todo); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	if !wasDone && todo.Done {
		s.publishEvent(ctx, events.Event{
			Type:      events.EventTodoCompleted,
			SubjectID: subjectID,
			Payload:   events.TodoCompletedPayload{TodoID: todo.ID, Title: todo.Title},
		})
	}
	return todo, nil
}

// Get fetches a todo the subject owns.
func (s *TodoService) Get(ctx context.Context, subjectID, todoID string) (*domain.Todo, error) {
	if err := s.guard.Require(ctx, todoID, subjectID, s.todos.GetOwnerID); err != nil {
		return nil, err
	}
	todo, err := s.todos.GetByID(ctx, todoID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return todo, nil
}

// Delete removes a todo the subject owns.
func (s *TodoService) Delete(ctx context.Context, subjectID, todoID string) error {
	if err := s.guard.Require(ctx, todoID, subjectID, s.todos.GetOwnerID); err != nil {
		return err
	}
	if err := s.todos.Delete(ctx, todoID); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// ListForToday returns the subject's todos whose date range covers today.
func (s *TodoService) ListForToday(ctx context.Context, subjectID string) ([]domain.Todo, error) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	todos, err := s.todos.ListForDay(ctx, subjectID, today)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return todos, nil
}

// ListByCategory returns the subject's todos in one of their categories.
func (s *TodoService) ListByCategory(ctx context.Context, subjectID, categoryID string) ([]domain.Todo, error) {
	if err := s.guard.Require(ctx, categoryID, subjectID, s.categories.GetOwnerID); err != nil {
		return nil, err
	}
	todos, err := s.todos.ListByCategory(ctx, subjectID, categoryID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return todos, nil
}

// ListDue returns the subject's open todos whose end date has passed.
func (s *TodoService) ListDue(ctx context.Context, subjectID string) ([]domain.Todo, error) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	todos, err := s.todos.ListDue(ctx, subjectID, today)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return todos, nil
}

func (s *TodoService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now().UTC()
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed", zap.String("type", string(event.Type)), zap.Error(err))
	}
}
