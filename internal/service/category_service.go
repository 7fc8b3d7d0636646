package service

import (
	"context"
	"strings"

	"github.com/dayplan/todo-service/internal/auth"
	"github.com/dayplan/todo-service/internal/domain"
	"github.com/dayplan/todo-service/internal/repository"
	apperrors "github.com/dayplan/todo-service/pkg/util"
)

// CategoryService coordinates category workflows, guarded per owner.
type CategoryService struct {
	categories repository.CategoryRepository
	guard      *auth.OwnershipGuard
}

// NewCategoryService constructs the service.
func NewCategoryService(categories repository.CategoryRepository, guard *auth.OwnershipGuard) *CategoryService {
	return &CategoryService{categories: categories, guard: guard}
}

// Create creates a category owned by the subject.
func (s *CategoryService) Create(ctx context.Context, subjectID, name, description string) (*domain.Category, error) {
	category := &domain.Category{
		OwnerID:     subjectID,
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return category, nil
}

// Get fetches a category the subject owns.
func (s *CategoryService) Get(ctx context.Context, subjectID, categoryID string) (*domain.Category, error) {
	if err := s.guard.Require(ctx, categoryID, subjectID, s.categories.GetOwnerID); err != nil {
		return nil, err
	}
	category, err := s.categories.GetByID(ctx, categoryID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return category, nil
}

// Update renames a category the subject owns.
func (s *CategoryService) Update(ctx context.Context, subjectID, categoryID, name, description string) (*domain.Category, error) {
	if err := s.guard.Require(ctx, categoryID, subjectID, s.categories.GetOwnerID); err != nil {
		return nil, err
	}
	category, err := s.categories.GetByID(ctx, categoryID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	category.Name = strings.TrimSpace(name)
	category.Description = strings.TrimSpace(description)
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return category, nil
}

// Delete removes a category the subject owns. Todos in the category go
// with it (ON DELETE CASCADE).
func (s *CategoryService) Delete(ctx context.Context, subjectID, categoryID string) error {
	if err := s.guard.Require(ctx, categoryID, subjectID, s.categories.GetOwnerID); err != nil {
		return err
	}
	if err := s.categories.Delete(ctx, categoryID); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// List returns every category owned by the subject.
func (s *CategoryService) List(ctx context.Context, subjectID string) ([]domain.Category, error) {
	categories, err := s.categories.ListByOwner(ctx, subjectID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return categories, nil
}
