package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dayplan/todo-service/internal/domain"
)

// TodoRepository encapsulates todo persistence.
type TodoRepository interface {
	Create(ctx context.Context, todo *domain.Todo) error
	Update(ctx context.Context, todo *domain.Todo) error
	GetByID(ctx context.Context, id string) (*domain.Todo, error)
	Delete(ctx context.Context, id string) error
	GetOwnerID(ctx context.Context, id string) (string, error)
	ListForDay(ctx context.Context, ownerID string, day time.Time) ([]domain.Todo, error)
	ListByCategory(ctx context.Context, ownerID, categoryID string) ([]domain.Todo, error)
	ListDue(ctx context.Context, ownerID string, before time.Time) ([]domain.Todo, error)
}

type todoRepository struct {
	pool *pgxpool.Pool
}

// NewTodoRepository instantiates repository.
func NewTodoRepository(pool *pgxpool.Pool) TodoRepository {
	return &todoRepository{pool: pool}
}

const todoColumns = `id, owner_id, category_id, title, description, start_date, end_date, start_time, end_time, done, created_at, updated_at`

func (r *todoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	const query = `
        INSERT INTO todos (owner_id, category_id, title, description, start_date, end_date, start_time, end_time, done)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		todo.OwnerID,
		todo.CategoryID,
		todo.Title,
		todo.Description,
		todo.StartDate,
		todo.EndDate,
		todo.StartTime,
		todo.EndTime,
		todo.Done,
	).Scan(&todo.ID, &todo.CreatedAt, &todo.UpdatedAt)
}

func (r *todoRepository) Update(ctx context.Context, todo *domain.Todo) error {
	const query = `
        UPDATE todos SET category_id=$1, title=$2, description=$3, start_date=$4, end_date=$5,
            start_time=$6, end_time=$7, done=$8, updated_at=NOW()
        WHERE id=$9`
	cmd, err := r.pool.Exec(ctx, query,
		todo.CategoryID,
		todo.Title,
		todo.Description,
		todo.StartDate,
		todo.EndDate,
		todo.StartTime,
		todo.EndTime,
		todo.Done,
		todo.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *todoRepository) GetByID(ctx context.Context, id string) (*domain.Todo, error) {
	const query = `SELECT ` + todoColumns + ` FROM todos WHERE id=$1`

	var todo domain.Todo
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&todo.ID,
		&todo.OwnerID,
		&todo.CategoryID,
		&todo.Title,
		&todo.Description,
		&todo.StartDate,
		&todo.EndDate,
		&todo.StartTime,
		&todo.EndTime,
		&todo.Done,
		&todo.CreatedAt,
		&todo.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &todo, nil
}

func (r *todoRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM todos WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// GetOwnerID resolves only the owning subject, the capability the
// ownership guard consumes.
func (r *todoRepository) GetOwnerID(ctx context.Context, id string) (string, error) {
	var ownerID string
	if err := r.pool.QueryRow(ctx, `SELECT owner_id FROM todos WHERE id=$1`, id).Scan(&ownerID); err != nil {
		return "", err
	}
	return ownerID, nil
}

func (r *todoRepository) ListForDay(ctx context.Context, ownerID string, day time.Time) ([]domain.Todo, error) {
	const query = `SELECT ` + todoColumns + `
        FROM todos
        WHERE owner_id=$1 AND start_date<=$2 AND end_date>=$2
        ORDER BY start_time NULLS LAST, created_at`
	return r.list(ctx, query, ownerID, day)
}

func (r *todoRepository) ListByCategory(ctx context.Context, ownerID, categoryID string) ([]domain.Todo, error) {
	const query = `SELECT ` + todoColumns + `
        FROM todos
        WHERE owner_id=$1 AND category_id=$2
        ORDER BY start_date, created_at`
	return r.list(ctx, query, ownerID, categoryID)
}

func (r *todoRepository) ListDue(ctx context.Context, ownerID string, before time.Time) ([]domain.Todo, error) {
	const query = `SELECT ` + todoColumns + `
        FROM todos
        WHERE owner_id=$1 AND done=FALSE AND end_date<$2
        ORDER BY end_date, created_at`
	return r.list(ctx, query, ownerID, before)
}

func (r *todoRepository) list(ctx context.Context, query string, args ...any) ([]domain.Todo, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var todos []domain.Todo
	for rows.Next() {
		var todo domain.Todo
		if err := rows.Scan(
			&todo.ID,
			&todo.OwnerID,
			&todo.CategoryID,
			&todo.Title,
			&todo.Description,
			&todo.StartDate,
			&todo.EndDate,
			&todo.StartTime,
			&todo.EndTime,
			&todo.Done,
			&todo.CreatedAt,
			&todo.UpdatedAt,
		); err != nil {
			return nil, err
		}
		todos = append(todos, todo)
	}
	return todos, rows.Err()
}
