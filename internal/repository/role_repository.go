package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RoleRepository defines persistence access for roles. Role membership is
// written through UserRepository.CreateWithRole; this repository only
// maintains the role rows themselves.
type RoleRepository interface {
	Ensure(ctx context.Context, name string) error
}

type roleRepository struct {
	pool *pgxpool.Pool
}

// NewRoleRepository returns a Postgres-backed implementation.
func NewRoleRepository(pool *pgxpool.Pool) RoleRepository {
	return &roleRepository{pool: pool}
}

// Ensure creates the role if it does not already exist.
func (r *roleRepository) Ensure(ctx context.Context, name string) error {
	const query = `INSERT INTO roles (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`
	_, err := r.pool.Exec(ctx, query, name)
	return err
}
