package postgres

import (
	"context"
	"database/sql"
	"time"

	"homecrm-backend/internal/domain"
	"homecrm-backend/internal/logger"
	"homecrm-backend/internal/query"
	"homecrm-backend/internal/repository"

	"github.com/lib/pq"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, name, email, password_hash, role, division_access, created_at, updated_at`

func scanUser(row rowScanner) (*domain.User, error) {
	u := &domain.User{}
	var access pq.StringArray
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &access, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.DivisionAccess = stringsToDivisions(access)
	return u, nil
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	stmt := `INSERT INTO users (name, email, password_hash, role, division_access, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	logger.DatabaseCall(ctx, "users.create", stmt, "email", u.Email)
	err := r.db.QueryRowContext(ctx, stmt, u.Name, u.Email, u.PasswordHash, u.Role, divisionsToStrings(u.DivisionAccess), u.CreatedAt, u.UpdatedAt).Scan(&u.ID)
	logger.DatabaseResult(ctx, "users.create", 1, err)
	return storageErr("users.create", "user", 0, err)
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	stmt := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.db.QueryRowContext(ctx, stmt, id))
	if err != nil {
		return nil, storageErr("users.get", "user", id, err)
	}
	return u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	stmt := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	u, err := scanUser(r.db.QueryRowContext(ctx, stmt, email))
	if err != nil {
		return nil, storageErr("users.get_by_email", "user", 0, err)
	}
	return u, nil
}

func (r *userRepository) List(ctx context.Context, p query.Pagination) ([]domain.User, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, storageErr("users.count", "user", 0, err)
	}

	q := `SELECT ` + userColumns + ` FROM users ORDER BY name ASC, id ASC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, q, p.Limit, p.Offset())
	if err != nil {
		return nil, 0, storageErr("users.list", "user", 0, err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, storageErr("users.list", "user", 0, err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, storageErr("users.list", "user", 0, err)
	}
	return users, total, nil
}

func (r *userRepository) UpdateAccess(ctx context.Context, u *domain.User) error {
	stmt := `UPDATE users SET role = $1, division_access = $2, updated_at = $3 WHERE id = $4`
	u.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, stmt, u.Role, divisionsToStrings(u.DivisionAccess), u.UpdatedAt, u.ID)
	if err != nil {
		return storageErr("users.update_access", "user", u.ID, err)
	}
	return requireAffected(res, "users.update_access", "user", u.ID)
}

func (r *userRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return storageErr("users.delete", "user", id, err)
	}
	return requireAffected(res, "users.delete", "user", id)
}

func (r *userRepository) ExistsWithRole(ctx context.Context, roles []domain.Role) (bool, error) {
	names := make(pq.StringArray, len(roles))
	for i, role := range roles {
		names[i] = string(role)
	}
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE role = ANY($1::text[]))`, names).Scan(&exists)
	if err != nil {
		return false, storageErr("users.exists_with_role", "user", 0, err)
	}
	return exists, nil
}

// requireAffected turns a zero-row update or delete into a not-found error.
func requireAffected(res sql.Result, op, resource string, id int32) error {
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr(op, resource, id, err)
	}
	if n == 0 {
		return &domain.NotFoundError{Resource: resource, ID: id}
	}
	return nil
}
