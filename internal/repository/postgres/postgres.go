package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"

	"homecrm-backend/internal/domain"
	"homecrm-backend/internal/logger"
	"homecrm-backend/internal/repository"

	"github.com/lib/pq"
)

//go:embed schema.sql
var schema string

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.ContactRepository
	repository.SubscriptionRepository
	repository.ProjectRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		UserRepository:         NewUserRepository(db),
		ContactRepository:      NewContactRepository(db),
		SubscriptionRepository: NewSubscriptionRepository(db),
		ProjectRepository:      NewProjectRepository(db),
	}
}

// Migrate creates the tables if they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	logger.DatabaseCall(ctx, "migrate", "schema.sql")
	_, err := db.ExecContext(ctx, schema)
	logger.DatabaseResult(ctx, "migrate", 0, err)
	if err != nil {
		return domain.NewStorageError("migrate", err)
	}
	return nil
}

// storageErr maps sql.ErrNoRows to a not-found error for the resource
// and wraps everything else as a storage failure.
func storageErr(op, resource string, id int32, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.NotFoundError{Resource: resource, ID: id}
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return errors.Join(domain.ErrConflict, domain.NewStorageError(op, err))
	}
	return domain.NewStorageError(op, err)
}

func divisionsToStrings(divisions []domain.Division) pq.StringArray {
	out := make(pq.StringArray, len(divisions))
	for i, d := range divisions {
		out[i] = string(d)
	}
	return out
}

func stringsToDivisions(values []string) []domain.Division {
	out := make([]domain.Division, len(values))
	for i, v := range values {
		out[i] = domain.Division(v)
	}
	return out
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}
