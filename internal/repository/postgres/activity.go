package postgres

import (
	"context"
	"database/sql"

	"homecrm-backend/internal/domain"

	"github.com/lib/pq"
)

type queryer interface {
	QueryContext(ctx context.Context, stmt string, args ...any) (*sql.Rows, error)
}

// insertActivity appends entries to an activity table. Table and owner
// column come from the repositories in this package, never from input.
func insertActivity(ctx context.Context, tx *sql.Tx, table, ownerColumn string, ownerID int32, entries []domain.ActivityEntry) error {
	if len(entries) == 0 {
		return nil
	}
	stmt := `INSERT INTO ` + table + ` (` + ownerColumn + `, occurred_at, user_name, action) VALUES ($1, $2, $3, $4)`
	for _, e := range entries {
		if _, err := tx.ExecContext(ctx, stmt, ownerID, e.Timestamp, e.UserName, e.Action); err != nil {
			return err
		}
	}
	return nil
}

// loadActivity returns the activity entries of the given owners in
// insertion order, keyed by owner id.
func loadActivity(ctx context.Context, db queryer, table, ownerColumn string, ownerIDs []int32) (map[int32][]domain.ActivityEntry, error) {
	stmt := `SELECT ` + ownerColumn + `, occurred_at, user_name, action FROM ` + table +
		` WHERE ` + ownerColumn + ` = ANY($1) ORDER BY ` + ownerColumn + `, id`
	rows, err := db.QueryContext(ctx, stmt, pq.Array(ownerIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int32][]domain.ActivityEntry, len(ownerIDs))
	for rows.Next() {
		var owner int32
		var e domain.ActivityEntry
		if err := rows.Scan(&owner, &e.Timestamp, &e.UserName, &e.Action); err != nil {
			return nil, err
		}
		e.Timestamp = e.Timestamp.UTC()
		out[owner] = append(out[owner], e)
	}
	return out, rows.Err()
}
