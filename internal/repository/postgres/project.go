package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"homecrm-backend/internal/domain"
	"homecrm-backend/internal/logger"
	"homecrm-backend/internal/query"
	"homecrm-backend/internal/repository"

	"github.com/lib/pq"
)

type projectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) repository.ProjectRepository {
	return &projectRepository{db: db}
}

const projectColumns = `id, contact_id, contract_amount, assigned_installers, status, install_start_date, install_end_date,
	costs, prior_credit_declines, notes, created_at, updated_at`

func scanProject(row rowScanner) (*domain.Project, error) {
	p := &domain.Project{}
	var installers pq.Int32Array
	var notes pq.StringArray
	var start, end sql.NullTime
	var costs []byte
	err := row.Scan(&p.ID, &p.ContactID, &p.ContractAmount, &installers, &p.Status, &start, &end,
		&costs, &p.PriorCreditDeclines, &notes, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.AssignedInstallers = []int32(installers)
	if p.AssignedInstallers == nil {
		p.AssignedInstallers = []int32{}
	}
	p.Notes = []string(notes)
	if p.Notes == nil {
		p.Notes = []string{}
	}
	if start.Valid {
		t := start.Time
		p.InstallStartDate = &t
	}
	if end.Valid {
		t := end.Time
		p.InstallEndDate = &t
	}
	if len(costs) > 0 {
		if err := json.Unmarshal(costs, &p.Costs); err != nil {
			return nil, fmt.Errorf("decode project costs: %w", err)
		}
	}
	p.ActivityLog = []domain.ActivityEntry{}
	return p, nil
}

func (r *projectRepository) Create(ctx context.Context, p *domain.Project) error {
	costs, err := json.Marshal(p.Costs)
	if err != nil {
		return domain.NewStorageError("projects.create", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("projects.create", "project", 0, err)
	}
	defer tx.Rollback()

	stmt := `INSERT INTO projects (contact_id, contract_amount, assigned_installers, status, install_start_date, install_end_date,
	          costs, prior_credit_declines, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	logger.DatabaseCall(ctx, "projects.create", stmt, "contact_id", p.ContactID)
	err = tx.QueryRowContext(ctx, stmt, p.ContactID, p.ContractAmount, pq.Array(p.AssignedInstallers), p.Status,
		nullTime(p.InstallStartDate), nullTime(p.InstallEndDate), costs, p.PriorCreditDeclines, pq.Array(p.Notes),
		p.CreatedAt, p.UpdatedAt).Scan(&p.ID)
	if err != nil {
		logger.DatabaseResult(ctx, "projects.create", 0, err)
		return storageErr("projects.create", "project", 0, err)
	}

	if err := insertActivity(ctx, tx, "project_activity", "project_id", p.ID, p.ActivityLog); err != nil {
		return storageErr("projects.create", "project", p.ID, err)
	}
	err = tx.Commit()
	logger.DatabaseResult(ctx, "projects.create", 1, err, "project_id", p.ID)
	return storageErr("projects.create", "project", p.ID, err)
}

func (r *projectRepository) GetByID(ctx context.Context, id int32) (*domain.Project, error) {
	stmt := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	p, err := scanProject(r.db.QueryRowContext(ctx, stmt, id))
	if err != nil {
		return nil, storageErr("projects.get", "project", id, err)
	}
	logs, err := loadActivity(ctx, r.db, "project_activity", "project_id", []int32{id})
	if err != nil {
		return nil, storageErr("projects.get", "project", id, err)
	}
	p.ActivityLog = append(p.ActivityLog, logs[id]...)
	return p, nil
}

func (r *projectRepository) List(ctx context.Context, opts repository.ProjectListOptions, pg query.Pagination) ([]domain.Project, int64, error) {
	var conds []string
	var args []any
	if opts.ContactID > 0 {
		args = append(args, opts.ContactID)
		conds = append(conds, fmt.Sprintf("contact_id = $%d", len(args)))
	}
	if opts.Status != "" {
		args = append(args, opts.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	where := "TRUE"
	if len(conds) > 0 {
		where = strings.Join(conds, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, storageErr("projects.count", "project", 0, err)
	}

	n := len(args)
	q := fmt.Sprintf(`SELECT %s FROM projects WHERE %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		projectColumns, where, n+1, n+2)
	rows, err := r.db.QueryContext(ctx, q, append(args, pg.Limit, pg.Offset())...)
	if err != nil {
		return nil, 0, storageErr("projects.list", "project", 0, err)
	}
	defer rows.Close()

	projects := []domain.Project{}
	ids := []int32{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, 0, storageErr("projects.list", "project", 0, err)
		}
		projects = append(projects, *p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, storageErr("projects.list", "project", 0, err)
	}

	if len(ids) > 0 {
		logs, err := loadActivity(ctx, r.db, "project_activity", "project_id", ids)
		if err != nil {
			return nil, 0, storageErr("projects.list", "project", 0, err)
		}
		for i := range projects {
			projects[i].ActivityLog = append(projects[i].ActivityLog, logs[projects[i].ID]...)
		}
	}
	return projects, total, nil
}

func (r *projectRepository) Update(ctx context.Context, p *domain.Project, persistedEntries int) error {
	costs, err := json.Marshal(p.Costs)
	if err != nil {
		return domain.NewStorageError("projects.update", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("projects.update", "project", p.ID, err)
	}
	defer tx.Rollback()

	stmt := `UPDATE projects SET contract_amount = $1, assigned_installers = $2, status = $3, install_start_date = $4,
	          install_end_date = $5, costs = $6, prior_credit_declines = $7, notes = $8, updated_at = $9 WHERE id = $10`
	p.UpdatedAt = time.Now().UTC()
	res, err := tx.ExecContext(ctx, stmt, p.ContractAmount, pq.Array(p.AssignedInstallers), p.Status,
		nullTime(p.InstallStartDate), nullTime(p.InstallEndDate), costs, p.PriorCreditDeclines, pq.Array(p.Notes),
		p.UpdatedAt, p.ID)
	if err != nil {
		return storageErr("projects.update", "project", p.ID, err)
	}
	if err := requireAffected(res, "projects.update", "project", p.ID); err != nil {
		return err
	}

	if persistedEntries < len(p.ActivityLog) {
		if err := insertActivity(ctx, tx, "project_activity", "project_id", p.ID, p.ActivityLog[persistedEntries:]); err != nil {
			return storageErr("projects.update", "project", p.ID, err)
		}
	}
	err = tx.Commit()
	logger.DatabaseResult(ctx, "projects.update", 1, err, "project_id", p.ID)
	return storageErr("projects.update", "project", p.ID, err)
}
