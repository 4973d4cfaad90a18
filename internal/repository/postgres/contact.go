package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"homecrm-backend/internal/domain"
	"homecrm-backend/internal/logger"
	"homecrm-backend/internal/query"
	"homecrm-backend/internal/repository"

	"github.com/lib/pq"
)

type contactRepository struct {
	db *sql.DB
}

func NewContactRepository(db *sql.DB) repository.ContactRepository {
	return &contactRepository{db: db}
}

const contactColumns = `id, name, address, phones, emails, lead_source, contact_type, contact_category, divisions, notes, created_at, updated_at`

func scanContact(row rowScanner) (*domain.Contact, error) {
	c := &domain.Contact{}
	var phones, emails, divisions pq.StringArray
	err := row.Scan(&c.ID, &c.Name, &c.Address, &phones, &emails, &c.LeadSource, &c.ContactType,
		&c.ContactCategory, &divisions, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.Phones = []string(phones)
	c.Emails = []string(emails)
	if c.Emails == nil {
		c.Emails = []string{}
	}
	c.Divisions = stringsToDivisions(divisions)
	c.ActivityLog = []domain.ActivityEntry{}
	return c, nil
}

func (r *contactRepository) Create(ctx context.Context, c *domain.Contact) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("contacts.create", "contact", 0, err)
	}
	defer tx.Rollback()

	stmt := `INSERT INTO contacts (name, address, phones, emails, lead_source, contact_type, contact_category, divisions, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	logger.DatabaseCall(ctx, "contacts.create", stmt, "name", c.Name)
	err = tx.QueryRowContext(ctx, stmt, c.Name, c.Address, pq.Array(c.Phones), pq.Array(c.Emails), c.LeadSource,
		c.ContactType, c.ContactCategory, divisionsToStrings(c.Divisions), c.Notes, c.CreatedAt, c.UpdatedAt).Scan(&c.ID)
	if err != nil {
		logger.DatabaseResult(ctx, "contacts.create", 0, err)
		return storageErr("contacts.create", "contact", 0, err)
	}

	if err := insertActivity(ctx, tx, "contact_activity", "contact_id", c.ID, c.ActivityLog); err != nil {
		return storageErr("contacts.create", "contact", c.ID, err)
	}
	err = tx.Commit()
	logger.DatabaseResult(ctx, "contacts.create", 1, err, "contact_id", c.ID)
	return storageErr("contacts.create", "contact", c.ID, err)
}

func (r *contactRepository) GetByID(ctx context.Context, id int32) (*domain.Contact, error) {
	stmt := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1`
	c, err := scanContact(r.db.QueryRowContext(ctx, stmt, id))
	if err != nil {
		return nil, storageErr("contacts.get", "contact", id, err)
	}
	logs, err := loadActivity(ctx, r.db, "contact_activity", "contact_id", []int32{id})
	if err != nil {
		return nil, storageErr("contacts.get", "contact", id, err)
	}
	c.ActivityLog = append(c.ActivityLog, logs[id]...)
	return c, nil
}

func (r *contactRepository) List(ctx context.Context, filter query.Filter, p query.Pagination) ([]domain.Contact, int64, error) {
	where, args, err := RenderFilter(filter)
	if err != nil {
		return nil, 0, domain.NewStorageError("contacts.list", err)
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM contacts WHERE ` + where
	logger.DatabaseCall(ctx, "contacts.count", countQuery)
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, storageErr("contacts.count", "contact", 0, err)
	}

	n := len(args)
	pageQuery := fmt.Sprintf(`SELECT %s FROM contacts WHERE %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		contactColumns, where, n+1, n+2)
	rows, err := r.db.QueryContext(ctx, pageQuery, append(args, p.Limit, p.Offset())...)
	if err != nil {
		return nil, 0, storageErr("contacts.list", "contact", 0, err)
	}
	defer rows.Close()

	contacts := []domain.Contact{}
	ids := []int32{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, 0, storageErr("contacts.list", "contact", 0, err)
		}
		contacts = append(contacts, *c)
		ids = append(ids, c.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, storageErr("contacts.list", "contact", 0, err)
	}
	logger.DatabaseResult(ctx, "contacts.list", int64(len(contacts)), nil, "total", total)

	if len(ids) > 0 {
		logs, err := loadActivity(ctx, r.db, "contact_activity", "contact_id", ids)
		if err != nil {
			return nil, 0, storageErr("contacts.list", "contact", 0, err)
		}
		for i := range contacts {
			contacts[i].ActivityLog = append(contacts[i].ActivityLog, logs[contacts[i].ID]...)
		}
	}
	return contacts, total, nil
}

func (r *contactRepository) Update(ctx context.Context, c *domain.Contact, persistedEntries int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("contacts.update", "contact", c.ID, err)
	}
	defer tx.Rollback()

	stmt := `UPDATE contacts SET name = $1, address = $2, phones = $3, emails = $4, lead_source = $5, contact_type = $6,
	          contact_category = $7, divisions = $8, notes = $9, updated_at = $10 WHERE id = $11`
	c.UpdatedAt = time.Now().UTC()
	res, err := tx.ExecContext(ctx, stmt, c.Name, c.Address, pq.Array(c.Phones), pq.Array(c.Emails), c.LeadSource,
		c.ContactType, c.ContactCategory, divisionsToStrings(c.Divisions), c.Notes, c.UpdatedAt, c.ID)
	if err != nil {
		return storageErr("contacts.update", "contact", c.ID, err)
	}
	if err := requireAffected(res, "contacts.update", "contact", c.ID); err != nil {
		return err
	}

	if persistedEntries < len(c.ActivityLog) {
		if err := insertActivity(ctx, tx, "contact_activity", "contact_id", c.ID, c.ActivityLog[persistedEntries:]); err != nil {
			return storageErr("contacts.update", "contact", c.ID, err)
		}
	}
	err = tx.Commit()
	logger.DatabaseResult(ctx, "contacts.update", 1, err, "contact_id", c.ID)
	return storageErr("contacts.update", "contact", c.ID, err)
}

func (r *contactRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return storageErr("contacts.delete", "contact", id, err)
	}
	return requireAffected(res, "contacts.delete", "contact", id)
}
