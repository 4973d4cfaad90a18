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
)

type subscriptionRepository struct {
	db *sql.DB
}

func NewSubscriptionRepository(db *sql.DB) repository.SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

const subscriptionColumns = `id, contact_id, tier, monthly_price, annual_price, billing_cycle, start_date, renewal_date,
	visits_remaining, repairs_credit_used, lights_included, status, service_history, created_at, updated_at`

func scanSubscription(row rowScanner) (*domain.Subscription, error) {
	s := &domain.Subscription{}
	var renewal sql.NullTime
	var history []byte
	err := row.Scan(&s.ID, &s.ContactID, &s.Tier, &s.MonthlyPrice, &s.AnnualPrice, &s.BillingCycle, &s.StartDate, &renewal,
		&s.VisitsRemaining, &s.RepairsCreditUsed, &s.LightsIncluded, &s.Status, &history, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if renewal.Valid {
		t := renewal.Time
		s.RenewalDate = &t
	}
	s.ServiceHistory = []domain.ServiceEntry{}
	if len(history) > 0 {
		if err := json.Unmarshal(history, &s.ServiceHistory); err != nil {
			return nil, fmt.Errorf("decode service history: %w", err)
		}
	}
	return s, nil
}

func encodeHistory(entries []domain.ServiceEntry) ([]byte, error) {
	if entries == nil {
		entries = []domain.ServiceEntry{}
	}
	return json.Marshal(entries)
}

func (r *subscriptionRepository) Create(ctx context.Context, s *domain.Subscription) error {
	history, err := encodeHistory(s.ServiceHistory)
	if err != nil {
		return domain.NewStorageError("subscriptions.create", err)
	}
	stmt := `INSERT INTO subscriptions (contact_id, tier, monthly_price, annual_price, billing_cycle, start_date, renewal_date,
	          visits_remaining, repairs_credit_used, lights_included, status, service_history, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14) RETURNING id`
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now
	logger.DatabaseCall(ctx, "subscriptions.create", stmt, "contact_id", s.ContactID, "tier", s.Tier)
	err = r.db.QueryRowContext(ctx, stmt, s.ContactID, s.Tier, s.MonthlyPrice, s.AnnualPrice, s.BillingCycle, s.StartDate,
		nullTime(s.RenewalDate), s.VisitsRemaining, s.RepairsCreditUsed, s.LightsIncluded, s.Status, history,
		s.CreatedAt, s.UpdatedAt).Scan(&s.ID)
	logger.DatabaseResult(ctx, "subscriptions.create", 1, err)
	return storageErr("subscriptions.create", "subscription", 0, err)
}

func (r *subscriptionRepository) GetByID(ctx context.Context, id int32) (*domain.Subscription, error) {
	stmt := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = $1`
	s, err := scanSubscription(r.db.QueryRowContext(ctx, stmt, id))
	if err != nil {
		return nil, storageErr("subscriptions.get", "subscription", id, err)
	}
	return s, nil
}

func (r *subscriptionRepository) List(ctx context.Context, opts repository.SubscriptionListOptions, p query.Pagination) ([]domain.Subscription, int64, error) {
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
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM subscriptions WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, storageErr("subscriptions.count", "subscription", 0, err)
	}

	n := len(args)
	q := fmt.Sprintf(`SELECT %s FROM subscriptions WHERE %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		subscriptionColumns, where, n+1, n+2)
	rows, err := r.db.QueryContext(ctx, q, append(args, p.Limit, p.Offset())...)
	if err != nil {
		return nil, 0, storageErr("subscriptions.list", "subscription", 0, err)
	}
	defer rows.Close()

	subs, err := collectSubscriptions(rows)
	if err != nil {
		return nil, 0, storageErr("subscriptions.list", "subscription", 0, err)
	}
	return subs, total, nil
}

func (r *subscriptionRepository) Update(ctx context.Context, s *domain.Subscription) error {
	history, err := encodeHistory(s.ServiceHistory)
	if err != nil {
		return domain.NewStorageError("subscriptions.update", err)
	}
	stmt := `UPDATE subscriptions SET tier = $1, monthly_price = $2, annual_price = $3, billing_cycle = $4, start_date = $5,
	          renewal_date = $6, visits_remaining = $7, repairs_credit_used = $8, lights_included = $9, status = $10,
	          service_history = $11, updated_at = $12 WHERE id = $13`
	s.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, stmt, s.Tier, s.MonthlyPrice, s.AnnualPrice, s.BillingCycle, s.StartDate,
		nullTime(s.RenewalDate), s.VisitsRemaining, s.RepairsCreditUsed, s.LightsIncluded, s.Status, history, s.UpdatedAt, s.ID)
	if err != nil {
		return storageErr("subscriptions.update", "subscription", s.ID, err)
	}
	return requireAffected(res, "subscriptions.update", "subscription", s.ID)
}

// ExpireLapsed marks active subscriptions whose renewal date is before
// asOf as expired and returns their ids.
func (r *subscriptionRepository) ExpireLapsed(ctx context.Context, asOf time.Time) ([]int32, error) {
	stmt := `UPDATE subscriptions SET status = $1, updated_at = $2
	          WHERE status = $3 AND renewal_date IS NOT NULL AND renewal_date < $4 RETURNING id`
	logger.DatabaseCall(ctx, "subscriptions.expire_lapsed", stmt, "as_of", asOf)
	rows, err := r.db.QueryContext(ctx, stmt, domain.SubscriptionStatusExpired, time.Now().UTC(),
		domain.SubscriptionStatusActive, asOf)
	if err != nil {
		return nil, storageErr("subscriptions.expire_lapsed", "subscription", 0, err)
	}
	defer rows.Close()

	ids := []int32{}
	for rows.Next() {
		var id int32
		if err := rows.Scan(&id); err != nil {
			return nil, storageErr("subscriptions.expire_lapsed", "subscription", 0, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("subscriptions.expire_lapsed", "subscription", 0, err)
	}
	logger.DatabaseResult(ctx, "subscriptions.expire_lapsed", int64(len(ids)), nil)
	return ids, nil
}

func (r *subscriptionRepository) ListRenewingBetween(ctx context.Context, from, to time.Time) ([]domain.Subscription, error) {
	stmt := `SELECT ` + subscriptionColumns + ` FROM subscriptions
	          WHERE status = $1 AND renewal_date >= $2 AND renewal_date < $3 ORDER BY renewal_date ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, stmt, domain.SubscriptionStatusActive, from, to)
	if err != nil {
		return nil, storageErr("subscriptions.list_renewing", "subscription", 0, err)
	}
	defer rows.Close()

	subs, err := collectSubscriptions(rows)
	if err != nil {
		return nil, storageErr("subscriptions.list_renewing", "subscription", 0, err)
	}
	return subs, nil
}

func collectSubscriptions(rows *sql.Rows) ([]domain.Subscription, error) {
	subs := []domain.Subscription{}
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, *s)
	}
	return subs, rows.Err()
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
