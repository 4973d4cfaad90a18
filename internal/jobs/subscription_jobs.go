package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"homecrm-backend/internal/logger"
	"homecrm-backend/internal/service"
)

// ExpireLapsedSubscriptions marks Active subscriptions whose renewal
// date has passed as Expired.
func (jr *JobRunner) ExpireLapsedSubscriptions() {
	jr.runWithRecovery("ExpireLapsedSubscriptions", func(ctx context.Context) error {
		_, err := jr.expireLapsed(ctx)
		return err
	})
}

func (jr *JobRunner) expireLapsed(ctx context.Context) (int, error) {
	ids, err := jr.subscriptions.ExpireLapsed(ctx, jr.today())
	if err != nil {
		return 0, fmt.Errorf("expire lapsed subscriptions: %w", err)
	}
	logger.InfoContext(ctx, "Expired lapsed subscriptions", "count", len(ids))
	for _, id := range ids {
		logger.DebugContext(ctx, "Subscription expired", "subscription_id", id)
	}
	return len(ids), nil
}

// SendRenewalReminders emails the contact of every Active subscription
// renewing within the configured window.
func (jr *JobRunner) SendRenewalReminders() {
	jr.runWithRecovery("SendRenewalReminders", func(ctx context.Context) error {
		_, err := jr.sendRenewalReminders(ctx)
		return err
	})
}

// sendRenewalReminders returns how many reminders went out. A failure
// for one subscription is logged and does not stop the rest.
func (jr *JobRunner) sendRenewalReminders(ctx context.Context) (int, error) {
	from := jr.today()
	to := from.Add(time.Duration(jr.config.RenewalReminderWindow) * 24 * time.Hour)

	subs, err := jr.subscriptions.ListRenewingBetween(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("list renewing subscriptions: %w", err)
	}

	sent := 0
	for i := range subs {
		sub := &subs[i]
		contact, err := jr.contacts.GetByID(ctx, sub.ContactID)
		if err != nil {
			logger.WarnContext(ctx, "Failed to load contact for renewal reminder",
				"subscription_id", sub.ID, "contact_id", sub.ContactID, "error", err)
			continue
		}
		if err := jr.notifier.SendRenewalReminder(ctx, contact, sub); err != nil {
			if errors.Is(err, service.ErrNoEmailAddress) {
				logger.DebugContext(ctx, "Skipping renewal reminder, contact has no email",
					"subscription_id", sub.ID, "contact_id", contact.ID)
				continue
			}
			logger.WarnContext(ctx, "Failed to send renewal reminder",
				"subscription_id", sub.ID, "contact_id", contact.ID, "error", err)
			continue
		}
		sent++
	}

	logger.InfoContext(ctx, "Sent renewal reminders", "count", sent, "candidates", len(subs),
		"window_days", jr.config.RenewalReminderWindow)
	return sent, nil
}
