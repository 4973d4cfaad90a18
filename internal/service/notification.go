package service

import (
	"context"
	"fmt"
	"html"

	"homecrm-backend/internal/domain"
)

// ErrNoEmailAddress is returned when a contact has no address to write to.
var ErrNoEmailAddress = fmt.Errorf("%w: contact has no email address", domain.ErrValidation)

type notificationService struct {
	email EmailService
}

func NewNotificationService(email EmailService) NotificationService {
	return &notificationService{email: email}
}

// SendRenewalReminder writes to the contact's first email address.
func (s *notificationService) SendRenewalReminder(ctx context.Context, contact *domain.Contact, sub *domain.Subscription) error {
	if len(contact.Emails) == 0 {
		return ErrNoEmailAddress
	}
	renewal := "soon"
	if sub.RenewalDate != nil {
		renewal = "on " + sub.RenewalDate.Format("January 2, 2006")
	}
	price := sub.MonthlyPrice
	period := "month"
	if sub.BillingCycle == domain.BillingCycleAnnual {
		price = sub.AnnualPrice
		period = "year"
	}

	subject := fmt.Sprintf("Your %s plan renews %s", sub.Tier, renewal)
	plainText := fmt.Sprintf("Hello %s,\n\nYour %s lighting plan renews %s at $%d per %s.\n\nReply to this email if you have any questions.",
		contact.Name, sub.Tier, renewal, price, period)
	htmlContent := fmt.Sprintf(`<html><body><p>Hello %s,</p><p>Your <strong>%s</strong> lighting plan renews %s at $%d per %s.</p></body></html>`,
		html.EscapeString(contact.Name), sub.Tier, renewal, price, period)

	return s.email.SendEmail(ctx, contact.Emails[0], contact.Name, subject, plainText, htmlContent)
}
