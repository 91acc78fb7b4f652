package notification

import (
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

// ResendConfig holds configuration for the Resend transactional email API.
type ResendConfig struct {
	APIKey string
	From   string
}

// ResendNotifier delivers notices through the Resend API instead of SMTP.
type ResendNotifier struct {
	client *resend.Client
	from   string
}

// NewResendNotifier creates a new Resend-backed notifier.
func NewResendNotifier(config ResendConfig) *ResendNotifier {
	return &ResendNotifier{
		client: resend.NewClient(config.APIKey),
		from:   config.From,
	}
}

func (r *ResendNotifier) Send(noticeType NoticeType, notification NotificationData, noticeTemplate NoticeTemplate) error {
	if notification.To == "" {
		return fmt.Errorf("email notification requires 'To' address")
	}

	textBody, htmlBody, err := renderTemplate(notification, noticeTemplate)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    r.from,
		To:      []string{notification.To},
		Subject: subjectFor(notification, noticeTemplate),
		Text:    textBody,
		Html:    htmlBody,
	}

	sent, err := r.client.Emails.Send(params)
	if err != nil {
		slog.Error("Failed to send email via Resend", "err", err, "to", notification.To)
		return fmt.Errorf("resend send failed: %w", err)
	}

	slog.Info("Email sent via Resend", "message_id", sent.Id, "to", notification.To)
	return nil
}
