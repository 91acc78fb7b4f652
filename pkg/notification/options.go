package notification

import (
	"embed"
	"log/slog"
	"time"
)

//go:embed templates/*
var templateFiles embed.FS

func loadTemplate(filename string) string {
	content, err := templateFiles.ReadFile(filename)
	if err != nil {
		slog.Error("Error reading template file!", "err", err, "filename", filename)
		return ""
	}
	return string(content)
}

// NotificationManagerOption is a function that configures a NotificationManager
type NotificationManagerOption func(*NotificationManager) error

// WithSMTP adds an email notifier with the provided SMTP configuration
func WithSMTP(config SMTPConfig) NotificationManagerOption {
	return func(nm *NotificationManager) error {
		emailNotifier, err := NewEmailNotifier(config)
		if err != nil {
			return err
		}
		nm.RegisterNotifier(EmailSystem, emailNotifier)
		return nil
	}
}

// WithResend adds a Resend API notifier with the provided configuration
func WithResend(config ResendConfig) NotificationManagerOption {
	return func(nm *NotificationManager) error {
		nm.RegisterNotifier(ResendSystem, NewResendNotifier(config))
		return nil
	}
}

// WithRetryPolicy overrides the default retry count and initial interval
func WithRetryPolicy(maxRetries uint64, interval time.Duration) NotificationManagerOption {
	return func(nm *NotificationManager) error {
		nm.maxRetries = maxRetries
		nm.retryInterval = interval
		return nil
	}
}

// WithAccountWelcomeTemplate registers the account welcome template
func WithAccountWelcomeTemplate(systems ...NotificationSystem) NotificationManagerOption {
	return registerTemplate(AccountWelcome, NoticeTemplate{
		Subject: "Welcome to Meri Fitness & Nutrition",
		Html:    loadTemplate("templates/email/account_welcome.html"),
	}, systems)
}

// WithFeedbackReplyTemplate registers the feedback reply template
func WithFeedbackReplyTemplate(systems ...NotificationSystem) NotificationManagerOption {
	return registerTemplate(FeedbackReply, NoticeTemplate{
		Subject: "We replied to your feedback",
		Html:    loadTemplate("templates/email/feedback_reply.html"),
	}, systems)
}

// WithAccountDeletedTemplate registers the account deleted template
func WithAccountDeletedTemplate(systems ...NotificationSystem) NotificationManagerOption {
	return registerTemplate(AccountDeleted, NoticeTemplate{
		Subject: "Your account has been removed",
		Html:    loadTemplate("templates/email/account_deleted.html"),
	}, systems)
}

// WithDefaultTemplates registers all default notice templates
func WithDefaultTemplates(systems ...NotificationSystem) NotificationManagerOption {
	return func(nm *NotificationManager) error {
		options := []NotificationManagerOption{
			WithAccountWelcomeTemplate(systems...),
			WithFeedbackReplyTemplate(systems...),
			WithAccountDeletedTemplate(systems...),
		}

		for _, opt := range options {
			if err := opt(nm); err != nil {
				return err
			}
		}

		return nil
	}
}

func registerTemplate(noticeType NoticeType, template NoticeTemplate, systems []NotificationSystem) NotificationManagerOption {
	return func(nm *NotificationManager) error {
		if len(systems) == 0 {
			systems = []NotificationSystem{EmailSystem}
		}
		for _, system := range systems {
			if err := nm.RegisterNotification(noticeType, system, template); err != nil {
				return err
			}
		}
		return nil
	}
}

// NewNotificationManagerWithOptions creates a new notification manager with the provided options
func NewNotificationManagerWithOptions(opts ...NotificationManagerOption) (*NotificationManager, error) {
	notificationManager := NewNotificationManager()

	for _, opt := range opts {
		if err := opt(notificationManager); err != nil {
			return nil, err
		}
	}

	return notificationManager, nil
}
