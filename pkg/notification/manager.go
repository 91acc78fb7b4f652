package notification

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// NotificationManager manages notifiers and notice templates, and is the one
// place transactional sends happen: every send goes through the same
// template registry and the same retry policy, instead of each caller
// hand-rolling its own delivery code.
type NotificationManager struct {
	notifiers      map[NotificationSystem]Notifier
	noticeRegistry map[NoticeType]map[NotificationSystem]NoticeTemplate
	maxRetries     uint64
	retryInterval  time.Duration
}

// NewNotificationManager creates and returns a new NotificationManager.
func NewNotificationManager() *NotificationManager {
	return &NotificationManager{
		notifiers:      make(map[NotificationSystem]Notifier),
		noticeRegistry: make(map[NoticeType]map[NotificationSystem]NoticeTemplate),
		maxRetries:     2,
		retryInterval:  500 * time.Millisecond,
	}
}

// RegisterNotifier registers a notifier for a specific system.
func (nm *NotificationManager) RegisterNotifier(system NotificationSystem, notifier Notifier) {
	nm.notifiers[system] = notifier
}

// RegisterNotification adds a notice template to the registry.
func (nm *NotificationManager) RegisterNotification(noticeType NoticeType, system NotificationSystem, template NoticeTemplate) error {
	if noticeType == "" || system == "" {
		return fmt.Errorf("invalid input: notice type and system cannot be empty")
	}
	if template.Text == "" && template.Html == "" {
		return fmt.Errorf("invalid input: template must have a text or html body")
	}

	if _, exists := nm.noticeRegistry[noticeType]; !exists {
		nm.noticeRegistry[noticeType] = make(map[NotificationSystem]NoticeTemplate)
	}

	nm.noticeRegistry[noticeType][system] = template
	return nil
}

// Send delivers a notification of the given type through the given system,
// retrying transport failures with exponential backoff. Sends are retried at
// most maxRetries times; a send that keeps failing is returned as an error,
// not silently dropped.
func (nm *NotificationManager) Send(noticeType NoticeType, system NotificationSystem, notification NotificationData) error {
	systemTemplates, exists := nm.noticeRegistry[noticeType]
	if !exists {
		return fmt.Errorf("no templates registered for notice type: %s", noticeType)
	}

	template, exists := systemTemplates[system]
	if !exists {
		return fmt.Errorf("no template registered for system %s under notice type %s", system, noticeType)
	}

	notifier, exists := nm.notifiers[system]
	if !exists {
		return fmt.Errorf("no notifier registered for system: %s", system)
	}

	operation := func() error {
		return notifier.Send(noticeType, notification, template)
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(nm.retryInterval),
	), nm.maxRetries)

	if err := backoff.Retry(operation, policy); err != nil {
		slog.Error("Failed to send notification", "type", noticeType, "system", system, "to", notification.To, "err", err)
		return fmt.Errorf("failed to send %s notification: %w", noticeType, err)
	}

	slog.Info("Notification sent", "type", noticeType, "system", system, "to", notification.To)
	return nil
}
