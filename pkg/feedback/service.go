package feedback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/natiman34/meri-ethiopian-fitness-sub004/pkg/notification"
)

// ErrInvalidFeedback is returned when a submission or reply fails validation.
var ErrInvalidFeedback = errors.New("invalid feedback")

// FeedbackService handles feedback submission, listing, admin replies and
// resolution. Replies are delivered to the submitter by email, best effort.
type FeedbackService struct {
	repo                FeedbackRepository
	notificationManager *notification.NotificationManager
	noticeSystem        notification.NotificationSystem
}

// FeedbackServiceOption defines configuration options
type FeedbackServiceOption func(*FeedbackService)

// WithNotificationManager sets the manager used to email admin replies.
// Without one, replies are stored but no email is sent.
func WithNotificationManager(nm *notification.NotificationManager) FeedbackServiceOption {
	return func(s *FeedbackService) {
		s.notificationManager = nm
	}
}

// WithNoticeSystem sets the notification system replies are sent through
func WithNoticeSystem(system notification.NotificationSystem) FeedbackServiceOption {
	return func(s *FeedbackService) {
		s.noticeSystem = system
	}
}

// NewFeedbackService creates a new feedback service
func NewFeedbackService(repo FeedbackRepository, opts ...FeedbackServiceOption) *FeedbackService {
	service := &FeedbackService{
		repo:         repo,
		noticeSystem: notification.EmailSystem,
	}

	for _, opt := range opts {
		opt(service)
	}

	return service
}

// Submit validates and stores a new feedback record.
func (s *FeedbackService) Submit(ctx context.Context, params SubmitFeedbackParams) (Feedback, error) {
	params.Email = strings.TrimSpace(params.Email)
	params.Content = strings.TrimSpace(params.Content)

	if params.Email == "" || !strings.Contains(params.Email, "@") {
		return Feedback{}, fmt.Errorf("%w: a valid email is required", ErrInvalidFeedback)
	}
	if params.Content == "" {
		return Feedback{}, fmt.Errorf("%w: content cannot be empty", ErrInvalidFeedback)
	}
	if params.Rating < 0 || params.Rating > 5 {
		return Feedback{}, fmt.Errorf("%w: rating must be between 1 and 5, or 0 for none", ErrInvalidFeedback)
	}

	f, err := s.repo.CreateFeedback(ctx, params)
	if err != nil {
		return Feedback{}, fmt.Errorf("failed to submit feedback: %w", err)
	}

	slog.Info("Feedback submitted", "feedback_id", f.ID, "email", f.Email, "rating", f.Rating)
	return f, nil
}

// Get retrieves a single feedback record.
func (s *FeedbackService) Get(ctx context.Context, id uuid.UUID) (Feedback, error) {
	return s.repo.GetFeedback(ctx, id)
}

// List returns all feedback records, newest first.
func (s *FeedbackService) List(ctx context.Context) ([]Feedback, error) {
	return s.repo.ListFeedback(ctx)
}

// Reply stores an admin reply on a feedback record and emails it to the
// submitter. The reply is stored even when the email cannot be delivered.
func (s *FeedbackService) Reply(ctx context.Context, id uuid.UUID, reply string) (Feedback, error) {
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return Feedback{}, fmt.Errorf("%w: reply cannot be empty", ErrInvalidFeedback)
	}

	f, err := s.repo.SetReply(ctx, id, reply)
	if err != nil {
		return Feedback{}, err
	}

	if err := s.sendReplyEmail(f, reply); err != nil {
		slog.Error("Failed to send feedback reply email", "feedback_id", f.ID, "email", f.Email, "err", err)
		// Reply is stored, email delivery is best effort
	}

	slog.Info("Feedback replied", "feedback_id", f.ID)
	return f, nil
}

// Resolve marks a feedback record as resolved.
func (s *FeedbackService) Resolve(ctx context.Context, id uuid.UUID) (Feedback, error) {
	f, err := s.repo.SetResolved(ctx, id, true)
	if err != nil {
		return Feedback{}, err
	}

	slog.Info("Feedback resolved", "feedback_id", f.ID)
	return f, nil
}

func (s *FeedbackService) sendReplyEmail(f Feedback, reply string) error {
	if s.notificationManager == nil {
		slog.Warn("Notification manager not configured, skipping reply email", "feedback_id", f.ID)
		return nil
	}

	data := notification.NotificationData{
		To: f.Email,
		Data: map[string]string{
			"FullName": f.FullName,
			"Content":  f.Content,
			"Reply":    reply,
		},
	}
	return s.notificationManager.Send(notification.FeedbackReply, s.noticeSystem, data)
}
