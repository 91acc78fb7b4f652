package feedback

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrFeedbackNotFound is returned when no feedback record exists for an id.
var ErrFeedbackNotFound = errors.New("feedback not found")

// FeedbackRepository defines the storage operations for feedback records.
type FeedbackRepository interface {
	// CreateFeedback stores a new feedback record and returns it.
	CreateFeedback(ctx context.Context, params SubmitFeedbackParams) (Feedback, error)

	// GetFeedback retrieves a feedback record by id.
	GetFeedback(ctx context.Context, id uuid.UUID) (Feedback, error)

	// ListFeedback returns all feedback records, newest first.
	ListFeedback(ctx context.Context) ([]Feedback, error)

	// SetReply stores an admin reply on a feedback record.
	SetReply(ctx context.Context, id uuid.UUID, reply string) (Feedback, error)

	// SetResolved marks a feedback record as resolved or unresolved.
	SetResolved(ctx context.Context, id uuid.UUID, resolved bool) (Feedback, error)
}
