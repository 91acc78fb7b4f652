package feedback

import (
	"time"

	"github.com/google/uuid"
)

// Feedback represents a feedback record submitted by a user or visitor.
// UserID is nil for feedback submitted without a provisioned account.
type Feedback struct {
	ID         uuid.UUID  `json:"id"`
	UserID     *uuid.UUID `json:"user_id,omitempty"`
	FullName   string     `json:"full_name,omitempty"`
	Email      string     `json:"email"`
	Content    string     `json:"content"`
	Rating     int16      `json:"rating"`
	IsResolved bool       `json:"is_resolved"`
	AdminReply *string    `json:"admin_reply,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// SubmitFeedbackParams contains the fields accepted when submitting feedback.
// Rating is 1 to 5, 0 means no rating was given.
type SubmitFeedbackParams struct {
	UserID   *uuid.UUID
	FullName string
	Email    string
	Content  string
	Rating   int16
}
