package feedback

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryFeedbackRepository implements FeedbackRepository with an in-memory
// map, for tests and local development.
type InMemoryFeedbackRepository struct {
	mutex   sync.RWMutex
	records map[uuid.UUID]Feedback
}

// NewInMemoryFeedbackRepository creates a new in-memory feedback repository
func NewInMemoryFeedbackRepository() *InMemoryFeedbackRepository {
	return &InMemoryFeedbackRepository{
		records: make(map[uuid.UUID]Feedback),
	}
}

// CreateFeedback stores a new feedback record
func (r *InMemoryFeedbackRepository) CreateFeedback(ctx context.Context, params SubmitFeedbackParams) (Feedback, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	now := time.Now().UTC()
	f := Feedback{
		ID:        uuid.New(),
		UserID:    params.UserID,
		FullName:  params.FullName,
		Email:     params.Email,
		Content:   params.Content,
		Rating:    params.Rating,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.records[f.ID] = f
	return f, nil
}

// GetFeedback retrieves a feedback record by id
func (r *InMemoryFeedbackRepository) GetFeedback(ctx context.Context, id uuid.UUID) (Feedback, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	f, exists := r.records[id]
	if !exists {
		return Feedback{}, ErrFeedbackNotFound
	}
	return f, nil
}

// ListFeedback returns all feedback records, newest first
func (r *InMemoryFeedbackRepository) ListFeedback(ctx context.Context) ([]Feedback, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	records := make([]Feedback, 0, len(r.records))
	for _, f := range r.records {
		records = append(records, f)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

// SetReply stores an admin reply on a feedback record
func (r *InMemoryFeedbackRepository) SetReply(ctx context.Context, id uuid.UUID, reply string) (Feedback, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	f, exists := r.records[id]
	if !exists {
		return Feedback{}, ErrFeedbackNotFound
	}
	f.AdminReply = &reply
	f.UpdatedAt = time.Now().UTC()
	r.records[id] = f
	return f, nil
}

// SetResolved marks a feedback record as resolved or unresolved
func (r *InMemoryFeedbackRepository) SetResolved(ctx context.Context, id uuid.UUID, resolved bool) (Feedback, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	f, exists := r.records[id]
	if !exists {
		return Feedback{}, ErrFeedbackNotFound
	}
	f.IsResolved = resolved
	f.UpdatedAt = time.Now().UTC()
	r.records[id] = f
	return f, nil
}

// Count returns the number of stored feedback records
func (r *InMemoryFeedbackRepository) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.records)
}
