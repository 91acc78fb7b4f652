package feedback

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresFeedbackRepository implements FeedbackRepository on a pgx pool
type PostgresFeedbackRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresFeedbackRepository creates a new PostgreSQL-based feedback repository
func NewPostgresFeedbackRepository(pool *pgxpool.Pool) *PostgresFeedbackRepository {
	return &PostgresFeedbackRepository{
		pool: pool,
	}
}

const feedbackColumns = "id, user_id, full_name, email, content, rating, is_resolved, admin_reply, created_at, updated_at"

func scanFeedback(row pgx.Row) (Feedback, error) {
	var f Feedback
	err := row.Scan(&f.ID, &f.UserID, &f.FullName, &f.Email, &f.Content,
		&f.Rating, &f.IsResolved, &f.AdminReply, &f.CreatedAt, &f.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Feedback{}, ErrFeedbackNotFound
	}
	if err != nil {
		return Feedback{}, fmt.Errorf("failed to scan feedback: %w", err)
	}
	return f, nil
}

// CreateFeedback stores a new feedback record
func (r *PostgresFeedbackRepository) CreateFeedback(ctx context.Context, params SubmitFeedbackParams) (Feedback, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO feedback (id, user_id, full_name, email, content, rating, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		RETURNING `+feedbackColumns,
		uuid.New(), params.UserID, params.FullName, params.Email, params.Content, params.Rating)
	f, err := scanFeedback(row)
	if err != nil {
		return Feedback{}, fmt.Errorf("failed to create feedback: %w", err)
	}
	return f, nil
}

// GetFeedback retrieves a feedback record by id
func (r *PostgresFeedbackRepository) GetFeedback(ctx context.Context, id uuid.UUID) (Feedback, error) {
	row := r.pool.QueryRow(ctx,
		"SELECT "+feedbackColumns+" FROM feedback WHERE id = $1", id)
	return scanFeedback(row)
}

// ListFeedback returns all feedback records, newest first
func (r *PostgresFeedbackRepository) ListFeedback(ctx context.Context) ([]Feedback, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+feedbackColumns+" FROM feedback ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer rows.Close()

	var records []Feedback
	for rows.Next() {
		var f Feedback
		if err := rows.Scan(&f.ID, &f.UserID, &f.FullName, &f.Email, &f.Content,
			&f.Rating, &f.IsResolved, &f.AdminReply, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		records = append(records, f)
	}
	return records, rows.Err()
}

// SetReply stores an admin reply on a feedback record
func (r *PostgresFeedbackRepository) SetReply(ctx context.Context, id uuid.UUID, reply string) (Feedback, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE feedback
		SET admin_reply = $2,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+feedbackColumns,
		id, reply)
	return scanFeedback(row)
}

// SetResolved marks a feedback record as resolved or unresolved
func (r *PostgresFeedbackRepository) SetResolved(ctx context.Context, id uuid.UUID, resolved bool) (Feedback, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE feedback
		SET is_resolved = $2,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+feedbackColumns,
		id, resolved)
	return scanFeedback(row)
}
