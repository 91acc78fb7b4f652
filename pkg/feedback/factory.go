package feedback

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryConfig contains configuration for creating a feedback repository
type RepositoryConfig struct {
	// Pool is required for PostgreSQL repositories
	Pool *pgxpool.Pool
}

// NewFeedbackRepository creates a new feedback repository based on the persistence type
func NewFeedbackRepository(persistenceType string, config RepositoryConfig) (FeedbackRepository, error) {
	switch persistenceType {
	case "postgres", "postgresql":
		if config.Pool == nil {
			return nil, fmt.Errorf("pool required for postgres repository")
		}
		return NewPostgresFeedbackRepository(config.Pool), nil
	case "memory", "inmem":
		return NewInMemoryFeedbackRepository(), nil
	default:
		return nil, fmt.Errorf("unsupported persistence type: %s (supported: postgres, memory)", persistenceType)
	}
}
