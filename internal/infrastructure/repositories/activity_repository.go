package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/squadfolio/squadfolio_service/internal/domain/entities"
	"github.com/squadfolio/squadfolio_service/pkg/logger"
)

// ActivityRepository persists raw workspace activity events.
type ActivityRepository struct {
	db     *sqlx.DB
	logger *logger.Logger
}

func NewActivityRepository(db *sqlx.DB, log *logger.Logger) *ActivityRepository {
	return &ActivityRepository{db: db, logger: log}
}

// ListByWorkspace returns the newest events first, up to limit. Redaction is
// the activity service's job; rows come back unfiltered.
func (r *ActivityRepository) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID, limit int) ([]entities.ActivityEvent, error) {
	query := `
		SELECT id, workspace_id, user_id, type, symbol, quantity, amount, occurred_at
		FROM activity_events
		WHERE workspace_id = $1
		ORDER BY occurred_at DESC
		LIMIT $2`

	events := []entities.ActivityEvent{}
	if err := r.db.SelectContext(ctx, &events, query, workspaceID, limit); err != nil {
		return nil, fmt.Errorf("failed to list activity events: %w", err)
	}
	return events, nil
}

// Record inserts one activity event.
func (r *ActivityRepository) Record(ctx context.Context, event entities.ActivityEvent) error {
	query := `
		INSERT INTO activity_events (id, workspace_id, user_id, type, symbol, quantity, amount, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		event.ID,
		event.WorkspaceID,
		event.UserID,
		event.Type,
		event.Symbol,
		event.Quantity,
		event.Amount,
		event.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record activity event: %w", err)
	}
	return nil
}
