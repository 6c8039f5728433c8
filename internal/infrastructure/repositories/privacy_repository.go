package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/squadfolio/squadfolio_service/internal/domain/entities"
	"github.com/squadfolio/squadfolio_service/pkg/logger"
)

// PrivacyRepository stores privacy settings as raw JSONB. Reads hand the
// stored bytes back untouched; the defensive parse lives in the domain layer
// so a bad row can never take the read path down.
type PrivacyRepository struct {
	db     *sqlx.DB
	logger *logger.Logger
}

func NewPrivacyRepository(db *sqlx.DB, log *logger.Logger) *PrivacyRepository {
	return &PrivacyRepository{db: db, logger: log}
}

// GetUserDefaults returns the user's stored default settings, nil when the
// user never saved any.
func (r *PrivacyRepository) GetUserDefaults(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	query := `SELECT settings FROM user_privacy_settings WHERE user_id = $1`

	var raw []byte
	if err := r.db.GetContext(ctx, &raw, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user privacy settings: %w", err)
	}
	return raw, nil
}

// UpsertUserDefaults saves the user's default settings
func (r *PrivacyRepository) UpsertUserDefaults(ctx context.Context, userID uuid.UUID, settings entities.PrivacySettings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	query := `
		INSERT INTO user_privacy_settings (user_id, settings, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id)
		DO UPDATE SET settings = EXCLUDED.settings, updated_at = NOW()`

	if _, err := r.db.ExecContext(ctx, query, userID, raw); err != nil {
		return fmt.Errorf("failed to upsert user privacy settings: %w", err)
	}
	return nil
}

// GetWorkspaceOverride returns the member's stored override for a workspace,
// nil when none exists.
func (r *PrivacyRepository) GetWorkspaceOverride(ctx context.Context, workspaceID, userID uuid.UUID) ([]byte, error) {
	query := `
		SELECT settings FROM workspace_privacy_overrides
		WHERE workspace_id = $1 AND user_id = $2`

	var raw []byte
	if err := r.db.GetContext(ctx, &raw, query, workspaceID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get workspace override: %w", err)
	}
	return raw, nil
}

// UpsertWorkspaceOverride saves the member's override for a workspace
func (r *PrivacyRepository) UpsertWorkspaceOverride(ctx context.Context, workspaceID, userID uuid.UUID, settings entities.PrivacySettings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	query := `
		INSERT INTO workspace_privacy_overrides (workspace_id, user_id, settings, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (workspace_id, user_id)
		DO UPDATE SET settings = EXCLUDED.settings, updated_at = NOW()`

	if _, err := r.db.ExecContext(ctx, query, workspaceID, userID, raw); err != nil {
		return fmt.Errorf("failed to upsert workspace override: %w", err)
	}
	return nil
}

// DeleteWorkspaceOverride removes the member's override. Deleting a missing
// override is a no-op.
func (r *PrivacyRepository) DeleteWorkspaceOverride(ctx context.Context, workspaceID, userID uuid.UUID) error {
	query := `
		DELETE FROM workspace_privacy_overrides
		WHERE workspace_id = $1 AND user_id = $2`

	if _, err := r.db.ExecContext(ctx, query, workspaceID, userID); err != nil {
		return fmt.Errorf("failed to delete workspace override: %w", err)
	}
	return nil
}
