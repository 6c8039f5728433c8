// Package repositories implements the domain persistence interfaces on
// PostgreSQL.
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
	apperrors "github.com/squadfolio/squadfolio_service/pkg/errors"
	"github.com/squadfolio/squadfolio_service/pkg/logger"
)

// WorkspaceRepository implements workspace and membership persistence
type WorkspaceRepository struct {
	db     *sqlx.DB
	logger *logger.Logger
}

func NewWorkspaceRepository(db *sqlx.DB, log *logger.Logger) *WorkspaceRepository {
	return &WorkspaceRepository{db: db, logger: log}
}

// GetByID retrieves a workspace by ID
func (r *WorkspaceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Workspace, error) {
	query := `
		SELECT id, name, description, owner_id, policy, created_at, updated_at
		FROM workspaces
		WHERE id = $1`

	var workspace entities.Workspace
	if err := r.db.GetContext(ctx, &workspace, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}
	return &workspace, nil
}

// ListMembers returns all members of a workspace, oldest membership first.
func (r *WorkspaceRepository) ListMembers(ctx context.Context, workspaceID uuid.UUID) ([]entities.WorkspaceMember, error) {
	query := `
		SELECT workspace_id, user_id, display_name, role, joined_at
		FROM workspace_members
		WHERE workspace_id = $1
		ORDER BY joined_at ASC`

	members := []entities.WorkspaceMember{}
	if err := r.db.SelectContext(ctx, &members, query, workspaceID); err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// GetMember retrieves one membership record
func (r *WorkspaceRepository) GetMember(ctx context.Context, workspaceID, userID uuid.UUID) (*entities.WorkspaceMember, error) {
	query := `
		SELECT workspace_id, user_id, display_name, role, joined_at
		FROM workspace_members
		WHERE workspace_id = $1 AND user_id = $2`

	var member entities.WorkspaceMember
	if err := r.db.GetContext(ctx, &member, query, workspaceID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return &member, nil
}

// UpdatePolicy replaces a workspace's privacy policy
func (r *WorkspaceRepository) UpdatePolicy(ctx context.Context, workspaceID uuid.UUID, policy entities.WorkspacePrivacyPolicy) error {
	raw, err := json.Marshal(policy)
	if err != nil {
		return fmt.Errorf("failed to marshal policy: %w", err)
	}

	query := `
		UPDATE workspaces
		SET policy = $2, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, workspaceID, raw)
	if err != nil {
		return fmt.Errorf("failed to update policy: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return apperrors.ErrWorkspaceNotFound
	}

	r.logger.CtxInfo(ctx, "Workspace policy updated", "workspace_id", workspaceID)
	return nil
}
