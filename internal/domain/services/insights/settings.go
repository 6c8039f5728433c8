package insights

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/squadfolio/squadfolio_service/internal/domain/entities"
	apperrors "github.com/squadfolio/squadfolio_service/pkg/errors"
)

// GetUserSettings returns the user's default privacy settings, with the
// documented defaults when nothing was ever saved.
func (s *Service) GetUserSettings(ctx context.Context, userID uuid.UUID) (entities.PrivacySettings, error) {
	raw, err := s.privacyRepo.GetUserDefaults(ctx, userID)
	if err != nil {
		return entities.PrivacySettings{}, fmt.Errorf("failed to load user defaults: %w", err)
	}
	return entities.ParsePrivacySettings(raw), nil
}

// UpdateUserSettings saves the user's default privacy settings. The input
// went through strict validation at the binding layer.
func (s *Service) UpdateUserSettings(ctx context.Context, userID uuid.UUID, settings entities.PrivacySettings) error {
	if err := s.privacyRepo.UpsertUserDefaults(ctx, userID, entities.SanitizePrivacySettings(settings)); err != nil {
		return fmt.Errorf("failed to save user defaults: %w", err)
	}
	s.logger.CtxInfo(ctx, "User privacy defaults updated", "user_id", userID)
	return nil
}

// GetWorkspaceOverride returns the member's per-workspace override, or nil
// when none is set.
func (s *Service) GetWorkspaceOverride(ctx context.Context, workspaceID, userID uuid.UUID) (*entities.PrivacySettings, error) {
	if _, err := s.requireMember(ctx, workspaceID, userID); err != nil {
		return nil, err
	}
	raw, err := s.privacyRepo.GetWorkspaceOverride(ctx, workspaceID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load workspace override: %w", err)
	}
	if raw == nil {
		return nil, nil
	}
	parsed := entities.ParsePrivacySettings(raw)
	return &parsed, nil
}

// UpdateWorkspaceOverride saves the member's per-workspace override.
func (s *Service) UpdateWorkspaceOverride(ctx context.Context, workspaceID, userID uuid.UUID, settings entities.PrivacySettings) error {
	if _, err := s.requireMember(ctx, workspaceID, userID); err != nil {
		return err
	}
	if err := s.privacyRepo.UpsertWorkspaceOverride(ctx, workspaceID, userID, entities.SanitizePrivacySettings(settings)); err != nil {
		return fmt.Errorf("failed to save workspace override: %w", err)
	}
	s.logger.CtxInfo(ctx, "Workspace privacy override updated", "workspace_id", workspaceID, "user_id", userID)
	return nil
}

// DeleteWorkspaceOverride removes the member's override so their user
// defaults apply again.
func (s *Service) DeleteWorkspaceOverride(ctx context.Context, workspaceID, userID uuid.UUID) error {
	if _, err := s.requireMember(ctx, workspaceID, userID); err != nil {
		return err
	}
	if err := s.privacyRepo.DeleteWorkspaceOverride(ctx, workspaceID, userID); err != nil {
		return fmt.Errorf("failed to delete workspace override: %w", err)
	}
	return nil
}

// GetWorkspacePolicy returns the workspace's privacy policy to a member.
func (s *Service) GetWorkspacePolicy(ctx context.Context, workspaceID, requesterID uuid.UUID) (*entities.WorkspacePrivacyPolicy, error) {
	workspace, err := s.workspaceRepo.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if _, err := s.requireMember(ctx, workspaceID, requesterID); err != nil {
		return nil, err
	}
	policy := workspace.Policy()
	return &policy, nil
}

// UpdateWorkspacePolicy saves a workspace's privacy policy. Only owners and
// admins may change it.
func (s *Service) UpdateWorkspacePolicy(ctx context.Context, workspaceID, requesterID uuid.UUID, policy entities.WorkspacePrivacyPolicy) error {
	if _, err := s.workspaceRepo.GetByID(ctx, workspaceID); err != nil {
		return err
	}
	member, err := s.requireMember(ctx, workspaceID, requesterID)
	if err != nil {
		return err
	}
	if member.Role != entities.WorkspaceRoleOwner && member.Role != entities.WorkspaceRoleAdmin {
		return apperrors.ErrNotAnAdmin
	}

	if policy.MinimumSharing != nil {
		min := entities.SanitizePrivacySettings(*policy.MinimumSharing)
		policy.MinimumSharing = &min
	}
	if err := s.workspaceRepo.UpdatePolicy(ctx, workspaceID, policy); err != nil {
		return fmt.Errorf("failed to save workspace policy: %w", err)
	}
	s.logger.CtxInfo(ctx, "Workspace privacy policy updated",
		"workspace_id", workspaceID,
		"enforced_transparency", policy.EnforcedTransparency,
	)
	return nil
}
