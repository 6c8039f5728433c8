package insights

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/squadfolio/squadfolio_service/internal/domain/entities"
	"github.com/squadfolio/squadfolio_service/internal/domain/services/privacy"
)

const defaultActivityLimit = 50

// ActivityFeedResponse is a workspace's activity feed after redaction.
type ActivityFeedResponse struct {
	WorkspaceID uuid.UUID                `json:"workspace_id"`
	Items       []entities.ActivityEvent `json:"items"`
}

// GetActivityFeed returns workspace activity with each item redacted per
// its author's resolved privacy: authors with hidden activity are dropped
// entirely, and amounts are stripped unless activity is fully disclosed.
func (s *Service) GetActivityFeed(ctx context.Context, workspaceID, requesterID uuid.UUID, limit int) (*ActivityFeedResponse, error) {
	workspace, err := s.workspaceRepo.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if _, err := s.requireMember(ctx, workspaceID, requesterID); err != nil {
		return nil, err
	}

	if limit <= 0 || limit > 200 {
		limit = defaultActivityLimit
	}
	events, err := s.activityRepo.ListByWorkspace(ctx, workspaceID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}

	// Resolve each author once; a feed page usually repeats few authors.
	resolved := make(map[uuid.UUID]entities.EffectivePrivacy)
	items := make([]entities.ActivityEvent, 0, len(events))
	for _, event := range events {
		effective, ok := resolved[event.UserID]
		if !ok {
			effective, err = s.EffectivePrivacyFor(ctx, workspace, event.UserID)
			if err != nil {
				return nil, err
			}
			resolved[event.UserID] = effective
		}

		if !privacy.CanShowActivity(effective) {
			continue
		}
		if !privacy.CanShowActivityAmounts(effective) {
			event.Quantity = nil
			event.Amount = nil
		}
		items = append(items, event)
	}

	return &ActivityFeedResponse{WorkspaceID: workspaceID, Items: items}, nil
}

// RecordActivityRequest is the strict write-path shape for posting an event.
type RecordActivityRequest struct {
	Type     entities.ActivityType `json:"type" binding:"required,oneof=buy sell deposit withdraw"`
	Symbol   string                `json:"symbol" binding:"required,ticker"`
	Quantity *decimal.Decimal      `json:"quantity,omitempty"`
	Amount   *decimal.Decimal      `json:"amount,omitempty"`
}

// RecordActivity stores a new activity event for the requesting member. The
// raw event keeps its amounts; redaction happens on every read.
func (s *Service) RecordActivity(ctx context.Context, workspaceID, userID uuid.UUID, req RecordActivityRequest) (*entities.ActivityEvent, error) {
	if _, err := s.workspaceRepo.GetByID(ctx, workspaceID); err != nil {
		return nil, err
	}
	if _, err := s.requireMember(ctx, workspaceID, userID); err != nil {
		return nil, err
	}

	event := entities.ActivityEvent{
		ID:          uuid.New(),
		WorkspaceID: workspaceID,
		UserID:      userID,
		Type:        req.Type,
		Symbol:      req.Symbol,
		Quantity:    req.Quantity,
		Amount:      req.Amount,
		OccurredAt:  time.Now().UTC(),
	}
	if err := s.activityRepo.Record(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to record activity: %w", err)
	}
	return &event, nil
}
