package insights

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/squadfolio/squadfolio_service/internal/domain/entities"
	apperrors "github.com/squadfolio/squadfolio_service/pkg/errors"
	"github.com/squadfolio/squadfolio_service/pkg/metrics"
)

// SquadHistoryResponse is the aggregate view of a workspace's performance.
// You is the requester's own series, always present and unredacted for
// self-view, independent of how the aggregate treats them for others.
type SquadHistoryResponse struct {
	WorkspaceID uuid.UUID               `json:"workspace_id"`
	Period      entities.HistoryPeriod  `json:"period"`
	Aggregate   entities.SquadAggregate `json:"aggregate"`
	You         entities.MemberHistory  `json:"you"`
}

// GetSquadHistory produces the squad-average and squad-total series for a
// workspace over a period, honoring every member's resolved privacy.
func (s *Service) GetSquadHistory(ctx context.Context, workspaceID, requesterID uuid.UUID, period entities.HistoryPeriod) (*SquadHistoryResponse, error) {
	if !period.Valid() {
		return nil, apperrors.ErrInvalidPeriod
	}

	workspace, err := s.workspaceRepo.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	requester, err := s.requireMember(ctx, workspaceID, requesterID)
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("squad_history:%s:%s:%s", workspaceID, requesterID, period)
	if s.cache != nil {
		var cached SquadHistoryResponse
		if hit, err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
			metrics.CacheHitsTotal.WithLabelValues("hit").Inc()
			return &cached, nil
		}
		metrics.CacheHitsTotal.WithLabelValues("miss").Inc()
	}

	members, err := s.workspaceRepo.ListMembers(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	series, err := s.memberSeries(ctx, workspace, members, period)
	if err != nil {
		return nil, err
	}

	aggregate := s.aggregator.Aggregate(series)
	metrics.AggregationsTotal.WithLabelValues(string(period)).Inc()
	metrics.HiddenMembersObserved.Observe(float64(aggregate.Metadata.HiddenMembers))

	// The requester always sees their own real series, whatever the
	// aggregate shows of them to everybody else.
	you := entities.MemberHistory{
		UserID:      requesterID,
		DisplayName: requester.DisplayName,
		Visible:     true,
		Points:      []entities.SamplePoint{},
	}
	for _, m := range series {
		if m.UserID == requesterID {
			you.Points = m.History.Points
			you.Coverage = m.History.Coverage
			break
		}
	}

	response := &SquadHistoryResponse{
		WorkspaceID: workspaceID,
		Period:      period,
		Aggregate:   aggregate,
		You:         you,
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cacheKey, response, s.cacheTTL); err != nil {
			s.logger.CtxWarn(ctx, "Failed to cache squad history", "error", err, "workspace_id", workspaceID)
		}
	}
	return response, nil
}

// OwnHistoryResponse is the requester's portfolio series outside any
// workspace context. Self-view is never redacted.
type OwnHistoryResponse struct {
	Period entities.HistoryPeriod `json:"period"`
	Series entities.SampledSeries `json:"series"`
}

// GetOwnHistory samples the requester's own snapshot history. There is no
// join-date cutoff: the whole window is eligible for real data.
func (s *Service) GetOwnHistory(ctx context.Context, userID uuid.UUID, period entities.HistoryPeriod) (*OwnHistoryResponse, error) {
	if !period.Valid() {
		return nil, apperrors.ErrInvalidPeriod
	}

	snapshots, err := s.snapshotRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshots: %w", err)
	}

	series := s.sampler.Sample(snapshots, period, time.Time{})
	return &OwnHistoryResponse{Period: period, Series: series}, nil
}
