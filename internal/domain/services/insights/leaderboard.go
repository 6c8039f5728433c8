package insights

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/squadfolio/squadfolio_service/internal/domain/entities"
	"github.com/squadfolio/squadfolio_service/internal/domain/services/privacy"
	apperrors "github.com/squadfolio/squadfolio_service/pkg/errors"
)

// LeaderboardEntry is one ranked member. Only members whose resolved privacy
// allows ranking appear; their value is exact by construction.
type LeaderboardEntry struct {
	Rank          int                     `json:"rank"`
	UserID        uuid.UUID               `json:"user_id"`
	DisplayName   string                  `json:"display_name"`
	ReturnPercent float64                 `json:"return_percent"`
	Value         entities.FormattedValue `json:"value"`
	Coverage      int                     `json:"coverage"`
}

// LeaderboardResponse ranks the workspace's eligible members by return.
type LeaderboardResponse struct {
	WorkspaceID     uuid.UUID              `json:"workspace_id"`
	Period          entities.HistoryPeriod `json:"period"`
	Entries         []LeaderboardEntry     `json:"entries"`
	TotalMembers    int                    `json:"total_members"`
	RankedMembers   int                    `json:"ranked_members"`
	UnrankedMembers int                    `json:"unranked_members"`
}

// GetLeaderboard ranks members by profit/loss percent at the end of the
// period. Eligibility comes from the classifier alone: performance must be
// visible and the portfolio value exact, since approximate figures are not
// comparable.
func (s *Service) GetLeaderboard(ctx context.Context, workspaceID, requesterID uuid.UUID, period entities.HistoryPeriod) (*LeaderboardResponse, error) {
	if !period.Valid() {
		return nil, apperrors.ErrInvalidPeriod
	}

	workspace, err := s.workspaceRepo.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if _, err := s.requireMember(ctx, workspaceID, requesterID); err != nil {
		return nil, err
	}

	members, err := s.workspaceRepo.ListMembers(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	series, err := s.memberSeries(ctx, workspace, members, period)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(series))
	for _, m := range series {
		if !privacy.CanRankInLeaderboard(m.Effective) {
			continue
		}
		if len(m.History.Points) == 0 {
			continue
		}
		last := m.History.Points[len(m.History.Points)-1]
		entries = append(entries, LeaderboardEntry{
			UserID:        m.UserID,
			DisplayName:   m.DisplayName,
			ReturnPercent: last.ProfitLossPercent,
			Value:         privacy.FormatPortfolioValue(last.Value, m.Effective.PortfolioValue),
			Coverage:      m.History.Coverage,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].ReturnPercent > entries[j].ReturnPercent
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	return &LeaderboardResponse{
		WorkspaceID:     workspaceID,
		Period:          period,
		Entries:         entries,
		TotalMembers:    len(members),
		RankedMembers:   len(entries),
		UnrankedMembers: len(members) - len(entries),
	}, nil
}
