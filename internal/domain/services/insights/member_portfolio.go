package insights

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/squadfolio/squadfolio_service/internal/domain/entities"
	"github.com/squadfolio/squadfolio_service/internal/domain/services/history"
	"github.com/squadfolio/squadfolio_service/internal/domain/services/privacy"
)

// MemberPortfolioResponse is another member's portfolio as the requester is
// allowed to see it: every field already passed through the formatter.
type MemberPortfolioResponse struct {
	UserID      uuid.UUID                     `json:"user_id"`
	DisplayName string                        `json:"display_name"`
	Tier        privacy.DisclosureTier        `json:"performance_tier"`
	Value       entities.FormattedValue       `json:"value"`
	Performance entities.FormattedPerformance `json:"performance"`
	Positions   []entities.Position           `json:"positions"`
	Watchlist   []string                      `json:"watchlist"`
}

// GetMemberPortfolio renders one member's portfolio under their resolved
// privacy. Raw snapshot values and positions never leave this method
// unformatted.
func (s *Service) GetMemberPortfolio(ctx context.Context, workspaceID, requesterID, memberID uuid.UUID) (*MemberPortfolioResponse, error) {
	workspace, err := s.workspaceRepo.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if _, err := s.requireMember(ctx, workspaceID, requesterID); err != nil {
		return nil, err
	}
	member, err := s.workspaceRepo.GetMember(ctx, workspaceID, memberID)
	if err != nil {
		return nil, err
	}

	effective, err := s.EffectivePrivacyFor(ctx, workspace, memberID)
	if err != nil {
		return nil, err
	}

	snapshots, err := s.snapshotRepo.ListByUser(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshots: %w", err)
	}
	value, pl := history.LatestDayTotals(snapshots)

	positions := []entities.Position{}
	if privacy.CanShowPositions(effective) {
		raw, err := s.snapshotRepo.ListPositionsByUser(ctx, memberID)
		if err != nil {
			return nil, fmt.Errorf("failed to load positions: %w", err)
		}
		positions = privacy.FilterPositions(raw, effective.Positions)
	}

	watchlist := []string{}
	if privacy.CanShowWatchlist(effective) {
		watchlist, err = s.snapshotRepo.ListWatchlistSymbols(ctx, memberID)
		if err != nil {
			return nil, fmt.Errorf("failed to load watchlist: %w", err)
		}
	}

	return &MemberPortfolioResponse{
		UserID:      member.UserID,
		DisplayName: member.DisplayName,
		Tier:        privacy.PerformanceDisclosureTier(effective),
		Value:       privacy.FormatPortfolioValue(value, effective.PortfolioValue),
		Performance: privacy.FormatPerformance(pl, plPercent(value, pl), effective.Performance),
		Positions:   positions,
		Watchlist:   watchlist,
	}, nil
}

// plPercent mirrors the sampler's guarded percentage for the latest totals.
func plPercent(value, pl decimal.Decimal) float64 {
	return history.ProfitLossPercent(value, pl)
}
