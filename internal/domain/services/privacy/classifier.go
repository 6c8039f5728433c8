package privacy

import (
	"github.com/squadfolio/squadfolio_service/internal/domain/entities"
)

// DisclosureTier is the coarse three-level summary of how much performance
// detail a member discloses.
type DisclosureTier string

const (
	TierHidden  DisclosureTier = "hidden"
	TierPartial DisclosureTier = "partial"
	TierFull    DisclosureTier = "full"
)

// PerformanceDisclosureTier summarizes performance visibility. Performance
// percentages are only meaningful if the underlying value basis is shared at
// some level, so a hidden portfolio value hides performance too.
func PerformanceDisclosureTier(ep entities.EffectivePrivacy) DisclosureTier {
	if ep.Performance == entities.PerformanceHidden || ep.PortfolioValue == entities.ValueHidden {
		return TierHidden
	}
	if ep.PortfolioValue == entities.ValueExact && ep.Performance == entities.PerformanceVisible {
		return TierFull
	}
	return TierPartial
}

// CanRankInLeaderboard reports whether the member may appear in a ranked
// leaderboard. Rankings need unambiguous, comparable numbers: approximate
// values stay out even though they are visible.
func CanRankInLeaderboard(ep entities.EffectivePrivacy) bool {
	return ep.Performance == entities.PerformanceVisible && ep.PortfolioValue == entities.ValueExact
}

// CanShowActivity reports whether the member's activity feed is shown at all.
func CanShowActivity(ep entities.EffectivePrivacy) bool {
	return ep.Activity != entities.ActivityHidden
}

// CanShowActivityAmounts reports whether activity items may include amounts.
func CanShowActivityAmounts(ep entities.EffectivePrivacy) bool {
	return ep.Activity == entities.ActivityFull
}

// CanShowPositions reports whether the member's position list is shown.
func CanShowPositions(ep entities.EffectivePrivacy) bool {
	return ep.Positions != entities.PositionsHidden
}

// CanShowPositionDetails reports whether positions include quantity, price
// and market value.
func CanShowPositionDetails(ep entities.EffectivePrivacy) bool {
	return ep.Positions == entities.PositionsFull
}

// CanShowWatchlist reports whether the member's watchlist is shown.
func CanShowWatchlist(ep entities.EffectivePrivacy) bool {
	return ep.Watchlist == entities.WatchlistVisible
}
