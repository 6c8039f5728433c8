package privacy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/squadfolio/squadfolio_service/internal/domain/entities"
)

func effectiveWith(value entities.ValueDisclosure, perf entities.PerformanceDisclosure) entities.EffectivePrivacy {
	s := entities.DefaultPrivacySettings()
	s.PortfolioValue = value
	s.Performance = perf
	return entities.EffectivePrivacy{PrivacySettings: s, Source: entities.SourceUserDefault}
}

func TestPerformanceDisclosureTier(t *testing.T) {
	tests := []struct {
		name  string
		value entities.ValueDisclosure
		perf  entities.PerformanceDisclosure
		want  DisclosureTier
	}{
		{"hidden performance", entities.ValueExact, entities.PerformanceHidden, TierHidden},
		{"hidden value hides performance too", entities.ValueHidden, entities.PerformanceVisible, TierHidden},
		{"both hidden", entities.ValueHidden, entities.PerformanceHidden, TierHidden},
		{"exact value and visible performance", entities.ValueExact, entities.PerformanceVisible, TierFull},
		{"approximate value", entities.ValueApproximate, entities.PerformanceVisible, TierPartial},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PerformanceDisclosureTier(effectiveWith(tt.value, tt.perf)))
		})
	}
}

func TestCanRankInLeaderboard(t *testing.T) {
	assert.True(t, CanRankInLeaderboard(effectiveWith(entities.ValueExact, entities.PerformanceVisible)))

	// Approximate values are visible but not comparable: never ranked.
	assert.False(t, CanRankInLeaderboard(effectiveWith(entities.ValueApproximate, entities.PerformanceVisible)))
	assert.False(t, CanRankInLeaderboard(effectiveWith(entities.ValueExact, entities.PerformanceHidden)))
	assert.False(t, CanRankInLeaderboard(effectiveWith(entities.ValueHidden, entities.PerformanceVisible)))
}

func TestActivityPredicates(t *testing.T) {
	s := entities.DefaultPrivacySettings()

	s.Activity = entities.ActivityHidden
	ep := entities.EffectivePrivacy{PrivacySettings: s}
	assert.False(t, CanShowActivity(ep))
	assert.False(t, CanShowActivityAmounts(ep))

	s.Activity = entities.ActivityWithoutAmounts
	ep = entities.EffectivePrivacy{PrivacySettings: s}
	assert.True(t, CanShowActivity(ep))
	assert.False(t, CanShowActivityAmounts(ep))

	s.Activity = entities.ActivityFull
	ep = entities.EffectivePrivacy{PrivacySettings: s}
	assert.True(t, CanShowActivity(ep))
	assert.True(t, CanShowActivityAmounts(ep))
}

func TestPositionPredicates(t *testing.T) {
	s := entities.DefaultPrivacySettings()

	s.Positions = entities.PositionsHidden
	ep := entities.EffectivePrivacy{PrivacySettings: s}
	assert.False(t, CanShowPositions(ep))
	assert.False(t, CanShowPositionDetails(ep))

	s.Positions = entities.PositionsTickersOnly
	ep = entities.EffectivePrivacy{PrivacySettings: s}
	assert.True(t, CanShowPositions(ep))
	assert.False(t, CanShowPositionDetails(ep))

	s.Positions = entities.PositionsFull
	ep = entities.EffectivePrivacy{PrivacySettings: s}
	assert.True(t, CanShowPositions(ep))
	assert.True(t, CanShowPositionDetails(ep))
}

func TestCanShowWatchlist(t *testing.T) {
	s := entities.DefaultPrivacySettings()
	s.Watchlist = entities.WatchlistHidden
	assert.False(t, CanShowWatchlist(entities.EffectivePrivacy{PrivacySettings: s}))

	s.Watchlist = entities.WatchlistVisible
	assert.True(t, CanShowWatchlist(entities.EffectivePrivacy{PrivacySettings: s}))
}
