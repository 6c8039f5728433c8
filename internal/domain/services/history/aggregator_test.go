package history

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squadfolio/squadfolio_service/internal/domain/entities"
)

func effectiveVisible() entities.EffectivePrivacy {
	return entities.EffectivePrivacy{
		PrivacySettings: entities.DefaultPrivacySettings(),
		Source:          entities.SourceUserDefault,
	}
}

func effectiveHidden() entities.EffectivePrivacy {
	s := entities.DefaultPrivacySettings()
	s.PortfolioValue = entities.ValueHidden
	return entities.EffectivePrivacy{PrivacySettings: s, Source: entities.SourceUserDefault}
}

func seriesOf(points ...entities.SamplePoint) entities.SampledSeries {
	return entities.SampledSeries{
		Points:      points,
		ActualCount: len(points),
		TotalCount:  len(points),
		Coverage:    100,
	}
}

func point(d time.Time, value float64, pct float64) entities.SamplePoint {
	return entities.SamplePoint{
		Date:              d,
		Value:             decimal.NewFromFloat(value),
		ProfitLossPercent: pct,
	}
}

func TestAggregate_HiddenMemberExcludedEverywhere(t *testing.T) {
	agg := NewAggregator()
	d := day(2025, time.July, 30)

	hiddenID := uuid.New()
	members := []MemberSeries{
		{
			UserID:      uuid.New(),
			DisplayName: "alice",
			Effective:   effectiveVisible(),
			History:     seriesOf(point(d, 10000, 5)),
		},
		{
			UserID:      hiddenID,
			DisplayName: "bob",
			Effective:   effectiveHidden(),
			History:     seriesOf(point(d, 999999, 80)),
		},
	}

	result := agg.Aggregate(members)

	assert.Equal(t, 2, result.Metadata.TotalMembers)
	assert.Equal(t, 1, result.Metadata.VisibleMembers)
	assert.Equal(t, 1, result.Metadata.HiddenMembers)

	// The hidden member's values leak into neither series.
	require.Len(t, result.Average, 1)
	assert.InDelta(t, 5.0, result.Average[0].PercentChange, 1e-9)
	require.Len(t, result.Total, 1)
	assert.True(t, result.Total[0].Value.Equal(decimal.NewFromInt(10000)))

	// The listing keeps their identity with an empty point sequence.
	var hidden *entities.MemberHistory
	for i := range result.Members {
		if result.Members[i].UserID == hiddenID {
			hidden = &result.Members[i]
		}
	}
	require.NotNil(t, hidden)
	assert.False(t, hidden.Visible)
	assert.NotNil(t, hidden.Points)
	assert.Empty(t, hidden.Points)
}

func TestAggregate_AverageOverMembersWithDataAtDate(t *testing.T) {
	agg := NewAggregator()
	d1 := day(2025, time.July, 29)
	d2 := day(2025, time.July, 30)

	members := []MemberSeries{
		{
			UserID:      uuid.New(),
			DisplayName: "alice",
			Effective:   effectiveVisible(),
			History:     seriesOf(point(d1, 10000, 4), point(d2, 10100, 6)),
		},
		{
			UserID:      uuid.New(),
			DisplayName: "bob",
			Effective:   effectiveVisible(),
			History:     seriesOf(point(d2, 20000, 10)),
		},
	}

	result := agg.Aggregate(members)

	require.Len(t, result.Average, 2)
	// d1: only alice has data.
	assert.InDelta(t, 4.0, result.Average[0].PercentChange, 1e-9)
	// d2: mean of 6 and 10.
	assert.InDelta(t, 8.0, result.Average[1].PercentChange, 1e-9)

	// Partial sums: bob does not contribute at d1.
	assert.True(t, result.Total[0].Value.Equal(decimal.NewFromInt(10000)))
	assert.True(t, result.Total[1].Value.Equal(decimal.NewFromInt(30100)))
}

func TestAggregate_NoVisibleMembers(t *testing.T) {
	agg := NewAggregator()
	d := day(2025, time.July, 30)

	members := []MemberSeries{
		{
			UserID:      uuid.New(),
			DisplayName: "bob",
			Effective:   effectiveHidden(),
			History:     seriesOf(point(d, 5000, 3)),
		},
	}

	result := agg.Aggregate(members)

	assert.Empty(t, result.Average)
	assert.Empty(t, result.Total)
	assert.Equal(t, 0, result.Metadata.VisibleMembers)
	assert.Equal(t, 1, result.Metadata.HiddenMembers)
}

func TestAggregate_DatesSortedAscending(t *testing.T) {
	agg := NewAggregator()
	d1 := day(2025, time.July, 10)
	d2 := day(2025, time.July, 20)
	d3 := day(2025, time.July, 30)

	members := []MemberSeries{
		{
			UserID:      uuid.New(),
			DisplayName: "alice",
			Effective:   effectiveVisible(),
			History:     seriesOf(point(d3, 100, 1), point(d1, 90, 0)),
		},
		{
			UserID:      uuid.New(),
			DisplayName: "bob",
			Effective:   effectiveVisible(),
			History:     seriesOf(point(d2, 50, 2)),
		},
	}

	result := agg.Aggregate(members)

	require.Len(t, result.Average, 3)
	assert.True(t, result.Average[0].Date.Equal(d1))
	assert.True(t, result.Average[1].Date.Equal(d2))
	assert.True(t, result.Average[2].Date.Equal(d3))
}

func TestAggregate_Idempotent(t *testing.T) {
	agg := NewAggregator()
	d := day(2025, time.July, 30)
	members := []MemberSeries{
		{
			UserID:      uuid.New(),
			DisplayName: "alice",
			Effective:   effectiveVisible(),
			History:     seriesOf(point(d, 10000, 5)),
		},
	}

	first := agg.Aggregate(members)
	second := agg.Aggregate(members)

	assert.Equal(t, first, second)
}

func TestAggregate_ZeroAverageWhenNoDataAtDate(t *testing.T) {
	agg := NewAggregator()
	d := day(2025, time.July, 30)

	// A visible member whose series is empty contributes dates nowhere; a
	// second member defines the date axis.
	members := []MemberSeries{
		{
			UserID:      uuid.New(),
			DisplayName: "alice",
			Effective:   effectiveVisible(),
			History:     seriesOf(point(d, 0, 0)),
		},
	}

	result := agg.Aggregate(members)

	require.Len(t, result.Average, 1)
	assert.Zero(t, result.Average[0].PercentChange)
}
