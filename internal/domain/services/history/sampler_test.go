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

// fixedNow keeps sample dates deterministic: a 1M window from this point
// spans 2025-07-01 through 2025-07-31.
var fixedNow = time.Date(2025, time.July, 31, 0, 0, 0, 0, time.UTC)

// longAgo is a join date far before every sampled window.
var longAgo = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

func snapshotOn(day time.Time, value, pl float64) entities.PortfolioSnapshot {
	return entities.PortfolioSnapshot{
		ID:         uuid.New(),
		AccountID:  uuid.New(),
		UserID:     uuid.New(),
		Date:       day,
		Value:      decimal.NewFromFloat(value),
		ProfitLoss: decimal.NewFromFloat(pl),
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSample_CoverageCountsOnlyRealSnapshots(t *testing.T) {
	sampler := NewSamplerAt(fixedNow)

	// Three real snapshots landing exactly on sampled days of the
	// twelve-point one-month window.
	snapshots := []entities.PortfolioSnapshot{
		snapshotOn(day(2025, time.July, 1), 10000, 500),
		snapshotOn(day(2025, time.July, 14), 10400, 900),
		snapshotOn(day(2025, time.July, 31), 10900, 1400),
	}

	series := sampler.Sample(snapshots, entities.Period1M, longAgo)

	assert.Equal(t, 12, series.TotalCount)
	assert.Equal(t, 3, series.ActualCount)
	assert.Equal(t, 25, series.Coverage)
}

func TestSample_PreJoinDatesAreZeroAndNotInterpolated(t *testing.T) {
	sampler := NewSamplerAt(fixedNow)
	joinDate := day(2025, time.July, 26) // joined five days ago

	snapshots := []entities.PortfolioSnapshot{
		snapshotOn(day(2025, time.July, 27), 5000, 100),
	}

	series := sampler.Sample(snapshots, entities.Period1M, joinDate)

	require.Equal(t, 12, series.TotalCount)
	joinKey := joinDate.Format(dayKeyLayout)
	preJoin := 0
	for _, p := range series.Points {
		if p.Date.Format(dayKeyLayout) < joinKey {
			preJoin++
			assert.True(t, p.Value.IsZero(), "pre-join value must be zero")
			assert.True(t, p.ProfitLoss.IsZero())
			assert.Zero(t, p.ProfitLossPercent)
			assert.False(t, p.IsInterpolated, "a not-yet-existing value is real, not a gap")
		}
	}
	assert.Greater(t, preJoin, 0, "window must include pre-join dates")
}

func TestSample_SameDaySnapshotsSum(t *testing.T) {
	sampler := NewSamplerAt(fixedNow)

	// Two accounts snapshotted on the final sample day.
	snapshots := []entities.PortfolioSnapshot{
		snapshotOn(day(2025, time.July, 31), 6000, 200),
		snapshotOn(day(2025, time.July, 31), 4000, 300),
	}

	series := sampler.Sample(snapshots, entities.Period1M, longAgo)

	last := series.Points[len(series.Points)-1]
	assert.False(t, last.IsInterpolated)
	assert.True(t, last.Value.Equal(decimal.NewFromInt(10000)))
	assert.True(t, last.ProfitLoss.Equal(decimal.NewFromInt(500)))
}

func TestSample_BackwardFillPreferred(t *testing.T) {
	sampler := NewSamplerAt(fixedNow)

	snapshots := []entities.PortfolioSnapshot{
		snapshotOn(day(2025, time.July, 2), 7000, 100),
		snapshotOn(day(2025, time.July, 30), 9000, 400),
	}

	series := sampler.Sample(snapshots, entities.Period1M, longAgo)

	// 2025-07-14 sits between the two snapshots: filled from the nearest
	// earlier day.
	var mid *entities.SamplePoint
	for i := range series.Points {
		if series.Points[i].Date.Format(dayKeyLayout) == "2025-07-14" {
			mid = &series.Points[i]
		}
	}
	require.NotNil(t, mid)
	assert.True(t, mid.IsInterpolated)
	assert.True(t, mid.Value.Equal(decimal.NewFromInt(7000)))
}

func TestSample_ForwardFillWhenNothingEarlier(t *testing.T) {
	sampler := NewSamplerAt(fixedNow)

	snapshots := []entities.PortfolioSnapshot{
		snapshotOn(day(2025, time.July, 30), 9000, 400),
	}

	series := sampler.Sample(snapshots, entities.Period1M, longAgo)

	first := series.Points[0]
	assert.Equal(t, "2025-07-01", first.Date.Format(dayKeyLayout))
	assert.True(t, first.IsInterpolated)
	assert.True(t, first.Value.Equal(decimal.NewFromInt(9000)))
}

func TestSample_FinalPointIsNow(t *testing.T) {
	sampler := NewSamplerAt(fixedNow)

	for _, period := range []entities.HistoryPeriod{
		entities.Period1D, entities.Period1W, entities.Period1M,
		entities.Period3M, entities.Period6M, entities.Period1Y, entities.PeriodYTD,
	} {
		series := sampler.Sample(nil, period, longAgo)
		require.NotEmpty(t, series.Points, "period %s", period)
		last := series.Points[len(series.Points)-1]
		assert.True(t, last.Date.Equal(fixedNow), "period %s must end at now", period)
	}
}

func TestSample_ProfitLossPercent(t *testing.T) {
	sampler := NewSamplerAt(fixedNow)

	// value 11000, pl 1000: basis 10000, percent 10.
	snapshots := []entities.PortfolioSnapshot{
		snapshotOn(day(2025, time.July, 31), 11000, 1000),
	}
	series := sampler.Sample(snapshots, entities.Period1W, longAgo)
	last := series.Points[len(series.Points)-1]
	assert.InDelta(t, 10.0, last.ProfitLossPercent, 1e-9)
}

func TestSample_PercentDegenerateBasisIsZero(t *testing.T) {
	sampler := NewSamplerAt(fixedNow)

	// value == pl: cost basis is zero, percent is defined as 0 rather than
	// computed.
	snapshots := []entities.PortfolioSnapshot{
		snapshotOn(day(2025, time.July, 31), 500, 500),
	}
	series := sampler.Sample(snapshots, entities.Period1W, longAgo)
	last := series.Points[len(series.Points)-1]
	assert.Zero(t, last.ProfitLossPercent)
}

func TestSample_NoSnapshotsYieldsZeroCoverage(t *testing.T) {
	sampler := NewSamplerAt(fixedNow)

	series := sampler.Sample(nil, entities.Period1M, longAgo)

	assert.Equal(t, 0, series.ActualCount)
	assert.Equal(t, 0, series.Coverage)
	assert.Equal(t, 12, series.TotalCount)
}

func TestSample_Idempotent(t *testing.T) {
	sampler := NewSamplerAt(fixedNow)
	snapshots := []entities.PortfolioSnapshot{
		snapshotOn(day(2025, time.July, 2), 7000, 100),
		snapshotOn(day(2025, time.July, 14), 7500, 300),
	}

	first := sampler.Sample(snapshots, entities.Period1M, longAgo)
	second := sampler.Sample(snapshots, entities.Period1M, longAgo)

	assert.Equal(t, first, second)
}

func TestSample_DatesAreChronologicalAndDeduplicated(t *testing.T) {
	sampler := NewSamplerAt(fixedNow)

	series := sampler.Sample(nil, entities.Period6M, longAgo)

	seen := map[string]bool{}
	for i, p := range series.Points {
		key := p.Date.Format(dayKeyLayout)
		assert.False(t, seen[key], "duplicate day %s", key)
		seen[key] = true
		if i > 0 {
			assert.True(t, series.Points[i-1].Date.Before(p.Date))
		}
	}
}
