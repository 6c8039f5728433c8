// Package history converts irregular snapshot histories into evenly spaced,
// gap-filled series and combines several members' series into squad-level
// aggregates.
package history

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/squadfolio/squadfolio_service/internal/domain/entities"
)

const dayKeyLayout = "2006-01-02"

// plPercentEpsilon guards the cost-basis denominator when computing a
// profit/loss percentage. Anything smaller in magnitude yields 0.
const plPercentEpsilon = 0.01

// samplePointCounts is the number of evenly spaced points emitted per period.
var samplePointCounts = map[entities.HistoryPeriod]int{
	entities.Period1D:  2,
	entities.Period1W:  7,
	entities.Period1M:  12,
	entities.Period3M:  13,
	entities.Period6M:  26,
	entities.Period1Y:  12,
	entities.PeriodYTD: 12,
}

// Sampler produces evenly spaced sample series from raw daily snapshots.
// It holds no state beyond the clock, which tests replace with a fixed time.
type Sampler struct {
	now func() time.Time
}

func NewSampler() *Sampler {
	return &Sampler{now: time.Now}
}

// NewSamplerAt returns a sampler pinned to a fixed "now".
func NewSamplerAt(now time.Time) *Sampler {
	return &Sampler{now: func() time.Time { return now }}
}

type daySnapshot struct {
	value decimal.Decimal
	pl    decimal.Decimal
}

// Sample converts a member's raw snapshot history into an evenly spaced
// series over the requested period.
//
// Snapshots are grouped by calendar day; several snapshots on one day (one
// per linked account) sum rather than average. Sample dates before the
// member's join date emit zero values that count as real, not interpolated:
// the member's portfolio genuinely did not exist yet, and pre-join dates are
// never filled from data. Other dates without an exact snapshot fill
// backward from the nearest earlier day, or forward from the nearest later
// one, and are marked interpolated.
func (s *Sampler) Sample(snapshots []entities.PortfolioSnapshot, period entities.HistoryPeriod, joinDate time.Time) entities.SampledSeries {
	now := s.now().UTC()
	grouped, dayKeys := groupByDay(snapshots)

	dates := sampleDates(period, now)
	joinKey := joinDate.UTC().Format(dayKeyLayout)

	points := make([]entities.SamplePoint, 0, len(dates))
	actual := 0
	for _, date := range dates {
		key := date.Format(dayKeyLayout)
		if key < joinKey {
			points = append(points, entities.SamplePoint{Date: date})
			continue
		}

		snap, exact := grouped[key]
		interpolated := false
		if !exact {
			snap, interpolated = fillFromNeighbor(grouped, dayKeys, key)
		} else {
			actual++
		}

		points = append(points, entities.SamplePoint{
			Date:              date,
			Value:             snap.value,
			ProfitLoss:        snap.pl,
			ProfitLossPercent: ProfitLossPercent(snap.value, snap.pl),
			IsInterpolated:    interpolated,
		})
	}

	total := len(points)
	coverage := 0
	if total > 0 {
		coverage = int(math.Round(float64(actual) / float64(total) * 100))
	}

	return entities.SampledSeries{
		Points:      points,
		ActualCount: actual,
		TotalCount:  total,
		Coverage:    coverage,
	}
}

// groupByDay collapses snapshots to one entry per calendar day, summing
// values across a member's accounts. The returned keys are sorted ascending.
func groupByDay(snapshots []entities.PortfolioSnapshot) (map[string]daySnapshot, []string) {
	grouped := make(map[string]daySnapshot, len(snapshots))
	for _, snap := range snapshots {
		key := snap.Date.UTC().Format(dayKeyLayout)
		day := grouped[key]
		day.value = day.value.Add(snap.Value)
		day.pl = day.pl.Add(snap.ProfitLoss)
		grouped[key] = day
	}

	keys := make([]string, 0, len(grouped))
	for key := range grouped {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return grouped, keys
}

// periodStart returns the window start for a period relative to now.
func periodStart(period entities.HistoryPeriod, now time.Time) time.Time {
	switch period {
	case entities.Period1D:
		return now.AddDate(0, 0, -1)
	case entities.Period1W:
		return now.AddDate(0, 0, -7)
	case entities.Period1M:
		return now.AddDate(0, -1, 0)
	case entities.Period3M:
		return now.AddDate(0, -3, 0)
	case entities.Period6M:
		return now.AddDate(0, -6, 0)
	case entities.Period1Y:
		return now.AddDate(-1, 0, 0)
	case entities.PeriodYTD:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return now.AddDate(0, -1, 0)
	}
}

// sampleDates generates the period's evenly spaced dates, deduplicated to
// one per calendar day, always ending exactly at now.
func sampleDates(period entities.HistoryPeriod, now time.Time) []time.Time {
	n := samplePointCounts[period]
	if n == 0 {
		n = samplePointCounts[entities.Period1M]
	}
	start := periodStart(period, now)
	if !start.Before(now) || n == 1 {
		return []time.Time{now}
	}

	step := now.Sub(start) / time.Duration(n-1)
	raw := make([]time.Time, 0, n)
	for i := 0; i < n-1; i++ {
		raw = append(raw, start.Add(step*time.Duration(i)))
	}
	// The final point is now itself even when that breaks exact spacing.
	raw = append(raw, now)

	dates := make([]time.Time, 0, n)
	lastKey := ""
	for _, d := range raw {
		key := d.Format(dayKeyLayout)
		if key == lastKey {
			// Same calendar day as the previous point: keep the later one.
			dates[len(dates)-1] = d
			continue
		}
		dates = append(dates, d)
		lastKey = key
	}
	return dates
}

// fillFromNeighbor fills a missing day from the nearest earlier grouped day,
// falling back to the nearest later one. The second return is true when a
// fill happened; with no snapshots at all the zero value stands.
func fillFromNeighbor(grouped map[string]daySnapshot, dayKeys []string, key string) (daySnapshot, bool) {
	if len(dayKeys) == 0 {
		return daySnapshot{}, true
	}
	// Index of the first grouped day at or after key.
	idx := sort.SearchStrings(dayKeys, key)
	if idx > 0 {
		return grouped[dayKeys[idx-1]], true
	}
	return grouped[dayKeys[idx]], true
}

// LatestDayTotals sums the most recent calendar day's snapshots, covering
// the multi-account case the same way sampling does.
func LatestDayTotals(snapshots []entities.PortfolioSnapshot) (decimal.Decimal, decimal.Decimal) {
	grouped, dayKeys := groupByDay(snapshots)
	if len(dayKeys) == 0 {
		return decimal.Zero, decimal.Zero
	}
	latest := grouped[dayKeys[len(dayKeys)-1]]
	return latest.value, latest.pl
}

// ProfitLossPercent computes pl / (value - pl) * 100 with the degenerate
// cases recovered to 0: a near-zero cost basis, or any non-finite result. A
// broken percentage must never surface as NaN% or Infinity% in a shared feed.
func ProfitLossPercent(value, pl decimal.Decimal) float64 {
	basis, _ := value.Sub(pl).Float64()
	if math.Abs(basis) < plPercentEpsilon {
		return 0
	}
	plf, _ := pl.Float64()
	pct := plf / basis * 100
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return 0
	}
	return pct
}
