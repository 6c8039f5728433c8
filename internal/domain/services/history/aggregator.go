package history

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/squadfolio/squadfolio_service/internal/domain/entities"
	"github.com/squadfolio/squadfolio_service/internal/domain/services/privacy"
)

// MemberSeries is one member's sampled history paired with their resolved
// privacy, ready for aggregation.
type MemberSeries struct {
	UserID      uuid.UUID
	DisplayName string
	Effective   entities.EffectivePrivacy
	History     entities.SampledSeries
}

// Aggregator combines several members' sampled series into squad-level
// averages and totals while honoring each member's resolved privacy.
type Aggregator struct{}

func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Aggregate partitions members by the performance disclosure tier and
// produces the squad-average and squad-total series over the union of
// visible members' sample dates.
//
// A hidden member's raw values are never read: they count in the metadata
// and appear in the member listing with an empty point sequence, nothing
// more. The squad average at a date with no visible data is defined as 0,
// not omitted, so charts render a flat line rather than a hole. The squad
// total is a partial sum: members without a point at a date simply do not
// contribute there.
func (a *Aggregator) Aggregate(members []MemberSeries) entities.SquadAggregate {
	visible := make([]MemberSeries, 0, len(members))
	listing := make([]entities.MemberHistory, 0, len(members))

	for _, m := range members {
		if privacy.PerformanceDisclosureTier(m.Effective) == privacy.TierHidden {
			listing = append(listing, entities.MemberHistory{
				UserID:      m.UserID,
				DisplayName: m.DisplayName,
				Visible:     false,
				Points:      []entities.SamplePoint{},
			})
			continue
		}
		visible = append(visible, m)
		listing = append(listing, entities.MemberHistory{
			UserID:      m.UserID,
			DisplayName: m.DisplayName,
			Visible:     true,
			Points:      m.History.Points,
			Coverage:    m.History.Coverage,
		})
	}

	dates := unionDates(visible)
	average := make([]entities.AveragePoint, 0, len(dates))
	total := make([]entities.TotalPoint, 0, len(dates))

	for _, date := range dates {
		key := date.Format(dayKeyLayout)
		sum := 0.0
		count := 0
		valueSum := decimal.Zero
		for _, m := range visible {
			point, ok := pointAt(m.History.Points, key)
			if !ok {
				continue
			}
			sum += point.ProfitLossPercent
			count++
			valueSum = valueSum.Add(point.Value)
		}

		mean := 0.0
		if count > 0 {
			mean = sum / float64(count)
		}
		average = append(average, entities.AveragePoint{Date: date, PercentChange: mean})
		total = append(total, entities.TotalPoint{Date: date, Value: valueSum})
	}

	return entities.SquadAggregate{
		Average: average,
		Total:   total,
		Members: listing,
		Metadata: entities.AggregateMetadata{
			TotalMembers:   len(members),
			VisibleMembers: len(visible),
			HiddenMembers:  len(members) - len(visible),
		},
	}
}

// unionDates collects every visible member's sample dates, one per calendar
// day, sorted ascending.
func unionDates(visible []MemberSeries) []time.Time {
	byKey := make(map[string]time.Time)
	for _, m := range visible {
		for _, p := range m.History.Points {
			key := p.Date.Format(dayKeyLayout)
			if existing, ok := byKey[key]; !ok || p.Date.Before(existing) {
				byKey[key] = p.Date
			}
		}
	}

	dates := make([]time.Time, 0, len(byKey))
	for _, d := range byKey {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// pointAt finds a member's sample on a calendar day.
func pointAt(points []entities.SamplePoint, key string) (entities.SamplePoint, bool) {
	for _, p := range points {
		if p.Date.Format(dayKeyLayout) == key {
			return p, true
		}
	}
	return entities.SamplePoint{}, false
}
