package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HistoryPeriod is the closed set of look-back windows the query surface
// accepts. Anything else is rejected before the engine runs.
type HistoryPeriod string

const (
	Period1D  HistoryPeriod = "1D"
	Period1W  HistoryPeriod = "1W"
	Period1M  HistoryPeriod = "1M"
	Period3M  HistoryPeriod = "3M"
	Period6M  HistoryPeriod = "6M"
	Period1Y  HistoryPeriod = "1Y"
	PeriodYTD HistoryPeriod = "YTD"
)

var historyPeriods = map[HistoryPeriod]struct{}{
	Period1D: {}, Period1W: {}, Period1M: {}, Period3M: {},
	Period6M: {}, Period1Y: {}, PeriodYTD: {},
}

func (p HistoryPeriod) Valid() bool {
	_, ok := historyPeriods[p]
	return ok
}

// LinkedAccount ties a user to an external brokerage account.
type LinkedAccount struct {
	ID                uuid.UUID `json:"id" db:"id"`
	UserID            uuid.UUID `json:"user_id" db:"user_id"`
	ExternalAccountID string    `json:"external_account_id" db:"external_account_id"`
	Broker            string    `json:"broker" db:"broker"`
	Status            string    `json:"status" db:"status"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}

// PortfolioSnapshot is one account's end-of-day value. A user with several
// linked accounts produces several snapshots per day; the sampler sums them.
type PortfolioSnapshot struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	AccountID  uuid.UUID       `json:"account_id" db:"account_id"`
	UserID     uuid.UUID       `json:"user_id" db:"user_id"`
	Date       time.Time       `json:"date" db:"snapshot_date"`
	Value      decimal.Decimal `json:"value" db:"total_value"`
	ProfitLoss decimal.Decimal `json:"profit_loss" db:"profit_loss"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}

// Position is a holding mirrored from the brokerage. Quantity, price and
// market value are the sensitive fields the formatter may strip.
type Position struct {
	Symbol      string           `json:"symbol" db:"symbol"`
	Name        string           `json:"name" db:"name"`
	AssetType   string           `json:"asset_type" db:"asset_type"`
	Quantity    *decimal.Decimal `json:"quantity,omitempty" db:"quantity"`
	Price       *decimal.Decimal `json:"price,omitempty" db:"price"`
	MarketValue *decimal.Decimal `json:"market_value,omitempty" db:"market_value"`
}

// SamplePoint is one evenly spaced point of a sampled series.
// IsInterpolated marks values filled from a neighboring day rather than read
// from an actual snapshot; pre-join zero points are real, not interpolated.
type SamplePoint struct {
	Date              time.Time       `json:"date"`
	Value             decimal.Decimal `json:"value"`
	ProfitLoss        decimal.Decimal `json:"profit_loss"`
	ProfitLossPercent float64         `json:"profit_loss_percent"`
	IsInterpolated    bool            `json:"is_interpolated"`
}

// SampledSeries is the sampler output for one member and period. Coverage is
// the rounded percentage of points backed by a real snapshot, surfaced as a
// data-quality signal.
type SampledSeries struct {
	Points      []SamplePoint `json:"points"`
	ActualCount int           `json:"actual_count"`
	TotalCount  int           `json:"total_count"`
	Coverage    int           `json:"coverage"`
}

// AveragePoint is one squad-average point: the mean percent change across
// visible members with data at that date.
type AveragePoint struct {
	Date          time.Time `json:"date"`
	PercentChange float64   `json:"percent_change"`
}

// TotalPoint is one squad-total point: the partial sum of visible members'
// values at that date.
type TotalPoint struct {
	Date  time.Time       `json:"date"`
	Value decimal.Decimal `json:"value"`
}

// AggregateMetadata reports how many members contributed to an aggregate.
type AggregateMetadata struct {
	TotalMembers   int `json:"total_members"`
	VisibleMembers int `json:"visible_members"`
	HiddenMembers  int `json:"hidden_members"`
}

// MemberHistory is one member's series as exposed to other members. A hidden
// member keeps their identity in the listing but an empty point sequence.
type MemberHistory struct {
	UserID      uuid.UUID     `json:"user_id"`
	DisplayName string        `json:"display_name"`
	Visible     bool          `json:"visible"`
	Points      []SamplePoint `json:"points"`
	Coverage    int           `json:"coverage"`
}

// SquadAggregate is the full cross-member aggregation result.
type SquadAggregate struct {
	Average  []AveragePoint    `json:"average"`
	Total    []TotalPoint      `json:"total"`
	Members  []MemberHistory   `json:"members"`
	Metadata AggregateMetadata `json:"metadata"`
}

// FormattedValue is a portfolio value rendered under a disclosure decision.
// Amount is nil for anything but exact disclosure.
type FormattedValue struct {
	Display string           `json:"display"`
	Amount  *decimal.Decimal `json:"amount,omitempty"`
}

// FormattedPerformance carries both performance figures or neither. A lone
// percentage with no basis is as disclosive as the raw figure, so partial
// output is never produced.
type FormattedPerformance struct {
	Change        *decimal.Decimal `json:"change,omitempty"`
	ChangePercent *float64         `json:"change_percent,omitempty"`
}
