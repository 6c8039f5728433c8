package privacy

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squadfolio/squadfolio_service/internal/domain/entities"
)

func TestFormatPortfolioValue_Exact(t *testing.T) {
	value := decimal.NewFromFloat(12345.67)

	got := FormatPortfolioValue(value, entities.ValueExact)

	assert.Equal(t, "$12,345.67", got.Display)
	require.NotNil(t, got.Amount)
	assert.True(t, got.Amount.Equal(value))
}

func TestFormatPortfolioValue_ApproximateBuckets(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  string
	}{
		{"mid bucket", 14250.00, "$10,000.00 - $20,000.00"},
		{"bucket lower bound", 10000.00, "$10,000.00 - $20,000.00"},
		{"just below next bucket", 19999.99, "$10,000.00 - $20,000.00"},
		{"first bucket", 4500.00, "$0.00 - $10,000.00"},
		{"large value", 1234567.89, "$1,230,000.00 - $1,240,000.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatPortfolioValue(decimal.NewFromFloat(tt.value), entities.ValueApproximate)
			assert.Equal(t, tt.want, got.Display)
			assert.Nil(t, got.Amount, "approximate disclosure must withhold the raw number")
		})
	}
}

func TestFormatPortfolioValue_Hidden(t *testing.T) {
	got := FormatPortfolioValue(decimal.NewFromInt(99999), entities.ValueHidden)

	assert.Equal(t, HiddenValuePlaceholder, got.Display)
	assert.Nil(t, got.Amount)
}

func testPositions() []entities.Position {
	qty := decimal.NewFromInt(10)
	price := decimal.NewFromFloat(187.32)
	mv := decimal.NewFromFloat(1873.20)
	return []entities.Position{
		{Symbol: "AAPL", Name: "Apple Inc.", AssetType: "equity", Quantity: &qty, Price: &price, MarketValue: &mv},
		{Symbol: "VTI", Name: "Vanguard Total Market", AssetType: "etf", Quantity: &qty, Price: &price, MarketValue: &mv},
	}
}

func TestFilterPositions_FullPassesThrough(t *testing.T) {
	positions := testPositions()

	got := FilterPositions(positions, entities.PositionsFull)

	assert.Equal(t, positions, got)
}

func TestFilterPositions_TickersOnlyDropsAmounts(t *testing.T) {
	got := FilterPositions(testPositions(), entities.PositionsTickersOnly)

	require.Len(t, got, 2)
	for _, p := range got {
		assert.NotEmpty(t, p.Symbol)
		assert.NotEmpty(t, p.Name)
		assert.Nil(t, p.Quantity)
		assert.Nil(t, p.Price)
		assert.Nil(t, p.MarketValue)
	}
}

func TestFilterPositions_HiddenReturnsEmptyList(t *testing.T) {
	got := FilterPositions(testPositions(), entities.PositionsHidden)

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFormatPerformance_Visible(t *testing.T) {
	change := decimal.NewFromFloat(321.50)

	got := FormatPerformance(change, 4.2, entities.PerformanceVisible)

	require.NotNil(t, got.Change)
	require.NotNil(t, got.ChangePercent)
	assert.True(t, got.Change.Equal(change))
	assert.Equal(t, 4.2, *got.ChangePercent)
}

func TestFormatPerformance_HiddenWithholdsBoth(t *testing.T) {
	got := FormatPerformance(decimal.NewFromInt(100), 4.2, entities.PerformanceHidden)

	assert.Nil(t, got.Change)
	assert.Nil(t, got.ChangePercent)
}
