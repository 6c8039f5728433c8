package privacy

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/squadfolio/squadfolio_service/internal/domain/entities"
)

// HiddenValuePlaceholder is rendered wherever a portfolio value is withheld.
const HiddenValuePlaceholder = "Hidden"

// approximateBucketWidth is the fixed width of the value range shown for
// approximate disclosure.
var approximateBucketWidth = decimal.NewFromInt(10000)

// FormatPortfolioValue renders a portfolio value under a disclosure decision.
// Exact disclosure returns the literal figure alongside its display string.
// Approximate disclosure returns a range spanning the 10,000-unit bucket the
// value falls into, with the raw number withheld. Hidden returns a fixed
// placeholder.
func FormatPortfolioValue(value decimal.Decimal, tier entities.ValueDisclosure) entities.FormattedValue {
	switch tier {
	case entities.ValueExact:
		v := value
		return entities.FormattedValue{
			Display: formatCurrency(value),
			Amount:  &v,
		}
	case entities.ValueApproximate:
		floor := value.Div(approximateBucketWidth).Floor().Mul(approximateBucketWidth)
		ceil := floor.Add(approximateBucketWidth)
		return entities.FormattedValue{
			Display: fmt.Sprintf("%s - %s", formatCurrency(floor), formatCurrency(ceil)),
		}
	default:
		return entities.FormattedValue{Display: HiddenValuePlaceholder}
	}
}

// FilterPositions projects a position list down to what the disclosure
// decision allows. The tickers-only projection drops quantity, price and
// market value; it is one-way and callers must never try to reconstruct the
// dropped fields. Hidden yields an empty, non-nil list.
func FilterPositions(positions []entities.Position, tier entities.PositionsDisclosure) []entities.Position {
	switch tier {
	case entities.PositionsFull:
		return positions
	case entities.PositionsTickersOnly:
		filtered := make([]entities.Position, 0, len(positions))
		for _, p := range positions {
			filtered = append(filtered, entities.Position{
				Symbol:    p.Symbol,
				Name:      p.Name,
				AssetType: p.AssetType,
			})
		}
		return filtered
	default:
		return []entities.Position{}
	}
}

// FormatPerformance returns both performance figures when performance is
// visible, and withholds both otherwise. Partial output is never produced.
func FormatPerformance(change decimal.Decimal, changePercent float64, tier entities.PerformanceDisclosure) entities.FormattedPerformance {
	if tier != entities.PerformanceVisible {
		return entities.FormattedPerformance{}
	}
	c := change
	p := changePercent
	return entities.FormattedPerformance{
		Change:        &c,
		ChangePercent: &p,
	}
}

// formatCurrency renders a dollar amount with thousands separators and two
// decimal places, e.g. "$12,345.67". Negative amounts render as "-$123.45".
func formatCurrency(value decimal.Decimal) string {
	neg := value.IsNegative()
	s := value.Abs().StringFixed(2)

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i:]
	}

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}

	out := "$" + b.String() + fracPart
	if neg {
		out = "-" + out
	}
	return out
}
