// Package ranges derives the monthly price bands of an underlying and the strike universe around them.
package ranges

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rxtech-lab/argo-optchain/internal/types"
	"github.com/rxtech-lab/argo-optchain/pkg/errors"
)

// DeriveMonthlyRanges computes the low/high band of series for every month of year.
// A month is the half-open interval [first of month, first of next month).
// Months without bars copy the previous month's band; January has no predecessor, so an
// empty January yields an *errors.InsufficientBaselineError.
// series must be normalized.
func DeriveMonthlyRanges(series types.Dataset, symbol string, year int) (types.MonthlyRanges, error) {
	var monthly types.MonthlyRanges

	for month := time.January; month <= time.December; month++ {
		start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 1, 0)

		bars := series.Between(start, end)
		if len(bars) == 0 {
			if month == time.January {
				return types.MonthlyRanges{}, errors.NewInsufficientBaselineError(symbol, year)
			}

			previous := monthly[month-2]
			monthly[month-1] = types.MonthlyRange{
				Month:        month,
				Low:          previous.Low,
				High:         previous.High,
				Extrapolated: true,
			}

			continue
		}

		low, high := math.Inf(1), math.Inf(-1)
		for _, bar := range bars {
			low = math.Min(low, bar.Low)
			high = math.Max(high, bar.High)
		}

		monthly[month-1] = types.MonthlyRange{Month: month, Low: low, High: high}
	}

	return monthly, nil
}

// StrikeUniverse returns every whole strike in [floor(low*(1-margin)), ceil(high*(1+margin))), ascending.
// Arithmetic is done in decimal so that round bands stay exact (420/480 at 0.1 gives [378, 528)).
func StrikeUniverse(r types.MonthlyRange, margin float64) []int {
	m := decimal.NewFromFloat(margin)
	one := decimal.NewFromInt(1)

	lower := decimal.NewFromFloat(r.Low).Mul(one.Sub(m)).Floor().IntPart()
	upper := decimal.NewFromFloat(r.High).Mul(one.Add(m)).Ceil().IntPart()

	// Strike identifiers cannot encode zero or negative strikes.
	if lower < 1 {
		lower = 1
	}

	if upper <= lower {
		return []int{}
	}

	strikes := make([]int, 0, upper-lower)
	for strike := lower; strike < upper; strike++ {
		strikes = append(strikes, int(strike))
	}

	return strikes
}
