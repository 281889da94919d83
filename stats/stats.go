// Package stats computes cross-source aggregates over a batch of quotes
package stats

import (
	"github.com/shopspring/decimal"

	"github.com/sig-0/fxquotes/storage/types"
)

// precision is the number of decimal places kept in every computed value
const precision = 6

// Average computes the mean of the present buy and sell prices, independently.
// A side with no contributing quotes is absent
func Average(quotes []*types.Quote) types.AverageStats {
	var (
		buys  = make([]float64, 0, len(quotes))
		sells = make([]float64, 0, len(quotes))
	)

	for _, q := range quotes {
		if q == nil {
			continue
		}

		if q.BuyPrice != nil {
			buys = append(buys, *q.BuyPrice)
		}

		if q.SellPrice != nil {
			sells = append(sells, *q.SellPrice)
		}
	}

	return types.AverageStats{
		AverageBuyPrice:  mean(buys),
		AverageSellPrice: mean(sells),
	}
}

// Slippage computes the relative deviation of every quote from the average,
// (price - average) / average, per side.
// A side is absent if the price or the average is absent, or the average is zero
func Slippage(quotes []*types.Quote, avg types.AverageStats) []*types.SlippageRecord {
	out := make([]*types.SlippageRecord, 0, len(quotes))

	for _, q := range quotes {
		if q == nil {
			continue
		}

		out = append(out, &types.SlippageRecord{
			Source:            q.Source,
			BuyPriceSlippage:  deviation(q.BuyPrice, avg.AverageBuyPrice),
			SellPriceSlippage: deviation(q.SellPrice, avg.AverageSellPrice),
		})
	}

	return out
}

func mean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}

	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(decimal.NewFromFloat(v))
	}

	return round(sum.Div(decimal.NewFromInt(int64(len(values)))))
}

func deviation(price, avg *float64) *float64 {
	if price == nil || avg == nil || *avg == 0 {
		return nil
	}

	var (
		p = decimal.NewFromFloat(*price)
		a = decimal.NewFromFloat(*avg)
	)

	return round(p.Sub(a).Div(a))
}

func round(d decimal.Decimal) *float64 {
	v, _ := d.Round(precision).Float64()

	return &v
}
