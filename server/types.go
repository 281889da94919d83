package server

import "github.com/sig-0/fxquotes/storage/types"

// QuoteResponse is a single source's quote
type QuoteResponse struct {
	BuyPrice  *float64     `json:"buy_price"`
	SellPrice *float64     `json:"sell_price"`
	Source    types.Source `json:"source"`
}

type SummaryResponse struct {
	Region   types.Region            `json:"region"`
	Quotes   []*QuoteResponse        `json:"quotes"`
	Average  types.AverageStats      `json:"average"`
	Slippage []*types.SlippageRecord `json:"slippage"`
}

type HealthResponse struct {
	Status string `json:"status"`
	TS     int64  `json:"ts"` // epoch millis
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func newQuoteResponses(quotes []*types.Quote) []*QuoteResponse {
	out := make([]*QuoteResponse, 0, len(quotes))

	for _, q := range quotes {
		out = append(out, &QuoteResponse{
			BuyPrice:  q.BuyPrice,
			SellPrice: q.SellPrice,
			Source:    q.Source,
		})
	}

	return out
}
