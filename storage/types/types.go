package types

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidRegion = errors.New("region must be 'br' or 'ar'")

type Region string

const (
	RegionAR Region = "ar"
	RegionBR Region = "br"
)

// DefaultRegion is used when the caller does not specify one
const DefaultRegion = RegionAR

// Regions lists all supported regions
var Regions = []Region{RegionAR, RegionBR}

func (r Region) String() string {
	return string(r)
}

// ParseRegion parses a case-insensitive region code.
// An empty value resolves to the default region, padded values are rejected
func ParseRegion(v string) (Region, error) {
	s := strings.ToLower(v)
	if s == "" {
		return DefaultRegion, nil
	}

	switch r := Region(s); r {
	case RegionAR, RegionBR:
		return r, nil
	default:
		return "", ErrInvalidRegion
	}
}

type Source string

func (s Source) String() string {
	return string(s)
}

// PricePair is a best-effort (buy, sell) pair, each side independently nullable
type PricePair struct {
	Buy  *float64 `json:"buy"`
	Sell *float64 `json:"sell"`
}

// Complete returns true if both sides are present
func (p PricePair) Complete() bool {
	return p.Buy != nil && p.Sell != nil
}

// Fill copies the sides of other into the pair that are still absent
func (p PricePair) Fill(other PricePair) PricePair {
	if p.Buy == nil {
		p.Buy = other.Buy
	}

	if p.Sell == nil {
		p.Sell = other.Sell
	}

	return p
}

// Quote is a single (source, region) observation from one fetch cycle
type Quote struct {
	RetrievedAt time.Time `json:"retrieved_at"`
	BuyPrice    *float64  `json:"buy_price"`
	SellPrice   *float64  `json:"sell_price"`
	Source      Source    `json:"source"`
	Region      Region    `json:"region"`
}

// AverageStats is the cross-source average per side
type AverageStats struct {
	AverageBuyPrice  *float64 `json:"average_buy_price"`
	AverageSellPrice *float64 `json:"average_sell_price"`
}

// SlippageRecord is the relative deviation of one source from the average
type SlippageRecord struct {
	BuyPriceSlippage  *float64 `json:"buy_price_slippage"`
	SellPriceSlippage *float64 `json:"sell_price_slippage"`
	Source            Source   `json:"source"`
}
