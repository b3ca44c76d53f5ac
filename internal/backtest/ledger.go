package backtest

import (
	"time"

	"gvix-backtest/internal/model"
)

// LedgerRow is one row of per-option output.
// This is the primary artifact for "what happened" in a backtest.
type LedgerRow struct {
	Index int

	Date time.Time
	Code string
	Type model.OptionType

	Strike        float64
	YearsToExpiry float64

	Spot     float64
	Sigma    float64
	RiskFree float64

	Close      float64 // market option price
	ModelPrice float64

	Position int
	Side     model.Side

	// Return is the signed contribution of this row: forward return times
	// position, before commission.
	Return float64
}

// DailyPoint is one day of the aggregated portfolio series.
type DailyPoint struct {
	Date time.Time

	// GrossReturn is the equal-weighted mean of the day's row returns.
	GrossReturn float64
	// NetReturn is GrossReturn minus commission.
	NetReturn float64

	// Equity is the cumulative portfolio value entering the day, starting at
	// 1.0. The day's own net return shows up in the next day's equity.
	Equity float64
}

type Result struct {
	Ledger      []LedgerRow
	Daily       []DailyPoint
	FinalEquity float64
}
