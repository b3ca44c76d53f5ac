package backtest

import (
	"fmt"
	"sort"
	"time"

	"gvix-backtest/internal/model"
	"gvix-backtest/internal/strategy"
)

type Engine struct{}

func New() *Engine { return &Engine{} }

// Run executes a backtest over a chronologically ordered row series.
//
// Each row is priced with Black-Scholes-Merton, handed to the strategy, and
// contributes forwardReturn * position to its trade date. Daily portfolio
// return is the equal-weighted mean of that date's contributions; the equity
// curve accumulates net daily returns additively from 1.0, shifted one day so
// the first observation is the starting capital.
func (e *Engine) Run(rows []model.Row, strat strategy.Strategy, commission float64) (*Result, error) {
	if strat == nil {
		return nil, fmt.Errorf("strategy is nil")
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no rows")
	}
	if commission < 0 {
		return nil, fmt.Errorf("commission must be >= 0")
	}

	ledger := make([]LedgerRow, 0, len(rows))
	daySum := make(map[time.Time]float64)
	dayCount := make(map[time.Time]int)

	for idx, row := range rows {
		price, err := model.OptionPrice(row.Type, row.Spot, row.Strike, row.YearsToExpiry, row.Sigma, row.RiskFree)
		if err != nil {
			return nil, fmt.Errorf("row %d (%s %s): price: %w", idx, row.Date.Format("2006-01-02"), row.Code, err)
		}

		position := strat.Decide(strategy.Context{
			Index:      idx,
			Row:        row,
			ModelPrice: price,
		})
		ret := row.ForwardReturn * float64(position)

		ledger = append(ledger, LedgerRow{
			Index: idx,

			Date: row.Date,
			Code: row.Code,
			Type: row.Type,

			Strike:        row.Strike,
			YearsToExpiry: row.YearsToExpiry,

			Spot:     row.Spot,
			Sigma:    row.Sigma,
			RiskFree: row.RiskFree,

			Close:      row.Close,
			ModelPrice: price,

			Position: position,
			Side:     model.SideFromPosition(position),

			Return: ret,
		})

		daySum[row.Date] += ret
		dayCount[row.Date]++
	}

	dates := make([]time.Time, 0, len(daySum))
	for d := range daySum {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	daily := make([]DailyPoint, 0, len(dates))
	cum := 0.0
	for _, d := range dates {
		gross := daySum[d] / float64(dayCount[d])
		net := gross - commission

		// Equity entering the day; the day's return lands on the next point.
		daily = append(daily, DailyPoint{
			Date:        d,
			GrossReturn: gross,
			NetReturn:   net,
			Equity:      1 + cum,
		})
		cum += net
	}

	return &Result{
		Ledger:      ledger,
		Daily:       daily,
		FinalEquity: 1 + cum,
	}, nil
}
