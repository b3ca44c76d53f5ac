package analysis

import (
	"fmt"
	"math"
	"time"

	"gvix-backtest/internal/backtest"
)

// TradingDaysPerYear is the annualization base for the Chinese market.
const TradingDaysPerYear = 252

// Report summarizes a strategy's equity curve.
// Returns and drawdown are fractions (0.47 = 47%).
type Report struct {
	TotalReturn          float64
	AnnualizedReturn     float64
	AnnualizedVolatility float64
	MaxDrawdown          float64
	SharpeRatio          float64
	CalmarRatio          float64

	MaxDrawdownStart time.Time
	MaxDrawdownEnd   time.Time
}

// Compute derives performance metrics from the daily equity series.
//
// Daily returns are equity percentage changes; the cumulative curve compounds
// them from 1.0. Annualization uses 252 trading days and the sample standard
// deviation of daily returns.
func Compute(daily []backtest.DailyPoint) (Report, error) {
	if len(daily) < 3 {
		return Report{}, fmt.Errorf("need at least 3 daily points, got %d", len(daily))
	}

	rets := make([]float64, 0, len(daily)-1)
	for i := 1; i < len(daily); i++ {
		prev := daily[i-1].Equity
		if prev == 0 {
			return Report{}, fmt.Errorf("equity hit zero on %s", daily[i-1].Date.Format("2006-01-02"))
		}
		rets = append(rets, daily[i].Equity/prev-1)
	}

	// Cumulative growth curve, aligned with the equity dates; cum[0] = 1.
	cum := make([]float64, len(daily))
	cum[0] = 1
	for i, r := range rets {
		cum[i+1] = cum[i] * (1 + r)
	}
	final := cum[len(cum)-1]

	var rep Report
	rep.TotalReturn = final - 1
	if final > 0 {
		rep.AnnualizedReturn = math.Pow(final, TradingDaysPerYear/float64(len(cum))) - 1
	} else {
		rep.AnnualizedReturn = -1
	}
	rep.AnnualizedVolatility = sampleStd(rets) * math.Sqrt(TradingDaysPerYear)

	// Max drawdown relative to the running peak, plus the absolute-gap peak
	// and trough dates.
	runMax := cum[0]
	maxDD := 0.0
	maxGap := 0.0
	endIdx := 0
	for i, v := range cum {
		if v > runMax {
			runMax = v
		}
		if runMax > 0 {
			if dd := (runMax - v) / runMax; dd > maxDD {
				maxDD = dd
			}
		}
		if gap := runMax - v; gap > maxGap {
			maxGap = gap
			endIdx = i
		}
	}
	rep.MaxDrawdown = maxDD

	startIdx := 0
	for i := 0; i <= endIdx; i++ {
		if cum[i] > cum[startIdx] {
			startIdx = i
		}
	}
	rep.MaxDrawdownStart = daily[startIdx].Date
	rep.MaxDrawdownEnd = daily[endIdx].Date

	if rep.AnnualizedVolatility > 0 {
		rep.SharpeRatio = rep.AnnualizedReturn / rep.AnnualizedVolatility
	}
	if rep.MaxDrawdown > 0 {
		rep.CalmarRatio = rep.AnnualizedReturn / rep.MaxDrawdown
	}

	return rep, nil
}

// sampleStd is the standard deviation with Bessel's correction.
func sampleStd(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	mean := 0.0
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))

	ss := 0.0
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}
