package data

import (
	"fmt"
	"sort"
	"time"

	"gvix-backtest/internal/model"
)

// Prepare joins option quotes with the volatility index and rate series by
// trade date, producing the rows a backtest consumes.
//
// The join is inner: quotes whose date is missing from either series are
// dropped, as are quotes without a realized forward return. Sigma and rate
// values are stored in percent in the source files and converted to decimals
// here. Rows come back in chronological order.
func Prepare(quotes []model.OptionQuote, index map[time.Time]IndexPoint, rates map[time.Time]float64, sigma string, start, end time.Time) ([]model.Row, error) {
	if sigma == "" {
		return nil, fmt.Errorf("sigma column name is required")
	}

	sigmaSeen := false
	rows := make([]model.Row, 0, len(quotes))
	for _, q := range quotes {
		if !q.HasReturn {
			continue
		}
		if !start.IsZero() && q.Date.Before(start) {
			continue
		}
		if !end.IsZero() && q.Date.After(end) {
			continue
		}
		pt, ok := index[q.Date]
		if !ok {
			continue
		}
		s, ok := pt.Sigmas[sigma]
		if !ok {
			continue
		}
		sigmaSeen = true
		rf, ok := rates[q.Date]
		if !ok {
			continue
		}

		rows = append(rows, model.Row{
			Date:          q.Date,
			Code:          q.Code,
			Type:          q.Type,
			Close:         q.Close,
			Strike:        q.Strike,
			DaysToExpiry:  q.DaysToExpiry,
			YearsToExpiry: q.YearsToExpiry,
			ForwardReturn: q.ForwardReturn,
			Spot:          pt.AssetPrice,
			Sigma:         s / 100,
			RiskFree:      rf / 100,
		})
	}

	if !sigmaSeen && len(quotes) > 0 {
		return nil, fmt.Errorf("sigma column %q not present in index series", sigma)
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })
	return rows, nil
}
