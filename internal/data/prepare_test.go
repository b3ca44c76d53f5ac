package data

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gvix-backtest/internal/model"
)

func d(day int) time.Time {
	return time.Date(2023, 3, day, 0, 0, 0, 0, time.UTC)
}

func quote(date time.Time, code string, ret float64) model.OptionQuote {
	return model.OptionQuote{
		Date:          date,
		Code:          code,
		Close:         0.1,
		Strike:        2.8,
		Type:          model.Call,
		DaysToExpiry:  28,
		YearsToExpiry: 0.0767,
		ForwardReturn: ret,
		HasReturn:     true,
	}
}

func TestPrepareJoinsAndConverts(t *testing.T) {
	quotes := []model.OptionQuote{
		quote(d(2), "B", 0.02),
		quote(d(1), "A", 0.01),
	}
	index := map[time.Time]IndexPoint{
		d(1): {Date: d(1), AssetPrice: 2.85, Sigmas: map[string]float64{"gvix": 21.5}},
		d(2): {Date: d(2), AssetPrice: 2.87, Sigmas: map[string]float64{"gvix": 22.0}},
	}
	rates := map[time.Time]float64{d(1): 2.10, d(2): 2.12}

	rows, err := Prepare(quotes, index, rates, "gvix", time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Chronological order regardless of input order.
	assert.Equal(t, "A", rows[0].Code)
	assert.Equal(t, "B", rows[1].Code)

	// Percent columns become decimals.
	assert.InDelta(t, 0.215, rows[0].Sigma, 1e-12)
	assert.InDelta(t, 0.021, rows[0].RiskFree, 1e-12)
	assert.InDelta(t, 2.85, rows[0].Spot, 1e-12)
}

func TestPrepareInnerJoinDropsUnmatched(t *testing.T) {
	noRet := quote(d(1), "X", 0)
	noRet.HasReturn = false
	quotes := []model.OptionQuote{
		noRet,
		quote(d(1), "A", 0.01), // no rate for day 1
		quote(d(2), "B", 0.02), // fully matched
		quote(d(3), "C", 0.03), // no index point for day 3
	}
	index := map[time.Time]IndexPoint{
		d(1): {Date: d(1), AssetPrice: 2.85, Sigmas: map[string]float64{"gvix": 21.5}},
		d(2): {Date: d(2), AssetPrice: 2.87, Sigmas: map[string]float64{"gvix": 22.0}},
	}
	rates := map[time.Time]float64{d(2): 2.12, d(3): 2.15}

	rows, err := Prepare(quotes, index, rates, "gvix", time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "B", rows[0].Code)
}

func TestPrepareDateRange(t *testing.T) {
	quotes := []model.OptionQuote{
		quote(d(1), "A", 0.01),
		quote(d(2), "B", 0.02),
		quote(d(3), "C", 0.03),
	}
	index := map[time.Time]IndexPoint{}
	rates := map[time.Time]float64{}
	for _, day := range []time.Time{d(1), d(2), d(3)} {
		index[day] = IndexPoint{Date: day, AssetPrice: 2.85, Sigmas: map[string]float64{"gvix": 21.5}}
		rates[day] = 2.10
	}

	rows, err := Prepare(quotes, index, rates, "gvix", d(2), d(2))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "B", rows[0].Code)
}

func TestPrepareUnknownSigma(t *testing.T) {
	quotes := []model.OptionQuote{quote(d(1), "A", 0.01)}
	index := map[time.Time]IndexPoint{
		d(1): {Date: d(1), AssetPrice: 2.85, Sigmas: map[string]float64{"vix": 18.0}},
	}
	rates := map[time.Time]float64{d(1): 2.10}

	_, err := Prepare(quotes, index, rates, "gvix", time.Time{}, time.Time{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gvix")

	_, err = Prepare(quotes, index, rates, "", time.Time{}, time.Time{})
	assert.Error(t, err)
}
