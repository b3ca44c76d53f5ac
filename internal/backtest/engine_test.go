package backtest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gvix-backtest/internal/model"
	"gvix-backtest/internal/strategy"
)

func day(d int) time.Time {
	return time.Date(2023, 3, d, 0, 0, 0, 0, time.UTC)
}

func testRow(date time.Time, fwd float64) model.Row {
	return model.Row{
		Date:          date,
		Code:          "OPT001",
		Type:          model.Call,
		Close:         0.10,
		Strike:        2.8,
		YearsToExpiry: 0.1,
		ForwardReturn: fwd,
		Spot:          2.85,
		Sigma:         0.22,
		RiskFree:      0.02,
	}
}

func TestRunDailyAggregationAndEquityShift(t *testing.T) {
	rows := []model.Row{
		testRow(day(1), 0.02),
		testRow(day(1), 0.04),
		testRow(day(2), -0.01),
	}

	res, err := New().Run(rows, &strategy.LongStrategy{}, 0.001)
	require.NoError(t, err)
	require.Len(t, res.Ledger, 3)
	require.Len(t, res.Daily, 2)

	// Day 1: equal-weighted mean of 2% and 4%, minus commission.
	assert.InDelta(t, 0.03, res.Daily[0].GrossReturn, 1e-12)
	assert.InDelta(t, 0.029, res.Daily[0].NetReturn, 1e-12)
	// The equity series is shifted: the first day carries the starting capital.
	assert.InDelta(t, 1.0, res.Daily[0].Equity, 1e-12)
	assert.InDelta(t, 1.029, res.Daily[1].Equity, 1e-12)
	assert.InDelta(t, -0.011, res.Daily[1].NetReturn, 1e-12)
	assert.InDelta(t, 1.018, res.FinalEquity, 1e-12)
}

func TestRunLedgerRecordsModelPriceAndSide(t *testing.T) {
	// Deep in-the-money call quoted at 1.0: model price is far above, so the
	// mispricing rule goes long.
	row := model.Row{
		Date:          day(1),
		Code:          "OPT002",
		Type:          model.Call,
		Close:         1.0,
		Strike:        50,
		YearsToExpiry: 0.5,
		ForwardReturn: 0.05,
		Spot:          100,
		Sigma:         0.2,
		RiskFree:      0.01,
	}
	strat := &strategy.MispricingStrategy{Params: strategy.MispricingParams{Threshold: 0.05}}

	res, err := New().Run([]model.Row{row}, strat, 0)
	require.NoError(t, err)

	lr := res.Ledger[0]
	assert.Greater(t, lr.ModelPrice, 40.0)
	assert.Equal(t, 1, lr.Position)
	assert.Equal(t, model.SideLong, lr.Side)
	assert.InDelta(t, 0.05, lr.Return, 1e-12)

	// Same row quoted absurdly rich: short, negative contribution.
	row.Close = 1000
	res, err = New().Run([]model.Row{row}, strat, 0)
	require.NoError(t, err)
	assert.Equal(t, -1, res.Ledger[0].Position)
	assert.InDelta(t, -0.05, res.Ledger[0].Return, 1e-12)
}

func TestRunInputValidation(t *testing.T) {
	_, err := New().Run(nil, &strategy.LongStrategy{}, 0)
	assert.Error(t, err)

	_, err = New().Run([]model.Row{testRow(day(1), 0.01)}, nil, 0)
	assert.Error(t, err)

	_, err = New().Run([]model.Row{testRow(day(1), 0.01)}, &strategy.LongStrategy{}, -0.1)
	assert.Error(t, err)

	bad := testRow(day(1), 0.01)
	bad.Sigma = 0
	_, err = New().Run([]model.Row{bad}, &strategy.LongStrategy{}, 0)
	assert.Error(t, err)
}

func TestWriteCSVs(t *testing.T) {
	rows := []model.Row{
		testRow(day(1), 0.02),
		testRow(day(2), 0.01),
	}
	res, err := New().Run(rows, &strategy.LongStrategy{}, 0.0005)
	require.NoError(t, err)

	dir := t.TempDir()
	ledgerPath := filepath.Join(dir, "ledger.csv")
	require.NoError(t, WriteLedgerCSV(ledgerPath, res.Ledger))
	dailyPath := filepath.Join(dir, "daily.csv")
	require.NoError(t, WriteDailyCSV(dailyPath, res.Daily))

	raw, err := os.ReadFile(ledgerPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "model_price")
	assert.Contains(t, string(raw), "2023-03-01")

	raw, err = os.ReadFile(dailyPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "equity")
}
