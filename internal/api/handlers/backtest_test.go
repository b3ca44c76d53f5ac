package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gvix-backtest/internal/api/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testRouter() *gin.Engine {
	r := gin.New()
	bh := NewBacktestHandler()
	rh := NewRankHandler()
	r.POST("/api/v1/backtest", bh.RunBacktest)
	r.POST("/api/v1/backtest/compare", bh.CompareBacktests)
	r.GET("/api/v1/rank", rh.RankSigmas)
	return r
}

// writeDataset lays out a small but complete options/index/rates triple
// covering five trading days, two quotes per day.
func writeDataset(t *testing.T) models.DataSourceConfig {
	t.Helper()
	dir := t.TempDir()

	options := "date,code,close,exercise_date,strike,option_type,days_to_expiry,years_to_expiry,forward_return\n"
	index := "date,asset_price,vix,gvix\n"
	rates := "date,on,1w\n"
	rets := []float64{0.012, -0.004, 0.009, 0.003, -0.002}
	for i := 0; i < 5; i++ {
		date := fmt.Sprintf("2023-03-%02d", i+1)
		options += fmt.Sprintf("%s,OPT001,0.05,2023-03-29,2.80,call,28,0.0767,%.4f\n", date, rets[i])
		options += fmt.Sprintf("%s,OPT002,0.04,2023-03-29,2.90,put,28,0.0767,%.4f\n", date, -rets[i])
		index += fmt.Sprintf("%s,2.85,18.2,21.5\n", date)
		rates += fmt.Sprintf("%s,1.52,2.10\n", date)
	}

	ds := models.DataSourceConfig{
		OptionsFile: filepath.Join(dir, "options.csv"),
		IndexFile:   filepath.Join(dir, "index.csv"),
		RatesFile:   filepath.Join(dir, "rates.csv"),
	}
	require.NoError(t, os.WriteFile(ds.OptionsFile, []byte(options), 0o644))
	require.NoError(t, os.WriteFile(ds.IndexFile, []byte(index), 0o644))
	require.NoError(t, os.WriteFile(ds.RatesFile, []byte(rates), 0o644))
	return ds
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRunBacktestEndpoint(t *testing.T) {
	r := testRouter()
	ds := writeDataset(t)

	w := postJSON(t, r, "/api/v1/backtest", models.BacktestRequest{
		Data: ds,
		Config: models.RunConfig{
			Sigma:      "gvix",
			Commission: 0.0005,
			Strategy:   models.StrategyConfig{Name: "long"},
		},
		Options: models.BacktestOptions{IncludeDaily: true},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.BacktestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "completed", resp.Status)
	assert.Equal(t, "gvix", resp.Summary.Sigma)
	assert.Equal(t, "long", resp.Summary.Strategy)
	assert.Equal(t, 10, resp.Summary.TotalRows)
	assert.Equal(t, 5, resp.Summary.TradingDays)
	assert.Len(t, resp.Daily, 5)
	assert.Nil(t, resp.Ledger)
	require.NotNil(t, resp.Summary.Metrics)
	assert.NotZero(t, resp.Summary.Metrics.AnnualizedVolatility)
	// Long one call and one put on opposite returns nets to zero gross per day.
	assert.InDelta(t, 1.0, resp.Daily[0].Equity, 1e-9)
}

func TestRunBacktestEndpointErrors(t *testing.T) {
	r := testRouter()
	ds := writeDataset(t)

	// Missing required sigma.
	w := postJSON(t, r, "/api/v1/backtest", models.BacktestRequest{
		Data:   ds,
		Config: models.RunConfig{Strategy: models.StrategyConfig{Name: "long"}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var errResp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, "INVALID_REQUEST", errResp.Error.Code)

	// Unknown sigma column.
	w = postJSON(t, r, "/api/v1/backtest", models.BacktestRequest{
		Data: ds,
		Config: models.RunConfig{
			Sigma:    "hist",
			Strategy: models.StrategyConfig{Name: "long"},
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, "DATA_LOAD_ERROR", errResp.Error.Code)

	// Unknown strategy.
	w = postJSON(t, r, "/api/v1/backtest", models.BacktestRequest{
		Data: ds,
		Config: models.RunConfig{
			Sigma:    "gvix",
			Strategy: models.StrategyConfig{Name: "momentum"},
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, "INVALID_STRATEGY", errResp.Error.Code)
}

func TestRunBacktestLimitRowsAndLedger(t *testing.T) {
	r := testRouter()
	ds := writeDataset(t)

	w := postJSON(t, r, "/api/v1/backtest", models.BacktestRequest{
		Data: ds,
		Config: models.RunConfig{
			Sigma: "vix",
			Strategy: models.StrategyConfig{
				Name:   "mispricing",
				Params: map[string]any{"threshold": 0.05},
			},
		},
		Options: models.BacktestOptions{LimitRows: 4, IncludeLedger: true},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.BacktestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Summary.TotalRows)
	require.Len(t, resp.Ledger, 4)
	assert.Equal(t, "2023-03-01", resp.Ledger[0].Date)
	assert.NotZero(t, resp.Ledger[0].ModelPrice)
}

func TestCompareBacktestsEndpoint(t *testing.T) {
	r := testRouter()
	ds := writeDataset(t)

	w := postJSON(t, r, "/api/v1/backtest/compare", models.CompareBacktestRequest{
		Data: ds,
		BaseConfig: models.RunConfig{
			Sigma:    "vix",
			Strategy: models.StrategyConfig{Name: "long"},
		},
		Variations: []models.BacktestVariation{
			{Name: "vix"},
			{Name: "gvix", Config: models.RunConfig{Sigma: "gvix"}},
			{Name: "broken", Config: models.RunConfig{Sigma: "hist"}},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.CompareBacktestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	// The unjoinable variation is skipped, not fatal.
	require.Len(t, resp.Comparison, 2)
	assert.Equal(t, "vix", resp.Comparison[0].Name)
	assert.Equal(t, "gvix", resp.Comparison[1].Name)
	assert.Equal(t, "gvix", resp.Comparison[1].Summary.Sigma)
}

func TestRankSigmasEndpoint(t *testing.T) {
	r := testRouter()
	ds := writeDataset(t)

	url := fmt.Sprintf("/api/v1/rank?options_file=%s&index_file=%s&rates_file=%s&threshold=0.01",
		ds.OptionsFile, ds.IndexFile, ds.RatesFile)
	req := httptest.NewRequest(http.MethodGet, url, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.RankResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	// Both index sigma columns get ranked.
	require.Len(t, resp.Rankings, 2)
	assert.Equal(t, 1, resp.Rankings[0].Rank)
	assert.GreaterOrEqual(t,
		resp.Rankings[0].Report.SharpeRatio,
		resp.Rankings[1].Report.SharpeRatio)
}
