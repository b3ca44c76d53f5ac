package handlers

import (
	"fmt"
	"net/http"
	"time"

	"gvix-backtest/internal/analysis"
	"gvix-backtest/internal/api/models"
	"gvix-backtest/internal/backtest"
	"gvix-backtest/internal/data"
	"gvix-backtest/internal/model"
	"gvix-backtest/internal/strategy"

	"github.com/gin-gonic/gin"
)

// BacktestHandler handles backtest-related requests
type BacktestHandler struct{}

// NewBacktestHandler creates a new backtest handler
func NewBacktestHandler() *BacktestHandler {
	return &BacktestHandler{}
}

// RunBacktest handles POST /api/v1/backtest
func (h *BacktestHandler) RunBacktest(c *gin.Context) {
	var req models.BacktestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	rows, err := loadRows(req.Data, req.Config.Sigma)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "DATA_LOAD_ERROR",
				Message: err.Error(),
			},
		})
		return
	}

	if req.Options.LimitRows > 0 && req.Options.LimitRows < len(rows) {
		rows = rows[:req.Options.LimitRows]
	}

	strat, err := buildStrategy(req.Config.Strategy, req.Config.Threshold)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_STRATEGY",
				Message: err.Error(),
			},
		})
		return
	}

	engine := backtest.New()
	result, err := engine.Run(rows, strat, req.Config.Commission)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "BACKTEST_ERROR",
				Message: err.Error(),
			},
		})
		return
	}

	response := models.BacktestResponse{
		Status:  "completed",
		Summary: buildSummary(req.Config.Sigma, strat.Name(), result),
	}
	if req.Options.IncludeLedger {
		response.Ledger = convertLedger(result.Ledger)
	}
	if req.Options.IncludeDaily {
		response.Daily = convertDaily(result.Daily)
	}
	c.JSON(http.StatusOK, response)
}

// CompareBacktests handles POST /api/v1/backtest/compare
func (h *BacktestHandler) CompareBacktests(c *gin.Context) {
	var req models.CompareBacktestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	comparison := make([]models.ComparisonResult, 0, len(req.Variations))
	engine := backtest.New()

	for _, variation := range req.Variations {
		merged := mergeRun(req.BaseConfig, variation.Config)

		rows, err := loadRows(req.Data, merged.Sigma)
		if err != nil {
			continue // Skip variations whose data cannot be loaded
		}

		strat, err := buildStrategy(merged.Strategy, merged.Threshold)
		if err != nil {
			continue // Skip invalid configs
		}

		result, err := engine.Run(rows, strat, merged.Commission)
		if err != nil {
			continue // Skip failed backtests
		}

		comparison = append(comparison, models.ComparisonResult{
			Name:    variation.Name,
			Summary: buildSummary(merged.Sigma, strat.Name(), result),
		})
	}

	c.JSON(http.StatusOK, models.CompareBacktestResponse{
		Comparison: comparison,
	})
}

// Helper methods

// resolveDataset turns a data-source config into concrete file paths,
// consulting the dataset registry when dataset_id is set. Explicit paths in
// the request override registry entries.
func resolveDataset(ds models.DataSourceConfig) (optionsFile, indexFile, ratesFile string, err error) {
	optionsFile = ds.OptionsFile
	indexFile = ds.IndexFile
	ratesFile = ds.RatesFile

	if ds.DatasetID != "" {
		list, err := data.LoadRegistry(data.GetDefaultRegistryPath())
		if err != nil {
			return "", "", "", fmt.Errorf("dataset registry: %w", err)
		}
		found := false
		for _, d := range list.Datasets {
			if d.ID == ds.DatasetID {
				if optionsFile == "" {
					optionsFile = d.OptionsFile
				}
				if indexFile == "" {
					indexFile = d.IndexFile
				}
				if ratesFile == "" {
					ratesFile = d.RatesFile
				}
				found = true
				break
			}
		}
		if !found {
			return "", "", "", fmt.Errorf("dataset %q not found in registry", ds.DatasetID)
		}
	}

	if optionsFile == "" || indexFile == "" || ratesFile == "" {
		return "", "", "", fmt.Errorf("options_file, index_file and rates_file are required (directly or via dataset_id)")
	}
	return optionsFile, indexFile, ratesFile, nil
}

// loadRows loads and joins the dataset described by the request for one sigma
// column, going through the dataset cache when it is enabled.
func loadRows(ds models.DataSourceConfig, sigma string) ([]model.Row, error) {
	optionsFile, indexFile, ratesFile, err := resolveDataset(ds)
	if err != nil {
		return nil, err
	}

	tenor := ds.RateTenor
	if tenor == "" {
		tenor = "1w"
	}

	var start, end time.Time
	if ds.StartDate != "" {
		start, err = time.Parse("2006-01-02", ds.StartDate)
		if err != nil {
			return nil, fmt.Errorf("invalid start_date (expected YYYY-MM-DD): %w", err)
		}
	}
	if ds.EndDate != "" {
		end, err = time.Parse("2006-01-02", ds.EndDate)
		if err != nil {
			return nil, fmt.Errorf("invalid end_date (expected YYYY-MM-DD): %w", err)
		}
	}

	cache := data.GetCache()
	cacheKey := data.GenerateCacheKey(data.CacheKeyParams{
		OptionsFile: optionsFile,
		IndexFile:   indexFile,
		RatesFile:   ratesFile,
		RateTenor:   tenor,
		Sigma:       sigma,
		Start:       start,
		End:         end,
	})
	if cached, found := cache.Get(cacheKey); found {
		return cached, nil
	}

	quotes, err := data.LoadOptionQuotes(optionsFile)
	if err != nil {
		return nil, err
	}
	index, err := data.LoadIndexSeries(indexFile)
	if err != nil {
		return nil, err
	}
	rates, err := data.LoadRateSeries(ratesFile, tenor)
	if err != nil {
		return nil, err
	}

	rows, err := data.Prepare(quotes, index, rates, sigma, start, end)
	if err != nil {
		return nil, err
	}

	cache.Set(cacheKey, rows)
	return rows, nil
}

func buildStrategy(cfg models.StrategyConfig, defaultThreshold float64) (strategy.Strategy, error) {
	switch cfg.Name {
	case "mispricing":
		threshold := mustNum(cfg.Params, "threshold", defaultThreshold)
		return &strategy.MispricingStrategy{Params: strategy.MispricingParams{
			Threshold: threshold,
		}}, nil
	case "long":
		return &strategy.LongStrategy{}, nil
	default:
		return nil, fmt.Errorf("unsupported strategy: %q", cfg.Name)
	}
}

func mergeRun(base, override models.RunConfig) models.RunConfig {
	merged := base
	if override.Sigma != "" {
		merged.Sigma = override.Sigma
	}
	if override.Threshold != 0 {
		merged.Threshold = override.Threshold
	}
	if override.Commission != 0 {
		merged.Commission = override.Commission
	}
	if override.Strategy.Name != "" {
		merged.Strategy = override.Strategy
	}
	return merged
}

func buildSummary(sigma, stratName string, result *backtest.Result) models.BacktestSummary {
	summary := models.BacktestSummary{
		Sigma:       sigma,
		Strategy:    stratName,
		TotalRows:   len(result.Ledger),
		TradingDays: len(result.Daily),
		FinalEquity: result.FinalEquity,
	}
	if len(result.Daily) > 0 {
		summary.BacktestWindow = models.TimeWindow{
			Start: result.Daily[0].Date,
			End:   result.Daily[len(result.Daily)-1].Date,
		}
	}
	if rep, err := analysis.Compute(result.Daily); err == nil {
		info := reportInfo(rep)
		summary.Metrics = &info
	}
	return summary
}

func reportInfo(rep analysis.Report) models.ReportInfo {
	return models.ReportInfo{
		TotalReturn:          rep.TotalReturn,
		AnnualizedReturn:     rep.AnnualizedReturn,
		AnnualizedVolatility: rep.AnnualizedVolatility,
		MaxDrawdown:          rep.MaxDrawdown,
		SharpeRatio:          rep.SharpeRatio,
		CalmarRatio:          rep.CalmarRatio,
		MaxDrawdownStart:     rep.MaxDrawdownStart.Format("2006-01-02"),
		MaxDrawdownEnd:       rep.MaxDrawdownEnd.Format("2006-01-02"),
	}
}

func convertLedger(ledger []backtest.LedgerRow) []models.LedgerRow {
	result := make([]models.LedgerRow, len(ledger))
	for i, row := range ledger {
		result[i] = models.LedgerRow{
			Index:         row.Index,
			Date:          row.Date.Format("2006-01-02"),
			Code:          row.Code,
			OptionType:    string(row.Type),
			Strike:        row.Strike,
			YearsToExpiry: row.YearsToExpiry,
			Spot:          row.Spot,
			Sigma:         row.Sigma,
			RiskFree:      row.RiskFree,
			Close:         row.Close,
			ModelPrice:    row.ModelPrice,
			Position:      row.Position,
			Side:          string(row.Side),
			Return:        row.Return,
		}
	}
	return result
}

func convertDaily(daily []backtest.DailyPoint) []models.DailyPoint {
	result := make([]models.DailyPoint, len(daily))
	for i, p := range daily {
		result[i] = models.DailyPoint{
			Date:        p.Date.Format("2006-01-02"),
			GrossReturn: p.GrossReturn,
			NetReturn:   p.NetReturn,
			Equity:      p.Equity,
		}
	}
	return result
}

// Helper functions (similar to CLI)
func mustNum(m map[string]interface{}, key string, def float64) float64 {
	if v, ok := m[key]; ok && v != nil {
		switch x := v.(type) {
		case float64:
			return x
		case int:
			return float64(x)
		}
	}
	return def
}
