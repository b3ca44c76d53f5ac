package handlers

import (
	"net/http"
	"sort"
	"strings"

	"gvix-backtest/internal/analysis"
	"gvix-backtest/internal/api/models"
	"gvix-backtest/internal/backtest"
	"gvix-backtest/internal/data"
	"gvix-backtest/internal/strategy"

	"github.com/gin-gonic/gin"
)

// RankHandler handles sigma-ranking requests
type RankHandler struct{}

// NewRankHandler creates a new rank handler
func NewRankHandler() *RankHandler {
	return &RankHandler{}
}

// RankSigmas handles GET /api/v1/rank.
// It runs the mispricing strategy once per sigma column and ranks the
// resulting performance reports by Sharpe ratio.
func (h *RankHandler) RankSigmas(c *gin.Context) {
	var req models.RankRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	threshold := req.Threshold
	if threshold == 0 {
		threshold = 0.05
	}

	ds := models.DataSourceConfig{
		DatasetID:   req.DatasetID,
		OptionsFile: req.OptionsFile,
		IndexFile:   req.IndexFile,
		RatesFile:   req.RatesFile,
		RateTenor:   req.RateTenor,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}

	sigmas, err := rankSigmaList(req.Sigmas, ds)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "DATA_LOAD_ERROR",
				Message: err.Error(),
			},
		})
		return
	}

	engine := backtest.New()
	bySigma := make(map[string]analysis.Report, len(sigmas))
	for _, sigma := range sigmas {
		rows, err := loadRows(ds, sigma)
		if err != nil {
			continue // Skip sigma columns whose data cannot be joined
		}
		strat := &strategy.MispricingStrategy{Params: strategy.MispricingParams{
			Threshold: threshold,
		}}
		result, err := engine.Run(rows, strat, req.Commission)
		if err != nil {
			continue
		}
		rep, err := analysis.Compute(result.Daily)
		if err != nil {
			continue
		}
		bySigma[sigma] = rep
	}

	ranked := analysis.RankBySharpe(bySigma)
	rankings := make([]models.Ranking, len(ranked))
	for i, r := range ranked {
		rankings[i] = models.Ranking{
			Rank:   i + 1,
			Sigma:  r.Sigma,
			Report: reportInfo(r.Report),
		}
	}

	c.JSON(http.StatusOK, models.RankResponse{Rankings: rankings})
}

// rankSigmaList resolves the sigma columns to rank: the explicit request list,
// or every sigma column present in the index file.
func rankSigmaList(param string, ds models.DataSourceConfig) ([]string, error) {
	if param != "" {
		parts := strings.Split(param, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out, nil
	}

	sigmas, err := indexSigmaColumns(ds)
	if err != nil {
		return nil, err
	}
	sort.Strings(sigmas)
	return sigmas, nil
}

// indexSigmaColumns returns the union of sigma columns in the index file.
func indexSigmaColumns(ds models.DataSourceConfig) ([]string, error) {
	_, indexFile, _, err := resolveDataset(ds)
	if err != nil {
		return nil, err
	}
	index, err := data.LoadIndexSeries(indexFile)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	for _, pt := range index {
		for name := range pt.Sigmas {
			seen[name] = true
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	return out, nil
}
