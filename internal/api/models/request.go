package models

// BacktestRequest represents the request body for running a backtest
type BacktestRequest struct {
	Data    DataSourceConfig `json:"data" binding:"required"`
	Config  RunConfig        `json:"config" binding:"required"`
	Options BacktestOptions  `json:"options,omitempty"`
}

// DataSourceConfig defines which dataset files to backtest over.
// Either dataset_id (resolved via the dataset registry) or the three explicit
// file paths must be provided; explicit paths override registry entries.
type DataSourceConfig struct {
	DatasetID   string `json:"dataset_id,omitempty"`
	OptionsFile string `json:"options_file,omitempty"`
	IndexFile   string `json:"index_file,omitempty"`
	RatesFile   string `json:"rates_file,omitempty"`

	RateTenor string `json:"rate_tenor,omitempty"`  // default: "1w"
	StartDate string `json:"start_date,omitempty"`  // YYYY-MM-DD
	EndDate   string `json:"end_date,omitempty"`    // YYYY-MM-DD
}

// RunConfig contains the sigma column, cost and strategy configuration
type RunConfig struct {
	Sigma      string         `json:"sigma" binding:"required"`
	Threshold  float64        `json:"threshold,omitempty"`
	Commission float64        `json:"commission,omitempty"`
	Strategy   StrategyConfig `json:"strategy" binding:"required"`
}

// StrategyConfig defines the strategy and its parameters
type StrategyConfig struct {
	Name   string         `json:"name" binding:"required"`
	Params map[string]any `json:"params,omitempty"`
}

// BacktestOptions contains optional backtest parameters
type BacktestOptions struct {
	LimitRows     int  `json:"limit_rows,omitempty"`     // 0 = all
	IncludeLedger bool `json:"include_ledger,omitempty"` // default: false
	IncludeDaily  bool `json:"include_daily,omitempty"`  // default: false
}

// CompareBacktestRequest represents a request to compare multiple backtests
type CompareBacktestRequest struct {
	Data       DataSourceConfig    `json:"data" binding:"required"`
	BaseConfig RunConfig           `json:"base_config" binding:"required"`
	Variations []BacktestVariation `json:"variations" binding:"required"`
}

// BacktestVariation defines a variation to test
type BacktestVariation struct {
	Name   string    `json:"name" binding:"required"`
	Config RunConfig `json:"config"`
}

// RankRequest represents a request to rank sigma columns by Sharpe ratio
type RankRequest struct {
	DatasetID   string  `form:"dataset_id"`
	OptionsFile string  `form:"options_file"`
	IndexFile   string  `form:"index_file"`
	RatesFile   string  `form:"rates_file"`
	RateTenor   string  `form:"rate_tenor"`
	StartDate   string  `form:"start_date"`
	EndDate     string  `form:"end_date"`
	Sigmas      string  `form:"sigmas"`     // comma-separated; empty = all columns
	Threshold   float64 `form:"threshold"`  // default: 0.05
	Commission  float64 `form:"commission"` // default: 0
}
