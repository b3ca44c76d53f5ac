package models

import "time"

// BacktestResponse represents the response from a backtest run
type BacktestResponse struct {
	Status  string          `json:"status"`
	Summary BacktestSummary `json:"summary"`
	Ledger  []LedgerRow     `json:"ledger,omitempty"`
	Daily   []DailyPoint    `json:"daily,omitempty"`
}

// BacktestSummary contains aggregated backtest results
type BacktestSummary struct {
	Sigma          string      `json:"sigma"`
	Strategy       string      `json:"strategy"`
	TotalRows      int         `json:"total_rows"`
	TradingDays    int         `json:"trading_days"`
	BacktestWindow TimeWindow  `json:"backtest_window"`
	FinalEquity    float64     `json:"final_equity"`
	Metrics        *ReportInfo `json:"metrics,omitempty"`
}

// TimeWindow represents a time range
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ReportInfo contains performance metrics for an equity curve.
// Returns and drawdown are fractions (0.47 = 47%).
type ReportInfo struct {
	TotalReturn          float64 `json:"total_return"`
	AnnualizedReturn     float64 `json:"annualized_return"`
	AnnualizedVolatility float64 `json:"annualized_volatility"`
	MaxDrawdown          float64 `json:"max_drawdown"`
	SharpeRatio          float64 `json:"sharpe_ratio"`
	CalmarRatio          float64 `json:"calmar_ratio"`
	MaxDrawdownStart     string  `json:"max_drawdown_start"` // YYYY-MM-DD
	MaxDrawdownEnd       string  `json:"max_drawdown_end"`   // YYYY-MM-DD
}

// LedgerRow represents one option row in the backtest ledger
type LedgerRow struct {
	Index         int     `json:"index"`
	Date          string  `json:"date"` // YYYY-MM-DD
	Code          string  `json:"code"`
	OptionType    string  `json:"option_type"` // "call", "put"
	Strike        float64 `json:"strike"`
	YearsToExpiry float64 `json:"years_to_expiry"`
	Spot          float64 `json:"spot"`
	Sigma         float64 `json:"sigma"`
	RiskFree      float64 `json:"risk_free"`
	Close         float64 `json:"close"`
	ModelPrice    float64 `json:"model_price"`
	Position      int     `json:"position"`
	Side          string  `json:"side"` // "LONG", "SHORT", "FLAT"
	Return        float64 `json:"return"`
}

// DailyPoint represents one day of the aggregated portfolio series
type DailyPoint struct {
	Date        string  `json:"date"` // YYYY-MM-DD
	GrossReturn float64 `json:"gross_return"`
	NetReturn   float64 `json:"net_return"`
	Equity      float64 `json:"equity"`
}

// CompareBacktestResponse represents the response from a comparison
type CompareBacktestResponse struct {
	Comparison []ComparisonResult `json:"comparison"`
}

// ComparisonResult contains results for one variation
type ComparisonResult struct {
	Name    string          `json:"name"`
	Summary BacktestSummary `json:"summary"`
}

// RankResponse represents the response from ranking sigma columns
type RankResponse struct {
	Rankings []Ranking `json:"rankings"`
}

// Ranking represents one ranked sigma column
type Ranking struct {
	Rank   int        `json:"rank"`
	Sigma  string     `json:"sigma"`
	Report ReportInfo `json:"report"`
}

// StrategyInfo represents information about a strategy
type StrategyInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  []ParameterInfo `json:"parameters"`
}

// ParameterInfo describes a strategy parameter
type ParameterInfo struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"` // "float", "int", "string"
	Description string      `json:"description"`
	Default     interface{} `json:"default,omitempty"`
}

// DatasetInfo represents one registered dataset
type DatasetInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Market      string `json:"market"`
	OptionsFile string `json:"options_file"`
	IndexFile   string `json:"index_file"`
	RatesFile   string `json:"rates_file"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
