package model

import (
	"fmt"
	"time"
)

// OptionType distinguishes European calls and puts.
type OptionType string

const (
	Call OptionType = "call"
	Put  OptionType = "put"
)

func ParseOptionType(s string) (OptionType, error) {
	switch OptionType(s) {
	case Call:
		return Call, nil
	case Put:
		return Put, nil
	default:
		return "", fmt.Errorf("invalid option type %q, expected 'call' or 'put'", s)
	}
}

// OptionQuote is one option row from the options dataset.
// All prices are in the quote currency of the dataset (CNY for SSE 50 ETF options).
type OptionQuote struct {
	Date         time.Time
	Code         string
	Close        float64 // market close price of the option
	ExerciseDate time.Time
	Strike       float64
	Type         OptionType

	DaysToExpiry  int
	YearsToExpiry float64

	// ForwardReturn is the realized return of the option over the holding
	// period following Date. Rows without one (e.g. the last observation of a
	// contract) are excluded from backtests.
	ForwardReturn float64
	HasReturn     bool
}

// Row is an option quote joined with its market context for one trade date:
// the underlying spot, the volatility-index sigma, and the risk-free rate.
// Sigma and RiskFree are decimals (0.25 = 25%), converted from the percent
// values stored in the source files.
type Row struct {
	Date time.Time
	Code string
	Type OptionType

	Close         float64
	Strike        float64
	DaysToExpiry  int
	YearsToExpiry float64
	ForwardReturn float64

	Spot     float64
	Sigma    float64
	RiskFree float64
}
