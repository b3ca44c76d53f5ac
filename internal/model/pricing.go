package model

import (
	"errors"
	"fmt"
	"math"
)

// OptionPrice computes the Black-Scholes-Merton price of a European option.
//
// spot and strike are in the same currency, tau is time to expiry in years,
// sigma is the annualized volatility as a decimal, rf is the annualized
// risk-free rate as a decimal.
func OptionPrice(typ OptionType, spot, strike, tau, sigma, rf float64) (float64, error) {
	if spot <= 0 {
		return 0, errors.New("spot must be > 0")
	}
	if strike <= 0 {
		return 0, errors.New("strike must be > 0")
	}
	if tau <= 0 {
		return 0, errors.New("tau must be > 0")
	}
	if sigma <= 0 {
		return 0, errors.New("sigma must be > 0")
	}

	sqrtTau := math.Sqrt(tau)
	d1 := (math.Log(spot/strike) + (rf+0.5*sigma*sigma)*tau) / (sigma * sqrtTau)
	d2 := d1 - sigma*sqrtTau

	discount := math.Exp(-rf * tau)
	switch typ {
	case Call:
		return spot*normCDF(d1) - strike*discount*normCDF(d2), nil
	case Put:
		return strike*discount*normCDF(-d2) - spot*normCDF(-d1), nil
	default:
		return 0, fmt.Errorf("invalid option type %q, expected 'call' or 'put'", typ)
	}
}

// normCDF is the standard normal cumulative distribution function.
func normCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}
