package strategy

import "gvix-backtest/internal/model"

type Context struct {
	Index int
	Row   model.Row

	// ModelPrice is the Black-Scholes-Merton price for the row, computed once
	// by the engine so strategies and the ledger agree on it.
	ModelPrice float64
}

// Strategy decides the position for one option row:
// +1 long, -1 short, 0 flat.
type Strategy interface {
	Name() string
	Decide(ctx Context) int
}
