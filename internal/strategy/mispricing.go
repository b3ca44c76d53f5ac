package strategy

// MispricingParams configures the mispricing strategy.
//
// Threshold is the relative band around the market price inside which no
// position is taken. With threshold t:
//   - model price > (1+t) * market close => long (market looks cheap)
//   - model price < (1-t) * market close => short (market looks rich)
//   - otherwise flat
type MispricingParams struct {
	Threshold float64
}

type MispricingStrategy struct {
	Params MispricingParams
}

func (s *MispricingStrategy) Name() string { return "mispricing" }

func (s *MispricingStrategy) Decide(ctx Context) int {
	t := s.Params.Threshold
	switch {
	case ctx.ModelPrice > (1+t)*ctx.Row.Close:
		return 1
	case ctx.ModelPrice < (1-t)*ctx.Row.Close:
		return -1
	default:
		return 0
	}
}
