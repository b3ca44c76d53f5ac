package analysis

import "sort"

type RankedReport struct {
	Sigma string
	Report
}

// RankBySharpe sorts per-sigma reports descending by Sharpe ratio.
func RankBySharpe(bySigma map[string]Report) []RankedReport {
	out := make([]RankedReport, 0, len(bySigma))
	for sigma, rep := range bySigma {
		out = append(out, RankedReport{Sigma: sigma, Report: rep})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SharpeRatio != out[j].SharpeRatio {
			return out[i].SharpeRatio > out[j].SharpeRatio
		}
		return out[i].Sigma < out[j].Sigma
	})
	return out
}
