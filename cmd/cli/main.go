package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"gvix-backtest/internal/analysis"
	"gvix-backtest/internal/backtest"
	"gvix-backtest/internal/config"
	"gvix-backtest/internal/data"
	"gvix-backtest/internal/model"
	"gvix-backtest/internal/strategy"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "backtest":
		cmdBacktest(os.Args[2:])
	case "compare":
		cmdCompare(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli backtest --config examples/config.yaml --sigma gvix --out results/ledger.csv")
	fmt.Println("  cli compare --config examples/config.yaml --outdir results")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - backtest runs one sigma column and prints its performance report")
	fmt.Println("  - compare runs every configured sigma column and ranks them by Sharpe ratio")
}

func cmdBacktest(args []string) {
	fs := flag.NewFlagSet("backtest", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	sigmaFlag := fs.String("sigma", "", "Sigma column to run (default: first configured)")
	outPath := fs.String("out", "results/ledger.csv", "Output ledger CSV path")
	dailyPath := fs.String("daily", "", "Optional output CSV for the daily equity series")
	n := fs.Int("n", 0, "Optional: limit to first N rows (0=all)")
	_ = fs.Parse(args)

	if *cfgPath == "" {
		fmt.Println("--config is required")
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		panic(err)
	}

	sigma := *sigmaFlag
	if sigma == "" {
		sigma = cfg.Backtest.Sigmas[0]
	}

	rows := loadRows(cfg, sigma)
	if *n > 0 && *n < len(rows) {
		rows = rows[:*n]
	}

	strat := buildStrategy(cfg, sigma)

	engine := backtest.New()
	res, err := engine.Run(rows, strat, cfg.Backtest.Commission)
	if err != nil {
		panic(err)
	}

	// ensure output dir exists
	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		panic(err)
	}
	if err := backtest.WriteLedgerCSV(*outPath, res.Ledger); err != nil {
		panic(err)
	}
	if *dailyPath != "" {
		if err := backtest.WriteDailyCSV(*dailyPath, res.Daily); err != nil {
			panic(err)
		}
	}

	fmt.Printf("Wrote %d rows to %s\n", len(res.Ledger), *outPath)
	fmt.Printf("Sigma=%s Strategy=%s Trading days=%d Final equity=%.4f\n\n",
		sigma, strat.Name(), len(res.Daily), res.FinalEquity)

	rep, err := analysis.Compute(res.Daily)
	if err != nil {
		fmt.Printf("No performance report: %v\n", err)
		return
	}
	printReport(rep)
}

func cmdCompare(args []string) {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	outDir := fs.String("outdir", "", "Optional directory for per-sigma daily CSVs")
	_ = fs.Parse(args)

	if *cfgPath == "" {
		fmt.Println("--config is required")
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		panic(err)
	}

	engine := backtest.New()
	bySigma := map[string]analysis.Report{}
	for _, sigma := range cfg.Backtest.Sigmas {
		rows := loadRows(cfg, sigma)
		strat := buildStrategy(cfg, sigma)

		res, err := engine.Run(rows, strat, cfg.Backtest.Commission)
		if err != nil {
			panic(fmt.Errorf("sigma %s: %w", sigma, err))
		}
		rep, err := analysis.Compute(res.Daily)
		if err != nil {
			panic(fmt.Errorf("sigma %s: %w", sigma, err))
		}
		bySigma[sigma] = rep

		if *outDir != "" {
			if err := os.MkdirAll(*outDir, 0o755); err != nil {
				panic(err)
			}
			path := filepath.Join(*outDir, sigma+"_daily.csv")
			if err := backtest.WriteDailyCSV(path, res.Daily); err != nil {
				panic(err)
			}
		}
	}

	ranked := analysis.RankBySharpe(bySigma)
	fmt.Printf("%-4s %-10s %-10s %-10s %-10s %-8s %-8s\n",
		"rank", "sigma", "ann.ret", "ann.vol", "maxdd", "sharpe", "calmar")
	for i, r := range ranked {
		fmt.Printf("%-4d %-10s %-10s %-10s %-10s %-8.2f %-8.2f\n",
			i+1,
			r.Sigma,
			pct(r.AnnualizedReturn),
			pct(r.AnnualizedVolatility),
			pct(r.MaxDrawdown),
			r.SharpeRatio,
			r.CalmarRatio,
		)
	}
}

func loadRows(cfg *config.Config, sigma string) []model.Row {
	quotes, err := data.LoadOptionQuotes(cfg.Data.OptionsFile)
	if err != nil {
		panic(err)
	}
	index, err := data.LoadIndexSeries(cfg.Data.IndexFile)
	if err != nil {
		panic(err)
	}
	rates, err := data.LoadRateSeries(cfg.Data.RatesFile, cfg.Data.RateTenor)
	if err != nil {
		panic(err)
	}
	start, end, err := cfg.DateRange()
	if err != nil {
		panic(err)
	}
	rows, err := data.Prepare(quotes, index, rates, sigma, start, end)
	if err != nil {
		panic(err)
	}
	return rows
}

func buildStrategy(cfg *config.Config, sigma string) strategy.Strategy {
	switch cfg.Strategy.Name {
	case "mispricing":
		threshold, err := cfg.ThresholdFor(sigma)
		if err != nil {
			panic(err)
		}
		threshold = mustNum(cfg.Strategy.Params, "threshold", threshold)
		return &strategy.MispricingStrategy{Params: strategy.MispricingParams{
			Threshold: threshold,
		}}
	case "long":
		return &strategy.LongStrategy{}
	default:
		panic(fmt.Errorf("unsupported strategy: %q", cfg.Strategy.Name))
	}
}

func printReport(rep analysis.Report) {
	fmt.Printf("%-24s %s\n", "Total Return", pct(rep.TotalReturn))
	fmt.Printf("%-24s %s\n", "Annualized Return", pct(rep.AnnualizedReturn))
	fmt.Printf("%-24s %s\n", "Annualized Volatility", pct(rep.AnnualizedVolatility))
	fmt.Printf("%-24s %s\n", "Maximum Drawdown", pct(rep.MaxDrawdown))
	fmt.Printf("%-24s %.2f\n", "Sharpe Ratio", rep.SharpeRatio)
	fmt.Printf("%-24s %.2f\n", "Calmar Ratio", rep.CalmarRatio)
	fmt.Printf("%-24s %s\n", "Max Drawdown Start", rep.MaxDrawdownStart.Format("2006-01-02"))
	fmt.Printf("%-24s %s\n", "Max Drawdown End", rep.MaxDrawdownEnd.Format("2006-01-02"))
}

func pct(x float64) string {
	return fmt.Sprintf("%.2f%%", x*100)
}

func mustNum(m map[string]any, key string, def float64) float64 {
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
