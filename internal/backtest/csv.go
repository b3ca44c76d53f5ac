package backtest

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

func WriteLedgerCSV(path string, ledger []LedgerRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"index",
		"date",
		"code",
		"option_type",
		"strike",
		"years_to_expiry",
		"spot",
		"sigma",
		"risk_free",
		"close",
		"model_price",
		"position",
		"side",
		"return",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range ledger {
		row := []string{
			strconv.Itoa(r.Index),
			fmtDate(r.Date),
			r.Code,
			string(r.Type),
			fmtFloat(r.Strike),
			fmtFloat(r.YearsToExpiry),
			fmtFloat(r.Spot),
			fmtFloat(r.Sigma),
			fmtFloat(r.RiskFree),
			fmtFloat(r.Close),
			fmtFloat(r.ModelPrice),
			strconv.Itoa(r.Position),
			string(r.Side),
			fmtFloat(r.Return),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func WriteDailyCSV(path string, daily []DailyPoint) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"date", "gross_return", "net_return", "equity"}); err != nil {
		return err
	}
	for _, p := range daily {
		row := []string{
			fmtDate(p.Date),
			fmtFloat(p.GrossReturn),
			fmtFloat(p.NetReturn),
			fmtFloat(p.Equity),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func fmtDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
