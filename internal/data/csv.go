package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gvix-backtest/internal/model"
)

const dateLayout = "2006-01-02"

// LoadOptionQuotes reads the options dataset CSV.
//
// Expected header:
//
//	date,code,close,exercise_date,strike,option_type,days_to_expiry,years_to_expiry,forward_return
//
// forward_return may be empty for rows without a realized holding-period
// return; such rows are kept here and excluded at prepare time.
func LoadOptionQuotes(path string) ([]model.OptionQuote, error) {
	records, idx, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	for _, col := range []string{"date", "code", "close", "exercise_date", "strike", "option_type", "days_to_expiry", "years_to_expiry", "forward_return"} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%s: missing column %q", path, col)
		}
	}

	quotes := make([]model.OptionQuote, 0, len(records))
	for i, rec := range records {
		line := i + 2 // header is line 1

		date, err := time.Parse(dateLayout, rec[idx["date"]])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: invalid date: %w", path, line, err)
		}
		exDate, err := time.Parse(dateLayout, rec[idx["exercise_date"]])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: invalid exercise_date: %w", path, line, err)
		}
		typ, err := model.ParseOptionType(rec[idx["option_type"]])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, line, err)
		}
		closePx, err := parseFloat(rec[idx["close"]])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: invalid close: %w", path, line, err)
		}
		strike, err := parseFloat(rec[idx["strike"]])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: invalid strike: %w", path, line, err)
		}
		days, err := strconv.Atoi(strings.TrimSpace(rec[idx["days_to_expiry"]]))
		if err != nil {
			return nil, fmt.Errorf("%s line %d: invalid days_to_expiry: %w", path, line, err)
		}
		years, err := parseFloat(rec[idx["years_to_expiry"]])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: invalid years_to_expiry: %w", path, line, err)
		}

		q := model.OptionQuote{
			Date:          date,
			Code:          rec[idx["code"]],
			Close:         closePx,
			ExerciseDate:  exDate,
			Strike:        strike,
			Type:          typ,
			DaysToExpiry:  days,
			YearsToExpiry: years,
		}
		if raw := strings.TrimSpace(rec[idx["forward_return"]]); raw != "" {
			ret, err := parseFloat(raw)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: invalid forward_return: %w", path, line, err)
			}
			q.ForwardReturn = ret
			q.HasReturn = true
		}
		quotes = append(quotes, q)
	}
	return quotes, nil
}

// IndexPoint is one day of the volatility-index dataset: the underlying spot
// plus one or more annualized sigma columns in percent (e.g. vix, gvix).
type IndexPoint struct {
	Date       time.Time
	AssetPrice float64
	Sigmas     map[string]float64
}

// LoadIndexSeries reads the volatility-index CSV. The header must start with
// date,asset_price; every remaining column is treated as a sigma series.
func LoadIndexSeries(path string) (map[time.Time]IndexPoint, error) {
	records, idx, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	for _, col := range []string{"date", "asset_price"} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%s: missing column %q", path, col)
		}
	}

	sigmaCols := make(map[string]int)
	for name, col := range idx {
		if name == "date" || name == "asset_price" {
			continue
		}
		sigmaCols[name] = col
	}
	if len(sigmaCols) == 0 {
		return nil, fmt.Errorf("%s: no sigma columns", path)
	}

	out := make(map[time.Time]IndexPoint, len(records))
	for i, rec := range records {
		line := i + 2
		date, err := time.Parse(dateLayout, rec[idx["date"]])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: invalid date: %w", path, line, err)
		}
		spot, err := parseFloat(rec[idx["asset_price"]])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: invalid asset_price: %w", path, line, err)
		}
		p := IndexPoint{Date: date, AssetPrice: spot, Sigmas: make(map[string]float64, len(sigmaCols))}
		for name, col := range sigmaCols {
			if strings.TrimSpace(rec[col]) == "" {
				continue
			}
			v, err := parseFloat(rec[col])
			if err != nil {
				return nil, fmt.Errorf("%s line %d: invalid %s: %w", path, line, name, err)
			}
			p.Sigmas[name] = v
		}
		out[date] = p
	}
	return out, nil
}

// LoadRateSeries reads a Shibor-style rates CSV (date plus tenor columns in
// percent) and returns the series for one tenor column, e.g. "1w".
func LoadRateSeries(path, tenor string) (map[time.Time]float64, error) {
	records, idx, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	if _, ok := idx["date"]; !ok {
		return nil, fmt.Errorf("%s: missing column %q", path, "date")
	}
	col, ok := idx[strings.ToLower(tenor)]
	if !ok {
		return nil, fmt.Errorf("%s: missing tenor column %q", path, tenor)
	}

	out := make(map[time.Time]float64, len(records))
	for i, rec := range records {
		line := i + 2
		date, err := time.Parse(dateLayout, rec[idx["date"]])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: invalid date: %w", path, line, err)
		}
		if strings.TrimSpace(rec[col]) == "" {
			continue
		}
		v, err := parseFloat(rec[col])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: invalid %s: %w", path, line, tenor, err)
		}
		out[date] = v
	}
	return out, nil
}

// readCSV reads all records and returns them with a lowercased header index.
func readCSV(path string) ([][]string, map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(rows) < 1 {
		return nil, nil, fmt.Errorf("%s: empty file", path)
	}

	idx := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return rows[1:], idx, nil
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
