package server

import (
	"fmt"
	"strings"
	"time"

	"portfolio-simulator/src/helpers"
	"portfolio-simulator/src/models"
	"portfolio-simulator/src/utils"

	"github.com/gocarina/gocsv"
)

// -----------------------------------------------------------------------------
// Request Validation
// -----------------------------------------------------------------------------

// validateRequest mirrors the dashboard's input checks: tickers present
// and non-empty, and a total investment greater than zero.
func validateRequest(req *models.MAnalysisRequest) error {
	if len(req.Tickers) < 2 {
		return helpers.NewValidationError("at least two stock tickers are required")
	}

	normalized := make([]string, 0, len(req.Tickers))
	seen := make(map[string]struct{})
	for _, t := range req.Tickers {
		sym := strings.ToUpper(strings.TrimSpace(t))
		if sym == "" {
			return helpers.NewValidationError("stock tickers cannot be empty")
		}
		if _, dup := seen[sym]; dup {
			return helpers.NewValidationError("duplicate ticker: %s", sym)
		}
		seen[sym] = struct{}{}
		normalized = append(normalized, sym)
	}
	req.Tickers = normalized

	// Normalize investment keys alongside the tickers
	investments := make(map[string]float64, len(req.Investments))
	total := 0.0
	for sym, amount := range req.Investments {
		key := strings.ToUpper(strings.TrimSpace(sym))
		if _, ok := seen[key]; !ok {
			return helpers.NewValidationError("investment for %s does not match any requested ticker", sym)
		}
		if amount < 0 {
			return helpers.NewValidationError("investment for %s cannot be negative", sym)
		}
		investments[key] = amount
		total += amount
	}
	req.Investments = investments

	if total <= 0 {
		return helpers.NewValidationError("total investment must be greater than 0")
	}

	return nil
}

// -----------------------------------------------------------------------------

// resolveDateRange parses the request dates (YYYY-MM-DD), applying the
// configured lookback when the start is missing and today when the end
// is missing. The range must contain trading days.
func resolveDateRange(req *models.MAnalysisRequest, lookbackDays int) (int64, int64, error) {
	end := time.Now().UTC().Truncate(24 * time.Hour)
	if req.EndDate != "" {
		parsed, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			return 0, 0, helpers.NewValidationError("invalid end_date %q: expected YYYY-MM-DD", req.EndDate)
		}
		end = parsed
	}

	start := end.AddDate(0, 0, -lookbackDays)
	if req.StartDate != "" {
		parsed, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			return 0, 0, helpers.NewValidationError("invalid start_date %q: expected YYYY-MM-DD", req.StartDate)
		}
		start = parsed
	}

	if !start.Before(end) {
		return 0, 0, helpers.NewValidationError("start_date must be before end_date")
	}

	// A backtest needs at least two trading days of history
	cal := utils.GetCalendar(req.Tickers[0])
	if cal.CountTradingDays(start, end) < 2 {
		return 0, 0, helpers.NewValidationError("date range contains no trading days")
	}

	return start.Unix(), end.Unix(), nil
}

// -----------------------------------------------------------------------------
// CSV Export
// -----------------------------------------------------------------------------

// frontierCSV flattens the frontier cloud for download.
func frontierCSV(run *models.MAnalysisResult) ([]byte, error) {
	rows := make([]models.MFrontierCSVRow, 0, len(run.Optimization.Cloud))
	for _, p := range run.Optimization.Cloud {
		rows = append(rows, models.MFrontierCSVRow{
			Return:  p.Return,
			Risk:    p.Risk,
			Sharpe:  p.Sharpe,
			Weights: joinWeights(p.Weights),
		})
	}

	out, err := gocsv.MarshalString(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal frontier csv: %w", err)
	}
	return []byte(out), nil
}

// -----------------------------------------------------------------------------

// allocationCSV compares current and optimal weights per symbol.
func allocationCSV(run *models.MAnalysisResult) ([]byte, error) {
	rows := make([]models.MAllocationCSVRow, 0, len(run.Symbols))
	for j, sym := range run.Symbols {
		row := models.MAllocationCSVRow{Symbol: sym}
		if j < len(run.Backtest.Weights) {
			row.CurrentWeight = run.Backtest.Weights[j]
		}
		if j < len(run.Optimization.MaxSharpe.Weights) {
			row.OptimalWeight = run.Optimization.MaxSharpe.Weights[j]
		}
		rows = append(rows, row)
	}

	out, err := gocsv.MarshalString(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal allocation csv: %w", err)
	}
	return []byte(out), nil
}

// -----------------------------------------------------------------------------

func joinWeights(weights []float64) string {
	parts := make([]string, len(weights))
	for i, w := range weights {
		parts[i] = fmt.Sprintf("%.6f", w)
	}
	return strings.Join(parts, "|")
}
