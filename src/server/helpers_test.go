package server

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-simulator/src/models"
)

func TestValidateRequestNormalizesTickers(t *testing.T) {
	req := &models.MAnalysisRequest{
		Tickers:     []string{" aapl ", "msft"},
		Investments: map[string]float64{"aapl": 1000, "MSFT": 2000},
	}

	require.NoError(t, validateRequest(req))

	assert.Equal(t, []string{"AAPL", "MSFT"}, req.Tickers)
	assert.InDelta(t, 1000, req.Investments["AAPL"], 1e-9)
	assert.InDelta(t, 2000, req.Investments["MSFT"], 1e-9)
}

func TestValidateRequestRejectsTooFewTickers(t *testing.T) {
	req := &models.MAnalysisRequest{
		Tickers:     []string{"AAPL"},
		Investments: map[string]float64{"AAPL": 1000},
	}
	assert.Error(t, validateRequest(req))
}

func TestValidateRequestRejectsDuplicates(t *testing.T) {
	req := &models.MAnalysisRequest{
		Tickers:     []string{"AAPL", "aapl"},
		Investments: map[string]float64{"AAPL": 1000},
	}
	err := validateRequest(req)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestValidateRequestRejectsEmptyTicker(t *testing.T) {
	req := &models.MAnalysisRequest{
		Tickers:     []string{"AAPL", "  "},
		Investments: map[string]float64{"AAPL": 1000},
	}
	assert.Error(t, validateRequest(req))
}

func TestValidateRequestRejectsUnknownInvestmentKey(t *testing.T) {
	// Mis-keyed investments would otherwise analyze a zero-funded portfolio
	req := &models.MAnalysisRequest{
		Tickers:     []string{"AAPL", "MSFT"},
		Investments: map[string]float64{"GOOG": 1000, "TSLA": 2000},
	}
	err := validateRequest(req)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "does not match any requested ticker")
}

func TestValidateRequestRejectsNegativeInvestment(t *testing.T) {
	req := &models.MAnalysisRequest{
		Tickers:     []string{"AAPL", "MSFT"},
		Investments: map[string]float64{"AAPL": 1000, "MSFT": -50},
	}
	assert.Error(t, validateRequest(req))
}

func TestValidateRequestRejectsZeroTotal(t *testing.T) {
	req := &models.MAnalysisRequest{
		Tickers:     []string{"AAPL", "MSFT"},
		Investments: map[string]float64{"AAPL": 0, "MSFT": 0},
	}
	err := validateRequest(req)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "greater than 0")
}

// -----------------------------------------------------------------------------

func TestResolveDateRangeExplicit(t *testing.T) {
	req := &models.MAnalysisRequest{
		Tickers:   []string{"AAPL", "MSFT"},
		StartDate: "2024-01-02",
		EndDate:   "2024-06-28",
	}

	start, end, err := resolveDateRange(req, 730)

	require.NoError(t, err)
	wantStart, _ := time.Parse("2006-01-02", "2024-01-02")
	wantEnd, _ := time.Parse("2006-01-02", "2024-06-28")
	assert.Equal(t, wantStart.Unix(), start)
	assert.Equal(t, wantEnd.Unix(), end)
}

func TestResolveDateRangeDefaultsToLookback(t *testing.T) {
	req := &models.MAnalysisRequest{Tickers: []string{"AAPL", "MSFT"}}

	start, end, err := resolveDateRange(req, 365)

	require.NoError(t, err)
	assert.InDelta(t, 365*24*3600, end-start, float64(24*3600))
}

func TestResolveDateRangeBadFormat(t *testing.T) {
	req := &models.MAnalysisRequest{
		Tickers:   []string{"AAPL", "MSFT"},
		StartDate: "01/02/2024",
	}
	_, _, err := resolveDateRange(req, 730)
	assert.Error(t, err)
}

func TestResolveDateRangeStartAfterEnd(t *testing.T) {
	req := &models.MAnalysisRequest{
		Tickers:   []string{"AAPL", "MSFT"},
		StartDate: "2024-06-28",
		EndDate:   "2024-01-02",
	}
	_, _, err := resolveDateRange(req, 730)
	assert.Error(t, err)
}

func TestResolveDateRangeWeekendOnly(t *testing.T) {
	// Saturday to Sunday, no trading days in between
	req := &models.MAnalysisRequest{
		Tickers:   []string{"AAPL", "MSFT"},
		StartDate: "2024-06-22",
		EndDate:   "2024-06-23",
	}
	_, _, err := resolveDateRange(req, 730)
	assert.Error(t, err)
}

// -----------------------------------------------------------------------------

func sampleCSVRun() *models.MAnalysisResult {
	return &models.MAnalysisResult{
		ID:      "run-1",
		Symbols: []string{"AAPL", "MSFT"},
		Backtest: models.MBacktestResult{
			Weights: []float64{0.4, 0.6},
		},
		Optimization: models.MOptimizationResult{
			MaxSharpe: models.MFrontierPoint{
				Sharpe:  1.2,
				Weights: []float64{0.7, 0.3},
			},
			Cloud: []models.MFrontierPoint{
				{Return: 0.15, Risk: 0.20, Sharpe: 0.75, Weights: []float64{0.5, 0.5}},
				{Return: 0.18, Risk: 0.15, Sharpe: 1.2, Weights: []float64{0.7, 0.3}},
			},
		},
	}
}

func TestFrontierCSV(t *testing.T) {
	out, err := frontierCSV(sampleCSVRun())

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	assert.Len(t, lines, 3) // Header + two candidates
	assert.Contains(t, lines[1], "0.500000|0.500000")
}

func TestAllocationCSV(t *testing.T) {
	out, err := allocationCSV(sampleCSVRun())

	require.NoError(t, err)
	text := string(out)
	assert.Contains(t, text, "AAPL")
	assert.Contains(t, text, "MSFT")
	lines := strings.Split(strings.TrimSpace(text), "\n")
	assert.Len(t, lines, 3) // Header + one row per symbol
}

func TestJoinWeights(t *testing.T) {
	assert.Equal(t, "0.250000|0.750000", joinWeights([]float64{0.25, 0.75}))
	assert.Equal(t, "", joinWeights(nil))
}
