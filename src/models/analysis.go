package models

import "time"

// -----------------------------------------------------------------------------
// Analysis request / result structures (the dashboard pipeline payloads)
// -----------------------------------------------------------------------------

// MAnalysisRequest carries the user inputs for one analysis run.
type MAnalysisRequest struct {
	Tickers            []string           `json:"tickers"`
	Investments        map[string]float64 `json:"investments"`
	StartDate          string             `json:"start_date"` // YYYY-MM-DD, empty = lookback default
	EndDate            string             `json:"end_date"`   // YYYY-MM-DD, empty = today
	Simulations        int                `json:"simulations"`
	HorizonDays        int                `json:"horizon_days"`
	FrontierCandidates int                `json:"frontier_candidates"`
}

// -----------------------------------------------------------------------------

// MBacktestResult is the historical portfolio value series.
type MBacktestResult struct {
	Dates           []int64   `json:"dates"`
	Values          []float64 `json:"values"`
	TotalInvestment float64   `json:"total_investment"`
	FinalValue      float64   `json:"final_value"`
	TotalReturnPct  float64   `json:"total_return_pct"`
	Weights         []float64 `json:"weights"` // Investment-implied, ordered like the price matrix
}

// -----------------------------------------------------------------------------

// MMonteCarloResult summarizes the simulated end-value distribution.
type MMonteCarloResult struct {
	Simulations  int       `json:"simulations"`
	HorizonDays  int       `json:"horizon_days"`
	EndValues    []float64 `json:"end_values,omitempty"`
	Expected     float64   `json:"expected"`
	Median       float64   `json:"median"`
	Percentile5  float64   `json:"percentile_5"`
	Percentile95 float64   `json:"percentile_95"`
}

// -----------------------------------------------------------------------------

// MFrontierPoint is one random candidate portfolio on the frontier cloud.
type MFrontierPoint struct {
	Return  float64   `json:"return"` // Annualized
	Risk    float64   `json:"risk"`   // Annualized std dev
	Sharpe  float64   `json:"sharpe"`
	Weights []float64 `json:"weights"`
}

// -----------------------------------------------------------------------------

// MOptimizationResult holds the frontier search output.
type MOptimizationResult struct {
	Candidates int              `json:"candidates"`
	MaxSharpe  MFrontierPoint   `json:"max_sharpe"`
	Cloud      []MFrontierPoint `json:"cloud,omitempty"`
}

// -----------------------------------------------------------------------------

// MPortfolioMetrics are annualized metrics for one weight vector.
type MPortfolioMetrics struct {
	Return float64 `json:"return"`
	Risk   float64 `json:"risk"`
	Sharpe float64 `json:"sharpe"`
}

// -----------------------------------------------------------------------------

// MAnalysisResult is the full persisted output of one run.
type MAnalysisResult struct {
	ID             string              `json:"id"`
	Request        MAnalysisRequest    `json:"request"`
	Symbols        []string            `json:"symbols"`
	Backtest       MBacktestResult     `json:"backtest"`
	MonteCarlo     MMonteCarloResult   `json:"monte_carlo"`
	Optimization   MOptimizationResult `json:"optimization"`
	Current        MPortfolioMetrics   `json:"current"`
	ImprovementPct float64             `json:"improvement_pct"`
	CreatedAt      time.Time           `json:"created_at"`
}

// -----------------------------------------------------------------------------

// MRunSummary is the list-view projection of a persisted run.
type MRunSummary struct {
	ID              string    `json:"id"`
	Symbols         []string  `json:"symbols"`
	TotalInvestment float64   `json:"total_investment"`
	FinalValue      float64   `json:"final_value"`
	ExpectedValue   float64   `json:"expected_value"`
	MaxSharpe       float64   `json:"max_sharpe"`
	CreatedAt       time.Time `json:"created_at"`
}
