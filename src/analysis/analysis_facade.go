package analysis

import (
	"fmt"
	"time"

	"portfolio-simulator/src/analysis/core"
	"portfolio-simulator/src/logger"
	"portfolio-simulator/src/models"
)

// -----------------------------------------------------------------------------
// AnalysisFacade runs the full pipeline on fetched data:
// backtest -> Monte Carlo -> frontier search -> current-vs-optimal insights.
// -----------------------------------------------------------------------------

type AnalysisFacade struct {
	Config     *models.MConfig
	Backtester *Backtester
	MonteCarlo *MonteCarloEngine
	Optimizer  *FrontierOptimizer
	Logger     *logger.Logger
}

// -----------------------------------------------------------------------------

func NewAnalysisFacade(cfg *models.MConfig, log *logger.Logger) *AnalysisFacade {
	return &AnalysisFacade{
		Config:     cfg,
		Backtester: NewBacktester(log),
		MonteCarlo: NewMonteCarloEngine(cfg.Analysis.Workers, cfg.Analysis.Seed, log),
		Optimizer:  NewFrontierOptimizer(cfg.Analysis.Seed, log),
		Logger:     log,
	}
}

// -----------------------------------------------------------------------------

// NormalizeRequest fills missing tunables with configured defaults and
// clamps the rest into the allowed bounds.
func (a *AnalysisFacade) NormalizeRequest(req *models.MAnalysisRequest) {
	req.Simulations = clampBounded(req.Simulations, a.Config.Analysis.Simulations)
	req.HorizonDays = clampBounded(req.HorizonDays, a.Config.Analysis.HorizonDays)
	if req.FrontierCandidates <= 0 {
		req.FrontierCandidates = a.Config.Analysis.FrontierCandidates
	}
}

// -----------------------------------------------------------------------------

func clampBounded(v int, b models.MBoundedInt) int {
	if v <= 0 {
		return b.Default
	}
	if v < b.Min {
		return b.Min
	}
	if v > b.Max {
		return b.Max
	}
	return v
}

// -----------------------------------------------------------------------------

// Run executes the pipeline stages and assembles the persisted result.
// progress (optional) receives stage milestones; it may be called from
// multiple goroutines during the Monte Carlo stage.
func (a *AnalysisFacade) Run(
	runID string,
	req models.MAnalysisRequest,
	prices *models.MPriceMatrix,
	returns *models.MReturnMatrix,
	progress func(stage string, pct int, msg string),
) (*models.MAnalysisResult, error) {

	if len(prices.Symbols) == 0 {
		return nil, fmt.Errorf("no symbols in aligned price data")
	}
	if len(returns.Returns) == 0 {
		return nil, fmt.Errorf("not enough overlapping history to compute returns")
	}

	report := func(stage string, pct int, msg string) {
		if progress != nil {
			progress(stage, pct, msg)
		}
	}

	// Investment amounts ordered like the aligned matrix; symbols the
	// user did not fund get zero, mirroring the dashboard behavior.
	investments := make([]float64, len(prices.Symbols))
	for j, sym := range prices.Symbols {
		investments[j] = req.Investments[sym]
	}

	// 1. Backtest
	report("backtest", 30, "Running backtest analysis...")
	backtest := a.Backtester.Run(returns, investments)

	// 2. Monte Carlo
	report("monte_carlo", 50, "Running Monte Carlo simulation...")
	mc := a.MonteCarlo.Run(prices, returns, investments, req.Simulations, req.HorizonDays,
		func(done, total int) {
			// Map simulation progress onto the 50-75 band
			pct := 50 + done*25/total
			report("monte_carlo", pct, fmt.Sprintf("Simulated %d/%d scenarios", done, total))
		})

	// 3. Frontier search
	report("optimize", 75, "Optimizing portfolio (Efficient Frontier)...")
	opt := a.Optimizer.Run(returns, req.FrontierCandidates)

	// 4. Current portfolio insights (same formulas as the optimizer)
	means := core.MeanReturns(returns.Returns)
	cov := core.CovarianceMatrix(returns.Returns)

	current := models.MPortfolioMetrics{}
	current.Return = core.AnnualizedReturn(backtest.Weights, means)
	current.Risk = core.AnnualizedRisk(backtest.Weights, cov)
	current.Sharpe = core.SharpeRatio(current.Return, current.Risk)

	improvement := 0.0
	if current.Sharpe > 0 {
		improvement = (opt.MaxSharpe.Sharpe - current.Sharpe) / current.Sharpe * 100
	}

	result := &models.MAnalysisResult{
		ID:             runID,
		Request:        req,
		Symbols:        prices.Symbols,
		Backtest:       backtest,
		MonteCarlo:     mc,
		Optimization:   opt,
		Current:        current,
		ImprovementPct: improvement,
		CreatedAt:      time.Now().UTC(),
	}

	report("done", 100, "Analysis complete!")
	a.Logger.Info("Run %s complete: final=%.2f expected=%.2f sharpe=%.3f -> %.3f",
		runID, backtest.FinalValue, mc.Expected, current.Sharpe, opt.MaxSharpe.Sharpe)

	return result, nil
}

// -----------------------------------------------------------------------------

// Summarize projects a full result into the list/broadcast view.
func Summarize(run *models.MAnalysisResult) models.MRunSummary {
	return models.MRunSummary{
		ID:              run.ID,
		Symbols:         run.Symbols,
		TotalInvestment: run.Backtest.TotalInvestment,
		FinalValue:      run.Backtest.FinalValue,
		ExpectedValue:   run.MonteCarlo.Expected,
		MaxSharpe:       run.Optimization.MaxSharpe.Sharpe,
		CreatedAt:       run.CreatedAt,
	}
}
