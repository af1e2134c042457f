package main

import (
	"flag"
	"fmt"
	"os"

	"portfolio-simulator/src/models"
)

// -----------------------------------------------------------------------------
// Manual end-to-end harness: runs the full pipeline against a canned
// data source and prints the results. No network, no server.
//
//	go run ./cmd/test -sims 2000 -days 252
// -----------------------------------------------------------------------------

func main() {
	// 1. Parse command line flags
	sims := flag.Int("sims", 1000, "number of Monte Carlo simulations")
	days := flag.Int("days", 252, "simulation horizon in trading days")
	candidates := flag.Int("candidates", 5000, "frontier candidates")
	seed := flag.Int64("seed", 42, "PRNG seed (0 = time-based)")
	flag.Parse()

	// 2. Components (in-memory, deterministic)
	env, err := setupEnvironment(*seed)
	if err != nil {
		fmt.Printf("Setup failed: %v\n", err)
		os.Exit(1)
	}
	defer env.DB.Close()

	// 3. Run the pipeline
	req := models.MAnalysisRequest{
		Tickers: []string{"AAPL", "MSFT", "GOOGL"},
		Investments: map[string]float64{
			"AAPL":  1000,
			"MSFT":  1000,
			"GOOGL": 1000,
		},
		Simulations:        *sims,
		HorizonDays:        *days,
		FrontierCandidates: *candidates,
	}

	run, err := runPipeline(env, req)
	if err != nil {
		env.Logger.Critical("Pipeline failed: %v", err)
	}

	// 4. Print results
	printSummary(run)
	printAllocation(run)

	// 5. Verify persistence round-trip
	stored, err := env.DB.GetAnalysisRun(run.ID)
	if err != nil {
		env.Logger.Critical("Run not found after save: %v", err)
	}
	env.Logger.Info("Persistence OK: run %s stored with %d frontier candidates",
		stored.ID, len(stored.Optimization.Cloud))

	summaries, err := env.DB.ListAnalysisRuns(10)
	if err != nil {
		env.Logger.Critical("List runs failed: %v", err)
	}
	env.Logger.Info("Run history: %d entries", len(summaries))
}

// -----------------------------------------------------------------------------

func runPipeline(env *testEnv, req models.MAnalysisRequest) (*models.MAnalysisResult, error) {
	env.Analyzer.NormalizeRequest(&req)

	prices, returns, err := env.History.GetAlignedHistory(env.Ctx, req.Tickers, env.StartDate, env.EndDate)
	if err != nil {
		return nil, err
	}
	env.Logger.Info("Aligned history: %d days x %d symbols", len(prices.Dates), len(prices.Symbols))

	run, err := env.Analyzer.Run("harness-run", req, prices, returns,
		func(stage string, pct int, msg string) {
			env.Logger.Info("[%3d%%] %s", pct, msg)
		})
	if err != nil {
		return nil, err
	}

	if err := env.DB.SaveAnalysisRun(run); err != nil {
		return nil, err
	}
	return run, nil
}

// -----------------------------------------------------------------------------

func printSummary(run *models.MAnalysisResult) {
	fmt.Println()
	renderSummaryTable(run)
	fmt.Println()
}

// -----------------------------------------------------------------------------

func printAllocation(run *models.MAnalysisResult) {
	renderAllocationTable(run)
	fmt.Println()
}
