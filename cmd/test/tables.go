package main

import (
	"fmt"
	"os"

	"portfolio-simulator/src/models"

	"github.com/olekukonko/tablewriter"
)

// -----------------------------------------------------------------------------
// Result rendering
// -----------------------------------------------------------------------------

func renderSummaryTable(run *models.MAnalysisResult) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Metric", "Value"})
	table.SetBorder(false)

	table.Append([]string{"Total Investment", money(run.Backtest.TotalInvestment)})
	table.Append([]string{"Final Value (backtest)", money(run.Backtest.FinalValue)})
	table.Append([]string{"Total Return", fmt.Sprintf("%.2f%%", run.Backtest.TotalReturnPct)})
	table.Append([]string{"MC Expected Value", money(run.MonteCarlo.Expected)})
	table.Append([]string{"MC 5th Percentile", money(run.MonteCarlo.Percentile5)})
	table.Append([]string{"MC 95th Percentile", money(run.MonteCarlo.Percentile95)})
	table.Append([]string{"Current Sharpe", fmt.Sprintf("%.3f", run.Current.Sharpe)})
	table.Append([]string{"Optimal Sharpe", fmt.Sprintf("%.3f", run.Optimization.MaxSharpe.Sharpe)})
	table.Append([]string{"Improvement", fmt.Sprintf("%.1f%%", run.ImprovementPct)})

	table.Render()
}

// -----------------------------------------------------------------------------

func renderAllocationTable(run *models.MAnalysisResult) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Symbol", "Current Weight", "Optimal Weight"})
	table.SetBorder(false)

	for j, sym := range run.Symbols {
		current, optimal := 0.0, 0.0
		if j < len(run.Backtest.Weights) {
			current = run.Backtest.Weights[j]
		}
		if j < len(run.Optimization.MaxSharpe.Weights) {
			optimal = run.Optimization.MaxSharpe.Weights[j]
		}
		table.Append([]string{
			sym,
			fmt.Sprintf("%.2f%%", current*100),
			fmt.Sprintf("%.2f%%", optimal*100),
		})
	}

	table.Render()
}

// -----------------------------------------------------------------------------

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}
