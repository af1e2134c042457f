package analysis

import (
	"portfolio-simulator/src/analysis/core"
	"portfolio-simulator/src/logger"
	"portfolio-simulator/src/models"
)

// -----------------------------------------------------------------------------
// Backtester replays historical returns against the user's allocation.
// -----------------------------------------------------------------------------

type Backtester struct {
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewBacktester(log *logger.Logger) *Backtester {
	return &Backtester{Logger: log}
}

// -----------------------------------------------------------------------------

// Run computes the portfolio value series for the investment amounts.
// investments is ordered like returns.Symbols.
func (b *Backtester) Run(returns *models.MReturnMatrix, investments []float64) models.MBacktestResult {
	totalInvestment := 0.0
	for _, v := range investments {
		totalInvestment += v
	}

	weights := core.NormalizeInvestments(investments)

	result := models.MBacktestResult{
		TotalInvestment: totalInvestment,
		FinalValue:      totalInvestment,
		Weights:         weights,
	}

	if len(returns.Returns) == 0 {
		return result
	}

	growth := core.CumulativeGrowth(returns.Returns)

	values := make([]float64, len(growth))
	for t := range growth {
		v := 0.0
		for j := range weights {
			v += weights[j] * growth[t][j]
		}
		values[t] = v * totalInvestment
	}

	result.Dates = returns.Dates
	result.Values = values
	result.FinalValue = values[len(values)-1]
	if totalInvestment > 0 {
		result.TotalReturnPct = (result.FinalValue - totalInvestment) / totalInvestment * 100
	}

	b.Logger.Debug("Backtest over %d days: %.2f -> %.2f", len(values), totalInvestment, result.FinalValue)
	return result
}
