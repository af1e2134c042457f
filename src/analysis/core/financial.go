package core

import (
	"math"

	"portfolio-simulator/src/utils"
)

// -----------------------------------------------------------------------------

// DailyReturns computes simple returns row-by-row from an aligned price
// matrix (rows = days, cols = symbols). The first day carries no return,
// so the result has one row less than the input.
func DailyReturns(prices [][]float64) [][]float64 {
	if len(prices) < 2 {
		return [][]float64{}
	}

	returns := make([][]float64, len(prices)-1)
	for t := 1; t < len(prices); t++ {
		row := make([]float64, len(prices[t]))
		for j := range prices[t] {
			prev := prices[t-1][j]
			if prev != 0 {
				row[j] = prices[t][j]/prev - 1
			}
		}
		returns[t-1] = row
	}
	return returns
}

// -----------------------------------------------------------------------------

// NormalizeInvestments converts per-symbol amounts into portfolio weights.
// When everything is zero the portfolio falls back to equal weights.
func NormalizeInvestments(investments []float64) []float64 {
	if len(investments) == 0 {
		return nil
	}

	total := 0.0
	for _, v := range investments {
		total += v
	}

	weights := make([]float64, len(investments))
	if total > 0 {
		for i, v := range investments {
			weights[i] = v / total
		}
	} else {
		equal := 1.0 / float64(len(investments))
		for i := range weights {
			weights[i] = equal
		}
	}
	return weights
}

// -----------------------------------------------------------------------------

// AnnualizedReturn is the weighted mean daily return scaled to a trading year.
func AnnualizedReturn(weights, meanReturns []float64) float64 {
	sum := 0.0
	for i := range weights {
		sum += weights[i] * meanReturns[i]
	}
	return sum * utils.AnnualTradingDays
}

// -----------------------------------------------------------------------------

// AnnualizedRisk is sqrt(w' Σ w) scaled by sqrt of a trading year.
func AnnualizedRisk(weights []float64, cov [][]float64) float64 {
	variance := 0.0
	for i := range weights {
		for j := range weights {
			variance += weights[i] * cov[i][j] * weights[j]
		}
	}
	if variance < 0 {
		variance = 0 // Guard against negative rounding noise
	}
	return math.Sqrt(variance) * math.Sqrt(utils.AnnualTradingDays)
}

// -----------------------------------------------------------------------------

// SharpeRatio is return over risk, 0 when risk is not positive.
func SharpeRatio(annReturn, annRisk float64) float64 {
	if annRisk <= 0 {
		return 0
	}
	return annReturn / annRisk
}

// -----------------------------------------------------------------------------

// CumulativeGrowth turns a return series into growth factors:
// g[t] = Π_{s<=t} (1 + r[s]) per column.
func CumulativeGrowth(returns [][]float64) [][]float64 {
	if len(returns) == 0 {
		return [][]float64{}
	}

	cols := len(returns[0])
	growth := make([][]float64, len(returns))
	prev := make([]float64, cols)
	for j := range prev {
		prev[j] = 1.0
	}

	for t := range returns {
		row := make([]float64, cols)
		for j := range returns[t] {
			row[j] = prev[j] * (1 + returns[t][j])
		}
		growth[t] = row
		prev = row
	}
	return growth
}
