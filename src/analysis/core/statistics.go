package core

import (
	"github.com/montanaflynn/stats"
)

// -----------------------------------------------------------------------------

// MeanReturns computes the per-symbol mean of a return matrix.
func MeanReturns(returns [][]float64) []float64 {
	if len(returns) == 0 {
		return nil
	}

	cols := len(returns[0])
	means := make([]float64, cols)
	col := make([]float64, len(returns))

	for j := 0; j < cols; j++ {
		for t := range returns {
			col[t] = returns[t][j]
		}
		m, err := stats.Mean(col)
		if err != nil {
			m = 0
		}
		means[j] = m
	}
	return means
}

// -----------------------------------------------------------------------------

// CovarianceMatrix computes the sample covariance (N-1 denominator) of a
// return matrix. montanaflynn/stats covers scalar series only, so the
// matrix form is done by hand.
func CovarianceMatrix(returns [][]float64) [][]float64 {
	n := len(returns)
	if n == 0 {
		return [][]float64{}
	}
	cols := len(returns[0])

	means := MeanReturns(returns)

	cov := make([][]float64, cols)
	for i := range cov {
		cov[i] = make([]float64, cols)
	}

	if n < 2 {
		return cov
	}

	for i := 0; i < cols; i++ {
		for j := i; j < cols; j++ {
			sum := 0.0
			for t := 0; t < n; t++ {
				sum += (returns[t][i] - means[i]) * (returns[t][j] - means[j])
			}
			c := sum / float64(n-1)
			cov[i][j] = c
			cov[j][i] = c
		}
	}
	return cov
}

// -----------------------------------------------------------------------------

// DistributionSummary reduces simulated end values to the dashboard stats.
func DistributionSummary(values []float64) (expected, median, p5, p95 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}

	expected, _ = stats.Mean(values)
	median, _ = stats.Median(values)
	p5, _ = stats.Percentile(values, 5)
	p95, _ = stats.Percentile(values, 95)
	return expected, median, p5, p95
}
