package analysis

import (
	"math/rand"
	"time"

	"portfolio-simulator/src/analysis/core"
	"portfolio-simulator/src/logger"
	"portfolio-simulator/src/models"
)

// -----------------------------------------------------------------------------
// FrontierOptimizer runs a random search over portfolio weights and
// keeps the candidate with the best Sharpe ratio.
// -----------------------------------------------------------------------------

type FrontierOptimizer struct {
	Seed   int64 // 0 means time-based
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewFrontierOptimizer(seed int64, log *logger.Logger) *FrontierOptimizer {
	return &FrontierOptimizer{Seed: seed, Logger: log}
}

// -----------------------------------------------------------------------------

// Run samples `candidates` random weight vectors and evaluates each one
// against the historical return distribution.
func (o *FrontierOptimizer) Run(returns *models.MReturnMatrix, candidates int) models.MOptimizationResult {
	result := models.MOptimizationResult{Candidates: candidates}

	numSymbols := len(returns.Symbols)
	if numSymbols == 0 || len(returns.Returns) == 0 || candidates <= 0 {
		return result
	}

	means := core.MeanReturns(returns.Returns)
	cov := core.CovarianceMatrix(returns.Returns)

	seed := o.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	cloud := make([]models.MFrontierPoint, 0, candidates)
	best := -1

	for i := 0; i < candidates; i++ {
		weights := randomWeights(rng, numSymbols)

		annReturn := core.AnnualizedReturn(weights, means)
		annRisk := core.AnnualizedRisk(weights, cov)
		sharpe := core.SharpeRatio(annReturn, annRisk)

		cloud = append(cloud, models.MFrontierPoint{
			Return:  annReturn,
			Risk:    annRisk,
			Sharpe:  sharpe,
			Weights: weights,
		})

		if best < 0 || sharpe > cloud[best].Sharpe {
			best = i
		}
	}

	result.Cloud = cloud
	result.MaxSharpe = cloud[best]

	o.Logger.Debug("Frontier search: %d candidates, max sharpe=%.3f", candidates, result.MaxSharpe.Sharpe)
	return result
}

// -----------------------------------------------------------------------------

// randomWeights draws uniform weights normalized to sum 1.
func randomWeights(rng *rand.Rand, n int) []float64 {
	weights := make([]float64, n)
	sum := 0.0
	for i := range weights {
		weights[i] = rng.Float64()
		sum += weights[i]
	}

	if sum == 0 {
		equal := 1.0 / float64(n)
		for i := range weights {
			weights[i] = equal
		}
		return weights
	}

	for i := range weights {
		weights[i] /= sum
	}
	return weights
}
