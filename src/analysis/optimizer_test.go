package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"portfolio-simulator/src/models"
)

func TestFrontierOptimizerWeightsSumToOne(t *testing.T) {
	opt := NewFrontierOptimizer(11, testLogger())

	returns := &models.MReturnMatrix{
		Symbols: []string{"AAA", "BBB", "CCC"},
		Returns: [][]float64{
			{0.01, -0.01, 0.005},
			{0.02, 0.01, -0.003},
			{-0.01, 0.02, 0.001},
		},
	}

	result := opt.Run(returns, 200)

	assert.Len(t, result.Cloud, 200)
	for _, point := range result.Cloud {
		sum := 0.0
		for _, w := range point.Weights {
			sum += w
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	}
}

func TestFrontierOptimizerFavorsDominantAsset(t *testing.T) {
	opt := NewFrontierOptimizer(7, testLogger())

	// AAA gains steadily with low variance, BBB loses with high variance
	returns := &models.MReturnMatrix{
		Symbols: []string{"AAA", "BBB"},
		Returns: [][]float64{
			{0.010, -0.030},
			{0.011, 0.010},
			{0.009, -0.040},
			{0.010, 0.005},
			{0.012, -0.020},
		},
	}

	result := opt.Run(returns, 2000)

	best := result.MaxSharpe
	assert.Greater(t, best.Weights[0], best.Weights[1])
	assert.Greater(t, best.Sharpe, 0.0)

	// MaxSharpe really is the cloud maximum
	for _, point := range result.Cloud {
		assert.LessOrEqual(t, point.Sharpe, best.Sharpe)
	}
}

func TestFrontierOptimizerSeedReproducible(t *testing.T) {
	returns := &models.MReturnMatrix{
		Symbols: []string{"AAA", "BBB"},
		Returns: [][]float64{
			{0.01, 0.02},
			{-0.01, 0.01},
			{0.02, -0.02},
		},
	}

	first := NewFrontierOptimizer(99, testLogger()).Run(returns, 300)
	second := NewFrontierOptimizer(99, testLogger()).Run(returns, 300)

	assert.Equal(t, first.MaxSharpe, second.MaxSharpe)
	assert.Equal(t, first.Cloud, second.Cloud)
}

func TestFrontierOptimizerEmptyInputs(t *testing.T) {
	opt := NewFrontierOptimizer(1, testLogger())

	result := opt.Run(&models.MReturnMatrix{}, 100)

	assert.Empty(t, result.Cloud)
	assert.Zero(t, result.MaxSharpe.Sharpe)
}
