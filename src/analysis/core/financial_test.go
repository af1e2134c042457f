package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"portfolio-simulator/src/utils"
)

func TestDailyReturns(t *testing.T) {
	prices := [][]float64{
		{100, 50},
		{110, 45},
		{99, 54},
	}

	returns := DailyReturns(prices)

	assert.Len(t, returns, 2)
	assert.InDelta(t, 0.10, returns[0][0], 1e-9)
	assert.InDelta(t, -0.10, returns[0][1], 1e-9)
	assert.InDelta(t, -0.10, returns[1][0], 1e-9)
	assert.InDelta(t, 0.20, returns[1][1], 1e-9)
}

func TestDailyReturnsTooShort(t *testing.T) {
	assert.Empty(t, DailyReturns([][]float64{{100, 50}}))
	assert.Empty(t, DailyReturns(nil))
}

func TestNormalizeInvestments(t *testing.T) {
	weights := NormalizeInvestments([]float64{1000, 3000})
	assert.InDelta(t, 0.25, weights[0], 1e-9)
	assert.InDelta(t, 0.75, weights[1], 1e-9)
}

func TestNormalizeInvestmentsAllZero(t *testing.T) {
	// Zero total falls back to equal weights
	weights := NormalizeInvestments([]float64{0, 0, 0})
	for _, w := range weights {
		assert.InDelta(t, 1.0/3.0, w, 1e-9)
	}
}

func TestNormalizeInvestmentsEmpty(t *testing.T) {
	assert.Nil(t, NormalizeInvestments(nil))
}

func TestAnnualizedReturn(t *testing.T) {
	// 50/50 of 0.1% and 0.2% daily mean
	ret := AnnualizedReturn([]float64{0.5, 0.5}, []float64{0.001, 0.002})
	assert.InDelta(t, 0.0015*utils.AnnualTradingDays, ret, 1e-9)
}

func TestAnnualizedRiskSingleAsset(t *testing.T) {
	// One asset with daily variance 0.0004 -> daily std 0.02
	cov := [][]float64{{0.0004}}
	risk := AnnualizedRisk([]float64{1.0}, cov)
	assert.InDelta(t, 0.02*math.Sqrt(utils.AnnualTradingDays), risk, 1e-9)
}

func TestSharpeRatio(t *testing.T) {
	assert.InDelta(t, 2.0, SharpeRatio(0.30, 0.15), 1e-9)
	assert.Equal(t, 0.0, SharpeRatio(0.30, 0.0))
	assert.Equal(t, 0.0, SharpeRatio(0.30, -0.1))
}

func TestCumulativeGrowth(t *testing.T) {
	returns := [][]float64{
		{0.10, -0.50},
		{0.10, 1.00},
	}

	growth := CumulativeGrowth(returns)

	assert.Len(t, growth, 2)
	assert.InDelta(t, 1.10, growth[0][0], 1e-9)
	assert.InDelta(t, 0.50, growth[0][1], 1e-9)
	assert.InDelta(t, 1.21, growth[1][0], 1e-9)
	assert.InDelta(t, 1.00, growth[1][1], 1e-9)
}
