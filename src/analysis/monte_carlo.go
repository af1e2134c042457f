package analysis

import (
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"portfolio-simulator/src/analysis/core"
	"portfolio-simulator/src/logger"
	"portfolio-simulator/src/models"
)

// -----------------------------------------------------------------------------
// MonteCarloEngine projects portfolio end values by bootstrapping whole
// historical return rows. Sampling full rows keeps cross-asset
// correlation intact.
// -----------------------------------------------------------------------------

type MonteCarloEngine struct {
	Workers int
	Seed    int64 // 0 means time-based
	Logger  *logger.Logger
}

// -----------------------------------------------------------------------------

func NewMonteCarloEngine(workers int, seed int64, log *logger.Logger) *MonteCarloEngine {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &MonteCarloEngine{
		Workers: workers,
		Seed:    seed,
		Logger:  log,
	}
}

// -----------------------------------------------------------------------------

// Run simulates `simulations` price walks of `days` steps each.
// investments is ordered like prices.Symbols. progress (optional) is
// invoked with completed/total counts; it may be called concurrently.
func (m *MonteCarloEngine) Run(
	prices *models.MPriceMatrix,
	returns *models.MReturnMatrix,
	investments []float64,
	simulations, days int,
	progress func(done, total int),
) models.MMonteCarloResult {

	result := models.MMonteCarloResult{
		Simulations: simulations,
		HorizonDays: days,
	}

	if len(prices.Prices) == 0 || len(returns.Returns) == 0 || simulations <= 0 || days <= 0 {
		return result
	}

	lastPrices := prices.Prices[len(prices.Prices)-1]

	// Initial shares for each symbol (guard division by zero)
	shares := make([]float64, len(lastPrices))
	for j, p := range lastPrices {
		if p > 0 {
			shares[j] = investments[j] / p
		}
	}

	baseSeed := m.Seed
	if baseSeed == 0 {
		baseSeed = time.Now().UnixNano()
	}

	endValues := make([]float64, simulations)
	historyRows := len(returns.Returns)

	var done int64
	reportEvery := simulations / 10
	if reportEvery == 0 {
		reportEvery = 1
	}

	var wg sync.WaitGroup
	workers := m.Workers
	if workers > simulations {
		workers = simulations
	}

	// Split simulations into contiguous chunks; each worker writes its
	// own segment of endValues so no mutex is needed.
	chunk := (simulations + workers - 1) / workers

	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > simulations {
			end = simulations
		}
		if start >= end {
			break
		}

		wg.Add(1)
		go func(workerID, start, end int) {
			defer wg.Done()

			rng := rand.New(rand.NewSource(baseSeed + int64(workerID)))
			simPrices := make([]float64, len(lastPrices))

			for s := start; s < end; s++ {
				copy(simPrices, lastPrices)

				for d := 0; d < days; d++ {
					row := returns.Returns[rng.Intn(historyRows)]
					for j := range simPrices {
						simPrices[j] *= 1 + row[j]
					}
				}

				total := 0.0
				for j := range simPrices {
					total += simPrices[j] * shares[j]
				}
				endValues[s] = total

				n := atomic.AddInt64(&done, 1)
				if progress != nil && n%int64(reportEvery) == 0 {
					progress(int(n), simulations)
				}
			}
		}(w, start, end)
	}

	wg.Wait()

	result.EndValues = endValues
	result.Expected, result.Median, result.Percentile5, result.Percentile95 = core.DistributionSummary(endValues)

	m.Logger.Debug("Monte Carlo: %d sims x %d days, expected=%.2f", simulations, days, result.Expected)
	return result
}
