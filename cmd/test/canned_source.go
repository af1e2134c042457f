package main

import (
	"context"
	"math/rand"
	"time"

	"portfolio-simulator/src/models"
	"portfolio-simulator/src/utils"
)

// -----------------------------------------------------------------------------
// cannedSource produces deterministic synthetic daily bars: a geometric
// walk per symbol, weekdays only. Implements interfaces.IDataSource.
// -----------------------------------------------------------------------------

type cannedSource struct {
	seed  int64
	start time.Time
}

// -----------------------------------------------------------------------------

func newCannedSource(seed int64, start time.Time) *cannedSource {
	if seed == 0 {
		seed = 1
	}
	return &cannedSource{seed: seed, start: start}
}

// -----------------------------------------------------------------------------

func (c *cannedSource) Name() string {
	return "canned"
}

// -----------------------------------------------------------------------------

func (c *cannedSource) FetchDailyHistory(ctx context.Context, symbols []string, startDate, endDate int64) (map[string][]models.MPriceBar, error) {
	result := make(map[string][]models.MPriceBar, len(symbols))

	for i, sym := range symbols {
		rng := rand.New(rand.NewSource(c.seed + int64(i)))
		price := 100.0 + float64(i)*50

		var bars []models.MPriceBar
		for ts := startDate; ts < endDate; ts += utils.SecondsPerDay {
			day := time.Unix(ts, 0).UTC()
			if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
				continue
			}

			// Mild drift with daily noise
			price *= 1 + 0.0003 + rng.NormFloat64()*0.015
			bars = append(bars, models.MPriceBar{
				Symbol:    sym,
				Timestamp: ts,
				Close:     price,
				CreatedAt: time.Now().UTC(),
			})
		}
		result[sym] = bars
	}

	return result, nil
}
