package datasource

import (
	"context"
	"fmt"
	"sort"

	"portfolio-simulator/src/analysis/core"
	"portfolio-simulator/src/interfaces"
	"portfolio-simulator/src/logger"
	"portfolio-simulator/src/models"
	"portfolio-simulator/src/utils"
)

// -----------------------------------------------------------------------------
// HistoryService produces aligned price/return matrices for a set of
// symbols: memory cache first, then the provider, then stored bars as
// a fallback when the network fails for individual symbols.
// -----------------------------------------------------------------------------

type HistoryService struct {
	Config *models.MConfig
	Source interfaces.IDataSource
	DB     interfaces.IDatabase
	Cache  *utils.HistoryCache
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewHistoryService(
	cfg *models.MConfig,
	source interfaces.IDataSource,
	db interfaces.IDatabase,
	cache *utils.HistoryCache,
	log *logger.Logger,
) *HistoryService {
	return &HistoryService{
		Config: cfg,
		Source: source,
		DB:     db,
		Cache:  cache,
		Logger: log,
	}
}

// -----------------------------------------------------------------------------

// GetAlignedHistory returns close prices and daily returns for the
// symbols over [startDate, endDate), aligned to the common date index.
func (h *HistoryService) GetAlignedHistory(ctx context.Context, symbols []string, startDate, endDate int64) (*models.MPriceMatrix, *models.MReturnMatrix, error) {
	series := make(map[string][]models.MPriceBar)

	// 1. Memory cache
	var misses []string
	for _, sym := range symbols {
		if bars := h.Cache.Get(sym, startDate, endDate); bars != nil {
			series[sym] = bars
		} else {
			misses = append(misses, sym)
		}
	}
	if len(misses) < len(symbols) {
		h.Logger.Info("History cache hit for %d/%d symbols", len(symbols)-len(misses), len(symbols))
	}

	// 2. Provider fetch for the misses
	if len(misses) > 0 {
		fetched, err := h.Source.FetchDailyHistory(ctx, misses, startDate, endDate)
		if err != nil {
			h.Logger.Warning("Provider fetch failed: %v", err)
		}

		for sym, bars := range fetched {
			series[sym] = bars
			h.Cache.Put(sym, bars)
			if dbErr := h.DB.SavePriceBars(bars); dbErr != nil {
				h.Logger.Warning("Failed to persist bars for %s: %v", sym, dbErr)
			}
		}

		// 3. Storage fallback for symbols the provider could not serve
		for _, sym := range misses {
			if _, ok := series[sym]; ok {
				continue
			}
			stored, dbErr := h.DB.LoadPriceBars(sym, startDate, endDate)
			if dbErr != nil || len(stored) == 0 {
				continue
			}
			h.Logger.Info("Using %d stored bars for %s (provider unavailable)", len(stored), sym)
			series[sym] = stored
		}
	}

	if len(series) == 0 {
		return nil, nil, fmt.Errorf("failed to download data for any of the provided tickers: %v", symbols)
	}

	// Drop symbols that returned nothing, keeping the request order.
	var kept []string
	for _, sym := range symbols {
		if len(series[sym]) > 0 {
			kept = append(kept, sym)
		}
	}

	prices, err := alignSeries(kept, series)
	if err != nil {
		return nil, nil, err
	}

	returns := &models.MReturnMatrix{
		Symbols: prices.Symbols,
		Returns: core.DailyReturns(prices.Prices),
	}
	if len(prices.Dates) > 1 {
		returns.Dates = prices.Dates[1:]
	}

	return prices, returns, nil
}

// -----------------------------------------------------------------------------

// alignSeries intersects the per-symbol series on their trading dates.
// Only dates where every symbol has a close survive.
func alignSeries(symbols []string, series map[string][]models.MPriceBar) (*models.MPriceMatrix, error) {
	bySymbol := make([]map[int64]float64, len(symbols))
	for j, sym := range symbols {
		m := make(map[int64]float64, len(series[sym]))
		for _, b := range series[sym] {
			m[normalizeToDay(b.Timestamp)] = b.Close
		}
		bySymbol[j] = m
	}

	// Intersect dates across all symbols
	var dates []int64
	for d := range bySymbol[0] {
		common := true
		for j := 1; j < len(bySymbol); j++ {
			if _, ok := bySymbol[j][d]; !ok {
				common = false
				break
			}
		}
		if common {
			dates = append(dates, d)
		}
	}

	if len(dates) == 0 {
		return nil, fmt.Errorf("no overlapping data found for the provided tickers and date range")
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i] < dates[j] })

	prices := make([][]float64, len(dates))
	for t, d := range dates {
		row := make([]float64, len(symbols))
		for j := range symbols {
			row[j] = bySymbol[j][d]
		}
		prices[t] = row
	}

	return &models.MPriceMatrix{
		Symbols: symbols,
		Dates:   dates,
		Prices:  prices,
	}, nil
}

// -----------------------------------------------------------------------------

// normalizeToDay collapses intraday provider timestamps onto the UTC day
// boundary so different exchanges align on calendar dates.
func normalizeToDay(ts int64) int64 {
	return ts - ts%utils.SecondsPerDay
}
