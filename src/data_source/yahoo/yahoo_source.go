package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"portfolio-simulator/src/interfaces"
	"portfolio-simulator/src/logger"
	"portfolio-simulator/src/models"
)

// -----------------------------------------------------------------------------
// YahooFinanceSource fetches daily adjusted close history from the
// Yahoo Finance v8 chart API.
// -----------------------------------------------------------------------------

type YahooFinanceSource struct {
	Config  *models.MConfig
	Network interfaces.INetworkManager
	Logger  *logger.Logger
}

// -----------------------------------------------------------------------------

func NewYahooFinanceSource(cfg *models.MConfig, netMgr interfaces.INetworkManager) *YahooFinanceSource {
	return &YahooFinanceSource{
		Config:  cfg,
		Network: netMgr,
		Logger:  logger.NewLogger(cfg.LogLevel, "YahooFinanceSource"),
	}
}

// -----------------------------------------------------------------------------

func (s *YahooFinanceSource) Name() string {
	return "yahoo"
}

// -----------------------------------------------------------------------------

// FetchDailyHistory fetches symbols concurrently under a semaphore.
// Symbols that fail are absent from the result; the call errors only
// when every symbol fails.
func (s *YahooFinanceSource) FetchDailyHistory(ctx context.Context, symbols []string, startDate, endDate int64) (map[string][]models.MPriceBar, error) {
	if len(symbols) == 0 {
		return make(map[string][]models.MPriceBar), nil
	}

	results := make(map[string][]models.MPriceBar)
	var mu sync.Mutex
	var wg sync.WaitGroup
	errors := make([]error, 0, len(symbols))
	var errorsMu sync.Mutex

	// Semaphore for concurrency limit
	sem := make(chan struct{}, s.Config.Network.ConcurrentRequests)

	for _, symbol := range symbols {
		wg.Add(1)
		go func(sym string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}
			defer func() { <-sem }()

			// Small delay to avoid rate limiting
			time.Sleep(10 * time.Millisecond)

			bars, err := s.fetchSymbolHistory(sym, startDate, endDate)
			if err != nil {
				s.Logger.Info("Error fetching symbol %s: %v", sym, err)
				errorsMu.Lock()
				errors = append(errors, err)
				errorsMu.Unlock()
				return
			}

			if len(bars) > 0 {
				mu.Lock()
				results[sym] = bars
				mu.Unlock()
			}
		}(symbol)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.Logger.Info("YahooFinance: Fetched %d/%d symbols successfully", len(results), len(symbols))

	// Return errors if all failed, otherwise return results
	if len(results) == 0 && len(errors) > 0 {
		return nil, fmt.Errorf("all fetches failed: %v", errors[0])
	}

	return results, nil
}

// -----------------------------------------------------------------------------

// fetchSymbolHistory fetches and parses one symbol's daily chart.
func (s *YahooFinanceSource) fetchSymbolHistory(symbol string, startDate, endDate int64) ([]models.MPriceBar, error) {
	params := map[string]string{
		"interval": "1d",
		"period1":  strconv.FormatInt(startDate, 10),
		"period2":  strconv.FormatInt(endDate, 10),
		"events":   "div,splits",
	}

	url := fmt.Sprintf("https://query1.finance.yahoo.com/v8/finance/chart/%s", symbol)

	respBytes, err := s.Network.Get(url, params)
	if err != nil {
		return nil, fmt.Errorf("network error for %s: %w", symbol, err)
	}

	return s.parseChartResponse(symbol, respBytes)
}

// -----------------------------------------------------------------------------

type YahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency             string   `json:"currency"`
				Symbol               string   `json:"symbol"`
				ExchangeName         string   `json:"exchangeName"`
				InstrumentType       string   `json:"instrumentType"`
				FirstTradeDate       int64    `json:"firstTradeDate"`
				RegularMarketTime    int64    `json:"regularMarketTime"`
				Timezone             string   `json:"timezone"`
				ExchangeTimezoneName string   `json:"exchangeTimezoneName"`
				RegularMarketPrice   float64  `json:"regularMarketPrice"`
				ChartPreviousClose   float64  `json:"chartPreviousClose"`
				DataGranularity      string   `json:"dataGranularity"`
				Range                string   `json:"range"`
				ValidRanges          []string `json:"validRanges"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					High   []*float64 `json:"high"`   // Use pointers to handle null
					Low    []*float64 `json:"low"`    // Use pointers to handle null
					Open   []*float64 `json:"open"`   // Use pointers to handle null
					Close  []*float64 `json:"close"`  // Use pointers to handle null
					Volume []*float64 `json:"volume"` // Use pointers to handle null
				} `json:"quote"`
				Adjclose []struct {
					Adjclose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// -----------------------------------------------------------------------------

func (s *YahooFinanceSource) parseChartResponse(symbol string, data []byte) ([]models.MPriceBar, error) {
	var resp YahooChartResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("json unmarshal failed: %w", err)
	}

	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s - %s", resp.Chart.Error.Code, resp.Chart.Error.Description)
	}

	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("no result in response for %s", symbol)
	}

	result := resp.Chart.Result[0]
	if len(result.Timestamp) == 0 {
		return nil, fmt.Errorf("no timestamps in response for %s", symbol)
	}

	indicators := result.Indicators.Quote
	if len(indicators) == 0 {
		return nil, fmt.Errorf("no quote data in response for %s", symbol)
	}

	quote := indicators[0]
	if len(result.Timestamp) != len(quote.Close) {
		return nil, fmt.Errorf("data alignment error for %s", symbol)
	}

	// Prefer adjusted close (dividends and splits applied); fall back to
	// the raw close when the adjclose block is absent or misaligned.
	var adjclose []*float64
	if len(result.Indicators.Adjclose) > 0 && len(result.Indicators.Adjclose[0].Adjclose) == len(result.Timestamp) {
		adjclose = result.Indicators.Adjclose[0].Adjclose
	}

	var bars []models.MPriceBar
	now := time.Now().UTC()

	for i := 0; i < len(result.Timestamp); i++ {
		var closePtr *float64
		if adjclose != nil && adjclose[i] != nil {
			closePtr = adjclose[i]
		} else {
			closePtr = quote.Close[i]
		}

		if closePtr == nil {
			s.Logger.Debug("Missing close for %s at index %d", symbol, i)
			continue
		}

		closeVal := *closePtr
		if closeVal <= 0 {
			s.Logger.Debug("Skipping invalid point for %s: close=%f", symbol, closeVal)
			continue
		}

		bars = append(bars, models.MPriceBar{
			Symbol:    symbol,
			Timestamp: result.Timestamp[i],
			Close:     closeVal,
			CreatedAt: now,
		})
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("no valid data points for %s", symbol)
	}

	// Sort by timestamp
	sort.Slice(bars, func(i, j int) bool {
		return bars[i].Timestamp < bars[j].Timestamp
	})

	s.Logger.Info("Fetched %s: %d daily bars [%d -> %d]",
		symbol, len(bars), bars[0].Timestamp, bars[len(bars)-1].Timestamp)

	return bars, nil
}
