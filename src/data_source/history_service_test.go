package datasource

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"portfolio-simulator/src/logger"
	"portfolio-simulator/src/models"
	"portfolio-simulator/src/utils"
)

// -----------------------------------------------------------------------------
// Test doubles
// -----------------------------------------------------------------------------

type stubSource struct {
	bars  map[string][]models.MPriceBar
	err   error
	calls int
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) FetchDailyHistory(ctx context.Context, symbols []string, startDate, endDate int64) (map[string][]models.MPriceBar, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	result := make(map[string][]models.MPriceBar)
	for _, sym := range symbols {
		if bars, ok := s.bars[sym]; ok {
			result[sym] = bars
		}
	}
	return result, nil
}

type stubDB struct {
	bars  map[string][]models.MPriceBar
	saved int
}

func newStubDB() *stubDB {
	return &stubDB{bars: make(map[string][]models.MPriceBar)}
}

func (d *stubDB) Initialize() error { return nil }

func (d *stubDB) SavePriceBars(bars []models.MPriceBar) error {
	d.saved += len(bars)
	for _, b := range bars {
		d.bars[b.Symbol] = append(d.bars[b.Symbol], b)
	}
	return nil
}

func (d *stubDB) LoadPriceBars(symbol string, from, to int64) ([]models.MPriceBar, error) {
	var result []models.MPriceBar
	for _, b := range d.bars[symbol] {
		if b.Timestamp >= from && b.Timestamp < to {
			result = append(result, b)
		}
	}
	return result, nil
}

func (d *stubDB) SaveAnalysisRun(run *models.MAnalysisResult) error { return nil }

func (d *stubDB) GetAnalysisRun(id string) (*models.MAnalysisResult, error) { return nil, nil }

func (d *stubDB) ListAnalysisRuns(limit int) ([]models.MRunSummary, error) { return nil, nil }

func (d *stubDB) CleanupOldData() error { return nil }

func (d *stubDB) Close() error { return nil }

// -----------------------------------------------------------------------------

func dailyBars(symbol string, start int64, closes ...float64) []models.MPriceBar {
	bars := make([]models.MPriceBar, len(closes))
	for i, c := range closes {
		bars[i] = models.MPriceBar{
			Symbol:    symbol,
			Timestamp: start + int64(i)*utils.SecondsPerDay,
			Close:     c,
			CreatedAt: time.Now().UTC(),
		}
	}
	return bars
}

func serviceConfig() *models.MConfig {
	return &models.MConfig{
		LogLevel: "ERROR",
		DataSource: models.MDataSourceConfig{
			LookbackDays:    30,
			CacheMaxSymbols: 8,
		},
	}
}

func newTestService(source *stubSource, db *stubDB) *HistoryService {
	cfg := serviceConfig()
	cache := utils.NewHistoryCache(64, utils.CalculateMaxBars(cfg.DataSource.LookbackDays), cfg.DataSource.CacheMaxSymbols)
	return NewHistoryService(cfg, source, db, cache, logger.NewLogger("ERROR", "test"))
}

// -----------------------------------------------------------------------------

func TestGetAlignedHistoryIntersectsDates(t *testing.T) {
	start := int64(1_700_006_400) // day-aligned
	day := int64(utils.SecondsPerDay)

	source := &stubSource{bars: map[string][]models.MPriceBar{
		"AAA": dailyBars("AAA", start, 100, 101, 102, 103),
		// BBB is missing the second day
		"BBB": {
			{Symbol: "BBB", Timestamp: start, Close: 200},
			{Symbol: "BBB", Timestamp: start + 2*day, Close: 204},
			{Symbol: "BBB", Timestamp: start + 3*day, Close: 206},
		},
	}}
	db := newStubDB()
	svc := newTestService(source, db)

	prices, returns, err := svc.GetAlignedHistory(context.Background(), []string{"AAA", "BBB"}, start, start+4*day)

	assert.NoError(t, err)
	assert.Equal(t, []string{"AAA", "BBB"}, prices.Symbols)
	// Only the three common dates survive
	assert.Len(t, prices.Dates, 3)
	assert.Equal(t, []float64{100, 200}, prices.Prices[0])
	assert.Equal(t, []float64{102, 204}, prices.Prices[1])
	assert.Equal(t, []float64{103, 206}, prices.Prices[2])

	assert.Len(t, returns.Returns, 2)
	assert.Equal(t, prices.Dates[1:], returns.Dates)
	assert.InDelta(t, 0.02, returns.Returns[0][0], 1e-9)

	// Fetched bars were persisted for the storage fallback
	assert.Equal(t, 7, db.saved)
}

func TestGetAlignedHistoryCacheHitSkipsProvider(t *testing.T) {
	start := int64(1_700_006_400)
	day := int64(utils.SecondsPerDay)

	source := &stubSource{bars: map[string][]models.MPriceBar{
		"AAA": dailyBars("AAA", start, 100, 101, 102),
	}}
	svc := newTestService(source, newStubDB())

	ctx := context.Background()
	_, _, err := svc.GetAlignedHistory(ctx, []string{"AAA"}, start, start+3*day)
	assert.NoError(t, err)
	assert.Equal(t, 1, source.calls)

	_, _, err = svc.GetAlignedHistory(ctx, []string{"AAA"}, start, start+3*day)
	assert.NoError(t, err)
	assert.Equal(t, 1, source.calls, "second request should be served from cache")
}

func TestGetAlignedHistoryStorageFallback(t *testing.T) {
	start := int64(1_700_006_400)
	day := int64(utils.SecondsPerDay)

	source := &stubSource{err: fmt.Errorf("provider down")}
	db := newStubDB()
	db.bars["AAA"] = dailyBars("AAA", start, 100, 102, 104)
	svc := newTestService(source, db)

	prices, _, err := svc.GetAlignedHistory(context.Background(), []string{"AAA"}, start, start+3*day)

	assert.NoError(t, err)
	assert.Len(t, prices.Dates, 3)
	assert.Equal(t, 1, source.calls)
}

func TestGetAlignedHistoryAllSymbolsFail(t *testing.T) {
	source := &stubSource{err: fmt.Errorf("provider down")}
	svc := newTestService(source, newStubDB())

	_, _, err := svc.GetAlignedHistory(context.Background(), []string{"AAA", "BBB"}, 0, 10*utils.SecondsPerDay)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to download data")
}

func TestGetAlignedHistoryNoOverlap(t *testing.T) {
	start := int64(1_700_006_400)
	day := int64(utils.SecondsPerDay)

	source := &stubSource{bars: map[string][]models.MPriceBar{
		"AAA": dailyBars("AAA", start, 100, 101),
		"BBB": dailyBars("BBB", start+2*day, 200, 201),
	}}
	svc := newTestService(source, newStubDB())

	_, _, err := svc.GetAlignedHistory(context.Background(), []string{"AAA", "BBB"}, start, start+4*day)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no overlapping data")
}

func TestGetAlignedHistoryDropsEmptySymbols(t *testing.T) {
	start := int64(1_700_006_400)
	day := int64(utils.SecondsPerDay)

	source := &stubSource{bars: map[string][]models.MPriceBar{
		"AAA": dailyBars("AAA", start, 100, 101, 102),
	}}
	svc := newTestService(source, newStubDB())

	prices, _, err := svc.GetAlignedHistory(context.Background(), []string{"AAA", "GONE"}, start, start+3*day)

	assert.NoError(t, err)
	assert.Equal(t, []string{"AAA"}, prices.Symbols)
}
