package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-simulator/src/logger"
	"portfolio-simulator/src/models"
)

func memoryDB(t *testing.T) *SQLiteDB {
	t.Helper()

	cfg := &models.MConfig{
		Storage: models.MStorageConfig{
			DBType:        "sqlite",
			DBPath:        ":memory:",
			RetentionDays: 90,
		},
	}

	db, err := NewSQLiteDB(cfg, logger.NewLogger("ERROR", "test"))
	require.NoError(t, err)
	require.NoError(t, db.Initialize())

	t.Cleanup(func() { db.Close() })
	return db
}

func TestSavePriceBarsRoundTrip(t *testing.T) {
	db := memoryDB(t)

	bars := []models.MPriceBar{
		{Symbol: "AAPL", Timestamp: 1000, Close: 190.5},
		{Symbol: "AAPL", Timestamp: 2000, Close: 191.0},
		{Symbol: "MSFT", Timestamp: 1000, Close: 400.0},
	}
	require.NoError(t, db.SavePriceBars(bars))

	loaded, err := db.LoadPriceBars("AAPL", 0, 3000)
	require.NoError(t, err)
	assert.Len(t, loaded, 2)
	assert.EqualValues(t, 1000, loaded[0].Timestamp)
	assert.InDelta(t, 190.5, loaded[0].Close, 1e-9)
}

func TestSavePriceBarsUpsert(t *testing.T) {
	db := memoryDB(t)

	require.NoError(t, db.SavePriceBars([]models.MPriceBar{
		{Symbol: "AAPL", Timestamp: 1000, Close: 190.0},
	}))
	require.NoError(t, db.SavePriceBars([]models.MPriceBar{
		{Symbol: "AAPL", Timestamp: 1000, Close: 195.0},
	}))

	loaded, err := db.LoadPriceBars("AAPL", 0, 3000)
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
	assert.InDelta(t, 195.0, loaded[0].Close, 1e-9)
}

func TestLoadPriceBarsRangeFilter(t *testing.T) {
	db := memoryDB(t)

	require.NoError(t, db.SavePriceBars([]models.MPriceBar{
		{Symbol: "AAPL", Timestamp: 1000, Close: 1},
		{Symbol: "AAPL", Timestamp: 2000, Close: 2},
		{Symbol: "AAPL", Timestamp: 3000, Close: 3},
	}))

	loaded, err := db.LoadPriceBars("AAPL", 2000, 3000)
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
	assert.EqualValues(t, 2000, loaded[0].Timestamp)
}

func TestSavePriceBarsEmpty(t *testing.T) {
	db := memoryDB(t)
	assert.NoError(t, db.SavePriceBars(nil))
}

func sampleRun(id string, createdAt time.Time) *models.MAnalysisResult {
	return &models.MAnalysisResult{
		ID:      id,
		Symbols: []string{"AAPL", "MSFT"},
		Request: models.MAnalysisRequest{
			Tickers:     []string{"AAPL", "MSFT"},
			Investments: map[string]float64{"AAPL": 1000, "MSFT": 2000},
			Simulations: 1000,
			HorizonDays: 252,
		},
		Backtest: models.MBacktestResult{
			TotalInvestment: 3000,
			FinalValue:      3500,
			TotalReturnPct:  16.67,
			Weights:         []float64{1.0 / 3, 2.0 / 3},
		},
		MonteCarlo: models.MMonteCarloResult{
			Simulations: 1000,
			HorizonDays: 252,
			Expected:    3700,
		},
		Optimization: models.MOptimizationResult{
			MaxSharpe: models.MFrontierPoint{Sharpe: 1.42, Weights: []float64{0.6, 0.4}},
		},
		ImprovementPct: 12.5,
		CreatedAt:      createdAt,
	}
}

func TestAnalysisRunRoundTrip(t *testing.T) {
	db := memoryDB(t)

	run := sampleRun("run-1", time.Now().UTC())
	require.NoError(t, db.SaveAnalysisRun(run))

	loaded, err := db.GetAnalysisRun("run-1")
	require.NoError(t, err)
	assert.Equal(t, run.ID, loaded.ID)
	assert.Equal(t, run.Symbols, loaded.Symbols)
	assert.InDelta(t, run.Backtest.FinalValue, loaded.Backtest.FinalValue, 1e-9)
	assert.InDelta(t, run.Optimization.MaxSharpe.Sharpe, loaded.Optimization.MaxSharpe.Sharpe, 1e-9)
	assert.InDelta(t, 1000, loaded.Request.Investments["AAPL"], 1e-9)
}

func TestGetAnalysisRunNotFound(t *testing.T) {
	db := memoryDB(t)

	_, err := db.GetAnalysisRun("missing")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestListAnalysisRunsNewestFirst(t *testing.T) {
	db := memoryDB(t)

	base := time.Now().UTC()
	require.NoError(t, db.SaveAnalysisRun(sampleRun("old", base.Add(-2*time.Hour))))
	require.NoError(t, db.SaveAnalysisRun(sampleRun("mid", base.Add(-1*time.Hour))))
	require.NoError(t, db.SaveAnalysisRun(sampleRun("new", base)))

	summaries, err := db.ListAnalysisRuns(2)
	require.NoError(t, err)
	assert.Len(t, summaries, 2)
	assert.Equal(t, "new", summaries[0].ID)
	assert.Equal(t, "mid", summaries[1].ID)
	assert.Equal(t, []string{"AAPL", "MSFT"}, summaries[0].Symbols)
}

func TestCleanupOldDataDropsExpiredRuns(t *testing.T) {
	db := memoryDB(t)

	require.NoError(t, db.SaveAnalysisRun(sampleRun("ancient", time.Now().UTC().AddDate(0, 0, -365))))
	require.NoError(t, db.SaveAnalysisRun(sampleRun("fresh", time.Now().UTC())))

	require.NoError(t, db.CleanupOldData())

	summaries, err := db.ListAnalysisRuns(10)
	require.NoError(t, err)
	assert.Len(t, summaries, 1)
	assert.Equal(t, "fresh", summaries[0].ID)
}
