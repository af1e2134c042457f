package main

import (
	"context"
	"time"

	"portfolio-simulator/src/analysis"
	"portfolio-simulator/src/config"
	datasource "portfolio-simulator/src/data_source"
	"portfolio-simulator/src/interfaces"
	"portfolio-simulator/src/logger"
	"portfolio-simulator/src/models"
	"portfolio-simulator/src/storage"
	"portfolio-simulator/src/utils"
)

// -----------------------------------------------------------------------------
// Harness environment
// -----------------------------------------------------------------------------

type testEnv struct {
	Ctx       context.Context
	Config    *config.Config
	Logger    *logger.Logger
	DB        interfaces.IDatabase
	History   *datasource.HistoryService
	Analyzer  *analysis.AnalysisFacade
	StartDate int64
	EndDate   int64
}

// -----------------------------------------------------------------------------

func setupEnvironment(seed int64) (*testEnv, error) {
	conf := harnessConfig(seed)
	appLogger := logger.NewLogger(conf.LogLevel, conf.Name)

	// In-memory SQLite keeps the harness self-contained
	db, err := storage.NewSQLiteDB(conf.MConfig, appLogger)
	if err != nil {
		return nil, err
	}
	if err := db.Initialize(); err != nil {
		return nil, err
	}

	end := time.Now().UTC().Truncate(24 * time.Hour)
	start := end.AddDate(0, 0, -conf.DataSource.LookbackDays)

	source := newCannedSource(seed, start)
	cache := utils.NewHistoryCache(512, utils.CalculateMaxBars(conf.DataSource.LookbackDays), conf.DataSource.CacheMaxSymbols)
	history := datasource.NewHistoryService(conf.MConfig, source, db, cache, appLogger)
	analyzer := analysis.NewAnalysisFacade(conf.MConfig, appLogger)

	return &testEnv{
		Ctx:       context.Background(),
		Config:    conf,
		Logger:    appLogger,
		DB:        db,
		History:   history,
		Analyzer:  analyzer,
		StartDate: start.Unix(),
		EndDate:   end.Unix(),
	}, nil
}

// -----------------------------------------------------------------------------

func harnessConfig(seed int64) *config.Config {
	mc := &models.MConfig{
		Name:     "harness",
		Host:     "127.0.0.1",
		Port:     8501,
		LogLevel: "INFO",
		Storage: models.MStorageConfig{
			DBType:        "sqlite",
			DBPath:        ":memory:",
			RetentionDays: 90,
		},
		Network: models.MNetworkConfig{
			RequestTimeout:     15,
			MaxRetries:         1,
			ConcurrentRequests: 4,
		},
		DataSource: models.MDataSourceConfig{
			Provider:        "canned",
			LookbackDays:    365,
			CacheMaxSymbols: 16,
		},
		Analysis: models.MAnalysisConfig{
			Simulations:        models.MBoundedInt{Min: 500, Max: 5000, Default: 1000},
			HorizonDays:        models.MBoundedInt{Min: 30, Max: 504, Default: 252},
			FrontierCandidates: 5000,
			Seed:               seed,
		},
	}
	return &config.Config{MConfig: mc}
}
