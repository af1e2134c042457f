package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"portfolio-simulator/src/analysis"
	"portfolio-simulator/src/config"
	datasource "portfolio-simulator/src/data_source"
	"portfolio-simulator/src/data_source/yahoo"
	"portfolio-simulator/src/helpers"
	"portfolio-simulator/src/interfaces"
	"portfolio-simulator/src/logger"
	"portfolio-simulator/src/network"
	"portfolio-simulator/src/server"
	"portfolio-simulator/src/storage"
	"portfolio-simulator/src/utils"

	"github.com/joho/godotenv"
)

// -----------------------------------------------------------------------------

func main() {

	// Optional .env for secrets (DATABASE_URL etc.); missing file is fine
	_ = godotenv.Load()

	// Parse command line flags
	configPath := flag.String("config", "../../config/default.yaml", "path to config file")
	flag.Parse()

	// Load config from YAML file
	conf, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	appLogger := logger.NewLogger(conf.LogLevel, conf.Name)

	// 1. Storage
	var db interfaces.IDatabase

	switch conf.Storage.DBType {
	case "postgres":
		db, err = storage.NewPostgresDB(conf.MConfig, appLogger)
	default:
		// Default to SQLite
		db, err = storage.NewSQLiteDB(conf.MConfig, appLogger)
	}

	if err != nil {
		appLogger.Critical("Failed to init db: %v", err)
	}
	if err := db.Initialize(); err != nil {
		appLogger.Critical("Failed to migrate db: %v", err)
	}

	// 2. Network + data source
	var networkManager interfaces.INetworkManager = network.NewNetworkManager(conf.MConfig, appLogger)
	var source interfaces.IDataSource = yahoo.NewYahooFinanceSource(conf.MConfig, networkManager)

	// 3. History cache sized from system memory
	memLimit := helpers.GetRecommendedMemoryLimit()
	appLogger.Info("Memory limit set to: %d MB", memLimit)
	maxBars := utils.CalculateMaxBars(conf.DataSource.LookbackDays)
	cache := utils.NewHistoryCache(memLimit, maxBars, conf.DataSource.CacheMaxSymbols)

	// 4. History service + analysis pipeline
	history := datasource.NewHistoryService(conf.MConfig, source, db, cache, appLogger)
	analyzer := analysis.NewAnalysisFacade(conf.MConfig, appLogger)

	// 5. HTTP/WebSocket surface
	var srv interfaces.IDataExchanger = server.NewDashboardServer(conf.MConfig, appLogger, history, db, analyzer)

	go func() {
		if err := srv.Start(); err != nil {
			appLogger.Critical("Server failed: %v", err)
		}
	}()

	appLogger.Info("%s ready on %s:%d", conf.Name, conf.Host, conf.Port)

	// 6. Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down...")
	if err := srv.Stop(); err != nil {
		appLogger.Warning("Server stop: %v", err)
	}
	if err := db.Close(); err != nil {
		appLogger.Warning("DB close: %v", err)
	}
}
