package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"portfolio-simulator/src/logger"
	"portfolio-simulator/src/models"

	_ "modernc.org/sqlite"
)

// SQLite batch constants
const (
	sqliteMaxVars   = 32000
	paramsPerBar    = 3
	sqliteBatchSize = sqliteMaxVars / paramsPerBar
)

// -----------------------------------------------------------------------------

type SQLiteDB struct {
	Config *models.MConfig
	DB     *sql.DB
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewSQLiteDB(cfg *models.MConfig, log *logger.Logger) (*SQLiteDB, error) {
	return &SQLiteDB{
		Config: cfg,
		Logger: log,
	}, nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteDB) Initialize() error {
	dsn := d.Config.Storage.DBPath

	// Open DB
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return err
	}

	if err := db.Ping(); err != nil {
		return err
	}

	d.DB = db

	// PRAGMA optimizations
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		d.Logger.Warning("Failed to set WAL mode: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL;"); err != nil {
		d.Logger.Warning("Failed to set synchronous mode: %v", err)
	}

	return d.createTables()
}

// -----------------------------------------------------------------------------

func (d *SQLiteDB) createTables() error {
	// price_bars persists across restarts: it is the fetch fallback.
	// SQLite types: INTEGER for int64, REAL for float64, TEXT for string
	query := `
		CREATE TABLE IF NOT EXISTS price_bars (
			symbol TEXT,
			timestamp INTEGER,
			close REAL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (symbol, timestamp)
		);
	`
	if _, err := d.DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create price_bars: %w", err)
	}

	query = `
		CREATE TABLE IF NOT EXISTS analysis_runs (
			id TEXT PRIMARY KEY,
			created_at TIMESTAMP,
			symbols TEXT,
			total_investment REAL,
			final_value REAL,
			expected_value REAL,
			max_sharpe REAL,
			request_json TEXT,
			result_json TEXT
		);
	`
	if _, err := d.DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create analysis_runs: %w", err)
	}

	return nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteDB) SavePriceBars(bars []models.MPriceBar) error {
	if len(bars) == 0 {
		return nil
	}

	tx, err := d.DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Chunk inserts under the SQLite variable limit
	for start := 0; start < len(bars); start += sqliteBatchSize {
		end := start + sqliteBatchSize
		if end > len(bars) {
			end = len(bars)
		}
		chunk := bars[start:end]

		placeholders := make([]string, 0, len(chunk))
		args := make([]interface{}, 0, len(chunk)*paramsPerBar)
		for _, b := range chunk {
			placeholders = append(placeholders, "(?, ?, ?)")
			args = append(args, b.Symbol, b.Timestamp, b.Close)
		}

		query := fmt.Sprintf(
			"INSERT OR REPLACE INTO price_bars (symbol, timestamp, close) VALUES %s",
			strings.Join(placeholders, ", "),
		)

		if _, err := tx.Exec(query, args...); err != nil {
			return fmt.Errorf("failed to insert price bars: %w", err)
		}
	}

	return tx.Commit()
}

// -----------------------------------------------------------------------------

func (d *SQLiteDB) LoadPriceBars(symbol string, from, to int64) ([]models.MPriceBar, error) {
	rows, err := d.DB.Query(
		"SELECT symbol, timestamp, close FROM price_bars WHERE symbol = ? AND timestamp >= ? AND timestamp < ? ORDER BY timestamp ASC",
		symbol, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query price bars: %w", err)
	}
	defer rows.Close()

	var bars []models.MPriceBar
	for rows.Next() {
		var b models.MPriceBar
		if err := rows.Scan(&b.Symbol, &b.Timestamp, &b.Close); err != nil {
			return nil, fmt.Errorf("failed to scan price bar: %w", err)
		}
		bars = append(bars, b)
	}
	return bars, rows.Err()
}

// -----------------------------------------------------------------------------

func (d *SQLiteDB) SaveAnalysisRun(run *models.MAnalysisResult) error {
	reqJSON, err := json.Marshal(run.Request)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	resJSON, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	_, err = d.DB.Exec(`
		INSERT OR REPLACE INTO analysis_runs
		(id, created_at, symbols, total_investment, final_value, expected_value, max_sharpe, request_json, result_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.CreatedAt,
		strings.Join(run.Symbols, ","),
		run.Backtest.TotalInvestment,
		run.Backtest.FinalValue,
		run.MonteCarlo.Expected,
		run.Optimization.MaxSharpe.Sharpe,
		string(reqJSON),
		string(resJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to insert analysis run: %w", err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteDB) GetAnalysisRun(id string) (*models.MAnalysisResult, error) {
	var resJSON string
	err := d.DB.QueryRow("SELECT result_json FROM analysis_runs WHERE id = ?", id).Scan(&resJSON)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}

	var run models.MAnalysisResult
	if err := json.Unmarshal([]byte(resJSON), &run); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run: %w", err)
	}
	return &run, nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteDB) ListAnalysisRuns(limit int) ([]models.MRunSummary, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := d.DB.Query(`
		SELECT id, created_at, symbols, total_investment, final_value, expected_value, max_sharpe
		FROM analysis_runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var summaries []models.MRunSummary
	for rows.Next() {
		var s models.MRunSummary
		var symbols string
		if err := rows.Scan(&s.ID, &s.CreatedAt, &symbols, &s.TotalInvestment, &s.FinalValue, &s.ExpectedValue, &s.MaxSharpe); err != nil {
			return nil, fmt.Errorf("failed to scan run summary: %w", err)
		}
		if symbols != "" {
			s.Symbols = strings.Split(symbols, ",")
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// -----------------------------------------------------------------------------

func (d *SQLiteDB) CleanupOldData() error {
	retention := time.Duration(d.Config.Storage.RetentionDays) * 24 * time.Hour
	cutoff := time.Now().Add(-retention)

	// Bars age by fetch time, not trading day: a two year lookback stays
	// available as long as it was fetched recently.
	if _, err := d.DB.Exec("DELETE FROM price_bars WHERE created_at < ?", cutoff); err != nil {
		return fmt.Errorf("failed to cleanup price bars: %w", err)
	}
	if _, err := d.DB.Exec("DELETE FROM analysis_runs WHERE created_at < ?", cutoff); err != nil {
		return fmt.Errorf("failed to cleanup analysis runs: %w", err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteDB) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
