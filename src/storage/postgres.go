package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"portfolio-simulator/src/logger"
	"portfolio-simulator/src/models"

	_ "github.com/lib/pq"
)

const pgBatchSize = 1000

// -----------------------------------------------------------------------------

type PostgresDB struct {
	Config *models.MConfig
	DB     *sql.DB
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewPostgresDB(cfg *models.MConfig, log *logger.Logger) (*PostgresDB, error) {
	return &PostgresDB{
		Config: cfg,
		Logger: log,
	}, nil
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) Initialize() error {
	// DATABASE_URL (from the environment / .env) wins over the YAML value
	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		connStr = d.Config.Storage.DBConnectionString
	}
	if connStr == "" {
		return fmt.Errorf("postgres connection string is empty")
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return fmt.Errorf("failed to open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping postgres: %w", err)
	}
	d.DB = db

	return d.createTables()
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) createTables() error {
	query := `
		CREATE TABLE IF NOT EXISTS price_bars (
			symbol TEXT,
			timestamp BIGINT,
			close DOUBLE PRECISION,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			PRIMARY KEY (symbol, timestamp)
		);
	`
	if _, err := d.DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create price_bars: %w", err)
	}

	query = `
		CREATE TABLE IF NOT EXISTS analysis_runs (
			id TEXT PRIMARY KEY,
			created_at TIMESTAMPTZ,
			symbols TEXT,
			total_investment DOUBLE PRECISION,
			final_value DOUBLE PRECISION,
			expected_value DOUBLE PRECISION,
			max_sharpe DOUBLE PRECISION,
			request_json JSONB,
			result_json JSONB
		);
	`
	if _, err := d.DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create analysis_runs: %w", err)
	}

	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) SavePriceBars(bars []models.MPriceBar) error {
	if len(bars) == 0 {
		return nil
	}

	tx, err := d.DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for start := 0; start < len(bars); start += pgBatchSize {
		end := start + pgBatchSize
		if end > len(bars) {
			end = len(bars)
		}
		chunk := bars[start:end]

		placeholders := make([]string, 0, len(chunk))
		args := make([]interface{}, 0, len(chunk)*3)
		for i, b := range chunk {
			base := i * 3
			placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d)", base+1, base+2, base+3))
			args = append(args, b.Symbol, b.Timestamp, b.Close)
		}

		query := fmt.Sprintf(`
			INSERT INTO price_bars (symbol, timestamp, close) VALUES %s
			ON CONFLICT (symbol, timestamp) DO UPDATE
			SET close = EXCLUDED.close, created_at = NOW()`,
			strings.Join(placeholders, ", "),
		)

		if _, err := tx.Exec(query, args...); err != nil {
			return fmt.Errorf("failed to insert price bars: %w", err)
		}
	}

	return tx.Commit()
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) LoadPriceBars(symbol string, from, to int64) ([]models.MPriceBar, error) {
	rows, err := d.DB.Query(
		"SELECT symbol, timestamp, close FROM price_bars WHERE symbol = $1 AND timestamp >= $2 AND timestamp < $3 ORDER BY timestamp ASC",
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

func (d *PostgresDB) SaveAnalysisRun(run *models.MAnalysisResult) error {
	reqJSON, err := json.Marshal(run.Request)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	resJSON, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	_, err = d.DB.Exec(`
		INSERT INTO analysis_runs
		(id, created_at, symbols, total_investment, final_value, expected_value, max_sharpe, request_json, result_json)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING`,
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

func (d *PostgresDB) GetAnalysisRun(id string) (*models.MAnalysisResult, error) {
	var resJSON string
	err := d.DB.QueryRow("SELECT result_json FROM analysis_runs WHERE id = $1", id).Scan(&resJSON)
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

func (d *PostgresDB) ListAnalysisRuns(limit int) ([]models.MRunSummary, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := d.DB.Query(`
		SELECT id, created_at, symbols, total_investment, final_value, expected_value, max_sharpe
		FROM analysis_runs ORDER BY created_at DESC LIMIT $1`, limit)
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

func (d *PostgresDB) CleanupOldData() error {
	retention := time.Duration(d.Config.Storage.RetentionDays) * 24 * time.Hour
	cutoff := time.Now().Add(-retention)

	if _, err := d.DB.Exec("DELETE FROM price_bars WHERE created_at < $1", cutoff); err != nil {
		return fmt.Errorf("failed to cleanup price bars: %w", err)
	}
	if _, err := d.DB.Exec("DELETE FROM analysis_runs WHERE created_at < $1", cutoff); err != nil {
		return fmt.Errorf("failed to cleanup analysis runs: %w", err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
