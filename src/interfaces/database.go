package interfaces

import "portfolio-simulator/src/models"

// -----------------------------------------------------------------------------
// IDatabase defines the contract for storage operations.
// -----------------------------------------------------------------------------

type IDatabase interface {

	// -----------------------------------------------------------------------------

	// Initialize sets up the database schema and tables.
	Initialize() error

	// -----------------------------------------------------------------------------

	// SavePriceBars upserts a batch of daily bars.
	SavePriceBars(bars []models.MPriceBar) error

	// -----------------------------------------------------------------------------

	// LoadPriceBars returns stored bars for a symbol within [from, to), oldest first.
	LoadPriceBars(symbol string, from, to int64) ([]models.MPriceBar, error)

	// -----------------------------------------------------------------------------

	// SaveAnalysisRun persists a completed run.
	SaveAnalysisRun(run *models.MAnalysisResult) error

	// -----------------------------------------------------------------------------

	// GetAnalysisRun returns a persisted run by id.
	GetAnalysisRun(id string) (*models.MAnalysisResult, error)

	// -----------------------------------------------------------------------------

	// ListAnalysisRuns returns the most recent run summaries, newest first.
	ListAnalysisRuns(limit int) ([]models.MRunSummary, error)

	// -----------------------------------------------------------------------------

	// CleanupOldData removes bars and runs older than the retention policy.
	CleanupOldData() error

	// -----------------------------------------------------------------------------

	// Close the database connection
	Close() error
}
