package interfaces

import (
	"context"

	"portfolio-simulator/src/models"
)

// -----------------------------------------------------------------------------
// IDataSource interface for fetching historical prices from external providers.
// -----------------------------------------------------------------------------

type IDataSource interface {

	// Name returns the unique identifier of the source
	Name() string

	// -----------------------------------------------------------------------------

	// FetchDailyHistory retrieves daily adjusted close bars for each symbol
	// between startDate and endDate (unix seconds, inclusive start / exclusive end).
	// Symbols that fail to download are absent from the result map.
	FetchDailyHistory(ctx context.Context, symbols []string, startDate, endDate int64) (map[string][]models.MPriceBar, error)
}
