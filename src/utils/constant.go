package utils

// -----------------------------------------------------------------------------
// Shared constants
// -----------------------------------------------------------------------------

const (
	// AnnualTradingDays is the annualization factor for daily returns.
	AnnualTradingDays = 252

	// SecondsPerDay for timestamp arithmetic on daily bars.
	SecondsPerDay int64 = 24 * 3600

	// dayAlignmentSlack allows a requested range to end on weekends or
	// holidays and still count as covered by the cache.
	dayAlignmentSlack int64 = 4 * SecondsPerDay
)

// -----------------------------------------------------------------------------

// CalculateMaxBars sizes per-symbol buffers: one bar per calendar day of
// lookback is a safe upper bound for daily data.
func CalculateMaxBars(lookbackDays int) int {
	if lookbackDays <= 0 {
		return 1000
	}
	return lookbackDays + 16 // Headroom for ragged provider ranges
}
