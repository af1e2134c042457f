package models

// -----------------------------------------------------------------------------
// CSV export rows (gocsv)
// -----------------------------------------------------------------------------

// MFrontierCSVRow flattens one frontier candidate for download.
// Weights are pipe-joined in symbol order.
type MFrontierCSVRow struct {
	Return  float64 `csv:"return"`
	Risk    float64 `csv:"risk"`
	Sharpe  float64 `csv:"sharpe"`
	Weights string  `csv:"weights"`
}

// -----------------------------------------------------------------------------

// MAllocationCSVRow compares current and optimal weights per symbol.
type MAllocationCSVRow struct {
	Symbol        string  `csv:"symbol"`
	CurrentWeight float64 `csv:"current_weight"`
	OptimalWeight float64 `csv:"optimal_weight"`
}
