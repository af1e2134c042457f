package models

// -----------------------------------------------------------------------------
// MPriceMatrix holds aligned close prices: one row per trading day,
// one column per symbol. Only dates where every symbol has a valid
// close survive alignment.
// -----------------------------------------------------------------------------

type MPriceMatrix struct {
	Symbols []string    `json:"symbols"`
	Dates   []int64     `json:"dates"`
	Prices  [][]float64 `json:"prices"` // rows = dates, cols = symbols
}

// -----------------------------------------------------------------------------

// MReturnMatrix holds daily simple returns aligned like MPriceMatrix.
// Dates start at the second trading day of the price matrix.
type MReturnMatrix struct {
	Symbols []string    `json:"symbols"`
	Dates   []int64     `json:"dates"`
	Returns [][]float64 `json:"returns"`
}
