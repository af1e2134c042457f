package models

import "time"

// MPriceBar represents one daily adjusted close observation.
type MPriceBar struct {
	Symbol    string    `json:"symbol"`
	Timestamp int64     `json:"timestamp"` // Unix seconds of the trading day
	Close     float64   `json:"close"`
	CreatedAt time.Time `json:"created_at"`
}
