package models

// RingBuffer indices and constants for cached daily bars
const (
	RB_IDX_TIMESTAMP = 0
	RB_IDX_CLOSE     = 1
	RB_NUM_FEATURES  = 2
)
