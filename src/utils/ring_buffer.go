package utils

import (
	"portfolio-simulator/src/models"
)

// -----------------------------------------------------------------------------
// RingBuffer is a fixed-size circular buffer of daily bars.
// True ring buffer - no resizing allowed!
// -----------------------------------------------------------------------------

type RingBuffer struct {
	// Data storage as 2D slice (rows x features)
	data     [][models.RB_NUM_FEATURES]float64
	capacity int
	index    int // Next write position
	size     int // Current number of elements
}

// -----------------------------------------------------------------------------

// NewRingBuffer creates a new buffer with fixed capacity
func NewRingBuffer(capacity int) *RingBuffer {
	if capacity <= 0 {
		capacity = 1000 // Default reasonable size
	}

	return &RingBuffer{
		data:     make([][models.RB_NUM_FEATURES]float64, capacity),
		capacity: capacity,
		index:    0,
		size:     0,
	}
}

// -----------------------------------------------------------------------------

// Append adds a bar (Strict Type)
func (rb *RingBuffer) Append(bar models.MPriceBar) {
	rb.data[rb.index] = [models.RB_NUM_FEATURES]float64{
		float64(bar.Timestamp),
		bar.Close,
	}

	rb.index = (rb.index + 1) % rb.capacity

	// Update size (never exceeds capacity)
	if rb.size < rb.capacity {
		rb.size++
	}
}

// -----------------------------------------------------------------------------

// GetAll returns all bars in insertion order (oldest to newest)
func (rb *RingBuffer) GetAll() []models.MPriceBar {
	if rb.size == 0 {
		return []models.MPriceBar{}
	}

	result := make([]models.MPriceBar, rb.size)

	// Calculate start index (oldest element)
	var startIdx int
	if rb.size == rb.capacity {
		// Buffer is full, oldest is at current index (wrap-around)
		startIdx = rb.index
	} else {
		// Buffer not full, oldest is at index 0
		startIdx = 0
	}

	// Extract in order
	for i := 0; i < rb.size; i++ {
		idx := (startIdx + i) % rb.capacity
		row := rb.data[idx]

		result[i] = models.MPriceBar{
			Timestamp: int64(row[models.RB_IDX_TIMESTAMP]),
			Close:     row[models.RB_IDX_CLOSE],
		}
	}

	return result
}

// -----------------------------------------------------------------------------

// GetLatest returns n latest bars
func (rb *RingBuffer) GetLatest(n int) []models.MPriceBar {
	if rb.size == 0 || n <= 0 {
		return []models.MPriceBar{}
	}

	count := n
	if n > rb.size {
		count = rb.size
	}

	result := make([]models.MPriceBar, count)

	// Latest data is at index-1
	startIdx := (rb.index - count + rb.capacity) % rb.capacity

	for i := 0; i < count; i++ {
		idx := (startIdx + i) % rb.capacity
		row := rb.data[idx]

		result[i] = models.MPriceBar{
			Timestamp: int64(row[models.RB_IDX_TIMESTAMP]),
			Close:     row[models.RB_IDX_CLOSE],
		}
	}

	return result
}

// -----------------------------------------------------------------------------

// Size returns current number of elements
func (rb *RingBuffer) Size() int {
	return rb.size
}

// -----------------------------------------------------------------------------

// Capacity returns buffer capacity (fixed)
func (rb *RingBuffer) Capacity() int {
	return rb.capacity
}
