package utils

import (
	"sync"

	"portfolio-simulator/src/logger"
	"portfolio-simulator/src/models"
)

// -----------------------------------------------------------------------------
// HistoryCache keeps recently fetched daily bars per symbol so repeated
// analysis requests over the same range skip the network.
// -----------------------------------------------------------------------------

type HistoryCache struct {
	Streams       map[string]*RingBuffer
	MaxMemoryMB   int
	MaxBars       int
	MaxSymbols    int
	Logger        *logger.Logger
	mu            sync.RWMutex
	evictionOrder []string // Oldest insert first
}

// -----------------------------------------------------------------------------

func NewHistoryCache(maxMemoryMB, maxBars, maxSymbols int) *HistoryCache {
	return &HistoryCache{
		Streams:     make(map[string]*RingBuffer),
		MaxMemoryMB: maxMemoryMB,
		MaxBars:     maxBars,
		MaxSymbols:  maxSymbols,
		Logger:      logger.NewLogger("", "HistoryCache"),
	}
}

// -----------------------------------------------------------------------------

// Put replaces the cached series for a symbol with the given bars (oldest first).
func (hc *HistoryCache) Put(symbol string, bars []models.MPriceBar) {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	if _, ok := hc.Streams[symbol]; !ok {
		hc.evictIfFullLocked()
		hc.evictionOrder = append(hc.evictionOrder, symbol)
	}

	buf := NewRingBuffer(hc.MaxBars)
	for _, b := range bars {
		buf.Append(b)
	}
	hc.Streams[symbol] = buf
}

// -----------------------------------------------------------------------------

// Get returns cached bars for a symbol restricted to [from, to), or nil
// when the cached series does not fully cover the requested range.
func (hc *HistoryCache) Get(symbol string, from, to int64) []models.MPriceBar {
	hc.mu.RLock()
	defer hc.mu.RUnlock()

	buf, ok := hc.Streams[symbol]
	if !ok || buf.Size() == 0 {
		return nil
	}

	all := buf.GetAll()

	// Coverage check: cached window must start at or before the request
	// and end on or after it (modulo the provider's last trading day).
	if all[0].Timestamp > from || all[len(all)-1].Timestamp < to-dayAlignmentSlack {
		return nil
	}

	var result []models.MPriceBar
	for _, b := range all {
		if b.Timestamp >= from && b.Timestamp < to {
			result = append(result, b)
		}
	}
	return result
}

// -----------------------------------------------------------------------------

// Invalidate drops a cached symbol.
func (hc *HistoryCache) Invalidate(symbol string) {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	delete(hc.Streams, symbol)
	for i, s := range hc.evictionOrder {
		if s == symbol {
			hc.evictionOrder = append(hc.evictionOrder[:i], hc.evictionOrder[i+1:]...)
			break
		}
	}
}

// -----------------------------------------------------------------------------

// SymbolCount returns the number of cached symbols.
func (hc *HistoryCache) SymbolCount() int {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	return len(hc.Streams)
}

// -----------------------------------------------------------------------------

// evictIfFullLocked drops the oldest inserted symbol when at capacity.
// Caller holds the write lock.
func (hc *HistoryCache) evictIfFullLocked() {
	if hc.MaxSymbols <= 0 || len(hc.Streams) < hc.MaxSymbols {
		return
	}

	oldest := hc.evictionOrder[0]
	hc.evictionOrder = hc.evictionOrder[1:]
	delete(hc.Streams, oldest)
	hc.Logger.Info("Evicted cached history for %s (cache full)", oldest)
}
