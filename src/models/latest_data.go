package models

// -----------------------------------------------------------------------------
// WebSocket payloads
// -----------------------------------------------------------------------------

// MProgressEvent tracks pipeline milestones while a run executes.
type MProgressEvent struct {
	Type      string `json:"type"` // "PROGRESS"
	RunID     string `json:"run_id"`
	Stage     string `json:"stage"`    // "fetch", "backtest", "monte_carlo", "optimize", "done"
	Progress  int    `json:"progress"` // 0-100
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// -----------------------------------------------------------------------------

// MLatestRun is the hub state sent to newly connected clients and
// broadcast when a run completes.
type MLatestRun struct {
	Type      string       `json:"type"` // "INITIAL" or "RESULT"
	Run       *MRunSummary `json:"run"`
	Timestamp int64        `json:"timestamp"`
}
