package interfaces

import "portfolio-simulator/src/models"

// -----------------------------------------------------------------------------
// IDataExchanger defines the interface for pushing run updates to clients.
// -----------------------------------------------------------------------------

type IDataExchanger interface {

	// -----------------------------------------------------------------------------
	// BroadcastProgress pushes a pipeline milestone to connected listeners.
	BroadcastProgress(event models.MProgressEvent)

	// -----------------------------------------------------------------------------
	// PublishRun updates the latest-run state and broadcasts the summary.
	PublishRun(summary models.MRunSummary)

	// -----------------------------------------------------------------------------
	// Start the server
	Start() error

	// -----------------------------------------------------------------------------
	// Stop the server gracefully
	Stop() error
}
