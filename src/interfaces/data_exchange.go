package interfaces

import (
	"context"

	"crypto-analyst/src/models"
)

// -----------------------------------------------------------------------------
// IDataExchanger shares refresh results with the presentation layer.
// -----------------------------------------------------------------------------

type IDataExchanger interface {
	// Broadcast pushes a refresh event to connected dashboards.
	Broadcast(event models.MRefreshEvent)

	// UpdateLatestReport replaces the report served to late joiners.
	UpdateLatestReport(report *models.MReport)

	// Start the server
	Start() error

	// Stop the server gracefully
	Stop(ctx context.Context) error
}

// -----------------------------------------------------------------------------
// IAnalyst runs one refresh: fetch, aggregate, narrate, assemble.
// -----------------------------------------------------------------------------

type IAnalyst interface {
	Refresh(ctx context.Context, options models.MAnalysisOptions) (*models.MReport, error)
	DefaultOptions() models.MAnalysisOptions
}
