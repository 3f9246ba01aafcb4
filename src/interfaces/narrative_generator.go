package interfaces

import (
	"context"

	"crypto-analyst/src/models"
)

// -----------------------------------------------------------------------------
// INarrativeGenerator is the opaque AI collaborator: prompt in, text out.
// -----------------------------------------------------------------------------

type INarrativeGenerator interface {
	Generate(ctx context.Context, prompt models.MNarrativePrompt) (string, error)
}

// -----------------------------------------------------------------------------
// IGroundingProvider is implemented by generators that can ground answers on
// live web search.
// -----------------------------------------------------------------------------

type IGroundingProvider interface {
	// IsGoogleSearchEnabled returns whether Google Search grounding is enabled.
	IsGoogleSearchEnabled() bool
}
