package interfaces

import "context"

// -----------------------------------------------------------------------------
// INetworkManager defines the contract for outbound HTTP GET requests.
// -----------------------------------------------------------------------------

type INetworkManager interface {

	// -----------------------------------------------------------------------------

	// Get performs one GET request to the URL with query parameters and headers.
	// Returns the response body as bytes or an error. Never retries.
	Get(ctx context.Context, url string, params map[string]string, headers map[string]string) ([]byte, error)
}
