package interfaces

import "net/url"

// -----------------------------------------------------------------------------
// IProxyManager chooses the outgoing proxy and User-Agent for API requests.
// -----------------------------------------------------------------------------

type IProxyManager interface {

	// Next returns the proxy for the next request, nil means direct.
	Next() *url.URL

	// UserAgent returns the User-Agent header value.
	UserAgent() string

	// Count returns the number of usable proxies.
	Count() int
}
