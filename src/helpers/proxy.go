package helpers

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
)

// DefaultUserAgent identifies the analyst to the market data APIs.
const DefaultUserAgent = "crypto-analyst/1.0"

// -----------------------------------------------------------------------------

// ProxyManager spreads outgoing requests over the configured proxies.
type ProxyManager struct {
	proxies   []*url.URL
	userAgent string
	next      int
	mu        sync.Mutex
}

// -----------------------------------------------------------------------------

// NewProxyManager parses proxies up front; entries that do not parse are
// returned as ConfigurationErrors alongside the manager built from the rest.
func NewProxyManager(proxies []string, userAgent string) (*ProxyManager, []error) {
	pm := &ProxyManager{userAgent: strings.TrimSpace(userAgent)}
	if pm.userAgent == "" {
		pm.userAgent = DefaultUserAgent
	}

	var errs []error
	for _, p := range proxies {
		u, err := ParseProxy(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		pm.proxies = append(pm.proxies, u)
	}
	return pm, errs
}

// -----------------------------------------------------------------------------

// Next returns the proxy for the next request, or nil to connect directly.
func (pm *ProxyManager) Next() *url.URL {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if len(pm.proxies) == 0 {
		return nil
	}
	u := pm.proxies[pm.next]
	pm.next = (pm.next + 1) % len(pm.proxies)
	return u
}

// -----------------------------------------------------------------------------

func (pm *ProxyManager) UserAgent() string {
	return pm.userAgent
}

// -----------------------------------------------------------------------------

func (pm *ProxyManager) Count() int {
	return len(pm.proxies)
}

// -----------------------------------------------------------------------------

// ParseProxy accepts "host:port" or a full http/https/socks5 URL.
func ParseProxy(proxyStr string) (*url.URL, error) {
	s := strings.TrimSpace(proxyStr)
	if s == "" {
		return nil, NewConfiguration("empty proxy entry")
	}
	if !strings.Contains(s, "://") {
		s = "http://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return nil, NewConfiguration("invalid proxy %q: %v", proxyStr, err)
	}
	switch u.Scheme {
	case "http", "https", "socks5":
	default:
		return nil, NewConfiguration("unsupported proxy scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, NewConfiguration("proxy %q has no host", proxyStr)
	}
	return u, nil
}

// -----------------------------------------------------------------------------

// String hides proxy credentials.
func (pm *ProxyManager) String() string {
	hosts := make([]string, len(pm.proxies))
	for i, u := range pm.proxies {
		hosts[i] = u.Host
	}
	return fmt.Sprintf("ProxyManager(%d proxies: %s)", len(hosts), strings.Join(hosts, ", "))
}
