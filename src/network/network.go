package network

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"crypto-analyst/src/helpers"
	"crypto-analyst/src/interfaces"
	"crypto-analyst/src/logger"
	"crypto-analyst/src/models"
)

const defaultTimeoutSeconds = 10

// maxBodyBytes bounds how much of a provider response is read.
const maxBodyBytes = 8 << 20

// HTTPStatusError reports a non-200 response.
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("bad status: %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("bad status: %d", e.StatusCode)
}

type NetworkManager struct {
	Config       *models.MConfig
	ProxyManager interfaces.IProxyManager
	Logger       *logger.Logger
	timeout      time.Duration
}

// -----------------------------------------------------------------------------

func NewNetworkManager(cfg *models.MConfig, log *logger.Logger) *NetworkManager {
	timeout := time.Duration(cfg.Network.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = defaultTimeoutSeconds * time.Second
	}
	proxies, errs := helpers.NewProxyManager(cfg.Network.Proxies, cfg.Network.UserAgent)
	for _, err := range errs {
		log.Warning("Skipping proxy: %v", err)
	}
	return &NetworkManager{
		Config:       cfg,
		ProxyManager: proxies,
		Logger:       log,
		timeout:      timeout,
	}
}

// -----------------------------------------------------------------------------

func (nm *NetworkManager) createClient() *http.Client {
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
	}

	if proxyURL := nm.ProxyManager.Next(); proxyURL != nil {
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	return &http.Client{
		Transport: transport,
		Timeout:   nm.timeout,
	}
}

// -----------------------------------------------------------------------------

// Get performs a single GET request bounded by the configured timeout.
func (nm *NetworkManager) Get(ctx context.Context, urlStr string, params map[string]string, headers map[string]string) ([]byte, error) {
	reqUrl, err := url.Parse(urlStr)
	if err != nil {
		return nil, err
	}

	q := reqUrl.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	reqUrl.RawQuery = q.Encode()

	ctx, cancel := context.WithTimeout(ctx, nm.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqUrl.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", nm.ProxyManager.UserAgent())
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	client := nm.createClient()
	defer client.CloseIdleConnections()

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		nm.Logger.Info("Request to %s failed: %v", reqUrl.Host, err)
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		nm.Logger.Info("Bad status %d from %s", resp.StatusCode, reqUrl.Host)
		snippet := string(body)
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return nil, &HTTPStatusError{StatusCode: resp.StatusCode, Body: snippet}
	}

	nm.Logger.Debug("GET %s%s -> %d bytes in %v", reqUrl.Host, reqUrl.Path, len(body), time.Since(start))
	return body, nil
}
