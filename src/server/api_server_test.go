package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"crypto-analyst/src/helpers"
	"crypto-analyst/src/logger"
	"crypto-analyst/src/models"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnalyst struct {
	mu      sync.Mutex
	err     error
	calls   int
	lastOpt models.MAnalysisOptions
}

func (f *fakeAnalyst) Refresh(_ context.Context, opts models.MAnalysisOptions) (*models.MReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastOpt = opts
	if f.err != nil {
		return nil, f.err
	}
	return &models.MReport{
		ID:               "report-" + string(rune('0'+f.calls)),
		GeneratedAt:      time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		ReportDate:       "June 1, 2024",
		Options:          opts,
		ExecutiveSummary: "### Executive Summary for June 1, 2024",
	}, nil
}

func (f *fakeAnalyst) snapshot() (int, models.MAnalysisOptions) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls, f.lastOpt
}

func (f *fakeAnalyst) DefaultOptions() models.MAnalysisOptions {
	return models.MAnalysisOptions{Timeframe: "24H", TopN: 10, UseCase: models.UseCaseGeneral}
}

func newTestServer(t *testing.T, analyst *fakeAnalyst) (*APIServer, *httptest.Server) {
	t.Helper()
	cfg := &models.MConfig{Host: "127.0.0.1", Port: 8080, DataSource: models.MDataSourceConfig{Provider: "coinmarketcap"}}
	s := NewAPIServer(cfg, analyst, logger.NewNopLogger("test"))
	s.startHub()
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		s.Stop(context.Background())
	})
	return s, ts
}

func doRequest(t *testing.T, method, url, body string) (*http.Response, map[string]interface{}) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	}
	return resp, decoded
}

func TestRefreshThenReport(t *testing.T) {
	analyst := &fakeAnalyst{}
	_, ts := newTestServer(t, analyst)

	resp, _ := doRequest(t, http.MethodGet, ts.URL+"/api/report", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body := doRequest(t, http.MethodPost, ts.URL+"/api/refresh", `{"timeframe":"7D","top_n":5}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "report-1", body["id"])
	_, opts := analyst.snapshot()
	assert.Equal(t, "7D", opts.Timeframe)
	assert.Equal(t, 5, opts.TopN)

	resp, body = doRequest(t, http.MethodGet, ts.URL+"/api/report", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "report-1", body["id"])
}

func TestRefreshWithoutBody(t *testing.T) {
	analyst := &fakeAnalyst{}
	_, ts := newTestServer(t, analyst)

	resp, _ := doRequest(t, http.MethodPost, ts.URL+"/api/refresh", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	calls, _ := analyst.snapshot()
	assert.Equal(t, 1, calls)
}

func TestRefreshErrorStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		kind   string
	}{
		{"data unavailable", helpers.NewDataUnavailable(nil, "provider down"), http.StatusServiceUnavailable, helpers.KindDataUnavailable},
		{"report incomplete", helpers.NewReportIncomplete([]string{"executive_report"}, nil, "too short"), http.StatusBadGateway, helpers.KindReportIncomplete},
		{"validation", helpers.NewValidation("top_n 50 out of range"), http.StatusBadRequest, helpers.KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ts := newTestServer(t, &fakeAnalyst{err: tt.err})

			resp, body := doRequest(t, http.MethodPost, ts.URL+"/api/refresh", `{}`)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.kind, body["error_kind"])
			assert.Nil(t, s.LatestReport())
		})
	}
}

func TestRefreshMalformedBody(t *testing.T) {
	analyst := &fakeAnalyst{}
	_, ts := newTestServer(t, analyst)

	resp, body := doRequest(t, http.MethodPost, ts.URL+"/api/refresh", `{"top_n":"ten"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, helpers.KindValidation, body["error_kind"])
	calls, _ := analyst.snapshot()
	assert.Zero(t, calls)
}

func TestFailedRefreshKeepsPreviousReport(t *testing.T) {
	analyst := &fakeAnalyst{}
	s, ts := newTestServer(t, analyst)

	resp, _ := doRequest(t, http.MethodPost, ts.URL+"/api/refresh", `{}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	analyst.mu.Lock()
	analyst.err = helpers.NewDataUnavailable(nil, "down")
	analyst.mu.Unlock()

	resp, _ = doRequest(t, http.MethodPost, ts.URL+"/api/refresh", `{}`)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	require.NotNil(t, s.LatestReport())
	assert.Equal(t, "report-1", s.LatestReport().ID)
}

func TestConfigAndHealth(t *testing.T) {
	_, ts := newTestServer(t, &fakeAnalyst{})

	resp, body := doRequest(t, http.MethodGet, ts.URL+"/api/config", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "coinmarketcap", body["provider"])
	assert.Len(t, body["timeframes"], 4)
	assert.EqualValues(t, 20, body["max_top_n"])

	resp, body = doRequest(t, http.MethodGet, ts.URL+"/api/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestCORSPreflight(t *testing.T) {
	_, ts := newTestServer(t, &fakeAnalyst{})

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/refresh", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://127.0.0.1:5173")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://127.0.0.1:5173", resp.Header.Get("Access-Control-Allow-Origin"))
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// waitForConnections polls /api/health until the hub has registered n clients.
func waitForConnections(t *testing.T, ts *httptest.Server, n int) {
	t.Helper()
	assert.Eventually(t, func() bool {
		resp, err := http.Get(ts.URL + "/api/health")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		var body struct {
			Connections int `json:"connections"`
		}
		return json.NewDecoder(resp.Body).Decode(&body) == nil && body.Connections == n
	}, 5*time.Second, 10*time.Millisecond)
}

func readEvent(t *testing.T, conn *websocket.Conn) models.MRefreshEvent {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var event models.MRefreshEvent
	require.NoError(t, conn.ReadJSON(&event))
	return event
}

func TestWebSocketRefreshIsBroadcast(t *testing.T) {
	_, ts := newTestServer(t, &fakeAnalyst{})

	sender := dial(t, ts)
	watcher := dial(t, ts)

	waitForConnections(t, ts, 2)

	require.NoError(t, sender.WriteJSON(models.MRefreshCommand{Command: CommandRefresh, Options: models.MAnalysisOptions{TopN: 7}}))

	for _, conn := range []*websocket.Conn{sender, watcher} {
		event := readEvent(t, conn)
		assert.Equal(t, EventReport, event.Type)
		require.NotNil(t, event.Report)
		assert.Equal(t, 7, event.Report.Options.TopN)
	}
}

func TestWebSocketFailureNotice(t *testing.T) {
	_, ts := newTestServer(t, &fakeAnalyst{err: helpers.NewReportIncomplete(nil, nil, "executive_report too short")})
	conn := dial(t, ts)

	waitForConnections(t, ts, 1)

	require.NoError(t, conn.WriteJSON(models.MRefreshCommand{Command: CommandRefresh}))
	event := readEvent(t, conn)
	assert.Equal(t, EventError, event.Type)
	assert.Equal(t, helpers.KindReportIncomplete, event.ErrorKind)
	assert.Nil(t, event.Report)
}

func TestWebSocketLateJoinerGetsLatestReport(t *testing.T) {
	_, ts := newTestServer(t, &fakeAnalyst{})

	resp, _ := doRequest(t, http.MethodPost, ts.URL+"/api/refresh", `{}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	event := readEvent(t, dial(t, ts))
	assert.Equal(t, EventReport, event.Type)
	assert.Equal(t, "report-1", event.Report.ID)
}

func TestWebSocketUnknownCommand(t *testing.T) {
	_, ts := newTestServer(t, &fakeAnalyst{})
	conn := dial(t, ts)

	waitForConnections(t, ts, 1)

	require.NoError(t, conn.WriteJSON(map[string]string{"command": "subscribe"}))
	event := readEvent(t, conn)
	assert.Equal(t, EventError, event.Type)
	assert.Equal(t, "UnknownCommand", event.ErrorKind)
}
