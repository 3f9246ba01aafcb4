package feargreed

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"crypto-analyst/src/helpers"
	"crypto-analyst/src/interfaces"
	"crypto-analyst/src/logger"
	"crypto-analyst/src/models"
)

const DefaultURL = "https://api.alternative.me/fng/"

var _ interfaces.ISentimentSource = (*FearGreedSource)(nil)

// FearGreedSource reads the latest Crypto Fear & Greed index.
type FearGreedSource struct {
	URL     string
	Network interfaces.INetworkManager
	Logger  *logger.Logger
}

type fngEntry struct {
	Value          string `json:"value"`
	Classification string `json:"value_classification"`
	Timestamp      string `json:"timestamp"`
}

type fngResponse struct {
	Data     []fngEntry `json:"data"`
	Metadata struct {
		Error *string `json:"error"`
	} `json:"metadata"`
}

// -----------------------------------------------------------------------------

func NewFearGreedSource(cfg *models.MConfig, netMgr interfaces.INetworkManager, log *logger.Logger) *FearGreedSource {
	url := cfg.DataSource.SentimentURL
	if url == "" {
		url = DefaultURL
	}
	return &FearGreedSource{URL: url, Network: netMgr, Logger: log}
}

// -----------------------------------------------------------------------------

func (s *FearGreedSource) FetchSentiment(ctx context.Context) (models.MSentimentIndex, error) {
	body, err := s.Network.Get(ctx, s.URL, map[string]string{"limit": "1"}, nil)
	if err != nil {
		return models.MSentimentIndex{}, helpers.NewDataUnavailable(err, "fear & greed request failed")
	}

	var resp fngResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return models.MSentimentIndex{}, helpers.NewDataUnavailable(err, "fear & greed returned malformed data")
	}
	if resp.Metadata.Error != nil && *resp.Metadata.Error != "" {
		return models.MSentimentIndex{}, helpers.NewDataUnavailable(nil, "fear & greed error: %s", *resp.Metadata.Error)
	}
	if len(resp.Data) == 0 {
		return models.MSentimentIndex{}, helpers.NewDataUnavailable(nil, "fear & greed returned no data")
	}

	entry := resp.Data[0]
	value, err := strconv.Atoi(entry.Value)
	if err != nil || value < 0 || value > 100 {
		return models.MSentimentIndex{}, helpers.NewDataUnavailable(err, "fear & greed returned invalid value %q", entry.Value)
	}

	var ts time.Time
	if secs, err := strconv.ParseInt(entry.Timestamp, 10, 64); err == nil {
		ts = time.Unix(secs, 0).UTC()
	}

	s.Logger.Debug("Fear & Greed: %d (%s)", value, entry.Classification)
	return models.MSentimentIndex{
		Value:          value,
		Classification: entry.Classification,
		Timestamp:      ts,
		Available:      true,
	}, nil
}
