package datasource

import (
	"math"
	"strings"

	"crypto-analyst/src/helpers"
	"crypto-analyst/src/models"
)

// -----------------------------------------------------------------------------

// NormalizeIDs upper-cases, trims and de-duplicates coin identifiers, keeping first-seen order.
func NormalizeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		norm := strings.ToUpper(strings.TrimSpace(id))
		if norm == "" {
			continue
		}
		if _, dup := seen[norm]; dup {
			continue
		}
		seen[norm] = struct{}{}
		out = append(out, norm)
	}
	return out
}

// -----------------------------------------------------------------------------

// ValidateSnapshot rejects values no provider should ever report.
func ValidateSnapshot(source string, s models.MMarketSnapshot) error {
	bad := func(v float64) bool { return math.IsNaN(v) || math.IsInf(v, 0) }

	switch {
	case s.ID == "":
		return helpers.NewDataUnavailable(nil, "%s returned a coin without identifier", source)
	case bad(s.Price) || s.Price <= 0:
		return helpers.NewDataUnavailable(nil, "%s returned invalid price %v for %s", source, s.Price, s.ID)
	case bad(s.Volume24h) || s.Volume24h < 0:
		return helpers.NewDataUnavailable(nil, "%s returned invalid volume %v for %s", source, s.Volume24h, s.ID)
	case bad(s.MarketCap) || s.MarketCap < 0:
		return helpers.NewDataUnavailable(nil, "%s returned invalid market cap %v for %s", source, s.MarketCap, s.ID)
	case bad(s.PercentChange24h):
		return helpers.NewDataUnavailable(nil, "%s returned invalid 24h change for %s", source, s.ID)
	}
	return nil
}

// -----------------------------------------------------------------------------

// OrderByRequest returns exactly one snapshot per requested id, in request order,
// or DataUnavailable naming the first id the provider did not return.
func OrderByRequest(source string, ids []string, got map[string]models.MMarketSnapshot) ([]models.MMarketSnapshot, error) {
	out := make([]models.MMarketSnapshot, 0, len(ids))
	for _, id := range ids {
		snap, ok := got[id]
		if !ok {
			return nil, helpers.NewDataUnavailable(nil, "%s returned no data for %s", source, id)
		}
		if err := ValidateSnapshot(source, snap); err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, nil
}
