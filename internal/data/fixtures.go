package data

import (
	"encoding/json"
	"os"

	"virtual-energy-trader/internal/model"
)

// LoadGridStatusJSON reads a saved Grid Status response from disk. Fixture
// files use the same envelope the API returns, so saved responses replay
// directly through the pipeline.
func LoadGridStatusJSON(path string) (*model.GridStatusLMPResponse, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var resp model.GridStatusLMPResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GroupBySettlementPoint splits a response into point-keyed slices.
func GroupBySettlementPoint(resp *model.GridStatusLMPResponse) map[string][]model.LMPInterval {
	out := map[string][]model.LMPInterval{}
	if resp == nil {
		return out
	}
	for _, it := range resp.Data {
		out[it.Location] = append(out[it.Location], it)
	}
	return out
}
