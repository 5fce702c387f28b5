package data

import (
	"encoding/json"
	"fmt"
	"os"
)

// SettlementPoint identifies a pricing hub or load zone where energy is
// valued.
type SettlementPoint struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type"`   // "HUB" or "LOAD_ZONE"
	Market string `json:"market"` // e.g. "ERCOT"
}

// DefaultSettlementPoints lists the ERCOT trading hubs and load zones the
// simulator supports out of the box. A JSON file can replace this list.
func DefaultSettlementPoints() []SettlementPoint {
	return []SettlementPoint{
		{ID: "HB_NORTH", Name: "North Hub", Type: "HUB", Market: "ERCOT"},
		{ID: "HB_SOUTH", Name: "South Hub", Type: "HUB", Market: "ERCOT"},
		{ID: "HB_WEST", Name: "West Hub", Type: "HUB", Market: "ERCOT"},
		{ID: "HB_HOUSTON", Name: "Houston Hub", Type: "HUB", Market: "ERCOT"},
		{ID: "HB_BUSAVG", Name: "Bus Average Hub", Type: "HUB", Market: "ERCOT"},
		{ID: "LZ_NORTH", Name: "North Load Zone", Type: "LOAD_ZONE", Market: "ERCOT"},
		{ID: "LZ_SOUTH", Name: "South Load Zone", Type: "LOAD_ZONE", Market: "ERCOT"},
		{ID: "LZ_WEST", Name: "West Load Zone", Type: "LOAD_ZONE", Market: "ERCOT"},
		{ID: "LZ_HOUSTON", Name: "Houston Load Zone", Type: "LOAD_ZONE", Market: "ERCOT"},
	}
}

// LoadSettlementPoints loads a settlement-point list from a JSON file.
func LoadSettlementPoints(path string) ([]SettlementPoint, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settlement points file: %w", err)
	}
	var points []SettlementPoint
	if err := json.Unmarshal(raw, &points); err != nil {
		return nil, fmt.Errorf("failed to parse settlement points file: %w", err)
	}
	return points, nil
}

// SettlementPoints returns the configured point list: the file named by
// SETTLEMENT_POINTS_FILE when present, otherwise the built-in defaults.
func SettlementPoints() []SettlementPoint {
	if path := os.Getenv("SETTLEMENT_POINTS_FILE"); path != "" {
		if points, err := LoadSettlementPoints(path); err == nil {
			return points
		}
	}
	return DefaultSettlementPoints()
}
