package models

import "time"

// BidResponse represents one stored bid.
type BidResponse struct {
	ID        string    `json:"id"`
	HourStart time.Time `json:"hour_start"`
	Side      string    `json:"side"`
	Price     float64   `json:"price"`
	Quantity  float64   `json:"quantity"`
}

// CutoffResponse reports order-entry cutoff status for a trading date.
type CutoffResponse struct {
	CutoffTime     time.Time `json:"cutoff_time"`
	CurrentTime    time.Time `json:"current_time"`
	IsCutoffPassed bool      `json:"is_cutoff_passed"`
	DisplayText    string    `json:"display_text"`
}

// SimulateResponse represents the result of a clearing simulation.
type SimulateResponse struct {
	Date            string           `json:"date"`
	SettlementPoint string           `json:"settlement_point"`
	Hours           []HourlyClearRow `json:"hours"`
	Summary         SummaryResponse  `json:"summary"`
	Extremes        *ExtremesInfo    `json:"extremes,omitempty"`
}

// HourlyClearRow is one hour of clearing output. da_price and avg_rt_price
// are null when no quote/samples exist for the hour.
type HourlyClearRow struct {
	HourStart  time.Time `json:"hour_start"`
	DAPrice    *float64  `json:"da_price"`
	AvgRTPrice *float64  `json:"avg_rt_price"`
	ClearedQty float64   `json:"cleared_qty_mwh"`
	PnL        float64   `json:"pnl"`
}

// SummaryResponse contains aggregated clearing results.
type SummaryResponse struct {
	TotalPnL            float64 `json:"total_pnl"`
	TotalVolumeMWh      float64 `json:"total_volume_mwh"`
	LongVolumeMWh       float64 `json:"long_volume_mwh"`
	ShortVolumeMWh      float64 `json:"short_volume_mwh"`
	HoursWithPosition   int     `json:"hours_with_position"`
	HoursWithPnL        int     `json:"hours_with_pnl"`
	AvgPnLPerActiveHour float64 `json:"avg_pnl_per_active_hour"`
}

// ExtremesInfo reports the standout hours of a run.
type ExtremesInfo struct {
	BestHour      *HourlyClearRow `json:"best_hour,omitempty"`
	WorstHour     *HourlyClearRow `json:"worst_hour,omitempty"`
	MaxSpreadHour *HourlyClearRow `json:"max_spread_hour,omitempty"`
	MaxSpread     float64         `json:"max_spread"`
}

// SettlementPointInfo represents one selectable settlement point.
type SettlementPointInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Market string `json:"market"`
}

// DatasetInfo represents one Grid Status dataset the simulator queries.
type DatasetInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Market     string `json:"market"`
	Resolution string `json:"resolution"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
