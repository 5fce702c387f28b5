package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"virtual-energy-trader/internal/analysis"
	"virtual-energy-trader/internal/api/models"
	"virtual-energy-trader/internal/clearing"
	"virtual-energy-trader/internal/config"
	"virtual-energy-trader/internal/data"
	"virtual-energy-trader/internal/market"
	"virtual-energy-trader/internal/model"
	"virtual-energy-trader/internal/store"
)

// SimulateHandler runs the clearing pipeline for one trading date: fetch (or
// accept inline) DA and RT prices, average RT to hourly, clear the stored
// bid set, summarize.
type SimulateHandler struct {
	Store  *store.BidStore
	Config *config.Config
	Loc    *time.Location

	// newClient is swappable in tests.
	newClient func(apiKey string) *data.GridStatusClient
}

func NewSimulateHandler(s *store.BidStore, cfg *config.Config, loc *time.Location) *SimulateHandler {
	return &SimulateHandler{
		Store:  s,
		Config: cfg,
		Loc:    loc,
		newClient: func(apiKey string) *data.GridStatusClient {
			return data.NewGridStatusClient(apiKey, cfg.Data.BaseURL)
		},
	}
}

// Simulate handles POST /api/v1/simulate
func (h *SimulateHandler) Simulate(c *gin.Context) {
	var req models.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	date, err := parseDateParam(req.Date, h.Loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_DATE",
				Message: err.Error(),
			},
		})
		return
	}

	point := req.SettlementPoint
	if point == "" {
		point = h.Config.Market.SettlementPoint
	}

	daPrices, rtSamples, err := h.loadPrices(req, point)
	if err != nil {
		h.writeDataError(c, err)
		return
	}

	bids, err := h.Store.ListByDate(date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "STORE_ERROR",
				Message: err.Error(),
			},
		})
		return
	}

	engine := clearing.New()
	clears := engine.Clear(bids, daPrices, market.AverageToHourly(rtSamples))
	summary := engine.Summarize(clears)
	extremes := analysis.ComputeExtremes(clears)

	c.JSON(http.StatusOK, buildSimulateResponse(req.Date, point, clears, summary, extremes))
}

// loadPrices resolves the DA and raw RT series, either inline from the
// request or from Grid Status.
func (h *SimulateHandler) loadPrices(req models.SimulateRequest, point string) (da, rt []model.PricePoint, err error) {
	if req.UsesInlinePrices() {
		da, err = h.parseInline(req.DAPrices, point)
		if err != nil {
			return nil, nil, err
		}
		rt, err = h.parseInline(req.RTPrices, point)
		if err != nil {
			return nil, nil, err
		}
		return da, rt, nil
	}

	client := h.newClient(req.APIKey)
	daResp, err := client.QueryDay(h.Config.Data.DayAheadDataset, point, req.Date)
	if err != nil {
		return nil, nil, err
	}
	rtResp, err := client.QueryDay(h.Config.Data.RealTimeDataset, point, req.Date)
	if err != nil {
		return nil, nil, err
	}
	return model.ToPricePoints(daResp), model.ToPricePoints(rtResp), nil
}

func (h *SimulateHandler) parseInline(inputs []models.PriceInput, point string) ([]model.PricePoint, error) {
	out := make([]model.PricePoint, 0, len(inputs))
	for _, in := range inputs {
		ts, err := parseLocalTime(in.Timestamp, h.Loc)
		if err != nil {
			return nil, err
		}
		sp := in.SettlementPoint
		if sp == "" {
			sp = point
		}
		out = append(out, model.PricePoint{
			Timestamp:       ts,
			SettlementPoint: sp,
			Price:           in.Price,
		})
	}
	return out, nil
}

// writeDataError maps upstream failures to the client, preserving auth and
// rate-limit semantics.
func (h *SimulateHandler) writeDataError(c *gin.Context, err error) {
	if gsErr, ok := err.(*data.GridStatusError); ok {
		statusCode := http.StatusBadRequest
		if gsErr.StatusCode == http.StatusForbidden || gsErr.StatusCode == http.StatusUnauthorized {
			statusCode = http.StatusUnauthorized
		} else if gsErr.StatusCode == http.StatusTooManyRequests {
			statusCode = http.StatusTooManyRequests
		}
		c.JSON(statusCode, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    gsErr.Code,
				Message: gsErr.Message,
				Details: map[string]interface{}{
					"status_code": gsErr.StatusCode,
					"retry_after": gsErr.RetryAfter,
				},
			},
		})
		return
	}
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "DATA_FETCH_ERROR",
			Message: err.Error(),
		},
	})
}

func buildSimulateResponse(date, point string, clears []model.HourlyClear, summary model.ClearingSummary, extremes analysis.HourExtremes) models.SimulateResponse {
	hours := make([]models.HourlyClearRow, 0, len(clears))
	for _, hc := range clears {
		hours = append(hours, clearRow(hc))
	}

	resp := models.SimulateResponse{
		Date:            date,
		SettlementPoint: point,
		Hours:           hours,
		Summary: models.SummaryResponse{
			TotalPnL:            summary.TotalPnL,
			TotalVolumeMWh:      summary.TotalVolume,
			LongVolumeMWh:       summary.LongVolume,
			ShortVolumeMWh:      summary.ShortVolume,
			HoursWithPosition:   summary.HoursWithPosition,
			HoursWithPnL:        summary.HoursWithPnL,
			AvgPnLPerActiveHour: summary.AvgPnLPerActiveHour,
		},
	}

	if extremes.Best != nil || extremes.MaxSpreadHour != nil {
		info := &models.ExtremesInfo{MaxSpread: extremes.MaxSpread}
		if extremes.Best != nil {
			row := clearRow(*extremes.Best)
			info.BestHour = &row
		}
		if extremes.Worst != nil {
			row := clearRow(*extremes.Worst)
			info.WorstHour = &row
		}
		if extremes.MaxSpreadHour != nil {
			row := clearRow(*extremes.MaxSpreadHour)
			info.MaxSpreadHour = &row
		}
		resp.Extremes = info
	}
	return resp
}

func clearRow(hc model.HourlyClear) models.HourlyClearRow {
	return models.HourlyClearRow{
		HourStart:  hc.HourStart,
		DAPrice:    hc.DAPrice,
		AvgRTPrice: hc.AvgRTPrice,
		ClearedQty: hc.ClearedQty,
		PnL:        hc.PnL,
	}
}
