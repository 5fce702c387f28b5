package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"virtual-energy-trader/internal/api/models"
	"virtual-energy-trader/internal/config"
	"virtual-energy-trader/internal/data"
	"virtual-energy-trader/internal/market"
)

// MarketHandler serves market metadata: cutoff status, settlement points,
// and the datasets the simulator queries.
type MarketHandler struct {
	Cutoff *market.CutoffCalculator
	Config *config.Config
	Loc    *time.Location
}

func NewMarketHandler(cutoff *market.CutoffCalculator, cfg *config.Config, loc *time.Location) *MarketHandler {
	return &MarketHandler{Cutoff: cutoff, Config: cfg, Loc: loc}
}

// GetCutoff handles GET /api/v1/cutoff?date=YYYY-MM-DD
func (h *MarketHandler) GetCutoff(c *gin.Context) {
	date, err := parseDateParam(c.Query("date"), h.Loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_DATE",
				Message: err.Error(),
			},
		})
		return
	}

	status := h.Cutoff.Status(date)
	c.JSON(http.StatusOK, models.CutoffResponse{
		CutoffTime:     status.CutoffTime,
		CurrentTime:    status.CurrentTime,
		IsCutoffPassed: status.IsCutoffPassed,
		DisplayText:    status.DisplayText,
	})
}

// ListSettlementPoints handles GET /api/v1/settlement-points
func (h *MarketHandler) ListSettlementPoints(c *gin.Context) {
	points := data.SettlementPoints()
	out := make([]models.SettlementPointInfo, 0, len(points))
	for _, p := range points {
		out = append(out, models.SettlementPointInfo{
			ID:     p.ID,
			Name:   p.Name,
			Type:   p.Type,
			Market: p.Market,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"settlement_points": out,
		"count":             len(out),
	})
}

// ListDatasets handles GET /api/v1/datasets
func (h *MarketHandler) ListDatasets(c *gin.Context) {
	datasets := []models.DatasetInfo{
		{
			ID:         h.Config.Data.DayAheadDataset,
			Name:       "ERCOT SPP Day-Ahead Hourly",
			Market:     "ERCOT",
			Resolution: "1h",
		},
		{
			ID:         h.Config.Data.RealTimeDataset,
			Name:       "ERCOT LMP Real-Time 5-Min",
			Market:     "ERCOT",
			Resolution: "5min",
		},
	}
	c.JSON(http.StatusOK, gin.H{"datasets": datasets})
}
