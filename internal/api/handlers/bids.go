package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"virtual-energy-trader/internal/api/models"
	"virtual-energy-trader/internal/market"
	"virtual-energy-trader/internal/model"
	"virtual-energy-trader/internal/store"
)

// BidHandler handles bid order entry. New bids are gated by the market-time
// cutoff; deletion is always allowed.
type BidHandler struct {
	Store  *store.BidStore
	Cutoff *market.CutoffCalculator
	Loc    *time.Location
}

func NewBidHandler(s *store.BidStore, cutoff *market.CutoffCalculator, loc *time.Location) *BidHandler {
	return &BidHandler{Store: s, Cutoff: cutoff, Loc: loc}
}

// CreateBid handles POST /api/v1/bids
func (h *BidHandler) CreateBid(c *gin.Context) {
	var req models.CreateBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	hourStart, err := parseLocalTime(req.HourStart, h.Loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_HOUR_START",
				Message: err.Error(),
			},
		})
		return
	}

	if status := h.Cutoff.Status(hourStart); status.IsCutoffPassed {
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "ORDER_ENTRY_CLOSED",
				Message: status.DisplayText,
				Details: map[string]interface{}{
					"cutoff_time": status.CutoffTime,
				},
			},
		})
		return
	}

	bid, err := h.Store.Add(model.Bid{
		HourStart: hourStart,
		Side:      model.Side(req.Side),
		Price:     req.Price,
		Quantity:  req.Quantity,
	})
	if err != nil {
		code, status := "INVALID_BID", http.StatusBadRequest
		if errors.Is(err, store.ErrHourFull) {
			code, status = "HOUR_FULL", http.StatusConflict
		}
		c.JSON(status, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    code,
				Message: err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusCreated, bidResponse(bid))
}

// ListBids handles GET /api/v1/bids?date=YYYY-MM-DD
func (h *BidHandler) ListBids(c *gin.Context) {
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

	out := make([]models.BidResponse, 0, len(bids))
	for _, b := range bids {
		out = append(out, bidResponse(b))
	}
	c.JSON(http.StatusOK, gin.H{
		"bids":  out,
		"count": len(out),
	})
}

// DeleteBid handles DELETE /api/v1/bids/:id
func (h *BidHandler) DeleteBid(c *gin.Context) {
	err := h.Store.Delete(c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "BID_NOT_FOUND",
				Message: err.Error(),
			},
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "STORE_ERROR",
				Message: err.Error(),
			},
		})
		return
	}
	c.Status(http.StatusNoContent)
}

func bidResponse(b model.Bid) models.BidResponse {
	return models.BidResponse{
		ID:        b.ID,
		HourStart: b.HourStart,
		Side:      string(b.Side),
		Price:     b.Price,
		Quantity:  b.Quantity,
	}
}
