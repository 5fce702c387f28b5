package clearing

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"virtual-energy-trader/internal/model"
)

// WriteClearsCSV writes one row per hour of a clearing run. Absent prices
// are written as empty cells, matching their nil representation.
func WriteClearsCSV(path string, clears []model.HourlyClear) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"index",
		"hour_start",
		"da_price",
		"avg_rt_price",
		"cleared_qty_mwh",
		"pnl",
		"cum_pnl",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	cum := 0.0
	for i, c := range clears {
		cum += c.PnL
		row := []string{
			strconv.Itoa(i),
			fmtTime(c.HourStart),
			fmtOptFloat(c.DAPrice),
			fmtOptFloat(c.AvgRTPrice),
			fmtFloat(c.ClearedQty),
			fmtFloat(c.PnL),
			fmtFloat(cum),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}

func fmtOptFloat(x *float64) string {
	if x == nil {
		return ""
	}
	return fmtFloat(*x)
}
