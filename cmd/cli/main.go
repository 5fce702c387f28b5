package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"virtual-energy-trader/internal/analysis"
	"virtual-energy-trader/internal/clearing"
	"virtual-energy-trader/internal/config"
	"virtual-energy-trader/internal/data"
	"virtual-energy-trader/internal/market"
	"virtual-energy-trader/internal/model"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "clear":
		cmdClear(os.Args[2:])
	case "cutoff":
		cmdCutoff(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli clear --bids bids.json --da da_prices.json --rt rt_prices.json --out results/clears.csv")
	fmt.Println("  cli cutoff --date 2025-07-15")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - da/rt files use the Grid Status response envelope (saved API responses replay directly)")
	fmt.Println("  - bids files are JSON arrays: [{\"hour_start\":\"...\",\"side\":\"BUY\",\"price\":60,\"quantity\":100}]")
}

// bidFile is the on-disk bid shape for CLI runs.
type bidFile struct {
	HourStart time.Time `json:"hour_start"`
	Side      string    `json:"side"`
	Price     float64   `json:"price"`
	Quantity  float64   `json:"quantity"`
}

func cmdClear(args []string) {
	fs := flag.NewFlagSet("clear", flag.ExitOnError)
	bidsPath := fs.String("bids", "", "Path to bids JSON array")
	daPath := fs.String("da", "", "Path to DA prices JSON (Grid Status envelope)")
	rtPath := fs.String("rt", "", "Path to RT prices JSON (Grid Status envelope)")
	outPath := fs.String("out", "", "Optional output CSV path")
	cfgPath := fs.String("config", "", "Optional YAML config")
	_ = fs.Parse(args)

	cfg := loadConfig(*cfgPath)
	loc, err := cfg.Location()
	if err != nil {
		panic(err)
	}

	var bids []model.Bid
	if *bidsPath != "" {
		raw, err := os.ReadFile(*bidsPath)
		if err != nil {
			panic(err)
		}
		var rows []bidFile
		if err := json.Unmarshal(raw, &rows); err != nil {
			panic(err)
		}
		for i, r := range rows {
			bids = append(bids, model.Bid{
				ID:        fmt.Sprintf("cli-%d", i),
				HourStart: r.HourStart.In(loc),
				Side:      model.Side(r.Side),
				Price:     r.Price,
				Quantity:  r.Quantity,
			})
		}
	}

	daPrices := loadPrices(*daPath)
	rtSamples := loadPrices(*rtPath)

	engine := clearing.New()
	clears := engine.Clear(bids, daPrices, market.AverageToHourly(rtSamples))
	summary := engine.Summarize(clears)

	printClears(clears)
	printSummary(summary)
	printExtremes(analysis.ComputeExtremes(clears))

	if *outPath != "" {
		if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
			panic(err)
		}
		if err := clearing.WriteClearsCSV(*outPath, clears); err != nil {
			panic(err)
		}
		fmt.Printf("Wrote %d rows to %s\n", len(clears), *outPath)
	}
}

func cmdCutoff(args []string) {
	fs := flag.NewFlagSet("cutoff", flag.ExitOnError)
	dateStr := fs.String("date", "", "Trading date (YYYY-MM-DD)")
	cfgPath := fs.String("config", "", "Optional YAML config")
	_ = fs.Parse(args)

	if *dateStr == "" {
		fmt.Println("--date is required")
		os.Exit(2)
	}

	cfg := loadConfig(*cfgPath)
	calc, err := cfg.CutoffCalculator()
	if err != nil {
		panic(err)
	}
	loc, err := cfg.Location()
	if err != nil {
		panic(err)
	}
	date, err := time.ParseInLocation("2006-01-02", *dateStr, loc)
	if err != nil {
		panic(err)
	}

	status := calc.Status(date)
	fmt.Printf("Cutoff:  %s\n", status.CutoffTime.Format(time.RFC3339))
	fmt.Printf("Now:     %s\n", status.CurrentTime.Format(time.RFC3339))
	fmt.Printf("Status:  %s\n", status.DisplayText)
}

func loadConfig(path string) *config.Config {
	if path == "" {
		return config.Default()
	}
	cfg, err := config.Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

func loadPrices(path string) []model.PricePoint {
	if path == "" {
		return nil
	}
	resp, err := data.LoadGridStatusJSON(path)
	if err != nil {
		panic(err)
	}
	return model.ToPricePoints(resp)
}

func printClears(clears []model.HourlyClear) {
	fmt.Printf("%-25s %10s %12s %12s %12s\n", "hour_start", "da_price", "avg_rt", "cleared_mwh", "pnl")
	for _, c := range clears {
		fmt.Printf("%-25s %10s %12s %12.1f %12.2f\n",
			c.HourStart.Format(time.RFC3339),
			optStr(c.DAPrice),
			optStr(c.AvgRTPrice),
			c.ClearedQty,
			c.PnL)
	}
}

func printSummary(s model.ClearingSummary) {
	fmt.Printf("\nTotal PnL=$%.2f Volume=%.1fMWh (long=%.1f short=%.1f) ActiveHours=%d AvgPnL/hr=$%.2f\n",
		s.TotalPnL, s.TotalVolume, s.LongVolume, s.ShortVolume, s.HoursWithPosition, s.AvgPnLPerActiveHour)
}

func printExtremes(x analysis.HourExtremes) {
	if x.Best != nil {
		fmt.Printf("Best hour:  %s ($%.2f)\n", x.Best.HourStart.Format("15:04"), x.Best.PnL)
	}
	if x.Worst != nil {
		fmt.Printf("Worst hour: %s ($%.2f)\n", x.Worst.HourStart.Format("15:04"), x.Worst.PnL)
	}
}

func optStr(x *float64) string {
	if x == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *x)
}
