package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"virtual-energy-trader/internal/api/handlers"
	"virtual-energy-trader/internal/api/middleware"
	"virtual-energy-trader/internal/config"
	"virtual-energy-trader/internal/store"
)

func main() {
	// Configuration: CONFIG_PATH names a YAML file; otherwise ERCOT defaults.
	var cfg *config.Config
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			log.Fatalf("Failed to load config %s: %v", path, err)
		}
		cfg = loaded
		log.Printf("Loaded config from %s", path)
	} else {
		cfg = config.Default()
	}

	port := os.Getenv("API_PORT")
	if port == "" {
		port = cfg.Server.Port
	}

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("Invalid market timezone: %v", err)
	}
	cutoff, err := cfg.CutoffCalculator()
	if err != nil {
		log.Fatalf("Failed to build cutoff calculator: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0o755); err != nil {
		log.Fatalf("Failed to create store directory: %v", err)
	}
	bidStore, err := store.Open(cfg.Store.Path, loc)
	if err != nil {
		log.Fatalf("Failed to open bid store: %v", err)
	}
	defer bidStore.Close()
	log.Printf("Bid store: %s", cfg.Store.Path)

	// Set up Gin router
	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	router.Use(middleware.CORS())
	router.Use(middleware.ErrorHandler())

	bidHandler := handlers.NewBidHandler(bidStore, cutoff, loc)
	simulateHandler := handlers.NewSimulateHandler(bidStore, cfg, loc)
	marketHandler := handlers.NewMarketHandler(cutoff, cfg, loc)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.POST("/bids", bidHandler.CreateBid)
		api.GET("/bids", bidHandler.ListBids)
		api.DELETE("/bids/:id", bidHandler.DeleteBid)

		api.POST("/simulate", simulateHandler.Simulate)

		api.GET("/cutoff", marketHandler.GetCutoff)
		api.GET("/settlement-points", marketHandler.ListSettlementPoints)
		api.GET("/datasets", marketHandler.ListDatasets)
	}

	addr := fmt.Sprintf(":%s", port)
	log.Printf("Starting API server on %s (market tz=%s, cutoff=%02d:%02d)",
		addr, cfg.Market.Timezone, cfg.Market.CutoffHour, cfg.Market.CutoffMinute)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
