package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"virtual-energy-trader/internal/data"
	"virtual-energy-trader/internal/market"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	Market MarketConfig `yaml:"market"`
	Data   DataConfig   `yaml:"data"`
	Store  StoreConfig  `yaml:"store"`
	Server ServerConfig `yaml:"server"`
}

type MarketConfig struct {
	Timezone        string `yaml:"timezone"`
	CutoffHour      int    `yaml:"cutoff_hour"`
	CutoffMinute    int    `yaml:"cutoff_minute"`
	SettlementPoint string `yaml:"settlement_point"`
}

type DataConfig struct {
	BaseURL         string `yaml:"base_url"`
	DayAheadDataset string `yaml:"day_ahead_dataset"`
	RealTimeDataset string `yaml:"real_time_dataset"`
}

type StoreConfig struct {
	Path string `yaml:"path"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

// Default returns a ready-to-use ERCOT configuration.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads, defaults, and validates a YAML config file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Market.Timezone == "" {
		c.Market.Timezone = market.Timezone
	}
	if c.Market.CutoffHour == 0 && c.Market.CutoffMinute == 0 {
		c.Market.CutoffHour = market.DefaultCutoffHour
		c.Market.CutoffMinute = market.DefaultCutoffMinute
	}
	if c.Market.SettlementPoint == "" {
		c.Market.SettlementPoint = "HB_NORTH"
	}
	if c.Data.DayAheadDataset == "" {
		c.Data.DayAheadDataset = data.DatasetDayAheadSPP
	}
	if c.Data.RealTimeDataset == "" {
		c.Data.RealTimeDataset = data.DatasetRealTimeLMP
	}
	if c.Store.Path == "" {
		c.Store.Path = "./data/bids.db"
	}
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if _, err := time.LoadLocation(c.Market.Timezone); err != nil {
		return fmt.Errorf("market.timezone invalid: %w", err)
	}
	if c.Market.CutoffHour < 0 || c.Market.CutoffHour > 23 {
		return errors.New("market.cutoff_hour must be in [0, 23]")
	}
	if c.Market.CutoffMinute < 0 || c.Market.CutoffMinute > 59 {
		return errors.New("market.cutoff_minute must be in [0, 59]")
	}
	return nil
}

// Location resolves the configured market timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Market.Timezone)
}

// CutoffCalculator builds the order-entry cutoff calculator from config.
func (c *Config) CutoffCalculator() (*market.CutoffCalculator, error) {
	loc, err := c.Location()
	if err != nil {
		return nil, err
	}
	calc := market.NewCutoffCalculator(loc)
	calc.Hour = c.Market.CutoffHour
	calc.Minute = c.Market.CutoffMinute
	return calc, nil
}
