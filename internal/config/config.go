package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"ForexSentinel/internal/model"
)

// JobConfig schedules the analyses of one timeframe.
type JobConfig struct {
	Timeframe string `yaml:"timeframe"`
	Cron      string `yaml:"cron"`
	Trend     bool   `yaml:"trend"`
	AOI       bool   `yaml:"aoi"`
	Entry     bool   `yaml:"entry"`
}

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		BaseURL     string `yaml:"base_url"`
		APIKey      string `yaml:"api_key"`
		CandleCount int    `yaml:"candle_count"`
	} `yaml:"data_source"`
	Symbols  []string `yaml:"symbols"`
	Schedule struct {
		MaxParallel int         `yaml:"max_parallel"`
		Jobs        []JobConfig `yaml:"jobs"`
	} `yaml:"schedule"`
	Swing map[string]model.SwingParams `yaml:"swing"`
	AOI   map[string]model.AOISettings `yaml:"aoi"`
	Entry struct {
		TrendAlignmentTimeframes []string `yaml:"trend_alignment_timeframes"`
		ZoneTimeframes           []string `yaml:"zone_timeframes"`
		CandleCount              int      `yaml:"candle_count"`
	} `yaml:"entry"`
	Database struct {
		Driver      string `yaml:"driver"`
		SQLitePath  string `yaml:"sqlite_path"`
		PostgresDSN string `yaml:"postgres_dsn"`
	} `yaml:"database"`
	API struct {
		Addr string `yaml:"addr"`
	} `yaml:"api"`
	Log struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("DATA_BASE_URL"); v != "" {
		c.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_API_KEY"); v != "" {
		c.DataSource.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv("DB_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		c.Database.PostgresDSN = v
	}
	if v := os.Getenv("API_ADDR"); v != "" {
		c.API.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("MAX_PARALLEL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Schedule.MaxParallel = n
		}
	}
	if v := os.Getenv("SYMBOLS"); v != "" {
		var symbols []string
		for _, s := range strings.Split(v, ",") {
			if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
				symbols = append(symbols, s)
			}
		}
		c.Symbols = symbols
	}
}

func (c *Config) applyDefaults() {
	if len(c.Symbols) == 0 {
		c.Symbols = append([]string(nil), DefaultSymbols...)
	}
	if c.DataSource.CandleCount == 0 {
		c.DataSource.CandleCount = 200
	}
	if c.Schedule.MaxParallel <= 0 {
		c.Schedule.MaxParallel = 4
	}
	if len(c.Schedule.Jobs) == 0 {
		c.Schedule.Jobs = append([]JobConfig(nil), DefaultJobs...)
	}
	if c.Swing == nil {
		c.Swing = make(map[string]model.SwingParams)
	}
	for tf, p := range DefaultSwingParams {
		if _, ok := c.Swing[tf]; !ok {
			c.Swing[tf] = p
		}
	}
	if c.AOI == nil {
		c.AOI = make(map[string]model.AOISettings)
	}
	for tf, s := range DefaultAOISettings {
		if _, ok := c.AOI[tf]; !ok {
			c.AOI[tf] = s
		}
	}
	for tf, s := range c.AOI {
		s.Timeframe = tf
		if s.BaseTimeframe == "" {
			s.BaseTimeframe = tf
		}
		c.AOI[tf] = s
	}
	if len(c.Entry.TrendAlignmentTimeframes) == 0 {
		c.Entry.TrendAlignmentTimeframes = []string{"4H", "1D", "1W"}
	}
	if len(c.Entry.ZoneTimeframes) == 0 {
		c.Entry.ZoneTimeframes = []string{"4H", "1D"}
	}
	if c.Entry.CandleCount == 0 {
		c.Entry.CandleCount = 30
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/forex_sentinel.db"
	}
	if c.API.Addr == "" {
		c.API.Addr = ":8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if len(c.Symbols) == 0 {
		return fmt.Errorf("at least one symbol is required")
	}
	if len(c.Schedule.Jobs) == 0 {
		return fmt.Errorf("schedule.jobs must not be empty")
	}
	for _, job := range c.Schedule.Jobs {
		if job.Cron == "" {
			return fmt.Errorf("schedule job %s: cron is required", job.Timeframe)
		}
		if _, ok := c.Swing[job.Timeframe]; !ok {
			return fmt.Errorf("schedule job %s: no swing params", job.Timeframe)
		}
		if job.AOI {
			s, ok := c.AOI[job.Timeframe]
			if !ok {
				return fmt.Errorf("schedule job %s: no aoi settings", job.Timeframe)
			}
			if err := validateAOI(s); err != nil {
				return fmt.Errorf("aoi.%s: %w", job.Timeframe, err)
			}
		}
	}
	for _, tf := range c.Entry.ZoneTimeframes {
		if _, ok := c.AOI[tf]; !ok {
			return fmt.Errorf("entry.zone_timeframes: no aoi settings for %s", tf)
		}
	}
	switch c.Database.Driver {
	case "sqlite", "none":
	case "postgres":
		if c.Database.PostgresDSN == "" {
			return fmt.Errorf("database.postgres_dsn is required for postgres driver")
		}
	default:
		return fmt.Errorf("database.driver %q is not supported", c.Database.Driver)
	}
	return nil
}

// NotifierEnabled reports whether Telegram credentials are present.
func (c *Config) NotifierEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

func validateAOI(s model.AOISettings) error {
	if s.TimeframeHours <= 0 {
		return fmt.Errorf("timeframe_hours must be positive")
	}
	if s.MinTouches < 1 {
		return fmt.Errorf("min_touches must be at least 1")
	}
	if s.MinRangePips < 0 {
		return fmt.Errorf("min_range_pips must not be negative")
	}
	if s.MaxZonesPerSymbol <= 0 {
		return fmt.Errorf("max_zones_per_symbol must be positive")
	}
	if s.MaxHeightPipsFloor <= 0 {
		return fmt.Errorf("max_height_pips_floor must be positive")
	}
	if s.MinHeightPipsFloor > s.MaxHeightPipsFloor {
		return fmt.Errorf("min_height_pips_floor exceeds max_height_pips_floor")
	}
	if len(s.TrendAlignmentTimeframes) < 2 {
		return fmt.Errorf("trend_alignment_timeframes needs at least two timeframes")
	}
	return nil
}
