package config

import (
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// StrategyConfig holds all tunable parameters for a strategy. Not every
// strategy reads every field; each constructor fills the fields it cares
// about with its own defaults when they are zero.
type StrategyConfig struct {
	Symbol   string  `yaml:"symbol"`
	Capital  float64 `yaml:"capital"`  // notional allocated to the strategy
	Leverage float64 `yaml:"leverage"` // multiplier applied to the sized quantity

	// Exit bands, as fractions of the entry fill price. A position is
	// closed once price moves up by ExitBandUp or down by ExitBandDown
	// from the average fill.
	ExitBandUp   float64 `yaml:"exit_band_up"`
	ExitBandDown float64 `yaml:"exit_band_down"`

	// Indicator parameters.
	EMAFast     int     `yaml:"ema_fast"`
	EMASlow     int     `yaml:"ema_slow"`
	RSIPeriod   int     `yaml:"rsi_period"`
	RSIOversold float64 `yaml:"rsi_oversold"`

	// GapPct is the minimum open-over-previous-close gap (fraction) for
	// the gap-up entry.
	GapPct float64 `yaml:"gap_pct"`

	// Trend windows (in candles) and minimum strengths on the 0..10
	// scale for the trend-reversal entry.
	TrendLongWindow    int `yaml:"trend_long_window"`
	TrendShortWindow   int `yaml:"trend_short_window"`
	TrendLongStrength  int `yaml:"trend_long_strength"`
	TrendShortStrength int `yaml:"trend_short_strength"`

	// PreloadCandles is how many historical candles to request before a
	// backtest run, so slow indicators are warm from the first tick.
	PreloadCandles int `yaml:"preload_candles"`

	// CandlePeriod is the aggregation bucket for the in-process candle
	// evaluator. In the YAML file both durations are Go duration strings
	// ("30s", "5m"); yaml.v2 cannot decode those into time.Duration, so
	// Load parses them separately.
	CandlePeriod time.Duration `yaml:"-"`

	// LogInterval throttles the per-tick snapshot log line.
	LogInterval time.Duration `yaml:"-"`
}

// Default returns the baseline parameters shared by the strategy family.
func Default(symbol string) StrategyConfig {
	return StrategyConfig{
		Symbol:             symbol,
		Capital:            100_000,
		Leverage:           3,
		ExitBandUp:         0.0025,
		ExitBandDown:       0.0025,
		EMAFast:            50,
		EMASlow:            200,
		RSIPeriod:          14,
		RSIOversold:        30,
		GapPct:             0.005,
		TrendLongWindow:    60,
		TrendShortWindow:   10,
		TrendLongStrength:  7,
		TrendShortStrength: 5,
		CandlePeriod:       time.Minute,
		LogInterval:        time.Minute,
	}
}

// Validate checks that the resolved config is usable. It runs after the
// strategy constructor has applied its defaults, so every bound here is a
// hard requirement.
func (c *StrategyConfig) Validate() error {
	if c.Symbol == "" {
		return errors.New("Symbol is required")
	}
	if c.Capital <= 0 {
		return errors.Errorf("Capital (%v) must be positive", c.Capital)
	}
	if c.Leverage < 1 {
		return errors.Errorf("Leverage (%v) must be >= 1", c.Leverage)
	}
	if c.ExitBandUp <= 0 || c.ExitBandDown <= 0 {
		return errors.Errorf("exit bands (%v/%v) must be positive", c.ExitBandUp, c.ExitBandDown)
	}
	if c.ExitBandUp > 0.2 || c.ExitBandDown > 0.2 {
		return errors.Errorf("exit bands (%v/%v) out of realistic range", c.ExitBandUp, c.ExitBandDown)
	}
	if c.LogInterval < 0 {
		return errors.New("LogInterval cannot be negative")
	}
	return nil
}

// Load reads a YAML config file and applies environment overrides, so a
// deployment can tweak single values without editing the file.
func Load(path string) (StrategyConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return StrategyConfig{}, errors.Wrapf(err, "read config %s", path)
	}
	cfg := Default("")
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return StrategyConfig{}, errors.Wrapf(err, "decode config %s", path)
	}

	// Duration fields come in as strings and are parsed by hand.
	var durs struct {
		CandlePeriod string `yaml:"candle_period"`
		LogInterval  string `yaml:"log_interval"`
	}
	if err := yaml.Unmarshal(raw, &durs); err != nil {
		return StrategyConfig{}, errors.Wrapf(err, "decode config %s", path)
	}
	if durs.CandlePeriod != "" {
		d, err := time.ParseDuration(durs.CandlePeriod)
		if err != nil {
			return StrategyConfig{}, errors.Wrapf(err, "config %s: candle_period", path)
		}
		cfg.CandlePeriod = d
	}
	if durs.LogInterval != "" {
		d, err := time.ParseDuration(durs.LogInterval)
		if err != nil {
			return StrategyConfig{}, errors.Wrapf(err, "config %s: log_interval", path)
		}
		cfg.LogInterval = d
	}

	applyEnv(&cfg)
	return cfg, nil
}

// FromEnv builds a config purely from environment variables, the way the
// strategies are launched in containerized deployments.
func FromEnv() StrategyConfig {
	cfg := Default(getenvDefault("SYMBOL", ""))
	applyEnv(&cfg)
	return cfg
}

func applyEnv(cfg *StrategyConfig) {
	if v := os.Getenv("SYMBOL"); v != "" {
		cfg.Symbol = v
	}
	cfg.Capital = floatFromEnv("CAPITAL", cfg.Capital)
	cfg.Leverage = floatFromEnv("LEVERAGE", cfg.Leverage)
	cfg.ExitBandUp = floatFromEnv("EXIT_BAND_UP", cfg.ExitBandUp)
	cfg.ExitBandDown = floatFromEnv("EXIT_BAND_DOWN", cfg.ExitBandDown)
	cfg.EMAFast = intFromEnv("EMA_FAST", cfg.EMAFast)
	cfg.EMASlow = intFromEnv("EMA_SLOW", cfg.EMASlow)
	cfg.RSIPeriod = intFromEnv("RSI_PERIOD", cfg.RSIPeriod)
	cfg.RSIOversold = floatFromEnv("RSI_OVERSOLD", cfg.RSIOversold)
	cfg.GapPct = floatFromEnv("GAP_PCT", cfg.GapPct)
	cfg.PreloadCandles = intFromEnv("PRELOAD_CANDLES", cfg.PreloadCandles)
	cfg.CandlePeriod = durationFromEnv("CANDLE_PERIOD", cfg.CandlePeriod)
	cfg.LogInterval = durationFromEnv("LOG_INTERVAL", cfg.LogInterval)
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intFromEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func floatFromEnv(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func durationFromEnv(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
