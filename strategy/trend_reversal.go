package strategy

import (
	"github.com/evdnx/goqs/config"
	"github.com/evdnx/goqs/logger"
	"github.com/evdnx/goqs/quant"
	"github.com/evdnx/goqs/types"
)

// TrendReversal buys a strongly falling instrument the moment its short
// trend turns up. The entry is gated by a latch: the long trend must first
// have been up while the short trend was down, which marks a completed
// reversal cycle and keeps the entry from firing on every weak bounce.
// Exit stop is wider than the take-profit (+0.25%/-0.5%).
type TrendReversal struct {
	*BaseStrategy
}

func NewTrendReversal(client quant.Client, eval quant.Evaluator, cfg config.StrategyConfig,
	log logger.Logger) (*TrendReversal, error) {

	if cfg.TrendLongWindow == 0 {
		cfg.TrendLongWindow = 60
	}
	if cfg.TrendShortWindow == 0 {
		cfg.TrendShortWindow = 10
	}
	if cfg.TrendLongStrength == 0 {
		cfg.TrendLongStrength = 7
	}
	if cfg.TrendShortStrength == 0 {
		cfg.TrendShortStrength = 5
	}
	if cfg.ExitBandUp == 0 {
		cfg.ExitBandUp = 0.0025
	}
	if cfg.ExitBandDown == 0 {
		cfg.ExitBandDown = 0.005
	}

	longW, shortW := cfg.TrendLongWindow, cfg.TrendShortWindow
	longMin, shortMin := cfg.TrendLongStrength, cfg.TrendShortStrength
	rule := Rule{
		Name:           "trend_reversal",
		EntryDirection: types.Buy,
		ExitBandUp:     cfg.ExitBandUp,
		ExitBandDown:   cfg.ExitBandDown,
		Arming:         ArmTrendReversal,
		Entry: func(e quant.Evaluator, _ *State, _ types.Tick) bool {
			longDir, longStrength := e.Trend(longW)
			shortDir, shortStrength := e.Trend(shortW)
			return longDir == types.TrendDown && longStrength >= longMin &&
				shortDir == types.TrendUp && shortStrength >= shortMin
		},
		Observe: func(e quant.Evaluator) []logger.Field {
			longDir, longStrength := e.Trend(longW)
			shortDir, shortStrength := e.Trend(shortW)
			return []logger.Field{
				logger.Int("long_dir", int(longDir)),
				logger.Int("long_strength", longStrength),
				logger.Int("short_dir", int(shortDir)),
				logger.Int("short_strength", shortStrength),
			}
		},
	}

	base, err := NewBaseStrategy(client, eval, cfg, rule, log)
	if err != nil {
		return nil, err
	}
	return &TrendReversal{BaseStrategy: base}, nil
}
