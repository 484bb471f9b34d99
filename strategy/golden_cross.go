package strategy

import (
	"github.com/evdnx/goqs/config"
	"github.com/evdnx/goqs/logger"
	"github.com/evdnx/goqs/quant"
	"github.com/evdnx/goqs/types"
)

// GoldenCross buys when the fast EMA crosses above the slow EMA. The
// crossover detector is edge-triggered, so a relation that merely stays
// satisfied never re-enters. Exit band is asymmetric: a tight take-profit
// and a wider stop.
type GoldenCross struct {
	*BaseStrategy
}

// NewGoldenCross applies the variant defaults (EMA 50/200, +0.1%/-0.25%
// exit, 200 preload candles) to any zero-valued config fields and builds
// the engine.
func NewGoldenCross(client quant.Client, eval quant.Evaluator, cfg config.StrategyConfig,
	log logger.Logger) (*GoldenCross, error) {

	if cfg.EMAFast == 0 {
		cfg.EMAFast = 50
	}
	if cfg.EMASlow == 0 {
		cfg.EMASlow = 200
	}
	if cfg.ExitBandUp == 0 {
		cfg.ExitBandUp = 0.001
	}
	if cfg.ExitBandDown == 0 {
		cfg.ExitBandDown = 0.0025
	}
	if cfg.PreloadCandles == 0 {
		cfg.PreloadCandles = 200
	}

	fast, slow := cfg.EMAFast, cfg.EMASlow
	rule := Rule{
		Name:           "golden_cross",
		EntryDirection: types.Buy,
		ExitBandUp:     cfg.ExitBandUp,
		ExitBandDown:   cfg.ExitBandDown,
		Arming:         ArmAlways,
		Entry: func(e quant.Evaluator, s *State, _ types.Tick) bool {
			emaFast := e.EMA(fast)
			emaSlow := e.EMA(slow)
			return emaFast > 0 && emaSlow > 0 && s.CrossAbove.Evaluate(emaFast, emaSlow)
		},
		Observe: func(e quant.Evaluator) []logger.Field {
			return []logger.Field{
				logger.Float64("ema_fast", e.EMA(fast)),
				logger.Float64("ema_slow", e.EMA(slow)),
			}
		},
	}

	base, err := NewBaseStrategy(client, eval, cfg, rule, log)
	if err != nil {
		return nil, err
	}
	return &GoldenCross{BaseStrategy: base}, nil
}
