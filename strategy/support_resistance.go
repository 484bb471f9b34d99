package strategy

import (
	"github.com/evdnx/goqs/config"
	"github.com/evdnx/goqs/logger"
	"github.com/evdnx/goqs/quant"
	"github.com/evdnx/goqs/types"
)

// SupportResistance buys a breakout: the traded price crossing above the
// previous day's high (the resistance level), edge-triggered and at most
// once per day. The previous day's low serves as the support reference in
// the snapshot log.
type SupportResistance struct {
	*BaseStrategy
}

func NewSupportResistance(client quant.Client, eval quant.Evaluator, cfg config.StrategyConfig,
	log logger.Logger) (*SupportResistance, error) {

	if cfg.ExitBandUp == 0 {
		cfg.ExitBandUp = 0.0025
	}
	if cfg.ExitBandDown == 0 {
		cfg.ExitBandDown = 0.0025
	}
	if cfg.PreloadCandles == 0 {
		cfg.PreloadCandles = 3
	}

	rule := Rule{
		Name:           "support_resistance",
		EntryDirection: types.Buy,
		ExitBandUp:     cfg.ExitBandUp,
		ExitBandDown:   cfg.ExitBandDown,
		Arming:         ArmDayChange,
		Entry: func(e quant.Evaluator, s *State, tick types.Tick) bool {
			resistance := e.PrevDayHigh()
			if resistance <= 0 {
				return false
			}
			return s.CrossAbove.Evaluate(tick.LTP, resistance)
		},
		Observe: func(e quant.Evaluator) []logger.Field {
			return []logger.Field{
				logger.Float64("resistance", e.PrevDayHigh()),
				logger.Float64("support", e.PrevDayLow()),
			}
		},
	}

	base, err := NewBaseStrategy(client, eval, cfg, rule, log)
	if err != nil {
		return nil, err
	}
	return &SupportResistance{BaseStrategy: base}, nil
}
