package strategy

import (
	"github.com/evdnx/goqs/config"
	"github.com/evdnx/goqs/logger"
	"github.com/evdnx/goqs/quant"
	"github.com/evdnx/goqs/types"
)

// RSIThreshold buys when RSI crosses below the oversold level, at most
// once per trading day. The evaluator's intraday window is cleared when a
// new day arms, so the oscillator restarts from the session's own prices.
type RSIThreshold struct {
	*BaseStrategy
}

func NewRSIThreshold(client quant.Client, eval quant.Evaluator, cfg config.StrategyConfig,
	log logger.Logger) (*RSIThreshold, error) {

	if cfg.RSIPeriod == 0 {
		cfg.RSIPeriod = 14
	}
	if cfg.RSIOversold == 0 {
		cfg.RSIOversold = 30
	}
	if cfg.ExitBandUp == 0 {
		cfg.ExitBandUp = 0.0025
	}
	if cfg.ExitBandDown == 0 {
		cfg.ExitBandDown = 0.0025
	}
	if cfg.Leverage == 0 {
		cfg.Leverage = 1
	}

	period, oversold := cfg.RSIPeriod, cfg.RSIOversold
	rule := Rule{
		Name:                 "rsi_threshold",
		EntryDirection:       types.Buy,
		ExitBandUp:           cfg.ExitBandUp,
		ExitBandDown:         cfg.ExitBandDown,
		Arming:               ArmDayChange,
		ClearCandlesOnNewDay: true,
		Entry: func(e quant.Evaluator, s *State, _ types.Tick) bool {
			rsi := e.RSI(period)
			return rsi > 0 && s.CrossBelow.Evaluate(rsi, oversold)
		},
		Observe: func(e quant.Evaluator) []logger.Field {
			return []logger.Field{logger.Float64("rsi", e.RSI(period))}
		},
	}

	base, err := NewBaseStrategy(client, eval, cfg, rule, log)
	if err != nil {
		return nil, err
	}
	return &RSIThreshold{BaseStrategy: base}, nil
}
