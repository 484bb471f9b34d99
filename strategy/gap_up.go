package strategy

import (
	"github.com/evdnx/goqs/config"
	"github.com/evdnx/goqs/logger"
	"github.com/evdnx/goqs/quant"
	"github.com/evdnx/goqs/types"
)

// GapUp is the short-bias variant: when today opens at or above the
// previous day's high and at least GapPct above the previous close, it
// sells into the gap, once per day. The position is a short, so the entry
// fill direction is Sell and the exit buys it back.
type GapUp struct {
	*BaseStrategy
}

func NewGapUp(client quant.Client, eval quant.Evaluator, cfg config.StrategyConfig,
	log logger.Logger) (*GapUp, error) {

	if cfg.GapPct == 0 {
		cfg.GapPct = 0.005
	}
	if cfg.ExitBandUp == 0 {
		cfg.ExitBandUp = 0.0025
	}
	if cfg.ExitBandDown == 0 {
		cfg.ExitBandDown = 0.0025
	}
	if cfg.PreloadCandles == 0 {
		// Only a few daily candles are needed for the previous-day levels.
		cfg.PreloadCandles = 3
	}

	gap := cfg.GapPct
	rule := Rule{
		Name:           "gap_up",
		EntryDirection: types.Sell,
		ExitBandUp:     cfg.ExitBandUp,
		ExitBandDown:   cfg.ExitBandDown,
		Arming:         ArmDayChange,
		Entry: func(e quant.Evaluator, s *State, _ types.Tick) bool {
			prevHigh := e.PrevDayHigh()
			prevClose := e.PrevDayClose()
			todayOpen := e.TodayOpen()
			return prevHigh > 0 && prevHigh <= todayOpen &&
				prevClose > 0 && todayOpen >= prevClose*(1+gap)
		},
		Observe: func(e quant.Evaluator) []logger.Field {
			return []logger.Field{
				logger.Float64("prev_high", e.PrevDayHigh()),
				logger.Float64("prev_low", e.PrevDayLow()),
				logger.Float64("prev_close", e.PrevDayClose()),
				logger.Float64("today_open", e.TodayOpen()),
			}
		},
	}

	base, err := NewBaseStrategy(client, eval, cfg, rule, log)
	if err != nil {
		return nil, err
	}
	return &GapUp{BaseStrategy: base}, nil
}
