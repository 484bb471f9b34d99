package strategy

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/evdnx/goqs/config"
	"github.com/evdnx/goqs/logger"
	"github.com/evdnx/goqs/metrics"
	"github.com/evdnx/goqs/quant"
	"github.com/evdnx/goqs/risk"
	"github.com/evdnx/goqs/types"
)

// BaseStrategy is the shared decision engine. A variant is a BaseStrategy
// plus a Rule; everything else — tick handling, arming, order placement,
// fill reconciliation, persistence and statistics — is common.
//
// The engine delivers the tick and order callbacks serially per strategy
// instance. The fill history append is the one path exercised from both
// callbacks, so it alone is guarded by histMu; the remaining state fields
// rely on the serial-delivery guarantee.
type BaseStrategy struct {
	Client quant.Client
	Eval   quant.Evaluator
	Log    logger.Logger
	Cfg    config.StrategyConfig
	Rule   Rule

	state  *State
	histMu sync.Mutex
}

// NewBaseStrategy validates the config, restores (or resets) the state
// snapshot and subscribes the instrument. Concrete variants call this from
// their constructors after applying their defaults.
func NewBaseStrategy(client quant.Client, eval quant.Evaluator, cfg config.StrategyConfig,
	rule Rule, log logger.Logger) (*BaseStrategy, error) {

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "%s: config", rule.Name)
	}
	if rule.Entry == nil {
		return nil, errors.Errorf("%s: rule has no entry condition", rule.Name)
	}
	if log == nil {
		log = logger.NewNop()
	}

	st, err := loadState(client)
	if err != nil {
		// Degraded to a fresh state; the strategy still starts.
		log.Error("state_load_failed", logger.String("strategy", rule.Name), logger.Err(err))
	}

	b := &BaseStrategy{
		Client: client,
		Eval:   eval,
		Log:    log,
		Cfg:    cfg,
		Rule:   rule,
		state:  st,
	}

	if err := client.SubscribeSymbols(cfg.Symbol); err != nil {
		return nil, errors.Wrapf(err, "%s: subscribe %s", rule.Name, cfg.Symbol)
	}
	return b, nil
}

// OnTick is the per-tick callback. Entry and exit are mutually exclusive
// within one tick: when an entry fires the exit band is not checked, even
// if a position happens to be held. That mirrors the behavior this engine
// replaces and is kept deliberately.
func (b *BaseStrategy) OnTick(tick types.Tick) {
	defer b.recoverCallback("tick")

	s := b.state
	prev := s.CurrentTick
	s.CurrentTick = &tick

	b.updateArming(prev, tick)
	b.logSnapshot(tick)

	if !b.tryEnter(tick) {
		b.tryExit(tick)
	}

	b.persist()
}

// OnOrderUpdate reconciles an asynchronous order-status notification.
// Only completed fills mutate position state; everything else is logged
// when it concerns the pending order and otherwise ignored.
func (b *BaseStrategy) OnOrderUpdate(order types.Order) {
	defer b.recoverCallback("order_update")

	s := b.state
	if order.Status == types.OrderCompleted {
		if !b.appendFill(order) {
			b.Log.Warn("duplicate_fill_ignored",
				logger.String("strategy", b.Rule.Name),
				logger.String("order_id", order.OrderID),
			)
			b.persist()
			return
		}

		if order.Direction == b.Rule.EntryDirection {
			s.Holding = true
			s.CurrentOrder = &order
			metrics.PositionOpen.WithLabelValues(b.Rule.Name).Set(1)
		} else {
			s.Holding = false
			s.CurrentOrder = nil
			metrics.PositionOpen.WithLabelValues(b.Rule.Name).Set(0)
		}
		s.PendingOrderID = ""

		b.Log.Info("fill_applied",
			logger.String("strategy", b.Rule.Name),
			logger.String("order_id", order.OrderID),
			logger.String("direction", string(order.Direction)),
			logger.Float64("qty", order.FilledQuantity),
			logger.Float64("avg_price", order.AveragePrice),
			logger.String("symbol", order.Symbol),
		)

		metrics.FillsApplied.WithLabelValues(b.Rule.Name).Inc()
		b.publishStats()
	} else if order.Tag != "" && order.Tag == s.PendingOrderID {
		// Rejected/cancelled/partial updates are no-ops for position
		// state, but a dead pending order blocks this strategy until a
		// completion arrives, so at least make it visible.
		b.Log.Warn("unhandled_order_status",
			logger.String("strategy", b.Rule.Name),
			logger.String("order_id", order.OrderID),
			logger.String("status", string(order.Status)),
		)
	}

	b.persist()
}

// PrimeBacktest preloads historical candles ending one day before the
// backtest start so slow indicators are warm from the first simulated
// tick. Variants with PreloadCandles == 0 skip it.
func (b *BaseStrategy) PrimeBacktest(start time.Time) error {
	if b.Cfg.PreloadCandles <= 0 {
		return nil
	}
	return b.Eval.PreloadCandles(b.Cfg.PreloadCandles, start.AddDate(0, 0, -1))
}

// State returns the live snapshot. Exposed for the engine loop and tests;
// callers must not mutate it.
func (b *BaseStrategy) State() *State { return b.state }

// Stats folds the full fill history into the published statistics map:
// buy and sell notionals for the strategy's symbol, with the unmatched
// side valued at the current tick's price (mark-to-market).
func (b *BaseStrategy) Stats() map[string]float64 {
	s := b.state

	var ltp float64
	if s.CurrentTick != nil {
		ltp = s.CurrentTick.LTP
	}

	var buyVal, sellVal, buyQty, sellQty float64
	b.histMu.Lock()
	for _, o := range s.Orders {
		if o.Status != types.OrderCompleted || o.Symbol != b.Cfg.Symbol {
			continue
		}
		switch o.Direction {
		case types.Buy:
			buyVal += o.FilledQuantity * o.AveragePrice
			buyQty += o.FilledQuantity
		case types.Sell:
			sellVal += o.FilledQuantity * o.AveragePrice
			sellQty += o.FilledQuantity
		}
	}
	orderCount := len(s.Orders)
	b.histMu.Unlock()

	if sellQty < buyQty {
		sellVal += (buyQty - sellQty) * ltp
	} else if buyQty < sellQty {
		buyVal += (sellQty - buyQty) * ltp
	}

	pl := sellVal - buyVal
	return map[string]float64{
		"Capital":         b.Cfg.Capital,
		"Order Count":     float64(orderCount),
		"PL":              pl,
		"Portfolio Value": b.Cfg.Capital + pl,
	}
}

// appendFill adds a completed fill to the history under the shared lock.
// Returns false when the same order id was already recorded, which makes
// redelivery after a reconnect harmless.
func (b *BaseStrategy) appendFill(order types.Order) bool {
	b.histMu.Lock()
	defer b.histMu.Unlock()
	for _, o := range b.state.Orders {
		if o.OrderID == order.OrderID {
			return false
		}
	}
	b.state.Orders = append(b.state.Orders, order)
	return true
}

func (b *BaseStrategy) tryEnter(tick types.Tick) bool {
	s := b.state
	if s.Holding || s.PendingOrderID != "" || !b.armed() {
		return false
	}
	if !b.Rule.Entry(b.Eval, s, tick) {
		return false
	}
	b.disarm()

	qty := risk.OrderQty(b.Cfg.Capital, tick.LTP, b.Cfg.Leverage)
	if qty <= 0 {
		b.Log.Warn("entry_skipped_zero_qty",
			logger.String("strategy", b.Rule.Name),
			logger.Float64("ltp", tick.LTP),
		)
		return false
	}

	b.placeOrder(types.PlaceOrderRequest{
		Type:      types.Market,
		Price:     tick.LTP,
		Quantity:  qty,
		Symbol:    b.Cfg.Symbol,
		Direction: b.Rule.EntryDirection,
		Timestamp: tick.Timestamp,
	}, tick)
	return true
}

func (b *BaseStrategy) tryExit(tick types.Tick) {
	s := b.state
	if !s.Holding || s.CurrentOrder == nil || s.PendingOrderID != "" {
		return
	}
	if !risk.BandBreached(s.CurrentOrder.AveragePrice, tick.LTP, b.Rule.ExitBandUp, b.Rule.ExitBandDown) {
		return
	}

	b.placeOrder(types.PlaceOrderRequest{
		Type:         types.Market,
		Price:        tick.LTP,
		TriggerPrice: tick.LTP,
		Quantity:     s.CurrentOrder.FilledQuantity,
		Symbol:       b.Cfg.Symbol,
		Direction:    b.Rule.EntryDirection.Inverse(),
		Timestamp:    tick.Timestamp,
	}, tick)
}

// placeOrder assigns a fresh idempotency tag, marks the order pending and
// submits it. State is persisted right after submission, before any
// confirmation arrives. A submission failure is logged and the callback
// carries on; the already-mutated pending tag is not rolled back.
func (b *BaseStrategy) placeOrder(req types.PlaceOrderRequest, tick types.Tick) {
	s := b.state
	req.Tag = uuid.New().String()
	req.Venue = b.venue()
	s.PendingOrderID = req.Tag

	if err := b.Client.PlaceOrder(req); err != nil {
		b.Log.Error("order_submit_failed",
			logger.String("strategy", b.Rule.Name),
			logger.String("symbol", req.Symbol),
			logger.String("direction", string(req.Direction)),
			logger.Float64("qty", req.Quantity),
			logger.Err(err),
		)
		return
	}
	b.persist()

	metrics.OrdersSubmitted.WithLabelValues(b.Rule.Name, string(req.Direction)).Inc()
	b.Log.Info("order_placed",
		logger.String("strategy", b.Rule.Name),
		logger.String("symbol", req.Symbol),
		logger.String("direction", string(req.Direction)),
		logger.Float64("qty", req.Quantity),
		logger.Float64("approx_price", tick.LTP),
		logger.Time("tick_time", tick.Timestamp),
		logger.String("tag", req.Tag),
	)
}

func (b *BaseStrategy) updateArming(prev *types.Tick, tick types.Tick) {
	s := b.state
	switch b.Rule.Arming {
	case ArmDayChange:
		dayChanged := prev != nil && !sameDay(prev.Timestamp, tick.Timestamp)
		if prev == nil || (!s.DayArmed && dayChanged && !s.Holding) {
			s.DayArmed = true
			if b.Rule.ClearCandlesOnNewDay {
				b.Eval.ClearCandles()
			}
		}
	case ArmTrendReversal:
		longDir, _ := b.Eval.Trend(b.Cfg.TrendLongWindow)
		shortDir, _ := b.Eval.Trend(b.Cfg.TrendShortWindow)
		if !s.DirectionReversed && longDir == types.TrendUp && shortDir == types.TrendDown {
			s.DirectionReversed = true
		}
	}
}

func (b *BaseStrategy) armed() bool {
	switch b.Rule.Arming {
	case ArmDayChange:
		return b.state.DayArmed
	case ArmTrendReversal:
		return b.state.DirectionReversed
	default:
		return true
	}
}

func (b *BaseStrategy) disarm() {
	switch b.Rule.Arming {
	case ArmDayChange:
		b.state.DayArmed = false
	case ArmTrendReversal:
		b.state.DirectionReversed = false
	}
}

// logSnapshot emits the indicator snapshot line, throttled to one entry
// per LogInterval of tick time.
func (b *BaseStrategy) logSnapshot(tick types.Tick) {
	s := b.state
	if s.LastTick != nil && tick.Timestamp.Sub(s.LastTick.Timestamp) < b.Cfg.LogInterval {
		return
	}
	fields := []logger.Field{
		logger.String("strategy", b.Rule.Name),
		logger.Time("ts", tick.Timestamp),
		logger.Float64("ltp", tick.LTP),
	}
	if b.Rule.Observe != nil {
		fields = append(fields, b.Rule.Observe(b.Eval)...)
	}
	b.Log.Info("tick", fields...)
	s.LastTick = &tick
}

func (b *BaseStrategy) publishStats() {
	stats := b.Stats()
	if err := b.Client.PublishStats(stats); err != nil {
		b.Log.Error("publish_stats_failed",
			logger.String("strategy", b.Rule.Name),
			logger.Err(err),
		)
	}
	metrics.PL.WithLabelValues(b.Rule.Name).Set(stats["PL"])
	metrics.PortfolioValue.WithLabelValues(b.Rule.Name).Set(stats["Portfolio Value"])
}

func (b *BaseStrategy) persist() {
	if err := saveState(b.Client, b.state); err != nil {
		b.Log.Error("state_persist_failed",
			logger.String("strategy", b.Rule.Name),
			logger.Err(err),
		)
	}
}

func (b *BaseStrategy) venue() types.TradeVenue {
	if b.Client.LaunchMode() == types.ModeBacktest {
		return types.VenuePaper
	}
	return types.VenueLive
}

// recoverCallback keeps one failing tick or order update from taking the
// whole reactor down: the panic is logged and swallowed.
func (b *BaseStrategy) recoverCallback(where string) {
	if r := recover(); r != nil {
		b.Log.Error("callback_panic",
			logger.String("strategy", b.Rule.Name),
			logger.String("callback", where),
			logger.Any("panic", r),
		)
	}
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
