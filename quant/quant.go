// Package quant defines the contract between the strategies and the remote
// quant engine. The engine owns market data delivery, order execution, the
// backtest replay scheduler and durable storage; strategies only see the
// two interfaces below. Transport and authentication are the engine's
// concern and have no surface here.
package quant

import (
	"time"

	"github.com/evdnx/goqs/types"
)

// StateKey is the key under which a strategy snapshots its state in the
// engine's key/value store.
const StateKey = "state"

// Client is the engine-facing side of a strategy. Calls are synchronous
// from the strategy's point of view; order results arrive later through
// the order-update callback.
type Client interface {
	LaunchMode() types.LaunchMode

	// SubscribeSymbols registers interest in one or more instruments.
	// Ticks for subscribed instruments are delivered to the strategy's
	// tick handler.
	SubscribeSymbols(symbols ...string) error

	// PlaceOrder submits an order request. Fire-and-forget: the only
	// acknowledgement is the eventual order-update callback carrying the
	// request's Tag.
	PlaceOrder(req types.PlaceOrderRequest) error

	// GetState / SetState access the engine's opaque per-strategy
	// key/value snapshot store. GetState returns a nil slice when the key
	// has never been written.
	GetState(key string) ([]byte, error)
	SetState(key string, value []byte) error

	// PublishStats exports a statistics snapshot for external
	// observability dashboards.
	PublishStats(stats map[string]float64) error
}

// Evaluator exposes the indicator snapshot for the instrument a strategy
// subscribed to. Values are time-aligned with the tick currently being
// processed. A non-positive value means the indicator has not warmed up
// yet and must be treated as "condition not satisfied", never as an error.
type Evaluator interface {
	EMA(period int) float64
	RSI(period int) float64

	// Trend classifies the last window candles as up or down with an
	// integer strength on a 0..10 scale.
	Trend(window int) (types.TrendDirection, int)

	PrevDayHigh() float64
	PrevDayLow() float64
	PrevDayClose() float64
	TodayOpen() float64

	// PreloadCandles seeds the evaluator with count historical candles
	// ending at end, so slow indicators are meaningful from the first
	// tick of a backtest.
	PreloadCandles(count int, end time.Time) error

	// ClearCandles drops the accumulated intraday window.
	ClearCandles()
}

// TickHandler and OrderHandler are the callbacks the engine drives. The
// engine delivers tick and order callbacks serially per strategy instance;
// handlers rely on that and do not synchronize against each other beyond
// the fill-history lock.
type TickHandler interface {
	OnTick(tick types.Tick)
}

type OrderHandler interface {
	OnOrderUpdate(order types.Order)
}

// Strategy is what a runnable strategy exposes to the engine loop.
type Strategy interface {
	TickHandler
	OrderHandler

	// PrimeBacktest is called once before a backtest starts streaming,
	// with the requested start date.
	PrimeBacktest(start time.Time) error
}
