package types

import (
	"fmt"
	"time"
)

type OrderDirection string

const (
	Buy  OrderDirection = "BUY"
	Sell OrderDirection = "SELL"
)

// Inverse returns the opposite direction, used when closing a position.
func (d OrderDirection) Inverse() OrderDirection {
	if d == Buy {
		return Sell
	}
	return Buy
}

type OrderStatus string

const (
	OrderOpen            OrderStatus = "OPEN"
	OrderCompleted       OrderStatus = "COMPLETED"
	OrderPartiallyFilled OrderStatus = "PARTIALLY_FILLED"
	OrderCancelled       OrderStatus = "CANCELLED"
	OrderRejected        OrderStatus = "REJECTED"
)

type OrderType string

const (
	Market OrderType = "MARKET"
	Limit  OrderType = "LIMIT"
)

// TradeVenue selects where an order is routed. Paper is used for backtests,
// Live routes to the configured brokerage.
type TradeVenue string

const (
	VenuePaper TradeVenue = "PAPER"
	VenueLive  TradeVenue = "LIVE"
)

// LaunchMode governs order routing and whether persisted state is resumed.
// Backtests always start from a fresh state.
type LaunchMode string

const (
	ModeBacktest LaunchMode = "BACKTEST"
	ModeLive     LaunchMode = "LIVE"
)

type TrendDirection int

const (
	TrendUp TrendDirection = iota + 1
	TrendDown
)

// Tick is a timestamped last-traded-price update for one instrument.
type Tick struct {
	Timestamp time.Time `json:"timestamp"`
	LTP       float64   `json:"ltp"`
	Symbol    string    `json:"symbol"`
}

// Order is an execution report delivered by the engine once an order's
// status changes. AveragePrice is the volume weighted fill price.
type Order struct {
	OrderID        string         `json:"order_id"`
	Status         OrderStatus    `json:"status"`
	Direction      OrderDirection `json:"direction"`
	FilledQuantity float64        `json:"filled_quantity"`
	AveragePrice   float64        `json:"average_price"`
	Symbol         string         `json:"symbol"`
	Timestamp      time.Time      `json:"timestamp"`
	Tag            string         `json:"tag"`
}

func (o Order) String() string {
	return fmt.Sprintf("{[%s] %s %v %s @ %v}", o.OrderID, o.Direction, o.FilledQuantity, o.Symbol, o.AveragePrice)
}

// PlaceOrderRequest is the fire-and-forget order submission payload. The
// result is observed later through the order-update callback, correlated by
// Tag.
type PlaceOrderRequest struct {
	Type         OrderType      `json:"type"`
	Price        float64        `json:"price"`
	TriggerPrice float64        `json:"trigger_price,omitempty"`
	Quantity     float64        `json:"quantity"`
	Symbol       string         `json:"symbol"`
	Direction    OrderDirection `json:"direction"`
	Tag          string         `json:"tag"`
	Timestamp    time.Time      `json:"timestamp"`
	Venue        TradeVenue     `json:"venue"`
}

// Candle is a single OHLCV bar.
type Candle struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}
