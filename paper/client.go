// Package paper is an in-process stand-in for the remote quant engine:
// perfect fills at the submitted price, no slippage and an in-memory
// snapshot store. Backtest harnesses and end-to-end tests run a strategy
// against it without a network. Margin is the real engine's concern, so
// cash is allowed to go negative on leveraged fills.
package paper

import (
	"math"
	"strconv"
	"sync"

	"github.com/evdnx/goqs/quant"
	"github.com/evdnx/goqs/types"
)

type Client struct {
	mu sync.Mutex

	mode   types.LaunchMode
	equity float64

	positions map[string]float64 // signed qty, negative = short
	avgPrice  map[string]float64

	kv    map[string][]byte
	stats map[string]float64

	subscribed []string
	handler    quant.OrderHandler
	queue      []types.Order
	seq        int
}

func NewClient(mode types.LaunchMode, startEquity float64) *Client {
	return &Client{
		mode:      mode,
		equity:    startEquity,
		positions: make(map[string]float64),
		avgPrice:  make(map[string]float64),
		kv:        make(map[string][]byte),
	}
}

// Bind registers the handler that receives order updates. Updates are
// queued on submission and delivered by Flush, which keeps the
// asynchronous shape of the real engine.
func (c *Client) Bind(h quant.OrderHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handler = h
}

func (c *Client) LaunchMode() types.LaunchMode { return c.mode }

func (c *Client) SubscribeSymbols(symbols ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribed = append(c.subscribed, symbols...)
	return nil
}

// PlaceOrder fills a valid market request immediately at the submitted
// price. Malformed requests (non-positive quantity or price) are
// rejected through the normal order-update path rather than an error,
// the way the real engine reports them.
func (c *Client) PlaceOrder(req types.PlaceOrderRequest) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	update := types.Order{
		OrderID:   "paper-" + strconv.Itoa(c.seq),
		Direction: req.Direction,
		Symbol:    req.Symbol,
		Timestamp: req.Timestamp,
		Tag:       req.Tag,
	}

	if req.Quantity <= 0 || req.Price <= 0 {
		update.Status = types.OrderRejected
	} else {
		c.apply(req)
		update.Status = types.OrderCompleted
		update.FilledQuantity = req.Quantity
		update.AveragePrice = req.Price
	}

	c.queue = append(c.queue, update)
	return nil
}

// apply books the fill into cash and the signed position. Growing a
// position blends the average price as a VWAP; reductions realize at the
// fill price and keep the remaining average; a flip restarts it.
func (c *Client) apply(req types.PlaceOrderRequest) {
	cost := req.Price * req.Quantity
	signed := req.Quantity
	if req.Direction == types.Sell {
		signed = -signed
		c.equity += cost
	} else {
		c.equity -= cost
	}

	prev := c.positions[req.Symbol]
	next := prev + signed
	switch {
	case next == 0:
		delete(c.avgPrice, req.Symbol)
	case prev == 0 || (prev > 0) != (next > 0):
		c.avgPrice[req.Symbol] = req.Price
	case math.Abs(next) > math.Abs(prev):
		c.avgPrice[req.Symbol] = (c.avgPrice[req.Symbol]*math.Abs(prev) + req.Price*math.Abs(signed)) / math.Abs(next)
	}
	if next == 0 {
		delete(c.positions, req.Symbol)
	} else {
		c.positions[req.Symbol] = next
	}
}

// Flush delivers all queued order updates to the bound handler.
func (c *Client) Flush() {
	c.mu.Lock()
	q := c.queue
	c.queue = nil
	h := c.handler
	c.mu.Unlock()

	if h == nil {
		return
	}
	for _, o := range q {
		h.OnOrderUpdate(o)
	}
}

func (c *Client) GetState(key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kv[key], nil
}

func (c *Client) SetState(key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.kv[key] = append([]byte(nil), value...)
	return nil
}

func (c *Client) PublishStats(stats map[string]float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := make(map[string]float64, len(stats))
	for k, v := range stats {
		cp[k] = v
	}
	c.stats = cp
	return nil
}

// Equity is the cash balance after all fills.
func (c *Client) Equity() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.equity
}

// Position returns the signed quantity and average price for a symbol.
func (c *Client) Position(symbol string) (qty, avg float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.positions[symbol], c.avgPrice[symbol]
}

// LatestStats returns the most recently published statistics snapshot.
func (c *Client) LatestStats() map[string]float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}
