package testutils

import (
	"sync"

	"github.com/evdnx/goqs/types"
)

// MockClient implements quant.Client in-memory: it records submitted
// orders, keeps the key/value store in a map and captures every published
// statistics snapshot for assertions.
type MockClient struct {
	mu sync.Mutex

	Mode       types.LaunchMode
	Subscribed []string

	orders []types.PlaceOrderRequest
	kv     map[string][]byte
	stats  []map[string]float64

	// PlaceErr, when set, is returned by PlaceOrder to simulate an
	// engine-side submission failure.
	PlaceErr error
	// SetStateErr simulates a persistence failure.
	SetStateErr error

	fillSeq int
}

func NewMockClient(mode types.LaunchMode) *MockClient {
	return &MockClient{Mode: mode, kv: make(map[string][]byte)}
}

func (m *MockClient) LaunchMode() types.LaunchMode { return m.Mode }

func (m *MockClient) SubscribeSymbols(symbols ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Subscribed = append(m.Subscribed, symbols...)
	return nil
}

func (m *MockClient) PlaceOrder(req types.PlaceOrderRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PlaceErr != nil {
		return m.PlaceErr
	}
	m.orders = append(m.orders, req)
	return nil
}

func (m *MockClient) GetState(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.kv[key], nil
}

func (m *MockClient) SetState(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetStateErr != nil {
		return m.SetStateErr
	}
	cp := append([]byte(nil), value...)
	m.kv[key] = cp
	return nil
}

func (m *MockClient) PublishStats(stats map[string]float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make(map[string]float64, len(stats))
	for k, v := range stats {
		cp[k] = v
	}
	m.stats = append(m.stats, cp)
	return nil
}

// Orders returns a copy of all submitted order requests.
func (m *MockClient) Orders() []types.PlaceOrderRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]types.PlaceOrderRequest, len(m.orders))
	copy(out, m.orders)
	return out
}

// LastOrder returns the most recent request, or a zero value.
func (m *MockClient) LastOrder() types.PlaceOrderRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.orders) == 0 {
		return types.PlaceOrderRequest{}
	}
	return m.orders[len(m.orders)-1]
}

// Stats returns all captured statistics snapshots.
func (m *MockClient) Stats() []map[string]float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]map[string]float64, len(m.stats))
	copy(out, m.stats)
	return out
}

// StoredState returns the raw persisted blob for a key.
func (m *MockClient) StoredState(key string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.kv[key]
}

// SeedState pre-populates the store, as if a previous run had persisted.
func (m *MockClient) SeedState(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.kv[key] = append([]byte(nil), value...)
}

// Fill fabricates the completed execution report for a submitted request,
// the way the engine would deliver it: same direction, symbol and tag,
// fully filled at price.
func (m *MockClient) Fill(req types.PlaceOrderRequest, price float64) types.Order {
	m.mu.Lock()
	m.fillSeq++
	seq := m.fillSeq
	m.mu.Unlock()
	return types.Order{
		OrderID:        orderID(seq),
		Status:         types.OrderCompleted,
		Direction:      req.Direction,
		FilledQuantity: req.Quantity,
		AveragePrice:   price,
		Symbol:         req.Symbol,
		Timestamp:      req.Timestamp,
		Tag:            req.Tag,
	}
}
