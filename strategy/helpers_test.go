package strategy

import (
	"testing"
	"time"

	"github.com/evdnx/goqs/config"
	"github.com/evdnx/goqs/quant"
	"github.com/evdnx/goqs/testutils"
	"github.com/evdnx/goqs/types"
)

// testRig bundles a BaseStrategy with its mocks. The rule's entry
// predicate is controlled through the enter flag, so tests drive entries
// explicitly instead of through indicator values.
type testRig struct {
	b    *BaseStrategy
	cli  *testutils.MockClient
	eval *testutils.MockEvaluator
	log  *testutils.MockLogger

	enter bool
}

func testConfig() config.StrategyConfig {
	cfg := config.Default("TEST-EQ")
	cfg.LogInterval = 0
	return cfg
}

// newTestRig builds an engine around a buy rule with a symmetric 0.25%
// exit band and no arming gate. mutate, when non-nil, adjusts the rule or
// config before construction.
func newTestRig(t *testing.T, mode types.LaunchMode, mutate func(*Rule, *config.StrategyConfig)) *testRig {
	t.Helper()

	rig := &testRig{
		cli:  testutils.NewMockClient(mode),
		eval: testutils.NewMockEvaluator(),
		log:  testutils.NewMockLogger(),
	}

	cfg := testConfig()
	rule := Rule{
		Name:           "test_rule",
		EntryDirection: types.Buy,
		ExitBandUp:     0.0025,
		ExitBandDown:   0.0025,
		Arming:         ArmAlways,
		Entry: func(_ quant.Evaluator, _ *State, _ types.Tick) bool {
			return rig.enter
		},
	}
	if mutate != nil {
		mutate(&rule, &cfg)
	}

	b, err := NewBaseStrategy(rig.cli, rig.eval, cfg, rule, rig.log)
	if err != nil {
		t.Fatalf("NewBaseStrategy: %v", err)
	}
	rig.b = b
	return rig
}

// tick delivers one tick at price.
func (r *testRig) tick(ts time.Time, price float64) {
	r.b.OnTick(types.Tick{Timestamp: ts, LTP: price, Symbol: r.b.Cfg.Symbol})
}

// enterAt flips the entry switch for exactly one tick at price and
// returns the submitted request.
func (r *testRig) enterAt(t *testing.T, ts time.Time, price float64) types.PlaceOrderRequest {
	t.Helper()
	before := len(r.cli.Orders())
	r.enter = true
	r.tick(ts, price)
	r.enter = false
	if len(r.cli.Orders()) != before+1 {
		t.Fatalf("expected an order at %.2f, got %d total", price, len(r.cli.Orders()))
	}
	return r.cli.LastOrder()
}

// fillLast completes the most recent submitted request at price and
// delivers the fill.
func (r *testRig) fillLast(price float64) types.Order {
	fill := r.cli.Fill(r.cli.LastOrder(), price)
	r.b.OnOrderUpdate(fill)
	return fill
}

func day(d int, hour int) time.Time {
	return time.Date(2024, time.March, d, hour, 0, 0, 0, time.UTC)
}
