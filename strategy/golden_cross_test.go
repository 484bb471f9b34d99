package strategy

import (
	"testing"

	"github.com/evdnx/goqs/config"
	"github.com/evdnx/goqs/testutils"
	"github.com/evdnx/goqs/types"
)

func buildGoldenCross(t *testing.T, cfg config.StrategyConfig) (*GoldenCross, *testutils.MockClient, *testutils.MockEvaluator) {
	t.Helper()
	cli := testutils.NewMockClient(types.ModeBacktest)
	eval := testutils.NewMockEvaluator()
	gc, err := NewGoldenCross(cli, eval, cfg, testutils.NewMockLogger())
	if err != nil {
		t.Fatalf("NewGoldenCross: %v", err)
	}
	return gc, cli, eval
}

func TestGoldenCross_Defaults(t *testing.T) {
	gc, _, _ := buildGoldenCross(t, config.StrategyConfig{
		Symbol: "TEST-EQ", Capital: 100_000, Leverage: 3,
	})

	if gc.Cfg.EMAFast != 50 || gc.Cfg.EMASlow != 200 {
		t.Fatalf("expected EMA 50/200, got %d/%d", gc.Cfg.EMAFast, gc.Cfg.EMASlow)
	}
	if gc.Rule.ExitBandUp != 0.001 || gc.Rule.ExitBandDown != 0.0025 {
		t.Fatalf("expected +0.1%%/-0.25%% exit band, got %v/%v", gc.Rule.ExitBandUp, gc.Rule.ExitBandDown)
	}
	if gc.Cfg.PreloadCandles != 200 {
		t.Fatalf("expected 200 preload candles, got %d", gc.Cfg.PreloadCandles)
	}
}

// The crossover is edge-triggered: one entry on the transition, none while
// the fast EMA merely stays above.
func TestGoldenCross_SingleEntryOnCross(t *testing.T) {
	gc, cli, eval := buildGoldenCross(t, testConfig())

	feed := func(d int, fast, slow, price float64) {
		eval.EMAs[50] = fast
		eval.EMAs[200] = slow
		gc.OnTick(types.Tick{Timestamp: day(1, d), LTP: price, Symbol: gc.Cfg.Symbol})
	}

	feed(9, 99, 100, 100) // below: primes the detector
	feed(10, 101, 100, 100)
	if n := len(cli.Orders()); n != 1 {
		t.Fatalf("expected one entry on the cross, got %d", n)
	}
	gc.OnOrderUpdate(cli.Fill(cli.LastOrder(), 100))
	gc.OnOrderUpdate(cli.Fill(types.PlaceOrderRequest{
		Direction: types.Sell, Quantity: cli.LastOrder().Quantity, Symbol: gc.Cfg.Symbol,
	}, 100)) // flatten so entries are evaluated again

	feed(11, 102, 100, 100)
	feed(12, 103, 100, 100)
	if n := len(cli.Orders()); n != 1 {
		t.Fatalf("staying above must not re-enter, got %d orders", n)
	}
}

// Before the slow EMA has warmed up it reads zero, which never enters.
func TestGoldenCross_NoEntryBeforeWarmup(t *testing.T) {
	gc, cli, eval := buildGoldenCross(t, testConfig())

	eval.EMAs[50] = 101
	eval.EMAs[200] = 0
	gc.OnTick(types.Tick{Timestamp: day(1, 10), LTP: 100, Symbol: gc.Cfg.Symbol})
	gc.OnTick(types.Tick{Timestamp: day(1, 11), LTP: 100, Symbol: gc.Cfg.Symbol})

	if n := len(cli.Orders()); n != 0 {
		t.Fatalf("warmup must not enter, got %d orders", n)
	}
}
