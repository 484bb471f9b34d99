package strategy

import (
	"testing"

	"github.com/evdnx/goqs/testutils"
	"github.com/evdnx/goqs/types"
)

func buildSupportResistance(t *testing.T) (*SupportResistance, *testutils.MockClient, *testutils.MockEvaluator) {
	t.Helper()
	cli := testutils.NewMockClient(types.ModeBacktest)
	eval := testutils.NewMockEvaluator()
	sr, err := NewSupportResistance(cli, eval, testConfig(), testutils.NewMockLogger())
	if err != nil {
		t.Fatalf("NewSupportResistance: %v", err)
	}
	return sr, cli, eval
}

// Price crossing above the previous day's high buys the breakout, once.
func TestSupportResistance_BreakoutEntry(t *testing.T) {
	sr, cli, eval := buildSupportResistance(t)
	eval.PrevHigh = 100
	eval.PrevLow = 95

	sr.OnTick(types.Tick{Timestamp: day(1, 9), LTP: 99.5, Symbol: sr.Cfg.Symbol})
	if n := len(cli.Orders()); n != 0 {
		t.Fatalf("below the resistance must not enter, got %d orders", n)
	}

	sr.OnTick(types.Tick{Timestamp: day(1, 10), LTP: 100.5, Symbol: sr.Cfg.Symbol})
	if n := len(cli.Orders()); n != 1 {
		t.Fatalf("expected the breakout entry, got %d orders", n)
	}
	if cli.LastOrder().Direction != types.Buy {
		t.Fatalf("breakout must buy, got %s", cli.LastOrder().Direction)
	}

	sr.OnTick(types.Tick{Timestamp: day(1, 11), LTP: 101, Symbol: sr.Cfg.Symbol})
	if n := len(cli.Orders()); n != 1 {
		t.Fatalf("staying above must not re-enter, got %d orders", n)
	}
}

// Without previous-day levels the resistance reads zero and nothing fires.
func TestSupportResistance_NoLevelsNoEntry(t *testing.T) {
	sr, cli, _ := buildSupportResistance(t)

	sr.OnTick(types.Tick{Timestamp: day(1, 9), LTP: 100, Symbol: sr.Cfg.Symbol})
	sr.OnTick(types.Tick{Timestamp: day(1, 10), LTP: 101, Symbol: sr.Cfg.Symbol})

	if n := len(cli.Orders()); n != 0 {
		t.Fatalf("missing levels must not enter, got %d orders", n)
	}
}
