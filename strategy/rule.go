package strategy

import (
	"github.com/evdnx/goqs/logger"
	"github.com/evdnx/goqs/quant"
	"github.com/evdnx/goqs/types"
)

// ArmingPolicy gates when an entry predicate is allowed to fire. A level
// condition can stay true for many ticks; the policy ensures one entry per
// qualifying window (a new trading day, or a completed trend reversal).
type ArmingPolicy int

const (
	// ArmAlways places no gate: the predicate alone decides (the
	// crossover detectors are edge-triggered on their own).
	ArmAlways ArmingPolicy = iota

	// ArmDayChange latches on the first tick of a new trading day while
	// flat, and is consumed by the next entry.
	ArmDayChange

	// ArmTrendReversal latches when the long-window trend turns up while
	// the short-window trend is still down, and is consumed by the next
	// entry.
	ArmTrendReversal
)

// Rule parameterizes the shared decision engine: the five strategy
// variants differ only in this record.
type Rule struct {
	Name string

	// EntryDirection is the side taken on entry; the exit is always the
	// inverse. Short-bias variants use Sell here.
	EntryDirection types.OrderDirection

	// Exit band fractions relative to the entry fill price.
	ExitBandUp   float64
	ExitBandDown float64

	Arming ArmingPolicy

	// ClearCandlesOnNewDay resets the evaluator's intraday window when a
	// new day arms, so per-day oscillators start fresh.
	ClearCandlesOnNewDay bool

	// Entry is the variant's condition: a boolean function of the
	// indicator snapshot, the current tick and the persisted detectors.
	// It runs only when flat, unarmed gates are satisfied and no order
	// is pending.
	Entry func(e quant.Evaluator, s *State, tick types.Tick) bool

	// Observe supplies the indicator fields for the throttled snapshot
	// log line.
	Observe func(e quant.Evaluator) []logger.Field
}
