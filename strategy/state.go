package strategy

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/evdnx/goqs/quant"
	"github.com/evdnx/goqs/types"
)

// stateVersion tags the persisted snapshot schema. Bump it when a field
// changes meaning; loadState defaults anything a previous version lacked.
const stateVersion = 1

// State is the per-strategy position snapshot, persisted through the
// engine's key/value store after every mutation and reloaded on startup.
type State struct {
	Version int `json:"version"`

	// Holding is true from the entry fill until the exit fill. It is
	// true exactly when CurrentOrder is non-nil.
	Holding bool `json:"holding"`

	// LastTick is the tick last written to the snapshot log line; it
	// only throttles logging. CurrentTick is the latest tick seen and
	// prices the unmatched side of the PL fold.
	LastTick    *types.Tick `json:"last_tick,omitempty"`
	CurrentTick *types.Tick `json:"current_tick,omitempty"`

	// Orders is the append-only history of completed fills, in fill
	// order. PL is always recomputed as a fold over the whole slice.
	Orders []types.Order `json:"orders"`

	// PendingOrderID is the idempotency tag of the order in flight;
	// empty when nothing is outstanding. No new order may be placed
	// while it is set.
	PendingOrderID string `json:"pending_order_id,omitempty"`

	// CurrentOrder is the fill that opened the held position.
	CurrentOrder *types.Order `json:"current_order,omitempty"`

	// Arming flags. DayArmed latches on the first tick of a new trading
	// day; DirectionReversed latches when the long trend turns up while
	// the short trend is still down. Each is cleared when its entry
	// fires, preventing repeated entries inside one qualifying window.
	DayArmed          bool `json:"day_armed,omitempty"`
	DirectionReversed bool `json:"direction_reversed,omitempty"`

	// Edge-triggered crossover detectors; persisted so a restart does
	// not re-fire on a relation that was already satisfied.
	CrossAbove *types.CrossAbove `json:"cross_above,omitempty"`
	CrossBelow *types.CrossBelow `json:"cross_below,omitempty"`
}

func newState() *State {
	return &State{
		Version:    stateVersion,
		CrossAbove: types.NewCrossAbove(),
		CrossBelow: types.NewCrossBelow(),
	}
}

// migrate fills anything an older (or hand-written) snapshot is missing,
// so the rest of the engine can rely on non-nil detectors.
func (s *State) migrate() {
	if s.CrossAbove == nil {
		s.CrossAbove = types.NewCrossAbove()
	}
	if s.CrossBelow == nil {
		s.CrossBelow = types.NewCrossBelow()
	}
	s.Version = stateVersion
}

// loadState restores the snapshot from the engine's store. Backtests never
// resume prior live state; any load or decode problem also degrades to a
// fresh state, reported through err so the caller can log it.
func loadState(client quant.Client) (s *State, err error) {
	if client.LaunchMode() == types.ModeBacktest {
		return newState(), nil
	}
	raw, gerr := client.GetState(quant.StateKey)
	if gerr != nil {
		return newState(), errors.Wrap(gerr, "load state")
	}
	if len(raw) == 0 {
		return newState(), nil
	}
	s = &State{}
	if jerr := json.Unmarshal(raw, s); jerr != nil {
		return newState(), errors.Wrap(jerr, "decode state")
	}
	s.migrate()
	return s, nil
}

// saveState writes the snapshot back. Called synchronously on the callback
// thread; a crash between an order submission and this write can lose the
// pending-order linkage, which is accepted (no write-ahead log).
func saveState(client quant.Client, s *State) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "encode state")
	}
	if err := client.SetState(quant.StateKey, raw); err != nil {
		return errors.Wrap(err, "persist state")
	}
	return nil
}
