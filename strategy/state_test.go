package strategy

import (
	"encoding/json"
	"testing"

	"github.com/evdnx/goqs/quant"
	"github.com/evdnx/goqs/testutils"
	"github.com/evdnx/goqs/types"
)

// Snapshots written before the detectors were persisted decode with nil
// pointers; migrate must default them so the engine never nil-checks.
func TestLoadState_MigratesLegacySnapshot(t *testing.T) {
	cli := testutils.NewMockClient(types.ModeLive)
	cli.SeedState(quant.StateKey, []byte(`{"version":0,"holding":true,"orders":[]}`))

	s, err := loadState(cli)
	if err != nil {
		t.Fatalf("loadState: %v", err)
	}
	if !s.Holding {
		t.Fatal("legacy fields must survive the migration")
	}
	if s.CrossAbove == nil || s.CrossBelow == nil {
		t.Fatal("migration must default the crossover detectors")
	}
	if s.Version != stateVersion {
		t.Fatalf("migration must stamp the current version, got %d", s.Version)
	}
}

// A corrupt snapshot degrades to a fresh state and reports the decode
// error instead of failing the launch.
func TestLoadState_CorruptSnapshotDegrades(t *testing.T) {
	cli := testutils.NewMockClient(types.ModeLive)
	cli.SeedState(quant.StateKey, []byte(`{"version":`))

	s, err := loadState(cli)
	if err == nil {
		t.Fatal("expected a decode error")
	}
	if s == nil || s.Holding || len(s.Orders) != 0 {
		t.Fatalf("expected a fresh state, got %+v", s)
	}
}

// The detectors round-trip through persistence, so a restart does not
// re-fire on a relation that was already satisfied.
func TestState_DetectorRoundTrip(t *testing.T) {
	cli := testutils.NewMockClient(types.ModeLive)

	s := newState()
	s.CrossAbove.Evaluate(101, 100) // primes with the relation satisfied
	if err := saveState(cli, s); err != nil {
		t.Fatalf("saveState: %v", err)
	}

	restored, err := loadState(cli)
	if err != nil {
		t.Fatalf("loadState: %v", err)
	}
	if restored.CrossAbove.Evaluate(102, 100) {
		t.Fatal("restored detector must not re-fire while still above")
	}
}

func TestSaveState_VersionStamped(t *testing.T) {
	cli := testutils.NewMockClient(types.ModeLive)
	if err := saveState(cli, newState()); err != nil {
		t.Fatal(err)
	}
	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(cli.StoredState(quant.StateKey), &decoded); err != nil {
		t.Fatal(err)
	}
	if string(decoded["version"]) != "1" {
		t.Fatalf("expected version 1 in the blob, got %s", decoded["version"])
	}
}
