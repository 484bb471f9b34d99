package risk

import "testing"

func TestOrderQty(t *testing.T) {
	// 100000 / 150.5 = 664.45 -> floor 664, times 3x leverage.
	if got := OrderQty(100_000, 150.5, 3); got != 1992 {
		t.Fatalf("expected 1992, got %v", got)
	}
	if got := OrderQty(100_000, 0, 3); got != 0 {
		t.Fatalf("expected 0 for non-positive price, got %v", got)
	}
}

func TestBandBreached_Boundary(t *testing.T) {
	// ±0.25% around 100: 100.26 exits, 100.24 does not.
	if !BandBreached(100, 100.26, 0.0025, 0.0025) {
		t.Fatal("100.26 must breach the +0.25% band")
	}
	if BandBreached(100, 100.24, 0.0025, 0.0025) {
		t.Fatal("100.24 must not breach the band")
	}
	// The band is inclusive at exactly entry*(1+up).
	if !BandBreached(100, 100.25, 0.0025, 0.0025) {
		t.Fatal("100.25 sits on the band edge and must breach")
	}
}

func TestBandBreached_Asymmetric(t *testing.T) {
	// +0.1% / -0.25%, the golden-cross exit.
	if !BandBreached(100, 100.11, 0.001, 0.0025) {
		t.Fatal("expected upside breach at +0.11%")
	}
	if BandBreached(100, 99.80, 0.001, 0.0025) {
		t.Fatal("-0.20% must not breach a -0.25% band")
	}
	if !BandBreached(100, 99.74, 0.001, 0.0025) {
		t.Fatal("expected downside breach at -0.26%")
	}
}
