package types

import "testing"

/*
-----------------------------------------------------------------------
CrossAbove must fire exactly once per upward crossing, never while the
relation merely stays satisfied.
-----------------------------------------------------------------------
*/
func TestCrossAbove_EdgeTriggered(t *testing.T) {
	c := NewCrossAbove()

	// First observation is already above: no transition was seen.
	if c.Evaluate(10, 5) {
		t.Fatal("first observation must not fire")
	}
	// Staying above: still no fire.
	for i := 0; i < 5; i++ {
		if c.Evaluate(11, 5) {
			t.Fatal("fired while relation merely stayed above")
		}
	}
	// Dip below, then cross back: exactly one fire.
	if c.Evaluate(4, 5) {
		t.Fatal("fired on downward move")
	}
	if !c.Evaluate(6, 5) {
		t.Fatal("expected fire on upward crossing")
	}
	if c.Evaluate(7, 5) {
		t.Fatal("fired twice for one crossing")
	}
}

func TestCrossAbove_EqualIsNotAbove(t *testing.T) {
	c := NewCrossAbove()
	c.Evaluate(4, 5)
	if c.Evaluate(5, 5) {
		t.Fatal("a == b must not count as above")
	}
	if !c.Evaluate(5.01, 5) {
		t.Fatal("expected fire once a moves strictly above b")
	}
}

func TestCrossBelow_EdgeTriggered(t *testing.T) {
	c := NewCrossBelow()

	if c.Evaluate(40, 30) {
		t.Fatal("first observation must not fire")
	}
	if !c.Evaluate(29, 30) {
		t.Fatal("expected fire on downward crossing")
	}
	for i := 0; i < 5; i++ {
		if c.Evaluate(25, 30) {
			t.Fatal("fired while relation merely stayed below")
		}
	}
	if c.Evaluate(35, 30) {
		t.Fatal("fired on upward move")
	}
	if !c.Evaluate(28, 30) {
		t.Fatal("expected fire on second crossing")
	}
}
