package logger

import "testing"

func TestNewZapLogger(t *testing.T) {
	l, err := NewZapLogger()
	if err != nil {
		t.Fatalf("NewZapLogger failed: %v", err)
	}
	// Must not panic with a mix of field types.
	l.Info("hello", String("k", "v"), Float64("f", 1.5), Int("n", 3))
}

func TestNopLogger(t *testing.T) {
	NewNop().Error("dropped", Err(nil))
}
