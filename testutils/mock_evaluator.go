package testutils

import (
	"time"

	"github.com/evdnx/goqs/types"
)

// TrendReading is a scripted Trend result keyed by window size.
type TrendReading struct {
	Direction types.TrendDirection
	Strength  int
}

// MockEvaluator returns scripted indicator values. Zero values mean
// "not warmed up", matching the evaluator contract, so a freshly
// constructed mock satisfies no entry predicate.
type MockEvaluator struct {
	EMAs   map[int]float64
	RSIs   map[int]float64
	Trends map[int]TrendReading

	PrevHigh  float64
	PrevLow   float64
	PrevClose float64
	Open      float64

	PreloadCount int
	PreloadEnd   time.Time
	PreloadErr   error
	Cleared      int
}

func NewMockEvaluator() *MockEvaluator {
	return &MockEvaluator{
		EMAs:   make(map[int]float64),
		RSIs:   make(map[int]float64),
		Trends: make(map[int]TrendReading),
	}
}

func (m *MockEvaluator) EMA(period int) float64 { return m.EMAs[period] }
func (m *MockEvaluator) RSI(period int) float64 { return m.RSIs[period] }

func (m *MockEvaluator) Trend(window int) (types.TrendDirection, int) {
	r := m.Trends[window]
	return r.Direction, r.Strength
}

func (m *MockEvaluator) PrevDayHigh() float64  { return m.PrevHigh }
func (m *MockEvaluator) PrevDayLow() float64   { return m.PrevLow }
func (m *MockEvaluator) PrevDayClose() float64 { return m.PrevClose }
func (m *MockEvaluator) TodayOpen() float64    { return m.Open }

func (m *MockEvaluator) PreloadCandles(count int, end time.Time) error {
	m.PreloadCount = count
	m.PreloadEnd = end
	return m.PreloadErr
}

func (m *MockEvaluator) ClearCandles() { m.Cleared++ }
