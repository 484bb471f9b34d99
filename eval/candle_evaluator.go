// Package eval implements quant.Evaluator over an in-memory candle series.
// It stands in for the engine-side evaluator in tests and paper runs: ticks
// are aggregated into fixed-period candles, indicators are computed from
// the closes, and daily bars are tracked separately for previous-day
// levels.
package eval

import (
	"sync"
	"time"

	"github.com/cinar/indicator"
	"github.com/pkg/errors"

	"github.com/evdnx/goqs/config"
	"github.com/evdnx/goqs/types"
)

// HistoryFunc fetches count historical candles ending at end, oldest
// first. It backs PreloadCandles; without one, preloading is unavailable.
type HistoryFunc func(count int, end time.Time) ([]types.Candle, error)

type dayBar struct {
	date  time.Time // midnight UTC of the trading day
	open  float64
	high  float64
	low   float64
	close float64
}

type CandleEvaluator struct {
	mu      sync.Mutex
	period  time.Duration
	history HistoryFunc

	closed  []types.Candle
	current *types.Candle
	days    []dayBar
}

// NewCandleEvaluator builds an evaluator that aggregates ticks into
// candles of the given period. history may be nil when preloading is not
// needed (live runs).
func NewCandleEvaluator(period time.Duration, history HistoryFunc) *CandleEvaluator {
	if period <= 0 {
		period = time.Minute
	}
	return &CandleEvaluator{period: period, history: history}
}

// NewFromConfig builds an evaluator with the config's candle period.
func NewFromConfig(cfg config.StrategyConfig, history HistoryFunc) *CandleEvaluator {
	return NewCandleEvaluator(cfg.CandlePeriod, history)
}

// OnTick folds a tick into the current candle, rolling over when the tick
// falls into a new period bucket.
func (e *CandleEvaluator) OnTick(t types.Tick) {
	e.mu.Lock()
	defer e.mu.Unlock()

	bucket := t.Timestamp.Truncate(e.period)
	if e.current == nil || bucket.After(e.current.Time) {
		if e.current != nil {
			e.closed = append(e.closed, *e.current)
		}
		e.current = &types.Candle{
			Time: bucket,
			Open: t.LTP, High: t.LTP, Low: t.LTP, Close: t.LTP,
		}
	} else {
		if t.LTP > e.current.High {
			e.current.High = t.LTP
		}
		if t.LTP < e.current.Low {
			e.current.Low = t.LTP
		}
		e.current.Close = t.LTP
	}

	e.foldDay(t.Timestamp, t.LTP, t.LTP, t.LTP, t.LTP)
}

// PreloadCandles seeds the series with historical candles ending at end.
func (e *CandleEvaluator) PreloadCandles(count int, end time.Time) error {
	if e.history == nil {
		return errors.New("eval: no history source configured")
	}
	candles, err := e.history(count, end)
	if err != nil {
		return errors.Wrap(err, "eval: preload")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, c := range candles {
		e.closed = append(e.closed, c)
		e.foldDay(c.Time, c.Open, c.High, c.Low, c.Close)
	}
	return nil
}

// ClearCandles drops the accumulated intraday window. Daily bars are kept:
// previous-day levels stay valid across an intraday reset.
func (e *CandleEvaluator) ClearCandles() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = nil
	e.current = nil
}

func (e *CandleEvaluator) foldDay(ts time.Time, open, high, low, close float64) {
	date := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
	if len(e.days) == 0 || !e.days[len(e.days)-1].date.Equal(date) {
		e.days = append(e.days, dayBar{date: date, open: open, high: high, low: low, close: close})
		return
	}
	d := &e.days[len(e.days)-1]
	if high > d.high {
		d.high = high
	}
	if low < d.low {
		d.low = low
	}
	d.close = close
}

func (e *CandleEvaluator) closes() []float64 {
	out := make([]float64, 0, len(e.closed)+1)
	for _, c := range e.closed {
		out = append(out, c.Close)
	}
	if e.current != nil {
		out = append(out, e.current.Close)
	}
	return out
}

// EMA returns the exponential moving average of the closes, or 0 while the
// series is shorter than the period (the not-warmed-up sentinel).
func (e *CandleEvaluator) EMA(period int) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	cs := e.closes()
	if period <= 0 || len(cs) < period {
		return 0
	}
	vals := indicator.Ema(period, cs)
	return vals[len(vals)-1]
}

// RSI returns the relative strength index, or 0 until period+1 closes are
// available.
func (e *CandleEvaluator) RSI(period int) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	cs := e.closes()
	if period <= 0 || len(cs) < period+1 {
		return 0
	}
	_, rsi := indicator.RsiPeriod(period, cs)
	return rsi[len(rsi)-1]
}

// Trend classifies the last window closes. Direction follows the majority
// of per-candle moves; strength is the majority share scaled to 0..10, so
// a strictly monotonic window scores 10.
func (e *CandleEvaluator) Trend(window int) (types.TrendDirection, int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	cs := e.closes()
	if window < 2 || len(cs) < window {
		return 0, 0
	}
	seg := cs[len(cs)-window:]
	ups, downs := 0, 0
	for i := 1; i < len(seg); i++ {
		switch {
		case seg[i] > seg[i-1]:
			ups++
		case seg[i] < seg[i-1]:
			downs++
		}
	}
	moves := window - 1
	if ups >= downs {
		return types.TrendUp, (ups*10 + moves/2) / moves
	}
	return types.TrendDown, (downs*10 + moves/2) / moves
}

func (e *CandleEvaluator) PrevDayHigh() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.days) < 2 {
		return 0
	}
	return e.days[len(e.days)-2].high
}

func (e *CandleEvaluator) PrevDayLow() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.days) < 2 {
		return 0
	}
	return e.days[len(e.days)-2].low
}

func (e *CandleEvaluator) PrevDayClose() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.days) < 2 {
		return 0
	}
	return e.days[len(e.days)-2].close
}

func (e *CandleEvaluator) TodayOpen() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.days) == 0 {
		return 0
	}
	return e.days[len(e.days)-1].open
}
