// Package structure detects fractal swing pivots and classifies closes beyond
// them as Break of Structure (trend continuation) or Change of Character
// (tentative reversal).
package structure

import (
	"errors"
	"fmt"

	"github.com/evdnx/gomp/types"
)

type Direction int

const (
	Up   Direction = 1
	Down Direction = -1
)

func (d Direction) String() string {
	if d == Up {
		return "up"
	}
	return "down"
}

type EventType int

const (
	// BOS confirms the prevailing trend: close beyond the last swing in
	// trend direction.
	BOS EventType = iota
	// ChoCH breaks the last swing against the prevailing trend and flips
	// the tracker's trend state.
	ChoCH
)

func (e EventType) String() string {
	if e == BOS {
		return "bos"
	}
	return "choch"
}

// Event is one confirmed structure break.
type Event struct {
	Type       EventType
	Direction  Direction
	Level      float64 // the swing level that was broken
	PivotIndex int     // bar index of the broken swing
	BreakIndex int     // bar index of the breaking close
}

func (e Event) String() string {
	return fmt.Sprintf("%s %s @%.5f (pivot %d, break %d)", e.Type, e.Direction, e.Level, e.PivotIndex, e.BreakIndex)
}

// Pivot is a confirmed fractal swing point.
type Pivot struct {
	Index int
	Price float64
	High  bool
}

// Tracker consumes candles one at a time and emits structure events. A swing
// high/low is confirmed once `depth` later bars have printed; ties produce no
// pivot (strict fractal). Each pivot level fires at most one event.
type Tracker struct {
	depth int

	base   int // bar index of highs[0]
	highs  []float64
	lows   []float64
	closes []float64
	count  int // total bars seen

	swingHigh  *Pivot
	swingLow   *Pivot
	brokeHigh  bool
	brokeLow   bool
	trend      Direction // 0 until the first break establishes one
	trendKnown bool
}

func NewTracker(depth int) (*Tracker, error) {
	if depth <= 0 {
		return nil, errors.New("structure: depth must be positive")
	}
	return &Tracker{depth: depth}, nil
}

// Trend returns the prevailing trend and whether one has been established.
func (t *Tracker) Trend() (Direction, bool) { return t.trend, t.trendKnown }

// LastSwingHigh returns the most recent confirmed swing high, if any.
func (t *Tracker) LastSwingHigh() (Pivot, bool) {
	if t.swingHigh == nil {
		return Pivot{}, false
	}
	return *t.swingHigh, true
}

// LastSwingLow returns the most recent confirmed swing low, if any.
func (t *Tracker) LastSwingLow() (Pivot, bool) {
	if t.swingLow == nil {
		return Pivot{}, false
	}
	return *t.swingLow, true
}

// Update ingests the next candle and returns any events it confirms.
func (t *Tracker) Update(c types.Candle) []Event {
	t.highs = append(t.highs, c.High)
	t.lows = append(t.lows, c.Low)
	t.closes = append(t.closes, c.Close)
	t.count++
	t.compact()

	t.confirmPivots()
	return t.detectBreaks(c.Close)
}

// compact bounds the buffers; only the trailing 2*depth+1 bars matter for
// pivot confirmation.
func (t *Tracker) compact() {
	keep := 2*t.depth + 1
	if len(t.highs) <= keep {
		return
	}
	drop := len(t.highs) - keep
	t.highs = t.highs[drop:]
	t.lows = t.lows[drop:]
	t.closes = t.closes[drop:]
	t.base += drop
}

// confirmPivots checks whether the bar `depth` bars back is a strict fractal.
func (t *Tracker) confirmPivots() {
	if len(t.highs) < 2*t.depth+1 {
		return
	}
	center := len(t.highs) - 1 - t.depth
	barIndex := t.base + center

	if isStrictMax(t.highs, center) {
		t.swingHigh = &Pivot{Index: barIndex, Price: t.highs[center], High: true}
		t.brokeHigh = false
	}
	if isStrictMin(t.lows, center) {
		t.swingLow = &Pivot{Index: barIndex, Price: t.lows[center], High: false}
		t.brokeLow = false
	}
}

func isStrictMax(vals []float64, center int) bool {
	for i, v := range vals {
		if i != center && v >= vals[center] {
			return false
		}
	}
	return true
}

func isStrictMin(vals []float64, center int) bool {
	for i, v := range vals {
		if i != center && v <= vals[center] {
			return false
		}
	}
	return true
}

func (t *Tracker) detectBreaks(close float64) []Event {
	var events []Event
	barIndex := t.count - 1

	if t.swingHigh != nil && !t.brokeHigh && close > t.swingHigh.Price {
		typ := BOS
		if t.trendKnown && t.trend == Down {
			typ = ChoCH
		}
		events = append(events, Event{
			Type:       typ,
			Direction:  Up,
			Level:      t.swingHigh.Price,
			PivotIndex: t.swingHigh.Index,
			BreakIndex: barIndex,
		})
		t.trend = Up
		t.trendKnown = true
		t.brokeHigh = true
	}

	if t.swingLow != nil && !t.brokeLow && close < t.swingLow.Price {
		typ := BOS
		if t.trendKnown && t.trend == Up {
			typ = ChoCH
		}
		events = append(events, Event{
			Type:       typ,
			Direction:  Down,
			Level:      t.swingLow.Price,
			PivotIndex: t.swingLow.Index,
			BreakIndex: barIndex,
		})
		t.trend = Down
		t.trendKnown = true
		t.brokeLow = true
	}
	return events
}
