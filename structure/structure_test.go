package structure

import (
	"testing"

	"github.com/evdnx/gomp/types"
)

func bar(high, low, close float64) types.Candle {
	return types.Candle{High: high, Low: low, Close: close}
}

func feed(t *testing.T, tr *Tracker, bars []types.Candle) []Event {
	t.Helper()
	var events []Event
	for _, b := range bars {
		events = append(events, tr.Update(b)...)
	}
	return events
}

func TestNewTrackerRejectsBadDepth(t *testing.T) {
	if _, err := NewTracker(0); err == nil {
		t.Fatal("expected error for depth 0")
	}
}

/*
-----------------------------------------------------------------------
Warm-up: with depth 2 a pivot needs 2k+1 = 5 bars, so nothing can be
confirmed before then and no events fire.
-----------------------------------------------------------------------
*/
func TestTrackerWarmup(t *testing.T) {
	tr, _ := NewTracker(2)
	events := feed(t, tr, []types.Candle{
		bar(100, 99, 99.5),
		bar(101, 100, 100.5),
		bar(103, 101, 102),
		bar(101, 100, 100.5),
	})
	if len(events) != 0 {
		t.Fatalf("expected no events during warm-up, got %v", events)
	}
	if _, ok := tr.LastSwingHigh(); ok {
		t.Fatal("no swing high should be confirmed yet")
	}
}

/*
-----------------------------------------------------------------------
A strict fractal high (103 at index 2) is confirmed two bars later;
the first close above it fires a BOS that establishes an up trend.
All lows are equal so no swing low can ever confirm (strict fractal).
-----------------------------------------------------------------------
*/
func TestTrackerBOS(t *testing.T) {
	tr, _ := NewTracker(2)
	low := 99.0
	events := feed(t, tr, []types.Candle{
		bar(100, low, 99.8),
		bar(101, low, 100.2),
		bar(103, low, 100.4),
		bar(101, low, 100.3),
		bar(100.5, low, 100.1), // confirms swing high 103 @ index 2
		bar(101.5, low, 100.8),
		bar(102, low, 101.5),
		bar(103.5, low, 103.2), // close > 103: BOS up
	})
	if len(events) != 1 {
		t.Fatalf("expected exactly one event, got %d (%v)", len(events), events)
	}
	ev := events[0]
	if ev.Type != BOS || ev.Direction != Up {
		t.Fatalf("got %v, want BOS up", ev)
	}
	if ev.Level != 103 || ev.PivotIndex != 2 || ev.BreakIndex != 7 {
		t.Fatalf("event detail mismatch: %+v", ev)
	}
	if trend, ok := tr.Trend(); !ok || trend != Up {
		t.Fatalf("trend = %v/%v, want up/true", trend, ok)
	}
}

/*
-----------------------------------------------------------------------
One event per pivot level: closing above the same broken swing again
must not fire a second event.
-----------------------------------------------------------------------
*/
func TestTrackerSingleEventPerPivot(t *testing.T) {
	tr, _ := NewTracker(2)
	low := 99.0
	bars := []types.Candle{
		bar(100, low, 99.8),
		bar(101, low, 100.2),
		bar(103, low, 100.4),
		bar(101, low, 100.3),
		bar(100.5, low, 100.1),
		bar(103.5, low, 103.2), // BOS up
		bar(103.6, low, 103.4), // still above the old pivot: no event
		bar(103.7, low, 103.5),
	}
	events := feed(t, tr, bars)
	if len(events) != 1 {
		t.Fatalf("expected one event, got %d (%v)", len(events), events)
	}
}

/*
-----------------------------------------------------------------------
After an up trend is established, a confirmed swing low broken to the
downside is a ChoCH and flips the trend.
-----------------------------------------------------------------------
*/
func TestTrackerChoCH(t *testing.T) {
	tr, _ := NewTracker(2)
	events := feed(t, tr, []types.Candle{
		bar(100, 99, 99.8),       // 0
		bar(101, 100, 100.2),     // 1
		bar(103, 101, 100.4),     // 2  swing-high candidate
		bar(101, 100, 100.3),     // 3
		bar(100.5, 99.5, 100.1),  // 4  confirms swing high 103 @ 2
		bar(104, 103, 103.5),     // 5  close > 103: BOS up
		bar(103.8, 101, 101.2), // 6
		bar(101.5, 100, 100.5), // 7  swing-low candidate (low 100)
		bar(101, 100.5, 100.8), // 8
		bar(101.2, 101, 101.1), // 9  confirms swing low 100 @ 7
		bar(101, 99.4, 99.5),   // 10 close < 100: ChoCH down
	})
	if len(events) != 2 {
		t.Fatalf("expected two events, got %d (%v)", len(events), events)
	}
	if events[0].Type != BOS || events[0].Direction != Up {
		t.Fatalf("first event = %v, want BOS up", events[0])
	}
	second := events[1]
	if second.Type != ChoCH || second.Direction != Down {
		t.Fatalf("second event = %v, want ChoCH down", second)
	}
	if second.Level != 100 || second.PivotIndex != 7 {
		t.Fatalf("ChoCH detail mismatch: %+v", second)
	}
	if trend, _ := tr.Trend(); trend != Down {
		t.Fatalf("trend = %v, want down after ChoCH", trend)
	}
}

/*
-----------------------------------------------------------------------
Equal highs in the fractal window produce no pivot: ties are not
strict extremes.
-----------------------------------------------------------------------
*/
func TestTrackerEqualHighsNoPivot(t *testing.T) {
	tr, _ := NewTracker(2)
	low := 99.0
	feed(t, tr, []types.Candle{
		bar(100, low, 99.8),
		bar(103, low, 100.2),
		bar(103, low, 100.4), // tie with the previous high
		bar(101, low, 100.3),
		bar(100.5, low, 100.1),
		bar(100.4, low, 100.0),
	})
	if _, ok := tr.LastSwingHigh(); ok {
		t.Fatal("tie should not confirm a swing high")
	}
}
