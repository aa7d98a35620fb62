package statarb

import (
	"math"
	"testing"
)

func TestNewPairMonitorValidation(t *testing.T) {
	if _, err := NewPairMonitor(2, 0.5, 2, 0.5); err == nil {
		t.Fatal("expected error for tiny window")
	}
	if _, err := NewPairMonitor(10, 0.5, 1, 1); err == nil {
		t.Fatal("expected error for exitZ >= entryZ")
	}
	if _, err := NewPairMonitor(10, 1.5, 2, 0.5); err == nil {
		t.Fatal("expected error for corrMin > 1")
	}
}

func TestUpdateRejectsNonPositivePrices(t *testing.T) {
	m, _ := NewPairMonitor(10, 0, 2, 0.5)
	if _, err := m.Update(0, 100); err == nil {
		t.Fatal("expected error for zero price")
	}
	if _, err := m.Update(100, -1); err == nil {
		t.Fatal("expected error for negative price")
	}
}

func TestUpdateWarmup(t *testing.T) {
	m, _ := NewPairMonitor(10, 0, 2, 0.5)
	snap, err := m.Update(100, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Samples != 1 || snap.Signal != None || snap.Linked {
		t.Fatalf("warm-up snapshot should be inert, got %+v", snap)
	}
}

/*
-----------------------------------------------------------------------
Identical legs: correlation 1, beta 1, spread constant, z-score 0.
-----------------------------------------------------------------------
*/
func TestUpdateIdenticalLegs(t *testing.T) {
	m, _ := NewPairMonitor(5, 0.9, 2, 0.5)
	var snap Snapshot
	prices := []float64{100, 102, 101, 103, 105, 104, 106}
	for _, p := range prices {
		var err error
		snap, err = m.Update(p, p)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if math.Abs(snap.Correlation-1) > 1e-9 {
		t.Fatalf("correlation = %v, want 1", snap.Correlation)
	}
	if math.Abs(snap.Beta-1) > 1e-9 {
		t.Fatalf("beta = %v, want 1", snap.Beta)
	}
	if math.Abs(snap.ZScore) > 1e-9 {
		t.Fatalf("z-score = %v, want 0", snap.ZScore)
	}
	if !snap.Linked {
		t.Fatal("identical legs must be linked")
	}
	if snap.Signal != None {
		t.Fatalf("signal = %v, want none", snap.Signal)
	}
}

/*
-----------------------------------------------------------------------
Flat legs: zero variance must not divide by zero; the snapshot stays
inert.
-----------------------------------------------------------------------
*/
func TestUpdateZeroVariance(t *testing.T) {
	m, _ := NewPairMonitor(5, 0, 2, 0.5)
	var snap Snapshot
	for i := 0; i < 6; i++ {
		snap, _ = m.Update(100, 200)
	}
	if snap.Signal != None {
		t.Fatalf("signal = %v, want none on flat legs", snap.Signal)
	}
	if snap.ZScore != 0 {
		t.Fatalf("z-score = %v, want 0 on flat legs", snap.ZScore)
	}
}

/*
-----------------------------------------------------------------------
Divergence / convergence cycle. Leg A oscillates; leg B tracks it
exactly, then jumps well above the fitted line (DivergeShort), then
snaps back (Converge). The jump happens at a mid-range price of A so
the outlier cannot tilt the OLS fit.
-----------------------------------------------------------------------
*/
func TestDivergenceConvergenceCycle(t *testing.T) {
	m, _ := NewPairMonitor(10, 0, 1.5, 0.5)

	aCycle := []float64{100, 102, 104, 102, 100, 102, 104, 102, 100, 102, 104}
	for _, p := range aCycle {
		snap, err := m.Update(p, p)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if snap.Signal != None {
			t.Fatalf("premature signal %v", snap.Signal)
		}
	}

	// Leg B jumps 13 % above the line while A sits mid-range.
	snap, err := m.Update(102, 115)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Signal != DivergeShort {
		t.Fatalf("signal = %v (z=%v), want diverge_short", snap.Signal, snap.ZScore)
	}
	if snap.ZScore < 1.5 {
		t.Fatalf("z-score = %v, want >= entry threshold", snap.ZScore)
	}

	// No re-entry while stretched.
	snap, _ = m.Update(102, 115)
	if snap.Signal == DivergeShort {
		t.Fatal("stretched pair must not signal divergence twice")
	}

	// B returns to the line: spread converges.
	var converged bool
	for i := 0; i < 6 && !converged; i++ {
		snap, _ = m.Update(102, 102)
		converged = snap.Signal == Converge
	}
	if !converged {
		t.Fatalf("expected a converge signal, last z=%v", snap.ZScore)
	}
}

func TestPseudoPearson(t *testing.T) {
	x := []float64{1, 2, 3}
	if got := PseudoPearson(x, x); math.Abs(got-1) > 1e-12 {
		t.Fatalf("self correlation = %v, want 1", got)
	}
	y := []float64{-1, -2, -3}
	if got := PseudoPearson(x, y); math.Abs(got+1) > 1e-12 {
		t.Fatalf("inverse correlation = %v, want -1", got)
	}
	if got := PseudoPearson(x, []float64{0, 0, 0}); got != 0 {
		t.Fatalf("zero series correlation = %v, want 0", got)
	}
	if got := PseudoPearson(x, []float64{1, 2}); got != 0 {
		t.Fatalf("length mismatch correlation = %v, want 0", got)
	}
}
