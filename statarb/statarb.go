// Package statarb monitors a pair of instruments for statistical-arbitrage
// opportunities: rolling pseudo-Pearson correlation of log returns, an OLS
// hedge ratio, and a spread z-score that flags divergence and convergence.
package statarb

import (
	"errors"
	"fmt"
	"math"
)

type SignalType int

const (
	None SignalType = iota
	// DivergeLong: spread stretched low, go long leg B.
	DivergeLong
	// DivergeShort: spread stretched high, short leg B.
	DivergeShort
	// Converge: spread back inside the exit band, flatten.
	Converge
)

func (s SignalType) String() string {
	switch s {
	case DivergeLong:
		return "diverge_long"
	case DivergeShort:
		return "diverge_short"
	case Converge:
		return "converge"
	default:
		return "none"
	}
}

// Snapshot is the monitor state after one update.
type Snapshot struct {
	Samples     int
	Correlation float64 // pseudo-Pearson over log returns
	Beta        float64 // OLS hedge ratio of logB on logA
	Spread      float64 // logB - Beta*logA
	Mean        float64 // rolling spread mean
	StdDev      float64 // rolling spread stddev
	ZScore      float64
	Linked      bool // correlation above threshold
	Signal      SignalType
}

// PairMonitor keeps rolling windows of log prices for both legs.
type PairMonitor struct {
	window  int
	corrMin float64
	entryZ  float64
	exitZ   float64

	logA []float64
	logB []float64

	stretched bool // a divergence signal is outstanding
}

func NewPairMonitor(window int, corrMin, entryZ, exitZ float64) (*PairMonitor, error) {
	if window < 3 {
		return nil, errors.New("statarb: window must be >=3")
	}
	if entryZ <= 0 || exitZ < 0 || exitZ >= entryZ {
		return nil, errors.New("statarb: need 0 <= exitZ < entryZ, entryZ > 0")
	}
	if corrMin < 0 || corrMin > 1 {
		return nil, errors.New("statarb: corrMin must be in [0,1]")
	}
	return &PairMonitor{window: window, corrMin: corrMin, entryZ: entryZ, exitZ: exitZ}, nil
}

// Update ingests one synchronized price observation per leg.
func (m *PairMonitor) Update(priceA, priceB float64) (Snapshot, error) {
	if priceA <= 0 || priceB <= 0 {
		return Snapshot{}, fmt.Errorf("statarb: non-positive price (%.6f, %.6f)", priceA, priceB)
	}
	m.logA = push(m.logA, math.Log(priceA), m.window)
	m.logB = push(m.logB, math.Log(priceB), m.window)

	snap := Snapshot{Samples: len(m.logA)}
	if snap.Samples < 3 {
		return snap, nil // warm-up
	}

	retA := diffs(m.logA)
	retB := diffs(m.logB)
	snap.Correlation = PseudoPearson(retA, retB)

	beta, ok := hedgeRatio(m.logA, m.logB)
	if !ok {
		return snap, nil // flat leg, nothing to measure
	}
	snap.Beta = beta

	spreads := make([]float64, len(m.logA))
	for i := range m.logA {
		spreads[i] = m.logB[i] - beta*m.logA[i]
	}
	snap.Spread = spreads[len(spreads)-1]
	snap.Mean, snap.StdDev = meanStd(spreads)
	if snap.StdDev > 0 {
		snap.ZScore = (snap.Spread - snap.Mean) / snap.StdDev
	}

	snap.Linked = snap.Samples >= m.window && snap.Correlation >= m.corrMin
	snap.Signal = m.classify(snap)
	return snap, nil
}

func (m *PairMonitor) classify(s Snapshot) SignalType {
	switch {
	case s.Linked && !m.stretched && s.ZScore >= m.entryZ:
		m.stretched = true
		return DivergeShort
	case s.Linked && !m.stretched && s.ZScore <= -m.entryZ:
		m.stretched = true
		return DivergeLong
	case m.stretched && math.Abs(s.ZScore) <= m.exitZ:
		m.stretched = false
		return Converge
	default:
		return None
	}
}

// PseudoPearson is the tutorial variant of the correlation coefficient: the
// product sums are taken over the raw series without mean removal.
func PseudoPearson(x, y []float64) float64 {
	n := len(x)
	if n == 0 || n != len(y) {
		return 0
	}
	var sxy, sxx, syy float64
	for i := 0; i < n; i++ {
		sxy += x[i] * y[i]
		sxx += x[i] * x[i]
		syy += y[i] * y[i]
	}
	den := math.Sqrt(sxx * syy)
	if den == 0 {
		return 0
	}
	return sxy / den
}

// hedgeRatio fits logB = alpha + beta*logA by ordinary least squares.
func hedgeRatio(logA, logB []float64) (float64, bool) {
	n := float64(len(logA))
	var sa, sb, saa, sab float64
	for i := range logA {
		sa += logA[i]
		sb += logB[i]
		saa += logA[i] * logA[i]
		sab += logA[i] * logB[i]
	}
	den := n*saa - sa*sa
	if den == 0 {
		return 0, false
	}
	return (n*sab - sa*sb) / den, true
}

func meanStd(vals []float64) (float64, float64) {
	n := float64(len(vals))
	if n == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	mean := sum / n
	var ss float64
	for _, v := range vals {
		d := v - mean
		ss += d * d
	}
	return mean, math.Sqrt(ss / n)
}

func push(buf []float64, v float64, max int) []float64 {
	buf = append(buf, v)
	if len(buf) > max {
		buf = buf[len(buf)-max:]
	}
	return buf
}

func diffs(vals []float64) []float64 {
	out := make([]float64, 0, len(vals)-1)
	for i := 1; i < len(vals); i++ {
		out = append(out, vals[i]-vals[i-1])
	}
	return out
}
