// Package recorder persists signals and analytics snapshots so dashboards can
// read them while the engine runs.
package recorder

import "time"

// SignalRecord is one detected signal (structure break, profile breakout or
// pair divergence).
type SignalRecord struct {
	ID        string
	Timestamp time.Time
	Symbol    string
	Kind      string // "bos", "choch", "profile_breakout", "pair_diverge", ...
	Direction string // "up" / "down" / "long" / "short" / "flat"
	Price     float64
	Level     float64 // broken level or value-area bound, 0 if n/a
	ZScore    float64 // pair signals only
}

// ProfileSnapshot captures the derived levels of one computed volume profile.
type ProfileSnapshot struct {
	Timestamp   time.Time
	Symbol      string
	POCPrice    float64
	VALow       float64
	VAHigh      float64
	TotalVolume float64
	HVNCount    int
	LVNCount    int
}

// PairSnapshot captures the pair-monitor state at refresh time.
type PairSnapshot struct {
	Timestamp   time.Time
	Pair        string
	Correlation float64
	Beta        float64
	Spread      float64
	ZScore      float64
	Linked      bool
}

type Recorder interface {
	RecordSignal(s *SignalRecord) error
	RecordProfile(p *ProfileSnapshot) error
	RecordPair(p *PairSnapshot) error
	Close() error
}
