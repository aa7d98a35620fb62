package profile

import (
	"sync"

	"github.com/evdnx/gomp/metrics"
	"github.com/evdnx/gomp/types"
)

// Builder keeps a rolling window of candles and recomputes the profile on
// demand. Safe for concurrent use: the feed goroutine adds candles while the
// scheduler snapshots profiles.
type Builder struct {
	mu      sync.Mutex
	opt     Options
	window  int
	candles []types.Candle
}

func NewBuilder(opt Options, window int) *Builder {
	if window <= 0 {
		window = 96
	}
	return &Builder{opt: opt, window: window}
}

// Add appends a candle, evicting the oldest once the window is full.
func (b *Builder) Add(c types.Candle) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.candles = append(b.candles, c)
	if len(b.candles) > b.window {
		b.candles = b.candles[len(b.candles)-b.window:]
	}
}

// Len returns the number of candles currently windowed.
func (b *Builder) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.candles)
}

// Compute builds the profile over the current window.
func (b *Builder) Compute() (*Profile, error) {
	b.mu.Lock()
	snapshot := make([]types.Candle, len(b.candles))
	copy(snapshot, b.candles)
	b.mu.Unlock()

	p, err := Compute(snapshot, b.opt)
	if err != nil {
		return nil, err
	}
	metrics.ProfilesBuilt.Inc()
	return p, nil
}
