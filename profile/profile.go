// Package profile implements a fixed-bin volume profile: per-candle volume is
// spread across the price bins it overlaps, then the point of control, value
// area and high/low volume nodes are derived from the resulting histogram.
package profile

import (
	"errors"
	"math"
	"sort"

	"github.com/evdnx/gomp/types"
)

var (
	ErrNoCandles       = errors.New("profile: no candles in window")
	ErrNoVolume        = errors.New("profile: window has no traded volume")
	ErrDegenerateRange = errors.New("profile: price range is degenerate")
)

// Options controls histogram resolution and node thresholds.
type Options struct {
	Bins         int     // number of price bins
	ValueAreaPct float64 // cumulative volume target, e.g. 0.70
	HVNFactor    float64 // HVN threshold as multiple of the median bin volume
	LVNFactor    float64 // LVN threshold as multiple of the median bin volume
}

// Bin is one price bucket of the histogram. The bucket covers [Low, High);
// the top bucket also includes its upper bound.
type Bin struct {
	Low    float64
	High   float64
	Volume float64
}

// Profile is the computed histogram plus its derived levels.
type Profile struct {
	Bins        []Bin
	TotalVolume float64

	POC      int     // index of the highest-volume bin
	POCPrice float64 // mid price of the POC bin

	VALow    float64 // value-area lower bound
	VAHigh   float64 // value-area upper bound
	VAVolume float64 // volume captured inside the value area

	HVN []int // indices of high-volume nodes
	LVN []int // indices of low-volume nodes
}

// Compute builds a profile over the supplied candles.
func Compute(candles []types.Candle, opt Options) (*Profile, error) {
	if len(candles) == 0 {
		return nil, ErrNoCandles
	}
	if opt.Bins < 2 {
		return nil, errors.New("profile: need at least 2 bins")
	}
	if opt.ValueAreaPct <= 0 || opt.ValueAreaPct >= 1 {
		return nil, errors.New("profile: value-area target must be in (0,1)")
	}
	if opt.HVNFactor <= 1 {
		return nil, errors.New("profile: HVN factor must be > 1")
	}
	if opt.LVNFactor <= 0 || opt.LVNFactor >= 1 {
		return nil, errors.New("profile: LVN factor must be in (0,1)")
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, c := range candles {
		if c.Low < lo {
			lo = c.Low
		}
		if c.High > hi {
			hi = c.High
		}
	}
	if hi <= lo {
		return nil, ErrDegenerateRange
	}

	width := (hi - lo) / float64(opt.Bins)
	bins := make([]Bin, opt.Bins)
	for i := range bins {
		bins[i].Low = lo + float64(i)*width
		bins[i].High = bins[i].Low + width
	}
	bins[len(bins)-1].High = hi

	total := 0.0
	for _, c := range candles {
		total += accumulate(bins, c)
	}
	if total <= 0 {
		return nil, ErrNoVolume
	}

	p := &Profile{Bins: bins, TotalVolume: total}
	p.POC = maxBin(bins)
	p.POCPrice = (bins[p.POC].Low + bins[p.POC].High) / 2
	p.expandValueArea(opt.ValueAreaPct)
	p.markNodes(opt.HVNFactor, opt.LVNFactor)
	return p, nil
}

// accumulate spreads one candle's volume across the bins it overlaps,
// weighted by overlap fraction. A doji (high == low) drops its whole volume
// into the containing bin. Returns the volume actually booked.
func accumulate(bins []Bin, c types.Candle) float64 {
	if c.Volume <= 0 {
		return 0
	}
	span := c.High - c.Low
	if span <= 0 {
		for i := range bins {
			if c.Close >= bins[i].Low && (c.Close < bins[i].High || i == len(bins)-1) {
				bins[i].Volume += c.Volume
				return c.Volume
			}
		}
		return 0
	}
	booked := 0.0
	for i := range bins {
		overlap := math.Min(c.High, bins[i].High) - math.Max(c.Low, bins[i].Low)
		if overlap <= 0 {
			continue
		}
		v := c.Volume * overlap / span
		bins[i].Volume += v
		booked += v
	}
	return booked
}

func maxBin(bins []Bin) int {
	best := 0
	for i := 1; i < len(bins); i++ {
		if bins[i].Volume > bins[best].Volume {
			best = i
		}
	}
	return best
}

// expandValueArea grows the area outward from the POC, always absorbing the
// higher-volume neighbor, until the cumulative volume reaches the target.
func (p *Profile) expandValueArea(target float64) {
	lo, hi := p.POC, p.POC
	cum := p.Bins[p.POC].Volume
	goal := target * p.TotalVolume

	for cum < goal {
		up, down := -1, -1
		if hi+1 < len(p.Bins) {
			up = hi + 1
		}
		if lo-1 >= 0 {
			down = lo - 1
		}
		if up < 0 && down < 0 {
			break // range exhausted
		}
		if down < 0 || (up >= 0 && p.Bins[up].Volume >= p.Bins[down].Volume) {
			cum += p.Bins[up].Volume
			hi = up
		} else {
			cum += p.Bins[down].Volume
			lo = down
		}
	}
	p.VALow = p.Bins[lo].Low
	p.VAHigh = p.Bins[hi].High
	p.VAVolume = cum
}

// markNodes classifies bins against the median volume of the populated bins.
// Empty bins never count as HVN; LVN marks populated-but-thin bins as well as
// gaps inside the traded range.
func (p *Profile) markNodes(hvnFactor, lvnFactor float64) {
	populated := make([]float64, 0, len(p.Bins))
	for _, b := range p.Bins {
		if b.Volume > 0 {
			populated = append(populated, b.Volume)
		}
	}
	if len(populated) == 0 {
		return
	}
	sort.Float64s(populated)
	med := populated[len(populated)/2]
	if len(populated)%2 == 0 {
		med = (populated[len(populated)/2-1] + populated[len(populated)/2]) / 2
	}

	for i, b := range p.Bins {
		switch {
		case b.Volume >= hvnFactor*med && b.Volume > 0:
			p.HVN = append(p.HVN, i)
		case b.Volume <= lvnFactor*med:
			p.LVN = append(p.LVN, i)
		}
	}
}

// BinAt returns the index of the bin containing price.
func (p *Profile) BinAt(price float64) (int, bool) {
	if len(p.Bins) == 0 || price < p.Bins[0].Low || price > p.Bins[len(p.Bins)-1].High {
		return 0, false
	}
	for i, b := range p.Bins {
		if price >= b.Low && (price < b.High || i == len(p.Bins)-1) {
			return i, true
		}
	}
	return 0, false
}

// InValueArea reports whether price sits inside the value area.
func (p *Profile) InValueArea(price float64) bool {
	return price >= p.VALow && price <= p.VAHigh
}

// IsLVN reports whether the bin containing price is a low-volume node.
func (p *Profile) IsLVN(price float64) bool {
	idx, ok := p.BinAt(price)
	if !ok {
		return false
	}
	for _, i := range p.LVN {
		if i == idx {
			return true
		}
	}
	return false
}

// IsHVN reports whether the bin containing price is a high-volume node.
func (p *Profile) IsHVN(price float64) bool {
	idx, ok := p.BinAt(price)
	if !ok {
		return false
	}
	for _, i := range p.HVN {
		if i == idx {
			return true
		}
	}
	return false
}
