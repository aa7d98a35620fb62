package strategy

import "math"

// priceBuffer keeps a rolling window of recent closing prices and exposes
// lightweight statistics (trend direction, slope, volatility) that the
// strategies can use without relying on heavyweight indicator state.
type priceBuffer struct {
	max      int
	lookback int
	buf      []float64
}

func newPriceBuffer(max int) *priceBuffer {
	if max <= 0 {
		max = 16
	}
	return &priceBuffer{max: max, lookback: 8}
}

func (p *priceBuffer) Add(v float64) {
	p.buf = append(p.buf, v)
	if len(p.buf) > p.max {
		p.buf = p.buf[len(p.buf)-p.max:]
	}
}

func (p *priceBuffer) Len() int { return len(p.buf) }

func (p *priceBuffer) Last() float64 {
	if len(p.buf) == 0 {
		return 0
	}
	return p.buf[len(p.buf)-1]
}

func (p *priceBuffer) window() []float64 {
	n := len(p.buf)
	lb := p.lookback
	if lb >= n {
		lb = n - 1
	}
	start := n - lb - 1
	if start < 0 {
		start = 0
	}
	return p.buf[start:]
}

// Trend scores the recent up vs down closes; returns +1, -1 or 0.
func (p *priceBuffer) Trend() int {
	if len(p.buf) < 2 {
		return 0
	}
	seg := p.window()
	score := 0
	for i := 1; i < len(seg); i++ {
		switch {
		case seg[i] > seg[i-1]:
			score++
		case seg[i] < seg[i-1]:
			score--
		}
	}
	threshold := (len(seg) - 1) / 3
	if threshold < 2 {
		threshold = 2
	}
	if score >= threshold {
		return 1
	}
	if score <= -threshold {
		return -1
	}
	return 0
}

// Slope is the least-squares slope over the recent window.
func (p *priceBuffer) Slope() float64 {
	seg := p.window()
	if len(seg) < 2 {
		return 0
	}
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range seg {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	n := float64(len(seg))
	den := n*sumXX - sumX*sumX
	if den == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / den
}

// Volatility is the mean absolute close-to-close change over the window.
func (p *priceBuffer) Volatility() float64 {
	seg := p.window()
	if len(seg) < 2 {
		return 0
	}
	var diffSum float64
	for i := 1; i < len(seg); i++ {
		diffSum += math.Abs(seg[i] - seg[i-1])
	}
	return diffSum / float64(len(seg)-1)
}
