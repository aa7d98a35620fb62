package executor

import (
	"errors"

	"github.com/evdnx/gomp/logger"
	"github.com/evdnx/gomp/metrics"
	"github.com/evdnx/gomp/types"
)

type Executor interface {
	Submit(o types.Order) error
	// For back-testing we expose the portfolio state
	Equity() float64
	Position(symbol string) (qty float64, avgPrice float64)
}

var ErrInsufficientCash = errors.New("insufficient cash")

// PaperExecutor is a very simple paper-trader – perfect fills, no slippage.
type PaperExecutor struct {
	equity    float64
	positions map[string]float64 // qty (positive = long, negative = short)
	avgPrice  map[string]float64
	log       logger.Logger
}

func NewPaperExecutor(startEquity float64, log logger.Logger) *PaperExecutor {
	return &PaperExecutor{
		equity:    startEquity,
		positions: make(map[string]float64),
		avgPrice:  make(map[string]float64),
		log:       log,
	}
}

func (p *PaperExecutor) Submit(o types.Order) error {
	if o.Qty == 0 {
		return nil
	}
	// market fill – price = current market price (passed in Order.Price)
	cost := o.Price * o.Qty
	if o.Side == types.Buy {
		if cost > p.equity {
			return ErrInsufficientCash
		}
		p.equity -= cost
		p.positions[o.Symbol] += o.Qty
		p.rebaseAvg(o.Symbol, o.Qty, cost)
	} else { // Sell / short
		p.equity += cost
		p.positions[o.Symbol] -= o.Qty
		// avg price for shorts is handled the same way
		p.rebaseAvg(o.Symbol, -o.Qty, cost)
	}
	metrics.EquityGauge.Set(p.equity)
	if p.log != nil {
		p.log.Info("paper_fill",
			logger.String("symbol", o.Symbol),
			logger.String("side", string(o.Side)),
			logger.Float64("qty", o.Qty),
			logger.Float64("price", o.Price),
			logger.Float64("equity", p.equity),
		)
	}
	return nil
}

// rebaseAvg maintains a simple VWAP average price. A fully closed position
// resets the average so a reopened one starts fresh.
func (p *PaperExecutor) rebaseAvg(symbol string, deltaQty, cost float64) {
	pos := p.positions[symbol]
	if pos == 0 {
		delete(p.avgPrice, symbol)
		delete(p.positions, symbol)
		return
	}
	prev := p.avgPrice[symbol]
	p.avgPrice[symbol] = (prev*(pos-deltaQty) + cost) / pos
}

func (p *PaperExecutor) Equity() float64 { return p.equity }

func (p *PaperExecutor) Position(sym string) (float64, float64) {
	return p.positions[sym], p.avgPrice[sym]
}
