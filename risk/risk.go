package risk

import (
	"math"

	"github.com/evdnx/gomp/config"
)

// CalcQty sizes a position from the dollar risk budget and the stop-loss
// distance, then normalizes the result to what the exchange will accept:
// floored to StepSize, rounded to QuantityPrecision, zeroed below MinQty.
func CalcQty(equity, maxRisk, stopLossPct, price float64, cfg config.StrategyConfig) float64 {
	// Dollar risk per trade
	riskAmt := equity * maxRisk
	// Stop-loss distance in dollars
	slDist := price * stopLossPct
	if slDist <= 0 {
		return 0
	}
	qty := riskAmt / slDist

	if cfg.StepSize > 0 {
		qty = math.Floor(qty/cfg.StepSize) * cfg.StepSize
	}
	if cfg.QuantityPrecision >= 0 {
		p := math.Pow(10, float64(cfg.QuantityPrecision))
		qty = math.Floor(qty*p) / p
	}
	if qty < cfg.MinQty {
		return 0
	}
	return qty
}
