package config

import (
	"errors"
	"fmt"
)

// StrategyConfig holds all tunable parameters for a strategy. Fields left
// unset in the YAML file keep the Default() values.
type StrategyConfig struct {
	// Indicator thresholds – you can tune them per‑strategy
	RSIOverbought   float64 `yaml:"rsi_overbought"`    // default 70
	RSIOversold     float64 `yaml:"rsi_oversold"`      // default 30
	MFIOverbought   float64 `yaml:"mfi_overbought"`    // default 80
	MFIOversold     float64 `yaml:"mfi_oversold"`      // default 20
	VWAOStrongTrend float64 `yaml:"vwao_strong_trend"` // default 70
	HMAPeriod       int     `yaml:"hma_period"`        // default 9
	ATSEMAperiod    int     `yaml:"ats_ema_period"`    // default 5

	// Volume-profile parameters
	ProfileBins   int     `yaml:"profile_bins"`   // number of price bins, default 24
	ProfileWindow int     `yaml:"profile_window"` // candles per profile, default 96
	ValueAreaPct  float64 `yaml:"value_area_pct"` // cumulative volume target, default 0.70
	HVNFactor     float64 `yaml:"hvn_factor"`     // HVN threshold vs median bin volume, default 1.8
	LVNFactor     float64 `yaml:"lvn_factor"`     // LVN threshold vs median bin volume, default 0.4

	// Market-structure parameters
	StructureDepth int `yaml:"structure_depth"` // fractal half-width in bars, default 2

	// Pair-monitor parameters
	PairWindow    int     `yaml:"pair_window"`    // rolling sample window, default 60
	CorrThreshold float64 `yaml:"corr_threshold"` // minimum correlation to treat the pair as linked, default 0.8
	EntryZ        float64 `yaml:"entry_z"`        // spread z-score that opens a divergence trade, default 2.0
	ExitZ         float64 `yaml:"exit_z"`         // spread z-score that flattens the trade, default 0.5

	// Risk parameters
	MaxRiskPerTrade float64 `yaml:"max_risk_per_trade"` // e.g. 0.01 = 1 % of equity
	StopLossPct     float64 `yaml:"stop_loss_pct"`      // e.g. 0.015 = 1.5 %
	TakeProfitPct   float64 `yaml:"take_profit_pct"`    // e.g. 0.03  = 3 %
	TrailingPct     float64 `yaml:"trailing_pct"`       // optional, 0 = disabled

	// QuantityPrecision defines the number of decimal places to round to
	// (e.g. 2 for crypto/futures, 0 for equities).
	QuantityPrecision int `yaml:"quantity_precision"`

	// Minimum order size accepted by the broker (e.g. 0.001 BTC).
	MinQty float64 `yaml:"min_qty"`

	// StepSize – the increment allowed by the exchange (e.g. 0.0001).
	StepSize float64 `yaml:"step_size"`
}

// Validate checks that all numeric fields are within sensible bounds.
// It returns the first encountered error, allowing the caller to surface a
// clear configuration problem before any trading starts.
func (c *StrategyConfig) Validate() error {
	// Oscillator thresholds may be pushed past their natural range (or even
	// inverted) to disable a gate, so only equality is rejected here.
	if c.RSIOverbought == c.RSIOversold {
		return errors.New("RSIOverbought and RSIOversold cannot be equal")
	}
	if c.MFIOverbought == c.MFIOversold {
		return errors.New("MFIOverbought and MFIOversold cannot be equal")
	}
	if c.HMAPeriod <= 0 {
		return errors.New("HMAPeriod must be positive")
	}
	if c.ATSEMAperiod <= 0 {
		return errors.New("ATSEMAperiod must be positive")
	}
	if c.ProfileBins < 2 {
		return fmt.Errorf("ProfileBins (%d) must be >=2", c.ProfileBins)
	}
	if c.ProfileWindow < c.ProfileBins {
		return fmt.Errorf("ProfileWindow (%d) must be >= ProfileBins (%d)", c.ProfileWindow, c.ProfileBins)
	}
	if c.ValueAreaPct <= 0 || c.ValueAreaPct >= 1 {
		return fmt.Errorf("ValueAreaPct (%f) must be in (0,1)", c.ValueAreaPct)
	}
	if c.HVNFactor <= 1 {
		return fmt.Errorf("HVNFactor (%f) must be >1", c.HVNFactor)
	}
	if c.LVNFactor <= 0 || c.LVNFactor >= 1 {
		return fmt.Errorf("LVNFactor (%f) must be in (0,1)", c.LVNFactor)
	}
	if c.StructureDepth <= 0 {
		return errors.New("StructureDepth must be positive")
	}
	if c.PairWindow < 3 {
		return fmt.Errorf("PairWindow (%d) must be >=3", c.PairWindow)
	}
	if c.CorrThreshold < 0 || c.CorrThreshold > 1 {
		return fmt.Errorf("CorrThreshold (%f) must be between 0 and 1", c.CorrThreshold)
	}
	if c.EntryZ <= 0 {
		return errors.New("EntryZ must be positive")
	}
	if c.ExitZ < 0 || c.ExitZ >= c.EntryZ {
		return fmt.Errorf("ExitZ (%f) must be >=0 and < EntryZ (%f)", c.ExitZ, c.EntryZ)
	}
	if c.MaxRiskPerTrade <= 0 || c.MaxRiskPerTrade > 0.5 {
		return fmt.Errorf("MaxRiskPerTrade (%f) must be >0 and <=0.5", c.MaxRiskPerTrade)
	}
	if c.StopLossPct <= 0 || c.StopLossPct > 0.2 {
		return fmt.Errorf("StopLossPct (%f) must be >0 and <=0.2", c.StopLossPct)
	}
	if c.TakeProfitPct < 0 || c.TakeProfitPct > 5 {
		return fmt.Errorf("TakeProfitPct (%f) out of realistic range", c.TakeProfitPct)
	}
	if c.TrailingPct < 0 || c.TrailingPct > 1 {
		return fmt.Errorf("TrailingPct (%f) must be between 0 and 1", c.TrailingPct)
	}
	if c.QuantityPrecision < 0 {
		return errors.New("QuantityPrecision cannot be negative")
	}
	if c.MinQty < 0 {
		return errors.New("MinQty cannot be negative")
	}
	if c.StepSize <= 0 {
		return errors.New("StepSize must be positive")
	}
	return nil
}

// Default returns a StrategyConfig with the tutorial defaults filled in.
func Default() StrategyConfig {
	return StrategyConfig{
		RSIOverbought:   70,
		RSIOversold:     30,
		MFIOverbought:   80,
		MFIOversold:     20,
		VWAOStrongTrend: 70,
		HMAPeriod:       9,
		ATSEMAperiod:    5,

		ProfileBins:   24,
		ProfileWindow: 96,
		ValueAreaPct:  0.70,
		HVNFactor:     1.8,
		LVNFactor:     0.4,

		StructureDepth: 2,

		PairWindow:    60,
		CorrThreshold: 0.8,
		EntryZ:        2.0,
		ExitZ:         0.5,

		MaxRiskPerTrade:   0.01,
		StopLossPct:       0.015,
		TakeProfitPct:     0.03,
		TrailingPct:       0,
		QuantityPrecision: 2,
		MinQty:            0.001,
		StepSize:          0.0001,
	}
}
