package strategy

import (
	"github.com/evdnx/gomp/config"
	"github.com/evdnx/gomp/executor"
	"github.com/evdnx/gomp/logger"
	"github.com/evdnx/gomp/metrics"
	"github.com/evdnx/gomp/profile"
	"github.com/evdnx/gomp/types"
)

// ProfileBreakout trades escapes from the volume-profile value area. An entry
// requires the close to sit beyond the value area inside a low-volume node
// (thin zones offer little resistance) plus an HMA trend confirmation.
type ProfileBreakout struct {
	*BaseStrategy
	builder *profile.Builder
	last    *profile.Profile
	signal  *BreakoutSignal
}

// BreakoutSignal describes the entry taken on the last processed bar.
type BreakoutSignal struct {
	Direction string  // "long" / "short"
	Price     float64 // entry close
	Level     float64 // value-area bound that was escaped
}

// NewProfileBreakout builds the suite and the rolling profile window.
func NewProfileBreakout(symbol string, cfg config.StrategyConfig,
	exec executor.Executor, log logger.Logger) (*ProfileBreakout, error) {

	base, err := NewBaseStrategy(symbol, cfg, exec, defaultSuiteFactory(cfg), log)
	if err != nil {
		return nil, err
	}
	opt := profile.Options{
		Bins:         cfg.ProfileBins,
		ValueAreaPct: cfg.ValueAreaPct,
		HVNFactor:    cfg.HVNFactor,
		LVNFactor:    cfg.LVNFactor,
	}
	return &ProfileBreakout{
		BaseStrategy: base,
		builder:      profile.NewBuilder(opt, cfg.ProfileWindow),
	}, nil
}

// LastProfile returns the most recently computed profile, if any.
func (pb *ProfileBreakout) LastProfile() *profile.Profile { return pb.last }

// Signal returns the breakout entry taken by the last ProcessBar call, or nil.
func (pb *ProfileBreakout) Signal() *BreakoutSignal { return pb.signal }

// ProcessBar updates the profile window and evaluates breakout signals.
func (pb *ProfileBreakout) ProcessBar(high, low, close, volume float64) {
	pb.signal = nil
	if err := pb.Suite.Add(high, low, close, volume); err != nil {
		pb.Log.Warn("suite_add_error", logger.Err(err))
		return
	}
	pb.recordPrice(close)
	pb.builder.Add(types.Candle{Symbol: pb.Symbol, High: high, Low: low, Close: close, Volume: volume})

	if !pb.hasHistory(15) || pb.builder.Len() < pb.Cfg.ProfileWindow {
		return
	}
	prof, err := pb.builder.Compute()
	if err != nil {
		pb.Log.Warn("profile_compute_error", logger.Err(err))
		return
	}
	pb.last = prof

	thin := prof.IsLVN(close)
	longSignal := close > prof.VAHigh && thin && pb.hmaBullish()
	shortSignal := close < prof.VALow && thin && pb.hmaBearish()

	posQty, _ := pb.Exec.Position(pb.Symbol)

	switch {
	case longSignal && posQty <= 0:
		metrics.SignalsDetected.WithLabelValues("profile_breakout").Inc()
		pb.Log.Info("lvn_breakout",
			logger.String("symbol", pb.Symbol),
			logger.Float64("close", close),
			logger.Float64("va_high", prof.VAHigh),
			logger.Float64("poc", prof.POCPrice),
		)
		if posQty < 0 {
			pb.closePosition(close, "profile_close_short")
		}
		pb.openLong(close, "ProfileBreakout entry long", "profile_long")
		pb.signal = &BreakoutSignal{Direction: "long", Price: close, Level: prof.VAHigh}

	case shortSignal && posQty >= 0:
		metrics.SignalsDetected.WithLabelValues("profile_breakout").Inc()
		pb.Log.Info("lvn_breakdown",
			logger.String("symbol", pb.Symbol),
			logger.Float64("close", close),
			logger.Float64("va_low", prof.VALow),
			logger.Float64("poc", prof.POCPrice),
		)
		if posQty > 0 {
			pb.closePosition(close, "profile_close_long")
		}
		pb.openShort(close, "ProfileBreakout entry short", "profile_short")
		pb.signal = &BreakoutSignal{Direction: "short", Price: close, Level: prof.VALow}

	case posQty != 0:
		if pb.Cfg.TrailingPct > 0 {
			pb.applyTrailingStop(close)
		}
		pb.manageTakeProfit(close, pb.swingVolatility(), "profile_tp")
	}
}
