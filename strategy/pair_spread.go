package strategy

import (
	"github.com/evdnx/gomp/config"
	"github.com/evdnx/gomp/executor"
	"github.com/evdnx/gomp/logger"
	"github.com/evdnx/gomp/metrics"
	"github.com/evdnx/gomp/statarb"
	"github.com/evdnx/gomp/types"
)

// PairSpread trades divergences of a cointegrated pair on the dependent leg
// (leg B): long B when the spread is stretched low, short B when stretched
// high, flat once the spread converges. Leg A is only observed.
type PairSpread struct {
	*BaseStrategy
	legA    string
	pair    string
	monitor *statarb.PairMonitor
	snap    statarb.Snapshot
}

func NewPairSpread(legA, legB string, cfg config.StrategyConfig,
	exec executor.Executor, log logger.Logger) (*PairSpread, error) {

	base, err := NewBaseStrategy(legB, cfg, exec, defaultSuiteFactory(cfg), log)
	if err != nil {
		return nil, err
	}
	monitor, err := statarb.NewPairMonitor(cfg.PairWindow, cfg.CorrThreshold, cfg.EntryZ, cfg.ExitZ)
	if err != nil {
		return nil, err
	}
	return &PairSpread{
		BaseStrategy: base,
		legA:         legA,
		pair:         legA + "/" + legB,
		monitor:      monitor,
	}, nil
}

// Snapshot returns the monitor state after the last update.
func (ps *PairSpread) Snapshot() statarb.Snapshot { return ps.snap }

// Pair returns the "A/B" label of the monitored pair.
func (ps *PairSpread) Pair() string { return ps.pair }

// LegA returns the symbol of the observed (independent) leg.
func (ps *PairSpread) LegA() string { return ps.legA }

// ProcessBars ingests one synchronized bar per leg.
func (ps *PairSpread) ProcessBars(legA, legB types.Candle) {
	if err := ps.Suite.Add(legB.High, legB.Low, legB.Close, legB.Volume); err != nil {
		ps.Log.Warn("suite_add_error", logger.Err(err))
		return
	}
	ps.recordPrice(legB.Close)

	snap, err := ps.monitor.Update(legA.Close, legB.Close)
	if err != nil {
		ps.Log.Warn("pair_update_error", logger.String("pair", ps.pair), logger.Err(err))
		return
	}
	ps.snap = snap
	metrics.SpreadZScore.WithLabelValues(ps.pair).Set(snap.ZScore)

	posQty, _ := ps.Exec.Position(ps.Symbol)

	switch snap.Signal {
	case statarb.DivergeLong:
		metrics.SignalsDetected.WithLabelValues("pair_diverge").Inc()
		ps.logSignal(snap)
		if posQty < 0 {
			ps.closePosition(legB.Close, "pair_close_short")
		}
		if qty, _ := ps.Exec.Position(ps.Symbol); qty == 0 {
			ps.openLong(legB.Close, "PairSpread long "+ps.pair, "pair_long")
		}

	case statarb.DivergeShort:
		metrics.SignalsDetected.WithLabelValues("pair_diverge").Inc()
		ps.logSignal(snap)
		if posQty > 0 {
			ps.closePosition(legB.Close, "pair_close_long")
		}
		if qty, _ := ps.Exec.Position(ps.Symbol); qty == 0 {
			ps.openShort(legB.Close, "PairSpread short "+ps.pair, "pair_short")
		}

	case statarb.Converge:
		metrics.SignalsDetected.WithLabelValues("pair_converge").Inc()
		ps.logSignal(snap)
		ps.closePosition(legB.Close, "pair_converge")

	default:
		if posQty != 0 && ps.Cfg.TrailingPct > 0 {
			ps.applyTrailingStop(legB.Close)
		}
	}
}

func (ps *PairSpread) logSignal(snap statarb.Snapshot) {
	ps.Log.Info("pair_signal",
		logger.String("pair", ps.pair),
		logger.String("signal", snap.Signal.String()),
		logger.Float64("zscore", snap.ZScore),
		logger.Float64("beta", snap.Beta),
		logger.Float64("corr", snap.Correlation),
	)
}
