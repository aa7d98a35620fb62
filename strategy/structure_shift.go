package strategy

import (
	"github.com/evdnx/gomp/config"
	"github.com/evdnx/gomp/executor"
	"github.com/evdnx/gomp/logger"
	"github.com/evdnx/gomp/metrics"
	"github.com/evdnx/gomp/structure"
	"github.com/evdnx/gomp/types"
)

// StructureShift trades confirmed market-structure breaks: BOS events add in
// trend direction, ChoCH events flip the book. HMA direction (with the
// rolling-buffer fallback) gates every entry.
type StructureShift struct {
	*BaseStrategy
	tracker    *structure.Tracker
	lastEvents []structure.Event
}

func NewStructureShift(symbol string, cfg config.StrategyConfig,
	exec executor.Executor, log logger.Logger) (*StructureShift, error) {

	base, err := NewBaseStrategy(symbol, cfg, exec, defaultSuiteFactory(cfg), log)
	if err != nil {
		return nil, err
	}
	tracker, err := structure.NewTracker(cfg.StructureDepth)
	if err != nil {
		return nil, err
	}
	return &StructureShift{BaseStrategy: base, tracker: tracker}, nil
}

// Tracker exposes the underlying structure state (trend, last swings).
func (ss *StructureShift) Tracker() *structure.Tracker { return ss.tracker }

// Events returns the structure events confirmed by the last ProcessBar call.
func (ss *StructureShift) Events() []structure.Event { return ss.lastEvents }

// ProcessBar feeds the tracker and acts on any structure events.
func (ss *StructureShift) ProcessBar(high, low, close, volume float64) {
	if err := ss.Suite.Add(high, low, close, volume); err != nil {
		ss.Log.Warn("suite_add_error", logger.Err(err))
		return
	}
	ss.recordPrice(close)

	events := ss.tracker.Update(types.Candle{Symbol: ss.Symbol, High: high, Low: low, Close: close, Volume: volume})
	ss.lastEvents = events
	if len(events) == 0 {
		posQty, _ := ss.Exec.Position(ss.Symbol)
		if posQty != 0 {
			if ss.Cfg.TrailingPct > 0 {
				ss.applyTrailingStop(close)
			}
			ss.manageTakeProfit(close, ss.swingVolatility(), "structure_tp")
		}
		return
	}

	for _, ev := range events {
		metrics.SignalsDetected.WithLabelValues(ev.Type.String()).Inc()
		ss.Log.Info("structure_event",
			logger.String("symbol", ss.Symbol),
			logger.String("type", ev.Type.String()),
			logger.String("direction", ev.Direction.String()),
			logger.Float64("level", ev.Level),
			logger.Int("pivot", ev.PivotIndex),
		)
		ss.act(ev, close)
	}
}

func (ss *StructureShift) act(ev structure.Event, close float64) {
	if !ss.hasHistory(2*ss.Cfg.StructureDepth + 1) {
		return
	}
	posQty, _ := ss.Exec.Position(ss.Symbol)

	if ev.Direction == structure.Up {
		if posQty < 0 {
			// A break above structure invalidates any short, BOS or ChoCH.
			ss.closePosition(close, "structure_close_short")
			posQty = 0
		}
		if posQty == 0 && ss.hmaBullish() {
			ss.openLong(close, "StructureShift entry long", "structure_long")
		}
		return
	}

	if posQty > 0 {
		ss.closePosition(close, "structure_close_long")
		posQty = 0
	}
	if posQty == 0 && ss.hmaBearish() {
		ss.openShort(close, "StructureShift entry short", "structure_short")
	}
}
