// Package engine wires the feed, the per-symbol analytics strategies and the
// pair monitors together, and exposes the snapshot hooks the scheduler calls.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/evdnx/gomp/archive"
	"github.com/evdnx/gomp/config"
	"github.com/evdnx/gomp/executor"
	"github.com/evdnx/gomp/feed"
	"github.com/evdnx/gomp/logger"
	"github.com/evdnx/gomp/recorder"
	"github.com/evdnx/gomp/strategy"
	"github.com/evdnx/gomp/types"
)

type Engine struct {
	cfg  *config.EngineConfig
	src  feed.Source
	exec executor.Executor
	rec  recorder.Recorder
	arch *archive.Archiver // nil = archiving disabled
	log  logger.Logger

	breakouts  map[string]*strategy.ProfileBreakout
	structures map[string]*strategy.StructureShift
	pairs      []*strategy.PairSpread

	mu   sync.Mutex
	last map[string]types.Candle // latest candle per symbol, for pair sync
}

func New(cfg *config.EngineConfig, src feed.Source, exec executor.Executor,
	rec recorder.Recorder, arch *archive.Archiver, log logger.Logger) (*Engine, error) {

	e := &Engine{
		cfg:        cfg,
		src:        src,
		exec:       exec,
		rec:        rec,
		arch:       arch,
		log:        log,
		breakouts:  make(map[string]*strategy.ProfileBreakout),
		structures: make(map[string]*strategy.StructureShift),
		last:       make(map[string]types.Candle),
	}
	for _, sym := range cfg.Symbols {
		pb, err := strategy.NewProfileBreakout(sym, cfg.Strategy, exec, log)
		if err != nil {
			return nil, fmt.Errorf("engine: profile strategy %s: %w", sym, err)
		}
		ss, err := strategy.NewStructureShift(sym, cfg.Strategy, exec, log)
		if err != nil {
			return nil, fmt.Errorf("engine: structure strategy %s: %w", sym, err)
		}
		e.breakouts[sym] = pb
		e.structures[sym] = ss
	}
	for _, pc := range cfg.Pairs {
		ps, err := strategy.NewPairSpread(pc.LegA, pc.LegB, cfg.Strategy, exec, log)
		if err != nil {
			return nil, fmt.Errorf("engine: pair %s/%s: %w", pc.LegA, pc.LegB, err)
		}
		e.pairs = append(e.pairs, ps)
	}
	return e, nil
}

// Run consumes the feed until the context is cancelled or the source is
// exhausted.
func (e *Engine) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case c, ok := <-e.src.Candles():
			if !ok {
				e.log.Info("feed_exhausted")
				return nil
			}
			e.handle(c)
		}
	}
}

func (e *Engine) handle(c types.Candle) {
	e.mu.Lock()
	e.last[c.Symbol] = c
	e.mu.Unlock()

	if pb, ok := e.breakouts[c.Symbol]; ok {
		pb.ProcessBar(c.High, c.Low, c.Close, c.Volume)
		if sig := pb.Signal(); sig != nil {
			e.recordEvent(c, "profile_breakout", sig.Direction, sig.Level)
		}
	}
	if ss, ok := e.structures[c.Symbol]; ok {
		ss.ProcessBar(c.High, c.Low, c.Close, c.Volume)
		for _, ev := range ss.Events() {
			e.recordEvent(c, ev.Type.String(), ev.Direction.String(), ev.Level)
		}
	}
	e.updatePairs(c)
}

// updatePairs drives every pair whose dependent leg just closed a bar, using
// the latest bar seen on the independent leg.
func (e *Engine) updatePairs(c types.Candle) {
	for _, ps := range e.pairs {
		if ps.Symbol != c.Symbol {
			continue
		}
		legA, ok := e.lastCandle(ps.LegA())
		if !ok {
			continue
		}
		ps.ProcessBars(legA, c)
		if snap := ps.Snapshot(); snap.Signal.String() != "none" {
			rec := &recorder.SignalRecord{
				Timestamp: c.Start,
				Symbol:    ps.Symbol,
				Kind:      "pair_" + snap.Signal.String(),
				Price:     c.Close,
				ZScore:    snap.ZScore,
			}
			if err := e.rec.RecordSignal(rec); err != nil {
				e.log.Error("record_signal_failed", logger.Err(err))
			}
			if e.arch != nil {
				e.arch.AddSignal(archive.SignalRow{
					Timestamp: c.Start.UnixMilli(),
					Symbol:    ps.Symbol,
					Kind:      rec.Kind,
					Price:     c.Close,
					ZScore:    snap.ZScore,
				})
			}
		}
	}
}

func (e *Engine) lastCandle(symbol string) (types.Candle, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, ok := e.last[symbol]
	return c, ok
}

// recordEvent persists one structure or breakout signal and mirrors it into
// the archive buffer.
func (e *Engine) recordEvent(c types.Candle, kind, direction string, level float64) {
	rec := &recorder.SignalRecord{
		Timestamp: c.Start,
		Symbol:    c.Symbol,
		Kind:      kind,
		Direction: direction,
		Price:     c.Close,
		Level:     level,
	}
	if err := e.rec.RecordSignal(rec); err != nil {
		e.log.Error("record_signal_failed", logger.Err(err))
	}
	if e.arch != nil {
		e.arch.AddSignal(archive.SignalRow{
			Timestamp: c.Start.UnixMilli(),
			Symbol:    c.Symbol,
			Kind:      kind,
			Direction: direction,
			Price:     c.Close,
			Level:     level,
		})
	}
}

// SnapshotProfiles persists the latest computed profile of every symbol.
// Called by the scheduler at session boundaries.
func (e *Engine) SnapshotProfiles() {
	now := time.Now().UTC()
	for sym, pb := range e.breakouts {
		prof := pb.LastProfile()
		if prof == nil {
			continue
		}
		snap := &recorder.ProfileSnapshot{
			Timestamp:   now,
			Symbol:      sym,
			POCPrice:    prof.POCPrice,
			VALow:       prof.VALow,
			VAHigh:      prof.VAHigh,
			TotalVolume: prof.TotalVolume,
			HVNCount:    len(prof.HVN),
			LVNCount:    len(prof.LVN),
		}
		if err := e.rec.RecordProfile(snap); err != nil {
			e.log.Error("record_profile_failed", logger.String("symbol", sym), logger.Err(err))
			continue
		}
		if e.arch != nil {
			e.arch.AddProfile(archive.ProfileRow{
				Timestamp:   now.UnixMilli(),
				Symbol:      sym,
				POCPrice:    prof.POCPrice,
				VALow:       prof.VALow,
				VAHigh:      prof.VAHigh,
				TotalVolume: prof.TotalVolume,
				HVNCount:    int32(len(prof.HVN)),
				LVNCount:    int32(len(prof.LVN)),
			})
		}
	}
}

// SnapshotPairs persists the current state of every pair monitor.
func (e *Engine) SnapshotPairs() {
	now := time.Now().UTC()
	for _, ps := range e.pairs {
		snap := ps.Snapshot()
		if snap.Samples == 0 {
			continue
		}
		rec := &recorder.PairSnapshot{
			Timestamp:   now,
			Pair:        ps.Pair(),
			Correlation: snap.Correlation,
			Beta:        snap.Beta,
			Spread:      snap.Spread,
			ZScore:      snap.ZScore,
			Linked:      snap.Linked,
		}
		if err := e.rec.RecordPair(rec); err != nil {
			e.log.Error("record_pair_failed", logger.String("pair", ps.Pair()), logger.Err(err))
		}
	}
}

// FlushArchive writes buffered archive rows to parquet.
func (e *Engine) FlushArchive() {
	if e.arch == nil {
		return
	}
	if err := e.arch.Flush(); err != nil {
		e.log.Error("archive_flush_failed", logger.Err(err))
	}
}
