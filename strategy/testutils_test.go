package strategy

import (
	"testing"

	"github.com/evdnx/gomp/config"
	"github.com/evdnx/gomp/testutils"
)

// ---------------------------------------------------------------------
// Helper types
// ---------------------------------------------------------------------

// candle represents a single OHLCV bar that the tests feed to a strategy.
type candle struct {
	high, low, close, volume float64
}

// testConfig returns a config with small analytics windows and extremely
// permissive oscillator thresholds, so the tests control entries purely
// through the price series they feed.
func testConfig() config.StrategyConfig {
	cfg := config.Default()
	cfg.RSIOverbought = 1e9
	cfg.RSIOversold = -1e9
	cfg.MFIOverbought = 1e9
	cfg.MFIOversold = -1e9
	cfg.VWAOStrongTrend = 1e9

	cfg.ProfileBins = 5
	cfg.ProfileWindow = 24
	cfg.StructureDepth = 2
	cfg.PairWindow = 10
	cfg.CorrThreshold = 0
	cfg.EntryZ = 1.5
	cfg.ExitZ = 0.5

	cfg.TakeProfitPct = 0
	cfg.TrailingPct = 0
	return cfg
}

// buildProfileBreakout wires a ProfileBreakout to a mock executor and logger.
func buildProfileBreakout(t *testing.T) (*ProfileBreakout, *testutils.MockExecutor) {
	t.Helper()
	exec := testutils.NewMockExecutor(10_000)
	pb, err := NewProfileBreakout("TEST", testConfig(), exec, testutils.NewMockLogger())
	if err != nil {
		t.Fatalf("NewProfileBreakout failed: %v", err)
	}
	return pb, exec
}

// buildStructureShift wires a StructureShift to a mock executor and logger.
func buildStructureShift(t *testing.T) (*StructureShift, *testutils.MockExecutor) {
	t.Helper()
	exec := testutils.NewMockExecutor(10_000)
	ss, err := NewStructureShift("TEST", testConfig(), exec, testutils.NewMockLogger())
	if err != nil {
		t.Fatalf("NewStructureShift failed: %v", err)
	}
	return ss, exec
}

// buildPairSpread wires a PairSpread (trading leg "B") to a mock executor.
func buildPairSpread(t *testing.T) (*PairSpread, *testutils.MockExecutor) {
	t.Helper()
	exec := testutils.NewMockExecutor(10_000)
	ps, err := NewPairSpread("A", "B", testConfig(), exec, testutils.NewMockLogger())
	if err != nil {
		t.Fatalf("NewPairSpread failed: %v", err)
	}
	return ps, exec
}
