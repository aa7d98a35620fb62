package recorder

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestRecorder(t *testing.T) *SQLiteRecorder {
	t.Helper()
	rec, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRecorder failed: %v", err)
	}
	t.Cleanup(func() { rec.Close() })
	return rec
}

func count(t *testing.T, rec *SQLiteRecorder, table string) int {
	t.Helper()
	var n int
	if err := rec.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func TestRecordSignalAssignsID(t *testing.T) {
	rec := openTestRecorder(t)

	sig := &SignalRecord{
		Timestamp: time.Now(),
		Symbol:    "BTCUSDT",
		Kind:      "bos",
		Direction: "up",
		Price:     50_000,
		Level:     49_800,
	}
	if err := rec.RecordSignal(sig); err != nil {
		t.Fatalf("RecordSignal failed: %v", err)
	}
	if sig.ID == "" {
		t.Fatal("expected a generated signal ID")
	}
	if n := count(t, rec, "signals"); n != 1 {
		t.Fatalf("signals count = %d, want 1", n)
	}

	var kind, direction string
	err := rec.db.QueryRow("SELECT kind, direction FROM signals WHERE id = ?", sig.ID).Scan(&kind, &direction)
	if err != nil {
		t.Fatalf("query signal back: %v", err)
	}
	if kind != "bos" || direction != "up" {
		t.Fatalf("stored signal mismatch: %s/%s", kind, direction)
	}
}

func TestRecordSignalRejectsDuplicateID(t *testing.T) {
	rec := openTestRecorder(t)

	sig := &SignalRecord{ID: "fixed", Timestamp: time.Now(), Symbol: "X", Kind: "choch"}
	if err := rec.RecordSignal(sig); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	if err := rec.RecordSignal(&SignalRecord{ID: "fixed", Timestamp: time.Now(), Symbol: "X", Kind: "choch"}); err == nil {
		t.Fatal("expected primary-key violation on duplicate ID")
	}
}

func TestRecordProfileAndPair(t *testing.T) {
	rec := openTestRecorder(t)

	prof := &ProfileSnapshot{
		Timestamp:   time.Now(),
		Symbol:      "ETHUSDT",
		POCPrice:    3000,
		VALow:       2950,
		VAHigh:      3060,
		TotalVolume: 123456,
		HVNCount:    3,
		LVNCount:    2,
	}
	if err := rec.RecordProfile(prof); err != nil {
		t.Fatalf("RecordProfile failed: %v", err)
	}
	if n := count(t, rec, "profile_snapshots"); n != 1 {
		t.Fatalf("profile count = %d, want 1", n)
	}

	pair := &PairSnapshot{
		Timestamp:   time.Now(),
		Pair:        "BTCUSDT/ETHUSDT",
		Correlation: 0.93,
		Beta:        1.1,
		Spread:      0.02,
		ZScore:      2.4,
		Linked:      true,
	}
	if err := rec.RecordPair(pair); err != nil {
		t.Fatalf("RecordPair failed: %v", err)
	}

	var linked int
	if err := rec.db.QueryRow("SELECT linked FROM pair_snapshots").Scan(&linked); err != nil {
		t.Fatalf("query pair back: %v", err)
	}
	if linked != 1 {
		t.Fatalf("linked stored as %d, want 1", linked)
	}
}

func TestRecorderReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "persist.db")

	rec, err := NewSQLiteRecorder(path)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if err := rec.RecordSignal(&SignalRecord{Timestamp: time.Now(), Symbol: "S", Kind: "lvn_breakout"}); err != nil {
		t.Fatalf("RecordSignal failed: %v", err)
	}
	rec.Close()

	rec, err = NewSQLiteRecorder(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer rec.Close()
	if n := count(t, rec, "signals"); n != 1 {
		t.Fatalf("signals after reopen = %d, want 1", n)
	}
}
