package archive

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"
)

func listParquet(t *testing.T, dir, prefix string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	var out []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), prefix) && strings.HasSuffix(e.Name(), ".parquet") {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	return out
}

func TestFlushWritesParquetFiles(t *testing.T) {
	dir := t.TempDir()
	a, err := NewArchiver(dir)
	if err != nil {
		t.Fatalf("NewArchiver failed: %v", err)
	}

	now := time.Now().UnixMilli()
	a.AddProfile(ProfileRow{
		Timestamp: now, Symbol: "BTCUSDT",
		POCPrice: 50_000, VALow: 49_500, VAHigh: 50_600,
		TotalVolume: 1234, HVNCount: 2, LVNCount: 1,
	})
	a.AddSignal(SignalRow{
		Timestamp: now, Symbol: "BTCUSDT",
		Kind: "bos", Direction: "up", Price: 50_100, Level: 50_000,
	})
	a.AddSignal(SignalRow{
		Timestamp: now, Symbol: "ETHUSDT",
		Kind: "pair_diverge", Direction: "short", Price: 3000, ZScore: 2.3,
	})

	if err := a.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	profFiles := listParquet(t, dir, "profiles-")
	sigFiles := listParquet(t, dir, "signals-")
	if len(profFiles) != 1 || len(sigFiles) != 1 {
		t.Fatalf("expected one file per kind, got %d/%d", len(profFiles), len(sigFiles))
	}

	rows := readSignals(t, sigFiles[0])
	if len(rows) != 2 {
		t.Fatalf("expected 2 signal rows, got %d", len(rows))
	}
	if rows[0].Kind != "bos" || rows[1].Kind != "pair_diverge" {
		t.Fatalf("signal rows mismatch: %+v", rows)
	}
}

func readSignals(t *testing.T, path string) []SignalRow {
	t.Helper()
	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		t.Fatalf("open parquet: %v", err)
	}
	defer fr.Close()
	pr, err := reader.NewParquetReader(fr, new(SignalRow), 1)
	if err != nil {
		t.Fatalf("new parquet reader: %v", err)
	}
	defer pr.ReadStop()

	rows := make([]SignalRow, pr.GetNumRows())
	if err := pr.Read(&rows); err != nil {
		t.Fatalf("read parquet: %v", err)
	}
	return rows
}

func TestFlushEmptyWritesNothing(t *testing.T) {
	dir := t.TempDir()
	a, err := NewArchiver(dir)
	if err != nil {
		t.Fatalf("NewArchiver failed: %v", err)
	}
	if err := a.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no files, got %d", len(entries))
	}
}

func TestFlushClearsBuffers(t *testing.T) {
	dir := t.TempDir()
	a, err := NewArchiver(dir)
	if err != nil {
		t.Fatalf("NewArchiver failed: %v", err)
	}
	a.AddSignal(SignalRow{Timestamp: time.Now().UnixMilli(), Symbol: "X", Kind: "choch"})
	if err := a.Flush(); err != nil {
		t.Fatalf("first Flush failed: %v", err)
	}
	before := len(listParquet(t, dir, "signals-"))
	if err := a.Flush(); err != nil {
		t.Fatalf("second Flush failed: %v", err)
	}
	if after := len(listParquet(t, dir, "signals-")); after != before {
		t.Fatalf("second flush wrote files from an empty buffer: %d -> %d", before, after)
	}
}
