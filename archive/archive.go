// Package archive buffers analytics records in memory and flushes them to
// snappy-compressed parquet files for offline analysis.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
)

// ProfileRow is the parquet schema for profile snapshots.
type ProfileRow struct {
	Timestamp   int64   `parquet:"name=timestamp, type=INT64, convertedtype=TIMESTAMP_MILLIS"`
	Symbol      string  `parquet:"name=symbol, type=BYTE_ARRAY, convertedtype=UTF8"`
	POCPrice    float64 `parquet:"name=poc_price, type=DOUBLE"`
	VALow       float64 `parquet:"name=va_low, type=DOUBLE"`
	VAHigh      float64 `parquet:"name=va_high, type=DOUBLE"`
	TotalVolume float64 `parquet:"name=total_volume, type=DOUBLE"`
	HVNCount    int32   `parquet:"name=hvn_count, type=INT32"`
	LVNCount    int32   `parquet:"name=lvn_count, type=INT32"`
}

// SignalRow is the parquet schema for detected signals.
type SignalRow struct {
	Timestamp int64   `parquet:"name=timestamp, type=INT64, convertedtype=TIMESTAMP_MILLIS"`
	Symbol    string  `parquet:"name=symbol, type=BYTE_ARRAY, convertedtype=UTF8"`
	Kind      string  `parquet:"name=kind, type=BYTE_ARRAY, convertedtype=UTF8"`
	Direction string  `parquet:"name=direction, type=BYTE_ARRAY, convertedtype=UTF8"`
	Price     float64 `parquet:"name=price, type=DOUBLE"`
	Level     float64 `parquet:"name=level, type=DOUBLE"`
	ZScore    float64 `parquet:"name=zscore, type=DOUBLE"`
}

// Archiver accumulates rows until Flush writes one parquet file per kind.
type Archiver struct {
	mu       sync.Mutex
	dir      string
	profiles []ProfileRow
	signals  []SignalRow
}

func NewArchiver(dir string) (*Archiver, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("archive: mkdir %s: %w", dir, err)
	}
	return &Archiver{dir: dir}, nil
}

func (a *Archiver) AddProfile(row ProfileRow) {
	a.mu.Lock()
	a.profiles = append(a.profiles, row)
	a.mu.Unlock()
}

func (a *Archiver) AddSignal(row SignalRow) {
	a.mu.Lock()
	a.signals = append(a.signals, row)
	a.mu.Unlock()
}

// Flush writes the buffered rows and clears the buffers. Empty buffers
// produce no files.
func (a *Archiver) Flush() error {
	a.mu.Lock()
	profiles := a.profiles
	signals := a.signals
	a.profiles = nil
	a.signals = nil
	a.mu.Unlock()

	stamp := time.Now().UTC().Format("20060102T150405")
	if len(profiles) > 0 {
		path := filepath.Join(a.dir, "profiles-"+stamp+".parquet")
		if err := writeParquet(path, new(ProfileRow), func(pw *writer.ParquetWriter) error {
			for _, row := range profiles {
				if err := pw.Write(row); err != nil {
					return err
				}
			}
			return nil
		}); err != nil {
			return fmt.Errorf("archive: flush profiles: %w", err)
		}
	}
	if len(signals) > 0 {
		path := filepath.Join(a.dir, "signals-"+stamp+".parquet")
		if err := writeParquet(path, new(SignalRow), func(pw *writer.ParquetWriter) error {
			for _, row := range signals {
				if err := pw.Write(row); err != nil {
					return err
				}
			}
			return nil
		}); err != nil {
			return fmt.Errorf("archive: flush signals: %w", err)
		}
	}
	return nil
}

func writeParquet(path string, schema interface{}, fill func(*writer.ParquetWriter) error) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return err
	}
	pw, err := writer.NewParquetWriter(fw, schema, 2)
	if err != nil {
		fw.Close()
		return err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	if err := fill(pw); err != nil {
		pw.WriteStop()
		fw.Close()
		return err
	}
	if err := pw.WriteStop(); err != nil {
		fw.Close()
		return err
	}
	return fw.Close()
}
