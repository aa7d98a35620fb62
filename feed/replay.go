package feed

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/evdnx/gomp/types"
)

// ReplaySource reads <SYMBOL>.csv files (unix_ms,open,high,low,close,volume,
// optional header) and emits all candles merged in time order.
type ReplaySource struct {
	out  chan types.Candle
	done chan struct{}
}

func NewReplaySource(dir string, symbols []string) (*ReplaySource, error) {
	var all []types.Candle
	for _, sym := range symbols {
		candles, err := readCSV(filepath.Join(dir, sym+".csv"), sym)
		if err != nil {
			return nil, err
		}
		all = append(all, candles...)
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Start.Before(all[j].Start) })

	s := &ReplaySource{
		out:  make(chan types.Candle),
		done: make(chan struct{}),
	}
	go func() {
		defer close(s.out)
		for _, c := range all {
			select {
			case s.out <- c:
			case <-s.done:
				return
			}
		}
	}()
	return s, nil
}

func (s *ReplaySource) Candles() <-chan types.Candle { return s.out }

func (s *ReplaySource) Close() error {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	return nil
}

func readCSV(path, symbol string) ([]types.Candle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("feed: open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 6
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("feed: read %s: %w", path, err)
	}

	var out []types.Candle
	for i, row := range rows {
		ts, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			if i == 0 {
				continue // header
			}
			return nil, fmt.Errorf("feed: %s row %d: bad timestamp %q", path, i+1, row[0])
		}
		vals := make([]float64, 5)
		for j := 1; j < 6; j++ {
			v, err := strconv.ParseFloat(row[j], 64)
			if err != nil {
				return nil, fmt.Errorf("feed: %s row %d col %d: %w", path, i+1, j+1, err)
			}
			vals[j-1] = v
		}
		out = append(out, types.Candle{
			Symbol: symbol,
			Open:   vals[0],
			High:   vals[1],
			Low:    vals[2],
			Close:  vals[3],
			Volume: vals[4],
			Start:  time.UnixMilli(ts),
		})
	}
	return out, nil
}
