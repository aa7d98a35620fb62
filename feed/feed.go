// Package feed supplies candle streams: a live Binance kline websocket and a
// CSV replay source for offline runs.
package feed

import "github.com/evdnx/gomp/types"

// Source streams finished candles. The channel is closed when the source is
// exhausted (replay) or shut down (live).
type Source interface {
	Candles() <-chan types.Candle
	Close() error
}
