package feed

import (
	"fmt"
	"strconv"
	"time"

	"github.com/adshao/go-binance/v2"

	"github.com/evdnx/gomp/logger"
	"github.com/evdnx/gomp/types"
)

// BinanceSource subscribes to one kline websocket per symbol and forwards
// only final (closed) bars.
type BinanceSource struct {
	out   chan types.Candle
	stops []chan struct{}
	log   logger.Logger
}

func NewBinanceSource(symbols []string, interval string, log logger.Logger) (*BinanceSource, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("feed: no symbols")
	}
	s := &BinanceSource{
		out: make(chan types.Candle, 256),
		log: log,
	}
	for _, sym := range symbols {
		symbol := sym
		handler := func(ev *binance.WsKlineEvent) {
			if !ev.Kline.IsFinal {
				return
			}
			c, err := klineToCandle(symbol, ev)
			if err != nil {
				s.log.Warn("kline_parse_error", logger.String("symbol", symbol), logger.Err(err))
				return
			}
			s.out <- c
		}
		errHandler := func(err error) {
			s.log.Error("kline_stream_error", logger.String("symbol", symbol), logger.Err(err))
		}
		_, stopC, err := binance.WsKlineServe(symbol, interval, handler, errHandler)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("feed: subscribe %s: %w", symbol, err)
		}
		s.stops = append(s.stops, stopC)
	}
	return s, nil
}

func (s *BinanceSource) Candles() <-chan types.Candle { return s.out }

func (s *BinanceSource) Close() error {
	for _, stop := range s.stops {
		close(stop)
	}
	s.stops = nil
	return nil
}

func klineToCandle(symbol string, ev *binance.WsKlineEvent) (types.Candle, error) {
	o, err := strconv.ParseFloat(ev.Kline.Open, 64)
	if err != nil {
		return types.Candle{}, err
	}
	h, err := strconv.ParseFloat(ev.Kline.High, 64)
	if err != nil {
		return types.Candle{}, err
	}
	l, err := strconv.ParseFloat(ev.Kline.Low, 64)
	if err != nil {
		return types.Candle{}, err
	}
	c, err := strconv.ParseFloat(ev.Kline.Close, 64)
	if err != nil {
		return types.Candle{}, err
	}
	v, err := strconv.ParseFloat(ev.Kline.Volume, 64)
	if err != nil {
		return types.Candle{}, err
	}
	return types.Candle{
		Symbol: symbol,
		Open:   o,
		High:   h,
		Low:    l,
		Close:  c,
		Volume: v,
		Start:  time.UnixMilli(ev.Kline.StartTime),
	}, nil
}
