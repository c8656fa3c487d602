package feed

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Thomas18181818/avwap-bot/market"
)

// wsBar is the wire form of one closed bar from the market-data gateway.
type wsBar struct {
	Time   int64   `json:"t"` // unix milliseconds of the bar close
	Open   float64 `json:"o"`
	High   float64 `json:"h"`
	Low    float64 `json:"l"`
	Close  float64 `json:"c"`
	Volume float64 `json:"v"`
}

// WSSource streams closed bars from a websocket gateway. The read pump runs
// until the connection drops or Close is called; the engine only ever sees
// the bar channel.
type WSSource struct {
	conn *websocket.Conn
	bars chan market.Bar
	done chan struct{}
	err  error
}

func NewWSSource(url string) (*WSSource, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial bar feed %s: %w", url, err)
	}

	s := &WSSource{
		conn: conn,
		bars: make(chan market.Bar, 64),
		done: make(chan struct{}),
	}
	go s.pump()
	return s, nil
}

func (s *WSSource) pump() {
	defer close(s.bars)

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			select {
			case <-s.done:
				// Closed on purpose; not a failure.
			default:
				s.err = fmt.Errorf("bar feed read: %w", err)
			}
			return
		}

		var wb wsBar
		if err := json.Unmarshal(raw, &wb); err != nil {
			// Unknown frame (heartbeat, ack); skip it.
			continue
		}
		if wb.Time == 0 {
			continue
		}

		bar := market.Bar{
			Time:   time.UnixMilli(wb.Time).UTC(),
			Open:   wb.Open,
			High:   wb.High,
			Low:    wb.Low,
			Close:  wb.Close,
			Volume: wb.Volume,
		}

		select {
		case s.bars <- bar:
		case <-s.done:
			return
		}
	}
}

func (s *WSSource) Bars() <-chan market.Bar { return s.bars }

func (s *WSSource) Err() error { return s.err }

func (s *WSSource) Close() error {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	return s.conn.Close()
}
