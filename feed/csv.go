package feed

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/Thomas18181818/avwap-bot/market"
)

// CSVSource replays closed bars from a CSV file with the header
// time,open,high,low,close,volume and RFC3339 timestamps.
type CSVSource struct {
	bars chan market.Bar
	done chan struct{}
	err  error
}

func NewCSVSource(path string) (*CSVSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bar file: %w", err)
	}

	s := &CSVSource{
		bars: make(chan market.Bar, 64),
		done: make(chan struct{}),
	}
	go s.pump(f)
	return s, nil
}

func (s *CSVSource) pump(f *os.File) {
	defer close(s.bars)
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 6

	line := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return
		}
		if err != nil {
			s.err = fmt.Errorf("read bar file: %w", err)
			return
		}
		line++
		if line == 1 && rec[0] == "time" {
			continue
		}

		bar, err := parseBar(rec)
		if err != nil {
			s.err = fmt.Errorf("line %d: %w", line, err)
			return
		}

		select {
		case s.bars <- bar:
		case <-s.done:
			return
		}
	}
}

func parseBar(rec []string) (market.Bar, error) {
	ts, err := time.Parse(time.RFC3339, rec[0])
	if err != nil {
		return market.Bar{}, fmt.Errorf("bad timestamp %q: %w", rec[0], err)
	}

	vals := make([]float64, 5)
	for i := 1; i < 6; i++ {
		v, err := strconv.ParseFloat(rec[i], 64)
		if err != nil {
			return market.Bar{}, fmt.Errorf("bad field %q: %w", rec[i], err)
		}
		vals[i-1] = v
	}

	return market.Bar{
		Time:   ts,
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: vals[4],
	}, nil
}

func (s *CSVSource) Bars() <-chan market.Bar { return s.bars }

func (s *CSVSource) Err() error { return s.err }

func (s *CSVSource) Close() error {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	return nil
}
