package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

type CSVJournal struct {
	decisions *csv.Writer
	orders    *csv.Writer
	df, of    *os.File
}

func NewCSV(decisionsPath, ordersPath string) (*CSVJournal, error) {
	df, err := os.Create(decisionsPath)
	if err != nil {
		return nil, err
	}
	of, err := os.Create(ordersPath)
	if err != nil {
		return nil, err
	}

	dw := csv.NewWriter(df)
	ow := csv.NewWriter(of)

	if err := dw.Write([]string{"bar_time", "instrument", "vwap", "vwap_ok", "veto_code", "order_id", "quantity"}); err != nil {
		return nil, err
	}
	if err := ow.Write([]string{"order_id", "instrument", "state", "filled_qty", "avg_price", "time"}); err != nil {
		return nil, err
	}

	dw.Flush()
	if err := dw.Error(); err != nil {
		return nil, err
	}
	ow.Flush()
	if err := ow.Error(); err != nil {
		return nil, err
	}

	return &CSVJournal{dw, ow, df, of}, nil
}

func (j *CSVJournal) RecordDecision(d DecisionRecord) error {
	err := j.decisions.Write([]string{
		d.BarTime.Format(time.RFC3339),
		d.Instrument,
		f(d.VWAP),
		strconv.FormatBool(d.VWAPOK),
		d.VetoCode,
		d.OrderID,
		strconv.Itoa(d.Quantity),
	})
	if err != nil {
		return err
	}

	j.decisions.Flush()
	return j.decisions.Error()
}

func (j *CSVJournal) RecordOrder(o OrderRecord) error {
	err := j.orders.Write([]string{
		o.OrderID,
		o.Instrument,
		o.State,
		strconv.Itoa(o.FilledQty),
		f(o.AvgPrice),
		o.Time.Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	j.orders.Flush()
	return j.orders.Error()
}

func (j *CSVJournal) Close() error {
	j.decisions.Flush()
	if err := j.decisions.Error(); err != nil {
		return err
	}
	j.orders.Flush()
	if err := j.orders.Error(); err != nil {
		return err
	}

	if err := j.df.Close(); err != nil {
		return err
	}
	if err := j.of.Close(); err != nil {
		return err
	}
	return nil
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
