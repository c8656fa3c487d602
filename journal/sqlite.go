package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordDecision(d DecisionRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO decisions
		(bar_time, instrument, vwap, vwap_ok, veto_code, order_id, quantity)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.BarTime, d.Instrument, d.VWAP, d.VWAPOK, d.VetoCode, d.OrderID, d.Quantity,
	)
	return err
}

func (j *SQLiteJournal) RecordOrder(o OrderRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO orders
		(order_id, instrument, state, filled_qty, avg_price, time)
		VALUES (?, ?, ?, ?, ?, ?)`,
		o.OrderID, o.Instrument, o.State, o.FilledQty, o.AvgPrice, o.Time,
	)
	return err
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
