package journal

const Schema = `
CREATE TABLE IF NOT EXISTS decisions (
	bar_time DATETIME NOT NULL,
	instrument TEXT NOT NULL,
	vwap REAL NOT NULL,
	vwap_ok INTEGER NOT NULL,
	veto_code TEXT NOT NULL,
	order_id TEXT NOT NULL,
	quantity INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS orders (
	order_id TEXT NOT NULL,
	instrument TEXT NOT NULL,
	state TEXT NOT NULL,
	filled_qty INTEGER NOT NULL,
	avg_price REAL NOT NULL,
	time DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_decisions_time ON decisions(bar_time);
CREATE INDEX IF NOT EXISTS idx_orders_id ON orders(order_id);
`
