package store

const Schema = `
CREATE TABLE IF NOT EXISTS chart_candles (
	id TEXT PRIMARY KEY,
	symbol TEXT NOT NULL,
	interval TEXT NOT NULL,
	timestamp INTEGER NOT NULL,
	open REAL NOT NULL,
	high REAL NOT NULL,
	low REAL NOT NULL,
	close REAL NOT NULL,
	volume INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_chart_candles_series ON chart_candles(symbol, interval, timestamp);

CREATE TABLE IF NOT EXISTS series_runs (
	run_id TEXT PRIMARY KEY,
	symbol TEXT NOT NULL,
	interval TEXT NOT NULL,
	created DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS indicator_series (
	run_id TEXT NOT NULL REFERENCES series_runs(run_id),
	name TEXT NOT NULL,
	timestamp INTEGER NOT NULL,
	value REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_indicator_series_run ON indicator_series(run_id);
`
