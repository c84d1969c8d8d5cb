// Package store persists candles and computed indicator runs in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/chartlab/internal/logging"
	"github.com/rustyeddy/chartlab/market"
	"github.com/rustyeddy/chartlab/pkg/id"
)

var log = logging.For("store")

// ErrRunNotFound is returned when a run id is not in the store.
var ErrRunNotFound = errors.New("run not found")

type SQLite struct {
	db  *sql.DB
	ids *id.Generator
	now func() time.Time
}

// Run describes one saved set of indicator series.
type Run struct {
	ID       string          `json:"runId"`
	Symbol   string          `json:"symbol"`
	Interval market.Interval `json:"interval"`
	Created  time.Time       `json:"created"`
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// one writer; also keeps ":memory:" databases on a single connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	log.WithField("path", path).Debug("opened candle store")
	return &SQLite{db: db, ids: id.NewGenerator(0, nil), now: time.Now}, nil
}

func candleID(symbol string, iv market.Interval, ts int64) string {
	return fmt.Sprintf("%s_%s_%d", symbol, iv, ts)
}

const candleColumns = `timestamp, open, high, low, close, volume`

// Candles returns every stored candle for (symbol, interval), oldest first.
func (s *SQLite) Candles(ctx context.Context, symbol string, iv market.Interval) ([]market.Candle, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+candleColumns+`
		FROM chart_candles
		WHERE symbol = ? AND interval = ?
		ORDER BY timestamp ASC`, symbol, string(iv))
	if err != nil {
		return nil, err
	}
	return scanCandles(rows)
}

// CandlesBetween returns candles with timestamp in [start, end).
func (s *SQLite) CandlesBetween(ctx context.Context, symbol string, iv market.Interval, start, end int64) ([]market.Candle, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+candleColumns+`
		FROM chart_candles
		WHERE symbol = ? AND interval = ? AND timestamp >= ? AND timestamp < ?
		ORDER BY timestamp ASC`, symbol, string(iv), start, end)
	if err != nil {
		return nil, err
	}
	return scanCandles(rows)
}

func scanCandles(rows *sql.Rows) ([]market.Candle, error) {
	defer rows.Close()

	var out []market.Candle
	for rows.Next() {
		var c market.Candle
		if err := rows.Scan(
			&c.Timestamp,
			&c.Open,
			&c.High,
			&c.Low,
			&c.Close,
			&c.Volume,
		); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ReplaceCandles atomically swaps the stored candles for (symbol, interval).
func (s *SQLite) ReplaceCandles(ctx context.Context, symbol string, iv market.Interval, candles []market.Candle) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM chart_candles WHERE symbol = ? AND interval = ?`, symbol, string(iv)); err != nil {
			return err
		}
		return insertCandles(ctx, tx, symbol, iv, candles)
	})
}

// UpsertCandles inserts candles, overwriting any with the same timestamp.
func (s *SQLite) UpsertCandles(ctx context.Context, symbol string, iv market.Interval, candles []market.Candle) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return insertCandles(ctx, tx, symbol, iv, candles)
	})
}

func insertCandles(ctx context.Context, tx *sql.Tx, symbol string, iv market.Interval, candles []market.Candle) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO chart_candles
		(id, symbol, interval, `+candleColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range candles {
		if _, err := stmt.ExecContext(ctx,
			candleID(symbol, iv, c.Timestamp), symbol, string(iv),
			c.Timestamp, c.Open, c.High, c.Low, c.Close, c.Volume,
		); err != nil {
			return fmt.Errorf("insert candle %d: %w", c.Timestamp, err)
		}
	}
	return nil
}

// DeleteCandlesBefore prunes candles older than ts and reports how many went.
func (s *SQLite) DeleteCandlesBefore(ctx context.Context, symbol string, iv market.Interval, ts int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM chart_candles
		WHERE symbol = ? AND interval = ? AND timestamp < ?`, symbol, string(iv), ts)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SaveRun persists a set of named series under a fresh run id.
func (s *SQLite) SaveRun(ctx context.Context, symbol string, iv market.Interval, series []market.NamedSeries) (Run, error) {
	run := Run{
		ID:       s.ids.New(),
		Symbol:   symbol,
		Interval: iv,
		Created:  s.now().UTC(),
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO series_runs (run_id, symbol, interval, created)
			VALUES (?, ?, ?, ?)`, run.ID, run.Symbol, string(run.Interval), run.Created); err != nil {
			return err
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO indicator_series (run_id, name, timestamp, value)
			VALUES (?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, ns := range series {
			for _, p := range ns.Series {
				if _, err := stmt.ExecContext(ctx, run.ID, ns.Name, p.Timestamp, p.Value); err != nil {
					return fmt.Errorf("insert %s point: %w", ns.Name, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return Run{}, err
	}

	log.WithField("run", run.ID).Infof("saved %d series for %s/%s", len(series), symbol, iv)
	return run, nil
}

// GetRun loads a run header.
func (s *SQLite) GetRun(ctx context.Context, runID string) (Run, error) {
	var (
		run Run
		iv  string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT run_id, symbol, interval, created
		FROM series_runs
		WHERE run_id = ?`, runID).Scan(&run.ID, &run.Symbol, &iv, &run.Created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, fmt.Errorf("run %q: %w", runID, ErrRunNotFound)
		}
		return Run{}, err
	}
	run.Interval = market.Interval(iv)
	return run, nil
}

// ListRuns returns the runs for symbol, newest first. An empty symbol
// lists every run.
func (s *SQLite) ListRuns(ctx context.Context, symbol string) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, symbol, interval, created
		FROM series_runs
		WHERE ? = '' OR symbol = ?
		ORDER BY run_id DESC`, symbol, symbol)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			run Run
			iv  string
		)
		if err := rows.Scan(&run.ID, &run.Symbol, &iv, &run.Created); err != nil {
			return nil, err
		}
		run.Interval = market.Interval(iv)
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// RunSeries loads the series saved under runID in the order they were saved.
// Series that had no points are not recorded and so do not come back.
func (s *SQLite) RunSeries(ctx context.Context, runID string) ([]market.NamedSeries, error) {
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, timestamp, value
		FROM indicator_series
		WHERE run_id = ?
		ORDER BY rowid ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []market.NamedSeries
	index := map[string]int{}
	for rows.Next() {
		var (
			name string
			p    market.Point
		)
		if err := rows.Scan(&name, &p.Timestamp, &p.Value); err != nil {
			return nil, err
		}
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, market.NamedSeries{Name: name})
		}
		out[i].Series = append(out[i].Series, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLite) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
