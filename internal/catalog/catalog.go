// Package catalog records generation runs in a SQLite database so batches can
// be audited and queried with SQL after the fact.
package catalog

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/darshanbaral/gorain/internal/synthetic"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id            TEXT PRIMARY KEY,
	created_at    TEXT NOT NULL,
	dist_name     TEXT NOT NULL,
	dist_params   TEXT NOT NULL,
	time_step_ns  INTEGER NOT NULL,
	block_low_ns  INTEGER NOT NULL,
	block_high_ns INTEGER NOT NULL,
	years         INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS series (
	run_id TEXT NOT NULL REFERENCES runs(id),
	year   INTEGER NOT NULL,
	row    INTEGER NOT NULL,
	value  REAL NOT NULL,
	PRIMARY KEY (run_id, year, row)
);
`

// Run is one recorded generation batch.
type Run struct {
	ID         string
	CreatedAt  time.Time
	DistName   string
	DistParams []float64
	TimeStep   time.Duration
	BlockLow   time.Duration
	BlockHigh  time.Duration
	Years      int
}

// Catalog wraps the backing database.
type Catalog struct {
	db *sql.DB
}

// Open opens or creates a catalog database at path.
func Open(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create catalog schema: %w", err)
	}
	return &Catalog{db: db}, nil
}

// Close closes the backing database.
func (c *Catalog) Close() error { return c.db.Close() }

// Record stores a generated batch with its provenance and returns the new
// run's identifier.
func (c *Catalog) Record(r *synthetic.Rain) (string, error) {
	id := uuid.NewString()

	tx, err := c.db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (id, created_at, dist_name, dist_params, time_step_ns, block_low_ns, block_high_ns, years)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, time.Now().UTC().Format(time.RFC3339), r.DistName, joinParams(r.DistParams),
		int64(r.Table.TimeStep), int64(r.BlockLow), int64(r.BlockHigh), r.Table.Cols(),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO series (run_id, year, row, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()
	for col, year := range r.Table.Years {
		for row, v := range r.Table.Values[col] {
			if _, err := stmt.Exec(id, year, row, v); err != nil {
				return "", fmt.Errorf("insert series value: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

// Runs lists recorded runs, newest first.
func (c *Catalog) Runs() ([]Run, error) {
	rows, err := c.db.Query(
		`SELECT id, created_at, dist_name, dist_params, time_step_ns, block_low_ns, block_high_ns, years
		 FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var created, params string
		var stepNS, lowNS, highNS int64
		if err := rows.Scan(&r.ID, &created, &r.DistName, &params, &stepNS, &lowNS, &highNS, &r.Years); err != nil {
			return nil, err
		}
		if r.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
			return nil, fmt.Errorf("run %s created_at: %w", r.ID, err)
		}
		if r.DistParams, err = splitParams(params); err != nil {
			return nil, fmt.Errorf("run %s params: %w", r.ID, err)
		}
		r.TimeStep = time.Duration(stepNS)
		r.BlockLow = time.Duration(lowNS)
		r.BlockHigh = time.Duration(highNS)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Series returns one synthetic year of a recorded run, in row order.
func (c *Catalog) Series(runID string, year int) ([]float64, error) {
	rows, err := c.db.Query(
		`SELECT value FROM series WHERE run_id = ? AND year = ? ORDER BY row`, runID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

func joinParams(params []float64) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = strconv.FormatFloat(p, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

func splitParams(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	params := make([]float64, len(parts))
	for i, part := range parts {
		p, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, err
		}
		params[i] = p
	}
	return params, nil
}
