// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists price records in a SQLite index so parsed batches
// can be accumulated across runs, queried, and exported.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mihiarc/stumpage/pkg/types"
)

// Store manages the price index database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the index at dbPath, creating the schema when it
// does not exist.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS prices (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			state TEXT NOT NULL DEFAULT '',
			year INTEGER NOT NULL,
			period TEXT NOT NULL DEFAULT '',
			region TEXT NOT NULL DEFAULT '',
			species TEXT NOT NULL,
			product_type TEXT NOT NULL,
			price_low REAL NOT NULL,
			price_high REAL NOT NULL,
			unit TEXT NOT NULL,
			period_dates TEXT NOT NULL DEFAULT '',
			source_file TEXT NOT NULL DEFAULT '',
			UNIQUE(state, year, period, region, species, product_type, unit)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_prices_year ON prices(year)`,
		`CREATE INDEX IF NOT EXISTS idx_prices_species ON prices(species)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// IngestSummary holds counts from one ingestion run.
type IngestSummary struct {
	Inserted int
	Updated  int
	Rejected int
}

// Total returns the number of records processed.
func (s IngestSummary) Total() int {
	return s.Inserted + s.Updated + s.Rejected
}

// Ingest upserts records on their natural key. Existing observations for
// the same state/year/period/region/species/product/unit are overwritten;
// records failing validation are counted and skipped.
func (s *Store) Ingest(ctx context.Context, records []types.PriceRecord, w io.Writer) (IngestSummary, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	exists, err := tx.PrepareContext(ctx, `
		SELECT 1 FROM prices
		WHERE state = ? AND year = ? AND period = ? AND region = ?
		  AND species = ? AND product_type = ? AND unit = ?`)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("preparing lookup: %w", err)
	}
	defer exists.Close()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO prices
			(state, year, period, region, species, product_type,
			 price_low, price_high, unit, period_dates, source_file)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(state, year, period, region, species, product_type, unit)
		DO UPDATE SET
			price_low = excluded.price_low,
			price_high = excluded.price_high,
			period_dates = excluded.period_dates,
			source_file = excluded.source_file`)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	var summary IngestSummary
	for _, r := range records {
		if err := r.Validate(); err != nil {
			summary.Rejected++
			fmt.Fprintf(w, "rejected: %s (%v)\n", r.Key(), err)
			continue
		}

		var one int
		err := exists.QueryRowContext(ctx,
			r.State, r.Year, r.Period, r.Region, r.Species, r.ProductType, r.Unit).Scan(&one)
		known := err == nil
		if err != nil && err != sql.ErrNoRows {
			return summary, fmt.Errorf("looking up %s: %w", r.Key(), err)
		}

		if _, err := stmt.ExecContext(ctx,
			r.State, r.Year, r.Period, r.Region, r.Species, r.ProductType,
			r.PriceLow, r.PriceHigh, r.Unit, r.PeriodDates, r.SourceFile); err != nil {
			return summary, fmt.Errorf("upserting %s: %w", r.Key(), err)
		}

		if known {
			summary.Updated++
		} else {
			summary.Inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("committing: %w", err)
	}

	fmt.Fprintf(w, "ingested: %d inserted, %d updated, %d rejected\n",
		summary.Inserted, summary.Updated, summary.Rejected)
	return summary, nil
}

// QueryOptions filter index queries. Zero values mean "no filter".
type QueryOptions struct {
	State   string
	Species string
	Product string
	Region  string
	Year    int
}

// IsEmpty reports whether no filter is set.
func (o QueryOptions) IsEmpty() bool {
	return o.State == "" && o.Species == "" && o.Product == "" && o.Region == "" && o.Year == 0
}

// Query returns records matching the options, in presentation order.
func (s *Store) Query(ctx context.Context, opts QueryOptions) ([]types.PriceRecord, error) {
	var conds []string
	var args []any

	add := func(cond string, arg any) {
		conds = append(conds, cond)
		args = append(args, arg)
	}
	if opts.State != "" {
		add("state = ?", strings.ToUpper(opts.State))
	}
	if opts.Species != "" {
		add("species = ? COLLATE NOCASE", opts.Species)
	}
	if opts.Product != "" {
		add("product_type = ? COLLATE NOCASE", opts.Product)
	}
	if opts.Region != "" {
		add("region = ? COLLATE NOCASE", opts.Region)
	}
	if opts.Year != 0 {
		add("year = ?", opts.Year)
	}

	query := `SELECT state, year, period, region, species, product_type,
			price_low, price_high, unit, period_dates, source_file
		FROM prices`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY year, period, region, species, product_type, unit"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying prices: %w", err)
	}
	defer rows.Close()

	var records []types.PriceRecord
	for rows.Next() {
		var r types.PriceRecord
		if err := rows.Scan(&r.State, &r.Year, &r.Period, &r.Region, &r.Species,
			&r.ProductType, &r.PriceLow, &r.PriceHigh, &r.Unit,
			&r.PeriodDates, &r.SourceFile); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return records, nil
}
