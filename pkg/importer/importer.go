package importer

import (
	"context"
	"fmt"
	"io"

	"github.com/jackc/pgx/v5"
)

const defaultMaxErrors = 50

// ImportOptions defines the configuration for Excel import operations
type ImportOptions struct {
	MappingPath string // empty uses DefaultMapping
	DryRun      bool
	MaxErrors   int // default 50
}

// RowError represents an error that occurred during row processing
type RowError struct {
	Sheet   string `json:"sheet"`
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// SheetSummary contains the import statistics for a single sheet
type SheetSummary struct {
	Name     string     `json:"name"`
	Inserted int        `json:"inserted"`
	Updated  int        `json:"updated"`
	Skipped  int        `json:"skipped"`
	Errors   int        `json:"errors"`
	Samples  []RowError `json:"error_samples,omitempty"`
}

// ImportSummary contains the overall import statistics
type ImportSummary struct {
	Inserted int            `json:"inserted"`
	Updated  int            `json:"updated"`
	Skipped  int            `json:"skipped"`
	Errors   int            `json:"errors"`
	Sheets   []SheetSummary `json:"sheets"`
	DryRun   bool           `json:"dry_run"`
}

// TxBeginner is satisfied by *pgxpool.Pool and *pgx.Conn.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

const upsertRestaurant = `
INSERT INTO restaurants (id, rating, name, site, email, phone, street, city, state, lat, lng)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (id) DO UPDATE SET
	rating = EXCLUDED.rating,
	name = EXCLUDED.name,
	site = EXCLUDED.site,
	email = EXCLUDED.email,
	phone = EXCLUDED.phone,
	street = EXCLUDED.street,
	city = EXCLUDED.city,
	state = EXCLUDED.state,
	lat = EXCLUDED.lat,
	lng = EXCLUDED.lng
RETURNING (xmax = 0) AS inserted`

// ImportExcel upserts the rows of an xlsx workbook into restaurants inside a
// single transaction. A dry run performs every write and rolls back.
func ImportExcel(ctx context.Context, db TxBeginner, r io.Reader, opts ImportOptions) (ImportSummary, error) {
	if opts.MaxErrors <= 0 {
		opts.MaxErrors = defaultMaxErrors
	}

	mapping, err := LoadMapping(opts.MappingPath)
	if err != nil {
		return ImportSummary{DryRun: opts.DryRun}, fmt.Errorf("failed to load mapping config: %w", err)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return ImportSummary{DryRun: opts.DryRun}, fmt.Errorf("failed to read Excel file: %w", err)
	}

	records, summary, err := ReadWorkbook(data, mapping, opts.MaxErrors)
	summary.DryRun = opts.DryRun
	if err != nil {
		return summary, err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return summary, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback(ctx)

	sheets := make(map[string]*SheetSummary, len(summary.Sheets))
	for i := range summary.Sheets {
		sheets[summary.Sheets[i].Name] = &summary.Sheets[i]
	}

	for _, rec := range records {
		ss := sheets[rec.Sheet]
		inserted, err := upsert(ctx, tx, rec)
		if err != nil {
			ss.Errors++
			summary.Errors++
			if len(ss.Samples) < opts.MaxErrors {
				ss.Samples = append(ss.Samples, RowError{Sheet: rec.Sheet, Row: rec.Row, Message: err.Error()})
			}
			if summary.Errors > opts.MaxErrors {
				return summary, fmt.Errorf("too many errors (%d), stopping import", summary.Errors)
			}
			continue
		}
		if inserted {
			ss.Inserted++
			summary.Inserted++
		} else {
			ss.Updated++
			summary.Updated++
		}
	}

	if opts.DryRun {
		return summary, nil
	}
	if err := tx.Commit(ctx); err != nil {
		return summary, fmt.Errorf("commit import: %w", err)
	}
	return summary, nil
}

// upsert writes one record under a savepoint so a failing row does not
// abort the surrounding transaction.
func upsert(ctx context.Context, tx pgx.Tx, rec Record) (bool, error) {
	sp, err := tx.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer sp.Rollback(ctx)

	r := rec.Restaurant
	var inserted bool
	err = sp.QueryRow(ctx, upsertRestaurant,
		r.ID, r.Rating, r.Name, r.Site, r.Email, r.Phone, r.Street, r.City, r.State, r.Lat, r.Lng,
	).Scan(&inserted)
	if err != nil {
		return false, err
	}
	return inserted, sp.Commit(ctx)
}
