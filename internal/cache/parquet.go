package cache

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb"

	"github.com/rxtech-lab/argo-optchain/internal/types"
)

// ParquetCodec stores a dataset as a Parquet file through an in-memory DuckDB instance.
// Each row carries an id bookkeeping column that Read drops.
type ParquetCodec struct{}

// Format implements Codec.
func (ParquetCodec) Format() Format {
	return FormatParquet
}

// Extension implements Codec.
func (ParquetCodec) Extension() string {
	return ".parquet"
}

// Write implements Codec.
func (ParquetCodec) Write(path string, dataset types.Dataset) error {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return fmt.Errorf("failed to open DuckDB connection: %w", err)
	}
	defer db.Close()

	_, err = db.Exec(`
		CREATE TABLE bars (
			id TEXT,
			date DATE,
			open DOUBLE,
			high DOUBLE,
			low DOUBLE,
			close DOUBLE,
			volume DOUBLE
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO bars (id, date, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()

		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, bar := range dataset.Bars {
		_, err = stmt.Exec(uuid.New().String(), bar.Date.Time, bar.Open, bar.High, bar.Low, bar.Close, bar.Volume)
		if err != nil {
			tx.Rollback()

			return fmt.Errorf("failed to insert bar %s: %w", bar.Date, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	_, err = db.Exec(fmt.Sprintf(`COPY bars TO '%s' (FORMAT PARQUET)`, quotePath(path)))
	if err != nil {
		return fmt.Errorf("failed to export to Parquet: %w", err)
	}

	return nil
}

// Read implements Codec.
func (ParquetCodec) Read(path string) (types.Dataset, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return types.Dataset{}, fmt.Errorf("failed to open DuckDB connection: %w", err)
	}
	defer db.Close()

	query, args, err := squirrel.
		Select("date", "open", "high", "low", "close", "volume").
		From(fmt.Sprintf("read_parquet('%s')", quotePath(path))).
		OrderBy("date ASC").
		ToSql()
	if err != nil {
		return types.Dataset{}, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return types.Dataset{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer rows.Close()

	bars := []types.PriceBar{}

	for rows.Next() {
		var (
			date time.Time
			bar  types.PriceBar
		)

		if err := rows.Scan(&date, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume); err != nil {
			return types.Dataset{}, fmt.Errorf("failed to scan row: %w", err)
		}

		bar.Date = types.NewDate(date)
		bars = append(bars, bar)
	}

	if err := rows.Err(); err != nil {
		return types.Dataset{}, fmt.Errorf("error iterating rows: %w", err)
	}

	return types.NewDataset(bars), nil
}

func quotePath(path string) string {
	return strings.ReplaceAll(path, "'", "''")
}
