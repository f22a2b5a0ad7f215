package core

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/JonMunkholm/standings/internal/store"
)

// WriteResult contains the rows one Append call inserted.
type WriteResult struct {
	Table    string
	Inserted []InsertedKey // In input order
}

// Writer appends resolved records to their target table.
//
// It never updates or deletes, and it does not check uniqueness itself:
// constraint violations come back from the store as classified errors.
type Writer struct {
	db *store.DB
}

// NewWriter creates a writer over db.
func NewWriter(db *store.DB) *Writer {
	return &Writer{db: db}
}

// Append inserts every record in one transaction. If the store rejects any
// row the transaction is rolled back and the error is returned, wrapping the
// classified store error.
func (w *Writer) Append(ctx context.Context, def TableDefinition, records []Record) (*WriteResult, error) {
	result := &WriteResult{Table: def.Info.Table}
	if len(records) == 0 {
		return result, nil
	}

	query := insertQuery(w.db.Dialect, def.Info)
	inserted := make([]InsertedKey, 0, len(records))

	err := w.db.WithTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return store.Classify(fmt.Errorf("prepare insert into %s: %w", def.Info.Table, err))
		}
		defer stmt.Close()

		for _, rec := range records {
			args, err := recordArgs(def.Info.Columns, rec)
			if err != nil {
				return fmt.Errorf("line %d: %w", rec.Line, err)
			}

			var (
				key     InsertedKey
				natural sql.NullString
			)
			dest := []any{&key.ID}
			if def.Info.NaturalColumn != "" {
				dest = append(dest, &natural)
			}

			if err := stmt.QueryRowContext(ctx, args...).Scan(dest...); err != nil {
				return fmt.Errorf("insert into %s line %d: %w", def.Info.Table, rec.Line, store.Classify(err))
			}
			key.Natural = natural.String
			inserted = append(inserted, key)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Inserted = inserted
	return result, nil
}

// insertQuery builds the insert-returning statement for a table.
func insertQuery(d store.Dialect, info TableInfo) string {
	returning := "id"
	if info.NaturalColumn != "" {
		returning += ", " + info.NaturalColumn
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		info.Table,
		strings.Join(info.Columns, ", "),
		d.Placeholders(1, len(info.Columns)),
		returning,
	)
}

// recordArgs orders a record's values by column. Columns the record does not
// carry bind as NULL.
func recordArgs(columns []string, rec Record) ([]any, error) {
	args := make([]any, len(columns))
	for i, col := range columns {
		v, err := store.Value(rec.Values[col])
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col, err)
		}
		args[i] = v
	}
	return args, nil
}
