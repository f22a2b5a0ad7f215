// Package schema holds the table layout the importer writes to.
//
// The PostgreSQL schema is owned outside this program; [Check] only verifies
// that the expected tables and columns are present before a run starts.
// [Apply] creates the same layout in a fresh SQLite store for local runs and
// tests.
package schema

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/standings/internal/store"
)

// ErrMismatch indicates the store does not have the expected tables or columns.
var ErrMismatch = errors.New("schema mismatch")

// Table describes one table of the layout.
type Table struct {
	Name    string
	Columns []string

	postgres string
	sqlite   string
}

// Tables lists the layout in foreign-key dependency order.
var Tables = []Table{
	{
		Name:    "competition_types",
		Columns: []string{"id", "name"},
		postgres: `CREATE TABLE IF NOT EXISTS competition_types (
	id   SERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
)`,
		sqlite: `CREATE TABLE IF NOT EXISTS competition_types (
	id   INTEGER PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
)`,
	},
	{
		Name:    "regions",
		Columns: []string{"id", "name"},
		postgres: `CREATE TABLE IF NOT EXISTS regions (
	id   SERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
)`,
		sqlite: `CREATE TABLE IF NOT EXISTS regions (
	id   INTEGER PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
)`,
	},
	{
		Name:    "competitors",
		Columns: []string{"id", "competitor_id", "display_name", "club", "country"},
		postgres: `CREATE TABLE IF NOT EXISTS competitors (
	id            SERIAL PRIMARY KEY,
	competitor_id TEXT NOT NULL,
	display_name  TEXT NOT NULL,
	club          TEXT,
	country       TEXT
)`,
		sqlite: `CREATE TABLE IF NOT EXISTS competitors (
	id            INTEGER PRIMARY KEY,
	competitor_id TEXT NOT NULL,
	display_name  TEXT NOT NULL,
	club          TEXT,
	country       TEXT
)`,
	},
	{
		Name: "competitions",
		Columns: []string{
			"id", "code", "name", "region_id", "type_id", "start_date", "end_date",
			"city", "country", "player_count", "is_online",
		},
		postgres: `CREATE TABLE IF NOT EXISTS competitions (
	id           SERIAL PRIMARY KEY,
	code         TEXT NOT NULL UNIQUE,
	name         TEXT NOT NULL,
	region_id    INTEGER REFERENCES regions (id),
	type_id      INTEGER NOT NULL REFERENCES competition_types (id),
	start_date   DATE NOT NULL,
	end_date     DATE NOT NULL,
	city         TEXT,
	country      TEXT NOT NULL,
	player_count INTEGER NOT NULL,
	is_online    BOOLEAN NOT NULL
)`,
		sqlite: `CREATE TABLE IF NOT EXISTS competitions (
	id           INTEGER PRIMARY KEY,
	code         TEXT NOT NULL UNIQUE,
	name         TEXT NOT NULL,
	region_id    INTEGER REFERENCES regions (id),
	type_id      INTEGER NOT NULL REFERENCES competition_types (id),
	start_date   TEXT NOT NULL,
	end_date     TEXT NOT NULL,
	city         TEXT,
	country      TEXT NOT NULL,
	player_count INTEGER NOT NULL,
	is_online    INTEGER NOT NULL
)`,
	},
	{
		Name:    "competition_results",
		Columns: []string{"id", "competition_id", "competitor_id", "placement", "score"},
		postgres: `CREATE TABLE IF NOT EXISTS competition_results (
	id             SERIAL PRIMARY KEY,
	competition_id INTEGER NOT NULL REFERENCES competitions (id),
	competitor_id  INTEGER NOT NULL REFERENCES competitors (id),
	placement      INTEGER NOT NULL,
	score          NUMERIC
)`,
		sqlite: `CREATE TABLE IF NOT EXISTS competition_results (
	id             INTEGER PRIMARY KEY,
	competition_id INTEGER NOT NULL REFERENCES competitions (id),
	competitor_id  INTEGER NOT NULL REFERENCES competitors (id),
	placement      INTEGER NOT NULL,
	score          NUMERIC
)`,
	},
}

// DDL returns the CREATE statements for the dialect, in dependency order.
func DDL(d store.Dialect) []string {
	stmts := make([]string, 0, len(Tables)+1)
	for _, t := range Tables {
		if d == store.Postgres {
			stmts = append(stmts, t.postgres)
		} else {
			stmts = append(stmts, t.sqlite)
		}
	}
	stmts = append(stmts, `CREATE INDEX IF NOT EXISTS competitors_competitor_id_idx ON competitors (competitor_id)`)
	return stmts
}

// Apply creates any missing tables.
func Apply(ctx context.Context, db *store.DB) error {
	for _, stmt := range DDL(db.Dialect) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return store.Classify(fmt.Errorf("execute ddl: %w", err))
		}
	}
	return nil
}

// Check verifies every table and column of the layout can be selected.
func Check(ctx context.Context, db *store.DB) error {
	for _, t := range Tables {
		query := fmt.Sprintf("SELECT %s FROM %s WHERE 1 = 0", strings.Join(t.Columns, ", "), t.Name)
		rows, err := db.QueryContext(ctx, query)
		if err != nil {
			if store.IsConnection(err) {
				return store.Classify(err)
			}
			return fmt.Errorf("%w: table %s: %v", ErrMismatch, t.Name, err)
		}
		_ = rows.Close()
	}
	return nil
}
