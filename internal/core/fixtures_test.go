package core_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/standings/internal/core"
	_ "github.com/JonMunkholm/standings/internal/core/tables"
	"github.com/JonMunkholm/standings/internal/schema"
	"github.com/JonMunkholm/standings/internal/store"
)

const (
	competitorsCSV = "player_id,player_name,club,country\n" +
		"RC00012345,Alice Tremblay,Montreal Riichi,Canada\n" +
		"RC00067890,Bob Nguyen,Toronto Mahjong,Canada\n"

	mro2024CSV = "event_id,event_name,event_region,event_type,event_start_date,event_end_date,event_city,event_country,number_of_players,is_online\n" +
		"MRO2024,Montreal Riichi Open 2024,1,1,2024-06-01,2024-06-02,Montreal,Canada,64,0\n"

	mro2024ResultsCSV = "player_id,placement,score\n" +
		"RC00012345,1,85.5\n" +
		"unknown123456,2,40\n"
)

// openStore returns an empty SQLite store with the schema applied and the
// reference tables seeded.
func openStore(t *testing.T) *store.DB {
	t.Helper()
	ctx := context.Background()

	db, err := store.OpenSQLite(ctx, filepath.Join(t.TempDir(), "standings.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, schema.Apply(ctx, db))
	for _, stmt := range []string{
		`INSERT INTO competition_types (id, name) VALUES (1, 'Tournament'), (2, 'League')`,
		`INSERT INTO regions (id, name) VALUES (1, 'Quebec'), (2, 'Ontario')`,
	} {
		_, err := db.ExecContext(ctx, stmt)
		require.NoError(t, err)
	}
	return db
}

// writeFile writes content to dir/rel, creating parent directories.
func writeFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func mustDef(t *testing.T, key string) core.TableDefinition {
	t.Helper()
	def, err := core.MustGet(key)
	require.NoError(t, err)
	return def
}

func count(t *testing.T, db *store.DB, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRowContext(context.Background(), query, args...).Scan(&n))
	return n
}

// seedCompetitors imports the standard competitors file and returns their ids
// by natural id.
func seedCompetitors(t *testing.T, db *store.DB) map[string]int64 {
	t.Helper()
	ctx := context.Background()
	def := mustDef(t, core.TableCompetitors)

	batch, err := core.ParseCSV(ctx, bytes.NewBufferString(competitorsCSV), "players.csv", def)
	require.NoError(t, err)

	res, err := core.NewWriter(db).Append(ctx, def, batch.Records)
	require.NoError(t, err)

	ids := make(map[string]int64, len(res.Inserted))
	for _, k := range res.Inserted {
		ids[k.Natural] = k.ID
	}
	return ids
}

// seedCompetition inserts one competition directly and returns its id.
func seedCompetition(t *testing.T, db *store.DB, code string) int64 {
	t.Helper()
	var id int64
	err := db.QueryRowContext(context.Background(),
		`INSERT INTO competitions (code, name, type_id, start_date, end_date, country, player_count, is_online)
		 VALUES (?, ?, 1, '2024-06-01', '2024-06-02', 'Canada', 64, 0) RETURNING id`,
		code, code+" name",
	).Scan(&id)
	require.NoError(t, err)
	return id
}
