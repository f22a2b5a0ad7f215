package core_test

import (
	"bytes"
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/standings/internal/core"
	"github.com/JonMunkholm/standings/internal/store"
)

func itoa(n int64) string { return strconv.FormatInt(n, 10) }

func parseCompetition(t *testing.T, data string) *core.Batch {
	t.Helper()
	batch, err := core.ParseCSV(context.Background(), bytes.NewBufferString(data), "mro_2024.csv", mustDef(t, core.TableCompetitions))
	require.NoError(t, err)
	return batch
}

func TestWriter_ReturnsInsertedKeys(t *testing.T) {
	db := openStore(t)
	ids := seedCompetitors(t, db)

	require.Len(t, ids, 2)
	assert.NotEqual(t, ids["RC00012345"], ids["RC00067890"])
	assert.Equal(t, 2, count(t, db, `SELECT COUNT(*) FROM competitors`))
	assert.Equal(t, "Alice Tremblay", queryString(t, db,
		`SELECT display_name FROM competitors WHERE id = ?`, ids["RC00012345"]))
}

func TestWriter_Competition(t *testing.T) {
	db := openStore(t)
	def := mustDef(t, core.TableCompetitions)

	res, err := core.NewWriter(db).Append(context.Background(), def, parseCompetition(t, mro2024CSV).Records)
	require.NoError(t, err)
	require.Len(t, res.Inserted, 1)
	assert.Equal(t, "competitions", res.Table)
	assert.Equal(t, "MRO2024", res.Inserted[0].Natural)

	assert.Equal(t, "2024-06-01", queryString(t, db,
		`SELECT strftime('%Y-%m-%d', start_date) FROM competitions WHERE id = ?`, res.Inserted[0].ID))
	assert.Equal(t, 1, count(t, db, `SELECT is_online = 0 FROM competitions WHERE id = ?`, res.Inserted[0].ID))
}

func TestWriter_EmptyInput(t *testing.T) {
	db := openStore(t)

	res, err := core.NewWriter(db).Append(context.Background(), mustDef(t, core.TableCompetitors), nil)
	require.NoError(t, err)
	assert.Empty(t, res.Inserted)
	assert.Zero(t, count(t, db, `SELECT COUNT(*) FROM competitors`))
}

func TestWriter_RollsBackOnViolation(t *testing.T) {
	db := openStore(t)
	def := mustDef(t, core.TableCompetitions)

	// Second row repeats the code of the first.
	data := mro2024CSV + "MRO2024,Again,1,1,2024-06-01,2024-06-02,Montreal,Canada,64,0\n"
	_, err := core.NewWriter(db).Append(context.Background(), def, parseCompetition(t, data).Records)
	require.Error(t, err)
	assert.True(t, store.IsUniqueViolation(err))
	assert.ErrorIs(t, err, store.ErrConstraint)
	assert.Contains(t, err.Error(), "line 3")

	assert.Zero(t, count(t, db, `SELECT COUNT(*) FROM competitions`))
}

func TestWriter_ForeignKeyViolation(t *testing.T) {
	db := openStore(t)
	def := mustDef(t, core.TableCompetitions)

	// Region 7 does not exist.
	data := "event_id,event_name,event_region,event_type,event_start_date,event_end_date,event_country,number_of_players,is_online\n" +
		"X2024,X,7,1,2024-06-01,2024-06-02,Canada,8,1\n"
	_, err := core.NewWriter(db).Append(context.Background(), def, parseCompetition(t, data).Records)
	require.Error(t, err)
	assert.True(t, store.IsForeignKeyViolation(err))
}

func TestWriter_AppendOnlyCompetitors(t *testing.T) {
	db := openStore(t)

	seedCompetitors(t, db)
	seedCompetitors(t, db)

	assert.Equal(t, 4, count(t, db, `SELECT COUNT(*) FROM competitors`))
	assert.Equal(t, 2, count(t, db, `SELECT COUNT(*) FROM competitors WHERE competitor_id = ?`, "RC00012345"))
}

func queryString(t *testing.T, db *store.DB, query string, args ...any) string {
	t.Helper()
	var s string
	require.NoError(t, db.QueryRowContext(context.Background(), query, args...).Scan(&s))
	return s
}
