package tables

import (
	"context"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/standings/internal/core"
)

func parse(t *testing.T, key, data string) (*core.Batch, error) {
	t.Helper()
	def, ok := core.Get(key)
	require.True(t, ok, "table %s not registered", key)
	return core.ParseCSV(context.Background(), strings.NewReader(data), key+".csv", def)
}

func TestTablesRegistered(t *testing.T) {
	tests := []struct {
		key     string
		columns []string
		natural string
	}{
		{core.TableCompetitors, []string{"competitor_id", "display_name", "club", "country"}, "competitor_id"},
		{core.TableCompetitions, []string{"code", "name", "region_id", "type_id", "start_date", "end_date", "city", "country", "player_count", "is_online"}, "code"},
		{core.TableResults, []string{"placement", "score", "competitor_id", "competition_id"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			def, ok := core.Get(tt.key)
			require.True(t, ok)
			assert.Equal(t, tt.columns, def.Info.Columns)
			assert.Equal(t, tt.natural, def.Info.NaturalColumn)
			assert.NotNil(t, def.BuildRecord)
		})
	}
}

func TestCompetitorsBuild(t *testing.T) {
	batch, err := parse(t, core.TableCompetitors, "player_id,player_name,club,country\n rc00012345 ,Alice Tremblay,Montreal Riichi,CA\nRC00067890,Bob Nguyen,,\n")
	require.NoError(t, err)
	require.Equal(t, 2, batch.Len())

	first := batch.Records[0]
	assert.Equal(t, 2, first.Line)
	assert.Equal(t, pgtype.Text{String: "rc00012345", Valid: true}, first.Values["competitor_id"], "trimmed, case kept")
	assert.Equal(t, pgtype.Text{String: "Canada", Valid: true}, first.Values["country"])
	assert.False(t, batch.Records[1].Values["club"].(pgtype.Text).Valid)
	assert.Empty(t, first.Keys)
}

func TestCompetitorsMissingName(t *testing.T) {
	_, err := parse(t, core.TableCompetitors, "player_id,club\nRC00012345,Montreal Riichi\n")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrSource)
	assert.Contains(t, err.Error(), "player_name")
}

func TestCompetitionsBuild(t *testing.T) {
	data := "event_id,event_name,event_region,event_type,event_start_date,event_end_date,event_city,event_country,number_of_players,is_online\n" +
		"mro2024,Montreal Riichi Open 2024,2,1,2024-06-01,2024-06-02,Montreal,Canada,64,0\n"

	batch, err := parse(t, core.TableCompetitions, data)
	require.NoError(t, err)
	require.Equal(t, 1, batch.Len())

	v := batch.Records[0].Values
	assert.Equal(t, pgtype.Text{String: "mro2024", Valid: true}, v["code"])
	assert.Equal(t, pgtype.Int4{Int32: 2, Valid: true}, v["region_id"])
	assert.Equal(t, pgtype.Int4{Int32: 64, Valid: true}, v["player_count"])
	assert.Equal(t, pgtype.Bool{Bool: false, Valid: true}, v["is_online"])
	assert.True(t, v["start_date"].(pgtype.Date).Valid)
}

func TestCompetitionsInvalidDate(t *testing.T) {
	data := "event_id,event_name,event_region,event_type,event_start_date,event_end_date,event_city,event_country,number_of_players,is_online\n" +
		"MRO2024,Montreal Riichi Open 2024,,1,June-ish,2024-06-02,Montreal,Canada,64,0\n"

	_, err := parse(t, core.TableCompetitions, data)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidRow)
	assert.Contains(t, err.Error(), "line 2")
}

func TestResultsBuild(t *testing.T) {
	data := "event_id,player_id,player_ref,placement,score\n" +
		"IGNORED,rc00012345,,1,85.5\n" +
		"IGNORED,,7,2,12\n" +
		"IGNORED,,,3,\n"

	batch, err := parse(t, core.TableResults, data)
	require.NoError(t, err)
	require.Equal(t, 3, batch.Len())

	assert.Equal(t, map[string]string{"competitor_id": "rc00012345"}, batch.Records[0].Keys)
	assert.Empty(t, batch.Records[0].Refs)
	assert.NotContains(t, batch.Records[0].Keys, "competition_id", "competition comes from the importer")

	assert.Equal(t, map[string]int64{"competitor_id": 7}, batch.Records[1].Refs)
	assert.Empty(t, batch.Records[1].Keys)

	assert.Empty(t, batch.Records[2].Keys)
	assert.Empty(t, batch.Records[2].Refs)
	assert.False(t, batch.Records[2].Values["score"].(pgtype.Numeric).Valid)
}

func TestResultsRequireCompetitorColumn(t *testing.T) {
	_, err := parse(t, core.TableResults, "placement,score\n1,10\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "player_id or player_ref")
}

func TestResultsRejectBadRef(t *testing.T) {
	_, err := parse(t, core.TableResults, "player_ref,placement\n0,1\n")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidRow)
}

func TestCompetitorIDsKeptAsWritten(t *testing.T) {
	batch, err := parse(t, core.TableCompetitors, "player_id,player_name\nRC1,Upper\nrc1,Lower\nRC 1,Spaced\n")
	require.NoError(t, err)
	require.Equal(t, 3, batch.Len())

	var ids []string
	for _, rec := range batch.Records {
		ids = append(ids, rec.Values["competitor_id"].(pgtype.Text).String)
	}
	assert.Equal(t, []string{"RC1", "rc1", "RC 1"}, ids)
}

func TestNormalizeCountry(t *testing.T) {
	assert.Equal(t, "Canada", NormalizeCountry("can"))
	assert.Equal(t, "Atlantis", NormalizeCountry(" Atlantis "))
}
