package core_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/standings/internal/core"
)

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, core.CompetitorsFile, competitorsCSV)
	writeFile(t, dir, "events/2024/mro_2024.csv", mro2024CSV)
	writeFile(t, dir, "events/2024/MRO_2024_Results.CSV", mro2024ResultsCSV)
	writeFile(t, dir, "events/2023/tro_2023.csv", mro2024CSV)
	writeFile(t, dir, "events/2023/notes.txt", "ignored")

	plan, err := core.Discover(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "players", "players.csv"), plan.Competitors)
	assert.Equal(t, []core.CompetitionPair{
		{Competition: filepath.Join(dir, "events", "2023", "tro_2023.csv")},
		{
			Competition: filepath.Join(dir, "events", "2024", "mro_2024.csv"),
			Results:     filepath.Join(dir, "events", "2024", "MRO_2024_Results.CSV"),
		},
	}, plan.Competitions)
	assert.Empty(t, plan.Unpaired)
}

func TestDiscover_NoEvents(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, core.CompetitorsFile, competitorsCSV)

	_, err := core.Discover(dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrSource)
}

func TestDiscover_MissingCompetitors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "events/mro_2024.csv", mro2024CSV)

	_, err := core.Discover(dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrSource)
	assert.Equal(t, "SRC001", core.MapError(err).Code)
}

func TestDiscover_EmptyEvents(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, core.CompetitorsFile, competitorsCSV)
	writeFile(t, dir, "events/.keep", "")

	plan, err := core.Discover(dir)
	require.NoError(t, err)
	assert.Empty(t, plan.Competitions)
}

func TestDiscover_UnpairedResults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, core.CompetitorsFile, competitorsCSV)
	writeFile(t, dir, "events/2024/mro_2024.csv", mro2024CSV)
	writeFile(t, dir, "events/2024/mro_2024_results.csv", mro2024ResultsCSV)
	writeFile(t, dir, "events/2024/tro_2024_results.csv", mro2024ResultsCSV)
	writeFile(t, dir, "events/2023/ako_2023_results.csv", mro2024ResultsCSV)

	plan, err := core.Discover(dir)
	require.NoError(t, err)

	require.Len(t, plan.Competitions, 1)
	assert.Equal(t, filepath.Join(dir, "events", "2024", "mro_2024_results.csv"), plan.Competitions[0].Results)
	assert.Equal(t, []string{
		filepath.Join(dir, "events", "2023", "ako_2023_results.csv"),
		filepath.Join(dir, "events", "2024", "tro_2024_results.csv"),
	}, plan.Unpaired)
}
