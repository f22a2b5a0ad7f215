package core

import (
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateRegistry swaps in an empty registry for the test and restores the
// real one afterwards.
func isolateRegistry(t *testing.T) {
	t.Helper()
	registryMu.Lock()
	saved := maps.Clone(registry)
	registry = make(map[string]TableDefinition)
	registryMu.Unlock()

	t.Cleanup(func() {
		registryMu.Lock()
		registry = saved
		registryMu.Unlock()
	})
}

func TestRegister_DerivesTableAndColumns(t *testing.T) {
	isolateRegistry(t)

	Register(TableDefinition{
		Info: TableInfo{Key: "results"},
		FieldSpecs: []FieldSpec{
			{Name: "player_id"},
			{Name: "placement", DBColumn: "placement"},
			{Name: "score", DBColumn: "score"},
		},
		References: []Reference{
			{Column: "competitor_id", Domain: DomainCompetitor, Field: "player_id"},
			{Column: "competition_id", Domain: DomainCompetition},
		},
	})

	def, ok := Get("results")
	require.True(t, ok)
	assert.Equal(t, "results", def.Info.Table)
	assert.Equal(t, []string{"placement", "score", "competitor_id", "competition_id"}, def.Info.Columns)
}

func TestRegister_PanicsOnDuplicate(t *testing.T) {
	isolateRegistry(t)

	Register(TableDefinition{Info: TableInfo{Key: "competitors"}})
	assert.Panics(t, func() {
		Register(TableDefinition{Info: TableInfo{Key: "competitors"}})
	})
}

func TestRegistryLookups(t *testing.T) {
	isolateRegistry(t)

	Register(TableDefinition{Info: TableInfo{Key: "b"}})
	Register(TableDefinition{Info: TableInfo{Key: "a"}})

	assert.Equal(t, 2, TableCount())

	all := All()
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].Info.Key)

	_, err := MustGet("missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown table "missing"`)
}
