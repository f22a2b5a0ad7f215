package tables

import (
	"github.com/JonMunkholm/standings/internal/core"
)

func init() {
	registerCompetitors()
}

// Competitor ids are assigned by the federation and stored exactly as
// written, apart from surrounding whitespace.
func registerCompetitors() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:           core.TableCompetitors,
			Label:         "Competitors",
			Table:         "competitors",
			NaturalColumn: "competitor_id",
		},
		FieldSpecs: []core.FieldSpec{
			{Name: "player_id", DBColumn: "competitor_id", Type: core.FieldText, Required: true},
			{Name: "player_name", DBColumn: "display_name", Type: core.FieldText, Required: true},
			{Name: "club", DBColumn: "club", Type: core.FieldText},
			{Name: "country", DBColumn: "country", Type: core.FieldText},
		},
		BuildRecord: func(row []string, idx core.HeaderIndex) (core.Record, error) {
			rec := core.NewRecord(0)
			rec.Values["competitor_id"] = core.ToPgText(getCell(row, idx, "player_id"))
			rec.Values["display_name"] = core.ToPgText(getCell(row, idx, "player_name"))
			rec.Values["club"] = core.ToPgText(getCell(row, idx, "club"))
			rec.Values["country"] = core.ToPgText(normalized(getCell(row, idx, "country"), NormalizeCountry))
			return rec, nil
		},
	})
}
