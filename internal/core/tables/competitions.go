package tables

import (
	"github.com/JonMunkholm/standings/internal/core"
)

func init() {
	registerCompetitions()
}

// Region and type are ids into the reference tables; the store enforces them.
func registerCompetitions() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:           core.TableCompetitions,
			Label:         "Competitions",
			Table:         "competitions",
			NaturalColumn: "code",
		},
		FieldSpecs: []core.FieldSpec{
			{Name: "event_id", DBColumn: "code", Type: core.FieldText, Required: true},
			{Name: "event_name", DBColumn: "name", Type: core.FieldText, Required: true},
			{Name: "event_region", DBColumn: "region_id", Type: core.FieldInteger},
			{Name: "event_type", DBColumn: "type_id", Type: core.FieldInteger, Required: true},
			{Name: "event_start_date", DBColumn: "start_date", Type: core.FieldDate, Required: true},
			{Name: "event_end_date", DBColumn: "end_date", Type: core.FieldDate, Required: true},
			{Name: "event_city", DBColumn: "city", Type: core.FieldText},
			{Name: "event_country", DBColumn: "country", Type: core.FieldText, Required: true},
			{Name: "number_of_players", DBColumn: "player_count", Type: core.FieldInteger, Required: true},
			{Name: "is_online", DBColumn: "is_online", Type: core.FieldBool, Required: true},
		},
		BuildRecord: func(row []string, idx core.HeaderIndex) (core.Record, error) {
			rec := core.NewRecord(0)
			rec.Values["code"] = core.ToPgText(getCell(row, idx, "event_id"))
			rec.Values["name"] = core.ToPgText(getCell(row, idx, "event_name"))
			rec.Values["region_id"] = core.ToPgInt4(getCell(row, idx, "event_region"))
			rec.Values["type_id"] = core.ToPgInt4(getCell(row, idx, "event_type"))
			rec.Values["start_date"] = core.ToPgDate(getCell(row, idx, "event_start_date"))
			rec.Values["end_date"] = core.ToPgDate(getCell(row, idx, "event_end_date"))
			rec.Values["city"] = core.ToPgText(getCell(row, idx, "event_city"))
			rec.Values["country"] = core.ToPgText(normalized(getCell(row, idx, "event_country"), NormalizeCountry))
			rec.Values["player_count"] = core.ToPgInt4(getCell(row, idx, "number_of_players"))
			rec.Values["is_online"] = core.ToPgBool(getCell(row, idx, "is_online"))
			return rec, nil
		},
	})
}
